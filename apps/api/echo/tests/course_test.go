package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/alyusr/institute/core/course"
)

func Test_CourseAPI_lifecycle(t *testing.T) {
	env := setup(t)
	token := adminToken(t, env.conf)

	// create is admin-only
	body := marchallObj(t, course.NewCourse{
		Title:       "Tajweed Foundations",
		Description: "Rules of recitation from the ground up.",
		Category:    "tajweed",
		Level:       "beginner",
		Duration:    "3 months",
		Price:       25,
	})
	req, rec := newRequest(http.MethodPost, "/v1/courses", body)
	env.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("create without token code = %v; want 401", rec.Code)
	}

	req, rec = newAuthRequest(http.MethodPost, "/v1/courses", token, body)
	env.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create code = %v; body %s", rec.Code, rec.Body.String())
	}
	var created course.Course
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshalling created course: %v", err)
	}
	if !created.IsActive.Valid || !created.IsActive.Bool {
		t.Errorf("new course should be active: %+v", created.IsActive)
	}

	// validation: unknown category
	bad := []byte(`{"title":"Yoga","description":"Not one of ours, clearly.","category":"yoga","level":"all","duration":"1 month"}`)
	req, rec = newAuthRequest(http.MethodPost, "/v1/courses", token, bad)
	env.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("create with bad category code = %v; want 400", rec.Code)
	}

	// public listing only shows active courses
	listActive := func(t *testing.T) []course.Course {
		t.Helper()
		req, rec := newRequest(http.MethodGet, "/v1/courses")
		env.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("list code = %v", rec.Code)
		}
		var courses []course.Course
		if err := json.Unmarshal(rec.Body.Bytes(), &courses); err != nil {
			t.Fatalf("unmarshalling courses: %v", err)
		}
		return courses
	}
	if courses := listActive(t); len(courses) != 1 {
		t.Errorf("active courses = %d; want 1", len(courses))
	}

	req, rec = newAuthRequest(http.MethodPut, "/v1/courses/"+created.ID+"/active", token, []byte(`{"active":false}`))
	env.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("deactivate code = %v; body %s", rec.Code, rec.Body.String())
	}
	if courses := listActive(t); len(courses) != 0 {
		t.Errorf("active courses after deactivation = %d; want 0", len(courses))
	}

	// deactivated courses remain publicly retrievable and in the admin list
	req, rec = newRequest(http.MethodGet, "/v1/courses/"+created.ID)
	env.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("retrieve code = %v; want 200", rec.Code)
	}
	req, rec = newAuthRequest(http.MethodGet, "/v1/courses/all", token)
	env.app.ServeHTTP(rec, req)
	var all []course.Course
	if err := json.Unmarshal(rec.Body.Bytes(), &all); err != nil {
		t.Fatalf("unmarshalling all courses: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("all courses = %d; want 1", len(all))
	}

	req, rec = newAuthRequest(http.MethodDelete, "/v1/courses/"+created.ID, token)
	env.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete code = %v", rec.Code)
	}
	req, rec = newRequest(http.MethodGet, "/v1/courses/"+created.ID)
	env.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("retrieve after delete code = %v; want 404", rec.Code)
	}
}
