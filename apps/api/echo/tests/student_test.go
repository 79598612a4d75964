package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/alyusr/institute/core/student"
)

func Test_StudentAPI_activeStudents(t *testing.T) {
	env := setup(t)
	token := adminToken(t, env.conf)

	newStudent := func(serial, name, teacherSerial, teacherName, courseTitle string) []byte {
		return marchallObj(t, student.NewActiveStudent{
			StudentSerial: serial, StudentName: name,
			TeacherSerial: teacherSerial, TeacherName: teacherName,
			CourseTitle: courseTitle, MonthlyFee: 30,
		})
	}

	// admin-only
	req, rec := newRequest(http.MethodGet, "/v1/active-students")
	env.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("list without token code = %v; want 401", rec.Code)
	}

	for _, body := range [][]byte{
		newStudent("std-001", "Amina K.", "tch-001", "Ust. Yusuf", "Quran Memorization"),
		newStudent("std-002", "Omar B.", "tch-001", "Ust. Yusuf", "Tajweed Foundations"),
		newStudent("std-003", "Layla M.", "tch-002", "Ust. Mariam", "Arabic Grammar"),
	} {
		req, rec = newAuthRequest(http.MethodPost, "/v1/active-students", token, body)
		env.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create code = %v; body %s", rec.Code, rec.Body.String())
		}
	}

	// missing fields are rejected
	req, rec = newAuthRequest(http.MethodPost, "/v1/active-students", token, []byte(`{"student_serial":"std-004"}`))
	env.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("create with missing fields code = %v; want 400", rec.Code)
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/active-students", token)
	env.app.ServeHTTP(rec, req)
	var students []student.ActiveStudent
	if err := json.Unmarshal(rec.Body.Bytes(), &students); err != nil {
		t.Fatalf("unmarshalling students: %v", err)
	}
	if len(students) != 3 {
		t.Fatalf("students = %d; want 3", len(students))
	}

	// teachers are grouped from the rows and publicly visible
	req, rec = newRequest(http.MethodGet, "/v1/teachers")
	env.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("teachers code = %v", rec.Code)
	}
	var teachers []student.Teacher
	if err := json.Unmarshal(rec.Body.Bytes(), &teachers); err != nil {
		t.Fatalf("unmarshalling teachers: %v", err)
	}
	if len(teachers) != 2 {
		t.Fatalf("teachers = %d; want 2", len(teachers))
	}
	if teachers[0].StudentCount != 2 {
		t.Errorf("first teacher studentCount = %d; want 2", teachers[0].StudentCount)
	}

	// remove one row, the teacher grouping follows
	req, rec = newAuthRequest(http.MethodDelete, "/v1/active-students/"+students[2].ID, token)
	env.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete code = %v", rec.Code)
	}
	req, rec = newRequest(http.MethodGet, "/v1/teachers")
	env.app.ServeHTTP(rec, req)
	teachers = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &teachers); err != nil {
		t.Fatalf("unmarshalling teachers: %v", err)
	}
	if len(teachers) != 1 {
		t.Errorf("teachers after removal = %d; want 1", len(teachers))
	}
}
