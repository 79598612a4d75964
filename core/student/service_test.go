package student_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/alyusr/institute/core/student"
	inmemdb "github.com/alyusr/institute/storage/database/inmem"
)

func setup(t *testing.T) *student.Service {
	t.Helper()
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	return student.NewService(inmemdb.NewStudentRepository(db))
}

func Test_Service_GroupTeachers(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	rows := []student.NewActiveStudent{
		{StudentSerial: "s1", StudentName: "Awe", TeacherSerial: "t2", TeacherName: "Ustadh Karim", CourseTitle: "Quran", MonthlyFee: 50},
		{StudentSerial: "s2", StudentName: "Lmao", TeacherSerial: "t1", TeacherName: "Ustadha Noor", CourseTitle: "Arabic", MonthlyFee: 40},
		{StudentSerial: "s3", StudentName: "Mdr", TeacherSerial: "t2", TeacherName: "Ustadh Karim", CourseTitle: "Tajweed", MonthlyFee: 45},
		{StudentSerial: "s4", StudentName: "Heh", TeacherSerial: "t2", TeacherName: "Ustadh Karim", CourseTitle: "Quran", MonthlyFee: 50},
	}
	for _, r := range rows {
		if _, err := svc.Add(ctx, r); err != nil {
			t.Fatalf("Add() failed: %v", err)
		}
	}

	teachers, err := svc.GroupTeachers(ctx)
	if err != nil {
		t.Fatalf("GroupTeachers() failed: %v", err)
	}

	want := []student.Teacher{
		{Serial: "t1", Name: "Ustadha Noor", StudentCount: 1, Courses: []string{"Arabic"}},
		{Serial: "t2", Name: "Ustadh Karim", StudentCount: 3, Courses: []string{"Quran", "Tajweed"}},
	}
	if !reflect.DeepEqual(teachers, want) {
		t.Errorf("GroupTeachers() = %+v; want %+v", teachers, want)
	}
}

func Test_Service_GroupTeachers_empty(t *testing.T) {
	svc := setup(t)
	teachers, err := svc.GroupTeachers(context.Background())
	if err != nil {
		t.Fatalf("GroupTeachers() failed: %v", err)
	}
	if len(teachers) != 0 {
		t.Errorf("GroupTeachers() = %v; want empty", teachers)
	}
}

func Test_Service_AddRemove(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	s, err := svc.Add(ctx, student.NewActiveStudent{
		StudentSerial: "s1", StudentName: "Awe",
		TeacherSerial: "t1", TeacherName: "Ustadha Noor",
		CourseTitle: "Arabic", MonthlyFee: 40,
	})
	if err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if s.ID == "" || s.StartedAt.IsZero() {
		t.Errorf("Add() = %+v; want assigned ID and start time", s)
	}

	if err = svc.Remove(ctx, s.ID); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}
	all, err := svc.QueryAll(ctx)
	if err != nil {
		t.Fatalf("QueryAll() failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("QueryAll() after remove = %v; want empty", all)
	}
}
