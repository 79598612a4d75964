package student

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("active student not found")

type (
	Repository interface {
		CreateActiveStudent(ctx context.Context, s ActiveStudent) (ActiveStudent, error)
		QueryAllActiveStudents(ctx context.Context) ([]ActiveStudent, error)
		GetActiveStudentByID(ctx context.Context, id string) (ActiveStudent, error)
		DeleteActiveStudentsByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Add(ctx context.Context, ns NewActiveStudent) (ActiveStudent, error) {
	s := ActiveStudent{
		StudentSerial: ns.StudentSerial,
		StudentName:   ns.StudentName,
		TeacherSerial: ns.TeacherSerial,
		TeacherName:   ns.TeacherName,
		CourseTitle:   ns.CourseTitle,
		MonthlyFee:    ns.MonthlyFee,
		StartedAt:     time.Now().UTC(),
	}
	return svc.repo.CreateActiveStudent(ctx, s)
}

func (svc *Service) QueryAll(ctx context.Context) ([]ActiveStudent, error) {
	return svc.repo.QueryAllActiveStudents(ctx)
}

func (svc *Service) Remove(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteActiveStudentsByID(ctx, ids...)
}

// GroupTeachers derives the teacher list by grouping active-student rows
// by teacher serial, ordered by serial.
func (svc *Service) GroupTeachers(ctx context.Context) ([]Teacher, error) {
	rows, err := svc.repo.QueryAllActiveStudents(ctx)
	if err != nil {
		return nil, err
	}

	bySerial := make(map[string]*Teacher)
	for _, row := range rows {
		t, ok := bySerial[row.TeacherSerial]
		if !ok {
			t = &Teacher{Serial: row.TeacherSerial, Name: row.TeacherName}
			bySerial[row.TeacherSerial] = t
		}
		t.StudentCount++
		if !containsString(t.Courses, row.CourseTitle) {
			t.Courses = append(t.Courses, row.CourseTitle)
		}
	}

	teachers := make([]Teacher, 0, len(bySerial))
	for _, t := range bySerial {
		sort.Strings(t.Courses)
		teachers = append(teachers, *t)
	}
	sort.Slice(teachers, func(i, j int) bool { return teachers[i].Serial < teachers[j].Serial })
	return teachers, nil
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
