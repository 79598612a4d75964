package course

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

var ErrNotFound = errors.New("course not found")

type (
	Repository interface {
		CreateCourse(ctx context.Context, c Course) (Course, error)
		QueryAllCourses(ctx context.Context) ([]Course, error)
		GetCourseByID(ctx context.Context, id string) (Course, error)
		UpdateCourse(ctx context.Context, c Course) (Course, error)
		DeleteCoursesByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nc NewCourse) (Course, error) {
	c := Course{
		Title:       nc.Title,
		Description: nc.Description,
		Category:    nc.Category,
		Level:       nc.Level,
		Duration:    nc.Duration,
		Price:       nc.Price,
		IsActive:    null.BoolFrom(true),
		CreatedAt:   time.Now().UTC(),
	}
	return svc.repo.CreateCourse(ctx, c)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Course, error) {
	return svc.repo.QueryAllCourses(ctx)
}

// QueryActive returns the courses shown on public pages and enrollment forms.
func (svc *Service) QueryActive(ctx context.Context) ([]Course, error) {
	all, err := svc.repo.QueryAllCourses(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]Course, 0, len(all))
	for _, c := range all {
		if c.Active() {
			active = append(active, c)
		}
	}
	return active, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourseByID(ctx, id)
}

// SetActive flips the public visibility flag.
func (svc *Service) SetActive(ctx context.Context, id string, active bool) (Course, error) {
	c, err := svc.repo.GetCourseByID(ctx, id)
	if err != nil {
		return Course{}, err
	}
	c.IsActive = null.BoolFrom(active)
	return svc.repo.UpdateCourse(ctx, c)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteCoursesByID(ctx, ids...)
}
