package redisdb

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/alyusr/institute/core/course"
)

type courseRepository struct {
	coll collection
}

var _ course.Repository = (*courseRepository)(nil)

func NewCourseRepository(client *redis.Client) course.Repository {
	return &courseRepository{coll: newCollection(client, "courses")}
}

func (repo *courseRepository) CreateCourse(ctx context.Context, c course.Course) (course.Course, error) {
	c.ID = uuid.New().String()
	if err := repo.coll.set(ctx, c.ID, c); err != nil {
		return course.Course{}, err
	}
	return c, nil
}

func (repo *courseRepository) QueryAllCourses(ctx context.Context) ([]course.Course, error) {
	var courses []course.Course
	err := repo.coll.each(ctx, func(raw string) error {
		var c course.Course
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return errors.Wrap(err, "unmarshalling course")
		}
		courses = append(courses, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].Title < courses[j].Title })
	return courses, nil
}

func (repo *courseRepository) GetCourseByID(ctx context.Context, id string) (course.Course, error) {
	var c course.Course
	found, err := repo.coll.get(ctx, id, &c)
	if err != nil {
		return course.Course{}, err
	}
	if !found {
		return course.Course{}, course.ErrNotFound
	}
	return c, nil
}

func (repo *courseRepository) UpdateCourse(ctx context.Context, c course.Course) (course.Course, error) {
	if _, err := repo.GetCourseByID(ctx, c.ID); err != nil {
		return course.Course{}, err
	}
	if err := repo.coll.set(ctx, c.ID, c); err != nil {
		return course.Course{}, err
	}
	return c, nil
}

func (repo *courseRepository) DeleteCoursesByID(ctx context.Context, ids ...string) error {
	return repo.coll.delete(ctx, ids...)
}
