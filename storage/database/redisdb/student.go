package redisdb

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/alyusr/institute/core/student"
)

type studentRepository struct {
	coll collection
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(client *redis.Client) student.Repository {
	return &studentRepository{coll: newCollection(client, "active-students")}
}

func (repo *studentRepository) CreateActiveStudent(ctx context.Context, s student.ActiveStudent) (student.ActiveStudent, error) {
	s.ID = uuid.New().String()
	if err := repo.coll.set(ctx, s.ID, s); err != nil {
		return student.ActiveStudent{}, err
	}
	return s, nil
}

func (repo *studentRepository) QueryAllActiveStudents(ctx context.Context) ([]student.ActiveStudent, error) {
	var students []student.ActiveStudent
	err := repo.coll.each(ctx, func(raw string) error {
		var s student.ActiveStudent
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			return errors.Wrap(err, "unmarshalling active student")
		}
		students = append(students, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(students, func(i, j int) bool { return students[i].StudentSerial < students[j].StudentSerial })
	return students, nil
}

func (repo *studentRepository) GetActiveStudentByID(ctx context.Context, id string) (student.ActiveStudent, error) {
	var s student.ActiveStudent
	found, err := repo.coll.get(ctx, id, &s)
	if err != nil {
		return student.ActiveStudent{}, err
	}
	if !found {
		return student.ActiveStudent{}, student.ErrNotFound
	}
	return s, nil
}

func (repo *studentRepository) DeleteActiveStudentsByID(ctx context.Context, ids ...string) error {
	return repo.coll.delete(ctx, ids...)
}
