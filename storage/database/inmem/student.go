package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/alyusr/institute/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) CreateActiveStudent(_ context.Context, s student.ActiveStudent) (student.ActiveStudent, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	s.ID = uuid.New().String()
	repo.db.table[s.ID] = &s
	return s, nil
}

func (repo *studentRepository) QueryAllActiveStudents(_ context.Context) ([]student.ActiveStudent, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]student.ActiveStudent, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		students = append(students, *s)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].StudentSerial < students[j].StudentSerial })
	return students, nil
}

func (repo *studentRepository) GetActiveStudentByID(_ context.Context, id string) (student.ActiveStudent, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.table[id]; ok {
		return *s, nil
	}
	return student.ActiveStudent{}, student.ErrNotFound
}

func (repo *studentRepository) DeleteActiveStudentsByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
