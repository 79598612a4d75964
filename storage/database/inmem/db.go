// Package inmemdb provides mutex-guarded in-memory repositories, used in
// DEV/TEST mode and as the reference implementation for the repository
// interfaces.
package inmemdb

import (
	"sync"

	"github.com/alyusr/institute/core/course"
	"github.com/alyusr/institute/core/form"
	"github.com/alyusr/institute/core/notification"
	"github.com/alyusr/institute/core/review"
	"github.com/alyusr/institute/core/student"
	"github.com/alyusr/institute/core/user"
)

type (
	DB struct {
		user         *userTable
		form         *formTable
		review       *reviewTable
		course       *courseTable
		student      *studentTable
		notification *notificationTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	formTable struct {
		sync.RWMutex
		// one sub-table per form type, mirroring forms/{formType}
		table map[form.Type]map[string]*form.Submission
	}

	reviewTable struct {
		sync.RWMutex
		table map[string]*review.Review
	}

	courseTable struct {
		sync.RWMutex
		table map[string]*course.Course
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*student.ActiveStudent
	}

	notificationTable struct {
		sync.RWMutex
		table map[string]*notification.Notification
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:         &userTable{table: make(map[string]*user.User)},
		form:         &formTable{table: make(map[form.Type]map[string]*form.Submission)},
		review:       &reviewTable{table: make(map[string]*review.Review)},
		course:       &courseTable{table: make(map[string]*course.Course)},
		student:      &studentTable{table: make(map[string]*student.ActiveStudent)},
		notification: &notificationTable{table: make(map[string]*notification.Notification)},
	}
	return db, nil
}
