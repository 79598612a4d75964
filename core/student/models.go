package student

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/alyusr/institute/core"
)

// ActiveStudent is one denormalized row of the active-students collection.
// Student, teacher and course are matched by serial codes by convention;
// there is no referential integrity in the store.
type ActiveStudent struct {
	ID            string    `json:"id" db:"id"`
	StudentSerial string    `json:"student_serial" db:"student_serial"`
	StudentName   string    `json:"student_name" db:"student_name"`
	TeacherSerial string    `json:"teacher_serial" db:"teacher_serial"`
	TeacherName   string    `json:"teacher_name" db:"teacher_name"`
	CourseTitle   string    `json:"course_title" db:"course_title"`
	MonthlyFee    float64   `json:"monthly_fee" db:"monthly_fee"`
	StartedAt     time.Time `json:"started_at" db:"started_at"` // UTC
}

// Teacher is computed by grouping active-student rows by teacher serial.
// There is no standalone teacher entity with its own lifecycle.
type Teacher struct {
	Serial       string   `json:"serial"`
	Name         string   `json:"name"`
	StudentCount int      `json:"student_count"`
	Courses      []string `json:"courses"`
}

// NewActiveStudent contains information needed to add a row.
type NewActiveStudent struct {
	StudentSerial string  `json:"student_serial" validate:"required"`
	StudentName   string  `json:"student_name" validate:"required,min=2"`
	TeacherSerial string  `json:"teacher_serial" validate:"required"`
	TeacherName   string  `json:"teacher_name" validate:"required,min=2"`
	CourseTitle   string  `json:"course_title" validate:"required"`
	MonthlyFee    float64 `json:"monthly_fee" validate:"gte=0"`
}

func (ns *NewActiveStudent) Validate(validate *validator.Validate) error {
	ns.StudentSerial = core.CleanString(ns.StudentSerial, true /* lower */)
	ns.TeacherSerial = core.CleanString(ns.TeacherSerial, true /* lower */)
	ns.StudentName = core.CleanString(ns.StudentName)
	ns.TeacherName = core.CleanString(ns.TeacherName)
	return validate.Struct(ns)
}
