package course

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/alyusr/institute/core"
)

type Course struct {
	ID           string    `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Description  string    `json:"description" db:"description"`
	Category     string    `json:"category" db:"category"`
	Level        string    `json:"level" db:"level"`
	Duration     string    `json:"duration" db:"duration"`
	Price        float64   `json:"price" db:"price"`
	IsActive     null.Bool `json:"is_active" db:"is_active"`
	StudentCount int       `json:"student_count" db:"student_count"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"` // UTC
}

// Active treats a missing flag as active; only an explicit false hides
// the course from public pages.
func (c Course) Active() bool {
	return !c.IsActive.Valid || c.IsActive.Bool
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Title       string  `json:"title" validate:"required,min=3"`
	Description string  `json:"description" validate:"required,min=10"`
	Category    string  `json:"category" validate:"required,oneof=quran arabic islamic-studies tajweed"`
	Level       string  `json:"level" validate:"required,oneof=beginner intermediate advanced all"`
	Duration    string  `json:"duration" validate:"required"`
	Price       float64 `json:"price" validate:"gte=0"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	return validate.Struct(nc)
}
