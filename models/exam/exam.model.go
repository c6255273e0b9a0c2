package exam

import (
	"time"

	"lms/models"
	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// Exam is a course assessment available inside a fixed [StartTime, EndTime]
// window. The window is checked when an attempt starts, not continuously.
type Exam struct {
	gorm.Model
	Title           string              `json:"title" gorm:"not null"`
	Description     string              `json:"description"`
	CourseID        uint                `json:"course_id" gorm:"index;not null"`
	Course          courseModels.Course `json:"-" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	DurationMinutes int                 `json:"duration_minutes" gorm:"default:60"`
	TotalMarks      int                 `json:"total_marks" gorm:"default:100"`
	PassingMarks    int                 `json:"passing_marks" gorm:"default:40"`
	StartTime       time.Time           `json:"start_time" gorm:"not null"`
	EndTime         time.Time           `json:"end_time" gorm:"not null"`
	IsActive        bool                `json:"is_active" gorm:"default:true"`
	CreatedByID     uint                `json:"created_by_id" gorm:"index;not null"`
	CreatedBy       models.User         `json:"-" gorm:"foreignKey:CreatedByID"`
	Instructions    string              `json:"instructions"`
}

// IsOngoing reports whether now falls inside the availability window.
func (e Exam) IsOngoing(now time.Time) bool {
	return !now.Before(e.StartTime) && !now.After(e.EndTime)
}

// IsUpcoming reports whether the window has not opened yet.
func (e Exam) IsUpcoming(now time.Time) bool {
	return now.Before(e.StartTime)
}

func (e Exam) ScopeCourseID() uint {
	return e.CourseID
}

func (e Exam) CourseTeacherID() uint {
	return e.Course.TeacherID
}
