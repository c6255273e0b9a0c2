package course

import (
	"time"

	"lms/models"

	"gorm.io/gorm"
)

// Enrollment is the sole record of a student's access to a course's gated
// resources. The (student, course) pair is unique at the database level;
// unenrollment flips IsActive instead of deleting the row.
type Enrollment struct {
	gorm.Model
	StudentID            uint        `json:"student_id" gorm:"not null;uniqueIndex:idx_student_course"`
	Student              models.User `json:"-" gorm:"foreignKey:StudentID"`
	CourseID             uint        `json:"course_id" gorm:"not null;uniqueIndex:idx_student_course"`
	Course               Course      `json:"-" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	EnrolledAt           time.Time   `json:"enrolled_at" gorm:"autoCreateTime"`
	CompletionPercentage int         `json:"completion_percentage" gorm:"default:0"` // 0-100
	Rating               *int        `json:"rating"`                                 // 1-5, set by the student
	Review               string      `json:"review"`
	IsActive             bool        `json:"is_active" gorm:"default:true"`
	CompletedAt          *time.Time  `json:"completed_at"`
}

func (e Enrollment) OwnerID() uint {
	return e.StudentID
}

func (e Enrollment) ScopeCourseID() uint {
	return e.CourseID
}

func (e Enrollment) CourseTeacherID() uint {
	return e.Course.TeacherID
}
