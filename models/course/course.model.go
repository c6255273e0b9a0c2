package course

import (
	"time"

	"lms/models"

	"gorm.io/gorm"
)

// Difficulty levels for Course.DifficultyLevel
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Course represents a course owned by exactly one teacher.
// Enrolled-student count and average rating are derived, never stored.
type Course struct {
	gorm.Model
	Title           string      `json:"title" gorm:"not null"`
	Description     string      `json:"description"`
	TeacherID       uint        `json:"teacher_id" gorm:"index;not null"`
	Teacher         models.User `json:"teacher" gorm:"foreignKey:TeacherID"`
	DifficultyLevel string      `json:"difficulty_level" gorm:"default:'beginner'"`
	DurationWeeks   int         `json:"duration_weeks" gorm:"default:8"`
	Fee             float64     `json:"fee" gorm:"not null"`
	IsActive        bool        `json:"is_active" gorm:"default:true"`
	Syllabus        string      `json:"syllabus"`
	Prerequisites   string      `json:"prerequisites"`
	MaxStudents     int         `json:"max_students" gorm:"default:50"`
	ScheduleInfo    string      `json:"schedule_info"`
	Thumbnail       string      `json:"thumbnail"`
}

// CourseTeacherID implements policy.CourseScoped for the course itself.
func (c Course) CourseTeacherID() uint {
	return c.TeacherID
}

// ScopeCourseID implements policy.CourseRef.
func (c Course) ScopeCourseID() uint {
	return c.ID
}

// WeeklyDetail is the per-week breakdown of a course. One row per
// (course, week_number).
type WeeklyDetail struct {
	gorm.Model
	CourseID      uint       `json:"course_id" gorm:"index;not null;uniqueIndex:idx_course_week"`
	Course        Course     `json:"-" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	WeekNumber    int        `json:"week_number" gorm:"not null;uniqueIndex:idx_course_week"`
	Title         string     `json:"title" gorm:"not null"`
	Description   string     `json:"description"`
	TopicsCovered string     `json:"topics_covered"`
	Assignments   string     `json:"assignments"`
	ScheduleDate  *time.Time `json:"schedule_date"`
}

func (w WeeklyDetail) CourseTeacherID() uint {
	return w.Course.TeacherID
}

func (w WeeklyDetail) ScopeCourseID() uint {
	return w.CourseID
}
