package exam

import (
	"time"

	"lms/models"

	"gorm.io/gorm"
)

// Attempt lifecycle states. in_progress transitions to completed exactly once
// on submission; abandoned is terminal and only reachable through the expiry
// scheduler.
const (
	AttemptInProgress = "in_progress"
	AttemptCompleted  = "completed"
	AttemptAbandoned  = "abandoned"
)

// ExamAttempt is a student's single engagement with an exam. The
// (student, exam) pair is unique forever, enforced by the database so that
// concurrent duplicate starts cannot race past an application check.
type ExamAttempt struct {
	gorm.Model
	StudentID        uint        `json:"student_id" gorm:"not null;uniqueIndex:idx_student_exam"`
	Student          models.User `json:"-" gorm:"foreignKey:StudentID"`
	ExamID           uint        `json:"exam_id" gorm:"not null;uniqueIndex:idx_student_exam"`
	Exam             Exam        `json:"-" gorm:"foreignKey:ExamID;constraint:OnDelete:CASCADE"`
	StartedAt        time.Time   `json:"started_at" gorm:"autoCreateTime"`
	CompletedAt      *time.Time  `json:"completed_at"`
	Score            int         `json:"score" gorm:"default:0"`
	IsPassed         bool        `json:"is_passed" gorm:"default:false"`
	TimeTakenMinutes *int        `json:"time_taken_minutes"`
	Status           string      `json:"status" gorm:"default:'in_progress'"`
}

func (a ExamAttempt) OwnerID() uint {
	return a.StudentID
}

func (a ExamAttempt) ScopeCourseID() uint {
	return a.Exam.CourseID
}

func (a ExamAttempt) CourseTeacherID() uint {
	return a.Exam.Course.TeacherID
}

// Answer records the response to one question within an attempt. One row per
// (attempt, question), unique at the database level. Either SelectedOptionID
// (objective) or TextAnswer (subjective, not auto-graded) is set.
type Answer struct {
	gorm.Model
	ExamAttemptID    uint            `json:"exam_attempt_id" gorm:"not null;uniqueIndex:idx_attempt_question"`
	ExamAttempt      ExamAttempt     `json:"-" gorm:"foreignKey:ExamAttemptID;constraint:OnDelete:CASCADE"`
	QuestionID       uint            `json:"question_id" gorm:"not null;uniqueIndex:idx_attempt_question"`
	Question         Question        `json:"-" gorm:"foreignKey:QuestionID"`
	SelectedOptionID *uint           `json:"selected_option_id"`
	SelectedOption   *QuestionOption `json:"-" gorm:"foreignKey:SelectedOptionID"`
	TextAnswer       string          `json:"text_answer"`
	MarksObtained    int             `json:"marks_obtained" gorm:"default:0"`
	IsCorrect        bool            `json:"is_correct" gorm:"default:false"`
}
