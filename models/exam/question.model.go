package exam

import "gorm.io/gorm"

// Question types for Question.QuestionType. Only multiple choice (and
// true/false, which is stored as a two-option multiple choice) is graded
// automatically.
const (
	QuestionMultipleChoice = "multiple_choice"
	QuestionEssay          = "essay"
	QuestionTrueFalse      = "true_false"
	QuestionShortAnswer    = "short_answer"
)

// Question belongs to an exam. Order is significant for display and for
// answer mapping.
type Question struct {
	gorm.Model
	ExamID       uint   `json:"exam_id" gorm:"index;not null"`
	Exam         Exam   `json:"-" gorm:"foreignKey:ExamID;constraint:OnDelete:CASCADE"`
	QuestionText string `json:"question_text" gorm:"not null"`
	QuestionType string `json:"question_type" gorm:"default:'multiple_choice'"`
	Marks        int    `json:"marks" gorm:"default:1"`
	Order        int    `json:"order" gorm:"column:question_order;default:1"`
}

func (q Question) ScopeCourseID() uint {
	return q.Exam.CourseID
}

func (q Question) CourseTeacherID() uint {
	return q.Exam.Course.TeacherID
}

// QuestionOption is a selectable option of a multiple-choice question.
type QuestionOption struct {
	gorm.Model
	QuestionID uint     `json:"question_id" gorm:"index;not null"`
	Question   Question `json:"-" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	OptionText string   `json:"option_text" gorm:"not null"`
	IsCorrect  bool     `json:"is_correct" gorm:"default:false"`
	Order      int      `json:"order" gorm:"column:option_order;default:1"`
}

func (o QuestionOption) CourseTeacherID() uint {
	return o.Question.Exam.Course.TeacherID
}
