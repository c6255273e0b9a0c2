package examController

import (
	"fmt"
	"testing"
	"time"

	"lms/database"
	"lms/models"
	courseModels "lms/models/course"
	examModels "lms/models/exam"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func alwaysEnrolled(uint, uint) bool { return true }
func neverEnrolled(uint, uint) bool  { return false }

type examFixture struct {
	student   *models.User
	exam      *examModels.Exam
	questions []examModels.Question
	// correct[i] and wrong[i] are options of questions[i]
	correct []examModels.QuestionOption
	wrong   []examModels.QuestionOption
}

// seedExam builds a course with an ongoing exam holding two multiple-choice
// questions worth 2 marks each, passing marks 2.
func seedExam(t *testing.T, db *gorm.DB) *examFixture {
	t.Helper()

	teacher := models.User{Name: "Teacher", Email: fmt.Sprintf("t-%s@test.local", t.Name()), Password: "x", Role: models.RoleTeacher}
	require.NoError(t, db.Create(&teacher).Error)
	student := models.User{Name: "Student", Email: fmt.Sprintf("s-%s@test.local", t.Name()), Password: "x", Role: models.RoleStudent}
	require.NoError(t, db.Create(&student).Error)

	course := courseModels.Course{Title: "Course", TeacherID: teacher.ID, Fee: 100, IsActive: true, MaxStudents: 50}
	require.NoError(t, db.Create(&course).Error)

	now := time.Now()
	ex := examModels.Exam{
		Title:        "Quiz",
		CourseID:     course.ID,
		TotalMarks:   4,
		PassingMarks: 2,
		StartTime:    now.Add(-time.Hour),
		EndTime:      now.Add(time.Hour),
		IsActive:     true,
		CreatedByID:  teacher.ID,
	}
	require.NoError(t, db.Create(&ex).Error)

	fx := &examFixture{student: &student, exam: &ex}
	for i := 1; i <= 2; i++ {
		q := examModels.Question{
			ExamID:       ex.ID,
			QuestionText: fmt.Sprintf("Question %d", i),
			QuestionType: examModels.QuestionMultipleChoice,
			Marks:        2,
			Order:        i,
		}
		require.NoError(t, db.Create(&q).Error)

		right := examModels.QuestionOption{QuestionID: q.ID, OptionText: "right", IsCorrect: true, Order: 1}
		require.NoError(t, db.Create(&right).Error)
		other := examModels.QuestionOption{QuestionID: q.ID, OptionText: "wrong", IsCorrect: false, Order: 2}
		require.NoError(t, db.Create(&other).Error)

		fx.questions = append(fx.questions, q)
		fx.correct = append(fx.correct, right)
		fx.wrong = append(fx.wrong, other)
	}
	return fx
}

func TestStartAttemptOpensInProgressAttempt(t *testing.T) {
	db := newTestDB(t)
	fx := seedExam(t, db)

	attempt, err := startAttempt(db, alwaysEnrolled, fx.student, fx.exam, time.Now())
	require.NoError(t, err)
	assert.Equal(t, examModels.AttemptInProgress, attempt.Status)
	assert.Equal(t, fx.student.ID, attempt.StudentID)
	assert.Equal(t, fx.exam.ID, attempt.ExamID)
}

func TestStartAttemptRejectsInactiveExam(t *testing.T) {
	db := newTestDB(t)
	fx := seedExam(t, db)
	fx.exam.IsActive = false

	_, err := startAttempt(db, alwaysEnrolled, fx.student, fx.exam, time.Now())
	assert.ErrorIs(t, err, ErrExamUnavailable)
}

func TestStartAttemptRejectsClosedWindow(t *testing.T) {
	db := newTestDB(t)
	fx := seedExam(t, db)

	afterEnd := fx.exam.EndTime.Add(time.Minute)
	_, err := startAttempt(db, alwaysEnrolled, fx.student, fx.exam, afterEnd)
	assert.ErrorIs(t, err, ErrExamUnavailable)

	beforeStart := fx.exam.StartTime.Add(-time.Minute)
	_, err = startAttempt(db, alwaysEnrolled, fx.student, fx.exam, beforeStart)
	assert.ErrorIs(t, err, ErrExamUnavailable)
}

func TestStartAttemptRequiresEnrollment(t *testing.T) {
	db := newTestDB(t)
	fx := seedExam(t, db)

	_, err := startAttempt(db, neverEnrolled, fx.student, fx.exam, time.Now())
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestStartAttemptIsSingleUse(t *testing.T) {
	db := newTestDB(t)
	fx := seedExam(t, db)

	_, err := startAttempt(db, alwaysEnrolled, fx.student, fx.exam, time.Now())
	require.NoError(t, err)

	_, err = startAttempt(db, alwaysEnrolled, fx.student, fx.exam, time.Now())
	assert.ErrorIs(t, err, ErrAlreadyAttempted)
}

func TestSubmitAttemptGradesAndPassesAtBoundary(t *testing.T) {
	db := newTestDB(t)
	fx := seedExam(t, db)

	attempt, err := startAttempt(db, alwaysEnrolled, fx.student, fx.exam, time.Now())
	require.NoError(t, err)

	// One right, one wrong: score 2 of 4, exactly the passing marks.
	answers := []submittedAnswer{
		{QuestionID: fx.questions[0].ID, SelectedOptionID: &fx.correct[0].ID},
		{QuestionID: fx.questions[1].ID, SelectedOptionID: &fx.wrong[1].ID},
	}
	require.NoError(t, submitAttempt(db, attempt, fx.exam, answers, time.Now()))

	assert.Equal(t, 2, attempt.Score)
	assert.True(t, attempt.IsPassed, "score equal to passing marks must pass")
	assert.Equal(t, examModels.AttemptCompleted, attempt.Status)
	require.NotNil(t, attempt.CompletedAt)
	require.NotNil(t, attempt.TimeTakenMinutes)
	assert.GreaterOrEqual(t, *attempt.TimeTakenMinutes, 0)

	var rows []examModels.Answer
	require.NoError(t, db.Where("exam_attempt_id = ?", attempt.ID).Order("question_id").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].IsCorrect)
	assert.Equal(t, 2, rows[0].MarksObtained)
	assert.False(t, rows[1].IsCorrect)
	assert.Equal(t, 0, rows[1].MarksObtained)
}

func TestSubmitAttemptBelowPassingFails(t *testing.T) {
	db := newTestDB(t)
	fx := seedExam(t, db)

	attempt, err := startAttempt(db, alwaysEnrolled, fx.student, fx.exam, time.Now())
	require.NoError(t, err)

	answers := []submittedAnswer{
		{QuestionID: fx.questions[0].ID, SelectedOptionID: &fx.wrong[0].ID},
		{QuestionID: fx.questions[1].ID, SelectedOptionID: &fx.wrong[1].ID},
	}
	require.NoError(t, submitAttempt(db, attempt, fx.exam, answers, time.Now()))

	assert.Equal(t, 0, attempt.Score)
	assert.False(t, attempt.IsPassed)
}

func TestSubmitAttemptWithNoAnswers(t *testing.T) {
	db := newTestDB(t)
	fx := seedExam(t, db)

	attempt, err := startAttempt(db, alwaysEnrolled, fx.student, fx.exam, time.Now())
	require.NoError(t, err)

	require.NoError(t, submitAttempt(db, attempt, fx.exam, nil, time.Now()))
	assert.Equal(t, 0, attempt.Score)
	assert.False(t, attempt.IsPassed)
	assert.Equal(t, examModels.AttemptCompleted, attempt.Status)
}

func TestSubmitAttemptOnlyOnce(t *testing.T) {
	db := newTestDB(t)
	fx := seedExam(t, db)

	attempt, err := startAttempt(db, alwaysEnrolled, fx.student, fx.exam, time.Now())
	require.NoError(t, err)
	require.NoError(t, submitAttempt(db, attempt, fx.exam, nil, time.Now()))

	err = submitAttempt(db, attempt, fx.exam, nil, time.Now())
	assert.ErrorIs(t, err, ErrAttemptFinished)
}

func TestSubmitAttemptRejectsForeignQuestion(t *testing.T) {
	db := newTestDB(t)
	fx := seedExam(t, db)

	attempt, err := startAttempt(db, alwaysEnrolled, fx.student, fx.exam, time.Now())
	require.NoError(t, err)

	answers := []submittedAnswer{{QuestionID: 99999}}
	err = submitAttempt(db, attempt, fx.exam, answers, time.Now())
	assert.ErrorIs(t, err, ErrInvalidAnswer)

	// Rejection leaves the attempt open and writes nothing.
	assert.Equal(t, examModels.AttemptInProgress, attempt.Status)
	var count int64
	db.Model(&examModels.Answer{}).Where("exam_attempt_id = ?", attempt.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestSubmitAttemptRejectsDuplicateQuestion(t *testing.T) {
	db := newTestDB(t)
	fx := seedExam(t, db)

	attempt, err := startAttempt(db, alwaysEnrolled, fx.student, fx.exam, time.Now())
	require.NoError(t, err)

	answers := []submittedAnswer{
		{QuestionID: fx.questions[0].ID, SelectedOptionID: &fx.correct[0].ID},
		{QuestionID: fx.questions[0].ID, SelectedOptionID: &fx.wrong[0].ID},
	}
	err = submitAttempt(db, attempt, fx.exam, answers, time.Now())
	assert.ErrorIs(t, err, ErrInvalidAnswer)
}

func TestSubmitAttemptRejectsForeignOption(t *testing.T) {
	db := newTestDB(t)
	fx := seedExam(t, db)

	attempt, err := startAttempt(db, alwaysEnrolled, fx.student, fx.exam, time.Now())
	require.NoError(t, err)

	// Option of question 2 submitted against question 1.
	answers := []submittedAnswer{
		{QuestionID: fx.questions[0].ID, SelectedOptionID: &fx.correct[1].ID},
	}
	err = submitAttempt(db, attempt, fx.exam, answers, time.Now())
	assert.ErrorIs(t, err, ErrInvalidAnswer)
}

func TestSubmitAttemptStoresEssayUngraded(t *testing.T) {
	db := newTestDB(t)
	fx := seedExam(t, db)

	essay := examModels.Question{
		ExamID:       fx.exam.ID,
		QuestionText: "Explain interfaces.",
		QuestionType: examModels.QuestionEssay,
		Marks:        5,
		Order:        3,
	}
	require.NoError(t, db.Create(&essay).Error)

	attempt, err := startAttempt(db, alwaysEnrolled, fx.student, fx.exam, time.Now())
	require.NoError(t, err)

	answers := []submittedAnswer{
		{QuestionID: essay.ID, TextAnswer: "An interface is a method set."},
	}
	require.NoError(t, submitAttempt(db, attempt, fx.exam, answers, time.Now()))

	assert.Equal(t, 0, attempt.Score, "subjective answers earn nothing automatically")

	var row examModels.Answer
	require.NoError(t, db.Where("exam_attempt_id = ? AND question_id = ?", attempt.ID, essay.ID).First(&row).Error)
	assert.Equal(t, "An interface is a method set.", row.TextAnswer)
	assert.False(t, row.IsCorrect)
	assert.Equal(t, 0, row.MarksObtained)
	assert.Nil(t, row.SelectedOptionID)
}
