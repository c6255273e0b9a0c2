package examController

import (
	"errors"
	"fmt"
	"time"

	"lms/audit"
	"lms/database"
	"lms/middleware"
	"lms/models"
	examModels "lms/models/exam"
	"lms/policy"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var (
	ErrExamUnavailable  = errors.New("exam is not available")
	ErrNotEnrolled      = errors.New("student is not enrolled in the exam's course")
	ErrAlreadyAttempted = errors.New("exam already attempted")
	ErrAttemptFinished  = errors.New("attempt already submitted")
	ErrInvalidAnswer    = errors.New("invalid answer")
)

// submittedAnswer is one graded unit of a submission payload.
type submittedAnswer struct {
	QuestionID       uint
	SelectedOptionID *uint
	TextAnswer       string
}

// startAttempt opens the single attempt a student gets on an exam. The
// availability window and the active flag gate entry; the unique
// (student, exam) index arbitrates concurrent duplicate starts.
func startAttempt(db *gorm.DB, enrolled policy.EnrollmentChecker, student *models.User, ex *examModels.Exam, now time.Time) (*examModels.ExamAttempt, error) {
	if !ex.IsActive || !ex.IsOngoing(now) {
		return nil, ErrExamUnavailable
	}
	if !enrolled(student.ID, ex.CourseID) {
		return nil, ErrNotEnrolled
	}

	var existing int64
	db.Model(&examModels.ExamAttempt{}).
		Where("student_id = ? AND exam_id = ?", student.ID, ex.ID).
		Count(&existing)
	if existing > 0 {
		return nil, ErrAlreadyAttempted
	}

	attempt := examModels.ExamAttempt{
		StudentID: student.ID,
		ExamID:    ex.ID,
		Status:    examModels.AttemptInProgress,
	}
	if err := db.Create(&attempt).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyAttempted
		}
		return nil, err
	}
	return &attempt, nil
}

// submitAttempt grades and finalizes an in-progress attempt. The whole
// payload is validated before any answer row is written: unknown question
// ids, questions of other exams, duplicate questions and foreign options all
// reject the submission. Objective questions earn their full marks when the
// selected option is correct; subjective answers are stored ungraded.
func submitAttempt(db *gorm.DB, attempt *examModels.ExamAttempt, ex *examModels.Exam, answers []submittedAnswer, now time.Time) error {
	if attempt.Status != examModels.AttemptInProgress {
		return ErrAttemptFinished
	}

	var questions []examModels.Question
	if err := db.Where("exam_id = ?", ex.ID).Find(&questions).Error; err != nil {
		return err
	}
	questionByID := make(map[uint]examModels.Question, len(questions))
	for _, q := range questions {
		questionByID[q.ID] = q
	}

	var options []examModels.QuestionOption
	if err := db.
		Joins("JOIN questions ON questions.id = question_options.question_id").
		Where("questions.exam_id = ?", ex.ID).
		Find(&options).Error; err != nil {
		return err
	}
	optionByID := make(map[uint]examModels.QuestionOption, len(options))
	for _, o := range options {
		optionByID[o.ID] = o
	}

	seen := make(map[uint]bool, len(answers))
	rows := make([]examModels.Answer, 0, len(answers))
	score := 0
	for _, a := range answers {
		question, ok := questionByID[a.QuestionID]
		if !ok {
			return fmt.Errorf("%w: question %d does not belong to this exam", ErrInvalidAnswer, a.QuestionID)
		}
		if seen[a.QuestionID] {
			return fmt.Errorf("%w: question %d answered more than once", ErrInvalidAnswer, a.QuestionID)
		}
		seen[a.QuestionID] = true

		row := examModels.Answer{
			ExamAttemptID: attempt.ID,
			QuestionID:    a.QuestionID,
			TextAnswer:    a.TextAnswer,
		}
		if a.SelectedOptionID != nil {
			option, ok := optionByID[*a.SelectedOptionID]
			if !ok || option.QuestionID != a.QuestionID {
				return fmt.Errorf("%w: option %d does not belong to question %d", ErrInvalidAnswer, *a.SelectedOptionID, a.QuestionID)
			}
			row.SelectedOptionID = a.SelectedOptionID
			objective := question.QuestionType == examModels.QuestionMultipleChoice ||
				question.QuestionType == examModels.QuestionTrueFalse
			if objective && option.IsCorrect {
				row.IsCorrect = true
				row.MarksObtained = question.Marks
				score += question.Marks
			}
		}
		rows = append(rows, row)
	}

	completedAt := now
	taken := int(now.Sub(attempt.StartedAt).Minutes())
	if taken < 0 {
		taken = 0
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			if err := tx.Create(&rows[i]).Error; err != nil {
				return err
			}
		}
		attempt.Score = score
		attempt.IsPassed = score >= ex.PassingMarks
		attempt.CompletedAt = &completedAt
		attempt.TimeTakenMinutes = &taken
		attempt.Status = examModels.AttemptCompleted
		return tx.Save(attempt).Error
	})
}

// StartAttempt handles POST /exam/:id/start for students.
func StartAttempt(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}
	if !policy.IsStudentUser(user) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only students can take exams!", nil)
	}

	examID := c.Locals("examID").(int)

	var ex examModels.Exam
	if err := database.Database.Db.First(&ex, examID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Exam not found!", nil)
	}

	enrolled := policy.NewEnrollmentChecker(database.Database.Db)
	attempt, err := startAttempt(database.Database.Db, enrolled, user, &ex, time.Now())
	switch {
	case errors.Is(err, ErrExamUnavailable):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Exam is not available at this time!", nil)
	case errors.Is(err, ErrNotEnrolled):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You must be enrolled in this course!", nil)
	case errors.Is(err, ErrAlreadyAttempted):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You have already attempted this exam!", nil)
	case err != nil:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start attempt!", nil)
	}

	audit.Default.Record("attempt.started", map[string]any{"attemptId": attempt.ID, "examId": ex.ID, "studentId": user.ID})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Attempt started successfully!", attempt)
}

// SubmitAttempt handles POST /exam/:id/submit. A second submission of the
// same attempt is rejected with a conflict; an invalid payload leaves the
// attempt untouched and in progress.
func SubmitAttempt(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	examID := c.Locals("examID").(int)

	var ex examModels.Exam
	if err := database.Database.Db.First(&ex, examID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Exam not found!", nil)
	}

	var attempt examModels.ExamAttempt
	if err := database.Database.Db.
		Where("student_id = ? AND exam_id = ?", user.ID, ex.ID).
		First(&attempt).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No attempt found for this exam!", nil)
	}

	reqData, ok := c.Locals("validatedSubmission").(*struct {
		Answers []struct {
			QuestionID       uint   `json:"question_id" validate:"required"`
			SelectedOptionID *uint  `json:"selected_option_id"`
			TextAnswer       string `json:"text_answer"`
		} `json:"answers" validate:"dive"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	answers := make([]submittedAnswer, len(reqData.Answers))
	for i, a := range reqData.Answers {
		answers[i] = submittedAnswer{
			QuestionID:       a.QuestionID,
			SelectedOptionID: a.SelectedOptionID,
			TextAnswer:       a.TextAnswer,
		}
	}

	err = submitAttempt(database.Database.Db, &attempt, &ex, answers, time.Now())
	switch {
	case errors.Is(err, ErrAttemptFinished):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "This attempt has already been submitted!", nil)
	case errors.Is(err, ErrInvalidAnswer):
		return middleware.ValidationErrorResponse(c, map[string]string{"answers": err.Error()})
	case err != nil:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit attempt!", nil)
	}

	go utils.SendExamResultEmail(user.Email, user.Name, ex.Title, attempt.Score, ex.TotalMarks, attempt.IsPassed)

	audit.Default.Record("attempt.submitted", map[string]any{
		"attemptId": attempt.ID,
		"examId":    ex.ID,
		"studentId": user.ID,
		"score":     attempt.Score,
		"isPassed":  attempt.IsPassed,
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt submitted successfully!", fiber.Map{
		"attempt_id":    attempt.ID,
		"score":         attempt.Score,
		"total_marks":   ex.TotalMarks,
		"passing_marks": ex.PassingMarks,
		"is_passed":     attempt.IsPassed,
		"completed_at":  attempt.CompletedAt,
	})
}

// MyAttempts handles GET /exam/attempts/my.
func MyAttempts(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	var attempts []examModels.ExamAttempt
	if err := database.Database.Db.
		Where("student_id = ?", user.ID).
		Preload("Exam").
		Order("started_at desc").
		Find(&attempts).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch attempts!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempts fetched successfully!", attempts)
}

// AttemptDetails handles GET /exam/attempts/:id with the per-question
// breakdown. Visible to the owning student, the course teacher and admins.
func AttemptDetails(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	attemptID := c.Locals("attemptID").(int)

	var attempt examModels.ExamAttempt
	if err := database.Database.Db.
		Preload("Exam.Course").
		First(&attempt, attemptID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Attempt not found!", nil)
	}

	if !policy.IsOwnerOrAdmin(user, attempt) && !policy.IsCourseTeacher(user, attempt) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to view this attempt!", nil)
	}

	var answers []examModels.Answer
	if err := database.Database.Db.
		Where("exam_attempt_id = ?", attempt.ID).
		Preload("Question").
		Preload("SelectedOption").
		Find(&answers).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch answers!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt fetched successfully!", fiber.Map{
		"attempt": attempt,
		"answers": answers,
	})
}
