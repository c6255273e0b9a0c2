package examController

import (
	"time"

	"lms/audit"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	examModels "lms/models/exam"
	"lms/policy"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// visibleExams narrows the exam set by role. Teachers see exams of courses
// they teach, students see active exams of courses they are enrolled in,
// admins see everything.
func visibleExams(user *models.User) *gorm.DB {
	q := database.Database.Db.Model(&examModels.Exam{}).Joins("Course")
	switch user.Role {
	case models.RoleTeacher:
		q = q.Where("\"Course\".teacher_id = ?", user.ID)
	case models.RoleStudent:
		q = q.Where("exams.is_active = ?", true).
			Where("exams.course_id IN (?)",
				database.Database.Db.Model(&courseModels.Enrollment{}).
					Select("course_id").
					Where("student_id = ? AND is_active = ?", user.ID, true))
	}
	return q
}

// ListExams handles GET /exam/list.
func ListExams(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	var exams []examModels.Exam
	if err := visibleExams(user).Order("start_time asc").Find(&exams).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch exams!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Exams fetched successfully!", exams)
}

// UpcomingExams handles GET /exam/upcoming.
func UpcomingExams(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	var exams []examModels.Exam
	if err := visibleExams(user).
		Where("exams.start_time > ?", time.Now()).
		Order("start_time asc").
		Find(&exams).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch exams!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Upcoming exams fetched successfully!", exams)
}

// OngoingExams handles GET /exam/ongoing.
func OngoingExams(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	now := time.Now()
	var exams []examModels.Exam
	if err := visibleExams(user).
		Where("exams.start_time <= ? AND exams.end_time >= ?", now, now).
		Order("end_time asc").
		Find(&exams).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch exams!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ongoing exams fetched successfully!", exams)
}

// GetExamDetails handles GET /exam/:id. Students only see questions without
// the correctness flags; option rows are stripped of IsCorrect before the
// response is built.
func GetExamDetails(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	examID := c.Locals("examID").(int)

	var ex examModels.Exam
	if err := database.Database.Db.Preload("Course").First(&ex, examID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Exam not found!", nil)
	}

	isStaff := policy.IsCourseTeacherOrAdmin(user, ex)
	if !isStaff {
		enrolled := policy.NewEnrollmentChecker(database.Database.Db)
		if !policy.IsEnrolledStudent(user, ex, enrolled) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You must be enrolled in this course!", nil)
		}
		if !ex.IsActive {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Exam not found!", nil)
		}
	}

	var questions []examModels.Question
	database.Database.Db.Where("exam_id = ?", ex.ID).Order("question_order asc").Find(&questions)

	type optionView struct {
		ID         uint   `json:"id"`
		OptionText string `json:"option_text"`
		Order      int    `json:"order"`
		IsCorrect  *bool  `json:"is_correct,omitempty"`
	}
	type questionView struct {
		examModels.Question
		Options []optionView `json:"options"`
	}

	qViews := make([]questionView, len(questions))
	for i, q := range questions {
		var options []examModels.QuestionOption
		database.Database.Db.Where("question_id = ?", q.ID).Order("option_order asc").Find(&options)

		oViews := make([]optionView, len(options))
		for j, o := range options {
			oViews[j] = optionView{ID: o.ID, OptionText: o.OptionText, Order: o.Order}
			if isStaff {
				correct := o.IsCorrect
				oViews[j].IsCorrect = &correct
			}
		}
		qViews[i] = questionView{Question: q, Options: oViews}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Exam fetched successfully!", fiber.Map{
		"exam":      ex,
		"questions": qViews,
	})
}

// CreateExam handles POST /exam/create for the owning teacher or an admin.
func CreateExam(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	reqData, ok := c.Locals("validatedExam").(*struct {
		Title           string    `json:"title" validate:"required,min=3"`
		Description     string    `json:"description"`
		CourseID        uint      `json:"course_id" validate:"required"`
		DurationMinutes int       `json:"duration_minutes" validate:"omitempty,min=1"`
		TotalMarks      int       `json:"total_marks" validate:"omitempty,min=1"`
		PassingMarks    int       `json:"passing_marks" validate:"omitempty,min=0"`
		StartTime       time.Time `json:"start_time" validate:"required"`
		EndTime         time.Time `json:"end_time" validate:"required"`
		Instructions    string    `json:"instructions"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.First(&course, reqData.CourseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !policy.IsCourseTeacherOrAdmin(user, course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to create exams for this course!", nil)
	}

	if !reqData.EndTime.After(reqData.StartTime) {
		return middleware.ValidationErrorResponse(c, map[string]string{
			"end_time": "End time must be after start time",
		})
	}

	ex := examModels.Exam{
		Title:           reqData.Title,
		Description:     reqData.Description,
		CourseID:        course.ID,
		DurationMinutes: reqData.DurationMinutes,
		TotalMarks:      reqData.TotalMarks,
		PassingMarks:    reqData.PassingMarks,
		StartTime:       reqData.StartTime,
		EndTime:         reqData.EndTime,
		IsActive:        true,
		CreatedByID:     user.ID,
		Instructions:    reqData.Instructions,
	}
	if ex.DurationMinutes == 0 {
		ex.DurationMinutes = 60
	}
	if ex.TotalMarks == 0 {
		ex.TotalMarks = 100
	}
	if ex.PassingMarks == 0 {
		ex.PassingMarks = 40
	}

	if err := database.Database.Db.Create(&ex).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create exam!", nil)
	}

	audit.Default.Record("exam.created", map[string]any{"examId": ex.ID, "courseId": course.ID, "by": user.ID})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Exam created successfully!", ex)
}

// UpdateExam handles PUT /exam/:id.
func UpdateExam(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	examID := c.Locals("examID").(int)

	var ex examModels.Exam
	if err := database.Database.Db.Preload("Course").First(&ex, examID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Exam not found!", nil)
	}

	if !policy.IsCourseTeacherOrAdmin(user, ex) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to modify this exam!", nil)
	}

	reqData, ok := c.Locals("validatedExamUpdate").(*struct {
		Title           string     `json:"title" validate:"omitempty,min=3"`
		Description     *string    `json:"description"`
		DurationMinutes *int       `json:"duration_minutes" validate:"omitempty,min=1"`
		TotalMarks      *int       `json:"total_marks" validate:"omitempty,min=1"`
		PassingMarks    *int       `json:"passing_marks" validate:"omitempty,min=0"`
		StartTime       *time.Time `json:"start_time"`
		EndTime         *time.Time `json:"end_time"`
		IsActive        *bool      `json:"is_active"`
		Instructions    *string    `json:"instructions"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.Title != "" {
		ex.Title = reqData.Title
	}
	if reqData.Description != nil {
		ex.Description = *reqData.Description
	}
	if reqData.DurationMinutes != nil {
		ex.DurationMinutes = *reqData.DurationMinutes
	}
	if reqData.TotalMarks != nil {
		ex.TotalMarks = *reqData.TotalMarks
	}
	if reqData.PassingMarks != nil {
		ex.PassingMarks = *reqData.PassingMarks
	}
	if reqData.StartTime != nil {
		ex.StartTime = *reqData.StartTime
	}
	if reqData.EndTime != nil {
		ex.EndTime = *reqData.EndTime
	}
	if reqData.IsActive != nil {
		ex.IsActive = *reqData.IsActive
	}
	if reqData.Instructions != nil {
		ex.Instructions = *reqData.Instructions
	}

	if !ex.EndTime.After(ex.StartTime) {
		return middleware.ValidationErrorResponse(c, map[string]string{
			"end_time": "End time must be after start time",
		})
	}

	if err := database.Database.Db.Save(&ex).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update exam!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Exam updated successfully!", ex)
}

// DeleteExam handles DELETE /exam/:id. Questions, options, attempts and
// answers go with it through the schema cascade.
func DeleteExam(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	examID := c.Locals("examID").(int)

	var ex examModels.Exam
	if err := database.Database.Db.Preload("Course").First(&ex, examID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Exam not found!", nil)
	}

	if !policy.IsCourseTeacherOrAdmin(user, ex) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to delete this exam!", nil)
	}

	if err := database.Database.Db.Delete(&ex).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete exam!", nil)
	}

	audit.Default.Record("exam.deleted", map[string]any{"examId": ex.ID, "by": user.ID})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Exam deleted successfully!", nil)
}

// ExamResults handles GET /exam/:id/results for the owning teacher or an
// admin: every attempt plus pass-rate aggregates.
func ExamResults(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	examID := c.Locals("examID").(int)

	var ex examModels.Exam
	if err := database.Database.Db.Preload("Course").First(&ex, examID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Exam not found!", nil)
	}

	if !policy.IsCourseTeacherOrAdmin(user, ex) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to view these results!", nil)
	}

	var attempts []examModels.ExamAttempt
	if err := database.Database.Db.
		Where("exam_id = ?", ex.ID).
		Preload("Student").
		Order("score desc").
		Find(&attempts).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch results!", nil)
	}

	type resultRow struct {
		AttemptID   uint       `json:"attempt_id"`
		StudentID   uint       `json:"student_id"`
		Name        string     `json:"name"`
		Score       int        `json:"score"`
		IsPassed    bool       `json:"is_passed"`
		Status      string     `json:"status"`
		CompletedAt *time.Time `json:"completed_at"`
	}
	rows := make([]resultRow, len(attempts))
	completed, passed, scoreSum := 0, 0, 0
	for i, a := range attempts {
		rows[i] = resultRow{
			AttemptID:   a.ID,
			StudentID:   a.StudentID,
			Name:        a.Student.Name,
			Score:       a.Score,
			IsPassed:    a.IsPassed,
			Status:      a.Status,
			CompletedAt: a.CompletedAt,
		}
		if a.Status == examModels.AttemptCompleted {
			completed++
			scoreSum += a.Score
			if a.IsPassed {
				passed++
			}
		}
	}

	avgScore := float64(0)
	passRate := float64(0)
	if completed > 0 {
		avgScore = float64(scoreSum) / float64(completed)
		passRate = float64(passed) / float64(completed) * 100
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Results fetched successfully!", fiber.Map{
		"exam":               ex,
		"attempts":           rows,
		"total_attempts":     len(attempts),
		"completed_attempts": completed,
		"passed":             passed,
		"average_score":      avgScore,
		"pass_rate":          passRate,
	})
}
