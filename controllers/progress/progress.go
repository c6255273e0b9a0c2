package progressController

import (
	"errors"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/policy"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RecordProgress handles POST /progress/record. The course teacher or an
// admin writes one scorecard per student, course and week; posting the same
// week again updates the existing row.
func RecordProgress(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	reqData, ok := c.Locals("validatedProgressRecord").(*struct {
		StudentID            uint   `json:"student_id" validate:"required"`
		CourseID             uint   `json:"course_id" validate:"required"`
		WeekNumber           int    `json:"week_number" validate:"required,min=1"`
		AttendancePercentage int    `json:"attendance_percentage" validate:"min=0,max=100"`
		AssignmentScore      *int   `json:"assignment_score" validate:"omitempty,min=0,max=100"`
		QuizScore            *int   `json:"quiz_score" validate:"omitempty,min=0,max=100"`
		ParticipationScore   *int   `json:"participation_score" validate:"omitempty,min=0,max=100"`
		TeacherNotes         string `json:"teacher_notes"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.First(&course, reqData.CourseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !policy.IsCourseTeacherOrAdmin(user, course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to record progress for this course!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.
		Where("student_id = ? AND course_id = ? AND is_active = ?", reqData.StudentID, course.ID, true).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student is not enrolled in this course!", nil)
	}

	var progress models.StudentProgress
	err = database.Database.Db.
		Where("student_id = ? AND course_id = ? AND week_number = ?", reqData.StudentID, course.ID, reqData.WeekNumber).
		First(&progress).Error
	created := false
	if errors.Is(err, gorm.ErrRecordNotFound) {
		progress = models.StudentProgress{
			StudentID:  reqData.StudentID,
			CourseID:   course.ID,
			WeekNumber: reqData.WeekNumber,
		}
		created = true
	} else if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record progress!", nil)
	}

	progress.AttendancePercentage = reqData.AttendancePercentage
	progress.AssignmentScore = reqData.AssignmentScore
	progress.QuizScore = reqData.QuizScore
	progress.ParticipationScore = reqData.ParticipationScore
	progress.TeacherNotes = reqData.TeacherNotes

	if err := database.Database.Db.Save(&progress).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Progress already recorded for this week!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record progress!", nil)
	}

	status := fiber.StatusOK
	message := "Progress updated successfully!"
	if created {
		status = fiber.StatusCreated
		message = "Progress recorded successfully!"
	}
	return middleware.JsonResponse(c, status, true, message, progress)
}

// MyProgress handles GET /progress/my for students, optionally filtered by
// course.
func MyProgress(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	db := database.Database.Db.Where("student_id = ?", user.ID)
	if courseID := c.QueryInt("course_id"); courseID > 0 {
		db = db.Where("course_id = ?", courseID)
	}

	var rows []models.StudentProgress
	if err := db.Order("course_id asc, week_number asc").Find(&rows).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", rows)
}

// CourseProgress handles GET /progress/course/:id for the owning teacher or
// an admin: every student's weekly scorecards plus per-student averages.
func CourseProgress(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.First(&course, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !policy.IsCourseTeacherOrAdmin(user, course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to view this course's progress!", nil)
	}

	var rows []models.StudentProgress
	if err := database.Database.Db.
		Where("course_id = ?", course.ID).
		Preload("Student").
		Order("student_id asc, week_number asc").
		Find(&rows).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	type studentAverage struct {
		StudentID    uint    `json:"student_id"`
		Name         string  `json:"name"`
		Weeks        int     `json:"weeks"`
		AverageScore float64 `json:"average_score"`
	}
	sums := map[uint]*studentAverage{}
	order := []uint{}
	for _, r := range rows {
		avg, ok := sums[r.StudentID]
		if !ok {
			avg = &studentAverage{StudentID: r.StudentID, Name: r.Student.Name}
			sums[r.StudentID] = avg
			order = append(order, r.StudentID)
		}
		avg.Weeks++
		avg.AverageScore += float64(r.OverallScore)
	}
	averages := make([]studentAverage, 0, len(order))
	for _, id := range order {
		avg := sums[id]
		avg.AverageScore /= float64(avg.Weeks)
		averages = append(averages, *avg)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course progress fetched successfully!", fiber.Map{
		"records":  rows,
		"averages": averages,
	})
}

// StudentProgressInCourse handles GET /progress/course/:id/student/:studentId
// for the owning teacher, an admin or the student themselves.
func StudentProgressInCourse(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	courseID := c.Locals("courseID").(int)
	studentID := c.Locals("studentID").(int)

	var course courseModels.Course
	if err := database.Database.Db.First(&course, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if uint(studentID) != user.ID && !policy.IsCourseTeacherOrAdmin(user, course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to view this progress!", nil)
	}

	var rows []models.StudentProgress
	if err := database.Database.Db.
		Where("course_id = ? AND student_id = ?", course.ID, studentID).
		Order("week_number asc").
		Find(&rows).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", rows)
}
