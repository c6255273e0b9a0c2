package courseController

import (
	"errors"
	"time"

	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	"lms/policy"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ListWeeklyDetails handles GET /course/:id/weeks. Students must hold an
// active enrollment; the owning teacher and admins always see the plan.
func ListWeeklyDetails(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.First(&course, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	enrolled := policy.NewEnrollmentChecker(database.Database.Db)
	if !policy.IsCourseTeacherOrAdmin(user, course) && !policy.IsEnrolledStudent(user, course, enrolled) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You must be enrolled in this course!", nil)
	}

	var weeks []courseModels.WeeklyDetail
	if err := database.Database.Db.
		Where("course_id = ?", course.ID).
		Order("week_number asc").
		Find(&weeks).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch weekly details!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Weekly details fetched successfully!", weeks)
}

// CreateWeeklyDetail handles POST /course/:id/weeks. One row per week and
// course; a second insert for the same week is rejected.
func CreateWeeklyDetail(c *fiber.Ctx) error {
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
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to modify this course!", nil)
	}

	reqData, ok := c.Locals("validatedWeeklyDetail").(*struct {
		WeekNumber    int        `json:"week_number" validate:"required,min=1"`
		Title         string     `json:"title" validate:"required"`
		Description   string     `json:"description"`
		TopicsCovered string     `json:"topics_covered"`
		Assignments   string     `json:"assignments"`
		ScheduleDate  *time.Time `json:"schedule_date"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	var existing int64
	database.Database.Db.Model(&courseModels.WeeklyDetail{}).
		Where("course_id = ? AND week_number = ?", course.ID, reqData.WeekNumber).
		Count(&existing)
	if existing > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Weekly detail already exists for this week!", nil)
	}

	week := courseModels.WeeklyDetail{
		CourseID:      course.ID,
		WeekNumber:    reqData.WeekNumber,
		Title:         reqData.Title,
		Description:   reqData.Description,
		TopicsCovered: reqData.TopicsCovered,
		Assignments:   reqData.Assignments,
		ScheduleDate:  reqData.ScheduleDate,
	}
	if err := database.Database.Db.Create(&week).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Weekly detail already exists for this week!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create weekly detail!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Weekly detail created successfully!", week)
}

// UpdateWeeklyDetail handles PUT /course/weeks/:id.
func UpdateWeeklyDetail(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	weekID := c.Locals("weekID").(int)

	var week courseModels.WeeklyDetail
	if err := database.Database.Db.Preload("Course").First(&week, weekID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Weekly detail not found!", nil)
	}

	if !policy.IsCourseTeacherOrAdmin(user, week) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to modify this course!", nil)
	}

	reqData, ok := c.Locals("validatedWeeklyUpdate").(*struct {
		Title         string     `json:"title"`
		Description   *string    `json:"description"`
		TopicsCovered *string    `json:"topics_covered"`
		Assignments   *string    `json:"assignments"`
		ScheduleDate  *time.Time `json:"schedule_date"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.Title != "" {
		week.Title = reqData.Title
	}
	if reqData.Description != nil {
		week.Description = *reqData.Description
	}
	if reqData.TopicsCovered != nil {
		week.TopicsCovered = *reqData.TopicsCovered
	}
	if reqData.Assignments != nil {
		week.Assignments = *reqData.Assignments
	}
	if reqData.ScheduleDate != nil {
		week.ScheduleDate = reqData.ScheduleDate
	}

	if err := database.Database.Db.Save(&week).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update weekly detail!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Weekly detail updated successfully!", week)
}

// DeleteWeeklyDetail handles DELETE /course/weeks/:id.
func DeleteWeeklyDetail(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	weekID := c.Locals("weekID").(int)

	var week courseModels.WeeklyDetail
	if err := database.Database.Db.Preload("Course").First(&week, weekID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Weekly detail not found!", nil)
	}

	if !policy.IsCourseTeacherOrAdmin(user, week) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to modify this course!", nil)
	}

	if err := database.Database.Db.Delete(&week).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete weekly detail!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Weekly detail deleted successfully!", nil)
}
