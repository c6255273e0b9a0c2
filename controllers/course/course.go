package courseController

import (
	"lms/audit"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/policy"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// scopedCourses narrows the visible course set by role: teachers see their
// own courses, students see active ones, admins see everything. Object-level
// policy checks still run on top of this filter.
func scopedCourses(user *models.User) *gorm.DB {
	q := database.Database.Db.Model(&courseModels.Course{})
	switch user.Role {
	case models.RoleTeacher:
		q = q.Where("teacher_id = ?", user.ID)
	case models.RoleStudent:
		q = q.Where("is_active = ?", true)
	}
	return q
}

// ListCourses handles GET /course/list.
func ListCourses(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	reqData, _ := c.Locals("validatedList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})

	page, limit := 1, 10
	if reqData != nil && reqData.Page != nil && *reqData.Page > 0 {
		page = *reqData.Page
	}
	if reqData != nil && reqData.Limit != nil && *reqData.Limit > 0 {
		limit = *reqData.Limit
	}

	db := scopedCourses(user)

	var total int64
	db.Count(&total)

	var courses []courseModels.Course
	if err := db.Preload("Teacher").
		Offset((page - 1) * limit).Limit(limit).
		Order("created_at desc").
		Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	for i := range courses {
		courses[i].Teacher.Password = ""
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetCourseDetails handles GET /course/:id with derived enrollment count and
// average rating.
func GetCourseDetails(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}
	if !policy.IsEnrolledStudentOrTeacher(user) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := scopedCourses(user).Preload("Teacher").Where("courses.id = ?", courseID).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	course.Teacher.Password = ""

	var enrolledCount int64
	database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("course_id = ? AND is_active = ?", course.ID, true).
		Count(&enrolledCount)

	var avgRating *float64
	database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("course_id = ? AND is_active = ? AND rating IS NOT NULL", course.ID, true).
		Select("AVG(rating)").
		Scan(&avgRating)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":                  course,
		"enrolled_students_count": enrolledCount,
		"average_rating":          avgRating,
	})
}

// CreateCourse handles POST /course/create. Teachers create courses they
// own; admins may assign any teacher.
func CreateCourse(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}
	if !policy.IsTeacherOrAdmin(user) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Teacher or admin access required!", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*struct {
		Title           string  `json:"title" validate:"required,min=3"`
		Description     string  `json:"description" validate:"required,min=5"`
		DifficultyLevel string  `json:"difficulty_level" validate:"omitempty,oneof=beginner intermediate advanced"`
		DurationWeeks   int     `json:"duration_weeks" validate:"omitempty,min=1"`
		Fee             float64 `json:"fee" validate:"min=0"`
		MaxStudents     int     `json:"max_students" validate:"omitempty,min=1"`
		Syllabus        string  `json:"syllabus"`
		Prerequisites   string  `json:"prerequisites"`
		ScheduleInfo    string  `json:"schedule_info"`
		TeacherID       *uint   `json:"teacher_id"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	teacherID := user.ID
	if reqData.TeacherID != nil && policy.IsAdminUser(user) {
		var teacher models.User
		if err := database.Database.Db.
			Where("id = ? AND role = ? AND is_active = ?", *reqData.TeacherID, models.RoleTeacher, true).
			First(&teacher).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Teacher not found!", nil)
		}
		teacherID = teacher.ID
	}

	course := courseModels.Course{
		Title:           reqData.Title,
		Description:     reqData.Description,
		TeacherID:       teacherID,
		DifficultyLevel: reqData.DifficultyLevel,
		DurationWeeks:   reqData.DurationWeeks,
		Fee:             reqData.Fee,
		MaxStudents:     reqData.MaxStudents,
		Syllabus:        reqData.Syllabus,
		Prerequisites:   reqData.Prerequisites,
		ScheduleInfo:    reqData.ScheduleInfo,
		IsActive:        true,
	}
	if course.DifficultyLevel == "" {
		course.DifficultyLevel = courseModels.DifficultyBeginner
	}
	if course.DurationWeeks == 0 {
		course.DurationWeeks = 8
	}
	if course.MaxStudents == 0 {
		course.MaxStudents = 50
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	audit.Default.Record("course.created", map[string]any{"courseId": course.ID, "teacherId": teacherID})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// UpdateCourse handles PUT /course/:id. Only the owning teacher or an admin
// may update; a teacher who does not own the course is denied.
func UpdateCourse(c *fiber.Ctx) error {
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

	reqData, ok := c.Locals("validatedCourseUpdate").(*struct {
		Title           string   `json:"title" validate:"omitempty,min=3"`
		Description     string   `json:"description" validate:"omitempty,min=5"`
		DifficultyLevel string   `json:"difficulty_level" validate:"omitempty,oneof=beginner intermediate advanced"`
		DurationWeeks   *int     `json:"duration_weeks" validate:"omitempty,min=1"`
		Fee             *float64 `json:"fee" validate:"omitempty,min=0"`
		MaxStudents     *int     `json:"max_students" validate:"omitempty,min=1"`
		Syllabus        *string  `json:"syllabus"`
		Prerequisites   *string  `json:"prerequisites"`
		IsActive        *bool    `json:"is_active"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.Title != "" {
		course.Title = reqData.Title
	}
	if reqData.Description != "" {
		course.Description = reqData.Description
	}
	if reqData.DifficultyLevel != "" {
		course.DifficultyLevel = reqData.DifficultyLevel
	}
	if reqData.DurationWeeks != nil {
		course.DurationWeeks = *reqData.DurationWeeks
	}
	if reqData.Fee != nil {
		course.Fee = *reqData.Fee
	}
	if reqData.MaxStudents != nil {
		course.MaxStudents = *reqData.MaxStudents
	}
	if reqData.Syllabus != nil {
		course.Syllabus = *reqData.Syllabus
	}
	if reqData.Prerequisites != nil {
		course.Prerequisites = *reqData.Prerequisites
	}
	if reqData.IsActive != nil {
		course.IsActive = *reqData.IsActive
	}

	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// DeleteCourse handles DELETE /course/:id. Cascades to exams, weekly details
// and study materials through the schema.
func DeleteCourse(c *fiber.Ctx) error {
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
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to delete this course!", nil)
	}

	if err := database.Database.Db.Delete(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	audit.Default.Record("course.deleted", map[string]any{"courseId": course.ID, "by": user.ID})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// MyCourses handles GET /course/my: enrolled courses for students, taught
// courses for teachers, everything for admins.
func MyCourses(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	var courses []courseModels.Course
	db := database.Database.Db

	switch user.Role {
	case models.RoleTeacher:
		err = db.Where("teacher_id = ?", user.ID).Find(&courses).Error
	case models.RoleStudent:
		err = db.
			Joins("JOIN enrollments ON enrollments.course_id = courses.id").
			Where("enrollments.student_id = ? AND enrollments.is_active = ?", user.ID, true).
			Find(&courses).Error
	default:
		err = db.Find(&courses).Error
	}
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}

// CourseStudents handles GET /course/:id/students for the owning teacher or
// an admin.
func CourseStudents(c *fiber.Ctx) error {
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
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to view this course's students!", nil)
	}

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.
		Where("course_id = ? AND is_active = ?", course.ID, true).
		Preload("Student").
		Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch students!", nil)
	}

	type enrolledStudent struct {
		EnrollmentID         uint   `json:"enrollment_id"`
		StudentID            uint   `json:"student_id"`
		Name                 string `json:"name"`
		Email                string `json:"email"`
		CompletionPercentage int    `json:"completion_percentage"`
	}
	result := make([]enrolledStudent, len(enrollments))
	for i, e := range enrollments {
		result[i] = enrolledStudent{
			EnrollmentID:         e.ID,
			StudentID:            e.StudentID,
			Name:                 e.Student.Name,
			Email:                e.Student.Email,
			CompletionPercentage: e.CompletionPercentage,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Students fetched successfully!", result)
}

// ProgressSummary handles GET /course/:id/progress-summary.
func ProgressSummary(c *fiber.Ctx) error {
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
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to view this summary!", nil)
	}

	db := database.Database.Db

	var totalStudents int64
	db.Model(&courseModels.Enrollment{}).
		Where("course_id = ? AND is_active = ?", course.ID, true).
		Count(&totalStudents)

	var completedStudents int64
	db.Model(&courseModels.Enrollment{}).
		Where("course_id = ? AND is_active = ? AND completion_percentage = ?", course.ID, true, 100).
		Count(&completedStudents)

	var avgCompletion float64
	db.Model(&courseModels.Enrollment{}).
		Where("course_id = ? AND is_active = ?", course.ID, true).
		Select("COALESCE(AVG(completion_percentage), 0)").
		Scan(&avgCompletion)

	completionRate := float64(0)
	if totalStudents > 0 {
		completionRate = float64(completedStudents) / float64(totalStudents) * 100
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress summary fetched successfully!", fiber.Map{
		"total_students":            totalStudents,
		"completed_students":        completedStudents,
		"avg_completion_percentage": avgCompletion,
		"completion_rate":           completionRate,
	})
}

// UpdateSchedule handles POST /course/:id/schedule.
func UpdateSchedule(c *fiber.Ctx) error {
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

	reqData, ok := c.Locals("validatedSchedule").(*struct {
		ScheduleInfo string `json:"schedule_info" validate:"required"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	course.ScheduleInfo = reqData.ScheduleInfo
	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update schedule!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Schedule updated successfully!", course)
}
