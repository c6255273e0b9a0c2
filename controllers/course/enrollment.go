package courseController

import (
	"errors"
	"time"

	"lms/audit"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Ledger errors. Controllers map these onto HTTP statuses.
var (
	ErrAlreadyEnrolled   = errors.New("student already enrolled in this course")
	ErrNotEnrolled       = errors.New("student not enrolled in this course")
	ErrCourseFull        = errors.New("course has reached its student limit")
	ErrInvalidPercentage = errors.New("completion percentage must be between 0 and 100")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
)

// enrollStudent creates or reactivates the enrollment row for
// (student, course). The unique (student_id, course_id) index is the final
// arbiter for concurrent duplicates; the active-row lookup only provides the
// friendly error.
func enrollStudent(db *gorm.DB, rec audit.Recorder, student *models.User, course *courseModels.Course) (*courseModels.Enrollment, error) {
	var existing courseModels.Enrollment
	err := db.Where("student_id = ? AND course_id = ?", student.ID, course.ID).First(&existing).Error
	if err == nil {
		if existing.IsActive {
			return nil, ErrAlreadyEnrolled
		}

		// Re-enrollment reuses the historical row rather than inserting a
		// duplicate pair.
		var active int64
		db.Model(&courseModels.Enrollment{}).
			Where("course_id = ? AND is_active = ?", course.ID, true).
			Count(&active)
		if course.MaxStudents > 0 && active >= int64(course.MaxStudents) {
			return nil, ErrCourseFull
		}

		existing.IsActive = true
		existing.EnrolledAt = time.Now()
		existing.CompletionPercentage = 0
		existing.CompletedAt = nil
		if err := db.Save(&existing).Error; err != nil {
			return nil, err
		}
		rec.Record("enrollment.reactivated", map[string]any{"studentId": student.ID, "courseId": course.ID})
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var active int64
	db.Model(&courseModels.Enrollment{}).
		Where("course_id = ? AND is_active = ?", course.ID, true).
		Count(&active)
	if course.MaxStudents > 0 && active >= int64(course.MaxStudents) {
		return nil, ErrCourseFull
	}

	enrollment := courseModels.Enrollment{
		StudentID: student.ID,
		CourseID:  course.ID,
		IsActive:  true,
	}
	if err := db.Create(&enrollment).Error; err != nil {
		// Unique index violation: a concurrent request won the pair.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}

	rec.Record("enrollment.created", map[string]any{"studentId": student.ID, "courseId": course.ID})
	return &enrollment, nil
}

// unenrollStudent soft-deletes the active enrollment. The row is kept for
// history and re-enrollment.
func unenrollStudent(db *gorm.DB, rec audit.Recorder, studentID, courseID uint) error {
	var enrollment courseModels.Enrollment
	err := db.Where("student_id = ? AND course_id = ? AND is_active = ?", studentID, courseID, true).
		First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotEnrolled
		}
		return err
	}

	enrollment.IsActive = false
	if err := db.Save(&enrollment).Error; err != nil {
		return err
	}

	rec.Record("enrollment.deactivated", map[string]any{"studentId": studentID, "courseId": courseID})
	return nil
}

// updateProgress sets the completion percentage. Reaching 100 stamps
// CompletedAt once; later writes of 100 keep the original completion time.
func updateProgress(db *gorm.DB, rec audit.Recorder, enrollment *courseModels.Enrollment, percentage int) error {
	if percentage < 0 || percentage > 100 {
		return ErrInvalidPercentage
	}

	enrollment.CompletionPercentage = percentage
	if percentage == 100 {
		if enrollment.CompletedAt == nil {
			now := time.Now()
			enrollment.CompletedAt = &now
		}
	} else {
		enrollment.CompletedAt = nil
	}

	if err := db.Save(enrollment).Error; err != nil {
		return err
	}

	rec.Record("enrollment.progress", map[string]any{
		"enrollmentId": enrollment.ID, "percentage": percentage,
	})
	return nil
}

// rateCourse records the student's rating and review on their enrollment.
func rateCourse(db *gorm.DB, enrollment *courseModels.Enrollment, rating int, review string) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	enrollment.Rating = &rating
	enrollment.Review = review
	return db.Save(enrollment).Error
}

// EnrollInCourse handles POST /course/:id/enroll.
func EnrollInCourse(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}
	if user.Role != models.RoleStudent {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only students can enroll in courses!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_active = ?", courseID, true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not active!", nil)
	}

	enrollment, err := enrollStudent(database.Database.Db, audit.Default, user, &course)
	switch {
	case errors.Is(err, ErrAlreadyEnrolled):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Already enrolled in this course!", nil)
	case errors.Is(err, ErrCourseFull):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Course is full!", nil)
	case err != nil:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}

	go utils.SendEnrollmentEmail(user.Email, user.Name, course.Title)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled in course successfully!", enrollment)
}

// UnenrollFromCourse handles POST /course/:id/unenroll.
func UnenrollFromCourse(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	courseID := c.Locals("courseID").(int)

	err = unenrollStudent(database.Database.Db, audit.Default, user.ID, uint(courseID))
	switch {
	case errors.Is(err, ErrNotEnrolled):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Not enrolled in this course!", nil)
	case err != nil:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to unenroll from course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Successfully unenrolled!", nil)
}

// MyEnrollments handles GET /user/enrollments for students.
func MyEnrollments(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}
	if user.Role != models.RoleStudent {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only students can view enrollments!", nil)
	}

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.
		Where("student_id = ? AND is_active = ?", user.ID, true).
		Preload("Course").
		Order("enrolled_at desc").
		Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", enrollments)
}

// UpdateEnrollmentProgress handles PUT /enrollment/:id/progress (admin).
func UpdateEnrollmentProgress(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}
	if user.Role != models.RoleAdmin {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Admin access required!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(int)
	reqData, ok := c.Locals("validatedProgress").(*struct {
		CompletionPercentage *int `json:"completion_percentage" validate:"required,min=0,max=100"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.First(&enrollment, enrollmentID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	if err := updateProgress(database.Database.Db, audit.Default, &enrollment, *reqData.CompletionPercentage); err != nil {
		if errors.Is(err, ErrInvalidPercentage) {
			return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, err.Error(), nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully!", enrollment)
}

// RateCourse handles POST /course/:id/rate by an enrolled student.
func RateCourse(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}
	if user.Role != models.RoleStudent {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Only students can rate courses!", nil)
	}

	courseID := c.Locals("courseID").(int)
	reqData, ok := c.Locals("validatedRating").(*struct {
		Rating *int   `json:"rating" validate:"required,min=1,max=5"`
		Review string `json:"review"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.
		Where("student_id = ? AND course_id = ? AND is_active = ?", user.ID, courseID, true).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not enrolled in this course!", nil)
	}

	if err := rateCourse(database.Database.Db, &enrollment, *reqData.Rating, reqData.Review); err != nil {
		if errors.Is(err, ErrInvalidRating) {
			return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, err.Error(), nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to rate course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course rated successfully!", enrollment)
}
