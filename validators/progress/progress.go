package progressValidator

import (
	"strconv"
	"strings"

	"lms/middleware"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

// CourseIDParam validates the :id path parameter of progress routes.
func CourseIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course ID!", nil)
		}
		c.Locals("courseID", id)
		return c.Next()
	}
}

// StudentIDParam validates the :studentId path parameter.
func StudentIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("studentId"))
		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid student ID!", nil)
		}
		c.Locals("studentID", id)
		return c.Next()
	}
}

// RecordProgress validates the weekly scorecard payload.
func RecordProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			StudentID            uint   `json:"student_id" validate:"required"`
			CourseID             uint   `json:"course_id" validate:"required"`
			WeekNumber           int    `json:"week_number" validate:"required,min=1"`
			AttendancePercentage int    `json:"attendance_percentage" validate:"min=0,max=100"`
			AssignmentScore      *int   `json:"assignment_score" validate:"omitempty,min=0,max=100"`
			QuizScore            *int   `json:"quiz_score" validate:"omitempty,min=0,max=100"`
			ParticipationScore   *int   `json:"participation_score" validate:"omitempty,min=0,max=100"`
			TeacherNotes         string `json:"teacher_notes"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errs := validators.Check(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedProgressRecord", reqData)
		return c.Next()
	}
}
