package courseValidator

import (
	"strconv"
	"strings"
	"time"

	"lms/middleware"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

// CourseIDParam validates the :id path parameter and stores it as an int.
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

// ListCourses validates the listing query parameters.
func ListCourses() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  *int `json:"page"`
			Limit *int `json:"limit"`
		})
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		c.Locals("validatedList", reqData)
		return c.Next()
	}
}

// CreateCourse validates the course creation payload.
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
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
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errs := validators.Check(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateCourse validates the partial course update payload.
func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
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
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errs := validators.Check(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

// UpdateSchedule validates the schedule payload.
func UpdateSchedule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			ScheduleInfo string `json:"schedule_info" validate:"required"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errs := validators.Check(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedSchedule", reqData)
		return c.Next()
	}
}

// WeekIDParam validates the :id path parameter of weekly detail routes.
func WeekIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid weekly detail ID!", nil)
		}
		c.Locals("weekID", id)
		return c.Next()
	}
}

// CreateWeeklyDetail validates the weekly plan creation payload.
func CreateWeeklyDetail() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			WeekNumber    int        `json:"week_number" validate:"required,min=1"`
			Title         string     `json:"title" validate:"required"`
			Description   string     `json:"description"`
			TopicsCovered string     `json:"topics_covered"`
			Assignments   string     `json:"assignments"`
			ScheduleDate  *time.Time `json:"schedule_date"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errs := validators.Check(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedWeeklyDetail", reqData)
		return c.Next()
	}
}

// UpdateWeeklyDetail validates the weekly plan update payload.
func UpdateWeeklyDetail() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title         string     `json:"title"`
			Description   *string    `json:"description"`
			TopicsCovered *string    `json:"topics_covered"`
			Assignments   *string    `json:"assignments"`
			ScheduleDate  *time.Time `json:"schedule_date"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		c.Locals("validatedWeeklyUpdate", reqData)
		return c.Next()
	}
}

// MaterialIDParam validates the :id path parameter of material routes.
func MaterialIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid material ID!", nil)
		}
		c.Locals("materialID", id)
		return c.Next()
	}
}

// UpdateMaterial validates the material metadata update payload.
func UpdateMaterial() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string  `json:"title"`
			Description *string `json:"description"`
			IsPublic    *bool   `json:"is_public"`
			WeekNumber  *int    `json:"week_number" validate:"omitempty,min=1"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errs := validators.Check(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedMaterialUpdate", reqData)
		return c.Next()
	}
}
