package examValidator

import (
	"strconv"
	"strings"
	"time"

	"lms/middleware"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

func idParam(c *fiber.Ctx, local, label string) error {
	idStr := strings.TrimSpace(c.Params("id"))
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+label+" ID!", nil)
	}
	c.Locals(local, id)
	return c.Next()
}

// ExamIDParam validates the :id path parameter of exam routes.
func ExamIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return idParam(c, "examID", "exam")
	}
}

// QuestionIDParam validates the :id path parameter of question routes.
func QuestionIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return idParam(c, "questionID", "question")
	}
}

// OptionIDParam validates the :id path parameter of option routes.
func OptionIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return idParam(c, "optionID", "option")
	}
}

// AttemptIDParam validates the :id path parameter of attempt routes.
func AttemptIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return idParam(c, "attemptID", "attempt")
	}
}

// CreateExam validates the exam creation payload.
func CreateExam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
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
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errs := validators.Check(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedExam", reqData)
		return c.Next()
	}
}

// UpdateExam validates the partial exam update payload.
func UpdateExam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
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
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errs := validators.Check(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedExamUpdate", reqData)
		return c.Next()
	}
}

// AddQuestion validates a question payload with its inline options.
func AddQuestion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			QuestionText string `json:"question_text" validate:"required"`
			QuestionType string `json:"question_type" validate:"omitempty,oneof=multiple_choice essay true_false short_answer"`
			Marks        int    `json:"marks" validate:"omitempty,min=1"`
			Order        int    `json:"order" validate:"omitempty,min=1"`
			Options      []struct {
				OptionText string `json:"option_text" validate:"required"`
				IsCorrect  bool   `json:"is_correct"`
				Order      int    `json:"order"`
			} `json:"options" validate:"omitempty,dive"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errs := validators.Check(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedQuestion", reqData)
		return c.Next()
	}
}

// UpdateQuestion validates the question update payload.
func UpdateQuestion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			QuestionText string `json:"question_text"`
			Marks        *int   `json:"marks" validate:"omitempty,min=1"`
			Order        *int   `json:"order" validate:"omitempty,min=1"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errs := validators.Check(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedQuestionUpdate", reqData)
		return c.Next()
	}
}

// AddOption validates a single option payload.
func AddOption() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			OptionText string `json:"option_text" validate:"required"`
			IsCorrect  bool   `json:"is_correct"`
			Order      int    `json:"order" validate:"omitempty,min=1"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errs := validators.Check(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedOption", reqData)
		return c.Next()
	}
}

// SubmitAttempt validates the answer sheet payload.
func SubmitAttempt() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Answers []struct {
				QuestionID       uint   `json:"question_id" validate:"required"`
				SelectedOptionID *uint  `json:"selected_option_id"`
				TextAnswer       string `json:"text_answer"`
			} `json:"answers" validate:"dive"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errs := validators.Check(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedSubmission", reqData)
		return c.Next()
	}
}
