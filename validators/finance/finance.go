package financeValidator

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

// TransactionIDParam validates the :id path parameter of transaction routes.
func TransactionIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return idParam(c, "transactionID", "transaction")
	}
}

// StudentIDParam validates the :id path parameter of student payment routes.
func StudentIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return idParam(c, "studentID", "student")
	}
}

// SalaryIDParam validates the :id path parameter of salary routes.
func SalaryIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return idParam(c, "salaryID", "salary")
	}
}

// CreateTransaction validates the fee transaction payload.
func CreateTransaction() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			StudentID       uint    `json:"student_id" validate:"required"`
			CourseID        *uint   `json:"course_id"`
			TransactionType string  `json:"transaction_type" validate:"omitempty,oneof=course exam material other"`
			Amount          float64 `json:"amount" validate:"required,min=0"`
			PaymentMethod   string  `json:"payment_method" validate:"omitempty,oneof=credit_card debit_card bank_transfer cash online"`
			Description     string  `json:"description"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errs := validators.Check(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedTransaction", reqData)
		return c.Next()
	}
}

// UpdateTransactionStatus validates the status transition payload.
func UpdateTransactionStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			PaymentStatus string `json:"payment_status" validate:"required,oneof=pending completed failed refunded"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errs := validators.Check(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedTransactionStatus", reqData)
		return c.Next()
	}
}

// CreateSalary validates the salary record payload.
func CreateSalary() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			TeacherID  uint      `json:"teacher_id" validate:"required"`
			Month      time.Time `json:"month" validate:"required"`
			BaseSalary float64   `json:"base_salary" validate:"required,min=0"`
			Bonus      float64   `json:"bonus" validate:"min=0"`
			Deductions float64   `json:"deductions" validate:"min=0"`
			Notes      string    `json:"notes"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errs := validators.Check(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedSalary", reqData)
		return c.Next()
	}
}

// UpdateSalary validates the salary component update payload.
func UpdateSalary() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			BaseSalary *float64 `json:"base_salary" validate:"omitempty,min=0"`
			Bonus      *float64 `json:"bonus" validate:"omitempty,min=0"`
			Deductions *float64 `json:"deductions" validate:"omitempty,min=0"`
			Notes      *string  `json:"notes"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errs := validators.Check(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedSalaryUpdate", reqData)
		return c.Next()
	}
}

// MarkSalaryPaid validates the optional payment method payload.
func MarkSalaryPaid() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			PaymentMethod string `json:"payment_method" validate:"omitempty,oneof=credit_card debit_card bank_transfer cash online"`
		})
		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
			if errs := validators.Check(reqData); len(errs) > 0 {
				return middleware.ValidationErrorResponse(c, errs)
			}
		}

		c.Locals("validatedSalaryPayment", reqData)
		return c.Next()
	}
}
