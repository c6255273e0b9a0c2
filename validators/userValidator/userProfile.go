package userValidator

import (
	"strconv"
	"strings"

	"lms/middleware"
	"lms/validators"

	"github.com/gofiber/fiber/v2"
)

// UserIDParam validates the :id path parameter and stores it as an int.
func UserIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("id"))
		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user ID!", nil)
		}
		c.Locals("targetUserID", id)
		return c.Next()
	}
}

// UpdateProfile validates the self-service profile payload.
func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name    string `json:"name" validate:"omitempty,min=2"`
			Phone   string `json:"phone"`
			Address string `json:"address"`
			Bio     string `json:"bio"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errs := validators.Check(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedProfile", reqData)
		return c.Next()
	}
}

// ListUsers validates the listing query parameters.
func ListUsers() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  *int   `json:"page"`
			Limit *int   `json:"limit"`
			Role  string `json:"role"`
		})
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		if reqData.Role != "" {
			switch reqData.Role {
			case "admin", "teacher", "student":
			default:
				return middleware.ValidationErrorResponse(c, map[string]string{
					"role": "Must be one of: admin teacher student!",
				})
			}
		}

		c.Locals("validatedUserList", reqData)
		return c.Next()
	}
}

// CreateUser validates the admin user creation payload.
func CreateUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name     string `json:"name" validate:"required,min=2"`
			Email    string `json:"email" validate:"required,email"`
			Password string `json:"password" validate:"required,min=8"`
			Role     string `json:"role" validate:"required,oneof=admin teacher student"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errs := validators.Check(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedCreateUser", reqData)
		return c.Next()
	}
}

// UpdateUser validates the admin user update payload.
func UpdateUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name  string `json:"name" validate:"omitempty,min=2"`
			Role  string `json:"role" validate:"omitempty,oneof=admin teacher student"`
			Phone string `json:"phone"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errs := validators.Check(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedUpdateUser", reqData)
		return c.Next()
	}
}
