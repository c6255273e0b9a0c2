package userRoutes

import (
	userController "lms/controllers/user"
	"lms/middleware"
	userValidator "lms/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user")

	userGroup.Get("/profile", middleware.JWTMiddleware, userController.Profile)
	userGroup.Put("/profile", middleware.JWTMiddleware, userValidator.UpdateProfile(), userController.UpdateProfile)
	userGroup.Get("/list", middleware.JWTMiddleware, userValidator.ListUsers(), userController.ListUsers)
	userGroup.Get("/teachers", middleware.JWTMiddleware, userController.Teachers)
	userGroup.Get("/students", middleware.JWTMiddleware, userController.Students)
	userGroup.Post("/create", middleware.JWTMiddleware, userValidator.CreateUser(), userController.CreateUser)
	userGroup.Put("/:id", middleware.JWTMiddleware, userValidator.UserIDParam(), userValidator.UpdateUser(), userController.UpdateUser)
	userGroup.Patch("/:id/toggle-active", middleware.JWTMiddleware, userValidator.UserIDParam(), userController.ToggleActive)
}
