package progressRoutes

import (
	progressController "lms/controllers/progress"
	"lms/middleware"
	progressValidator "lms/validators/progress"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressRoutes(app *fiber.App) {
	progressGroup := app.Group("/progress")

	progressGroup.Post("/record", middleware.JWTMiddleware, progressValidator.RecordProgress(), progressController.RecordProgress)
	progressGroup.Get("/my", middleware.JWTMiddleware, progressController.MyProgress)
	progressGroup.Get("/course/:id", middleware.JWTMiddleware, progressValidator.CourseIDParam(), progressController.CourseProgress)
	progressGroup.Get("/course/:id/student/:studentId", middleware.JWTMiddleware, progressValidator.CourseIDParam(), progressValidator.StudentIDParam(), progressController.StudentProgressInCourse)
}
