package courseRoutes

import (
	courseController "lms/controllers/course"
	"lms/middleware"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Literal paths before the :id routes so they are not captured.
	courseGroup.Get("/list", middleware.JWTMiddleware, courseValidator.ListCourses(), courseController.ListCourses)
	courseGroup.Get("/my", middleware.JWTMiddleware, courseController.MyCourses)
	courseGroup.Post("/create", middleware.JWTMiddleware, courseValidator.CreateCourse(), courseController.CreateCourse)
	courseGroup.Get("/enrollments/my", middleware.JWTMiddleware, courseController.MyEnrollments)
	courseGroup.Put("/enrollments/:id/progress", middleware.JWTMiddleware, courseValidator.EnrollmentIDParam(), courseValidator.UpdateProgress(), courseController.UpdateEnrollmentProgress)

	courseGroup.Put("/weeks/:id", middleware.JWTMiddleware, courseValidator.WeekIDParam(), courseValidator.UpdateWeeklyDetail(), courseController.UpdateWeeklyDetail)
	courseGroup.Delete("/weeks/:id", middleware.JWTMiddleware, courseValidator.WeekIDParam(), courseController.DeleteWeeklyDetail)
	courseGroup.Put("/materials/:id", middleware.JWTMiddleware, courseValidator.MaterialIDParam(), courseValidator.UpdateMaterial(), courseController.UpdateMaterial)
	courseGroup.Delete("/materials/:id", middleware.JWTMiddleware, courseValidator.MaterialIDParam(), courseController.DeleteMaterial)

	courseGroup.Get("/:id", middleware.JWTMiddleware, courseValidator.CourseIDParam(), courseController.GetCourseDetails)
	courseGroup.Put("/:id", middleware.JWTMiddleware, courseValidator.CourseIDParam(), courseValidator.UpdateCourse(), courseController.UpdateCourse)
	courseGroup.Delete("/:id", middleware.JWTMiddleware, courseValidator.CourseIDParam(), courseController.DeleteCourse)
	courseGroup.Get("/:id/students", middleware.JWTMiddleware, courseValidator.CourseIDParam(), courseController.CourseStudents)
	courseGroup.Get("/:id/progress-summary", middleware.JWTMiddleware, courseValidator.CourseIDParam(), courseController.ProgressSummary)
	courseGroup.Post("/:id/schedule", middleware.JWTMiddleware, courseValidator.CourseIDParam(), courseValidator.UpdateSchedule(), courseController.UpdateSchedule)

	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, courseValidator.CourseIDParam(), courseController.EnrollInCourse)
	courseGroup.Post("/:id/unenroll", middleware.JWTMiddleware, courseValidator.CourseIDParam(), courseController.UnenrollFromCourse)
	courseGroup.Post("/:id/rate", middleware.JWTMiddleware, courseValidator.CourseIDParam(), courseValidator.RateCourse(), courseController.RateCourse)

	courseGroup.Get("/:id/weeks", middleware.JWTMiddleware, courseValidator.CourseIDParam(), courseController.ListWeeklyDetails)
	courseGroup.Post("/:id/weeks", middleware.JWTMiddleware, courseValidator.CourseIDParam(), courseValidator.CreateWeeklyDetail(), courseController.CreateWeeklyDetail)
	courseGroup.Get("/:id/materials", middleware.JWTMiddleware, courseValidator.CourseIDParam(), courseController.ListMaterials)
	courseGroup.Post("/:id/materials", middleware.JWTMiddleware, courseValidator.CourseIDParam(), courseController.UploadMaterial)
}
