package examRoutes

import (
	examController "lms/controllers/exam"
	"lms/middleware"
	examValidator "lms/validators/exam"

	"github.com/gofiber/fiber/v2"
)

func SetupExamRoutes(app *fiber.App) {
	examGroup := app.Group("/exam")

	examGroup.Get("/list", middleware.JWTMiddleware, examController.ListExams)
	examGroup.Get("/upcoming", middleware.JWTMiddleware, examController.UpcomingExams)
	examGroup.Get("/ongoing", middleware.JWTMiddleware, examController.OngoingExams)
	examGroup.Post("/create", middleware.JWTMiddleware, examValidator.CreateExam(), examController.CreateExam)

	examGroup.Get("/attempts/my", middleware.JWTMiddleware, examController.MyAttempts)
	examGroup.Get("/attempts/:id", middleware.JWTMiddleware, examValidator.AttemptIDParam(), examController.AttemptDetails)

	examGroup.Put("/questions/:id", middleware.JWTMiddleware, examValidator.QuestionIDParam(), examValidator.UpdateQuestion(), examController.UpdateQuestion)
	examGroup.Delete("/questions/:id", middleware.JWTMiddleware, examValidator.QuestionIDParam(), examController.DeleteQuestion)
	examGroup.Post("/questions/:id/options", middleware.JWTMiddleware, examValidator.QuestionIDParam(), examValidator.AddOption(), examController.AddOption)
	examGroup.Delete("/options/:id", middleware.JWTMiddleware, examValidator.OptionIDParam(), examController.DeleteOption)

	examGroup.Get("/:id", middleware.JWTMiddleware, examValidator.ExamIDParam(), examController.GetExamDetails)
	examGroup.Put("/:id", middleware.JWTMiddleware, examValidator.ExamIDParam(), examValidator.UpdateExam(), examController.UpdateExam)
	examGroup.Delete("/:id", middleware.JWTMiddleware, examValidator.ExamIDParam(), examController.DeleteExam)
	examGroup.Get("/:id/results", middleware.JWTMiddleware, examValidator.ExamIDParam(), examController.ExamResults)
	examGroup.Post("/:id/questions", middleware.JWTMiddleware, examValidator.ExamIDParam(), examValidator.AddQuestion(), examController.AddQuestion)

	examGroup.Post("/:id/start", middleware.JWTMiddleware, examValidator.ExamIDParam(), examController.StartAttempt)
	examGroup.Post("/:id/submit", middleware.JWTMiddleware, examValidator.ExamIDParam(), examValidator.SubmitAttempt(), examController.SubmitAttempt)
}
