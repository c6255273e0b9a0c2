package financeRoutes

import (
	financeController "lms/controllers/finance"
	"lms/middleware"
	financeValidator "lms/validators/finance"

	"github.com/gofiber/fiber/v2"
)

func SetupFinanceRoutes(app *fiber.App) {
	financeGroup := app.Group("/finance")

	financeGroup.Post("/transactions", middleware.JWTMiddleware, financeValidator.CreateTransaction(), financeController.CreateTransaction)
	financeGroup.Get("/transactions", middleware.JWTMiddleware, financeController.ListTransactions)
	financeGroup.Get("/transactions/my", middleware.JWTMiddleware, financeController.MyTransactions)
	financeGroup.Put("/transactions/:id/status", middleware.JWTMiddleware, financeValidator.TransactionIDParam(), financeValidator.UpdateTransactionStatus(), financeController.UpdateTransactionStatus)
	financeGroup.Get("/students/:id/payments", middleware.JWTMiddleware, financeValidator.StudentIDParam(), financeController.StudentPayments)
	financeGroup.Get("/summary", middleware.JWTMiddleware, financeController.PaymentSummary)

	financeGroup.Post("/salaries", middleware.JWTMiddleware, financeValidator.CreateSalary(), financeController.CreateSalary)
	financeGroup.Get("/salaries", middleware.JWTMiddleware, financeController.ListSalaries)
	financeGroup.Get("/salaries/my", middleware.JWTMiddleware, financeController.MySalary)
	financeGroup.Put("/salaries/:id", middleware.JWTMiddleware, financeValidator.SalaryIDParam(), financeValidator.UpdateSalary(), financeController.UpdateSalary)
	financeGroup.Post("/salaries/:id/pay", middleware.JWTMiddleware, financeValidator.SalaryIDParam(), financeValidator.MarkSalaryPaid(), financeController.MarkSalaryPaid)
}
