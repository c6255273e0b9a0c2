package adminRoutes

import (
	adminController "lms/controllers/admin"
	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.RequireRoles(models.RoleAdmin))

	adminGroup.Get("/dashboard", adminController.DashboardStats)
	adminGroup.Get("/analytics", adminController.Analytics)
	adminGroup.Get("/activity", adminController.RecentActivity)
	adminGroup.Get("/financial-summary", adminController.FinancialSummary)
}
