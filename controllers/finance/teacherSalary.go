package financeController

import (
	"errors"
	"time"

	"lms/audit"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/policy"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// normalizeMonth collapses any timestamp to the first instant of its month
// so the (teacher, month) uniqueness behaves calendar-wise.
func normalizeMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// CreateSalary handles POST /finance/salaries. One record per teacher and
// month; a duplicate month is rejected.
func CreateSalary(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}
	if !policy.IsAdminUser(user) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Admin access required!", nil)
	}

	reqData, ok := c.Locals("validatedSalary").(*struct {
		TeacherID  uint      `json:"teacher_id" validate:"required"`
		Month      time.Time `json:"month" validate:"required"`
		BaseSalary float64   `json:"base_salary" validate:"required,min=0"`
		Bonus      float64   `json:"bonus" validate:"min=0"`
		Deductions float64   `json:"deductions" validate:"min=0"`
		Notes      string    `json:"notes"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	var teacher models.User
	if err := database.Database.Db.
		Where("id = ? AND role = ?", reqData.TeacherID, models.RoleTeacher).
		First(&teacher).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Teacher not found!", nil)
	}

	month := normalizeMonth(reqData.Month)

	var existing int64
	database.Database.Db.Model(&models.TeacherSalary{}).
		Where("teacher_id = ? AND month = ?", teacher.ID, month).
		Count(&existing)
	if existing > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Salary record already exists for this month!", nil)
	}

	salary := models.TeacherSalary{
		TeacherID:     teacher.ID,
		Month:         month,
		BaseSalary:    reqData.BaseSalary,
		Bonus:         reqData.Bonus,
		Deductions:    reqData.Deductions,
		PaymentStatus: models.PaymentPending,
		Notes:         reqData.Notes,
	}
	if err := database.Database.Db.Create(&salary).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Salary record already exists for this month!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create salary record!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Salary record created successfully!", salary)
}

// ListSalaries handles GET /finance/salaries for admins.
func ListSalaries(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}
	if !policy.IsAdminUser(user) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Admin access required!", nil)
	}

	db := database.Database.Db.Model(&models.TeacherSalary{})
	if teacherID := c.QueryInt("teacher_id"); teacherID > 0 {
		db = db.Where("teacher_id = ?", teacherID)
	}
	if status := c.Query("status"); status != "" {
		db = db.Where("payment_status = ?", status)
	}

	var salaries []models.TeacherSalary
	if err := db.Preload("Teacher").Order("month desc").Find(&salaries).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch salaries!", nil)
	}
	for i := range salaries {
		salaries[i].Teacher.Password = ""
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Salaries fetched successfully!", salaries)
}

// MySalary handles GET /finance/salaries/my for teachers.
func MySalary(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}
	if !policy.IsTeacherUser(user) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Teacher access required!", nil)
	}

	var salaries []models.TeacherSalary
	if err := database.Database.Db.
		Where("teacher_id = ?", user.ID).
		Order("month desc").
		Find(&salaries).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch salaries!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Salaries fetched successfully!", salaries)
}

// UpdateSalary handles PUT /finance/salaries/:id. The stored total follows
// the components automatically.
func UpdateSalary(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}
	if !policy.IsAdminUser(user) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Admin access required!", nil)
	}

	salaryID := c.Locals("salaryID").(int)

	var salary models.TeacherSalary
	if err := database.Database.Db.First(&salary, salaryID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Salary record not found!", nil)
	}

	reqData, ok := c.Locals("validatedSalaryUpdate").(*struct {
		BaseSalary *float64 `json:"base_salary" validate:"omitempty,min=0"`
		Bonus      *float64 `json:"bonus" validate:"omitempty,min=0"`
		Deductions *float64 `json:"deductions" validate:"omitempty,min=0"`
		Notes      *string  `json:"notes"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.BaseSalary != nil {
		salary.BaseSalary = *reqData.BaseSalary
	}
	if reqData.Bonus != nil {
		salary.Bonus = *reqData.Bonus
	}
	if reqData.Deductions != nil {
		salary.Deductions = *reqData.Deductions
	}
	if reqData.Notes != nil {
		salary.Notes = *reqData.Notes
	}

	if err := database.Database.Db.Save(&salary).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update salary record!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Salary record updated successfully!", salary)
}

// MarkSalaryPaid handles POST /finance/salaries/:id/pay for admins.
func MarkSalaryPaid(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}
	if !policy.IsAdminUser(user) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Admin access required!", nil)
	}

	salaryID := c.Locals("salaryID").(int)

	var salary models.TeacherSalary
	if err := database.Database.Db.First(&salary, salaryID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Salary record not found!", nil)
	}

	if salary.PaymentStatus == models.PaymentPaid {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Salary has already been paid!", nil)
	}

	reqData, _ := c.Locals("validatedSalaryPayment").(*struct {
		PaymentMethod string `json:"payment_method" validate:"omitempty,oneof=credit_card debit_card bank_transfer cash online"`
	})

	now := time.Now()
	salary.PaymentStatus = models.PaymentPaid
	salary.PaymentDate = &now
	if reqData != nil && reqData.PaymentMethod != "" {
		salary.PaymentMethod = reqData.PaymentMethod
	}

	if err := database.Database.Db.Save(&salary).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update salary record!", nil)
	}

	audit.Default.Record("salary.paid", map[string]any{
		"salaryId":  salary.ID,
		"teacherId": salary.TeacherID,
		"month":     salary.Month.Format("2006-01"),
		"total":     salary.TotalSalary,
		"by":        user.ID,
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Salary marked as paid!", salary)
}
