package financeController

import (
	"errors"
	"log"
	"time"

	"lms/audit"
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/policy"

	"github.com/go-resty/resty/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var restyClient = resty.New().SetTimeout(10 * time.Second)

// verifyWithGateway confirms an online payment against the configured
// gateway. Best effort: an unreachable gateway keeps the transaction
// pending instead of failing the request.
func verifyWithGateway(transactionID string, amount float64) (bool, error) {
	if config.AppConfig.PaymentGatewayURL == "" {
		return true, nil
	}

	var result struct {
		Verified bool `json:"verified"`
	}
	resp, err := restyClient.R().
		SetHeader("Authorization", "Bearer "+config.AppConfig.PaymentGatewayKey).
		SetBody(map[string]any{
			"transaction_id": transactionID,
			"amount":         amount,
		}).
		SetResult(&result).
		Post(config.AppConfig.PaymentGatewayURL + "/v1/verify")
	if err != nil {
		return false, err
	}
	if resp.StatusCode() != fiber.StatusOK {
		return false, errors.New("gateway returned " + resp.Status())
	}
	return result.Verified, nil
}

// CreateTransaction handles POST /finance/transactions. Admin only; student
// reads go through MyTransactions.
func CreateTransaction(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}
	if !policy.IsAdminUser(user) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Admin access required!", nil)
	}

	reqData, ok := c.Locals("validatedTransaction").(*struct {
		StudentID       uint    `json:"student_id" validate:"required"`
		CourseID        *uint   `json:"course_id"`
		TransactionType string  `json:"transaction_type" validate:"omitempty,oneof=course exam material other"`
		Amount          float64 `json:"amount" validate:"required,min=0"`
		PaymentMethod   string  `json:"payment_method" validate:"omitempty,oneof=credit_card debit_card bank_transfer cash online"`
		Description     string  `json:"description"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	var student models.User
	if err := database.Database.Db.
		Where("id = ? AND role = ?", reqData.StudentID, models.RoleStudent).
		First(&student).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student not found!", nil)
	}

	if reqData.CourseID != nil {
		var course courseModels.Course
		if err := database.Database.Db.First(&course, *reqData.CourseID).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
	}

	txn := models.FeeTransaction{
		StudentID:       student.ID,
		CourseID:        reqData.CourseID,
		TransactionType: reqData.TransactionType,
		Amount:          reqData.Amount,
		PaymentStatus:   models.PaymentPending,
		PaymentMethod:   reqData.PaymentMethod,
		TransactionID:   "TXN-" + uuid.New().String(),
		Description:     reqData.Description,
	}
	if txn.TransactionType == "" {
		txn.TransactionType = models.FeeTypeCourse
	}
	if txn.PaymentMethod == "" {
		txn.PaymentMethod = models.MethodOnline
	}

	if txn.PaymentMethod == models.MethodOnline {
		verified, err := verifyWithGateway(txn.TransactionID, txn.Amount)
		if err != nil {
			log.Printf("payment gateway verification failed for %s: %v", txn.TransactionID, err)
		} else if verified {
			txn.PaymentStatus = models.PaymentCompleted
		}
	} else {
		txn.PaymentStatus = models.PaymentCompleted
	}

	if err := database.Database.Db.Create(&txn).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create transaction!", nil)
	}

	audit.Default.Record("fee.recorded", map[string]any{
		"transactionId": txn.TransactionID,
		"studentId":     student.ID,
		"amount":        txn.Amount,
		"status":        txn.PaymentStatus,
	})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Transaction created successfully!", txn)
}

// ListTransactions handles GET /finance/transactions for admins, with
// optional student and status filters.
func ListTransactions(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}
	if !policy.IsAdminUser(user) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Admin access required!", nil)
	}

	db := database.Database.Db.Model(&models.FeeTransaction{})
	if studentID := c.QueryInt("student_id"); studentID > 0 {
		db = db.Where("student_id = ?", studentID)
	}
	if status := c.Query("status"); status != "" {
		db = db.Where("payment_status = ?", status)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var total int64
	db.Count(&total)

	var transactions []models.FeeTransaction
	if err := db.
		Offset((page - 1) * limit).Limit(limit).
		Order("transaction_date desc").
		Find(&transactions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch transactions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transactions fetched successfully!", fiber.Map{
		"transactions": transactions,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// MyTransactions handles GET /finance/transactions/my for students.
func MyTransactions(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	var transactions []models.FeeTransaction
	if err := database.Database.Db.
		Where("student_id = ?", user.ID).
		Order("transaction_date desc").
		Find(&transactions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch transactions!", nil)
	}

	var totalPaid float64
	database.Database.Db.Model(&models.FeeTransaction{}).
		Where("student_id = ? AND payment_status = ?", user.ID, models.PaymentCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalPaid)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transactions fetched successfully!", fiber.Map{
		"transactions": transactions,
		"total_paid":   totalPaid,
	})
}

// UpdateTransactionStatus handles PUT /finance/transactions/:id/status for
// admins. Completed and refunded transitions are audited.
func UpdateTransactionStatus(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}
	if !policy.IsAdminUser(user) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Admin access required!", nil)
	}

	transactionID := c.Locals("transactionID").(int)

	var txn models.FeeTransaction
	if err := database.Database.Db.First(&txn, transactionID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Transaction not found!", nil)
	}

	reqData, ok := c.Locals("validatedTransactionStatus").(*struct {
		PaymentStatus string `json:"payment_status" validate:"required,oneof=pending completed failed refunded"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	previous := txn.PaymentStatus
	txn.PaymentStatus = reqData.PaymentStatus
	if err := database.Database.Db.Save(&txn).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update transaction!", nil)
	}

	audit.Default.Record("fee.status_changed", map[string]any{
		"transactionId": txn.TransactionID,
		"from":          previous,
		"to":            txn.PaymentStatus,
		"by":            user.ID,
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transaction updated successfully!", txn)
}

// StudentPayments handles GET /finance/students/:id/payments for admins.
func StudentPayments(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}
	if !policy.IsAdminUser(user) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Admin access required!", nil)
	}

	studentID := c.Locals("studentID").(int)

	var student models.User
	if err := database.Database.Db.
		Where("id = ? AND role = ?", studentID, models.RoleStudent).
		First(&student).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student not found!", nil)
	}
	student.Password = ""

	var transactions []models.FeeTransaction
	if err := database.Database.Db.
		Where("student_id = ?", student.ID).
		Order("transaction_date desc").
		Find(&transactions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch payments!", nil)
	}

	var totalPaid, totalPending float64
	for _, t := range transactions {
		switch t.PaymentStatus {
		case models.PaymentCompleted:
			totalPaid += t.Amount
		case models.PaymentPending:
			totalPending += t.Amount
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payments fetched successfully!", fiber.Map{
		"student":       student,
		"transactions":  transactions,
		"total_paid":    totalPaid,
		"total_pending": totalPending,
	})
}

// PaymentSummary handles GET /finance/summary for admins: totals grouped by
// status and by transaction type.
func PaymentSummary(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}
	if !policy.IsAdminUser(user) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Admin access required!", nil)
	}

	type bucket struct {
		Key   string  `json:"key"`
		Count int64   `json:"count"`
		Total float64 `json:"total"`
	}

	groupBy := func(column string) ([]bucket, error) {
		var rows []bucket
		err := database.Database.Db.Model(&models.FeeTransaction{}).
			Select(column + " as key, COUNT(*) as count, COALESCE(SUM(amount), 0) as total").
			Group(column).
			Scan(&rows).Error
		return rows, err
	}

	byStatus, err := groupBy("payment_status")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to build summary!", nil)
	}
	byType, err := groupBy("transaction_type")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to build summary!", nil)
	}

	var totalCollected float64
	database.Database.Db.Model(&models.FeeTransaction{}).
		Where("payment_status = ?", models.PaymentCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalCollected)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment summary fetched successfully!", fiber.Map{
		"total_collected": totalCollected,
		"by_status":       byStatus,
		"by_type":         byType,
	})
}
