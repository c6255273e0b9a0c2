package adminController

import (
	"sort"
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	examModels "lms/models/exam"
	"lms/policy"

	"github.com/gofiber/fiber/v2"
)

// percentChange reports the growth of cur over prev as a percentage. A zero
// previous period yields 0 rather than a division blowup, so a dashboard
// starting from nothing shows flat instead of infinite growth.
func percentChange(cur, prev float64) float64 {
	if prev > 0 {
		return (cur - prev) / prev * 100
	}
	return 0
}

// DashboardStats handles GET /admin/dashboard for admins.
func DashboardStats(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}
	if !policy.IsAdminUser(user) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Admin access required!", nil)
	}

	db := database.Database.Db

	var totalStudents, totalTeachers, totalCourses, activeCourses int64
	var totalEnrollments, activeEnrollments, totalExams, completedAttempts int64

	db.Model(&models.User{}).Where("role = ?", models.RoleStudent).Count(&totalStudents)
	db.Model(&models.User{}).Where("role = ?", models.RoleTeacher).Count(&totalTeachers)
	db.Model(&courseModels.Course{}).Count(&totalCourses)
	db.Model(&courseModels.Course{}).Where("is_active = ?", true).Count(&activeCourses)
	db.Model(&courseModels.Enrollment{}).Count(&totalEnrollments)
	db.Model(&courseModels.Enrollment{}).Where("is_active = ?", true).Count(&activeEnrollments)
	db.Model(&examModels.Exam{}).Count(&totalExams)
	db.Model(&examModels.ExamAttempt{}).Where("status = ?", examModels.AttemptCompleted).Count(&completedAttempts)

	var totalRevenue float64
	db.Model(&models.FeeTransaction{}).
		Where("payment_status = ?", models.PaymentCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalRevenue)

	weekStart := time.Now().AddDate(0, 0, -7)
	var weekEnrollments, weekTransactions int64
	db.Model(&courseModels.Enrollment{}).Where("enrolled_at >= ?", weekStart).Count(&weekEnrollments)
	db.Model(&models.FeeTransaction{}).Where("transaction_date >= ?", weekStart).Count(&weekTransactions)

	type popularCourse struct {
		CourseID    uint   `json:"course_id"`
		Title       string `json:"title"`
		Enrollments int64  `json:"enrollments"`
	}
	var popular []popularCourse
	db.Model(&courseModels.Enrollment{}).
		Select("enrollments.course_id, courses.title, COUNT(enrollments.id) AS enrollments").
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("enrollments.is_active = ?", true).
		Group("enrollments.course_id, courses.title").
		Order("enrollments desc").
		Limit(5).
		Scan(&popular)

	type recentEnrollment struct {
		StudentName string    `json:"student_name"`
		CourseName  string    `json:"course_name"`
		EnrolledAt  time.Time `json:"enrolled_at"`
	}
	var enrollments []courseModels.Enrollment
	db.Preload("Student").Preload("Course").
		Order("enrolled_at desc").Limit(5).
		Find(&enrollments)
	recent := make([]recentEnrollment, len(enrollments))
	for i, e := range enrollments {
		recent[i] = recentEnrollment{
			StudentName: e.Student.Name,
			CourseName:  e.Course.Title,
			EnrolledAt:  e.EnrolledAt,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", fiber.Map{
		"stats": fiber.Map{
			"total_students":     totalStudents,
			"total_teachers":     totalTeachers,
			"total_courses":      totalCourses,
			"active_courses":     activeCourses,
			"total_enrollments":  totalEnrollments,
			"active_enrollments": activeEnrollments,
			"total_exams":        totalExams,
			"completed_attempts": completedAttempts,
			"total_revenue":      totalRevenue,
			"enrollments_7d":     weekEnrollments,
			"transactions_7d":    weekTransactions,
		},
		"popular_courses":    popular,
		"recent_enrollments": recent,
	})
}

// Analytics handles GET /admin/analytics: the trailing 30 days compared to
// the 30 days before that.
func Analytics(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}
	if !policy.IsAdminUser(user) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Admin access required!", nil)
	}

	db := database.Database.Db
	now := time.Now()
	windowStart := now.AddDate(0, 0, -30)
	prevStart := now.AddDate(0, 0, -60)

	var curUsers, prevUsers int64
	db.Model(&models.User{}).Where("created_at >= ?", windowStart).Count(&curUsers)
	db.Model(&models.User{}).Where("created_at >= ? AND created_at < ?", prevStart, windowStart).Count(&prevUsers)

	var curEnroll, prevEnroll int64
	db.Model(&courseModels.Enrollment{}).Where("enrolled_at >= ?", windowStart).Count(&curEnroll)
	db.Model(&courseModels.Enrollment{}).Where("enrolled_at >= ? AND enrolled_at < ?", prevStart, windowStart).Count(&prevEnroll)

	var curRevenue, prevRevenue float64
	db.Model(&models.FeeTransaction{}).
		Where("payment_status = ? AND transaction_date >= ?", models.PaymentCompleted, windowStart).
		Select("COALESCE(SUM(amount), 0)").Scan(&curRevenue)
	db.Model(&models.FeeTransaction{}).
		Where("payment_status = ? AND transaction_date >= ? AND transaction_date < ?", models.PaymentCompleted, prevStart, windowStart).
		Select("COALESCE(SUM(amount), 0)").Scan(&prevRevenue)

	var curAttempts, prevAttempts int64
	db.Model(&examModels.ExamAttempt{}).Where("started_at >= ?", windowStart).Count(&curAttempts)
	db.Model(&examModels.ExamAttempt{}).Where("started_at >= ? AND started_at < ?", prevStart, windowStart).Count(&prevAttempts)

	var totalStudents, activeStudents int64
	db.Model(&models.User{}).Where("role = ?", models.RoleStudent).Count(&totalStudents)
	db.Model(&models.User{}).
		Where("role = ? AND id IN (?)", models.RoleStudent,
			db.Model(&courseModels.Enrollment{}).Select("student_id").Where("is_active = ?", true)).
		Count(&activeStudents)
	retention := 0.0
	if totalStudents > 0 {
		retention = float64(activeStudents) / float64(totalStudents) * 100
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Analytics fetched successfully!", fiber.Map{
		"period_days": 30,
		"new_users": fiber.Map{
			"current":        curUsers,
			"previous":       prevUsers,
			"change_percent": percentChange(float64(curUsers), float64(prevUsers)),
		},
		"new_enrollments": fiber.Map{
			"current":        curEnroll,
			"previous":       prevEnroll,
			"change_percent": percentChange(float64(curEnroll), float64(prevEnroll)),
		},
		"revenue": fiber.Map{
			"current":        curRevenue,
			"previous":       prevRevenue,
			"change_percent": percentChange(curRevenue, prevRevenue),
		},
		"exam_attempts": fiber.Map{
			"current":        curAttempts,
			"previous":       prevAttempts,
			"change_percent": percentChange(float64(curAttempts), float64(prevAttempts)),
		},
		"student_retention_percent": retention,
	})
}

// RecentActivity handles GET /admin/activity: registrations, enrollments,
// attempts and payments merged into one reverse-chronological feed.
func RecentActivity(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}
	if !policy.IsAdminUser(user) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Admin access required!", nil)
	}

	type activity struct {
		Type        string    `json:"type"`
		Description string    `json:"description"`
		At          time.Time `json:"at"`
	}
	var feed []activity
	db := database.Database.Db

	var users []models.User
	db.Order("created_at desc").Limit(5).Find(&users)
	for _, u := range users {
		feed = append(feed, activity{
			Type:        "registration",
			Description: u.Name + " registered as " + u.Role,
			At:          u.CreatedAt,
		})
	}

	var enrollments []courseModels.Enrollment
	db.Preload("Student").Preload("Course").Order("enrolled_at desc").Limit(5).Find(&enrollments)
	for _, e := range enrollments {
		feed = append(feed, activity{
			Type:        "enrollment",
			Description: e.Student.Name + " enrolled in " + e.Course.Title,
			At:          e.EnrolledAt,
		})
	}

	var attempts []examModels.ExamAttempt
	db.Preload("Student").Preload("Exam").Order("started_at desc").Limit(5).Find(&attempts)
	for _, a := range attempts {
		feed = append(feed, activity{
			Type:        "exam_attempt",
			Description: a.Student.Name + " attempted " + a.Exam.Title,
			At:          a.StartedAt,
		})
	}

	var transactions []models.FeeTransaction
	db.Preload("Student").Order("transaction_date desc").Limit(5).Find(&transactions)
	for _, t := range transactions {
		feed = append(feed, activity{
			Type:        "payment",
			Description: t.Student.Name + " payment " + t.TransactionID,
			At:          t.TransactionDate,
		})
	}

	sort.Slice(feed, func(i, j int) bool { return feed[i].At.After(feed[j].At) })
	if len(feed) > 15 {
		feed = feed[:15]
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Recent activity fetched successfully!", feed)
}

// FinancialSummary handles GET /admin/financial-summary: fee income against
// salary outgo.
func FinancialSummary(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}
	if !policy.IsAdminUser(user) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Admin access required!", nil)
	}

	db := database.Database.Db

	var feesCollected, feesPending float64
	db.Model(&models.FeeTransaction{}).
		Where("payment_status = ?", models.PaymentCompleted).
		Select("COALESCE(SUM(amount), 0)").Scan(&feesCollected)
	db.Model(&models.FeeTransaction{}).
		Where("payment_status = ?", models.PaymentPending).
		Select("COALESCE(SUM(amount), 0)").Scan(&feesPending)

	var salariesPaid, salariesPending float64
	db.Model(&models.TeacherSalary{}).
		Where("payment_status = ?", models.PaymentPaid).
		Select("COALESCE(SUM(total_salary), 0)").Scan(&salariesPaid)
	db.Model(&models.TeacherSalary{}).
		Where("payment_status = ?", models.PaymentPending).
		Select("COALESCE(SUM(total_salary), 0)").Scan(&salariesPending)

	monthStart := time.Date(time.Now().Year(), time.Now().Month(), 1, 0, 0, 0, 0, time.UTC)
	var monthRevenue float64
	db.Model(&models.FeeTransaction{}).
		Where("payment_status = ? AND transaction_date >= ?", models.PaymentCompleted, monthStart).
		Select("COALESCE(SUM(amount), 0)").Scan(&monthRevenue)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Financial summary fetched successfully!", fiber.Map{
		"fees_collected":     feesCollected,
		"fees_pending":       feesPending,
		"salaries_paid":      salariesPaid,
		"salaries_pending":   salariesPending,
		"net_balance":        feesCollected - salariesPaid,
		"revenue_this_month": monthRevenue,
	})
}
