package userController

import (
	"log"

	"lms/audit"
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/policy"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// Profile returns the authenticated user's own record.
func Profile(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	user.Password = ""
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", user)
}

// UpdateProfile updates the authenticated user's own mutable fields. Role and
// active status are not touchable here.
func UpdateProfile(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	reqData, ok := c.Locals("validatedProfile").(*struct {
		Name    string `json:"name" validate:"omitempty,min=2"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
		Bio     string `json:"bio"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.Name != "" {
		user.Name = reqData.Name
	}
	if reqData.Phone != "" {
		user.Phone = reqData.Phone
	}
	if reqData.Address != "" {
		user.Address = reqData.Address
	}
	if reqData.Bio != "" {
		user.Bio = reqData.Bio
	}

	if err := database.Database.Db.Save(user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	user.Password = ""
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully!", user)
}

// ListUsers returns users scoped by role: admins see everyone, everyone else
// sees only themselves.
func ListUsers(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	reqData, _ := c.Locals("validatedUserList").(*struct {
		Page  *int   `json:"page"`
		Limit *int   `json:"limit"`
		Role  string `json:"role"`
	})

	db := database.Database.Db.Model(&models.User{})
	if !policy.IsAdminUser(user) {
		db = db.Where("id = ?", user.ID)
	} else {
		if reqData != nil && reqData.Role != "" {
			db = db.Where("role = ?", reqData.Role)
		}
		if active := c.Query("is_active"); active != "" {
			db = db.Where("is_active = ?", active == "true")
		}
	}

	page, limit := 1, 10
	if reqData != nil && reqData.Page != nil && *reqData.Page > 0 {
		page = *reqData.Page
	}
	if reqData != nil && reqData.Limit != nil && *reqData.Limit > 0 {
		limit = *reqData.Limit
	}

	var total int64
	db.Count(&total)

	var users []models.User
	if err := db.Offset((page - 1) * limit).Limit(limit).Order("created_at desc").Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	for i := range users {
		users[i].Password = ""
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully!", fiber.Map{
		"users": users,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// CreateUser lets an admin create an account with any role.
func CreateUser(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}
	if !policy.IsAdminUser(user) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Admin access required!", nil)
	}

	reqData, ok := c.Locals("validatedCreateUser").(*struct {
		Name     string `json:"name" validate:"required,min=2"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
		Role     string `json:"role" validate:"required,oneof=admin teacher student"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Password: string(hashedPassword),
		Role:     reqData.Role,
		IsActive: true,
	}
	if err := db.Create(&newUser).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create user!", nil)
	}

	audit.Default.Record("user.created", map[string]any{"userId": newUser.ID, "role": newUser.Role, "by": user.ID})

	newUser.Password = ""
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User created successfully!", newUser)
}

// UpdateUser lets an admin change another user's details, including role.
func UpdateUser(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}
	if !policy.IsAdminUser(user) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Admin access required!", nil)
	}

	targetID := c.Locals("targetUserID").(int)

	var target models.User
	if err := database.Database.Db.First(&target, targetID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedUpdateUser").(*struct {
		Name  string `json:"name" validate:"omitempty,min=2"`
		Role  string `json:"role" validate:"omitempty,oneof=admin teacher student"`
		Phone string `json:"phone"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.Name != "" {
		target.Name = reqData.Name
	}
	if reqData.Phone != "" {
		target.Phone = reqData.Phone
	}
	if reqData.Role != "" && reqData.Role != target.Role {
		audit.Default.Record("user.role_changed", map[string]any{
			"userId": target.ID, "from": target.Role, "to": reqData.Role, "by": user.ID,
		})
		target.Role = reqData.Role
	}

	// BeforeSave re-asserts the superuser⇒admin invariant on this write.
	if err := database.Database.Db.Save(&target).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user!", nil)
	}

	target.Password = ""
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User updated successfully!", target)
}

// ToggleActive flips a user's active flag. Disabled accounts keep their rows;
// nothing is deleted.
func ToggleActive(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}
	if !policy.IsAdminUser(user) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Admin access required!", nil)
	}

	targetID := c.Locals("targetUserID").(int)

	var target models.User
	if err := database.Database.Db.First(&target, targetID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	target.IsActive = !target.IsActive
	if err := database.Database.Db.Save(&target).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to toggle user status!", nil)
	}

	audit.Default.Record("user.toggle_active", map[string]any{"userId": target.ID, "isActive": target.IsActive, "by": user.ID})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User status updated!", fiber.Map{"is_active": target.IsActive})
}

// Teachers lists all active teachers.
func Teachers(c *fiber.Ctx) error {
	if user, err := middleware.CurrentUser(c); user == nil {
		return err
	}

	var teachers []models.User
	if err := database.Database.Db.Where("role = ? AND is_active = ?", models.RoleTeacher, true).Find(&teachers).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch teachers!", nil)
	}
	for i := range teachers {
		teachers[i].Password = ""
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Teachers fetched successfully!", teachers)
}

// Students lists all active students.
func Students(c *fiber.Ctx) error {
	if user, err := middleware.CurrentUser(c); user == nil {
		return err
	}

	var students []models.User
	if err := database.Database.Db.Where("role = ? AND is_active = ?", models.RoleStudent, true).Find(&students).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch students!", nil)
	}
	for i := range students {
		students[i].Password = ""
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Students fetched successfully!", students)
}
