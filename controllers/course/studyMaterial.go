package courseController

import (
	"log"
	"path/filepath"
	"strconv"

	"lms/audit"
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/policy"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// ListMaterials handles GET /course/:id/materials. Teachers and admins see
// every material; students see public ones plus, when enrolled, the rest.
func ListMaterials(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.First(&course, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	db := database.Database.Db.Where("course_id = ?", course.ID)
	if !policy.IsCourseTeacherOrAdmin(user, course) {
		enrolled := policy.NewEnrollmentChecker(database.Database.Db)
		if !policy.IsEnrolledStudent(user, course, enrolled) {
			db = db.Where("is_public = ?", true)
		}
	}

	var materials []courseModels.StudyMaterial
	if err := db.Order("week_number asc, created_at asc").Find(&materials).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch materials!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Materials fetched successfully!", materials)
}

// UploadMaterial handles POST /course/:id/materials as multipart form data.
// Either a file or an external URL must be supplied.
func UploadMaterial(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.First(&course, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !policy.IsCourseTeacherOrAdmin(user, course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to modify this course!", nil)
	}

	title := c.FormValue("title")
	if title == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Title is required!", nil)
	}

	material := courseModels.StudyMaterial{
		CourseID:     course.ID,
		Title:        title,
		Description:  c.FormValue("description"),
		MaterialType: c.FormValue("material_type"),
		FileURL:      c.FormValue("file_url"),
		IsPublic:     c.FormValue("is_public") == "true",
		UploadedByID: user.ID,
	}
	if weekStr := c.FormValue("week_number"); weekStr != "" {
		week, err := strconv.Atoi(weekStr)
		if err != nil || week < 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid week number!", nil)
		}
		material.WeekNumber = &week
	}

	file, fileErr := c.FormFile("file")
	if fileErr == nil && file != nil {
		destDir := filepath.Join(config.AppConfig.UploadDir, "materials")
		path, err := utils.SaveUploadedFile(file, destDir)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store file!", nil)
		}
		material.FilePath = path
		material.FileURL = utils.GetFileURL(path)
		material.FileSize = file.Size
		if material.MaterialType == "" {
			material.MaterialType = utils.DetectFileType(file.Filename)
		}
	} else if material.FileURL == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A file or file_url is required!", nil)
	}

	if material.MaterialType == "" {
		material.MaterialType = courseModels.MaterialLink
	}

	if err := database.Database.Db.Create(&material).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save material!", nil)
	}

	if material.FilePath != "" {
		upload := models.FileUpload{
			FilePath:     material.FilePath,
			FileName:     file.Filename,
			FileType:     models.FileStudyMaterial,
			FileSize:     material.FileSize,
			UploadedByID: user.ID,
			RelatedModel: "study_material",
			RelatedID:    &material.ID,
		}
		if err := database.Database.Db.Create(&upload).Error; err != nil {
			log.Printf("Failed to record file upload for material %d: %v", material.ID, err)
		}
	}

	audit.Default.Record("material.uploaded", map[string]any{
		"materialId": material.ID,
		"courseId":   course.ID,
		"by":         user.ID,
	})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Material uploaded successfully!", material)
}

// UpdateMaterial handles PUT /course/materials/:id for metadata changes.
func UpdateMaterial(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	materialID := c.Locals("materialID").(int)

	var material courseModels.StudyMaterial
	if err := database.Database.Db.Preload("Course").First(&material, materialID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Material not found!", nil)
	}

	if !policy.IsCourseTeacherOrAdmin(user, material) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to modify this material!", nil)
	}

	reqData, ok := c.Locals("validatedMaterialUpdate").(*struct {
		Title       string  `json:"title"`
		Description *string `json:"description"`
		IsPublic    *bool   `json:"is_public"`
		WeekNumber  *int    `json:"week_number" validate:"omitempty,min=1"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.Title != "" {
		material.Title = reqData.Title
	}
	if reqData.Description != nil {
		material.Description = *reqData.Description
	}
	if reqData.IsPublic != nil {
		material.IsPublic = *reqData.IsPublic
	}
	if reqData.WeekNumber != nil {
		material.WeekNumber = reqData.WeekNumber
	}

	if err := database.Database.Db.Save(&material).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update material!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Material updated successfully!", material)
}

// DeleteMaterial handles DELETE /course/materials/:id. The row is removed;
// the blob on disk is kept for audit.
func DeleteMaterial(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	materialID := c.Locals("materialID").(int)

	var material courseModels.StudyMaterial
	if err := database.Database.Db.Preload("Course").First(&material, materialID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Material not found!", nil)
	}

	if !policy.IsCourseTeacherOrAdmin(user, material) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to delete this material!", nil)
	}

	if err := database.Database.Db.Delete(&material).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete material!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Material deleted successfully!", nil)
}
