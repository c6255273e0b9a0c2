package examController

import (
	"lms/database"
	"lms/middleware"
	examModels "lms/models/exam"
	"lms/policy"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AddQuestion handles POST /exam/:id/questions. Options are created in the
// same transaction so a half-written multiple choice question never exists.
func AddQuestion(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	examID := c.Locals("examID").(int)

	var ex examModels.Exam
	if err := database.Database.Db.Preload("Course").First(&ex, examID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Exam not found!", nil)
	}

	if !policy.IsCourseTeacherOrAdmin(user, ex) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to modify this exam!", nil)
	}

	reqData, ok := c.Locals("validatedQuestion").(*struct {
		QuestionText string `json:"question_text" validate:"required"`
		QuestionType string `json:"question_type" validate:"omitempty,oneof=multiple_choice essay true_false short_answer"`
		Marks        int    `json:"marks" validate:"omitempty,min=1"`
		Order        int    `json:"order" validate:"omitempty,min=1"`
		Options      []struct {
			OptionText string `json:"option_text" validate:"required"`
			IsCorrect  bool   `json:"is_correct"`
			Order      int    `json:"order"`
		} `json:"options" validate:"omitempty,dive"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	questionType := reqData.QuestionType
	if questionType == "" {
		questionType = examModels.QuestionMultipleChoice
	}

	objective := questionType == examModels.QuestionMultipleChoice || questionType == examModels.QuestionTrueFalse
	if objective {
		if len(reqData.Options) < 2 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"options": "Objective questions need at least two options",
			})
		}
		hasCorrect := false
		for _, o := range reqData.Options {
			if o.IsCorrect {
				hasCorrect = true
				break
			}
		}
		if !hasCorrect {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"options": "At least one option must be marked correct",
			})
		}
	}

	question := examModels.Question{
		ExamID:       ex.ID,
		QuestionText: reqData.QuestionText,
		QuestionType: questionType,
		Marks:        reqData.Marks,
		Order:        reqData.Order,
	}
	if question.Marks == 0 {
		question.Marks = 1
	}
	if question.Order == 0 {
		var maxOrder int
		database.Database.Db.Model(&examModels.Question{}).
			Where("exam_id = ?", ex.ID).
			Select("COALESCE(MAX(question_order), 0)").
			Scan(&maxOrder)
		question.Order = maxOrder + 1
	}

	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&question).Error; err != nil {
			return err
		}
		for i, o := range reqData.Options {
			order := o.Order
			if order == 0 {
				order = i + 1
			}
			option := examModels.QuestionOption{
				QuestionID: question.ID,
				OptionText: o.OptionText,
				IsCorrect:  o.IsCorrect,
				Order:      order,
			}
			if err := tx.Create(&option).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create question!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Question created successfully!", question)
}

// UpdateQuestion handles PUT /exam/questions/:id.
func UpdateQuestion(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	questionID := c.Locals("questionID").(int)

	var question examModels.Question
	if err := database.Database.Db.Preload("Exam.Course").First(&question, questionID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	}

	if !policy.IsCourseTeacherOrAdmin(user, question) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to modify this exam!", nil)
	}

	reqData, ok := c.Locals("validatedQuestionUpdate").(*struct {
		QuestionText string `json:"question_text"`
		Marks        *int   `json:"marks" validate:"omitempty,min=1"`
		Order        *int   `json:"order" validate:"omitempty,min=1"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.QuestionText != "" {
		question.QuestionText = reqData.QuestionText
	}
	if reqData.Marks != nil {
		question.Marks = *reqData.Marks
	}
	if reqData.Order != nil {
		question.Order = *reqData.Order
	}

	if err := database.Database.Db.Save(&question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update question!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question updated successfully!", question)
}

// DeleteQuestion handles DELETE /exam/questions/:id.
func DeleteQuestion(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	questionID := c.Locals("questionID").(int)

	var question examModels.Question
	if err := database.Database.Db.Preload("Exam.Course").First(&question, questionID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	}

	if !policy.IsCourseTeacherOrAdmin(user, question) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to modify this exam!", nil)
	}

	if err := database.Database.Db.Delete(&question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete question!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question deleted successfully!", nil)
}

// AddOption handles POST /exam/questions/:id/options for adjusting an
// existing question's option set.
func AddOption(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	questionID := c.Locals("questionID").(int)

	var question examModels.Question
	if err := database.Database.Db.Preload("Exam.Course").First(&question, questionID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	}

	if !policy.IsCourseTeacherOrAdmin(user, question) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to modify this exam!", nil)
	}

	reqData, ok := c.Locals("validatedOption").(*struct {
		OptionText string `json:"option_text" validate:"required"`
		IsCorrect  bool   `json:"is_correct"`
		Order      int    `json:"order" validate:"omitempty,min=1"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	option := examModels.QuestionOption{
		QuestionID: question.ID,
		OptionText: reqData.OptionText,
		IsCorrect:  reqData.IsCorrect,
		Order:      reqData.Order,
	}
	if option.Order == 0 {
		var maxOrder int
		database.Database.Db.Model(&examModels.QuestionOption{}).
			Where("question_id = ?", question.ID).
			Select("COALESCE(MAX(option_order), 0)").
			Scan(&maxOrder)
		option.Order = maxOrder + 1
	}

	if err := database.Database.Db.Create(&option).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create option!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Option created successfully!", option)
}

// DeleteOption handles DELETE /exam/options/:id.
func DeleteOption(c *fiber.Ctx) error {
	user, err := middleware.CurrentUser(c)
	if user == nil {
		return err
	}

	optionID := c.Locals("optionID").(int)

	var option examModels.QuestionOption
	if err := database.Database.Db.Preload("Question.Exam.Course").First(&option, optionID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Option not found!", nil)
	}

	if !policy.IsCourseTeacherOrAdmin(user, option) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to modify this exam!", nil)
	}

	if err := database.Database.Db.Delete(&option).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete option!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Option deleted successfully!", nil)
}
