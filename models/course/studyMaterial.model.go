package course

import (
	"lms/models"

	"gorm.io/gorm"
)

// Material types for StudyMaterial.MaterialType
const (
	MaterialDocument     = "document"
	MaterialVideo        = "video"
	MaterialLink         = "link"
	MaterialPresentation = "presentation"
	MaterialAssignment   = "assignment"
	MaterialPDF          = "pdf"
	MaterialImage        = "image"
	MaterialAudio        = "audio"
)

// StudyMaterial holds course material metadata. The blob itself is stored on
// disk; only name, path and size are recorded here.
type StudyMaterial struct {
	gorm.Model
	CourseID     uint        `json:"course_id" gorm:"index;not null"`
	Course       Course      `json:"-" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	Title        string      `json:"title" gorm:"not null"`
	Description  string      `json:"description"`
	MaterialType string      `json:"material_type" gorm:"default:'document'"`
	FilePath     string      `json:"file_path"`
	FileURL      string      `json:"file_url"`
	FileSize     int64       `json:"file_size"` // bytes
	IsPublic     bool        `json:"is_public" gorm:"default:false"`
	UploadedByID uint        `json:"uploaded_by_id" gorm:"index;not null"`
	UploadedBy   models.User `json:"-" gorm:"foreignKey:UploadedByID"`
	WeekNumber   *int        `json:"week_number"`
}

func (m StudyMaterial) OwnerID() uint {
	return m.UploadedByID
}

func (m StudyMaterial) ScopeCourseID() uint {
	return m.CourseID
}

func (m StudyMaterial) CourseTeacherID() uint {
	return m.Course.TeacherID
}
