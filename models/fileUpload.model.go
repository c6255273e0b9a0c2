package models

import "gorm.io/gorm"

// File categories for FileUpload.FileType
const (
	FileStudyMaterial   = "study_material"
	FileAssignment      = "assignment"
	FileExam            = "exam"
	FileProfilePicture  = "profile_picture"
	FileCourseThumbnail = "course_thumbnail"
	FileOther           = "other"
)

// FileUpload records metadata for a stored file. The blob itself lives under
// the configured upload directory.
type FileUpload struct {
	gorm.Model
	FilePath     string `json:"file_path" gorm:"not null"`
	FileName     string `json:"file_name" gorm:"not null"`
	FileType     string `json:"file_type" gorm:"not null"`
	FileSize     int64  `json:"file_size"` // bytes
	UploadedByID uint   `json:"uploaded_by_id" gorm:"index;not null"`
	UploadedBy   User   `json:"-" gorm:"foreignKey:UploadedByID"`
	RelatedModel string `json:"related_model"`
	RelatedID    *uint  `json:"related_id"`
}

func (f FileUpload) OwnerID() uint {
	return f.UploadedByID
}
