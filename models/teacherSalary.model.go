package models

import (
	"time"

	"gorm.io/gorm"
)

// TeacherSalary is one salary record per (teacher, month). TotalSalary is
// recalculated on every save.
type TeacherSalary struct {
	gorm.Model
	TeacherID     uint       `json:"teacher_id" gorm:"not null;uniqueIndex:idx_teacher_month"`
	Teacher       User       `json:"-" gorm:"foreignKey:TeacherID"`
	Month         time.Time  `json:"month" gorm:"not null;uniqueIndex:idx_teacher_month"`
	BaseSalary    float64    `json:"base_salary" gorm:"not null"`
	Bonus         float64    `json:"bonus" gorm:"default:0"`
	Deductions    float64    `json:"deductions" gorm:"default:0"`
	TotalSalary   float64    `json:"total_salary"`
	PaymentStatus string     `json:"payment_status" gorm:"default:'pending'"`
	PaymentDate   *time.Time `json:"payment_date"`
	PaymentMethod string     `json:"payment_method" gorm:"default:'bank_transfer'"`
	Notes         string     `json:"notes"`
}

// BeforeSave derives the total from its components so the stored value can
// never drift from them.
func (s *TeacherSalary) BeforeSave(tx *gorm.DB) error {
	s.TotalSalary = s.BaseSalary + s.Bonus - s.Deductions
	return nil
}

func (s TeacherSalary) OwnerID() uint {
	return s.TeacherID
}
