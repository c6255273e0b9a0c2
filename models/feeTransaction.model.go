package models

import (
	"time"

	"gorm.io/gorm"
)

// Transaction types for FeeTransaction.TransactionType
const (
	FeeTypeCourse   = "course"
	FeeTypeExam     = "exam"
	FeeTypeMaterial = "material"
	FeeTypeOther    = "other"
)

// Payment statuses shared by FeeTransaction and TeacherSalary
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
	PaymentPaid      = "paid"
)

// Payment methods
const (
	MethodCreditCard   = "credit_card"
	MethodDebitCard    = "debit_card"
	MethodBankTransfer = "bank_transfer"
	MethodCash         = "cash"
	MethodOnline       = "online"
)

// FeeTransaction records a fee payment by a student, optionally tied to a
// course. Amounts are non-negative; validation happens before create.
type FeeTransaction struct {
	gorm.Model
	StudentID       uint      `json:"student_id" gorm:"index;not null"`
	Student         User      `json:"-" gorm:"foreignKey:StudentID"`
	CourseID        *uint     `json:"course_id" gorm:"index"`
	TransactionType string    `json:"transaction_type" gorm:"default:'course'"`
	Amount          float64   `json:"amount" gorm:"not null"`
	PaymentStatus   string    `json:"payment_status" gorm:"default:'pending'"`
	PaymentMethod   string    `json:"payment_method" gorm:"default:'online'"`
	TransactionID   string    `json:"transaction_id" gorm:"uniqueIndex"`
	Description     string    `json:"description"`
	TransactionDate time.Time `json:"transaction_date" gorm:"autoCreateTime"`
}

func (t FeeTransaction) OwnerID() uint {
	return t.StudentID
}
