package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/school/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// FeeModel is the persistence model for the Fee domain entity
type FeeModel struct {
	BaseModel
	StudentID     uuid.UUID              `gorm:"type:uuid;not null;index"`
	Type          string                 `gorm:"type:varchar(30);not null;default:'TUITION'"`
	AcademicYear  string                 `gorm:"type:varchar(20);index"`
	Description   string                 `gorm:"type:text"`
	Amount        decimal.Decimal        `gorm:"type:numeric(12,2);not null"`
	PaidAmount    decimal.Decimal        `gorm:"type:numeric(12,2);not null;default:0"`
	DueDate       datatypes.Date         `gorm:"not null;index"`
	Status        finance.FeeStatus      `gorm:"type:varchar(10);not null;default:'DUE';index"`
	PaymentDate   *time.Time
	PaymentMethod *finance.PaymentMethod `gorm:"type:varchar(20)"`
	Student       *StudentModel          `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (FeeModel) TableName() string {
	return "fees"
}

// ToDomain converts the persistence model to a domain Fee entity
func (m *FeeModel) ToDomain() *finance.Fee {
	return &finance.Fee{
		BaseEntity:    m.BaseModel.ToDomain(),
		StudentID:     m.StudentID,
		Type:          m.Type,
		AcademicYear:  m.AcademicYear,
		Description:   m.Description,
		Amount:        m.Amount,
		PaidAmount:    m.PaidAmount,
		DueDate:       time.Time(m.DueDate).UTC(),
		Status:        m.Status,
		PaymentDate:   m.PaymentDate,
		PaymentMethod: m.PaymentMethod,
	}
}

// ToDetail converts a model loaded with its Student
func (m *FeeModel) ToDetail() finance.FeeDetail {
	d := finance.FeeDetail{Fee: *m.ToDomain()}
	if m.Student != nil {
		d.Student = m.Student.ToRef()
	}
	return d
}

// FromDomain populates the persistence model from a domain Fee entity
func (m *FeeModel) FromDomain(f *finance.Fee) {
	m.FromDomainBaseEntity(f.BaseEntity)
	m.StudentID = f.StudentID
	m.Type = f.Type
	m.AcademicYear = f.AcademicYear
	m.Description = f.Description
	m.Amount = f.Amount
	m.PaidAmount = f.PaidAmount
	m.DueDate = datatypes.Date(f.DueDate)
	m.Status = f.Status
	m.PaymentDate = f.PaymentDate
	m.PaymentMethod = f.PaymentMethod
}

// FeeModelFromDomain creates a new persistence model from a domain Fee entity
func FeeModelFromDomain(f *finance.Fee) *FeeModel {
	m := &FeeModel{}
	m.FromDomain(f)
	return m
}

// PaymentModel is an append-only payment row
type PaymentModel struct {
	ID            uuid.UUID             `gorm:"type:uuid;primaryKey"`
	FeeID         uuid.UUID             `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal       `gorm:"type:numeric(12,2);not null"`
	Method        finance.PaymentMethod `gorm:"type:varchar(20);not null"`
	TransactionID string                `gorm:"type:varchar(100)"`
	Remarks       string                `gorm:"type:text"`
	RecordedBy    *uuid.UUID            `gorm:"type:uuid"`
	CreatedAt     time.Time             `gorm:"not null"`
	Fee           *FeeModel             `gorm:"foreignKey:FeeID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment
func (m *PaymentModel) ToDomain() finance.Payment {
	return finance.Payment{
		ID:            m.ID,
		FeeID:         m.FeeID,
		Amount:        m.Amount,
		Method:        m.Method,
		TransactionID: m.TransactionID,
		Remarks:       m.Remarks,
		RecordedBy:    m.RecordedBy,
		CreatedAt:     m.CreatedAt,
	}
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment
func PaymentModelFromDomain(p *finance.Payment) *PaymentModel {
	return &PaymentModel{
		ID:            p.ID,
		FeeID:         p.FeeID,
		Amount:        p.Amount,
		Method:        p.Method,
		TransactionID: p.TransactionID,
		Remarks:       p.Remarks,
		RecordedBy:    p.RecordedBy,
		CreatedAt:     p.CreatedAt,
	}
}
