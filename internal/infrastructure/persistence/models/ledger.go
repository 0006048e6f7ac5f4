package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/ledger"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentEntryModel is the persistence model for native payment entries
type PaymentEntryModel struct {
	LandlordAggregateModel
	TenantUnitID    *uuid.UUID      `gorm:"type:uuid;index"`
	PaymentType     string          `gorm:"type:varchar(32);not null;index"`
	FlowDirection   string          `gorm:"type:varchar(16);not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Currency        string          `gorm:"type:varchar(3);not null"`
	Status          string          `gorm:"type:varchar(16);not null;index"`
	TransactionDate time.Time       `gorm:"not null;index"`
	DueDate         *time.Time
	PaymentMethod   string          `gorm:"type:varchar(32)"`
	ReferenceNumber string          `gorm:"type:varchar(128)"`
	Description     string          `gorm:"type:text"`
	LinkedType      string          `gorm:"type:varchar(32);index:idx_payment_entries_link"`
	LinkedID        *uuid.UUID      `gorm:"type:uuid;index:idx_payment_entries_link"`
	Metadata        ledger.Metadata `gorm:"type:jsonb"`
	CapturedAt      *time.Time
	VoidedAt        *time.Time
}

// TableName returns the table name for GORM
func (PaymentEntryModel) TableName() string {
	return "payment_entries"
}

// PaymentEntryModelFromDomain converts a domain payment entry to the persistence model
func PaymentEntryModelFromDomain(e *ledger.PaymentEntry) *PaymentEntryModel {
	m := &PaymentEntryModel{
		TenantUnitID:    e.TenantUnitID,
		PaymentType:     string(e.PaymentType),
		FlowDirection:   string(e.FlowDirection),
		Amount:          e.Amount,
		Currency:        string(e.Currency),
		Status:          string(e.Status),
		TransactionDate: e.TransactionDate,
		DueDate:         e.DueDate,
		PaymentMethod:   string(e.PaymentMethod),
		ReferenceNumber: e.ReferenceNumber,
		Description:     e.Description,
		LinkedType:      string(e.LinkedType),
		LinkedID:        e.LinkedID,
		Metadata:        e.Metadata,
		CapturedAt:      e.CapturedAt,
		VoidedAt:        e.VoidedAt,
	}
	m.FromDomainLandlordAggregateRoot(e.LandlordAggregateRoot)
	return m
}

// ToDomain converts the persistence model to a domain payment entry
func (m *PaymentEntryModel) ToDomain() *ledger.PaymentEntry {
	e := &ledger.PaymentEntry{
		TenantUnitID:    m.TenantUnitID,
		PaymentType:     ledger.PaymentType(m.PaymentType),
		FlowDirection:   ledger.FlowDirection(m.FlowDirection),
		Amount:          m.Amount,
		Currency:        valueobject.Currency(m.Currency),
		Status:          ledger.EntryStatus(m.Status),
		TransactionDate: m.TransactionDate,
		DueDate:         m.DueDate,
		PaymentMethod:   ledger.PaymentMethod(m.PaymentMethod),
		ReferenceNumber: m.ReferenceNumber,
		Description:     m.Description,
		LinkedType:      ledger.LinkTargetType(m.LinkedType),
		LinkedID:        m.LinkedID,
		Metadata:        m.Metadata,
		CapturedAt:      m.CapturedAt,
		VoidedAt:        m.VoidedAt,
	}
	m.PopulateLandlordAggregateRoot(&e.LandlordAggregateRoot)
	return e
}

// FinancialRecordModel is the persistence model for legacy financial
// records. The table is owned by the legacy system; this application only
// reads from it.
type FinancialRecordModel struct {
	BaseModel
	LandlordID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	TenantUnitID    *uuid.UUID      `gorm:"type:uuid;index"`
	Type            string          `gorm:"type:varchar(32);not null"`
	Category        string          `gorm:"type:varchar(64)"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Status          string          `gorm:"type:varchar(16)"`
	TransactionDate time.Time       `gorm:"not null;index"`
	DueDate         *time.Time
	PaymentMethod   string `gorm:"type:varchar(32)"`
	ReferenceNumber string `gorm:"type:varchar(128)"`
	InvoiceNumber   string `gorm:"type:varchar(64);index"`
	Description     string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (FinancialRecordModel) TableName() string {
	return "financial_records"
}

// ToDomain converts the persistence model to a domain financial record
func (m *FinancialRecordModel) ToDomain() *ledger.FinancialRecord {
	return &ledger.FinancialRecord{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		LandlordID:      m.LandlordID,
		TenantUnitID:    m.TenantUnitID,
		Type:            m.Type,
		Category:        m.Category,
		Amount:          m.Amount,
		Status:          m.Status,
		TransactionDate: m.TransactionDate,
		DueDate:         m.DueDate,
		PaymentMethod:   m.PaymentMethod,
		ReferenceNumber: m.ReferenceNumber,
		InvoiceNumber:   m.InvoiceNumber,
		Description:     m.Description,
	}
}

// DepositRefundModel is the persistence model for legacy security-deposit
// refund rows, read-only like financial records.
type DepositRefundModel struct {
	BaseModel
	LandlordID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	TenantUnitID         *uuid.UUID      `gorm:"type:uuid;index"`
	RefundAmount         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Status               string          `gorm:"type:varchar(16)"`
	RefundDate           time.Time       `gorm:"not null;index"`
	PaymentMethod        string          `gorm:"type:varchar(32)"`
	TransactionReference string          `gorm:"type:varchar(128)"`
	ReceiptNumber        string          `gorm:"type:varchar(64)"`
}

// TableName returns the table name for GORM
func (DepositRefundModel) TableName() string {
	return "deposit_refunds"
}

// ToDomain converts the persistence model to a domain deposit refund
func (m *DepositRefundModel) ToDomain() *ledger.DepositRefund {
	return &ledger.DepositRefund{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		LandlordID:           m.LandlordID,
		TenantUnitID:         m.TenantUnitID,
		RefundAmount:         m.RefundAmount,
		Status:               m.Status,
		RefundDate:           m.RefundDate,
		PaymentMethod:        m.PaymentMethod,
		TransactionReference: m.TransactionReference,
		ReceiptNumber:        m.ReceiptNumber,
	}
}
