package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/billing"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// TenantUnitModel is the persistence model for leases
type TenantUnitModel struct {
	LandlordAggregateModel
	UnitID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	TenantName        string          `gorm:"type:varchar(255);not null"`
	RentAmount        decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Currency          string          `gorm:"type:varchar(3);not null"`
	Status            string          `gorm:"type:varchar(16);not null;index"`
	AdvanceRentMonths int             `gorm:"not null;default:0"`
	AdvanceRentAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	AdvanceRentUsed   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (TenantUnitModel) TableName() string {
	return "tenant_units"
}

// TenantUnitModelFromDomain converts a domain tenant unit to the persistence model
func TenantUnitModelFromDomain(t *billing.TenantUnit) *TenantUnitModel {
	m := &TenantUnitModel{
		UnitID:            t.UnitID,
		TenantName:        t.TenantName,
		RentAmount:        t.RentAmount,
		Currency:          string(t.Currency),
		Status:            string(t.Status),
		AdvanceRentMonths: t.AdvanceRentMonths,
		AdvanceRentAmount: t.AdvanceRentAmount,
		AdvanceRentUsed:   t.AdvanceRentUsed,
	}
	m.FromDomainLandlordAggregateRoot(t.LandlordAggregateRoot)
	return m
}

// ToDomain converts the persistence model to a domain tenant unit
func (m *TenantUnitModel) ToDomain() *billing.TenantUnit {
	t := &billing.TenantUnit{
		UnitID:            m.UnitID,
		TenantName:        m.TenantName,
		RentAmount:        m.RentAmount,
		Currency:          valueobject.Currency(m.Currency),
		Status:            billing.TenantUnitStatus(m.Status),
		AdvanceRentMonths: m.AdvanceRentMonths,
		AdvanceRentAmount: m.AdvanceRentAmount,
		AdvanceRentUsed:   m.AdvanceRentUsed,
	}
	m.PopulateLandlordAggregateRoot(&t.LandlordAggregateRoot)
	return t
}

// RentInvoiceModel is the persistence model for rent invoices
type RentInvoiceModel struct {
	LandlordAggregateModel
	TenantUnitID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceNumber      string          `gorm:"type:varchar(64);not null;index"`
	PeriodStart        time.Time       `gorm:"not null"`
	DueDate            time.Time       `gorm:"not null;index"`
	RentAmount         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	LateFee            decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	AdvanceRentApplied decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Status             string          `gorm:"type:varchar(16);not null;index"`
	PaidDate           *time.Time
}

// TableName returns the table name for GORM
func (RentInvoiceModel) TableName() string {
	return "rent_invoices"
}

// RentInvoiceModelFromDomain converts a domain rent invoice to the persistence model
func RentInvoiceModelFromDomain(i *billing.RentInvoice) *RentInvoiceModel {
	m := &RentInvoiceModel{
		TenantUnitID:       i.TenantUnitID,
		InvoiceNumber:      i.InvoiceNumber,
		PeriodStart:        i.PeriodStart,
		DueDate:            i.DueDate,
		RentAmount:         i.RentAmount,
		LateFee:            i.LateFee,
		AdvanceRentApplied: i.AdvanceRentApplied,
		Status:             string(i.Status),
		PaidDate:           i.PaidDate,
	}
	m.FromDomainLandlordAggregateRoot(i.LandlordAggregateRoot)
	return m
}

// ToDomain converts the persistence model to a domain rent invoice
func (m *RentInvoiceModel) ToDomain() *billing.RentInvoice {
	i := &billing.RentInvoice{
		TenantUnitID:       m.TenantUnitID,
		InvoiceNumber:      m.InvoiceNumber,
		PeriodStart:        m.PeriodStart,
		DueDate:            m.DueDate,
		RentAmount:         m.RentAmount,
		LateFee:            m.LateFee,
		AdvanceRentApplied: m.AdvanceRentApplied,
		Status:             billing.RentInvoiceStatus(m.Status),
		PaidDate:           m.PaidDate,
	}
	m.PopulateLandlordAggregateRoot(&i.LandlordAggregateRoot)
	return i
}

// MaintenanceInvoiceModel is the persistence model for maintenance invoices
type MaintenanceInvoiceModel struct {
	LandlordAggregateModel
	TenantUnitID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceNumber string          `gorm:"type:varchar(64);not null;index"`
	Description   string          `gorm:"type:text"`
	LaborCost     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	MaterialCost  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Tax           decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	DueDate       time.Time       `gorm:"not null;index"`
	Status        string          `gorm:"type:varchar(16);not null;index"`
	PaidDate      *time.Time
}

// TableName returns the table name for GORM
func (MaintenanceInvoiceModel) TableName() string {
	return "maintenance_invoices"
}

// MaintenanceInvoiceModelFromDomain converts a domain maintenance invoice to the persistence model
func MaintenanceInvoiceModelFromDomain(i *billing.MaintenanceInvoice) *MaintenanceInvoiceModel {
	m := &MaintenanceInvoiceModel{
		TenantUnitID:  i.TenantUnitID,
		InvoiceNumber: i.InvoiceNumber,
		Description:   i.Description,
		LaborCost:     i.LaborCost,
		MaterialCost:  i.MaterialCost,
		Tax:           i.Tax,
		DueDate:       i.DueDate,
		Status:        string(i.Status),
		PaidDate:      i.PaidDate,
	}
	m.FromDomainLandlordAggregateRoot(i.LandlordAggregateRoot)
	return m
}

// ToDomain converts the persistence model to a domain maintenance invoice
func (m *MaintenanceInvoiceModel) ToDomain() *billing.MaintenanceInvoice {
	i := &billing.MaintenanceInvoice{
		TenantUnitID:  m.TenantUnitID,
		InvoiceNumber: m.InvoiceNumber,
		Description:   m.Description,
		LaborCost:     m.LaborCost,
		MaterialCost:  m.MaterialCost,
		Tax:           m.Tax,
		DueDate:       m.DueDate,
		Status:        billing.MaintenanceInvoiceStatus(m.Status),
		PaidDate:      m.PaidDate,
	}
	m.PopulateLandlordAggregateRoot(&i.LandlordAggregateRoot)
	return i
}
