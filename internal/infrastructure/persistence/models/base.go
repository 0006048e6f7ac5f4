package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel provides common persistence fields for aggregate roots.
// It extends BaseModel with version for optimistic locking.
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// LandlordAggregateModel provides common persistence fields for
// landlord-scoped aggregate roots.
type LandlordAggregateModel struct {
	AggregateModel
	LandlordID uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy  *uuid.UUID `gorm:"type:uuid;index"`
}

// FromDomainLandlordAggregateRoot populates LandlordAggregateModel from the domain root
func (m *LandlordAggregateModel) FromDomainLandlordAggregateRoot(l shared.LandlordAggregateRoot) {
	m.FromDomainAggregateRoot(l.BaseAggregateRoot)
	m.LandlordID = l.LandlordID
	m.CreatedBy = l.CreatedBy
}

// PopulateLandlordAggregateRoot populates a domain LandlordAggregateRoot from the model
func (m *LandlordAggregateModel) PopulateLandlordAggregateRoot(l *shared.LandlordAggregateRoot) {
	l.BaseAggregateRoot.BaseEntity.ID = m.ID
	l.BaseAggregateRoot.BaseEntity.CreatedAt = m.CreatedAt
	l.BaseAggregateRoot.BaseEntity.UpdatedAt = m.UpdatedAt
	l.BaseAggregateRoot.Version = m.Version
	l.LandlordID = m.LandlordID
	l.CreatedBy = m.CreatedBy
}
