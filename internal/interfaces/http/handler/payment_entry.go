package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/application/payments"
	"github.com/rentledger/backend/internal/domain/ledger"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
	"github.com/rentledger/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
)

// PaymentEntryHandler handles the native payment entry lifecycle
type PaymentEntryHandler struct {
	BaseHandler
	service *payments.PaymentEntryService
}

// NewPaymentEntryHandler creates a new PaymentEntryHandler
func NewPaymentEntryHandler(service *payments.PaymentEntryService) *PaymentEntryHandler {
	return &PaymentEntryHandler{service: service}
}

// RegisterRoutes registers payment entry routes
func (h *PaymentEntryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	entries := rg.Group("/payment-entries")
	{
		entries.POST("", h.Create)
		entries.GET("/:id", h.Get)
		entries.POST("/:id/capture", h.Capture)
		entries.POST("/:id/void", h.Void)
	}
}

// CreatePaymentEntryRequest is the creation payload
type CreatePaymentEntryRequest struct {
	TenantUnitID    string  `json:"tenant_unit_id" binding:"omitempty,uuid"`
	PaymentType     string  `json:"payment_type" binding:"required,oneof=rent maintenance_expense security_deposit security_refund fee other_income other_outgoing"`
	FlowDirection   string  `json:"flow_direction" binding:"omitempty,oneof=income outgoing"`
	Amount          float64 `json:"amount" binding:"required,gt=0"`
	Currency        string  `json:"currency" binding:"omitempty,currency"`
	Status          string  `json:"status" binding:"omitempty,oneof=draft pending scheduled completed"`
	TransactionDate string  `json:"transaction_date" binding:"omitempty"`
	DueDate         string  `json:"due_date" binding:"omitempty"`
	PaymentMethod   string  `json:"payment_method" binding:"omitempty,oneof=cash bank_transfer mobile_money check card other"`
	ReferenceNumber string  `json:"reference_number"`
	Description     string  `json:"description"`
	LinkedType      string  `json:"linked_type" binding:"omitempty,oneof=rent_invoice maintenance_invoice financial_record"`
	LinkedID        string  `json:"linked_id" binding:"omitempty,uuid"`

	Metadata map[string]string `json:"metadata"`
}

// VoidPaymentEntryRequest carries the void reason
type VoidPaymentEntryRequest struct {
	Reason string `json:"reason"`
}

// Create records a new payment entry
//
//	POST /api/v1/payment-entries
func (h *PaymentEntryHandler) Create(c *gin.Context) {
	landlordID, err := getLandlordID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid landlord context")
		return
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user context")
		return
	}

	var req CreatePaymentEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := payments.CreatePaymentEntryInput{
		PaymentType:     ledger.PaymentType(req.PaymentType),
		FlowDirection:   ledger.FlowDirection(req.FlowDirection),
		Amount:          decimal.NewFromFloat(req.Amount),
		Currency:        valueobject.Currency(req.Currency),
		Status:          ledger.EntryStatus(req.Status),
		PaymentMethod:   ledger.PaymentMethod(req.PaymentMethod),
		ReferenceNumber: req.ReferenceNumber,
		Description:     req.Description,
		LinkedType:      ledger.LinkTargetType(req.LinkedType),
		Metadata:        req.Metadata,
	}
	if req.TenantUnitID != "" {
		id, _ := uuid.Parse(req.TenantUnitID)
		input.TenantUnitID = &id
	}
	if req.LinkedID != "" {
		id, _ := uuid.Parse(req.LinkedID)
		input.LinkedID = &id
	}
	if req.TransactionDate != "" {
		txDate, err := time.Parse(time.RFC3339, req.TransactionDate)
		if err != nil {
			h.BadRequest(c, "transaction_date must be an RFC3339 timestamp")
			return
		}
		input.TransactionDate = txDate
	}
	if req.DueDate != "" {
		dueDate, err := time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			h.BadRequest(c, "due_date must be an RFC3339 timestamp")
			return
		}
		input.DueDate = &dueDate
	}

	entry, err := h.service.Create(c.Request.Context(), landlordID, userID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, entry)
}

// Get returns one payment entry
//
//	GET /api/v1/payment-entries/:id
func (h *PaymentEntryHandler) Get(c *gin.Context) {
	landlordID, err := getLandlordID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid landlord context")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "id must be a valid UUID")
		return
	}
	entryID, _ := uuid.Parse(req.ID)

	entry, err := h.service.Get(c.Request.Context(), landlordID, entryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

// Capture completes a payment entry; its linked invoice is re-reconciled
//
//	POST /api/v1/payment-entries/:id/capture
func (h *PaymentEntryHandler) Capture(c *gin.Context) {
	landlordID, err := getLandlordID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid landlord context")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "id must be a valid UUID")
		return
	}
	entryID, _ := uuid.Parse(req.ID)

	entry, err := h.service.Capture(c.Request.Context(), landlordID, entryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

// Void cancels a payment entry; its linked invoice is re-reconciled and a
// previously settled charge may come back as outstanding
//
//	POST /api/v1/payment-entries/:id/void
func (h *PaymentEntryHandler) Void(c *gin.Context) {
	landlordID, err := getLandlordID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid landlord context")
		return
	}

	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, "id must be a valid UUID")
		return
	}
	entryID, _ := uuid.Parse(uriReq.ID)

	var req VoidPaymentEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.BadRequest(c, err.Error())
		return
	}

	entry, err := h.service.Void(c.Request.Context(), landlordID, entryID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}
