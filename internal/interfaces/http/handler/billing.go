package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/application/payments"
	"github.com/rentledger/backend/internal/domain/ledger"
	"github.com/rentledger/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
)

// BillingHandler handles invoice reconciliation and advance rent endpoints
type BillingHandler struct {
	BaseHandler
	reconciliation *payments.ReconciliationService
	advanceRent    *payments.AdvanceRentService
}

// NewBillingHandler creates a new BillingHandler
func NewBillingHandler(reconciliation *payments.ReconciliationService, advanceRent *payments.AdvanceRentService) *BillingHandler {
	return &BillingHandler{
		reconciliation: reconciliation,
		advanceRent:    advanceRent,
	}
}

// RegisterRoutes registers billing routes
func (h *BillingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/rent-invoices/:id/reconcile", h.ReconcileRentInvoice)
	rg.POST("/maintenance-invoices/:id/reconcile", h.ReconcileMaintenanceInvoice)

	units := rg.Group("/tenant-units/:id")
	{
		units.GET("/pending-charges", h.ListPendingCharges)
		units.POST("/advance-rent", h.CollectAdvanceRent)
		units.POST("/advance-rent/apply", h.ApplyAdvanceRent)
	}
}

// ReconcileRentInvoice recomputes a rent invoice's payment status from the
// unified ledger, settling it when covered
//
//	POST /api/v1/rent-invoices/:id/reconcile
func (h *BillingHandler) ReconcileRentInvoice(c *gin.Context) {
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
	invoiceID, _ := uuid.Parse(req.ID)

	result, err := h.reconciliation.ReconcileRentInvoice(c.Request.Context(), landlordID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ReconcileMaintenanceInvoice recomputes a maintenance invoice's payment
// status from the unified ledger
//
//	POST /api/v1/maintenance-invoices/:id/reconcile
func (h *BillingHandler) ReconcileMaintenanceInvoice(c *gin.Context) {
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
	invoiceID, _ := uuid.Parse(req.ID)

	result, err := h.reconciliation.ReconcileMaintenanceInvoice(c.Request.Context(), landlordID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListPendingCharges returns every open charge for a lease with its
// matched total and remaining balance. One matching pass covers all
// invoices, so a payment is never counted toward two of them.
//
//	GET /api/v1/tenant-units/:id/pending-charges
func (h *BillingHandler) ListPendingCharges(c *gin.Context) {
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
	tenantUnitID, _ := uuid.Parse(req.ID)

	charges, err := h.reconciliation.ListPendingCharges(c.Request.Context(), landlordID, tenantUnitID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, charges)
}

// CollectAdvanceRentRequest is the advance rent collection payload
type CollectAdvanceRentRequest struct {
	Months          int     `json:"months" binding:"required,min=1,max=36"`
	Amount          float64 `json:"amount" binding:"required,gt=0"`
	PaymentMethod   string  `json:"payment_method" binding:"omitempty,oneof=cash bank_transfer mobile_money check card other"`
	ReferenceNumber string  `json:"reference_number"`
	TransactionDate string  `json:"transaction_date" binding:"omitempty"`
}

// CollectAdvanceRent records an up-front advance rent collection and
// immediately draws it down against open invoices, oldest first
//
//	POST /api/v1/tenant-units/:id/advance-rent
func (h *BillingHandler) CollectAdvanceRent(c *gin.Context) {
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

	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, "id must be a valid UUID")
		return
	}
	tenantUnitID, _ := uuid.Parse(uriReq.ID)

	var req CollectAdvanceRentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := payments.CollectAdvanceRentInput{
		TenantUnitID:    tenantUnitID,
		Months:          req.Months,
		Amount:          decimal.NewFromFloat(req.Amount),
		PaymentMethod:   ledger.PaymentMethod(req.PaymentMethod),
		ReferenceNumber: req.ReferenceNumber,
	}
	if req.TransactionDate != "" {
		txDate, err := time.Parse(time.RFC3339, req.TransactionDate)
		if err != nil {
			h.BadRequest(c, "transaction_date must be an RFC3339 timestamp")
			return
		}
		input.TransactionDate = txDate
	}

	result, err := h.advanceRent.CollectAdvanceRent(c.Request.Context(), landlordID, userID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// ApplyAdvanceRent re-runs the oldest-first advance draw-down for a lease.
// Idempotent: repeating the call applies nothing new.
//
//	POST /api/v1/tenant-units/:id/advance-rent/apply
func (h *BillingHandler) ApplyAdvanceRent(c *gin.Context) {
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
	tenantUnitID, _ := uuid.Parse(req.ID)

	result, err := h.advanceRent.RetroactivelyApplyAdvanceRent(c.Request.Context(), landlordID, tenantUnitID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
