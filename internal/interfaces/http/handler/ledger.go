package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rentledger/backend/internal/application/payments"
	"github.com/rentledger/backend/internal/domain/ledger"
)

// LedgerHandler serves the unified payment feed
type LedgerHandler struct {
	BaseHandler
	service *payments.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(service *payments.LedgerService) *LedgerHandler {
	return &LedgerHandler{service: service}
}

// RegisterRoutes registers ledger routes
func (h *LedgerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/payments", h.ListPayments)
}

// ListPaymentsRequest filters the unified payment feed
type ListPaymentsRequest struct {
	UnitID        string `form:"unit_id" binding:"omitempty,uuid"`
	TenantUnitID  string `form:"tenant_unit_id" binding:"omitempty,uuid"`
	PaymentType   string `form:"payment_type"`
	FlowDirection string `form:"flow_direction" binding:"omitempty,oneof=income outgoing"`
	Status        string `form:"status"`
	SourceKind    string `form:"source_kind" binding:"omitempty,oneof=native legacy_financial legacy_refund"`
	SourceType    string `form:"source_type" binding:"omitempty,oneof=rent_invoice maintenance_invoice financial_record"`
	CompositeID   string `form:"composite_id"`
	From          string `form:"from"`
	To            string `form:"to"`
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=200"`
}

// ListPayments returns the landlord's payments across all three sources
// as one feed, newest first.
//
//	GET /api/v1/payments
func (h *LedgerHandler) ListPayments(c *gin.Context) {
	landlordID, err := getLandlordID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid landlord context")
		return
	}

	var req ListPaymentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	query := payments.ListPaymentsQuery{
		PaymentType:   ledger.PaymentType(req.PaymentType),
		FlowDirection: ledger.FlowDirection(req.FlowDirection),
		Status:        ledger.EntryStatus(req.Status),
		SourceKind:    ledger.SourceKind(req.SourceKind),
		LinkedType:    ledger.LinkTargetType(req.SourceType),
		CompositeID:   req.CompositeID,
		Page:          req.Page,
		PageSize:      req.PageSize,
	}
	if req.UnitID != "" {
		id, _ := uuid.Parse(req.UnitID)
		query.UnitID = &id
	}
	if req.TenantUnitID != "" {
		id, _ := uuid.Parse(req.TenantUnitID)
		query.TenantUnitID = &id
	}
	if req.From != "" {
		from, err := time.Parse(time.RFC3339, req.From)
		if err != nil {
			h.BadRequest(c, "from must be an RFC3339 timestamp")
			return
		}
		query.From = &from
	}
	if req.To != "" {
		to, err := time.Parse(time.RFC3339, req.To)
		if err != nil {
			h.BadRequest(c, "to must be an RFC3339 timestamp")
			return
		}
		query.To = &to
	}

	result, err := h.service.ListUnifiedPayments(c.Request.Context(), landlordID, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Entries, result.Total, result.Page, result.PageSize)
}
