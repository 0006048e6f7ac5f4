package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rentledger/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func performWithError(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := &BaseHandler{}
	r.GET("/", func(c *gin.Context) {
		h.HandleError(c, err)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	return w
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, "ERR_NOT_FOUND"},
		{"forbidden", shared.ErrForbidden, http.StatusForbidden, "ERR_FORBIDDEN"},
		{"concurrency conflict", shared.ErrConcurrencyConflict, http.StatusConflict, "ERR_CONCURRENCY_CONFLICT"},
		{"invalid state", shared.NewDomainError("INVALID_STATE", "cannot capture a voided entry"), http.StatusUnprocessableEntity, "ERR_INVALID_STATE"},
		{"insufficient credit", shared.NewDomainError("INSUFFICIENT_CREDIT", "not enough advance credit"), http.StatusUnprocessableEntity, "ERR_INSUFFICIENT_CREDIT"},
		{"domain validation", shared.NewDomainError("INVALID_AMOUNT", "amount must be positive"), http.StatusBadRequest, "ERR_VALIDATION"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "ERR_INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performWithError(tt.err)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
		})
	}
}
