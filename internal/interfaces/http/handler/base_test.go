package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restops/backend/internal/domain/shared"
	"github.com/restops/backend/internal/interfaces/http/dto"
	"github.com/restops/backend/internal/interfaces/http/middleware"
)

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"duplicate shift", shared.ErrDuplicateShift, http.StatusConflict, "DUPLICATE_SHIFT"},
		{"insufficient funds", shared.ErrInsufficientFunds, http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS"},
		{"no funds", shared.ErrNoFunds, http.StatusUnprocessableEntity, "NO_FUNDS"},
		{"unauthorized", shared.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", shared.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"persistence is retryable", shared.ErrPersistence, http.StatusServiceUnavailable, "PERSISTENCE_ERROR"},
		{"wrapped domain error keeps its code", fmt.Errorf("saving: %w", shared.ErrDuplicateShift), http.StatusConflict, "DUPLICATE_SHIFT"},
		{"domain validation code maps to 400", shared.NewDomainError("INVALID_ACTOR", "Acting principal ID cannot be empty"), http.StatusBadRequest, "INVALID_ACTOR"},
		{"plain error maps to internal", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	h := &BaseHandler{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp dto.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestBaseHandler_HandleError_NilIsNoop(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)

	h.HandleError(c, nil)

	assert.Empty(t, w.Body.String())
}

func TestGetRequestID(t *testing.T) {
	t.Run("from context", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)
		c.Set(middleware.RequestIDKey, "req-ctx")

		assert.Equal(t, "req-ctx", getRequestID(c))
	})

	t.Run("falls back to header", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)
		c.Request.Header.Set(middleware.RequestIDKey, "req-hdr")

		assert.Equal(t, "req-hdr", getRequestID(c))
	})

	t.Run("empty when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)

		assert.Equal(t, "", getRequestID(c))
	})
}

func TestBaseHandler_ErrorCarriesRequestID(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)
	c.Set(middleware.RequestIDKey, "req-42")

	h.HandleError(c, shared.ErrNotFound)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "req-42", resp.Error.RequestID)
}
