package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	ledgerapp "github.com/restops/backend/internal/application/ledger"
	"github.com/restops/backend/internal/domain/shared"
	"github.com/restops/backend/internal/infrastructure/telemetry"
	"github.com/restops/backend/internal/interfaces/http/dto"
)

// LedgerHandler handles safe-ledger API endpoints: shift reconciliation,
// bank deposits and the read side (balance, history, past summaries).
type LedgerHandler struct {
	BaseHandler
	reconciliation *ledgerapp.ReconciliationService
	deposits       *ledgerapp.DepositService
	queries        *ledgerapp.QueryService
	metrics        *telemetry.LedgerMetrics
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(
	reconciliation *ledgerapp.ReconciliationService,
	deposits *ledgerapp.DepositService,
	queries *ledgerapp.QueryService,
) *LedgerHandler {
	return &LedgerHandler{
		reconciliation: reconciliation,
		deposits:       deposits,
		queries:        queries,
	}
}

// SetMetrics attaches ledger metrics recording. Optional; without it the
// handler serves requests but reports nothing.
func (h *LedgerHandler) SetMetrics(metrics *telemetry.LedgerMetrics) {
	h.metrics = metrics
}

func (h *LedgerHandler) recordRejection(c *gin.Context, err error) {
	if h.metrics == nil {
		return
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		h.metrics.RecordRejection(c.Request.Context(), domainErr.Code)
	}
}

// ReconcileShift godoc
// @ID           reconcileShift
// @Summary      Reconcile a register shift
// @Description  Close out a register shift: records the cash summary and posts the owed amount to the safe ledger atomically
// @Tags         ledger
// @Accept       json
// @Produce      json
// @Param        locationId path string true "Location ID" format(uuid)
// @Param        X-Idempotency-Key header string false "Idempotency key for safe retries"
// @Param        request body ReconcileShiftRequest true "Shift close register counts"
// @Success      201 {object} APIResponse[CashSummaryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /locations/{locationId}/ledger/reconciliations [post]
func (h *LedgerHandler) ReconcileShift(c *gin.Context) {
	locationID, err := getLocationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	var req ReconcileShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	summary, err := h.reconciliation.ReconcileShift(c.Request.Context(), req.toInput(locationID), getPrincipal(c))
	if err != nil {
		h.recordRejection(c, err)
		h.HandleError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordReconciliation(c.Request.Context(), summary.LocationID, summary.ShiftNumber, summary.OwedToSafe)
	}
	h.Created(c, newCashSummaryResponse(summary))
}

// DepositToBank godoc
// @ID           depositToBank
// @Summary      Deposit the safe balance to the bank
// @Description  Empties the location's safe: clears the balance to zero and records the deposit as a ledger entry
// @Tags         ledger
// @Produce      json
// @Param        locationId path string true "Location ID" format(uuid)
// @Param        X-Idempotency-Key header string false "Idempotency key for safe retries"
// @Success      201 {object} APIResponse[DepositResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /locations/{locationId}/ledger/deposits [post]
func (h *LedgerHandler) DepositToBank(c *gin.Context) {
	locationID, err := getLocationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	result, err := h.deposits.DepositToBank(c.Request.Context(), locationID, getPrincipal(c))
	if err != nil {
		h.recordRejection(c, err)
		h.HandleError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordDeposit(c.Request.Context(), locationID, result.DepositedAmount)
	}
	h.Created(c, DepositResponse{
		DepositedAmount: result.DepositedAmount.InexactFloat64(),
		Transaction:     newSafeTransactionResponse(result.Transaction),
		Balance:         newSafeBalanceResponse(result.Balance),
	})
}

// GetBalance godoc
// @ID           getSafeBalance
// @Summary      Get the current safe balance
// @Description  Returns the location's safe balance, creating the zero-valued record on first access
// @Tags         ledger
// @Produce      json
// @Param        locationId path string true "Location ID" format(uuid)
// @Success      200 {object} APIResponse[SafeBalanceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /locations/{locationId}/ledger/balance [get]
func (h *LedgerHandler) GetBalance(c *gin.Context) {
	locationID, err := getLocationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	balance, err := h.queries.GetCurrentBalance(c.Request.Context(), locationID, getPrincipal(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newSafeBalanceResponse(balance))
}

// GetHistory godoc
// @ID           getLedgerHistory
// @Summary      List safe ledger entries
// @Description  Returns a page of the location's ledger history, newest first by default
// @Tags         ledger
// @Produce      json
// @Param        locationId path string true "Location ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        date_from query string false "Lower business date bound (RFC 3339)"
// @Param        date_to query string false "Upper business date bound (RFC 3339)"
// @Param        sort query string false "Sort order" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]SafeTransactionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /locations/{locationId}/ledger/transactions [get]
func (h *LedgerHandler) GetHistory(c *gin.Context) {
	locationID, err := getLocationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter, err := toFilter(req)
	if err != nil {
		h.BadRequest(c, "Invalid date filter: expected RFC 3339 timestamps")
		return
	}

	entries, total, err := h.queries.GetLedgerHistory(c.Request.Context(), locationID, getPrincipal(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	normalized := filter.Normalize()
	h.SuccessWithMeta(c, newSafeTransactionListResponse(entries), total, normalized.Page, normalized.PageSize)
}

// ListCashSummaries godoc
// @ID           listCashSummaries
// @Summary      List shift reconciliations
// @Description  Returns a page of the location's past shift reconciliations
// @Tags         ledger
// @Produce      json
// @Param        locationId path string true "Location ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        date_from query string false "Lower business date bound (RFC 3339)"
// @Param        date_to query string false "Upper business date bound (RFC 3339)"
// @Param        sort query string false "Sort order" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]CashSummaryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /locations/{locationId}/ledger/summaries [get]
func (h *LedgerHandler) ListCashSummaries(c *gin.Context) {
	locationID, err := getLocationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter, err := toFilter(req)
	if err != nil {
		h.BadRequest(c, "Invalid date filter: expected RFC 3339 timestamps")
		return
	}

	summaries, total, err := h.queries.ListCashSummaries(c.Request.Context(), locationID, getPrincipal(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	normalized := filter.Normalize()
	h.SuccessWithMeta(c, newCashSummaryListResponse(summaries), total, normalized.Page, normalized.PageSize)
}

// AuditConservation godoc
// @ID           auditLedgerConservation
// @Summary      Audit ledger conservation
// @Description  Recomputes the sum of the location's ledger entries and compares it with the balance record
// @Tags         ledger
// @Produce      json
// @Param        locationId path string true "Location ID" format(uuid)
// @Success      200 {object} APIResponse[ConservationAuditResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /locations/{locationId}/ledger/audit [get]
func (h *LedgerHandler) AuditConservation(c *gin.Context) {
	locationID, err := getLocationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	consistent, balance, sum, err := h.queries.AuditConservation(c.Request.Context(), locationID, getPrincipal(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ConservationAuditResponse{
		LocationID:     locationID.String(),
		Consistent:     consistent,
		Balance:        balance.InexactFloat64(),
		TransactionSum: sum.InexactFloat64(),
	})
}
