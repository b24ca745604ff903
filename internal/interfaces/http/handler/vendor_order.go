package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	orderingapp "github.com/restops/backend/internal/application/ordering"
	"github.com/restops/backend/internal/domain/ordering"
	"github.com/restops/backend/internal/infrastructure/printing"
	"github.com/restops/backend/internal/interfaces/http/dto"
)

// VendorOrderHandler handles vendor order API endpoints: submissions, the
// normalized report view and its PDF export.
type VendorOrderHandler struct {
	BaseHandler
	orders   *orderingapp.VendorOrderService
	renderer printing.PDFRenderer
}

// NewVendorOrderHandler creates a new VendorOrderHandler. A nil renderer
// disables the PDF export endpoint.
func NewVendorOrderHandler(orders *orderingapp.VendorOrderService, renderer printing.PDFRenderer) *VendorOrderHandler {
	return &VendorOrderHandler{
		orders:   orders,
		renderer: renderer,
	}
}

// SubmitOrder godoc
// @ID           submitVendorOrder
// @Summary      Submit a vendor order
// @Description  Records a per-vendor purchase order for a shift; at most one exists per vendor, location, business day and shift
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        locationId path string true "Location ID" format(uuid)
// @Param        X-Idempotency-Key header string false "Idempotency key for safe retries"
// @Param        request body SubmitOrderRequest true "Order submission"
// @Success      201 {object} APIResponse[VendorOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /locations/{locationId}/orders [post]
func (h *VendorOrderHandler) SubmitOrder(c *gin.Context) {
	locationID, err := getLocationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	var req SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orders.SubmitOrder(c.Request.Context(), req.toInput(locationID), getPrincipal(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, newVendorOrderResponse(order))
}

// ListOrders godoc
// @ID           listVendorOrders
// @Summary      List vendor orders
// @Description  Returns a page of the location's vendor orders, optionally narrowed to one vendor
// @Tags         orders
// @Produce      json
// @Param        locationId path string true "Location ID" format(uuid)
// @Param        order_type query string false "Vendor" Enums(SYSCO, US_CHEF, RESTAURANT_DEPOT, SPECIAL_ONLINE)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        date_from query string false "Lower business date bound (RFC 3339)"
// @Param        date_to query string false "Upper business date bound (RFC 3339)"
// @Param        sort query string false "Sort order" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]VendorOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /locations/{locationId}/orders [get]
func (h *VendorOrderHandler) ListOrders(c *gin.Context) {
	locationID, err := getLocationID(c)
	if err != nil {
		h.BadRequest(c, "Invalid location ID format")
		return
	}

	var orderType *ordering.OrderType
	if raw := c.Query("order_type"); raw != "" {
		t := ordering.OrderType(raw)
		if !t.IsValid() {
			h.BadRequest(c, "Unknown vendor order type")
			return
		}
		orderType = &t
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

	orders, total, err := h.orders.ListOrders(c.Request.Context(), locationID, orderType, getPrincipal(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	normalized := filter.Normalize()
	h.SuccessWithMeta(c, newVendorOrderListResponse(orders), total, normalized.Page, normalized.PageSize)
}

// GetOrder godoc
// @ID           getVendorOrder
// @Summary      Get a vendor order
// @Description  Returns one vendor order with its line items
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[VendorOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *VendorOrderHandler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), id, getPrincipal(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newVendorOrderResponse(order))
}

// GetReport godoc
// @ID           getVendorOrderReport
// @Summary      Get a normalized order report
// @Description  Returns the order's items reshaped into a rectangular table: the union of quantity fields across items, zero-filled where absent
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[OrderReportResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/report [get]
func (h *VendorOrderHandler) GetReport(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	report, err := h.orders.BuildReport(c.Request.Context(), id, getPrincipal(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, newOrderReportResponse(report))
}

// ExportReportPDF godoc
// @ID           exportVendorOrderReportPDF
// @Summary      Export an order report as PDF
// @Description  Renders the normalized order report to a printable PDF document
// @Tags         orders
// @Produce      application/pdf
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {file} binary
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/report/pdf [get]
func (h *VendorOrderHandler) ExportReportPDF(c *gin.Context) {
	if h.renderer == nil {
		h.Error(c, http.StatusServiceUnavailable, "PRINTING_DISABLED", "PDF export is not enabled")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	report, err := h.orders.BuildReport(c.Request.Context(), id, getPrincipal(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	data := toPrintData(report)
	html, err := printing.BuildOrderReportHTML(data)
	if err != nil {
		h.InternalError(c, "Failed to render order report")
		return
	}

	pdf, err := h.renderer.RenderHTML(c.Request.Context(), html, data.Title())
	if err != nil {
		h.Error(c, http.StatusServiceUnavailable, "RENDER_FAILED", "Failed to render PDF document")
		return
	}

	filename := report.Order.Type.String() + "-" + report.Order.BusinessDay().Format("2006-01-02") + ".pdf"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
