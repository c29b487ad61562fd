package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	bk "github.com/slotbook/booking-backend/booking"
)

type BookingService interface {
	CreateBooking(ctx context.Context, req bk.CreateRequest) (bk.Booking, error)
	ModifyBooking(ctx context.Context, tenantID, id string, changes bk.Changes, reason string) (bk.Booking, error)
	CancelBooking(ctx context.Context, tenantID, id string, req bk.CancelRequest) (bk.Booking, error)
	FindBookingByID(ctx context.Context, tenantID, id string) (bk.Booking, error)
	ListActiveForProvider(ctx context.Context, tenantID, providerID string, from, to time.Time) ([]bk.Booking, error)
	Metrics() bk.MetricsSnapshot
}

type BookingHandler struct {
	service BookingService
}

func NewBookingHandler(service BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id/modify", h.Modify)
	rg.PUT("/:id/cancel", h.Cancel)
	rg.GET("/provider/:providerId", h.ListForProvider)
	rg.GET("/metrics", h.GetMetrics)
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req bk.CreateRequest

	if err := c.BindJSON(&req); err != nil {
		c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "failed to parse JSON body",
		})
		return
	}

	// Tenant always comes from the authenticated token, never the body.
	req.TenantID = tenantID(c)

	created, err := h.service.CreateBooking(c.Request.Context(), req)

	if err != nil {
		writeEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *BookingHandler) GetByID(c *gin.Context) {
	booking, err := h.service.FindBookingByID(c.Request.Context(), tenantID(c), c.Param("id"))

	if err != nil {
		writeEngineError(c, err)
		return
	}

	c.IndentedJSON(http.StatusOK, booking)
}

type modifyRequest struct {
	bk.Changes
	Reason string `json:"reason"`
}

func (h *BookingHandler) Modify(c *gin.Context) {
	var req modifyRequest

	if err := c.BindJSON(&req); err != nil {
		c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "failed to parse JSON body",
		})
		return
	}

	updated, err := h.service.ModifyBooking(c.Request.Context(), tenantID(c), c.Param("id"), req.Changes, req.Reason)

	if err != nil {
		writeEngineError(c, err)
		return
	}

	c.IndentedJSON(http.StatusOK, updated)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	var req bk.CancelRequest

	if err := c.BindJSON(&req); err != nil {
		c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "failed to parse JSON body",
		})
		return
	}

	cancelled, err := h.service.CancelBooking(c.Request.Context(), tenantID(c), c.Param("id"), req)

	if err != nil {
		writeEngineError(c, err)
		return
	}

	c.IndentedJSON(http.StatusOK, cancelled)
}

func (h *BookingHandler) ListForProvider(c *gin.Context) {
	from, to, err := parseWindow(c.Query("from"), c.Query("to"))

	if err != nil {
		c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "failed to parse time window, expected RFC 3339 timestamps",
		})
		return
	}

	bookings, err := h.service.ListActiveForProvider(c.Request.Context(), tenantID(c), c.Param("providerId"), from, to)

	if err != nil {
		writeEngineError(c, err)
		return
	}

	if bookings == nil {
		bookings = []bk.Booking{}
	}

	c.IndentedJSON(http.StatusOK, bookings)
}

func (h *BookingHandler) GetMetrics(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, h.service.Metrics())
}

func tenantID(c *gin.Context) string {
	return c.MustGet("tenantId").(string)
}

// parseWindow defaults to the coming week when no window is supplied.
func parseWindow(fromQuery, toQuery string) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from, to := now, now.Add(7*24*time.Hour)

	if fromQuery != "" {
		parsed, err := time.Parse(time.RFC3339, fromQuery)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}

	if toQuery != "" {
		parsed, err := time.Parse(time.RFC3339, toQuery)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed
	}

	return from, to, nil
}

func writeEngineError(c *gin.Context, err error) {
	c.Error(err)

	var engineErr *bk.Error

	if !errors.As(err, &engineErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	body := gin.H{
		"error": engineErr.Message,
		"code":  string(engineErr.Kind),
	}

	if len(engineErr.Fields) > 0 {
		body["fields"] = engineErr.Fields
	}

	if engineErr.Conflict != nil {
		body["conflict"] = engineErr.Conflict
	}

	c.JSON(engineErr.HTTPStatus(), body)
}
