package booking

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"reservas/internal/domain"
	"reservas/internal/ledger"
	"reservas/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.RequestBooking)
	rg.GET("/bookings", h.MyBookings)
	rg.POST("/bookings/:id/confirm", h.ConfirmBooking)
	rg.POST("/bookings/:id/cancel", h.CancelBooking)
}

func (h *Handler) RequestBooking(c *gin.Context) {
	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	conf, err := h.service.RequestBooking(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.writeBookingError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"confirmation": conf})
}

func (h *Handler) writeBookingError(c *gin.Context, err error) {
	var rej *Rejection
	switch {
	case errors.As(err, &rej):
		switch rej.Reason {
		case ReasonSchedulingConflict:
			response.ErrorWithDetails(c, http.StatusConflict, "BOOKING_CONFLICT", rej.Message, rej)
		case ReasonAvailabilityViolated, ReasonCrossesMidnight:
			response.ErrorWithDetails(c, http.StatusConflict, "AVAILABILITY_VIOLATION", rej.Message, rej)
		default:
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", rej.Message, rej)
		}
	case errors.Is(err, ErrRoomNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Room not found")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process booking")
	}
}

func (h *Handler) MyBookings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	rows, err := h.service.MyBookings(c.Request.Context(), c.GetInt64("user_id"), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list bookings")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": rows})
}

func (h *Handler) ConfirmBooking(c *gin.Context) {
	h.transition(c, h.service.ConfirmBooking)
}

func (h *Handler) CancelBooking(c *gin.Context) {
	h.transition(c, h.service.CancelBooking)
}

func (h *Handler) transition(c *gin.Context, op func(ctx context.Context, actorID int64, role domain.Role, id int64) (*domain.Booking, error)) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	b, err := op(c.Request.Context(), c.GetInt64("user_id"), domain.Role(c.GetString("role")), id)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrBookingNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
		case errors.Is(err, ledger.ErrInvalidTransition):
			response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Booking status does not allow this operation")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Not allowed to modify this booking")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update booking")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}
