package events

import (
	"errors"
	"net/http"
	"strconv"

	"reservas/internal/domain"
	"reservas/internal/modules/booking"
	"reservas/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the authenticated event endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/events", h.CreateEvent)
	rg.GET("/events/mine", h.MyEvents)
	rg.GET("/registrations", h.MyRegistrations)
}

// RegisterPublicRoutes mounts the endpoints reachable without a session.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/events/public", h.ListPublic)
	rg.GET("/events/public/:link", h.GetByLink)
	rg.POST("/events/:id/register", h.Register)
}

func (h *Handler) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	e, conf, err := h.service.CreateEvent(c.Request.Context(), c.GetInt64("user_id"), domain.Role(c.GetString("role")), c.GetInt64("organization_id"), req)
	if err != nil {
		var rej *booking.Rejection
		switch {
		case errors.As(err, &rej):
			if rej.Reason == booking.ReasonSchedulingConflict {
				response.ErrorWithDetails(c, http.StatusConflict, "BOOKING_CONFLICT", rej.Message, rej)
			} else if rej.Reason == booking.ReasonAvailabilityViolated || rej.Reason == booking.ReasonCrossesMidnight {
				response.ErrorWithDetails(c, http.StatusConflict, "AVAILABILITY_VIOLATION", rej.Message, rej)
			} else {
				response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", rej.Message, rej)
			}
		case errors.Is(err, booking.ErrRoomNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Room not found")
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid event payload")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create event")
		}
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"event": e, "confirmation": conf})
}

func (h *Handler) ListPublic(c *gin.Context) {
	orgID, _ := strconv.ParseInt(c.Query("organization_id"), 10, 64)
	events, err := h.service.ListPublic(c.Request.Context(), orgID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list events")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"events": events})
}

func (h *Handler) GetByLink(c *gin.Context) {
	e, err := h.service.GetByPublicLink(c.Request.Context(), c.Param("link"))
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Event not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load event")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"event": e})
}

func (h *Handler) MyEvents(c *gin.Context) {
	events, err := h.service.MyEvents(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list events")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"events": events})
}

func (h *Handler) MyRegistrations(c *gin.Context) {
	regs, err := h.service.MyRegistrations(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list registrations")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"registrations": regs})
}

func (h *Handler) Register(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid event id")
		return
	}
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	a, err := h.service.Register(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEventNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Event not found")
		case errors.Is(err, ErrEventFull):
			response.Error(c, http.StatusConflict, "EVENT_FULL", "Event has reached its attendee limit")
		case errors.Is(err, ErrDuplicate):
			response.Error(c, http.StatusConflict, "ALREADY_REGISTERED", "This email is already registered")
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid registration payload")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register")
		}
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"registration": a})
}
