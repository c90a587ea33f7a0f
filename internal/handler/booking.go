package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/workspace-reservation/internal/model"
	"github.com/iliyamo/workspace-reservation/internal/queue"
	"github.com/iliyamo/workspace-reservation/internal/service"
)

// BookingHandler serves the authenticated booking lifecycle: create,
// read, edit, cancel and the per-user listing. All methods assume
// JWTAuth already ran; the requester identity always comes from the
// token, never from the request body.
type BookingHandler struct {
	Reservations *service.ReservationService
	// Publish emits a lifecycle event after a successful mutation.
	// Defaults to the RabbitMQ publisher; nil disables publishing.
	Publish func(ctx context.Context, ev queue.BookingEvent) error
}

// NewBookingHandler constructs a BookingHandler. The service must be
// non-nil.
func NewBookingHandler(svc *service.ReservationService) *BookingHandler {
	if svc == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{Reservations: svc, Publish: queue.PublishBookingEvent}
}

// bookingView is the owner-facing booking projection. Purpose and
// notes are included because only the owner ever receives this view.
type bookingView struct {
	ID          uint64 `json:"id"`
	WorkspaceID uint64 `json:"workspace_id"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Status      string `json:"status"`
	Purpose     string `json:"purpose"`
	Notes       string `json:"notes"`
}

func bookingViewOf(b *model.Booking) bookingView {
	return bookingView{
		ID:          b.ID,
		WorkspaceID: b.WorkspaceID,
		Date:        b.Date,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Status:      b.Status,
		Purpose:     b.Purpose,
		Notes:       b.Notes,
	}
}

// publishEvent emits a booking lifecycle event after a successful
// mutation. Broker failures are logged inside the publisher and
// otherwise ignored: the booking already committed.
func (h *BookingHandler) publishEvent(c echo.Context, action string, b *model.Booking) {
	if h.Publish == nil {
		return
	}
	name := ""
	if ws, err := h.Reservations.GetWorkspace(c.Request().Context(), b.WorkspaceID); err == nil {
		name = ws.Name
	}
	_ = h.Publish(c.Request().Context(), queue.BookingEvent{
		Action:        action,
		BookingID:     b.ID,
		WorkspaceID:   b.WorkspaceID,
		WorkspaceName: name,
		OwnerID:       b.OwnerID,
		Date:          b.Date,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	})
}

// Create handles POST /v1/bookings. The body carries the workspace,
// window and free-text fields; the owner is the authenticated user.
// Returns 201 with the created booking, or a conflict error when the
// window is already taken.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "unauthorized", "message": "unauthorized"})
	}
	var body struct {
		WorkspaceID uint64 `json:"workspace_id"`
		Date        string `json:"date"`
		StartTime   string `json:"start_time"`
		EndTime     string `json:"end_time"`
		Purpose     string `json:"purpose"`
		Notes       string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid_input", "message": "invalid request body"})
	}
	if body.WorkspaceID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid_input", "message": "workspace_id is required"})
	}
	b, err := h.Reservations.RequestBooking(c.Request().Context(), service.BookingRequest{
		WorkspaceID: body.WorkspaceID,
		OwnerID:     userID,
		Date:        body.Date,
		StartTime:   body.StartTime,
		EndTime:     body.EndTime,
		Purpose:     body.Purpose,
		Notes:       body.Notes,
	})
	if err != nil {
		return fail(c, err)
	}
	h.publishEvent(c, queue.ActionCreated, b)
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"booking": bookingViewOf(b),
	})
}

// Get handles GET /v1/bookings/:id. Only the owner receives the
// booking; anyone else gets not_authorized.
func (h *BookingHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "unauthorized", "message": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid_input", "message": "invalid booking id"})
	}
	b, err := h.Reservations.GetBooking(c.Request().Context(), id, userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"booking": bookingViewOf(b),
	})
}

// Edit handles PATCH /v1/bookings/:id. Absent body fields keep their
// current values; the workspace itself can not be changed. On overlap
// the booking is left untouched and a conflict error is returned.
func (h *BookingHandler) Edit(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "unauthorized", "message": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid_input", "message": "invalid booking id"})
	}
	var body struct {
		Date      *string `json:"date"`
		StartTime *string `json:"start_time"`
		EndTime   *string `json:"end_time"`
		Purpose   *string `json:"purpose"`
		Notes     *string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid_input", "message": "invalid request body"})
	}
	b, err := h.Reservations.EditBooking(c.Request().Context(), id, userID, service.BookingChanges{
		Date:      body.Date,
		StartTime: body.StartTime,
		EndTime:   body.EndTime,
		Purpose:   body.Purpose,
		Notes:     body.Notes,
	})
	if err != nil {
		return fail(c, err)
	}
	h.publishEvent(c, queue.ActionEdited, b)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"booking": bookingViewOf(b),
	})
}

// Cancel handles DELETE /v1/bookings/:id. Cancelling twice succeeds
// both times; the booking row is retained with status CANCELLED.
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "unauthorized", "message": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid_input", "message": "invalid booking id"})
	}
	// Load first so the cancellation event carries the booking details.
	b, err := h.Reservations.GetBooking(c.Request().Context(), id, userID)
	if err != nil {
		return fail(c, err)
	}
	if err := h.Reservations.CancelBooking(c.Request().Context(), id, userID); err != nil {
		return fail(c, err)
	}
	if b.Active() {
		h.publishEvent(c, queue.ActionCancelled, b)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "booking cancelled",
	})
}

// MyBookings handles GET /v1/my-bookings and returns every booking the
// requester owns, newest first, including cancelled ones.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "unauthorized", "message": "unauthorized"})
	}
	bs, err := h.Reservations.ListBookingsByOwner(c.Request().Context(), userID)
	if err != nil {
		return fail(c, err)
	}
	out := make([]bookingView, 0, len(bs))
	for i := range bs {
		out = append(out, bookingViewOf(&bs[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"items":   out,
	})
}
