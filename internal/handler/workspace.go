package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/workspace-reservation/internal/model"
	"github.com/iliyamo/workspace-reservation/internal/service"
)

// WorkspaceHandler serves the public browse endpoints: the catalog
// with computed availability for a time window, and single-workspace
// details. These routes require no authentication and sit behind the
// response cache.
type WorkspaceHandler struct {
	Reservations *service.ReservationService
}

// NewWorkspaceHandler constructs a WorkspaceHandler. The service must
// be non-nil.
func NewWorkspaceHandler(svc *service.ReservationService) *WorkspaceHandler {
	if svc == nil {
		panic("nil service passed to NewWorkspaceHandler")
	}
	return &WorkspaceHandler{Reservations: svc}
}

// workspaceView is the catalog projection exposed over the API.
type workspaceView struct {
	ID              uint64   `json:"id"`
	Name            string   `json:"name"`
	Location        string   `json:"location"`
	Capacity        uint32   `json:"capacity"`
	Type            string   `json:"type"`
	Amenities       []string `json:"amenities"`
	Status          string   `json:"status"`
	Description     string   `json:"description"`
	HourlyRateCents uint32   `json:"hourly_rate_cents"`
}

// listItem extends the projection with the availability flag computed
// for the requested window.
type listItem struct {
	workspaceView
	Available bool `json:"available"`
}

func viewOf(w *model.Workspace) workspaceView {
	return workspaceView{
		ID:              w.ID,
		Name:            w.Name,
		Location:        w.Location,
		Capacity:        w.Capacity,
		Type:            w.Type,
		Amenities:       w.AmenityList(),
		Status:          w.Status,
		Description:     w.Description,
		HourlyRateCents: w.HourlyRateCents,
	}
}

// List handles GET /v1/workspaces. Query parameters date, start_time
// and end_time select the browse window; when all three are absent the
// window defaults to now .. now+1h on today's date. Each workspace in
// the response carries an "available" flag for that window.
func (h *WorkspaceHandler) List(c echo.Context) error {
	date := c.QueryParam("date")
	start := c.QueryParam("start_time")
	end := c.QueryParam("end_time")
	if date == "" && start == "" && end == "" {
		date, start, end = service.DefaultWindow(time.Now())
	}
	items, err := h.Reservations.ListWorkspaces(c.Request().Context(), date, start, end)
	if err != nil {
		return fail(c, err)
	}
	out := make([]listItem, 0, len(items))
	for i := range items {
		out = append(out, listItem{
			workspaceView: viewOf(&items[i].Workspace),
			Available:     items[i].Available,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"date":       date,
		"start_time": start,
		"end_time":   end,
		"items":      out,
	})
}

// Get handles GET /v1/workspaces/:id and returns the workspace
// projection or a not_found error.
func (h *WorkspaceHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid_input", "message": "invalid workspace id"})
	}
	ws, err := h.Reservations.GetWorkspace(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"workspace": viewOf(ws),
	})
}
