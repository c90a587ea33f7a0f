package model

import (
	"strings"
	"time"
)

// Workspace statuses as stored in the workspaces.status column.
// DISABLED workspaces remain visible in listings but can never be
// booked; their lifecycle is owned by an administrative process
// outside the booking flow.
const (
	WorkspaceAvailable = "AVAILABLE"
	WorkspaceDisabled  = "DISABLED"
)

// Workspace represents a bookable resource as stored in the
// `workspaces` table. A workspace is read-only during the booking
// flow: bookings reference it but never mutate it.
//
// Fields:
//  ID              – primary key identifier.
//  Name            – display name (e.g. "Desk-A1", "Meeting Room 1").
//  Location        – physical location (e.g. "Ground Floor").
//  Capacity        – number of people the workspace holds; always positive.
//  Type            – category of workspace (desk, meeting, pod).
//  Amenities       – comma-separated amenity list as stored in the DB.
//  Status          – AVAILABLE or DISABLED.
//  Description     – free-text description.
//  HourlyRateCents – informational price in cents per hour.
//  CreatedAt       – row creation timestamp.
//  UpdatedAt       – last update timestamp.
type Workspace struct {
	ID              uint64    // workspaces.id
	Name            string    // workspaces.name
	Location        string    // workspaces.location
	Capacity        uint32    // workspaces.capacity
	Type            string    // workspaces.type
	Amenities       string    // workspaces.amenities
	Status          string    // workspaces.status
	Description     string    // workspaces.description
	HourlyRateCents uint32    // workspaces.hourly_rate_cents
	CreatedAt       time.Time // workspaces.created_at
	UpdatedAt       time.Time // workspaces.updated_at
}

// AmenityList splits the stored amenities string into a clean slice.
// Empty entries are dropped so "WiFi, , Monitor" yields two items.
func (w *Workspace) AmenityList() []string {
	out := make([]string, 0)
	for _, a := range strings.Split(w.Amenities, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// Bookable reports whether the workspace can accept new bookings at
// all. Time-window conflicts are a separate concern handled by the
// availability check.
func (w *Workspace) Bookable() bool {
	return w.Status == WorkspaceAvailable
}
