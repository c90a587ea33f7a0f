package model

import "time"

// Booking statuses as stored in the bookings.status column. A booking
// starts ACTIVE and can only ever transition to CANCELLED; cancelled
// rows are kept for audit and ignored by availability checks.
const (
	BookingActive    = "ACTIVE"
	BookingCancelled = "CANCELLED"
)

// Booking records one user's reservation of a workspace for a
// contiguous time interval on a single calendar date. The date and
// time-of-day fields use the wire formats of the public API
// ("2006-01-02" and "15:04"); interval arithmetic converts the clock
// strings to minutes since midnight.
//
// Invariant: for a fixed (WorkspaceID, Date) no two ACTIVE bookings
// have overlapping [StartTime, EndTime) intervals. The repository
// enforces this inside the creating/updating transaction and the
// reservation service re-checks it under a partition lock.
//
// Fields:
//  ID          – primary key identifier.
//  WorkspaceID – workspace being reserved.
//  OwnerID     – user who owns the booking; only the owner may edit or
//                cancel it.
//  Date        – calendar date of the reservation ("2006-01-02").
//  StartTime   – inclusive start of the interval ("15:04").
//  EndTime     – exclusive end of the interval ("15:04"); always after
//                StartTime.
//  Status      – ACTIVE or CANCELLED.
//  Purpose     – free-text purpose shown only to the owner.
//  Notes       – free-text notes shown only to the owner.
//  CreatedAt   – row creation timestamp.
//  UpdatedAt   – last update timestamp.
type Booking struct {
	ID          uint64    // bookings.id
	WorkspaceID uint64    // bookings.workspace_id
	OwnerID     uint64    // bookings.owner_id
	Date        string    // bookings.booking_date
	StartTime   string    // bookings.start_time
	EndTime     string    // bookings.end_time
	Status      string    // bookings.status
	Purpose     string    // bookings.purpose
	Notes       string    // bookings.notes
	CreatedAt   time.Time // bookings.created_at
	UpdatedAt   time.Time // bookings.updated_at
}

// Active reports whether the booking still occupies its interval.
func (b *Booking) Active() bool {
	return b.Status == BookingActive
}
