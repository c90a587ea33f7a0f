package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/workspace-reservation/internal/model"
	"github.com/iliyamo/workspace-reservation/internal/repository"
)

// WorkspaceStore is the read-only view of the workspace catalog the
// reservation core needs. *repository.WorkspaceRepo satisfies it.
type WorkspaceStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Workspace, error)
	ListAll(ctx context.Context) ([]model.Workspace, error)
}

// BookingStore is the authoritative booking collection. Create and
// Update must be atomic with their own storage-level overlap re-check
// and return repository.ErrBookingConflict when they lose it; Cancel
// must be an observable no-op on an already-cancelled booking.
// *repository.BookingRepo satisfies it.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	Update(ctx context.Context, b *model.Booking) error
	Cancel(ctx context.Context, id uint64) error
	ListActiveByWorkspaceAndDate(ctx context.Context, workspaceID uint64, date string) ([]model.Booking, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]model.Booking, error)
}

// Config carries the reservation policies that are deliberately
// explicit configuration rather than inferred behavior.
type Config struct {
	// RejectPast rejects bookings whose start lies before the request
	// time. Deployments that replay or backfill historical bookings
	// turn it off.
	RejectPast bool
	// LockWait bounds how long an operation waits for its partition
	// lock before failing as transient. Zero means the default.
	LockWait time.Duration
}

const defaultLockWait = 3 * time.Second

// ReservationService orchestrates the booking lifecycle: it validates
// input, enforces ownership and the ACTIVE → CANCELLED state machine,
// and serializes the check-then-act sequence per (workspace, date)
// partition. It is the sole entry point the transport layer calls for
// booking operations.
type ReservationService struct {
	workspaces WorkspaceStore
	bookings   BookingStore
	locks      *partitionLocks
	cfg        Config
	now        func() time.Time // injected for tests
}

// NewReservationService constructs the service. All dependencies must
// be non-nil.
func NewReservationService(workspaces WorkspaceStore, bookings BookingStore, cfg Config) *ReservationService {
	if workspaces == nil || bookings == nil {
		panic("nil store passed to NewReservationService")
	}
	if cfg.LockWait <= 0 {
		cfg.LockWait = defaultLockWait
	}
	return &ReservationService{
		workspaces: workspaces,
		bookings:   bookings,
		locks:      newPartitionLocks(),
		cfg:        cfg,
		now:        time.Now,
	}
}

// BookingRequest carries the inputs of a create operation.
type BookingRequest struct {
	WorkspaceID uint64
	OwnerID     uint64
	Date        string
	StartTime   string
	EndTime     string
	Purpose     string
	Notes       string
}

// BookingChanges carries the optional fields of an edit. Nil means
// "keep the current value". The workspace itself can not change;
// moving a booking to another workspace is cancel + recreate.
type BookingChanges struct {
	Date      *string
	StartTime *string
	EndTime   *string
	Purpose   *string
	Notes     *string
}

// WorkspaceAvailability pairs a workspace with the computed
// availability flag for a browse window.
type WorkspaceAvailability struct {
	Workspace model.Workspace
	Available bool
}

func partitionKey(workspaceID uint64, date string) string {
	return fmt.Sprintf("%d:%s", workspaceID, date)
}

// validateWindow checks the date and time-range inputs and returns the
// interval in minutes since midnight. All violations surface as
// ErrInvalidInput.
func validateWindow(date, start, end string) (int, int, error) {
	if _, err := ParseDate(date); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	s, err := ParseClock(start)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if s >= e {
		return 0, 0, fmt.Errorf("%w: start_time must be before end_time", ErrInvalidInput)
	}
	return s, e, nil
}

// checkNotPast enforces the reject-past policy against the request
// time: the booking's start must not lie before now.
func (s *ReservationService) checkNotPast(date string, startMin int) error {
	if !s.cfg.RejectPast {
		return nil
	}
	now := s.now().UTC()
	today := now.Format(DateLayout)
	if date > today {
		return nil
	}
	if date < today || startMin < now.Hour()*60+now.Minute() {
		return fmt.Errorf("%w: booking starts in the past", ErrInvalidInput)
	}
	return nil
}

// logical reports whether a store error is a definitive business
// outcome rather than a transient storage failure.
func logical(err error) bool {
	return errors.Is(err, repository.ErrBookingConflict) ||
		errors.Is(err, repository.ErrBookingNotFound) ||
		errors.Is(err, repository.ErrWorkspaceNotFound)
}

// storeErr maps repository sentinels onto the service's error kinds.
// Anything unrecognized has already survived one retry and surfaces as
// transient so callers know the operation may succeed later.
func storeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrBookingConflict):
		return fmt.Errorf("%w: workspace already booked for overlapping time", ErrConflict)
	case errors.Is(err, repository.ErrBookingNotFound), errors.Is(err, repository.ErrWorkspaceNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	default:
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
}

// retryOnce runs a store operation and retries it a single time when
// the failure is not a logical outcome. One retry is the policy
// ceiling; afterwards the error surfaces as transient.
func retryOnce(fn func() error) error {
	err := fn()
	if err == nil || logical(err) {
		return err
	}
	return fn()
}

// RequestBooking validates the request, checks availability under the
// partition lock and creates the booking. Exactly one of two
// concurrent overlapping requests can succeed: the pre-check runs
// while the partition lock is held, and the store repeats the check
// inside its transaction as a second line of defense.
func (s *ReservationService) RequestBooking(ctx context.Context, req BookingRequest) (*model.Booking, error) {
	startMin, endMin, err := validateWindow(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if err := s.checkNotPast(req.Date, startMin); err != nil {
		return nil, err
	}
	ws, err := s.workspaces.GetByID(ctx, req.WorkspaceID)
	if err != nil {
		return nil, storeErr(err)
	}
	if !ws.Bookable() {
		return nil, fmt.Errorf("%w: workspace %q is disabled", ErrInvalidInput, ws.Name)
	}

	release, err := s.locks.acquire(ctx, partitionKey(req.WorkspaceID, req.Date), s.cfg.LockWait)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer release()

	existing, err := s.bookings.ListActiveByWorkspaceAndDate(ctx, req.WorkspaceID, req.Date)
	if err != nil {
		return nil, storeErr(err)
	}
	if !IsAvailable(existing, startMin, endMin, 0) {
		return nil, fmt.Errorf("%w: workspace already booked for overlapping time", ErrConflict)
	}

	b := &model.Booking{
		WorkspaceID: req.WorkspaceID,
		OwnerID:     req.OwnerID,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      model.BookingActive,
		Purpose:     req.Purpose,
		Notes:       req.Notes,
	}
	if err := retryOnce(func() error { return s.bookings.Create(ctx, b) }); err != nil {
		return nil, storeErr(err)
	}
	return b, nil
}

// EditBooking merges the proposed changes over the current booking,
// re-validates the window and re-runs the availability check against
// the other bookings on the target partition (the booking's own prior
// interval never blocks the edit). Only the owner may edit, and only
// while the booking is ACTIVE. On conflict the booking is left
// unchanged.
func (s *ReservationService) EditBooking(ctx context.Context, bookingID, requesterID uint64, ch BookingChanges) (*model.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, storeErr(err)
	}
	if b.OwnerID != requesterID {
		return nil, fmt.Errorf("%w: booking belongs to another user", ErrNotAuthorized)
	}
	if !b.Active() {
		return nil, fmt.Errorf("%w: booking is cancelled", ErrInvalidState)
	}

	merged := *b
	windowChanged := false
	if ch.Date != nil {
		merged.Date = *ch.Date
		windowChanged = true
	}
	if ch.StartTime != nil {
		merged.StartTime = *ch.StartTime
		windowChanged = true
	}
	if ch.EndTime != nil {
		merged.EndTime = *ch.EndTime
		windowChanged = true
	}
	if ch.Purpose != nil {
		merged.Purpose = *ch.Purpose
	}
	if ch.Notes != nil {
		merged.Notes = *ch.Notes
	}

	startMin, endMin, err := validateWindow(merged.Date, merged.StartTime, merged.EndTime)
	if err != nil {
		return nil, err
	}
	if windowChanged {
		if err := s.checkNotPast(merged.Date, startMin); err != nil {
			return nil, err
		}
	}

	release, err := s.locks.acquire(ctx, partitionKey(merged.WorkspaceID, merged.Date), s.cfg.LockWait)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer release()

	existing, err := s.bookings.ListActiveByWorkspaceAndDate(ctx, merged.WorkspaceID, merged.Date)
	if err != nil {
		return nil, storeErr(err)
	}
	if !IsAvailable(existing, startMin, endMin, merged.ID) {
		return nil, fmt.Errorf("%w: workspace already booked for overlapping time", ErrConflict)
	}

	if err := retryOnce(func() error { return s.bookings.Update(ctx, &merged) }); err != nil {
		return nil, storeErr(err)
	}
	return &merged, nil
}

// CancelBooking transitions the booking to CANCELLED. Only the owner
// may cancel. Cancelling an already-cancelled booking reports success
// because the observable end state is identical.
func (s *ReservationService) CancelBooking(ctx context.Context, bookingID, requesterID uint64) error {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return storeErr(err)
	}
	if b.OwnerID != requesterID {
		return fmt.Errorf("%w: booking belongs to another user", ErrNotAuthorized)
	}
	if !b.Active() {
		return nil
	}
	return storeErr(retryOnce(func() error { return s.bookings.Cancel(ctx, bookingID) }))
}

// GetBooking returns a booking to its owner. Purpose and notes are
// owner-only data, so any other requester gets ErrNotAuthorized, not a
// redacted view.
func (s *ReservationService) GetBooking(ctx context.Context, bookingID, requesterID uint64) (*model.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, storeErr(err)
	}
	if b.OwnerID != requesterID {
		return nil, fmt.Errorf("%w: booking belongs to another user", ErrNotAuthorized)
	}
	return b, nil
}

// GetWorkspace returns the catalog projection for one workspace.
func (s *ReservationService) GetWorkspace(ctx context.Context, workspaceID uint64) (*model.Workspace, error) {
	ws, err := s.workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, storeErr(err)
	}
	return ws, nil
}

// ListWorkspaces returns the whole catalog with a computed
// availability flag for the given window. DISABLED workspaces are
// always unavailable; the others are available iff no ACTIVE booking
// overlaps the window on that date.
func (s *ReservationService) ListWorkspaces(ctx context.Context, date, start, end string) ([]WorkspaceAvailability, error) {
	startMin, endMin, err := validateWindow(date, start, end)
	if err != nil {
		return nil, err
	}
	all, err := s.workspaces.ListAll(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	out := make([]WorkspaceAvailability, 0, len(all))
	for _, ws := range all {
		wa := WorkspaceAvailability{Workspace: ws}
		if ws.Bookable() {
			existing, err := s.bookings.ListActiveByWorkspaceAndDate(ctx, ws.ID, date)
			if err != nil {
				return nil, storeErr(err)
			}
			wa.Available = IsAvailable(existing, startMin, endMin, 0)
		}
		out = append(out, wa)
	}
	return out, nil
}

// IsWindowAvailable answers the availability contract for a single
// workspace and window without side effects. excludeID skips one
// booking, as during an edit.
func (s *ReservationService) IsWindowAvailable(ctx context.Context, workspaceID uint64, date, start, end string, excludeID uint64) (bool, error) {
	startMin, endMin, err := validateWindow(date, start, end)
	if err != nil {
		return false, err
	}
	ws, err := s.workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		return false, storeErr(err)
	}
	if !ws.Bookable() {
		return false, nil
	}
	existing, err := s.bookings.ListActiveByWorkspaceAndDate(ctx, workspaceID, date)
	if err != nil {
		return false, storeErr(err)
	}
	return IsAvailable(existing, startMin, endMin, excludeID), nil
}

// ListBookingsByOwner returns the requester's bookings, newest first,
// including cancelled ones for history.
func (s *ReservationService) ListBookingsByOwner(ctx context.Context, ownerID uint64) ([]model.Booking, error) {
	bs, err := s.bookings.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeErr(err)
	}
	return bs, nil
}
