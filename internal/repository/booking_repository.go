package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/workspace-reservation/internal/model"
)

// bookingCols selects booking rows with the date and time-of-day
// columns pre-formatted into the wire formats used by the model
// ("2006-01-02" and "15:04"), so scans land directly in strings.
const bookingCols = `id, workspace_id, owner_id,
	DATE_FORMAT(booking_date, '%Y-%m-%d'),
	TIME_FORMAT(start_time, '%H:%i'),
	TIME_FORMAT(end_time, '%H:%i'),
	status, purpose, notes, created_at, updated_at`

// BookingRepo provides CRUD operations for bookings. All mutating
// operations run inside a transaction that first locks the parent
// workspace row (SELECT ... FOR UPDATE) and then re-runs the interval
// overlap check, so two concurrent writers targeting the same
// workspace serialize at the storage layer and the loser receives
// ErrBookingConflict instead of committing a double booking.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID, &b.WorkspaceID, &b.OwnerID,
		&b.Date, &b.StartTime, &b.EndTime,
		&b.Status, &b.Purpose, &b.Notes,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// lockWorkspaceTx takes the exclusive row lock on the parent workspace
// that serializes all booking writes for that workspace. Returns
// ErrWorkspaceNotFound when the workspace does not exist.
func lockWorkspaceTx(ctx context.Context, tx *sql.Tx, workspaceID uint64) error {
	const q = `SELECT id FROM workspaces WHERE id = ? FOR UPDATE`
	var id uint64
	if err := tx.QueryRowContext(ctx, q, workspaceID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrWorkspaceNotFound
		}
		return err
	}
	return nil
}

// overlapExistsTx reports whether any ACTIVE booking on the same
// workspace and date overlaps [start, end) under half-open semantics
// (existing.start < end AND existing.end > start). excludeID skips a
// booking so an edit never conflicts with its own prior interval; pass
// zero when creating.
func overlapExistsTx(ctx context.Context, tx *sql.Tx, workspaceID uint64, date, start, end string, excludeID uint64) (bool, error) {
	const q = `SELECT EXISTS(
		SELECT 1 FROM bookings
		WHERE workspace_id = ? AND booking_date = ? AND status = 'ACTIVE'
		  AND start_time < ? AND end_time > ?
		  AND id <> ?)`
	var exists bool
	err := tx.QueryRowContext(ctx, q, workspaceID, date, end, start, excludeID).Scan(&exists)
	return exists, err
}

// Create inserts a new ACTIVE booking. The whole sequence — workspace
// row lock, overlap check, insert, read-back — commits atomically; on
// overlap the transaction rolls back and ErrBookingConflict is
// returned with nothing persisted. On success the generated ID, status
// and timestamps are populated on the given struct.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := lockWorkspaceTx(ctx, tx, b.WorkspaceID); err != nil {
		return err
	}
	taken, err := overlapExistsTx(ctx, tx, b.WorkspaceID, b.Date, b.StartTime, b.EndTime, 0)
	if err != nil {
		return err
	}
	if taken {
		return ErrBookingConflict
	}
	const ins = `INSERT INTO bookings (workspace_id, owner_id, booking_date, start_time, end_time, status, purpose, notes)
	             VALUES (?, ?, ?, ?, ?, 'ACTIVE', ?, ?)`
	res, err := tx.ExecContext(ctx, ins, b.WorkspaceID, b.OwnerID, b.Date, b.StartTime, b.EndTime, b.Purpose, b.Notes)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults.
	const sel = `SELECT ` + bookingCols + ` FROM bookings WHERE id = ?`
	got, err := scanBooking(tx.QueryRowContext(ctx, sel, b.ID))
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	*b = *got
	return nil
}

// GetByID returns a single booking by primary key regardless of status
// or owner; authorization is the caller's concern. Returns
// ErrBookingNotFound when no row exists.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE id = ?`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	return b, err
}

// Update applies the date, interval, purpose and notes of the given
// booking atomically. Status and ownership never change through
// Update. The overlap re-check excludes the booking itself so moving
// within (or overlapping) its own prior interval always succeeds. On
// conflict nothing is applied and ErrBookingConflict is returned.
func (r *BookingRepo) Update(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := lockWorkspaceTx(ctx, tx, b.WorkspaceID); err != nil {
		return err
	}
	taken, err := overlapExistsTx(ctx, tx, b.WorkspaceID, b.Date, b.StartTime, b.EndTime, b.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrBookingConflict
	}
	const upd = `UPDATE bookings SET booking_date = ?, start_time = ?, end_time = ?, purpose = ?, notes = ?
	             WHERE id = ?`
	if _, err := tx.ExecContext(ctx, upd, b.Date, b.StartTime, b.EndTime, b.Purpose, b.Notes, b.ID); err != nil {
		return err
	}
	const sel = `SELECT ` + bookingCols + ` FROM bookings WHERE id = ?`
	got, err := scanBooking(tx.QueryRowContext(ctx, sel, b.ID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookingNotFound
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	*b = *got
	return nil
}

// Cancel transitions a booking to CANCELLED. The row is retained for
// audit and excluded from future overlap checks. Cancelling an
// already-cancelled booking is a no-op success because the end state
// is identical. Returns ErrBookingNotFound for unknown IDs.
func (r *BookingRepo) Cancel(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	const sel = `SELECT status FROM bookings WHERE id = ? FOR UPDATE`
	var status string
	if err := tx.QueryRowContext(ctx, sel, id).Scan(&status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookingNotFound
		}
		return err
	}
	if status == model.BookingCancelled {
		// Idempotent: already in the terminal state.
		committed = true
		return tx.Commit()
	}
	const upd = `UPDATE bookings SET status = 'CANCELLED' WHERE id = ?`
	if _, err := tx.ExecContext(ctx, upd, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListActiveByWorkspaceAndDate returns all ACTIVE bookings for one
// (workspace, date) partition ordered by start time. This is the read
// side of the availability check.
func (r *BookingRepo) ListActiveByWorkspaceAndDate(ctx context.Context, workspaceID uint64, date string) ([]model.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings
	           WHERE workspace_id = ? AND booking_date = ? AND status = 'ACTIVE'
	           ORDER BY start_time`
	rows, err := r.db.QueryContext(ctx, q, workspaceID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// ListByOwner returns every booking owned by the given user, newest
// first, including cancelled ones so clients can show history.
func (r *BookingRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings
	           WHERE owner_id = ?
	           ORDER BY booking_date DESC, start_time DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}
