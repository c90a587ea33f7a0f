package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/workspace-reservation/internal/model"
	"github.com/iliyamo/workspace-reservation/internal/repository"
)

// fakeWorkspaces is an in-memory WorkspaceStore.
type fakeWorkspaces struct {
	mu   sync.Mutex
	rows map[uint64]model.Workspace
}

func newFakeWorkspaces(ws ...model.Workspace) *fakeWorkspaces {
	f := &fakeWorkspaces{rows: make(map[uint64]model.Workspace)}
	for _, w := range ws {
		f.rows[w.ID] = w
	}
	return f
}

func (f *fakeWorkspaces) GetByID(_ context.Context, id uint64) (*model.Workspace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrWorkspaceNotFound
	}
	return &w, nil
}

func (f *fakeWorkspaces) ListAll(_ context.Context) ([]model.Workspace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Workspace, 0, len(f.rows))
	for _, w := range f.rows {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// fakeBookings is an in-memory BookingStore. Like the real repository
// it re-checks overlap inside Create and Update, and errs lets tests
// inject storage failures ahead of the next mutations.
type fakeBookings struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]model.Booking
	errs   []error
}

func newFakeBookings() *fakeBookings {
	return &fakeBookings{rows: make(map[uint64]model.Booking)}
}

func (f *fakeBookings) failNext(errs ...error) {
	f.mu.Lock()
	f.errs = append(f.errs, errs...)
	f.mu.Unlock()
}

func (f *fakeBookings) popErr() error {
	if len(f.errs) == 0 {
		return nil
	}
	err := f.errs[0]
	f.errs = f.errs[1:]
	return err
}

func (f *fakeBookings) overlapLocked(b *model.Booking) bool {
	bs, _ := ParseClock(b.StartTime)
	be, _ := ParseClock(b.EndTime)
	for _, o := range f.rows {
		if o.ID == b.ID || o.WorkspaceID != b.WorkspaceID || o.Date != b.Date || !o.Active() {
			continue
		}
		os, _ := ParseClock(o.StartTime)
		oe, _ := ParseClock(o.EndTime)
		if Overlaps(bs, be, os, oe) {
			return true
		}
	}
	return false
}

func (f *fakeBookings) Create(_ context.Context, b *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.popErr(); err != nil {
		return err
	}
	if f.overlapLocked(b) {
		return repository.ErrBookingConflict
	}
	f.nextID++
	b.ID = f.nextID
	f.rows[b.ID] = *b
	return nil
}

func (f *fakeBookings) GetByID(_ context.Context, id uint64) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	return &b, nil
}

func (f *fakeBookings) Update(_ context.Context, b *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.popErr(); err != nil {
		return err
	}
	if _, ok := f.rows[b.ID]; !ok {
		return repository.ErrBookingNotFound
	}
	if f.overlapLocked(b) {
		return repository.ErrBookingConflict
	}
	f.rows[b.ID] = *b
	return nil
}

func (f *fakeBookings) Cancel(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.popErr(); err != nil {
		return err
	}
	b, ok := f.rows[id]
	if !ok {
		return repository.ErrBookingNotFound
	}
	b.Status = model.BookingCancelled
	f.rows[id] = b
	return nil
}

func (f *fakeBookings) ListActiveByWorkspaceAndDate(_ context.Context, workspaceID uint64, date string) ([]model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Booking
	for _, b := range f.rows {
		if b.WorkspaceID == workspaceID && b.Date == date && b.Active() {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeBookings) ListByOwner(_ context.Context, ownerID uint64) ([]model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Booking
	for _, b := range f.rows {
		if b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

const (
	deskID     = uint64(1)
	roomID     = uint64(2)
	disabledID = uint64(3)

	alice = uint64(10)
	bob   = uint64(20)
)

// newTestService wires the service over fakes with the clock pinned to
// a fixed morning so relative-to-now policies are deterministic.
func newTestService(cfg Config) (*ReservationService, *fakeBookings) {
	ws := newFakeWorkspaces(
		model.Workspace{ID: deskID, Name: "Desk-A1", Status: model.WorkspaceAvailable},
		model.Workspace{ID: roomID, Name: "Meeting Room 1", Status: model.WorkspaceAvailable},
		model.Workspace{ID: disabledID, Name: "Pod-1", Status: model.WorkspaceDisabled},
	)
	bs := newFakeBookings()
	svc := NewReservationService(ws, bs, cfg)
	svc.now = func() time.Time {
		return time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	}
	return svc, bs
}

func req(ws uint64, date, start, end string) BookingRequest {
	return BookingRequest{WorkspaceID: ws, OwnerID: alice, Date: date, StartTime: start, EndTime: end, Purpose: "standup"}
}

func TestRequestBooking(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(Config{})

	b, err := svc.RequestBooking(ctx, req(deskID, "2026-03-14", "09:00", "10:00"))
	require.NoError(t, err)
	assert.NotZero(t, b.ID)
	assert.Equal(t, model.BookingActive, b.Status)
	assert.Equal(t, alice, b.OwnerID)

	// Overlapping window on the same desk conflicts.
	_, err = svc.RequestBooking(ctx, req(deskID, "2026-03-14", "09:30", "10:30"))
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "conflict", Kind(err))

	// An abutting window does not.
	_, err = svc.RequestBooking(ctx, req(deskID, "2026-03-14", "10:00", "11:00"))
	assert.NoError(t, err)

	// Same window on another workspace or another date is fine.
	_, err = svc.RequestBooking(ctx, req(roomID, "2026-03-14", "09:00", "10:00"))
	assert.NoError(t, err)
	_, err = svc.RequestBooking(ctx, req(deskID, "2026-03-15", "09:00", "10:00"))
	assert.NoError(t, err)
}

func TestRequestBookingValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(Config{})

	cases := []struct {
		name string
		r    BookingRequest
	}{
		{"bad date", req(deskID, "14-03-2026", "09:00", "10:00")},
		{"bad start", req(deskID, "2026-03-14", "9am", "10:00")},
		{"bad end", req(deskID, "2026-03-14", "09:00", "25:00")},
		{"zero length", req(deskID, "2026-03-14", "09:00", "09:00")},
		{"inverted", req(deskID, "2026-03-14", "10:00", "09:00")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.RequestBooking(ctx, tc.r)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, "invalid_input", Kind(err))
		})
	}

	_, err := svc.RequestBooking(ctx, req(999, "2026-03-14", "09:00", "10:00"))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.RequestBooking(ctx, req(disabledID, "2026-03-14", "09:00", "10:00"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRequestBookingRejectPast(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(Config{RejectPast: true})

	// The pinned clock reads 2026-03-14 08:00 UTC.
	_, err := svc.RequestBooking(ctx, req(deskID, "2026-03-13", "09:00", "10:00"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.RequestBooking(ctx, req(deskID, "2026-03-14", "07:00", "07:30"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.RequestBooking(ctx, req(deskID, "2026-03-14", "08:00", "09:00"))
	assert.NoError(t, err)
	_, err = svc.RequestBooking(ctx, req(deskID, "2026-03-15", "07:00", "07:30"))
	assert.NoError(t, err)

	// With the policy off, past-dated bookings go through.
	svcOff, _ := newTestService(Config{})
	_, err = svcOff.RequestBooking(ctx, req(deskID, "2020-01-01", "09:00", "10:00"))
	assert.NoError(t, err)
}

func TestRequestBookingRetriesTransientStoreFailure(t *testing.T) {
	ctx := context.Background()
	svc, bs := newTestService(Config{})

	// One flake is absorbed by the retry.
	bs.failNext(errors.New("connection reset"))
	b, err := svc.RequestBooking(ctx, req(deskID, "2026-03-14", "09:00", "10:00"))
	require.NoError(t, err)
	assert.NotZero(t, b.ID)

	// Two in a row surface as transient.
	bs.failNext(errors.New("connection reset"), errors.New("connection reset"))
	_, err = svc.RequestBooking(ctx, req(deskID, "2026-03-14", "11:00", "12:00"))
	assert.ErrorIs(t, err, ErrTransient)
	assert.Equal(t, "transient", Kind(err))
}

func TestEditBooking(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(Config{})

	b, err := svc.RequestBooking(ctx, req(deskID, "2026-03-14", "09:00", "10:00"))
	require.NoError(t, err)
	_, err = svc.RequestBooking(ctx, req(deskID, "2026-03-14", "11:00", "12:00"))
	require.NoError(t, err)

	str := func(s string) *string { return &s }

	// Only the owner may edit.
	_, err = svc.EditBooking(ctx, b.ID, bob, BookingChanges{Notes: str("mine now")})
	assert.ErrorIs(t, err, ErrNotAuthorized)

	// Shifting onto another booking conflicts and leaves the booking
	// unchanged.
	_, err = svc.EditBooking(ctx, b.ID, alice, BookingChanges{StartTime: str("10:30"), EndTime: str("11:30")})
	assert.ErrorIs(t, err, ErrConflict)
	unchanged, err := svc.GetBooking(ctx, b.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, "09:00", unchanged.StartTime)
	assert.Equal(t, "10:00", unchanged.EndTime)

	// Growing within the booking's own slot succeeds: the prior
	// interval never blocks its own edit.
	got, err := svc.EditBooking(ctx, b.ID, alice, BookingChanges{StartTime: str("09:30"), EndTime: str("10:30")})
	require.NoError(t, err)
	assert.Equal(t, "09:30", got.StartTime)
	assert.Equal(t, "10:30", got.EndTime)

	// Absent fields keep their values.
	got, err = svc.EditBooking(ctx, b.ID, alice, BookingChanges{Notes: str("bring cables")})
	require.NoError(t, err)
	assert.Equal(t, "09:30", got.StartTime)
	assert.Equal(t, "bring cables", got.Notes)
	assert.Equal(t, "standup", got.Purpose)

	// Moving to a free date works.
	got, err = svc.EditBooking(ctx, b.ID, alice, BookingChanges{Date: str("2026-03-20")})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-20", got.Date)

	_, err = svc.EditBooking(ctx, 999, alice, BookingChanges{Notes: str("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEditBookingCancelledIsInvalidState(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(Config{})

	b, err := svc.RequestBooking(ctx, req(deskID, "2026-03-14", "09:00", "10:00"))
	require.NoError(t, err)
	require.NoError(t, svc.CancelBooking(ctx, b.ID, alice))

	s := "10:00"
	_, err = svc.EditBooking(ctx, b.ID, alice, BookingChanges{StartTime: &s})
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, "invalid_state", Kind(err))
}

func TestEditBookingPastPolicyOnlyGuardsWindowChanges(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(Config{})

	// Created while the policy is off, so it can sit in the past.
	b, err := svc.RequestBooking(ctx, req(deskID, "2026-03-01", "09:00", "10:00"))
	require.NoError(t, err)

	svc.cfg.RejectPast = true
	str := func(s string) *string { return &s }

	// Touching only free-text fields never trips the past check.
	_, err = svc.EditBooking(ctx, b.ID, alice, BookingChanges{Notes: str("retro notes")})
	assert.NoError(t, err)

	// Moving the window into the past does.
	_, err = svc.EditBooking(ctx, b.ID, alice, BookingChanges{Date: str("2026-03-02")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancelBooking(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(Config{})

	b, err := svc.RequestBooking(ctx, req(deskID, "2026-03-14", "09:00", "10:00"))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.CancelBooking(ctx, b.ID, bob), ErrNotAuthorized)
	assert.ErrorIs(t, svc.CancelBooking(ctx, 999, alice), ErrNotFound)

	require.NoError(t, svc.CancelBooking(ctx, b.ID, alice))
	got, err := svc.GetBooking(ctx, b.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, got.Status)

	// Cancelling again reports success: the end state is identical.
	assert.NoError(t, svc.CancelBooking(ctx, b.ID, alice))

	// The slot is free again.
	_, err = svc.RequestBooking(ctx, req(deskID, "2026-03-14", "09:00", "10:00"))
	assert.NoError(t, err)
}

func TestGetBookingOwnerOnly(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(Config{})

	b, err := svc.RequestBooking(ctx, req(deskID, "2026-03-14", "09:00", "10:00"))
	require.NoError(t, err)

	got, err := svc.GetBooking(ctx, b.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, "standup", got.Purpose)

	_, err = svc.GetBooking(ctx, b.ID, bob)
	assert.ErrorIs(t, err, ErrNotAuthorized)
	assert.Equal(t, "not_authorized", Kind(err))

	_, err = svc.GetBooking(ctx, 999, alice)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListWorkspaces(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(Config{})

	_, err := svc.RequestBooking(ctx, req(deskID, "2026-03-14", "09:00", "10:00"))
	require.NoError(t, err)

	out, err := svc.ListWorkspaces(ctx, "2026-03-14", "09:30", "10:30")
	require.NoError(t, err)
	require.Len(t, out, 3)

	byID := map[uint64]WorkspaceAvailability{}
	for _, wa := range out {
		byID[wa.Workspace.ID] = wa
	}
	assert.False(t, byID[deskID].Available, "overlapping booking blocks the desk")
	assert.True(t, byID[roomID].Available)
	assert.False(t, byID[disabledID].Available, "disabled workspaces are never available")

	// The booked slot frees up outside the window.
	out, err = svc.ListWorkspaces(ctx, "2026-03-14", "10:00", "11:00")
	require.NoError(t, err)
	for _, wa := range out {
		if wa.Workspace.ID == deskID {
			assert.True(t, wa.Available)
		}
	}

	_, err = svc.ListWorkspaces(ctx, "2026-03-14", "10:00", "09:00")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestIsWindowAvailable(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(Config{})

	b, err := svc.RequestBooking(ctx, req(deskID, "2026-03-14", "09:00", "10:00"))
	require.NoError(t, err)

	ok, err := svc.IsWindowAvailable(ctx, deskID, "2026-03-14", "09:30", "10:30", 0)
	require.NoError(t, err)
	assert.False(t, ok)

	// Excluding the booking itself makes its own slot look free.
	ok, err = svc.IsWindowAvailable(ctx, deskID, "2026-03-14", "09:30", "10:30", b.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsWindowAvailable(ctx, disabledID, "2026-03-14", "09:00", "10:00", 0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConcurrentOverlappingRequests(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(Config{})

	const attempts = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(owner uint64) {
			defer wg.Done()
			r := req(deskID, "2026-03-14", "09:00", "10:00")
			r.OwnerID = owner
			_, err := svc.RequestBooking(ctx, r)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(uint64(100 + i))
	}
	wg.Wait()

	assert.Equal(t, 1, created, "exactly one of the overlapping requests may win")
	assert.Equal(t, attempts-1, conflicts)
}
