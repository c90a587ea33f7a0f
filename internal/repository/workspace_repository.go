// Package repository contains data access logic for the workspace
// catalog. Workspaces are read-mostly: the booking flow reads them to
// validate status and to lock the partition row, but never mutates
// them. Catalog maintenance (adding or disabling workspaces) happens
// through seeding or an administrative process outside this service.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/workspace-reservation/internal/model"
)

// workspaceCols is the column list shared by every workspace query so
// scans stay aligned with a single source of truth.
const workspaceCols = `id, name, location, capacity, type, amenities, status, description, hourly_rate_cents, created_at, updated_at`

// WorkspaceRepo manages persistence for workspaces.
type WorkspaceRepo struct {
	db *sql.DB
}

// NewWorkspaceRepo constructs a WorkspaceRepo with the given DB handle.
func NewWorkspaceRepo(db *sql.DB) *WorkspaceRepo {
	return &WorkspaceRepo{db: db}
}

func scanWorkspace(row interface{ Scan(...any) error }) (*model.Workspace, error) {
	var w model.Workspace
	err := row.Scan(
		&w.ID, &w.Name, &w.Location, &w.Capacity, &w.Type,
		&w.Amenities, &w.Status, &w.Description, &w.HourlyRateCents,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// GetByID returns a single workspace by primary key. It returns
// ErrWorkspaceNotFound when no row exists.
func (r *WorkspaceRepo) GetByID(ctx context.Context, id uint64) (*model.Workspace, error) {
	const q = `SELECT ` + workspaceCols + ` FROM workspaces WHERE id = ?`
	w, err := scanWorkspace(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWorkspaceNotFound
	}
	return w, err
}

// ListAll returns every workspace in the catalog ordered by name.
// Callers compute availability flags separately; DISABLED workspaces
// are included so listings can show them as unavailable.
func (r *WorkspaceRepo) ListAll(ctx context.Context) ([]model.Workspace, error) {
	const q = `SELECT ` + workspaceCols + ` FROM workspaces ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Workspace, 0)
	for rows.Next() {
		w, err := scanWorkspace(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}

// Insert adds a workspace to the catalog and populates the generated
// ID and DB-default timestamps on the given struct. Used by seeding.
func (r *WorkspaceRepo) Insert(ctx context.Context, w *model.Workspace) error {
	const q = `INSERT INTO workspaces (name, location, capacity, type, amenities, status, description, hourly_rate_cents)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, w.Name, w.Location, w.Capacity, w.Type, w.Amenities, w.Status, w.Description, w.HourlyRateCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	w.ID = uint64(id)
	const sel = `SELECT ` + workspaceCols + ` FROM workspaces WHERE id = ?`
	got, err := scanWorkspace(r.db.QueryRowContext(ctx, sel, w.ID))
	if err != nil {
		return err
	}
	*w = *got
	return nil
}

// ExistsByName reports whether a workspace with the given name is
// already present. Seeding uses it to stay idempotent.
func (r *WorkspaceRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM workspaces WHERE name = ?)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, name).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
