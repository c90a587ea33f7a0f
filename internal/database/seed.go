package database

import (
	"context"
	"database/sql"
	"log"

	"github.com/iliyamo/workspace-reservation/internal/model"
	"github.com/iliyamo/workspace-reservation/internal/repository"
)

// sampleWorkspaces is the starter catalog for development and demo
// environments: two hot desks, a meeting room and a collaboration pod.
var sampleWorkspaces = []model.Workspace{
	{
		Name:            "Desk-A1",
		Location:        "Ground Floor",
		Capacity:        1,
		Type:            "desk",
		Amenities:       "WiFi, Monitor, Power outlet",
		Status:          model.WorkspaceAvailable,
		Description:     "Hot desk near window",
		HourlyRateCents: 500,
	},
	{
		Name:            "Desk-A2",
		Location:        "Ground Floor",
		Capacity:        1,
		Type:            "desk",
		Amenities:       "WiFi, Power outlet",
		Status:          model.WorkspaceAvailable,
		Description:     "Hot desk by entrance",
		HourlyRateCents: 500,
	},
	{
		Name:            "Meeting Room 1",
		Location:        "First Floor",
		Capacity:        6,
		Type:            "meeting",
		Amenities:       "WiFi, Projector, Whiteboard, Conference phone",
		Status:          model.WorkspaceAvailable,
		Description:     "Conference room with projector",
		HourlyRateCents: 1500,
	},
	{
		Name:            "Pod-1",
		Location:        "Ground Floor",
		Capacity:        4,
		Type:            "pod",
		Amenities:       "WiFi, Whiteboard",
		Status:          model.WorkspaceAvailable,
		Description:     "Collaboration pod",
		HourlyRateCents: 1000,
	},
}

// SeedWorkspaces inserts the sample catalog, skipping workspaces that
// already exist by name so repeated startups do not duplicate rows.
func SeedWorkspaces(ctx context.Context, db *sql.DB) error {
	repo := repository.NewWorkspaceRepo(db)
	created := 0
	for i := range sampleWorkspaces {
		w := sampleWorkspaces[i]
		exists, err := repo.ExistsByName(ctx, w.Name)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := repo.Insert(ctx, &w); err != nil {
			return err
		}
		created++
	}
	if created > 0 {
		log.Printf("seeded %d sample workspaces", created)
	}
	return nil
}
