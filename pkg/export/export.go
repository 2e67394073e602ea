package export

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Snapshot is one rendered output of a demo.
type Snapshot struct {
	// ID identifies the snapshot. Exporters assign a UUID if empty.
	ID string `json:"id"`

	// Demo is the name of the rendered demo or root component.
	Demo string `json:"demo"`

	// HTML is the serialized host tree.
	HTML string `json:"-"`

	// Passes is the number of render passes the session ran.
	Passes uint64 `json:"passes"`

	// CreatedAt is when the snapshot was taken.
	CreatedAt time.Time `json:"created_at"`
}

// Exporter stores snapshots.
type Exporter interface {
	// Export stores the snapshot and returns its location.
	Export(ctx context.Context, snap *Snapshot) (string, error)
}

// prepare fills in the ID and timestamp.
func prepare(snap *Snapshot) {
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}
	if snap.Demo == "" {
		snap.Demo = "snapshot"
	}
}
