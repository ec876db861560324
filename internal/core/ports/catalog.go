package ports

import (
	"context"

	"github.com/vibesense/vibesense/internal/core/domain"
)

// CatalogProvider supplies the track catalog in a stable order. The core
// treats each returned slice as an immutable snapshot for one call.
type CatalogProvider interface {
	Tracks(ctx context.Context) ([]domain.Track, error)
}

// FeatureUpdater lets background analysis refresh a stored track's energy
// attribute once its preview audio has been measured.
type FeatureUpdater interface {
	UpdateTrackEnergy(ctx context.Context, trackID string, energy float64) error
}
