package ports

import (
	"context"

	"github.com/vibesense/vibesense/internal/core/domain"
)

// MetadataProvider is the external music-catalog lookup. Enrichment is best
// effort: a failed or empty lookup must degrade gracefully, never fail a
// recommendation.
type MetadataProvider interface {
	TrackInfo(ctx context.Context, trackID string) (domain.TrackInfo, error)
	Search(ctx context.Context, query string, limit int) ([]domain.TrackInfo, error)
}
