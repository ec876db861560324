package spotify

import (
	"sort"

	"github.com/vibesense/vibesense/internal/core/domain"
)

// demoCatalog is served in demo mode so the rest of the system behaves the
// same with or without live credentials.
var demoCatalog = []domain.TrackInfo{
	{
		ID:          "happy_001",
		Title:       "Happy Vibes",
		Artist:      "Sunny Day Band",
		Album:       "Bright Days",
		DurationMs:  210000,
		ExternalURL: "https://open.spotify.com/track/demo",
		ImageURL:    "https://via.placeholder.com/300x300?text=Happy+Vibes",
		Features:    &domain.AudioFeatures{Valence: 0.9, Energy: 0.8, Danceability: 0.7, Tempo: 128},
	},
	{
		ID:          "sad_001",
		Title:       "Melancholy Blues",
		Artist:      "Rainy Weather",
		Album:       "Gray Skies",
		DurationMs:  180000,
		ExternalURL: "https://open.spotify.com/track/demo",
		ImageURL:    "https://via.placeholder.com/300x300?text=Melancholy+Blues",
		Features:    &domain.AudioFeatures{Valence: 0.2, Energy: 0.3, Danceability: 0.2, Tempo: 70},
	},
	{
		ID:          "angry_001",
		Title:       "Fire Storm",
		Artist:      "Thunder Strike",
		Album:       "Static Charge",
		DurationMs:  195000,
		ExternalURL: "https://open.spotify.com/track/demo",
		ImageURL:    "https://via.placeholder.com/300x300?text=Fire+Storm",
		Features:    &domain.AudioFeatures{Valence: 0.4, Energy: 0.9, Danceability: 0.6, Tempo: 160},
	},
	{
		ID:          "neutral_001",
		Title:       "Peaceful Journey",
		Artist:      "Calm Waters",
		Album:       "Still Lakes",
		DurationMs:  240000,
		ExternalURL: "https://open.spotify.com/track/demo",
		ImageURL:    "https://via.placeholder.com/300x300?text=Peaceful+Journey",
		Features:    &domain.AudioFeatures{Valence: 0.5, Energy: 0.5, Danceability: 0.4, Tempo: 100},
	},
	{
		ID:          "surprise_001",
		Title:       "Unexpected Turn",
		Artist:      "Plot Twist",
		Album:       "Second Act",
		DurationMs:  205000,
		ExternalURL: "https://open.spotify.com/track/demo",
		ImageURL:    "https://via.placeholder.com/300x300?text=Unexpected+Turn",
		Features:    &domain.AudioFeatures{Valence: 0.7, Energy: 0.8, Danceability: 0.6, Tempo: 140},
	},
}

// demoTrackInfo returns the canned entry for known IDs and a generic
// placeholder otherwise, so enrichment never fails in demo mode.
func demoTrackInfo(trackID string) domain.TrackInfo {
	for _, info := range demoCatalog {
		if info.ID == trackID {
			return info
		}
	}
	return domain.TrackInfo{
		ID:          trackID,
		Title:       "Demo Track",
		Artist:      "Demo Artist",
		Album:       "Demo Album",
		DurationMs:  200000,
		ExternalURL: "https://open.spotify.com/track/demo",
		ImageURL:    "https://via.placeholder.com/300x300?text=Demo+Track",
		Features:    &domain.AudioFeatures{Valence: 0.5, Energy: 0.5, Danceability: 0.5, Tempo: 120},
	}
}

// demoSearch ranks the canned catalog by fuzzy similarity between the query
// and each track's title and artist. Entries with no resemblance at all are
// dropped; an empty query returns the catalog head.
func demoSearch(query string, limit int) []domain.TrackInfo {
	normalized := normalizeSearchInput(query)
	if normalized == "" {
		if limit > len(demoCatalog) {
			limit = len(demoCatalog)
		}
		return append([]domain.TrackInfo{}, demoCatalog[:limit]...)
	}

	type rankedInfo struct {
		info  domain.TrackInfo
		score float64
	}

	ranked := make([]rankedInfo, 0, len(demoCatalog))
	for _, info := range demoCatalog {
		score := similarity(normalized, normalizeSearchInput(info.Title+" "+info.Artist))
		if score <= 0 {
			continue
		}
		ranked = append(ranked, rankedInfo{info: info, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if limit > len(ranked) {
		limit = len(ranked)
	}
	out := make([]domain.TrackInfo, 0, limit)
	for _, r := range ranked[:limit] {
		out = append(out, r.info)
	}
	return out
}
