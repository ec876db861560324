package services

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vibesense/vibesense/internal/core/domain"
	"github.com/vibesense/vibesense/internal/core/ports"
)

const (
	// relevanceThreshold is the strict lower bound a similarity score must
	// beat to count as a genuine match.
	relevanceThreshold = 0.3

	// backfillScore is assigned to catalog tracks used to pad results when
	// too few genuine matches exist.
	backfillScore = 0.5

	// minutesPerTrack converts a playlist duration budget into a track count.
	minutesPerTrack = 3
)

// Recommendation is a scored track optionally enriched with external
// metadata. Info is nil when enrichment was unavailable.
type Recommendation struct {
	domain.ScoredTrack
	Info *domain.TrackInfo `json:"info,omitempty"`
}

// EmotionStats aggregates the stored recommendation history for one emotion.
type EmotionStats struct {
	Emotion              domain.Emotion              `json:"emotion"`
	TotalRecommendations int                         `json:"total_recommendations"`
	TopTracks            []TrackCount                `json:"top_tracks"`
	FeedbackStats        map[domain.FeedbackKind]int `json:"feedback_stats"`
	NoFeedback           int                         `json:"no_feedback"`
}

// TrackCount is one entry of the top-tracks tally.
type TrackCount struct {
	Track string `json:"track"`
	Count int    `json:"count"`
}

// Recommender ranks the track catalog for emotions, assembles multi-emotion
// playlists and accepts feedback. The catalog is fetched as a fresh snapshot
// per call; the feedback log is append-only and never blocks readers.
type Recommender struct {
	catalog  ports.CatalogProvider
	metadata ports.MetadataProvider
	repo     ports.SessionRepository

	rngMu sync.Mutex
	rng   *rand.Rand

	feedbackMu sync.Mutex
	feedback   []domain.FeedbackEvent
}

// NewRecommender constructs a Recommender. metadata and repo may be nil for a
// bare scoring core; src seeds the playlist shuffle and may be nil for a
// time-seeded source (tests inject a fixed seed for determinism).
func NewRecommender(catalog ports.CatalogProvider, metadata ports.MetadataProvider, repo ports.SessionRepository, src rand.Source) *Recommender {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Recommender{
		catalog:  catalog,
		metadata: metadata,
		repo:     repo,
		rng:      rand.New(src),
	}
}

// RecommendByEmotion ranks the catalog for the named emotion. Unknown labels
// silently degrade to neutral. Tracks scoring strictly above the relevance
// threshold come first, sorted descending with catalog order breaking ties;
// if they fall short of limit the remainder is backfilled with unused tracks
// in catalog order at the default score. An empty catalog yields an empty
// result, never an error.
func (r *Recommender) RecommendByEmotion(ctx context.Context, emotion string, limit int) ([]domain.ScoredTrack, error) {
	if limit <= 0 {
		return []domain.ScoredTrack{}, nil
	}

	tracks, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	label, profile := domain.ProfileFor(emotion)

	scored := make([]domain.ScoredTrack, 0, len(tracks))
	selected := make(map[string]bool, len(tracks))
	for _, track := range tracks {
		score := domain.MatchScore(track.Features, profile)
		if score > relevanceThreshold {
			scored = append(scored, domain.ScoredTrack{Track: track, Score: score, RecommendedFor: label})
			selected[track.ID] = true
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	for _, track := range tracks {
		if len(scored) >= limit {
			break
		}
		if selected[track.ID] {
			continue
		}
		scored = append(scored, domain.ScoredTrack{Track: track, Score: backfillScore, RecommendedFor: label})
		selected[track.ID] = true
	}

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// Recommend ranks the catalog, enriches each result with external metadata
// when available, and persists the recommendation rows for the session.
// Enrichment failures degrade silently; the tracks stay usable without them.
func (r *Recommender) Recommend(ctx context.Context, sessionID, emotion string, limit int) ([]Recommendation, error) {
	scored, err := r.RecommendByEmotion(ctx, emotion, limit)
	if err != nil {
		return nil, err
	}

	out := make([]Recommendation, 0, len(scored))
	for _, st := range scored {
		rec := Recommendation{ScoredTrack: st}
		if r.metadata != nil {
			info, err := r.metadata.TrackInfo(ctx, st.ID)
			if err != nil {
				log.Printf("WARN recommender: enrichment failed for track %s: %v", st.ID, err)
			} else {
				rec.Info = &info
			}
		}
		out = append(out, rec)

		if r.repo == nil {
			continue
		}
		row := domain.RecommendationRecord{
			ID:        uuid.NewString(),
			SessionID: sessionID,
			TrackID:   st.ID,
			Title:     st.Title,
			Artist:    st.Artist,
			Emotion:   st.RecommendedFor,
			Score:     st.Score,
			CreatedAt: time.Now().UTC(),
		}
		if err := r.repo.SaveRecommendation(ctx, row); err != nil {
			return nil, fmt.Errorf("service: failed to save recommendation: %w", err)
		}
	}
	return out, nil
}

// GeneratePlaylist assembles a deduplicated multi-emotion playlist under a
// duration budget, assuming roughly three minutes per track. The final order
// is shuffled on purpose: variety over determinism.
func (r *Recommender) GeneratePlaylist(ctx context.Context, emotions []string, durationMinutes int) ([]domain.ScoredTrack, error) {
	targetCount := durationMinutes / minutesPerTrack
	if targetCount <= 0 || len(emotions) == 0 {
		return []domain.ScoredTrack{}, nil
	}

	perEmotion := targetCount / len(emotions)
	if perEmotion < 1 {
		perEmotion = 1
	}

	var combined []domain.ScoredTrack
	for _, emotion := range emotions {
		tracks, err := r.RecommendByEmotion(ctx, emotion, perEmotion)
		if err != nil {
			return nil, err
		}
		combined = append(combined, tracks...)
	}

	seen := make(map[string]bool, len(combined))
	playlist := make([]domain.ScoredTrack, 0, len(combined))
	for _, track := range combined {
		if seen[track.ID] {
			continue
		}
		seen[track.ID] = true
		playlist = append(playlist, track)
	}

	r.rngMu.Lock()
	r.rng.Shuffle(len(playlist), func(i, j int) {
		playlist[i], playlist[j] = playlist[j], playlist[i]
	})
	r.rngMu.Unlock()

	if len(playlist) > targetCount {
		playlist = playlist[:targetCount]
	}
	return playlist, nil
}

// IngestFeedback appends a well-formed event to the feedback log. The log is
// an extension seam for a future learning subsystem; no synchronous
// re-ranking happens here. Malformed events are the only rejection.
func (r *Recommender) IngestFeedback(event domain.FeedbackEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	r.feedbackMu.Lock()
	r.feedback = append(r.feedback, event)
	r.feedbackMu.Unlock()

	log.Printf("feedback received: %s -> %s -> %s", event.Emotion, event.TrackID, event.Feedback)
	return nil
}

// FeedbackLog returns a snapshot copy of the ingested events.
func (r *Recommender) FeedbackLog() []domain.FeedbackEvent {
	r.feedbackMu.Lock()
	defer r.feedbackMu.Unlock()
	out := make([]domain.FeedbackEvent, len(r.feedback))
	copy(out, r.feedback)
	return out
}

// SubmitFeedback annotates the stored recommendation row and feeds the event
// into the ingestion log. Returns domain.ErrNotFound when the session never
// saw that track.
func (r *Recommender) SubmitFeedback(ctx context.Context, sessionID, trackID string, kind domain.FeedbackKind) (domain.RecommendationRecord, error) {
	if r.repo == nil {
		return domain.RecommendationRecord{}, fmt.Errorf("service: no recommendation store configured")
	}

	row, err := r.repo.RecordFeedback(ctx, sessionID, trackID, kind)
	if err != nil {
		return domain.RecommendationRecord{}, err
	}

	if err := r.IngestFeedback(domain.FeedbackEvent{Emotion: row.Emotion, TrackID: trackID, Feedback: kind}); err != nil {
		return domain.RecommendationRecord{}, err
	}
	return row, nil
}

// Stats tallies the stored recommendation history for one emotion.
func (r *Recommender) Stats(ctx context.Context, emotion string) (EmotionStats, error) {
	label, _ := domain.ProfileFor(emotion)
	stats := EmotionStats{
		Emotion:       label,
		TopTracks:     []TrackCount{},
		FeedbackStats: map[domain.FeedbackKind]int{},
	}
	if r.repo == nil {
		return stats, nil
	}

	rows, err := r.repo.RecommendationsByEmotion(ctx, label)
	if err != nil {
		return EmotionStats{}, fmt.Errorf("service: failed to load recommendation history: %w", err)
	}

	counts := map[string]int{}
	for _, row := range rows {
		counts[row.Title+" - "+row.Artist]++
		if row.Feedback == "" {
			stats.NoFeedback++
		} else {
			stats.FeedbackStats[row.Feedback]++
		}
	}
	stats.TotalRecommendations = len(rows)

	for track, count := range counts {
		stats.TopTracks = append(stats.TopTracks, TrackCount{Track: track, Count: count})
	}
	sort.Slice(stats.TopTracks, func(i, j int) bool {
		if stats.TopTracks[i].Count != stats.TopTracks[j].Count {
			return stats.TopTracks[i].Count > stats.TopTracks[j].Count
		}
		return stats.TopTracks[i].Track < stats.TopTracks[j].Track
	})
	if len(stats.TopTracks) > 10 {
		stats.TopTracks = stats.TopTracks[:10]
	}
	return stats, nil
}

// snapshot fetches the catalog once for the current call. A nil provider or
// empty catalog is not an error.
func (r *Recommender) snapshot(ctx context.Context) ([]domain.Track, error) {
	if r.catalog == nil {
		return nil, nil
	}
	tracks, err := r.catalog.Tracks(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load catalog: %w", err)
	}
	return tracks, nil
}
