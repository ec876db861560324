package ports

import (
	"context"

	"github.com/vibesense/vibesense/internal/core/domain"
)

// SessionRepository persists inference sessions, recommendation rows and the
// feedback recorded against them. The core hands it plain structured data;
// storage mechanics live entirely in the adapter.
type SessionRepository interface {
	SaveEmotionSession(ctx context.Context, session domain.EmotionSession) error
	EmotionSessions(ctx context.Context, sessionID string) ([]domain.EmotionSession, error)

	SaveRecommendation(ctx context.Context, rec domain.RecommendationRecord) error
	RecommendationsByEmotion(ctx context.Context, emotion domain.Emotion) ([]domain.RecommendationRecord, error)

	// RecordFeedback annotates a stored recommendation row and returns the
	// updated row, or domain.ErrNotFound when no such row exists.
	RecordFeedback(ctx context.Context, sessionID, trackID string, kind domain.FeedbackKind) (domain.RecommendationRecord, error)
}
