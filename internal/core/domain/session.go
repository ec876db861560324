package domain

import "time"

// EmotionSession is one persisted inference outcome within a logical session.
type EmotionSession struct {
	SessionID  string    `json:"session_id"`
	Emotion    Emotion   `json:"emotion"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"timestamp"`
}

// RecommendationRecord is one persisted recommendation row, later annotated
// with the user's feedback.
type RecommendationRecord struct {
	ID        string       `json:"id"`
	SessionID string       `json:"session_id"`
	TrackID   string       `json:"track_id"`
	Title     string       `json:"track_name"`
	Artist    string       `json:"artist_name"`
	Emotion   Emotion      `json:"emotion"`
	Score     float64      `json:"score"`
	Feedback  FeedbackKind `json:"user_feedback,omitempty"`
	CreatedAt time.Time    `json:"timestamp"`
}
