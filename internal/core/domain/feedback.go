package domain

import "fmt"

// FeedbackKind is the user's reaction to a recommended track.
type FeedbackKind string

const (
	FeedbackLike    FeedbackKind = "like"
	FeedbackDislike FeedbackKind = "dislike"
	FeedbackNeutral FeedbackKind = "neutral"
)

// Valid reports whether the kind is one of the accepted values.
func (k FeedbackKind) Valid() bool {
	switch k {
	case FeedbackLike, FeedbackDislike, FeedbackNeutral:
		return true
	}
	return false
}

// FeedbackEvent records one reaction to a track recommended for an emotion.
// The core accepts and retains events for a downstream learning subsystem;
// it does not re-rank synchronously.
type FeedbackEvent struct {
	Emotion  Emotion      `json:"emotion"`
	TrackID  string       `json:"track_id"`
	Feedback FeedbackKind `json:"feedback"`
}

// Validate checks the shape of the event.
func (e FeedbackEvent) Validate() error {
	if e.TrackID == "" {
		return fmt.Errorf("domain: feedback event missing track id")
	}
	if !e.Feedback.Valid() {
		return fmt.Errorf("domain: unknown feedback kind %q", e.Feedback)
	}
	return nil
}
