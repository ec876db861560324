// Package ports defines the interfaces between the core engine and its
// collaborators. Adapters implement them; services depend on them.
package ports

import (
	"context"

	"github.com/vibesense/vibesense/internal/core/domain"
)

// FaceLocator finds candidate face regions in a decoded raster. An empty
// slice is a valid outcome meaning no face is present. Detection parameters
// are fixed at construction, not per call.
type FaceLocator interface {
	Locate(img domain.Raster) ([]domain.FaceRegion, error)
}

// ModelInfo describes the loaded scoring artifact for diagnostics.
type ModelInfo struct {
	Kind      string           `json:"model_type"`
	InputSize int              `json:"input_size"`
	Emotions  []domain.Emotion `json:"emotions"`
	Loaded    bool             `json:"model_loaded"`
}

// EmotionModel is the opaque scoring artifact behind the classifier. Input
// is a preprocessed face: 48x48 luminance values scaled to [0,1], flattened
// row-major. Implementations emit one probability per emotion label in
// canonical order; any architecture honoring that contract is acceptable.
// Classify must return domain.ErrModelUnavailable when no artifact is loaded.
type EmotionModel interface {
	Classify(ctx context.Context, input []float32) (domain.Distribution, error)
	Info() ModelInfo
}
