// Package services holds the core engines: emotion inference over images and
// frames, and emotion-conditioned track recommendation.
package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/vibesense/vibesense/internal/core/domain"
	"github.com/vibesense/vibesense/internal/core/ports"
)

// InferenceEngine orchestrates face localization and emotion classification.
// It keeps no state between calls; given a model that is safe for concurrent
// read-only evaluation it may be invoked from any number of goroutines.
type InferenceEngine struct {
	locator ports.FaceLocator
	model   ports.EmotionModel
}

// NewInferenceEngine constructs an InferenceEngine.
func NewInferenceEngine(locator ports.FaceLocator, model ports.EmotionModel) *InferenceEngine {
	return &InferenceEngine{
		locator: locator,
		model:   model,
	}
}

// InferFromImage runs single-image inference. When no face is present the
// result carries FaceFound=false; that is a valid outcome, not an error.
// Localization and classification failures propagate to the caller.
func (e *InferenceEngine) InferFromImage(ctx context.Context, img domain.Raster) (domain.InferenceResult, error) {
	faces, err := e.locator.Locate(img)
	if err != nil {
		return domain.InferenceResult{}, fmt.Errorf("service: face localization failed: %w", err)
	}
	if len(faces) == 0 {
		return domain.NoFaceResult(), nil
	}

	face := dominantFace(faces)

	input, err := preprocessFace(img.Crop(face))
	if err != nil {
		return domain.InferenceResult{}, fmt.Errorf("service: face preprocessing failed: %w", err)
	}

	dist, err := e.model.Classify(ctx, input)
	if err != nil {
		return domain.InferenceResult{}, fmt.Errorf("service: classification failed: %w", err)
	}

	emotion, confidence := dist.Dominant()
	region := face
	return domain.InferenceResult{
		Emotion:    emotion,
		Confidence: confidence,
		Emotions:   dist,
		Face:       &region,
		FaceFound:  true,
	}, nil
}

// InferFromFrame is the streaming variant. It shares the image path but never
// fails a tick: any error degrades to the default neutral result, and a
// classified face additionally yields an annotation directive describing how
// the frame should be marked. The frame itself is never mutated.
func (e *InferenceEngine) InferFromFrame(ctx context.Context, frame domain.Raster) domain.InferenceResult {
	result, err := e.InferFromImage(ctx, frame)
	if err != nil || !result.FaceFound {
		return domain.NoFaceResult()
	}

	result.Annotation = domain.AnnotationFor(*result.Face, result.Emotion, result.Confidence)
	return result
}

// ModelInfo exposes the loaded scoring artifact's description.
func (e *InferenceEngine) ModelInfo() ports.ModelInfo {
	return e.model.Info()
}

// dominantFace selects the largest region by area; ties resolve to the first
// region found.
func dominantFace(faces []domain.FaceRegion) domain.FaceRegion {
	best := faces[0]
	for _, f := range faces[1:] {
		if f.Area() > best.Area() {
			best = f
		}
	}
	return best
}

// serializedModel wraps a model that is not safe for concurrent evaluation,
// admitting one Classify call at a time. Callers queue rather than fail.
type serializedModel struct {
	mu    sync.Mutex
	inner ports.EmotionModel
}

// SerializeModel returns a concurrency-safe view of model. Use it when the
// underlying scoring artifact does not support concurrent read-only inference.
func SerializeModel(model ports.EmotionModel) ports.EmotionModel {
	return &serializedModel{inner: model}
}

func (s *serializedModel) Classify(ctx context.Context, input []float32) (domain.Distribution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Classify(ctx, input)
}

func (s *serializedModel) Info() ports.ModelInfo {
	return s.inner.Info()
}
