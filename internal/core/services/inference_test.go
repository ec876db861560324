package services

import (
	"context"
	"errors"
	"testing"

	"github.com/vibesense/vibesense/internal/core/domain"
	"github.com/vibesense/vibesense/internal/core/ports"
)

// --- Mocks ---

type mockLocator struct {
	faces []domain.FaceRegion
	err   error
}

func (m *mockLocator) Locate(img domain.Raster) ([]domain.FaceRegion, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.faces, nil
}

type mockModel struct {
	probs []float64
	err   error

	calls  int
	inputs [][]float32
}

func (m *mockModel) Classify(ctx context.Context, input []float32) (domain.Distribution, error) {
	m.calls++
	m.inputs = append(m.inputs, input)
	if m.err != nil {
		return nil, m.err
	}
	return domain.DistributionFromVector(m.probs), nil
}

func (m *mockModel) Info() ports.ModelInfo {
	return ports.ModelInfo{Kind: "mock", InputSize: ModelInputSize, Emotions: domain.Emotions(), Loaded: true}
}

func testImage(w, h int) domain.Raster {
	r, err := domain.NewRaster(make([]uint8, w*h), w, h, 1)
	if err != nil {
		panic(err)
	}
	return r
}

// happyVector has its mass on "happy" in canonical label order.
var happyVector = []float64{0.02, 0.02, 0.02, 0.82, 0.05, 0.05, 0.02}

func TestInferenceEngine_InferFromImage(t *testing.T) {
	tests := []struct {
		name        string
		locator     mockLocator
		model       mockModel
		wantErr     error
		wantFace    bool
		wantEmotion domain.Emotion
		wantRegion  *domain.FaceRegion
	}{
		{
			name:     "no face found is a flagged result, not an error",
			locator:  mockLocator{faces: nil},
			model:    mockModel{probs: happyVector},
			wantFace: false,
		},
		{
			name: "single face is classified",
			locator: mockLocator{faces: []domain.FaceRegion{
				{X: 10, Y: 10, Width: 20, Height: 20},
			}},
			model:       mockModel{probs: happyVector},
			wantFace:    true,
			wantEmotion: domain.EmotionHappy,
			wantRegion:  &domain.FaceRegion{X: 10, Y: 10, Width: 20, Height: 20},
		},
		{
			name: "largest face by area wins",
			locator: mockLocator{faces: []domain.FaceRegion{
				{X: 0, Y: 0, Width: 10, Height: 10},
				{X: 30, Y: 30, Width: 40, Height: 40},
				{X: 5, Y: 5, Width: 20, Height: 20},
			}},
			model:       mockModel{probs: happyVector},
			wantFace:    true,
			wantEmotion: domain.EmotionHappy,
			wantRegion:  &domain.FaceRegion{X: 30, Y: 30, Width: 40, Height: 40},
		},
		{
			name: "area tie resolves to the first region found",
			locator: mockLocator{faces: []domain.FaceRegion{
				{X: 0, Y: 0, Width: 20, Height: 20},
				{X: 50, Y: 50, Width: 20, Height: 20},
			}},
			model:       mockModel{probs: happyVector},
			wantFace:    true,
			wantEmotion: domain.EmotionHappy,
			wantRegion:  &domain.FaceRegion{X: 0, Y: 0, Width: 20, Height: 20},
		},
		{
			name:    "locator error propagates",
			locator: mockLocator{err: errors.New("cascade exploded")},
			model:   mockModel{probs: happyVector},
			wantErr: errors.New("cascade exploded"),
		},
		{
			name: "model unavailable propagates",
			locator: mockLocator{faces: []domain.FaceRegion{
				{X: 10, Y: 10, Width: 20, Height: 20},
			}},
			model:   mockModel{err: domain.ErrModelUnavailable},
			wantErr: domain.ErrModelUnavailable,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			engine := NewInferenceEngine(&tc.locator, &tc.model)

			got, err := engine.InferFromImage(context.Background(), testImage(100, 100))
			if tc.wantErr != nil {
				if err == nil {
					t.Fatalf("expected error, got result %+v", got)
				}
				if errors.Is(tc.wantErr, domain.ErrModelUnavailable) && !errors.Is(err, domain.ErrModelUnavailable) {
					t.Fatalf("expected ErrModelUnavailable, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got.FaceFound != tc.wantFace {
				t.Fatalf("face found: got %v, want %v", got.FaceFound, tc.wantFace)
			}
			if !tc.wantFace {
				if got.Emotion != domain.EmotionNeutral || got.Confidence != 0 {
					t.Fatalf("no-face result should default to neutral/0.0, got %s/%v", got.Emotion, got.Confidence)
				}
				return
			}

			if got.Emotion != tc.wantEmotion {
				t.Fatalf("emotion: got %s, want %s", got.Emotion, tc.wantEmotion)
			}
			if got.Face == nil || *got.Face != *tc.wantRegion {
				t.Fatalf("face region: got %+v, want %+v", got.Face, tc.wantRegion)
			}
			if !got.Emotions.Valid() {
				t.Fatalf("distribution does not sum to 1: %+v", got.Emotions)
			}
			if len(tc.model.inputs) != 1 || len(tc.model.inputs[0]) != ModelInputSize*ModelInputSize {
				t.Fatalf("expected one %d-element model input", ModelInputSize*ModelInputSize)
			}
		})
	}
}

func TestInferenceEngine_InferFromFrame(t *testing.T) {
	t.Run("degrades to neutral instead of failing the tick", func(t *testing.T) {
		engine := NewInferenceEngine(&mockLocator{err: errors.New("boom")}, &mockModel{probs: happyVector})

		got := engine.InferFromFrame(context.Background(), testImage(64, 64))
		if got.FaceFound {
			t.Fatalf("expected no-face default, got %+v", got)
		}
		if got.Emotion != domain.EmotionNeutral || got.Confidence != 0 {
			t.Fatalf("expected neutral/0.0, got %s/%v", got.Emotion, got.Confidence)
		}
	})

	t.Run("annotation directive describes the classified face", func(t *testing.T) {
		engine := NewInferenceEngine(
			&mockLocator{faces: []domain.FaceRegion{{X: 4, Y: 8, Width: 16, Height: 16}}},
			&mockModel{probs: happyVector},
		)

		got := engine.InferFromFrame(context.Background(), testImage(64, 64))
		if !got.FaceFound {
			t.Fatalf("expected a classified face")
		}
		if got.Annotation == nil {
			t.Fatalf("expected an annotation directive")
		}
		if got.Annotation.Region != (domain.FaceRegion{X: 4, Y: 8, Width: 16, Height: 16}) {
			t.Fatalf("annotation region mismatch: %+v", got.Annotation.Region)
		}
		if got.Annotation.Label != "happy: 0.82" {
			t.Fatalf("annotation label: got %q", got.Annotation.Label)
		}
	})

	t.Run("a frame sequence yields one result per frame in order", func(t *testing.T) {
		model := &mockModel{probs: happyVector}
		engine := NewInferenceEngine(
			&mockLocator{faces: []domain.FaceRegion{{X: 0, Y: 0, Width: 24, Height: 24}}},
			model,
		)

		const frames = 10
		for i := 0; i < frames; i++ {
			got := engine.InferFromFrame(context.Background(), testImage(48, 48))
			if !got.FaceFound {
				t.Fatalf("frame %d: expected a result", i)
			}
		}
		if model.calls != frames {
			t.Fatalf("expected %d classifications, got %d", frames, model.calls)
		}
	})
}

func TestSerializeModel(t *testing.T) {
	inner := &mockModel{probs: happyVector}
	wrapped := SerializeModel(inner)

	dist, err := wrapped.Classify(context.Background(), make([]float32, ModelInputSize*ModelInputSize))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if emotion, _ := dist.Dominant(); emotion != domain.EmotionHappy {
		t.Fatalf("expected happy, got %s", emotion)
	}
	if wrapped.Info().Kind != "mock" {
		t.Fatalf("Info should pass through to the inner model")
	}
}
