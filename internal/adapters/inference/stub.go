package inference

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"

	"github.com/vibesense/vibesense/internal/core/domain"
	"github.com/vibesense/vibesense/internal/core/ports"
)

// StubModel is a development stand-in for a trained classifier. It derives a
// reproducible probability distribution from the input itself, so the same
// face always yields the same emotion. It holds no mutable state and is safe
// for concurrent use.
type StubModel struct{}

var _ ports.EmotionModel = (*StubModel)(nil)

// NewStubModel constructs the stub.
func NewStubModel() *StubModel {
	return &StubModel{}
}

// Classify hashes the input into an RNG seed and draws softmax-normalized
// scores from it. Deterministic per input, never security-sensitive.
func (s *StubModel) Classify(ctx context.Context, input []float32) (domain.Distribution, error) {
	if len(input) != inputSize*inputSize {
		return nil, fmt.Errorf("inference adapter: %w: got %d values, want %d", domain.ErrMalformedInput, len(input), inputSize*inputSize)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hasher := fnv.New64a()
	var buf [4]byte
	for _, v := range input {
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
		_, _ = hasher.Write(buf[:])
	}

	// #nosec G404 -- deterministic RNG for reproducible stub predictions
	rng := rand.New(rand.NewSource(int64(hasher.Sum64())))

	labels := domain.Emotions()
	scores := make([]float64, len(labels))
	var sum float64
	for i := range scores {
		scores[i] = math.Exp(rng.Float64() * 3)
		sum += scores[i]
	}
	for i := range scores {
		scores[i] /= sum
	}
	return domain.DistributionFromVector(scores), nil
}

// Info describes the stub artifact.
func (s *StubModel) Info() ports.ModelInfo {
	return ports.ModelInfo{
		Kind:      "stub",
		InputSize: inputSize,
		Emotions:  domain.Emotions(),
		Loaded:    true,
	}
}
