// Package domain holds the core types for emotion inference and
// emotion-to-music matching. Nothing in here performs I/O.
package domain

import "math"

// Emotion is one of the fixed categorical labels the classifier can emit.
type Emotion string

const (
	EmotionAngry    Emotion = "angry"
	EmotionDisgust  Emotion = "disgust"
	EmotionFear     Emotion = "fear"
	EmotionHappy    Emotion = "happy"
	EmotionNeutral  Emotion = "neutral"
	EmotionSad      Emotion = "sad"
	EmotionSurprise Emotion = "surprise"
)

// emotionLabels is the canonical ordering. The classifier emits one
// probability per label in exactly this order.
var emotionLabels = []Emotion{
	EmotionAngry,
	EmotionDisgust,
	EmotionFear,
	EmotionHappy,
	EmotionNeutral,
	EmotionSad,
	EmotionSurprise,
}

// Emotions returns the supported labels in canonical order.
func Emotions() []Emotion {
	out := make([]Emotion, len(emotionLabels))
	copy(out, emotionLabels)
	return out
}

// ParseEmotion reports whether s names a supported label.
func ParseEmotion(s string) (Emotion, bool) {
	for _, label := range emotionLabels {
		if string(label) == s {
			return label, true
		}
	}
	return "", false
}

// distributionTolerance is how far the probability mass may drift from 1.0
// before a Distribution is considered invalid.
const distributionTolerance = 1e-3

// Distribution maps each emotion label to its probability.
type Distribution map[Emotion]float64

// DistributionFromVector builds a Distribution from a probability vector in
// canonical label order. The vector is normalized so the values sum to 1.0;
// a vector with no mass at all yields a uniform distribution.
func DistributionFromVector(probs []float64) Distribution {
	dist := make(Distribution, len(emotionLabels))

	var sum float64
	for i, label := range emotionLabels {
		v := 0.0
		if i < len(probs) && probs[i] > 0 {
			v = probs[i]
		}
		dist[label] = v
		sum += v
	}

	if sum <= 0 {
		uniform := 1.0 / float64(len(emotionLabels))
		for _, label := range emotionLabels {
			dist[label] = uniform
		}
		return dist
	}

	for _, label := range emotionLabels {
		dist[label] /= sum
	}
	return dist
}

// Dominant returns the label with the highest probability and that
// probability. Ties resolve to the earliest label in canonical order.
func (d Distribution) Dominant() (Emotion, float64) {
	best := EmotionNeutral
	bestProb := math.Inf(-1)
	for _, label := range emotionLabels {
		if p, ok := d[label]; ok && p > bestProb {
			best = label
			bestProb = p
		}
	}
	if math.IsInf(bestProb, -1) {
		return EmotionNeutral, 0
	}
	return best, bestProb
}

// Valid reports whether every probability lies in [0,1] and the total mass
// is 1.0 within tolerance.
func (d Distribution) Valid() bool {
	var sum float64
	for _, label := range emotionLabels {
		p := d[label]
		if p < 0 || p > 1 {
			return false
		}
		sum += p
	}
	return math.Abs(sum-1.0) <= distributionTolerance
}
