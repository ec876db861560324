package domain

// Attribute weights for similarity scoring. They sum to 1.0; an attribute
// whose profile range is undefined contributes nothing and its weight is
// excluded from the denominator, keeping the score in [0,1].
const (
	weightValence      = 0.30
	weightEnergy       = 0.25
	weightDanceability = 0.20
	weightTempo        = 0.25
)

// tempoNormalizer scales BPM values onto the same [0,1] axis as the other
// attributes. Both the track tempo and the profile bounds are divided by it.
const tempoNormalizer = 200.0

// MatchScore returns how well a track's attributes fit an emotion profile,
// in [0,1]. A track inside every defined range scores exactly 1.0.
func MatchScore(features AudioFeatures, profile EmotionProfile) float64 {
	type attribute struct {
		value  float64
		target Range
		weight float64
	}

	attrs := []attribute{
		{features.Valence, profile.Valence, weightValence},
		{features.Energy, profile.Energy, weightEnergy},
		{features.Danceability, profile.Danceability, weightDanceability},
		{normalizeTempo(features.Tempo), normalizeTempoRange(profile.Tempo), weightTempo},
	}

	var score, totalWeight float64
	for _, a := range attrs {
		if a.target.IsZero() {
			continue
		}
		score += attributeScore(a.value, a.target) * a.weight
		totalWeight += a.weight
	}

	if totalWeight == 0 {
		return 0
	}
	return score / totalWeight
}

// attributeScore is 1.0 inside the range, otherwise it decays linearly with
// the distance to the nearer bound.
func attributeScore(value float64, target Range) float64 {
	if target.Contains(value) {
		return 1.0
	}

	distLo := value - target.Lo
	if distLo < 0 {
		distLo = -distLo
	}
	distHi := value - target.Hi
	if distHi < 0 {
		distHi = -distHi
	}

	dist := distLo
	if distHi < dist {
		dist = distHi
	}

	if s := 1.0 - dist; s > 0 {
		return s
	}
	return 0
}

func normalizeTempo(bpm float64) float64 {
	v := bpm / tempoNormalizer
	if v > 1.0 {
		return 1.0
	}
	return v
}

func normalizeTempoRange(r Range) Range {
	if r.IsZero() {
		return r
	}
	return Range{Lo: r.Lo / tempoNormalizer, Hi: r.Hi / tempoNormalizer}
}
