package domain

// Range is a closed interval [Lo, Hi] over one musical attribute. A zero
// Range means the attribute is undefined for that profile and is skipped at
// scoring time.
type Range struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

// IsZero reports whether the range is undefined.
func (r Range) IsZero() bool {
	return r.Lo == 0 && r.Hi == 0
}

// Contains reports whether v lies inside the interval, bounds inclusive.
func (r Range) Contains(v float64) bool {
	return v >= r.Lo && v <= r.Hi
}

// EmotionProfile is the target attribute window characterizing music that
// fits one emotion. Tempo bounds are in BPM.
type EmotionProfile struct {
	Valence      Range `json:"valence"`
	Energy       Range `json:"energy"`
	Danceability Range `json:"danceability"`
	Tempo        Range `json:"tempo"`
}

// emotionProfiles maps every supported label to its target ranges.
var emotionProfiles = map[Emotion]EmotionProfile{
	EmotionHappy: {
		Valence:      Range{0.7, 1.0},
		Energy:       Range{0.6, 1.0},
		Danceability: Range{0.5, 1.0},
		Tempo:        Range{120, 180},
	},
	EmotionSad: {
		Valence:      Range{0.0, 0.4},
		Energy:       Range{0.0, 0.5},
		Danceability: Range{0.0, 0.4},
		Tempo:        Range{60, 100},
	},
	EmotionAngry: {
		Valence:      Range{0.2, 0.6},
		Energy:       Range{0.7, 1.0},
		Danceability: Range{0.4, 0.8},
		Tempo:        Range{130, 200},
	},
	EmotionNeutral: {
		Valence:      Range{0.4, 0.7},
		Energy:       Range{0.4, 0.7},
		Danceability: Range{0.3, 0.7},
		Tempo:        Range{90, 130},
	},
	EmotionSurprise: {
		Valence:      Range{0.5, 0.8},
		Energy:       Range{0.6, 0.9},
		Danceability: Range{0.4, 0.8},
		Tempo:        Range{110, 150},
	},
	EmotionFear: {
		Valence:      Range{0.1, 0.4},
		Energy:       Range{0.3, 0.7},
		Danceability: Range{0.2, 0.5},
		Tempo:        Range{80, 120},
	},
	EmotionDisgust: {
		Valence:      Range{0.1, 0.3},
		Energy:       Range{0.2, 0.6},
		Danceability: Range{0.1, 0.4},
		Tempo:        Range{70, 110},
	},
}

// ProfileFor returns the profile for the named emotion. Unrecognized labels
// degrade to neutral rather than erroring.
func ProfileFor(emotion string) (Emotion, EmotionProfile) {
	label, ok := ParseEmotion(emotion)
	if !ok {
		label = EmotionNeutral
	}
	return label, emotionProfiles[label]
}

// Profiles returns a copy of the full emotion-to-profile table.
func Profiles() map[Emotion]EmotionProfile {
	out := make(map[Emotion]EmotionProfile, len(emotionProfiles))
	for label, profile := range emotionProfiles {
		out[label] = profile
	}
	return out
}
