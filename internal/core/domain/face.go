package domain

import "fmt"

// FaceRegion is an axis-aligned rectangle in source-image pixel coordinates.
type FaceRegion struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Area returns width*height in pixels.
func (f FaceRegion) Area() int {
	return f.Width * f.Height
}

// Annotation describes how a frame should be visually marked by whoever owns
// the pixels. The core only yields the directive, it never draws.
type Annotation struct {
	Region FaceRegion `json:"region"`
	Label  string     `json:"label"`
}

// InferenceResult is the outcome of one inference call. When FaceFound is
// false the remaining fields carry the neutral defaults.
type InferenceResult struct {
	Emotion    Emotion      `json:"emotion"`
	Confidence float64      `json:"confidence"`
	Emotions   Distribution `json:"all_emotions"`
	Face       *FaceRegion  `json:"face_location,omitempty"`
	FaceFound  bool         `json:"face_detected"`
	Annotation *Annotation  `json:"annotation,omitempty"`
}

// NoFaceResult is the default result used when a frame holds no detectable
// face: neutral at zero confidence.
func NoFaceResult() InferenceResult {
	return InferenceResult{
		Emotion:    EmotionNeutral,
		Confidence: 0.0,
		Emotions:   Distribution{},
		FaceFound:  false,
	}
}

// AnnotationFor builds the "label: confidence" marker directive for a
// classified face.
func AnnotationFor(region FaceRegion, emotion Emotion, confidence float64) *Annotation {
	return &Annotation{
		Region: region,
		Label:  fmt.Sprintf("%s: %.2f", emotion, confidence),
	}
}
