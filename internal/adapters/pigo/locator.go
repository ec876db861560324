// Package pigo provides a FaceLocator backed by the pigo pixel-intensity
// comparison detector. The cascade file is an opaque artifact loaded once at
// construction; detection parameters are fixed configuration, not per-call
// inputs.
package pigo

import (
	"fmt"
	"os"

	pigo "github.com/esimov/pigo/core"

	"github.com/vibesense/vibesense/internal/core/domain"
	"github.com/vibesense/vibesense/internal/core/ports"
)

const (
	minFaceSize      = 30
	maxFaceSize      = 2000
	shiftFactor      = 0.1
	scaleFactor      = 1.1
	overlapThreshold = 0.2

	// qualityThreshold filters weak detections, playing the same role the
	// minimum neighbor agreement does in cascade detectors.
	qualityThreshold = 5.0
)

// Locator implements ports.FaceLocator.
type Locator struct {
	classifier *pigo.Pigo
}

var _ ports.FaceLocator = (*Locator)(nil)

// NewLocator reads and unpacks the binary cascade file.
func NewLocator(cascadePath string) (*Locator, error) {
	cascade, err := os.ReadFile(cascadePath)
	if err != nil {
		return nil, fmt.Errorf("pigo adapter: failed to read cascade file: %w", err)
	}

	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("pigo adapter: failed to unpack cascade: %w", err)
	}

	return &Locator{classifier: classifier}, nil
}

// Locate runs the cascade over the raster's luminance plane and returns the
// clustered face regions. An empty slice means no face, which is not an
// error.
func (l *Locator) Locate(img domain.Raster) ([]domain.FaceRegion, error) {
	if img.Width <= 0 || img.Height <= 0 || len(img.Pix) == 0 {
		return nil, domain.ErrMalformedInput
	}

	params := pigo.CascadeParams{
		MinSize:     minFaceSize,
		MaxSize:     maxFaceSize,
		ShiftFactor: shiftFactor,
		ScaleFactor: scaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: img.Luminance(),
			Rows:   img.Height,
			Cols:   img.Width,
			Dim:    img.Width,
		},
	}

	detections := l.classifier.RunCascade(params, 0.0)
	detections = l.classifier.ClusterDetections(detections, overlapThreshold)

	regions := make([]domain.FaceRegion, 0, len(detections))
	for _, det := range detections {
		if det.Q < qualityThreshold {
			continue
		}
		half := int(det.Scale) / 2
		regions = append(regions, domain.FaceRegion{
			X:      int(det.Col) - half,
			Y:      int(det.Row) - half,
			Width:  int(det.Scale),
			Height: int(det.Scale),
		})
	}
	return regions, nil
}
