package services

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/vibesense/vibesense/internal/core/domain"
)

// ModelInputSize is the fixed edge length of the classifier's input square.
const ModelInputSize = 48

// preprocessFace converts a face crop into the classifier's input tensor:
// single-channel luminance, bilinear resize to 48x48, intensities scaled to
// [0,1], flattened row-major with a singleton channel.
func preprocessFace(face domain.Raster) ([]float32, error) {
	if face.Width <= 0 || face.Height <= 0 || len(face.Pix) == 0 {
		return nil, domain.ErrMalformedInput
	}

	gray := &image.Gray{
		Pix:    face.Luminance(),
		Stride: face.Width,
		Rect:   image.Rect(0, 0, face.Width, face.Height),
	}

	resized := image.NewGray(image.Rect(0, 0, ModelInputSize, ModelInputSize))
	xdraw.BiLinear.Scale(resized, resized.Bounds(), gray, gray.Bounds(), xdraw.Src, nil)

	input := make([]float32, ModelInputSize*ModelInputSize)
	for y := 0; y < ModelInputSize; y++ {
		for x := 0; x < ModelInputSize; x++ {
			input[y*ModelInputSize+x] = float32(resized.GrayAt(x, y).Y) / 255.0
		}
	}
	return input, nil
}
