package domain

import "fmt"

// Raster is a decoded 8-bit image: Height rows of Width pixels with Channels
// interleaved bytes per pixel (1 = grayscale, 3 = RGB). The core never decodes
// files itself; callers hand it an already decoded raster.
type Raster struct {
	Pix      []uint8
	Width    int
	Height   int
	Channels int
}

// NewRaster validates the dimensions against the pixel buffer.
func NewRaster(pix []uint8, width, height, channels int) (Raster, error) {
	if width <= 0 || height <= 0 {
		return Raster{}, fmt.Errorf("%w: %dx%d", ErrMalformedInput, width, height)
	}
	if channels != 1 && channels != 3 {
		return Raster{}, fmt.Errorf("%w: %d channels", ErrMalformedInput, channels)
	}
	if len(pix) != width*height*channels {
		return Raster{}, fmt.Errorf("%w: %d bytes for %dx%dx%d", ErrMalformedInput, len(pix), width, height, channels)
	}
	return Raster{Pix: pix, Width: width, Height: height, Channels: channels}, nil
}

// Luminance returns a single-channel copy of the raster. Color input is
// converted with BT.601 integer weights; grayscale input is copied as is.
func (r Raster) Luminance() []uint8 {
	if r.Channels == 1 {
		out := make([]uint8, len(r.Pix))
		copy(out, r.Pix)
		return out
	}

	out := make([]uint8, r.Width*r.Height)
	for i := 0; i < len(out); i++ {
		off := i * 3
		red := int(r.Pix[off])
		green := int(r.Pix[off+1])
		blue := int(r.Pix[off+2])
		out[i] = uint8((299*red + 587*green + 114*blue) / 1000)
	}
	return out
}

// Crop extracts the given region, clamped to the raster bounds. An empty
// intersection yields a zero-size raster.
func (r Raster) Crop(region FaceRegion) Raster {
	x0, y0 := region.X, region.Y
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	x1 := region.X + region.Width
	y1 := region.Y + region.Height
	if x1 > r.Width {
		x1 = r.Width
	}
	if y1 > r.Height {
		y1 = r.Height
	}
	if x1 <= x0 || y1 <= y0 {
		return Raster{Channels: r.Channels}
	}

	w, h := x1-x0, y1-y0
	pix := make([]uint8, w*h*r.Channels)
	for row := 0; row < h; row++ {
		srcOff := ((y0+row)*r.Width + x0) * r.Channels
		dstOff := row * w * r.Channels
		copy(pix[dstOff:dstOff+w*r.Channels], r.Pix[srcOff:srcOff+w*r.Channels])
	}
	return Raster{Pix: pix, Width: w, Height: h, Channels: r.Channels}
}
