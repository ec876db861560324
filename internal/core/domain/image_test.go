package domain

import (
	"errors"
	"testing"
)

func TestNewRaster(t *testing.T) {
	tests := []struct {
		name     string
		pix      []uint8
		w, h, ch int
		wantErr  bool
	}{
		{name: "valid grayscale", pix: make([]uint8, 6), w: 3, h: 2, ch: 1},
		{name: "valid color", pix: make([]uint8, 18), w: 3, h: 2, ch: 3},
		{name: "buffer size mismatch", pix: make([]uint8, 5), w: 3, h: 2, ch: 1, wantErr: true},
		{name: "unsupported channel count", pix: make([]uint8, 24), w: 3, h: 2, ch: 4, wantErr: true},
		{name: "zero dimensions", pix: nil, w: 0, h: 0, ch: 1, wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRaster(tc.pix, tc.w, tc.h, tc.ch)
			if tc.wantErr {
				if !errors.Is(err, ErrMalformedInput) {
					t.Fatalf("expected ErrMalformedInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestRaster_Luminance(t *testing.T) {
	// A pure white and a pure black RGB pixel.
	r, err := NewRaster([]uint8{255, 255, 255, 0, 0, 0}, 2, 1, 3)
	if err != nil {
		t.Fatalf("new raster: %v", err)
	}
	gray := r.Luminance()
	if len(gray) != 2 {
		t.Fatalf("expected 2 luminance values, got %d", len(gray))
	}
	if gray[0] != 255 || gray[1] != 0 {
		t.Fatalf("expected [255 0], got %v", gray)
	}
}

func TestRaster_Crop(t *testing.T) {
	pix := make([]uint8, 16)
	for i := range pix {
		pix[i] = uint8(i)
	}
	r, err := NewRaster(pix, 4, 4, 1)
	if err != nil {
		t.Fatalf("new raster: %v", err)
	}

	t.Run("interior crop", func(t *testing.T) {
		got := r.Crop(FaceRegion{X: 1, Y: 1, Width: 2, Height: 2})
		if got.Width != 2 || got.Height != 2 {
			t.Fatalf("unexpected crop size %dx%d", got.Width, got.Height)
		}
		want := []uint8{5, 6, 9, 10}
		for i, v := range want {
			if got.Pix[i] != v {
				t.Fatalf("pix[%d]: got %d, want %d", i, got.Pix[i], v)
			}
		}
	})

	t.Run("region clamped to bounds", func(t *testing.T) {
		got := r.Crop(FaceRegion{X: 2, Y: 2, Width: 10, Height: 10})
		if got.Width != 2 || got.Height != 2 {
			t.Fatalf("unexpected clamped size %dx%d", got.Width, got.Height)
		}
	})

	t.Run("empty intersection", func(t *testing.T) {
		got := r.Crop(FaceRegion{X: 10, Y: 10, Width: 2, Height: 2})
		if got.Width != 0 || got.Height != 0 || len(got.Pix) != 0 {
			t.Fatalf("expected empty raster, got %dx%d", got.Width, got.Height)
		}
	})
}
