package ws

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/vibesense/vibesense/internal/core/domain"
	"github.com/vibesense/vibesense/internal/core/ports"
	"github.com/vibesense/vibesense/internal/core/services"
)

type mockLocator struct {
	faces []domain.FaceRegion
}

func (m *mockLocator) Locate(img domain.Raster) ([]domain.FaceRegion, error) {
	return m.faces, nil
}

type mockModel struct {
	probs []float64
}

func (m *mockModel) Classify(ctx context.Context, input []float32) (domain.Distribution, error) {
	return domain.DistributionFromVector(m.probs), nil
}

func (m *mockModel) Info() ports.ModelInfo {
	return ports.ModelInfo{Kind: "mock", InputSize: 48, Emotions: domain.Emotions(), Loaded: true}
}

var happyVector = []float64{0.02, 0.02, 0.02, 0.82, 0.05, 0.05, 0.02}

func dialTestServer(t *testing.T, locator *mockLocator) (*websocket.Conn, func()) {
	t.Helper()
	engine := services.NewInferenceEngine(locator, &mockModel{probs: happyVector})
	server := httptest.NewServer(NewHandler(engine))

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		server.Close()
		t.Fatalf("dial: %v", err)
	}
	return conn, func() {
		conn.Close()
		server.Close()
	}
}

// frameDataURL builds the "data:image/jpeg;base64," style payload the
// browser client sends for each webcam frame.
func frameDataURL(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 8), B: 90, A: 255})
		}
	}
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func readMessage(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	var msg map[string]any
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read message: %v", err)
	}
	return msg
}

func TestHandler_Greeting(t *testing.T) {
	conn, cleanup := dialTestServer(t, &mockLocator{})
	defer cleanup()

	greeting := readMessage(t, conn)
	if greeting["type"] != "connection_established" {
		t.Fatalf("greeting type = %v", greeting["type"])
	}
	if greeting["session_id"] == "" || greeting["session_id"] == nil {
		t.Fatal("expected a session id in greeting")
	}
}

func TestHandler_FrameSequenceInOrder(t *testing.T) {
	conn, cleanup := dialTestServer(t, &mockLocator{faces: []domain.FaceRegion{{X: 4, Y: 4, Width: 24, Height: 24}}})
	defer cleanup()

	greeting := readMessage(t, conn)
	sessionID := greeting["session_id"].(string)

	frame := frameDataURL(t)
	for i := 0; i < 10; i++ {
		payload := fmt.Sprintf(`{"type":"video_frame","image":%q,"timestamp":%d}`, frame, i)
		if err := conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
			t.Fatalf("write frame %d: %v", i, err)
		}
	}

	for i := 0; i < 10; i++ {
		msg := readMessage(t, conn)
		if msg["type"] != "emotion_detected" {
			t.Fatalf("frame %d: type = %v", i, msg["type"])
		}
		if msg["session_id"] != sessionID {
			t.Errorf("frame %d: session id = %v, want %v", i, msg["session_id"], sessionID)
		}
		if msg["emotion"] != "happy" {
			t.Errorf("frame %d: emotion = %v", i, msg["emotion"])
		}
		if got := msg["timestamp"]; got != float64(i) {
			t.Errorf("frame %d: timestamp = %v, want %d", i, got, i)
		}
		if msg["face_detected"] != true {
			t.Errorf("frame %d: face_detected = %v", i, msg["face_detected"])
		}
	}
}

func TestHandler_NoFaceFrameDegradesToNeutral(t *testing.T) {
	conn, cleanup := dialTestServer(t, &mockLocator{})
	defer cleanup()
	readMessage(t, conn)

	payload := fmt.Sprintf(`{"type":"video_frame","image":%q}`, frameDataURL(t))
	if err := conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
		t.Fatalf("write frame: %v", err)
	}

	msg := readMessage(t, conn)
	if msg["type"] != "emotion_detected" {
		t.Fatalf("type = %v", msg["type"])
	}
	if msg["emotion"] != "neutral" {
		t.Errorf("emotion = %v, want neutral", msg["emotion"])
	}
	if msg["confidence"] != float64(0) {
		t.Errorf("confidence = %v, want 0", msg["confidence"])
	}
	if msg["face_detected"] != false {
		t.Errorf("face_detected = %v, want false", msg["face_detected"])
	}
}

func TestHandler_PingPong(t *testing.T) {
	conn, cleanup := dialTestServer(t, &mockLocator{})
	defer cleanup()
	readMessage(t, conn)

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping","timestamp":42}`)); err != nil {
		t.Fatalf("write ping: %v", err)
	}

	msg := readMessage(t, conn)
	if msg["type"] != "pong" {
		t.Fatalf("type = %v, want pong", msg["type"])
	}
	if msg["timestamp"] != float64(42) {
		t.Errorf("timestamp = %v, want 42", msg["timestamp"])
	}
}

func TestHandler_MalformedFrameKeepsSessionAlive(t *testing.T) {
	conn, cleanup := dialTestServer(t, &mockLocator{faces: []domain.FaceRegion{{X: 4, Y: 4, Width: 24, Height: 24}}})
	defer cleanup()
	readMessage(t, conn)

	// Garbage base64 payload
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"video_frame","image":"data:image/jpeg;base64,!!!"}`)); err != nil {
		t.Fatalf("write bad frame: %v", err)
	}
	msg := readMessage(t, conn)
	if msg["type"] != "error" {
		t.Fatalf("type = %v, want error", msg["type"])
	}

	// Invalid JSON
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`not json`)); err != nil {
		t.Fatalf("write bad json: %v", err)
	}
	msg = readMessage(t, conn)
	if msg["type"] != "error" {
		t.Fatalf("type = %v, want error", msg["type"])
	}

	// Session still works
	payload := fmt.Sprintf(`{"type":"video_frame","image":%q}`, frameDataURL(t))
	if err := conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	msg = readMessage(t, conn)
	if msg["type"] != "emotion_detected" {
		t.Fatalf("type = %v, want emotion_detected", msg["type"])
	}
}

func TestDecodeFrame_StripsDataURLPrefix(t *testing.T) {
	raw := frameDataURL(t)

	withPrefix, err := decodeFrame(raw)
	if err != nil {
		t.Fatalf("decode with prefix: %v", err)
	}
	bare, err := decodeFrame(strings.SplitN(raw, ",", 2)[1])
	if err != nil {
		t.Fatalf("decode bare: %v", err)
	}
	if withPrefix.Width != bare.Width || withPrefix.Height != bare.Height {
		t.Fatalf("mismatched rasters: %dx%d vs %dx%d", withPrefix.Width, withPrefix.Height, bare.Width, bare.Height)
	}
	if !bytes.Equal(withPrefix.Pix, bare.Pix) {
		t.Fatal("pixel data differs")
	}
}

func TestDecodeFrame_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "empty", payload: ""},
		{name: "bad base64", payload: "data:image/jpeg;base64,!!!"},
		{name: "not an image", payload: base64.StdEncoding.EncodeToString([]byte("hello"))},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if _, err := decodeFrame(tc.payload); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
