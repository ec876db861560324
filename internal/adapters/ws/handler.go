// Package ws streams real-time emotion detection over a websocket. Each
// connection gets its own session id; frames are answered strictly in arrival
// order.
package ws

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	_ "image/jpeg" // Register decoders for streamed frames
	_ "image/png"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vibesense/vibesense/internal/core/domain"
	"github.com/vibesense/vibesense/internal/core/services"
)

// Handler upgrades HTTP requests on the emotion-detection endpoint and runs
// the per-connection frame loop.
type Handler struct {
	inference *services.InferenceEngine
	upgrader  websocket.Upgrader
}

// NewHandler constructs the websocket adapter around an inference engine.
func NewHandler(inference *services.InferenceEngine) *Handler {
	return &Handler{
		inference: inference,
		upgrader: websocket.Upgrader{
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
			HandshakeTimeout: 10 * time.Second,
			// Browser clients connect from arbitrary dev origins.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

type clientMessage struct {
	Type      string          `json:"type"`
	Image     string          `json:"image,omitempty"`
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
}

type connectionEstablished struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type emotionDetected struct {
	Type       string              `json:"type"`
	SessionID  string              `json:"session_id"`
	Emotion    domain.Emotion      `json:"emotion"`
	Confidence float64             `json:"confidence"`
	Emotions   domain.Distribution `json:"all_emotions"`
	FaceFound  bool                `json:"face_detected"`
	Annotation *domain.Annotation  `json:"annotation,omitempty"`
	Timestamp  json.RawMessage     `json:"timestamp,omitempty"`
}

type pongMessage struct {
	Type      string          `json:"type"`
	Timestamp json.RawMessage `json:"timestamp,omitempty"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ServeHTTP upgrades the connection and serves it until the client leaves.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WARN: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sessionID := uuid.NewString()
	greeting := connectionEstablished{
		Type:      "connection_established",
		SessionID: sessionID,
		Message:   "Connected to emotion detection service",
	}
	if err := conn.WriteJSON(greeting); err != nil {
		log.Printf("WARN: websocket greeting failed: %v", err)
		return
	}

	h.serve(r, conn, sessionID)
	log.Printf("DEBUG: client %s disconnected from emotion detection", sessionID)
}

func (h *Handler) serve(r *http.Request, conn *websocket.Conn, sessionID string) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.sendError(conn, "invalid message")
			continue
		}

		switch msg.Type {
		case "video_frame":
			h.handleFrame(r, conn, sessionID, msg)
		case "ping":
			if err := conn.WriteJSON(pongMessage{Type: "pong", Timestamp: msg.Timestamp}); err != nil {
				return
			}
		default:
			h.sendError(conn, "unknown message type")
		}
	}
}

func (h *Handler) handleFrame(r *http.Request, conn *websocket.Conn, sessionID string, msg clientMessage) {
	frame, err := decodeFrame(msg.Image)
	if err != nil {
		h.sendError(conn, "Could not process video frame")
		return
	}

	result := h.inference.InferFromFrame(r.Context(), frame)

	response := emotionDetected{
		Type:       "emotion_detected",
		SessionID:  sessionID,
		Emotion:    result.Emotion,
		Confidence: result.Confidence,
		Emotions:   result.Emotions,
		FaceFound:  result.FaceFound,
		Annotation: result.Annotation,
		Timestamp:  msg.Timestamp,
	}
	if err := conn.WriteJSON(response); err != nil {
		log.Printf("WARN: websocket write failed for %s: %v", sessionID, err)
	}
}

func (h *Handler) sendError(conn *websocket.Conn, message string) {
	if err := conn.WriteJSON(errorMessage{Type: "error", Message: message}); err != nil {
		log.Printf("WARN: websocket error write failed: %v", err)
	}
}

// decodeFrame turns a base64 frame, optionally prefixed as a data URL
// ("data:image/jpeg;base64,..."), into an RGB raster.
func decodeFrame(payload string) (domain.Raster, error) {
	if payload == "" {
		return domain.Raster{}, domain.ErrMalformedInput
	}
	if idx := strings.IndexByte(payload, ','); idx >= 0 {
		payload = payload[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return domain.Raster{}, domain.ErrMalformedInput
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return domain.Raster{}, domain.ErrMalformedInput
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pix := make([]uint8, width*height*3)

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			red, green, blue, _ := img.At(x, y).RGBA()
			pix[i] = uint8(red >> 8)
			pix[i+1] = uint8(green >> 8)
			pix[i+2] = uint8(blue >> 8)
			i += 3
		}
	}

	return domain.NewRaster(pix, width, height, 3)
}
