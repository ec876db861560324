package spotify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_TrackInfo_Live(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/tracks/track-1":
			_, _ = w.Write([]byte(`{
				"id": "track-1",
				"name": "Song One",
				"artists": [{"name": "Artist A"}, {"name": "Artist B"}],
				"album": {"name": "Album A", "images": [{"url": "https://img.test/1.jpg"}]},
				"duration_ms": 123000,
				"preview_url": "https://audio.test/1.mp3",
				"external_urls": {"spotify": "https://open.spotify.com/track/track-1"},
				"popularity": 61
			}`))
		case "/audio-features/track-1":
			_, _ = w.Write([]byte(`{"danceability":0.25,"energy":0.5,"valence":0.75,"tempo":120}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewClient(Config{Enabled: false, BaseURL: srv.URL})
	client.enabled = true // live path against the test server, no token exchange

	got, err := client.TrackInfo(context.Background(), "track-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.ID != "track-1" {
		t.Errorf("ID: got %v", got.ID)
	}
	if got.Title != "Song One" {
		t.Errorf("Title: got %v", got.Title)
	}
	if got.Artist != "Artist A, Artist B" {
		t.Errorf("Artist: got %v", got.Artist)
	}
	if got.Album != "Album A" {
		t.Errorf("Album: got %v", got.Album)
	}
	if got.ImageURL != "https://img.test/1.jpg" {
		t.Errorf("ImageURL: got %v", got.ImageURL)
	}
	if got.DurationMs != 123000 {
		t.Errorf("DurationMs: got %v", got.DurationMs)
	}
	if got.Features == nil || got.Features.Valence != 0.75 || got.Features.Tempo != 120 {
		t.Errorf("Features: got %+v", got.Features)
	}
}

func TestClient_TrackInfo_FeaturesFailureIsNotFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/tracks/track-1" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"track-1","name":"Song One","artists":[{"name":"Artist A"}],"album":{"name":"Album A"},"duration_ms":1000,"external_urls":{}}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	client.enabled = true

	got, err := client.TrackInfo(context.Background(), "track-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Features != nil {
		t.Fatalf("expected nil features when the lookup fails, got %+v", got.Features)
	}
}

func TestClient_Search_Live(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if got := r.URL.Query().Get("type"); got != "track" {
			t.Errorf("type param: got %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "2" {
			t.Errorf("limit param: got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tracks":{"items":[
			{"id":"t1","name":"Song One","artists":[{"name":"A"}],"album":{"name":"X"},"external_urls":{}},
			{"id":"t2","name":"Song Two","artists":[{"name":"B"}],"album":{"name":"Y"},"external_urls":{}}
		]}}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	client.enabled = true

	got, err := client.Search(context.Background(), "song", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "t1" || got[1].ID != "t2" {
		t.Fatalf("unexpected results: %+v", got)
	}
}

func TestNewClient_RetrySettings(t *testing.T) {
	t.Run("zero config gets the defaults", func(t *testing.T) {
		client := NewClient(Config{})
		if client.maxRetries != defaultMaxRetries {
			t.Errorf("maxRetries: got %d, want %d", client.maxRetries, defaultMaxRetries)
		}
		if client.baseBackoff != defaultBackoff {
			t.Errorf("baseBackoff: got %v, want %v", client.baseBackoff, defaultBackoff)
		}
	})

	t.Run("explicit values survive", func(t *testing.T) {
		client := NewClient(Config{MaxRetries: 5, BaseBackoff: time.Second})
		if client.maxRetries != 5 {
			t.Errorf("maxRetries: got %d, want 5", client.maxRetries)
		}
		if client.baseBackoff != time.Second {
			t.Errorf("baseBackoff: got %v, want %v", client.baseBackoff, time.Second)
		}
	})
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"track-1","name":"Song One","artists":[{"name":"Artist A"}],"album":{"name":"Album A"},"external_urls":{}}`))
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, BaseBackoff: time.Millisecond})
	client.enabled = true

	got, err := client.TrackInfo(context.Background(), "track-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "Song One" {
		t.Errorf("Title: got %v", got.Title)
	}
	if calls < 2 {
		t.Errorf("expected the first attempt to be retried, got %d calls", calls)
	}
}

func TestClient_DemoMode(t *testing.T) {
	client := NewClient(Config{Enabled: false})

	t.Run("known track serves the canned entry", func(t *testing.T) {
		got, err := client.TrackInfo(context.Background(), "happy_001")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Title != "Happy Vibes" || got.Album != "Bright Days" {
			t.Fatalf("unexpected demo info: %+v", got)
		}
	})

	t.Run("unknown track degrades to a placeholder, never an error", func(t *testing.T) {
		got, err := client.TrackInfo(context.Background(), "no_such_track")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != "no_such_track" || got.Title != "Demo Track" {
			t.Fatalf("unexpected placeholder: %+v", got)
		}
	})

	t.Run("search ranks the canned catalog by resemblance", func(t *testing.T) {
		got, err := client.Search(context.Background(), "happy vibes", 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) == 0 || got[0].ID != "happy_001" {
			t.Fatalf("expected happy_001 first, got %+v", got)
		}
	})

	t.Run("empty query returns the catalog head", func(t *testing.T) {
		got, err := client.Search(context.Background(), "", 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 results, got %d", len(got))
		}
	})
}
