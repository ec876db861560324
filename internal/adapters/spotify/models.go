package spotify

import (
	"strings"

	"github.com/vibesense/vibesense/internal/core/domain"
)

// spotifyTrack mirrors the Spotify Web API track object, trimmed to the
// fields we surface.
type spotifyTrack struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Album struct {
		Name   string `json:"name"`
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"album"`
	DurationMs   int    `json:"duration_ms"`
	PreviewURL   string `json:"preview_url"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
	Popularity int `json:"popularity"`
}

// spotifyAudioFeatures mirrors the audio-features object.
type spotifyAudioFeatures struct {
	Danceability float64 `json:"danceability"`
	Energy       float64 `json:"energy"`
	Valence      float64 `json:"valence"`
	Tempo        float64 `json:"tempo"`
}

// toDomain flattens the wire track into enrichment metadata.
func (st spotifyTrack) toDomain() domain.TrackInfo {
	names := make([]string, 0, len(st.Artists))
	for _, a := range st.Artists {
		names = append(names, a.Name)
	}

	imageURL := ""
	if len(st.Album.Images) > 0 {
		imageURL = st.Album.Images[0].URL
	}

	return domain.TrackInfo{
		ID:          st.ID,
		Title:       st.Name,
		Artist:      strings.Join(names, ", "),
		Album:       st.Album.Name,
		DurationMs:  st.DurationMs,
		PreviewURL:  st.PreviewURL,
		ExternalURL: st.ExternalURLs.Spotify,
		ImageURL:    imageURL,
		Popularity:  st.Popularity,
	}
}

func (f spotifyAudioFeatures) toDomain() *domain.AudioFeatures {
	return &domain.AudioFeatures{
		Valence:      f.Valence,
		Energy:       f.Energy,
		Danceability: f.Danceability,
		Tempo:        f.Tempo,
	}
}
