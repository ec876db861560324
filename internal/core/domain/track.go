package domain

// AudioFeatures are the normalized musical attributes used for matching.
// Valence, Energy and Danceability live in [0,1]; Tempo is in BPM.
type AudioFeatures struct {
	Valence      float64 `json:"valence"`
	Energy       float64 `json:"energy"`
	Danceability float64 `json:"danceability"`
	Tempo        float64 `json:"tempo"`
}

// Track is a catalog entry. ID is the identity key; attributes are immutable
// for a given entry within one process lifetime.
type Track struct {
	ID       string        `json:"track_id"`
	Title    string        `json:"track_name"`
	Artist   string        `json:"artist_name"`
	Genre    string        `json:"genre,omitempty"`
	Features AudioFeatures `json:"features"`
}

// ScoredTrack is a track together with the similarity score it earned against
// one emotion's profile. Produced per recommendation request, never stored.
type ScoredTrack struct {
	Track
	Score          float64 `json:"score"`
	RecommendedFor Emotion `json:"recommended_for"`
}

// TrackInfo is the extended display metadata supplied by the enrichment
// collaborator. All fields are optional; recommendations stay usable when
// enrichment returns nothing.
type TrackInfo struct {
	ID          string         `json:"track_id"`
	Title       string         `json:"track_name"`
	Artist      string         `json:"artist_name"`
	Album       string         `json:"album_name,omitempty"`
	DurationMs  int            `json:"duration_ms,omitempty"`
	PreviewURL  string         `json:"preview_url,omitempty"`
	ExternalURL string         `json:"external_url,omitempty"`
	ImageURL    string         `json:"image_url,omitempty"`
	Popularity  int            `json:"popularity,omitempty"`
	Features    *AudioFeatures `json:"audio_features,omitempty"`
}
