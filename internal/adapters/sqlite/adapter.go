// Package sqlite provides SQLite-backed implementations of the repository
// and catalog ports.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vibesense/vibesense/internal/core/domain"
	"github.com/vibesense/vibesense/internal/core/ports"
	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously
)

// Adapter implements the session repository, the catalog provider and the
// feature updater on a single SQLite database.
type Adapter struct {
	db *sql.DB
}

var (
	_ ports.SessionRepository = (*Adapter)(nil)
	_ ports.CatalogProvider   = (*Adapter)(nil)
	_ ports.FeatureUpdater    = (*Adapter)(nil)
)

// NewAdapter creates a connection, runs the schema migration and seeds the
// catalog when it is empty.
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}

	// Auto-migrate on startup for local dev
	if err := adapter.migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	if err := adapter.seedCatalog(); err != nil {
		return nil, fmt.Errorf("catalog seed failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully
func (a *Adapter) Close() error {
	return a.db.Close()
}

func (a *Adapter) SaveEmotionSession(ctx context.Context, session domain.EmotionSession) error {
	createdAt := session.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	query := `
		INSERT INTO emotion_sessions (session_id, emotion, confidence, timestamp)
		VALUES (?, ?, ?, ?)
	`
	if _, err := a.db.ExecContext(ctx, query, session.SessionID, string(session.Emotion), session.Confidence, createdAt); err != nil {
		return fmt.Errorf("failed to save emotion session: %w", err)
	}
	return nil
}

func (a *Adapter) EmotionSessions(ctx context.Context, sessionID string) ([]domain.EmotionSession, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT session_id, emotion, confidence, timestamp
		FROM emotion_sessions
		WHERE session_id = ?
		ORDER BY timestamp ASC, id ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load emotion sessions: %w", err)
	}
	defer rows.Close()

	sessions := []domain.EmotionSession{}
	for rows.Next() {
		var session domain.EmotionSession
		var emotion string
		if err := rows.Scan(&session.SessionID, &emotion, &session.Confidence, &session.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan emotion session: %w", err)
		}
		session.Emotion = domain.Emotion(emotion)
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate emotion sessions: %w", err)
	}

	return sessions, nil
}

func (a *Adapter) SaveRecommendation(ctx context.Context, rec domain.RecommendationRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	query := `
		INSERT INTO music_recommendations (id, session_id, track_id, track_name, artist_name, emotion, score, user_feedback, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			track_name=excluded.track_name,
			artist_name=excluded.artist_name,
			emotion=excluded.emotion,
			score=excluded.score;
	`
	var feedback sql.NullString
	if rec.Feedback != "" {
		feedback = sql.NullString{String: string(rec.Feedback), Valid: true}
	}
	if _, err := a.db.ExecContext(
		ctx,
		query,
		rec.ID,
		rec.SessionID,
		rec.TrackID,
		rec.Title,
		rec.Artist,
		string(rec.Emotion),
		rec.Score,
		feedback,
		createdAt,
	); err != nil {
		return fmt.Errorf("failed to save recommendation %s: %w", rec.TrackID, err)
	}
	return nil
}

func (a *Adapter) RecommendationsByEmotion(ctx context.Context, emotion domain.Emotion) ([]domain.RecommendationRecord, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, session_id, track_id, track_name, artist_name, emotion, score, user_feedback, timestamp
		FROM music_recommendations
		WHERE emotion = ?
		ORDER BY timestamp ASC, id ASC
	`, string(emotion))
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendations: %w", err)
	}
	defer rows.Close()

	records := []domain.RecommendationRecord{}
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recommendations: %w", err)
	}

	return records, nil
}

func (a *Adapter) RecordFeedback(ctx context.Context, sessionID, trackID string, kind domain.FeedbackKind) (domain.RecommendationRecord, error) {
	result, err := a.db.ExecContext(ctx, `
		UPDATE music_recommendations
		SET user_feedback = ?
		WHERE session_id = ? AND track_id = ?
	`, string(kind), sessionID, trackID)
	if err != nil {
		return domain.RecommendationRecord{}, fmt.Errorf("failed to record feedback: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return domain.RecommendationRecord{}, fmt.Errorf("failed to record feedback: %w", err)
	}
	if affected == 0 {
		return domain.RecommendationRecord{}, domain.ErrNotFound
	}

	row := a.db.QueryRowContext(ctx, `
		SELECT id, session_id, track_id, track_name, artist_name, emotion, score, user_feedback, timestamp
		FROM music_recommendations
		WHERE session_id = ? AND track_id = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT 1
	`, sessionID, trackID)
	rec, err := scanRecommendation(row)
	if err != nil {
		return domain.RecommendationRecord{}, err
	}
	return rec, nil
}

func (a *Adapter) Tracks(ctx context.Context) ([]domain.Track, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT track_id, track_name, artist_name, IFNULL(genre, ''),
			IFNULL(valence, 0), IFNULL(energy, 0), IFNULL(danceability, 0), IFNULL(tempo, 0)
		FROM music_features
		ORDER BY rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	defer rows.Close()

	tracks := []domain.Track{}
	for rows.Next() {
		var track domain.Track
		if err := rows.Scan(
			&track.ID,
			&track.Title,
			&track.Artist,
			&track.Genre,
			&track.Features.Valence,
			&track.Features.Energy,
			&track.Features.Danceability,
			&track.Features.Tempo,
		); err != nil {
			return nil, fmt.Errorf("failed to scan catalog track: %w", err)
		}
		tracks = append(tracks, track)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate catalog: %w", err)
	}

	return tracks, nil
}

// SaveTrack upserts one catalog entry. Used for seeding and catalog imports.
func (a *Adapter) SaveTrack(ctx context.Context, track domain.Track) error {
	query := `
		INSERT INTO music_features (track_id, track_name, artist_name, genre, valence, energy, danceability, tempo)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(track_id) DO UPDATE SET
			track_name=excluded.track_name,
			artist_name=excluded.artist_name,
			genre=excluded.genre,
			valence=excluded.valence,
			energy=excluded.energy,
			danceability=excluded.danceability,
			tempo=excluded.tempo;
	`
	if _, err := a.db.ExecContext(
		ctx,
		query,
		track.ID,
		track.Title,
		track.Artist,
		track.Genre,
		track.Features.Valence,
		track.Features.Energy,
		track.Features.Danceability,
		track.Features.Tempo,
	); err != nil {
		return fmt.Errorf("failed to save track %s: %w", track.ID, err)
	}
	return nil
}

func (a *Adapter) UpdateTrackEnergy(ctx context.Context, trackID string, energy float64) error {
	if _, err := a.db.ExecContext(ctx, `
		UPDATE music_features
		SET energy = ?
		WHERE track_id = ?
	`, energy, trackID); err != nil {
		return fmt.Errorf("failed to update track energy: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecommendation(row rowScanner) (domain.RecommendationRecord, error) {
	var rec domain.RecommendationRecord
	var emotion string
	var feedback sql.NullString
	if err := row.Scan(
		&rec.ID,
		&rec.SessionID,
		&rec.TrackID,
		&rec.Title,
		&rec.Artist,
		&emotion,
		&rec.Score,
		&feedback,
		&rec.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.RecommendationRecord{}, domain.ErrNotFound
		}
		return domain.RecommendationRecord{}, fmt.Errorf("failed to scan recommendation: %w", err)
	}
	rec.Emotion = domain.Emotion(emotion)
	if feedback.Valid {
		rec.Feedback = domain.FeedbackKind(feedback.String)
	}
	return rec, nil
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS emotion_sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		emotion TEXT NOT NULL,
		confidence REAL NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_emotion_sessions_session
		ON emotion_sessions(session_id);

	CREATE TABLE IF NOT EXISTS music_recommendations (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		track_id TEXT NOT NULL,
		track_name TEXT NOT NULL,
		artist_name TEXT NOT NULL,
		emotion TEXT NOT NULL,
		score REAL NOT NULL,
		user_feedback TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_music_recommendations_emotion
		ON music_recommendations(emotion);

	CREATE TABLE IF NOT EXISTS music_features (
		track_id TEXT PRIMARY KEY,
		track_name TEXT NOT NULL,
		artist_name TEXT NOT NULL,
		genre TEXT,
		valence REAL,
		energy REAL,
		danceability REAL,
		tempo REAL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := a.db.Exec(query); err != nil {
		return err
	}

	if _, err := a.db.Exec("ALTER TABLE music_features ADD COLUMN genre TEXT"); err != nil {
		if !isDuplicateColumnError(err) {
			return err
		}
	}
	if _, err := a.db.Exec("ALTER TABLE music_recommendations ADD COLUMN user_feedback TEXT"); err != nil {
		if !isDuplicateColumnError(err) {
			return err
		}
	}

	return nil
}

// seedCatalog inserts the built-in sample tracks without overwriting any
// entries an operator may already have imported.
func (a *Adapter) seedCatalog() error {
	stmt, err := a.db.Prepare(`
		INSERT OR IGNORE INTO music_features (track_id, track_name, artist_name, genre, valence, energy, danceability, tempo)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, track := range seedTracks {
		if _, err := stmt.Exec(
			track.ID,
			track.Title,
			track.Artist,
			track.Genre,
			track.Features.Valence,
			track.Features.Energy,
			track.Features.Danceability,
			track.Features.Tempo,
		); err != nil {
			return fmt.Errorf("failed to seed track %s: %w", track.ID, err)
		}
	}
	return nil
}

var seedTracks = []domain.Track{
	{
		ID:       "happy_001",
		Title:    "Happy Vibes",
		Artist:   "Sunny Day Band",
		Genre:    "pop",
		Features: domain.AudioFeatures{Valence: 0.9, Energy: 0.8, Danceability: 0.7, Tempo: 128},
	},
	{
		ID:       "sad_001",
		Title:    "Melancholy Blues",
		Artist:   "Rainy Weather",
		Genre:    "blues",
		Features: domain.AudioFeatures{Valence: 0.2, Energy: 0.3, Danceability: 0.2, Tempo: 70},
	},
	{
		ID:       "angry_001",
		Title:    "Fire Storm",
		Artist:   "Thunder Strike",
		Genre:    "rock",
		Features: domain.AudioFeatures{Valence: 0.4, Energy: 0.9, Danceability: 0.6, Tempo: 160},
	},
	{
		ID:       "neutral_001",
		Title:    "Peaceful Journey",
		Artist:   "Calm Waters",
		Genre:    "ambient",
		Features: domain.AudioFeatures{Valence: 0.5, Energy: 0.5, Danceability: 0.4, Tempo: 100},
	},
	{
		ID:       "surprise_001",
		Title:    "Unexpected Turn",
		Artist:   "Plot Twist",
		Genre:    "electronic",
		Features: domain.AudioFeatures{Valence: 0.7, Energy: 0.8, Danceability: 0.6, Tempo: 140},
	},
}

func isDuplicateColumnError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "duplicate column") || strings.Contains(err.Error(), "already exists"))
}
