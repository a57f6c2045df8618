// file: internal/models/models.go
// version: 1.0.0
// guid: 2a0a777d-5211-4f5a-8c6b-cf620b9bad35

package models

import (
	"fmt"
	"time"
)

// ArtistStatus tracks where an artist sits in its monitoring lifecycle.
type ArtistStatus string

const (
	ArtistStatusNew     ArtistStatus = "new"
	ArtistStatusSeeking ArtistStatus = "seeking"
	ArtistStatusActive  ArtistStatus = "active"
	ArtistStatusEnded   ArtistStatus = "ended"
	ArtistStatusPaused  ArtistStatus = "paused"
)

// AlbumStatus tracks acquisition state for a single album.
type AlbumStatus string

const (
	AlbumStatusMissing     AlbumStatus = "missing"
	AlbumStatusWanted      AlbumStatus = "wanted"
	AlbumStatusDownloading AlbumStatus = "downloading"
	AlbumStatusCompleted   AlbumStatus = "completed"
	AlbumStatusIgnored     AlbumStatus = "ignored"
)

// Artist is a monitored performer in the local catalog.
type Artist struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	MusicBrainzID string       `json:"musicbrainz_id,omitempty"`
	Monitored     bool         `json:"monitored"`
	Status        ArtistStatus `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// Album belongs to exactly one artist.
type Album struct {
	ID               string      `json:"id"`
	ArtistID         string      `json:"artist_id"`
	Title            string      `json:"title"`
	ReleaseDate      time.Time   `json:"release_date,omitempty"`
	Status           AlbumStatus `json:"status"`
	ReleaseGroupMBID string      `json:"release_group_mbid,omitempty"`
	QualityProfileID string      `json:"quality_profile_id,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// Track is a logical track on an album; physical files attach as TrackFile.
type Track struct {
	ID       string        `json:"id"`
	AlbumID  string        `json:"album_id"`
	Title    string        `json:"title"`
	Number   int           `json:"number"`
	Duration time.Duration `json:"duration,omitempty"`
}

// TrackFile is one physical audio file backing a track.
// RecordingMBID and MatchConfidence are set together or not at all.
type TrackFile struct {
	ID                  string     `json:"id"`
	TrackID             string     `json:"track_id"`
	Path                string     `json:"path"`
	SizeBytes           int64      `json:"size_bytes"`
	AcousticHash        string     `json:"acoustic_hash,omitempty"`
	FingerprintDuration float64    `json:"fingerprint_duration,omitempty"`
	FingerprintedAt     *time.Time `json:"fingerprinted_at,omitempty"`
	RecordingMBID       string     `json:"recording_mbid,omitempty"`
	MatchConfidence     *float64   `json:"match_confidence,omitempty"`
}

// Validate checks the identification pairing invariant.
func (tf *TrackFile) Validate() error {
	hasID := tf.RecordingMBID != ""
	hasConf := tf.MatchConfidence != nil
	if hasID != hasConf {
		return fmt.Errorf("track file %s: recording id and match confidence must be set together", tf.ID)
	}
	if hasConf {
		c := *tf.MatchConfidence
		if c < 0.0 || c > 1.0 {
			return fmt.Errorf("track file %s: match confidence %.3f outside [0,1]", tf.ID, c)
		}
	}
	return nil
}

// IndexerProtocol selects the wire dialect an indexer speaks.
type IndexerProtocol string

const (
	ProtocolNewznab IndexerProtocol = "newznab"
	ProtocolTorznab IndexerProtocol = "torznab"
	ProtocolGazelle IndexerProtocol = "gazelle"
	ProtocolCustom  IndexerProtocol = "custom"
)

// IndexerConfig describes one configured release source.
type IndexerConfig struct {
	Name     string          `json:"name"`
	BaseURL  string          `json:"base_url"`
	Protocol IndexerProtocol `json:"protocol"`
	APIKey   string          `json:"api_key,omitempty"`
	Enabled  bool            `json:"enabled"`
}
