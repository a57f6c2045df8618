// file: internal/repository/memory.go
// version: 1.0.0
// guid: d1fd7ae0-4d69-4c04-aa0f-cfda6e837626

package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/svetakrava/chorrosion/internal/models"
)

// NewMemoryStore builds a Store backed by mutex-guarded maps. Deletes
// cascade to children.
func NewMemoryStore() *Store {
	m := &memoryStore{
		artists:    make(map[string]*models.Artist),
		albums:     make(map[string]*models.Album),
		tracks:     make(map[string]*models.Track),
		trackFiles: make(map[string]*models.TrackFile),
	}
	return &Store{
		Artists:    (*memoryArtists)(m),
		Albums:     (*memoryAlbums)(m),
		Tracks:     (*memoryTracks)(m),
		TrackFiles: (*memoryTrackFiles)(m),
	}
}

type memoryStore struct {
	mu         sync.RWMutex
	artists    map[string]*models.Artist
	albums     map[string]*models.Album
	tracks     map[string]*models.Track
	trackFiles map[string]*models.TrackFile
}

func newID() string { return uuid.NewString() }

type memoryArtists memoryStore

func (m *memoryArtists) Create(_ context.Context, a *models.Artist) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == "" {
		a.ID = newID()
	}
	if _, exists := m.artists[a.ID]; exists {
		return fmt.Errorf("artist %s already exists", a.ID)
	}
	now := time.Now()
	a.CreatedAt, a.UpdatedAt = now, now
	cp := *a
	m.artists[a.ID] = &cp
	return nil
}

func (m *memoryArtists) Get(_ context.Context, id string) (*models.Artist, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.artists[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memoryArtists) Update(_ context.Context, a *models.Artist) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.artists[a.ID]
	if !ok {
		return ErrNotFound
	}
	a.CreatedAt = stored.CreatedAt
	a.UpdatedAt = time.Now()
	cp := *a
	m.artists[a.ID] = &cp
	return nil
}

func (m *memoryArtists) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.artists[id]; !ok {
		return ErrNotFound
	}
	delete(m.artists, id)
	// Cascade: albums, then their tracks, then their files.
	for albumID, album := range m.albums {
		if album.ArtistID != id {
			continue
		}
		delete(m.albums, albumID)
		for trackID, track := range m.tracks {
			if track.AlbumID != albumID {
				continue
			}
			delete(m.tracks, trackID)
			for fileID, tf := range m.trackFiles {
				if tf.TrackID == trackID {
					delete(m.trackFiles, fileID)
				}
			}
		}
	}
	return nil
}

func (m *memoryArtists) List(_ context.Context) ([]*models.Artist, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Artist, 0, len(m.artists))
	for _, a := range m.artists {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memoryArtists) FindByName(_ context.Context, name string) (*models.Artist, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.artists {
		if strings.EqualFold(a.Name, name) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memoryArtists) FindByExternalID(_ context.Context, mbid string) (*models.Artist, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.artists {
		if a.MusicBrainzID == mbid {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memoryArtists) ListMonitored(_ context.Context) ([]*models.Artist, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*models.Artist
	for _, a := range m.artists {
		if a.Monitored {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memoryAlbums memoryStore

func (m *memoryAlbums) Create(_ context.Context, a *models.Album) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.artists[a.ArtistID]; !ok {
		return fmt.Errorf("album owner: %w", ErrNotFound)
	}
	if a.ID == "" {
		a.ID = newID()
	}
	now := time.Now()
	a.CreatedAt, a.UpdatedAt = now, now
	cp := *a
	m.albums[a.ID] = &cp
	return nil
}

func (m *memoryAlbums) Get(_ context.Context, id string) (*models.Album, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.albums[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memoryAlbums) Update(_ context.Context, a *models.Album) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.albums[a.ID]
	if !ok {
		return ErrNotFound
	}
	a.CreatedAt = stored.CreatedAt
	a.UpdatedAt = time.Now()
	cp := *a
	m.albums[a.ID] = &cp
	return nil
}

func (m *memoryAlbums) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.albums[id]; !ok {
		return ErrNotFound
	}
	delete(m.albums, id)
	for trackID, track := range m.tracks {
		if track.AlbumID != id {
			continue
		}
		delete(m.tracks, trackID)
		for fileID, tf := range m.trackFiles {
			if tf.TrackID == trackID {
				delete(m.trackFiles, fileID)
			}
		}
	}
	return nil
}

func (m *memoryAlbums) ListByArtist(_ context.Context, artistID string) ([]*models.Album, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*models.Album
	for _, a := range m.albums {
		if a.ArtistID == artistID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memoryAlbums) ListByStatus(_ context.Context, status models.AlbumStatus) ([]*models.Album, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*models.Album
	for _, a := range m.albums {
		if a.Status == status {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memoryAlbums) FindByExternalID(_ context.Context, rgMBID string) (*models.Album, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.albums {
		if a.ReleaseGroupMBID == rgMBID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

type memoryTracks memoryStore

func (m *memoryTracks) Create(_ context.Context, tr *models.Track) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.albums[tr.AlbumID]; !ok {
		return fmt.Errorf("track owner: %w", ErrNotFound)
	}
	if tr.ID == "" {
		tr.ID = newID()
	}
	cp := *tr
	m.tracks[tr.ID] = &cp
	return nil
}

func (m *memoryTracks) Get(_ context.Context, id string) (*models.Track, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tr, ok := m.tracks[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *tr
	return &cp, nil
}

func (m *memoryTracks) ListByAlbum(_ context.Context, albumID string) ([]*models.Track, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*models.Track
	for _, tr := range m.tracks {
		if tr.AlbumID == albumID {
			cp := *tr
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memoryTracks) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tracks[id]; !ok {
		return ErrNotFound
	}
	delete(m.tracks, id)
	for fileID, tf := range m.trackFiles {
		if tf.TrackID == id {
			delete(m.trackFiles, fileID)
		}
	}
	return nil
}

type memoryTrackFiles memoryStore

func (m *memoryTrackFiles) Create(_ context.Context, tf *models.TrackFile) error {
	if err := tf.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tracks[tf.TrackID]; !ok {
		return fmt.Errorf("track file owner: %w", ErrNotFound)
	}
	if tf.ID == "" {
		tf.ID = newID()
	}
	cp := *tf
	m.trackFiles[tf.ID] = &cp
	return nil
}

func (m *memoryTrackFiles) Get(_ context.Context, id string) (*models.TrackFile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tf, ok := m.trackFiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *tf
	return &cp, nil
}

func (m *memoryTrackFiles) Update(_ context.Context, tf *models.TrackFile) error {
	if err := tf.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trackFiles[tf.ID]; !ok {
		return ErrNotFound
	}
	cp := *tf
	m.trackFiles[tf.ID] = &cp
	return nil
}

func (m *memoryTrackFiles) ListByTrack(_ context.Context, trackID string) ([]*models.TrackFile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*models.TrackFile
	for _, tf := range m.trackFiles {
		if tf.TrackID == trackID {
			cp := *tf
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memoryTrackFiles) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trackFiles[id]; !ok {
		return ErrNotFound
	}
	delete(m.trackFiles, id)
	return nil
}
