// file: internal/repository/repository.go
// version: 1.0.0
// guid: dbdfc2d7-a04d-43bb-bfe0-add558718d07

// Package repository defines the persistence contracts the pipeline and
// jobs consume, plus an in-memory implementation used by tests and the
// default single-process deployment.
package repository

import (
	"context"
	"errors"

	"github.com/svetakrava/chorrosion/internal/models"
)

// ErrNotFound indicates the entity does not exist.
var ErrNotFound = errors.New("entity not found")

// ArtistRepository persists artists.
type ArtistRepository interface {
	Create(ctx context.Context, a *models.Artist) error
	Get(ctx context.Context, id string) (*models.Artist, error)
	Update(ctx context.Context, a *models.Artist) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.Artist, error)
	FindByName(ctx context.Context, name string) (*models.Artist, error)
	FindByExternalID(ctx context.Context, mbid string) (*models.Artist, error)
	ListMonitored(ctx context.Context) ([]*models.Artist, error)
}

// AlbumRepository persists albums.
type AlbumRepository interface {
	Create(ctx context.Context, a *models.Album) error
	Get(ctx context.Context, id string) (*models.Album, error)
	Update(ctx context.Context, a *models.Album) error
	Delete(ctx context.Context, id string) error
	ListByArtist(ctx context.Context, artistID string) ([]*models.Album, error)
	ListByStatus(ctx context.Context, status models.AlbumStatus) ([]*models.Album, error)
	FindByExternalID(ctx context.Context, releaseGroupMBID string) (*models.Album, error)
}

// TrackRepository persists logical tracks.
type TrackRepository interface {
	Create(ctx context.Context, tr *models.Track) error
	Get(ctx context.Context, id string) (*models.Track, error)
	ListByAlbum(ctx context.Context, albumID string) ([]*models.Track, error)
	Delete(ctx context.Context, id string) error
}

// TrackFileRepository persists physical file records.
type TrackFileRepository interface {
	Create(ctx context.Context, tf *models.TrackFile) error
	Get(ctx context.Context, id string) (*models.TrackFile, error)
	Update(ctx context.Context, tf *models.TrackFile) error
	ListByTrack(ctx context.Context, trackID string) ([]*models.TrackFile, error)
	Delete(ctx context.Context, id string) error
}

// Store bundles the repositories one deployment shares.
type Store struct {
	Artists    ArtistRepository
	Albums     AlbumRepository
	Tracks     TrackRepository
	TrackFiles TrackFileRepository
}
