// file: internal/server/handlers.go
// version: 1.0.0
// guid: c52afd48-d3ee-4eb6-969e-834924101308

package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/svetakrava/chorrosion/internal/coverart"
	"github.com/svetakrava/chorrosion/internal/models"
	"github.com/svetakrava/chorrosion/internal/repository"
)

func (s *Server) handleListArtists(c *gin.Context) {
	artists, err := s.store.Artists.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"artists": artists, "count": len(artists)})
}

func (s *Server) handleGetArtist(c *gin.Context) {
	artist, err := s.store.Artists.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, artist)
}

func (s *Server) handleCreateArtist(c *gin.Context) {
	var artist models.Artist
	if err := c.ShouldBindJSON(&artist); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if artist.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	if err := s.store.Artists.Create(c.Request.Context(), &artist); err != nil {
		s.fail(c, err)
		return
	}
	s.publish("artist.created", artist)
	c.JSON(http.StatusCreated, artist)
}

func (s *Server) handleDeleteArtist(c *gin.Context) {
	id := c.Param("id")
	if err := s.store.Artists.Delete(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	s.publish("artist.deleted", gin.H{"id": id})
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListAlbumsByArtist(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.store.Artists.Get(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	albums, err := s.store.Albums.ListByArtist(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"albums": albums, "count": len(albums)})
}

func (s *Server) handleGetAlbum(c *gin.Context) {
	album, err := s.store.Albums.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, album)
}

func (s *Server) handleCreateAlbum(c *gin.Context) {
	var album models.Album
	if err := c.ShouldBindJSON(&album); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if album.Title == "" || album.ArtistID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and artist_id are required"})
		return
	}
	if err := s.store.Albums.Create(c.Request.Context(), &album); err != nil {
		s.fail(c, err)
		return
	}
	s.publish("album.created", album)
	c.JSON(http.StatusCreated, album)
}

func (s *Server) handleDeleteAlbum(c *gin.Context) {
	id := c.Param("id")
	if err := s.store.Albums.Delete(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	s.publish("album.deleted", gin.H{"id": id})
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAlbumArtwork(c *gin.Context) {
	album, err := s.store.Albums.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if s.artwork == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no artwork providers configured"})
		return
	}
	if album.ReleaseGroupMBID == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "album has no release group id"})
		return
	}
	art, err := s.artwork.FetchCoverArt(c.Request.Context(), album.ReleaseGroupMBID)
	if err != nil {
		if errors.Is(err, coverart.ErrNoArtworkFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no artwork found"})
			return
		}
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, art)
}

func (s *Server) handleDrainEvents(c *gin.Context) {
	if s.bus == nil {
		c.JSON(http.StatusOK, gin.H{"events": []any{}, "count": 0})
		return
	}
	drained := s.bus.Drain()
	c.JSON(http.StatusOK, gin.H{"events": drained, "count": len(drained)})
}

func (s *Server) fail(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	log.Printf("[ERROR] server: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func (s *Server) publish(name string, payload any) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(name, payload); err != nil {
		log.Printf("[WARN] server: publishing %s: %v", name, err)
	}
}
