// file: internal/scheduler/jobs.go
// version: 1.0.0
// guid: e28b2c37-72c1-452e-bc28-962252c512d9

package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/svetakrava/chorrosion/internal/download"
	"github.com/svetakrava/chorrosion/internal/events"
	"github.com/svetakrava/chorrosion/internal/indexer"
	"github.com/svetakrava/chorrosion/internal/metrics"
	"github.com/svetakrava/chorrosion/internal/models"
	"github.com/svetakrava/chorrosion/internal/musicbrainz"
	"github.com/svetakrava/chorrosion/internal/release"
	"github.com/svetakrava/chorrosion/internal/repository"
)

// Standard schedule intervals.
const (
	RSSSyncInterval       = 15 * time.Minute
	BacklogSearchInterval = time.Hour
	RefreshInterval       = 12 * time.Hour
	HousekeepingInterval  = 24 * time.Hour
)

// DownloadCategory labels downloads this service submits to the agent.
const DownloadCategory = "chorrosion"

// MetadataClient is the music-DB surface the refresh jobs consume.
type MetadataClient interface {
	LookupArtist(ctx context.Context, mbid string) (*musicbrainz.Artist, error)
	LookupReleaseGroup(ctx context.Context, mbid string) (*musicbrainz.ReleaseGroup, error)
}

// JobDeps bundles the collaborators the standard jobs share.
type JobDeps struct {
	Store      *repository.Store
	Indexers   []indexer.Client
	Downloader download.Client
	Metadata   MetadataClient
	Bus        *events.Bus
	Refreshes  MetadataRefreshCache
	Options    release.Options
}

// RegisterStandardJobs wires the periodic job set onto s.
func RegisterStandardJobs(s *Scheduler, deps JobDeps) error {
	regs := []struct {
		id       string
		job      Job
		schedule Schedule
	}{
		{"rss-sync", &RSSSyncJob{deps: deps}, Interval(RSSSyncInterval)},
		{"backlog-search", &BacklogSearchJob{deps: deps}, Interval(BacklogSearchInterval)},
		{"refresh-artists", &RefreshArtistsJob{deps: deps}, Interval(RefreshInterval)},
		{"refresh-albums", &RefreshAlbumsJob{deps: deps}, Interval(RefreshInterval)},
		{"housekeeping", &HousekeepingJob{deps: deps}, Interval(HousekeepingInterval)},
	}
	for _, r := range regs {
		if err := s.Register(r.id, r.job, r.schedule); err != nil {
			return err
		}
	}
	return nil
}

// RSSSyncJob pulls recent listings from every enabled indexer and grabs
// the best candidate for each wanted album.
type RSSSyncJob struct {
	BaseJob
	deps JobDeps
}

func (j *RSSSyncJob) Type() JobType   { return JobTypeRSSSync }
func (j *RSSSyncJob) Name() string    { return "RSS Sync" }
func (j *RSSSyncJob) MaxRetries() int { return 2 }

func (j *RSSSyncJob) Execute(ctx context.Context, jc JobContext) Result {
	releases, failed, err := fetchListings(ctx, j.deps.Indexers, "")
	if err != nil {
		return Failure(err, true)
	}
	if failed > 0 {
		log.Printf("[WARN] scheduler: job %s: %d of %d indexers failed", jc.JobID, failed, len(j.deps.Indexers))
	}
	if err := grabWanted(ctx, j.deps, releases); err != nil {
		return Failure(err, true)
	}
	return Success()
}

// BacklogSearchJob searches indexers explicitly for every wanted album
// the RSS window missed.
type BacklogSearchJob struct {
	BaseJob
	deps JobDeps
}

func (j *BacklogSearchJob) Type() JobType   { return JobTypeBacklogSearch }
func (j *BacklogSearchJob) Name() string    { return "Backlog Search" }
func (j *BacklogSearchJob) MaxRetries() int { return 1 }

func (j *BacklogSearchJob) Execute(ctx context.Context, jc JobContext) Result {
	if j.deps.Store == nil {
		return Success()
	}
	wanted, err := j.deps.Store.Albums.ListByStatus(ctx, models.AlbumStatusWanted)
	if err != nil {
		return Failure(fmt.Errorf("listing wanted albums: %w", err), true)
	}

	for _, album := range wanted {
		artist, err := j.deps.Store.Artists.Get(ctx, album.ArtistID)
		if err != nil {
			log.Printf("[WARN] scheduler: job %s: artist %s for album %s: %v", jc.JobID, album.ArtistID, album.ID, err)
			continue
		}
		query := artist.Name + " " + album.Title
		releases, failed, err := fetchListings(ctx, j.deps.Indexers, query)
		if err != nil {
			return Failure(err, true)
		}
		if failed > 0 {
			log.Printf("[WARN] scheduler: job %s: %d indexers failed for %q", jc.JobID, failed, query)
		}
		if err := grabForAlbum(ctx, j.deps, artist, album, releases); err != nil {
			log.Printf("[WARN] scheduler: job %s: grabbing for album %s: %v", jc.JobID, album.ID, err)
		}
	}
	return Success()
}

// RefreshArtistsJob refreshes metadata for every monitored artist whose
// refresh-cache entry has expired.
type RefreshArtistsJob struct {
	BaseJob
	deps JobDeps
}

func (j *RefreshArtistsJob) Type() JobType             { return JobTypeMetadataRefresh }
func (j *RefreshArtistsJob) Name() string              { return "Refresh Artists" }
func (j *RefreshArtistsJob) RetryDelay() time.Duration { return 300 * time.Second }

func (j *RefreshArtistsJob) Execute(ctx context.Context, jc JobContext) Result {
	if j.deps.Store == nil || j.deps.Metadata == nil {
		return Success()
	}
	artists, err := j.deps.Store.Artists.ListMonitored(ctx)
	if err != nil {
		return Failure(fmt.Errorf("listing monitored artists: %w", err), true)
	}

	var refreshErr error
	for _, artist := range artists {
		if artist.MusicBrainzID == "" {
			continue
		}
		if !j.deps.Refreshes.TryMarkRefreshed("artist:" + artist.MusicBrainzID) {
			continue
		}
		if err := refreshArtist(ctx, j.deps, artist); err != nil {
			log.Printf("[WARN] scheduler: job %s: refreshing artist %s: %v", jc.JobID, artist.ID, err)
			refreshErr = err
		}
	}
	if refreshErr != nil {
		return Failure(fmt.Errorf("one or more artist refreshes failed: %w", refreshErr), true)
	}
	return Success()
}

// RefreshArtistJob refreshes exactly one artist by MBID. Intended for
// one-shot scheduling from the admin surface.
type RefreshArtistJob struct {
	BaseJob
	Deps JobDeps
	MBID string
}

func (j *RefreshArtistJob) Type() JobType             { return JobTypeMetadataRefresh }
func (j *RefreshArtistJob) Name() string              { return "Refresh Artist" }
func (j *RefreshArtistJob) RetryDelay() time.Duration { return 300 * time.Second }

func (j *RefreshArtistJob) Execute(ctx context.Context, jc JobContext) Result {
	if _, err := uuid.Parse(j.MBID); err != nil {
		return Failure(fmt.Errorf("artist id %q is not a valid UUID: %w", j.MBID, err), false)
	}
	artist, err := j.Deps.Store.Artists.FindByExternalID(ctx, j.MBID)
	if err != nil {
		return Failure(fmt.Errorf("artist %s: %w", j.MBID, err), false)
	}
	j.Deps.Refreshes.MarkRefreshed("artist:" + j.MBID)
	if err := refreshArtist(ctx, j.Deps, artist); err != nil {
		return Failure(err, true)
	}
	return Success()
}

// RefreshAlbumsJob refreshes release-group metadata for albums of
// monitored artists.
type RefreshAlbumsJob struct {
	BaseJob
	deps JobDeps
}

func (j *RefreshAlbumsJob) Type() JobType             { return JobTypeMetadataRefresh }
func (j *RefreshAlbumsJob) Name() string              { return "Refresh Albums" }
func (j *RefreshAlbumsJob) RetryDelay() time.Duration { return 300 * time.Second }

func (j *RefreshAlbumsJob) Execute(ctx context.Context, jc JobContext) Result {
	if j.deps.Store == nil || j.deps.Metadata == nil {
		return Success()
	}
	artists, err := j.deps.Store.Artists.ListMonitored(ctx)
	if err != nil {
		return Failure(fmt.Errorf("listing monitored artists: %w", err), true)
	}

	var refreshErr error
	for _, artist := range artists {
		albums, err := j.deps.Store.Albums.ListByArtist(ctx, artist.ID)
		if err != nil {
			return Failure(fmt.Errorf("listing albums for artist %s: %w", artist.ID, err), true)
		}
		for _, album := range albums {
			if album.ReleaseGroupMBID == "" {
				continue
			}
			if !j.deps.Refreshes.TryMarkRefreshed("album:" + album.ReleaseGroupMBID) {
				continue
			}
			if err := refreshAlbum(ctx, j.deps, album); err != nil {
				log.Printf("[WARN] scheduler: job %s: refreshing album %s: %v", jc.JobID, album.ID, err)
				refreshErr = err
			}
		}
	}
	if refreshErr != nil {
		return Failure(fmt.Errorf("one or more album refreshes failed: %w", refreshErr), true)
	}
	return Success()
}

// RefreshAlbumJob refreshes exactly one album by release-group MBID.
type RefreshAlbumJob struct {
	BaseJob
	Deps JobDeps
	MBID string
}

func (j *RefreshAlbumJob) Type() JobType             { return JobTypeMetadataRefresh }
func (j *RefreshAlbumJob) Name() string              { return "Refresh Album" }
func (j *RefreshAlbumJob) RetryDelay() time.Duration { return 300 * time.Second }

func (j *RefreshAlbumJob) Execute(ctx context.Context, jc JobContext) Result {
	if _, err := uuid.Parse(j.MBID); err != nil {
		return Failure(fmt.Errorf("album id %q is not a valid UUID: %w", j.MBID, err), false)
	}
	album, err := j.Deps.Store.Albums.FindByExternalID(ctx, j.MBID)
	if err != nil {
		return Failure(fmt.Errorf("album %s: %w", j.MBID, err), false)
	}
	j.Deps.Refreshes.MarkRefreshed("album:" + j.MBID)
	if err := refreshAlbum(ctx, j.Deps, album); err != nil {
		return Failure(err, true)
	}
	return Success()
}

// HousekeepingJob prunes stale refresh-cache entries, discards events no
// consumer has drained, and refreshes the library gauges. It never retries.
type HousekeepingJob struct {
	BaseJob
	deps JobDeps
}

func (j *HousekeepingJob) Type() JobType   { return JobTypeHousekeeping }
func (j *HousekeepingJob) Name() string    { return "Housekeeping" }
func (j *HousekeepingJob) Retriable() bool { return false }

func (j *HousekeepingJob) Execute(ctx context.Context, jc JobContext) Result {
	pruned := j.deps.Refreshes.PruneStale()
	if pruned > 0 {
		log.Printf("[INFO] scheduler: job %s pruned %d stale refresh records", jc.JobID, pruned)
	}

	if j.deps.Bus != nil {
		if stale := j.deps.Bus.Drain(); len(stale) > 0 {
			log.Printf("[INFO] scheduler: job %s discarded %d unconsumed events", jc.JobID, len(stale))
		}
	}

	if j.deps.Store == nil {
		return Success()
	}
	artists, err := j.deps.Store.Artists.List(ctx)
	if err != nil {
		return Failure(fmt.Errorf("counting artists: %w", err), false)
	}
	metrics.SetArtists(len(artists))

	albums := 0
	for _, artist := range artists {
		list, err := j.deps.Store.Albums.ListByArtist(ctx, artist.ID)
		if err != nil {
			return Failure(fmt.Errorf("counting albums for artist %s: %w", artist.ID, err), false)
		}
		albums += len(list)
	}
	metrics.SetAlbums(albums)
	return Success()
}

// fetchListings queries every indexer and returns the parsed releases.
// An empty query is the RSS-window fetch. It errors only when every
// indexer fails.
func fetchListings(ctx context.Context, clients []indexer.Client, query string) ([]release.Release, int, error) {
	var out []release.Release
	failed := 0
	for _, client := range clients {
		items, err := client.Search(ctx, indexer.SearchRequest{
			Query:    query,
			Category: indexer.Categories["music"],
			Limit:    100,
		})
		if err != nil {
			metrics.IncUpstreamRequest(client.Name(), "error")
			log.Printf("[WARN] scheduler: indexer %s: %v", client.Name(), err)
			failed++
			continue
		}
		metrics.IncUpstreamRequest(client.Name(), "success")
		for _, item := range items {
			rel := release.ParseTitle(item.Title)
			rel.DownloadURL = item.Link
			rel.SizeBytes = item.SizeBytes
			rel.Seeders = item.Seeders
			out = append(out, rel)
		}
	}
	if len(clients) > 0 && failed == len(clients) {
		return nil, failed, fmt.Errorf("all %d indexers failed", failed)
	}
	return release.Dedup(out), failed, nil
}

// grabWanted matches listings against every wanted album and submits
// the best candidate per album.
func grabWanted(ctx context.Context, deps JobDeps, releases []release.Release) error {
	if deps.Store == nil || len(releases) == 0 {
		return nil
	}
	wanted, err := deps.Store.Albums.ListByStatus(ctx, models.AlbumStatusWanted)
	if err != nil {
		return fmt.Errorf("listing wanted albums: %w", err)
	}
	for _, album := range wanted {
		artist, err := deps.Store.Artists.Get(ctx, album.ArtistID)
		if err != nil {
			log.Printf("[WARN] scheduler: artist %s for album %s: %v", album.ArtistID, album.ID, err)
			continue
		}
		if err := grabForAlbum(ctx, deps, artist, album, releases); err != nil {
			log.Printf("[WARN] scheduler: grabbing for album %s: %v", album.ID, err)
		}
	}
	return nil
}

// grabForAlbum picks the best matching candidate for one album and
// hands it to the download agent.
func grabForAlbum(ctx context.Context, deps JobDeps, artist *models.Artist, album *models.Album, releases []release.Release) error {
	var candidates []release.Release
	for _, rel := range releases {
		if titleMatches(rel.Artist, artist.Name) && titleMatches(rel.Album, album.Title) {
			candidates = append(candidates, rel)
		}
	}
	best, ok := release.Best(candidates, deps.Options)
	if !ok || best.DownloadURL == "" {
		return nil
	}
	if deps.Downloader == nil {
		return nil
	}

	if err := deps.Downloader.Add(ctx, []string{best.DownloadURL}, DownloadCategory); err != nil {
		return fmt.Errorf("submitting %q: %w", best.OriginalTitle, err)
	}
	album.Status = models.AlbumStatusDownloading
	if err := deps.Store.Albums.Update(ctx, album); err != nil {
		return fmt.Errorf("marking album %s downloading: %w", album.ID, err)
	}
	log.Printf("[INFO] scheduler: grabbed %q for album %s", best.OriginalTitle, album.ID)
	if deps.Bus != nil {
		if err := deps.Bus.Publish("release.grabbed", best); err != nil {
			log.Printf("[WARN] scheduler: publishing release.grabbed: %v", err)
		}
	}
	return nil
}

func refreshArtist(ctx context.Context, deps JobDeps, artist *models.Artist) error {
	remote, err := deps.Metadata.LookupArtist(ctx, artist.MusicBrainzID)
	if err != nil {
		return err
	}
	if remote.Name != "" {
		artist.Name = remote.Name
	}
	return deps.Store.Artists.Update(ctx, artist)
}

func refreshAlbum(ctx context.Context, deps JobDeps, album *models.Album) error {
	remote, err := deps.Metadata.LookupReleaseGroup(ctx, album.ReleaseGroupMBID)
	if err != nil {
		return err
	}
	if remote.Title != "" {
		album.Title = remote.Title
	}
	return deps.Store.Albums.Update(ctx, album)
}

func titleMatches(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
