// file: internal/indexer/rss.go
// version: 1.0.0
// guid: cc03b8f4-0b28-441f-8b2c-30aec7f82c5b

package indexer

import (
	"encoding/xml"
	"strconv"
	"time"

	"github.com/svetakrava/chorrosion/internal/clienterr"
)

// rfc3339Offset renders UTC as +00:00 rather than Z.
const rfc3339Offset = "2006-01-02T15:04:05-07:00"

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title string    `xml:"title"`
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string       `xml:"title"`
	GUID        string       `xml:"guid"`
	Link        string       `xml:"link"`
	PubDate     string       `xml:"pubDate"`
	Description string       `xml:"description"`
	Size        string       `xml:"size"`
	Attrs       []rssAttr    `xml:"attr"`
	Enclosure   rssEnclosure `xml:"enclosure"`
}

type rssAttr struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type rssEnclosure struct {
	URL    string `xml:"url,attr"`
	Length string `xml:"length,attr"`
}

// ParseRSS parses an indexer feed tolerantly: items must carry a
// title; everything else is optional. Torznab attributes supply
// seeders, peers, and size when present.
func ParseRSS(data []byte) ([]Item, error) {
	var feed rssFeed
	if err := xml.Unmarshal(data, &feed); err != nil {
		return nil, clienterr.Deserialization(err)
	}

	items := make([]Item, 0, len(feed.Channel.Items))
	for _, raw := range feed.Channel.Items {
		if raw.Title == "" {
			continue
		}
		item := Item{
			Title:       raw.Title,
			GUID:        raw.GUID,
			Link:        raw.Link,
			Description: raw.Description,
			PublishedAt: NormalizePubDate(raw.PubDate),
		}
		if raw.Size != "" {
			if n, err := strconv.ParseInt(raw.Size, 10, 64); err == nil {
				item.SizeBytes = n
			}
		}
		if item.Link == "" && raw.Enclosure.URL != "" {
			item.Link = raw.Enclosure.URL
		}
		for _, attr := range raw.Attrs {
			switch attr.Name {
			case "seeders":
				if n, err := strconv.Atoi(attr.Value); err == nil {
					item.Seeders = n
				}
			case "peers":
				if n, err := strconv.Atoi(attr.Value); err == nil {
					item.Peers = n
				}
			case "size":
				if n, err := strconv.ParseInt(attr.Value, 10, 64); err == nil && item.SizeBytes == 0 {
					item.SizeBytes = n
				}
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// NormalizePubDate renders a feed timestamp as RFC 3339 in UTC with an
// explicit +00:00 offset. Unparseable values pass through unchanged.
func NormalizePubDate(pubDate string) string {
	if pubDate == "" {
		return ""
	}
	for _, layout := range []string{time.RFC1123Z, time.RFC1123, time.RFC3339} {
		if ts, err := time.Parse(layout, pubDate); err == nil {
			return ts.UTC().Format(rfc3339Offset)
		}
	}
	return pubDate
}
