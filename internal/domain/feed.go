package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type EnclosureKind int

const (
	// EnclosureURL is an enclosure given as a bare URL string
	EnclosureURL EnclosureKind = iota
	// EnclosureObject is an enclosure given as a structure with a url field
	EnclosureObject
)

// Enclosure is the media attached to a feed item. Both accepted shapes are
// normalized into URL when decoded.
type Enclosure struct {
	Kind   EnclosureKind `json:"-"`
	URL    string        `json:"url"`
	Type   string        `json:"type,omitempty"`
	Length int64         `json:"length,omitempty"`
}

func (e *Enclosure) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*e = Enclosure{Kind: EnclosureURL, URL: raw}
		return nil
	}

	// Alias drops the method set so we don't recurse
	type alias Enclosure
	var obj alias
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("enclosure must be a url string or an object with a url field: %w", err)
	}
	obj.Kind = EnclosureObject
	*e = Enclosure(obj)
	return nil
}

func (e Enclosure) MarshalJSON() ([]byte, error) {
	if e.Kind == EnclosureURL {
		return json.Marshal(e.URL)
	}
	type alias Enclosure
	return json.Marshal(alias(e))
}

// FeedItem is one episode of a feed, kept in memory for a single run
type FeedItem struct {
	Title      string      `json:"title"`
	GUID       string      `json:"guid,omitempty"`
	Published  *time.Time  `json:"published,omitempty"`
	Enclosures []Enclosure `json:"enclosures"`
}

// DownloadURL returns the url of the first enclosure, the only one we fetch
func (i FeedItem) DownloadURL() (string, error) {
	if len(i.Enclosures) == 0 || i.Enclosures[0].URL == "" {
		return "", ErrNoEnclosure
	}
	return i.Enclosures[0].URL, nil
}

// DownloadTarget pairs an enclosure url with the local filename derived
// from its ordinal and title.
type DownloadTarget struct {
	Ordinal  int    `json:"ordinal"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}
