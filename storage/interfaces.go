package storage

import "housing-agent/models"

// SeenStore remembers every listing URL ever included in a run, together with
// the moment it was first observed. Implementations load their state once when
// opened and persist it once per Save call.
type SeenStore interface {
	IsKnown(url string) bool
	// RecordSeen marks urls as seen. Already known urls keep their original
	// first-seen timestamp.
	RecordSeen(urls []string)
	Save() error
	Len() int
	Close() error
}

// RawListingWriter is the interface for persisting unprocessed scraped data.
type RawListingWriter interface {
	WriteRaw(listings []models.RawListing) error
	Close() error
}
