package events

import "time"

// Event types
const (
	CatalogImported = "catalog.imported"
)

// Stream names
const (
	CatalogEventsStream = "catalog.events"
)

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// CatalogImportedEvent announces that classification data changed in bulk.
type CatalogImportedEvent struct {
	Source       string `json:"source"`
	Entries      int    `json:"entries"`
	Tables       int    `json:"tables"`
	TableEntries int    `json:"tableEntries"`
}
