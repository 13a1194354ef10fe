package domain

import "time"

// RawDocument is a fetched page before cleaning. It is transient: once the
// cleaner has produced a CleanedText from it, the raw markup is dropped.
type RawDocument struct {
	Source    string    `bson:"source" json:"source"`
	URL       string    `bson:"url" json:"url"`
	Title     string    `bson:"title" json:"title"`
	HTML      string    `bson:"-" json:"-"`
	FetchedAt time.Time `bson:"fetched_at" json:"fetched_at"`
}

// CleanedText is a normalized text together with the source it came from.
// Immutable once produced.
type CleanedText struct {
	Source string
	Text   string
}
