package catalog

import "strings"

// EntryType classifies the media kind of a catalog entry.
type EntryType string

const (
	TypeImage    EntryType = "image"
	TypeRawImage EntryType = "rawImage"
	TypeVideo    EntryType = "video"
	TypeOther    EntryType = "other"
)

// Entry is one catalog item flowing through the enrichment pipeline.
//
// The pipeline never mutates entries; enrichment results are attached as
// named artifacts through a Store.
type Entry struct {
	ID   string
	Type EntryType
}

// ParseEntryType maps a raw classifier string to an EntryType, defaulting
// to TypeOther for anything unknown.
func ParseEntryType(raw string) EntryType {
	switch EntryType(strings.TrimSpace(raw)) {
	case TypeImage:
		return TypeImage
	case TypeRawImage:
		return TypeRawImage
	case TypeVideo:
		return TypeVideo
	default:
		return TypeOther
	}
}
