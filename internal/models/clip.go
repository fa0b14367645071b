package models

import (
	"strings"
	"time"
)

// ClipItem is one clipboard entry. Text is the natural identity key: two
// items with identical text are the same clip for dedup and merge purposes,
// regardless of the other fields.
type ClipItem struct {
	Text         string    `json:"text"`
	Timestamp    time.Time `json:"timestamp"`
	Favorite     bool      `json:"favorite"`
	RemoteOrigin bool      `json:"remote_origin"`
	SourceDevice string    `json:"source_device"`
	LabelIDs     []int64   `json:"label_ids,omitempty"`
}

// HasLabel reports whether the clip references the given label id.
func (c *ClipItem) HasLabel(id int64) bool {
	for _, l := range c.LabelIDs {
		if l == id {
			return true
		}
	}
	return false
}

// AddLabel appends the label id unless the clip already references it.
func (c *ClipItem) AddLabel(id int64) {
	if !c.HasLabel(id) {
		c.LabelIDs = append(c.LabelIDs, id)
	}
}

// NormalizeClipText trims surrounding whitespace; an empty result means the
// content should not be persisted at all.
func NormalizeClipText(text string) string {
	return strings.TrimSpace(text)
}
