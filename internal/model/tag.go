package model

import "time"

// DefaultTagColor is applied when a tag is created without a color.
const DefaultTagColor = "#8B5CF6"

// Tag is an admin-defined label attachable to messages.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
}
