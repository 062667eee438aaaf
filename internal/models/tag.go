package models

import (
	"regexp"
	"strings"
	"time"
)

// Tag is an entry of the persisted tag vocabulary
type Tag struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Category    string    `gorm:"index" json:"category"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// UserTag links a user to a tag they follow
type UserTag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"index:idx_user_tag,unique;not null" json:"user_id"`
	TagID     uint      `gorm:"index:idx_user_tag,unique;not null" json:"tag_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify builds a URL-safe slug from a tag name
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.NewReplacer("+", "plus", "#", "sharp", ".", "dot").Replace(s)
	s = slugInvalid.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
