package models

import (
	"time"
)

// FeedbackType is the kind of feedback a user left on an article
type FeedbackType string

const (
	FeedbackHelpful    FeedbackType = "helpful"
	FeedbackNotHelpful FeedbackType = "not_helpful"
	FeedbackSpam       FeedbackType = "spam"
	FeedbackLowQuality FeedbackType = "low_quality"
)

// ReadHistory records that a user opened an article
type ReadHistory struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	UserID        string      `gorm:"index;not null" json:"user_id"`
	ArticleLink   string      `gorm:"index;not null" json:"article_link"`
	ArticleTitle  string      `json:"article_title"`
	ArticleSource string      `json:"article_source"`
	ArticleType   ArticleType `json:"article_type"`
	Categories    StringSlice `gorm:"type:json" json:"categories"`
	ReadAt        time.Time   `gorm:"index" json:"read_at"`
}

// Bookmark is an article saved by a user
type Bookmark struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	UserID        string      `gorm:"index;not null" json:"user_id"`
	ArticleLink   string      `gorm:"index;not null" json:"article_link"`
	ArticleTitle  string      `json:"article_title"`
	ArticleSource string      `json:"article_source"`
	ArticleType   ArticleType `json:"article_type"`
	Categories    StringSlice `gorm:"type:json" json:"categories"`
	CreatedAt     time.Time   `gorm:"index" json:"created_at"`
}

// ArticleFeedback is a user's judgement of an article
type ArticleFeedback struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	UserID       string       `gorm:"index;not null" json:"user_id"`
	ArticleLink  string       `gorm:"index;not null" json:"article_link"`
	FeedbackType FeedbackType `gorm:"not null" json:"feedback_type"`
	CreatedAt    time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

// UserFeedPreferences narrows a user's feed to sources and types
type UserFeedPreferences struct {
	ID                uint              `gorm:"primaryKey" json:"id"`
	UserID            string            `gorm:"uniqueIndex;not null" json:"user_id"`
	FeedSources       StringSlice       `gorm:"type:json" json:"feed_sources"`
	FeedTypes         StringSlice       `gorm:"type:json" json:"feed_types"`
	ContentPreference ContentPreference `gorm:"default:'both'" json:"content_preference"`
	UpdatedAt         time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}
