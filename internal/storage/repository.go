package storage

import (
	"context"
	"errors"
	"time"

	"github.com/contenthub/internal/models"
	"github.com/contenthub/internal/source"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// Repository defines the interface for data persistence
type Repository interface {
	// Source operations
	ListSources(ctx context.Context) ([]*models.Source, error)
	GetSourceByName(ctx context.Context, name string) (*models.Source, error)
	SaveSource(ctx context.Context, src *models.Source) error
	RecordFetch(ctx context.Context, src source.Descriptor, elapsed time.Duration, fetchErr error) error
	InactiveSourceNames(ctx context.Context) ([]string, error)

	// Tag operations
	ListTags(ctx context.Context) ([]*models.Tag, error)
	TagsByNames(ctx context.Context, names []string) ([]*models.Tag, error)
	SaveTag(ctx context.Context, tag *models.Tag) error
	UserTagIDs(ctx context.Context, userID string) ([]uint, error)
	FollowTag(ctx context.Context, userID string, tagID uint) error

	// User preference operations
	UserPreferences(ctx context.Context, userID string) (*models.UserFeedPreferences, error)
	SavePreferences(ctx context.Context, prefs *models.UserFeedPreferences) error

	// Engagement operations
	EngagementByLinks(ctx context.Context, links []string) (map[string]models.Engagement, error)
	RecentReadLinks(ctx context.Context, userID string, limit int) ([]string, error)
	PopularLinks(ctx context.Context, since time.Time, limit int) ([]LinkPopularity, error)
	UserActivity(ctx context.Context, userID string, limit int) ([]ActivityItem, error)

	// Activity writes
	RecordRead(ctx context.Context, read *models.ReadHistory) error
	AddBookmark(ctx context.Context, bookmark *models.Bookmark) error
	AddFeedback(ctx context.Context, feedback *models.ArticleFeedback) error

	// Maintenance
	Close() error
	Migrate() error
}

// LinkPopularity counts recent activity on one link
type LinkPopularity struct {
	Link      string
	Reads     int
	Bookmarks int
}

// Score weights bookmarks double
func (p LinkPopularity) Score() int {
	return p.Bookmarks*2 + p.Reads
}

// ActivityItem is an article a user read or bookmarked
type ActivityItem struct {
	Link       string
	Source     string
	Categories []string
	Bookmarked bool
	At         time.Time
}
