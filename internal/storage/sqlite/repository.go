package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/contenthub/internal/models"
	"github.com/contenthub/internal/source"
	"github.com/contenthub/internal/storage"
)

// SQLite caps bound parameters per statement
const maxLinksPerQuery = 500

// Repository implements storage.Repository using SQLite
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

// New creates a new SQLite repository
func New(dsn string) (*Repository, error) {
	inMemory := strings.Contains(dsn, ":memory:")

	// Ensure directory exists
	if !inMemory {
		dir := filepath.Dir(dsn)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if inMemory {
		// every pooled connection would otherwise get its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return &Repository{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Migrate runs database migrations
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(
		&models.Source{},
		&models.Tag{},
		&models.UserTag{},
		&models.UserFeedPreferences{},
		&models.ReadHistory{},
		&models.Bookmark{},
		&models.ArticleFeedback{},
	)
}

// Close closes the database connection
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storage.ErrNotFound
	}
	return err
}

// Source operations

func (r *Repository) ListSources(ctx context.Context) ([]*models.Source, error) {
	var sources []*models.Source
	if err := r.db.WithContext(ctx).Order("type, name").Find(&sources).Error; err != nil {
		return nil, err
	}
	return sources, nil
}

func (r *Repository) GetSourceByName(ctx context.Context, name string) (*models.Source, error) {
	var src models.Source
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&src).Error; err != nil {
		return nil, notFound(err)
	}
	return &src, nil
}

func (r *Repository) SaveSource(ctx context.Context, src *models.Source) error {
	// Upsert by name
	var existing models.Source
	if err := r.db.WithContext(ctx).Where("name = ?", src.Name).First(&existing).Error; err == nil {
		src.ID = existing.ID
	}
	return r.db.WithContext(ctx).Save(src).Error
}

// RecordFetch applies one fetch outcome to the source's health counters,
// registering the source on first sight.
func (r *Repository) RecordFetch(ctx context.Context, d source.Descriptor, elapsed time.Duration, fetchErr error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var src models.Source
		err := tx.Where("name = ?", d.Name).First(&src).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			src = models.Source{
				Name:        d.Name,
				URL:         d.URL,
				Type:        d.Type,
				QualityTier: d.Tier,
				IsActive:    true,
				SuccessRate: 1,
			}
			if err := tx.Create(&src).Error; err != nil {
				return fmt.Errorf("failed to register source %s: %w", d.Name, err)
			}
		case err != nil:
			return err
		}

		if fetchErr != nil {
			src.RecordError()
		} else {
			src.RecordSuccess(elapsed, r.now())
		}
		return tx.Save(&src).Error
	})
}

func (r *Repository) InactiveSourceNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&models.Source{}).
		Where("is_active = ?", false).
		Order("name").
		Pluck("name", &names).Error
	return names, err
}

// Tag operations

func (r *Repository) ListTags(ctx context.Context) ([]*models.Tag, error) {
	var tags []*models.Tag
	if err := r.db.WithContext(ctx).Order("category, name").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *Repository) TagsByNames(ctx context.Context, names []string) ([]*models.Tag, error) {
	var tags []*models.Tag
	if len(names) == 0 {
		return tags, nil
	}
	if err := r.db.WithContext(ctx).Where("name IN ?", names).Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *Repository) SaveTag(ctx context.Context, tag *models.Tag) error {
	if tag.Slug == "" {
		tag.Slug = models.Slugify(tag.Name)
	}
	var existing models.Tag
	if err := r.db.WithContext(ctx).Where("name = ?", tag.Name).First(&existing).Error; err == nil {
		tag.ID = existing.ID
		tag.CreatedAt = existing.CreatedAt
	}
	return r.db.WithContext(ctx).Save(tag).Error
}

func (r *Repository) UserTagIDs(ctx context.Context, userID string) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.UserTag{}).
		Where("user_id = ?", userID).
		Order("tag_id").
		Pluck("tag_id", &ids).Error
	return ids, err
}

func (r *Repository) FollowTag(ctx context.Context, userID string, tagID uint) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.UserTag{}).
		Where("user_id = ? AND tag_id = ?", userID, tagID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&models.UserTag{UserID: userID, TagID: tagID}).Error
}

// User preference operations

func (r *Repository) UserPreferences(ctx context.Context, userID string) (*models.UserFeedPreferences, error) {
	var prefs models.UserFeedPreferences
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&prefs).Error; err != nil {
		return nil, notFound(err)
	}
	return &prefs, nil
}

func (r *Repository) SavePreferences(ctx context.Context, prefs *models.UserFeedPreferences) error {
	if prefs.ContentPreference == "" {
		prefs.ContentPreference = models.PreferenceBoth
	}
	var existing models.UserFeedPreferences
	if err := r.db.WithContext(ctx).Where("user_id = ?", prefs.UserID).First(&existing).Error; err == nil {
		prefs.ID = existing.ID
	}
	return r.db.WithContext(ctx).Save(prefs).Error
}

// Engagement operations

type linkCount struct {
	Link string
	N    int
}

type feedbackCount struct {
	Link string
	Kind models.FeedbackType
	N    int
}

// EngagementByLinks aggregates reads, bookmarks and feedback per link.
// Links without any activity are absent from the result.
func (r *Repository) EngagementByLinks(ctx context.Context, links []string) (map[string]models.Engagement, error) {
	out := make(map[string]models.Engagement)
	for start := 0; start < len(links); start += maxLinksPerQuery {
		chunk := links[start:min(start+maxLinksPerQuery, len(links))]

		var reads, bookmarks []linkCount
		if err := r.db.WithContext(ctx).Model(&models.ReadHistory{}).
			Select("article_link AS link, COUNT(*) AS n").
			Where("article_link IN ?", chunk).
			Group("article_link").
			Scan(&reads).Error; err != nil {
			return nil, fmt.Errorf("failed to count reads: %w", err)
		}
		if err := r.db.WithContext(ctx).Model(&models.Bookmark{}).
			Select("article_link AS link, COUNT(*) AS n").
			Where("article_link IN ?", chunk).
			Group("article_link").
			Scan(&bookmarks).Error; err != nil {
			return nil, fmt.Errorf("failed to count bookmarks: %w", err)
		}

		var feedback []feedbackCount
		if err := r.db.WithContext(ctx).Model(&models.ArticleFeedback{}).
			Select("article_link AS link, feedback_type AS kind, COUNT(*) AS n").
			Where("article_link IN ?", chunk).
			Group("article_link, feedback_type").
			Scan(&feedback).Error; err != nil {
			return nil, fmt.Errorf("failed to count feedback: %w", err)
		}

		for _, c := range reads {
			e := out[c.Link]
			e.Reads = c.N
			out[c.Link] = e
		}
		for _, c := range bookmarks {
			e := out[c.Link]
			e.Bookmarks = c.N
			out[c.Link] = e
		}
		for _, c := range feedback {
			e := out[c.Link]
			switch c.Kind {
			case models.FeedbackHelpful:
				e.Helpful = c.N
			case models.FeedbackNotHelpful:
				e.NotHelpful = c.N
			case models.FeedbackSpam:
				e.Spam = c.N
			case models.FeedbackLowQuality:
				e.LowQuality = c.N
			}
			out[c.Link] = e
		}
	}
	return out, nil
}

func (r *Repository) RecentReadLinks(ctx context.Context, userID string, limit int) ([]string, error) {
	var links []string
	q := r.db.WithContext(ctx).Model(&models.ReadHistory{}).
		Where("user_id = ?", userID).
		Order("read_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Pluck("article_link", &links).Error
	return links, err
}

// PopularLinks ranks links by bookmarks (double weight) and reads since a time
func (r *Repository) PopularLinks(ctx context.Context, since time.Time, limit int) ([]storage.LinkPopularity, error) {
	var reads, bookmarks []linkCount
	if err := r.db.WithContext(ctx).Model(&models.ReadHistory{}).
		Select("article_link AS link, COUNT(*) AS n").
		Where("read_at >= ?", since).
		Group("article_link").
		Scan(&reads).Error; err != nil {
		return nil, fmt.Errorf("failed to count reads: %w", err)
	}
	if err := r.db.WithContext(ctx).Model(&models.Bookmark{}).
		Select("article_link AS link, COUNT(*) AS n").
		Where("created_at >= ?", since).
		Group("article_link").
		Scan(&bookmarks).Error; err != nil {
		return nil, fmt.Errorf("failed to count bookmarks: %w", err)
	}

	byLink := map[string]*storage.LinkPopularity{}
	get := func(link string) *storage.LinkPopularity {
		p, ok := byLink[link]
		if !ok {
			p = &storage.LinkPopularity{Link: link}
			byLink[link] = p
		}
		return p
	}
	for _, c := range reads {
		get(c.Link).Reads = c.N
	}
	for _, c := range bookmarks {
		get(c.Link).Bookmarks = c.N
	}

	out := make([]storage.LinkPopularity, 0, len(byLink))
	for _, p := range byLink {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score() != out[j].Score() {
			return out[i].Score() > out[j].Score()
		}
		return out[i].Link < out[j].Link
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// UserActivity returns the user's most recent reads and bookmarks
func (r *Repository) UserActivity(ctx context.Context, userID string, limit int) ([]storage.ActivityItem, error) {
	var reads []models.ReadHistory
	q := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("read_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&reads).Error; err != nil {
		return nil, err
	}

	var bookmarks []models.Bookmark
	q = r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&bookmarks).Error; err != nil {
		return nil, err
	}

	items := make([]storage.ActivityItem, 0, len(reads)+len(bookmarks))
	for _, b := range bookmarks {
		items = append(items, storage.ActivityItem{
			Link:       b.ArticleLink,
			Source:     b.ArticleSource,
			Categories: b.Categories,
			Bookmarked: true,
			At:         b.CreatedAt,
		})
	}
	for _, h := range reads {
		items = append(items, storage.ActivityItem{
			Link:       h.ArticleLink,
			Source:     h.ArticleSource,
			Categories: h.Categories,
			At:         h.ReadAt,
		})
	}
	return items, nil
}

// Activity writes

func (r *Repository) RecordRead(ctx context.Context, read *models.ReadHistory) error {
	if read.ReadAt.IsZero() {
		read.ReadAt = r.now()
	}
	return r.db.WithContext(ctx).Create(read).Error
}

func (r *Repository) AddBookmark(ctx context.Context, bookmark *models.Bookmark) error {
	if bookmark.CreatedAt.IsZero() {
		bookmark.CreatedAt = r.now()
	}
	return r.db.WithContext(ctx).Create(bookmark).Error
}

func (r *Repository) AddFeedback(ctx context.Context, feedback *models.ArticleFeedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}

// Ensure Repository implements storage.Repository
var _ storage.Repository = (*Repository)(nil)
