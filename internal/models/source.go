package models

import (
	"time"
)

// QualityTier ranks how trustworthy a source is
type QualityTier string

const (
	TierPremium   QualityTier = "premium"
	TierStandard  QualityTier = "standard"
	TierCommunity QualityTier = "community"
)

// Source auto-deactivation thresholds
const (
	deactivateErrorCount  = 10
	deactivateSuccessRate = 0.3
)

// Source is a content source with persisted health statistics
type Source struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	Name           string      `gorm:"uniqueIndex;not null" json:"name"`
	URL            string      `gorm:"not null" json:"url"`
	Type           ArticleType `gorm:"index;not null" json:"type"`
	Category       string      `json:"category"`
	Tags           StringSlice `gorm:"type:json" json:"tags"`
	QualityTier    QualityTier `gorm:"default:'standard'" json:"quality_tier"`
	IsActive       bool        `gorm:"default:true" json:"is_active"`
	LastFetchedAt  *time.Time  `json:"last_fetched_at"`
	FetchFrequency int         `gorm:"default:900" json:"fetch_frequency"` // seconds
	ErrorCount     int         `gorm:"default:0" json:"error_count"`
	SuccessCount   int         `gorm:"default:0" json:"success_count"`
	SuccessRate    float64     `gorm:"default:1" json:"success_rate"`
	AvgFetchTime   float64     `gorm:"default:0" json:"avg_fetch_time"` // seconds
	Description    string      `json:"description"`
	CreatedAt      time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

// RecordSuccess updates health stats after a successful fetch.
// A success decays the error count by one.
func (s *Source) RecordSuccess(fetchTime time.Duration, now time.Time) {
	s.SuccessCount++
	if s.ErrorCount > 0 {
		s.ErrorCount--
	}
	s.LastFetchedAt = &now

	total := s.SuccessCount + s.ErrorCount
	if total > 0 {
		s.AvgFetchTime = (s.AvgFetchTime*float64(total-1) + fetchTime.Seconds()) / float64(total)
	}
	s.updateSuccessRate()
}

// RecordError updates health stats after a failed fetch and deactivates
// sources that keep failing.
func (s *Source) RecordError() {
	s.ErrorCount++
	s.updateSuccessRate()

	if s.ErrorCount >= deactivateErrorCount && s.SuccessRate < deactivateSuccessRate {
		s.IsActive = false
	}
}

func (s *Source) updateSuccessRate() {
	total := s.SuccessCount + s.ErrorCount
	if total == 0 {
		s.SuccessRate = 1
		return
	}
	s.SuccessRate = float64(s.SuccessCount) / float64(total)
}
