package youtube

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"
)

// maxIDsPerCall is the Data API limit for videos.list
const maxIDsPerCall = 50

// VideoStats are public counters of one video
type VideoStats struct {
	Views    uint64
	Likes    uint64
	Comments uint64
}

// StatsFetcher looks up statistics for video IDs
type StatsFetcher interface {
	VideoStats(ctx context.Context, ids []string) (map[string]VideoStats, error)
}

// APIStats reads statistics through the YouTube Data API v3
type APIStats struct {
	svc *yt.Service
}

// NewAPIStats creates a Data API client authenticated by apiKey
func NewAPIStats(ctx context.Context, apiKey string, opts ...option.ClientOption) (*APIStats, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &APIStats{svc: svc}, nil
}

// VideoStats implements StatsFetcher
func (a *APIStats) VideoStats(ctx context.Context, ids []string) (map[string]VideoStats, error) {
	out := make(map[string]VideoStats, len(ids))
	for start := 0; start < len(ids); start += maxIDsPerCall {
		end := min(start+maxIDsPerCall, len(ids))

		resp, err := a.svc.Videos.List([]string{"statistics"}).Id(ids[start:end]...).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("videos.list: %w", err)
		}
		for _, v := range resp.Items {
			if v.Statistics == nil {
				continue
			}
			out[v.Id] = VideoStats{
				Views:    v.Statistics.ViewCount,
				Likes:    v.Statistics.LikeCount,
				Comments: v.Statistics.CommentCount,
			}
		}
	}
	return out, nil
}
