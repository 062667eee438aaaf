package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/contenthub/internal/app"
	"github.com/contenthub/internal/cache"
	"github.com/contenthub/internal/config"
	"github.com/contenthub/internal/feed"
	"github.com/contenthub/internal/models"
	"github.com/contenthub/internal/storage"
	"github.com/contenthub/internal/tagging"
	"github.com/contenthub/pkg/logger"
)

var (
	cfgFile     string
	cfg         *config.Config
	log         *logger.Logger
	application *app.App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "contenthub",
		Short: "Content aggregation and quality ranking",
		Long: `Aggregates articles from RSS feeds, scraped pages, Reddit and YouTube,
ranks them by quality and serves cached, personalized feeds.`,
		PersistentPreRunE:  initializeApp,
		PersistentPostRunE: closeApp,
		SilenceUsage:       true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./configs/config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(feedsCmd())
	rootCmd.AddCommand(sourcesCmd())
	rootCmd.AddCommand(tagsCmd())
	rootCmd.AddCommand(prefsCmd())
	rootCmd.AddCommand(activityCmd())
	rootCmd.AddCommand(cacheCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initializeApp(cmd *cobra.Command, args []string) error {
	var err error

	// Load config
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Initialize logger
	log = logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	application, err = app.New(cmd.Context(), cfg, log)
	return err
}

func closeApp(cmd *cobra.Command, args []string) error {
	if application == nil {
		return nil
	}
	return application.Close()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ============ FEEDS COMMANDS ============

func feedsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feeds",
		Short: "Build and read feeds",
	}

	cmd.AddCommand(feedsShowCmd())
	cmd.AddCommand(feedsRefreshCmd())
	cmd.AddCommand(feedsTrendingCmd())
	cmd.AddCommand(feedsPopularCmd())
	cmd.AddCommand(feedsRecommendCmd())
	return cmd
}

func feedsShowCmd() *cobra.Command {
	var q feed.Query
	var sourceFilter, preference, categories string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show one page of the feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			q.SourceFilter = models.ArticleType(sourceFilter)
			if sourceFilter != "" && !q.SourceFilter.Valid() {
				return fmt.Errorf("unknown source filter %q", sourceFilter)
			}
			q.Preference = models.ContentPreference(preference)
			if categories != "" {
				q.Categories = strings.Split(categories, ",")
			}

			page, err := application.Feed.GetFeed(ctx, q)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(page)
			}

			p := page.Pagination
			fmt.Printf("\n=== Feed (page %d of %d, %d articles) ===\n\n", p.Page, max(p.TotalPages, 1), p.TotalItems)
			for i, a := range page.Articles {
				fmt.Printf("%3d. [%.2f] %s\n", (p.Page-1)*p.PerPage+i+1, a.QualityScore, a.Title)
				fmt.Printf("     Source: %s (%s) | Published: %s\n", a.Source, a.Type, orDash(a.Published))
				if len(a.Categories) > 0 {
					fmt.Printf("     Categories: %s\n", strings.Join(a.Categories, ", "))
				}
				fmt.Printf("     %s\n\n", a.Link)
			}
			if p.HasNext {
				fmt.Printf("Next page: --page %d\n", p.Page+1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceFilter, "source-filter", "", "Source type (rss, scrape, reddit, youtube)")
	cmd.Flags().BoolVar(&q.QualityFilter, "quality", false, "Only articles above the quality threshold, best first")
	cmd.Flags().StringVar(&preference, "pref", "", "Content preference (tech, general, both)")
	cmd.Flags().StringVar(&q.Search, "search", "", "Search title and summary")
	cmd.Flags().StringVar(&q.Source, "source", "", "Filter by source name")
	cmd.Flags().StringVar(&q.StartDate, "start", "", "Earliest publish date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&q.EndDate, "end", "", "Latest publish date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&categories, "category", "", "Comma-separated categories")
	cmd.Flags().StringVar(&q.UserID, "user", "", "User to personalize for")
	cmd.Flags().BoolVar(&q.ExcludeRead, "exclude-read", false, "Hide articles the user has read")
	cmd.Flags().BoolVar(&q.UsePreferences, "use-prefs", false, "Apply the user's saved preferences")
	cmd.Flags().IntVar(&q.Page, "page", 1, "Page number")
	cmd.Flags().IntVar(&q.PerPage, "per-page", 0, "Articles per page (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the page as JSON")

	return cmd
}

func feedsRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Fetch every source and rebuild the cached views",
		RunE: func(cmd *cobra.Command, args []string) error {
			result := application.Feed.Refresh(context.Background())

			fmt.Println("\n=== Refresh Results ===")
			fmt.Printf("Sources fetched:  %d\n", result.SourcesFetched)
			fmt.Printf("Sources failed:   %d\n", result.SourcesFailed)
			fmt.Printf("Sources skipped:  %d\n", result.SourcesSkipped)
			fmt.Printf("Articles fetched: %d\n", result.ArticlesFetched)
			fmt.Printf("Articles kept:    %d\n", result.ArticlesKept)
			fmt.Printf("Views written:    %d\n", result.ViewsWritten)
			fmt.Printf("Duration:         %s\n", result.Duration.Round(time.Millisecond))

			if len(result.Errors) > 0 {
				fmt.Println("\nErrors:")
				for _, e := range result.Errors {
					fmt.Printf("  - %s\n", e)
				}
			}
			return nil
		},
	}
}

func feedsTrendingCmd() *cobra.Command {
	var days, limit int

	cmd := &cobra.Command{
		Use:   "trending",
		Short: "Show the newest articles of the last days",
		RunE: func(cmd *cobra.Command, args []string) error {
			articles := application.Feed.Trending(context.Background(), days, limit)

			fmt.Printf("\n=== Trending in the last %d day(s) (%d) ===\n\n", max(days, feed.DefaultTrendingDays), len(articles))
			for i, a := range articles {
				fmt.Printf("%3d. %s\n", i+1, a.Title)
				fmt.Printf("     Source: %s | Published: %s\n", a.Source, orDash(a.Published))
				fmt.Printf("     %s\n\n", a.Link)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", feed.DefaultTrendingDays, "Look-back window in days")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum articles to show")

	return cmd
}

func feedsPopularCmd() *cobra.Command {
	var days, limit int

	cmd := &cobra.Command{
		Use:   "popular",
		Short: "Show the most read and bookmarked articles",
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				days = cfg.Feed.PopularDays
			}
			items, err := application.Feed.Popular(context.Background(), days, limit)
			if err != nil {
				return err
			}

			fmt.Printf("\n=== Popular in the last %d days (%d) ===\n\n", days, len(items))
			printRanked(items)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Look-back window in days (default from config)")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum articles to show")

	return cmd
}

func feedsRecommendCmd() *cobra.Command {
	var userID string
	var limit int

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend articles from a user's reading history",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := application.Feed.Recommend(context.Background(), userID, limit)
			if err != nil {
				return err
			}

			fmt.Printf("\n=== Recommendations for %s (%d) ===\n\n", userID, len(items))
			if len(items) == 0 {
				fmt.Println("No reading history to build recommendations from.")
				return nil
			}
			printRanked(items)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User ID")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum articles to show")
	cmd.MarkFlagRequired("user")

	return cmd
}

func printRanked(items []feed.RankedArticle) {
	for i, a := range items {
		fmt.Printf("%3d. (%d) %s\n", i+1, a.Score, a.Title)
		fmt.Printf("     Source: %s | %s\n\n", a.Source, a.Link)
	}
}

// ============ SOURCES COMMANDS ============

func sourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Inspect and manage content sources",
	}

	cmd.AddCommand(sourcesListCmd())
	cmd.AddCommand(sourcesCheckCmd())
	cmd.AddCommand(sourcesTierCmd())
	return cmd
}

func sourcesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sources with their fetch health",
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := application.Repo.ListSources(context.Background())
			if err != nil {
				return err
			}

			fmt.Printf("\n=== Sources (%d) ===\n\n", len(sources))
			for _, s := range sources {
				status := "active"
				if !s.IsActive {
					status = "INACTIVE"
				}
				fmt.Printf("%-8s %-30s %s\n", s.Type, s.Name, status)
				fmt.Printf("    Tier: %s | Success rate: %.0f%% | Errors: %d | Avg fetch: %.2fs\n",
					s.QualityTier, s.SuccessRate*100, s.ErrorCount, s.AvgFetchTime)
				if s.LastFetchedAt != nil {
					fmt.Printf("    Last fetched: %s\n", s.LastFetchedAt.Format(time.RFC3339))
				}
				fmt.Println()
			}

			if configured := len(application.Sources.GetSources()); configured > len(sources) {
				fmt.Printf("%d configured source(s) have not been fetched yet.\n", configured-len(sources))
			}
			return nil
		},
	}
}

func sourcesCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that every configured source is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			results := application.Sources.HealthCheckAll(context.Background())

			fmt.Println("\n=== Source Health ===")
			failed := 0
			for _, src := range application.Sources.GetSources() {
				if err := results[src.Name()]; err != nil {
					failed++
					fmt.Printf("  FAIL %-30s %v\n", src.Name(), err)
					continue
				}
				fmt.Printf("  OK   %s\n", src.Name())
			}
			fmt.Printf("\n%d of %d sources healthy\n", len(results)-failed, len(results))
			return nil
		},
	}
}

func sourcesTierCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tier <name> <premium|standard|community>",
		Short: "Override the quality tier of a source",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			tier := models.QualityTier(args[1])
			switch tier {
			case models.TierPremium, models.TierStandard, models.TierCommunity:
			default:
				return fmt.Errorf("unknown tier %q", args[1])
			}

			src, err := application.Repo.GetSourceByName(ctx, args[0])
			if errors.Is(err, storage.ErrNotFound) {
				configured := application.Sources.GetSourceByName(args[0])
				if configured == nil {
					return fmt.Errorf("source %q not found", args[0])
				}
				src = &models.Source{
					Name:        configured.Name(),
					URL:         configured.URL(),
					Type:        configured.Type(),
					IsActive:    true,
					SuccessRate: 1,
				}
			} else if err != nil {
				return err
			}

			src.QualityTier = tier
			if err := application.Repo.SaveSource(ctx, src); err != nil {
				return err
			}
			fmt.Printf("Source %s is now %s\n", src.Name, tier)
			return nil
		},
	}
}

// ============ TAGS COMMANDS ============

func tagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Manage the tag vocabulary",
	}

	cmd.AddCommand(tagsSeedCmd())
	cmd.AddCommand(tagsListCmd())
	cmd.AddCommand(tagsMatchCmd())
	cmd.AddCommand(tagsFollowCmd())
	return cmd
}

func tagsSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the vocabulary from the built-in taxonomy",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			for _, k := range tagging.DefaultKeywords {
				tag := &models.Tag{
					Name:        k.Name,
					Category:    k.Category,
					Color:       k.Color,
					Description: k.Description,
				}
				if err := application.Repo.SaveTag(ctx, tag); err != nil {
					return fmt.Errorf("failed to save tag %s: %w", k.Name, err)
				}
			}
			fmt.Printf("Seeded %d tags\n", len(tagging.DefaultKeywords))
			return nil
		},
	}
}

func tagsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the tag vocabulary",
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := application.Repo.ListTags(context.Background())
			if err != nil {
				return err
			}

			fmt.Printf("\n=== Tags (%d) ===\n\n", len(tags))
			category := ""
			for _, t := range tags {
				if t.Category != category {
					category = t.Category
					fmt.Printf("%s:\n", orDash(category))
				}
				fmt.Printf("  [%d] %-20s %s\n", t.ID, t.Name, t.Slug)
			}
			return nil
		},
	}
}

func tagsMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match <title> [summary]",
		Short: "Show which tags a title and summary would receive",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			summary := ""
			if len(args) > 1 {
				summary = args[1]
			}

			tags, err := application.Repo.ListTags(context.Background())
			if err != nil {
				return err
			}
			matcher := tagging.NewMatcher(tagging.DefaultKeywords)
			if len(tags) > 0 {
				matcher = tagging.NewVocabularyMatcher(tagging.DefaultKeywords, tags)
			}

			matches := matcher.Match(args[0], summary)
			if len(matches) == 0 {
				fmt.Println("No tags matched.")
				return nil
			}
			for _, m := range matches {
				fmt.Printf("  %-20s %.2f\n", m.Name, m.Confidence)
			}
			return nil
		},
	}
}

func tagsFollowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "follow <user> <tag>",
		Short: "Follow a tag so it boosts the user's feed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			var tagID uint
			if id, err := strconv.ParseUint(args[1], 10, 64); err == nil {
				tagID = uint(id)
			} else {
				tags, err := application.Repo.TagsByNames(ctx, []string{args[1]})
				if err != nil {
					return err
				}
				if len(tags) == 0 {
					return fmt.Errorf("tag %q not found, run `tags seed` first", args[1])
				}
				tagID = tags[0].ID
			}

			if err := application.Repo.FollowTag(ctx, args[0], tagID); err != nil {
				return err
			}
			fmt.Printf("%s now follows tag %d\n", args[0], tagID)
			return nil
		},
	}
}

// ============ PREFERENCES COMMANDS ============

func prefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Manage user feed preferences",
	}

	cmd.AddCommand(prefsShowCmd())
	cmd.AddCommand(prefsSetCmd())
	return cmd
}

func prefsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <user>",
		Short: "Show a user's preferences",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs, err := application.Repo.UserPreferences(context.Background(), args[0])
			if errors.Is(err, storage.ErrNotFound) {
				fmt.Printf("%s has no saved preferences\n", args[0])
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Printf("\n=== Preferences for %s ===\n", prefs.UserID)
			fmt.Printf("Sources:    %s\n", orDash(strings.Join(prefs.FeedSources, ", ")))
			fmt.Printf("Types:      %s\n", orDash(strings.Join(prefs.FeedTypes, ", ")))
			fmt.Printf("Preference: %s\n", prefs.ContentPreference)
			return nil
		},
	}
}

func prefsSetCmd() *cobra.Command {
	var sources, types, preference string

	cmd := &cobra.Command{
		Use:   "set <user>",
		Short: "Save a user's preferences",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs := &models.UserFeedPreferences{
				UserID:            args[0],
				FeedSources:       splitCSV(sources),
				FeedTypes:         splitCSV(types),
				ContentPreference: models.ContentPreference(preference),
			}
			for _, t := range prefs.FeedTypes {
				if !models.ArticleType(t).Valid() {
					return fmt.Errorf("unknown feed type %q", t)
				}
			}

			if err := application.Repo.SavePreferences(context.Background(), prefs); err != nil {
				return err
			}
			fmt.Printf("Preferences saved for %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&sources, "sources", "", "Comma-separated source names")
	cmd.Flags().StringVar(&types, "types", "", "Comma-separated source types")
	cmd.Flags().StringVar(&preference, "pref", string(models.PreferenceBoth), "Content preference (tech, general, both)")

	return cmd
}

// ============ ACTIVITY COMMANDS ============

func activityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Record reads, bookmarks and feedback",
	}

	cmd.AddCommand(activityReadCmd())
	cmd.AddCommand(activityBookmarkCmd())
	cmd.AddCommand(activityFeedbackCmd())
	return cmd
}

// lookupArticle finds a link in the current feed so activity carries its metadata
func lookupArticle(ctx context.Context, link string) models.Article {
	for _, a := range application.Feed.Articles(ctx, feed.View{}) {
		if a.Link == link {
			return a
		}
	}
	return models.Article{Link: link}
}

func activityReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <user> <link>",
		Short: "Record that a user read an article",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a := lookupArticle(ctx, args[1])
			err := application.Repo.RecordRead(ctx, &models.ReadHistory{
				UserID:        args[0],
				ArticleLink:   a.Link,
				ArticleTitle:  a.Title,
				ArticleSource: a.Source,
				ArticleType:   a.Type,
				Categories:    a.Categories,
			})
			if err != nil {
				return err
			}
			application.Store.Delete(ctx, cache.ReadHistoryKey(args[0]))
			fmt.Println("Read recorded")
			return nil
		},
	}
}

func activityBookmarkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bookmark <user> <link>",
		Short: "Bookmark an article",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a := lookupArticle(ctx, args[1])
			err := application.Repo.AddBookmark(ctx, &models.Bookmark{
				UserID:        args[0],
				ArticleLink:   a.Link,
				ArticleTitle:  a.Title,
				ArticleSource: a.Source,
				ArticleType:   a.Type,
				Categories:    a.Categories,
			})
			if err != nil {
				return err
			}
			fmt.Println("Bookmark added")
			return nil
		},
	}
}

func activityFeedbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "feedback <user> <link> <helpful|not_helpful|spam|low_quality>",
		Short: "Leave feedback on an article",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := models.FeedbackType(args[2])
			switch kind {
			case models.FeedbackHelpful, models.FeedbackNotHelpful, models.FeedbackSpam, models.FeedbackLowQuality:
			default:
				return fmt.Errorf("unknown feedback type %q", args[2])
			}

			err := application.Repo.AddFeedback(context.Background(), &models.ArticleFeedback{
				UserID:       args[0],
				ArticleLink:  args[1],
				FeedbackType: kind,
			})
			if err != nil {
				return err
			}
			fmt.Println("Feedback recorded")
			return nil
		},
	}
}

// ============ CACHE COMMANDS ============

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the feed cache",
	}

	cmd.AddCommand(cacheClearCmd())
	return cmd
}

func cacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop every cached feed view",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			store := application.Store

			if pd, ok := store.(cache.PrefixDeleter); ok {
				n := pd.DeletePrefix(ctx, cache.FeedKeyBase)
				fmt.Printf("Cleared %d cached views\n", n)
				return nil
			}

			views := feed.Views()
			for _, v := range views {
				store.Delete(ctx, v.Key())
			}
			fmt.Printf("Cleared %d cached views\n", len(views))
			return nil
		},
	}
}

func splitCSV(s string) models.StringSlice {
	var out models.StringSlice
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
