// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/harvest"
	"github.com/poiesic/harvest/assess"
	"github.com/poiesic/harvest/core"
	"github.com/poiesic/harvest/plan"
)

func main() {
	app := &cli.App{
		Name:  "harvest",
		Usage: "Research content ingestion engine",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Build a plan for a topic and execute it",
				ArgsUsage: "<topic>",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "cache",
						Aliases:  []string{"c"},
						Usage:    "Path to BadgerDB cache directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "domain",
						Usage: "Domain hint for the academic connector (e.g. healthcare, finance)",
					},
					&cli.BoolFlag{
						Name:  "no-dedup",
						Usage: "Disable cross-source deduplication",
					},
					&cli.BoolFlag{
						Name:  "workflows",
						Usage: "Enable cross-source workflow notifications",
					},
					&cli.IntFlag{
						Name:  "max-concurrent",
						Usage: "Maximum number of sources fetched simultaneously",
						Value: 3,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Override the per-source retry ceiling",
						Value: -1,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for fetch retry backoff",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the full result as JSON instead of a summary",
					},
					&cli.StringFlag{
						Name:  "assessor-host",
						Usage: "OpenAI-compatible host for quality scoring (enables the quality gate)",
					},
					&cli.StringFlag{
						Name:  "assessor-model",
						Usage: "Model name for quality scoring",
						Value: "qwen2.5:3b",
					},
				},
			},
			{
				Name:   "health",
				Usage:  "Check connector reachability and cache stats",
				Action: healthCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "cache",
						Aliases:  []string{"c"},
						Usage:    "Path to BadgerDB cache directory",
						Required: true,
					},
				},
			},
			{
				Name:  "cache",
				Usage: "Cache maintenance",
				Subcommands: []*cli.Command{
					{
						Name:   "clear",
						Usage:  "Drop all cached source results",
						Action: cacheClearCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "cache",
								Aliases:  []string{"c"},
								Usage:    "Path to BadgerDB cache directory",
								Required: true,
							},
						},
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func ingestCommand(c *cli.Context) error {
	topic := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if topic == "" {
		return fmt.Errorf("topic is required")
	}

	opts := []harvest.ServiceOption{
		harvest.WithMaxConcurrentSources(c.Int("max-concurrent")),
	}
	if delay := c.Duration("retry-delay"); delay > 0 {
		opts = append(opts, harvest.WithRetryBaseDelay(delay))
	}
	if host := c.String("assessor-host"); host != "" {
		opts = append(opts, harvest.WithQualityGate(assess.NewConfig(
			assess.WithHost(host),
			assess.WithModel(c.String("assessor-model")),
		)))
	}

	svc, err := harvest.NewService(c.String("cache"), opts...)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	defer svc.Close()

	planContext := map[string]string{}
	if domain := c.String("domain"); domain != "" {
		planContext[plan.ContextDomain] = domain
	}
	if c.Bool("no-dedup") {
		planContext[plan.ContextDedup] = "false"
	}
	if c.Bool("workflows") {
		planContext[plan.ContextWorkflows] = "true"
	}
	if retries := c.Int("max-retries"); retries >= 0 {
		planContext[plan.ContextMaxRetries] = strconv.Itoa(retries)
	}

	result, err := svc.Ingest(context.Background(), topic, planContext)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	if c.Bool("json") {
		if err := printJSON(result); err != nil {
			return err
		}
	} else {
		printResult(result)
	}
	if !result.Success {
		return fmt.Errorf("all %d sources failed", result.SourcesAttempted)
	}
	return nil
}

func healthCommand(c *cli.Context) error {
	svc, err := harvest.NewService(c.String("cache"))
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	defer svc.Close()

	report := svc.Health(context.Background())
	for name, connErr := range report.Connectors {
		status := "ok"
		if connErr != nil {
			status = connErr.Error()
		}
		fmt.Printf("connector %-16s %s\n", name, status)
	}
	fmt.Printf("cache entries: %d (lsm %d bytes, vlog %d bytes)\n",
		report.CacheStats.Entries, report.CacheStats.LSMBytes, report.CacheStats.ValueLogBytes)

	if !report.Healthy {
		return fmt.Errorf("unhealthy")
	}
	fmt.Println("healthy")
	return nil
}

func cacheClearCommand(c *cli.Context) error {
	svc, err := harvest.NewService(c.String("cache"))
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	defer svc.Close()

	if err := svc.ClearCache(context.Background()); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	fmt.Println("cache cleared")
	return nil
}

type itemJSON struct {
	SourceName  string            `json:"source_name"`
	SourceType  string            `json:"source_type"`
	Title       string            `json:"title"`
	Content     string            `json:"content"`
	URL         string            `json:"url"`
	PublishedAt string            `json:"published_at,omitempty"`
	Author      string            `json:"author,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type sourceErrorJSON struct {
	SourceID   string `json:"source_id"`
	SourceType string `json:"source_type"`
	Message    string `json:"message"`
}

type resultJSON struct {
	PlanID            string            `json:"plan_id"`
	Success           bool              `json:"success"`
	Items             []itemJSON        `json:"items"`
	SourcesAttempted  int               `json:"sources_attempted"`
	SourcesCompleted  int               `json:"sources_completed"`
	SourcesFailed     int               `json:"sources_failed"`
	ExecutionTime     string            `json:"execution_time"`
	Errors            []sourceErrorJSON `json:"errors,omitempty"`
	AverageQuality    float64           `json:"average_quality"`
	ContentDiversity  float64           `json:"content_diversity"`
	CacheHitRate      float64           `json:"cache_hit_rate"`
	ScoredItems       int               `json:"scored_items"`
	DuplicatesRemoved int               `json:"duplicates_removed"`
	CacheHits         int               `json:"cache_hits"`
	RetryAttempts     int               `json:"retry_attempts"`
}

func printJSON(result *core.IngestionResult) error {
	out := resultJSON{
		PlanID:            result.PlanID,
		Success:           result.Success,
		Items:             make([]itemJSON, 0, len(result.Items)),
		SourcesAttempted:  result.SourcesAttempted,
		SourcesCompleted:  result.SourcesCompleted,
		SourcesFailed:     result.SourcesFailed,
		ExecutionTime:     result.ExecutionTime.Round(time.Millisecond).String(),
		AverageQuality:    result.Metrics.AverageQuality,
		ContentDiversity:  result.Metrics.ContentDiversity,
		CacheHitRate:      result.Metrics.CacheHitRate,
		ScoredItems:       result.Metrics.ScoredItems,
		DuplicatesRemoved: result.DuplicatesRemoved,
		CacheHits:         result.CacheHits,
		RetryAttempts:     result.RetryAttempts,
	}
	for _, item := range result.Items {
		entry := itemJSON{
			SourceName: item.SourceName,
			SourceType: item.SourceType.String(),
			Title:      item.Title,
			Content:    item.Content,
			URL:        item.URL,
			Author:     item.Author,
			Tags:       item.Tags,
			Metadata:   item.Metadata,
		}
		if !item.PublishedAt.IsZero() {
			entry.PublishedAt = item.PublishedAt.Format(time.RFC3339)
		}
		out.Items = append(out.Items, entry)
	}
	for _, sourceErr := range result.Errors {
		out.Errors = append(out.Errors, sourceErrorJSON{
			SourceID:   sourceErr.SourceID,
			SourceType: sourceErr.SourceType.String(),
			Message:    sourceErr.Message,
		})
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func printResult(result *core.IngestionResult) {
	fmt.Printf("plan %s: %d items from %d/%d sources in %s\n",
		result.PlanID, len(result.Items), result.SourcesCompleted,
		result.SourcesAttempted, result.ExecutionTime.Round(time.Millisecond))
	fmt.Printf("cache hits %d, retries %d, duplicates removed %d\n",
		result.CacheHits, result.RetryAttempts, result.DuplicatesRemoved)
	if result.Metrics.ScoredItems > 0 {
		fmt.Printf("average quality %.2f over %d scored items\n",
			result.Metrics.AverageQuality, result.Metrics.ScoredItems)
	}

	for _, item := range result.Items {
		fmt.Printf("  [%s] %s\n      %s\n", item.SourceType, item.Title, item.URL)
	}
	for _, sourceErr := range result.Errors {
		fmt.Fprintf(os.Stderr, "source %s (%s) failed: %s\n",
			sourceErr.SourceID, sourceErr.SourceType, sourceErr.Message)
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
