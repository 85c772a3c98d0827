package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"watch/internal/adapter/push"
	"watch/internal/app"
	"watch/internal/config"
	"watch/internal/domain"
	"watch/internal/logger"
	"watch/internal/topics"
)

func main() {
	if err := rootApp().Run(os.Args); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

func rootApp() *cli.App {
	return &cli.App{
		Name:  "watch",
		Usage: "Prophecy Watch news aggregator",
		Description: `Aggregates a fixed set of RSS feeds, tags headlines with topics
		and serves them over HTTP. New headlines are announced via Web Push.

		Settings come from the config file and environment variables, e.g.:

		PORT=3000 VAPID_PUBLIC_KEY=... VAPID_PRIVATE_KEY=... watch serve`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.json",
				Usage:   "Path to JSON or HCL config file",
				EnvVars: []string{"CONFIG"},
			},
		},
		Commands: []*cli.Command{
			serveCmd(),
			fetchCmd(),
			topicsCmd(),
			vapidCmd(),
		},
		Action: serve,
	}
}

func loadConfig(ctx *cli.Context) (*config.Config, error) {
	path := ctx.String("config")
	if _, err := os.Stat(path); err != nil {
		path = ""
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("could not load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the HTTP server and the notifier",
		Action: serve,
	}
}

func serve(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	application, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("could not initialize app: %w", err)
	}
	return application.Run()
}

type fetchedItem struct {
	Source  string   `json:"source"`
	Title   string   `json:"title"`
	Link    string   `json:"link"`
	IsoDate *string  `json:"isoDate"`
	Topics  []string `json:"topics"`
}

func fetchCmd() *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "Aggregate all feeds once and print the result as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "topic",
				Usage: "Only print items tagged with this topic id",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Print at most N items (0 for all)",
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}
			topic := ctx.String("topic")
			if topic != "" && !topics.Default().Has(topic) {
				return fmt.Errorf("unknown topic %q", topic)
			}
			limit := ctx.Int("limit")
			if limit < 0 {
				return fmt.Errorf("limit must not be negative")
			}
			appLogger := logger.NewWithWriters(cfg.Logger.Level, os.Stderr, os.Stderr)

			items, err := app.NewAggregator(cfg, appLogger).Aggregate(ctx.Context)
			if err != nil {
				return err
			}
			if topic != "" {
				items = lo.Filter(items, func(item domain.NewsItem, _ int) bool {
					return item.HasTopic(topic)
				})
			}
			if limit > 0 && len(items) > limit {
				items = items[:limit]
			}
			out := lo.Map(items, func(item domain.NewsItem, _ int) fetchedItem {
				return fetchedItem{
					Source:  item.Source,
					Title:   item.Title,
					Link:    item.Link,
					IsoDate: item.ISODate(),
					Topics:  item.Topics,
				}
			})
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{"items": out})
		},
	}
}

func topicsCmd() *cli.Command {
	return &cli.Command{
		Name:  "topics",
		Usage: "Print the topic rules",
		Action: func(ctx *cli.Context) error {
			for _, t := range topics.Default().Topics() {
				fmt.Printf("%s\t%s\n", t.ID, t.Label)
				fmt.Printf("\tkeywords: %v\n", t.Keywords)
				for _, v := range t.Verses {
					fmt.Printf("\t%s: %s\n", v.Ref, v.Text)
				}
			}
			return nil
		},
	}
}

func vapidCmd() *cli.Command {
	return &cli.Command{
		Name:  "vapid",
		Usage: "Generate a VAPID key pair for Web Push",
		Action: func(ctx *cli.Context) error {
			publicKey, privateKey, err := push.GenerateKeys()
			if err != nil {
				return err
			}
			fmt.Printf("VAPID_PUBLIC_KEY=%s\nVAPID_PRIVATE_KEY=%s\n", publicKey, privateKey)
			return nil
		},
	}
}
