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
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "policylens",
		Usage: "Keyword frequency and embedding correlation analysis for policy documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
			},
		},
		Metadata: map[string]any{},
		Before: func(c *cli.Context) error {
			if err := setupLogger(c); err != nil {
				return err
			}
			return setupConfig(c)
		},
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List the text documents under a directory",
				Action: listCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "dir",
						Aliases:  []string{"d"},
						Usage:    "Corpus root directory",
						Required: true,
					},
					jsonFlag(),
				},
			},
			{
				Name:   "freq",
				Usage:  "Count word frequencies in a document",
				Action: freqCommand,
				Flags:  freqFlags(),
			},
			{
				Name:   "correlate",
				Usage:  "Tag document spans that correlate with a keyword list",
				Action: correlateCommand,
				Flags:  correlateFlags(),
			},
			{
				Name:   "score-tokens",
				Usage:  "Rank the tokens of a document by keyword correlation",
				Action: scoreTokensCommand,
				Flags: append(append(embeddingFlags(), keywordFlags()...),
					&cli.IntFlag{
						Name:  "top",
						Usage: "Number of tokens to show (0 for all)",
						Value: 20,
					},
					jsonFlag(),
				),
			},
			{
				Name:   "index",
				Usage:  "Index the lines of a document for semantic search",
				Action: indexCommand,
				Flags: append(embeddingFlags(),
					dbFlag(),
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Document to index",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "lines",
						Usage: "Index only the first N lines (0 for all)",
						Value: 60,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of lines embedded per request",
						Value: 32,
					},
				),
			},
			{
				Name:      "query",
				Usage:     "Search indexed passages",
				ArgsUsage: "TEXT",
				Action:    queryCommand,
				Flags: append(embeddingFlags(),
					dbFlag(),
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of passages to return",
						Value:   5,
					},
					&cli.Float64Flag{
						Name:  "min-similarity",
						Usage: "Drop passages below this cosine similarity",
						Value: -1,
					},
					&cli.Float64Flag{
						Name:  "verbatim-boost",
						Usage: "Score added to passages containing every query word",
					},
					jsonFlag(),
				),
			},
			{
				Name:   "watch",
				Usage:  "Re-run frequency analysis whenever a document changes",
				Action: watchCommand,
				Flags:  watchFlags(),
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
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

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
