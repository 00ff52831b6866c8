package main

import (
	"time"

	"github.com/urfave/cli/v2"
)

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Write results as JSON",
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to BadgerDB passage index directory",
		Required: true,
	}
}

func fileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "file",
		Aliases:  []string{"f"},
		Usage:    "Document to analyze (.txt, .pdf, .docx, .odt)",
		Required: true,
	}
}

func topicFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "topics",
			Aliases: []string{"t"},
			Usage:   "YAML file mapping topic names to keyword lists",
		},
		&cli.StringFlag{
			Name:  "topic",
			Usage: "Topic to use from the topics file",
		},
	}
}

// embeddingFlags configure the embedding provider. Unset flags fall back
// to the configuration file.
func embeddingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "provider",
			Usage: "Embedding provider (openai, mock)",
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Deadline for a single embedding request",
			Value: 60 * time.Second,
		},
		&cli.StringFlag{
			Name:  "cache-db",
			Usage: "Path to BadgerDB embedding cache directory",
		},
	}
}

func keywordFlags() []cli.Flag {
	return append([]cli.Flag{
		fileFlag(),
		&cli.StringSliceFlag{
			Name:    "keywords",
			Aliases: []string{"k"},
			Usage:   "Keyword phrases (comma separated or repeated)",
		},
		&cli.BoolFlag{
			Name:  "normalize",
			Usage: "Unit-normalize vectors so scores are cosine similarities",
			Value: true,
		},
	}, topicFlags()...)
}

func correlateFlags() []cli.Flag {
	flags := append(embeddingFlags(), keywordFlags()...)
	return append(flags,
		&cli.Float64Flag{
			Name:  "threshold",
			Usage: "Tag spans scoring strictly above this value",
		},
		&cli.StringFlag{
			Name:  "label",
			Usage: "Entity label for tagged spans",
		},
		&cli.IntFlag{
			Name:  "ngram",
			Usage: "Window size in tokens; 0 tags whole sentences",
		},
		&cli.IntFlag{
			Name:  "stride",
			Usage: "Keep every Nth window",
			Value: 4,
		},
		jsonFlag(),
	)
}

func freqFlags() []cli.Flag {
	flags := append([]cli.Flag{fileFlag()}, topicFlags()...)
	return append(flags,
		&cli.BoolFlag{
			Name:  "no-lemma",
			Usage: "Count lowercase words instead of lemmas",
		},
		&cli.IntFlag{
			Name:  "top",
			Usage: "Number of terms to show when no topic is given (0 for all)",
			Value: 20,
		},
		&cli.BoolFlag{
			Name:  "chart",
			Usage: "Draw a bar chart of topic keyword frequencies",
		},
		jsonFlag(),
	)
}

func watchFlags() []cli.Flag {
	return append(topicFlags(),
		&cli.StringFlag{
			Name:     "dir",
			Aliases:  []string{"d"},
			Usage:    "Corpus root directory",
			Required: true,
		},
		&cli.BoolFlag{
			Name:  "no-lemma",
			Usage: "Count lowercase words instead of lemmas",
		},
	)
}
