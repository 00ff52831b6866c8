package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/policylens/corpus"
	"github.com/poiesic/policylens/nlp"
)

func watchCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts, err := newFreqOptions(c, appConfig(c))
	if err != nil {
		return err
	}
	if opts.topics == nil {
		return fmt.Errorf("--topics and --topic are required")
	}
	opts.chart = true

	if err := watchCorpus(ctx, c.String("dir"), c.App.Writer, opts); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

// watchCorpus redraws the topic chart of each document that changes under
// dir until ctx is canceled.
func watchCorpus(ctx context.Context, dir string, w io.Writer, opts *freqOptions) error {
	p := nlp.NewProcessor()
	watcher := corpus.NewWatcher(dir)
	err := watcher.Watch(ctx, func(doc corpus.DocFile) {
		if err := runFreq(w, p, doc.Path, opts); err != nil {
			slog.Error("frequency analysis failed", "path", doc.Path, "err", err)
		}
	})
	if err != nil {
		return err
	}
	slog.Info("watching for document changes", "dir", dir, "topic", opts.topic)
	return nil
}
