package watch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/money-is-time/internal/common"
	"github.com/dtnitsch/money-is-time/models"
	"github.com/dtnitsch/money-is-time/pkg/annotator"
	"github.com/dtnitsch/money-is-time/pkg/document"
	"github.com/dtnitsch/money-is-time/pkg/parser"
	"github.com/dtnitsch/money-is-time/pkg/storage"
)

// WatchAction annotates --file and keeps annotating while HTML fragments
// dropped into --dir are appended to its body, until interrupted.
func WatchAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	svc, err := common.Setup(c, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(2)
	}
	defer svc.Close()

	files := &storage.Storage{}
	rawHTML, err := files.ReadFile(c.String("file"))
	if err != nil {
		logger.Error("failed to read file", "file", c.String("file"), "error", err)
		os.Exit(2)
	}
	page, err := (&parser.Parser{}).Page("", rawHTML)
	if err != nil {
		logger.Error("failed to parse page", "error", err)
		os.Exit(2)
	}
	page.Domain = c.String("domain")

	doc, err := document.Load(bytes.NewReader(rawHTML))
	if err != nil {
		logger.Error("failed to load document", "error", err)
		os.Exit(2)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("failed to create watcher", "error", err)
		os.Exit(2)
	}
	defer watcher.Close()
	if err := watcher.Add(c.String("dir")); err != nil {
		logger.Error("failed to watch directory", "dir", c.String("dir"), "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	a := svc.NewAnnotator(doc, page)
	feed := &fragmentFeed{doc: doc, logger: logger, seen: make(map[string]string)}
	err = watchSession(ctx, a, page.Domain, settleTimeout, logger, func(ctx context.Context) {
		logger.Info("Watching for fragments", "dir", c.String("dir"), "file", c.String("file"))
		feed.run(ctx, watcher)
	})
	if err != nil {
		logger.Error("annotation refused", "domain", page.Domain, "error", err)
		os.Exit(1)
	}

	report := models.Report{Page: page, ScannedAt: time.Now(), Annotations: a.Annotations()}
	report.Matches = len(report.Annotations)
	for _, ann := range report.Annotations {
		if ann.Err == nil {
			report.Annotated++
		} else {
			report.Skipped++
		}
	}
	if err := svc.Record(report); err != nil {
		logger.Warn("failed to record scan", "error", err)
	}

	output := c.String("output")
	if output == "" {
		output = c.String("file")
	}
	if err := files.SaveFile(output, []byte(doc.String())); err != nil {
		logger.Error("failed to write output", "error", err)
		os.Exit(2)
	}

	logger.Info("Watch finished",
		"output", output,
		"scans", a.Scans(),
		"annotated", report.Annotated)
	return nil
}

// settleTimeout bounds how long a shutdown waits for outstanding annotations.
const settleTimeout = 5 * time.Second

// watchSession starts a and runs feed until ctx is done. The annotator runs
// on a context detached from ctx, so mutations fed just before shutdown are
// still annotated while it drains for up to settle. a is stopped on return.
func watchSession(ctx context.Context, a *annotator.Annotator, domain string, settle time.Duration, logger *slog.Logger, feed func(context.Context)) error {
	if err := a.Start(context.WithoutCancel(ctx), domain); err != nil {
		return err
	}

	feed(ctx)

	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), settle)
	defer cancel()
	if err := a.Drain(drainCtx); err != nil {
		logger.Warn("annotations still in flight at shutdown", "error", err)
	}
	a.Stop()
	a.Wait()
	return nil
}

// fragmentFeed turns file events into document mutations.
type fragmentFeed struct {
	doc    *document.HTML
	logger *slog.Logger
	seen   map[string]string
}

func (f *fragmentFeed) run(ctx context.Context, watcher *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if err := f.apply(event.Name); err != nil {
				f.logger.Warn("failed to append fragment", "file", event.Name, "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			f.logger.Warn("watcher error", "error", err)
		}
	}
}

// apply appends the fragment in path to the body. Repeated events for
// unchanged content are ignored.
func (f *fragmentFeed) apply(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".html" && ext != ".htm" {
		return nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read fragment: %w", err)
	}

	content := string(data)
	if strings.TrimSpace(content) == "" || f.seen[path] == content {
		return nil
	}
	f.seen[path] = content

	f.logger.Debug("Appending fragment", "file", path, "bytes", len(data))
	return f.doc.AppendHTML("body", content)
}
