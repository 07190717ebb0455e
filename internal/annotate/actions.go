package annotate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/money-is-time/internal/common"
	"github.com/dtnitsch/money-is-time/models"
	"github.com/dtnitsch/money-is-time/pkg/annotator"
	"github.com/dtnitsch/money-is-time/pkg/document"
	"github.com/dtnitsch/money-is-time/pkg/fetcher"
	"github.com/dtnitsch/money-is-time/pkg/parser"
	"github.com/dtnitsch/money-is-time/pkg/storage"
)

func AnnotateAction(c *cli.Context) error {
	logger := common.NewLogger(c)
	startTime := time.Now()

	if c.IsSet("url") == c.IsSet("file") {
		fmt.Fprintln(os.Stderr, "Error: exactly one of --url or --file is required")
		os.Exit(1)
	}

	svc, err := common.Setup(c, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(2)
	}
	defer svc.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	var (
		rawHTML []byte
		pageURL string
		domain  string
	)
	if c.IsSet("url") {
		pageURL, domain, err = common.ParseURL(c.String("url"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		rawHTML, err = fetcher.NewFetcher(svc.Config.Rates.Timeout).GetHtmlBytes(ctx, pageURL)
		if err != nil {
			logger.Error("failed to fetch page", "url", pageURL, "error", err)
			os.Exit(2)
		}
	} else {
		rawHTML, err = (&storage.Storage{}).ReadFile(c.String("file"))
		if err != nil {
			logger.Error("failed to read file", "file", c.String("file"), "error", err)
			os.Exit(2)
		}
	}

	p := &parser.Parser{}
	page, err := p.Page(pageURL, rawHTML)
	if err != nil {
		logger.Error("failed to parse page", "error", err)
		os.Exit(2)
	}
	if domain != "" {
		page.Domain = domain
	}
	if c.IsSet("domain") {
		page.Domain = c.String("domain")
	}

	doc, err := document.Load(bytes.NewReader(rawHTML))
	if err != nil {
		logger.Error("failed to load document", "error", err)
		os.Exit(2)
	}

	report, err := svc.Annotate(ctx, doc, page)
	switch {
	case errors.Is(err, annotator.ErrDisabled), errors.Is(err, annotator.ErrBlacklisted):
		logger.Info("Annotation skipped", "domain", page.Domain, "reason", err)
	case err != nil:
		logger.Error("annotation failed", "error", err)
		os.Exit(2)
	}

	if err := writeOutput(c.String("output"), doc); err != nil {
		logger.Error("failed to write output", "error", err)
		os.Exit(2)
	}

	if c.Bool("report") {
		// stdout carries the HTML unless --output names a file
		var w io.Writer = os.Stdout
		if c.String("output") == "" || c.String("output") == "-" {
			w = os.Stderr
		}
		if err := printReport(w, report); err != nil {
			logger.Error("failed to print report", "error", err)
			os.Exit(2)
		}
	}

	logger.Info("Annotation finished",
		"domain", page.Domain,
		"matches", report.Matches,
		"annotated", report.Annotated,
		"skipped", report.Skipped,
		"size", humanize.Bytes(uint64(len(rawHTML))),
		"took", time.Since(startTime).Round(time.Millisecond).String())

	return nil
}

func writeOutput(path string, doc *document.HTML) error {
	if path == "" || path == "-" {
		return doc.Render(os.Stdout)
	}
	files := &storage.Storage{}
	if err := files.SaveFile(path, []byte(doc.String())); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func printReport(w io.Writer, report models.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return enc.Close()
}
