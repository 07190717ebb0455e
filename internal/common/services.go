package common

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/money-is-time/models"
	"github.com/dtnitsch/money-is-time/pkg/annotator"
	"github.com/dtnitsch/money-is-time/pkg/caching"
	"github.com/dtnitsch/money-is-time/pkg/db"
	"github.com/dtnitsch/money-is-time/pkg/document"
	"github.com/dtnitsch/money-is-time/pkg/normalizer"
	"github.com/dtnitsch/money-is-time/pkg/rates"
	"github.com/dtnitsch/money-is-time/pkg/scanner"
	"github.com/dtnitsch/money-is-time/pkg/settings"
	"github.com/dtnitsch/money-is-time/pkg/translations"
)

// Services holds everything a command needs, built once per invocation.
type Services struct {
	Config       models.RuntimeConfig
	Logger       *slog.Logger
	DB           *db.DB
	Settings     *settings.Store
	Rates        *rates.Cache
	Translations *translations.Bundle
	Detector     *translations.Detector
	Scanner      *scanner.Scanner
}

// Setup loads the configuration named by --config, applies the global flag
// overrides and opens the database.
func Setup(c *cli.Context, logger *slog.Logger) (*Services, error) {
	cfg, err := LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}
	if c.IsSet("cache-dir") {
		cfg.CacheDir = c.String("cache-dir")
	}
	return NewServices(cfg, logger)
}

// NewServices wires the components for cfg.
func NewServices(cfg models.RuntimeConfig, logger *slog.Logger) (*Services, error) {
	policy, err := normalizer.ParsePolicy(cfg.Normalizer)
	if err != nil {
		return nil, err
	}

	database, err := db.OpenPath(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store, err := caching.NewSnapshotStore(cfg.CacheDir, cfg.Rates.TTL)
	if err != nil {
		_ = database.Close()
		return nil, err
	}

	bundle, err := translations.New(logger)
	if err != nil {
		_ = database.Close()
		return nil, err
	}

	provider := rates.NewStoredProvider(rates.NewHTTPProvider(cfg.Rates.APIURL, cfg.Rates.Timeout), store, logger)
	cache := rates.NewCache(provider, logger,
		rates.WithTTL(cfg.Rates.TTL),
		rates.WithFailureTTL(cfg.Rates.FailureTTL),
		rates.WithSize(cfg.Rates.CacheSize),
	)

	return &Services{
		Config:       cfg,
		Logger:       logger,
		DB:           database,
		Settings:     settings.NewStore(database),
		Rates:        cache,
		Translations: bundle,
		Detector:     translations.NewDetector(bundle.Languages()),
		Scanner:      scanner.New(scanner.DefaultVocabulary(), normalizer.New(policy)),
	}, nil
}

// Close releases the database.
func (s *Services) Close() {
	if err := s.DB.Close(); err != nil {
		s.Logger.Warn("failed to close database", "error", err)
	}
}

// NewAnnotator builds an annotator over doc. The "auto" language setting is
// resolved against page.
func (s *Services) NewAnnotator(doc *document.HTML, page models.Page, opts ...annotator.Option) *annotator.Annotator {
	base := []annotator.Option{
		annotator.WithLogger(s.Logger),
		annotator.WithConfig(s.Config.Annotator),
		annotator.WithLanguageResolver(func(setting string) string {
			return translations.Resolve(setting, page, s.Translations, s.Detector)
		}),
	}
	return annotator.New(doc, document.NewClassMarker(doc), s.Scanner, s.Rates,
		s.Settings, s.Translations, append(base, opts...)...)
}

// Annotate runs one annotator pass over doc until it settles, records the
// scan and returns the report. A disabled or excluded site yields an empty
// report and the refusal error.
func (s *Services) Annotate(ctx context.Context, doc *document.HTML, page models.Page) (models.Report, error) {
	report := models.Report{Page: page, ScannedAt: time.Now()}

	a := s.NewAnnotator(doc, page)
	if err := a.Start(ctx, page.Domain); err != nil {
		return report, err
	}
	defer a.Stop()

	if err := a.Drain(ctx); err != nil {
		return report, fmt.Errorf("failed waiting for annotations: %w", err)
	}

	report.Annotations = a.Annotations()
	report.Matches = len(report.Annotations)
	for _, ann := range report.Annotations {
		if ann.Err != nil {
			report.Skipped++
			continue
		}
		report.Annotated++
	}

	if err := s.Record(report); err != nil {
		s.Logger.Warn("failed to record scan", "error", err)
	}
	return report, nil
}

// Record stores report in the scan history.
func (s *Services) Record(report models.Report) error {
	scanID, err := s.DB.RecordScan(report.Page.URL, report.Page.Domain, report.Matches, report.Annotated)
	if err != nil {
		return err
	}
	for _, ann := range report.Annotations {
		if ann.Err != nil {
			continue
		}
		if _, err := s.DB.RecordAnnotation(db.AnnotationRecord{
			ScanID:         scanID,
			AmountRaw:      ann.Match.AmountRaw,
			Amount:         ann.Match.Amount.String(),
			Currency:       ann.Match.CurrencyCode,
			Converted:      ann.Converted,
			TargetCurrency: ann.TargetCurrency,
			Label:          ann.Label,
		}); err != nil {
			return err
		}
	}
	return nil
}
