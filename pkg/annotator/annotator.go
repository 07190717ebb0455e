// Package annotator finds prices in a document and inserts a badge with the
// labour time each price costs the viewer.
package annotator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/romdo/go-debounce"

	"github.com/dtnitsch/money-is-time/models"
	"github.com/dtnitsch/money-is-time/pkg/document"
	"github.com/dtnitsch/money-is-time/pkg/duration"
	"github.com/dtnitsch/money-is-time/pkg/scanner"
	"github.com/dtnitsch/money-is-time/pkg/settings"
	"github.com/dtnitsch/money-is-time/pkg/translations"
)

var (
	// ErrDisabled is returned by Start when annotation is switched off.
	ErrDisabled = errors.New("annotation disabled")
	// ErrBlacklisted is returned by Start when the domain is excluded.
	ErrBlacklisted = errors.New("domain excluded from annotation")
	// ErrAlreadyStarted is returned by a second Start.
	ErrAlreadyStarted = errors.New("annotator already started")
)

// RateSource converts between currencies. The returned multiplier turns an
// amount in from into an amount in to.
type RateSource interface {
	Rate(ctx context.Context, from, to string) (float64, error)
}

// ScanResult summarises one pass over the document.
type ScanResult struct {
	TextNodes int
	Skipped   int
	Matched   int
}

// Option configures an Annotator.
type Option func(*Annotator)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Annotator) { a.logger = logger }
}

// WithConfig sets scheduling and density parameters.
func WithConfig(cfg models.AnnotatorConfig) Option {
	return func(a *Annotator) { a.cfg = cfg }
}

// WithLanguageResolver maps the language setting to the language used for
// unit names, e.g. to resolve "auto" against the page.
func WithLanguageResolver(fn func(setting string) string) Option {
	return func(a *Annotator) { a.resolveLanguage = fn }
}

// OnAnnotation registers a hook called once per attempted annotation,
// successful or not. It runs on the annotating goroutine.
func OnAnnotation(fn func(models.Annotation)) Option {
	return func(a *Annotator) { a.onAnnotation = fn }
}

// Annotator watches one document.
type Annotator struct {
	doc      document.Document
	marker   document.Marker
	scanner  *scanner.Scanner
	rates    RateSource
	settings settings.Provider
	units    translations.Provider

	logger          *slog.Logger
	cfg             models.AnnotatorConfig
	resolveLanguage func(string) string
	onAnnotation    func(models.Annotation)

	mu             sync.Mutex
	started        bool
	stopped        bool
	ctx            context.Context
	cancel         context.CancelFunc
	current        models.Settings
	names          models.UnitNames
	formatter      *duration.Formatter
	timer          *time.Timer
	unobserve      func()
	cancelDebounce func()

	scanMu    sync.Mutex
	pending   atomic.Bool
	busy      atomic.Int32
	scans     atomic.Int64
	firstScan chan struct{}
	firstOnce sync.Once
	done      chan struct{}

	flightMu   sync.Mutex
	flightCond *sync.Cond
	inflight   int

	resultsMu sync.Mutex
	results   []models.Annotation
}

// New returns an Annotator. Nothing happens until Start.
func New(
	doc document.Document,
	marker document.Marker,
	sc *scanner.Scanner,
	rates RateSource,
	settingsProvider settings.Provider,
	units translations.Provider,
	opts ...Option,
) *Annotator {
	a := &Annotator{
		doc:             doc,
		marker:          marker,
		scanner:         sc,
		rates:           rates,
		settings:        settingsProvider,
		units:           units,
		logger:          slog.Default(),
		cfg:             models.DefaultRuntimeConfig().Annotator,
		resolveLanguage: func(s string) string { return s },
		firstScan:       make(chan struct{}),
		done:            make(chan struct{}),
	}
	a.flightCond = sync.NewCond(&a.flightMu)
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Start reads the settings once and, if annotation is allowed on domain,
// schedules the initial scan and starts observing mutations. When Start
// returns an error no scan is scheduled and no observer is registered.
func (a *Annotator) Start(ctx context.Context, domain string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.started {
		return ErrAlreadyStarted
	}

	s, err := a.settings.Settings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if !s.Enabled {
		return ErrDisabled
	}
	if s.Blacklisted(domain) {
		return fmt.Errorf("%w: %s", ErrBlacklisted, domain)
	}

	lang := a.resolveLanguage(s.Language)
	a.current = s
	a.names = a.units.Units(lang)
	a.formatter = duration.NewFormatter(lang)
	a.ctx, a.cancel = context.WithCancel(ctx)

	debounced, cancelDebounce := debounce.NewWithMaxWait(a.cfg.Debounce, a.cfg.MaxWait, a.flush)
	a.cancelDebounce = cancelDebounce
	a.unobserve = a.doc.Observe(func() {
		a.pending.Store(true)
		debounced()
	})
	a.timer = time.AfterFunc(a.cfg.InitialDelay, func() { a.Scan() })
	a.started = true

	a.logger.Debug("Annotator started",
		"domain", domain,
		"language", lang,
		"currency", s.Salary.Currency,
		"initial_delay", a.cfg.InitialDelay)
	return nil
}

// flush runs a scan for mutations observed since the last one.
func (a *Annotator) flush() {
	a.busy.Add(1)
	defer a.busy.Add(-1)
	if a.pending.CompareAndSwap(true, false) {
		a.Scan()
	}
}

// Scan walks a snapshot of the document once. Each unmarked text node that
// holds a currency indicator is matched; the first valid price marks the
// parent element before its annotation starts in the background. Scan
// returns immediately after the walk.
func (a *Annotator) Scan() ScanResult {
	a.mu.Lock()
	if !a.started || a.stopped {
		a.mu.Unlock()
		return ScanResult{}
	}
	ctx := a.ctx
	a.mu.Unlock()

	a.busy.Add(1)
	defer a.busy.Add(-1)
	a.scanMu.Lock()
	defer a.scanMu.Unlock()
	a.scans.Add(1)
	defer a.firstOnce.Do(func() { close(a.firstScan) })

	var res ScanResult
	for _, node := range a.doc.TextNodes() {
		res.TextNodes++
		if ctx.Err() != nil {
			break
		}
		if a.marker.Marked(node.Parent) || !a.scanner.HasIndicator(node.Text) {
			res.Skipped++
			continue
		}

		match, ok := a.scanner.First(node.Text)
		if !ok {
			continue
		}

		a.logger.Debug("Found price",
			"text", match.Text,
			"amount", match.Amount.String(),
			"currency", match.CurrencyCode)

		a.marker.Mark(node.Parent)
		res.Matched++

		el := node.Parent
		a.flightMu.Lock()
		a.inflight++
		a.flightMu.Unlock()
		go func() {
			defer a.finish()
			a.annotate(ctx, el, match)
		}()
	}
	return res
}

func (a *Annotator) annotate(ctx context.Context, el document.Element, match models.PriceMatch) {
	a.mu.Lock()
	salary := a.current.Salary
	names := a.names
	formatter := a.formatter
	a.mu.Unlock()

	ann := models.Annotation{Match: match, TargetCurrency: salary.Currency}
	defer func() { a.record(ann) }()

	rate, err := a.rates.Rate(ctx, match.CurrencyCode, salary.Currency)
	if err != nil {
		a.logger.Warn("No rate found",
			"from", match.CurrencyCode,
			"to", salary.Currency,
			"error", err)
		ann.Err = err
		return
	}
	ann.Rate = rate
	ann.Converted = match.Amount.InexactFloat64() * rate

	breakdown, err := duration.Convert(ann.Converted, salary)
	if err != nil {
		a.logger.Warn("Cannot convert price to work time",
			"amount", ann.Converted,
			"currency", salary.Currency,
			"error", err)
		ann.Err = err
		return
	}
	ann.Breakdown = breakdown
	ann.Compact = duration.Compact(a.marker.Count(), a.cfg.CompactThreshold)
	ann.Label = formatter.Format(breakdown, names, ann.Compact)

	if err := ctx.Err(); err != nil {
		ann.Err = err
		return
	}
	if err := a.doc.InsertBadge(el, ann.Label); err != nil {
		a.logger.Warn("Failed to insert badge", "text", match.Text, "error", err)
		ann.Err = err
		return
	}

	a.logger.Info("Annotated",
		"amount", match.Amount.String(),
		"currency", match.CurrencyCode,
		"label", ann.Label)
}

func (a *Annotator) record(ann models.Annotation) {
	if ann.Err != nil {
		ann.Error = ann.Err.Error()
	}

	a.resultsMu.Lock()
	a.results = append(a.results, ann)
	a.resultsMu.Unlock()

	if a.onAnnotation != nil {
		a.onAnnotation(ann)
	}
}

func (a *Annotator) finish() {
	a.flightMu.Lock()
	a.inflight--
	if a.inflight == 0 {
		a.flightCond.Broadcast()
	}
	a.flightMu.Unlock()
}

// Wait blocks until no annotation is in flight.
func (a *Annotator) Wait() {
	a.flightMu.Lock()
	for a.inflight > 0 {
		a.flightCond.Wait()
	}
	a.flightMu.Unlock()
}

// Drain waits for the initial scan, then until no scan is running or
// pending and no annotation is in flight. Badges inserted by the last
// annotations trigger one more debounced scan, which Drain also waits for.
func (a *Annotator) Drain(ctx context.Context) error {
	select {
	case <-a.firstScan:
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}

	for {
		a.Wait()
		// order matters: a flush raises busy before clearing pending, and
		// a scan counts an annotation in flight before lowering busy
		if !a.pending.Load() && a.busy.Load() == 0 && a.inFlight() == 0 {
			return nil
		}
		select {
		case <-a.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(drainPoll):
		}
	}
}

const drainPoll = 10 * time.Millisecond

func (a *Annotator) inFlight() int {
	a.flightMu.Lock()
	defer a.flightMu.Unlock()
	return a.inflight
}

// Pending reports whether a mutation is waiting for the debounced scan.
func (a *Annotator) Pending() bool {
	return a.pending.Load()
}

// Scans returns the number of scans run so far.
func (a *Annotator) Scans() int {
	return int(a.scans.Load())
}

// Annotations returns a copy of every annotation attempted so far, in
// completion order.
func (a *Annotator) Annotations() []models.Annotation {
	a.resultsMu.Lock()
	defer a.resultsMu.Unlock()
	out := make([]models.Annotation, len(a.results))
	copy(out, a.results)
	return out
}

// Stop cancels the initial scan, the observer, any pending debounced scan
// and in-flight annotations. Badges not yet inserted are dropped. Stop is
// idempotent.
func (a *Annotator) Stop() {
	a.mu.Lock()
	if !a.started || a.stopped {
		a.mu.Unlock()
		return
	}
	a.stopped = true
	timer, unobserve, cancelDebounce, cancel := a.timer, a.unobserve, a.cancelDebounce, a.cancel
	a.mu.Unlock()

	// released first: a debounced scan in progress needs a.mu to finish
	timer.Stop()
	unobserve()
	cancelDebounce()
	cancel()
	a.pending.Store(false)
	close(a.done)

	a.logger.Debug("Annotator stopped", "scans", a.scans.Load())
}
