package kastden

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kpopnet/crawler/internal/metrics"
	"github.com/kpopnet/crawler/internal/profile"
	"github.com/kpopnet/crawler/internal/thumbs"
)

// Context keys attached to derived colly requests.
const (
	ctxKind     = "kind"
	ctxThumbSet = "thumb_set"

	kindThumb = "thumb"
)

// Spider drives one full crawl of the profile database. Pages stream in
// through colly's async worker pool; provisional records accumulate in two
// append-only collections until the crawl settles, then a single
// resolve/validate/emit pass produces the dataset. Any fatal error aborts
// the whole run with no output.
type Spider struct {
	cfg       Config
	overrides profile.Overrides
	thumbs    *thumbs.Store
	emitter   *profile.Emitter
	validator *profile.Validator
	logger    *zap.Logger
	collector *colly.Collector

	mu     sync.Mutex
	idols  []*profile.IdolDraft
	groups []*profile.Group
	runErr error
}

// New builds a Spider from its collaborators. The collector dedupes the
// group fan-out (the same group URL reached from many idols is fetched
// once) and Wait covers every derived fetch, thumbnails included.
func New(cfg Config, overrides profile.Overrides, store *thumbs.Store, logger *zap.Logger) (*Spider, error) {
	sourceBase, err := cfg.SourceBase()
	if err != nil {
		return nil, err
	}

	collector := colly.NewCollector(
		colly.AllowedDomains(cfg.AllowedDomains...),
		colly.UserAgent(cfg.UserAgent),
		colly.MaxDepth(cfg.MaxDepth),
		colly.Async(true),
	)
	collector.AllowURLRevisit = false
	collector.SetRequestTimeout(cfg.RequestTimeout)
	if err := collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: cfg.Concurrency,
		Delay:       cfg.Delay,
	}); err != nil {
		return nil, fmt.Errorf("set collector limits: %w", err)
	}

	s := &Spider{
		cfg:       cfg,
		overrides: overrides,
		thumbs:    store,
		emitter:   profile.NewEmitter(cfg.OutputJSON, cfg.OutputMinJSON, logger),
		validator: profile.NewValidator(sourceBase),
		logger:    logger,
		collector: collector,
	}
	collector.OnResponse(s.handleResponse)
	collector.OnError(s.handleFetchError)
	return s, nil
}

// Run performs the crawl and, on success, writes the dataset files and
// returns the final profiles. It returns the first fatal error otherwise;
// no output is produced on any failure.
func (s *Spider) Run(ctx context.Context) (*profile.Profiles, error) {
	runID := uuid.NewString()
	s.logger.Info("Starting crawl",
		zap.String("run_id", runID),
		zap.String("start_url", s.cfg.StartURL),
	)

	if err := s.emitter.Cleanup(); err != nil {
		return nil, err
	}
	if err := s.collector.Visit(s.cfg.StartURL); err != nil {
		return nil, fmt.Errorf("visit start URL: %w", err)
	}
	s.collector.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	runErr := s.runErr
	idols, groups := s.idols, s.groups
	s.mu.Unlock()
	if runErr != nil {
		return nil, runErr
	}

	s.logger.Info("Crawl settled, resolving relationships",
		zap.String("run_id", runID),
		zap.Int("idols", len(idols)),
		zap.Int("groups", len(groups)),
	)
	profiles, err := profile.Resolve(idols, groups)
	if err != nil {
		return nil, err
	}
	if err := s.validator.ValidateAll(profiles); err != nil {
		return nil, err
	}
	if err := s.emitter.Emit(profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (s *Spider) handleResponse(r *colly.Response) {
	if s.failed() {
		return
	}
	if r.Ctx.Get(ctxKind) == kindThumb {
		s.handleThumb(r)
		return
	}

	path := r.Request.URL.Path
	switch {
	case strings.HasPrefix(path, "/noona/idol/"):
		s.handleIdol(r)
	case strings.HasPrefix(path, "/noona/group/"):
		s.handleGroup(r)
	case strings.HasPrefix(path, "/noona/search/"):
		s.handleSearch(r)
	default:
		s.logger.Debug("Ignoring page", zap.String("url", r.Request.URL.String()))
	}
}

// handleSearch seeds the crawl with every idol detail link on the listing.
func (s *Spider) handleSearch(r *colly.Response) {
	doc, err := parseDoc(r)
	if err != nil {
		s.fail(err)
		return
	}
	metrics.ObservePage("search")
	doc.Find(".cell_line a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if strings.HasPrefix(href, "/noona/idol/") {
			s.visit(r, href)
		}
	})
}

func (s *Spider) handleIdol(r *colly.Response) {
	doc, err := parseDoc(r)
	if err != nil {
		s.fail(err)
		return
	}
	ext, err := extractIdol(doc, r.Request.URL.String())
	if err != nil {
		s.fail(fmt.Errorf("idol page %s: %w", r.Request.URL, err))
		return
	}
	if err := ext.draft.Idol.Normalize(s.overrides.Idols); err != nil {
		s.fail(fmt.Errorf("idol page %s: %w", r.Request.URL, err))
		return
	}
	metrics.ObservePage("idol")

	s.mu.Lock()
	s.idols = append(s.idols, ext.draft)
	s.mu.Unlock()

	for _, follow := range ext.follows {
		s.visit(r, follow)
	}
	if ext.thumb != "" {
		idol := ext.draft.Idol
		s.fetchThumb(ext.thumb, func(thumbURL string) {
			idol.ThumbURL = &thumbURL
		})
	}
}

func (s *Spider) handleGroup(r *colly.Response) {
	doc, err := parseDoc(r)
	if err != nil {
		s.fail(err)
		return
	}
	ext, err := extractGroup(doc, r.Request.URL.String())
	if err != nil {
		s.fail(fmt.Errorf("group page %s: %w", r.Request.URL, err))
		return
	}
	if err := ext.group.Normalize(s.overrides.Groups); err != nil {
		s.fail(fmt.Errorf("group page %s: %w", r.Request.URL, err))
		return
	}
	metrics.ObservePage("group")

	s.mu.Lock()
	s.groups = append(s.groups, ext.group)
	s.mu.Unlock()

	for _, follow := range ext.follows {
		s.visit(r, follow)
	}
	if ext.thumb != "" {
		group := ext.group
		s.fetchThumb(ext.thumb, func(thumbURL string) {
			group.ThumbURL = &thumbURL
		})
	}
}

// handleThumb stores the downloaded image and attaches the resulting URL to
// its record. The write is guarded because resolution only starts after
// Wait, but sibling callbacks are still running now.
func (s *Spider) handleThumb(r *colly.Response) {
	set, ok := r.Ctx.GetAny(ctxThumbSet).(func(string))
	if !ok {
		s.fail(fmt.Errorf("thumbnail response %s without a target record", r.Request.URL))
		return
	}
	thumbURL, err := s.thumbs.Put(r.Body)
	if err != nil {
		s.fail(fmt.Errorf("thumbnail %s: %w", r.Request.URL, err))
		return
	}
	metrics.ObserveThumb()
	s.mu.Lock()
	set(thumbURL)
	s.mu.Unlock()
}

// fetchThumb schedules the image side-load. It is fire-and-forget relative
// to the page parse; collector.Wait tracks it to completion.
func (s *Spider) fetchThumb(thumbURL string, set func(string)) {
	ctx := colly.NewContext()
	ctx.Put(ctxKind, kindThumb)
	ctx.Put(ctxThumbSet, set)
	if err := s.collector.Request("GET", thumbURL, nil, ctx, nil); err != nil &&
		!errors.Is(err, colly.ErrAlreadyVisited) {
		s.fail(fmt.Errorf("schedule thumbnail %s: %w", thumbURL, err))
	}
}

func (s *Spider) visit(r *colly.Response, href string) {
	err := r.Request.Visit(href)
	if err == nil || errors.Is(err, colly.ErrAlreadyVisited) {
		return
	}
	s.fail(fmt.Errorf("schedule %s: %w", href, err))
}

func (s *Spider) handleFetchError(r *colly.Response, err error) {
	s.fail(fmt.Errorf("fetch %s (status %d): %w", r.Request.URL, r.StatusCode, err))
}

// fail records the first fatal error. Later responses are still drained by
// the collector but no longer processed, and Run reports the error after
// Wait returns.
func (s *Spider) fail(err error) {
	metrics.ObserveError()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runErr == nil {
		s.runErr = err
		s.logger.Error("Aborting crawl", zap.Error(err))
	}
}

func (s *Spider) failed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runErr != nil
}

func parseDoc(r *colly.Response) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
	if err != nil {
		return nil, fmt.Errorf("parse HTML %s: %w", r.Request.URL, err)
	}
	return doc, nil
}
