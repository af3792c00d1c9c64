// Copyright 2025 Agentic World, LLC (Sherin Thomas)
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

package courseminer

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/kennygrant/sanitize"
	"github.com/rs/zerolog/log"
)

// Run source labels recorded with each crawl run.
const (
	SourceAPI    = "api"
	SourceScrape = "scrape"
)

// RunSummary describes one completed crawl run for the history store.
type RunSummary struct {
	StartedAt         time.Time
	Duration          time.Duration
	Source            string
	CrawlabilityScore int
	CourseCount       int
	UnitCount         int
	LessonCount       int
}

// RunRecorder persists run history. Implementations live outside the core
// pipeline; a nil recorder disables history.
type RunRecorder interface {
	RecordRun(run RunSummary, courses []FlatCourse) error
}

// Config is the immutable configuration for an extraction run. All shared
// crawler state (headers, selectors, subjects) lives here rather than in
// process-wide variables.
type Config struct {
	// BaseURL is the site root
	BaseURL string
	// UserAgent identifies the crawler
	UserAgent string
	// SubjectPaths are the listing pages to scrape, relative to BaseURL
	SubjectPaths []string
	// OutputDir receives the persisted artifacts
	OutputDir string
	// Selectors is the CSS rule table, validated at construction
	Selectors *Selectors
	// RenderTimeout bounds each rendering-fallback session
	RenderTimeout time.Duration
	// DisableRendering skips the browser fallback entirely
	DisableRendering bool
	// Fetcher overrides the default fetch configuration
	Fetcher *FetcherConfig
	// DelayRules enforce per-domain minimum spacing between requests, on
	// top of the crawl-delay pauses between courses
	DelayRules []*DelayRule
}

// NewDefaultConfig returns the stock configuration for the default site.
func NewDefaultConfig() *Config {
	return &Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: DefaultUserAgent,
		SubjectPaths: []string{
			"/math",
			"/science",
			"/computing",
			"/humanities",
			"/economics-finance-domain",
			"/test-prep",
			"/college-careers-more",
		},
		OutputDir:     ".",
		Selectors:     NewDefaultSelectors(),
		RenderTimeout: 10 * time.Second,
		DelayRules: []*DelayRule{
			{DomainGlob: "*.khanacademy.org", Delay: time.Second},
		},
	}
}

// Extractor orchestrates a crawl run: policy phase, structured-source phase,
// scraping phase with rendering escalation, and persistence. Execution is
// strictly sequential; the only suspension points are crawl-delay sleeps and
// the bounded rendering wait.
type Extractor struct {
	config    *Config
	policy    *RobotsPolicy
	fetcher   *Fetcher
	renderer  *Renderer
	api       *APIClient
	artifacts *ArtifactWriter
	recorder  RunRecorder
}

// NewExtractor validates the configuration and builds the pipeline.
// If config is nil, default configuration is used.
func NewExtractor(config *Config) (*Extractor, error) {
	if config == nil {
		config = NewDefaultConfig()
	}
	if config.Selectors == nil {
		config.Selectors = NewDefaultSelectors()
	}
	if err := config.Selectors.Validate(); err != nil {
		return nil, err
	}

	artifacts, err := NewArtifactWriter(config.OutputDir)
	if err != nil {
		return nil, err
	}

	fetcherConfig := config.Fetcher
	if fetcherConfig == nil {
		fetcherConfig = NewDefaultFetcherConfig()
		fetcherConfig.UserAgent = config.UserAgent
	}

	e := &Extractor{
		config:    config,
		policy:    NewRobotsPolicy(config.BaseURL, config.UserAgent, nil),
		fetcher:   NewFetcher(fetcherConfig),
		api:       NewAPIClient(config.BaseURL, config.UserAgent, artifacts),
		artifacts: artifacts,
	}
	for _, rule := range config.DelayRules {
		if err := e.fetcher.Limit(rule); err != nil {
			return nil, fmt.Errorf("invalid delay rule %q: %w", rule.DomainGlob, err)
		}
	}
	if !config.DisableRendering {
		e.renderer = NewRenderer(config.RenderTimeout)
	}
	return e, nil
}

// SetRecorder attaches a run-history recorder.
func (e *Extractor) SetRecorder(r RunRecorder) {
	e.recorder = r
}

// Fetcher exposes the underlying fetcher for transport injection in tests.
func (e *Extractor) Fetcher() *Fetcher {
	return e.fetcher
}

// APIClient exposes the structured-source client for transport injection.
func (e *Extractor) APIClient() *APIClient {
	return e.api
}

// Policy exposes the policy parser for transport injection.
func (e *Extractor) Policy() *RobotsPolicy {
	return e.policy
}

// Close releases the rendering resources.
func (e *Extractor) Close() {
	if e.renderer != nil {
		e.renderer.Close()
	}
}

// Run executes one crawl. Expected failures (unreachable subjects, stale
// selectors, blocked URLs) are logged and skipped; partial results are always
// persisted. Only artifact I/O errors propagate.
func (e *Extractor) Run(ctx context.Context) error {
	started := time.Now()

	// Policy phase
	summary := e.policy.Parse(ctx)
	if err := e.artifacts.WriteRobotsAnalysis(summary); err != nil {
		return err
	}
	if urls := SitemapURLsFromPolicy(ctx, e.fetcher.client, summary); len(urls) > 0 {
		log.Info().Str("sitemap", summary.Sitemaps[0]).Int("urls", len(urls)).Msg("sitemap discovered")
	}

	// Source-selection phase: the API path is authoritative and exclusive.
	if e.api.CheckAvailability(ctx) {
		log.Info().Msg("content API is available, extracting via API")
		if e.api.ExtractToCSV(ctx) {
			e.record(RunSummary{
				StartedAt:         started,
				Duration:          time.Since(started),
				Source:            SourceAPI,
				CrawlabilityScore: summary.CrawlabilityScore,
			}, nil)
			return nil
		}
		log.Warn().Msg("API extraction failed, falling back to scraping")
	}

	// Scraping phase
	courses := e.scrapeSubjects(ctx)

	// Persistence phase: both artifacts are fully overwritten even when the
	// scrape was partial.
	if err := e.artifacts.WriteCourses(courses); err != nil {
		return err
	}
	flat := FlattenCourses(courses)
	if err := e.artifacts.WriteFlatCourses(flat); err != nil {
		return err
	}
	log.Info().Int("courses", len(courses)).Str("dir", e.artifacts.Dir()).Msg("persisted crawl artifacts")

	run := RunSummary{
		StartedAt:         started,
		Duration:          time.Since(started),
		Source:            SourceScrape,
		CrawlabilityScore: summary.CrawlabilityScore,
		CourseCount:       len(courses),
	}
	for _, f := range flat {
		run.UnitCount += f.UnitCount
		run.LessonCount += f.LessonCount
	}
	e.record(run, flat)
	return nil
}

func (e *Extractor) record(run RunSummary, courses []FlatCourse) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.RecordRun(run, courses); err != nil {
		log.Error().Err(err).Msg("failed to record crawl run")
	}
}

func (e *Extractor) scrapeSubjects(ctx context.Context) []Course {
	delay := e.policy.CrawlDelay()
	base := strings.TrimRight(e.config.BaseURL, "/")
	sel := e.config.Selectors

	var courses []Course
	for _, subjectPath := range e.config.SubjectPaths {
		if ctx.Err() != nil {
			break
		}
		subjectURL := base + subjectPath
		subject := strings.Trim(subjectPath, "/")
		log.Info().Str("subject", subjectURL).Msg("scraping subject")

		doc, _, err := e.loadDocument(ctx, subjectURL, sel.CourseCard)
		if err != nil {
			log.Warn().Err(err).Str("url", subjectURL).Str("phase", "subject").Msg("failed to load subject listing")
			continue
		}

		cards := doc.Find(sel.CourseCard)
		if cards.Length() == 0 {
			logSelectorWarning("course_card", subjectURL)
			continue
		}

		cards.Each(func(_ int, card *goquery.Selection) {
			course, ok := e.extractCourseCard(ctx, card, subjectURL, subject)
			if !ok {
				return
			}
			courses = append(courses, course)
			sleepCtx(ctx, delay)
		})

		sleepCtx(ctx, delay)
	}
	return courses
}

// extractCourseCard pulls title/url/description from one listing card and
// recurses into the course page for its unit structure. A card missing its
// title or link element is skipped without affecting siblings.
func (e *Extractor) extractCourseCard(ctx context.Context, card *goquery.Selection, subjectURL, subject string) (Course, bool) {
	sel := e.config.Selectors

	titleElem := card.Find(sel.CourseTitle)
	linkElem := card.Find(sel.CourseLink)
	if titleElem.Length() == 0 || linkElem.Length() == 0 {
		log.Debug().Str("subject", subject).Msg("skipping course card with missing title or link")
		return Course{}, false
	}

	href, _ := linkElem.First().Attr("href")
	courseURL := absoluteURL(subjectURL, href)
	if courseURL == "" {
		return Course{}, false
	}

	title := cleanText(titleElem.First())
	description := ""
	if descElem := card.Find(sel.CourseDescription); descElem.Length() > 0 {
		description = cleanText(descElem.First())
	}

	log.Info().Str("course", title).Msg("extracting course")
	units, hash := e.extractCourseDetails(ctx, courseURL)

	return Course{
		Title:       title,
		URL:         courseURL,
		Description: description,
		Subject:     subject,
		Units:       units,
		ContentHash: hash,
	}, true
}

// extractCourseDetails fetches a course page and parses its unit/lesson
// structure, escalating to the renderer when the unit container is absent
// from the static document. It also returns the page fingerprint so the
// course record can carry it.
func (e *Extractor) extractCourseDetails(ctx context.Context, courseURL string) ([]Unit, string) {
	sel := e.config.Selectors

	doc, hash, err := e.loadDocument(ctx, courseURL, sel.UnitContainer)
	if err != nil {
		log.Warn().Err(err).Str("url", courseURL).Str("phase", "course").Msg("failed to load course page")
		return []Unit{}, ""
	}

	containers := doc.Find(sel.UnitContainer)
	if containers.Length() == 0 {
		logSelectorWarning("unit_container", courseURL)
		return []Unit{}, hash
	}

	units := []Unit{}
	containers.Each(func(_ int, container *goquery.Selection) {
		unitTitle := "Untitled Unit"
		if titleElem := container.Find(sel.UnitTitle); titleElem.Length() > 0 {
			unitTitle = cleanText(titleElem.First())
		}

		lessons := []Lesson{}
		container.Find(sel.LessonItem).Each(func(_ int, item *goquery.Selection) {
			titleElem := item.Find(sel.LessonTitle)
			linkElem := item.Find(sel.LessonLink)
			if titleElem.Length() == 0 || linkElem.Length() == 0 {
				return
			}

			lessonURL := ""
			if href, ok := linkElem.First().Attr("href"); ok {
				lessonURL = absoluteURL(courseURL, href)
			}

			lessonType := LessonUnknown
			if typeElem := item.Find(sel.LessonType); typeElem.Length() > 0 {
				lessonType = ParseLessonType(typeElem.First().Text())
			}

			lessons = append(lessons, Lesson{
				Title: cleanText(titleElem.First()),
				URL:   lessonURL,
				Type:  lessonType,
			})
		})

		units = append(units, Unit{Title: unitTitle, Lessons: lessons})
	})
	return units, hash
}

// loadDocument fetches a URL statically and escalates to the rendering
// fallback when the marker selector matches nothing, indicating a
// script-rendered page. Rendering failures keep the static document. The
// second return value is the fingerprint of whichever document was kept.
func (e *Extractor) loadDocument(ctx context.Context, rawURL, marker string) (*goquery.Document, string, error) {
	fetched, err := e.fetcher.Fetch(ctx, rawURL, e.policy)
	if err != nil {
		return nil, "", err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(fetched.Body))
	if err != nil {
		return nil, "", err
	}

	if doc.Find(marker).Length() > 0 || e.renderer == nil {
		return doc, fetched.ContentHash, nil
	}

	log.Info().Str("url", rawURL).Msg("static fetch found no matching content, trying browser rendering")
	rendered, err := e.renderer.RenderAndFetch(ctx, rawURL, e.policy)
	if err != nil {
		// Unavailable or failed rendering is equivalent to "found nothing";
		// keep the static document and let the caller report staleness.
		log.Warn().Err(err).Str("url", rawURL).Str("phase", "render").Msg("rendering fallback failed")
		return doc, fetched.ContentHash, nil
	}

	renderedDoc, err := goquery.NewDocumentFromReader(strings.NewReader(rendered.HTML))
	if err != nil {
		log.Warn().Err(err).Str("url", rawURL).Msg("failed to parse rendered document")
		return doc, fetched.ContentHash, nil
	}
	return renderedDoc, rendered.ContentHash, nil
}

// cleanText strips markup and collapses whitespace in extracted node text.
func cleanText(s *goquery.Selection) string {
	html, err := s.Html()
	if err != nil {
		return strings.TrimSpace(s.Text())
	}
	text := sanitize.HTML(html)
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}

func logSelectorWarning(name, url string) {
	log.Warn().Str("selector", name).Str("url", url).
		Msg("selector matched nothing, page structure may have changed")
}

// sleepCtx pauses for the crawl delay, returning early on cancellation.
func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
