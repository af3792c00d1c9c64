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
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gobwas/glob"
	"github.com/rs/zerolog/log"
)

var (
	// ErrBlockedByPolicy is returned when robots.txt disallows a URL.
	// It is a short-circuit, not a transport failure: no request is made
	// and no retry is attempted.
	ErrBlockedByPolicy = errors.New("URL blocked by robots.txt")
)

// HTTPStatusError reports a non-2xx response.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.StatusCode, e.URL)
}

// Document is the result of a successful fetch.
type Document struct {
	URL         string
	StatusCode  int
	Body        []byte
	ContentType string
	// ContentHash is the fingerprint of the normalized body, used by the
	// run store and for idempotence checks.
	ContentHash string
}

// DelayRule enforces a minimum delay between requests to domains matching a
// glob pattern.
type DelayRule struct {
	// DomainGlob is a glob pattern matched against request hostnames
	DomainGlob string
	// Delay is the minimum duration between requests to matching domains
	Delay time.Duration

	compiledGlob glob.Glob
	lastRequest  time.Time
}

// Init compiles the rule's domain pattern.
func (r *DelayRule) Init() error {
	if r.DomainGlob == "" {
		return errors.New("delay rule requires a domain glob")
	}
	g, err := glob.Compile(r.DomainGlob)
	if err != nil {
		return err
	}
	r.compiledGlob = g
	return nil
}

// Match checks whether the domain triggers the rule.
func (r *DelayRule) Match(domain string) bool {
	return r.compiledGlob != nil && r.compiledGlob.Match(domain)
}

// FetcherConfig is the immutable configuration for a Fetcher.
type FetcherConfig struct {
	// UserAgent sent with every request
	UserAgent string
	// AcceptLanguage sent with every request
	AcceptLanguage string
	// Timeout is the per-request timeout
	Timeout time.Duration
	// MaxAttempts is the total number of tries per Fetch call
	MaxAttempts int
	// RetryDelay is the fixed pause between attempts
	RetryDelay time.Duration
}

// NewDefaultFetcherConfig returns the stock fetch configuration: 10 second
// requests, 3 total attempts, 2 seconds between attempts.
func NewDefaultFetcherConfig() *FetcherConfig {
	return &FetcherConfig{
		UserAgent:      DefaultUserAgent,
		AcceptLanguage: "en-US,en;q=0.9",
		Timeout:        10 * time.Second,
		MaxAttempts:    3,
		RetryDelay:     2 * time.Second,
	}
}

// Fetcher performs permission-gated HTTP fetches with bounded retries.
type Fetcher struct {
	config *FetcherConfig
	client *http.Client
	rules  []*DelayRule
}

// NewFetcher creates a Fetcher. A nil config gets defaults.
func NewFetcher(config *FetcherConfig) *Fetcher {
	if config == nil {
		config = NewDefaultFetcherConfig()
	}
	return &Fetcher{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// SetClient replaces the underlying HTTP client. Used by tests to install a
// mock transport; the configured timeout is preserved if unset.
func (f *Fetcher) SetClient(client *http.Client) {
	if client.Timeout == 0 {
		client.Timeout = f.config.Timeout
	}
	f.client = client
}

// Limit registers a per-domain delay rule.
func (f *Fetcher) Limit(rule *DelayRule) error {
	if err := rule.Init(); err != nil {
		return err
	}
	f.rules = append(f.rules, rule)
	return nil
}

// Fetch retrieves a URL, consulting the policy before any network call.
// A disallowed URL returns ErrBlockedByPolicy immediately. Transport errors
// and non-2xx statuses are retried up to MaxAttempts with a fixed delay; the
// final failure is returned to the caller.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, policy *RobotsPolicy) (*Document, error) {
	if policy != nil && !policy.CanFetch(rawURL) {
		log.Info().Str("url", rawURL).Msg("skipping URL disallowed by robots.txt")
		return nil, ErrBlockedByPolicy
	}

	f.waitForRules(rawURL)

	var lastErr error
	for attempt := 1; attempt <= f.config.MaxAttempts; attempt++ {
		doc, err := f.doFetch(ctx, rawURL)
		if err == nil {
			return doc, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt < f.config.MaxAttempts {
			log.Warn().Err(err).Str("url", rawURL).Int("attempt", attempt).Msg("fetch failed, retrying")
			time.Sleep(f.config.RetryDelay)
		}
	}
	return nil, fmt.Errorf("fetch %s failed after %d attempts: %w", rawURL, f.config.MaxAttempts, lastErr)
}

func (f *Fetcher) doFetch(ctx context.Context, rawURL string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept-Language", f.config.AcceptLanguage)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPStatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Document{
		URL:         rawURL,
		StatusCode:  resp.StatusCode,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		ContentHash: ContentFingerprint(body),
	}, nil
}

// waitForRules sleeps out the remaining delay of the first matching rule.
func (f *Fetcher) waitForRules(rawURL string) {
	host := hostnameOf(rawURL)
	if host == "" {
		return
	}
	for _, r := range f.rules {
		if !r.Match(host) {
			continue
		}
		if elapsed := time.Since(r.lastRequest); elapsed < r.Delay {
			time.Sleep(r.Delay - elapsed)
		}
		r.lastRequest = time.Now()
		return
	}
}
