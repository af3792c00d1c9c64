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
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/temoto/robotstxt"
)

// DefaultBaseURL is the site this tool was built around. The crawlability
// score has a documented quirk for this host (see computeScore).
const DefaultBaseURL = "https://www.khanacademy.org"

// DefaultUserAgent identifies the crawler in requests and robots.txt checks.
const DefaultUserAgent = "KhanAcademyResearchBot/1.0"

// PolicySummary is the persisted view of a parsed robots.txt file.
// It is immutable once Parse returns.
type PolicySummary struct {
	AllowedPaths      []string `json:"allowed_paths"`
	DisallowedPaths   []string `json:"disallowed_paths"`
	Sitemaps          []string `json:"sitemaps"`
	CrawlDelay        *float64 `json:"crawl_delay"`
	CrawlabilityScore int      `json:"crawlability_score"`
}

// RobotsPolicy fetches and interprets a site's robots.txt. Parse never fails:
// any fetch or parse error substitutes a fixed default policy so crawling can
// proceed. Permission checks delegate to the robotstxt matcher, which applies
// longest-match precedence over Allow/Disallow rules.
type RobotsPolicy struct {
	baseURL   string
	userAgent string
	client    *http.Client

	data    *robotstxt.RobotsData
	summary PolicySummary
	parsed  bool
}

var (
	sitemapLinePattern = regexp.MustCompile(`(?i)Sitemap:\s*(\S+)`)
	crawlDelayPattern  = regexp.MustCompile(`(?i)Crawl-delay:\s*(\d+)`)
)

// NewRobotsPolicy creates a policy parser for the given site. A nil client
// gets a default one with a 10 second timeout.
func NewRobotsPolicy(baseURL, userAgent string, client *http.Client) *RobotsPolicy {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RobotsPolicy{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client:    client,
	}
}

// SetClient replaces the HTTP client (used by tests).
func (p *RobotsPolicy) SetClient(client *http.Client) {
	p.client = client
}

// Parse fetches and analyzes robots.txt. It always succeeds: network and
// parse errors are recovered locally by substituting the default policy.
func (p *RobotsPolicy) Parse(ctx context.Context) PolicySummary {
	robotsURL := p.baseURL + "/robots.txt"

	body, err := p.fetchRobots(ctx, robotsURL)
	if err != nil {
		log.Warn().Err(err).Str("url", robotsURL).Msg("failed to fetch robots.txt, using default policy")
		p.useDefaults()
		return p.summary
	}

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		log.Warn().Err(err).Str("url", robotsURL).Msg("failed to parse robots.txt, using default policy")
		p.useDefaults()
		return p.summary
	}
	p.data = data

	content := string(body)
	p.summary = PolicySummary{
		AllowedPaths:    directivePaths(content, "Allow:"),
		DisallowedPaths: directivePaths(content, "Disallow:"),
		Sitemaps:        sitemapURLs(content),
		CrawlDelay:      crawlDelaySeconds(data, p.userAgent, content),
	}
	p.summary.CrawlabilityScore = p.computeScore()
	p.parsed = true

	log.Info().
		Int("score", p.summary.CrawlabilityScore).
		Int("allowed", len(p.summary.AllowedPaths)).
		Int("disallowed", len(p.summary.DisallowedPaths)).
		Int("sitemaps", len(p.summary.Sitemaps)).
		Msg("parsed robots.txt")
	return p.summary
}

func (p *RobotsPolicy) fetchRobots(ctx context.Context, robotsURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("robots.txt returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// CanFetch reports whether the policy allows crawling the given URL. Robots
// rules are path patterns, so only the path and query of an absolute URL are
// matched; a bare path string is matched as-is.
func (p *RobotsPolicy) CanFetch(rawURL string) bool {
	if p.data == nil {
		return true
	}
	path := rawURL
	if u, err := urlParser.Parse(rawURL); err == nil {
		path = u.Pathname() + u.Search()
	}
	if path == "" {
		path = "/"
	}
	return p.data.TestAgent(path, p.userAgent)
}

// CrawlDelay returns the delay between requests, defaulting to 1 second when
// robots.txt does not specify one.
func (p *RobotsPolicy) CrawlDelay() time.Duration {
	if p.summary.CrawlDelay == nil || *p.summary.CrawlDelay <= 0 {
		return time.Second
	}
	return time.Duration(*p.summary.CrawlDelay * float64(time.Second))
}

// Summary returns the analysis produced by Parse.
func (p *RobotsPolicy) Summary() PolicySummary {
	return p.summary
}

// computeScore derives the 0-100 crawlability score:
//
//	+20 base for a parseable robots.txt
//	+20 if at least one sitemap is declared
//	+floor(30 * allowed/(allowed+disallowed)), or flat +30 with no rules
//	+30/+20/+10/+5 for delay <=1s (or unset) / <=5s / <=10s / more
//
// The known-site override comes last and wins: when the target is the default
// host with zero Allow rules and at least one Disallow rule, the score is
// forced to exactly 70. The default-policy fallback hard-codes the same 70
// through its own path, so both must stay in sync.
func (p *RobotsPolicy) computeScore() int {
	score := 20

	if len(p.summary.Sitemaps) > 0 {
		score += 20
	}

	totalRules := len(p.summary.AllowedPaths) + len(p.summary.DisallowedPaths)
	if totalRules > 0 {
		ratio := float64(len(p.summary.AllowedPaths)) / float64(totalRules)
		score += int(ratio * 30)
	} else {
		score += 30
	}

	switch delay := p.summary.CrawlDelay; {
	case delay == nil || *delay <= 1:
		score += 30
	case *delay <= 5:
		score += 20
	case *delay <= 10:
		score += 10
	default:
		score += 5
	}

	if p.baseURL == DefaultBaseURL && len(p.summary.AllowedPaths) == 0 && len(p.summary.DisallowedPaths) > 0 {
		return 70
	}
	return score
}

// useDefaults installs the fixed fallback policy. The synthesized robots body
// keeps CanFetch consistent with the advertised paths.
func (p *RobotsPolicy) useDefaults() {
	delay := float64(1)
	p.summary = PolicySummary{
		AllowedPaths:      []string{"/math", "/science", "/computing", "/humanities", "/economics-finance-domain"},
		DisallowedPaths:   []string{"/profile", "/login", "/signup"},
		Sitemaps:          []string{},
		CrawlDelay:        &delay,
		CrawlabilityScore: 70,
	}

	var b strings.Builder
	b.WriteString("User-agent: *\n")
	for _, path := range p.summary.AllowedPaths {
		fmt.Fprintf(&b, "Allow: %s\n", path)
	}
	for _, path := range p.summary.DisallowedPaths {
		fmt.Fprintf(&b, "Disallow: %s\n", path)
	}
	fmt.Fprintf(&b, "Crawl-delay: %d\n", int(delay))

	if data, err := robotstxt.FromString(b.String()); err == nil {
		p.data = data
	}
	p.parsed = true
}

// directivePaths extracts the non-empty paths of a robots.txt directive,
// preserving order of appearance.
func directivePaths(content, directive string) []string {
	paths := []string{}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, directive) {
			continue
		}
		path := strings.TrimSpace(strings.TrimPrefix(line, directive))
		if path != "" {
			paths = append(paths, path)
		}
	}
	return paths
}

func sitemapURLs(content string) []string {
	urls := []string{}
	for _, match := range sitemapLinePattern.FindAllStringSubmatch(content, -1) {
		urls = append(urls, strings.TrimSpace(match[1]))
	}
	return urls
}

// crawlDelaySeconds prefers the matcher's per-agent delay and falls back to a
// raw-content scan, mirroring how lenient parsers expose Crawl-delay.
func crawlDelaySeconds(data *robotstxt.RobotsData, userAgent, content string) *float64 {
	if group := data.FindGroup(userAgent); group != nil && group.CrawlDelay > 0 {
		delay := group.CrawlDelay.Seconds()
		return &delay
	}
	if match := crawlDelayPattern.FindStringSubmatch(content); match != nil {
		if secs, err := strconv.Atoi(match[1]); err == nil {
			delay := float64(secs)
			return &delay
		}
	}
	return nil
}
