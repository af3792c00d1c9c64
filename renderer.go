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
	"os/exec"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

// ErrRendererUnavailable is returned when no browser runtime can be launched.
// Callers treat it the same as "rendering found nothing".
var ErrRendererUnavailable = errors.New("browser rendering is not available")

// RenderedDocument is the outcome of a browser-rendered fetch.
type RenderedDocument struct {
	URL  string
	HTML string
	// NetworkURLs are the request URLs observed while the page loaded,
	// kept for diagnostics.
	NetworkURLs []string
	ContentHash string
}

// Renderer fetches script-dependent pages through headless Chrome. The
// allocator is created once; every rendered URL gets its own browser context
// which is torn down on all exit paths.
type Renderer struct {
	timeout time.Duration

	allocCtx    context.Context
	allocCancel context.CancelFunc
	initOnce    sync.Once
	available   bool
}

// NewRenderer creates a renderer with the given wait budget per page.
// A zero timeout defaults to 10 seconds.
func NewRenderer(timeout time.Duration) *Renderer {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Renderer{timeout: timeout}
}

// chromeFinder is a seam for tests to simulate a missing browser runtime.
var chromeFinder = chromeInstalled

func (r *Renderer) init() {
	r.initOnce.Do(func() {
		if !chromeFinder() {
			log.Warn().Msg("no Chrome binary found, rendering fallback disabled")
			return
		}
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)
		r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
		r.available = true
	})
}

// Close releases the shared allocator.
func (r *Renderer) Close() {
	if r.allocCancel != nil {
		r.allocCancel()
	}
}

// RenderAndFetch loads a URL in an isolated headless browser session, waits
// for the document root to be ready within the configured budget, and returns
// the rendered markup. The session is cancelled on every exit path. Policy
// denial short-circuits before any browser work.
func (r *Renderer) RenderAndFetch(ctx context.Context, rawURL string, policy *RobotsPolicy) (*RenderedDocument, error) {
	if policy != nil && !policy.CanFetch(rawURL) {
		log.Info().Str("url", rawURL).Msg("skipping URL disallowed by robots.txt")
		return nil, ErrBlockedByPolicy
	}

	r.init()
	if !r.available {
		return nil, ErrRendererUnavailable
	}

	tabCtx, cancel := chromedp.NewContext(r.allocCtx)
	defer cancel()

	tabCtx, timeoutCancel := context.WithTimeout(tabCtx, r.timeout)
	defer timeoutCancel()

	// Honor caller cancellation without tying tab lifetime to it directly.
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-tabCtx.Done():
		}
	}()

	discovered := make(map[string]bool)
	var mu sync.Mutex
	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		if req, ok := ev.(*network.EventRequestWillBeSent); ok {
			if u := req.Request.URL; u != "" && u != rawURL {
				mu.Lock()
				discovered[u] = true
				mu.Unlock()
			}
		}
	})

	var htmlContent string
	err := chromedp.Run(tabCtx,
		network.Enable(),
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &htmlContent, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("rendering %s failed: %w", rawURL, err)
	}

	mu.Lock()
	urls := make([]string, 0, len(discovered))
	for u := range discovered {
		urls = append(urls, u)
	}
	mu.Unlock()

	return &RenderedDocument{
		URL:         rawURL,
		HTML:        htmlContent,
		NetworkURLs: urls,
		ContentHash: ContentFingerprint([]byte(htmlContent)),
	}, nil
}

// chromeInstalled reports whether a known Chrome/Chromium binary is on PATH.
func chromeInstalled() bool {
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "chrome", "headless-shell"} {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}
