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
	"io"
	"net/http"
	"strings"

	"github.com/antchfx/xmlquery"
)

// FetchSitemapURLs downloads a sitemap document and returns its <loc> URLs in
// document order. Handles both url sets and sitemap indexes, since both list
// their entries under <loc>.
func FetchSitemapURLs(ctx context.Context, client *http.Client, sitemapURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sitemapURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sitemap from %s: %w", sitemapURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sitemap %s returned status %d", sitemapURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	doc, err := xmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse sitemap %s: %w", sitemapURL, err)
	}

	var urls []string
	for _, node := range xmlquery.Find(doc, "//loc") {
		if loc := strings.TrimSpace(node.InnerText()); loc != "" {
			urls = append(urls, loc)
		}
	}
	return urls, nil
}

// SitemapURLsFromPolicy fetches the first sitemap declared by the policy.
// Returns an empty slice when the policy declares none or the fetch fails;
// sitemap discovery is best-effort and never aborts a run.
func SitemapURLsFromPolicy(ctx context.Context, client *http.Client, summary PolicySummary) []string {
	if len(summary.Sitemaps) == 0 {
		return nil
	}
	urls, err := FetchSitemapURLs(ctx, client, summary.Sitemaps[0])
	if err != nil {
		return nil
	}
	return urls
}
