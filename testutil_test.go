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
	"net/http"
	"testing"
	"time"
)

const testBaseURL = "https://test.local"

var testRobotsFile = `User-agent: *
Allow: /math
Allow: /science
Disallow: /profile
Disallow: /login
Sitemap: https://test.local/sitemap.xml
Crawl-delay: 1
`

var subjectPageHTML = `<!DOCTYPE html>
<html>
<body>
<div class="subject-card">
	<h2 class="subject-card__title">Algebra Basics</h2>
	<p class="subject-card__description">Equations and graphs</p>
	<a href="/math/algebra-basics">Start</a>
</div>
<div class="subject-card">
	<h2 class="subject-card__title">Geometry</h2>
	<p class="subject-card__description">Shapes and proofs</p>
	<a href="/math/geometry">Start</a>
</div>
</body>
</html>`

var coursePageHTML = `<!DOCTYPE html>
<html>
<body>
<div class="tutorial-list">
	<h3 class="tutorial-list__heading">Foundations</h3>
	<div class="tutorial-list__item">
		<span class="tutorial-list__item-title">Intro to variables</span>
		<span class="tutorial-list__item-type">Video</span>
		<a href="./v/intro-to-variables">watch</a>
	</div>
	<div class="tutorial-list__item">
		<span class="tutorial-list__item-title">Substitution practice</span>
		<span class="tutorial-list__item-type">Exercise</span>
		<a href="./e/substitution">practice</a>
	</div>
</div>
<div class="tutorial-list">
	<h3 class="tutorial-list__heading">Linear equations</h3>
	<div class="tutorial-list__item">
		<span class="tutorial-list__item-title">One-step equations</span>
		<span class="tutorial-list__item-type">Article</span>
		<a href="./a/one-step-equations">read</a>
	</div>
</div>
</body>
</html>`

var topicTreeJSON = `{
	"kind": "Topic",
	"slug": "root",
	"title": "Root",
	"children": [
		{
			"kind": "Topic",
			"slug": "math",
			"title": "Math",
			"description": "All of math",
			"children": [
				{"kind": "Topic", "slug": "algebra", "title": "Algebra", "children": []},
				{"kind": "Video", "slug": "intro", "title": "Intro video", "children": []}
			]
		}
	]
}`

// setupMockTransport registers the fixture site used across tests.
func setupMockTransport() *MockTransport {
	mock := NewMockTransport()

	mock.RegisterResponse(testBaseURL+"/robots.txt", &MockResponse{
		StatusCode: 200,
		Body:       testRobotsFile,
	})

	mock.RegisterResponse(testBaseURL+"/sitemap.xml", &MockResponse{
		StatusCode: 200,
		Body:       sitemapXML,
	})

	mock.RegisterHTML(testBaseURL+"/math", subjectPageHTML)
	mock.RegisterHTML(testBaseURL+"/math/algebra-basics", coursePageHTML)
	mock.RegisterHTML(testBaseURL+"/math/geometry", coursePageHTML)

	return mock
}

// newTestFetcher builds a fetcher with retries sped up for tests.
func newTestFetcher(mock *MockTransport) *Fetcher {
	config := NewDefaultFetcherConfig()
	config.RetryDelay = time.Millisecond
	f := NewFetcher(config)
	f.SetClient(&http.Client{Transport: mock})
	return f
}

// newTestPolicy parses the fixture robots.txt through a mock transport.
func newTestPolicy(t *testing.T, mock *MockTransport, baseURL string) *RobotsPolicy {
	t.Helper()
	p := NewRobotsPolicy(baseURL, DefaultUserAgent, &http.Client{Transport: mock})
	p.Parse(context.Background())
	return p
}
