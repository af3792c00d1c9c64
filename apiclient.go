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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// APIStatus is the persisted structured-source status record. It is written
// on every availability probe, success or failure; only the available flag
// and timestamp differ.
type APIStatus struct {
	APIAvailable   bool              `json:"api_available"`
	Endpoints      map[string]string `json:"endpoints"`
	RateLimit      string            `json:"rate_limit"`
	Authentication string            `json:"authentication"`
	LastCheck      string            `json:"last_check,omitempty"`
}

// TopicNode is one node of the structured-source content tree.
type TopicNode struct {
	Kind        string      `json:"kind"`
	Slug        string      `json:"slug"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Children    []TopicNode `json:"children"`
}

// APICourse is a course-like summary record extracted from the topic tree.
type APICourse struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Path        string `json:"path"`
	Description string `json:"description"`
	ChildCount  int    `json:"child_count"`
	URL         string `json:"url"`
}

// APIClient talks to the site's documented content API. It is tried before
// any HTML scraping; when the API path succeeds, scraping is skipped.
type APIClient struct {
	baseURL   string
	siteURL   string
	userAgent string
	client    *http.Client
	artifacts *ArtifactWriter

	endpoints map[string]string
}

// NewAPIClient creates a client for the content API rooted at siteURL.
func NewAPIClient(siteURL, userAgent string, artifacts *ArtifactWriter) *APIClient {
	if siteURL == "" {
		siteURL = DefaultBaseURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	siteURL = strings.TrimRight(siteURL, "/")
	return &APIClient{
		baseURL:   siteURL + "/api/v1/",
		siteURL:   siteURL,
		userAgent: userAgent,
		client:    &http.Client{Timeout: 10 * time.Second},
		artifacts: artifacts,
		endpoints: map[string]string{
			"topics":    "topic",
			"topictree": "topictree",
			"exercises": "exercises",
			"videos":    "videos",
			"articles":  "articles",
		},
	}
}

// SetClient replaces the HTTP client (used by tests).
func (a *APIClient) SetClient(client *http.Client) {
	a.client = client
}

// statusEndpoints is the fixed endpoint map advertised in api_status.json.
func statusEndpoints() map[string]string {
	return map[string]string{
		"topictree": "/api/v1/topictree",
		"playlists": "/api/v1/playlists",
		"badges":    "/api/v1/badges",
	}
}

// CheckAvailability probes the topic tree endpoint and persists the status
// artifact regardless of outcome.
func (a *APIClient) CheckAvailability(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	available := false
	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, a.baseURL+a.endpoints["topictree"], nil)
	if err == nil {
		req.Header.Set("User-Agent", a.userAgent)
		req.Header.Set("Accept", "application/json")
		resp, err := a.client.Do(req)
		if err != nil {
			log.Warn().Err(err).Msg("content API probe failed")
		} else {
			resp.Body.Close()
			available = resp.StatusCode == http.StatusOK
			if !available {
				log.Info().Int("status", resp.StatusCode).Msg("content API is not available")
			}
		}
	}

	status := APIStatus{
		APIAvailable:   available,
		Endpoints:      statusEndpoints(),
		RateLimit:      "60 requests per minute",
		Authentication: "API Key required",
	}
	if !available {
		status.LastCheck = time.Now().Format("2006-01-02 15:04:05")
	}

	if a.artifacts != nil {
		if err := a.artifacts.WriteAPIStatus(status); err != nil {
			log.Error().Err(err).Msg("failed to persist API status")
		}
	}
	return available
}

// TopicTree fetches the root content node. Transport errors and non-200
// statuses are logged and reported as a missing tree, not surfaced as errors
// to the run.
func (a *APIClient) TopicTree(ctx context.Context) *TopicNode {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+a.endpoints["topictree"], nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to build topic tree request")
		return nil
	}
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("failed to fetch topic tree")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Msg("topic tree request rejected")
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read topic tree response")
		return nil
	}

	var tree TopicNode
	if err := json.Unmarshal(body, &tree); err != nil {
		log.Warn().Err(err).Msg("failed to decode topic tree")
		return nil
	}
	return &tree
}

// ExtractCourses walks the tree depth-first, accumulating a slug path from
// the root. Every Topic node with a non-empty slug is recorded; children are
// visited whether or not the parent was recorded.
func (a *APIClient) ExtractCourses(tree *TopicNode) []APICourse {
	if tree == nil {
		return nil
	}
	var courses []APICourse
	var walk func(node *TopicNode, parentPath string)
	walk = func(node *TopicNode, parentPath string) {
		currentPath := node.Slug
		if parentPath != "" {
			currentPath = parentPath + "/" + node.Slug
		}
		if node.Kind == "Topic" && node.Slug != "" {
			courses = append(courses, APICourse{
				Title:       node.Title,
				Slug:        node.Slug,
				Path:        currentPath,
				Description: node.Description,
				ChildCount:  len(node.Children),
				URL:         fmt.Sprintf("%s/%s", a.siteURL, currentPath),
			})
		}
		for i := range node.Children {
			walk(&node.Children[i], currentPath)
		}
	}
	walk(tree, "")
	return courses
}

// ExtractToCSV fetches the topic tree, extracts courses and persists the
// flat CSV artifact. Returns false when nothing could be extracted.
func (a *APIClient) ExtractToCSV(ctx context.Context) bool {
	tree := a.TopicTree(ctx)
	if tree == nil {
		log.Warn().Msg("no topic tree available, cannot extract via API")
		return false
	}
	courses := a.ExtractCourses(tree)
	if len(courses) == 0 {
		log.Warn().Msg("topic tree contained no course nodes")
		return false
	}
	if err := a.artifacts.WriteAPICourses(courses); err != nil {
		log.Error().Err(err).Msg("failed to persist API course records")
		return false
	}
	log.Info().Int("courses", len(courses)).Msg("extracted course records via content API")
	return true
}
