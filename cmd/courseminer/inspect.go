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

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/agentberlin/courseminer"
	"github.com/agentberlin/courseminer/internal/demo"
)

// runPolicy fetches robots.txt, prints the crawlability report and persists
// the analysis artifact.
func runPolicy(args []string) error {
	fs := flag.NewFlagSet("policy", flag.ExitOnError)
	baseURL := fs.String("base-url", courseminer.DefaultBaseURL, "Site root to analyze")
	userAgent := fs.String("user-agent", courseminer.DefaultUserAgent, "Custom User-Agent string")
	output := fs.String("o", ".", "Output directory for robots_analysis.json")
	if err := fs.Parse(args); err != nil {
		return err
	}

	policy := courseminer.NewRobotsPolicy(*baseURL, *userAgent, nil)
	summary := policy.Parse(context.Background())

	artifacts, err := courseminer.NewArtifactWriter(*output)
	if err != nil {
		return err
	}
	if err := artifacts.WriteRobotsAnalysis(summary); err != nil {
		return err
	}

	if err := printJSON(summary); err != nil {
		return err
	}

	if len(summary.Sitemaps) > 0 {
		client := &http.Client{Timeout: 10 * time.Second}
		urls := courseminer.SitemapURLsFromPolicy(context.Background(), client, summary)
		fmt.Printf("Sitemap %s lists %d URLs\n", summary.Sitemaps[0], len(urls))
	}
	return nil
}

// runAPIStatus probes the content API and prints the persisted status record.
func runAPIStatus(args []string) error {
	fs := flag.NewFlagSet("api-status", flag.ExitOnError)
	baseURL := fs.String("base-url", courseminer.DefaultBaseURL, "Site root to probe")
	userAgent := fs.String("user-agent", courseminer.DefaultUserAgent, "Custom User-Agent string")
	output := fs.String("o", ".", "Output directory for api_status.json")
	if err := fs.Parse(args); err != nil {
		return err
	}

	artifacts, err := courseminer.NewArtifactWriter(*output)
	if err != nil {
		return err
	}

	api := courseminer.NewAPIClient(*baseURL, *userAgent, artifacts)
	available := api.CheckAvailability(context.Background())

	data, err := os.ReadFile(filepath.Join(artifacts.Dir(), courseminer.APIStatusFile))
	if err != nil {
		return fmt.Errorf("status artifact was not written: %v", err)
	}
	fmt.Println(string(data))

	if !available {
		fmt.Println("Content API is not available; crawls will fall back to scraping.")
	}
	return nil
}

// runDemoData writes a synthetic catalog into the output directory.
func runDemoData(args []string) error {
	fs := flag.NewFlagSet("demo-data", flag.ExitOnError)
	output := fs.String("o", ".", "Output directory for demo artifacts")
	seed := fs.Int64("seed", time.Now().UnixNano(), "Random seed for reproducible catalogs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	artifacts, err := courseminer.NewArtifactWriter(*output)
	if err != nil {
		return err
	}

	courses := demo.Courses(rand.New(rand.NewSource(*seed)))
	if err := demo.Write(artifacts, courses); err != nil {
		return err
	}

	fmt.Printf("Wrote %d demo courses to %s\n", len(courses), *output)
	return nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
