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

// CourseMiner CLI
//
// Command-line interface for the CourseMiner educational-content crawler.
// Analyzes robots.txt crawlability, extracts course catalogs via the content
// API or HTML scraping, and serves the results on a local dashboard.
//
// Usage:
//
//	courseminer <command> [flags]
//
// Commands:
//
//	crawl       Run a full extraction (policy, API probe, scraping)
//	policy      Analyze robots.txt and print the crawlability report
//	api-status  Probe the content API and print its status
//	demo-data   Generate a synthetic catalog for dashboard development
//	dashboard   Serve crawl artifacts and run history over HTTP
//	version     Show version information
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/agentberlin/courseminer/internal/version"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "crawl":
		if err := runCrawl(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "policy":
		if err := runPolicy(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "api-status":
		if err := runAPIStatus(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "demo-data":
		if err := runDemoData(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "dashboard":
		if err := runDashboard(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version", "-v", "--version":
		fmt.Printf("CourseMiner %s\n", version.CurrentVersion)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`CourseMiner - Educational content discovery crawler

Usage:
  courseminer <command> [flags]

Commands:
  crawl       Run a full extraction (policy, API probe, scraping)
  policy      Analyze robots.txt and print the crawlability report
  api-status  Probe the content API and print its status
  demo-data   Generate a synthetic catalog for dashboard development
  dashboard   Serve crawl artifacts and run history over HTTP
  version     Show version information
  help        Show this help message

Examples:
  # Full extraction into ./data with run history
  courseminer crawl -o ./data -db

  # Crawlability report only
  courseminer policy

  # Serve the dashboard over ./data
  courseminer dashboard -o ./data -addr :8080

Use "courseminer <command> --help" for more information about a command.`)
}
