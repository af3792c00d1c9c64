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
	"flag"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/agentberlin/courseminer"
	"github.com/agentberlin/courseminer/internal/store"
)

// crawlFlags holds all the flags for the crawl command
type crawlFlags struct {
	baseURL       string
	userAgent     string
	output        string
	noRender      bool
	renderTimeout int
	history       bool
	quiet         bool
}

func runCrawl(args []string) error {
	fs := flag.NewFlagSet("crawl", flag.ExitOnError)

	var flags crawlFlags
	fs.StringVar(&flags.baseURL, "base-url", courseminer.DefaultBaseURL, "Site root to crawl")
	fs.StringVar(&flags.userAgent, "user-agent", courseminer.DefaultUserAgent, "Custom User-Agent string")
	fs.StringVar(&flags.userAgent, "A", courseminer.DefaultUserAgent, "Custom User-Agent string (shorthand)")
	fs.StringVar(&flags.output, "output", ".", "Output directory for artifacts")
	fs.StringVar(&flags.output, "o", ".", "Output directory (shorthand)")
	fs.BoolVar(&flags.noRender, "no-render", false, "Disable the browser rendering fallback")
	fs.IntVar(&flags.renderTimeout, "render-timeout", 10, "Rendering timeout per page in seconds")
	fs.BoolVar(&flags.history, "db", false, "Record the run in the local history database")
	fs.BoolVar(&flags.quiet, "quiet", false, "Suppress summary output")
	fs.BoolVar(&flags.quiet, "q", false, "Suppress summary output (shorthand)")

	fs.Usage = func() {
		fmt.Println(`Usage: courseminer crawl [flags]

Run a full extraction: robots.txt analysis, content API probe, and HTML
scraping with rendering fallback. Artifacts are written to the output
directory, overwriting any previous run.

Flags:`)
		fs.PrintDefaults()
		fmt.Println(`
Examples:
  # Crawl the default site into the current directory
  courseminer crawl

  # Crawl into ./data, keep run history, skip browser rendering
  courseminer crawl -o ./data -db -no-render`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	config := courseminer.NewDefaultConfig()
	config.BaseURL = flags.baseURL
	config.UserAgent = flags.userAgent
	config.OutputDir = flags.output
	config.DisableRendering = flags.noRender
	config.RenderTimeout = time.Duration(flags.renderTimeout) * time.Second

	extractor, err := courseminer.NewExtractor(config)
	if err != nil {
		return fmt.Errorf("failed to configure crawl: %v", err)
	}
	defer extractor.Close()

	if flags.history {
		st, err := store.NewStore()
		if err != nil {
			return fmt.Errorf("failed to initialize database: %v", err)
		}
		extractor.SetRecorder(st)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !flags.quiet {
		fmt.Printf("Starting crawl for %s...\n", flags.baseURL)
	}

	started := time.Now()
	if err := extractor.Run(ctx); err != nil {
		return fmt.Errorf("crawl failed: %v", err)
	}

	if !flags.quiet {
		fmt.Printf("\nCrawl completed in %s\n", time.Since(started).Round(time.Millisecond))
		fmt.Printf("Artifacts written to %s\n", flags.output)
	}
	return nil
}
