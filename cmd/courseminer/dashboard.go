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
	"flag"
	"fmt"

	"github.com/agentberlin/courseminer/internal/dashboard"
	"github.com/agentberlin/courseminer/internal/store"
)

// runDashboard serves crawl artifacts and run history over HTTP.
func runDashboard(args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	addr := fs.String("addr", ":8080", "Listen address")
	output := fs.String("o", ".", "Artifact directory to serve")
	noHistory := fs.Bool("no-db", false, "Disable the run history database")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var st *store.Store
	if !*noHistory {
		var err error
		st, err = store.NewStore()
		if err != nil {
			return fmt.Errorf("failed to open history database: %v", err)
		}
	}

	server := dashboard.NewServer(*output, st)
	return server.ListenAndServe(*addr)
}
