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
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestAPIClient(t *testing.T, mock *MockTransport) (*APIClient, string) {
	t.Helper()
	dir := t.TempDir()
	artifacts, err := NewArtifactWriter(dir)
	if err != nil {
		t.Fatal(err)
	}
	api := NewAPIClient(testBaseURL, DefaultUserAgent, artifacts)
	api.SetClient(&http.Client{Transport: mock})
	return api, dir
}

func readStatusArtifact(t *testing.T, dir string) APIStatus {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, APIStatusFile))
	if err != nil {
		t.Fatal(err)
	}
	var status APIStatus
	if err := json.Unmarshal(data, &status); err != nil {
		t.Fatal(err)
	}
	return status
}

func TestCheckAvailabilityWhenUnavailable(t *testing.T) {
	mock := NewMockTransport()
	mock.RegisterResponse(testBaseURL+"/api/v1/topictree", &MockResponse{StatusCode: 503})

	api, dir := newTestAPIClient(t, mock)
	if api.CheckAvailability(context.Background()) {
		t.Fatal("expected unavailable")
	}

	status := readStatusArtifact(t, dir)
	if status.APIAvailable {
		t.Fatal("persisted status should be unavailable")
	}
	if status.LastCheck == "" {
		t.Fatal("last_check must be set on failed probes")
	}
	if status.RateLimit != "60 requests per minute" {
		t.Fatalf("rate_limit = %q", status.RateLimit)
	}
	if status.Authentication != "API Key required" {
		t.Fatalf("authentication = %q", status.Authentication)
	}
	if len(status.Endpoints) != 3 {
		t.Fatalf("endpoints = %v", status.Endpoints)
	}
}

func TestCheckAvailabilityWhenAvailable(t *testing.T) {
	mock := NewMockTransport()
	mock.RegisterJSON(testBaseURL+"/api/v1/topictree", topicTreeJSON)

	api, dir := newTestAPIClient(t, mock)
	if !api.CheckAvailability(context.Background()) {
		t.Fatal("expected available")
	}

	status := readStatusArtifact(t, dir)
	if !status.APIAvailable {
		t.Fatal("persisted status should be available")
	}
	if status.LastCheck != "" {
		t.Fatalf("last_check = %q, want empty on success", status.LastCheck)
	}
}

func TestExtractCourses(t *testing.T) {
	mock := NewMockTransport()
	api, _ := newTestAPIClient(t, mock)

	tree := &TopicNode{
		Kind: "Root",
		Children: []TopicNode{
			{
				Kind:        "Topic",
				Slug:        "math",
				Title:       "Math",
				Description: "All of math",
				Children: []TopicNode{
					{Kind: "Topic", Slug: "algebra", Title: "Algebra"},
					{Kind: "Video", Slug: "intro", Title: "Intro video"},
				},
			},
			{
				// Recorded children under an unrecorded parent must still
				// be visited.
				Kind: "Topic",
				Children: []TopicNode{
					{Kind: "Topic", Slug: "science", Title: "Science"},
				},
			},
		},
	}

	courses := api.ExtractCourses(tree)
	if len(courses) != 3 {
		t.Fatalf("courses = %d, want 3: %+v", len(courses), courses)
	}
	if courses[0].Slug != "math" || courses[1].Slug != "algebra" || courses[2].Slug != "science" {
		t.Fatalf("wrong order: %+v", courses)
	}
	if courses[1].Path != "math/algebra" {
		t.Fatalf("path = %q, want math/algebra", courses[1].Path)
	}
	if courses[0].ChildCount != 2 {
		t.Fatalf("child count = %d, want 2", courses[0].ChildCount)
	}
	if courses[0].URL != testBaseURL+"/math" {
		t.Fatalf("url = %q", courses[0].URL)
	}
}

func TestExtractCoursesNilTree(t *testing.T) {
	mock := NewMockTransport()
	api, _ := newTestAPIClient(t, mock)
	if courses := api.ExtractCourses(nil); courses != nil {
		t.Fatalf("courses = %v, want nil", courses)
	}
}

func TestExtractToCSV(t *testing.T) {
	mock := NewMockTransport()
	mock.RegisterJSON(testBaseURL+"/api/v1/topictree", topicTreeJSON)

	api, dir := newTestAPIClient(t, mock)
	if !api.ExtractToCSV(context.Background()) {
		t.Fatal("extraction failed")
	}

	data, err := os.ReadFile(filepath.Join(dir, APICoursesCSVFile))
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "title,slug,path,description,child_count,url\n") {
		t.Fatalf("missing header:\n%s", content)
	}
	if !strings.Contains(content, "Algebra") {
		t.Fatalf("missing course row:\n%s", content)
	}
}

func TestExtractToCSVFailsWithoutTree(t *testing.T) {
	mock := NewMockTransport() // topictree endpoint returns 404

	api, dir := newTestAPIClient(t, mock)
	if api.ExtractToCSV(context.Background()) {
		t.Fatal("extraction should fail without a tree")
	}
	if _, err := os.Stat(filepath.Join(dir, APICoursesCSVFile)); !os.IsNotExist(err) {
		t.Fatal("no CSV should be written on failure")
	}
}
