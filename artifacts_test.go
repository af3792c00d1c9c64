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
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteRobotsAnalysis(t *testing.T) {
	dir := t.TempDir()
	w, err := NewArtifactWriter(dir)
	if err != nil {
		t.Fatal(err)
	}

	delay := 1.0
	summary := PolicySummary{
		AllowedPaths:      []string{"/math"},
		DisallowedPaths:   []string{"/profile"},
		Sitemaps:          []string{"https://test.local/sitemap.xml"},
		CrawlDelay:        &delay,
		CrawlabilityScore: 85,
	}
	if err := w.WriteRobotsAnalysis(summary); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, RobotsAnalysisFile))
	if err != nil {
		t.Fatal(err)
	}

	var got PolicySummary
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.CrawlabilityScore != 85 || len(got.AllowedPaths) != 1 {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	// Artifacts are indented for humans.
	if !strings.Contains(string(data), "\n  ") {
		t.Fatal("expected indented JSON")
	}
}

func TestWriteFlatCoursesCSV(t *testing.T) {
	dir := t.TempDir()
	w, err := NewArtifactWriter(dir)
	if err != nil {
		t.Fatal(err)
	}

	flat := []FlatCourse{
		{Title: "Algebra, Basics", URL: "https://test.local/math/algebra-basics",
			Description: "Equations", Subject: "math", UnitCount: 2, LessonCount: 5},
	}
	if err := w.WriteFlatCourses(flat); err != nil {
		t.Fatal(err)
	}

	file, err := os.Open(filepath.Join(dir, CoursesCSVFile))
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("rows = %d, want 2", len(records))
	}
	wantHeader := []string{"title", "url", "description", "subject", "unit_count", "lesson_count"}
	for i, col := range wantHeader {
		if records[0][i] != col {
			t.Fatalf("header = %v", records[0])
		}
	}
	if records[1][0] != "Algebra, Basics" || records[1][4] != "2" || records[1][5] != "5" {
		t.Fatalf("row = %v", records[1])
	}
}

func TestWriteCoursesOverwritesPreviousRun(t *testing.T) {
	dir := t.TempDir()
	w, err := NewArtifactWriter(dir)
	if err != nil {
		t.Fatal(err)
	}

	first := []Course{{Title: "First", Subject: "math"}, {Title: "Second", Subject: "math"}}
	if err := w.WriteCourses(first); err != nil {
		t.Fatal(err)
	}
	second := []Course{{Title: "Only", Subject: "science"}}
	if err := w.WriteCourses(second); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, CoursesJSONFile))
	if err != nil {
		t.Fatal(err)
	}
	var got []Course
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Title != "Only" {
		t.Fatalf("snapshot not overwritten: %+v", got)
	}
}

func TestNewArtifactWriterCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	if _, err := NewArtifactWriter(dir); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatal(err)
	}
}
