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
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Artifact file names. Each run overwrites them in full; there is no
// merging with previous snapshots.
const (
	RobotsAnalysisFile = "robots_analysis.json"
	APIStatusFile      = "api_status.json"
	CoursesJSONFile    = "khan_academy_data.json"
	CoursesCSVFile     = "khan_academy_data.csv"
	APICoursesCSVFile  = "khan_academy_api_data.csv"
)

// ArtifactWriter persists crawl outputs into a single directory.
type ArtifactWriter struct {
	dir string
}

// NewArtifactWriter creates the output directory if needed.
func NewArtifactWriter(dir string) (*ArtifactWriter, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return &ArtifactWriter{dir: dir}, nil
}

// Dir returns the output directory.
func (w *ArtifactWriter) Dir() string {
	return w.dir
}

// WriteRobotsAnalysis persists the policy summary.
func (w *ArtifactWriter) WriteRobotsAnalysis(summary PolicySummary) error {
	return w.writeJSON(RobotsAnalysisFile, summary)
}

// WriteAPIStatus persists the structured-source status record.
func (w *ArtifactWriter) WriteAPIStatus(status APIStatus) error {
	return w.writeJSON(APIStatusFile, status)
}

// WriteCourses persists the nested course tree.
func (w *ArtifactWriter) WriteCourses(courses []Course) error {
	return w.writeJSON(CoursesJSONFile, courses)
}

// WriteFlatCourses persists the flattened projection as CSV.
func (w *ArtifactWriter) WriteFlatCourses(flat []FlatCourse) error {
	rows := make([][]string, 0, len(flat))
	for _, c := range flat {
		rows = append(rows, []string{
			c.Title, c.URL, c.Description, c.Subject,
			strconv.Itoa(c.UnitCount), strconv.Itoa(c.LessonCount),
		})
	}
	header := []string{"title", "url", "description", "subject", "unit_count", "lesson_count"}
	return w.writeCSV(CoursesCSVFile, header, rows)
}

// WriteAPICourses persists the structured-source extraction as CSV.
func (w *ArtifactWriter) WriteAPICourses(courses []APICourse) error {
	rows := make([][]string, 0, len(courses))
	for _, c := range courses {
		rows = append(rows, []string{
			c.Title, c.Slug, c.Path, c.Description,
			strconv.Itoa(c.ChildCount), c.URL,
		})
	}
	header := []string{"title", "slug", "path", "description", "child_count", "url"}
	return w.writeCSV(APICoursesCSVFile, header, rows)
}

func (w *ArtifactWriter) writeJSON(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (w *ArtifactWriter) writeCSV(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.dir, name)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
