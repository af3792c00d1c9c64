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

package store

import (
	"fmt"

	"github.com/agentberlin/courseminer"
)

// RecordRun implements courseminer.RunRecorder: it stores a run and its
// flattened courses in a single transaction.
func (s *Store) RecordRun(run courseminer.RunSummary, courses []courseminer.FlatCourse) error {
	row := CrawlRun{
		StartedAt:         run.StartedAt.Unix(),
		DurationMs:        run.Duration.Milliseconds(),
		Source:            run.Source,
		CrawlabilityScore: run.CrawlabilityScore,
		CourseCount:       run.CourseCount,
		UnitCount:         run.UnitCount,
		LessonCount:       run.LessonCount,
	}
	for _, c := range courses {
		row.Courses = append(row.Courses, CourseRecord{
			Title:       c.Title,
			URL:         c.URL,
			Description: c.Description,
			Subject:     c.Subject,
			UnitCount:   c.UnitCount,
			LessonCount: c.LessonCount,
			ContentHash: c.ContentHash,
		})
	}
	if err := s.db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to record crawl run: %w", err)
	}
	return nil
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]CrawlRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []CrawlRun
	err := s.db.Order("started_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}

// CoursesForRun returns the stored flattened courses of a run.
func (s *Store) CoursesForRun(runID uint) ([]CourseRecord, error) {
	var courses []CourseRecord
	err := s.db.Where("run_id = ?", runID).Order("id ASC").Find(&courses).Error
	return courses, err
}
