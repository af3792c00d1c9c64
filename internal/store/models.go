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

// CrawlRun is one completed extraction run.
type CrawlRun struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	StartedAt         int64          `gorm:"not null;index" json:"started_at"`
	DurationMs        int64          `gorm:"not null" json:"duration_ms"`
	Source            string         `gorm:"not null" json:"source"` // "api" or "scrape"
	CrawlabilityScore int            `gorm:"not null" json:"crawlability_score"`
	CourseCount       int            `gorm:"not null" json:"course_count"`
	UnitCount         int            `gorm:"default:0" json:"unit_count"`
	LessonCount       int            `gorm:"default:0" json:"lesson_count"`
	Courses           []CourseRecord `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt         int64          `gorm:"autoCreateTime" json:"-"`
}

// CourseRecord is one flattened course row belonging to a run.
type CourseRecord struct {
	ID          uint   `gorm:"primaryKey" json:"-"`
	RunID       uint   `gorm:"not null;index" json:"-"`
	Title       string `gorm:"not null" json:"title"`
	URL         string `gorm:"type:text" json:"url"`
	Description string `gorm:"type:text" json:"description"`
	Subject     string `gorm:"not null;index" json:"subject"`
	UnitCount   int    `gorm:"not null" json:"unit_count"`
	LessonCount int    `gorm:"not null" json:"lesson_count"`
	// ContentHash is the page fingerprint captured at extraction time,
	// comparable across runs to spot unchanged course pages.
	ContentHash string `gorm:"index" json:"content_hash"`
	CreatedAt   int64  `gorm:"autoCreateTime" json:"-"`
}
