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

import "strings"

// LessonType classifies a lesson by its content kind.
type LessonType string

const (
	LessonVideo    LessonType = "Video"
	LessonArticle  LessonType = "Article"
	LessonExercise LessonType = "Exercise"
	LessonUnknown  LessonType = "Unknown"
)

// ParseLessonType maps free-form page text to a LessonType.
func ParseLessonType(s string) LessonType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "video":
		return LessonVideo
	case "article":
		return LessonArticle
	case "exercise":
		return LessonExercise
	default:
		return LessonUnknown
	}
}

// Lesson is a single piece of course content.
type Lesson struct {
	Title string     `json:"title"`
	URL   string     `json:"url,omitempty"`
	Type  LessonType `json:"type"`
}

// Unit groups an ordered list of lessons within a course.
type Unit struct {
	Title   string   `json:"title"`
	Lessons []Lesson `json:"lessons"`
}

// Course is the nested extraction result for one course page. Unit and
// lesson counts are derived at flattening time, never stored here.
type Course struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Subject     string `json:"subject"`
	Units       []Unit `json:"units"`
	// ContentHash fingerprints the course page the units were parsed from,
	// letting stored runs detect unchanged pages across crawls.
	ContentHash string `json:"content_hash,omitempty"`
}

// FlatCourse is the denormalized CSV projection of a Course.
type FlatCourse struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
	UnitCount   int    `json:"unit_count"`
	LessonCount int    `json:"lesson_count"`
	ContentHash string `json:"content_hash,omitempty"`
}

// Flatten derives the flat projection from the live nested structure.
func (c Course) Flatten() FlatCourse {
	lessons := 0
	for _, unit := range c.Units {
		lessons += len(unit.Lessons)
	}
	return FlatCourse{
		Title:       c.Title,
		URL:         c.URL,
		Description: c.Description,
		Subject:     c.Subject,
		UnitCount:   len(c.Units),
		LessonCount: lessons,
		ContentHash: c.ContentHash,
	}
}

// FlattenCourses projects every course in order.
func FlattenCourses(courses []Course) []FlatCourse {
	flat := make([]FlatCourse, 0, len(courses))
	for _, c := range courses {
		flat = append(flat, c.Flatten())
	}
	return flat
}
