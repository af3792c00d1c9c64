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
	"fmt"

	"github.com/andybalholm/cascadia"
)

// Selectors names every CSS rule the extractor applies, one field per content
// kind. The values are configuration, not code: when the target site changes
// its markup only this table needs updating.
type Selectors struct {
	// Course listing page
	CourseCard        string `json:"course_card"`
	CourseTitle       string `json:"course_title"`
	CourseLink        string `json:"course_link"`
	CourseDescription string `json:"course_description"`

	// Course detail page
	UnitContainer string `json:"unit_container"`
	UnitTitle     string `json:"unit_title"`
	LessonItem    string `json:"lesson_item"`
	LessonTitle   string `json:"lesson_title"`
	LessonLink    string `json:"lesson_link"`
	LessonType    string `json:"lesson_type"`

	// Video page
	VideoContainer   string `json:"video_container"`
	VideoTitle       string `json:"video_title"`
	VideoDescription string `json:"video_description"`
	VideoDuration    string `json:"video_duration"`

	// Exercise page
	ExerciseContainer   string `json:"exercise_container"`
	ExerciseTitle       string `json:"exercise_title"`
	ExerciseDescription string `json:"exercise_description"`
	ExerciseQuestions   string `json:"exercise_questions"`
}

// NewDefaultSelectors returns the selector table for the default site's
// markup.
func NewDefaultSelectors() *Selectors {
	return &Selectors{
		CourseCard:        ".subject-card",
		CourseTitle:       ".subject-card__title",
		CourseLink:        ".subject-card a",
		CourseDescription: ".subject-card__description",

		UnitContainer: ".tutorial-list",
		UnitTitle:     ".tutorial-list__heading",
		LessonItem:    ".tutorial-list__item",
		LessonTitle:   ".tutorial-list__item-title",
		LessonLink:    ".tutorial-list__item a",
		LessonType:    ".tutorial-list__item-type",

		VideoContainer:   ".video-player",
		VideoTitle:       ".video-title",
		VideoDescription: ".video-description",
		VideoDuration:    ".video-duration",

		ExerciseContainer:   ".exercise-container",
		ExerciseTitle:       ".exercise-title",
		ExerciseDescription: ".exercise-description",
		ExerciseQuestions:   ".exercise-question",
	}
}

// Validate compiles every selector. A missing or malformed rule is a
// configuration error surfaced at startup; rules that compile but match
// nothing at crawl time are reported as selector-staleness warnings instead.
func (s *Selectors) Validate() error {
	rules := map[string]string{
		"course_card":          s.CourseCard,
		"course_title":         s.CourseTitle,
		"course_link":          s.CourseLink,
		"course_description":   s.CourseDescription,
		"unit_container":       s.UnitContainer,
		"unit_title":           s.UnitTitle,
		"lesson_item":          s.LessonItem,
		"lesson_title":         s.LessonTitle,
		"lesson_link":          s.LessonLink,
		"lesson_type":          s.LessonType,
		"video_container":      s.VideoContainer,
		"video_title":          s.VideoTitle,
		"video_description":    s.VideoDescription,
		"video_duration":       s.VideoDuration,
		"exercise_container":   s.ExerciseContainer,
		"exercise_title":       s.ExerciseTitle,
		"exercise_description": s.ExerciseDescription,
		"exercise_questions":   s.ExerciseQuestions,
	}
	for name, rule := range rules {
		if rule == "" {
			return fmt.Errorf("selector %q is empty", name)
		}
		if _, err := cascadia.Parse(rule); err != nil {
			return fmt.Errorf("selector %q is invalid: %w", name, err)
		}
	}
	return nil
}
