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

// Package demo generates synthetic course catalogs for dashboard development
// and testing. It is invoked only through its own CLI command and is never
// substituted for real extraction output by the crawl pipeline.
package demo

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/agentberlin/courseminer"
)

var subjects = []string{
	"math", "science", "computing", "humanities", "economics-finance-domain", "test-prep",
}

var lessonTypes = []courseminer.LessonType{
	courseminer.LessonVideo, courseminer.LessonArticle, courseminer.LessonExercise,
}

// Courses generates a randomized catalog: 2-4 courses per subject, 2-5 units
// per course, 3-8 lessons per unit. Pass a seeded source for reproducible
// output.
func Courses(rng *rand.Rand) []courseminer.Course {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	var courses []courseminer.Course
	for _, subject := range subjects {
		label := capitalize(subject)
		for i := 0; i < 2+rng.Intn(3); i++ {
			courseTitle := fmt.Sprintf("%s Course %d", label, i+1)
			courseURL := fmt.Sprintf("%s/%s/course-%d", courseminer.DefaultBaseURL, subject, i+1)

			var units []courseminer.Unit
			for j := 0; j < 2+rng.Intn(4); j++ {
				var lessons []courseminer.Lesson
				for k := 0; k < 3+rng.Intn(6); k++ {
					lessons = append(lessons, courseminer.Lesson{
						Title: fmt.Sprintf("Lesson %d: %s Topic", k+1, label),
						URL:   fmt.Sprintf("%s/unit-%d/lesson-%d", courseURL, j+1, k+1),
						Type:  lessonTypes[rng.Intn(len(lessonTypes))],
					})
				}
				units = append(units, courseminer.Unit{
					Title:   fmt.Sprintf("Unit %d: %s Fundamentals", j+1, label),
					Lessons: lessons,
				})
			}

			courses = append(courses, courseminer.Course{
				Title:       courseTitle,
				URL:         courseURL,
				Description: fmt.Sprintf("This is a demo description for %s", courseTitle),
				Subject:     subject,
				Units:       units,
			})
		}
	}
	return courses
}

// Write persists a generated catalog through the regular artifact writer so
// the dashboard can render it.
func Write(w *courseminer.ArtifactWriter, courses []courseminer.Course) error {
	if err := w.WriteCourses(courses); err != nil {
		return err
	}
	return w.WriteFlatCourses(courseminer.FlattenCourses(courses))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
