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

package demo

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentberlin/courseminer"
)

func TestCoursesShape(t *testing.T) {
	courses := Courses(rand.New(rand.NewSource(42)))

	bySubject := map[string]int{}
	for _, c := range courses {
		bySubject[c.Subject]++

		assert.NotEmpty(t, c.Title)
		assert.NotEmpty(t, c.URL)
		require.GreaterOrEqual(t, len(c.Units), 2)
		require.LessOrEqual(t, len(c.Units), 5)
		for _, u := range c.Units {
			require.GreaterOrEqual(t, len(u.Lessons), 3)
			require.LessOrEqual(t, len(u.Lessons), 8)
			for _, l := range u.Lessons {
				assert.NotEqual(t, courseminer.LessonUnknown, l.Type)
			}
		}
	}

	assert.Len(t, bySubject, len(subjects))
	for subject, n := range bySubject {
		assert.GreaterOrEqual(t, n, 2, subject)
		assert.LessOrEqual(t, n, 4, subject)
	}
}

func TestCoursesReproducible(t *testing.T) {
	a := Courses(rand.New(rand.NewSource(7)))
	b := Courses(rand.New(rand.NewSource(7)))
	assert.Equal(t, a, b)
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	w, err := courseminer.NewArtifactWriter(dir)
	require.NoError(t, err)

	require.NoError(t, Write(w, Courses(nil)))

	_, err = os.Stat(filepath.Join(dir, courseminer.CoursesJSONFile))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, courseminer.CoursesCSVFile))
	assert.NoError(t, err)
}
