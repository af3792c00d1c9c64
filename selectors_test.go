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
	"strings"
	"testing"
)

func TestDefaultSelectorsValidate(t *testing.T) {
	if err := NewDefaultSelectors().Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestValidateRejectsEmptySelector(t *testing.T) {
	s := NewDefaultSelectors()
	s.CourseTitle = ""
	err := s.Validate()
	if err == nil {
		t.Fatal("expected error for empty selector")
	}
	if !strings.Contains(err.Error(), "course_title") {
		t.Fatalf("error should name the selector: %v", err)
	}
}

func TestValidateRejectsMalformedSelector(t *testing.T) {
	s := NewDefaultSelectors()
	s.LessonItem = "div[unclosed"
	err := s.Validate()
	if err == nil {
		t.Fatal("expected error for malformed selector")
	}
	if !strings.Contains(err.Error(), "lesson_item") {
		t.Fatalf("error should name the selector: %v", err)
	}
}
