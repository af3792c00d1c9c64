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

import "testing"

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		base string
		href string
		want string
	}{
		{"https://test.local/math", "/math/algebra", "https://test.local/math/algebra"},
		{"https://test.local/math/algebra", "./v/intro", "https://test.local/math/v/intro"},
		{"https://test.local/math/", "geometry", "https://test.local/math/geometry"},
		{"https://test.local/math", "https://other.example/x", "https://other.example/x"},
		{"https://test.local/math", "", ""},
		{"https://test.local/math", "//cdn.example/asset", "https://cdn.example/asset"},
	}

	for _, tt := range tests {
		if got := absoluteURL(tt.base, tt.href); got != tt.want {
			t.Errorf("absoluteURL(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.want)
		}
	}
}

func TestHostnameOf(t *testing.T) {
	if got := hostnameOf("https://www.khanacademy.org/math"); got != "www.khanacademy.org" {
		t.Fatalf("hostnameOf = %q", got)
	}
	if got := hostnameOf("not a url"); got != "" {
		t.Fatalf("hostnameOf(junk) = %q, want empty", got)
	}
}
