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
	whatwgUrl "github.com/nlnwa/whatwg-url/url"
)

var urlParser = whatwgUrl.NewParser(whatwgUrl.WithPercentEncodeSinglePercentSign())

// absoluteURL resolves href against base per the WHATWG URL algorithm.
// Returns "" when the reference cannot be resolved.
func absoluteURL(base, href string) string {
	if href == "" {
		return ""
	}
	u, err := urlParser.ParseRef(base, href)
	if err != nil {
		return ""
	}
	return u.Href(false)
}

// hostnameOf returns the lowercase hostname of a URL, or "" if unparseable.
func hostnameOf(rawURL string) string {
	u, err := urlParser.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
