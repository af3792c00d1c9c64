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
	"bytes"
	"fmt"
	"regexp"

	"github.com/cespare/xxhash/v2"
)

// Patterns stripped before hashing so that dynamic page noise does not break
// run-to-run comparison of otherwise identical documents.
var (
	htmlCommentPattern = regexp.MustCompile(`<!--[\s\S]*?-->`)
	timestampPatterns  = []*regexp.Regexp{
		regexp.MustCompile(`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:\d{2})`),
		regexp.MustCompile(`\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}`),
	}
	sessionIDPattern  = regexp.MustCompile(`(?i)(?:session|request|trace)[-_]?id[:=]\s*["']?[a-f0-9-]{8,}["']?`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// NormalizeDocument strips comments, timestamps and session identifiers and
// collapses whitespace, producing a stable representation for hashing.
func NormalizeDocument(body []byte) []byte {
	content := htmlCommentPattern.ReplaceAll(body, nil)
	for _, pattern := range timestampPatterns {
		content = pattern.ReplaceAll(content, []byte("[TIMESTAMP]"))
	}
	content = sessionIDPattern.ReplaceAll(content, nil)
	return whitespacePattern.ReplaceAll(bytes.TrimSpace(content), []byte(" "))
}

// ContentFingerprint returns the xxhash of the normalized document as a
// 16-digit hex string. Empty input hashes to the empty string.
func ContentFingerprint(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(NormalizeDocument(body)))
}
