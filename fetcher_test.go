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
	"context"
	"errors"
	"testing"
	"time"
)

func TestFetchSuccess(t *testing.T) {
	mock := setupMockTransport()
	f := newTestFetcher(mock)

	doc, err := f.Fetch(context.Background(), testBaseURL+"/math", nil)
	if err != nil {
		t.Fatal(err)
	}
	if doc.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", doc.StatusCode)
	}
	if len(doc.Body) == 0 {
		t.Fatal("empty body")
	}
	if doc.ContentHash == "" {
		t.Fatal("missing content hash")
	}
}

func TestFetchRetriesUntilSuccess(t *testing.T) {
	mock := NewMockTransport()
	url := testBaseURL + "/flaky"
	mock.RegisterSequence(url,
		&MockResponse{StatusCode: 500, Body: "boom"},
		&MockResponse{StatusCode: 502, Body: "boom"},
		&MockResponse{StatusCode: 200, Body: "recovered"},
	)

	f := newTestFetcher(mock)
	doc, err := f.Fetch(context.Background(), url, nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(doc.Body) != "recovered" {
		t.Fatalf("body = %q, want %q", doc.Body, "recovered")
	}
	if got := mock.RequestCount(url); got != 3 {
		t.Fatalf("request count = %d, want 3", got)
	}
}

func TestFetchTerminalFailure(t *testing.T) {
	mock := NewMockTransport()
	url := testBaseURL + "/broken"
	mock.RegisterResponse(url, &MockResponse{StatusCode: 503, Body: "unavailable"})

	f := newTestFetcher(mock)
	_, err := f.Fetch(context.Background(), url, nil)
	if err == nil {
		t.Fatal("expected error")
	}

	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error = %v, want HTTPStatusError", err)
	}
	if statusErr.StatusCode != 503 {
		t.Fatalf("status = %d, want 503", statusErr.StatusCode)
	}
	if got := mock.RequestCount(url); got != 3 {
		t.Fatalf("request count = %d, want 3", got)
	}
}

func TestFetchBlockedByPolicy(t *testing.T) {
	mock := setupMockTransport()
	p := newTestPolicy(t, mock, testBaseURL)

	f := newTestFetcher(mock)
	url := testBaseURL + "/profile/me"
	_, err := f.Fetch(context.Background(), url, p)

	if !errors.Is(err, ErrBlockedByPolicy) {
		t.Fatalf("error = %v, want ErrBlockedByPolicy", err)
	}
	// The short-circuit must not touch the network, let alone retry.
	if got := mock.RequestCount(url); got != 0 {
		t.Fatalf("request count = %d, want 0", got)
	}
}

func TestFetchTransportError(t *testing.T) {
	mock := NewMockTransport()
	url := testBaseURL + "/unreachable"
	mock.RegisterError(url, errors.New("connection reset"))

	f := newTestFetcher(mock)
	_, err := f.Fetch(context.Background(), url, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if got := mock.RequestCount(url); got != 3 {
		t.Fatalf("request count = %d, want 3", got)
	}
}

func TestFetchCancelledContext(t *testing.T) {
	mock := NewMockTransport()
	url := testBaseURL + "/broken"
	mock.RegisterResponse(url, &MockResponse{StatusCode: 500})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := newTestFetcher(mock)
	_, err := f.Fetch(ctx, url, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestDelayRuleMatch(t *testing.T) {
	rule := &DelayRule{DomainGlob: "*.khanacademy.org", Delay: time.Millisecond}
	if err := rule.Init(); err != nil {
		t.Fatal(err)
	}
	if !rule.Match("www.khanacademy.org") {
		t.Fatal("glob should match www.khanacademy.org")
	}
	if rule.Match("example.com") {
		t.Fatal("glob should not match example.com")
	}
}

func TestDelayRuleRequiresGlob(t *testing.T) {
	f := NewFetcher(nil)
	if err := f.Limit(&DelayRule{}); err == nil {
		t.Fatal("expected error for empty glob")
	}
}
