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
	"io"
	"net/http"
	"regexp"
	"sync"
)

// MockResponse represents a mock HTTP response.
type MockResponse struct {
	// StatusCode is the HTTP status code to return (default: 200)
	StatusCode int
	// Body is the response body content
	Body string
	// Headers are the HTTP headers to include in the response
	Headers http.Header
	// Error simulates a network error
	Error error
}

type mockPattern struct {
	pattern  *regexp.Regexp
	response *MockResponse
}

// MockTransport implements http.RoundTripper for testing. Mock responses are
// registered per exact URL or regex pattern; unregistered URLs return 404.
// A counter per URL supports asserting attempt counts in retry tests.
type MockTransport struct {
	responses map[string]*MockResponse
	sequences map[string][]*MockResponse
	patterns  []mockPattern
	requests  map[string]int
	mutex     sync.RWMutex
}

// NewMockTransport creates a new MockTransport instance.
func NewMockTransport() *MockTransport {
	return &MockTransport{
		responses: make(map[string]*MockResponse),
		sequences: make(map[string][]*MockResponse),
		requests:  make(map[string]int),
	}
}

// RegisterSequence registers responses consumed one per request, in order.
// The last response is repeated once the sequence is exhausted. Useful for
// retry tests that need a URL to fail and then recover.
func (m *MockTransport) RegisterSequence(url string, responses ...*MockResponse) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for _, r := range responses {
		if r.StatusCode == 0 {
			r.StatusCode = 200
		}
		if r.Headers == nil {
			r.Headers = make(http.Header)
		}
	}
	m.sequences[url] = responses
}

// RegisterResponse registers a mock response for an exact URL match.
func (m *MockTransport) RegisterResponse(url string, response *MockResponse) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if response.StatusCode == 0 {
		response.StatusCode = 200
	}
	if response.Headers == nil {
		response.Headers = make(http.Header)
	}
	m.responses[url] = response
}

// RegisterHTML registers an HTML response with status 200.
func (m *MockTransport) RegisterHTML(url, html string) {
	headers := make(http.Header)
	headers.Set("Content-Type", "text/html; charset=utf-8")
	m.RegisterResponse(url, &MockResponse{StatusCode: 200, Body: html, Headers: headers})
}

// RegisterJSON registers a JSON response with status 200.
func (m *MockTransport) RegisterJSON(url, json string) {
	headers := make(http.Header)
	headers.Set("Content-Type", "application/json; charset=utf-8")
	m.RegisterResponse(url, &MockResponse{StatusCode: 200, Body: json, Headers: headers})
}

// RegisterError registers a simulated network failure for a URL.
func (m *MockTransport) RegisterError(url string, err error) {
	m.RegisterResponse(url, &MockResponse{Error: err})
}

// RegisterPattern registers a mock response for URLs matching a regex.
func (m *MockTransport) RegisterPattern(pattern string, response *MockResponse) error {
	regex, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if response.StatusCode == 0 {
		response.StatusCode = 200
	}
	if response.Headers == nil {
		response.Headers = make(http.Header)
	}
	m.patterns = append(m.patterns, mockPattern{pattern: regex, response: response})
	return nil
}

// RequestCount returns how many times a URL has been requested.
func (m *MockTransport) RequestCount(url string) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.requests[url]
}

// RoundTrip implements the http.RoundTripper interface.
func (m *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	url := req.URL.String()

	m.mutex.Lock()
	m.requests[url]++
	var mockResp *MockResponse
	found := false
	if seq, ok := m.sequences[url]; ok && len(seq) > 0 {
		mockResp = seq[0]
		if len(seq) > 1 {
			m.sequences[url] = seq[1:]
		}
		found = true
	}
	if !found {
		mockResp, found = m.responses[url]
	}
	if !found {
		for _, p := range m.patterns {
			if p.pattern.MatchString(url) {
				mockResp = p.response
				found = true
				break
			}
		}
	}
	m.mutex.Unlock()

	if !found {
		return &http.Response{
			StatusCode: 404,
			Body:       io.NopCloser(bytes.NewBufferString("Not Found")),
			Header:     make(http.Header),
			Request:    req,
		}, nil
	}

	if mockResp.Error != nil {
		return nil, mockResp.Error
	}

	resp := &http.Response{
		StatusCode: mockResp.StatusCode,
		Body:       io.NopCloser(bytes.NewBufferString(mockResp.Body)),
		Header:     cloneHeaders(mockResp.Headers),
		Request:    req,
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
	}
	if resp.Header.Get("Content-Length") == "" {
		resp.ContentLength = int64(len(mockResp.Body))
	}
	return resp, nil
}

func cloneHeaders(headers http.Header) http.Header {
	clone := make(http.Header)
	for key, values := range headers {
		clone[key] = append([]string{}, values...)
	}
	return clone
}
