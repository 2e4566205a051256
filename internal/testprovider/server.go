// Package testprovider runs an in-process fake of the messaging provider's
// REST API for tests. It records every request and answers the common
// endpoints with plausible bodies; individual routes can be overridden with
// Handle.
package testprovider

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
)

// Request is a request received by the fake provider.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// JSON decodes the recorded body into a generic map.
func (r Request) JSON() map[string]any {
	var m map[string]any
	_ = json.Unmarshal(r.Body, &m)
	return m
}

// Response is a canned reply for one route.
type Response struct {
	Status      int
	ContentType string
	Body        string
}

// Server is the fake provider.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	requests []Request
	routes   map[string]Response
}

// New starts a fake provider and closes it when the test ends.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{routes: make(map[string]Response)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Handle overrides the reply for method and path.
func (s *Server) Handle(method, path string, resp Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[method+" "+path] = resp
}

// Requests returns a copy of every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Last returns the most recent request, or a zero Request if none arrived.
func (s *Server) Last() Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}
	}
	return s.requests[len(s.requests)-1]
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	})
	canned, ok := s.routes[r.Method+" "+r.URL.Path]
	s.mu.Unlock()

	if ok {
		if canned.ContentType == "" {
			canned.ContentType = "application/json"
		}
		if canned.Status == 0 {
			canned.Status = http.StatusOK
		}
		w.Header().Set("Content-Type", canned.ContentType)
		w.WriteHeader(canned.Status)
		io.WriteString(w, canned.Body)
		return
	}

	if r.Header.Get("Authorization") == "" {
		writeJSON(w, http.StatusUnauthorized, serviceException("UNAUTHORIZED", "Invalid login details"))
		return
	}

	writeJSON(w, http.StatusOK, s.simulate(r.Method, r.URL.Path, body))
}

// simulate builds a success body for the provider's common endpoints.
func (s *Server) simulate(method, path string, body []byte) any {
	var req map[string]any
	_ = json.Unmarshal(body, &req)
	if req == nil {
		req = map[string]any{}
	}

	parts := strings.Split(strings.Trim(path, "/"), "/")
	switch {
	case method == http.MethodGet && path == "/status":
		return map[string]any{"status": "OK"}

	case method == http.MethodPost && strings.HasSuffix(path, "/text/single"):
		return map[string]any{
			"messages": []any{sentMessage(req["to"])},
		}

	case method == http.MethodPost && strings.HasSuffix(path, "/text/multi"):
		var out []any
		msgs, _ := req["messages"].([]any)
		for _, m := range msgs {
			mm, _ := m.(map[string]any)
			out = append(out, sentMessage(mm["to"]))
		}
		return map[string]any{"bulkId": uuid.NewString(), "messages": out}

	case method == http.MethodPost && len(parts) == 3 && parts[0] == "2fa" && parts[2] == "pin":
		return map[string]any{
			"pinId":     uuid.NewString(),
			"to":        req["to"],
			"ncStatus":  "NC_DESTINATION_REACHABLE",
			"smsStatus": "MESSAGE_SENT",
		}

	case method == http.MethodPost && strings.HasSuffix(path, "/verify"):
		return map[string]any{
			"pinId":             parts[len(parts)-2],
			"verified":          req["pin"] == "1234",
			"attemptsRemaining": 2,
		}

	case method == http.MethodPost && strings.HasSuffix(path, "/applications"):
		req["applicationId"] = uuid.NewString()
		return req

	case method == http.MethodPost && strings.HasSuffix(path, "/messages"):
		req["messageId"] = uuid.NewString()
		req["applicationId"] = parts[len(parts)-2]
		return req

	case method == http.MethodPost && strings.HasSuffix(path, "/api-keys"):
		req["id"] = uuid.NewString()
		req["publicApiKey"] = strings.ReplaceAll(uuid.NewString(), "-", "")
		return req
	}

	return req
}

func sentMessage(to any) map[string]any {
	return map[string]any{
		"to":        to,
		"messageId": uuid.NewString(),
		"status": map[string]any{
			"groupId":   1,
			"groupName": "PENDING",
			"id":        26,
			"name":      "PENDING_ACCEPTED",
		},
	}
}

func serviceException(id, text string) map[string]any {
	return map[string]any{
		"requestError": map[string]any{
			"serviceException": map[string]any{
				"messageId": id,
				"text":      text,
			},
		},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
