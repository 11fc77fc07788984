package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func doRequest(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerMissingText(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"no query", "/say"},
		{"other parameter", "/say?message=hello"},
		{"misspelled parameter", "/say?Text=hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			speaker := newCountingSpeaker(true)
			rec := doRequest(t, NewHandler(speaker, nil), http.MethodGet, tt.target)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON body %q: %v", rec.Body.String(), err)
			}
			if body["error"] != "Missing or invalid 'text' parameter" {
				t.Errorf("error = %v", body["error"])
			}
			if _, ok := body["success"]; ok {
				t.Error("error body must not carry a success field")
			}
			if speaker.Calls() != 0 {
				t.Errorf("speaker called %d times, want 0", speaker.Calls())
			}
		})
	}
}

func TestHandlerSpeakResult(t *testing.T) {
	tests := []struct {
		name        string
		succeeds    bool
		wantMessage string
	}{
		{"speaker succeeds", true, "Text spoken successfully"},
		{"speaker fails", false, "Failed to execute say command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			speaker := newCountingSpeaker(tt.succeeds)
			rec := doRequest(t, NewHandler(speaker, nil), http.MethodGet, "/say?text=Hello")

			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}

			var resp SayResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid JSON body %q: %v", rec.Body.String(), err)
			}
			if resp.Success != tt.succeeds {
				t.Errorf("success = %v, want %v", resp.Success, tt.succeeds)
			}
			if resp.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", resp.Message, tt.wantMessage)
			}
			if speaker.Calls() != 1 {
				t.Errorf("speaker called %d times, want 1", speaker.Calls())
			}
		})
	}
}

func TestHandlerSanitizesWithoutEcho(t *testing.T) {
	speaker := newCountingSpeaker(true)
	target := "/say?text=" + "%20Tom%20%26%20Jerry%3B%20%60rm%20-rf%60%20%24HOME%20%7C%20sh%0A"
	rec := doRequest(t, NewHandler(speaker, nil), http.MethodGet, target)

	spoken := speaker.Spoken()
	if len(spoken) != 1 {
		t.Fatalf("speaker called %d times, want 1", len(spoken))
	}
	want := "Tom and Jerry rm -rf HOME  sh"
	if spoken[0] != want {
		t.Errorf("speaker received %q, want %q", spoken[0], want)
	}
	if strings.Contains(rec.Body.String(), "Jerry") {
		t.Errorf("response echoes the input: %s", rec.Body.String())
	}
}

func TestHandlerEmptyTextIsSpoken(t *testing.T) {
	speaker := newCountingSpeaker(true)
	rec := doRequest(t, NewHandler(speaker, nil), http.MethodGet, "/say?text=")

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if speaker.Calls() != 1 {
		t.Errorf("speaker called %d times, want 1", speaker.Calls())
	}
}

func TestHandlerRoutes(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		status int
	}{
		{"unknown path", http.MethodGet, "/speak?text=hi", http.StatusNotFound},
		{"root", http.MethodGet, "/", http.StatusNotFound},
		{"post not allowed", http.MethodPost, "/say?text=hi", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			speaker := newCountingSpeaker(true)
			rec := doRequest(t, NewHandler(speaker, nil), tt.method, tt.target)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if speaker.Calls() != 0 {
				t.Errorf("speaker called %d times, want 0", speaker.Calls())
			}
		})
	}
}

func TestHandlerConcurrentRequests(t *testing.T) {
	speaker := newCountingSpeaker(true)
	h := NewHandler(speaker, nil)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := doRequest(t, h, http.MethodGet, "/say?text=hello")
			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
			}
		}()
	}
	wg.Wait()

	if speaker.Calls() != n {
		t.Errorf("speaker called %d times, want %d", speaker.Calls(), n)
	}
}
