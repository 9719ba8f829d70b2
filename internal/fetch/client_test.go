package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestGetJSONDecodesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sekret" {
			t.Errorf("expected bearer token header, got %q", r.Header.Get("Authorization"))
		}
		w.Write([]byte(`{"login": "alice", "public_repos": 12}`))
	}))
	defer server.Close()

	client := New(zap.NewNop(), time.Second)
	client.Token = "sekret"

	var profile struct {
		Login       string `json:"login"`
		PublicRepos int    `json:"public_repos"`
	}

	if err := client.GetJSON(context.Background(), server.URL, &profile); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if profile.Login != "alice" || profile.PublicRepos != 12 {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestGetClassifiesHTTPStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := New(zap.NewNop(), time.Second)

	_, err := client.Get(context.Background(), server.URL)
	if err == nil {
		t.Fatalf("expected error for 404 response")
	}

	var fetchErr *Error
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *Error, got %T", err)
	}

	if fetchErr.Kind != KindHTTPStatus || fetchErr.Status != http.StatusNotFound {
		t.Fatalf("unexpected classification: kind=%s status=%d", fetchErr.Kind, fetchErr.Status)
	}

	if fetchErr.Retryable() {
		t.Fatalf("http status failures must not be retryable")
	}
}

func TestGetClassifiesTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	client := New(zap.NewNop(), 50*time.Millisecond)

	_, err := client.Get(context.Background(), server.URL)

	var fetchErr *Error
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *Error, got %v", err)
	}

	if fetchErr.Kind != KindTimeout {
		t.Fatalf("expected timeout kind, got %s", fetchErr.Kind)
	}

	if !fetchErr.Retryable() {
		t.Fatalf("timeouts must be retryable")
	}
}

func TestGetClassifiesTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	client := New(zap.NewNop(), time.Second)

	_, err := client.Get(context.Background(), url)

	var fetchErr *Error
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *Error, got %v", err)
	}

	if fetchErr.Kind != KindTransport {
		t.Fatalf("expected transport kind, got %s", fetchErr.Kind)
	}
}

func TestGetJSONClassifiesParseFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer server.Close()

	client := New(zap.NewNop(), time.Second)

	var target map[string]any
	err := client.GetJSON(context.Background(), server.URL, &target)

	var fetchErr *Error
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *Error, got %v", err)
	}

	if fetchErr.Kind != KindParse {
		t.Fatalf("expected parse kind, got %s", fetchErr.Kind)
	}

	if fetchErr.Retryable() {
		t.Fatalf("parse failures must not be retryable")
	}
}

func TestPostJSONSendsPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	client := New(zap.NewNop(), time.Second)

	var target struct {
		OK bool `json:"ok"`
	}
	if err := client.PostJSON(context.Background(), server.URL, map[string]string{"q": "hi"}, &target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !target.OK {
		t.Fatalf("expected decoded response")
	}
}
