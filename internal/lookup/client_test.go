package lookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient() *Client {
	return NewClient(WithRateLimit(1000), WithRetries(2))
}

func TestGetJSON_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"value": 42}`))
	}))
	defer srv.Close()

	var out struct {
		Value int `json:"value"`
	}
	if err := testClient().GetJSON(context.Background(), "test", srv.URL, nil, &out); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if out.Value != 42 {
		t.Errorf("Value = %d, want 42", out.Value)
	}
}

func TestGetJSON_RetriesTransientFailures(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	var out struct{}
	if err := testClient().GetJSON(context.Background(), "test", srv.URL, nil, &out); err != nil {
		t.Fatalf("GetJSON after retries: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestGetJSON_UnavailableAfterExhaustion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	var out struct{}
	err := testClient().GetJSON(context.Background(), "test", srv.URL, nil, &out)
	if !IsUnavailable(err) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestGetJSON_NoRetryOnClientError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	var out struct{}
	err := testClient().GetJSON(context.Background(), "test", srv.URL, nil, &out)
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (404 is not transient)", calls)
	}
}

func TestGetJSON_RetriesRateLimit(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	var out struct{}
	if err := testClient().GetJSON(context.Background(), "test", srv.URL, nil, &out); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestGetJSON_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var out struct{}
	err := testClient().GetJSON(ctx, "test", srv.URL, nil, &out)
	if err == nil {
		t.Fatal("expected error after cancellation")
	}
}

func TestGetJSON_SetsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(WithRateLimit(1000), WithUserAgent("refcheck-test/1.0"))
	var out struct{}
	if err := client.GetJSON(context.Background(), "test", srv.URL, nil, &out); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if gotUA != "refcheck-test/1.0" {
		t.Errorf("User-Agent = %q", gotUA)
	}
}
