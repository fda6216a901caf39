package out

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestHTTPHeightClientConvertsCentimetersToMillimeters(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"table_height": 72.4}`))
	}))
	defer srv.Close()

	client := NewHTTPHeightClient(srv.URL)
	mm, err := client.HeightMM(context.Background())
	if err != nil {
		t.Fatalf("HeightMM: %v", err)
	}
	if mm != 724 {
		t.Fatalf("got %d mm, want 724", mm)
	}
}

func TestHTTPHeightClientRetriesOnServerError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"table_height": 110.0}`))
	}))
	defer srv.Close()

	client := NewHTTPHeightClient(srv.URL)
	mm, err := client.HeightMM(context.Background())
	if err != nil {
		t.Fatalf("HeightMM: %v", err)
	}
	if mm != 1100 {
		t.Fatalf("got %d mm, want 1100", mm)
	}
	if calls.Load() != 2 {
		t.Fatalf("got %d calls, want 2", calls.Load())
	}
}

func TestHTTPHeightClientRejectsMissingField(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewHTTPHeightClient(srv.URL)
	if _, err := client.HeightMM(context.Background()); err == nil {
		t.Fatal("expected error for payload without table_height")
	}
}
