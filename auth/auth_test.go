package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func tokenServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"token123","token_type":"bearer","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetTokenAndSetAuthHeader(t *testing.T) {
	var hits atomic.Int32
	server := tokenServer(t, &hits)

	cfg := Conf{ClientID: "id", ClientSecret: "secret", TokenURL: server.URL}
	client := NewClientCred(cfg)

	token, err := client.GetToken(context.Background())
	if err != nil {
		t.Fatalf("GetToken returned error: %v", err)
	}
	if token != "token123" {
		t.Fatalf("unexpected token %s", token)
	}

	req, _ := http.NewRequest("GET", "http://example.com", nil)
	if err := client.SetAuthHeader(req); err != nil {
		t.Fatalf("SetAuthHeader returned error: %v", err)
	}
	if auth := req.Header.Get("Authorization"); auth != "Bearer token123" {
		t.Fatalf("unexpected Authorization header %q", auth)
	}
	if hits.Load() != 1 {
		t.Fatalf("token should be cached, got %d fetches", hits.Load())
	}
	if _, err := client.ForceRefresh(context.Background()); err != nil {
		t.Fatalf("ForceRefresh returned error: %v", err)
	}
	if hits.Load() != 2 {
		t.Fatalf("expected a second fetch, got %d", hits.Load())
	}
}

func TestNewSelectsMode(t *testing.T) {
	a, err := New(Conf{})
	if err != nil || a != nil {
		t.Fatalf("expected no authorizer, got %v %v", a, err)
	}
	a, err = New(Conf{Token: "s3cret"})
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_ = a.SetAuthHeader(req)
	if req.Header.Get("Authorization") != "Bearer s3cret" {
		t.Fatalf("static token not applied")
	}
	if _, err := New(Conf{Token: "x", ClientID: "id"}); err == nil {
		t.Fatal("expected error for mixed modes")
	}
	if _, err := New(Conf{ClientID: "id"}); err == nil {
		t.Fatal("expected error for incomplete client credentials")
	}
}

func TestRequireBearer(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := RequireBearer("s3cret", ok)

	cases := map[string]int{
		"":              http.StatusUnauthorized,
		"Bearer wrong":  http.StatusUnauthorized,
		"s3cret":        http.StatusUnauthorized,
		"Bearer s3cret": http.StatusNoContent,
	}
	for header, want := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/plans", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("header %q: got %d want %d", header, rec.Code, want)
		}
	}

	rec := httptest.NewRecorder()
	RequireBearer("", ok).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("empty token should disable the check, got %d", rec.Code)
	}
}
