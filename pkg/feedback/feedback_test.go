package feedback

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTypeLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"bug", "버그 신고"},
		{"suggestion", "개선 제안"},
		{"general", "일반 의견"},
		{"", "일반 의견"},
	}
	for _, tt := range tests {
		if got := TypeLabel(tt.in); got != tt.want {
			t.Errorf("TypeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKnownType(t *testing.T) {
	for _, valid := range []string{"", "bug", "suggestion", "general"} {
		if !KnownType(valid) {
			t.Errorf("KnownType(%q) = false", valid)
		}
	}
	if KnownType("spam") {
		t.Error(`KnownType("spam") = true`)
	}
}

func TestRelay_Submit_ForwardsRow(t *testing.T) {
	var got struct {
		Values []string `json:"values"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	relay := NewRelay(srv.URL)
	// 2026-01-02 15:04:05 UTC == 2026-01-03 00:04:05 KST
	relay.now = func() time.Time {
		return time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	}

	err := relay.Submit(context.Background(), Entry{
		Type:    "bug",
		Title:   "타이머가 멈춰요",
		Content: "퀴즈 중 타이머가 멈춥니다",
		Email:   "kid@example.com",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	want := []string{"2026-01-03", "00:04:05", "버그 신고", "타이머가 멈춰요", "퀴즈 중 타이머가 멈춥니다", "kid@example.com"}
	if len(got.Values) != len(want) {
		t.Fatalf("values = %v, want %v", got.Values, want)
	}
	for i := range want {
		if got.Values[i] != want[i] {
			t.Errorf("values[%d] = %q, want %q", i, got.Values[i], want[i])
		}
	}
}

func TestRelay_Submit_WebhookError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	relay := NewRelay(srv.URL)
	if err := relay.Submit(context.Background(), Entry{Title: "t", Content: "c"}); err == nil {
		t.Error("Submit() expected error on webhook failure")
	}
}

func TestRelay_Submit_Unconfigured(t *testing.T) {
	relay := NewRelay("")
	if relay.Forwarding() {
		t.Error("Forwarding() = true for empty URL")
	}
	if err := relay.Submit(context.Background(), Entry{Title: "t", Content: "c"}); err != nil {
		t.Errorf("Submit() error = %v, want nil when unconfigured", err)
	}
}
