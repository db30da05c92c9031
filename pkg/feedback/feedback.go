// Package feedback relays user feedback to a Google Apps Script webhook that
// appends rows to a spreadsheet. When no webhook is configured the entry is
// logged server-side instead so feedback is never silently dropped.
package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Entry is one feedback submission.
type Entry struct {
	Type    string // bug, suggestion, general
	Title   string
	Content string
	Email   string // optional
}

var typeLabels = map[string]string{
	"bug":        "버그 신고",
	"suggestion": "개선 제안",
	"general":    "일반 의견",
}

const defaultTypeLabel = "일반 의견"

// KnownType reports whether t is a recognized feedback type. An empty type is
// accepted and treated as general feedback.
func KnownType(t string) bool {
	if t == "" {
		return true
	}
	_, ok := typeLabels[t]
	return ok
}

// TypeLabel maps a feedback type to its Korean spreadsheet label.
func TypeLabel(t string) string {
	if label, ok := typeLabels[t]; ok {
		return label
	}
	return defaultTypeLabel
}

// kst is the spreadsheet's timezone; rows are stamped in Korean local time.
var kst = time.FixedZone("KST", 9*60*60)

// Relay submits feedback rows to the configured Apps Script webhook.
type Relay struct {
	scriptURL  string
	httpClient *http.Client
	now        func() time.Time
}

// NewRelay creates a Relay. An empty scriptURL disables forwarding; entries
// are logged instead.
func NewRelay(scriptURL string) *Relay {
	return &Relay{
		scriptURL:  scriptURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}
}

// Forwarding reports whether a webhook is configured.
func (r *Relay) Forwarding() bool {
	return r.scriptURL != ""
}

// Submit stamps the entry with the current Korean date and time and forwards
// it to the webhook. With no webhook configured it logs the entry and returns
// nil.
func (r *Relay) Submit(ctx context.Context, entry Entry) error {
	now := r.now().In(kst)
	date := now.Format("2006-01-02")
	clock := now.Format("15:04:05")
	label := TypeLabel(entry.Type)

	if r.scriptURL == "" {
		log.Printf("feedback received (Google Sheets not configured): %s %s [%s] %s", date, clock, label, entry.Title)
		return nil
	}

	payload := struct {
		Values []string `json:"values"`
	}{
		Values: []string{date, clock, label, entry.Title, entry.Content, entry.Email},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal feedback payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.scriptURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("forward feedback: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("Google Sheets webhook returned status %d", resp.StatusCode)
	}

	return nil
}
