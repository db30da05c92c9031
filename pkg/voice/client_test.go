package voice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "valid config",
			config:  Config{APIKey: "test-api-key"},
			wantErr: false,
		},
		{
			name:    "valid config with model",
			config:  Config{APIKey: "test-api-key", Model: "eleven_multilingual_v2"},
			wantErr: false,
		},
		{
			name:    "missing API key",
			config:  Config{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewClient() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && client == nil {
				t.Error("NewClient() returned nil client")
			}
		})
	}
}

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.mp3")
	if err := os.WriteFile(path, []byte("mp3-bytes"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(Config{APIKey: "test-api-key", BaseURL: baseURL})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestClient_AddVoice(t *testing.T) {
	var gotName string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/voices/add" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("xi-api-key") != "test-api-key" {
			t.Error("missing xi-api-key header")
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotName = r.FormValue("name")
		if len(r.MultipartForm.File["files"]) != 1 {
			t.Error("expected one files part")
		}
		json.NewEncoder(w).Encode(map[string]string{"voice_id": "voice-123"})
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	voiceID, err := client.AddVoice(context.Background(), "demo-voice", "temporary demo clone", writeSample(t))
	if err != nil {
		t.Fatalf("AddVoice() error = %v", err)
	}
	if voiceID != "voice-123" {
		t.Errorf("AddVoice() = %q, want %q", voiceID, "voice-123")
	}
	if gotName != "demo-voice" {
		t.Errorf("name field = %q, want %q", gotName, "demo-voice")
	}
}

func TestClient_AddVoice_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":[{"msg":"sample too short"}]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.AddVoice(context.Background(), "demo-voice", "", writeSample(t))

	var cloneErr *CloneError
	if !errors.As(err, &cloneErr) {
		t.Fatalf("AddVoice() error = %v, want *CloneError", err)
	}
	if cloneErr.Message != "sample too short" {
		t.Errorf("CloneError.Message = %q, want %q", cloneErr.Message, "sample too short")
	}
}

func TestClient_Synthesize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/text-to-speech/voice-123" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body struct {
			Text          string `json:"text"`
			ModelID       string `json:"model_id"`
			VoiceSettings *struct {
				Stability       float64 `json:"stability"`
				SimilarityBoost float64 `json:"similarity_boost"`
				UseSpeakerBoost bool    `json:"use_speaker_boost"`
			} `json:"voice_settings"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Text != "안녕하세요" {
			t.Errorf("text = %q", body.Text)
		}
		if body.ModelID != "eleven_multilingual_v2" {
			t.Errorf("model_id = %q", body.ModelID)
		}
		if body.VoiceSettings == nil || !body.VoiceSettings.UseSpeakerBoost {
			t.Error("expected voice_settings with speaker boost")
		}
		w.Write([]byte("mp3-audio"))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	audio, err := client.Synthesize(context.Background(), "voice-123", "안녕하세요")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if string(audio) != "mp3-audio" {
		t.Errorf("Synthesize() = %q", audio)
	}
}

func TestClient_Synthesize_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":{"message":"text too long"}}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.Synthesize(context.Background(), "voice-123", "text")

	var synthErr *SynthesisError
	if !errors.As(err, &synthErr) {
		t.Fatalf("Synthesize() error = %v, want *SynthesisError", err)
	}
	if synthErr.Message != "text too long" {
		t.Errorf("SynthesisError.Message = %q, want %q", synthErr.Message, "text too long")
	}
}

func TestClient_DeleteVoice(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	if err := client.DeleteVoice(context.Background(), "voice-123"); err != nil {
		t.Fatalf("DeleteVoice() error = %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("method = %s, want DELETE", gotMethod)
	}
	if gotPath != "/voices/voice-123" {
		t.Errorf("path = %s", gotPath)
	}
}

func TestClient_DeleteVoice_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"voice not found"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	err := client.DeleteVoice(context.Background(), "voice-123")
	if err == nil {
		t.Fatal("DeleteVoice() expected error")
	}
}
