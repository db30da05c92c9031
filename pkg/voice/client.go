// ElevenLabs voice-cloning client
//
// Wraps the three provider operations the conversion pipeline needs: create a
// voice from an audio sample, synthesize speech with a cloned voice, and
// delete the cloned voice again.
//
// Reference: https://elevenlabs.io/docs/api-reference/voices/add

package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	elevenLabsBaseURL      = "https://api.elevenlabs.io/v1"
	elevenLabsDefaultModel = "eleven_multilingual_v2"

	// Voice-shaping defaults for the deepvoice demo. Tuned once against the
	// Korean demo sentences; not user-configurable.
	defaultStability       = 0.5
	defaultSimilarityBoost = 0.75
	defaultStyle           = 0.5
)

// Config holds the configuration for the ElevenLabs client.
type Config struct {
	APIKey     string        // Required: ElevenLabs API key
	BaseURL    string        // Optional: API base URL (default: https://api.elevenlabs.io/v1)
	Model      string        // Optional: TTS model ID (default: eleven_multilingual_v2)
	HTTPClient *http.Client  // Optional: custom HTTP client
	Timeout    time.Duration // Optional: request timeout when no client is given (default: 2m)
}

// Client talks to the ElevenLabs API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient creates a new ElevenLabs client.
func NewClient(config Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("ElevenLabs API key is required")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = elevenLabsBaseURL
	}

	model := config.Model
	if model == "" {
		model = elevenLabsDefaultModel
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout == 0 {
			timeout = 2 * time.Minute
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		apiKey:     config.APIKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
	}, nil
}

// AddVoice uploads an audio sample and creates a cloned voice from it.
// It returns the provider's opaque voice ID. The caller owns the returned
// voice and must delete it with DeleteVoice when done with it.
func (c *Client) AddVoice(ctx context.Context, name, description, samplePath string) (string, error) {
	f, err := os.Open(samplePath)
	if err != nil {
		return "", &CloneError{Message: fmt.Sprintf("open sample: %v", err)}
	}
	defer f.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writer.WriteField("name", name); err != nil {
		return "", &CloneError{Message: fmt.Sprintf("write name field: %v", err)}
	}
	if description != "" {
		if err := writer.WriteField("description", description); err != nil {
			return "", &CloneError{Message: fmt.Sprintf("write description field: %v", err)}
		}
	}

	part, err := writer.CreateFormFile("files", filepath.Base(samplePath))
	if err != nil {
		return "", &CloneError{Message: fmt.Sprintf("create form file: %v", err)}
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", &CloneError{Message: fmt.Sprintf("copy sample: %v", err)}
	}
	if err := writer.Close(); err != nil {
		return "", &CloneError{Message: fmt.Sprintf("close multipart writer: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/voices/add", body)
	if err != nil {
		return "", &CloneError{Message: fmt.Sprintf("create request: %v", err)}
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &CloneError{Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &CloneError{Message: fmt.Sprintf("read response: %v", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &CloneError{Message: parseAPIError(respBody)}
	}

	var out struct {
		VoiceID string `json:"voice_id"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil || out.VoiceID == "" {
		return "", &CloneError{Message: fmt.Sprintf("unexpected voice response: %s", respBody)}
	}

	return out.VoiceID, nil
}

// HTTP request body types

type synthesizeRequestBody struct {
	Text          string         `json:"text"`
	ModelID       string         `json:"model_id"`
	VoiceSettings *voiceSettings `json:"voice_settings,omitempty"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// Synthesize generates speech for text using the given cloned voice and
// returns the raw MP3 bytes.
func (c *Client) Synthesize(ctx context.Context, voiceID, text string) ([]byte, error) {
	requestBody := synthesizeRequestBody{
		Text:    text,
		ModelID: c.model,
		VoiceSettings: &voiceSettings{
			Stability:       defaultStability,
			SimilarityBoost: defaultSimilarityBoost,
			Style:           defaultStyle,
			UseSpeakerBoost: true,
		},
	}

	bodyBytes, err := json.Marshal(requestBody)
	if err != nil {
		return nil, &SynthesisError{Message: fmt.Sprintf("marshal request body: %v", err)}
	}

	requestURL := fmt.Sprintf("%s/text-to-speech/%s", c.baseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, &SynthesisError{Message: fmt.Sprintf("create request: %v", err)}
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &SynthesisError{Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, &SynthesisError{Message: parseAPIError(respBody)}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &SynthesisError{Message: fmt.Sprintf("read audio response: %v", err)}
	}

	return audio, nil
}

// DeleteVoice removes a cloned voice from the provider account.
func (c *Client) DeleteVoice(ctx context.Context, voiceID string) error {
	requestURL := fmt.Sprintf("%s/voices/%s", c.baseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, requestURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("delete voice %s: %s", voiceID, parseAPIError(respBody))
	}

	return nil
}
