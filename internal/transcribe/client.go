// Package transcribe wraps the remote speech-to-text service.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"minuteshub/internal/fault"
)

// Formats the backend accepts. Anything else falls back to mp3.
var allowedFormats = map[string]bool{
	"mp3":  true,
	"mp4":  true,
	"m4a":  true,
	"wav":  true,
	"webm": true,
	"ogg":  true,
	"flac": true,
}

const fallbackFormat = "mp3"

// Result is the transcription outcome. Duration is in seconds and may be
// reported as 0 when the backend does not know it.
type Result struct {
	Text     string  `json:"text"`
	Duration float64 `json:"duration"`
}

type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 120 * time.Second, // long audio takes a while
		},
	}
}

// Transcribe sends raw audio bytes for transcription. filename is only a
// format hint; unrecognized extensions default to mp3.
func (c *Client) Transcribe(ctx context.Context, audio []byte, filename string) (*Result, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writer.WriteField("model", c.model); err != nil {
		return nil, fault.Wrap(fault.KindTranscription, "build request", err)
	}
	if err := writer.WriteField("format", FormatHint(filename)); err != nil {
		return nil, fault.Wrap(fault.KindTranscription, "build request", err)
	}

	part, err := writer.CreateFormFile("file", safeFilename(filename))
	if err != nil {
		return nil, fault.Wrap(fault.KindTranscription, "build request", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, fault.Wrap(fault.KindTranscription, "build request", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fault.Wrap(fault.KindTranscription, "build request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/audio/transcriptions", body)
	if err != nil {
		return nil, fault.Wrap(fault.KindTranscription, "build request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fault.Wrap(fault.KindNetwork, "transcription service unreachable", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fault.Wrap(fault.KindTranscription, "read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fault.New(fault.KindTranscription,
			fmt.Sprintf("transcription service error (HTTP %d): %s", resp.StatusCode, string(respBody)))
	}

	var result Result
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fault.Wrap(fault.KindTranscription, "parse response", err)
	}
	return &result, nil
}

// FormatHint infers the audio container format from the original filename
// extension, falling back to mp3 for anything outside the allow-list.
func FormatHint(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if allowedFormats[ext] {
		return ext
	}
	return fallbackFormat
}

func safeFilename(filename string) string {
	if filename == "" {
		return "audio." + fallbackFormat
	}
	return filepath.Base(filename)
}
