// Package transcode normalizes uploaded audio for the voice-cloning provider.
//
// Browser recordings arrive in whatever container MediaRecorder produced
// (typically webm/opus); the provider wants a clean MP3 sample. Conversion is
// delegated to an external ffmpeg process.
package transcode

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
)

// Transcoder converts an audio file into a normalized MP3 sample.
// Implementations must only report success when the output file exists and is
// complete.
type Transcoder interface {
	Transcode(ctx context.Context, inputPath, outputPath string) error
}

// Error is returned when the encoder cannot be started or rejects the input.
// Output carries the process diagnostics (stderr) when available.
type Error struct {
	Message string
	Output  string
}

func (e *Error) Error() string {
	if e.Output != "" {
		return "transcode failed: " + e.Message + ": " + e.Output
	}
	return "transcode failed: " + e.Message
}

// FFmpeg runs an external ffmpeg binary as a child process.
type FFmpeg struct {
	path string
}

// NewFFmpeg locates ffmpeg in common install locations, falling back to PATH.
func NewFFmpeg() *FFmpeg {
	paths := []string{
		"/opt/homebrew/bin/ffmpeg",
		"/usr/local/bin/ffmpeg",
		"/usr/bin/ffmpeg",
	}

	ffmpegPath := "ffmpeg"
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			ffmpegPath = p
			break
		}
	}

	return &FFmpeg{path: ffmpegPath}
}

// NewFFmpegWithPath uses an explicitly configured ffmpeg binary.
func NewFFmpegWithPath(path string) *FFmpeg {
	if path == "" {
		return NewFFmpeg()
	}
	return &FFmpeg{path: path}
}

// CheckInstalled verifies ffmpeg is runnable.
func (f *FFmpeg) CheckInstalled() error {
	cmd := exec.Command(f.path, "-version")
	if err := cmd.Run(); err != nil {
		return &Error{Message: "ffmpeg not found at " + f.path}
	}
	return nil
}

// Path returns the ffmpeg executable path.
func (f *FFmpeg) Path() string {
	return f.path
}

// Transcode converts inputPath into a mono 44.1kHz 192kbps MP3 at outputPath.
// A non-zero exit or an unstartable binary yields an *Error carrying the
// captured process output. Transcode failures are input-format problems, not
// transient ones, so callers should not retry.
func (f *FFmpeg) Transcode(ctx context.Context, inputPath, outputPath string) error {
	cmd := exec.CommandContext(ctx, f.path, mp3Args(inputPath, outputPath)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &Error{
			Message: err.Error(),
			Output:  strings.TrimSpace(stderr.String()),
		}
	}

	return nil
}

// mp3Args builds the ffmpeg arguments for the normalized sample format the
// provider expects: mono, 44.1kHz, 192kbps MP3.
func mp3Args(inputPath, outputPath string) []string {
	return []string{
		"-i", inputPath,
		"-vn", // audio only; MediaRecorder blobs may carry a video stream
		"-ac", "1",
		"-ar", "44100",
		"-b:a", "192k",
		"-acodec", "libmp3lame",
		"-y",
		outputPath,
	}
}

var _ Transcoder = (*FFmpeg)(nil)
