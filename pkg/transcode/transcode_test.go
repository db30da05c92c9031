package transcode

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestMP3Args(t *testing.T) {
	args := mp3Args("in.webm", "out.mp3")

	want := map[string]string{
		"-ac":     "1",
		"-ar":     "44100",
		"-b:a":    "192k",
		"-acodec": "libmp3lame",
		"-i":      "in.webm",
	}
	for flag, value := range want {
		found := false
		for i := 0; i < len(args)-1; i++ {
			if args[i] == flag && args[i+1] == value {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("args missing %s %s: %v", flag, value, args)
		}
	}

	if args[len(args)-1] != "out.mp3" {
		t.Errorf("last arg = %q, want output path", args[len(args)-1])
	}
}

func TestFFmpeg_Transcode_BinaryMissing(t *testing.T) {
	f := NewFFmpegWithPath(filepath.Join(t.TempDir(), "no-such-ffmpeg"))

	err := f.Transcode(context.Background(), "in.webm", "out.mp3")
	var tErr *Error
	if !errors.As(err, &tErr) {
		t.Fatalf("Transcode() error = %v, want *Error", err)
	}
}

func TestFFmpeg_CheckInstalled_BinaryMissing(t *testing.T) {
	f := NewFFmpegWithPath(filepath.Join(t.TempDir(), "no-such-ffmpeg"))
	if err := f.CheckInstalled(); err == nil {
		t.Error("CheckInstalled() expected error for missing binary")
	}
}

func TestNewFFmpegWithPath_EmptyFallsBack(t *testing.T) {
	f := NewFFmpegWithPath("")
	if f.Path() == "" {
		t.Error("Path() is empty")
	}
}

func TestError_IncludesDiagnostics(t *testing.T) {
	err := &Error{Message: "exit status 1", Output: "Invalid data found when processing input"}
	if got := err.Error(); got != "transcode failed: exit status 1: Invalid data found when processing input" {
		t.Errorf("Error() = %q", got)
	}
}
