// Package convert sequences the voice-conversion pipeline: transcode the
// uploaded recording, create a provider-side voice clone from it, synthesize
// the target sentence in that voice, and release every transient artifact on
// every exit path.
package convert

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jjh9707/Cerberus/pkg/trace"
	"github.com/jjh9707/Cerberus/pkg/transcode"
)

// VoiceService is the subset of the provider client the pipeline uses.
type VoiceService interface {
	AddVoice(ctx context.Context, name, description, samplePath string) (string, error)
	Synthesize(ctx context.Context, voiceID, text string) ([]byte, error)
	DeleteVoice(ctx context.Context, voiceID string) error
}

const voiceDescription = "temporary demo clone, deleted after the request"

// Converter owns the stage sequencing and the artifact lifecycle of one
// conversion request. Safe for concurrent use; every request works on
// uniquely named files and its own provider voice.
type Converter struct {
	transcoder transcode.Transcoder
	voices     VoiceService
	tempDir    string
}

// New creates a Converter writing transcoded samples under tempDir.
// An empty tempDir falls back to a subdirectory of the system temp dir.
func New(transcoder transcode.Transcoder, voices VoiceService, tempDir string) (*Converter, error) {
	if tempDir == "" {
		tempDir = filepath.Join(os.TempDir(), "cerberus-convert")
	}
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	return &Converter{
		transcoder: transcoder,
		voices:     voices,
		tempDir:    tempDir,
	}, nil
}

// Convert runs the full pipeline for one staged upload and returns the
// synthesized MP3 bytes. It takes ownership of the file at stagedPath: the
// staged file, the transcoded sample, and the provider-side voice clone are
// all released before Convert returns, whether or not a stage failed.
//
// The pipeline runs on a context detached from the caller's cancellation. A
// client that disconnects mid-request must not leave a cloned voice behind on
// the provider account, so in-flight stages finish and cleanup always runs.
func (c *Converter) Convert(ctx context.Context, stagedPath, text string) ([]byte, error) {
	ctx = context.WithoutCancel(ctx)

	id := uuid.NewString()
	releases := newReleaseStack(id)
	defer releases.run()

	releases.push("staged file", func() error {
		return os.Remove(stagedPath)
	})

	// Staged -> Transcoded
	transcodedPath := filepath.Join(c.tempDir, fmt.Sprintf("sample_%s.mp3", id))
	if err := c.transcodeStage(ctx, id, stagedPath, transcodedPath); err != nil {
		return nil, &Error{Stage: StageTranscode, Err: err}
	}
	releases.push("transcoded file", func() error {
		return os.Remove(transcodedPath)
	})

	// Transcoded -> Cloned. The clone is a biometric artifact on third-party
	// infrastructure; it is created as late as possible and its release is
	// registered before anything else can fail.
	voiceID, err := c.cloneStage(ctx, id, transcodedPath)
	if err != nil {
		return nil, &Error{Stage: StageClone, Err: err}
	}
	releases.push("provider voice", func() error {
		_, span := trace.InstrumentVoiceDelete(ctx, id)
		defer span.End()
		err := c.voices.DeleteVoice(ctx, voiceID)
		trace.RecordError(span, err)
		return err
	})

	// Cloned -> Synthesized
	audio, err := c.synthesizeStage(ctx, id, voiceID, text)
	if err != nil {
		return nil, &Error{Stage: StageSynthesize, Err: err}
	}

	return audio, nil
}

func (c *Converter) transcodeStage(ctx context.Context, id, inputPath, outputPath string) error {
	ctx, span := trace.InstrumentTranscode(ctx, id)
	defer span.End()

	err := c.transcoder.Transcode(ctx, inputPath, outputPath)
	trace.RecordError(span, err)
	return err
}

func (c *Converter) cloneStage(ctx context.Context, id, samplePath string) (string, error) {
	sampleSize := 0
	if info, err := os.Stat(samplePath); err == nil {
		sampleSize = int(info.Size())
	}

	ctx, span := trace.InstrumentVoiceClone(ctx, id, sampleSize)
	defer span.End()

	voiceID, err := c.voices.AddVoice(ctx, voiceLabel(id), voiceDescription, samplePath)
	trace.RecordError(span, err)
	return voiceID, err
}

func (c *Converter) synthesizeStage(ctx context.Context, id, voiceID, text string) ([]byte, error) {
	ctx, span := trace.InstrumentSynthesis(ctx, id, len(text))
	defer span.End()

	audio, err := c.voices.Synthesize(ctx, voiceID, text)
	trace.RecordError(span, err)
	return audio, err
}

// voiceLabel builds a collision-resistant provider-side name for the clone.
// Concurrent requests must never reuse a label, so it combines wall-clock
// time with the request's random ID.
func voiceLabel(id string) string {
	short := id
	if i := strings.IndexByte(id, '-'); i > 0 {
		short = id[:i]
	}
	return fmt.Sprintf("temp_%d_%s", time.Now().UnixMilli(), short)
}

// releaseStack collects release actions as artifacts are acquired and runs
// them in reverse order. Release failures are logged, never surfaced; the
// user-facing outcome is determined by the pipeline, not by cleanup.
type releaseStack struct {
	id       string
	releases []release
}

type release struct {
	name string
	fn   func() error
}

func newReleaseStack(id string) *releaseStack {
	return &releaseStack{id: id}
}

func (s *releaseStack) push(name string, fn func() error) {
	s.releases = append(s.releases, release{name: name, fn: fn})
}

func (s *releaseStack) run() {
	for i := len(s.releases) - 1; i >= 0; i-- {
		r := s.releases[i]
		if err := r.fn(); err != nil {
			log.Printf("convert %s: cleanup of %s failed: %v", s.id, r.name, err)
		}
	}
	s.releases = nil
}
