package convert

import (
	"errors"

	"github.com/jjh9707/Cerberus/pkg/voice"
)

// Stage names the pipeline stage a conversion failed in.
type Stage string

const (
	StageTranscode  Stage = "transcode"
	StageClone      Stage = "clone"
	StageSynthesize Stage = "synthesize"
)

// Error is the terminal Failed(stage, reason) outcome of a conversion. It
// wraps the collaborator error of the stage that failed first; cleanup
// failures never replace it.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return "conversion failed at " + string(e.Stage) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message returns the human-readable reason to show the user. For provider
// failures this is the parsed provider message; transcode failures keep the
// encoder diagnostics out of the user's face and let the handler pick the
// wording.
func (e *Error) Message() string {
	var cloneErr *voice.CloneError
	if errors.As(e.Err, &cloneErr) {
		return cloneErr.Message
	}
	var synthErr *voice.SynthesisError
	if errors.As(e.Err, &synthErr) {
		return synthErr.Message
	}
	return e.Err.Error()
}
