package server

import (
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/jjh9707/Cerberus/pkg/convert"
	"github.com/jjh9707/Cerberus/pkg/trace"
)

// User-facing messages. The app's audience is Korean adolescents; the client
// shows these verbatim.
const (
	msgTextRequired     = "변환할 문장이 필요합니다."
	msgAudioRequired    = "음성 파일이 필요합니다."
	msgAudioTooLarge    = "음성 파일은 10MB 이하여야 합니다."
	msgTooManyRequests  = "요청이 너무 많아요. 잠시 후 다시 시도해주세요."
	msgTranscodeFailed  = "녹음 파일을 처리하지 못했어요. 다시 녹음해서 시도해주세요."
	msgConversionFailed = "음성 변환 중 오류가 발생했습니다. 다시 시도해주세요."
	msgStageFailed      = "음성 파일을 저장하지 못했습니다. 다시 시도해주세요."
)

// handleConvertVoice accepts a multipart upload {audio, text}, stages the
// audio to a temp file, runs the conversion pipeline, and streams back the
// synthesized MP3. Every failure produces a structured JSON error; a partial
// audio stream is never written.
func (s *Server) handleConvertVoice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if !s.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests, msgTooManyRequests)
		return
	}

	ctx, span := trace.StartSpan(r.Context(), "http.convert_voice")
	defer span.End()

	// The multipart overhead is small; a little slack over the audio cap
	// keeps legitimate uploads from tripping the body limit before the
	// per-part check below.
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(s.config.MaxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusBadRequest, msgAudioTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, msgAudioRequired)
		return
	}
	defer r.MultipartForm.RemoveAll()

	text := strings.TrimSpace(r.FormValue("text"))
	if text == "" {
		writeError(w, http.StatusBadRequest, msgTextRequired)
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgAudioRequired)
		return
	}
	defer file.Close()

	if header.Size > s.config.MaxUploadBytes {
		writeError(w, http.StatusBadRequest, msgAudioTooLarge)
		return
	}

	stagedPath, err := s.stageUpload(file)
	if err != nil {
		log.Printf("convert-voice: stage upload: %v", err)
		writeError(w, http.StatusInternalServerError, msgStageFailed)
		return
	}

	// The converter owns the staged file from here on, including deletion.
	audio, err := s.converter.Convert(ctx, stagedPath, text)
	if err != nil {
		log.Printf("convert-voice: %v", err)
		trace.RecordError(span, err)
		writeError(w, http.StatusInternalServerError, conversionMessage(err))
		return
	}

	writeAudio(w, audio)
}

// stageUpload copies the uploaded part to a uniquely named temp file.
func (s *Server) stageUpload(file io.Reader) (string, error) {
	tmp, err := os.CreateTemp(s.config.StageDir, "upload_*.webm")
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	return tmp.Name(), nil
}

// conversionMessage maps a pipeline failure to the user-facing message. The
// transcode stage hides encoder diagnostics behind a re-record hint; provider
// stages pass the parsed provider message through.
func conversionMessage(err error) string {
	var convErr *convert.Error
	if !errors.As(err, &convErr) {
		return msgConversionFailed
	}

	switch convErr.Stage {
	case convert.StageTranscode:
		return msgTranscodeFailed
	case convert.StageClone, convert.StageSynthesize:
		if msg := convErr.Message(); msg != "" {
			return msg
		}
	}
	return msgConversionFailed
}
