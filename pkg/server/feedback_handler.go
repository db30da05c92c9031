package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/jjh9707/Cerberus/pkg/feedback"
)

const (
	msgFeedbackFieldsRequired = "제목과 내용을 입력해주세요."
	msgFeedbackInvalidType    = "유효하지 않은 피드백 유형입니다."
	msgFeedbackStored         = "피드백이 Google Sheets에 저장되었습니다."
	msgFeedbackStoredLocal    = "피드백이 저장되었습니다. (Google Sheets 미연동)"
	msgFeedbackFailed         = "피드백 전송 중 오류가 발생했습니다."
)

type feedbackRequest struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Email   string `json:"email"`
}

// handleFeedback validates a feedback submission and relays it to the
// spreadsheet webhook.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgFeedbackFieldsRequired)
		return
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, msgFeedbackFieldsRequired)
		return
	}

	if !feedback.KnownType(req.Type) {
		writeError(w, http.StatusBadRequest, msgFeedbackInvalidType)
		return
	}

	entry := feedback.Entry{
		Type:    req.Type,
		Title:   req.Title,
		Content: req.Content,
		Email:   req.Email,
	}

	if err := s.relay.Submit(r.Context(), entry); err != nil {
		log.Printf("feedback: %v", err)
		writeError(w, http.StatusInternalServerError, msgFeedbackFailed)
		return
	}

	message := msgFeedbackStoredLocal
	if s.relay.Forwarding() {
		message = msgFeedbackStored
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: message})
}
