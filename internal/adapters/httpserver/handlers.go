package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/verifyit/verifyit/internal/adapters/store"
	"github.com/verifyit/verifyit/internal/alert"
	"github.com/verifyit/verifyit/internal/core"
	"go.uber.org/zap"
)

// apiVersion is reported on health checks and attached to results.
const apiVersion = "3.0"

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// defaultTestText seeds the high-risk alert test when no text is supplied.
const defaultTestText = "URGENT! Limited time offer! Click now to get free money and guaranteed returns."

type verifyRequest struct {
	Text string `json:"text"`
}

// verifyResponse decorates the analysis result with alert dispatch status.
type verifyResponse struct {
	*core.AnalysisResult
	AnalysisVersion string                `json:"analysisVersion"`
	FraudAlert      *alert.DispatchStatus `json:"fraudAlert,omitempty"`
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON request body")
		return
	}

	result, err := s.analysis.Analyze(r.Context(), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrEmptyInput):
			writeError(w, http.StatusBadRequest, "Text content is required for verification")
		case errors.Is(err, core.ErrInputTooLong):
			writeError(w, http.StatusBadRequest, "Text content too long. Please limit to 10,000 characters.")
		default:
			s.logger.Error("Verification failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Internal server error during verification")
		}
		return
	}

	result.Timestamp = time.Now().UTC()
	result.TextLength = len(req.Text)
	result.ProcessingID = uuid.New().String()

	resp := &verifyResponse{AnalysisResult: result, AnalysisVersion: apiVersion}

	if s.alerts != nil && s.alerts.ShouldAlert(result) {
		status, err := s.alerts.Dispatch(r.Context(), req.Text, result, alert.DispatchOptions{})
		if err != nil {
			s.logger.Error("Fraud alert dispatch failed", zap.Error(err))
			status = &alert.DispatchStatus{Attempted: true, Reason: "alert-processing-error"}
		}
		resp.FraudAlert = status
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "healthy",
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"version":      apiVersion,
		"aiEnabled":    s.aiProvider != "",
		"analysisType": "Advanced Pattern Recognition",
	})
}

func (s *Server) handleAIStatus(w http.ResponseWriter, _ *http.Request) {
	mode := "local-fallback"
	note := "No AI provider configured; using local analysis fallback"
	if s.aiProvider != "" {
		mode = s.aiProvider
		note = "External AI provider configured"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":         true,
		"mode":       mode,
		"note":       note,
		"aiProvider": s.aiProvider,
		"aiModel":    s.aiModel,
	})
}

type subscribeRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON request body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !emailPattern.MatchString(email) {
		writeError(w, http.StatusBadRequest, "A valid email address is required")
		return
	}

	existing, err := s.subscribers.GetByEmail(r.Context(), email)
	if err != nil && !errors.Is(err, store.ErrSubscriberNotFound) {
		s.logger.Error("Subscriber lookup failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to save subscription")
		return
	}

	switch {
	case existing != nil && existing.Active:
		writeError(w, http.StatusConflict, "Email already subscribed")
		return
	case existing != nil:
		err = s.subscribers.Reactivate(r.Context(), email)
	default:
		err = s.subscribers.Create(r.Context(), email)
	}
	if err != nil {
		s.logger.Error("Subscription update failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to save subscription")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Subscription successful"})
}

type testHighRiskRequest struct {
	Text  string `json:"text"`
	Email string `json:"email"`
}

// handleTestHighRisk exercises the full alert path, bypassing cooldown and
// duplicate suppression. Optionally subscribes the supplied email first.
func (s *Server) handleTestHighRisk(w http.ResponseWriter, r *http.Request) {
	var req testHighRiskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON request body")
		return
	}

	if req.Email != "" {
		email := strings.ToLower(strings.TrimSpace(req.Email))
		if !emailPattern.MatchString(email) {
			writeError(w, http.StatusBadRequest, "Invalid email for test subscription")
			return
		}
		existing, err := s.subscribers.GetByEmail(r.Context(), email)
		switch {
		case errors.Is(err, store.ErrSubscriberNotFound):
			err = s.subscribers.Create(r.Context(), email)
		case err == nil && !existing.Active:
			err = s.subscribers.Reactivate(r.Context(), email)
		}
		if err != nil {
			s.logger.Error("Test subscription failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to run high-risk alert test")
			return
		}
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		text = defaultTestText
	}

	testResult := &core.AnalysisResult{
		Score:     10,
		Verdict:   core.VerdictHighlySuspicious,
		Timestamp: time.Now().UTC(),
	}

	status, err := s.alerts.Dispatch(r.Context(), text, testResult, alert.DispatchOptions{
		BypassCooldown:  true,
		BypassDuplicate: true,
	})
	if err != nil {
		s.logger.Error("High-risk alert test failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to run high-risk alert test")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "High-risk alert test executed",
		"fraudAlert": status,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
