package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/paywall"
	"github.com/jonathan/resume-builder/internal/types"
)

// maxUploadBytes caps photo uploads at 5 MB.
const maxUploadBytes = 5 << 20

// fieldValueRequest carries a single scalar value for a field update.
type fieldValueRequest struct {
	Value string `json:"value"`
}

// entryUpdateRequest edits one field of an entry.
type entryUpdateRequest struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value"`
}

// paymentRequest is the simulated mobile-money submission.
type paymentRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Provider    string `json:"provider" validate:"required,oneof=MTN AIRTEL"`
}

// exportRequest selects the export format.
type exportRequest struct {
	Format string `json:"format" validate:"required,oneof=pdf word"`
}

// templateRequest selects the layout template.
type templateRequest struct {
	Template string `json:"template" validate:"required"`
}

// decodeJSON parses and validates a JSON request body.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			s.errorResponse(w, http.StatusBadRequest,
				fmt.Sprintf("invalid field: %s", verrs[0].Field()))
			return false
		}
		s.errorResponse(w, http.StatusBadRequest, "invalid request")
		return false
	}
	return true
}

func (s *Server) domainError(w http.ResponseWriter, err error) {
	s.errorResponse(w, httpStatus(err), err.Error())
}

// handleGetResume returns the current document.
func (s *Server) handleGetResume(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.session.Document())
}

// handleSetField updates one top-level scalar field.
func (s *Server) handleSetField(w http.ResponseWriter, r *http.Request) {
	var req fieldValueRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	doc, err := s.session.SetField(document.Field(r.PathValue("field")), req.Value)
	if err != nil {
		s.domainError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, doc)
}

// handleSetSkills replaces the skills list from comma-separated text.
func (s *Server) handleSetSkills(w http.ResponseWriter, r *http.Request) {
	var req fieldValueRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	s.jsonResponse(w, http.StatusOK, s.session.SetSkills(req.Value))
}

// handleSetPhoto stores the uploaded image bytes as the document photo.
func (s *Server) handleSetPhoto(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes+1))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read upload")
		return
	}
	if len(data) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "empty upload")
		return
	}
	if len(data) > maxUploadBytes {
		s.errorResponse(w, http.StatusRequestEntityTooLarge, "upload too large")
		return
	}

	doc, err := s.session.SetPhoto(data)
	if err != nil {
		s.domainError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, doc)
}

// handleClearPhoto removes the document photo.
func (s *Server) handleClearPhoto(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.session.ClearPhoto())
}

// handleReset discards the document and its snapshot.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.session.Reset(r.Context()))
}

// handleStatus reports the save indicator and selected template.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"saveStatus": s.session.SaveStatus(),
		"template":   s.session.Template(),
	})
}

// handleSelectTemplate switches the preview/export layout.
func (s *Server) handleSelectTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := s.session.SelectTemplate(types.Template(req.Template)); err != nil {
		s.domainError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"template": req.Template})
}

// handleAddExperience appends a placeholder experience entry.
func (s *Server) handleAddExperience(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusCreated, s.session.AddExperience())
}

// handleUpdateExperience edits one field of one experience entry.
func (s *Server) handleUpdateExperience(w http.ResponseWriter, r *http.Request) {
	var req entryUpdateRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	s.jsonResponse(w, http.StatusOK, s.session.UpdateExperience(r.PathValue("id"), req.Field, req.Value))
}

// handleRemoveExperience deletes an experience entry.
func (s *Server) handleRemoveExperience(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.session.RemoveExperience(r.PathValue("id")))
}

// handleAddEducation appends a placeholder education entry.
func (s *Server) handleAddEducation(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusCreated, s.session.AddEducation())
}

// handleUpdateEducation edits one field of one education entry.
func (s *Server) handleUpdateEducation(w http.ResponseWriter, r *http.Request) {
	var req entryUpdateRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	s.jsonResponse(w, http.StatusOK, s.session.UpdateEducation(r.PathValue("id"), req.Field, req.Value))
}

// handleRemoveEducation deletes an education entry.
func (s *Server) handleRemoveEducation(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.session.RemoveEducation(r.PathValue("id")))
}

// handlePreview returns the rendered document as HTML.
func (s *Server) handlePreview(w http.ResponseWriter, _ *http.Request) {
	html, err := s.session.Preview()
	if err != nil {
		s.domainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

// handleAssistStatus reports whether AI features are available.
func (s *Server) handleAssistStatus(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]bool{"available": s.session.AssistAvailable()})
}

// handleGenerateSummary runs summary generation. Classified AI failures
// come back 200 with success=false; precondition failures are 400.
func (s *Server) handleGenerateSummary(w http.ResponseWriter, r *http.Request) {
	result, err := s.session.GenerateSummary(r.Context())
	if err != nil {
		s.domainError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleImproveDescription rewrites one experience description.
func (s *Server) handleImproveDescription(w http.ResponseWriter, r *http.Request) {
	result, err := s.session.ImproveDescription(r.Context(), r.PathValue("id"))
	if err != nil {
		s.domainError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleExport requests an export. Unlocked sessions get the artifact as
// a download; locked ones get 402 with the unlock-flow instruction.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	outcome, err := s.session.RequestExport(r.Context(), paywall.Format(req.Format))
	if err != nil {
		s.domainError(w, err)
		return
	}

	if outcome.Action == paywall.ActionOpenUnlock {
		s.jsonResponse(w, http.StatusPaymentRequired, map[string]string{
			"action":  string(outcome.Action),
			"pending": req.Format,
		})
		return
	}
	s.writeArtifact(w, outcome.Artifact)
}

// handleSubmitPayment drives the simulated payment. When a pending export
// resumes, its artifact is the response body and the receipt travels in a
// header; otherwise the confirmation is returned as JSON.
func (s *Server) handleSubmitPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	result, err := s.session.SubmitPayment(r.Context(), req.PhoneNumber, req.Provider)
	if err != nil {
		s.domainError(w, err)
		return
	}

	if result.Artifact != nil {
		w.Header().Set("X-Unlock-Receipt", result.Confirmation.Receipt)
		s.writeArtifact(w, result.Artifact)
		return
	}
	s.jsonResponse(w, http.StatusOK, result.Confirmation)
}

// handleCancelPayment closes the unlock flow without paying.
func (s *Server) handleCancelPayment(w http.ResponseWriter, _ *http.Request) {
	s.session.CancelUnlock()
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// handlePaymentStatus reports the paywall state.
func (s *Server) handlePaymentStatus(w http.ResponseWriter, _ *http.Request) {
	gate := s.session.Gate()
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"hasPaid": gate.HasPaid(),
		"open":    gate.Open(),
		"step":    gate.Step(),
		"pending": gate.Pending(),
	})
}

// writeArtifact serves an export artifact as a file download.
func (s *Server) writeArtifact(w http.ResponseWriter, artifact *export.Artifact) {
	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact.Data)
}
