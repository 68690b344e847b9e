// Package session coordinates one resume editing lifecycle: restore on
// start, pure mutations with debounced persistence, AI assist write-back,
// and paywalled export dispatch.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/jonathan/resume-builder/internal/assist"
	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/paywall"
	"github.com/jonathan/resume-builder/internal/render"
	"github.com/jonathan/resume-builder/internal/store"
	"github.com/jonathan/resume-builder/internal/types"
)

// Assist precondition failures, surfaced to the API as bad requests.
var (
	// ErrSummaryUnavailable: summary generation needs at least one
	// experience entry with a role.
	ErrSummaryUnavailable = errors.New("ajoutez d'abord une expérience avec un intitulé de poste")
	// ErrNothingToImprove: description improvement needs existing text.
	ErrNothingToImprove = errors.New("la description est vide")
	// ErrEntryNotFound reports an unknown experience or education id.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrUnknownField reports a top-level field name no mutator handles.
	ErrUnknownField = errors.New("unknown field")
)

// ErrUnknownFormat rejects export requests for formats the dispatcher
// does not produce.
var ErrUnknownFormat = errors.New("unknown export format")

// ErrUnknownTemplate rejects selection of a template that does not exist.
var ErrUnknownTemplate = errors.New("unknown template")

// Session is the single-document editing session. All methods are safe
// for concurrent use; the modeled flow is one user, but the HTTP surface
// is not.
type Session struct {
	mu       sync.Mutex
	doc      types.ResumeDocument
	template types.Template

	saver   *store.Saver
	gateway *assist.Gateway
	gate    *paywall.Gate
	printer *export.PDFPrinter
	log     *zap.Logger
}

// New restores the persisted document (or defaults when the slot is
// empty) and wires the collaborators together.
func New(ctx context.Context, slot store.Snapshot, saver *store.Saver, gateway *assist.Gateway, gate *paywall.Gate, printer *export.PDFPrinter, log *zap.Logger) *Session {
	doc := types.DefaultDocument()
	data, err := slot.Load(ctx)
	switch {
	case err == nil:
		doc = store.Restore(data, log)
	case errors.Is(err, store.ErrNotFound):
		log.Info("no saved resume, starting from defaults")
	default:
		log.Warn("failed to load saved resume, starting from defaults", zap.Error(err))
	}

	return &Session{
		doc:      doc,
		template: types.TemplateModern,
		saver:    saver,
		gateway:  gateway,
		gate:     gate,
		printer:  printer,
		log:      log,
	}
}

// Document returns a copy of the current document.
func (s *Session) Document() types.ResumeDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Template returns the selected layout.
func (s *Session) Template() types.Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.template
}

// SelectTemplate switches the layout used for preview and export.
func (s *Session) SelectTemplate(tmpl types.Template) error {
	if !tmpl.Valid() {
		return ErrUnknownTemplate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.template = tmpl
	return nil
}

// apply runs a mutation and schedules a save when it changed the document.
func (s *Session) apply(mutate func(types.ResumeDocument) types.ResumeDocument) types.ResumeDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = mutate(s.doc)
	s.saver.ScheduleSave(s.doc)
	return s.doc.Clone()
}

// SetField updates a top-level scalar field.
func (s *Session) SetField(field document.Field, value string) (types.ResumeDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := document.SetField(s.doc, field, value)
	if !ok {
		return s.doc.Clone(), ErrUnknownField
	}
	s.doc = next
	s.saver.ScheduleSave(s.doc)
	return s.doc.Clone(), nil
}

// AddExperience appends a placeholder experience entry.
func (s *Session) AddExperience() types.ResumeDocument {
	return s.apply(document.AddExperience)
}

// UpdateExperience edits one field of one experience entry. Unknown ids
// are a silent no-op, matching the mutator contract.
func (s *Session) UpdateExperience(id, field, value string) types.ResumeDocument {
	return s.apply(func(doc types.ResumeDocument) types.ResumeDocument {
		return document.UpdateExperience(doc, id, field, value)
	})
}

// RemoveExperience deletes an experience entry by id.
func (s *Session) RemoveExperience(id string) types.ResumeDocument {
	return s.apply(func(doc types.ResumeDocument) types.ResumeDocument {
		return document.RemoveExperience(doc, id)
	})
}

// AddEducation appends a placeholder education entry.
func (s *Session) AddEducation() types.ResumeDocument {
	return s.apply(document.AddEducation)
}

// UpdateEducation edits one field of one education entry.
func (s *Session) UpdateEducation(id, field, value string) types.ResumeDocument {
	return s.apply(func(doc types.ResumeDocument) types.ResumeDocument {
		return document.UpdateEducation(doc, id, field, value)
	})
}

// RemoveEducation deletes an education entry by id.
func (s *Session) RemoveEducation(id string) types.ResumeDocument {
	return s.apply(func(doc types.ResumeDocument) types.ResumeDocument {
		return document.RemoveEducation(doc, id)
	})
}

// SetSkills replaces the skills list from comma-separated text.
func (s *Session) SetSkills(text string) types.ResumeDocument {
	return s.apply(func(doc types.ResumeDocument) types.ResumeDocument {
		return document.SetSkillsFromText(doc, text)
	})
}

// SetPhoto stores an uploaded image as the document photo.
func (s *Session) SetPhoto(data []byte) (types.ResumeDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := document.SetPhotoFromUpload(s.doc, data)
	if err != nil {
		return s.doc.Clone(), err
	}
	s.doc = next
	s.saver.ScheduleSave(s.doc)
	return s.doc.Clone(), nil
}

// ClearPhoto removes the document photo.
func (s *Session) ClearPhoto() types.ResumeDocument {
	return s.apply(document.ClearPhoto)
}

// Reset discards the document and its snapshot, returning to defaults.
// The paid state is untouched.
func (s *Session) Reset(ctx context.Context) types.ResumeDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = s.saver.Reset(ctx)
	return s.doc.Clone()
}

// SaveStatus reports the persistence indicator state.
func (s *Session) SaveStatus() store.Status {
	return s.saver.Status()
}

// Flush forces any pending save to disk, used on shutdown.
func (s *Session) Flush() {
	s.saver.Flush()
}

// Close releases the debounced saver.
func (s *Session) Close() {
	s.saver.Close()
}

// GenerateSummary asks the assistant for a professional summary based on
// the first titled experience and the skills list, and writes the result
// back into the document on success.
func (s *Session) GenerateSummary(ctx context.Context) (assist.Result, error) {
	s.mu.Lock()
	jobTitle := ""
	for _, exp := range s.doc.Experience {
		if strings.TrimSpace(exp.Role) != "" {
			jobTitle = exp.Role
			break
		}
	}
	skills := strings.Join(s.doc.Skills, ", ")
	s.mu.Unlock()

	if jobTitle == "" {
		return assist.Result{}, ErrSummaryUnavailable
	}

	result := s.gateway.GenerateSummary(ctx, jobTitle, skills)
	if result.Success {
		s.mu.Lock()
		if next, ok := document.SetField(s.doc, document.FieldSummary, result.Text); ok {
			s.doc = next
			s.saver.ScheduleSave(s.doc)
		}
		s.mu.Unlock()
	}
	return result, nil
}

// ImproveDescription rewrites one experience description through the
// assistant and writes it back on success.
func (s *Session) ImproveDescription(ctx context.Context, entryID string) (assist.Result, error) {
	s.mu.Lock()
	var role, current string
	found := false
	for _, exp := range s.doc.Experience {
		if exp.ID == entryID {
			role, current = exp.Role, exp.Description
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return assist.Result{}, ErrEntryNotFound
	}
	if strings.TrimSpace(current) == "" {
		return assist.Result{}, ErrNothingToImprove
	}

	result := s.gateway.ImproveDescription(ctx, role, current)
	if result.Success {
		s.mu.Lock()
		s.doc = document.UpdateExperience(s.doc, entryID, "description", result.Text)
		s.saver.ScheduleSave(s.doc)
		s.mu.Unlock()
	}
	return result, nil
}

// AssistAvailable reports whether the AI gateway has credentials.
func (s *Session) AssistAvailable() bool {
	return s.gateway.Available()
}

// Preview renders the current document with the selected template.
func (s *Session) Preview() (string, error) {
	s.mu.Lock()
	doc := s.doc.Clone()
	tmpl := s.template
	s.mu.Unlock()
	return render.Render(doc, tmpl)
}

// ExportOutcome is the result of an export request: either an artifact
// (unlocked) or an instruction to open the unlock flow.
type ExportOutcome struct {
	Action   paywall.Action
	Artifact *export.Artifact
}

// RequestExport runs the export when the session is unlocked, otherwise
// opens the unlock flow with the format remembered as pending.
func (s *Session) RequestExport(ctx context.Context, format paywall.Format) (ExportOutcome, error) {
	if format != paywall.FormatPDF && format != paywall.FormatWord {
		return ExportOutcome{}, ErrUnknownFormat
	}

	action := s.gate.RequestExport(format)
	if action != paywall.ActionExport {
		return ExportOutcome{Action: action}, nil
	}

	artifact, err := s.dispatch(ctx, format)
	if err != nil {
		return ExportOutcome{}, err
	}
	return ExportOutcome{Action: action, Artifact: artifact}, nil
}

// UnlockResult is a completed payment plus the auto-resumed export, when
// a format was pending.
type UnlockResult struct {
	Confirmation paywall.Confirmation
	Artifact     *export.Artifact
}

// SubmitPayment drives the simulated payment flow; on unlock the pending
// export is dispatched immediately.
func (s *Session) SubmitPayment(ctx context.Context, phoneNumber, provider string) (UnlockResult, error) {
	conf, err := s.gate.SubmitPayment(ctx, phoneNumber, provider)
	if err != nil {
		return UnlockResult{}, err
	}

	result := UnlockResult{Confirmation: conf}
	if conf.Pending != paywall.FormatNone {
		artifact, err := s.dispatch(ctx, conf.Pending)
		if err != nil {
			// The unlock succeeded; the resumed export can be retried.
			s.log.Warn("pending export failed after unlock", zap.Error(err))
			return result, nil
		}
		result.Artifact = artifact
	}
	return result, nil
}

// CancelUnlock closes the unlock flow without paying.
func (s *Session) CancelUnlock() {
	s.gate.Cancel()
}

// Gate exposes the paywall state for status reporting.
func (s *Session) Gate() *paywall.Gate {
	return s.gate
}

func (s *Session) dispatch(ctx context.Context, format paywall.Format) (*export.Artifact, error) {
	s.mu.Lock()
	doc := s.doc.Clone()
	tmpl := s.template
	s.mu.Unlock()

	body, err := render.Render(doc, tmpl)
	if err != nil {
		return nil, err
	}
	page := render.Page(body)

	switch format {
	case paywall.FormatWord:
		return export.Word(page, doc.FullName)
	case paywall.FormatPDF:
		return s.printer.Print(ctx, page, doc.FullName)
	default:
		return nil, ErrUnknownFormat
	}
}
