package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/resume-builder/internal/assist"
	"github.com/jonathan/resume-builder/internal/paywall"
	"github.com/jonathan/resume-builder/internal/session"
	"github.com/jonathan/resume-builder/internal/store"
	"github.com/jonathan/resume-builder/internal/types"
)

type memorySlot struct {
	mu   sync.Mutex
	data []byte
}

func (m *memorySlot) Load(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, store.ErrNotFound
	}
	return append([]byte(nil), m.data...), nil
}

func (m *memorySlot) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	return nil
}

func (m *memorySlot) Delete(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}

type instantClock struct{}

func (instantClock) Sleep(context.Context, time.Duration) {}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	log := zap.NewNop()
	slot := &memorySlot{}
	saver := store.NewSaver(slot, log, store.WithDebounce(5*time.Millisecond))
	gate := paywall.NewGate(paywall.NewReceiptIssuer("test", time.Hour), log, paywall.WithClock(instantClock{}))
	sess := session.New(context.Background(), slot, saver, assist.NewGateway(nil, log), gate, nil, log)
	t.Cleanup(sess.Close)
	return New(Config{Port: 0}, sess, log)
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeDocument(t *testing.T, rec *httptest.ResponseRecorder) types.ResumeDocument {
	t.Helper()
	var doc types.ResumeDocument
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	return doc
}

func TestServer_Health(t *testing.T) {
	rec := doJSON(t, newTestServer(t), "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestServer_GetResumeReturnsDefaults(t *testing.T) {
	rec := doJSON(t, newTestServer(t), "GET", "/resume", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	doc := decodeDocument(t, rec)
	assert.Equal(t, types.DefaultThemeColor, doc.ThemeColor)
	assert.NotNil(t, doc.Skills)
}

func TestServer_SetField(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, "PUT", "/resume/fields/fullName", map[string]string{"value": "Jean Dupont"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Jean Dupont", decodeDocument(t, rec).FullName)

	rec = doJSON(t, srv, "PUT", "/resume/fields/shoeSize", map[string]string{"value": "42"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ExperienceLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, "POST", "/resume/experience", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	doc := decodeDocument(t, rec)
	require.Len(t, doc.Experience, 1)
	id := doc.Experience[0].ID

	rec = doJSON(t, srv, "PUT", "/resume/experience/"+id, map[string]string{"field": "role", "value": "Développeur"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Développeur", decodeDocument(t, rec).Experience[0].Role)

	rec = doJSON(t, srv, "DELETE", "/resume/experience/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeDocument(t, rec).Experience)
}

func TestServer_SkillsAndReset(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, "PUT", "/resume/skills", map[string]string{"value": "Go, SQL, , Docker"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Go", "SQL", "Docker"}, decodeDocument(t, rec).Skills)

	rec = doJSON(t, srv, "POST", "/resume/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeDocument(t, rec).Skills)
}

func TestServer_PhotoUpload(t *testing.T) {
	srv := newTestServer(t)

	// Minimal PNG signature so content sniffing sees an image.
	png := append([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 64)...)
	req := httptest.NewRequest("PUT", "/resume/photo", bytes.NewReader(png))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(decodeDocument(t, rec).PhotoURL, "data:image/png;base64,"))

	// Non-image payloads are rejected.
	req = httptest.NewRequest("PUT", "/resume/photo", strings.NewReader("%PDF-1.4 not an image"))
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestServer_TemplateSelection(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, "PUT", "/resume/template", map[string]string{"template": "classic"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, "PUT", "/resume/template", map[string]string{"template": "sparkle"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_PreviewIsHTML(t *testing.T) {
	srv := newTestServer(t)
	doJSON(t, srv, "PUT", "/resume/fields/fullName", map[string]string{"value": "Jean"})

	rec := doJSON(t, srv, "GET", "/preview", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `id="resume-preview"`)
}

func TestServer_AssistWithoutCredential(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, "GET", "/assist/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"available":false`)

	// No titled experience yet: precondition failure.
	rec = doJSON(t, srv, "POST", "/assist/summary", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// With a titled experience the gateway answers with a classified failure.
	created := decodeDocument(t, doJSON(t, srv, "POST", "/resume/experience", nil))
	doJSON(t, srv, "PUT", "/resume/experience/"+created.Experience[0].ID,
		map[string]string{"field": "role", "value": "Développeur"})

	rec = doJSON(t, srv, "POST", "/assist/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result assist.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Equal(t, assist.MissingCredential, result.ErrorKind)
	assert.NotEmpty(t, result.Message)
}

func TestServer_ExportRequiresPayment(t *testing.T) {
	srv := newTestServer(t)
	doJSON(t, srv, "PUT", "/resume/fields/fullName", map[string]string{"value": "Jean Dupont"})

	rec := doJSON(t, srv, "POST", "/export", map[string]string{"format": "word"})
	require.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Contains(t, rec.Body.String(), `"open_unlock"`)

	// Bad phone number keeps the flow open.
	rec = doJSON(t, srv, "POST", "/payment", map[string]string{"phoneNumber": "12345678", "provider": "MTN"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Valid payment unlocks and resumes the pending Word export.
	rec = doJSON(t, srv, "POST", "/payment", map[string]string{"phoneNumber": "061234567", "provider": "MTN"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.ms-word", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Jean_Dupont.doc")
	assert.NotEmpty(t, rec.Header().Get("X-Unlock-Receipt"))

	// Unlocked: direct export, no modal.
	rec = doJSON(t, srv, "POST", "/export", map[string]string{"format": "word"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.ms-word", rec.Header().Get("Content-Type"))
}

func TestServer_PaymentValidation(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, "POST", "/payment", map[string]string{"phoneNumber": "061234567", "provider": "ORANGE"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// No open unlock flow: conflict.
	rec = doJSON(t, srv, "POST", "/payment", map[string]string{"phoneNumber": "061234567", "provider": "MTN"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestServer_PaymentStatusAndCancel(t *testing.T) {
	srv := newTestServer(t)

	doJSON(t, srv, "POST", "/export", map[string]string{"format": "pdf"})
	rec := doJSON(t, srv, "GET", "/payment/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"open":true`)
	assert.Contains(t, rec.Body.String(), `"pending":"pdf"`)

	rec = doJSON(t, srv, "POST", "/payment/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, "GET", "/payment/status", nil)
	assert.Contains(t, rec.Body.String(), `"open":false`)
	assert.Contains(t, rec.Body.String(), `"hasPaid":false`)
}

func TestServer_ExportRejectsUnknownFormat(t *testing.T) {
	rec := doJSON(t, newTestServer(t), "POST", "/export", map[string]string{"format": "docx"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
