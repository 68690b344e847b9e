package assist

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeGenerator returns a canned response or error.
type fakeGenerator struct {
	resp   *genai.GenerateContentResponse
	err    error
	prompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (*genai.GenerateContentResponse, error) {
	f.prompt = prompt
	return f.resp, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			FinishReason: genai.FinishReasonStop,
			Content:      &genai.Content{Parts: []genai.Part{genai.Text(text)}},
		}},
	}
}

func TestGenerateSummary_Success(t *testing.T) {
	fake := &fakeGenerator{resp: textResponse("  Développeur passionné.  ")}
	gw := NewGateway(fake, zap.NewNop())

	res := gw.GenerateSummary(context.Background(), "Ingénieur logiciel", "Go, React")
	require.True(t, res.Success)
	assert.Equal(t, "Développeur passionné.", res.Text, "returned text is trimmed")
	assert.Contains(t, fake.prompt, "Ingénieur logiciel")
	assert.Contains(t, fake.prompt, "Go, React")
	assert.Contains(t, fake.prompt, "French")
}

func TestImproveDescription_Success(t *testing.T) {
	fake := &fakeGenerator{resp: textResponse("- Piloté la migration.")}
	gw := NewGateway(fake, zap.NewNop())

	res := gw.ImproveDescription(context.Background(), "Chef de projet", "j'ai migré des serveurs")
	require.True(t, res.Success)
	assert.Contains(t, fake.prompt, "Chef de projet")
	assert.Contains(t, fake.prompt, "j'ai migré des serveurs")
}

func TestGenerate_MissingCredential(t *testing.T) {
	gw := NewGateway(nil, zap.NewNop())
	assert.False(t, gw.Available())

	res := gw.GenerateSummary(context.Background(), "Dev", "Go")
	require.False(t, res.Success)
	assert.Equal(t, MissingCredential, res.ErrorKind)
	assert.Equal(t, MissingCredential.Message(), res.Message)
}

func TestGenerate_AbnormalFinishWithoutText_IsContentFiltered(t *testing.T) {
	fake := &fakeGenerator{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			FinishReason: genai.FinishReasonSafety,
			Content:      &genai.Content{},
		}},
	}}
	gw := NewGateway(fake, zap.NewNop())

	res := gw.GenerateSummary(context.Background(), "Dev", "Go")
	require.False(t, res.Success)
	assert.Equal(t, ContentFiltered, res.ErrorKind)
}

func TestGenerate_NormalFinishWithoutText_IsEmptyResult(t *testing.T) {
	fake := &fakeGenerator{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			FinishReason: genai.FinishReasonStop,
			Content:      &genai.Content{},
		}},
	}}
	gw := NewGateway(fake, zap.NewNop())

	res := gw.GenerateSummary(context.Background(), "Dev", "Go")
	require.False(t, res.Success)
	assert.Equal(t, EmptyResult, res.ErrorKind)
}

func TestGenerate_NoCandidates_IsEmptyResult(t *testing.T) {
	fake := &fakeGenerator{resp: &genai.GenerateContentResponse{}}
	gw := NewGateway(fake, zap.NewNop())

	res := gw.GenerateSummary(context.Background(), "Dev", "Go")
	require.False(t, res.Success)
	assert.Equal(t, EmptyResult, res.ErrorKind)
}

func TestGenerate_TransportErrorMapsThroughTaxonomy(t *testing.T) {
	fake := &fakeGenerator{err: errors.New("tcp connection reset by peer")}
	gw := NewGateway(fake, zap.NewNop())

	res := gw.GenerateSummary(context.Background(), "Dev", "Go")
	require.False(t, res.Success)
	assert.Equal(t, NetworkFailure, res.ErrorKind)
	assert.Equal(t, NetworkFailure.Message(), res.Message)
}
