// Package assist wraps the generative-text service behind two domain
// operations — summary generation and description improvement — and
// classifies every failure into a closed taxonomy. The gateway never
// returns a Go error across its boundary; callers branch on Result.
package assist

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

// Result is the outcome of one assist operation.
type Result struct {
	Success   bool      `json:"success"`
	Text      string    `json:"text,omitempty"`
	ErrorKind ErrorKind `json:"errorKind,omitempty"`
	Message   string    `json:"message,omitempty"`
}

// ContentGenerator produces a raw model response for a prompt. The concrete
// implementation is the Gemini client; tests substitute a fake.
type ContentGenerator interface {
	Generate(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error)
}

// Gateway translates domain intents into generative-text calls.
type Gateway struct {
	gen ContentGenerator
	log *zap.Logger
}

// NewGateway builds a gateway over a content generator. A nil generator
// models the missing-credential condition: AI features stay callable but
// every operation fails with MissingCredential without attempting a call.
func NewGateway(gen ContentGenerator, log *zap.Logger) *Gateway {
	return &Gateway{gen: gen, log: log}
}

// Available reports whether a credential is configured.
func (g *Gateway) Available() bool {
	return g.gen != nil
}

// GenerateSummary requests a French professional summary (about 50 words,
// plain text) for the given job title and skills. The caller is responsible
// for the precondition that at least one experience role exists.
func (g *Gateway) GenerateSummary(ctx context.Context, jobTitle, skills string) Result {
	prompt := fmt.Sprintf(
		"You are a professional resume writer. Write a concise, impactful professional summary "+
			"(max 50 words) in French for a %s who is skilled in %s. Focus on value and expertise. "+
			"Do not use markdown formatting like bolding.",
		jobTitle, skills,
	)
	return g.generate(ctx, "summary", prompt)
}

// ImproveDescription requests a rewritten, more impactful French version of
// an experience description for the given role, as a plain paragraph or
// dash-bulleted text.
func (g *Gateway) ImproveDescription(ctx context.Context, role, currentText string) Result {
	prompt := fmt.Sprintf(
		"You are an expert career coach. Rewrite the following job description bullet points for a %q role "+
			"to be more result-oriented, professional, and impactful in French. Use strong action verbs.\n\n"+
			"Current Text: %q\n\n"+
			"Output only the improved text as a plain paragraph or bullet points (using dashes).",
		role, currentText,
	)
	return g.generate(ctx, "improve", prompt)
}

func (g *Gateway) generate(ctx context.Context, op, prompt string) Result {
	if g.gen == nil {
		return failure(MissingCredential)
	}

	resp, err := g.gen.Generate(ctx, prompt)
	if err != nil {
		kind := classify(err)
		g.log.Warn("assist call failed",
			zap.String("op", op),
			zap.String("kind", string(kind)),
			zap.Error(err))
		return failure(kind)
	}

	text := extractText(resp)
	if text == "" {
		if finishedAbnormally(resp) {
			g.log.Warn("assist call produced no text with abnormal finish",
				zap.String("op", op))
			return failure(ContentFiltered)
		}
		return failure(EmptyResult)
	}

	return Result{Success: true, Text: text}
}

func failure(kind ErrorKind) Result {
	return Result{Success: false, ErrorKind: kind, Message: kind.Message()}
}

// extractText joins the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok && string(text) != "" {
			parts = append(parts, string(text))
		}
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}

// finishedAbnormally reports whether the first candidate ended for a reason
// other than normal completion — usually a silent safety filter.
func finishedAbnormally(resp *genai.GenerateContentResponse) bool {
	if resp == nil || len(resp.Candidates) == 0 {
		return false
	}
	reason := resp.Candidates[0].FinishReason
	return reason != genai.FinishReasonStop && reason != genai.FinishReasonUnspecified
}
