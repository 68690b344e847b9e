// Package paywall gates document export behind a simulated mobile-money
// confirmation flow. The gate starts locked for every session, never
// re-locks once unlocked, and is not persisted.
package paywall

import (
	"context"
	"errors"
	"sync"
	"time"
	"unicode"

	"go.uber.org/zap"
)

// Format identifies an export format requested through the gate.
type Format string

// Export formats.
const (
	FormatNone Format = ""
	FormatPDF  Format = "pdf"
	FormatWord Format = "word"
)

// Step is the sub-state of an in-progress unlock flow.
type Step string

// Unlock flow steps.
const (
	StepInput      Step = "input"
	StepProcessing Step = "processing"
	StepSuccess    Step = "success"
)

// Action tells the caller what to do after an export request.
type Action string

// Actions returned by RequestExport.
const (
	// ActionExport: the session is unlocked; perform the export now.
	ActionExport Action = "export"
	// ActionOpenUnlock: the session is locked; open the unlock flow. The
	// requested format is remembered as pending.
	ActionOpenUnlock Action = "open_unlock"
)

// ErrInvalidPhoneNumber rejects payment numbers with fewer than nine
// digits. No further validation of country or provider format is done.
var ErrInvalidPhoneNumber = errors.New("numéro de téléphone invalide")

// ErrNotAwaitingInput reports a payment submission outside the Input step.
var ErrNotAwaitingInput = errors.New("no payment input in progress")

// Simulated confirmation delays.
const (
	DefaultProcessingDelay = 3 * time.Second
	DefaultSuccessDelay    = 1500 * time.Millisecond
)

// Clock abstracts the simulated waits so tests run instantly.
type Clock interface {
	Sleep(ctx context.Context, d time.Duration)
}

type realClock struct{}

func (realClock) Sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// Confirmation is the outcome of a completed unlock flow.
type Confirmation struct {
	// Receipt is a signed token proving the unlock for this session.
	Receipt string `json:"receipt"`
	// Pending is the export format requested before the flow opened.
	// Unlocking auto-resumes it: the caller dispatches this export.
	Pending Format `json:"pending,omitempty"`
}

// Gate is the export paywall state machine.
type Gate struct {
	clock           Clock
	issuer          *ReceiptIssuer
	log             *zap.Logger
	processingDelay time.Duration
	successDelay    time.Duration

	mu       sync.Mutex
	unlocked bool
	open     bool
	step     Step
	pending  Format
	receipt  string
}

// Option configures a Gate.
type Option func(*Gate)

// WithClock substitutes the wait source.
func WithClock(c Clock) Option {
	return func(g *Gate) { g.clock = c }
}

// WithDelays overrides the simulated processing and success-display delays.
func WithDelays(processing, success time.Duration) Option {
	return func(g *Gate) {
		g.processingDelay = processing
		g.successDelay = success
	}
}

// NewGate creates a locked gate.
func NewGate(issuer *ReceiptIssuer, log *zap.Logger, opts ...Option) *Gate {
	g := &Gate{
		clock:           realClock{},
		issuer:          issuer,
		log:             log,
		processingDelay: DefaultProcessingDelay,
		successDelay:    DefaultSuccessDelay,
		step:            StepInput,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// HasPaid reports whether the session has unlocked export.
func (g *Gate) HasPaid() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.unlocked
}

// Step returns the current unlock flow step.
func (g *Gate) Step() Step {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.step
}

// Open reports whether the unlock flow is currently presented.
func (g *Gate) Open() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.open
}

// Pending returns the export format remembered from the gated request.
func (g *Gate) Pending() Format {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}

// Receipt returns the signed unlock receipt, or "" while locked.
func (g *Gate) Receipt() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.receipt
}

// RequestExport decides whether an export may run. While locked it opens
// the unlock flow at the Input step, remembers the format as pending, and
// performs no export action.
func (g *Gate) RequestExport(format Format) Action {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.unlocked {
		return ActionExport
	}

	g.pending = format
	g.step = StepInput
	g.open = true
	return ActionOpenUnlock
}

// Cancel closes the unlock flow from the Input step. Cancellation never
// changes the paid state; once processing has started there is no cancel.
func (g *Gate) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.step == StepInput {
		g.open = false
	}
}

// SubmitPayment validates the phone number and drives the simulated
// confirmation: Input → Processing → Success → Unlocked. The call blocks
// through both fixed delays; there is no failure path out of Processing —
// this is a simulated gateway, every submitted payment eventually
// succeeds. Validation failures keep the flow open at the Input step.
func (g *Gate) SubmitPayment(ctx context.Context, phoneNumber, provider string) (Confirmation, error) {
	if countDigits(phoneNumber) < 9 {
		return Confirmation{}, ErrInvalidPhoneNumber
	}

	g.mu.Lock()
	if g.unlocked {
		g.mu.Unlock()
		return Confirmation{Receipt: g.receipt}, nil
	}
	if !g.open || g.step != StepInput {
		g.mu.Unlock()
		return Confirmation{}, ErrNotAwaitingInput
	}
	g.step = StepProcessing
	g.mu.Unlock()

	g.log.Info("payment submitted",
		zap.String("provider", provider),
		zap.String("phone", maskPhone(phoneNumber)))

	// Simulated wait for the mobile-money confirmation prompt.
	g.clock.Sleep(ctx, g.processingDelay)

	g.mu.Lock()
	g.step = StepSuccess
	g.mu.Unlock()

	// Success screen display delay before the flow closes.
	g.clock.Sleep(ctx, g.successDelay)

	g.mu.Lock()
	defer g.mu.Unlock()

	g.unlocked = true
	g.open = false
	pending := g.pending
	g.pending = FormatNone

	receipt, err := g.issuer.Issue(provider, maskPhone(phoneNumber))
	if err != nil {
		// The unlock stands even when the receipt cannot be minted.
		g.log.Warn("failed to issue unlock receipt", zap.Error(err))
	}
	g.receipt = receipt

	g.log.Info("export unlocked", zap.String("pending", string(pending)))
	return Confirmation{Receipt: receipt, Pending: pending}, nil
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// maskPhone keeps only the last three digits for logs and receipts.
func maskPhone(s string) string {
	digits := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsDigit(r) {
			digits = append(digits, r)
		}
	}
	if len(digits) <= 3 {
		return string(digits)
	}
	masked := make([]rune, len(digits))
	for i := range digits {
		if i < len(digits)-3 {
			masked[i] = '*'
		} else {
			masked[i] = digits[i]
		}
	}
	return string(masked)
}
