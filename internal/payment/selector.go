package payment

import (
	"errors"
	"sync"
)

// Method is one of the checkout tabs.
type Method string

const (
	MethodCard        Method = "card"
	MethodPayPal      Method = "paypal"
	MethodMercadoPago Method = "mercadopago"
)

func (m Method) Valid() bool {
	switch m {
	case MethodCard, MethodPayPal, MethodMercadoPago:
		return true
	}
	return false
}

func (m Method) String() string {
	return string(m)
}

// SubmissionStatus tracks one checkout attempt.
type SubmissionStatus string

const (
	SubmissionIdle       SubmissionStatus = "IDLE"
	SubmissionProcessing SubmissionStatus = "PROCESSING"
	SubmissionSucceeded  SubmissionStatus = "SUCCEEDED"
	SubmissionFailed     SubmissionStatus = "FAILED"
)

// IsTerminal reports whether no further submissions are possible. Failed
// is deliberately not terminal: the buyer can correct the form and retry.
func (s SubmissionStatus) IsTerminal() bool {
	return s == SubmissionSucceeded
}

func (s SubmissionStatus) String() string {
	return string(s)
}

var (
	ErrUnknownMethod       = errors.New("unknown payment method")
	ErrSubmissionInFlight  = errors.New("a submission is already processing")
	ErrAlreadyPaid         = errors.New("payment already succeeded")
	IllegalTransitionError = errors.New("illegal transition of submission status")
)

// Selector holds the payment-tab state for one checkout session: which
// method is active, whether the hosted card SDK is available, and where
// the current submission stands.
type Selector struct {
	mu      sync.Mutex
	method  Method
	hosted  bool
	status  SubmissionStatus
	handoff bool
}

// NewSelector starts on the card tab in idle state. hosted reports
// whether the hosted card widget is configured; when false the card tab
// falls back to manual entry.
func NewSelector(hosted bool) *Selector {
	return &Selector{
		method: MethodCard,
		hosted: hosted,
		status: SubmissionIdle,
	}
}

// Select switches the active tab. Switching is unconditional and resets
// nothing: form state and submission status survive the switch.
func (s *Selector) Select(m Method) error {
	if !m.Valid() {
		return ErrUnknownMethod
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.method = m
	return nil
}

func (s *Selector) Method() Method {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.method
}

func (s *Selector) Hosted() bool {
	return s.hosted
}

func (s *Selector) Status() SubmissionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Begin moves the submission into processing. It refuses a second
// in-flight submission and refuses anything after a success. A
// submission parked on an external step (wallet redirect, hosted
// widget) counts as abandoned and restarts instead of blocking.
func (s *Selector) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.status {
	case SubmissionProcessing:
		if !s.handoff {
			return ErrSubmissionInFlight
		}
		s.handoff = false
		return nil
	case SubmissionSucceeded:
		return ErrAlreadyPaid
	}
	s.status = SubmissionProcessing
	return nil
}

// Handoff marks the in-flight submission as waiting on a step outside
// this service: the buyer confirming in the hosted widget or finishing
// a wallet redirect.
func (s *Selector) Handoff() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != SubmissionProcessing {
		return IllegalTransitionError
	}
	s.handoff = true
	return nil
}

// Cancel abandons an in-flight submission so the buyer can retry.
func (s *Selector) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != SubmissionProcessing {
		return IllegalTransitionError
	}
	s.status = SubmissionFailed
	s.handoff = false
	return nil
}

// Succeed marks the submission terminal.
func (s *Selector) Succeed() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != SubmissionProcessing {
		return IllegalTransitionError
	}
	s.status = SubmissionSucceeded
	s.handoff = false
	return nil
}

// Fail returns the selector to a retryable state.
func (s *Selector) Fail() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != SubmissionProcessing {
		return IllegalTransitionError
	}
	s.status = SubmissionFailed
	s.handoff = false
	return nil
}
