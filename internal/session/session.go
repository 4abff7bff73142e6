// Package session tracks the lifecycle of one scan attempt. Exactly one
// session is live per device; starting a new scan resets it.
package session

import (
	"fmt"
	"sync"

	"github.com/snacksense/backend/internal/models"
)

// Status is the lifecycle phase of the current scan attempt.
type Status string

const (
	StatusIdle             Status = "idle"
	StatusScanning         Status = "scanning"
	StatusAwaitingAnalysis Status = "awaiting_analysis"
	StatusDone             Status = "done"
	StatusError            Status = "error"
)

// Snapshot is an immutable view of the session, safe to hand to transports.
type Snapshot struct {
	Status  Status                 `json:"status"`
	Product *models.ProductRecord  `json:"product,omitempty"`
	Result  *models.AnalysisResult `json:"result,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// Session is the mutable state of one scan attempt. All transitions are
// guarded; done and error are only left by an explicit user reset.
type Session struct {
	mu      sync.Mutex
	status  Status
	product *models.ProductRecord
	result  *models.AnalysisResult
	errMsg  string
}

// New returns an idle session.
func New() *Session {
	return &Session{status: StatusIdle}
}

// Begin moves idle → scanning. It reports false when the session is anywhere
// else, which is how a second barcode event mid-flight gets dropped rather
// than queued.
func (s *Session) Begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusIdle {
		return false
	}
	s.status = StatusScanning
	s.product = nil
	s.result = nil
	s.errMsg = ""
	return true
}

// ProductFetched moves scanning → awaiting_analysis with the fetched record.
func (s *Session) ProductFetched(product *models.ProductRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusScanning {
		return fmt.Errorf("cannot accept product in state %q", s.status)
	}
	s.status = StatusAwaitingAnalysis
	s.product = product
	return nil
}

// Complete moves awaiting_analysis → done. A session never reaches done
// without both the record and the result set.
func (s *Session) Complete(result *models.AnalysisResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusAwaitingAnalysis {
		return fmt.Errorf("cannot accept analysis in state %q", s.status)
	}
	if s.product == nil {
		return fmt.Errorf("analysis without a product")
	}
	s.status = StatusDone
	s.result = result
	return nil
}

// Fail moves scanning or awaiting_analysis → error. A product fetched before
// the failure is retained so the user can see what was scanned.
func (s *Session) Fail(message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusScanning && s.status != StatusAwaitingAnalysis {
		return fmt.Errorf("cannot fail in state %q", s.status)
	}
	s.status = StatusError
	s.result = nil
	s.errMsg = message
	return nil
}

// Reset moves done or error back to idle, clearing everything. Resetting an
// idle session is a no-op; a reset mid-flight is rejected because a running
// scan is not abandonable.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.status {
	case StatusIdle:
		return nil
	case StatusDone, StatusError:
		s.status = StatusIdle
		s.product = nil
		s.result = nil
		s.errMsg = ""
		return nil
	default:
		return fmt.Errorf("cannot reset in state %q", s.status)
	}
}

// Snapshot returns the current state for display.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Status:  s.status,
		Product: s.product,
		Result:  s.result,
		Error:   s.errMsg,
	}
}

// Status returns the current lifecycle phase.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}
