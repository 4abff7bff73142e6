package session

import (
	"testing"

	"github.com/snacksense/backend/internal/models"
)

func product() *models.ProductRecord {
	return &models.ProductRecord{Barcode: "737628064502", Name: "Rice Noodles"}
}

func result() *models.AnalysisResult {
	return &models.AnalysisResult{
		HealthScore: 55, Category: models.CategoryNeutral,
		Allergens: []string{}, Summary: "ok", HealthierAlternatives: []string{"brown rice noodles"},
	}
}

func TestHappyPath(t *testing.T) {
	s := New()
	if s.Status() != StatusIdle {
		t.Fatalf("new session status = %q, want idle", s.Status())
	}

	if !s.Begin() {
		t.Fatal("Begin on idle session returned false")
	}
	if err := s.ProductFetched(product()); err != nil {
		t.Fatalf("ProductFetched: %v", err)
	}
	if s.Status() != StatusAwaitingAnalysis {
		t.Fatalf("status = %q, want awaiting_analysis", s.Status())
	}
	if err := s.Complete(result()); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	snap := s.Snapshot()
	if snap.Status != StatusDone {
		t.Fatalf("status = %q, want done", snap.Status)
	}
	if snap.Product == nil || snap.Result == nil {
		t.Fatal("done session must hold both product and result")
	}
}

func TestBeginIsSingleFlight(t *testing.T) {
	s := New()
	if !s.Begin() {
		t.Fatal("first Begin returned false")
	}
	if s.Begin() {
		t.Fatal("second Begin while scanning should be ignored")
	}

	if err := s.ProductFetched(product()); err != nil {
		t.Fatalf("ProductFetched: %v", err)
	}
	if s.Begin() {
		t.Fatal("Begin while awaiting_analysis should be ignored")
	}
}

func TestDoneRequiresProduct(t *testing.T) {
	s := New()
	if err := s.Complete(result()); err == nil {
		t.Fatal("Complete on idle session should fail")
	}
	s.Begin()
	if err := s.Complete(result()); err == nil {
		t.Fatal("Complete before product fetch should fail")
	}
	if s.Status() == StatusDone {
		t.Fatal("session reached done without a product")
	}
}

func TestFailFromScanningHoldsNoProduct(t *testing.T) {
	s := New()
	s.Begin()
	if err := s.Fail("Product not found in database."); err != nil {
		t.Fatalf("Fail: %v", err)
	}

	snap := s.Snapshot()
	if snap.Status != StatusError {
		t.Fatalf("status = %q, want error", snap.Status)
	}
	if snap.Product != nil {
		t.Fatal("lookup failure should leave no product")
	}
	if snap.Error == "" {
		t.Fatal("error state must carry a message")
	}
}

func TestFailFromAnalysisRetainsProduct(t *testing.T) {
	s := New()
	s.Begin()
	if err := s.ProductFetched(product()); err != nil {
		t.Fatalf("ProductFetched: %v", err)
	}
	if err := s.Fail("Failed to analyze product with AI."); err != nil {
		t.Fatalf("Fail: %v", err)
	}

	snap := s.Snapshot()
	if snap.Status != StatusError {
		t.Fatalf("status = %q, want error", snap.Status)
	}
	if snap.Product == nil {
		t.Fatal("analysis failure must retain the fetched product")
	}
	if snap.Result != nil {
		t.Fatal("analysis failure must not hold a result")
	}
}

func TestResetOnlyFromTerminalStates(t *testing.T) {
	s := New()
	if err := s.Reset(); err != nil {
		t.Fatalf("Reset on idle session should be a no-op, got %v", err)
	}

	s.Begin()
	if err := s.Reset(); err == nil {
		t.Fatal("Reset while scanning should be rejected")
	}
	if err := s.ProductFetched(product()); err != nil {
		t.Fatalf("ProductFetched: %v", err)
	}
	if err := s.Reset(); err == nil {
		t.Fatal("Reset while awaiting_analysis should be rejected")
	}

	if err := s.Complete(result()); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if err := s.Reset(); err != nil {
		t.Fatalf("Reset from done: %v", err)
	}

	snap := s.Snapshot()
	if snap.Status != StatusIdle || snap.Product != nil || snap.Result != nil || snap.Error != "" {
		t.Fatalf("reset left residue: %+v", snap)
	}
	if !s.Begin() {
		t.Fatal("Begin after reset should start a fresh scan")
	}
}

func TestDoneAndErrorAreNotSelfExiting(t *testing.T) {
	s := New()
	s.Begin()
	s.ProductFetched(product())
	s.Complete(result())

	if err := s.ProductFetched(product()); err == nil {
		t.Fatal("done session accepted a product")
	}
	if err := s.Fail("boom"); err == nil {
		t.Fatal("done session accepted a failure")
	}

	s.Reset()
	s.Begin()
	s.Fail("boom")
	if err := s.Complete(result()); err == nil {
		t.Fatal("error session accepted a result")
	}
}
