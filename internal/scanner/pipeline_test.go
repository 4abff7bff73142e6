package scanner

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/snacksense/backend/internal/analysis"
	"github.com/snacksense/backend/internal/catalog"
	"github.com/snacksense/backend/internal/models"
	"github.com/snacksense/backend/internal/session"
)

type fakeCatalog struct {
	mu       sync.Mutex
	calls    int
	products map[string]*models.ProductRecord
	err      error

	entered chan struct{} // closed-ish signal: one send per Lookup entry
	release chan struct{} // when non-nil, Lookup blocks until a receive fires
}

func (f *fakeCatalog) Lookup(ctx context.Context, barcode string) (*models.ProductRecord, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}

	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.products[barcode]; ok {
		return p, nil
	}
	return nil, catalog.ErrNotFound
}

func (f *fakeCatalog) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeAnalyzer struct {
	mu     sync.Mutex
	calls  int
	result *models.AnalysisResult
	err    error
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, product *models.ProductRecord, profile *models.UserProfile) (*models.AnalysisResult, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeAnalyzer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func knownProducts() map[string]*models.ProductRecord {
	return map[string]*models.ProductRecord{
		"737628064502": {
			Barcode: "737628064502",
			Name:    "Rice Noodles",
			Nutriments: models.Nutriments{
				Sugars:   10,
				Proteins: 2,
			},
		},
	}
}

func neutralResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		HealthScore: 55, Category: models.CategoryNeutral,
		Allergens: []string{}, Summary: "ok",
		HealthierAlternatives: []string{"soba"},
	}
}

func TestScanReachesDone(t *testing.T) {
	cat := &fakeCatalog{products: knownProducts()}
	ana := &fakeAnalyzer{result: neutralResult()}
	p := New(cat, ana, session.New())

	snap := p.HandleBarcode(context.Background(), SymbologyEAN13, "737628064502", nil)

	if snap.Status != session.StatusDone {
		t.Fatalf("status = %q, want done", snap.Status)
	}
	if snap.Product == nil || snap.Result == nil {
		t.Fatal("done snapshot must hold both product and result")
	}
	if cat.callCount() != 1 || ana.callCount() != 1 {
		t.Fatalf("calls: catalog=%d analyzer=%d, want 1/1", cat.callCount(), ana.callCount())
	}
}

func TestUnknownBarcodeNeverReachesAnalysis(t *testing.T) {
	cat := &fakeCatalog{products: knownProducts()}
	ana := &fakeAnalyzer{result: neutralResult()}
	p := New(cat, ana, session.New())

	snap := p.HandleBarcode(context.Background(), SymbologyEAN13, "000000000000", nil)

	if snap.Status != session.StatusError {
		t.Fatalf("status = %q, want error", snap.Status)
	}
	if snap.Product != nil {
		t.Fatal("catalog miss must leave no product")
	}
	if ana.callCount() != 0 {
		t.Fatal("analysis must not run after a catalog miss")
	}
}

func TestTransientLookupFailure(t *testing.T) {
	cat := &fakeCatalog{err: fmt.Errorf("catalog request failed: connection refused")}
	ana := &fakeAnalyzer{result: neutralResult()}
	p := New(cat, ana, session.New())

	snap := p.HandleBarcode(context.Background(), SymbologyUPCA, "123", nil)

	if snap.Status != session.StatusError {
		t.Fatalf("status = %q, want error", snap.Status)
	}
	if snap.Error == "" {
		t.Fatal("transport failure must surface a message")
	}
	if ana.callCount() != 0 {
		t.Fatal("analysis must not run after a transport failure")
	}
}

func TestSchemaViolationRetainsProduct(t *testing.T) {
	cat := &fakeCatalog{products: knownProducts()}
	ana := &fakeAnalyzer{err: fmt.Errorf("%w: unknown category %q", analysis.ErrSchemaViolation, "Dubious")}
	p := New(cat, ana, session.New())

	snap := p.HandleBarcode(context.Background(), SymbologyEAN13, "737628064502", nil)

	if snap.Status != session.StatusError {
		t.Fatalf("status = %q, want error", snap.Status)
	}
	if snap.Product == nil {
		t.Fatal("analysis failure must retain the fetched product")
	}
	if snap.Result != nil {
		t.Fatal("a half-populated result must never be emitted")
	}
}

func TestUnsupportedSymbologyIsIgnored(t *testing.T) {
	cat := &fakeCatalog{products: knownProducts()}
	ana := &fakeAnalyzer{result: neutralResult()}
	p := New(cat, ana, session.New())

	snap := p.HandleBarcode(context.Background(), Symbology("pdf417"), "737628064502", nil)

	if snap.Status != session.StatusIdle {
		t.Fatalf("status = %q, want idle", snap.Status)
	}
	if cat.callCount() != 0 || ana.callCount() != 0 {
		t.Fatal("ignored symbology must produce no external call")
	}
}

func TestRescanWhileInFlightIsNoOp(t *testing.T) {
	cat := &fakeCatalog{
		products: knownProducts(),
		entered:  make(chan struct{}, 1),
		release:  make(chan struct{}),
	}
	ana := &fakeAnalyzer{result: neutralResult()}
	p := New(cat, ana, session.New())

	done := make(chan session.Snapshot, 1)
	go func() {
		done <- p.HandleBarcode(context.Background(), SymbologyEAN13, "737628064502", nil)
	}()

	// Wait until the first scan is inside the catalog call.
	select {
	case <-cat.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first scan never reached the catalog")
	}

	// Second barcode event while scanning: dropped, no new external call.
	snap := p.HandleBarcode(context.Background(), SymbologyEAN13, "737628064502", nil)
	if snap.Status != session.StatusScanning {
		t.Fatalf("status = %q, want scanning", snap.Status)
	}
	if cat.callCount() != 1 {
		t.Fatalf("catalog calls = %d, second event must not trigger a lookup", cat.callCount())
	}

	close(cat.release)
	select {
	case snap := <-done:
		if snap.Status != session.StatusDone {
			t.Fatalf("first scan finished in %q, want done", snap.Status)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("first scan never finished")
	}

	if ana.callCount() != 1 {
		t.Fatalf("analyzer calls = %d, want 1", ana.callCount())
	}
}
