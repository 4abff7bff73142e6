// Package scanner wires a decoded barcode event through product lookup and
// AI analysis into the scan session.
package scanner

import (
	"context"
	"errors"
	"log"

	"github.com/snacksense/backend/internal/analysis"
	"github.com/snacksense/backend/internal/catalog"
	"github.com/snacksense/backend/internal/models"
	"github.com/snacksense/backend/internal/session"
)

// Symbology identifies the encoding standard of a scanned code.
type Symbology string

const (
	SymbologyQR    Symbology = "qr"
	SymbologyEAN13 Symbology = "ean13"
	SymbologyEAN8  Symbology = "ean8"
	SymbologyUPCA  Symbology = "upca"
	SymbologyUPCE  Symbology = "upce"
)

// Accepted reports whether events of this symbology feed the pipeline.
// Everything else coming off the decoder is ignored.
func Accepted(s Symbology) bool {
	switch s {
	case SymbologyQR, SymbologyEAN13, SymbologyEAN8, SymbologyUPCA, SymbologyUPCE:
		return true
	}
	return false
}

// Catalog resolves a barcode to a product record.
type Catalog interface {
	Lookup(ctx context.Context, barcode string) (*models.ProductRecord, error)
}

// Pipeline runs one scan at a time: barcode → product fetch → analysis →
// session update. The session's non-idle states double as the re-entry guard,
// so there is never more than one scan in flight.
type Pipeline struct {
	catalog  Catalog
	analyzer analysis.Analyzer
	session  *session.Session
}

// New builds a pipeline over the given dependencies.
func New(cat Catalog, analyzer analysis.Analyzer, sess *session.Session) *Pipeline {
	return &Pipeline{
		catalog:  cat,
		analyzer: analyzer,
		session:  sess,
	}
}

// Session exposes the pipeline's scan session.
func (p *Pipeline) Session() *session.Session {
	return p.session
}

// HandleBarcode processes one decoded barcode event end to end and returns
// the resulting session snapshot. Events with an unaccepted symbology, or
// arriving while a scan is already in flight, are dropped without any
// external call. Both network calls run sequentially; analysis needs the
// fetched product. There is no automatic retry: every failure lands in the
// error state and waits for a user-initiated reset.
func (p *Pipeline) HandleBarcode(ctx context.Context, sym Symbology, code string, profile *models.UserProfile) session.Snapshot {
	if !Accepted(sym) {
		log.Printf("Ignoring barcode with unsupported symbology %q", sym)
		return p.session.Snapshot()
	}

	if !p.session.Begin() {
		log.Printf("Ignoring barcode %s: scan already in flight", code)
		return p.session.Snapshot()
	}

	product, err := p.catalog.Lookup(ctx, code)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			p.fail("Product not found in database.")
		} else {
			log.Printf("Product lookup failed for %s: %v", code, err)
			p.fail("Could not reach the product database. Please try again.")
		}
		return p.session.Snapshot()
	}

	if err := p.session.ProductFetched(product); err != nil {
		log.Printf("Dropping fetched product for %s: %v", code, err)
		return p.session.Snapshot()
	}

	result, err := p.analyzer.Analyze(ctx, product, profile)
	if err != nil {
		log.Printf("Analysis failed for %s: %v", code, err)
		p.fail("Failed to analyze product with AI.")
		return p.session.Snapshot()
	}

	if err := p.session.Complete(result); err != nil {
		log.Printf("Dropping analysis for %s: %v", code, err)
	}
	return p.session.Snapshot()
}

// Reset clears a finished or failed scan so the next barcode event starts
// fresh.
func (p *Pipeline) Reset() error {
	return p.session.Reset()
}

func (p *Pipeline) fail(message string) {
	if err := p.session.Fail(message); err != nil {
		log.Printf("Failed to record scan error: %v", err)
	}
}
