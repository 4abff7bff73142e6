package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/snacksense/backend/internal/models"
	"github.com/snacksense/backend/internal/scanner"
	"github.com/snacksense/backend/internal/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // In production, this should be more restrictive
	},
}

// handleScannerSocket serves one device's scan loop. Each connection owns its
// own session and pipeline, so exactly one scan is in flight per device and
// a disconnect discards the in-progress session.
func (s *Server) handleScannerSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	identity, err := s.auth.VerifyToken(token)
	if err != nil {
		http.Error(w, "invalid session token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade failed:", err)
		return
	}
	defer conn.Close()

	pipeline := scanner.New(s.catalog, s.analyzer, session.New())

	// Push the initial snapshot so the client starts from a known state.
	s.sendMessage(conn, "session", pipeline.Session().Snapshot())

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			log.Println("Error reading message:", err)
			break
		}

		var msg struct {
			Type string `json:"type"`
			Data struct {
				Symbology string `json:"symbology"`
				Code      string `json:"code"`
			} `json:"data"`
		}
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Println("Error parsing message:", err)
			s.sendError(conn, "Invalid message format")
			continue
		}

		switch msg.Type {
		case "scan":
			s.handleScanMessage(r.Context(), conn, identity, pipeline, msg.Data.Symbology, msg.Data.Code)
		case "reset":
			if err := pipeline.Reset(); err != nil {
				s.sendError(conn, "Cannot reset while a scan is running")
				continue
			}
			s.sendMessage(conn, "session", pipeline.Session().Snapshot())
		default:
			s.sendError(conn, "Unknown message type")
		}
	}
}

// handleScanMessage runs the pipeline for one barcode event and persists the
// scan when it completes.
func (s *Server) handleScanMessage(ctx context.Context, conn *websocket.Conn, identity *models.Identity, pipeline *scanner.Pipeline, symbology, code string) {
	profile, err := s.auth.GetProfile(ctx, identity.UserID)
	if err != nil {
		log.Printf("Error loading profile for %s: %v", identity.UserID, err)
		profile = nil // fall back to the generic-adult framing
	}

	snapshot := pipeline.HandleBarcode(ctx, scanner.Symbology(symbology), code, profile)

	if snapshot.Status == session.StatusDone && snapshot.Product != nil && snapshot.Result != nil {
		record := &models.ScanRecord{
			ID:                  uuid.New().String(),
			UserID:              identity.UserID,
			Barcode:             snapshot.Product.Barcode,
			ProductName:         snapshot.Product.Name,
			Brand:               snapshot.Product.Brand,
			HealthScore:         snapshot.Result.HealthScore,
			SustainabilityScore: snapshot.Result.SustainabilityScore,
			Category:            snapshot.Result.Category,
		}
		if err := s.db.SaveScan(ctx, record); err != nil {
			log.Printf("Error saving scan: %v", err)
		}
	}

	s.sendMessage(conn, "session", snapshot)
}

func (s *Server) sendMessage(conn *websocket.Conn, messageType string, data any) {
	msg := map[string]any{
		"type": messageType,
		"data": data,
	}

	if err := conn.WriteJSON(msg); err != nil {
		log.Println("Error sending message:", err)
	}
}

func (s *Server) sendError(conn *websocket.Conn, message string) {
	msg := map[string]any{
		"type":    "error",
		"message": message,
	}

	if err := conn.WriteJSON(msg); err != nil {
		log.Println("Error sending error message:", err)
	}
}
