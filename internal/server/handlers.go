package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/snacksense/backend/internal/auth"
	"github.com/snacksense/backend/internal/models"
	"github.com/snacksense/backend/internal/navigation"
	"github.com/snacksense/backend/internal/session"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User  *models.Identity `json:"user"`
	Token string           `json:"token"`
}

// authedHandler receives the verified identity alongside the request.
type authedHandler func(w http.ResponseWriter, r *http.Request, identity *models.Identity)

// requireAuth verifies the bearer token before invoking the handler.
func (s *Server) requireAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		identity, err := s.auth.VerifyToken(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid session token")
			return
		}
		next(w, r, identity)
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	identity, token, err := s.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, auth.ErrEmailTaken) {
			status = http.StatusConflict
		}
		// Provider errors are surfaced verbatim at the register boundary.
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{User: identity, Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	identity, token, err := s.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, authResponse{User: identity, Token: token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, identity *models.Identity) {
	s.auth.SignOut()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request, identity *models.Identity) {
	profile, err := s.auth.GetProfile(r.Context(), identity.UserID)
	if err != nil {
		log.Printf("Error loading profile for %s: %v", identity.UserID, err)
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if profile == nil {
		// Not yet onboarded; the client routes to profile setup.
		writeError(w, http.StatusNotFound, "profile not set up")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request, identity *models.Identity) {
	var profile models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.auth.SaveProfile(r.Context(), identity.UserID, &profile); err != nil {
		if errors.Is(err, auth.ErrInvalidProfile) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("Error saving profile for %s: %v", identity.UserID, err)
		writeError(w, http.StatusInternalServerError, "failed to save profile")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleScanHistory(w http.ResponseWriter, r *http.Request, identity *models.Identity) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	scans, err := s.db.RecentScans(r.Context(), identity.UserID, limit)
	if err != nil {
		log.Printf("Error retrieving history: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to retrieve history")
		return
	}
	if scans == nil {
		scans = []*models.ScanRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": scans})
}

func (s *Server) handleNavigation(w http.ResponseWriter, r *http.Request, identity *models.Identity) {
	profile, err := s.auth.GetProfile(r.Context(), identity.UserID)
	if err != nil {
		log.Printf("Error loading profile for %s: %v", identity.UserID, err)
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	scan := session.StatusIdle
	if v := r.URL.Query().Get("scan_status"); v != "" {
		scan = session.Status(v)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"screens": navigation.Reachable(identity, profile, scan),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("Error encoding response:", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
