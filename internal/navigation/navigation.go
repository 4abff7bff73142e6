// Package navigation derives which screens a client may show from auth state,
// profile completeness, and the scan session.
package navigation

import (
	"github.com/snacksense/backend/internal/models"
	"github.com/snacksense/backend/internal/session"
)

// Screen names one client view.
type Screen string

const (
	ScreenLogin        Screen = "login"
	ScreenRegister     Screen = "register"
	ScreenProfileSetup Screen = "profile_setup"
	ScreenHome         Screen = "home"
	ScreenScanner      Screen = "scanner"
	ScreenResults      Screen = "results"
	ScreenEditProfile  Screen = "edit_profile"
)

// Reachable is a pure function of (identity, profile, scan status) to the set
// of screens the client may navigate to. A signed-in user without a profile
// is hard-gated to profile setup regardless of everything else; results needs
// a finished scan.
func Reachable(identity *models.Identity, profile *models.UserProfile, scan session.Status) []Screen {
	if identity == nil {
		return []Screen{ScreenLogin, ScreenRegister}
	}
	if profile == nil {
		return []Screen{ScreenProfileSetup}
	}

	screens := []Screen{ScreenHome, ScreenScanner, ScreenEditProfile}
	if scan == session.StatusDone {
		screens = append(screens, ScreenResults)
	}
	return screens
}

// CanShow reports whether one screen is in the reachable set.
func CanShow(target Screen, identity *models.Identity, profile *models.UserProfile, scan session.Status) bool {
	for _, s := range Reachable(identity, profile, scan) {
		if s == target {
			return true
		}
	}
	return false
}
