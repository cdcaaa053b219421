package handlers

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rohits-web03/ledger/internal/utils"
)

const (
	// SessionCookie carries the signed session token.
	SessionCookie = "token"
	// OwnerSubject is the only subject ever issued.
	OwnerSubject = "owner"

	sessionTTL = 24 * time.Hour
)

type loginRequest struct {
	Password string `json:"password" validate:"required"`
}

// AuthEnabled reports whether login is required.
func (h *Handler) AuthEnabled() bool {
	return len(h.passwordHash) > 0
}

// LoginUser godoc
// @Summary Log in as the owner
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Owner password"
// @Success 200 {object} utils.Payload
// @Failure 401 {object} utils.Payload
// @Router /api/auth/login [post]
func (h *Handler) LoginUser(w http.ResponseWriter, r *http.Request) {
	if !h.AuthEnabled() {
		utils.Fail(w, http.StatusNotFound, "Authentication is not enabled")
		return
	}

	var input loginRequest
	if !h.decodeJSON(w, r, &input) {
		return
	}

	if err := bcrypt.CompareHashAndPassword(h.passwordHash, []byte(input.Password)); err != nil {
		h.log.Warn("failed login attempt", zap.String("remote_addr", r.RemoteAddr))
		utils.Fail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	sessionID, err := utils.GenerateSecureToken(16)
	if err != nil {
		h.handleError(w, err)
		return
	}

	now := h.now()
	expiration := now.Add(sessionTTL)
	claims := jwt.RegisteredClaims{
		Subject:   OwnerSubject,
		ID:        sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiration),
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.jwtSecret))
	if err != nil {
		h.handleError(w, err)
		return
	}

	sameSite := http.SameSiteLaxMode
	if h.secureCookie {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    tokenString,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		Secure:   h.secureCookie,
		HttpOnly: true,
		SameSite: sameSite,
	})

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Login successful",
	})
}

// POST /api/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // maxAge < 0 deletes the cookie
		Secure:   h.secureCookie,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Logged out successfully",
	})
}
