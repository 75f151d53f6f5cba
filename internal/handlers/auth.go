package handlers

import (
	"errors"
	"net/http"

	"github.com/wassalni/covoiturage-backend/internal/apperr"
	"github.com/wassalni/covoiturage-backend/internal/auth"
	"github.com/wassalni/covoiturage-backend/internal/db"
	"github.com/wassalni/covoiturage-backend/internal/models"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	authService    *auth.Service
	userCollection db.UserCollection
}

// NewAuthHandler creates a new authentication handler.
func NewAuthHandler(authService *auth.Service, userCollection db.UserCollection) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		userCollection: userCollection,
	}
}

// Register handles account creation.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		writeError(w, apperr.Validationf("first and last name are required"))
		return
	}
	if err := h.authService.ValidateEmail(req.Email); err != nil {
		writeError(w, apperr.Validationf("%v", err))
		return
	}
	if err := h.authService.ValidatePassword(req.Password); err != nil {
		writeError(w, apperr.Validationf("%v", err))
		return
	}

	existing, err := h.userCollection.FindUserByEmail(r.Context(), req.Email)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		writeError(w, err)
		return
	}
	if existing != nil {
		writeError(w, apperr.Duplicatef("an account with email %s already exists", req.Email))
		return
	}

	hash, err := h.authService.HashPassword(req.Password)
	if err != nil {
		writeError(w, apperr.Storef("hash password: %v", err))
		return
	}
	user := models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        req.Phone,
		BirthDate:    req.BirthDate,
		Gender:       req.Gender,
	}
	id, err := h.userCollection.InsertUser(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}
	created, err := h.userCollection.FindUserByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Login handles user login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, apperr.Validationf("email and password are required"))
		return
	}

	user, err := h.userCollection.FindUserByEmail(r.Context(), req.Email)
	if err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	if !user.IsActive {
		http.Error(w, "Account is deactivated", http.StatusUnauthorized)
		return
	}
	if !h.authService.CheckPassword(req.Password, user.PasswordHash) {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}
	refreshToken, err := h.authService.GenerateRefreshToken()
	if err != nil {
		http.Error(w, "Failed to generate refresh token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{
		Token:        token,
		RefreshToken: refreshToken,
		User:         *user,
	})
}
