package http

import (
	"encoding/json"
	"log"
	"net/http"

	"giveflow/internal/domain/operator"
	"giveflow/internal/shared/auth"
)

type AuthHandler struct {
	operatorRepo operator.Repository
	jwt          *auth.JWT
}

func NewAuthHandler(operatorRepo operator.Repository, jwt *auth.JWT) *AuthHandler {
	return &AuthHandler{operatorRepo: operatorRepo, jwt: jwt}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token    string             `json:"token"`
	Operator *operator.Operator `json:"operator"`
}

// HandleRegister creates a new operator account.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" || req.Name == "" {
		http.Error(w, "Email, password, and name are required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	existing, err := h.operatorRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		log.Printf("Error checking existing operator: %v", err)
		http.Error(w, "Failed to create operator", http.StatusInternalServerError)
		return
	}
	if existing != nil {
		http.Error(w, "Operator with this email already exists", http.StatusConflict)
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password during registration: %v", err)
		http.Error(w, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	op, err := h.operatorRepo.Create(ctx, operator.CreateParams{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: passwordHash,
	})
	if err != nil {
		log.Printf("Error creating operator: %v", err)
		http.Error(w, "Failed to create operator", http.StatusInternalServerError)
		return
	}

	token, err := h.jwt.Generate(op.ID, op.Email)
	if err != nil {
		log.Printf("Error generating JWT for new operator %d: %v", op.ID, err)
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	setAuthCookie(w, r, token)
	writeJSON(w, http.StatusCreated, AuthResponse{Token: token, Operator: op})
}

// HandleLogin authenticates an operator with email and password.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	op, err := h.operatorRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		log.Printf("Error fetching operator by email: %v", err)
		http.Error(w, "Failed to log in", http.StatusInternalServerError)
		return
	}
	if op == nil {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	if err := auth.VerifyPassword(op.PasswordHash, req.Password); err != nil {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	token, err := h.jwt.Generate(op.ID, op.Email)
	if err != nil {
		log.Printf("Error generating JWT for operator %d: %v", op.ID, err)
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	setAuthCookie(w, r, token)
	writeJSON(w, http.StatusOK, AuthResponse{Token: token, Operator: op})
}

// HandleLogout clears the auth cookie.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	secure := r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	w.WriteHeader(http.StatusNoContent)
}

// setAuthCookie sets the JWT as an HttpOnly cookie
func setAuthCookie(w http.ResponseWriter, r *http.Request, token string) {
	// Only set Secure flag when actually using HTTPS
	secure := r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400, // 24 hours (matches JWT expiration)
	})
}
