package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"squadpoll_server/models"
	"squadpoll_server/services"
	"squadpoll_server/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthController handles coach account registration and login
type AuthController struct {
	Store services.Store
}

// NewAuthController initializes the auth controller
func NewAuthController(store services.Store) *AuthController {
	return &AuthController{Store: store}
}

// HandleRegister creates a team plus its first coach account
func (c *AuthController) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		TeamName string `json:"teamName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if request.Email == "" || request.Password == "" || request.Name == "" || request.TeamName == "" {
		http.Error(w, `{"error": "email, password, name, and teamName are required"}`, http.StatusBadRequest)
		return
	}

	existing, err := c.Store.GetUserByEmail(r.Context(), request.Email)
	if err != nil {
		http.Error(w, `{"error": "Registration failed"}`, http.StatusInternalServerError)
		return
	}
	if existing != nil {
		http.Error(w, `{"error": "Email already registered"}`, http.StatusConflict)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, `{"error": "Registration failed"}`, http.StatusInternalServerError)
		return
	}

	team := models.Team{
		ID:        uuid.New().String(),
		Name:      request.TeamName,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := c.Store.CreateTeam(r.Context(), team); err != nil {
		log.Printf("❌ Failed to create team: %v", err)
		http.Error(w, `{"error": "Registration failed"}`, http.StatusInternalServerError)
		return
	}

	user := models.User{
		Email:        request.Email,
		PasswordHash: string(hashed),
		Name:         request.Name,
		UserID:       uuid.New().String(),
		TeamID:       team.ID,
		CreatedAt:    time.Now().UTC().Format(time.RFC3339),
	}
	if err := c.Store.CreateUser(r.Context(), user); err != nil {
		log.Printf("❌ Failed to create user: %v", err)
		http.Error(w, `{"error": "Registration failed"}`, http.StatusInternalServerError)
		return
	}

	token, err := utils.GenerateToken(utils.AuthPayload{UserID: user.UserID, TeamID: team.ID})
	if err != nil {
		http.Error(w, `{"error": "Registration failed"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"token": token,
		"user":  map[string]string{"id": user.UserID, "email": user.Email, "name": user.Name},
		"team":  map[string]string{"id": team.ID, "name": team.Name},
	})
}

// HandleLogin verifies credentials and issues a JWT
func (c *AuthController) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if request.Email == "" || request.Password == "" {
		http.Error(w, `{"error": "email and password are required"}`, http.StatusBadRequest)
		return
	}

	user, err := c.Store.GetUserByEmail(r.Context(), request.Email)
	if err != nil || user == nil {
		http.Error(w, `{"error": "Invalid credentials"}`, http.StatusUnauthorized)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)) != nil {
		http.Error(w, `{"error": "Invalid credentials"}`, http.StatusUnauthorized)
		return
	}

	token, err := utils.GenerateToken(utils.AuthPayload{UserID: user.UserID, TeamID: user.TeamID})
	if err != nil {
		http.Error(w, `{"error": "Login failed"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"token": token,
		"user":  map[string]string{"id": user.UserID, "email": user.Email, "name": user.Name},
	})
}
