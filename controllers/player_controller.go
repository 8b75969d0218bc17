package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"squadpoll_server/models"
	"squadpoll_server/services"
	"squadpoll_server/utils"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// PlayerController handles roster management
type PlayerController struct {
	Store services.Store
}

// NewPlayerController initializes the player controller
func NewPlayerController(store services.Store) *PlayerController {
	return &PlayerController{Store: store}
}

// HandleListPlayers returns the team's active players sorted by name
func (c *PlayerController) HandleListPlayers(w http.ResponseWriter, r *http.Request) {
	auth, _ := utils.AuthFromContext(r.Context())

	players, err := c.Store.ListActivePlayers(r.Context(), auth.TeamID)
	if err != nil {
		log.Printf("❌ Failed to list players: %v", err)
		http.Error(w, `{"error": "Failed to fetch players"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(players)
}

// HandleCreatePlayer adds one player to the roster
func (c *PlayerController) HandleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	auth, _ := utils.AuthFromContext(r.Context())

	var request struct {
		Name     string `json:"name"`
		WhatsApp string `json:"whatsapp"`
		Role     string `json:"role"`
		Location string `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if request.Name == "" || request.WhatsApp == "" || request.Role == "" {
		http.Error(w, `{"error": "name, whatsapp, and role are required"}`, http.StatusBadRequest)
		return
	}

	player := models.Player{
		ID:       uuid.New().String(),
		TeamID:   auth.TeamID,
		Name:     request.Name,
		WhatsApp: utils.NormalizeWhatsApp(request.WhatsApp),
		Role:     request.Role,
		Location: request.Location,
		Active:   true,
	}
	if err := c.Store.CreatePlayer(r.Context(), player); err != nil {
		log.Printf("❌ Failed to create player: %v", err)
		http.Error(w, `{"error": "Failed to create player"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(player)
}

// HandleUpdatePlayer updates a roster entry, team-scoped
func (c *PlayerController) HandleUpdatePlayer(w http.ResponseWriter, r *http.Request) {
	auth, _ := utils.AuthFromContext(r.Context())
	playerID := mux.Vars(r)["id"]

	player, err := c.Store.GetPlayer(r.Context(), playerID)
	if err != nil || player.TeamID != auth.TeamID {
		http.Error(w, `{"error": "Player not found"}`, http.StatusNotFound)
		return
	}

	var request struct {
		Name     string `json:"name"`
		WhatsApp string `json:"whatsapp"`
		Role     string `json:"role"`
		Location string `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	if request.Name != "" {
		player.Name = request.Name
	}
	if request.WhatsApp != "" {
		player.WhatsApp = utils.NormalizeWhatsApp(request.WhatsApp)
	}
	if request.Role != "" {
		player.Role = request.Role
	}
	if request.Location != "" {
		player.Location = request.Location
	}

	if err := c.Store.UpdatePlayer(r.Context(), *player); err != nil {
		log.Printf("❌ Failed to update player %s: %v", playerID, err)
		http.Error(w, `{"error": "Failed to update player"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(player)
}

// HandleDeactivatePlayer soft-deletes a player so they stop receiving
// polls and reminders; recorded responses are kept.
func (c *PlayerController) HandleDeactivatePlayer(w http.ResponseWriter, r *http.Request) {
	auth, _ := utils.AuthFromContext(r.Context())
	playerID := mux.Vars(r)["id"]

	player, err := c.Store.GetPlayer(r.Context(), playerID)
	if err != nil || player.TeamID != auth.TeamID {
		http.Error(w, `{"error": "Player not found"}`, http.StatusNotFound)
		return
	}

	player.Active = false
	if err := c.Store.UpdatePlayer(r.Context(), *player); err != nil {
		log.Printf("❌ Failed to deactivate player %s: %v", playerID, err)
		http.Error(w, `{"error": "Failed to deactivate player"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Player deactivated"})
}

// HandleImportPlayers bulk-creates players from an uploaded roster CSV
func (c *PlayerController) HandleImportPlayers(w http.ResponseWriter, r *http.Request) {
	auth, _ := utils.AuthFromContext(r.Context())

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, `{"error": "CSV file is required"}`, http.StatusBadRequest)
		return
	}
	defer file.Close()

	rows, err := utils.ParseRosterCsv(file)
	if err != nil {
		http.Error(w, `{"error": "`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	imported := 0
	for _, row := range rows {
		player := models.Player{
			ID:       uuid.New().String(),
			TeamID:   auth.TeamID,
			Name:     row.Name,
			WhatsApp: utils.NormalizeWhatsApp(row.WhatsApp),
			Role:     row.Role,
			Location: row.Location,
			Active:   true,
		}
		if err := c.Store.CreatePlayer(r.Context(), player); err != nil {
			log.Printf("❌ Failed to import player %s: %v", row.Name, err)
			continue
		}
		imported++
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]int{"imported": imported})
}
