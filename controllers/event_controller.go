package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"squadpoll_server/models"
	"squadpoll_server/services"
	"squadpoll_server/utils"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// EventController handles event CRUD; creating an event also creates its
// poll and kicks off the WhatsApp fan-out.
type EventController struct {
	Store       services.Store
	PollService *services.PollService
}

// NewEventController initializes the event controller
func NewEventController(store services.Store, pollService *services.PollService) *EventController {
	return &EventController{Store: store, PollService: pollService}
}

type pollDetail struct {
	models.Poll
	Responses []responseDetail `json:"responses"`
}

type responseDetail struct {
	models.PollResponse
	Player *models.Player `json:"player,omitempty"`
}

type eventDetail struct {
	models.Event
	Poll *pollDetail `json:"poll,omitempty"`
}

func (c *EventController) eventWithPoll(ctx context.Context, event models.Event, includePlayers bool) eventDetail {
	detail := eventDetail{Event: event}

	poll, err := c.Store.GetPollByEvent(ctx, event.ID)
	if err != nil || poll == nil {
		return detail
	}

	responses, err := c.Store.ListResponses(ctx, poll.ID)
	if err != nil {
		responses = nil
	}

	pd := pollDetail{Poll: *poll, Responses: []responseDetail{}}
	for _, resp := range responses {
		rd := responseDetail{PollResponse: resp}
		if includePlayers {
			if player, err := c.Store.GetPlayer(ctx, resp.PlayerID); err == nil {
				rd.Player = player
			}
		}
		pd.Responses = append(pd.Responses, rd)
	}
	detail.Poll = &pd
	return detail
}

// HandleListEvents returns the team's events, upcoming first
func (c *EventController) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	auth, _ := utils.AuthFromContext(r.Context())

	events, err := c.Store.ListTeamEvents(r.Context(), auth.TeamID)
	if err != nil {
		log.Printf("❌ Failed to list events: %v", err)
		http.Error(w, `{"error": "Failed to fetch events"}`, http.StatusInternalServerError)
		return
	}

	payload := []eventDetail{}
	for _, event := range events {
		payload = append(payload, c.eventWithPoll(r.Context(), event, false))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

// HandleCreateEvent creates an event together with its poll, then sends
// the availability poll to the roster in the background. A dispatch
// failure is logged, never surfaced to the creation caller.
func (c *EventController) HandleCreateEvent(w http.ResponseWriter, r *http.Request) {
	auth, _ := utils.AuthFromContext(r.Context())

	var request struct {
		Type            string `json:"type"`
		Opponent        string `json:"opponent"`
		Venue           string `json:"venue"`
		DateTime        string `json:"dateTime"`
		RequiredPlayers int    `json:"requiredPlayers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if request.Type == "" || request.Venue == "" || request.DateTime == "" {
		http.Error(w, `{"error": "type, venue, and dateTime are required"}`, http.StatusBadRequest)
		return
	}
	if _, err := time.Parse(time.RFC3339, request.DateTime); err != nil {
		http.Error(w, `{"error": "dateTime must be RFC3339"}`, http.StatusBadRequest)
		return
	}
	if request.RequiredPlayers <= 0 {
		request.RequiredPlayers = 11
	}

	event := models.Event{
		ID:              uuid.New().String(),
		TeamID:          auth.TeamID,
		Type:            request.Type,
		Opponent:        request.Opponent,
		Venue:           request.Venue,
		DateTime:        request.DateTime,
		RequiredPlayers: request.RequiredPlayers,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := c.Store.CreateEvent(r.Context(), event); err != nil {
		log.Printf("❌ Failed to create event: %v", err)
		http.Error(w, `{"error": "Failed to create event"}`, http.StatusInternalServerError)
		return
	}

	poll := models.Poll{
		ID:            uuid.New().String(),
		EventID:       event.ID,
		PollsSent:     false,
		RemindersSent: 0,
		ReminderHours: models.DefaultReminderHours,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := c.Store.CreatePoll(r.Context(), poll); err != nil {
		log.Printf("❌ Failed to create poll for event %s: %v", event.ID, err)
		http.Error(w, `{"error": "Failed to create event"}`, http.StatusInternalServerError)
		return
	}

	// Fire-and-forget: the creation response does not wait on WhatsApp
	go func(poll models.Poll, event models.Event) {
		if err := c.PollService.SendPollToPlayers(context.Background(), &poll, &event); err != nil {
			log.Printf("❌ Failed to send polls for event %s: %v", event.ID, err)
		}
	}(poll, event)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(eventDetail{Event: event, Poll: &pollDetail{Poll: poll, Responses: []responseDetail{}}})
}

// HandleGetEvent returns one event with its poll, responses and players
func (c *EventController) HandleGetEvent(w http.ResponseWriter, r *http.Request) {
	auth, _ := utils.AuthFromContext(r.Context())
	eventID := mux.Vars(r)["id"]

	event, err := c.Store.GetEvent(r.Context(), eventID)
	if err != nil || event.TeamID != auth.TeamID {
		http.Error(w, `{"error": "Event not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(c.eventWithPoll(r.Context(), *event, true))
}

// HandleUpdateEvent updates event fields, team-scoped
func (c *EventController) HandleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	auth, _ := utils.AuthFromContext(r.Context())
	eventID := mux.Vars(r)["id"]

	event, err := c.Store.GetEvent(r.Context(), eventID)
	if err != nil || event.TeamID != auth.TeamID {
		http.Error(w, `{"error": "Event not found"}`, http.StatusNotFound)
		return
	}

	var request struct {
		Type            string `json:"type"`
		Opponent        string `json:"opponent"`
		Venue           string `json:"venue"`
		DateTime        string `json:"dateTime"`
		RequiredPlayers int    `json:"requiredPlayers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	if request.Type != "" {
		event.Type = request.Type
	}
	if request.Opponent != "" {
		event.Opponent = request.Opponent
	}
	if request.Venue != "" {
		event.Venue = request.Venue
	}
	if request.DateTime != "" {
		if _, err := time.Parse(time.RFC3339, request.DateTime); err != nil {
			http.Error(w, `{"error": "dateTime must be RFC3339"}`, http.StatusBadRequest)
			return
		}
		event.DateTime = request.DateTime
	}
	if request.RequiredPlayers > 0 {
		event.RequiredPlayers = request.RequiredPlayers
	}

	if err := c.Store.UpdateEvent(r.Context(), *event); err != nil {
		log.Printf("❌ Failed to update event %s: %v", eventID, err)
		http.Error(w, `{"error": "Failed to update event"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(c.eventWithPoll(r.Context(), *event, false))
}

// HandleDeleteEvent deletes an event and cascades its poll data
func (c *EventController) HandleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	auth, _ := utils.AuthFromContext(r.Context())
	eventID := mux.Vars(r)["id"]

	deleted, err := c.Store.DeleteEvent(r.Context(), auth.TeamID, eventID)
	if err != nil {
		log.Printf("❌ Failed to delete event %s: %v", eventID, err)
		http.Error(w, `{"error": "Failed to delete event"}`, http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, `{"error": "Event not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Event deleted"})
}
