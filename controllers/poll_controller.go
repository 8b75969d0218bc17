package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"squadpoll_server/services"
	"squadpoll_server/utils"

	"github.com/gorilla/mux"
)

// PollController exposes poll readiness summaries and manual re-sends
type PollController struct {
	Store       services.Store
	PollService *services.PollService
}

// NewPollController initializes the poll controller
func NewPollController(store services.Store, pollService *services.PollService) *PollController {
	return &PollController{Store: store, PollService: pollService}
}

// HandleGetPoll returns the poll with responses and the readiness summary
func (c *PollController) HandleGetPoll(w http.ResponseWriter, r *http.Request) {
	auth, _ := utils.AuthFromContext(r.Context())
	eventID := mux.Vars(r)["eventId"]

	event, err := c.Store.GetEvent(r.Context(), eventID)
	if err != nil || event.TeamID != auth.TeamID {
		http.Error(w, `{"error": "Event not found"}`, http.StatusNotFound)
		return
	}

	poll, err := c.Store.GetPollByEvent(r.Context(), eventID)
	if err != nil || poll == nil {
		http.Error(w, `{"error": "Poll not found"}`, http.StatusNotFound)
		return
	}

	responses, err := c.Store.ListResponses(r.Context(), poll.ID)
	if err != nil {
		log.Printf("❌ Failed to list responses for poll %s: %v", poll.ID, err)
		http.Error(w, `{"error": "Failed to fetch poll"}`, http.StatusInternalServerError)
		return
	}

	players, err := c.Store.ListActivePlayers(r.Context(), auth.TeamID)
	if err != nil {
		log.Printf("❌ Failed to count active players: %v", err)
		http.Error(w, `{"error": "Failed to fetch poll"}`, http.StatusInternalServerError)
		return
	}

	summary := services.ComputeReadiness(responses, len(players), event.RequiredPlayers)

	detail := pollDetail{Poll: *poll, Responses: []responseDetail{}}
	for _, resp := range responses {
		rd := responseDetail{PollResponse: resp}
		if player, err := c.Store.GetPlayer(r.Context(), resp.PlayerID); err == nil {
			rd.Player = player
		}
		detail.Responses = append(detail.Responses, rd)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"poll":    detail,
		"summary": summary,
	})
}

// HandleSendPoll re-sends the availability poll synchronously; unlike the
// fire-and-forget path on event creation, failures surface to the caller.
func (c *PollController) HandleSendPoll(w http.ResponseWriter, r *http.Request) {
	auth, _ := utils.AuthFromContext(r.Context())
	eventID := mux.Vars(r)["eventId"]

	event, err := c.Store.GetEvent(r.Context(), eventID)
	if err != nil || event.TeamID != auth.TeamID {
		http.Error(w, `{"error": "Event not found"}`, http.StatusNotFound)
		return
	}

	if err := c.PollService.DispatchPoll(r.Context(), eventID); err != nil {
		log.Printf("❌ Failed to send polls for event %s: %v", eventID, err)
		http.Error(w, `{"error": "Failed to send polls"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Polls sent successfully"})
}
