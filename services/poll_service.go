package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"squadpoll_server/models"

	"github.com/google/uuid"
)

// PollService dispatches availability polls to a team's active players
type PollService struct {
	Store     Store
	Messenger Messenger
}

// FormatEventMessage renders the human-readable event summary embedded in
// poll, reminder and confirmation messages.
func FormatEventMessage(event *models.Event) string {
	date := event.StartTime().Format("Monday, Jan 2, 03:04 PM")
	typeLabel := "Training"
	if event.Type == models.EventTypeMatch {
		opponent := event.Opponent
		if opponent == "" {
			opponent = "TBD"
		}
		typeLabel = "Match vs " + opponent
	}
	return fmt.Sprintf("%s\n%s\nVenue: %s", typeLabel, date, event.Venue)
}

// PollMessage is the initial availability request sent to every player
func PollMessage(event *models.Event) string {
	return fmt.Sprintf("Availability Poll:\n\n%s\n\nReply with:\n1 - Available\n2 - Not Available\n3 - Maybe",
		FormatEventMessage(event))
}

// SendPollToPlayers sends the poll to every active player on the event's
// team, logs each attempt, and marks the poll dispatched. A single
// player's send failure is recorded and does not abort the rest of the
// fan-out; nothing is retried within this call.
func (s *PollService) SendPollToPlayers(ctx context.Context, poll *models.Poll, event *models.Event) error {
	players, err := s.Store.ListActivePlayers(ctx, event.TeamID)
	if err != nil {
		return fmt.Errorf("failed to list active players: %w", err)
	}

	message := PollMessage(event)

	for _, player := range players {
		result := s.Messenger.Send(ctx, player.WhatsApp, message)

		status := models.StatusSent
		if !result.Success {
			status = models.StatusFailed
		}
		logEntry := models.MessageLog{
			ID:        uuid.New().String(),
			PollID:    poll.ID,
			PlayerID:  player.ID,
			Direction: models.DirectionOutbound,
			Type:      models.MessageTypePoll,
			Body:      message,
			Status:    status,
			TwilioSid: result.Sid,
			CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
		}
		if err := s.Store.AppendMessageLog(ctx, logEntry); err != nil {
			log.Printf("❌ Failed to log poll message for player %s: %v", player.ID, err)
		}
	}

	if err := s.Store.MarkPollSent(ctx, event.ID); err != nil {
		return fmt.Errorf("failed to mark poll as sent: %w", err)
	}

	log.Printf("📊 Poll for event %s dispatched to %d players", event.ID, len(players))
	return nil
}

// DispatchPoll loads the poll for an event and runs the fan-out. Used by
// the manual re-send endpoint; event creation calls SendPollToPlayers
// directly in a fire-and-forget goroutine.
func (s *PollService) DispatchPoll(ctx context.Context, eventID string) error {
	event, err := s.Store.GetEvent(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to load event %s: %w", eventID, err)
	}
	poll, err := s.Store.GetPollByEvent(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to load poll for event %s: %w", eventID, err)
	}
	if poll == nil {
		return fmt.Errorf("no poll exists for event %s", eventID)
	}
	return s.SendPollToPlayers(ctx, poll, event)
}
