package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"squadpoll_server/models"

	"github.com/google/uuid"
)

// ReminderService escalates polls to non-responders as events approach.
// Each poll carries a descending list of hours-before-event thresholds; a
// sweep fires at most one threshold per poll. A sweep gap that skips past
// several thresholds catches up one step per tick rather than bursting
// every missed reminder at once.
type ReminderService struct {
	Store     Store
	Messenger Messenger

	mu sync.Mutex
}

// ReminderMessage is the escalation text sent to non-responders
func ReminderMessage(event *models.Event) string {
	return fmt.Sprintf("Reminder: We still need your availability!\n\n%s\n\nReply:\n1 - Available\n2 - Not Available\n3 - Maybe",
		FormatEventMessage(event))
}

// CheckAndSendReminders is the periodic entry point invoked by cron
func (s *ReminderService) CheckAndSendReminders(ctx context.Context) {
	s.RunSweep(ctx, time.Now())
}

// RunSweep walks every dispatched poll with an upcoming event and fires
// the next crossed reminder threshold, if any. Sweeps never overlap: a
// tick arriving while a sweep is still running returns immediately.
func (s *ReminderService) RunSweep(ctx context.Context, now time.Time) {
	if !s.mu.TryLock() {
		log.Println("⏳ Reminder sweep already running, skipping tick")
		return
	}
	defer s.mu.Unlock()

	polls, err := s.Store.ListReminderEligiblePolls(ctx, now)
	if err != nil {
		log.Printf("❌ Reminder sweep failed to list polls: %v", err)
		return
	}

	for i := range polls {
		s.processPoll(ctx, &polls[i], now)
	}
}

func (s *ReminderService) processPoll(ctx context.Context, pe *PollWithEvent, now time.Time) {
	poll := &pe.Poll
	event := &pe.Event

	if !poll.PollsSent {
		return
	}
	eventTime := event.StartTime()
	if !eventTime.After(now) {
		return
	}
	hoursUntilEvent := eventTime.Sub(now).Hours()

	for i := poll.RemindersSent; i < len(poll.ReminderHours); i++ {
		if hoursUntilEvent > float64(poll.ReminderHours[i]) {
			continue
		}

		// The counter advance is a compare-and-set: losing the race means
		// another sweep owns this threshold, so this one sends nothing.
		advanced, err := s.Store.AdvanceReminderCounter(ctx, event.ID, poll.RemindersSent, i+1)
		if err != nil {
			log.Printf("❌ Failed to advance reminder counter for event %s: %v", event.ID, err)
			return
		}
		if !advanced {
			log.Printf("⏭️ Reminder counter for event %s already advanced by another sweep", event.ID)
			return
		}

		s.sendReminderForPoll(ctx, poll, event)
		return
	}
}

// sendReminderForPoll fans a reminder out to every active player without a
// recorded response. The threshold counts as handled even when every
// player has already responded.
func (s *ReminderService) sendReminderForPoll(ctx context.Context, poll *models.Poll, event *models.Event) {
	responses, err := s.Store.ListResponses(ctx, poll.ID)
	if err != nil {
		log.Printf("❌ Failed to list responses for poll %s: %v", poll.ID, err)
		return
	}
	responded := make(map[string]bool, len(responses))
	for _, r := range responses {
		responded[r.PlayerID] = true
	}

	players, err := s.Store.ListActivePlayers(ctx, event.TeamID)
	if err != nil {
		log.Printf("❌ Failed to list players for team %s: %v", event.TeamID, err)
		return
	}

	var nonResponders []models.Player
	for _, p := range players {
		if !responded[p.ID] {
			nonResponders = append(nonResponders, p)
		}
	}
	if len(nonResponders) == 0 {
		return
	}

	message := ReminderMessage(event)
	for _, player := range nonResponders {
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
			Type:      models.MessageTypeReminder,
			Body:      message,
			Status:    status,
			TwilioSid: result.Sid,
			CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
		}
		if err := s.Store.AppendMessageLog(ctx, logEntry); err != nil {
			log.Printf("❌ Failed to log reminder for player %s: %v", player.ID, err)
		}
	}

	log.Printf("🔔 Sent reminder for event %s to %d non-responders", event.ID, len(nonResponders))
}
