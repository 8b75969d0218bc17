package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"squadpoll_server/models"
	"squadpoll_server/utils"

	"github.com/google/uuid"
)

// Fixed replies: an inbound message always gets one of these or a
// confirmation, never a silent drop or a raw fault.
const (
	ReplyNotRegistered = "Sorry, your number is not registered with any team."
	ReplyNoActivePoll  = "No active polls found for your team."
	ReplyInvalid       = "Invalid response. Please reply:\n1 - Available\n2 - Not Available\n3 - Maybe"
)

// Broadcaster pushes poll updates to connected dashboard clients
type Broadcaster interface {
	PollUpdated(teamID string, payload interface{})
}

// InboundService interprets player WhatsApp messages and records their
// availability responses.
type InboundService struct {
	Store     Store
	Messenger Messenger
	Broadcast Broadcaster

	mu    sync.Mutex
	locks map[string]*playerLock
}

type playerLock struct {
	sync.Mutex
	refs int
}

// acquire serializes handling per (poll, player) so that rapid messages
// from the same player resolve last-write-wins by arrival order. Entries
// are reference counted and dropped on release, so the map holds only
// locks for messages currently in flight.
func (s *InboundService) acquire(pollID, playerID string) *playerLock {
	s.mu.Lock()
	if s.locks == nil {
		s.locks = make(map[string]*playerLock)
	}
	key := pollID + "|" + playerID
	lock, ok := s.locks[key]
	if !ok {
		lock = &playerLock{}
		s.locks[key] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.Lock()
	return lock
}

func (s *InboundService) release(pollID, playerID string, lock *playerLock) {
	lock.Unlock()
	s.mu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(s.locks, pollID+"|"+playerID)
	}
	s.mu.Unlock()
}

// ProcessInboundResponse resolves the sender, finds their team's open
// poll, classifies the message, upserts the response, logs the exchange
// and sends a confirmation. Always returns reply text; every failure mode
// degrades to an explanatory reply.
func (s *InboundService) ProcessInboundResponse(ctx context.Context, from, body string) string {
	normalizedPhone := utils.NormalizeWhatsApp(from)

	player, err := s.Store.FindActivePlayerByWhatsApp(ctx, normalizedPhone)
	if err != nil {
		log.Printf("❌ Failed to resolve player for %s: %v", normalizedPhone, err)
		return ReplyNotRegistered
	}
	if player == nil {
		return ReplyNotRegistered
	}

	open, err := s.Store.FindActivePollForTeam(ctx, player.TeamID, time.Now())
	if err != nil {
		log.Printf("❌ Failed to find open poll for team %s: %v", player.TeamID, err)
		return ReplyNoActivePoll
	}
	if open == nil {
		return ReplyNoActivePoll
	}

	response, ok := ClassifyResponse(body)
	if !ok {
		return ReplyInvalid
	}

	lock := s.acquire(open.Poll.ID, player.ID)
	defer s.release(open.Poll.ID, player.ID, lock)

	err = s.Store.UpsertResponse(ctx, models.PollResponse{
		PollID:    open.Poll.ID,
		PlayerID:  player.ID,
		Response:  response,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		log.Printf("❌ Failed to record response for player %s: %v", player.ID, err)
		return ReplyInvalid
	}

	inbound := models.MessageLog{
		ID:        uuid.New().String(),
		PollID:    open.Poll.ID,
		PlayerID:  player.ID,
		Direction: models.DirectionInbound,
		Type:      models.MessageTypePoll,
		Body:      body,
		Status:    models.StatusReceived,
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := s.Store.AppendMessageLog(ctx, inbound); err != nil {
		log.Printf("❌ Failed to log inbound message from player %s: %v", player.ID, err)
	}

	eventInfo := FormatEventMessage(&open.Event)
	confirmMessage := fmt.Sprintf("Thanks %s! You responded %q for:\n%s",
		player.Name, ResponseLabel(response), eventInfo)

	result := s.Messenger.Send(ctx, player.WhatsApp, confirmMessage)
	status := models.StatusSent
	if !result.Success {
		status = models.StatusFailed
	}
	outbound := models.MessageLog{
		ID:        uuid.New().String(),
		PollID:    open.Poll.ID,
		PlayerID:  player.ID,
		Direction: models.DirectionOutbound,
		Type:      models.MessageTypeConfirmation,
		Body:      confirmMessage,
		Status:    status,
		TwilioSid: result.Sid,
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := s.Store.AppendMessageLog(ctx, outbound); err != nil {
		log.Printf("❌ Failed to log confirmation for player %s: %v", player.ID, err)
	}

	if s.Broadcast != nil {
		s.Broadcast.PollUpdated(open.Event.TeamID, map[string]string{
			"eventId":  open.Event.ID,
			"pollId":   open.Poll.ID,
			"playerId": player.ID,
			"response": response,
		})
	}

	log.Printf("📩 Recorded %s from %s for event %s", response, player.Name, open.Event.ID)
	return confirmMessage
}
