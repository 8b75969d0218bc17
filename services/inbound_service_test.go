package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"squadpoll_server/models"
)

func seedOpenPoll(store *fakeStore, teamID, eventID, pollID string, eventIn time.Duration) {
	now := time.Now().UTC()
	store.events[eventID] = models.Event{
		ID:              eventID,
		TeamID:          teamID,
		Type:            models.EventTypeMatch,
		Opponent:        "Rovers",
		Venue:           "Oval",
		DateTime:        now.Add(eventIn).Format(time.RFC3339),
		RequiredPlayers: 11,
		CreatedAt:       now.Format(time.RFC3339Nano),
	}
	store.polls[eventID] = models.Poll{
		ID:            pollID,
		EventID:       eventID,
		PollsSent:     true,
		ReminderHours: []int{24, 4},
		CreatedAt:     now.Format(time.RFC3339Nano),
	}
}

func seedPlayer(store *fakeStore, id, teamID, name, whatsapp string, active bool) {
	store.players[id] = models.Player{
		ID:       id,
		TeamID:   teamID,
		Name:     name,
		WhatsApp: whatsapp,
		Role:     models.RoleBatsman,
		Active:   active,
	}
}

func TestProcessInboundUnknownNumber(t *testing.T) {
	store := newFakeStore()
	svc := &InboundService{Store: store, Messenger: &fakeMessenger{}}

	reply := svc.ProcessInboundResponse(context.Background(), "whatsapp:+10000000000", "1")
	if reply != ReplyNotRegistered {
		t.Errorf("reply = %q, want not-registered text", reply)
	}
	if len(store.logs) != 0 {
		t.Errorf("expected no logs, got %d", len(store.logs))
	}
}

func TestProcessInboundInactivePlayerIsUnknown(t *testing.T) {
	store := newFakeStore()
	seedPlayer(store, "p1", "team1", "Asha", "+1111", false)
	seedOpenPoll(store, "team1", "e1", "poll1", 12*time.Hour)
	svc := &InboundService{Store: store, Messenger: &fakeMessenger{}}

	reply := svc.ProcessInboundResponse(context.Background(), "+1111", "1")
	if reply != ReplyNotRegistered {
		t.Errorf("reply = %q, want not-registered text", reply)
	}
}

func TestProcessInboundNoActivePoll(t *testing.T) {
	store := newFakeStore()
	seedPlayer(store, "p1", "team1", "Asha", "+1111", true)
	svc := &InboundService{Store: store, Messenger: &fakeMessenger{}}

	reply := svc.ProcessInboundResponse(context.Background(), "+1111", "1")
	if reply != ReplyNoActivePoll {
		t.Errorf("reply = %q, want no-active-poll text", reply)
	}
}

func TestProcessInboundPastEventPollIsClosed(t *testing.T) {
	store := newFakeStore()
	seedPlayer(store, "p1", "team1", "Asha", "+1111", true)
	seedOpenPoll(store, "team1", "e1", "poll1", -2*time.Hour)
	svc := &InboundService{Store: store, Messenger: &fakeMessenger{}}

	reply := svc.ProcessInboundResponse(context.Background(), "+1111", "1")
	if reply != ReplyNoActivePoll {
		t.Errorf("reply = %q, want no-active-poll text", reply)
	}
}

func TestProcessInboundPastEventWithOffsetTimestampIsClosed(t *testing.T) {
	store := newFakeStore()
	seedPlayer(store, "p1", "team1", "Asha", "+1111", true)
	seedOpenPoll(store, "team1", "e1", "poll1", 12*time.Hour)

	// An hour in the past, written with a +05:00 offset. The local-time
	// string sorts after a UTC now-string even though the event is over.
	event := store.events["e1"]
	event.DateTime = time.Now().Add(-1 * time.Hour).In(time.FixedZone("IST", 5*3600)).Format(time.RFC3339)
	store.events["e1"] = event

	svc := &InboundService{Store: store, Messenger: &fakeMessenger{}}
	reply := svc.ProcessInboundResponse(context.Background(), "+1111", "1")

	if reply != ReplyNoActivePoll {
		t.Errorf("reply = %q, want no-active-poll text", reply)
	}
	if len(store.responses) != 0 {
		t.Errorf("past event accepted a response: %v", store.responses)
	}
}

func TestProcessInboundUpcomingEventWithOffsetTimestampIsOpen(t *testing.T) {
	store := newFakeStore()
	seedPlayer(store, "p1", "team1", "Asha", "+1111", true)
	seedOpenPoll(store, "team1", "e1", "poll1", 12*time.Hour)

	// An hour ahead, written with a -04:00 offset. The local-time string
	// sorts before a UTC now-string even though the event is upcoming.
	event := store.events["e1"]
	event.DateTime = time.Now().Add(1 * time.Hour).In(time.FixedZone("EDT", -4*3600)).Format(time.RFC3339)
	store.events["e1"] = event

	svc := &InboundService{Store: store, Messenger: &fakeMessenger{}}
	svc.ProcessInboundResponse(context.Background(), "+1111", "1")

	if _, ok := store.responses["poll1|p1"]; !ok {
		t.Fatal("upcoming event's poll should accept the response")
	}
}

func TestProcessInboundUnrecognizedMutatesNothing(t *testing.T) {
	store := newFakeStore()
	seedPlayer(store, "p1", "team1", "Asha", "+1111", true)
	seedOpenPoll(store, "team1", "e1", "poll1", 12*time.Hour)
	messenger := &fakeMessenger{}
	svc := &InboundService{Store: store, Messenger: messenger}

	reply := svc.ProcessInboundResponse(context.Background(), "+1111", "7")
	if reply != ReplyInvalid {
		t.Errorf("reply = %q, want instruction text", reply)
	}
	if len(store.responses) != 0 {
		t.Errorf("expected no responses, got %d", len(store.responses))
	}
	if len(store.logs) != 0 {
		t.Errorf("expected no logs, got %d", len(store.logs))
	}
	if len(messenger.sends()) != 0 {
		t.Errorf("expected no sends, got %d", len(messenger.sends()))
	}
}

func TestProcessInboundHappyPath(t *testing.T) {
	store := newFakeStore()
	seedPlayer(store, "p1", "team1", "Asha", "+1111", true)
	seedOpenPoll(store, "team1", "e1", "poll1", 12*time.Hour)
	messenger := &fakeMessenger{}
	svc := &InboundService{Store: store, Messenger: messenger}

	reply := svc.ProcessInboundResponse(context.Background(), "whatsapp:+1111", "YES")

	resp, ok := store.responses["poll1|p1"]
	if !ok {
		t.Fatal("expected a stored response for (poll1, p1)")
	}
	if resp.Response != models.ResponseAvailable {
		t.Errorf("stored response = %s, want AVAILABLE", resp.Response)
	}
	if !strings.Contains(reply, "Asha") || !strings.Contains(reply, "Available") {
		t.Errorf("reply %q should contain player name and response label", reply)
	}

	// One inbound log, one outbound confirmation log
	if got := len(store.logsOfType(models.MessageTypePoll)); got != 1 {
		t.Errorf("inbound poll logs = %d, want 1", got)
	}
	confirmations := store.logsOfType(models.MessageTypeConfirmation)
	if len(confirmations) != 1 {
		t.Fatalf("confirmation logs = %d, want 1", len(confirmations))
	}
	if confirmations[0].Status != models.StatusSent {
		t.Errorf("confirmation status = %s, want sent", confirmations[0].Status)
	}
	if len(messenger.sends()) != 1 {
		t.Errorf("sends = %d, want 1 confirmation", len(messenger.sends()))
	}
}

func TestProcessInboundOverwritesPriorResponse(t *testing.T) {
	store := newFakeStore()
	seedPlayer(store, "p1", "team1", "Asha", "+1111", true)
	seedOpenPoll(store, "team1", "e1", "poll1", 12*time.Hour)
	svc := &InboundService{Store: store, Messenger: &fakeMessenger{}}

	svc.ProcessInboundResponse(context.Background(), "+1111", "1")
	svc.ProcessInboundResponse(context.Background(), "+1111", "2")

	if len(store.responses) != 1 {
		t.Fatalf("responses = %d, want exactly 1 (overwrite, not append)", len(store.responses))
	}
	if got := store.responses["poll1|p1"].Response; got != models.ResponseNotAvailable {
		t.Errorf("final response = %s, want NOT_AVAILABLE", got)
	}
}

func TestProcessInboundConcurrentSamePlayer(t *testing.T) {
	store := newFakeStore()
	seedPlayer(store, "p1", "team1", "Asha", "+1111", true)
	seedOpenPoll(store, "team1", "e1", "poll1", 12*time.Hour)
	svc := &InboundService{Store: store, Messenger: &fakeMessenger{}}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.ProcessInboundResponse(context.Background(), "+1111", "3")
		}()
	}
	wg.Wait()

	if len(store.responses) != 1 {
		t.Fatalf("responses = %d, want 1", len(store.responses))
	}
	if got := store.responses["poll1|p1"].Response; got != models.ResponseMaybe {
		t.Errorf("final response = %s, want MAYBE", got)
	}
}

func TestInboundLockMapDrainsAfterProcessing(t *testing.T) {
	store := newFakeStore()
	seedPlayer(store, "p1", "team1", "Asha", "+1111", true)
	seedPlayer(store, "p2", "team1", "Ben", "+2222", true)
	seedOpenPoll(store, "team1", "e1", "poll1", 12*time.Hour)
	svc := &InboundService{Store: store, Messenger: &fakeMessenger{}}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		from := "+1111"
		if i%2 == 1 {
			from = "+2222"
		}
		wg.Add(1)
		go func(from string) {
			defer wg.Done()
			svc.ProcessInboundResponse(context.Background(), from, "1")
		}(from)
	}
	wg.Wait()

	svc.mu.Lock()
	remaining := len(svc.locks)
	svc.mu.Unlock()
	if remaining != 0 {
		t.Errorf("lock map holds %d entries after all messages drained, want 0", remaining)
	}
}

func TestProcessInboundPicksMostRecentOpenPoll(t *testing.T) {
	store := newFakeStore()
	seedPlayer(store, "p1", "team1", "Asha", "+1111", true)
	now := time.Now().UTC()

	older := models.Event{
		ID: "e1", TeamID: "team1", Type: models.EventTypeTraining, Venue: "Nets",
		DateTime:  now.Add(48 * time.Hour).Format(time.RFC3339),
		CreatedAt: now.Add(-2 * time.Hour).Format(time.RFC3339Nano),
	}
	newer := models.Event{
		ID: "e2", TeamID: "team1", Type: models.EventTypeTraining, Venue: "Nets",
		DateTime:  now.Add(24 * time.Hour).Format(time.RFC3339),
		CreatedAt: now.Add(-1 * time.Hour).Format(time.RFC3339Nano),
	}
	store.events["e1"] = older
	store.events["e2"] = newer
	store.polls["e1"] = models.Poll{ID: "poll1", EventID: "e1", PollsSent: true, CreatedAt: older.CreatedAt}
	store.polls["e2"] = models.Poll{ID: "poll2", EventID: "e2", PollsSent: true, CreatedAt: newer.CreatedAt}

	svc := &InboundService{Store: store, Messenger: &fakeMessenger{}}
	svc.ProcessInboundResponse(context.Background(), "+1111", "1")

	if _, ok := store.responses["poll2|p1"]; !ok {
		t.Fatal("response should land on the most recently created event's poll")
	}
	if _, ok := store.responses["poll1|p1"]; ok {
		t.Fatal("older poll must not receive the response")
	}
}

func TestSelectOpenPollTieBreaksOnPollCreation(t *testing.T) {
	created := "2026-06-01T10:00:00Z"
	candidates := []PollWithEvent{
		{
			Poll:  models.Poll{ID: "pollA", CreatedAt: "2026-06-01T10:00:01Z"},
			Event: models.Event{ID: "e1", CreatedAt: created},
		},
		{
			Poll:  models.Poll{ID: "pollB", CreatedAt: "2026-06-01T10:00:02Z"},
			Event: models.Event{ID: "e2", CreatedAt: created},
		},
	}

	got := SelectOpenPoll(candidates)
	if got == nil || got.Poll.ID != "pollB" {
		t.Fatalf("selected poll = %+v, want pollB (latest poll creation wins ties)", got)
	}

	if SelectOpenPoll(nil) != nil {
		t.Error("no candidates should select nil")
	}
}
