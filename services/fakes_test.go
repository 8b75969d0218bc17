package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"squadpoll_server/models"
)

// fakeStore is an in-memory Store for engine tests
type fakeStore struct {
	mu sync.Mutex

	teams     []models.Team
	users     map[string]models.User
	players   map[string]models.Player
	events    map[string]models.Event
	polls     map[string]models.Poll        // keyed by eventId
	responses map[string]models.PollResponse // keyed by pollId|playerId
	logs      []models.MessageLog

	failAdvance bool // simulate losing the reminder counter race
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     map[string]models.User{},
		players:   map[string]models.Player{},
		events:    map[string]models.Event{},
		polls:     map[string]models.Poll{},
		responses: map[string]models.PollResponse{},
	}
}

func (f *fakeStore) CreateTeam(ctx context.Context, team models.Team) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.teams = append(f.teams, team)
	return nil
}

func (f *fakeStore) CreateUser(ctx context.Context, user models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.Email] = user
	return nil
}

func (f *fakeStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[email]; ok {
		return &user, nil
	}
	return nil, nil
}

func (f *fakeStore) CreatePlayer(ctx context.Context, player models.Player) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.players[player.ID] = player
	return nil
}

func (f *fakeStore) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	player, ok := f.players[id]
	if !ok {
		return nil, errNotFound
	}
	return &player, nil
}

func (f *fakeStore) UpdatePlayer(ctx context.Context, player models.Player) error {
	return f.CreatePlayer(ctx, player)
}

func (f *fakeStore) ListActivePlayers(ctx context.Context, teamID string) ([]models.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Player
	for _, p := range f.players {
		if p.TeamID == teamID && p.Active {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) FindActivePlayerByWhatsApp(ctx context.Context, number string) (*models.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.players {
		if p.WhatsApp == number && p.Active {
			player := p
			return &player, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateEvent(ctx context.Context, event models.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events[event.ID] = event
	return nil
}

func (f *fakeStore) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[id]
	if !ok {
		return nil, errNotFound
	}
	return &event, nil
}

func (f *fakeStore) ListTeamEvents(ctx context.Context, teamID string) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Event
	for _, e := range f.events {
		if e.TeamID == teamID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateTime < out[j].DateTime })
	return out, nil
}

func (f *fakeStore) UpdateEvent(ctx context.Context, event models.Event) error {
	return f.CreateEvent(ctx, event)
}

func (f *fakeStore) DeleteEvent(ctx context.Context, teamID, eventID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[eventID]
	if !ok || event.TeamID != teamID {
		return false, nil
	}
	delete(f.events, eventID)
	delete(f.polls, eventID)
	return true, nil
}

func (f *fakeStore) CreatePoll(ctx context.Context, poll models.Poll) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls[poll.EventID] = poll
	return nil
}

func (f *fakeStore) GetPollByEvent(ctx context.Context, eventID string) (*models.Poll, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	poll, ok := f.polls[eventID]
	if !ok {
		return nil, nil
	}
	return &poll, nil
}

func (f *fakeStore) MarkPollSent(ctx context.Context, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	poll := f.polls[eventID]
	poll.PollsSent = true
	f.polls[eventID] = poll
	return nil
}

func (f *fakeStore) AdvanceReminderCounter(ctx context.Context, eventID string, expected, next int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAdvance {
		return false, nil
	}
	poll, ok := f.polls[eventID]
	if !ok || poll.RemindersSent != expected {
		return false, nil
	}
	poll.RemindersSent = next
	f.polls[eventID] = poll
	return true, nil
}

func (f *fakeStore) FindActivePollForTeam(ctx context.Context, teamID string, now time.Time) (*PollWithEvent, error) {
	candidates, err := f.openPolls(&teamID, now)
	if err != nil {
		return nil, err
	}
	return SelectOpenPoll(candidates), nil
}

func (f *fakeStore) ListReminderEligiblePolls(ctx context.Context, now time.Time) ([]PollWithEvent, error) {
	return f.openPolls(nil, now)
}

func (f *fakeStore) openPolls(teamID *string, now time.Time) ([]PollWithEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []PollWithEvent
	for _, e := range f.events {
		if teamID != nil && e.TeamID != *teamID {
			continue
		}
		start, err := time.Parse(time.RFC3339, e.DateTime)
		if err != nil || !start.After(now) {
			continue
		}
		poll, ok := f.polls[e.ID]
		if !ok || !poll.PollsSent {
			continue
		}
		out = append(out, PollWithEvent{Poll: poll, Event: e})
	}
	return out, nil
}

func (f *fakeStore) UpsertResponse(ctx context.Context, response models.PollResponse) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[response.PollID+"|"+response.PlayerID] = response
	return nil
}

func (f *fakeStore) ListResponses(ctx context.Context, pollID string) ([]models.PollResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.PollResponse
	for _, r := range f.responses {
		if r.PollID == pollID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) AppendMessageLog(ctx context.Context, entry models.MessageLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, entry)
	return nil
}

func (f *fakeStore) logsOfType(messageType string) []models.MessageLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.MessageLog
	for _, l := range f.logs {
		if l.Type == messageType {
			out = append(out, l)
		}
	}
	return out
}

var errNotFound = errNotFoundType{}

type errNotFoundType struct{}

func (errNotFoundType) Error() string { return "item not found" }

// fakeMessenger records sends and can fail specific recipients
type fakeMessenger struct {
	mu      sync.Mutex
	sent    []fakeSend
	failFor map[string]bool
}

type fakeSend struct {
	To   string
	Body string
}

func (m *fakeMessenger) Send(ctx context.Context, to, body string) SendResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, fakeSend{To: to, Body: body})
	if m.failFor[to] {
		return SendResult{Success: false, Error: "send failed"}
	}
	return SendResult{Success: true, Sid: "SM123"}
}

func (m *fakeMessenger) sends() []fakeSend {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]fakeSend, len(m.sent))
	copy(out, m.sent)
	return out
}
