package services

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"squadpoll_server/models"
	"squadpoll_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// PollWithEvent pairs a poll with its owning event
type PollWithEvent struct {
	Poll  models.Poll
	Event models.Event
}

// Store is the persistence contract the poll engine and the HTTP layer
// depend on. Find* methods and GetPollByEvent return (nil, nil) when
// nothing matches; other errors always mean the lookup itself failed.
type Store interface {
	CreateTeam(ctx context.Context, team models.Team) error
	CreateUser(ctx context.Context, user models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	CreatePlayer(ctx context.Context, player models.Player) error
	GetPlayer(ctx context.Context, id string) (*models.Player, error)
	UpdatePlayer(ctx context.Context, player models.Player) error
	ListActivePlayers(ctx context.Context, teamID string) ([]models.Player, error)
	FindActivePlayerByWhatsApp(ctx context.Context, number string) (*models.Player, error)

	CreateEvent(ctx context.Context, event models.Event) error
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	ListTeamEvents(ctx context.Context, teamID string) ([]models.Event, error)
	UpdateEvent(ctx context.Context, event models.Event) error
	DeleteEvent(ctx context.Context, teamID, eventID string) (bool, error)

	CreatePoll(ctx context.Context, poll models.Poll) error
	GetPollByEvent(ctx context.Context, eventID string) (*models.Poll, error)
	MarkPollSent(ctx context.Context, eventID string) error
	AdvanceReminderCounter(ctx context.Context, eventID string, expected, next int) (bool, error)
	FindActivePollForTeam(ctx context.Context, teamID string, now time.Time) (*PollWithEvent, error)
	ListReminderEligiblePolls(ctx context.Context, now time.Time) ([]PollWithEvent, error)

	UpsertResponse(ctx context.Context, response models.PollResponse) error
	ListResponses(ctx context.Context, pollID string) ([]models.PollResponse, error)
	AppendMessageLog(ctx context.Context, entry models.MessageLog) error
}

// SelectOpenPoll picks the current open poll among dispatched polls whose
// events are still upcoming: most recently created event wins, most
// recently created poll breaks ties. RFC3339 timestamps compare
// lexicographically so plain string comparison is enough.
func SelectOpenPoll(candidates []PollWithEvent) *PollWithEvent {
	if len(candidates) == 0 {
		return nil
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Event.CreatedAt > best.Event.CreatedAt ||
			(c.Event.CreatedAt == best.Event.CreatedAt && c.Poll.CreatedAt > best.Poll.CreatedAt) {
			best = c
		}
	}
	return &best
}

// DynamoStore implements Store on top of DynamoDB
type DynamoStore struct {
	Dynamo *DynamoService
}

func (s *DynamoStore) CreateTeam(ctx context.Context, team models.Team) error {
	return s.Dynamo.PutItem(ctx, models.TeamsTable, team)
}

func (s *DynamoStore) CreateUser(ctx context.Context, user models.User) error {
	return s.Dynamo.PutItem(ctx, models.UsersTable, user)
}

func (s *DynamoStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	key := map[string]types.AttributeValue{
		"email": &types.AttributeValueMemberS{Value: email},
	}
	item, err := s.Dynamo.GetItem(ctx, models.UsersTable, key)
	if errors.Is(err, ErrItemNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := attributevalue.UnmarshalMap(item, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *DynamoStore) CreatePlayer(ctx context.Context, player models.Player) error {
	return s.Dynamo.PutItem(ctx, models.PlayersTable, player)
}

func (s *DynamoStore) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	key := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
	item, err := s.Dynamo.GetItem(ctx, models.PlayersTable, key)
	if err != nil {
		return nil, err
	}
	var player models.Player
	if err := attributevalue.UnmarshalMap(item, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *DynamoStore) UpdatePlayer(ctx context.Context, player models.Player) error {
	return s.Dynamo.PutItem(ctx, models.PlayersTable, player)
}

func (s *DynamoStore) ListActivePlayers(ctx context.Context, teamID string) ([]models.Player, error) {
	var players []models.Player
	err := s.Dynamo.ScanWithFilter(ctx, models.PlayersTable,
		"teamId = :teamId AND active = :active",
		map[string]types.AttributeValue{
			":teamId": &types.AttributeValueMemberS{Value: teamID},
			":active": &types.AttributeValueMemberBOOL{Value: true},
		},
		nil, nil, &players)
	if err != nil {
		return nil, err
	}
	sort.Slice(players, func(i, j int) bool { return players[i].Name < players[j].Name })
	return players, nil
}

func (s *DynamoStore) FindActivePlayerByWhatsApp(ctx context.Context, number string) (*models.Player, error) {
	var players []models.Player
	err := s.Dynamo.ScanWithFilter(ctx, models.PlayersTable,
		"whatsapp = :whatsapp AND active = :active",
		map[string]types.AttributeValue{
			":whatsapp": &types.AttributeValueMemberS{Value: number},
			":active":   &types.AttributeValueMemberBOOL{Value: true},
		},
		nil, nil, &players)
	if err != nil {
		return nil, err
	}
	if len(players) == 0 {
		return nil, nil
	}
	return &players[0], nil
}

func (s *DynamoStore) CreateEvent(ctx context.Context, event models.Event) error {
	return s.Dynamo.PutItem(ctx, models.EventsTable, event)
}

func (s *DynamoStore) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	key := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
	item, err := s.Dynamo.GetItem(ctx, models.EventsTable, key)
	if err != nil {
		return nil, err
	}
	var event models.Event
	if err := attributevalue.UnmarshalMap(item, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *DynamoStore) ListTeamEvents(ctx context.Context, teamID string) ([]models.Event, error) {
	var events []models.Event
	err := s.Dynamo.ScanWithFilter(ctx, models.EventsTable,
		"teamId = :teamId",
		map[string]types.AttributeValue{
			":teamId": &types.AttributeValueMemberS{Value: teamID},
		},
		nil, nil, &events)
	if err != nil {
		return nil, err
	}
	sort.Slice(events, func(i, j int) bool { return events[i].DateTime < events[j].DateTime })
	return events, nil
}

func (s *DynamoStore) UpdateEvent(ctx context.Context, event models.Event) error {
	return s.Dynamo.PutItem(ctx, models.EventsTable, event)
}

// DeleteEvent removes an event with its poll, responses and message logs.
// Returns false when the event does not exist or belongs to another team.
func (s *DynamoStore) DeleteEvent(ctx context.Context, teamID, eventID string) (bool, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil || event.TeamID != teamID {
		return false, nil
	}

	poll, err := s.GetPollByEvent(ctx, eventID)
	if err == nil && poll != nil {
		responses, _ := s.ListResponses(ctx, poll.ID)
		for _, r := range responses {
			key := map[string]types.AttributeValue{
				"pollId":   &types.AttributeValueMemberS{Value: r.PollID},
				"playerId": &types.AttributeValueMemberS{Value: r.PlayerID},
			}
			_ = s.Dynamo.DeleteItem(ctx, models.PollResponsesTable, key)
		}

		logItems, _ := s.Dynamo.QueryItems(ctx, models.MessageLogsTable,
			"pollId = :pollId",
			map[string]types.AttributeValue{
				":pollId": &types.AttributeValueMemberS{Value: poll.ID},
			}, nil, 0)
		for _, item := range logItems {
			key := map[string]types.AttributeValue{
				"pollId":    item["pollId"],
				"createdAt": item["createdAt"],
			}
			_ = s.Dynamo.DeleteItem(ctx, models.MessageLogsTable, key)
		}

		pollKey := map[string]types.AttributeValue{
			"eventId": &types.AttributeValueMemberS{Value: eventID},
		}
		_ = s.Dynamo.DeleteItem(ctx, models.PollsTable, pollKey)
	}

	eventKey := map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: eventID},
	}
	if err := s.Dynamo.DeleteItem(ctx, models.EventsTable, eventKey); err != nil {
		return false, err
	}
	return true, nil
}

func (s *DynamoStore) CreatePoll(ctx context.Context, poll models.Poll) error {
	return s.Dynamo.PutItem(ctx, models.PollsTable, poll)
}

func (s *DynamoStore) GetPollByEvent(ctx context.Context, eventID string) (*models.Poll, error) {
	key := map[string]types.AttributeValue{
		"eventId": &types.AttributeValueMemberS{Value: eventID},
	}
	item, err := s.Dynamo.GetItem(ctx, models.PollsTable, key)
	if errors.Is(err, ErrItemNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var poll models.Poll
	if err := attributevalue.UnmarshalMap(item, &poll); err != nil {
		return nil, err
	}
	return &poll, nil
}

// MarkPollSent flips the dispatched flag. Safe to call repeatedly.
func (s *DynamoStore) MarkPollSent(ctx context.Context, eventID string) error {
	key := map[string]types.AttributeValue{
		"eventId": &types.AttributeValueMemberS{Value: eventID},
	}
	_, err := s.Dynamo.UpdateItem(ctx, models.PollsTable,
		"SET pollsSent = :sent", key,
		map[string]types.AttributeValue{
			":sent": &types.AttributeValueMemberBOOL{Value: true},
		}, nil)
	return err
}

// AdvanceReminderCounter moves remindersSent from expected to next as a
// compare-and-set. Returns false when another sweep already advanced it.
func (s *DynamoStore) AdvanceReminderCounter(ctx context.Context, eventID string, expected, next int) (bool, error) {
	key := map[string]types.AttributeValue{
		"eventId": &types.AttributeValueMemberS{Value: eventID},
	}
	err := s.Dynamo.UpdateItemConditional(ctx, models.PollsTable,
		"SET remindersSent = :next",
		"remindersSent = :expected",
		key,
		map[string]types.AttributeValue{
			":next":     &types.AttributeValueMemberN{Value: strconv.Itoa(next)},
			":expected": &types.AttributeValueMemberN{Value: strconv.Itoa(expected)},
		})
	if err == ErrConditionFailed {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *DynamoStore) FindActivePollForTeam(ctx context.Context, teamID string, now time.Time) (*PollWithEvent, error) {
	candidates, err := s.openPolls(ctx, &teamID, now)
	if err != nil {
		return nil, err
	}
	return SelectOpenPoll(candidates), nil
}

func (s *DynamoStore) ListReminderEligiblePolls(ctx context.Context, now time.Time) ([]PollWithEvent, error) {
	return s.openPolls(ctx, nil, now)
}

// openPolls returns dispatched polls for upcoming events, optionally
// restricted to one team.
func (s *DynamoStore) openPolls(ctx context.Context, teamID *string, now time.Time) ([]PollWithEvent, error) {
	filterExpression := ""
	var expressionValues map[string]types.AttributeValue
	if teamID != nil {
		filterExpression = "teamId = :teamId"
		expressionValues = map[string]types.AttributeValue{
			":teamId": &types.AttributeValueMemberS{Value: *teamID},
		}
	}

	var events []models.Event
	err := s.Dynamo.ScanWithFilter(ctx, models.EventsTable,
		filterExpression, expressionValues, nil,
		func(item map[string]types.AttributeValue) bool {
			// dateTime carries whatever RFC3339 offset the client sent, so
			// it has to be parsed; string order only holds within one offset.
			start, err := time.Parse(time.RFC3339, utils.ExtractString(item, "dateTime"))
			return err == nil && start.After(now)
		},
		&events)
	if err != nil {
		return nil, err
	}

	var candidates []PollWithEvent
	for _, event := range events {
		poll, err := s.GetPollByEvent(ctx, event.ID)
		if err != nil || poll == nil || !poll.PollsSent {
			continue
		}
		candidates = append(candidates, PollWithEvent{Poll: *poll, Event: event})
	}
	return candidates, nil
}

func (s *DynamoStore) UpsertResponse(ctx context.Context, response models.PollResponse) error {
	return s.Dynamo.PutItem(ctx, models.PollResponsesTable, response)
}

func (s *DynamoStore) ListResponses(ctx context.Context, pollID string) ([]models.PollResponse, error) {
	items, err := s.Dynamo.QueryItems(ctx, models.PollResponsesTable,
		"pollId = :pollId",
		map[string]types.AttributeValue{
			":pollId": &types.AttributeValueMemberS{Value: pollID},
		}, nil, 0)
	if err != nil {
		return nil, err
	}
	var responses []models.PollResponse
	if err := attributevalue.UnmarshalListOfMaps(items, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

func (s *DynamoStore) AppendMessageLog(ctx context.Context, entry models.MessageLog) error {
	return s.Dynamo.PutItem(ctx, models.MessageLogsTable, entry)
}
