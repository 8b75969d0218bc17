package models

import "time"

// Event is one scheduled activity (match or training) owned by a team
type Event struct {
	ID              string `dynamodbav:"id" json:"id"`
	TeamID          string `dynamodbav:"teamId" json:"teamId"`
	Type            string `dynamodbav:"type" json:"type"`
	Opponent        string `dynamodbav:"opponent,omitempty" json:"opponent,omitempty"`
	Venue           string `dynamodbav:"venue" json:"venue"`
	DateTime        string `dynamodbav:"dateTime" json:"dateTime"`
	RequiredPlayers int    `dynamodbav:"requiredPlayers" json:"requiredPlayers"`
	CreatedAt       string `dynamodbav:"createdAt" json:"createdAt"`
}

// StartTime parses the stored RFC3339 timestamp. Returns the zero time if
// the stored value is malformed.
func (e *Event) StartTime() time.Time {
	t, err := time.Parse(time.RFC3339, e.DateTime)
	if err != nil {
		return time.Time{}
	}
	return t
}

// EventsTable is the DynamoDB table name for events
const EventsTable = "Events"
