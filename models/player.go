package models

// Player is a roster member reachable over WhatsApp. Only active players
// receive polls and reminders or can submit responses.
type Player struct {
	ID       string `dynamodbav:"id" json:"id"`
	TeamID   string `dynamodbav:"teamId" json:"teamId"`
	Name     string `dynamodbav:"name" json:"name"`
	WhatsApp string `dynamodbav:"whatsapp" json:"whatsapp"`
	Role     string `dynamodbav:"role" json:"role"`
	Location string `dynamodbav:"location,omitempty" json:"location"`
	Active   bool   `dynamodbav:"active" json:"active"`
}

// PlayersTable is the DynamoDB table name for players
const PlayersTable = "Players"
