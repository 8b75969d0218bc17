package models

// PollResponse records one player's answer to one poll. The (pollId,
// playerId) composite key makes a repeat answer overwrite the previous one.
type PollResponse struct {
	PollID    string `dynamodbav:"pollId" json:"pollId"`
	PlayerID  string `dynamodbav:"playerId" json:"playerId"`
	Response  string `dynamodbav:"response" json:"response"`
	UpdatedAt string `dynamodbav:"updatedAt" json:"updatedAt"`
}

// PollResponsesTable is the DynamoDB table name for poll responses
const PollResponsesTable = "PollResponses"
