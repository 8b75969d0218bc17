package models

// MessageLog is an append-only audit row for every WhatsApp exchange tied
// to a poll. Rows are never mutated and never read back by the engine.
type MessageLog struct {
	PollID    string `dynamodbav:"pollId" json:"pollId"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
	ID        string `dynamodbav:"id" json:"id"`
	PlayerID  string `dynamodbav:"playerId" json:"playerId"`
	Direction string `dynamodbav:"direction" json:"direction"`
	Type      string `dynamodbav:"type" json:"type"`
	Body      string `dynamodbav:"body" json:"body"`
	Status    string `dynamodbav:"status" json:"status"`
	TwilioSid string `dynamodbav:"twilioSid,omitempty" json:"twilioSid,omitempty"`
}

// MessageLogsTable is the DynamoDB table name for the message audit log
const MessageLogsTable = "MessageLogs"
