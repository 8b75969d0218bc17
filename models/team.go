package models

// Team represents a squad whose players receive availability polls
type Team struct {
	ID        string `dynamodbav:"id" json:"id"`
	Name      string `dynamodbav:"name" json:"name"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// TeamsTable is the DynamoDB table name for teams
const TeamsTable = "Teams"
