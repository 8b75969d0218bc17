package models

// User is a coach/manager account that administers one team
type User struct {
	Email        string `dynamodbav:"email" json:"email"`
	PasswordHash string `dynamodbav:"passwordHash" json:"-"`
	Name         string `dynamodbav:"name" json:"name"`
	UserID       string `dynamodbav:"userId" json:"id"`
	TeamID       string `dynamodbav:"teamId" json:"teamId"`
	CreatedAt    string `dynamodbav:"createdAt" json:"createdAt"`
}

// UsersTable is the DynamoDB table name for user accounts
const UsersTable = "Users"
