package models

// Poll is the availability request tied 1:1 to an event. It is created
// together with its event, undispatched, with the reminder counter at zero.
// RemindersSent only ever moves forward and never exceeds len(ReminderHours).
type Poll struct {
	ID            string `dynamodbav:"id" json:"id"`
	EventID       string `dynamodbav:"eventId" json:"eventId"`
	PollsSent     bool   `dynamodbav:"pollsSent" json:"pollsSent"`
	RemindersSent int    `dynamodbav:"remindersSent" json:"remindersSent"`
	ReminderHours []int  `dynamodbav:"reminderHours" json:"reminderHours"`
	CreatedAt     string `dynamodbav:"createdAt" json:"createdAt"`
}

// DefaultReminderHours are the escalation thresholds (hours before the
// event, descending) assigned to a poll at creation.
var DefaultReminderHours = []int{24, 4}

// PollsTable is the DynamoDB table name for polls, keyed by eventId
const PollsTable = "Polls"
