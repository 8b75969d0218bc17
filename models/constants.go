package models

// ✅ Event Types
const (
	EventTypeMatch    = "MATCH"
	EventTypeTraining = "TRAINING"
)

// ✅ Player Roles
const (
	RoleBatsman      = "BATSMAN"
	RoleBowler       = "BOWLER"
	RoleAllRounder   = "ALL_ROUNDER"
	RoleWicketKeeper = "WICKET_KEEPER"
)

// ✅ Poll Response Kinds
const (
	ResponseAvailable    = "AVAILABLE"
	ResponseNotAvailable = "NOT_AVAILABLE"
	ResponseMaybe        = "MAYBE"
)

// ✅ Readiness Levels
const (
	ReadinessReady    = "READY"
	ReadinessAtRisk   = "AT_RISK"
	ReadinessNotReady = "NOT_READY"
)

// ✅ Message Directions
const (
	DirectionInbound  = "INBOUND"
	DirectionOutbound = "OUTBOUND"
)

// ✅ Message Types
const (
	MessageTypePoll         = "POLL"
	MessageTypeReminder     = "REMINDER"
	MessageTypeConfirmation = "CONFIRMATION"
)

// ✅ Delivery Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusReceived = "received"
)

// ValidRoles lists the accepted player roles for validation and CSV import
var ValidRoles = []string{RoleBatsman, RoleBowler, RoleAllRounder, RoleWicketKeeper}
