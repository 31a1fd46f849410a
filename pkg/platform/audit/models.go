package audit

import (
	"context"
	"time"

	id "bloomit/pkg/domain"
)

// EventCategory decides how long an event matters: account changes are kept,
// abuse signals are watched, routine sign-ins may be sampled.
type EventCategory string

const (
	CategoryCompliance EventCategory = "compliance"
	CategorySecurity   EventCategory = "security"
	CategoryOperations EventCategory = "operations"
)

// Event records one account or volunteering action with the request that
// caused it.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	UserID    id.UserID
	Email     string
	Action    string
	Reason    string
	RequestID string
	ClientIP  string
	Device    string
}

type AuditEvent string

const (
	EventUserRegistered         AuditEvent = "user_registered"
	EventLoginSucceeded         AuditEvent = "login_succeeded"
	EventLoginFailed            AuditEvent = "login_failed"
	EventLogout                 AuditEvent = "logout"
	EventPasswordResetRequested AuditEvent = "password_reset_requested"
	EventPasswordResetCompleted AuditEvent = "password_reset_completed"
	EventVolunteerJoined        AuditEvent = "volunteer_joined"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventUserRegistered:         CategoryCompliance,
	EventPasswordResetCompleted: CategoryCompliance,

	EventLoginFailed:            CategorySecurity,
	EventPasswordResetRequested: CategorySecurity,

	EventLoginSucceeded:  CategoryOperations,
	EventLogout:          CategoryOperations,
	EventVolunteerJoined: CategoryOperations,
}

// Category looks up e's bucket; actions added later land in operations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store is where the publisher writes events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID id.UserID) ([]Event, error)
}
