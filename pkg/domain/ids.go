package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "bloomit/pkg/domain-errors"
)

// Typed identifiers keep user and task IDs from being swapped at call sites.
// The zero value is the nil UUID and is never a valid identifier.
type (
	UserID uuid.UUID
	TaskID uuid.UUID
)

const maxIDLength = 64

func parseUUID(kind, s string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	if len(s) > maxIDLength {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is invalid")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is invalid")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is invalid")
	}
	return parsed, nil
}

// ParseUserID validates s and returns it as a UserID.
func ParseUserID(s string) (UserID, error) {
	parsed, err := parseUUID("user id", s)
	if err != nil {
		return UserID{}, err
	}
	return UserID(parsed), nil
}

// ParseTaskID validates s and returns it as a TaskID.
func ParseTaskID(s string) (TaskID, error) {
	parsed, err := parseUUID("task id", s)
	if err != nil {
		return TaskID{}, err
	}
	return TaskID(parsed), nil
}

func NewUserID() UserID { return UserID(uuid.New()) }
func NewTaskID() TaskID { return TaskID(uuid.New()) }

func (id UserID) String() string { return uuid.UUID(id).String() }
func (id UserID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id TaskID) String() string { return uuid.UUID(id).String() }
func (id TaskID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// MarshalText lets typed IDs appear as plain UUID strings in JSON.
func (id UserID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *UserID) UnmarshalText(text []byte) error {
	parsed, err := ParseUserID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id TaskID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *TaskID) UnmarshalText(text []byte) error {
	parsed, err := ParseTaskID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
