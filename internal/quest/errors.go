package quest

import "fmt"

// Code identifies a class of quest failure.
type Code string

// Error codes for the quest engine.
const (
	CodeDefinitionNotFound  Code = "DEFINITION_NOT_FOUND"
	CodeAlreadyActive       Code = "ALREADY_ACTIVE"
	CodeAlreadyCompleted    Code = "ALREADY_COMPLETED"
	CodeNotActive           Code = "NOT_ACTIVE"
	CodeNotReady            Code = "NOT_READY"
	CodeGrantFailed         Code = "GRANT_FAILED"
	CodeItemPlacementFailed Code = "ITEM_PLACEMENT_FAILED"
)

// Sentinels for errors.Is. They match any Error with the same Code.
var (
	ErrDefinitionNotFound  = &Error{Code: CodeDefinitionNotFound}
	ErrAlreadyActive       = &Error{Code: CodeAlreadyActive}
	ErrAlreadyCompleted    = &Error{Code: CodeAlreadyCompleted}
	ErrNotActive           = &Error{Code: CodeNotActive}
	ErrNotReady            = &Error{Code: CodeNotReady}
	ErrGrantFailed         = &Error{Code: CodeGrantFailed}
	ErrItemPlacementFailed = &Error{Code: CodeItemPlacementFailed}
)

// Error is a quest engine failure. Message is suitable for showing to the player.
type Error struct {
	Code    Code
	QuestID string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Code so callers can compare against the sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDefinitionNotFound returns an error for a quest ID missing from the catalog.
func NewDefinitionNotFound(questID string) *Error {
	return &Error{
		Code:    CodeDefinitionNotFound,
		QuestID: questID,
		Message: fmt.Sprintf("no quest named '%s' exists", questID),
	}
}

// NewAlreadyActive returns an error when accepting a quest that is in progress.
func NewAlreadyActive(questID string) *Error {
	return &Error{
		Code:    CodeAlreadyActive,
		QuestID: questID,
		Message: fmt.Sprintf("quest '%s' is already in your journal", questID),
	}
}

// NewAlreadyCompleted returns an error when accepting a finished, non-repeatable quest.
func NewAlreadyCompleted(questID string) *Error {
	return &Error{
		Code:    CodeAlreadyCompleted,
		QuestID: questID,
		Message: fmt.Sprintf("quest '%s' has already been completed and cannot be repeated", questID),
	}
}

// NewNotActive returns an error when turning in a quest that is not in progress.
func NewNotActive(questID string) *Error {
	return &Error{
		Code:    CodeNotActive,
		QuestID: questID,
		Message: fmt.Sprintf("quest '%s' is not active", questID),
	}
}

// NewNotReady returns an error when turning in a quest with unfinished objectives.
func NewNotReady(questID string) *Error {
	return &Error{
		Code:    CodeNotReady,
		QuestID: questID,
		Message: fmt.Sprintf("quest '%s' still has unfinished objectives", questID),
	}
}

// NewGrantFailed wraps a collaborator failure while granting a reward.
func NewGrantFailed(questID, reward string, err error) *Error {
	return &Error{
		Code:    CodeGrantFailed,
		QuestID: questID,
		Message: fmt.Sprintf("could not grant %s", reward),
		Err:     err,
	}
}

// NewItemPlacementFailed reports an item unit that fit neither the inventory nor the world.
func NewItemPlacementFailed(questID, itemID string) *Error {
	return &Error{
		Code:    CodeItemPlacementFailed,
		QuestID: questID,
		Message: fmt.Sprintf("no room for %s in your pack or on the ground", itemID),
	}
}
