package ledger

import "errors"

var (
	ErrAlreadyAssigned    = errors.New("Asset already has an active assignment")
	ErrAssignmentNotFound = errors.New("Assignment not found or already closed")
)
