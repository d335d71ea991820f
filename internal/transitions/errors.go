package transitions

import "errors"

var (
	ErrIllegalTransition  = errors.New("Illegal status transition")
	ErrMissingMetadata    = errors.New("Missing required transition metadata")
	ErrUnknownReason      = errors.New("Unknown reason code")
	ErrPreconditionFailed = errors.New("Asset was changed by another operation, reload and retry")
	ErrAssetNotFound      = errors.New("Asset not found")
	ErrUserNotFound       = errors.New("Assignee user not found")
)
