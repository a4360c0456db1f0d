package errors

import (
	stderrors "errors"
	"net/http"
)

// Sync-engine-specific error types
const (
	ErrorTypeCredentialMissing ErrorType = "credential_missing"
	ErrorTypeRefreshFailed     ErrorType = "refresh_failed"
	ErrorTypeRefreshInProgress ErrorType = "refresh_in_progress"
	ErrorTypeRemoteUnauthorized ErrorType = "remote_unauthorized"
	ErrorTypeRemoteForbidden    ErrorType = "remote_forbidden"
	ErrorTypeRemoteTransient    ErrorType = "remote_transient"
	ErrorTypeRemoteNotFound     ErrorType = "remote_not_found"
)

// SyncError represents a failure in the external calendar/task sync engine.
// Reconnect marks states that require explicit user action (re-running the
// OAuth grant); everything else degrades to "will retry on next sync".
type SyncError struct {
	*AppError
	// Reconnect indicates the user must re-connect the integration
	Reconnect bool
	// Retryable indicates the caller may retry on the next sync run
	Retryable bool
}

// Error implements the error interface
func (e *SyncError) Error() string {
	return e.AppError.Error()
}

// Unwrap allows errors.Is and errors.As to work correctly
func (e *SyncError) Unwrap() error {
	return e.AppError
}

// NewCredentialMissingError signals that no enabled credential exists for the
// user. The caller must prompt the user to connect the integration.
func NewCredentialMissingError() *SyncError {
	return &SyncError{
		AppError: &AppError{
			Type:    ErrorTypeCredentialMissing,
			Message: "calendar integration is not connected",
			Code:    http.StatusUnauthorized,
		},
		Reconnect: true,
	}
}

// NewRefreshFailedError signals that the refresh-grant exchange with the
// remote provider errored.
func NewRefreshFailedError(details ...string) *SyncError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &SyncError{
		AppError: &AppError{
			Type:    ErrorTypeRefreshFailed,
			Message: "failed to refresh access token",
			Code:    http.StatusBadGateway,
			Details: detail,
		},
		Reconnect: true,
	}
}

// NewRefreshInProgressError signals that another caller holds the refresh
// lock and the credential was still expired after the wait interval.
func NewRefreshInProgressError() *SyncError {
	return &SyncError{
		AppError: &AppError{
			Type:    ErrorTypeRefreshInProgress,
			Message: "token refresh already in progress",
			Code:    http.StatusConflict,
		},
		Retryable: true,
	}
}

// NewRemoteUnauthorizedError signals a 401 from the remote API, treated as an
// expired or revoked grant.
func NewRemoteUnauthorizedError(details ...string) *SyncError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &SyncError{
		AppError: &AppError{
			Type:    ErrorTypeRemoteUnauthorized,
			Message: "remote service rejected the access token",
			Code:    http.StatusUnauthorized,
			Details: detail,
		},
		Reconnect: true,
	}
}

// NewRemoteForbiddenError signals a 403 on a specific calendar or list.
func NewRemoteForbiddenError(details ...string) *SyncError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &SyncError{
		AppError: &AppError{
			Type:    ErrorTypeRemoteForbidden,
			Message: "no permission on the remote resource",
			Code:    http.StatusForbidden,
			Details: detail,
		},
	}
}

// NewRemoteTransientError signals a timeout or 5xx from the remote API.
func NewRemoteTransientError(details ...string) *SyncError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &SyncError{
		AppError: &AppError{
			Type:    ErrorTypeRemoteTransient,
			Message: "remote service temporarily unavailable",
			Code:    http.StatusBadGateway,
			Details: detail,
		},
		Retryable: true,
	}
}

// NewRemoteNotFoundError signals a 404 from the remote API. Delete paths
// treat this as success; everything else surfaces it.
func NewRemoteNotFoundError(details ...string) *SyncError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &SyncError{
		AppError: &AppError{
			Type:    ErrorTypeRemoteNotFound,
			Message: "remote object not found",
			Code:    http.StatusNotFound,
			Details: detail,
		},
	}
}

// IsSyncError checks if the error is a SyncError (supports wrapped errors)
func IsSyncError(err error) bool {
	var syncErr *SyncError
	return stderrors.As(err, &syncErr)
}

// GetSyncError extracts SyncError from the error chain
func GetSyncError(err error) *SyncError {
	var syncErr *SyncError
	if stderrors.As(err, &syncErr) {
		return syncErr
	}
	return nil
}

// NeedsReconnect reports whether the error requires the user to re-run the
// OAuth grant before sync can proceed.
func NeedsReconnect(err error) bool {
	if syncErr := GetSyncError(err); syncErr != nil {
		return syncErr.Reconnect
	}
	return false
}

// IsRetryable reports whether the caller may retry the operation on the next
// sync run without user intervention.
func IsRetryable(err error) bool {
	if syncErr := GetSyncError(err); syncErr != nil {
		return syncErr.Retryable
	}
	return false
}

// IsRemoteNotFound checks for the remote 404 classification.
func IsRemoteNotFound(err error) bool {
	if syncErr := GetSyncError(err); syncErr != nil {
		return syncErr.Type == ErrorTypeRemoteNotFound
	}
	return false
}
