package usecases

import (
	"context"
	"time"

	"github.com/flowdesk-inc/flowdesk/internal/infrastructure/cache"
	"github.com/flowdesk-inc/flowdesk/internal/infrastructure/google"
)

// TokenProvider yields a valid access token for a user, refreshing when
// necessary. Implemented by services.TokenManager.
type TokenProvider interface {
	GetValidAccessToken(ctx context.Context, userID uint) (token string, refreshed bool, err error)
}

// CalendarAPI is the event surface of the remote API.
type CalendarAPI interface {
	ListEvents(ctx context.Context, accessToken, calendarID string, timeMin, timeMax time.Time) ([]*google.Event, error)
	InsertEvent(ctx context.Context, accessToken, calendarID string, event *google.Event) (*google.Event, error)
	PatchEvent(ctx context.Context, accessToken, calendarID, eventID string, event *google.Event) (*google.Event, error)
	DeleteEvent(ctx context.Context, accessToken, calendarID, eventID string) error
}

// TasksAPI is the task-list surface of the remote API.
type TasksAPI interface {
	ListTaskLists(ctx context.Context, accessToken string) ([]*google.TaskList, error)
	InsertTaskList(ctx context.Context, accessToken, title string) (*google.TaskList, error)
	ListTasks(ctx context.Context, accessToken, listID string) ([]*google.TaskItem, error)
	InsertTask(ctx context.Context, accessToken, listID string, item *google.TaskItem) (*google.TaskItem, error)
	PatchTask(ctx context.Context, accessToken, listID, taskID string, item *google.TaskItem) (*google.TaskItem, error)
}

// OAuthAPI drives the auth-code grant and revocation.
type OAuthAPI interface {
	AuthURL(state string) (authURL, codeVerifier string, err error)
	Exchange(ctx context.Context, code, codeVerifier string) (*google.Token, error)
	Revoke(ctx context.Context, token string) error
}

// StateStore holds one-time OAuth connect states.
type StateStore interface {
	Set(ctx context.Context, state string, userID uint, codeVerifier string) error
	VerifyAndGet(ctx context.Context, state string) (*cache.StateInfo, error)
}

// CredentialCipher encrypts and decrypts stored token material.
type CredentialCipher interface {
	Encrypt(plaintext string) (ciphertext []byte, keyVersion string, err error)
	Decrypt(ciphertext []byte, keyVersion string) (string, error)
}
