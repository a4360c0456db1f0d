package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/flowdesk-inc/flowdesk/internal/shared/errors"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := NewClient(5*time.Second, WithBaseURLs(srv.URL, srv.URL))
	return client, srv
}

func TestDeleteEventIdempotent(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusGone} {
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		defer srv.Close()

		err := client.DeleteEvent(context.Background(), "tok", "cal-1", "ev-1")
		assert.NoError(t, err, "deleting an already-gone event (status %d) is success", status)
	}
}

func TestDeleteEventOtherFailuresSurface(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	err := client.DeleteEvent(context.Background(), "tok", "cal-1", "ev-1")
	require.Error(t, err)
	syncErr := apperrors.GetSyncError(err)
	require.NotNil(t, syncErr)
	assert.Equal(t, apperrors.ErrorTypeRemoteForbidden, syncErr.Type)
}

func TestStatusClassification(t *testing.T) {
	tests := []struct {
		status    int
		wantType  apperrors.ErrorType
		reconnect bool
		retryable bool
	}{
		{http.StatusUnauthorized, apperrors.ErrorTypeRemoteUnauthorized, true, false},
		{http.StatusForbidden, apperrors.ErrorTypeRemoteForbidden, false, false},
		{http.StatusNotFound, apperrors.ErrorTypeRemoteNotFound, false, false},
		{http.StatusTooManyRequests, apperrors.ErrorTypeRemoteTransient, false, true},
		{http.StatusInternalServerError, apperrors.ErrorTypeRemoteTransient, false, true},
		{http.StatusServiceUnavailable, apperrors.ErrorTypeRemoteTransient, false, true},
	}

	for _, tt := range tests {
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))

		_, err := client.ListEvents(context.Background(), "tok", "cal-1",
			time.Now(), time.Now().Add(time.Hour))
		require.Error(t, err, "status %d", tt.status)

		syncErr := apperrors.GetSyncError(err)
		require.NotNil(t, syncErr, "status %d", tt.status)
		assert.Equal(t, tt.wantType, syncErr.Type, "status %d", tt.status)
		assert.Equal(t, tt.reconnect, syncErr.Reconnect, "status %d", tt.status)
		assert.Equal(t, tt.retryable, syncErr.Retryable, "status %d", tt.status)

		srv.Close()
	}
}

func TestListEventsPaginates(t *testing.T) {
	calls := 0
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "true", r.URL.Query().Get("singleEvents"))

		var resp eventListResponse
		if r.URL.Query().Get("pageToken") == "" {
			resp = eventListResponse{
				Items:         []*Event{{ID: "ev-1"}},
				NextPageToken: "page-2",
			}
		} else {
			assert.Equal(t, "page-2", r.URL.Query().Get("pageToken"))
			resp = eventListResponse{Items: []*Event{{ID: "ev-2"}}}
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	events, err := client.ListEvents(context.Background(), "tok", "cal-1",
		time.Now(), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "ev-1", events[0].ID)
	assert.Equal(t, "ev-2", events[1].ID)
}

func TestInsertEventSendsBody(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var got Event
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "new event", got.Summary)

		got.ID = "ev-created"
		_ = json.NewEncoder(w).Encode(got)
	}))
	defer srv.Close()

	created, err := client.InsertEvent(context.Background(), "tok", "cal-1", &Event{Summary: "new event"})
	require.NoError(t, err)
	assert.Equal(t, "ev-created", created.ID)
}

func TestListTasksIncludesCompletedAndHidden(t *testing.T) {
	client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("showCompleted"))
		assert.Equal(t, "true", r.URL.Query().Get("showHidden"))
		_ = json.NewEncoder(w).Encode(taskItemsResponse{
			Items: []*TaskItem{{ID: "t-1", Status: "completed"}},
		})
	}))
	defer srv.Close()

	items, err := client.ListTasks(context.Background(), "tok", "list-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Completed())
}

func TestRequestTimeoutIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(50*time.Millisecond, WithBaseURLs(srv.URL, srv.URL))
	_, err := client.ListEvents(context.Background(), "tok", "cal-1",
		time.Now(), time.Now().Add(time.Hour))
	require.Error(t, err)
	assert.True(t, apperrors.IsRetryable(err))
}
