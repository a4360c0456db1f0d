package google

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	apperrors "github.com/flowdesk-inc/flowdesk/internal/shared/errors"
)

// ListEvents returns the events of one calendar inside [timeMin, timeMax),
// following pagination until exhausted.
func (c *Client) ListEvents(ctx context.Context, accessToken, calendarID string, timeMin, timeMax time.Time) ([]*Event, error) {
	var events []*Event
	pageToken := ""

	for {
		q := url.Values{}
		q.Set("timeMin", timeMin.Format(time.RFC3339))
		q.Set("timeMax", timeMax.Format(time.RFC3339))
		q.Set("singleEvents", "true")
		q.Set("maxResults", "250")
		if pageToken != "" {
			q.Set("pageToken", pageToken)
		}

		endpoint := fmt.Sprintf("%s/calendars/%s/events?%s",
			c.calendarURL, url.PathEscape(calendarID), q.Encode())

		var page eventListResponse
		if err := c.doJSON(ctx, http.MethodGet, endpoint, accessToken, nil, &page); err != nil {
			return nil, err
		}
		events = append(events, page.Items...)

		if page.NextPageToken == "" {
			return events, nil
		}
		pageToken = page.NextPageToken
	}
}

// InsertEvent creates an event and returns the stored representation.
func (c *Client) InsertEvent(ctx context.Context, accessToken, calendarID string, event *Event) (*Event, error) {
	endpoint := fmt.Sprintf("%s/calendars/%s/events", c.calendarURL, url.PathEscape(calendarID))
	var created Event
	if err := c.doJSON(ctx, http.MethodPost, endpoint, accessToken, event, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// PatchEvent updates an existing event and returns the stored representation.
func (c *Client) PatchEvent(ctx context.Context, accessToken, calendarID, eventID string, event *Event) (*Event, error) {
	endpoint := fmt.Sprintf("%s/calendars/%s/events/%s",
		c.calendarURL, url.PathEscape(calendarID), url.PathEscape(eventID))
	var updated Event
	if err := c.doJSON(ctx, http.MethodPatch, endpoint, accessToken, event, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteEvent removes an event. A remote "not found" is success: the object
// is already gone, which is the state the caller asked for.
func (c *Client) DeleteEvent(ctx context.Context, accessToken, calendarID, eventID string) error {
	endpoint := fmt.Sprintf("%s/calendars/%s/events/%s",
		c.calendarURL, url.PathEscape(calendarID), url.PathEscape(eventID))
	err := c.doJSON(ctx, http.MethodDelete, endpoint, accessToken, nil, nil)
	if err != nil && apperrors.IsRemoteNotFound(err) {
		return nil
	}
	return err
}
