package google

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListTaskLists returns all remote task lists.
func (c *Client) ListTaskLists(ctx context.Context, accessToken string) ([]*TaskList, error) {
	var lists []*TaskList
	pageToken := ""

	for {
		endpoint := c.tasksURL + "/users/@me/lists?maxResults=100"
		if pageToken != "" {
			endpoint += "&pageToken=" + url.QueryEscape(pageToken)
		}

		var page taskListsResponse
		if err := c.doJSON(ctx, http.MethodGet, endpoint, accessToken, nil, &page); err != nil {
			return nil, err
		}
		lists = append(lists, page.Items...)

		if page.NextPageToken == "" {
			return lists, nil
		}
		pageToken = page.NextPageToken
	}
}

// InsertTaskList creates a task list with the given title.
func (c *Client) InsertTaskList(ctx context.Context, accessToken, title string) (*TaskList, error) {
	endpoint := c.tasksURL + "/users/@me/lists"
	var created TaskList
	if err := c.doJSON(ctx, http.MethodPost, endpoint, accessToken, &TaskList{Title: title}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListTasks returns all items of one list, including completed and hidden
// ones, following pagination until exhausted.
func (c *Client) ListTasks(ctx context.Context, accessToken, listID string) ([]*TaskItem, error) {
	var items []*TaskItem
	pageToken := ""

	for {
		q := url.Values{}
		q.Set("showCompleted", "true")
		q.Set("showHidden", "true")
		q.Set("maxResults", "100")
		if pageToken != "" {
			q.Set("pageToken", pageToken)
		}

		endpoint := fmt.Sprintf("%s/lists/%s/tasks?%s", c.tasksURL, url.PathEscape(listID), q.Encode())

		var page taskItemsResponse
		if err := c.doJSON(ctx, http.MethodGet, endpoint, accessToken, nil, &page); err != nil {
			return nil, err
		}
		items = append(items, page.Items...)

		if page.NextPageToken == "" {
			return items, nil
		}
		pageToken = page.NextPageToken
	}
}

// InsertTask creates an item in the given list.
func (c *Client) InsertTask(ctx context.Context, accessToken, listID string, item *TaskItem) (*TaskItem, error) {
	endpoint := fmt.Sprintf("%s/lists/%s/tasks", c.tasksURL, url.PathEscape(listID))
	var created TaskItem
	if err := c.doJSON(ctx, http.MethodPost, endpoint, accessToken, item, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// PatchTask updates an item in the given list.
func (c *Client) PatchTask(ctx context.Context, accessToken, listID, taskID string, item *TaskItem) (*TaskItem, error) {
	endpoint := fmt.Sprintf("%s/lists/%s/tasks/%s", c.tasksURL, url.PathEscape(listID), url.PathEscape(taskID))
	var updated TaskItem
	if err := c.doJSON(ctx, http.MethodPatch, endpoint, accessToken, item, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
