package usecases

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/flowdesk-inc/flowdesk/internal/domain/integration"
	"github.com/flowdesk-inc/flowdesk/internal/domain/schedule"
	"github.com/flowdesk-inc/flowdesk/internal/infrastructure/cache"
	"github.com/flowdesk-inc/flowdesk/internal/infrastructure/google"
)

type fakeTokenProvider struct {
	token string
	err   error
}

func (f *fakeTokenProvider) GetValidAccessToken(ctx context.Context, userID uint) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	return f.token, false, nil
}

type fakeLinkRepo struct {
	mu    sync.Mutex
	links []*schedule.ExternalLink

	upserted []*schedule.ExternalLink
}

func (f *fakeLinkRepo) GetByTaskIDs(ctx context.Context, taskIDs []string, containerID string) ([]*schedule.ExternalLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wanted := make(map[string]bool, len(taskIDs))
	for _, id := range taskIDs {
		wanted[id] = true
	}
	var out []*schedule.ExternalLink
	for _, l := range f.links {
		if wanted[l.InternalTaskID] && l.ExternalContainerID == containerID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLinkRepo) GetByContainer(ctx context.Context, containerID string) ([]*schedule.ExternalLink, error) {
	return f.links, nil
}

func (f *fakeLinkRepo) Upsert(ctx context.Context, link *schedule.ExternalLink) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserted = append(f.upserted, link)
	return nil
}

func (f *fakeLinkRepo) DeleteByTaskID(ctx context.Context, taskID string) error {
	return nil
}

type fakeCalendarAPI struct {
	mu sync.Mutex

	listFn   func(calendarID string, timeMin, timeMax time.Time) ([]*google.Event, error)
	insertFn func(calendarID string, event *google.Event) (*google.Event, error)
	patchFn  func(calendarID, eventID string, event *google.Event) (*google.Event, error)

	inserted []*google.Event
	patched  map[string]*google.Event
}

func (f *fakeCalendarAPI) ListEvents(ctx context.Context, accessToken, calendarID string, timeMin, timeMax time.Time) ([]*google.Event, error) {
	return f.listFn(calendarID, timeMin, timeMax)
}

func (f *fakeCalendarAPI) InsertEvent(ctx context.Context, accessToken, calendarID string, event *google.Event) (*google.Event, error) {
	if f.insertFn != nil {
		return f.insertFn(calendarID, event)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserted = append(f.inserted, event)
	created := *event
	created.ID = "created-" + event.Summary
	return &created, nil
}

func (f *fakeCalendarAPI) PatchEvent(ctx context.Context, accessToken, calendarID, eventID string, event *google.Event) (*google.Event, error) {
	if f.patchFn != nil {
		return f.patchFn(calendarID, eventID, event)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.patched == nil {
		f.patched = make(map[string]*google.Event)
	}
	f.patched[eventID] = event
	updated := *event
	updated.ID = eventID
	return &updated, nil
}

func (f *fakeCalendarAPI) DeleteEvent(ctx context.Context, accessToken, calendarID, eventID string) error {
	return nil
}

type fakeTasksAPI struct {
	lists []*google.TaskList
	items map[string][]*google.TaskItem

	insertedLists []string
}

func (f *fakeTasksAPI) ListTaskLists(ctx context.Context, accessToken string) ([]*google.TaskList, error) {
	return f.lists, nil
}

func (f *fakeTasksAPI) InsertTaskList(ctx context.Context, accessToken, title string) (*google.TaskList, error) {
	f.insertedLists = append(f.insertedLists, title)
	created := &google.TaskList{ID: "list-" + title, Title: title}
	f.lists = append(f.lists, created)
	return created, nil
}

func (f *fakeTasksAPI) ListTasks(ctx context.Context, accessToken, listID string) ([]*google.TaskItem, error) {
	return f.items[listID], nil
}

func (f *fakeTasksAPI) InsertTask(ctx context.Context, accessToken, listID string, item *google.TaskItem) (*google.TaskItem, error) {
	created := *item
	created.ID = "item-" + item.Title
	if f.items == nil {
		f.items = make(map[string][]*google.TaskItem)
	}
	f.items[listID] = append(f.items[listID], &created)
	return &created, nil
}

func (f *fakeTasksAPI) PatchTask(ctx context.Context, accessToken, listID, taskID string, item *google.TaskItem) (*google.TaskItem, error) {
	return item, nil
}

type fakeTaskRepo struct {
	tasks map[string]*schedule.Task

	saveErr map[string]error
	saved   []*schedule.Task
}

func (f *fakeTaskRepo) GetByIDs(ctx context.Context, ids []string) ([]*schedule.Task, error) {
	var out []*schedule.Task
	for _, id := range ids {
		if task, ok := f.tasks[id]; ok {
			copied := *task
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) GetByUserID(ctx context.Context, userID uint) ([]*schedule.Task, error) {
	return nil, nil
}

func (f *fakeTaskRepo) SaveVersioned(ctx context.Context, task *schedule.Task) error {
	if err := f.saveErr[task.ID]; err != nil {
		return err
	}
	f.saved = append(f.saved, task)
	f.tasks[task.ID] = task
	return nil
}

type fakeOAuthAPI struct {
	authURL   string
	exchanged *google.Token

	exchangeErr error
	revokeErr   error
	revoked     []string
}

func (f *fakeOAuthAPI) AuthURL(state string) (string, string, error) {
	return f.authURL + "?state=" + state, "verifier-" + state, nil
}

func (f *fakeOAuthAPI) Exchange(ctx context.Context, code, codeVerifier string) (*google.Token, error) {
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return f.exchanged, nil
}

func (f *fakeOAuthAPI) Revoke(ctx context.Context, token string) error {
	f.revoked = append(f.revoked, token)
	return f.revokeErr
}

type fakeStateStore struct {
	states map[string]*cache.StateInfo
	setErr error
}

func (f *fakeStateStore) Set(ctx context.Context, state string, userID uint, codeVerifier string) error {
	if f.setErr != nil {
		return f.setErr
	}
	if f.states == nil {
		f.states = make(map[string]*cache.StateInfo)
	}
	f.states[state] = &cache.StateInfo{UserID: userID, CodeVerifier: codeVerifier, CreatedAt: time.Now().UTC()}
	return nil
}

func (f *fakeStateStore) VerifyAndGet(ctx context.Context, state string) (*cache.StateInfo, error) {
	info, ok := f.states[state]
	if !ok {
		return nil, errors.New("state not found or expired")
	}
	delete(f.states, state)
	return info, nil
}

type fakeCredentialStore struct {
	cred *integration.Credential

	cleared bool
}

func (f *fakeCredentialStore) GetByUserID(ctx context.Context, userID uint) (*integration.Credential, error) {
	if f.cred == nil || f.cred.UserID != userID {
		return nil, nil
	}
	copied := *f.cred
	return &copied, nil
}

func (f *fakeCredentialStore) Upsert(ctx context.Context, credential *integration.Credential) error {
	copied := *credential
	f.cred = &copied
	return nil
}

func (f *fakeCredentialStore) UpdateAccessToken(ctx context.Context, userID uint, ciphertext []byte, expiresAt time.Time) error {
	f.cred.AccessTokenCiphertext = ciphertext
	f.cred.AccessTokenExpiresAt = expiresAt
	return nil
}

func (f *fakeCredentialStore) Clear(ctx context.Context, userID uint) error {
	f.cleared = true
	if f.cred != nil {
		f.cred.Disconnect()
	}
	return nil
}

func (f *fakeCredentialStore) ListEnabledUserIDs(ctx context.Context) ([]uint, error) {
	return nil, nil
}

// passthroughCipher seals by prefixing the key version, mirroring what tests
// need to assert about scheme selection.
type passthroughCipher struct{}

func (passthroughCipher) Encrypt(plaintext string) ([]byte, string, error) {
	return []byte(integration.KeyVersionCurrent + ":" + plaintext), integration.KeyVersionCurrent, nil
}

func (passthroughCipher) Decrypt(ciphertext []byte, keyVersion string) (string, error) {
	prefix := keyVersion + ":"
	s := string(ciphertext)
	if len(s) < len(prefix) || s[:len(prefix)] != prefix {
		return "", errors.New("ciphertext not sealed under " + keyVersion)
	}
	return s[len(prefix):], nil
}
