package service

import (
	"context"
	"encoding/json"
	"sync"

	"minuteshub/internal/analysis"
	"minuteshub/internal/fault"
	"minuteshub/internal/mailer"
	"minuteshub/internal/model"
	"minuteshub/internal/transcribe"
)

// fakeMeetingStore is an in-memory MeetingStore. Reads return copies so a
// caller mutating a fetched record cannot bypass Update, same as the SQL
// repository.
type fakeMeetingStore struct {
	mu       sync.Mutex
	nextID   int
	meetings map[int]*model.Meeting

	createErr error
	updateErr error
	getErr    error
	listErr   error

	updateCalls int
}

func newFakeMeetingStore() *fakeMeetingStore {
	return &fakeMeetingStore{meetings: map[int]*model.Meeting{}}
}

func (f *fakeMeetingStore) Create(ctx context.Context, m *model.Meeting) (*model.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	m.ID = f.nextID
	f.meetings[m.ID] = copyMeeting(m)
	return copyMeeting(m), nil
}

func (f *fakeMeetingStore) Update(ctx context.Context, m *model.Meeting) (*model.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if _, ok := f.meetings[m.ID]; !ok {
		return nil, fault.NotFound("meeting not found")
	}
	f.meetings[m.ID] = copyMeeting(m)
	return copyMeeting(m), nil
}

func (f *fakeMeetingStore) GetByID(ctx context.Context, id int) (*model.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	m, ok := f.meetings[id]
	if !ok {
		return nil, fault.NotFound("meeting not found")
	}
	return copyMeeting(m), nil
}

func (f *fakeMeetingStore) List(ctx context.Context) ([]model.Meeting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []model.Meeting{}
	for _, m := range f.meetings {
		out = append(out, *copyMeeting(m))
	}
	return out, nil
}

func (f *fakeMeetingStore) Delete(ctx context.Context, id int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.meetings[id]; !ok {
		return false, nil
	}
	delete(f.meetings, id)
	return true, nil
}

func copyMeeting(m *model.Meeting) *model.Meeting {
	c := *m
	c.Tags = append([]string{}, m.Tags...)
	c.Participants = append([]model.Participant{}, m.Participants...)
	c.ActionItems = append([]model.ActionItem{}, m.ActionItems...)
	return &c
}

// fakeAnalyzer returns canned values per operation, or the configured error.
type fakeAnalyzer struct {
	title    string
	titleErr error

	summary    string
	summaryErr error

	items    []analysis.ActionItemDraft
	itemsErr error

	speakers    string
	speakersErr error
}

func (f *fakeAnalyzer) GenerateTitle(ctx context.Context, transcript string) (string, error) {
	return f.title, f.titleErr
}

func (f *fakeAnalyzer) Summarize(ctx context.Context, transcript, styleHint string) (string, error) {
	return f.summary, f.summaryErr
}

func (f *fakeAnalyzer) ExtractActionItems(ctx context.Context, transcript string) ([]analysis.ActionItemDraft, error) {
	return f.items, f.itemsErr
}

func (f *fakeAnalyzer) SeparateSpeakers(ctx context.Context, transcript string) (string, error) {
	return f.speakers, f.speakersErr
}

type fakeTranscriber struct {
	result *transcribe.Result
	err    error
	calls  int
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio []byte, filename string) (*transcribe.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type publishedEvent struct {
	routingKey string
	payload    any
}

type fakePublisher struct {
	events []publishedEvent
	err    error
}

func (f *fakePublisher) Publish(routingKey string, payload any) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, publishedEvent{routingKey: routingKey, payload: payload})
	return nil
}

// fakeTransport counts invocations so tests can assert validation failures
// never reach the wire.
type fakeTransport struct {
	verifyCalls int
	verifyErr   error

	sendCalls int
	sendErr   error
	messageID string
	lastMsg   *mailer.Message
	lastCreds mailer.Credentials
}

func (f *fakeTransport) Verify(creds mailer.Credentials) error {
	f.verifyCalls++
	return f.verifyErr
}

func (f *fakeTransport) Send(creds mailer.Credentials, msg *mailer.Message) (string, error) {
	f.sendCalls++
	f.lastCreds = creds
	f.lastMsg = msg
	if f.sendErr != nil {
		return "", f.sendErr
	}
	return f.messageID, nil
}

// fakePreferenceStore keeps values as marshaled JSON, mirroring the JSONB
// column in the real repository.
type fakePreferenceStore struct {
	values map[string]json.RawMessage
	getErr error
}

func newFakePreferenceStore() *fakePreferenceStore {
	return &fakePreferenceStore{values: map[string]json.RawMessage{}}
}

func (f *fakePreferenceStore) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.values[key] = raw
	return nil
}

func (f *fakePreferenceStore) Get(ctx context.Context, key string, dest any) error {
	if f.getErr != nil {
		return f.getErr
	}
	raw, ok := f.values[key]
	if !ok {
		return fault.NotFound("preference " + key + " not found")
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakePreferenceStore) All(ctx context.Context) (map[string]json.RawMessage, error) {
	out := map[string]json.RawMessage{}
	for k, v := range f.values {
		out[k] = v
	}
	return out, nil
}

func (f *fakePreferenceStore) Delete(ctx context.Context, key string) (bool, error) {
	if _, ok := f.values[key]; !ok {
		return false, nil
	}
	delete(f.values, key)
	return true, nil
}
