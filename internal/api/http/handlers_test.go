package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/example/homeboard/internal/domain/alarm"
	"github.com/example/homeboard/internal/notify"
	"github.com/example/homeboard/internal/repository/alarms"
	"github.com/example/homeboard/internal/scheduler"
)

// memoryRepo is a minimal in-memory persistence API double for handler tests.
type memoryRepo struct {
	// mu protects alarms.
	mu sync.Mutex
	// alarms is the authoritative list.
	alarms []*domain.Alarm
}

func (m *memoryRepo) List(context.Context) ([]*domain.Alarm, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*domain.Alarm, 0, len(m.alarms))
	for _, a := range m.alarms {
		result = append(result, a.Clone())
	}

	return result, nil
}

func (m *memoryRepo) Create(_ context.Context, a *domain.Alarm) (*domain.Alarm, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.alarms = append(m.alarms, a.Clone())

	return a.Clone(), nil
}

func (m *memoryRepo) Update(_ context.Context, a *domain.Alarm) (*domain.Alarm, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.alarms {
		if existing.ID == a.ID {
			m.alarms[i] = a.Clone()

			return a.Clone(), nil
		}
	}

	return nil, alarms.ErrNotFound
}

func (m *memoryRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.alarms {
		if existing.ID == id {
			m.alarms = append(m.alarms[:i], m.alarms[i+1:]...)

			return nil
		}
	}

	return alarms.ErrNotFound
}

func (m *memoryRepo) MarkTriggered(context.Context, string, time.Time) error {
	return nil
}

func (m *memoryRepo) SetEnabled(_ context.Context, id string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.alarms {
		if existing.ID == id {
			existing.Enabled = enabled

			return nil
		}
	}

	return alarms.ErrNotFound
}

// newTestServer builds a scheduler over the repo and serves its API.
func newTestServer(t *testing.T, repo *memoryRepo) *httptest.Server {
	t.Helper()

	noon := time.Date(2026, time.January, 5, 12, 0, 0, 0, time.UTC)
	svc := scheduler.New(repo, notify.NewConsole(), scheduler.WithClock(func() time.Time { return noon }))
	require.NoError(t, svc.Refresh(context.Background()))

	server := httptest.NewServer(NewServer(svc).Router())
	t.Cleanup(server.Close)

	return server
}

// doJSON performs a request with an optional JSON body and decodes the
// response into out when out is non-nil.
func doJSON(t *testing.T, method, url string, body, out any) *http.Response {
	t.Helper()

	var reader *bytes.Reader

	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)

		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	request, err := http.NewRequestWithContext(context.Background(), method, url, reader)
	require.NoError(t, err)
	request.Header.Set("Content-Type", "application/json")

	response, err := http.DefaultClient.Do(request)
	require.NoError(t, err)

	t.Cleanup(func() { _ = response.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(response.Body).Decode(out))
	}

	return response
}

// TestListAlarms verifies the read model endpoint.
func TestListAlarms(t *testing.T) {
	t.Parallel()

	repo := &memoryRepo{alarms: []*domain.Alarm{
		{ID: "a1", Title: "Wake up", TimeOfDay: "18:00", RepeatType: domain.RepeatDaily, Enabled: true},
		{ID: "a2", Title: "Dentist", TimeOfDay: "09:00", RepeatType: domain.RepeatNone, Enabled: false},
	}}
	server := newTestServer(t, repo)

	var overview []scheduler.Status

	response := doJSON(t, http.MethodGet, server.URL+"/api/alarms", nil, &overview)
	require.Equal(t, http.StatusOK, response.StatusCode)
	require.Len(t, overview, 2)

	require.Equal(t, "a1", overview[0].Alarm.ID)
	require.NotNil(t, overview[0].NextFire)
	require.Nil(t, overview[1].NextFire)
}

// TestCreateAlarm verifies creation, id assignment and validation failures.
func TestCreateAlarm(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, &memoryRepo{})

	var created domain.Alarm

	response := doJSON(t, http.MethodPost, server.URL+"/api/alarms", &domain.Alarm{
		Title:      "Workout",
		TimeOfDay:  "18:00",
		RepeatType: domain.RepeatCustom,
		RepeatDays: []time.Weekday{time.Monday, time.Friday},
		Enabled:    true,
	}, &created)
	require.Equal(t, http.StatusCreated, response.StatusCode)
	require.NotEmpty(t, created.ID)

	// Empty custom weekday set is rejected at the form boundary.
	var failure struct {
		Message string `json:"message"`
	}

	response = doJSON(t, http.MethodPost, server.URL+"/api/alarms", &domain.Alarm{
		Title:      "Broken",
		TimeOfDay:  "18:00",
		RepeatType: domain.RepeatCustom,
	}, &failure)
	require.Equal(t, http.StatusBadRequest, response.StatusCode)
	require.NotEmpty(t, failure.Message)
}

// TestUpdateAlarm verifies edits and the not-found mapping.
func TestUpdateAlarm(t *testing.T) {
	t.Parallel()

	repo := &memoryRepo{alarms: []*domain.Alarm{
		{ID: "a1", Title: "Wake up", TimeOfDay: "07:00", RepeatType: domain.RepeatDaily, Enabled: true},
	}}
	server := newTestServer(t, repo)

	var updated domain.Alarm

	response := doJSON(t, http.MethodPut, server.URL+"/api/alarms/a1", &domain.Alarm{
		Title:      "Wake up late",
		TimeOfDay:  "09:30",
		RepeatType: domain.RepeatDaily,
		Enabled:    true,
	}, &updated)
	require.Equal(t, http.StatusOK, response.StatusCode)
	require.Equal(t, "a1", updated.ID)
	require.Equal(t, "09:30", updated.TimeOfDay)

	response = doJSON(t, http.MethodPut, server.URL+"/api/alarms/missing", &domain.Alarm{
		Title:      "Ghost",
		TimeOfDay:  "09:30",
		RepeatType: domain.RepeatDaily,
	}, nil)
	require.Equal(t, http.StatusNotFound, response.StatusCode)
}

// TestDeleteAndToggleAlarm verifies delete and enabled-toggle intents.
func TestDeleteAndToggleAlarm(t *testing.T) {
	t.Parallel()

	repo := &memoryRepo{alarms: []*domain.Alarm{
		{ID: "a1", Title: "Wake up", TimeOfDay: "07:00", RepeatType: domain.RepeatDaily, Enabled: true},
		{ID: "a2", Title: "Trash", TimeOfDay: "20:00", RepeatType: domain.RepeatWeekly, Enabled: true},
	}}
	server := newTestServer(t, repo)

	response := doJSON(t, http.MethodDelete, server.URL+"/api/alarms/a1", nil, nil)
	require.Equal(t, http.StatusNoContent, response.StatusCode)

	payload := map[string]bool{"enabled": false}
	response = doJSON(t, http.MethodPost, server.URL+"/api/alarms/a2/enabled", payload, nil)
	require.Equal(t, http.StatusNoContent, response.StatusCode)

	var overview []scheduler.Status

	response = doJSON(t, http.MethodGet, server.URL+"/api/alarms", nil, &overview)
	require.Equal(t, http.StatusOK, response.StatusCode)
	require.Len(t, overview, 1)
	require.Equal(t, "a2", overview[0].Alarm.ID)
	require.False(t, overview[0].Alarm.Enabled)
	require.Nil(t, overview[0].NextFire)
}

// TestTriggeredAndHealth verifies the remaining read endpoints.
func TestTriggeredAndHealth(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, &memoryRepo{})

	var triggered []string

	response := doJSON(t, http.MethodGet, server.URL+"/api/alarms/triggered", nil, &triggered)
	require.Equal(t, http.StatusOK, response.StatusCode)
	require.Empty(t, triggered)

	var health map[string]string

	response = doJSON(t, http.MethodGet, server.URL+"/healthz", nil, &health)
	require.Equal(t, http.StatusOK, response.StatusCode)
	require.Equal(t, "ok", health["status"])
}
