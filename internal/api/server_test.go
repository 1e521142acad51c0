package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rcliao/moodlog/internal/model"
	"github.com/rcliao/moodlog/internal/store"
)

func newTestServer(t *testing.T) (*store.SQLiteStore, *httptest.Server) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	ts := httptest.NewServer(NewServer(Config{DBPath: dbPath}, s, nil).Handler())
	t.Cleanup(func() {
		ts.Close()
		s.Close()
	})
	return s, ts
}

func getJSON[T any](t *testing.T, url string) (T, int) {
	t.Helper()
	var out T
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	return out, resp.StatusCode
}

func intp(v int) *int { return &v }

func seed(t *testing.T, s *store.SQLiteStore) {
	t.Helper()
	ctx := context.Background()
	for _, e := range []model.Entry{
		{User: "alice", Date: "2024-01-01", Time: "08:00", Mood: intp(3), Activities: "work"},
		{User: "alice", Date: "2024-01-03", Time: "21:00", Note: "meh"},
		{User: "bob", Date: "2024-01-02", Time: "07:15", Mood: intp(0)},
	} {
		if err := s.Insert(ctx, e); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
}

func TestUsers(t *testing.T) {
	s, ts := newTestServer(t)

	empty, status := getJSON[[]model.UserCount](t, ts.URL+"/users")
	if status != http.StatusOK || empty == nil || len(empty) != 0 {
		t.Errorf("expected empty array, got %d %#v", status, empty)
	}

	seed(t, s)
	users, _ := getJSON[[]model.UserCount](t, ts.URL+"/users")
	if len(users) != 2 || users[0] != (model.UserCount{User: "alice", Records: 2}) {
		t.Errorf("unexpected users: %+v", users)
	}
}

func TestMoods(t *testing.T) {
	s, ts := newTestServer(t)
	seed(t, s)

	all, status := getJSON[[]map[string]any](t, ts.URL+"/moods?user=alice")
	if status != http.StatusOK || len(all) != 2 {
		t.Fatalf("expected 2 entries, got %d %+v", status, all)
	}
	if all[0]["date"] != "2024-01-01" || all[0]["mood"] != float64(3) {
		t.Errorf("unexpected first entry: %+v", all[0])
	}
	if v, ok := all[1]["mood"]; !ok || v != nil {
		t.Errorf("expected explicit null mood, got %v (present=%v)", v, ok)
	}
	if _, ok := all[0]["user"]; ok {
		t.Errorf("entries should not repeat the user: %+v", all[0])
	}

	ranged, _ := getJSON[[]map[string]any](t, ts.URL+"/moods?user=alice&start_date=2024-01-02&end_date=2024-01-03")
	if len(ranged) != 1 || ranged[0]["date"] != "2024-01-03" {
		t.Errorf("unexpected ranged result: %+v", ranged)
	}

	after, _ := getJSON[[]map[string]any](t, ts.URL+"/moods?user=alice&start_date=2024-01-04")
	if after == nil || len(after) != 0 {
		t.Errorf("expected empty array, got %#v", after)
	}
}

func TestMoodsMissingUser(t *testing.T) {
	s, ts := newTestServer(t)
	seed(t, s)

	got, status := getJSON[[]map[string]any](t, ts.URL+"/moods")
	if status != http.StatusOK || got == nil || len(got) != 0 {
		t.Errorf("expected 200 with empty array, got %d %#v", status, got)
	}

	got, _ = getJSON[[]map[string]any](t, ts.URL+"/moods?user=nobody")
	if len(got) != 0 {
		t.Errorf("expected empty array for unknown user, got %#v", got)
	}
}

func TestStatsAndHealth(t *testing.T) {
	s, ts := newTestServer(t)
	seed(t, s)

	health, status := getJSON[map[string]string](t, ts.URL+"/healthz")
	if status != http.StatusOK || health["status"] != "ok" {
		t.Errorf("unexpected health: %d %v", status, health)
	}

	st, status := getJSON[store.Stats](t, ts.URL+"/stats")
	if status != http.StatusOK || st.TotalEntries != 3 || len(st.Users) != 2 {
		t.Errorf("unexpected stats: %d %+v", status, st)
	}
}

type failingStore struct{}

func (failingStore) ListUsers(context.Context) ([]model.UserCount, error) {
	return nil, errors.New("disk gone")
}

func (failingStore) QueryEntries(context.Context, store.QueryParams) ([]model.Entry, error) {
	panic("boom")
}

func (failingStore) Stats(context.Context, string) (*store.Stats, error) {
	return nil, errors.New("disk gone")
}

func TestStoreFailures(t *testing.T) {
	ts := httptest.NewServer(NewServer(Config{}, failingStore{}, nil).Handler())
	defer ts.Close()

	body, status := getJSON[map[string]string](t, ts.URL+"/users")
	if status != http.StatusInternalServerError || body["error"] != "disk gone" {
		t.Errorf("unexpected response: %d %v", status, body)
	}

	resp, err := http.Get(ts.URL + "/moods?user=alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected recovered panic to yield 500, got %d", resp.StatusCode)
	}
}
