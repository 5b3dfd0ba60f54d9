package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kottz/ekman/internal/model"
)

func mustDay(t *testing.T, s string) model.Day {
	t.Helper()
	d, err := model.ParseDay(s)
	require.NoError(t, err)
	return d
}

func newTestClient(t *testing.T, h http.Handler) (*HTTPClient, string) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cookiePath := filepath.Join(t.TempDir(), "session.cookie")
	c, err := NewHTTPClient(HTTPClientOptions{BaseURL: srv.URL, CookiePath: cookiePath, Timeout: 5 * time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, cookiePath
}

func TestUpsertSet_SendsInputAndDecodesSet(t *testing.T) {
	day := mustDay(t, "2024-06-03")
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/days/2024-06-03/exercises/7/sets/2", func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		var in model.SetInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, 80.0, in.Weight)
		assert.Equal(t, 5, in.Reps)
		_ = json.NewEncoder(w).Encode(model.WorkoutSet{
			ID: 11, ExerciseID: 7, Day: day, SetNumber: 2, Weight: in.Weight, Reps: in.Reps, CompletedAt: *in.CompletedAt,
		})
	})
	c, _ := newTestClient(t, mux)

	at := day.Noon(time.UTC)
	got, err := c.UpsertSet(context.Background(), 7, day, 2, model.SetInput{Weight: 80, Reps: 5, CompletedAt: &at})
	require.NoError(t, err)
	assert.Equal(t, int64(11), got.ID)
	assert.Equal(t, day, got.Day)
	assert.True(t, at.Equal(got.CompletedAt))
}

func TestStatusErrorsMapToSentinels(t *testing.T) {
	cases := map[int]error{
		http.StatusBadRequest:   ErrInvalid,
		http.StatusUnauthorized: ErrUnauthorized,
		http.StatusNotFound:     ErrNotFound,
		http.StatusConflict:     ErrConflict,
	}
	for code, want := range cases {
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
			_, _ = w.Write([]byte(`{"error":"nope"}`))
		}))
		err := c.DeleteSet(context.Background(), 1, mustDay(t, "2024-01-01"), 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, want, "status %d", code)
		assert.Contains(t, err.Error(), "nope")
	}

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	_, err := c.DaySets(context.Background(), 1, mustDay(t, "2024-01-01"))
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, KindTransient, Classify(err))
}

func TestExerciseHistory_CachedUntilWrite(t *testing.T) {
	var historyCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/exercises/3/history", func(w http.ResponseWriter, r *http.Request) {
		historyCalls.Add(1)
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("start"))
		_ = json.NewEncoder(w).Encode([]model.WorkoutSet{{ID: 1, ExerciseID: 3, SetNumber: 1, Weight: 100, Reps: 5}})
	})
	mux.HandleFunc("DELETE /api/days/2024-02-01/exercises/3/sets/1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	c, _ := newTestClient(t, mux)

	start := mustDay(t, "2024-01-01")
	q := model.HistoryQuery{Start: &start}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := c.ExerciseHistory(ctx, 3, q)
		require.NoError(t, err)
		require.Len(t, got, 1)
	}
	assert.Equal(t, int32(1), historyCalls.Load())

	require.NoError(t, c.DeleteSet(ctx, 3, mustDay(t, "2024-02-01"), 1))
	_, err := c.ExerciseHistory(ctx, 3, q)
	require.NoError(t, err)
	assert.Equal(t, int32(2), historyCalls.Load())
}

func TestLogin_PersistsSessionCookie(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "ekman_session", Value: "abc123", Path: "/"})
		_ = json.NewEncoder(w).Encode(model.Session{User: model.User{ID: 1, Username: "kim"}})
	})
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		ck, err := r.Cookie("ekman_session")
		if err != nil || ck.Value != "abc123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(model.User{ID: 1, Username: "kim"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	cookiePath := filepath.Join(t.TempDir(), "session.cookie")

	c, err := NewHTTPClient(HTTPClientOptions{BaseURL: srv.URL, CookiePath: cookiePath})
	require.NoError(t, err)
	_, err = c.CheckSession(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)

	s, err := c.Login(context.Background(), model.LoginInput{Username: "kim", Password: "pw", TOTP: "123456"})
	require.NoError(t, err)
	assert.Equal(t, "kim", s.User.Username)

	b, err := os.ReadFile(cookiePath)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), "ekman_session=abc123"))

	// A fresh client picks the session up from disk.
	c2, err := NewHTTPClient(HTTPClientOptions{BaseURL: srv.URL, CookiePath: cookiePath})
	require.NoError(t, err)
	u, err := c2.CheckSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "kim", u.Username)
}

func TestRegister_SendsTOTPAndPersistsCookie(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var in model.RegisterInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "kim", in.Username)
		assert.Equal(t, "JBSWY3DPEHPK3PXP", in.TOTPSecret)
		assert.Equal(t, "123456", in.TOTPCode)
		http.SetCookie(w, &http.Cookie{Name: "ekman_session", Value: "new", Path: "/"})
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(model.Session{User: model.User{ID: 2, Username: in.Username}})
	})
	c, cookiePath := newTestClient(t, mux)

	s, err := c.Register(context.Background(), model.RegisterInput{Username: "kim", Password: "pw", TOTPSecret: "JBSWY3DPEHPK3PXP", TOTPCode: "123456"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), s.User.ID)
	b, err := os.ReadFile(cookiePath)
	require.NoError(t, err)
	assert.Contains(t, string(b), "ekman_session=new")
}

func TestExerciseAndPlanEdits(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /api/exercises/5", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"name": "Front squat"}, body, "unset fields are left out")
		_ = json.NewEncoder(w).Encode(model.Exercise{ID: 5, Name: "Front squat"})
	})
	mux.HandleFunc("POST /api/exercises/5/archive", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(model.Exercise{ID: 5, Name: "Front squat", Archived: true})
	})
	mux.HandleFunc("DELETE /api/plans/2/exercises/5", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("DELETE /api/plans/2/exercises/6", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"exercise not in template"}`))
	})
	c, _ := newTestClient(t, mux)
	ctx := context.Background()

	name := "Front squat"
	ex, err := c.UpdateExercise(ctx, 5, model.ExerciseUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Front squat", ex.Name)

	ex, err = c.ArchiveExercise(ctx, 5)
	require.NoError(t, err)
	assert.True(t, ex.Archived)

	require.NoError(t, c.RemovePlanExercise(ctx, 2, 5))
	assert.ErrorIs(t, c.RemovePlanExercise(ctx, 2, 6), ErrNotFound)
}

func TestGraph_AsksForMetric(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/exercises/3/graph", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "best_set_volume", r.URL.Query().Get("metric"))
		_, _ = w.Write([]byte(`{"exercise_id":3,"metric":"best_set_volume","points":[{"date":"2024-06-03","value":500}]}`))
	})
	c, _ := newTestClient(t, mux)

	g, err := c.Graph(context.Background(), 3, model.MetricBestSetVolume)
	require.NoError(t, err)
	assert.Equal(t, model.MetricBestSetVolume, g.Metric)
	assert.Equal(t, []model.GraphPoint{{Date: "2024-06-03", Value: 500}}, g.Points)

	// The history route is missing on this server.
	_, err = c.ExerciseHistory(context.Background(), 3, model.HistoryQuery{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestActivity_DecodesDays(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/activity/days", r.URL.Path)
		assert.Equal(t, "2024-05-13", r.URL.Query().Get("start"))
		_, _ = w.Write([]byte(`{"days":[{"day":"2024-05-14","completed_sets":12}]}`))
	}))

	got, err := c.Activity(context.Background(), model.ActivityQuery{Start: mustDay(t, "2024-05-13"), End: mustDay(t, "2024-06-02")})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2024-05-14", got[0].Day.String())
	assert.Equal(t, 12, got[0].CompletedSets)
}

func TestNewHTTPClient_RejectsRelativeURL(t *testing.T) {
	_, err := NewHTTPClient(HTTPClientOptions{BaseURL: "localhost:3000/api"})
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, KindConflict, Classify(&StatusError{Code: http.StatusNotFound}))
	assert.Equal(t, KindConflict, Classify(ErrConflict))
	assert.Equal(t, KindValidation, Classify(ErrInvalid))
	assert.Equal(t, KindTransient, Classify(context.DeadlineExceeded))
}
