package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/coocood/freecache"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/kottz/ekman/internal/config"
	"github.com/kottz/ekman/internal/model"
)

const (
	defaultCacheSize = 8 * 1024 * 1024
	defaultCacheTTL  = 5 * time.Minute
)

type HTTPClientOptions struct {
	BaseURL    string
	CookiePath string
	Timeout    time.Duration
	CacheSize  int
	CacheTTL   time.Duration
	// Transport overrides the round tripper, mostly for tests.
	Transport http.RoundTripper
}

// HTTPClient talks JSON to the ekman server. Exercise history responses are
// cached; any successful write for an exercise invalidates its entries.
type HTTPClient struct {
	base       *url.URL
	http       *http.Client
	jar        http.CookieJar
	cookiePath string

	cache    *freecache.Cache
	cacheTTL time.Duration

	genMu sync.Mutex
	gen   map[int64]uint64
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(opts HTTPClientOptions) (*HTTPClient, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid server url %q", opts.BaseURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}

	c := &HTTPClient{
		base:       base,
		http:       &http.Client{Jar: jar, Timeout: opts.Timeout, Transport: opts.Transport},
		jar:        jar,
		cookiePath: opts.CookiePath,
		cache:      freecache.NewCache(opts.CacheSize),
		cacheTTL:   opts.CacheTTL,
		gen:        map[int64]uint64{},
	}
	if err := c.loadCookies(); err != nil {
		log.Warnf("api: ignoring unreadable session cookie %s: %s", c.cookiePath, err)
	}
	return c, nil
}

func (c *HTTPClient) Close() error {
	c.cache.Clear()
	return nil
}

// Session cookies are stored one per line as name=value.
func (c *HTTPClient) loadCookies() error {
	if c.cookiePath == "" {
		return nil
	}
	b, err := os.ReadFile(c.cookiePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var cookies []*http.Cookie
	for _, line := range strings.Split(string(b), "\n") {
		name, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok || name == "" {
			continue
		}
		cookies = append(cookies, &http.Cookie{Name: name, Value: value, Path: "/"})
	}
	c.jar.SetCookies(c.base, cookies)
	return nil
}

func (c *HTTPClient) saveCookies() error {
	if c.cookiePath == "" {
		return nil
	}
	var sb strings.Builder
	for _, ck := range c.jar.Cookies(c.base) {
		fmt.Fprintf(&sb, "%s=%s\n", ck.Name, ck.Value)
	}
	return config.AtomicWriteFile(c.cookiePath, []byte(sb.String()), 0o600)
}

func (c *HTTPClient) url(path string, q url.Values) string {
	u := *c.base
	u.Path = c.base.Path + path
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (c *HTTPClient) do(ctx context.Context, method, path string, q url.Values, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url(path, q), rdr)
	if err != nil {
		return err
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-Id", reqID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger := log.WithFields(log.Fields{"request_id": reqID, "method": method, "path": path})
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debugf("api request failed: %s", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s response: %w", method, path, err)
	}
	logger.WithField("status", resp.StatusCode).Debugf("api request done in %s", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Message: errorMessage(respBytes)}
	}
	if out == nil || len(bytes.TrimSpace(respBytes)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBytes, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func errorMessage(b []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(b, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(b))
}

func setsPath(exerciseID int64, day model.Day) string {
	return fmt.Sprintf("/api/days/%s/exercises/%d/sets", day, exerciseID)
}

func (c *HTTPClient) CheckSession(ctx context.Context) (model.User, error) {
	var u model.User
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &u)
	return u, err
}

func (c *HTTPClient) Login(ctx context.Context, in model.LoginInput) (model.Session, error) {
	var s model.Session
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, in, &s); err != nil {
		return s, err
	}
	if err := c.saveCookies(); err != nil {
		return s, fmt.Errorf("save session cookie: %w", err)
	}
	return s, nil
}

func (c *HTTPClient) Register(ctx context.Context, in model.RegisterInput) (model.Session, error) {
	var s model.Session
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, in, &s); err != nil {
		return s, err
	}
	if err := c.saveCookies(); err != nil {
		return s, fmt.Errorf("save session cookie: %w", err)
	}
	return s, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil)
	if c.cookiePath != "" {
		if rmErr := os.Remove(c.cookiePath); rmErr != nil && !os.IsNotExist(rmErr) && err == nil {
			err = rmErr
		}
	}
	return err
}

func (c *HTTPClient) DailyPlans(ctx context.Context) ([]model.Plan, error) {
	var plans []model.Plan
	err := c.do(ctx, http.MethodGet, "/api/plans/daily", nil, nil, &plans)
	return plans, err
}

func (c *HTTPClient) CreatePlan(ctx context.Context, name string, weekday *int) (model.Plan, error) {
	var p model.Plan
	body := map[string]any{"name": name, "day_of_week": weekday}
	err := c.do(ctx, http.MethodPost, "/api/plans", nil, body, &p)
	return p, err
}

func (c *HTTPClient) AddPlanExercise(ctx context.Context, planID, exerciseID int64, targetSets *int) error {
	body := map[string]any{"exercise_id": exerciseID, "target_sets": targetSets}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/plans/%d/exercises", planID), nil, body, nil)
}

func (c *HTTPClient) RemovePlanExercise(ctx context.Context, planID, exerciseID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/plans/%d/exercises/%d", planID, exerciseID), nil, nil, nil)
}

func (c *HTTPClient) Exercises(ctx context.Context) ([]model.Exercise, error) {
	var out []model.Exercise
	err := c.do(ctx, http.MethodGet, "/api/exercises", nil, nil, &out)
	return out, err
}

func (c *HTTPClient) CreateExercise(ctx context.Context, name string) (model.Exercise, error) {
	var ex model.Exercise
	err := c.do(ctx, http.MethodPost, "/api/exercises", nil, map[string]any{"name": name}, &ex)
	return ex, err
}

func (c *HTTPClient) UpdateExercise(ctx context.Context, id int64, in model.ExerciseUpdate) (model.Exercise, error) {
	var ex model.Exercise
	err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/exercises/%d", id), nil, in, &ex)
	return ex, err
}

func (c *HTTPClient) ArchiveExercise(ctx context.Context, id int64) (model.Exercise, error) {
	var ex model.Exercise
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/exercises/%d/archive", id), nil, nil, &ex)
	return ex, err
}

func (c *HTTPClient) DaySets(ctx context.Context, exerciseID int64, day model.Day) ([]model.WorkoutSet, error) {
	var out model.DaySets
	if err := c.do(ctx, http.MethodGet, setsPath(exerciseID, day), nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Sets, nil
}

func (c *HTTPClient) UpsertSet(ctx context.Context, exerciseID int64, day model.Day, setNumber int, in model.SetInput) (model.WorkoutSet, error) {
	var out model.WorkoutSet
	path := setsPath(exerciseID, day) + "/" + strconv.Itoa(setNumber)
	if err := c.do(ctx, http.MethodPut, path, nil, in, &out); err != nil {
		return out, err
	}
	c.invalidateHistory(exerciseID)
	return out, nil
}

func (c *HTTPClient) DeleteSet(ctx context.Context, exerciseID int64, day model.Day, setNumber int) error {
	path := setsPath(exerciseID, day) + "/" + strconv.Itoa(setNumber)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return err
	}
	c.invalidateHistory(exerciseID)
	return nil
}

func (c *HTTPClient) historyKey(exerciseID int64, q model.HistoryQuery) []byte {
	c.genMu.Lock()
	gen := c.gen[exerciseID]
	c.genMu.Unlock()
	var start, end string
	if q.Start != nil {
		start = q.Start.String()
	}
	if q.End != nil {
		end = q.End.String()
	}
	return []byte(fmt.Sprintf("history::%d::%d::%s::%s", exerciseID, gen, start, end))
}

// invalidateHistory bumps the exercise's generation so older cache keys are
// never read again; they age out of freecache on their own.
func (c *HTTPClient) invalidateHistory(exerciseID int64) {
	c.genMu.Lock()
	c.gen[exerciseID]++
	c.genMu.Unlock()
}

func (c *HTTPClient) ExerciseHistory(ctx context.Context, exerciseID int64, q model.HistoryQuery) ([]model.WorkoutSet, error) {
	key := c.historyKey(exerciseID, q)
	if b, err := c.cache.Get(key); err == nil {
		var cached []model.WorkoutSet
		if err := json.Unmarshal(b, &cached); err == nil {
			log.Tracef("api: history for exercise %d served from cache", exerciseID)
			return cached, nil
		}
		log.Errorf("api: dropping undecodable history cache entry for exercise %d", exerciseID)
		c.cache.Del(key)
	}

	vals := url.Values{}
	if q.Start != nil {
		vals.Set("start", q.Start.String())
	}
	if q.End != nil {
		vals.Set("end", q.End.String())
	}
	var out []model.WorkoutSet
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/exercises/%d/history", exerciseID), vals, nil, &out); err != nil {
		return nil, err
	}

	if b, err := json.Marshal(out); err == nil {
		if err := c.cache.Set(key, b, int(c.cacheTTL.Seconds())); err != nil {
			log.Debugf("api: history cache set for exercise %d: %s", exerciseID, err)
		}
	}
	return out, nil
}

// Graph asks the server for a computed series over the whole history. The
// server caps it at its own point limit.
func (c *HTTPClient) Graph(ctx context.Context, exerciseID int64, m model.Metric) (model.Graph, error) {
	vals := url.Values{}
	vals.Set("metric", m.String())
	var g model.Graph
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/exercises/%d/graph", exerciseID), vals, nil, &g)
	return g, err
}

func (c *HTTPClient) Activity(ctx context.Context, q model.ActivityQuery) ([]model.ActivityDay, error) {
	vals := url.Values{}
	vals.Set("start", q.Start.String())
	vals.Set("end", q.End.String())
	var out struct {
		Days []model.ActivityDay `json:"days"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/activity/days", vals, nil, &out); err != nil {
		return nil, err
	}
	return out.Days, nil
}
