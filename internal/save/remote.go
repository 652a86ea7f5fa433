package save

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/kosmodromgames/galactic-clicker/internal/platform"
)

const leaderboardCacheTTL = 60 * time.Second

// Client talks to the persistence server for one identified player.
type Client struct {
	baseURL string
	user    platform.User
	http    *http.Client

	lbMu        sync.Mutex
	lbCached    []LeaderboardEntry
	lbFetchedAt time.Time
}

func NewClient(baseURL string, user platform.User) *Client {
	return &Client{
		baseURL: baseURL,
		user:    user,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) User() platform.User { return c.user }

// remoteProgress is the server's GET payload: the snapshot plus the server
// side persistence format version.
type remoteProgress struct {
	Snapshot
	DBVersion int `json:"db_version"`
}

// progressUpload is the POST body.
type progressUpload struct {
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`
	Snapshot
}

// FetchProgress pulls the authoritative server copy. found is false on a
// 204 or any non-2xx status.
func (c *Client) FetchProgress(ctx context.Context) (snap Snapshot, version int, found bool, err error) {
	q := url.Values{"user_id": {c.user.ID}}
	if c.user.Username != "" {
		q.Set("username", c.user.Username)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/clicker?"+q.Encode(), nil)
	if err != nil {
		return Snapshot{}, 0, false, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Snapshot{}, 0, false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNoContent {
		return Snapshot{}, 0, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return Snapshot{}, 0, false, fmt.Errorf("fetch progress: status %d", resp.StatusCode)
	}
	var body remoteProgress
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Snapshot{}, 0, false, fmt.Errorf("decode progress: %w", err)
	}
	return body.Snapshot, body.DBVersion, true, nil
}

// CheckVersion asks the server whether a stored version token is still
// current. A 200 means current, any other status means stale.
func (c *Client) CheckVersion(ctx context.Context, version int) (bool, error) {
	u := c.baseURL + "/api/version-check?db_version=" + strconv.Itoa(version)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}

// SendProgress uploads a snapshot. Callers decide whether failures are
// fatal; the debounced save path logs and drops them.
func (c *Client) SendProgress(ctx context.Context, snap Snapshot) error {
	payload := progressUpload{
		UserID:   c.user.ID,
		Username: c.user.Username,
		Snapshot: snap,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode upload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/clicker", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("send progress: status %d", resp.StatusCode)
	}
	return nil
}

// LeaderboardEntry is one row of the standings.
type LeaderboardEntry struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Score    int64  `json:"score"`
	Level    int    `json:"level"`
}

type leaderboardResponse struct {
	Items []LeaderboardEntry `json:"items"`
}

// Leaderboard returns the current standings. Results are cached for a
// minute; force bypasses the cache.
func (c *Client) Leaderboard(ctx context.Context, limit int, force bool) ([]LeaderboardEntry, error) {
	c.lbMu.Lock()
	if !force && c.lbCached != nil && time.Since(c.lbFetchedAt) < leaderboardCacheTTL {
		cached := c.lbCached
		c.lbMu.Unlock()
		return cached, nil
	}
	c.lbMu.Unlock()

	u := c.baseURL + "/api/leaderboard"
	if limit > 0 {
		u += "?limit=" + strconv.Itoa(limit)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("leaderboard: status %d", resp.StatusCode)
	}
	var body leaderboardResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode leaderboard: %w", err)
	}

	c.lbMu.Lock()
	c.lbCached = body.Items
	c.lbFetchedAt = time.Now()
	c.lbMu.Unlock()
	return body.Items, nil
}
