package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// QuotaState is the persisted rate-limit counter: how many pipeline runs have
// been attempted in the current window and when the window resets.
type QuotaState struct {
	Count int       `json:"count"`
	Reset time.Time `json:"reset"`
}

// QuotaStore persists quota state across restarts.
type QuotaStore interface {
	Load() (QuotaState, error)
	Save(state QuotaState) error
}

// Quota enforces a fixed number of pipeline runs per rolling time window.
// The counter resets to zero once the window elapses. Increment is called
// once per attempt, before the outcome is known.
type Quota struct {
	limit  int
	window time.Duration
	store  QuotaStore

	mu    sync.Mutex
	state QuotaState
}

func NewQuota(limit int, window time.Duration, store QuotaStore) (*Quota, error) {
	state, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load rate limit state: %w", err)
	}

	q := &Quota{
		limit:  limit,
		window: window,
		store:  store,
		state:  state,
	}
	q.mu.Lock()
	q.expireLocked(time.Now())
	q.mu.Unlock()
	return q, nil
}

// expireLocked clears the counter when the window has passed.
func (q *Quota) expireLocked(now time.Time) {
	if !q.state.Reset.IsZero() && now.After(q.state.Reset) {
		q.state = QuotaState{}
	}
}

// IsLimited reports whether the quota is exhausted for the current window.
func (q *Quota) IsLimited() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.expireLocked(time.Now())
	return q.state.Count >= q.limit
}

// Remaining returns how many runs are left in the current window.
func (q *Quota) Remaining() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.expireLocked(time.Now())
	if remaining := q.limit - q.state.Count; remaining > 0 {
		return remaining
	}
	return 0
}

// ResetAt returns when the current window ends. The zero time means no
// window is open yet.
func (q *Quota) ResetAt() time.Time {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.expireLocked(time.Now())
	return q.state.Reset
}

// Increment records one attempt, opening a new window if none is active,
// and persists the new state.
func (q *Quota) Increment() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := time.Now()
	q.expireLocked(now)
	if q.state.Reset.IsZero() {
		q.state.Reset = now.Add(q.window)
	}
	q.state.Count++
	return q.store.Save(q.state)
}

// FileQuotaStore persists quota state in a JSON file under the data dir.
type FileQuotaStore struct {
	filePath string
}

func NewFileQuotaStore(dataDir string) (*FileQuotaStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileQuotaStore{filePath: filepath.Join(dataDir, "ratelimit.json")}, nil
}

func (s *FileQuotaStore) Load() (QuotaState, error) {
	var state QuotaState
	file, err := os.Open(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return state, nil
		}
		return state, fmt.Errorf("failed to open rate limit file: %w", err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&state); err != nil {
		return QuotaState{}, fmt.Errorf("failed to decode rate limit data: %w", err)
	}
	return state, nil
}

func (s *FileQuotaStore) Save(state QuotaState) error {
	file, err := os.Create(s.filePath)
	if err != nil {
		return fmt.Errorf("failed to create rate limit file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(state)
}
