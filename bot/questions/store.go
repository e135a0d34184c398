package questions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/codewithmemo/memobot/core/logger"
	"log/slog"
)

// Record is a single question with its optional answer. Records are stored
// as one JSON array in a flat file; answer fields stay absent until the
// record is answered.
type Record struct {
	ID         int64      `json:"id"`
	AskerID    int64      `json:"askerId"`
	AskerName  string     `json:"askerName"`
	Body       string     `json:"body"`
	CreatedAt  time.Time  `json:"createdAt"`
	Answered   bool       `json:"answered"`
	Answer     string     `json:"answer,omitempty"`
	AnsweredBy string     `json:"answeredBy,omitempty"`
	AnsweredAt *time.Time `json:"answeredAt,omitempty"`
}

// Store persists question records.
type Store interface {
	// Append assigns the next id, persists the record and returns it.
	Append(ctx context.Context, rec Record) (Record, error)
	// ListUnanswered returns unanswered records in ascending id order.
	ListUnanswered(ctx context.Context) ([]Record, error)
	// FindByID returns the record with the given id, if present.
	FindByID(ctx context.Context, id int64) (Record, bool, error)
	// MarkAnswered sets the answer fields on the record with the given id.
	// It reports false when no record has that id. An already answered
	// record is overwritten.
	MarkAnswered(ctx context.Context, id int64, answer, answeredBy string) (bool, error)
}

// FileStore keeps every record in a single JSON array file. Each mutation
// loads the whole collection, applies the change and rewrites the file.
// Calls are serialized by a mutex so load-mutate-persist stays atomic.
type FileStore struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// Option customises a FileStore.
type Option func(*FileStore)

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *FileStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewFileStore creates a store backed by the given file path and ensures
// the parent directory exists.
func NewFileStore(path string, opts ...Option) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("questions: empty store path")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("questions: create store dir: %w", err)
		}
	}
	s := &FileStore{path: path, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// load reads the whole collection. Missing or corrupt files downgrade to
// an empty list so a damaged store never blocks the bot.
func (s *FileStore) load(ctx context.Context) []Record {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.LogEvent(ctx, logger.Store, slog.LevelWarn, "store.read_failed",
				slog.String("path", s.path),
				slog.String("err", err.Error()),
			)
		}
		return nil
	}
	var recs []Record
	if err := json.Unmarshal(data, &recs); err != nil {
		logger.LogEvent(ctx, logger.Store, slog.LevelWarn, "store.corrupt",
			slog.String("path", s.path),
			slog.String("err", err.Error()),
		)
		return nil
	}
	return recs
}

func (s *FileStore) persist(recs []Record) error {
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("questions: encode store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("questions: write store: %w", err)
	}
	return nil
}

// Append implements Store. Ids are assigned as max existing id + 1,
// starting at 1 for an empty store.
func (s *FileStore) Append(ctx context.Context, rec Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	recs := s.load(ctx)
	var maxID int64
	for _, r := range recs {
		if r.ID > maxID {
			maxID = r.ID
		}
	}
	rec.ID = maxID + 1
	rec.Answered = false
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	recs = append(recs, rec)
	if err := s.persist(recs); err != nil {
		return Record{}, err
	}

	logger.LogEvent(ctx, logger.Store, slog.LevelDebug, "store.append",
		slog.Int64("question_id", rec.ID),
		slog.Int64("asker_id", rec.AskerID),
	)
	return rec, nil
}

// ListUnanswered implements Store.
func (s *FileStore) ListUnanswered(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var pending []Record
	for _, r := range s.load(ctx) {
		if !r.Answered {
			pending = append(pending, r)
		}
	}
	return pending, nil
}

// FindByID implements Store.
func (s *FileStore) FindByID(ctx context.Context, id int64) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Record{}, false, err
	}

	for _, r := range s.load(ctx) {
		if r.ID == id {
			return r, true, nil
		}
	}
	return Record{}, false, nil
}

// MarkAnswered implements Store.
func (s *FileStore) MarkAnswered(ctx context.Context, id int64, answer, answeredBy string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return false, err
	}

	recs := s.load(ctx)
	for i := range recs {
		if recs[i].ID != id {
			continue
		}
		now := s.now()
		recs[i].Answered = true
		recs[i].Answer = answer
		recs[i].AnsweredBy = answeredBy
		recs[i].AnsweredAt = &now
		if err := s.persist(recs); err != nil {
			return false, err
		}
		logger.LogEvent(ctx, logger.Store, slog.LevelDebug, "store.answered",
			slog.Int64("question_id", id),
		)
		return true, nil
	}
	return false, nil
}
