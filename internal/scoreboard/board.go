// Package scoreboard keeps the list of finished quiz scores.
package scoreboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/asake/internal/model"
)

// ScoresKey is the key the score list is stored under.
const ScoresKey = "asake_scores"

// DateLayout formats record dates.
const DateLayout = "2006-01-02"

var (
	// ErrEmptyName is returned when a manual entry has no name.
	ErrEmptyName = errors.New("name is empty")
	// ErrInvalidScore is returned for scores outside 0-100.
	ErrInvalidScore = errors.New("score must be an integer between 0 and 100")
	// ErrRecordNotFound is returned for an out-of-range record index.
	ErrRecordNotFound = errors.New("score record not found")
)

// KV is a key-value blob store.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// ScoreStore loads and saves the whole score list.
type ScoreStore interface {
	Load(ctx context.Context) ([]model.ScoreRecord, bool, error)
	Save(ctx context.Context, records []model.ScoreRecord) error
}

// KVStore keeps the score list as a JSON blob in a KV.
type KVStore struct {
	kv  KV
	key string
}

// NewKVStore returns a ScoreStore backed by kv under ScoresKey.
func NewKVStore(kv KV) *KVStore {
	return &KVStore{kv: kv, key: ScoresKey}
}

// Load returns the stored list. ok is false when nothing was saved yet.
func (s *KVStore) Load(ctx context.Context) ([]model.ScoreRecord, bool, error) {
	data, ok, err := s.kv.Get(ctx, s.key)
	if err != nil || !ok {
		return nil, false, err
	}
	var records []model.ScoreRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, false, fmt.Errorf("decode scores: %w", err)
	}
	return records, true, nil
}

// Save replaces the stored list.
func (s *KVStore) Save(ctx context.Context, records []model.ScoreRecord) error {
	if records == nil {
		records = []model.ScoreRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode scores: %w", err)
	}
	return s.kv.Put(ctx, s.key, data)
}

// Board is the in-memory scoreboard, written through to a ScoreStore.
type Board struct {
	store    ScoreStore
	seedPath string
	records  []model.ScoreRecord
	now      func() time.Time
}

// NewBoard returns an empty board. seedPath, when set, names a JSON file used
// to populate the board when the store holds nothing yet.
func NewBoard(store ScoreStore, seedPath string) *Board {
	return &Board{store: store, seedPath: seedPath, now: time.Now}
}

// Load reads saved records, falling back to the seed file.
func (b *Board) Load(ctx context.Context) error {
	records, ok, err := b.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load scores: %w", err)
	}
	if !ok && b.seedPath != "" {
		records, err = loadSeed(b.seedPath)
		if err != nil {
			return err
		}
	}
	b.records = records
	return nil
}

func loadSeed(path string) ([]model.ScoreRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scoreboard seed: %w", err)
	}
	var records []model.ScoreRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode scoreboard seed: %w", err)
	}
	return records, nil
}

// Records returns a copy of the current rows.
func (b *Board) Records() []model.ScoreRecord {
	return append([]model.ScoreRecord(nil), b.records...)
}

// Record appends a finished session. The row stays on the board when saving fails.
func (b *Board) Record(ctx context.Context, result model.SessionResult) error {
	b.records = append(b.records, FromResult(result))
	return b.save(ctx)
}

// Add appends a manual entry dated today.
func (b *Board) Add(ctx context.Context, name string, score int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if err := checkScore(score); err != nil {
		return err
	}
	b.records = append(b.records, model.ScoreRecord{
		Name:  name,
		Score: score,
		Date:  b.now().Format(DateLayout),
	})
	return b.save(ctx)
}

// Edit replaces the score of the row at index.
func (b *Board) Edit(ctx context.Context, index, score int) error {
	if index < 0 || index >= len(b.records) {
		return fmt.Errorf("%w: index %d", ErrRecordNotFound, index)
	}
	if err := checkScore(score); err != nil {
		return err
	}
	b.records[index].Score = score
	return b.save(ctx)
}

func (b *Board) save(ctx context.Context) error {
	if err := b.store.Save(ctx, b.records); err != nil {
		return fmt.Errorf("save scores: %w", err)
	}
	return nil
}

// FromResult converts a session result into a scoreboard row.
func FromResult(result model.SessionResult) model.ScoreRecord {
	return model.ScoreRecord{
		Name:      result.Username,
		Score:     result.ScorePercent,
		Date:      result.Timestamp.Format(DateLayout),
		Total:     result.TotalQuestions,
		Correct:   result.CorrectCount,
		SessionID: result.SessionID,
	}
}

// ParseScore parses user input into a valid score.
func ParseScore(raw string) (int, error) {
	score, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%")))
	if err != nil {
		return 0, ErrInvalidScore
	}
	if err := checkScore(score); err != nil {
		return 0, err
	}
	return score, nil
}

func checkScore(score int) error {
	if score < 0 || score > 100 {
		return ErrInvalidScore
	}
	return nil
}
