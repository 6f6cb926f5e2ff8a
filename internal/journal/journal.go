// Package journal keeps a local record of the messages this client sent to
// the daemon, newest last, in a bbolt file.
package journal

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/berrythewa/pueue/pkg/compression"
)

const (
	entriesBucket     = "entries"
	defaultMaxEntries = 1000
)

// Entry is one dispatched message.
type Entry struct {
	ID        string          `json:"id"`
	RequestID string          `json:"request_id,omitempty"`
	Kind      string          `json:"kind"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	SentAt    time.Time       `json:"sent_at"`
	Status    string          `json:"status"` // response status, or "unreachable"
	Reply     string          `json:"reply,omitempty"`
}

// stored is the on-disk form of an Entry.
type stored struct {
	Entry
	Payload    []byte `json:"payload,omitempty"`
	Compressed bool   `json:"compressed,omitempty"`
}

// Config holds configuration for Journal initialization
type Config struct {
	Path       string
	MaxEntries int
	Logger     *zap.Logger
}

// Journal is a bbolt-backed list of entries.
type Journal struct {
	db         *bbolt.DB
	maxEntries int
	logger     *zap.Logger
}

// Open creates or opens the journal file.
func Open(cfg Config) (*Journal, error) {
	maxEntries := cfg.MaxEntries
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := bbolt.Open(cfg.Path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(entriesBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &Journal{db: db, maxEntries: maxEntries, logger: logger}, nil
}

// Close releases the journal file.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record appends e, filling in ID and SentAt when empty, and drops the oldest
// entries beyond the configured maximum.
func (j *Journal) Record(e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.SentAt.IsZero() {
		e.SentAt = time.Now()
	}

	payload, compressed, err := compression.Compress(e.Payload)
	if err != nil {
		return e, fmt.Errorf("failed to compress payload: %w", err)
	}
	rec := stored{Entry: e, Payload: payload, Compressed: compressed}
	rec.Entry.Payload = nil

	data, err := json.Marshal(rec)
	if err != nil {
		return e, fmt.Errorf("failed to encode entry: %w", err)
	}

	err = j.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(entriesBucket))
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		if err := b.Put(itob(seq), data); err != nil {
			return err
		}
		return j.trim(b)
	})
	if err != nil {
		return e, fmt.Errorf("failed to record entry: %w", err)
	}

	j.logger.Debug("Journal entry recorded",
		zap.String("id", e.ID),
		zap.String("kind", e.Kind),
		zap.Bool("compressed", compressed))
	return e, nil
}

// trim deletes the oldest keys so at most maxEntries remain. Bucket stats
// lag behind uncommitted writes, so keys are counted with a cursor.
func (j *Journal) trim(b *bbolt.Bucket) error {
	excess := countKeys(b) - j.maxEntries
	if excess <= 0 {
		return nil
	}
	var stale [][]byte
	c := b.Cursor()
	for k, _ := c.First(); k != nil && len(stale) < excess; k, _ = c.Next() {
		stale = append(stale, append([]byte(nil), k...))
	}
	for _, k := range stale {
		if err := b.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

// List returns up to limit entries, newest first. limit <= 0 returns all.
func (j *Journal) List(limit int) ([]Entry, error) {
	var entries []Entry
	err := j.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(entriesBucket)).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(entries) >= limit {
				break
			}
			e, err := decodeEntry(v)
			if err != nil {
				return fmt.Errorf("entry %d: %w", binary.BigEndian.Uint64(k), err)
			}
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Count returns the number of entries.
func (j *Journal) Count() (int, error) {
	var n int
	err := j.db.View(func(tx *bbolt.Tx) error {
		n = countKeys(tx.Bucket([]byte(entriesBucket)))
		return nil
	})
	return n, err
}

func countKeys(b *bbolt.Bucket) int {
	var n int
	c := b.Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		n++
	}
	return n
}

// Clear removes every entry.
func (j *Journal) Clear() error {
	return j.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(entriesBucket)); err != nil {
			return err
		}
		_, err := tx.CreateBucket([]byte(entriesBucket))
		return err
	})
}

func decodeEntry(v []byte) (Entry, error) {
	var rec stored
	if err := json.Unmarshal(v, &rec); err != nil {
		return Entry{}, fmt.Errorf("failed to decode entry: %w", err)
	}
	payload, err := compression.Decompress(rec.Payload, rec.Compressed)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to decompress payload: %w", err)
	}
	e := rec.Entry
	if len(payload) > 0 {
		e.Payload = payload
	}
	return e, nil
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
