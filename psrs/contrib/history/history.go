// Package history keeps a persistent log of psrs runs in a bbolt database,
// so timings can be compared across array sizes, worker counts and machines.
package history

import (
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"go.etcd.io/bbolt"
)

var runsBucket = []byte("runs")

// Record is one psrs run.
type Record struct {
	Seq        uint64    `json:"seq"`
	Time       time.Time `json:"time"`
	ArraySize  int       `json:"array_size"`
	Threads    int       `json:"threads"`
	Seed       uint64    `json:"seed"`
	MaxValue   int64     `json:"max_value,omitempty"`
	PhaseMicro [4]int64  `json:"phase_micros"`
	TotalMicro int64     `json:"total_micros"`
	SeqMicro   int64     `json:"sequential_micros,omitempty"`
	Imbalance  float64   `json:"imbalance"`
	Verified   bool      `json:"verified"`
	Equivalent bool      `json:"equivalent"`
}

// Store is an open history database.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "opening history %s", path)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(runsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating runs bucket")
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append stores rec under the next sequence number and returns that number.
func (s *Store) Append(rec Record) (uint64, error) {
	var seq uint64
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(runsBucket)
		var err error
		seq, err = b.NextSequence()
		if err != nil {
			return err
		}
		rec.Seq = seq
		val, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return b.Put(seqKey(seq), val)
	})
	if err != nil {
		return 0, errors.Wrap(err, "appending run")
	}
	return seq, nil
}

// List returns up to limit records, newest first. limit <= 0 returns all.
func (s *Store) List(limit int) ([]Record, error) {
	var recs []Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(runsBucket).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(recs) >= limit {
				break
			}
			var rec Record
			if err := json.Unmarshal(v, &rec); err != nil {
				return errors.Wrapf(err, "decoding run %d", binary.BigEndian.Uint64(k))
			}
			recs = append(recs, rec)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "listing runs")
	}
	return recs, nil
}

// seqKey encodes seq big-endian so keys sort in insertion order.
func seqKey(seq uint64) []byte {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], seq)
	return k[:]
}
