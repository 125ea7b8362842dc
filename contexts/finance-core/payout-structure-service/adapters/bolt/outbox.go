package boltadapter

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	domainerrors "rewardsplit/contexts/finance-core/payout-structure-service/domain/errors"
	"rewardsplit/contexts/finance-core/payout-structure-service/ports"

	"go.etcd.io/bbolt"
)

var (
	bucketPending   = []byte("outbox_pending")
	bucketIndex     = []byte("outbox_index")
	bucketPublished = []byte("outbox_published")
)

// OutboxStore is a single-node durable outbox for deployments that run
// without PostgreSQL. Pending messages are keyed by an insertion sequence so
// a cursor walk yields them in append order.
type OutboxStore struct {
	db *bbolt.DB
}

type outboxRecord struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
	PublishedAt  time.Time
}

// OpenOutboxStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenOutboxStore(dbPath string) (*OutboxStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("outbox: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("outbox: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketPending, bucketIndex, bucketPublished} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("outbox: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &OutboxStore{db: db}, nil
}

func (s *OutboxStore) Close() error { return s.db.Close() }

func (s *OutboxStore) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		return domainerrors.ErrInvalidInput
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		index := tx.Bucket(bucketIndex)
		if key := index.Get([]byte(outboxID)); key != nil {
			existing, err := loadRecord(tx, key)
			if err != nil {
				return err
			}
			if !bytes.Equal(existing.Payload, payload) {
				return domainerrors.ErrOutboxConflict
			}
			return nil
		}

		pending := tx.Bucket(bucketPending)
		seq, err := pending.NextSequence()
		if err != nil {
			return fmt.Errorf("outbox: next sequence: %w", err)
		}
		key := sequenceKey(seq)
		data, err := encodeGob(outboxRecord{
			OutboxID:     outboxID,
			EventType:    envelope.EventType,
			PartitionKey: envelope.PartitionKey,
			Payload:      payload,
			CreatedAt:    envelope.OccurredAt.UTC(),
		})
		if err != nil {
			return fmt.Errorf("outbox: encode record: %w", err)
		}
		if err := pending.Put(key, data); err != nil {
			return fmt.Errorf("outbox: put pending: %w", err)
		}
		if err := index.Put([]byte(outboxID), key); err != nil {
			return fmt.Errorf("outbox: put index: %w", err)
		}
		return nil
	})
}

func (s *OutboxStore) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0)
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketPending).Cursor()
		for k, v := c.First(); k != nil && len(items) < limit; k, v = c.Next() {
			var record outboxRecord
			if err := decodeGob(v, &record); err != nil {
				return fmt.Errorf("outbox: decode pending: %w", err)
			}
			items = append(items, ports.OutboxMessage{
				OutboxID:     record.OutboxID,
				EventType:    record.EventType,
				PartitionKey: record.PartitionKey,
				Payload:      append([]byte(nil), record.Payload...),
				CreatedAt:    record.CreatedAt.UTC(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// MarkOutboxPublished moves a message from the pending bucket to the
// published bucket under the same sequence key.
func (s *OutboxStore) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	id := []byte(strings.TrimSpace(outboxID))
	return s.db.Update(func(tx *bbolt.Tx) error {
		key := tx.Bucket(bucketIndex).Get(id)
		if key == nil {
			return domainerrors.ErrOutboxNotFound
		}
		pending := tx.Bucket(bucketPending)
		data := pending.Get(key)
		if data == nil {
			// Already published.
			return nil
		}
		var record outboxRecord
		if err := decodeGob(data, &record); err != nil {
			return fmt.Errorf("outbox: decode pending: %w", err)
		}
		record.PublishedAt = publishedAt.UTC()
		encoded, err := encodeGob(record)
		if err != nil {
			return fmt.Errorf("outbox: encode record: %w", err)
		}
		if err := tx.Bucket(bucketPublished).Put(append([]byte(nil), key...), encoded); err != nil {
			return fmt.Errorf("outbox: put published: %w", err)
		}
		return pending.Delete(key)
	})
}

func loadRecord(tx *bbolt.Tx, key []byte) (outboxRecord, error) {
	var record outboxRecord
	data := tx.Bucket(bucketPending).Get(key)
	if data == nil {
		data = tx.Bucket(bucketPublished).Get(key)
	}
	if data == nil {
		return record, domainerrors.ErrOutboxNotFound
	}
	if err := decodeGob(data, &record); err != nil {
		return record, fmt.Errorf("outbox: decode record: %w", err)
	}
	return record, nil
}

// sequenceKey encodes a sequence as an 8-byte big-endian key for sorted storage.
func sequenceKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}

func encodeGob(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeGob(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

var _ ports.OutboxWriter = (*OutboxStore)(nil)
var _ ports.OutboxRepository = (*OutboxStore)(nil)
