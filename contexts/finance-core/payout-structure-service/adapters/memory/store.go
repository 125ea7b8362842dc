package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"rewardsplit/contexts/finance-core/payout-structure-service/domain/entities"
	domainerrors "rewardsplit/contexts/finance-core/payout-structure-service/domain/errors"
	"rewardsplit/contexts/finance-core/payout-structure-service/ports"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
)

type Store struct {
	mu sync.RWMutex

	clock    clockwork.Clock
	sessions map[string]ports.Session
	outbox   map[string]outboxRecord
	sequence int64
}

type outboxRecord struct {
	Message     ports.OutboxMessage
	Sequence    int64
	Status      string
	PublishedAt *time.Time
}

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

func NewStore() *Store {
	return NewStoreWithClock(clockwork.NewRealClock())
}

// NewStoreWithClock lets tests drive Now with a clockwork.FakeClock.
func NewStoreWithClock(clock clockwork.Clock) *Store {
	return &Store{
		clock:    clock,
		sessions: make(map[string]ports.Session),
		outbox:   make(map[string]outboxRecord),
	}
}

func (s *Store) CreateStructure(_ context.Context, structure entities.Structure, totalReward decimal.Decimal) (ports.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(structure.StructureID)
	if id == "" {
		return ports.Session{}, domainerrors.ErrInvalidInput
	}
	if _, exists := s.sessions[id]; exists {
		return ports.Session{}, domainerrors.ErrConflict
	}
	structure.StructureID = id
	session := ports.Session{
		Structure:   structure,
		Rows:        NewRowStore(),
		TotalReward: NewTotalRewardStore(totalReward),
	}
	s.sessions[id] = session
	return session, nil
}

func (s *Store) GetStructure(_ context.Context, structureID string) (ports.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[strings.TrimSpace(structureID)]
	if !ok {
		return ports.Session{}, domainerrors.ErrStructureNotFound
	}
	return session, nil
}

func (s *Store) TouchStructure(_ context.Context, structureID string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(structureID)
	session, ok := s.sessions[id]
	if !ok {
		return domainerrors.ErrStructureNotFound
	}
	session.Structure.UpdatedAt = updatedAt.UTC()
	s.sessions[id] = session
	return nil
}

func (s *Store) DeleteStructure(_ context.Context, structureID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(structureID)
	if _, ok := s.sessions[id]; !ok {
		return domainerrors.ErrStructureNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		return domainerrors.ErrInvalidInput
	}

	if existing, ok := s.outbox[outboxID]; ok {
		if !bytes.Equal(existing.Message.Payload, payload) {
			return domainerrors.ErrOutboxConflict
		}
		return nil
	}

	s.sequence++
	s.outbox[outboxID] = outboxRecord{
		Message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    envelope.EventType,
			PartitionKey: envelope.PartitionKey,
			Payload:      payload,
			CreatedAt:    envelope.OccurredAt.UTC(),
		},
		Sequence: s.sequence,
		Status:   outboxStatusPending,
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	records := make([]outboxRecord, 0)
	for _, row := range s.outbox {
		if row.Status == outboxStatusPending {
			records = append(records, row)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Sequence < records[j].Sequence
	})
	if len(records) > limit {
		records = records[:limit]
	}
	items := make([]ports.OutboxMessage, 0, len(records))
	for _, row := range records {
		items = append(items, row.Message)
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrOutboxNotFound
	}
	ts := publishedAt.UTC()
	row.Status = outboxStatusPublished
	row.PublishedAt = &ts
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

func (s *Store) Now() time.Time {
	return s.clock.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
