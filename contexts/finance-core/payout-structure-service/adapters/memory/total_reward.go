package memory

import (
	"sync"

	"github.com/shopspring/decimal"
)

type subscriber struct {
	id int
	fn func(previous, current decimal.Decimal)
}

// TotalRewardStore holds one structure's total reward. Set notifies every
// subscriber synchronously in registration order, even when the value is
// unchanged.
type TotalRewardStore struct {
	mu          sync.Mutex
	value       decimal.Decimal
	nextID      int
	subscribers []subscriber
}

func NewTotalRewardStore(initial decimal.Decimal) *TotalRewardStore {
	return &TotalRewardStore{value: initial}
}

func (s *TotalRewardStore) Get() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

func (s *TotalRewardStore) Set(value decimal.Decimal) {
	s.mu.Lock()
	previous := s.value
	s.value = value
	subscribers := append([]subscriber(nil), s.subscribers...)
	s.mu.Unlock()

	// Callbacks run outside mu so that they may read the store.
	for _, sub := range subscribers {
		sub.fn(previous, value)
	}
}

func (s *TotalRewardStore) Subscribe(fn func(previous, current decimal.Decimal)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subscribers {
				if sub.id == id {
					s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *TotalRewardStore) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers)
}
