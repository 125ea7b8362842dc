package application

import (
	"sync"

	"rewardsplit/contexts/finance-core/payout-structure-service/ports"
)

// EngineRegistry keeps one engine per live structure so that each total
// reward store carries exactly one engine subscription.
type EngineRegistry struct {
	mu      sync.Mutex
	engines map[string]*Engine
	opts    []EngineOption
}

func NewEngineRegistry(opts ...EngineOption) *EngineRegistry {
	return &EngineRegistry{
		engines: make(map[string]*Engine),
		opts:    opts,
	}
}

func (r *EngineRegistry) Resolve(session ports.Session) *Engine {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := session.Structure.StructureID
	if engine, ok := r.engines[id]; ok {
		return engine
	}
	engine := NewEngine(session.Rows, session.TotalReward, r.opts...)
	r.engines[id] = engine
	return engine
}

func (r *EngineRegistry) Release(structureID string) {
	r.mu.Lock()
	engine, ok := r.engines[structureID]
	delete(r.engines, structureID)
	r.mu.Unlock()

	if ok {
		engine.Close()
	}
}

func (r *EngineRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.engines)
}
