package companion

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSnapshotStale rejects a snapshot whose pet has less XP than the stored
// one. Only a reset event lowers XP.
var ErrSnapshotStale = errors.New("companion: snapshot would reduce xp")

// Machine applies events to each owner's State one at a time. Every applied
// event is persisted before the new state becomes visible. With a store,
// state is read from it on every access; states only holds owners of a
// store-less machine.
type Machine struct {
	mu      sync.Mutex
	store   SnapshotStore
	states  map[string]State
	petName string
	now     func() time.Time
	logger  *zap.Logger
}

// NewMachine creates a Machine. A nil store keeps state in memory only.
func NewMachine(store SnapshotStore, petName string, logger *zap.Logger) *Machine {
	return &Machine{
		store:   store,
		states:  make(map[string]State),
		petName: petName,
		now:     time.Now,
		logger:  logger,
	}
}

// SetClock overrides the time source (tests).
func (m *Machine) SetClock(now func() time.Time) {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
}

// State returns the owner's current state.
func (m *Machine) State(ctx context.Context, owner string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(ctx, owner)
}

// Dispatch applies ev to the owner's state. A rejected event returns the
// unchanged state, its Result and Result.Err.
func (m *Machine) Dispatch(ctx context.Context, owner string, ev Event) (State, Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, err := m.load(ctx, owner)
	if err != nil {
		return State{}, Result{}, err
	}
	if add, ok := ev.(AddTask); ok && add.ID == "" {
		add.ID = uuid.New().String()
		ev = add
	}

	next, res := Reduce(cur, ev, m.now())
	if res.Err != nil {
		return cur, res, res.Err
	}
	if !res.Applied {
		return cur, res, nil
	}
	if err := m.save(ctx, owner, next); err != nil {
		return cur, Result{}, err
	}
	m.logger.Debug("companion event applied",
		zap.String("owner", owner),
		zap.String("event", ev.Name()),
		zap.Int("xp", next.Pet.XP),
		zap.String("stage", string(next.Pet.Stage)))
	return next, res, nil
}

// Replace stores a client-provided snapshot as the owner's state. A snapshot
// with less pet XP than the current state is refused with ErrSnapshotStale.
func (m *Machine) Replace(ctx context.Context, owner string, data []byte) (State, error) {
	st, err := DecodeSnapshot(data, m.petName)
	if err != nil {
		return State{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, err := m.load(ctx, owner)
	if err != nil {
		return State{}, err
	}
	if st.Pet.XP < cur.Pet.XP {
		return State{}, fmt.Errorf("%w: %d < %d", ErrSnapshotStale, st.Pet.XP, cur.Pet.XP)
	}
	if err := m.save(ctx, owner, st); err != nil {
		return State{}, err
	}
	return st, nil
}

// Forget drops the owner's in-memory state.
func (m *Machine) Forget(owner string) {
	m.mu.Lock()
	delete(m.states, owner)
	m.mu.Unlock()
}

func (m *Machine) load(ctx context.Context, owner string) (State, error) {
	if m.store == nil {
		st, ok := m.states[owner]
		if !ok {
			st = NewState(m.petName)
			m.states[owner] = st
		}
		return st, nil
	}
	data, err := m.store.Load(ctx, owner)
	switch {
	case errors.Is(err, ErrNoSnapshot):
		return NewState(m.petName), nil
	case err != nil:
		return State{}, err
	}
	return DecodeSnapshot(data, m.petName)
}

func (m *Machine) save(ctx context.Context, owner string, st State) error {
	if m.store != nil {
		data, err := EncodeSnapshot(st)
		if err != nil {
			return err
		}
		if err := m.store.Save(ctx, owner, data); err != nil {
			m.logger.Warn("companion snapshot save failed", zap.String("owner", owner), zap.Error(err))
			return err
		}
		return nil
	}
	m.states[owner] = st
	return nil
}
