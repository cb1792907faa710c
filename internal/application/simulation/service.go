package simulation

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/andrescamacho/factorysim-go/internal/application/common"
	"github.com/andrescamacho/factorysim-go/internal/domain/session"
	"github.com/andrescamacho/factorysim-go/internal/domain/shared"
	domain "github.com/andrescamacho/factorysim-go/internal/domain/simulation"
)

// SessionResult is what every session command answers with
type SessionResult struct {
	SessionID string          `json:"sessionID"`
	Name      string          `json:"name,omitempty"`
	Cycle     int             `json:"cycle"`
	Document  json.RawMessage `json:"jsonData"`
	Output    []string        `json:"output"`
	Value     interface{}     `json:"value,omitempty"`
}

// Service loads a session, runs one command on its simulation and saves it back. Commands
// on the same session are serialized; different sessions run in parallel.
type Service struct {
	sessions session.Repository
	events   session.EventLog
	codec    SnapshotCodec
	opts     domain.Options
	clock    shared.Clock
	observer Observer

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService wires a session service. events and observer may be nil.
func NewService(
	sessions session.Repository,
	events session.EventLog,
	codec SnapshotCodec,
	opts domain.Options,
	clock shared.Clock,
	observer Observer,
) *Service {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &Service{
		sessions: sessions,
		events:   events,
		codec:    codec,
		opts:     opts,
		clock:    clock,
		observer: observer,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (s *Service) lock(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func (s *Service) forget(id string) {
	s.mu.Lock()
	delete(s.locks, id)
	s.mu.Unlock()
}

// Create stores a new session holding config, or an empty simulation when config is empty
func (s *Service) Create(ctx context.Context, name string, config []byte) (*SessionResult, error) {
	sim, err := s.codec.Decode(config, s.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	sess := &session.Session{ID: uuid.NewString(), Name: name}
	result, err := s.save(ctx, sess, sim, nil)
	if err != nil {
		return nil, err
	}

	common.LoggerFromContext(ctx).Log("INFO", "session created", map[string]interface{}{
		"session_id": sess.ID,
		"name":       name,
		"buildings":  len(sim.Buildings()),
	})
	return result, nil
}

// Replace swaps the simulation of an existing session for config
func (s *Service) Replace(ctx context.Context, id string, config []byte) (*SessionResult, error) {
	unlock := s.lock(id)
	defer unlock()

	sess, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sim, err := s.codec.Decode(config, s.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := sim.SetVerbosity(sess.Verbosity); err != nil {
		return nil, err
	}
	return s.save(ctx, sess, sim, nil)
}

// Get returns the stored document of a session without running anything
func (s *Service) Get(ctx context.Context, id string, eventLimit int) (*SessionResult, error) {
	sess, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := &SessionResult{
		SessionID: sess.ID,
		Name:      sess.Name,
		Cycle:     sess.Cycle,
		Document:  json.RawMessage(sess.Document),
	}
	if s.events != nil && eventLimit > 0 {
		lines, err := s.events.Recent(ctx, id, eventLimit)
		if err != nil {
			return nil, err
		}
		for _, l := range lines {
			result.Output = append(result.Output, l.Message)
		}
	}
	return result, nil
}

// Open decodes the stored simulation of a session for read-only use
func (s *Service) Open(ctx context.Context, id string) (*domain.Simulation, error) {
	sess, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.codec.Decode(sess.Document, s.opts)
}

func (s *Service) List(ctx context.Context) ([]*session.Session, error) {
	return s.sessions.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	unlock := s.lock(id)
	defer unlock()
	if err := s.sessions.Delete(ctx, id); err != nil {
		return err
	}
	s.forget(id)
	if f, ok := s.observer.(interface{ Forget(sessionID string) }); ok {
		f.Forget(id)
	}
	return nil
}

// Run applies action to the session's simulation. The session is saved only when the action
// succeeds and changes state.
func (s *Service) Run(ctx context.Context, id string, action Action) (*SessionResult, error) {
	unlock := s.lock(id)
	defer unlock()

	sess, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sim, err := s.codec.Decode(sess.Document, s.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to restore session %s: %w", id, err)
	}
	if err := sim.SetVerbosity(sess.Verbosity); err != nil {
		return nil, err
	}
	sink := NewLoggerSink(ctx, id, s.clock, s.observer)
	sim.Subscribe(sink)

	value, err := action.apply(sim)
	if err != nil {
		return nil, err
	}
	if !action.mutates() {
		return &SessionResult{
			SessionID: sess.ID,
			Name:      sess.Name,
			Cycle:     sim.Cycle(),
			Document:  json.RawMessage(sess.Document),
			Output:    sink.Output(),
			Value:     value,
		}, nil
	}

	result, err := s.save(ctx, sess, sim, sink)
	if err != nil {
		return nil, err
	}
	result.Value = value
	return result, nil
}

func (s *Service) save(ctx context.Context, sess *session.Session, sim *domain.Simulation, sink *LoggerSink) (*SessionResult, error) {
	doc, err := s.codec.Encode(sim)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session %s: %w", sess.ID, err)
	}
	sess.Document = doc
	sess.Cycle = sim.Cycle()
	sess.Verbosity = sim.Verbosity()
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	result := &SessionResult{
		SessionID: sess.ID,
		Name:      sess.Name,
		Cycle:     sess.Cycle,
		Document:  json.RawMessage(doc),
	}
	if sink != nil {
		result.Output = sink.Output()
		if s.events != nil {
			if err := s.events.Append(ctx, sink.Events()); err != nil {
				return nil, err
			}
		}
	}
	if s.observer != nil {
		s.observer.ObserveSimulation(sess.ID, sim)
	}
	return result, nil
}
