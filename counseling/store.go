package counseling

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/mbolis/study-abroad/log"
)

// KV is a string key-value store, scoped to one user.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

func Key(university string) string {
	return "counseling_" + university
}

// Store keeps one Record per university. Reads fall back to DefaultRecord and
// write failures are logged, so callers never see an error from the backend.
type Store struct {
	kv KV
}

func NewStore(kv KV) *Store {
	return &Store{kv}
}

func (s *Store) Load(ctx context.Context, university string) Record {
	raw, ok, err := s.kv.Get(ctx, Key(university))
	if err != nil {
		log.WithField("university", university).WithError(err).Error("counseling.load")
		return DefaultRecord()
	}
	if !ok || raw == "" {
		return DefaultRecord()
	}

	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		log.WithField("university", university).WithError(err).Warn("counseling.load.parse")
		return DefaultRecord()
	}
	if !rec.Status.Valid() {
		rec.Status = StatusNotStarted
	}
	if rec.Checklist == nil {
		rec.Checklist = map[string]bool{}
	}
	return rec
}

func (s *Store) Save(ctx context.Context, university string, rec Record) {
	if rec.Checklist == nil {
		rec.Checklist = map[string]bool{}
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		log.WithField("university", university).WithError(err).Error("counseling.save.marshal")
		return
	}
	if err := s.kv.Set(ctx, Key(university), string(raw)); err != nil {
		log.WithField("university", university).WithError(err).Error("counseling.save")
	}
}

func (s *Store) SetStatus(ctx context.Context, university string, status Status) (Record, error) {
	if !status.Valid() {
		return Record{}, ErrInvalidStatus
	}
	return s.update(ctx, university, func(rec *Record) { rec.Status = status }), nil
}

func (s *Store) SetChecklistItem(ctx context.Context, university, item string, done bool) (Record, error) {
	if !IsChecklistItem(item) {
		return Record{}, ErrUnknownItem
	}
	return s.update(ctx, university, func(rec *Record) { rec.Checklist[item] = done }), nil
}

func (s *Store) SetNotes(ctx context.Context, university, notes string) Record {
	return s.update(ctx, university, func(rec *Record) { rec.Notes = notes })
}

func (s *Store) SetDeadline(ctx context.Context, university, deadline string) (Record, error) {
	if err := validateDeadline(deadline); err != nil {
		return Record{}, err
	}
	return s.update(ctx, university, func(rec *Record) { rec.Deadline = deadline }), nil
}

func (s *Store) update(ctx context.Context, university string, change func(*Record)) Record {
	rec := s.Load(ctx, university)
	change(&rec)
	s.Save(ctx, university, rec)
	return rec
}

// MemoryKV is a KV held in process memory.
type MemoryKV struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: map[string]string{}}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
