package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cityfix/platform/internal/core/domain"
	"github.com/cityfix/platform/internal/core/ports"
)

// memStore is an in-memory DocumentStore mirroring the Mongo implementation:
// references and ids must be 24 hex characters and are read back as strings.
type memStore struct {
	mu     sync.Mutex
	seq    int
	colls  map[string]map[string]domain.Document
	err    error
	writes int
}

func newMemStore() *memStore {
	return &memStore{colls: make(map[string]map[string]domain.Document)}
}

func (m *memStore) nextID() string {
	m.seq++
	return fmt.Sprintf("%024x", m.seq)
}

func validHex(id string) bool {
	if len(id) != 24 {
		return false
	}
	for _, c := range id {
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f') {
			return false
		}
	}
	return true
}

func normalize(doc domain.Document) (domain.Document, error) {
	out := make(domain.Document, len(doc))
	for k, v := range doc {
		if r, ok := v.(domain.Ref); ok {
			if !validHex(string(r)) {
				return nil, domain.ErrInvalidID
			}
			v = string(r)
		}
		out[k] = v
	}
	return out, nil
}

func (m *memStore) coll(name string) map[string]domain.Document {
	c, ok := m.colls[name]
	if !ok {
		c = make(map[string]domain.Document)
		m.colls[name] = c
	}
	return c
}

func matches(doc, filter domain.Document) bool {
	for k, v := range filter {
		if doc[k] != v {
			return false
		}
	}
	return true
}

func (m *memStore) Insert(_ context.Context, collection string, doc domain.Document) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	stored, err := normalize(doc)
	if err != nil {
		return "", err
	}
	id := m.nextID()
	stored["id"] = id
	m.coll(collection)[id] = stored
	m.writes++
	return id, nil
}

func (m *memStore) FindByID(_ context.Context, collection, id string) (domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !validHex(id) {
		return nil, domain.ErrInvalidID
	}
	doc, ok := m.coll(collection)[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc.Clone(), nil
}

func (m *memStore) FindOne(ctx context.Context, collection string, filter domain.Document) (domain.Document, error) {
	docs, err := m.Find(ctx, collection, filter, ports.FindOptions{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, domain.ErrNotFound
	}
	return docs[0], nil
}

func (m *memStore) Find(_ context.Context, collection string, filter domain.Document, opts ports.FindOptions) ([]domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	f, err := normalize(filter)
	if err != nil {
		return nil, err
	}

	out := []domain.Document{}
	for _, doc := range m.coll(collection) {
		if matches(doc, f) {
			out = append(out, doc.Clone())
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if opts.SortField != "" {
			ti, tj := out[i].Time(opts.SortField), out[j].Time(opts.SortField)
			if !ti.Equal(tj) {
				if opts.SortDesc {
					return ti.After(tj)
				}
				return ti.Before(tj)
			}
		}
		return out[i].ID() < out[j].ID()
	})
	if opts.Limit > 0 && int64(len(out)) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (m *memStore) UpdateByID(_ context.Context, collection, id string, set domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !validHex(id) {
		return domain.ErrInvalidID
	}
	doc, ok := m.coll(collection)[id]
	if !ok {
		return domain.ErrNotFound
	}
	s, err := normalize(set)
	if err != nil {
		return err
	}
	for k, v := range s {
		doc[k] = v
	}
	m.writes++
	return nil
}

func (m *memStore) Upsert(_ context.Context, collection string, filter, set domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, err := normalize(filter)
	if err != nil {
		return err
	}
	s, err := normalize(set)
	if err != nil {
		return err
	}
	for _, doc := range m.coll(collection) {
		if matches(doc, f) {
			for k, v := range s {
				doc[k] = v
			}
			return nil
		}
	}
	doc := f.Clone()
	for k, v := range s {
		doc[k] = v
	}
	id := m.nextID()
	doc["id"] = id
	m.coll(collection)[id] = doc
	return nil
}

func (m *memStore) DeleteByID(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !validHex(id) {
		return domain.ErrInvalidID
	}
	if _, ok := m.coll(collection)[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.coll(collection), id)
	return nil
}

func (m *memStore) Count(_ context.Context, collection string, filter domain.Document) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, doc := range m.coll(collection) {
		if matches(doc, filter) {
			n++
		}
	}
	return n, nil
}

// fixedClock returns a clock that advances by one second per call.
func fixedClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}
