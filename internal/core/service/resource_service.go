package service

import (
	"context"
	"errors"
	"time"

	"github.com/cityfix/platform/internal/core/domain"
	"github.com/cityfix/platform/internal/core/ports"
)

// ResourceKind describes one passthrough collection.
type ResourceKind struct {
	Collection string
	// NotFound replaces domain.ErrNotFound in results.
	NotFound error
	// RefFields are converted to object ids on every write and filter.
	RefFields []string
	// Sort applies to List.
	Sort ports.FindOptions
	// OnCreate runs on a new document before insert.
	OnCreate func(doc domain.Document, now time.Time)
	// OnUpdate runs on the $set document before update.
	OnUpdate func(set domain.Document, now time.Time)
}

// ResourceService stores request bodies as documents of a single collection.
type ResourceService struct {
	store ports.DocumentStore
	kind  ResourceKind
	now   func() time.Time
}

func NewResourceService(store ports.DocumentStore, kind ResourceKind) *ResourceService {
	if kind.NotFound == nil {
		kind.NotFound = domain.ErrNotFound
	}
	return &ResourceService{store: store, kind: kind, now: time.Now}
}

// Create inserts body with a created_at stamp and returns the stored document
// including its id.
func (s *ResourceService) Create(ctx context.Context, body domain.Document) (domain.Document, error) {
	doc := stripReserved(body)
	if err := markRefs(doc, s.kind.RefFields); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	doc["created_at"] = now
	if s.kind.OnCreate != nil {
		s.kind.OnCreate(doc, now)
	}

	id, err := s.store.Insert(ctx, s.kind.Collection, doc)
	if err != nil {
		return nil, err
	}

	out := renderRefs(doc)
	out["id"] = id
	return out, nil
}

func (s *ResourceService) List(ctx context.Context, filter domain.Document) ([]domain.Document, error) {
	f := filter.Clone()
	if err := markRefs(f, s.kind.RefFields); err != nil {
		return nil, err
	}
	return s.store.Find(ctx, s.kind.Collection, f, s.kind.Sort)
}

func (s *ResourceService) Get(ctx context.Context, id string) (domain.Document, error) {
	doc, err := s.store.FindByID(ctx, s.kind.Collection, id)
	return doc, s.translate(err)
}

// Update applies body as a partial update and stamps updated_at.
func (s *ResourceService) Update(ctx context.Context, id string, body domain.Document) error {
	set := stripReserved(body)
	delete(set, "created_at")
	if err := markRefs(set, s.kind.RefFields); err != nil {
		return err
	}

	now := s.now().UTC()
	set["updated_at"] = now
	if s.kind.OnUpdate != nil {
		s.kind.OnUpdate(set, now)
	}
	return s.translate(s.store.UpdateByID(ctx, s.kind.Collection, id, set))
}

func (s *ResourceService) Delete(ctx context.Context, id string) error {
	return s.translate(s.store.DeleteByID(ctx, s.kind.Collection, id))
}

// FindOne returns the first document matching filter.
func (s *ResourceService) FindOne(ctx context.Context, filter domain.Document) (domain.Document, error) {
	f := filter.Clone()
	if err := markRefs(f, s.kind.RefFields); err != nil {
		return nil, err
	}
	doc, err := s.store.FindOne(ctx, s.kind.Collection, f)
	return doc, s.translate(err)
}

func (s *ResourceService) translate(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return s.kind.NotFound
	}
	return err
}

// stripReserved copies body without the identity keys a client may echo back.
func stripReserved(body domain.Document) domain.Document {
	doc := body.Clone()
	delete(doc, "id")
	delete(doc, "_id")
	return doc
}

// markRefs wraps non-empty string reference fields into domain.Ref. Any other
// non-empty value in a reference field is rejected.
func markRefs(doc domain.Document, fields []string) error {
	for _, f := range fields {
		switch v := doc[f].(type) {
		case nil:
		case domain.Ref:
		case string:
			if v != "" {
				doc[f] = domain.Ref(v)
			}
		default:
			return domain.ErrInvalidID
		}
	}
	return nil
}

// renderRefs returns a copy of doc with references as plain strings.
func renderRefs(doc domain.Document) domain.Document {
	out := doc.Clone()
	for k, v := range out {
		if r, ok := v.(domain.Ref); ok {
			out[k] = string(r)
		}
	}
	return out
}
