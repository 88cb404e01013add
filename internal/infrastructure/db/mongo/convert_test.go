package mongo

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cityfix/platform/internal/core/domain"
)

func TestToBSON_ConvertsReferences(t *testing.T) {
	hex := "64b7f0c2a1b2c3d4e5f60718"
	local := time.Date(2024, 1, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))

	m, err := toBSON(domain.Document{
		"ticket_id":  domain.Ref(hex),
		"title":      hex,
		"created_at": local,
	})
	if err != nil {
		t.Fatalf("toBSON: %v", err)
	}
	oid, ok := m["ticket_id"].(primitive.ObjectID)
	if !ok || oid.Hex() != hex {
		t.Fatalf("expected ObjectID, got %#v", m["ticket_id"])
	}
	if _, ok := m["title"].(string); !ok {
		t.Fatal("plain strings must stay strings")
	}
	if m["created_at"].(time.Time).Location() != time.UTC {
		t.Fatal("timestamps must be UTC")
	}
}

func TestToBSON_InvalidReference(t *testing.T) {
	if _, err := toBSON(domain.Document{"user_id": domain.Ref("zzz")}); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestFromBSON_RendersNestedValues(t *testing.T) {
	id := primitive.NewObjectID()
	ref := primitive.NewObjectID()
	ts := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)

	doc := fromBSON(bson.M{
		"_id":        id,
		"created_at": primitive.NewDateTimeFromTime(ts),
		"location":   primitive.M{"municipality_id": ref},
		"photos":     primitive.A{ref, "x"},
	})

	if doc.ID() != id.Hex() {
		t.Fatalf("expected id %s, got %v", id.Hex(), doc["id"])
	}
	if _, ok := doc["_id"]; ok {
		t.Fatal("_id must be renamed")
	}
	if !doc.Time("created_at").Equal(ts) {
		t.Fatalf("unexpected created_at: %v", doc["created_at"])
	}
	loc := doc["location"].(map[string]any)
	if loc["municipality_id"] != ref.Hex() {
		t.Fatalf("nested reference not rendered: %v", loc)
	}
	photos := doc["photos"].([]any)
	if photos[0] != ref.Hex() || photos[1] != "x" {
		t.Fatalf("array not rendered: %v", photos)
	}
}

func TestObjectID(t *testing.T) {
	if _, err := objectID("64b7f0c2a1b2c3d4e5f60718"); err != nil {
		t.Fatalf("valid id rejected: %v", err)
	}
	if _, err := objectID("not-an-id"); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestWriteError_MapsDuplicateKey(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	if err := writeError("insert into", "ticket_feedback", dup); !errors.Is(err, domain.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	other := errors.New("connection reset")
	err := writeError("insert into", "ticket_feedback", other)
	if errors.Is(err, domain.ErrDuplicate) || !errors.Is(err, other) {
		t.Fatalf("unexpected mapping: %v", err)
	}
}
