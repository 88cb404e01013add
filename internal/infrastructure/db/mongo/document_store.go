package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cityfix/platform/internal/core/domain"
	"github.com/cityfix/platform/internal/core/ports"
)

// DocumentStore implements ports.DocumentStore on a MongoDB database.
type DocumentStore struct {
	db *mongo.Database
}

func NewDocumentStore(db *mongo.Database) *DocumentStore {
	return &DocumentStore{db: db}
}

func (s *DocumentStore) Insert(ctx context.Context, collection string, doc domain.Document) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m, err := toBSON(doc)
	if err != nil {
		return "", err
	}
	delete(m, "_id")

	res, err := s.db.Collection(collection).InsertOne(ctx, m)
	if err != nil {
		return "", writeError("insert into", collection, err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert into %s: unexpected id type %T", collection, res.InsertedID)
	}
	return oid.Hex(), nil
}

func (s *DocumentStore) FindByID(ctx context.Context, collection, id string) (domain.Document, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return s.findOne(ctx, collection, bson.M{"_id": oid})
}

func (s *DocumentStore) FindOne(ctx context.Context, collection string, filter domain.Document) (domain.Document, error) {
	f, err := toBSON(filter)
	if err != nil {
		return nil, err
	}
	return s.findOne(ctx, collection, f)
}

func (s *DocumentStore) findOne(ctx context.Context, collection string, filter bson.M) (domain.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m bson.M
	if err := s.db.Collection(collection).FindOne(ctx, filter).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find in %s: %w", collection, err)
	}
	return fromBSON(m), nil
}

func (s *DocumentStore) Find(ctx context.Context, collection string, filter domain.Document, opts ports.FindOptions) ([]domain.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	f, err := toBSON(filter)
	if err != nil {
		return nil, err
	}

	findOpts := options.Find()
	if opts.SortField != "" {
		dir := 1
		if opts.SortDesc {
			dir = -1
		}
		findOpts.SetSort(bson.D{{Key: opts.SortField, Value: dir}})
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}

	cur, err := s.db.Collection(collection).Find(ctx, f, findOpts)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	out := []domain.Document{}
	for cur.Next(ctx) {
		var m bson.M
		if err := cur.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode %s: %w", collection, err)
		}
		out = append(out, fromBSON(m))
	}
	return out, cur.Err()
}

// UpdateByID applies set with $set. A matched document counts as success even
// when no field changed.
func (s *DocumentStore) UpdateByID(ctx context.Context, collection, id string, set domain.Document) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	m, err := toBSON(set)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": m})
	if err != nil {
		return fmt.Errorf("update %s: %w", collection, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *DocumentStore) Upsert(ctx context.Context, collection string, filter, set domain.Document) error {
	f, err := toBSON(filter)
	if err != nil {
		return err
	}
	m, err := toBSON(set)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = s.db.Collection(collection).UpdateOne(ctx, f, bson.M{"$set": m}, options.Update().SetUpsert(true))
	if err != nil {
		return writeError("upsert", collection, err)
	}
	return nil
}

func (s *DocumentStore) DeleteByID(ctx context.Context, collection, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete from %s: %w", collection, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *DocumentStore) Count(ctx context.Context, collection string, filter domain.Document) (int64, error) {
	f, err := toBSON(filter)
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := s.db.Collection(collection).CountDocuments(ctx, f)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return n, nil
}

// writeError wraps err for collection. Unique index violations become
// domain.ErrDuplicate so services can name the conflict.
func writeError(op, collection string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s %s: %w", op, collection, domain.ErrDuplicate)
	}
	return fmt.Errorf("%s %s: %w", op, collection, err)
}
