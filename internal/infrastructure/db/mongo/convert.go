package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cityfix/platform/internal/core/domain"
)

// objectID parses a hex id, mapping failures to domain.ErrInvalidID.
func objectID(hex string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, domain.ErrInvalidID
	}
	return oid, nil
}

// toBSON converts a document for storage. References become ObjectIDs and
// timestamps are normalised to UTC.
func toBSON(doc domain.Document) (bson.M, error) {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		switch val := v.(type) {
		case domain.Ref:
			oid, err := objectID(string(val))
			if err != nil {
				return nil, err
			}
			out[k] = oid
		case time.Time:
			out[k] = val.UTC()
		default:
			out[k] = v
		}
	}
	return out, nil
}

// fromBSON renders a stored document: _id becomes id, ObjectIDs become hex
// strings and datetimes become time.Time, at any depth.
func fromBSON(m bson.M) domain.Document {
	out := make(domain.Document, len(m))
	for k, v := range m {
		if k == "_id" {
			k = "id"
		}
		out[k] = fromValue(v)
	}
	return out
}

func fromValue(v any) any {
	switch val := v.(type) {
	case primitive.ObjectID:
		return val.Hex()
	case primitive.DateTime:
		return val.Time().UTC()
	case primitive.M:
		return map[string]any(fromBSON(val))
	case primitive.D:
		return map[string]any(fromBSON(val.Map()))
	case primitive.A:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = fromValue(e)
		}
		return out
	}
	return v
}
