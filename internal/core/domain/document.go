package domain

import "time"

// Document is a schemaless record of a backend collection. Values read back
// from the store use plain Go types: ids are hex strings and timestamps are
// time.Time.
type Document map[string]any

// Ref marks a document value as a reference to another document. The store
// persists it as an ObjectID and renders it back as a hex string.
type Ref string

// Clone returns a shallow copy of d.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// ID returns the document id, or "" when absent.
func (d Document) ID() string {
	id, _ := d["id"].(string)
	return id
}

// String returns the string value stored under key, or "".
func (d Document) String(key string) string {
	switch v := d[key].(type) {
	case string:
		return v
	case Ref:
		return string(v)
	}
	return ""
}

// Time returns the time value stored under key.
func (d Document) Time(key string) time.Time {
	t, _ := d[key].(time.Time)
	return t
}
