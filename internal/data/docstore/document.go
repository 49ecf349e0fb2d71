package docstore

import (
	"encoding/json"
)

// Document is the normalized unit of storage: a stable id, a revision, a type
// tag and the JSON body. Store implementations never leak transport metadata
// beyond these fields.
type Document struct {
	ID   string
	Rev  int64
	Type string
	Body json.RawMessage
}

// NewDocument marshals v into a document body with the given type tag. The id
// is assigned by the store on first save unless set by the caller.
func NewDocument(docType string, v interface{}) (*Document, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &Document{Type: docType, Body: body}, nil
}

// Decode unmarshals the document body into v.
func (d *Document) Decode(v interface{}) error {
	return json.Unmarshal(d.Body, v)
}

func (d *Document) clone() *Document {
	if d == nil {
		return nil
	}
	body := make(json.RawMessage, len(d.Body))
	copy(body, d.Body)
	return &Document{ID: d.ID, Rev: d.Rev, Type: d.Type, Body: body}
}
