package redis

import (
	"encoding/json"

	jsonpatch "github.com/evanphx/json-patch"
)

// Document is a JSON document shared with other services. Fields the Go type does not
// declare are kept when the document is written back.
type Document interface {
	rawFields() json.RawMessage
	setRawFields(raw json.RawMessage)
}

type BaseDocument struct {
	raw json.RawMessage
}

func (doc *BaseDocument) rawFields() json.RawMessage {
	return doc.raw
}

func (doc *BaseDocument) setRawFields(raw json.RawMessage) {
	doc.raw = raw
}

func DecodeDocument(data []byte, doc Document) error {
	if err := json.Unmarshal(data, doc); err != nil {
		return err
	}
	doc.setRawFields(append(json.RawMessage(nil), data...))
	return nil
}

// EncodeDocument marshals doc as a merge patch over the JSON it was decoded from. Objects
// are merged key by key, null values remove the stored key and any other value replaces it.
func EncodeDocument(doc Document) ([]byte, error) {
	known, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	if len(doc.rawFields()) == 0 {
		return known, nil
	}
	return jsonpatch.MergePatch(doc.rawFields(), known)
}
