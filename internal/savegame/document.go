package savegame

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// ErrNotObject reports document text whose root is not a JSON object.
var ErrNotObject = errors.New("document root is not a JSON object")

// Document is the decoded save kept as JSON text. Keeping the text form
// preserves member order and unknown fields byte-for-byte, so untouched
// parts of the save round-trip unchanged.
type Document struct {
	text []byte
}

// NewDocument wraps decoded JSON text. The root must be an object.
func NewDocument(text []byte) (*Document, error) {
	root := gjson.ParseBytes(text)
	if !root.IsObject() {
		return nil, ErrNotObject
	}
	return &Document{text: text}, nil
}

// Get resolves a dotted path against the document.
func (d *Document) Get(path string) gjson.Result {
	return gjson.GetBytes(d.text, path)
}

// Section returns the named top-level section when it is present and an
// object. The second return is false otherwise.
func (d *Document) Section(name string) (gjson.Result, bool) {
	sec := gjson.GetBytes(d.text, name)
	if !sec.IsObject() {
		return sec, false
	}
	return sec, true
}

// Set writes value at a dotted path.
func (d *Document) Set(path string, value any) error {
	text, err := sjson.SetBytes(d.text, path, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	d.text = text
	return nil
}

// SetRaw writes pre-encoded JSON at a dotted path.
func (d *Document) SetRaw(path string, raw string) error {
	text, err := sjson.SetRawBytes(d.text, path, []byte(raw))
	if err != nil {
		return fmt.Errorf("set raw %s: %w", path, err)
	}
	d.text = text
	return nil
}

// Compact returns the document as compact JSON, the canonical serialized
// form written back to disk.
func (d *Document) Compact() []byte {
	return pretty.Ugly(d.text)
}

// Pretty returns an indented rendering for dumps and inspection.
func (d *Document) Pretty() []byte {
	return pretty.Pretty(d.text)
}
