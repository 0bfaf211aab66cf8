// Package codec implements the reversible byte transform between on-disk
// save bytes and the JSON document text the editor works on.
package codec

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// Key is the fixed repeating XOR key the game applies to save payloads.
const Key = "GameData"

// ErrFormat reports that decoded bytes are not valid JSON document text.
var ErrFormat = errors.New("decoded payload is not valid JSON")

// Transform XORs data against a cyclically repeated key. The transform is
// its own inverse: Transform(Transform(b, k), k) == b.
func Transform(data []byte, key string) []byte {
	out := make([]byte, len(data))
	for i := range data {
		out[i] = data[i] ^ key[i%len(key)]
	}
	return out
}

// Decode converts raw save-file bytes into JSON document text. It fails only
// when the plaintext does not parse as JSON; the byte transform itself has
// no failure mode.
func Decode(raw []byte) ([]byte, error) {
	text := Transform(raw, Key)
	if !gjson.ValidBytes(text) {
		return nil, fmt.Errorf("decode save payload: %w", ErrFormat)
	}
	return text, nil
}

// Encode converts JSON document text back into raw save-file bytes. It
// succeeds for any input; validity of the document is the caller's concern.
func Encode(text []byte) []byte {
	return Transform(text, Key)
}
