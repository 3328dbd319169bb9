package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/maauso/hh-vacancies/internal/vacancy"
)

// indent is the per-level indentation of a saved document.
const indent = "    "

// Encode renders records the way every backend stores them: a JSON array
// indented by four spaces, with non-ASCII text and HTML characters written
// verbatim and no trailing newline. A nil collection encodes as [].
func Encode(records vacancy.Collection) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)

	if err := enc.Encode(records.NonNil()); err != nil {
		return nil, fmt.Errorf("storage: encode document: %w", err)
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Decode parses a stored document. Anything other than a JSON array of
// objects yields ErrParse, including a top-level null and null elements.
func Decode(data []byte) (vacancy.Collection, error) {
	var records vacancy.Collection
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if records == nil {
		return nil, fmt.Errorf("%w: document is null", ErrParse)
	}
	for i, r := range records {
		if r == nil {
			return nil, fmt.Errorf("%w: element %d is null", ErrParse, i)
		}
	}
	return records, nil
}
