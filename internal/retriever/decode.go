package retriever

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/flarebyte/ssr/internal/ssr"
)

// errNotArray is returned when the body is valid JSON but not an array.
var errNotArray = errors.New("response is not a JSON array")

var errTrailingData = errors.New("unexpected data after JSON array")

type wireRecord struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Key         *string `json:"key"`
	URL         *string `json:"url"`
}

// decodeRecords reads a single JSON array of records. Every element must carry all
// four string fields; unknown fields are ignored.
func decodeRecords(r io.Reader) ([]ssr.Record, error) {
	var wire []wireRecord
	dec := json.NewDecoder(r)
	if err := dec.Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode response: %w", errTrailingData)
	}
	if wire == nil {
		return nil, fmt.Errorf("decode response: %w", errNotArray)
	}
	out := make([]ssr.Record, 0, len(wire))
	for i, w := range wire {
		if err := w.validate(); err != nil {
			return nil, fmt.Errorf("decode response: element %d: %w", i, err)
		}
		out = append(out, ssr.Record{
			Name:        *w.Name,
			Description: *w.Description,
			Key:         *w.Key,
			URL:         *w.URL,
		})
	}
	return out, nil
}

func (w wireRecord) validate() error {
	switch {
	case w.Name == nil:
		return errors.New("missing field: name")
	case w.Description == nil:
		return errors.New("missing field: description")
	case w.Key == nil:
		return errors.New("missing field: key")
	case w.URL == nil:
		return errors.New("missing field: url")
	}
	return nil
}
