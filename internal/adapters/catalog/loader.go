// Package catalog loads the quote catalog from a JSON file.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jsamuelsen/wisdom-pocket/internal/domain"
)

// Defaults applied to fields missing from a quote record.
const (
	DefaultAuthor   = "Unknown"
	DefaultCategory = "general"
)

// record is the on-disk shape of a quote.
// Optional fields are pointers so "missing" and "empty" stay distinguishable.
type record struct {
	ID        json.RawMessage `json:"id"`
	Text      string          `json:"text"`
	Author    *string         `json:"author"`
	Category  *string         `json:"category"`
	IsPremium bool            `json:"is_premium"`
}

// LoadFile reads a JSON array of quotes and builds the catalog.
// A missing file, malformed JSON, an empty list or a duplicate id is an error.
func LoadFile(path string) (*domain.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading quotes file %q: %w", path, err)
	}

	catalog, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading quotes file %q: %w", path, err)
	}

	return catalog, nil
}

// Parse builds a catalog from the JSON array in data, preserving source order.
func Parse(data []byte) (*domain.Catalog, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding quotes: %w", err)
	}

	quotes := make([]domain.Quote, 0, len(records))
	for i, r := range records {
		q, err := r.toDomain()
		if err != nil {
			return nil, fmt.Errorf("quote at index %d: %w", i, err)
		}

		quotes = append(quotes, q)
	}

	return domain.NewCatalog(quotes)
}

func (r record) toDomain() (domain.Quote, error) {
	id, err := parseID(r.ID)
	if err != nil {
		return domain.Quote{}, err
	}

	q := domain.Quote{
		ID:        id,
		Text:      r.Text,
		Author:    DefaultAuthor,
		Category:  DefaultCategory,
		IsPremium: r.IsPremium,
	}

	if r.Author != nil {
		q.Author = *r.Author
	}

	if r.Category != nil {
		q.Category = *r.Category
	}

	return q, nil
}

// parseID accepts a JSON string or number and returns its string form.
func parseID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", domain.NewValidationError("id", "quote id is required")
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			return "", domain.NewValidationError("id", "quote id is required")
		}

		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", domain.NewValidationErrorWithValue("id", "quote id must be a string or number", string(raw))
	}

	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), nil
	}

	return n.String(), nil
}
