// Package domain contains core business entities and rules.
package domain

import "fmt"

// Quote represents a quotation served to clients.
// This is a domain entity - it has no knowledge of external systems.
type Quote struct {
	// ID is the unique identifier for this quote.
	ID string

	// Text is the text of the quote.
	Text string

	// Author is who said or wrote the quote.
	Author string

	// Category is the theme the quote is filed under.
	Category string

	// IsPremium marks quotes reserved for subscribers.
	IsPremium bool
}

// Catalog is the immutable, ordered set of quotes loaded at startup.
// It is safe for concurrent use because it is never mutated after construction.
type Catalog struct {
	quotes []Quote
	index  map[string]int
}

// NewCatalog builds a catalog from quotes, keeping their order.
// It rejects an empty list and duplicate ids.
func NewCatalog(quotes []Quote) (*Catalog, error) {
	if len(quotes) == 0 {
		return nil, NewValidationError("quotes", "catalog must contain at least one quote")
	}

	c := &Catalog{
		quotes: make([]Quote, len(quotes)),
		index:  make(map[string]int, len(quotes)),
	}

	for i, q := range quotes {
		if _, dup := c.index[q.ID]; dup {
			return nil, NewValidationErrorWithValue("id", fmt.Sprintf("duplicate quote id %q", q.ID), q.ID)
		}

		c.quotes[i] = q
		c.index[q.ID] = i
	}

	return c, nil
}

// Len returns the number of quotes in the catalog.
func (c *Catalog) Len() int {
	return len(c.quotes)
}

// At returns the quote at position i in catalog order.
func (c *Catalog) At(i int) Quote {
	return c.quotes[i]
}

// All returns a copy of every quote in catalog order.
func (c *Catalog) All() []Quote {
	out := make([]Quote, len(c.quotes))
	copy(out, c.quotes)

	return out
}

// Free returns the non-premium quotes in catalog order.
func (c *Catalog) Free() []Quote {
	out := make([]Quote, 0, len(c.quotes))
	for _, q := range c.quotes {
		if !q.IsPremium {
			out = append(out, q)
		}
	}

	return out
}

// Get looks up a quote by id.
func (c *Catalog) Get(id string) (Quote, bool) {
	i, ok := c.index[id]
	if !ok {
		return Quote{}, false
	}

	return c.quotes[i], true
}

// Filter returns the catalog quotes whose ids are in ids, in catalog order.
// Ids that are not in the catalog are ignored.
func (c *Catalog) Filter(ids []string) []Quote {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	out := make([]Quote, 0, len(want))
	for _, q := range c.quotes {
		if _, ok := want[q.ID]; ok {
			out = append(out, q)
		}
	}

	return out
}
