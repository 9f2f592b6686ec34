package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Product is a stock-tracked catalog entry.
type Product struct {
	ID    string
	Name  string
	Price float64
	Stock int
}

// ProductRef is a tagged product reference. A catalog reference points at a
// real, stock-tracked product; a synthetic reference is a bare numeric id
// used by demo items that are exempt from stock validation and decrement.
// The variant is decided once, at the input boundary.
type ProductRef struct {
	id        string
	synthetic bool
}

// ParseProductRef classifies a raw product identifier. Anything that parses
// as a plain number is a synthetic reference; everything else is a catalog
// key.
func ParseProductRef(raw string) ProductRef {
	if _, err := strconv.ParseFloat(raw, 64); err == nil {
		return ProductRef{id: raw, synthetic: true}
	}
	return ProductRef{id: raw}
}

// CatalogRef builds a reference to a real catalog product.
func CatalogRef(id string) ProductRef { return ProductRef{id: id} }

// SyntheticRef builds a reference to a stock-untracked demo product.
func SyntheticRef(id string) ProductRef { return ProductRef{id: id, synthetic: true} }

func (r ProductRef) ID() string      { return r.id }
func (r ProductRef) Synthetic() bool { return r.synthetic }

func (r ProductRef) String() string { return r.id }

// MarshalJSON emits the raw identifier so stored and served orders keep the
// same productId shape the client sent.
func (r ProductRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.id)
}

// UnmarshalJSON accepts both JSON strings and JSON numbers, mirroring the
// dual identifier space of the catalog.
func (r *ProductRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return fmt.Errorf("empty product id")
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = ParseProductRef(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("product id must be a string or number: %w", err)
	}
	*r = SyntheticRef(n.String())
	return nil
}
