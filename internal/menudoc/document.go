// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package menudoc implements the structural model behind the visual menu
// editor. A Document is the persisted JSON shape consumed by the chat
// assistant and the public menu page:
//
//	{"categories": [{"name": ..., "items": [...]}], "dietaryGuide": [...]}
//
// The JSON text and the in-memory tree are two projections of one state;
// Normalize guarantees the documented invariants (never-nil slices, no
// duplicate tags) at every external-data entry point.
package menudoc

import (
	"encoding/json"
	"strconv"
	"strings"
)

// PopularitySourceManual is the only popularity source the editor writes.
const PopularitySourceManual = "manual_rank"

// Popularity marks an item as manually ranked within its category.
type Popularity struct {
	Source          string `json:"source"`
	RankInCategory  int    `json:"rank_in_category"`
	TotalInCategory int    `json:"total_in_category"`
}

// Item is one dish entry. Price is kept as typed by the user (a raw
// string, currency suffix stripped), not parsed into a number.
type Item struct {
	Name        string      `json:"name"`
	Price       Price       `json:"price"`
	Description string      `json:"description"`
	Tags        []string    `json:"tags"`
	Contains    []string    `json:"contains"`
	Popularity  *Popularity `json:"popularity"`
}

// Category is an ordered group of items. Items is never nil after
// normalization, even when empty.
type Category struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// Document is the root of the menu tree. DietaryGuide is an opaque
// pass-through: preserved on round trips, never interpreted here.
type Document struct {
	Categories   []Category        `json:"categories"`
	DietaryGuide []json.RawMessage `json:"dietaryGuide,omitempty"`
}

// Price accepts both JSON strings and numbers on input and always
// serializes as a string, matching what the editor's text inputs produce.
type Price string

// UnmarshalJSON decodes a string, number, or null into the raw price text.
func (p *Price) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*p = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = Price(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*p = Price(strconv.FormatFloat(n, 'f', -1, 64))
		return nil
	}
	// Unrecognized scalar shapes degrade to empty rather than failing the
	// whole document.
	*p = ""
	return nil
}

// MarshalJSON emits the raw price text as a JSON string.
func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(p))
}

// item JSON decoding accepts the permissive shapes older documents carry:
// tags as plain strings or {"label": ...} structs, absent arrays, numeric
// prices. rawItem mirrors Item with lenient field types.
type rawItem struct {
	Name        string            `json:"name"`
	Price       Price             `json:"price"`
	Description string            `json:"description"`
	Tags        []json.RawMessage `json:"tags"`
	Contains    []string          `json:"contains"`
	Popularity  *Popularity       `json:"popularity"`
}

// UnmarshalJSON decodes an item, coercing tag entries to label strings.
func (it *Item) UnmarshalJSON(data []byte) error {
	var raw rawItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	it.Name = raw.Name
	it.Price = raw.Price
	it.Description = raw.Description
	it.Contains = raw.Contains
	it.Popularity = raw.Popularity
	it.Tags = it.Tags[:0]
	for _, entry := range raw.Tags {
		if label := coerceTagLabel(entry); label != "" {
			it.Tags = append(it.Tags, label)
		}
	}
	return nil
}

// coerceTagLabel extracts a label from a tag entry. Entries may be plain
// strings or objects carrying label/name/value; anything unusable is
// dropped rather than rejected.
func coerceTagLabel(entry json.RawMessage) string {
	var s string
	if err := json.Unmarshal(entry, &s); err == nil {
		return s
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(entry, &obj); err != nil {
		return ""
	}
	for _, key := range []string{"label", "name", "value"} {
		if raw, ok := obj[key]; ok {
			var label string
			if err := json.Unmarshal(raw, &label); err == nil && label != "" {
				return label
			}
		}
	}
	return ""
}

// Normalize returns a document satisfying the model invariants: non-nil
// categories and items, non-nil tags/contains with duplicates removed,
// and a consistent popularity shape. It is called at every entry point
// where external data enters the model.
func Normalize(doc Document) Document {
	if doc.Categories == nil {
		doc.Categories = []Category{}
	}
	for ci := range doc.Categories {
		cat := &doc.Categories[ci]
		if cat.Items == nil {
			cat.Items = []Item{}
		}
		for ii := range cat.Items {
			item := &cat.Items[ii]
			item.Tags = dedupe(item.Tags)
			item.Contains = dedupe(item.Contains)
			if item.Popularity != nil && item.Popularity.Source == "" {
				item.Popularity.Source = PopularitySourceManual
			}
		}
	}
	return doc
}

// dedupe returns values with duplicates removed, preserving first-seen
// order. Always returns a non-nil slice.
func dedupe(values []string) []string {
	result := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}

// StripCurrency removes a trailing euro sign (and surrounding spaces)
// from a price as typed, so the stored value stays raw but unformatted.
func StripCurrency(raw string) string {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimSuffix(trimmed, "€")
	return strings.TrimSpace(trimmed)
}

// DisplayPrice re-appends the currency suffix for rendering. Empty prices
// stay empty.
func DisplayPrice(p Price) string {
	if p == "" {
		return ""
	}
	return string(p) + " €"
}

// ItemNames returns the distinct item names across all categories, in
// document order, capped at limit (0 means no cap). Used to bootstrap
// purchasing menu items from a menu document.
func ItemNames(doc Document, limit int) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, cat := range doc.Categories {
		for _, item := range cat.Items {
			name := strings.TrimSpace(item.Name)
			if name == "" {
				continue
			}
			key := strings.ToLower(name)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			names = append(names, name)
			if limit > 0 && len(names) >= limit {
				return names
			}
		}
	}
	return names
}
