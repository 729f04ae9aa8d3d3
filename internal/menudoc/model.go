// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package menudoc

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrCategoryIndex is returned when a category index is out of range.
	ErrCategoryIndex = errors.New("menudoc: category index out of range")

	// ErrItemIndex is returned when an item index is out of range.
	ErrItemIndex = errors.New("menudoc: item index out of range")
)

// Model owns the in-memory menu tree and guarantees that every mutation
// leaves it satisfying the document invariants and immediately
// serializable. It is not safe for concurrent use; all mutation is
// expected to happen on a single event flow.
type Model struct {
	doc Document
}

// New returns a model holding an empty, valid document.
func New() *Model {
	return &Model{doc: Normalize(Document{})}
}

// Document returns a deep copy of the current tree, so callers cannot
// bypass the mutators.
func (m *Model) Document() Document {
	return cloneDocument(m.doc)
}

// LoadFromText parses jsonText into the tree. On parse failure or
// non-object input the model resets to an empty document: the editor
// fails soft and never surfaces a parse error to its caller.
func (m *Model) LoadFromText(jsonText string) {
	var doc Document
	if err := json.Unmarshal([]byte(jsonText), &doc); err != nil {
		m.doc = Normalize(Document{})
		return
	}
	m.doc = Normalize(doc)
}

// SerializeToText renders the current tree as pretty-printed JSON with a
// stable two-space indent. For any tree produced through the model's own
// mutators, LoadFromText(SerializeToText()) yields a structurally equal
// tree.
func (m *Model) SerializeToText() string {
	data, err := json.MarshalIndent(m.doc, "", "  ")
	if err != nil {
		// The document contains only marshalable types; this is
		// unreachable in practice.
		return "{\n  \"categories\": []\n}"
	}
	return string(data)
}

// AddCategory appends an empty category at the end of the document.
func (m *Model) AddCategory() {
	m.doc.Categories = append(m.doc.Categories, Category{Name: "", Items: []Item{}})
}

// RemoveCategory removes the category at index. Category removal is
// gated on an interactive confirmation; when confirmed is false the call
// is a no-op. Indices of later categories shift down by one.
func (m *Model) RemoveCategory(index int, confirmed bool) error {
	if index < 0 || index >= len(m.doc.Categories) {
		return fmt.Errorf("%w: %d", ErrCategoryIndex, index)
	}
	if !confirmed {
		return nil
	}
	m.doc.Categories = append(m.doc.Categories[:index], m.doc.Categories[index+1:]...)
	return nil
}

// SetCategoryName renames the category at index.
func (m *Model) SetCategoryName(index int, name string) error {
	if index < 0 || index >= len(m.doc.Categories) {
		return fmt.Errorf("%w: %d", ErrCategoryIndex, index)
	}
	m.doc.Categories[index].Name = name
	return nil
}

// AddItem appends a blank item to the category at categoryIndex.
func (m *Model) AddItem(categoryIndex int) error {
	if categoryIndex < 0 || categoryIndex >= len(m.doc.Categories) {
		return fmt.Errorf("%w: %d", ErrCategoryIndex, categoryIndex)
	}
	cat := &m.doc.Categories[categoryIndex]
	cat.Items = append(cat.Items, Item{
		Tags:     []string{},
		Contains: []string{},
	})
	return nil
}

// RemoveItem removes the item at itemIndex from its category. Unlike
// category removal, no confirmation gate applies.
func (m *Model) RemoveItem(categoryIndex, itemIndex int) error {
	cat, err := m.category(categoryIndex)
	if err != nil {
		return err
	}
	if itemIndex < 0 || itemIndex >= len(cat.Items) {
		return fmt.Errorf("%w: %d", ErrItemIndex, itemIndex)
	}
	cat.Items = append(cat.Items[:itemIndex], cat.Items[itemIndex+1:]...)
	return nil
}

// SetItemName updates the name of one item.
func (m *Model) SetItemName(categoryIndex, itemIndex int, name string) error {
	item, err := m.item(categoryIndex, itemIndex)
	if err != nil {
		return err
	}
	item.Name = name
	return nil
}

// SetItemPrice stores the price as typed, with any trailing currency
// suffix stripped. The raw text is kept; no numeric parsing happens.
func (m *Model) SetItemPrice(categoryIndex, itemIndex int, raw string) error {
	item, err := m.item(categoryIndex, itemIndex)
	if err != nil {
		return err
	}
	item.Price = Price(StripCurrency(raw))
	return nil
}

// SetItemDescription updates the description of one item.
func (m *Model) SetItemDescription(categoryIndex, itemIndex int, description string) error {
	item, err := m.item(categoryIndex, itemIndex)
	if err != nil {
		return err
	}
	item.Description = description
	return nil
}

// SetTag adds or removes a dietary/feature tag on one item. The
// operation is idempotent: adding an existing tag or removing an absent
// one leaves the set unchanged, and no duplicate ever results.
func (m *Model) SetTag(categoryIndex, itemIndex int, tag string, present bool) error {
	item, err := m.item(categoryIndex, itemIndex)
	if err != nil {
		return err
	}
	item.Tags = setMembership(item.Tags, tag, present)
	return nil
}

// SetAllergen adds or removes an allergen label on one item, with the
// same idempotent set semantics as SetTag.
func (m *Model) SetAllergen(categoryIndex, itemIndex int, allergen string, present bool) error {
	item, err := m.item(categoryIndex, itemIndex)
	if err != nil {
		return err
	}
	item.Contains = setMembership(item.Contains, allergen, present)
	return nil
}

// SetPopularityRank sets or clears the manual popularity rank of one
// item. A non-nil rank stores the manual_rank marker with
// total_in_category recomputed from the category's current item count;
// nil clears popularity entirely.
func (m *Model) SetPopularityRank(categoryIndex, itemIndex int, rank *int) error {
	item, err := m.item(categoryIndex, itemIndex)
	if err != nil {
		return err
	}
	if rank == nil {
		item.Popularity = nil
		return nil
	}
	item.Popularity = &Popularity{
		Source:          PopularitySourceManual,
		RankInCategory:  *rank,
		TotalInCategory: len(m.doc.Categories[categoryIndex].Items),
	}
	return nil
}

// ReorderCategory moves the category at fromIndex to toIndex. The move
// uses splice semantics: the category is removed and re-inserted, so all
// categories between the two positions shift by one.
func (m *Model) ReorderCategory(fromIndex, toIndex int) error {
	n := len(m.doc.Categories)
	if fromIndex < 0 || fromIndex >= n {
		return fmt.Errorf("%w: %d", ErrCategoryIndex, fromIndex)
	}
	if toIndex < 0 || toIndex >= n {
		return fmt.Errorf("%w: %d", ErrCategoryIndex, toIndex)
	}
	moved := m.doc.Categories[fromIndex]
	rest := append(m.doc.Categories[:fromIndex], m.doc.Categories[fromIndex+1:]...)
	m.doc.Categories = append(rest[:toIndex], append([]Category{moved}, rest[toIndex:]...)...)
	return nil
}

// ReorderItem moves an item within one category, with the same splice
// semantics as ReorderCategory. Moving items across categories is not
// supported; a drag dropped in another category is a caller-side no-op.
func (m *Model) ReorderItem(categoryIndex, fromIndex, toIndex int) error {
	cat, err := m.category(categoryIndex)
	if err != nil {
		return err
	}
	n := len(cat.Items)
	if fromIndex < 0 || fromIndex >= n {
		return fmt.Errorf("%w: %d", ErrItemIndex, fromIndex)
	}
	if toIndex < 0 || toIndex >= n {
		return fmt.Errorf("%w: %d", ErrItemIndex, toIndex)
	}
	moved := cat.Items[fromIndex]
	rest := append(cat.Items[:fromIndex], cat.Items[fromIndex+1:]...)
	cat.Items = append(rest[:toIndex], append([]Item{moved}, rest[toIndex:]...)...)
	return nil
}

// category returns a pointer into the tree for mutation.
func (m *Model) category(index int) (*Category, error) {
	if index < 0 || index >= len(m.doc.Categories) {
		return nil, fmt.Errorf("%w: %d", ErrCategoryIndex, index)
	}
	return &m.doc.Categories[index], nil
}

// item returns a pointer into the tree for mutation.
func (m *Model) item(categoryIndex, itemIndex int) (*Item, error) {
	cat, err := m.category(categoryIndex)
	if err != nil {
		return nil, err
	}
	if itemIndex < 0 || itemIndex >= len(cat.Items) {
		return nil, fmt.Errorf("%w: %d", ErrItemIndex, itemIndex)
	}
	return &cat.Items[itemIndex], nil
}

// setMembership adds value when present is true and removes it when
// false, preserving order and never introducing duplicates.
func setMembership(values []string, value string, present bool) []string {
	idx := -1
	for i, v := range values {
		if v == value {
			idx = i
			break
		}
	}
	if present {
		if idx >= 0 {
			return values
		}
		return append(values, value)
	}
	if idx < 0 {
		return values
	}
	return append(values[:idx], values[idx+1:]...)
}

// cloneDocument deep-copies a document so the caller's view is detached
// from the model's internal state.
func cloneDocument(doc Document) Document {
	out := Document{Categories: make([]Category, len(doc.Categories))}
	for ci, cat := range doc.Categories {
		items := make([]Item, len(cat.Items))
		for ii, item := range cat.Items {
			copied := item
			copied.Tags = append(make([]string, 0, len(item.Tags)), item.Tags...)
			copied.Contains = append(make([]string, 0, len(item.Contains)), item.Contains...)
			if item.Popularity != nil {
				pop := *item.Popularity
				copied.Popularity = &pop
			}
			items[ii] = copied
		}
		out.Categories[ci] = Category{Name: cat.Name, Items: items}
	}
	if doc.DietaryGuide != nil {
		out.DietaryGuide = make([]json.RawMessage, len(doc.DietaryGuide))
		for i, raw := range doc.DietaryGuide {
			out.DietaryGuide[i] = append(json.RawMessage(nil), raw...)
		}
	}
	return out
}
