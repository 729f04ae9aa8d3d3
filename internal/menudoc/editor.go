// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package menudoc

// Mode selects which projection of the menu state is the edit surface.
type Mode string

const (
	// ModeVisual edits the tree directly through the model's mutators.
	ModeVisual Mode = "visual"

	// ModeJSON edits the raw JSON text in a text buffer.
	ModeJSON Mode = "json"
)

// Editor couples the tree model with its JSON text buffer and tracks
// which projection is currently authoritative. Switching modes re-derives
// one projection from the other: the mode being LEFT is the source of
// truth for the switch.
type Editor struct {
	model *Model
	text  string
	mode  Mode
}

// NewEditor returns an editor in visual mode over an empty document.
func NewEditor() *Editor {
	m := New()
	return &Editor{
		model: m,
		text:  m.SerializeToText(),
		mode:  ModeVisual,
	}
}

// Model exposes the tree model. Mutations through it are only meaningful
// while the editor is in visual mode.
func (e *Editor) Model() *Model {
	return e.model
}

// Mode returns the current edit surface.
func (e *Editor) Mode() Mode {
	return e.mode
}

// Text returns the JSON text buffer.
func (e *Editor) Text() string {
	return e.text
}

// SetText replaces the JSON text buffer. Only meaningful in JSON mode;
// the tree is not touched until the mode is switched.
func (e *Editor) SetText(text string) {
	e.text = text
}

// Switch changes the edit surface. Leaving JSON mode re-parses the text
// into the tree (invalid JSON falls back to an empty menu, a known
// data-loss tradeoff); leaving visual mode re-serializes the tree into
// the text buffer. Switching to the current mode is a no-op.
func (e *Editor) Switch(to Mode) {
	if to == e.mode {
		return
	}
	switch e.mode {
	case ModeJSON:
		e.model.LoadFromText(e.text)
		e.text = e.model.SerializeToText()
	case ModeVisual:
		e.text = e.model.SerializeToText()
	}
	e.mode = to
}

// Load replaces both projections from external JSON text, regardless of
// the current mode.
func (e *Editor) Load(jsonText string) {
	e.model.LoadFromText(jsonText)
	e.text = e.model.SerializeToText()
}
