package menudoc

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestPriceUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Price
	}{
		{name: "string", raw: `"12,50"`, want: "12,50"},
		{name: "integer", raw: `12`, want: "12"},
		{name: "float", raw: `12.5`, want: "12.5"},
		{name: "null", raw: `null`, want: ""},
		{name: "empty string", raw: `""`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Price
			if err := json.Unmarshal([]byte(tt.raw), &p); err != nil {
				t.Fatal(err)
			}
			if p != tt.want {
				t.Errorf("got %q, want %q", p, tt.want)
			}
		})
	}
}

func TestPriceMarshalAlwaysString(t *testing.T) {
	out, err := json.Marshal(Price("12.5"))
	if err != nil {
		t.Fatal(err)
	}
	if got := string(out); got != `"12.5"` {
		t.Errorf("got %s, want %q", got, `"12.5"`)
	}
}

func TestStripCurrency(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"12,50 €", "12,50"},
		{"12,50€", "12,50"},
		{"  9 € ", "9"},
		{"9", "9"},
		{"", ""},
		{"€", ""},
	}
	for _, tt := range tests {
		if got := StripCurrency(tt.raw); got != tt.want {
			t.Errorf("StripCurrency(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestDisplayPrice(t *testing.T) {
	if got := DisplayPrice("12,50"); got != "12,50 €" {
		t.Errorf("got %q", got)
	}
	if got := DisplayPrice(""); got != "" {
		t.Errorf("empty price must render empty, got %q", got)
	}
}

func TestItemNames(t *testing.T) {
	doc := Document{Categories: []Category{
		{Name: "Plats", Items: []Item{
			{Name: "Pizza"},
			{Name: "  "},
			{Name: "pizza"},
			{Name: "Risotto"},
		}},
		{Name: "Desserts", Items: []Item{
			{Name: "Tiramisu"},
		}},
	}}

	if got, want := ItemNames(doc, 0), []string{"Pizza", "Risotto", "Tiramisu"}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := ItemNames(doc, 2), []string{"Pizza", "Risotto"}; !reflect.DeepEqual(got, want) {
		t.Errorf("capped: got %v, want %v", got, want)
	}
}

func TestDietaryGuidePassThrough(t *testing.T) {
	text := `{"categories":[],"dietaryGuide":[{"label":"Vegan","items":["Salade"]}]}`
	var doc Document
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.DietaryGuide) != 1 {
		t.Fatalf("dietaryGuide entries = %d, want 1", len(doc.DietaryGuide))
	}
	out, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	var round Document
	if err := json.Unmarshal(out, &round); err != nil {
		t.Fatal(err)
	}
	if len(round.DietaryGuide) != 1 {
		t.Error("dietaryGuide lost on round trip")
	}
}
