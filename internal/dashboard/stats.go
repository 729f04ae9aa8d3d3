// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package dashboard

import (
	"encoding/json"
	"math"
	"sort"
	"strings"
	"time"

	"restaubot/internal/menudoc"
	"restaubot/internal/models"
)

// questionCategory maps a display label to the folded keywords that
// attribute a customer question to it. Order matters: the first matching
// category wins.
type questionCategory struct {
	label    string
	keywords []string
}

var questionCategories = []questionCategory{
	{"Options végétariennes", []string{"vegetar", "vegan", "sans viande"}},
	{"Allergènes", []string{"allerg", "sans gluten", "arach", "intol"}},
	{"Horaires", []string{"horaire", "ouverture", "service", "heures"}},
	{"Groupes", []string{"groupe", "privatisation", "evenement"}},
	{"Réservations", []string{"reservation", "reserver", "table"}},
}

// otherLabel collects questions matching no category.
const otherLabel = "Autres"

// LabelCount is one label/count pair of a breakdown.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// TimelinePoint is one bucket of the conversations timeline.
type TimelinePoint struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// BusiestRestaurant is one entry of the busiest-restaurants ranking.
type BusiestRestaurant struct {
	RestaurantID string `json:"restaurant_id"`
	Name         string `json:"name"`
	Count        int    `json:"count"`
}

// maxTimelinePoints caps the timeline length; longer ranges are bucketed.
const maxTimelinePoints = 30

// BuildTimeline buckets sessions per day over the range, collapsing days
// into multi-day windows when the range exceeds the point cap. Window
// labels read "dd/mm" for a single day and "dd/mm–dd/mm" otherwise.
func BuildTimeline(sessions map[string]*Session, start, end time.Time) []TimelinePoint {
	perDay := make(map[string]int)
	for _, session := range sessions {
		if session.StartedAt.IsZero() {
			continue
		}
		perDay[session.StartedAt.UTC().Format("2006-01-02")]++
	}

	startDay := truncateDay(start)
	endDay := truncateDay(end)
	if startDay.After(endDay) {
		startDay, endDay = endDay, startDay
	}
	totalDays := int(endDay.Sub(startDay).Hours()/24) + 1
	step := (totalDays + maxTimelinePoints - 1) / maxTimelinePoints
	if step < 1 {
		step = 1
	}

	var timeline []TimelinePoint
	for current := startDay; !current.After(endDay); {
		windowEnd := current.AddDate(0, 0, step-1)
		if windowEnd.After(endDay) {
			windowEnd = endDay
		}
		count := 0
		for cursor := current; !cursor.After(windowEnd); cursor = cursor.AddDate(0, 0, 1) {
			count += perDay[cursor.Format("2006-01-02")]
		}
		label := current.Format("02/01")
		if windowEnd.After(current) {
			label = current.Format("02/01") + "–" + windowEnd.Format("02/01")
		}
		timeline = append(timeline, TimelinePoint{Label: label, Count: count})
		current = windowEnd.AddDate(0, 0, 1)
	}
	return timeline
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// BuildBusiest ranks restaurants by conversation count, top three.
func BuildBusiest(sessions map[string]*Session, restaurants []models.Restaurant) []BusiestRestaurant {
	names := make(map[string]string, len(restaurants))
	for _, r := range restaurants {
		names[r.ID.String()] = r.DisplayName
	}

	counts := make(map[string]int)
	for _, session := range sessions {
		counts[session.RestaurantID.String()]++
	}

	busiest := make([]BusiestRestaurant, 0, len(counts))
	for id, count := range counts {
		name := names[id]
		if name == "" {
			name = "Restaurant"
		}
		busiest = append(busiest, BusiestRestaurant{RestaurantID: id, Name: name, Count: count})
	}
	sort.Slice(busiest, func(i, j int) bool {
		if busiest[i].Count != busiest[j].Count {
			return busiest[i].Count > busiest[j].Count
		}
		return busiest[i].Name < busiest[j].Name
	})
	if len(busiest) > 3 {
		busiest = busiest[:3]
	}
	return busiest
}

// ResolutionRate is the percentage of conversations that got at least
// one assistant reply, rounded to one decimal.
func ResolutionRate(sessions map[string]*Session) float64 {
	if len(sessions) == 0 {
		return 0
	}
	resolved := 0
	for _, session := range sessions {
		if session.Resolved {
			resolved++
		}
	}
	return round1(float64(resolved) / float64(len(sessions)) * 100)
}

// SummarizeQuestions classifies customer prompts into question
// categories. Accents are folded so "réservation" matches "reservation".
// Returns the four most common labels.
func SummarizeQuestions(rows []models.ChatMessage) []LabelCount {
	counts := make(map[string]int)
	for _, row := range rows {
		message := foldAccents(strings.ToLower(row.UserPrompt))
		if strings.TrimSpace(message) == "" {
			continue
		}
		label := otherLabel
		for _, category := range questionCategories {
			if containsAny(message, category.keywords) {
				label = category.label
				break
			}
		}
		counts[label]++
	}
	return topCounts(counts, 4)
}

func containsAny(message string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	return false
}

var accentFolder = strings.NewReplacer(
	"à", "a", "â", "a", "ä", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"î", "i", "ï", "i",
	"ô", "o", "ö", "o",
	"ù", "u", "û", "u", "ü", "u",
	"ç", "c", "œ", "oe",
)

func foldAccents(s string) string {
	return accentFolder.Replace(s)
}

// dietaryGuideEntry is the shape of a dietaryGuide element in the menu
// document.
type dietaryGuideEntry struct {
	Label string   `json:"label"`
	Items []string `json:"items"`
}

// DietBreakdown counts dietary labels across all menu documents: item
// tags count once each, dietary guide entries count once per listed
// dish. Returns the five most common labels, title-cased.
func DietBreakdown(docs []menudoc.Document) []LabelCount {
	counts := make(map[string]int)
	for _, doc := range docs {
		for _, category := range doc.Categories {
			for _, item := range category.Items {
				for _, tag := range item.Tags {
					counts[strings.ToLower(tag)]++
				}
			}
		}
		for _, raw := range doc.DietaryGuide {
			var entry dietaryGuideEntry
			if err := json.Unmarshal(raw, &entry); err != nil || entry.Label == "" {
				continue
			}
			weight := len(entry.Items)
			if weight == 0 {
				weight = 1
			}
			counts[strings.ToLower(entry.Label)] += weight
		}
	}

	top := topCounts(counts, 5)
	for i := range top {
		top[i].Label = titleCase(top[i].Label)
	}
	return top
}

func topCounts(counts map[string]int, limit int) []LabelCount {
	if len(counts) == 0 {
		return nil
	}
	out := make([]LabelCount, 0, len(counts))
	for label, count := range counts {
		out = append(out, LabelCount{Label: label, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
