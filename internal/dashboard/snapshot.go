// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package dashboard

import (
	"time"

	"restaubot/internal/menudoc"
	"restaubot/internal/models"
)

// DateRange is the resolved reporting window of a snapshot.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// KPIs is the headline-numbers section of the snapshot.
type KPIs struct {
	Restaurants     int                 `json:"restaurants"`
	Conversations   int                 `json:"conversations"`
	Messages        int                 `json:"messages"`
	UniqueCustomers int                 `json:"unique_customers"`
	Plan            string              `json:"plan"`
	PlanDetail      string              `json:"plan_detail"`
	Timeline        []TimelinePoint     `json:"timeline"`
	Busiest         []BusiestRestaurant `json:"busiest"`
	AveragePerDay   float64             `json:"average_per_day"`
	AverageMessages float64             `json:"average_messages"`
	DateRange       DateRange           `json:"date_range"`
}

// Statistics is the detailed-statistics section of the snapshot.
type Statistics struct {
	TotalConversations int                 `json:"total_conversations"`
	TotalMessages      int                 `json:"total_messages"`
	AveragePerDay      float64             `json:"average_per_day"`
	AverageMessages    float64             `json:"average_messages"`
	ResolutionRate     float64             `json:"resolution_rate"`
	TopQuestions       []LabelCount        `json:"top_questions"`
	DietBreakdown      []LabelCount        `json:"diet_breakdown"`
	Busiest            []BusiestRestaurant `json:"busiest"`
	DateRange          DateRange           `json:"date_range"`
}

// UserInfo is the account block of the snapshot.
type UserInfo struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Company  string `json:"company"`
	Plan     string `json:"plan"`
}

// ProfileInfo is the editable-profile block of the snapshot.
type ProfileInfo struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	CompanyName string `json:"company_name"`
	Country     string `json:"country"`
	Timezone    string `json:"timezone"`
	Plan        string `json:"plan"`
}

// DefaultTimezone is assumed when a profile has none configured.
const DefaultTimezone = "Europe/Paris"

// Snapshot is everything the dashboard view needs in one payload.
type Snapshot struct {
	User        UserInfo            `json:"user"`
	Restaurants []models.Restaurant `json:"restaurants"`
	KPIs        KPIs                `json:"kpis"`
	Statistics  Statistics          `json:"statistics"`
	Billing     Billing             `json:"billing"`
	Profile     ProfileInfo         `json:"profile"`
}

// BuildSnapshot aggregates the loaded rows into the dashboard payload.
// Menu documents are parsed leniently: an unparseable one contributes
// nothing to the diet breakdown.
func BuildSnapshot(
	user models.User,
	profile models.Profile,
	restaurants []models.Restaurant,
	chatRows []models.ChatMessage,
	start, end time.Time,
	now time.Time,
) Snapshot {
	sessions := GroupSessions(chatRows)
	conversations := len(sessions)
	messages := CountUserMessages(chatRows)
	planName, preset := ResolvePlan(profile)

	daysCount := int(truncateDay(end).Sub(truncateDay(start)).Hours()/24) + 1
	if daysCount < 1 {
		daysCount = 1
	}
	var averagePerDay, averageMessages float64
	if conversations > 0 {
		averagePerDay = round1(float64(conversations) / float64(daysCount))
		averageMessages = round1(float64(messages) / float64(conversations))
	}

	dateRange := DateRange{
		Start: truncateDay(start).Format("2006-01-02"),
		End:   truncateDay(end).Format("2006-01-02"),
	}
	busiest := BuildBusiest(sessions, restaurants)

	uniqueCustomers := conversations
	if uniqueCustomers == 0 {
		uniqueCustomers = len(chatRows)
	}

	docs := make([]menudoc.Document, 0, len(restaurants))
	for _, r := range restaurants {
		m := menudoc.New()
		m.LoadFromText(string(r.MenuDocument))
		docs = append(docs, m.Document())
	}

	return Snapshot{
		User: UserInfo{
			ID:       user.ID.String(),
			Email:    user.Email,
			FullName: profile.FullName,
			Company:  profile.CompanyName,
			Plan:     planName,
		},
		Restaurants: restaurants,
		KPIs: KPIs{
			Restaurants:     len(restaurants),
			Conversations:   conversations,
			Messages:        messages,
			UniqueCustomers: uniqueCustomers,
			Plan:            planName,
			PlanDetail:      preset.Description,
			Timeline:        BuildTimeline(sessions, start, end),
			Busiest:         busiest,
			AveragePerDay:   averagePerDay,
			AverageMessages: averageMessages,
			DateRange:       dateRange,
		},
		Statistics: Statistics{
			TotalConversations: conversations,
			TotalMessages:      messages,
			AveragePerDay:      averagePerDay,
			AverageMessages:    averageMessages,
			ResolutionRate:     ResolutionRate(sessions),
			TopQuestions:       SummarizeQuestions(chatRows),
			DietBreakdown:      DietBreakdown(docs),
			Busiest:            busiest,
			DateRange:          dateRange,
		},
		Billing: BuildBilling(profile, len(restaurants), conversations, now),
		Profile: ProfileInfo{
			FullName:    profile.FullName,
			Email:       user.Email,
			CompanyName: profile.CompanyName,
			Country:     profile.Country,
			Timezone:    profileTimezone(profile),
			Plan:        planName,
		},
	}
}

func profileTimezone(profile models.Profile) string {
	if profile.Timezone == "" {
		return DefaultTimezone
	}
	return profile.Timezone
}

// ResolveRange normalizes a requested reporting window: defaults to the
// last 30 days, swaps an inverted range, and clamps the span to a year.
func ResolveRange(start, end *time.Time, now time.Time) (time.Time, time.Time) {
	endDay := truncateDay(now)
	if end != nil {
		endDay = truncateDay(*end)
	}
	startDay := endDay.AddDate(0, 0, -29)
	if start != nil {
		startDay = truncateDay(*start)
	}
	if startDay.After(endDay) {
		startDay, endDay = endDay, startDay
	}
	if endDay.Sub(startDay) > 365*24*time.Hour {
		startDay = endDay.AddDate(0, 0, -365)
	}
	rangeEnd := endDay.Add(24*time.Hour - time.Nanosecond)
	return startDay, rangeEnd
}
