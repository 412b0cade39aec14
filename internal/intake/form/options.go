package form

import (
	"fmt"
	"time"
)

// Option is one selectable answer of the questionnaire.
type Option struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// Step is one page of the questionnaire.
type Step struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	ShortTitle string `json:"shortTitle"`
}

// FirstStep and LastStep bound the questionnaire.
const (
	FirstStep = 1
	LastStep  = 5

	// BookingWindowDays is how far ahead a consultation may be requested.
	BookingWindowDays = 30
	// FreeTextLimit caps the additional-context answer, in characters.
	FreeTextLimit = 1000
)

var Steps = []Step{
	{ID: 1, Title: "Personal Information", ShortTitle: "Personal"},
	{ID: 2, Title: "Financial Profile", ShortTitle: "Financial"},
	{ID: 3, Title: "Investment Preferences", ShortTitle: "Preferences"},
	{ID: 4, Title: "Consultation Scheduling", ShortTitle: "Scheduling"},
	{ID: 5, Title: "Additional Details", ShortTitle: "Details"},
}

var Provinces = []Option{
	{Value: "ON", Label: "Ontario"},
	{Value: "BC", Label: "British Columbia"},
	{Value: "AB", Label: "Alberta"},
	{Value: "QC", Label: "Quebec"},
	{Value: "MB", Label: "Manitoba"},
	{Value: "SK", Label: "Saskatchewan"},
	{Value: "NS", Label: "Nova Scotia"},
	{Value: "NB", Label: "New Brunswick"},
	{Value: "NL", Label: "Newfoundland and Labrador"},
	{Value: "PE", Label: "Prince Edward Island"},
	{Value: "NT", Label: "Northwest Territories"},
	{Value: "YT", Label: "Yukon"},
	{Value: "NU", Label: "Nunavut"},
}

var AssetRanges = []Option{
	{Value: "under_25k", Label: "Under $25,000"},
	{Value: "25k_100k", Label: "$25,000 -- $100,000"},
	{Value: "100k_250k", Label: "$100,000 -- $250,000"},
	{Value: "250k_500k", Label: "$250,000 -- $500,000"},
	{Value: "500k_1m", Label: "$500,000 -- $1,000,000"},
	{Value: "1m_plus", Label: "$1,000,000+"},
}

var IncomeRanges = []Option{
	{Value: "under_50k", Label: "Under $50,000"},
	{Value: "50k_100k", Label: "$50,000 -- $100,000"},
	{Value: "100k_200k", Label: "$100,000 -- $200,000"},
	{Value: "200k_500k", Label: "$200,000 -- $500,000"},
	{Value: "500k_plus", Label: "$500,000+"},
}

var Goals = []Option{
	{Value: "Retirement Planning", Label: "Retirement Planning", Description: "Build a sustainable income for retirement"},
	{Value: "Wealth Growth & Accumulation", Label: "Wealth Growth & Accumulation", Description: "Grow your portfolio over time"},
	{Value: "Tax Optimization", Label: "Tax Optimization", Description: "Minimize your tax burden strategically"},
	{Value: "Estate Planning", Label: "Estate Planning", Description: "Protect and transfer your wealth"},
	{Value: "Debt Management", Label: "Debt Management", Description: "Strategic approach to managing debt"},
	{Value: "Education Savings (RESP)", Label: "Education Savings (RESP)", Description: "Save for your children's education"},
}

var Timelines = []Option{
	{Value: "under_1yr", Label: "Less than 1 year"},
	{Value: "1_3yr", Label: "1 -- 3 years"},
	{Value: "3_5yr", Label: "3 -- 5 years"},
	{Value: "5_10yr", Label: "5 -- 10 years"},
	{Value: "10_plus", Label: "10+ years"},
}

var RiskLevels = []Option{
	{Value: "conservative", Label: "Conservative", Description: "Preserve what I have. I am comfortable with lower returns for stability."},
	{Value: "moderate", Label: "Moderate", Description: "Balanced approach. Some risk for growth, but protect the downside."},
	{Value: "aggressive", Label: "Aggressive", Description: "Maximize growth. I can handle significant short-term volatility."},
}

var AdvisorSituations = []Option{
	{Value: "switching", Label: "I currently have a financial advisor and am considering switching"},
	{Value: "never_had", Label: "I have never worked with a financial advisor"},
	{Value: "previously_had", Label: "I previously had an advisor but do not currently"},
}

// TimeSlots is the half-hour grid from 09:00 to 16:30.
var TimeSlots = buildTimeSlots(9, 17)

func buildTimeSlots(fromHour, toHour int) []Option {
	slots := make([]Option, 0, (toHour-fromHour)*2)
	for hour := fromHour; hour < toHour; hour++ {
		for _, minute := range []int{0, 30} {
			clock := time.Date(2000, 1, 1, hour, minute, 0, 0, time.UTC)
			slots = append(slots, Option{
				Value: fmt.Sprintf("%02d:%02d", hour, minute),
				Label: clock.Format("3:04 PM"),
			})
		}
	}
	return slots
}

// Values returns the option values in order.
func Values(options []Option) []string {
	values := make([]string, len(options))
	for i, option := range options {
		values[i] = option.Value
	}
	return values
}

// DateWindow returns the first and last selectable consultation dates as
// YYYY-MM-DD: the next weekday after today, and today plus BookingWindowDays.
func DateWindow(now time.Time) (string, string) {
	first := startOfDay(now).AddDate(0, 0, 1)
	for isWeekend(first) {
		first = first.AddDate(0, 0, 1)
	}
	last := startOfDay(now).AddDate(0, 0, BookingWindowDays)
	return first.Format(dateLayout), last.Format(dateLayout)
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func isWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}
