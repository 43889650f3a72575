package services

import (
	"fmt"
	"slices"
	"strings"

	"housing-agent/models"
)

// Score weights. The total is capped at maxScore.
const (
	weightRecentBuild   = 30
	weightHouse         = 30
	weightFavorable     = 20
	weightManyBathrooms = 15
	weightLargeSurface  = 10
	weightPremiumArea   = 10
	weightManyRooms     = 5
	weightCompleteData  = 10

	manyBathrooms = 3
	largeSqm      = 100
	manyRooms     = 4
	maxScore      = 100
)

// Weights lists the scoring rules in the order they are applied.
func Weights(c models.FilterCriteria) []models.ScoreWeight {
	return []models.ScoreWeight{
		{fmt.Sprintf("built in %d or later", c.PriorityYear), weightRecentBuild},
		{"individual house", weightHouse},
		{fmt.Sprintf("price under €%.0f", c.FavorablePrice), weightFavorable},
		{fmt.Sprintf("%d+ bathrooms", manyBathrooms), weightManyBathrooms},
		{fmt.Sprintf("%d+ sqm", largeSqm), weightLargeSurface},
		{"premium area (" + strings.Join(c.PremiumAreas, ", ") + ")", weightPremiumArea},
		{fmt.Sprintf("%d+ rooms", manyRooms), weightManyRooms},
		{"complete data (no verify flags)", weightCompleteData},
	}
}

// Select returns the listings that satisfy every hard criterion, scored and
// annotated, in non-increasing score order. Equal scores keep input order.
func Select(listings []models.NormalizedListing, c models.FilterCriteria) []models.NormalizedListing {
	out := make([]models.NormalizedListing, 0, len(listings))
	for _, l := range listings {
		if Exclusion(l, c) != "" {
			continue
		}
		l.Score = Score(l, c)
		l.Notes = Notes(l, c)
		out = append(out, l)
	}
	slices.SortStableFunc(out, func(a, b models.NormalizedListing) int {
		return b.Score - a.Score
	})
	return out
}

// Exclusion names the first hard criterion l violates, or "" when it passes.
// Only a known value can violate a criterion.
func Exclusion(l models.NormalizedListing, c models.FilterCriteria) string {
	if l.ForRent {
		return "listed for rent"
	}
	if v, ok := l.PriceEUR.Get(); ok && c.MaxPrice > 0 && v > c.MaxPrice {
		return fmt.Sprintf("price €%.0f above €%.0f", v, c.MaxPrice)
	}
	if v, ok := l.Sqm.Get(); ok && v < c.MinSqm {
		return fmt.Sprintf("%.0f sqm below %.0f", v, c.MinSqm)
	}
	if v, ok := l.Rooms.Get(); ok && v < c.MinRooms {
		return fmt.Sprintf("%d rooms below %d", v, c.MinRooms)
	}
	if v, ok := l.Bathrooms.Get(); ok && v < c.MinBathrooms {
		return fmt.Sprintf("%d bathrooms below %d", v, c.MinBathrooms)
	}
	if v, ok := l.Kitchen.Get(); ok && c.RequireClosedKitchen && v == models.KitchenOpen {
		return "open kitchen"
	}
	if len(c.Areas) > 0 && !areaUnknown(l) && !inAreas(l, c.Areas) {
		return fmt.Sprintf("area %q not allowed", l.Area)
	}
	return ""
}

// Score is the additive quality score of l, capped at 100.
func Score(l models.NormalizedListing, c models.FilterCriteria) int {
	score := 0
	if v, ok := l.YearBuilt.Get(); ok && v >= c.PriorityYear {
		score += weightRecentBuild
	}
	if l.Kind == models.KindHouse {
		score += weightHouse
	}
	if v, ok := l.PriceEUR.Get(); ok && v < c.FavorablePrice {
		score += weightFavorable
	}
	if v, ok := l.Bathrooms.Get(); ok && v >= manyBathrooms {
		score += weightManyBathrooms
	}
	if v, ok := l.Sqm.Get(); ok && v >= largeSqm {
		score += weightLargeSurface
	}
	if inAreas(l, c.PremiumAreas) {
		score += weightPremiumArea
	}
	if v, ok := l.Rooms.Get(); ok && v >= manyRooms {
		score += weightManyRooms
	}
	if len(unknownFields(l)) == 0 {
		score += weightCompleteData
	}
	return min(score, maxScore)
}

// Notes flags every Unknown criterion field as "verify <field>".
func Notes(l models.NormalizedListing, c models.FilterCriteria) string {
	var notes []string
	for _, f := range unknownFields(l) {
		notes = append(notes, "verify "+f)
	}
	if len(c.Areas) > 0 && areaUnknown(l) && !inAreas(l, c.Areas) {
		notes = append(notes, "verify area")
	}
	return strings.Join(notes, "; ")
}

func unknownFields(l models.NormalizedListing) []string {
	var fields []string
	if !l.PriceEUR.IsKnown() {
		fields = append(fields, "price")
	}
	if !l.Sqm.IsKnown() {
		fields = append(fields, "sqm")
	}
	if !l.Rooms.IsKnown() {
		fields = append(fields, "rooms")
	}
	if !l.Bathrooms.IsKnown() {
		fields = append(fields, "bathrooms")
	}
	if !l.YearBuilt.IsKnown() {
		fields = append(fields, "year")
	}
	if !l.Kitchen.IsKnown() {
		fields = append(fields, "kitchen")
	}
	return fields
}

// areaUnknown reports a listing that came without any area text.
func areaUnknown(l models.NormalizedListing) bool {
	return strings.TrimSpace(l.Area) == ""
}

func inAreas(l models.NormalizedListing, areas []string) bool {
	for _, a := range areas {
		if containsFolded(a, l.Area, l.Title) {
			return true
		}
	}
	return false
}
