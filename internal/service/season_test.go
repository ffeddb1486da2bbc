package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCurrentSeason(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		month      time.Month
		year       int
		wantSeason string
	}{
		{name: "january is winter", month: time.January, year: 2025, wantSeason: "WINTER"},
		{name: "february is winter", month: time.February, year: 2025, wantSeason: "WINTER"},
		{name: "march boundary is winter", month: time.March, year: 2025, wantSeason: "WINTER"},
		{name: "april boundary is spring", month: time.April, year: 2025, wantSeason: "SPRING"},
		{name: "may is spring", month: time.May, year: 2025, wantSeason: "SPRING"},
		{name: "june boundary is spring", month: time.June, year: 2025, wantSeason: "SPRING"},
		{name: "july boundary is summer", month: time.July, year: 2025, wantSeason: "SUMMER"},
		{name: "august is summer", month: time.August, year: 2025, wantSeason: "SUMMER"},
		{name: "september boundary is summer", month: time.September, year: 2025, wantSeason: "SUMMER"},
		{name: "october boundary is fall", month: time.October, year: 2025, wantSeason: "FALL"},
		{name: "november is fall", month: time.November, year: 2025, wantSeason: "FALL"},
		{name: "december boundary is fall", month: time.December, year: 2024, wantSeason: "FALL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			now := time.Date(tt.year, tt.month, 15, 12, 0, 0, 0, time.UTC)
			season, year := CurrentSeason(now)
			assert.Equal(t, tt.wantSeason, season)
			assert.Equal(t, tt.year, year)
		})
	}
}
