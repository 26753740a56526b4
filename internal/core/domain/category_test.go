package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/shelf/internal/core/domain"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name     string
		rec      domain.Record
		category string
		want     bool
	}{
		{"typed primary", domain.Record{Type: domain.PrimaryCategory}, domain.PrimaryCategory, true},
		{"category field primary", domain.Record{Category: domain.PrimaryCategory}, domain.PrimaryCategory, true},
		{"legacy untyped matches primary", domain.Record{ID: "old"}, domain.PrimaryCategory, true},
		{"other type excluded from primary", domain.Record{Type: "other"}, domain.PrimaryCategory, false},
		{"category-only other excluded from primary", domain.Record{Category: "essays"}, domain.PrimaryCategory, false},
		{"exact type match", domain.Record{Type: "essays"}, "essays", true},
		{"exact category match", domain.Record{Category: "essays"}, "essays", true},
		{"legacy untyped not in other category", domain.Record{ID: "old"}, "essays", false},
		{"mismatch", domain.Record{Type: "poems"}, "essays", false},
		{"empty category", domain.Record{}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.Matches(tt.rec, tt.category))
		})
	}
}
