package shared_test

import (
	"reflect"
	"testing"
	"tripbook/shared"
	"tripbook/shared/dto"
)

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		expected int
	}{
		{name: "zero total returns 1", total: 0, limit: 10, expected: 1},
		{name: "zero limit returns 1", total: 100, limit: 0, expected: 1},
		{name: "negative limit returns 1", total: 100, limit: -5, expected: 1},
		{name: "exact division", total: 100, limit: 10, expected: 10},
		{name: "division with remainder", total: 101, limit: 10, expected: 11},
		{name: "limit greater than total", total: 5, limit: 10, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.CalculateTotalPage(tt.total, tt.limit)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestFilterByID(t *testing.T) {
	expected := dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    "id",
				Value:    "550e8400-e29b-41d4-a716-446655440000",
				Operator: dto.FilterOperatorEq,
				Table:    "trip_bookings",
			},
		},
	}

	result := shared.FilterByID("550e8400-e29b-41d4-a716-446655440000", "id", "trip_bookings")

	if !reflect.DeepEqual(result, expected) {
		t.Errorf("expected %+v, got %+v", expected, result)
	}
}

func TestFilterByFields(t *testing.T) {
	result := shared.FilterByFields("trip_bookings", map[string]string{
		"user_id": "u-1",
		"status":  "",
	})

	if result.Operator != dto.FilterGroupOperatorAnd {
		t.Errorf("expected AND operator, got %s", result.Operator)
	}

	if len(result.Filters) != 1 {
		t.Fatalf("expected empty values to be skipped, got %d filters", len(result.Filters))
	}

	filter, ok := result.Filters[0].(dto.Filter)
	if !ok {
		t.Fatal("expected filter to be of type dto.Filter")
	}

	if filter.Field != "user_id" || filter.Value != "u-1" {
		t.Errorf("unexpected filter %+v", filter)
	}
}

func TestBuildCacheKey(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		parts    []string
		expected string
	}{
		{name: "prefix only", prefix: "limiter", expected: "limiter"},
		{name: "with parts", prefix: "booking:idempotency", parts: []string{"u-1", "key-9"}, expected: "booking:idempotency:u-1:key-9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shared.BuildCacheKey(tt.prefix, tt.parts...); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}
