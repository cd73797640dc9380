package analytics

import (
	"fmt"
	"strings"
)

// ProviderName selects the data source backing a response.
type ProviderName string

const (
	ProviderInternal ProviderName = "internal"
	ProviderGoogle   ProviderName = "google"
	ProviderVercel   ProviderName = "vercel"
)

// ParseProvider is case-insensitive; anything unknown resolves to fallback.
func ParseProvider(raw string, fallback ProviderName) ProviderName {
	switch ProviderName(strings.ToLower(strings.TrimSpace(raw))) {
	case ProviderInternal:
		return ProviderInternal
	case ProviderGoogle:
		return ProviderGoogle
	case ProviderVercel:
		return ProviderVercel
	}
	if fallback == "" {
		return ProviderInternal
	}
	return fallback
}

// Range is a reporting window ending today.
type Range struct {
	Key  string
	Days int
}

var (
	Range7d  = Range{Key: "7d", Days: 7}
	Range30d = Range{Key: "30d", Days: 30}
	Range90d = Range{Key: "90d", Days: 90}
	Range1y  = Range{Key: "1y", Days: 365}

	// Ranges lists every accepted range in ascending order.
	Ranges = []Range{Range7d, Range30d, Range90d, Range1y}
)

// ParseRange accepts 7d, 30d, 90d and 1y; everything else is 7d.
func ParseRange(raw string) Range {
	key := strings.ToLower(strings.TrimSpace(raw))
	for _, r := range Ranges {
		if r.Key == key {
			return r
		}
	}
	return Range7d
}

// GAStartDate is the GA4 relative start date covering exactly r.Days days including today.
func (r Range) GAStartDate() string {
	if r.Days <= 1 {
		return "today"
	}
	return fmt.Sprintf("%ddaysAgo", r.Days-1)
}
