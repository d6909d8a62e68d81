package holiday

import (
	"context"
	"time"
)

// Holiday is one non-working date as returned by the external calendar
// collaborator.
type Holiday struct {
	Date time.Time `json:"date"`
	Name string    `json:"name"`
}

// Provider is the external holiday calendar contract. Implementations are
// expected to be pure lookups: same year and region always yield the same
// set of dates.
type Provider interface {
	Holidays(ctx context.Context, year int, region string) ([]Holiday, error)
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc func(ctx context.Context, year int, region string) ([]Holiday, error)

func (f ProviderFunc) Holidays(ctx context.Context, year int, region string) ([]Holiday, error) {
	return f(ctx, year, region)
}

// DateSet collapses provider results for one or more years into a lookup set
// keyed by calendar day, the shape the working-time calculator consumes.
func DateSet(holidays ...[]Holiday) map[string]struct{} {
	set := make(map[string]struct{})
	for _, hs := range holidays {
		for _, h := range hs {
			set[h.Date.Format("2006-01-02")] = struct{}{}
		}
	}
	return set
}

// FetchDateSet loads holidays for every year in [fromYear, toYear] and
// returns the combined date set.
func FetchDateSet(ctx context.Context, p Provider, region string, fromYear, toYear int) (map[string]struct{}, error) {
	var all [][]Holiday
	for y := fromYear; y <= toYear; y++ {
		hs, err := p.Holidays(ctx, y, region)
		if err != nil {
			return nil, err
		}
		all = append(all, hs)
	}
	return DateSet(all...), nil
}
