package pipeline

import "github.com/couchcryptid/epea-data-etl/internal/domain"

// Build is the in-memory result of grouping rows into campaigns.
type Build struct {
	Years     domain.YearRange
	Campaigns []domain.Campaign
	Visits    int
}

// Transform groups rows by (year, month) and derives the full campaign
// calendar. It fails with domain.ErrNoRows when there are no rows.
func Transform(rows []domain.Row) (Build, error) {
	years, err := domain.ObservedYears(rows)
	if err != nil {
		return Build{}, err
	}

	groups := domain.GroupVisits(rows)
	visits := 0
	for _, vs := range groups {
		visits += len(vs)
	}

	return Build{
		Years:     years,
		Campaigns: domain.BuildCampaigns(groups, years),
		Visits:    visits,
	}, nil
}
