package league

import (
	"time"

	"github.com/mauv0809/match-ladder/internal/apperr"
)

// Region is the geographic ladder a division belongs to.
type Region string

const (
	RegionUSEast       Region = "US_EAST"
	RegionUSWest       Region = "US_WEST"
	RegionEurope       Region = "EUROPE"
	RegionAsia         Region = "ASIA"
	RegionAUNZ         Region = "AU_NZ"
	RegionSouthAmerica Region = "SOUTH_AMERICA"
	RegionAfrica       Region = "AFRICA"
)

var regions = map[Region]struct{}{
	RegionUSEast:       {},
	RegionUSWest:       {},
	RegionEurope:       {},
	RegionAsia:         {},
	RegionAUNZ:         {},
	RegionSouthAmerica: {},
	RegionAfrica:       {},
}

// ParseRegion validates a region name.
func ParseRegion(raw string) (Region, error) {
	region := Region(raw)
	if _, ok := regions[region]; !ok {
		return "", &apperr.ValidationError{Field: "region", Message: "unknown region " + raw}
	}
	return region, nil
}

// Fixture is one pairing produced by the schedule generator.
type Fixture struct {
	Week        int       `json:"week"`
	HomeTeamID  string    `json:"homeTeamId"`
	AwayTeamID  string    `json:"awayTeamId"`
	ScheduledAt time.Time `json:"scheduledAt"`
}

type Division struct {
	ID       string `json:"id"`
	SeasonID string `json:"seasonId"`
	Region   Region `json:"region"`
	Level    int    `json:"level"`
	TeamSize int    `json:"teamSize"`
}

// Standing is a team's row in the league table.
type Standing struct {
	TeamID   string `json:"id"`
	TeamName string `json:"name"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Ties     int    `json:"ties"`
	Points   int    `json:"points"`
	Region   Region `json:"region,omitempty"`
	Level    int    `json:"level,omitempty"`
	TeamSize int    `json:"teamSize,omitempty"`
}

type TeamRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ScheduledMatch is the read model of a persisted fixture.
type ScheduledMatch struct {
	ID          string    `json:"id"`
	WeekNumber  int       `json:"weekNumber"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Status      string    `json:"status"`
	Region      Region    `json:"region"`
	Level       int       `json:"level"`
	TeamSize    int       `json:"teamSize"`
	HomeTeam    TeamRef   `json:"homeTeam"`
	AwayTeam    TeamRef   `json:"awayTeam"`
	HomeScore   *int      `json:"homeScore"`
	AwayScore   *int      `json:"awayScore"`
}

// GenerateRequest selects the division to schedule. Weeks and StartAt fall
// back to the service defaults when zero.
type GenerateRequest struct {
	SeasonID string
	Region   Region
	Level    int
	Weeks    int
	StartAt  time.Time
}

// ScheduleSummary describes a completed generation run.
type ScheduleSummary struct {
	SeasonID   string
	DivisionID string
	Region     Region
	Level      int
	Weeks      int
	Fixtures   int
	Created    int
	StartAt    time.Time
}

type StandingsFilter struct {
	SeasonID string
	Region   Region
	Level    int
	TeamSize int
}

type ScheduleFilter struct {
	SeasonID string
	Region   Region
	Level    int
	TeamSize int
	Week     int
}
