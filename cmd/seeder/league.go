package main

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/match-ladder/internal/league"
	"gopkg.in/yaml.v3"
)

// Date is a calendar day written as YYYY-MM-DD.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	t, err := time.Parse("2006-01-02", value.Value)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", value.Value, err)
	}
	d.Time = t
	return nil
}

type Season struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	StartDate Date   `yaml:"start_date"`
}

type Division struct {
	Region   string   `yaml:"region"`
	Level    int      `yaml:"level"`
	TeamSize int      `yaml:"team_size"`
	Teams    []string `yaml:"teams"`
}

// LeagueFile is the on-disk league definition.
type LeagueFile struct {
	Season    Season     `yaml:"season"`
	Divisions []Division `yaml:"divisions"`
}

type seedResult struct {
	SeasonID  string
	Divisions int
	Teams     int
}

func loadLeague(path string) (*LeagueFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading league file: %w", err)
	}
	return parseLeague(data)
}

func parseLeague(data []byte) (*LeagueFile, error) {
	var lf LeagueFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("parsing league file: %w", err)
	}
	if lf.Season.Name == "" {
		return nil, fmt.Errorf("season name is required")
	}
	if lf.Season.ID == "" {
		lf.Season.ID = stableID("season", lf.Season.Name)
	}
	for i, d := range lf.Divisions {
		if _, err := league.ParseRegion(d.Region); err != nil {
			return nil, fmt.Errorf("division %d: %w", i+1, err)
		}
		if d.Level < 1 {
			return nil, fmt.Errorf("division %d: level must be at least 1", i+1)
		}
		if d.TeamSize == 0 {
			lf.Divisions[i].TeamSize = 2
		}
		seen := make(map[string]bool, len(d.Teams))
		for _, name := range d.Teams {
			if seen[name] {
				return nil, fmt.Errorf("division %d: duplicate team %q", i+1, name)
			}
			seen[name] = true
		}
	}
	return &lf, nil
}

// stableID derives a deterministic id so re-seeding the same file is a no-op.
func stableID(parts ...string) string {
	key := ""
	for _, p := range parts {
		key += p + "/"
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("match-ladder/"+key)).String()
}

func seed(db *sql.DB, lf *LeagueFile) (seedResult, error) {
	result := seedResult{SeasonID: lf.Season.ID}

	tx, err := db.Begin()
	if err != nil {
		return result, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT OR IGNORE INTO seasons (id, name, created_at) VALUES (?, ?, ?)`,
		lf.Season.ID, lf.Season.Name, lf.Season.StartDate.Unix())
	if err != nil {
		return result, fmt.Errorf("failed to insert season: %w", err)
	}

	for _, d := range lf.Divisions {
		divisionID := stableID(lf.Season.ID, d.Region, strconv.Itoa(d.Level), strconv.Itoa(d.TeamSize))
		res, err := tx.Exec(`INSERT OR IGNORE INTO divisions (id, season_id, region, level, team_size) VALUES (?, ?, ?, ?, ?)`,
			divisionID, lf.Season.ID, d.Region, d.Level, d.TeamSize)
		if err != nil {
			return result, fmt.Errorf("failed to insert division %s/%d: %w", d.Region, d.Level, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			result.Divisions++
		}

		for _, name := range d.Teams {
			res, err := tx.Exec(`INSERT OR IGNORE INTO teams (id, name, season_id, division_id, region) VALUES (?, ?, ?, ?, ?)`,
				stableID(divisionID, name), name, lf.Season.ID, divisionID, d.Region)
			if err != nil {
				return result, fmt.Errorf("failed to insert team %s: %w", name, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				result.Teams++
			}
		}
		log.Debug("Seeded division", "region", d.Region, "level", d.Level, "teams", len(d.Teams))
	}

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return result, nil
}
