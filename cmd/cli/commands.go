package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	seasonID string
	region   string
	level    int
	teamSize int
	week     int
	weeks    int
	startAt  string
	dryRun   bool

	matchID    string
	teamID     string
	myScore    int
	theirScore int
	notes      string
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(teamScheduleCmd)
	rootCmd.AddCommand(unreportedCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(reportCmd)

	for _, cmd := range []*cobra.Command{standingsCmd, scheduleCmd, generateCmd} {
		cmd.Flags().StringVar(&seasonID, "season", "", "Season id")
		cmd.Flags().StringVar(&region, "region", "", "Region, e.g. EUROPE")
		cmd.Flags().IntVar(&level, "level", 0, "Division level")
	}
	for _, cmd := range []*cobra.Command{standingsCmd, scheduleCmd} {
		cmd.Flags().IntVar(&teamSize, "team-size", 0, "Team size, requires --level")
	}
	scheduleCmd.Flags().IntVar(&week, "week", 0, "Only this week")

	generateCmd.Flags().IntVar(&weeks, "weeks", 0, "Number of weeks (server default when 0)")
	generateCmd.Flags().StringVar(&startAt, "start", "", "First match time, RFC 3339")
	generateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview without writing fixtures")

	for _, cmd := range []*cobra.Command{teamScheduleCmd, unreportedCmd, reportCmd} {
		cmd.Flags().StringVar(&teamID, "team", "", "Team id")
		cmd.MarkFlagRequired("team")
	}
	reportCmd.Flags().StringVar(&matchID, "match", "", "Match id")
	reportCmd.Flags().IntVar(&myScore, "mine", 0, "Your team's score")
	reportCmd.Flags().IntVar(&theirScore, "theirs", 0, "The opponent's score")
	reportCmd.Flags().StringVar(&notes, "notes", "", "Optional comment")
	reportCmd.MarkFlagRequired("match")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics", nil)
	},
}

var standingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "Show the league table",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/league/standings", leagueQuery())
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "List scheduled matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := leagueQuery()
		if week > 0 {
			q.Set("week", strconv.Itoa(week))
		}
		return performGetRequest("/league/schedule", q)
	},
}

var teamScheduleCmd = &cobra.Command{
	Use:   "team-schedule",
	Short: "List a team's matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/team/schedule", url.Values{"teamId": {teamID}})
	},
}

var unreportedCmd = &cobra.Command{
	Use:   "unreported",
	Short: "Show a team's next match without a result",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/match/unreported", url.Values{"teamId": {teamID}})
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the round-robin schedule for a division",
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]any{"seasonId": seasonID, "region": region, "level": level}
		if weeks > 0 {
			body["weeks"] = weeks
		}
		if startAt != "" {
			body["startAtIso"] = startAt
		}
		endpoint := "/league/schedule-generate"
		if dryRun {
			endpoint += "?dry_run=true"
		}
		return performPostRequest(endpoint, body)
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report a match result for your team",
	RunE: func(cmd *cobra.Command, args []string) error {
		if teamIDs == "" {
			teamIDs = teamID
		}
		body := map[string]any{
			"matchId":    matchID,
			"teamId":     teamID,
			"myScore":    myScore,
			"theirScore": theirScore,
		}
		if notes != "" {
			body["notes"] = notes
		}
		return performPostRequest("/match/report", body)
	},
}

func leagueQuery() url.Values {
	q := url.Values{}
	if seasonID != "" {
		q.Set("seasonId", seasonID)
	}
	if region != "" {
		q.Set("region", region)
	}
	if level > 0 {
		q.Set("level", strconv.Itoa(level))
	}
	if teamSize > 0 {
		q.Set("teamSize", strconv.Itoa(teamSize))
	}
	return q
}

func performGetRequest(endpoint string, query url.Values) error {
	target := host + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return do(req)
}

func performPostRequest(endpoint string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode body: %w", err)
	}
	req, err := http.NewRequest(http.MethodPost, host+endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return do(req)
}

func do(req *http.Request) error {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if teamIDs != "" {
		req.Header.Set("X-Team-IDs", teamIDs)
	}
	fmt.Printf("Making request to %s\n", req.URL)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
