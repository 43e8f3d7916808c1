package league

import "time"

const week = 7 * 24 * time.Hour

// bye marks the placeholder slot added when the team count is odd.
const bye = -1

// GenerateSchedule pairs teams with the circle method. At most len(teams)-1
// rounds are produced (one full round robin), one round per week starting at
// start. Pairings against the bye placeholder are dropped, so a team with the
// bye simply has no fixture that week. Fewer than two teams yields no fixtures.
func GenerateSchedule(teamIDs []string, weeks int, start time.Time) []Fixture {
	if len(teamIDs) < 2 || weeks < 1 {
		return []Fixture{}
	}

	working := make([]int, 0, len(teamIDs)+1)
	for i := range teamIDs {
		working = append(working, i)
	}
	if len(working)%2 == 1 {
		working = append(working, bye)
	}

	n := len(working)
	rounds := min(weeks, n-1)
	fixtures := make([]Fixture, 0, rounds*n/2)

	for round := 0; round < rounds; round++ {
		weekNumber := round + 1
		scheduledAt := start.Add(time.Duration(weekNumber-1) * week)
		for i := 0; i < n/2; i++ {
			left := working[i]
			right := working[n-1-i]
			if left == bye || right == bye {
				continue
			}
			home, away := left, right
			if round%2 == 1 {
				home, away = away, home
			}
			fixtures = append(fixtures, Fixture{
				Week:        weekNumber,
				HomeTeamID:  teamIDs[home],
				AwayTeamID:  teamIDs[away],
				ScheduledAt: scheduledAt,
			})
		}
		rotateTeams(working)
	}

	return fixtures
}

// rotateTeams keeps index 0 fixed and moves the last entry to index 1.
func rotateTeams(teams []int) {
	if len(teams) <= 2 {
		return
	}
	last := teams[len(teams)-1]
	copy(teams[2:], teams[1:len(teams)-1])
	teams[1] = last
}
