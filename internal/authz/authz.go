package authz

import (
	"context"
	"crypto/subtle"
	"errors"
	"sort"
	"strings"
)

var ErrForbidden = errors.New("forbidden")

// Capabilities is the set of things the caller of a single request may do.
// It is built once by the HTTP layer and passed into every operation.
type Capabilities struct {
	SubjectID string
	Admin     bool
	teams     map[string]struct{}
}

type capabilitiesContextKey struct{}

// New returns capabilities for a caller acting for the given teams.
func New(subjectID string, admin bool, teamIDs ...string) Capabilities {
	teams := make(map[string]struct{}, len(teamIDs))
	for _, id := range teamIDs {
		id = strings.TrimSpace(id)
		if id != "" {
			teams[id] = struct{}{}
		}
	}
	return Capabilities{SubjectID: subjectID, Admin: admin, teams: teams}
}

// Admin returns capabilities that cover every operation.
func Admin(subjectID string) Capabilities {
	return New(subjectID, true)
}

// CanManageLeague reports whether the caller may generate schedules.
func (c Capabilities) CanManageLeague() bool {
	return c.Admin
}

// CanActForTeam reports whether the caller may report results on behalf of teamID.
func (c Capabilities) CanActForTeam(teamID string) bool {
	if c.Admin {
		return true
	}
	_, ok := c.teams[teamID]
	return ok
}

// Teams returns the team ids the caller acts for, sorted.
func (c Capabilities) Teams() []string {
	ids := make([]string, 0, len(c.teams))
	for id := range c.teams {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ParseTeamIDs splits a comma separated header value.
func ParseTeamIDs(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// TokenMatches compares a presented bearer token against the configured one.
// An empty configured token never matches.
func TokenMatches(presented, configured string) bool {
	if configured == "" || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(configured)) == 1
}

func ContextWithCapabilities(ctx context.Context, caps Capabilities) context.Context {
	return context.WithValue(ctx, capabilitiesContextKey{}, caps)
}

// FromContext returns the capabilities stored by the HTTP middleware, or the
// zero value (no rights) when none were stored.
func FromContext(ctx context.Context) Capabilities {
	if ctx == nil {
		return Capabilities{}
	}
	caps, ok := ctx.Value(capabilitiesContextKey{}).(Capabilities)
	if !ok {
		return Capabilities{}
	}
	return caps
}
