package access

import (
	"errors"
	"time"
)

// Membership roles. League roles live on league_users rows, team roles on
// team_members rows; the two systems are independent except for the
// league-admin inheritance rule implemented by the Evaluator.
const (
	RoleLeagueAdmin = "league_admin"
	RoleManager     = "manager"
	RoleScorekeeper = "scorekeeper"
	RoleMember      = "member"

	TeamRoleAdmin  = "admin"
	TeamRoleMember = "member"
)

// Error taxonomy for access decisions. Handlers map these to HTTP statuses;
// none of them is retryable without an external state change.
var (
	// ErrUnauthenticated means no valid session credential was presented.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrUnauthorized means the session is valid but lacks capability.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound covers missing and inactive resources, and is also used
	// where denying must not reveal that the resource exists.
	ErrNotFound = errors.New("not found")
)

// TeamRef is the slice of a team row the evaluator needs.
type TeamRef struct {
	ID       uint
	LeagueID *uint
	Active   bool
}

// LeagueMembership is one league_users row joined with its league.
type LeagueMembership struct {
	LeagueID   uint      `json:"league_id"`
	LeagueName string    `json:"league_name"`
	Role       string    `json:"role"`
	JoinedAt   time.Time `json:"joined_at"`
}

// TeamMembership is one team_members row joined with its team.
type TeamMembership struct {
	TeamID   uint      `json:"team_id"`
	TeamName string    `json:"team_name"`
	LeagueID *uint     `json:"league_id,omitempty"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// Store abstracts the membership tables. The gorm-backed implementation
// lives in store.go; tests substitute an in-memory fake.
type Store interface {
	// GetTeam returns the team row, or nil if no such team exists.
	GetTeam(teamID uint) (*TeamRef, error)
	// IsLeagueAdmin reports whether a league_users row with the
	// league_admin role exists for the exact (user, league) pair.
	IsLeagueAdmin(userID, leagueID uint) (bool, error)
	// TeamRole returns the user's role on the team, or "" when the user
	// has no team_members row for it.
	TeamRole(userID, teamID uint) (string, error)
	// AdminOfAnyLeague reports whether the user holds league_admin in any league.
	AdminOfAnyLeague(userID uint) (bool, error)
	// ActiveLeagueMemberships returns the user's memberships in active
	// leagues, most recently joined first.
	ActiveLeagueMemberships(userID uint) ([]LeagueMembership, error)
	// ActiveTeamMemberships returns the user's memberships in active
	// teams, most recently joined first.
	ActiveTeamMemberships(userID uint) ([]TeamMembership, error)
}

// Evaluator answers capability questions by composing membership lookups.
// Nothing is cached: every call re-reads the membership edges, so revoking
// a row revokes the derived capability on the next check.
type Evaluator struct {
	store Store
}

// NewEvaluator creates an Evaluator over the given membership store.
func NewEvaluator(store Store) *Evaluator {
	return &Evaluator{store: store}
}

// IsLeagueAdmin reports whether the user holds the league_admin role in the
// given league. Roles in other leagues never count.
func (e *Evaluator) IsLeagueAdmin(userID, leagueID uint) (bool, error) {
	return e.store.IsLeagueAdmin(userID, leagueID)
}

// IsTeamMember reports whether the user has a team_members row for the team,
// with any role.
func (e *Evaluator) IsTeamMember(userID, teamID uint) (bool, error) {
	role, err := e.store.TeamRole(userID, teamID)
	if err != nil {
		return false, err
	}
	return role != "", nil
}

// IsTeamAdmin reports whether the user has a team_members row with the admin
// role for the team.
func (e *Evaluator) IsTeamAdmin(userID, teamID uint) (bool, error) {
	role, err := e.store.TeamRole(userID, teamID)
	if err != nil {
		return false, err
	}
	return role == TeamRoleAdmin, nil
}

// HasTeamAccess reports whether the user may read the team: direct
// membership, or league_admin of the team's league. Missing or inactive
// teams yield ErrNotFound.
func (e *Evaluator) HasTeamAccess(userID, teamID uint) (bool, error) {
	team, err := e.store.GetTeam(teamID)
	if err != nil {
		return false, err
	}
	if team == nil || !team.Active {
		return false, ErrNotFound
	}

	member, err := e.IsTeamMember(userID, teamID)
	if err != nil {
		return false, err
	}
	if member {
		return true, nil
	}
	return e.inheritedLeagueAdmin(userID, team)
}

// HasTeamAdminAccess reports whether the user may administer the team:
// direct admin membership, or league_admin of the team's league.
func (e *Evaluator) HasTeamAdminAccess(userID, teamID uint) (bool, error) {
	team, err := e.store.GetTeam(teamID)
	if err != nil {
		return false, err
	}
	if team == nil || !team.Active {
		return false, ErrNotFound
	}

	admin, err := e.IsTeamAdmin(userID, teamID)
	if err != nil {
		return false, err
	}
	if admin {
		return true, nil
	}
	return e.inheritedLeagueAdmin(userID, team)
}

// IsSystemAdmin reports whether the user holds league_admin in any league.
// Platform-wide capability is derived from membership rows, never stored on
// the user.
func (e *Evaluator) IsSystemAdmin(userID uint) (bool, error) {
	return e.store.AdminOfAnyLeague(userID)
}

// inheritedLeagueAdmin applies the inheritance rule: a league admin
// administers every team of the league, with or without a membership row.
// A standalone team inherits nothing.
func (e *Evaluator) inheritedLeagueAdmin(userID uint, team *TeamRef) (bool, error) {
	if team.LeagueID == nil {
		return false, nil
	}
	return e.store.IsLeagueAdmin(userID, *team.LeagueID)
}
