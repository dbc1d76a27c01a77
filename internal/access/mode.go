package access

// Mode describes which navigation/capability set applies to a user. A user
// belonging to at least one active league operates in league mode; otherwise
// the app runs in single-team mode. Both membership lists are always
// populated; IsLeagueMode is derived from the league list and is never
// stored independently.
type Mode struct {
	IsLeagueMode bool               `json:"is_league_mode"`
	Leagues      []LeagueMembership `json:"leagues"`
	Teams        []TeamMembership   `json:"teams"`
}

// Primary-context kinds.
const (
	ContextLeague = "league"
	ContextTeam   = "team"
	ContextNone   = "none"
)

// PrimaryContext is the default league or team a user lands on.
type PrimaryContext struct {
	Kind string `json:"kind"`
	ID   uint   `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// UserMode fetches both membership lists and derives the mode flag.
func (e *Evaluator) UserMode(userID uint) (*Mode, error) {
	leagues, err := e.store.ActiveLeagueMemberships(userID)
	if err != nil {
		return nil, err
	}
	teams, err := e.store.ActiveTeamMemberships(userID)
	if err != nil {
		return nil, err
	}
	if leagues == nil {
		leagues = []LeagueMembership{}
	}
	if teams == nil {
		teams = []TeamMembership{}
	}
	return &Mode{
		IsLeagueMode: len(leagues) > 0,
		Leagues:      leagues,
		Teams:        teams,
	}, nil
}

// UserPrimaryContext applies the tie-break rule: in league mode the most
// recently joined league wins; otherwise the most recently joined standalone
// team, falling back to the most recently joined team of any kind.
func (e *Evaluator) UserPrimaryContext(userID uint) (*PrimaryContext, error) {
	mode, err := e.UserMode(userID)
	if err != nil {
		return nil, err
	}

	if mode.IsLeagueMode {
		first := mode.Leagues[0]
		return &PrimaryContext{Kind: ContextLeague, ID: first.LeagueID, Name: first.LeagueName}, nil
	}

	for _, tm := range mode.Teams {
		if tm.LeagueID == nil {
			return &PrimaryContext{Kind: ContextTeam, ID: tm.TeamID, Name: tm.TeamName}, nil
		}
	}
	if len(mode.Teams) > 0 {
		first := mode.Teams[0]
		return &PrimaryContext{Kind: ContextTeam, ID: first.TeamID, Name: first.TeamName}, nil
	}
	return &PrimaryContext{Kind: ContextNone}, nil
}
