package api

import "time"

// Player is a league participant. A player may or may not be linked to a user account.
type Player struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	UserID        string    `json:"user_id,omitempty"`
	EloRating     float64   `json:"elo_rating"`
	MatchesPlayed int       `json:"matches_played"`
	Wins          int       `json:"wins"`
	Losses        int       `json:"losses"`
	Draws         int       `json:"draws"`
	CreatedAt     time.Time `json:"created_at,omitzero"`
}

type CreatePlayerRequest struct {
	Name   string `json:"name"`
	UserID string `json:"user_id,omitempty"`
}

// UpdatePlayerRequest only sends the fields that are set.
type UpdatePlayerRequest struct {
	Name   *string `json:"name,omitempty"`
	UserID *string `json:"user_id,omitempty"`
}

// Match is a single recorded result between two players.
type Match struct {
	ID             string    `json:"id"`
	TournamentID   string    `json:"tournament_id,omitempty"`
	Player1ID      string    `json:"player1_id"`
	Player2ID      string    `json:"player2_id"`
	Player1Name    string    `json:"player1_name,omitempty"`
	Player2Name    string    `json:"player2_name,omitempty"`
	Player1Score   int       `json:"player1_score"`
	Player2Score   int       `json:"player2_score"`
	WinnerID       string    `json:"winner_id,omitempty"`
	Player1EloDiff float64   `json:"player1_elo_change,omitempty"`
	Player2EloDiff float64   `json:"player2_elo_change,omitempty"`
	PlayedAt       time.Time `json:"played_at,omitzero"`
}

// IsDraw reports whether neither player won.
func (m Match) IsDraw() bool {
	return m.Player1Score == m.Player2Score
}

type RecordMatchRequest struct {
	TournamentID string     `json:"tournament_id,omitempty"`
	Player1ID    string     `json:"player1_id"`
	Player2ID    string     `json:"player2_id"`
	Player1Score int        `json:"player1_score"`
	Player2Score int        `json:"player2_score"`
	PlayedAt     *time.Time `json:"played_at,omitempty"`
}

// UpdateMatchRequest only sends the fields that are set.
type UpdateMatchRequest struct {
	Player1Score *int       `json:"player1_score,omitempty"`
	Player2Score *int       `json:"player2_score,omitempty"`
	PlayedAt     *time.Time `json:"played_at,omitempty"`
}

type Tournament struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"owner_id,omitempty"`
	IsActive    bool      `json:"is_active"`
	StartDate   time.Time `json:"start_date,omitzero"`
	EndDate     time.Time `json:"end_date,omitzero"`
	Players     []Player  `json:"players,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
}

type CreateTournamentRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	PlayerIDs   []string   `json:"player_ids,omitempty"`
}

// UpdateTournamentRequest only sends the fields that are set.
type UpdateTournamentRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	IsActive    *bool      `json:"is_active,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

type addTournamentPlayerRequest struct {
	PlayerID string `json:"player_id"`
}

// Standing is one row of a tournament table, computed by the server.
type Standing struct {
	Position       int     `json:"position"`
	PlayerID       string  `json:"player_id"`
	PlayerName     string  `json:"player_name"`
	MatchesPlayed  int     `json:"matches_played"`
	Wins           int     `json:"wins"`
	Draws          int     `json:"draws"`
	Losses         int     `json:"losses"`
	GoalsFor       int     `json:"goals_for"`
	GoalsAgainst   int     `json:"goals_against"`
	GoalDifference int     `json:"goal_difference"`
	Points         int     `json:"points"`
	EloRating      float64 `json:"elo_rating"`
}

// TournamentStats is the response of GET /tournaments/{id}/stats.
type TournamentStats struct {
	TournamentID string     `json:"tournament_id"`
	TotalMatches int        `json:"total_matches"`
	TotalGoals   int        `json:"total_goals"`
	Standings    []Standing `json:"standings"`
}

// PlayerStats is the signed-in user's aggregate record (GET /stats/).
type PlayerStats struct {
	MatchesPlayed int     `json:"matches_played"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Draws         int     `json:"draws"`
	WinRate       float64 `json:"win_rate"`
	GoalsFor      int     `json:"goals_for"`
	GoalsAgainst  int     `json:"goals_against"`
	EloRating     float64 `json:"elo_rating"`
	HighestElo    float64 `json:"highest_elo"`
	CurrentStreak int     `json:"current_streak"`
}

// HeadToHead compares two players over all their meetings.
type HeadToHead struct {
	Player1ID    string  `json:"player1_id"`
	Player2ID    string  `json:"player2_id"`
	Player1Name  string  `json:"player1_name,omitempty"`
	Player2Name  string  `json:"player2_name,omitempty"`
	TotalMatches int     `json:"total_matches"`
	Player1Wins  int     `json:"player1_wins"`
	Player2Wins  int     `json:"player2_wins"`
	Draws        int     `json:"draws"`
	Player1Goals int     `json:"player1_goals"`
	Player2Goals int     `json:"player2_goals"`
	Matches      []Match `json:"matches"`
}

// Friend is a user in the signed-in user's friends list.
type Friend struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name,omitempty"`
	EloRating float64   `json:"elo_rating,omitempty"`
	Since     time.Time `json:"since,omitzero"`
}

type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestRejected FriendRequestStatus = "rejected"
)

type FriendRequest struct {
	ID               string              `json:"id"`
	SenderID         string              `json:"sender_id"`
	SenderUsername   string              `json:"sender_username,omitempty"`
	ReceiverID       string              `json:"receiver_id"`
	ReceiverUsername string              `json:"receiver_username,omitempty"`
	Status           FriendRequestStatus `json:"status"`
	CreatedAt        time.Time           `json:"created_at,omitzero"`
}

// FriendRequests splits pending requests by direction.
type FriendRequests struct {
	Incoming []FriendRequest `json:"incoming"`
	Outgoing []FriendRequest `json:"outgoing"`
}

type sendFriendRequestBody struct {
	ReceiverID string `json:"receiver_id"`
}

type friendRequestAction struct {
	RequestID string `json:"request_id"`
}

type UserSearchResult struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Name           string `json:"name,omitempty"`
	IsFriend       bool   `json:"is_friend"`
	RequestPending bool   `json:"request_pending"`
}

// Opponent is someone the user recently played who isn't a friend yet.
type Opponent struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Name           string    `json:"name,omitempty"`
	MatchesAgainst int       `json:"matches_against"`
	LastPlayedAt   time.Time `json:"last_played_at,omitzero"`
}
