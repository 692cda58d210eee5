package apitest

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/go-match-tracker/api"
)

type tournamentRecord struct {
	api.Tournament
	playerIDs []string
}

// SeedPlayer adds a player and returns it.
func (s *Server) SeedPlayer(p api.Player) api.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = s.newID()
	}
	s.players[p.ID] = &p
	return p
}

// SeedTournament adds a tournament owned by ownerID with the given players.
func (s *Server) SeedTournament(t api.Tournament, playerIDs ...string) api.Tournament {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = s.newID()
	}
	s.tournaments[t.ID] = &tournamentRecord{Tournament: t, playerIDs: playerIDs}
	return t
}

// SeedMatches adds n matches between two players of a tournament, player 1 winning each 2-1.
func (s *Server) SeedMatches(tournamentID, player1ID, player2ID string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := time.Date(2025, 1, 1, 18, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		m := &api.Match{
			ID:           s.newID(),
			TournamentID: tournamentID,
			Player1ID:    player1ID,
			Player2ID:    player2ID,
			Player1Score: 2,
			Player2Score: 1,
			WinnerID:     player1ID,
			PlayedAt:     start.Add(time.Duration(i) * time.Hour),
		}
		s.matches[m.ID] = m
	}
}

// SeedFriendship makes two users friends.
func (s *Server) SeedFriendship(a, b string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.befriend(a, b)
}

// HasTournament reports whether the tournament still exists.
func (s *Server) HasTournament(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tournaments[id]
	return ok
}

func (s *Server) befriend(a, b string) {
	if s.friendships[a] == nil {
		s.friendships[a] = make(map[string]bool)
	}
	if s.friendships[b] == nil {
		s.friendships[b] = make(map[string]bool)
	}
	s.friendships[a][b] = true
	s.friendships[b][a] = true
}

func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	players := make([]api.Player, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, *p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].Name < players[j].Name })
	writeJSON(w, http.StatusOK, players)
}

func (s *Server) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	var body api.CreatePlayerRequest
	if !decode(w, r, &body) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.players {
		if strings.EqualFold(p.Name, body.Name) {
			writeDetail(w, http.StatusConflict, "Player name already taken")
			return
		}
	}
	p := &api.Player{ID: s.newID(), Name: body.Name, UserID: body.UserID, EloRating: 1200, CreatedAt: time.Now().UTC()}
	s.players[p.ID] = p
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdatePlayer(w http.ResponseWriter, r *http.Request) {
	var body api.UpdatePlayerRequest
	if !decode(w, r, &body) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[chi.URLParam(r, "id")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Player not found")
		return
	}
	if body.Name != nil {
		p.Name = *body.Name
	}
	if body.UserID != nil {
		p.UserID = *body.UserID
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePlayer(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := chi.URLParam(r, "id")
	if _, ok := s.players[id]; !ok {
		writeDetail(w, http.StatusNotFound, "Player not found")
		return
	}
	delete(s.players, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecordMatch(w http.ResponseWriter, r *http.Request) {
	var body api.RecordMatchRequest
	if !decode(w, r, &body) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range []string{body.Player1ID, body.Player2ID} {
		if _, ok := s.players[id]; !ok {
			writeDetail(w, http.StatusNotFound, "Player "+id+" not found")
			return
		}
	}

	m := &api.Match{
		ID:           s.newID(),
		TournamentID: body.TournamentID,
		Player1ID:    body.Player1ID,
		Player2ID:    body.Player2ID,
		Player1Score: body.Player1Score,
		Player2Score: body.Player2Score,
		PlayedAt:     time.Now().UTC(),
	}
	if body.PlayedAt != nil {
		m.PlayedAt = *body.PlayedAt
	}
	setWinner(m)
	s.matches[m.ID] = m
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleUpdateMatch(w http.ResponseWriter, r *http.Request) {
	var body api.UpdateMatchRequest
	if !decode(w, r, &body) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.matches[chi.URLParam(r, "id")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Match not found")
		return
	}
	if body.Player1Score != nil {
		m.Player1Score = *body.Player1Score
	}
	if body.Player2Score != nil {
		m.Player2Score = *body.Player2Score
	}
	if body.PlayedAt != nil {
		m.PlayedAt = *body.PlayedAt
	}
	setWinner(m)
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleDeleteMatch(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := chi.URLParam(r, "id")
	if _, ok := s.matches[id]; !ok {
		writeDetail(w, http.StatusNotFound, "Match not found")
		return
	}
	delete(s.matches, id)
	w.WriteHeader(http.StatusNoContent)
}

func setWinner(m *api.Match) {
	switch {
	case m.Player1Score > m.Player2Score:
		m.WinnerID = m.Player1ID
	case m.Player2Score > m.Player1Score:
		m.WinnerID = m.Player2ID
	default:
		m.WinnerID = ""
	}
}

func (s *Server) handleListTournaments(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]api.Tournament, 0, len(s.tournaments))
	for _, t := range s.tournaments {
		out = append(out, s.tournamentView(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTournament(w http.ResponseWriter, r *http.Request) {
	var body api.CreateTournamentRequest
	if !decode(w, r, &body) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := &tournamentRecord{
		Tournament: api.Tournament{
			ID:          s.newID(),
			Name:        body.Name,
			Description: body.Description,
			OwnerID:     currentUserID(r),
			IsActive:    true,
			CreatedAt:   time.Now().UTC(),
		},
		playerIDs: body.PlayerIDs,
	}
	s.tournaments[t.ID] = t
	writeJSON(w, http.StatusCreated, s.tournamentView(t))
}

func (s *Server) handleGetTournament(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tournaments[chi.URLParam(r, "id")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Tournament not found")
		return
	}
	writeJSON(w, http.StatusOK, s.tournamentView(t))
}

func (s *Server) handleUpdateTournament(w http.ResponseWriter, r *http.Request) {
	var body api.UpdateTournamentRequest
	if !decode(w, r, &body) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.ownedTournament(w, r, "update")
	if !ok {
		return
	}
	if body.Name != nil {
		t.Name = *body.Name
	}
	if body.Description != nil {
		t.Description = *body.Description
	}
	if body.IsActive != nil {
		t.IsActive = *body.IsActive
	}
	writeJSON(w, http.StatusOK, s.tournamentView(t))
}

func (s *Server) handleDeleteTournament(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.ownedTournament(w, r, "delete")
	if !ok {
		return
	}
	delete(s.tournaments, t.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddTournamentPlayer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PlayerID string `json:"player_id"`
	}
	if !decode(w, r, &body) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.ownedTournament(w, r, "modify")
	if !ok {
		return
	}
	if _, ok := s.players[body.PlayerID]; !ok {
		writeDetail(w, http.StatusNotFound, "Player not found")
		return
	}
	for _, id := range t.playerIDs {
		if id == body.PlayerID {
			writeDetail(w, http.StatusConflict, "Player already in tournament")
			return
		}
	}
	t.playerIDs = append(t.playerIDs, body.PlayerID)
	writeJSON(w, http.StatusCreated, s.tournamentView(t))
}

func (s *Server) handleRemoveTournamentPlayer(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.ownedTournament(w, r, "modify")
	if !ok {
		return
	}
	playerID := chi.URLParam(r, "playerID")
	for i, id := range t.playerIDs {
		if id == playerID {
			t.playerIDs = append(t.playerIDs[:i], t.playerIDs[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Player not in tournament")
}

// handleTournamentMatches pages newest first and clamps the page to [1, total_pages].
func (s *Server) handleTournamentMatches(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize < 1 {
		pageSize = api.DefaultPageSize
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := chi.URLParam(r, "id")
	if _, ok := s.tournaments[id]; !ok {
		writeDetail(w, http.StatusNotFound, "Tournament not found")
		return
	}

	matches := s.tournamentMatches(id)
	sort.Slice(matches, func(i, j int) bool { return matches[i].PlayedAt.After(matches[j].PlayedAt) })

	total := len(matches)
	totalPages := (total + pageSize - 1) / pageSize
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * pageSize
	end := min(start+pageSize, total)
	items := []api.Match{}
	if start < total {
		items = matches[start:end]
	}

	writeJSON(w, http.StatusOK, api.Page[api.Match]{
		Items:       items,
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	})
}

func (s *Server) handleTournamentStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := chi.URLParam(r, "id")
	t, ok := s.tournaments[id]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Tournament not found")
		return
	}

	rows := make(map[string]*api.Standing)
	for _, pid := range t.playerIDs {
		rows[pid] = &api.Standing{PlayerID: pid}
		if p, ok := s.players[pid]; ok {
			rows[pid].PlayerName = p.Name
			rows[pid].EloRating = p.EloRating
		}
	}

	stats := api.TournamentStats{TournamentID: id, Standings: []api.Standing{}}
	for _, m := range s.tournamentMatches(id) {
		stats.TotalMatches++
		stats.TotalGoals += m.Player1Score + m.Player2Score
		tally(rows, m.Player1ID, m.Player1Score, m.Player2Score)
		tally(rows, m.Player2ID, m.Player2Score, m.Player1Score)
	}

	for _, row := range rows {
		stats.Standings = append(stats.Standings, *row)
	}
	sort.Slice(stats.Standings, func(i, j int) bool {
		a, b := stats.Standings[i], stats.Standings[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		return a.PlayerID < b.PlayerID
	})
	for i := range stats.Standings {
		stats.Standings[i].Position = i + 1
	}
	writeJSON(w, http.StatusOK, stats)
}

func tally(rows map[string]*api.Standing, playerID string, scored, conceded int) {
	row, ok := rows[playerID]
	if !ok {
		row = &api.Standing{PlayerID: playerID}
		rows[playerID] = row
	}
	row.MatchesPlayed++
	row.GoalsFor += scored
	row.GoalsAgainst += conceded
	row.GoalDifference = row.GoalsFor - row.GoalsAgainst
	switch {
	case scored > conceded:
		row.Wins++
		row.Points += 3
	case scored == conceded:
		row.Draws++
		row.Points++
	default:
		row.Losses++
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[currentUserID(r)]
	if !ok {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	p := u.Profile
	stats := api.PlayerStats{
		MatchesPlayed: p.MatchesPlayed,
		Wins:          p.Wins,
		Losses:        p.Losses,
		Draws:         p.Draws,
		EloRating:     p.EloRating,
		HighestElo:    p.EloRating,
	}
	if p.MatchesPlayed > 0 {
		stats.WinRate = float64(p.Wins) / float64(p.MatchesPlayed)
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleHeadToHead(w http.ResponseWriter, r *http.Request) {
	p1, p2 := chi.URLParam(r, "p1"), chi.URLParam(r, "p2")

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range []string{p1, p2} {
		if _, ok := s.players[id]; !ok {
			writeDetail(w, http.StatusNotFound, "Player "+id+" not found")
			return
		}
	}

	h := api.HeadToHead{
		Player1ID:   p1,
		Player2ID:   p2,
		Player1Name: s.players[p1].Name,
		Player2Name: s.players[p2].Name,
		Matches:     []api.Match{},
	}
	for _, m := range s.matches {
		var p1Goals, p2Goals int
		switch {
		case m.Player1ID == p1 && m.Player2ID == p2:
			p1Goals, p2Goals = m.Player1Score, m.Player2Score
		case m.Player1ID == p2 && m.Player2ID == p1:
			p1Goals, p2Goals = m.Player2Score, m.Player1Score
		default:
			continue
		}
		h.TotalMatches++
		h.Player1Goals += p1Goals
		h.Player2Goals += p2Goals
		switch {
		case p1Goals > p2Goals:
			h.Player1Wins++
		case p2Goals > p1Goals:
			h.Player2Wins++
		default:
			h.Draws++
		}
		h.Matches = append(h.Matches, *m)
	}
	sort.Slice(h.Matches, func(i, j int) bool { return h.Matches[i].PlayedAt.Before(h.Matches[j].PlayedAt) })
	writeJSON(w, http.StatusOK, h)
}

// ownedTournament must be called with s.mu held. It writes the error response itself.
func (s *Server) ownedTournament(w http.ResponseWriter, r *http.Request, verb string) (*tournamentRecord, bool) {
	t, ok := s.tournaments[chi.URLParam(r, "id")]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Tournament not found")
		return nil, false
	}
	if t.OwnerID != currentUserID(r) {
		writeDetail(w, http.StatusForbidden, "Only the owner can "+verb+" this tournament")
		return nil, false
	}
	return t, true
}

func (s *Server) tournamentMatches(tournamentID string) []api.Match {
	var out []api.Match
	for _, m := range s.matches {
		if m.TournamentID == tournamentID {
			out = append(out, *m)
		}
	}
	return out
}

func (s *Server) tournamentView(t *tournamentRecord) api.Tournament {
	view := t.Tournament
	view.Players = make([]api.Player, 0, len(t.playerIDs))
	for _, id := range t.playerIDs {
		if p, ok := s.players[id]; ok {
			view.Players = append(view.Players, *p)
		}
	}
	return view
}
