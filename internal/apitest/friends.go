package apitest

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/jrsteele09/go-match-tracker/api"
)

// FriendRequest returns a stored request by id.
func (s *Server) FriendRequest(id string) (api.FriendRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fr, ok := s.friendReqs[id]
	if !ok {
		return api.FriendRequest{}, false
	}
	return *fr, true
}

// AreFriends reports whether a and b are friends.
func (s *Server) AreFriends(a, b string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.friendships[a][b]
}

func (s *Server) handleFriends(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	friends := []api.Friend{}
	for id := range s.friendships[currentUserID(r)] {
		u, ok := s.users[id]
		if !ok {
			continue
		}
		friends = append(friends, api.Friend{
			ID:        id,
			Username:  u.Profile.Username,
			Name:      u.Profile.DisplayName(),
			EloRating: u.Profile.EloRating,
		})
	}
	sort.Slice(friends, func(i, j int) bool { return friends[i].Username < friends[j].Username })
	writeJSON(w, http.StatusOK, friends)
}

func (s *Server) handleFriendRequests(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	me := currentUserID(r)
	out := api.FriendRequests{Incoming: []api.FriendRequest{}, Outgoing: []api.FriendRequest{}}
	for _, fr := range s.friendReqs {
		if fr.Status != api.FriendRequestPending {
			continue
		}
		switch me {
		case fr.ReceiverID:
			out.Incoming = append(out.Incoming, *fr)
		case fr.SenderID:
			out.Outgoing = append(out.Outgoing, *fr)
		}
	}
	sort.Slice(out.Incoming, func(i, j int) bool { return out.Incoming[i].ID < out.Incoming[j].ID })
	sort.Slice(out.Outgoing, func(i, j int) bool { return out.Outgoing[i].ID < out.Outgoing[j].ID })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSendFriendRequest(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ReceiverID string `json:"receiver_id"`
	}
	if !decode(w, r, &body) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	me := currentUserID(r)
	receiver, ok := s.users[body.ReceiverID]
	if !ok {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	if body.ReceiverID == me {
		writeDetail(w, http.StatusBadRequest, "You can't send a friend request to yourself")
		return
	}
	if s.friendships[me][body.ReceiverID] {
		writeDetail(w, http.StatusConflict, "You are already friends")
		return
	}
	if s.pendingBetween(me, body.ReceiverID) {
		writeDetail(w, http.StatusConflict, "Friend request already sent")
		return
	}

	fr := &api.FriendRequest{
		ID:               s.newID(),
		SenderID:         me,
		ReceiverID:       body.ReceiverID,
		ReceiverUsername: receiver.Profile.Username,
		Status:           api.FriendRequestPending,
		CreatedAt:        time.Now().UTC(),
	}
	if sender, ok := s.users[me]; ok {
		fr.SenderUsername = sender.Profile.Username
	}
	s.friendReqs[fr.ID] = fr
	writeJSON(w, http.StatusCreated, fr)
}

func (s *Server) handleAnswerFriendRequest(accept bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			RequestID string `json:"request_id"`
		}
		if !decode(w, r, &body) {
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		fr, ok := s.friendReqs[body.RequestID]
		if !ok || fr.Status != api.FriendRequestPending {
			writeDetail(w, http.StatusNotFound, "Friend request not found")
			return
		}
		if fr.ReceiverID != currentUserID(r) {
			// Left without a detail so clients fall back to their own wording.
			writeJSON(w, http.StatusForbidden, map[string]string{})
			return
		}

		if accept {
			fr.Status = api.FriendRequestAccepted
			s.befriend(fr.SenderID, fr.ReceiverID)
		} else {
			fr.Status = api.FriendRequestRejected
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": string(fr.Status)})
	}
}

// handleOpponents lists users behind the players the caller's player has met, excluding friends.
func (s *Server) handleOpponents(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	me := currentUserID(r)
	mine := make(map[string]bool)
	for _, p := range s.players {
		if p.UserID == me {
			mine[p.ID] = true
		}
	}

	byUser := make(map[string]*api.Opponent)
	for _, m := range s.matches {
		var other string
		switch {
		case mine[m.Player1ID]:
			other = m.Player2ID
		case mine[m.Player2ID]:
			other = m.Player1ID
		default:
			continue
		}
		p, ok := s.players[other]
		if !ok || p.UserID == "" || p.UserID == me || s.friendships[me][p.UserID] {
			continue
		}
		u, ok := s.users[p.UserID]
		if !ok {
			continue
		}
		o, ok := byUser[p.UserID]
		if !ok {
			o = &api.Opponent{ID: p.UserID, Username: u.Profile.Username, Name: u.Profile.DisplayName()}
			byUser[p.UserID] = o
		}
		o.MatchesAgainst++
		if m.PlayedAt.After(o.LastPlayedAt) {
			o.LastPlayedAt = m.PlayedAt
		}
	}

	out := make([]api.Opponent, 0, len(byUser))
	for _, o := range byUser {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastPlayedAt.After(out[j].LastPlayedAt) })
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	if q == "" {
		writeDetail(w, http.StatusBadRequest, "Search query is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	me := currentUserID(r)
	results := []api.UserSearchResult{}
	for id, u := range s.users {
		if id == me {
			continue
		}
		if !strings.Contains(strings.ToLower(u.Profile.Username), q) &&
			!strings.Contains(strings.ToLower(u.Profile.DisplayName()), q) {
			continue
		}
		results = append(results, api.UserSearchResult{
			ID:             id,
			Username:       u.Profile.Username,
			Name:           u.Profile.DisplayName(),
			IsFriend:       s.friendships[me][id],
			RequestPending: s.pendingBetween(me, id),
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Username < results[j].Username })
	writeJSON(w, http.StatusOK, results)
}

// pendingBetween must be called with s.mu held.
func (s *Server) pendingBetween(a, b string) bool {
	for _, fr := range s.friendReqs {
		if fr.Status != api.FriendRequestPending {
			continue
		}
		if (fr.SenderID == a && fr.ReceiverID == b) || (fr.SenderID == b && fr.ReceiverID == a) {
			return true
		}
	}
	return false
}
