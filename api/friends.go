package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	apperrors "github.com/jrsteele09/go-match-tracker/internal/errors"
)

func (c *Client) Friends(ctx context.Context) ([]Friend, error) {
	var friends []Friend
	if err := c.do(ctx, request{method: http.MethodGet, path: "/user/friends"}, &friends); err != nil {
		return []Friend{}, err
	}
	return nonNil(friends), nil
}

// FriendRequests returns the pending requests sent to and by the signed-in user.
func (c *Client) FriendRequests(ctx context.Context) (FriendRequests, error) {
	var fr FriendRequests
	if err := c.do(ctx, request{method: http.MethodGet, path: "/user/friend-requests"}, &fr); err != nil {
		return FriendRequests{Incoming: []FriendRequest{}, Outgoing: []FriendRequest{}}, err
	}
	fr.Incoming = nonNil(fr.Incoming)
	fr.Outgoing = nonNil(fr.Outgoing)
	return fr, nil
}

// SendFriendRequest asks receiverID to become a friend. A duplicate request fails with KindConflict.
func (c *Client) SendFriendRequest(ctx context.Context, receiverID string) (*FriendRequest, error) {
	if receiverID == "" {
		return nil, apperrors.Wrapf(apperrors.ErrMissingID, "[Client SendFriendRequest] receiver id")
	}

	var fr FriendRequest
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/user/send-friend-request",
		body:   sendFriendRequestBody{ReceiverID: receiverID},
	}, &fr)
	if err != nil {
		return nil, friendRequestError(err, "send")
	}
	return &fr, nil
}

func (c *Client) AcceptFriendRequest(ctx context.Context, requestID string) error {
	return c.answerFriendRequest(ctx, requestID, "accept")
}

func (c *Client) RejectFriendRequest(ctx context.Context, requestID string) error {
	return c.answerFriendRequest(ctx, requestID, "reject")
}

func (c *Client) answerFriendRequest(ctx context.Context, requestID, verb string) error {
	if requestID == "" {
		return apperrors.Wrapf(apperrors.ErrMissingID, "[Client %sFriendRequest] request id", verb)
	}
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/user/" + verb + "-friend-request",
		body:   friendRequestAction{RequestID: requestID},
	}, nil)
	if err != nil {
		return friendRequestError(err, verb)
	}
	return nil
}

func (c *Client) RecentNonFriendOpponents(ctx context.Context) ([]Opponent, error) {
	var opponents []Opponent
	if err := c.do(ctx, request{method: http.MethodGet, path: "/user/recent-non-friend-opponents"}, &opponents); err != nil {
		return []Opponent{}, err
	}
	return nonNil(opponents), nil
}

// SearchUsers finds users by username or name. A blank query returns no results without a call.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]UserSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []UserSearchResult{}, nil
	}

	var results []UserSearchResult
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/user/search",
		query:  url.Values{"q": []string{query}},
	}, &results)
	if err != nil {
		return []UserSearchResult{}, err
	}
	return nonNil(results), nil
}

// friendRequestError keeps the server's message, which is what users need to see here, and only
// fills in one when the server didn't send any.
func friendRequestError(err error, verb string) error {
	var re *RequestError
	if !errors.As(err, &re) || re.Detail != "" {
		return err
	}

	out := *re
	switch re.Kind {
	case KindConflict:
		out.Message = "a friend request between you already exists"
	case KindNotFound:
		out.Message = "friend request or user not found"
	case KindForbidden:
		out.Message = "you can't " + verb + " this friend request"
	default:
		out.Message = "failed to " + verb + " friend request"
	}
	return &out
}
