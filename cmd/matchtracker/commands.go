package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jrsteele09/go-match-tracker/api"
	apperrors "github.com/jrsteele09/go-match-tracker/internal/errors"
	"github.com/jrsteele09/go-match-tracker/internal/utils"
)

const passwordVar = "MATCHTRACKER_PASSWORD"

type command struct {
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"login":             {"sign in: -u <username|email> [-p <password>]", login},
		"signup":            {"create an account: -u <username> -e <email> [-p <password>] [-name <name>]", signup},
		"logout":            {"sign out and forget the stored session", logout},
		"whoami":            {"show the signed-in user", whoami},
		"delete-account":    {"delete the signed-in account: -confirm <text>", deleteAccount},
		"players":           {"list players", listPlayers},
		"record-match":      {"record a result: -p1 <id> -p2 <id> -s1 <score> -s2 <score> [-tournament <id>]", recordMatch},
		"tournaments":       {"list tournaments", listTournaments},
		"tournament":        {"show a tournament: <id>", showTournament},
		"update-tournament": {"change a tournament: <id> [-name <name>] [-description <text>] [-active=false]", updateTournament},
		"delete-tournament": {"delete a tournament you own: <id>", deleteTournament},
		"standings":         {"show a tournament table: <id>", standings},
		"matches":           {"show a tournament's matches: <id> [-page <n>] [-size <n>]", tournamentMatches},
		"stats":             {"show your stats", stats},
		"head-to-head":      {"compare two players: <player id> <player id>", headToHead},
		"friends":           {"list friends", friends},
		"friend-requests":   {"list pending friend requests", friendRequests},
		"add-friend":        {"send a friend request: <user id>", addFriend},
		"accept-friend":     {"accept a friend request: <request id>", answerFriend(true)},
		"reject-friend":     {"reject a friend request: <request id>", answerFriend(false)},
		"opponents":         {"recent opponents who aren't friends yet", opponents},
		"search":            {"find users: <query>", searchUsers},
	}
}

func newFlags(name string, a *app) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

// positional returns the n positional arguments of a command or a usage error.
func positional(args []string, n int, what string) ([]string, error) {
	if len(args) < n {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "expected %s", what)
	}
	return args[:n], nil
}

func passwordFrom(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(passwordVar)
}

// displayError keeps the API's display message and drops the internal wrapping.
func displayError(err error) error {
	var re *api.RequestError
	if apperrors.As(err, &re) {
		return re
	}
	return err
}

func login(ctx context.Context, a *app, args []string) error {
	fs := newFlags("login", a)
	user := fs.String("u", "", "username or email")
	password := fs.String("p", "", "password (or "+passwordVar+")")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.manager.SignIn(ctx, *user, passwordFrom(*password)); err != nil {
		return displayError(err)
	}
	return a.print(a.manager.Session().User)
}

func signup(ctx context.Context, a *app, args []string) error {
	fs := newFlags("signup", a)
	var r api.RegisterRequest
	fs.StringVar(&r.Username, "u", "", "username")
	fs.StringVar(&r.Email, "e", "", "email")
	fs.StringVar(&r.Password, "p", "", "password (or "+passwordVar+")")
	fs.StringVar(&r.Name, "name", "", "display name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	r.Password = passwordFrom(r.Password)

	if err := a.manager.SignUp(ctx, r); err != nil {
		return displayError(err)
	}
	return a.print(a.manager.Session().User)
}

func logout(_ context.Context, a *app, _ []string) error {
	a.manager.SignOut()
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

func whoami(ctx context.Context, a *app, _ []string) error {
	a.manager.RestoreSession(ctx)
	s := a.manager.Session()
	if !s.IsAuthenticated() {
		return apperrors.ErrNotAuthenticated
	}
	return a.print(s.User)
}

func deleteAccount(ctx context.Context, a *app, args []string) error {
	fs := newFlags("delete-account", a)
	confirm := fs.String("confirm", "", "confirmation text")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a.manager.RestoreSession(ctx)
	if err := a.manager.DeleteAccount(ctx, *confirm); err != nil {
		return displayError(err)
	}
	fmt.Fprintln(a.out, "Account deleted.")
	return nil
}

func listPlayers(ctx context.Context, a *app, _ []string) error {
	players, err := a.client.ListPlayers(ctx)
	if err != nil {
		return err
	}
	return a.print(players)
}

func recordMatch(ctx context.Context, a *app, args []string) error {
	fs := newFlags("record-match", a)
	var r api.RecordMatchRequest
	fs.StringVar(&r.Player1ID, "p1", "", "first player id")
	fs.StringVar(&r.Player2ID, "p2", "", "second player id")
	fs.IntVar(&r.Player1Score, "s1", 0, "first player's score")
	fs.IntVar(&r.Player2Score, "s2", 0, "second player's score")
	fs.StringVar(&r.TournamentID, "tournament", "", "tournament id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	m, err := a.client.RecordMatch(ctx, r)
	if err != nil {
		return err
	}
	return a.print(m)
}

func listTournaments(ctx context.Context, a *app, _ []string) error {
	tournaments, err := a.client.ListTournaments(ctx)
	if err != nil {
		return err
	}
	return a.print(tournaments)
}

func showTournament(ctx context.Context, a *app, args []string) error {
	ids, err := positional(args, 1, "a tournament id")
	if err != nil {
		return err
	}
	t, err := a.client.GetTournament(ctx, ids[0])
	if err != nil {
		return err
	}
	return a.print(t)
}

func updateTournament(ctx context.Context, a *app, args []string) error {
	ids, err := positional(args, 1, "a tournament id")
	if err != nil {
		return err
	}

	fs := newFlags("update-tournament", a)
	name := fs.String("name", "", "new name")
	description := fs.String("description", "", "new description")
	active := fs.Bool("active", true, "whether the tournament is running")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	// Only flags given on the command line are sent.
	var r api.UpdateTournamentRequest
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			r.Name = utils.Ptr(*name)
		case "description":
			r.Description = utils.Ptr(*description)
		case "active":
			r.IsActive = utils.Ptr(*active)
		}
	})

	t, err := a.client.UpdateTournament(ctx, ids[0], r)
	if err != nil {
		return err
	}
	return a.print(t)
}

func deleteTournament(ctx context.Context, a *app, args []string) error {
	ids, err := positional(args, 1, "a tournament id")
	if err != nil {
		return err
	}
	if err := a.client.DeleteTournament(ctx, ids[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Tournament %s deleted.\n", ids[0])
	return nil
}

func standings(ctx context.Context, a *app, args []string) error {
	ids, err := positional(args, 1, "a tournament id")
	if err != nil {
		return err
	}
	s, err := a.client.TournamentStandings(ctx, ids[0])
	if err != nil {
		return err
	}
	return a.print(s)
}

func tournamentMatches(ctx context.Context, a *app, args []string) error {
	ids, err := positional(args, 1, "a tournament id")
	if err != nil {
		return err
	}

	fs := newFlags("matches", a)
	page := fs.Int("page", 1, "page number")
	size := fs.Int("size", api.DefaultPageSize, "page size")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	p, err := a.client.TournamentMatches(ctx, ids[0], *page, *size)
	if err != nil {
		return err
	}
	return a.print(p)
}

func stats(ctx context.Context, a *app, _ []string) error {
	s, err := a.client.PlayerStats(ctx)
	if err != nil {
		return err
	}
	return a.print(s)
}

func headToHead(ctx context.Context, a *app, args []string) error {
	ids, err := positional(args, 2, "two player ids")
	if err != nil {
		return err
	}
	h, err := a.client.HeadToHead(ctx, ids[0], ids[1])
	if err != nil {
		return err
	}
	return a.print(h)
}

func friends(ctx context.Context, a *app, _ []string) error {
	f, err := a.client.Friends(ctx)
	if err != nil {
		return err
	}
	return a.print(f)
}

func friendRequests(ctx context.Context, a *app, _ []string) error {
	fr, err := a.client.FriendRequests(ctx)
	if err != nil {
		return err
	}
	return a.print(fr)
}

func addFriend(ctx context.Context, a *app, args []string) error {
	ids, err := positional(args, 1, "a user id")
	if err != nil {
		return err
	}
	fr, err := a.client.SendFriendRequest(ctx, ids[0])
	if err != nil {
		return err
	}
	return a.print(fr)
}

func answerFriend(accept bool) func(context.Context, *app, []string) error {
	return func(ctx context.Context, a *app, args []string) error {
		ids, err := positional(args, 1, "a friend request id")
		if err != nil {
			return err
		}
		if accept {
			err = a.client.AcceptFriendRequest(ctx, ids[0])
		} else {
			err = a.client.RejectFriendRequest(ctx, ids[0])
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Done.")
		return nil
	}
}

func opponents(ctx context.Context, a *app, _ []string) error {
	o, err := a.client.RecentNonFriendOpponents(ctx)
	if err != nil {
		return err
	}
	return a.print(o)
}

func searchUsers(ctx context.Context, a *app, args []string) error {
	q, err := positional(args, 1, "a search query")
	if err != nil {
		return err
	}
	results, err := a.client.SearchUsers(ctx, q[0])
	if err != nil {
		return err
	}
	return a.print(results)
}
