// Package cli implements the "db" administration subcommands of the server
// binary: schema management, game audit queries and account maintenance.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"checkers/internal/server/storage"

	"github.com/google/uuid"
	"github.com/lixenwraith/auth"
	"golang.org/x/term"
)

const minPasswordLength = 8

var out io.Writer = os.Stdout

// Run dispatches a db subcommand
func Run(args []string) error {
	if len(args) == 0 {
		return errors.New("subcommand required: init, delete, query, user")
	}

	switch args[0] {
	case "init":
		return runInit(args[1:])
	case "delete":
		return runDelete(args[1:])
	case "query":
		return runQuery(args[1:])
	case "user":
		if len(args) < 2 {
			return errors.New("user subcommand required: add, delete, set-password, set-hash, set-email, set-username, list")
		}
		return runUser(args[1], args[2:])
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

// newFlagSet returns a flag set carrying the common -path flag
func newFlagSet(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	path := fs.String("path", "", "Database file path (required)")
	return fs, path
}

func openStore(path string) (*storage.Store, error) {
	if path == "" {
		return nil, errors.New("database path required")
	}
	store, err := storage.NewStore(path, false)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return store, nil
}

func runInit(args []string) error {
	fs, path := newFlagSet("init")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openStore(*path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.InitDB(); err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	fmt.Fprintf(out, "Database initialized at: %s\n", *path)
	return nil
}

func runDelete(args []string) error {
	fs, path := newFlagSet("delete")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openStore(*path)
	if err != nil {
		return err
	}
	if err := store.DeleteDB(); err != nil {
		return fmt.Errorf("delete database: %w", err)
	}
	fmt.Fprintf(out, "Database deleted: %s\n", *path)
	return nil
}

func runQuery(args []string) error {
	fs, path := newFlagSet("query")
	gameID := fs.String("gameId", "", "Game ID to filter (optional, * for all)")
	playerID := fs.String("playerId", "", "Player ID to filter (optional, * for all)")
	moves := fs.Bool("moves", false, "List the recorded moves of each matching game")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openStore(*path)
	if err != nil {
		return err
	}
	defer store.Close()

	games, err := store.QueryGames(*gameID, *playerID)
	if err != nil {
		return fmt.Errorf("query games: %w", err)
	}
	if len(games) == 0 {
		fmt.Fprintln(out, "No games found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Game ID\tRed Player\tBlack Player\tStart Time")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, g := range games {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			short(g.GameID),
			short(g.RedPlayerID),
			short(g.BlackPlayerID),
			g.StartTimeUTC.Format(time.DateTime),
		)
	}
	w.Flush()

	if *moves {
		for _, g := range games {
			if err := printMoves(store, g); err != nil {
				return err
			}
		}
	}

	fmt.Fprintf(out, "\nFound %d game(s)\n", len(games))
	return nil
}

func printMoves(store *storage.Store, g storage.GameRecord) error {
	records, err := store.QueryMoves(g.GameID)
	if err != nil {
		return fmt.Errorf("query moves of %s: %w", g.GameID, err)
	}

	fmt.Fprintf(out, "\n%s  start: %s\n", g.GameID, g.InitialPosition)
	if len(records) == 0 {
		fmt.Fprintln(out, "  (no moves)")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, m := range records {
		fmt.Fprintf(w, "  %d\t%s\t%s\t%s\n", m.MoveNumber, m.PlayerColor, m.MoveNotation, m.PositionAfterMove)
	}
	return w.Flush()
}

func runUser(subcommand string, args []string) error {
	switch subcommand {
	case "add":
		return runUserAdd(args)
	case "delete":
		return runUserDelete(args)
	case "set-password":
		return runUserSetPassword(args)
	case "set-hash":
		return runUserSetHash(args)
	case "set-email":
		return runUserSetEmail(args)
	case "set-username":
		return runUserSetUsername(args)
	case "list":
		return runUserList(args)
	default:
		return fmt.Errorf("unknown user subcommand: %s", subcommand)
	}
}

// resolveHash turns the -password, -hash or -interactive inputs into a PHC
// hash. Exactly one source must be given.
func resolveHash(password, hash string, interactive bool) (string, error) {
	sources := 0
	for _, set := range []bool{password != "", hash != "", interactive} {
		if set {
			sources++
		}
	}
	if sources == 0 {
		return "", errors.New("password required: use -password, -hash, or -interactive")
	}
	if sources > 1 {
		return "", errors.New("use only one of -password, -hash, -interactive")
	}

	if hash != "" {
		if err := auth.ValidatePHCHashFormat(hash); err != nil {
			return "", fmt.Errorf("invalid hash format: %w", err)
		}
		return hash, nil
	}

	if interactive {
		fmt.Fprint(out, "Enter password: ")
		pw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		password = string(pw)
	}
	if len(password) < minPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	h, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return h, nil
}

func runUserAdd(args []string) error {
	fs, path := newFlagSet("user add")
	username := fs.String("username", "", "Username (required)")
	email := fs.String("email", "", "Email address (optional)")
	password := fs.String("password", "", "Password")
	hash := fs.String("hash", "", "Pre-computed PHC password hash")
	interactive := fs.Bool("interactive", false, "Interactive password prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return errors.New("username required")
	}

	passwordHash, err := resolveHash(*password, *hash, *interactive)
	if err != nil {
		return err
	}

	store, err := openStore(*path)
	if err != nil {
		return err
	}
	defer store.Close()

	record := storage.UserRecord{
		UserID:       uuid.NewString(),
		Username:     strings.ToLower(*username),
		Email:        strings.ToLower(*email),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.CreateUser(record); err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			return fmt.Errorf("username or email already registered: %s", *username)
		}
		return fmt.Errorf("create user: %w", err)
	}

	fmt.Fprintf(out, "User created:\n  ID: %s\n  Username: %s\n", record.UserID, record.Username)
	if record.Email != "" {
		fmt.Fprintf(out, "  Email: %s\n", record.Email)
	}
	return nil
}

func runUserDelete(args []string) error {
	fs, path := newFlagSet("user delete")
	username := fs.String("username", "", "Username to delete")
	userID := fs.String("id", "", "User ID to delete")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (*username == "") == (*userID == "") {
		return errors.New("specify exactly one of -username or -id")
	}

	store, err := openStore(*path)
	if err != nil {
		return err
	}
	defer store.Close()

	target := *userID
	if target == "" {
		user, err := lookup(store, *username)
		if err != nil {
			return err
		}
		target = user.UserID
	}

	if err := store.DeleteUserByID(target); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("user not found: %s", target)
		}
		return fmt.Errorf("delete user: %w", err)
	}
	fmt.Fprintf(out, "User deleted: %s\n", target)
	return nil
}

func runUserSetPassword(args []string) error {
	fs, path := newFlagSet("user set-password")
	username := fs.String("username", "", "Username (required)")
	password := fs.String("password", "", "New password")
	interactive := fs.Bool("interactive", false, "Interactive password prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return errors.New("username required")
	}

	passwordHash, err := resolveHash(*password, "", *interactive)
	if err != nil {
		return err
	}
	return updateUser(*path, *username, "password", func(s *storage.Store, id string) error {
		return s.UpdateUserPassword(id, passwordHash)
	})
}

func runUserSetHash(args []string) error {
	fs, path := newFlagSet("user set-hash")
	username := fs.String("username", "", "Username (required)")
	hash := fs.String("hash", "", "PHC password hash (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return errors.New("username required")
	}
	if *hash == "" {
		return errors.New("password hash required")
	}

	passwordHash, err := resolveHash("", *hash, false)
	if err != nil {
		return err
	}
	return updateUser(*path, *username, "password hash", func(s *storage.Store, id string) error {
		return s.UpdateUserPassword(id, passwordHash)
	})
}

func runUserSetEmail(args []string) error {
	fs, path := newFlagSet("user set-email")
	username := fs.String("username", "", "Username (required)")
	email := fs.String("email", "", "New email address (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *email == "" {
		return errors.New("username and email required")
	}

	return updateUser(*path, *username, "email", func(s *storage.Store, id string) error {
		return s.UpdateUserEmail(id, strings.ToLower(*email))
	})
}

func runUserSetUsername(args []string) error {
	fs, path := newFlagSet("user set-username")
	current := fs.String("current", "", "Current username (required)")
	newName := fs.String("new", "", "New username (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *current == "" || *newName == "" {
		return errors.New("current and new username required")
	}

	return updateUser(*path, *current, "username", func(s *storage.Store, id string) error {
		return s.UpdateUserUsername(id, strings.ToLower(*newName))
	})
}

func runUserList(args []string) error {
	fs, path := newFlagSet("user list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openStore(*path)
	if err != nil {
		return err
	}
	defer store.Close()

	users, err := store.GetAllUsers()
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	if len(users) == 0 {
		fmt.Fprintln(out, "No users found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "User ID\tUsername\tEmail\tCreated\tLast Login")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, u := range users {
		lastLogin := "never"
		if u.LastLoginAt != nil {
			lastLogin = u.LastLoginAt.Format("2006-01-02 15:04")
		}
		email := u.Email
		if email == "" {
			email = "(none)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			short(u.UserID),
			u.Username,
			email,
			u.CreatedAt.Format("2006-01-02 15:04"),
			lastLogin,
		)
	}
	w.Flush()

	fmt.Fprintf(out, "\nTotal users: %d\n", len(users))
	return nil
}

// updateUser resolves username and applies one field change
func updateUser(path, username, field string, apply func(*storage.Store, string) error) error {
	store, err := openStore(path)
	if err != nil {
		return err
	}
	defer store.Close()

	user, err := lookup(store, username)
	if err != nil {
		return err
	}
	if err := apply(store, user.UserID); err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			return fmt.Errorf("update %s: value already in use", field)
		}
		return fmt.Errorf("update %s: %w", field, err)
	}
	fmt.Fprintf(out, "Updated %s for user: %s\n", field, username)
	return nil
}

func lookup(store *storage.Store, username string) (*storage.UserRecord, error) {
	user, err := store.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("user not found: %s", username)
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}
	return user, nil
}

func short(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8] + "..."
}
