package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"checkers/internal/client/api"
	"checkers/internal/client/display"

	"golang.org/x/term"
)

func (r *Registry) registerAuthCommands() {
	r.Register(&Command{
		Name:        "register",
		ShortName:   "r",
		Description: "Register a new user",
		Usage:       "register",
		Handler:     r.registerHandler,
	})

	r.Register(&Command{
		Name:        "login",
		ShortName:   "l",
		Description: "Login with credentials",
		Usage:       "login",
		Handler:     r.loginHandler,
	})

	r.Register(&Command{
		Name:        "logout",
		ShortName:   "o",
		Description: "End the server session and clear credentials",
		Usage:       "logout",
		Handler:     r.logoutHandler,
	})

	r.Register(&Command{
		Name:        "whoami",
		ShortName:   "i",
		Description: "Show current user",
		Usage:       "whoami",
		Handler:     r.whoamiHandler,
	})
}

// readPassword reads without echo from a terminal and falls back to a plain
// line when input is not one
func (r *Registry) readPassword(scanner *bufio.Scanner, prompt string) (string, error) {
	r.printf("%s", prompt)
	if f, ok := r.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		pw, err := term.ReadPassword(int(syscall.Stdin))
		r.printf("\n")
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}
	if !scanner.Scan() {
		return "", fmt.Errorf("no password given")
	}
	return strings.TrimSpace(scanner.Text()), nil
}

func (r *Registry) readLine(scanner *bufio.Scanner, prompt string) string {
	r.printf("%s%s%s", display.Yellow, prompt, display.Reset)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

func signedIn(s Session, resp *api.AuthResponse) {
	s.SetAuthToken(resp.Token)
	s.SetCurrentUser(resp.UserID)
	s.SetUsername(resp.Username)
	s.GetClient().SetToken(resp.Token)
}

func (r *Registry) registerHandler(s Session, args []string) error {
	scanner := bufio.NewScanner(r.in)

	username := r.readLine(scanner, "Username: ")
	password, err := r.readPassword(scanner, display.Yellow+"Password: "+display.Reset)
	if err != nil {
		return err
	}
	email := r.readLine(scanner, "Email (optional): ")

	resp, err := s.GetClient().Register(username, password, email)
	if err != nil {
		return err
	}
	signedIn(s, resp)

	r.printf("%sRegistered successfully%s\n", display.Green, display.Reset)
	r.printf("User ID: %s\nUsername: %s\n", resp.UserID, resp.Username)
	return nil
}

func (r *Registry) loginHandler(s Session, args []string) error {
	scanner := bufio.NewScanner(r.in)

	username := r.readLine(scanner, "Username: ")
	password, err := r.readPassword(scanner, display.Yellow+"Password: "+display.Reset)
	if err != nil {
		return err
	}

	resp, err := s.GetClient().Login(username, password)
	if err != nil {
		return err
	}
	signedIn(s, resp)

	r.printf("%sLogged in successfully%s\n", display.Green, display.Reset)
	r.printf("User ID: %s\nUsername: %s\n", resp.UserID, resp.Username)
	return nil
}

func (r *Registry) logoutHandler(s Session, args []string) error {
	c := s.GetClient()
	if s.GetAuthToken() != "" {
		if err := c.Logout(); err != nil {
			r.printf("%sServer logout failed: %s%s\n", display.Yellow, err, display.Reset)
		}
	}

	s.SetAuthToken("")
	s.SetCurrentUser("")
	s.SetUsername("")
	s.SetPlayerColor("")
	c.SetToken("")

	r.printf("%sLogged out%s\n", display.Green, display.Reset)
	return nil
}

func (r *Registry) whoamiHandler(s Session, args []string) error {
	if s.GetAuthToken() == "" {
		r.printf("%sNot authenticated%s\n", display.Yellow, display.Reset)
		return nil
	}

	user, err := s.GetClient().GetCurrentUser()
	if err != nil {
		return err
	}

	r.printf("%sCurrent User:%s\n", display.Cyan, display.Reset)
	r.printf("  User ID:  %s\n", user.UserID)
	r.printf("  Username: %s\n", user.Username)
	if user.Email != "" {
		r.printf("  Email:    %s\n", user.Email)
	}
	r.printf("  Created:  %s\n", user.CreatedAt.Format("2006-01-02 15:04:05"))
	if user.LastLoginAt != nil {
		r.printf("  Last Login: %s\n", user.LastLoginAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
