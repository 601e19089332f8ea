package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/anushkaEsdev/alumni-client/internal/models"
)

func authCommands(a **app) []*cobra.Command {
	login := &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in and persist the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}
			return (*a).session.Login(cmd.Context(), args[0], password)
		},
	}

	register := &cobra.Command{
		Use:   "register <username> <email>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}
			return (*a).session.Register(cmd.Context(), args[0], args[1], password)
		},
	}

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear saved credentials",
		Run: func(cmd *cobra.Command, args []string) {
			(*a).session.Logout()
		},
	}

	whoami := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, ok := (*a).session.Current()
			if !ok {
				return fmt.Errorf("not logged in")
			}
			fmt.Printf("%s <%s>\n", user.Username, user.Email)
			if user.Bio != "" {
				fmt.Println(user.Bio)
			}
			return nil
		},
	}

	var username, email, bio, avatarURL string
	profile := &cobra.Command{
		Use:   "profile",
		Short: "Update profile fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch models.UpdateProfileRequest
			if cmd.Flags().Changed("username") {
				patch.Username = &username
			}
			if cmd.Flags().Changed("email") {
				patch.Email = &email
			}
			if cmd.Flags().Changed("bio") {
				patch.Bio = &bio
			}
			if cmd.Flags().Changed("avatar-url") {
				patch.AvatarURL = &avatarURL
			}
			return (*a).session.UpdateProfile(cmd.Context(), patch)
		},
	}
	profile.Flags().StringVar(&username, "username", "", "display name")
	profile.Flags().StringVar(&email, "email", "", "email address")
	profile.Flags().StringVar(&bio, "bio", "", "biography")
	profile.Flags().StringVar(&avatarURL, "avatar-url", "", "avatar image URL")

	password := &cobra.Command{
		Use:   "password",
		Short: "Change the account password",
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := readPassword("Current password: ")
			if err != nil {
				return err
			}
			next, err := readPassword("New password: ")
			if err != nil {
				return err
			}
			return (*a).session.UpdatePassword(cmd.Context(), current, next)
		},
	}

	forgot := &cobra.Command{
		Use:   "forgot-password <email>",
		Short: "Request a password reset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return (*a).session.ForgotPassword(cmd.Context(), args[0])
		},
	}

	reset := &cobra.Command{
		Use:   "reset-password <token>",
		Short: "Reset the password with a token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			next, err := readPassword("New password: ")
			if err != nil {
				return err
			}
			return (*a).session.ResetPassword(cmd.Context(), args[0], next)
		},
	}

	return []*cobra.Command{login, register, logout, whoami, profile, password, forgot, reset}
}

func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	if !term.IsTerminal(int(syscall.Stdin)) {
		var pw string
		_, err := fmt.Scanln(&pw)
		return pw, err
	}
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
