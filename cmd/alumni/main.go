// Command alumni is a terminal front end for the alumni network: sign in,
// browse posts, events and interview questions, and manage your profile.
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/anushkaEsdev/alumni-client/internal/api"
	"github.com/anushkaEsdev/alumni-client/internal/config"
	"github.com/anushkaEsdev/alumni-client/internal/content"
	"github.com/anushkaEsdev/alumni-client/internal/credentials"
	"github.com/anushkaEsdev/alumni-client/internal/session"
)

// app wires the SDK together for the command handlers.
type app struct {
	session *session.Manager
	content *content.Store
}

// toast renders notifications as transient-looking lines on stdout, with
// markers only when attached to a terminal.
type toast struct {
	tty bool
}

func newToast() *toast {
	return &toast{tty: isatty.IsTerminal(os.Stdout.Fd())}
}

func (t *toast) Success(msg string) {
	if t.tty {
		fmt.Fprintf(os.Stdout, "✓ %s\n", msg)
		return
	}
	fmt.Fprintln(os.Stdout, msg)
}

func (t *toast) Error(msg string) {
	if t.tty {
		fmt.Fprintf(os.Stderr, "✗ %s\n", msg)
		return
	}
	fmt.Fprintln(os.Stderr, msg)
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	stateDir := cfg.StateDir
	if stateDir == "" {
		stateDir, err = credentials.DefaultDir()
		if err != nil {
			return nil, err
		}
	}
	creds, err := credentials.NewFileStore(stateDir)
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.ErrorLevel)
	if os.Getenv("ALUMNI_DEBUG") != "" {
		log.SetLevel(logrus.DebugLevel)
	}

	notifier := newToast()
	client := api.New(cfg.BaseURL, cfg.Timeout, creds, notifier, log)

	sess := session.NewManager(client, creds, notifier)
	client.OnSignOut(sess.Invalidate)
	sess.Restore()

	return &app{
		session: sess,
		content: content.NewStore(client, sess, notifier),
	}, nil
}

func main() {
	var configPath string
	var a *app

	root := &cobra.Command{
		Use:           "alumni",
		Short:         "Alumni network client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = newApp(configPath)
			return err
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	root.AddCommand(
		authCommands(&a)...,
	)
	root.AddCommand(
		contentCommands(&a)...,
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
