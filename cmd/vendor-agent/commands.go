package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hongminglow/vendorhub-be/internal/agent"
	"github.com/hongminglow/vendorhub-be/internal/auth"
	"github.com/hongminglow/vendorhub-be/internal/backend"
	"github.com/hongminglow/vendorhub-be/internal/checkout"
	"github.com/hongminglow/vendorhub-be/internal/leads"
	"github.com/hongminglow/vendorhub-be/internal/realtime/socketio"
	"github.com/hongminglow/vendorhub-be/internal/session"
)

func apiClient() *backend.Client {
	return backend.New(cfg.APIURL, backend.WithTimeout(15*time.Second), backend.WithLogger(logger))
}

func sessionStore() *session.FileStore {
	return session.NewFileStore(cfg.SessionFile, cfg.SessionPassphrase)
}

func loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store an encrypted session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			s, err := agent.Login(cmd.Context(), apiClient(), sessionStore(), email, password)
			if err != nil {
				return err
			}
			ui := agent.NewTerminal(cmd.OutOrStdout(), agent.DefaultTheme)
			ui.Toast(leads.ToastSuccess, fmt.Sprintf("Signed in as %s (%s)", s.User.Email, s.State()))
			if s.State() != session.Vendor {
				ui.Toast(leads.ToastInfo, "Only vendor accounts receive leads.")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when empty)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := sessionStore().Clear(cmd.Context()); err != nil {
				return err
			}
			agent.NewTerminal(cmd.OutOrStdout(), agent.DefaultTheme).Toast(leads.ToastInfo, "Signed out")
			return nil
		},
	}
}

func listenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Wait for new leads and accept, reject or dismiss them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listen(cmd.Context(), cmd)
		},
	}
}

func listen(ctx context.Context, cmd *cobra.Command) error {
	api := apiClient()
	store := sessionStore()

	s, err := agent.Fresh(ctx, api, store, auth.NewInspector("", ""))
	if err != nil {
		return err
	}
	if s.State() != session.Vendor {
		return fmt.Errorf("signed in as %s; leads are only delivered to vendor accounts", s.State())
	}

	ui := agent.NewTerminal(cmd.OutOrStdout(), agent.DefaultTheme)
	co := checkout.NewServer(checkout.Options{
		Addr:   cfg.CheckoutAddr,
		OnOpen: ui.CheckoutReady,
		Logger: logger.Named("checkout"),
	})

	dialer := leads.DialerFunc(func(token string) (leads.Socket, error) {
		c, err := socketio.New(cfg.SocketURL, socketio.Options{
			Token:        token,
			Reconnection: cfg.Reconnect,
			Logger:       logger.Named("socket"),
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	})
	listener := leads.NewListener(store, dialer, api, agent.AnnouncingCheckout{UI: ui, Server: co}, ui, logger.Named("leads"))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	app := &agent.App{
		Commands: listener,
		Leads:    api,
		Sessions: store,
		UI:       ui,
		In:       cmd.InOrStdin(),
		Logger:   logger,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return listener.Start(gctx)
	})
	g.Go(func() error {
		defer cancel()
		return app.Run(gctx)
	})
	err = g.Wait()

	listener.Close()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if cerr := co.Close(shutdownCtx); cerr != nil {
		logger.Warn("checkout shutdown", zap.Error(cerr))
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
