// Package agent is the vendor's terminal client for live leads.
package agent

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/hongminglow/vendorhub-be/internal/checkout"
	"github.com/hongminglow/vendorhub-be/internal/leads"
	"github.com/hongminglow/vendorhub-be/internal/models"
	"github.com/hongminglow/vendorhub-be/internal/models/dto"
	"github.com/hongminglow/vendorhub-be/internal/session"
)

// Commands is what the vendor can do to a pending lead.
type Commands interface {
	Accept(ctx context.Context) error
	Reject() error
	Dismiss()
}

// LeadLister lists the vendor's leads for the /vendor/leads view.
type LeadLister interface {
	ListVendorLeads(ctx context.Context, token string) ([]models.LeadOffer, error)
}

// App runs the listen loop.
type App struct {
	Commands Commands
	Leads    LeadLister
	Sessions session.Store
	UI       *Terminal
	In       io.Reader
	Logger   *zap.Logger
}

// Run reads single-letter commands until input ends, ctx is cancelled, or the session is lost.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(a.In)
		for sc.Scan() {
			select {
			case lines <- strings.TrimSpace(sc.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()

	a.UI.println(a.UI.theme.Muted.Render("Listening for leads. Commands: a accept, r reject, d dismiss, l list leads, q quit."))
	for {
		select {
		case <-ctx.Done():
			return nil
		case route := <-a.UI.Routes():
			if err := a.navigate(ctx, route); err != nil {
				return err
			}
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := a.command(ctx, line); quit {
				return nil
			}
		}
	}
}

func (a *App) command(ctx context.Context, line string) bool {
	switch strings.ToLower(line) {
	case "":
	case "a", "accept":
		err := a.Commands.Accept(ctx)
		if errors.Is(err, leads.ErrNoPendingLead) || errors.Is(err, leads.ErrPaymentInFlight) {
			a.UI.Toast(leads.ToastInfo, err.Error())
		}
	case "r", "reject":
		if err := a.Commands.Reject(); err != nil {
			a.UI.Toast(leads.ToastInfo, err.Error())
		}
	case "d", "dismiss":
		a.Commands.Dismiss()
	case "l", "leads":
		a.UI.Navigate(leads.RouteVendorLeads)
	case "q", "quit", "exit":
		return true
	default:
		a.UI.Toast(leads.ToastInfo, "unknown command "+line)
	}
	return false
}

func (a *App) navigate(ctx context.Context, route string) error {
	switch route {
	case leads.RouteLogin:
		return ErrLoginRequired
	case leads.RouteVendorLeads:
		s, err := a.Sessions.Load(ctx)
		if err != nil {
			return ErrLoginRequired
		}
		offers, err := a.Leads.ListVendorLeads(ctx, s.AccessToken)
		if err != nil {
			a.Logger.Warn("list vendor leads", zap.Error(err))
			a.UI.Toast(leads.ToastError, "Could not load your leads: "+err.Error())
			return nil
		}
		a.UI.LeadList(offers)
	default:
		a.Logger.Debug("ignoring navigation", zap.String("route", route))
	}
	return nil
}

// AnnouncingCheckout prints the order summary before handing it to the checkout server.
type AnnouncingCheckout struct {
	UI     *Terminal
	Server *checkout.Server
}

var _ leads.Checkout = AnnouncingCheckout{}

func (c AnnouncingCheckout) Open(ctx context.Context, order dto.LeadOrder, prefill checkout.Prefill, cb checkout.Callbacks) error {
	c.UI.Order(order.LeadDetails.Keyword, order.Amount, order.Currency)
	return c.Server.Open(ctx, order, prefill, cb)
}
