// Package leads runs the vendor's live lead feed: it keeps a socket open while a vendor is signed in,
// surfaces each offered lead and brokers the paid acceptance of one.
package leads

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/hongminglow/vendorhub-be/internal/backend"
	"github.com/hongminglow/vendorhub-be/internal/checkout"
	"github.com/hongminglow/vendorhub-be/internal/models"
	"github.com/hongminglow/vendorhub-be/internal/models/dto"
	"github.com/hongminglow/vendorhub-be/internal/session"
)

// Routes the listener asks the UI to navigate to.
const (
	// RouteLogin is where a vendor without a usable session is sent.
	RouteLogin = "/login"
	// RouteVendorLeads lists the vendor's leads after a paid acceptance.
	RouteVendorLeads = "/vendor/leads"
)

const (
	eventNewLead      = "new_lead"
	eventLeadAccepted = "lead_accepted"
	eventLeadRejected = "lead_rejected"
	eventConnect      = "connect"
	eventDisconnect   = "disconnect"
	eventConnectError = "connect_error"
)

var (
	// ErrNotAuthenticated is returned by Accept when no vendor session is stored.
	ErrNotAuthenticated = errors.New("sign in as a vendor to respond to leads")
	// ErrNoPendingLead is returned when there is no lead to accept or reject.
	ErrNoPendingLead = errors.New("no lead is pending")
	// ErrPaymentInFlight is returned while the pending lead's checkout is open.
	ErrPaymentInFlight = errors.New("a payment is already in progress")
)

// State is the listener's position in the lead lifecycle.
type State int

const (
	Disconnected State = iota
	Idle
	LeadPending
	PaymentInFlight
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case LeadPending:
		return "lead-pending"
	case PaymentInFlight:
		return "payment-in-flight"
	default:
		return "disconnected"
	}
}

// Socket is a live event connection to the lead server.
type Socket interface {
	On(event string, fn func(data json.RawMessage))
	Emit(event string, args ...any) error
	Connect()
	Close()
}

// Dialer prepares an unconnected Socket authenticated with token.
type Dialer interface {
	Dial(token string) (Socket, error)
}

// DialerFunc adapts a function to Dialer.
type DialerFunc func(token string) (Socket, error)

func (f DialerFunc) Dial(token string) (Socket, error) { return f(token) }

// Payments is the backend's lead payment API.
type Payments interface {
	CreateLeadOrder(ctx context.Context, token, leadResponseID string) (dto.LeadOrder, error)
	VerifyLeadPayment(ctx context.Context, token string, req dto.VerifyPaymentRequest) (dto.VerifyPaymentResponse, error)
}

// Checkout opens the provider widget for one order. It returns once the widget is shown;
// the outcome arrives through cb.
type Checkout interface {
	Open(ctx context.Context, order dto.LeadOrder, prefill checkout.Prefill, cb checkout.Callbacks) error
}

type ToastKind int

const (
	ToastInfo ToastKind = iota
	ToastSuccess
	ToastError
)

// UI is what the listener drives. Methods are never called with the listener's lock held.
type UI interface {
	ShowLead(offer models.LeadOffer)
	HideLead()
	Toast(kind ToastKind, message string)
	Navigate(route string)
}

// Listener owns the single lead socket for the signed-in vendor.
type Listener struct {
	sessions session.Store
	dialer   Dialer
	payments Payments
	checkout Checkout
	ui       UI
	logger   *zap.Logger

	mu        sync.Mutex
	ctx       context.Context
	state     State
	socket    Socket
	token     string
	current   *models.LeadOffer
	inflight  string
	cancelSub func()
	closed    bool
}

// NewListener wires the collaborators. Nothing connects until Start.
func NewListener(sessions session.Store, dialer Dialer, payments Payments, co Checkout, ui UI, logger *zap.Logger) *Listener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Listener{
		sessions: sessions,
		dialer:   dialer,
		payments: payments,
		checkout: co,
		ui:       ui,
		logger:   logger,
		ctx:      context.Background(),
	}
}

// Start binds the listener to the session store. ctx bounds the payment calls made from checkout callbacks.
func (l *Listener) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return errors.New("listener closed")
	}
	l.ctx = ctx
	l.mu.Unlock()

	cancel := l.sessions.OnSessionChange(l.reconcile)
	l.mu.Lock()
	l.cancelSub = cancel
	l.mu.Unlock()

	s, err := l.sessions.Load(ctx)
	if err != nil && !errors.Is(err, session.ErrNoSession) {
		return err
	}
	l.reconcile(s)
	return nil
}

// Close disconnects and stops following session changes.
func (l *Listener) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	cancel := l.cancelSub
	sock := l.dropSocketLocked()
	hadLead := l.current != nil
	l.current = nil
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if sock != nil {
		sock.Close()
	}
	if hadLead {
		l.ui.HideLead()
	}
}

// State returns the current lifecycle state.
func (l *Listener) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Current returns the pending lead, if any.
func (l *Listener) Current() (models.LeadOffer, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == nil {
		return models.LeadOffer{}, false
	}
	return *l.current, true
}

func (l *Listener) dropSocketLocked() Socket {
	sock := l.socket
	l.socket = nil
	l.token = ""
	l.inflight = ""
	l.state = Disconnected
	return sock
}

// reconcile makes the socket a function of the session: open iff the session is a vendor's,
// reopened when the token changes.
func (l *Listener) reconcile(s session.AuthSession) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	vendor := s.State() == session.Vendor
	if vendor && l.socket != nil && l.token == s.AccessToken {
		l.mu.Unlock()
		return
	}

	old := l.dropSocketLocked()
	hadLead := l.current != nil
	l.current = nil
	if !vendor {
		l.mu.Unlock()
		if old != nil {
			old.Close()
			l.logger.Info("lead socket closed", zap.Stringer("session", s.State()))
		}
		if hadLead {
			l.ui.HideLead()
		}
		return
	}

	sock, err := l.dialer.Dial(s.AccessToken)
	if err != nil {
		l.mu.Unlock()
		if old != nil {
			old.Close()
		}
		l.logger.Error("lead socket dial failed", zap.Error(err))
		return
	}
	l.socket = sock
	l.token = s.AccessToken
	l.mu.Unlock()

	if old != nil {
		old.Close()
	}
	if hadLead {
		l.ui.HideLead()
	}
	sock.On(eventConnect, func(json.RawMessage) { l.onConnect(sock) })
	sock.On(eventDisconnect, func(data json.RawMessage) { l.onDisconnect(sock, data) })
	sock.On(eventConnectError, func(data json.RawMessage) { l.onConnectError(sock, data) })
	sock.On(eventNewLead, func(data json.RawMessage) { l.onNewLead(sock, data) })
	sock.Connect()
	l.logger.Info("lead socket opening", zap.String("vendor", s.User.Email))
}

func (l *Listener) onConnect(sock Socket) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if sock != l.socket {
		return
	}
	if l.state == Disconnected {
		l.state = Idle
	}
	l.logger.Info("lead socket connected")
}

// onDisconnect keeps a pending lead or payment: both continue over REST and emits are buffered.
func (l *Listener) onDisconnect(sock Socket, reason json.RawMessage) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if sock != l.socket {
		return
	}
	if l.state == Idle {
		l.state = Disconnected
	}
	l.logger.Warn("lead socket disconnected", zap.ByteString("reason", reason))
}

func (l *Listener) onConnectError(sock Socket, data json.RawMessage) {
	l.mu.Lock()
	stale := sock != l.socket
	l.mu.Unlock()
	if stale {
		return
	}
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(data, &payload)
	l.logger.Warn("lead socket connect error", zap.String("message", payload.Message))
	l.ui.Toast(ToastError, "Live leads are unavailable: "+payload.Message)
}

// newLeadEvent keeps pointers so a missing half is distinguishable from an empty one.
type newLeadEvent struct {
	Lead         *models.Lead         `json:"lead"`
	LeadResponse *models.LeadResponse `json:"leadResponse"`
}

func (l *Listener) onNewLead(sock Socket, data json.RawMessage) {
	var ev newLeadEvent
	if err := json.Unmarshal(data, &ev); err != nil || ev.Lead == nil || ev.LeadResponse == nil || ev.LeadResponse.ID == "" {
		l.logger.Warn("dropping malformed new_lead", zap.ByteString("payload", data), zap.Error(err))
		return
	}
	offer := models.LeadOffer{Lead: *ev.Lead, LeadResponse: *ev.LeadResponse}

	l.mu.Lock()
	if sock != l.socket {
		l.mu.Unlock()
		return
	}
	if l.state == PaymentInFlight {
		l.mu.Unlock()
		l.logger.Warn("dropping new_lead during payment", zap.String("lead_response_id", offer.LeadResponse.ID))
		return
	}
	l.current = &offer
	l.state = LeadPending
	l.mu.Unlock()

	l.logger.Info("lead offered", zap.String("lead_response_id", offer.LeadResponse.ID), zap.String("keyword", offer.Lead.Keyword))
	l.ui.ShowLead(offer)
}

// Reject declines the pending lead. It never touches the payment API.
func (l *Listener) Reject() error {
	l.mu.Lock()
	if l.current == nil {
		l.mu.Unlock()
		return ErrNoPendingLead
	}
	if l.state == PaymentInFlight {
		l.mu.Unlock()
		return ErrPaymentInFlight
	}
	id := l.current.LeadResponse.ID
	sock := l.socket
	l.current = nil
	l.state = Idle
	l.mu.Unlock()

	if sock != nil {
		if err := sock.Emit(eventLeadRejected, dto.LeadEvent{LeadResponseID: id}); err != nil {
			l.logger.Warn("emit lead_rejected", zap.String("lead_response_id", id), zap.Error(err))
		}
	}
	l.ui.HideLead()
	l.ui.Toast(ToastInfo, "Lead rejected")
	return nil
}

// Dismiss closes the prompt without answering the lead.
func (l *Listener) Dismiss() {
	l.mu.Lock()
	if l.current == nil || l.state == PaymentInFlight {
		l.mu.Unlock()
		return
	}
	l.current = nil
	l.state = Idle
	l.mu.Unlock()
	l.ui.HideLead()
}

// Accept runs order-create and opens checkout for the pending lead. It returns once the widget is
// open; verification and the lead_accepted emit happen from the checkout callbacks.
func (l *Listener) Accept(ctx context.Context) error {
	s, err := l.sessions.Load(ctx)
	if err != nil || s.State() != session.Vendor {
		l.ui.Toast(ToastError, "Please log in to accept leads")
		l.ui.Navigate(RouteLogin)
		return ErrNotAuthenticated
	}

	l.mu.Lock()
	if l.current == nil {
		l.mu.Unlock()
		return ErrNoPendingLead
	}
	if l.state == PaymentInFlight {
		l.mu.Unlock()
		return ErrPaymentInFlight
	}
	offer := *l.current
	id := offer.LeadResponse.ID
	l.state = PaymentInFlight
	l.inflight = id
	l.mu.Unlock()

	order, err := l.payments.CreateLeadOrder(ctx, s.AccessToken, id)
	if err == nil && order.OrderID == "" {
		err = errors.New(orMessage(order.Message, "could not create payment order"))
	}
	if err != nil {
		l.backToPending(id)
		l.logger.Warn("create lead order", zap.String("lead_response_id", id), zap.Error(err))
		l.ui.Toast(ToastError, backend.Message(err))
		if backend.IsAuthError(err) {
			l.signOut(ctx)
		}
		return err
	}

	prefill := checkout.Prefill{Name: s.User.Name, Email: s.User.Email, Contact: s.User.Phone}
	err = l.checkout.Open(ctx, order, prefill, checkout.Callbacks{
		OnSuccess: func(res checkout.Result) { l.onPaid(s.AccessToken, id, res) },
		OnFailure: func(desc string) { l.onPaymentFailed(id, desc) },
		OnDismiss: func() { l.onCheckoutDismissed(id) },
	})
	if err != nil {
		l.backToPending(id)
		l.logger.Error("open checkout", zap.String("order_id", order.OrderID), zap.Error(err))
		l.ui.Toast(ToastError, "Could not open the payment window")
		return err
	}
	l.ui.HideLead()
	l.logger.Info("checkout opened", zap.String("order_id", order.OrderID), zap.Int64("amount", order.Amount), zap.String("currency", order.Currency))
	return nil
}

func orMessage(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}

func (l *Listener) backToPending(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.inflight == id && l.state == PaymentInFlight {
		l.inflight = ""
		l.state = LeadPending
	}
}

// claim takes ownership of the in-flight payment for id, so a callback is acted on once.
func (l *Listener) claim(id string) (Socket, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.inflight != id {
		return nil, false
	}
	l.inflight = ""
	return l.socket, true
}

func (l *Listener) resolve(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current != nil && l.current.LeadResponse.ID == id {
		l.current = nil
	}
	if l.state == PaymentInFlight {
		l.state = Idle
	}
}

func (l *Listener) onPaid(token, id string, res checkout.Result) {
	sock, ok := l.claim(id)
	if !ok {
		l.logger.Warn("payment callback for a lead no longer in flight; verifying without emit", zap.String("lead_response_id", id))
	}

	l.mu.Lock()
	ctx := l.ctx
	l.mu.Unlock()

	resp, err := l.payments.VerifyLeadPayment(ctx, token, dto.VerifyPaymentRequest{
		RazorpayOrderID:   res.OrderID,
		RazorpayPaymentID: res.PaymentID,
		RazorpaySignature: res.Signature,
		LeadResponseID:    id,
	})
	if err == nil && !resp.Success {
		err = errors.New(orMessage(resp.Message, "payment verification failed"))
	}
	if err != nil {
		l.logger.Warn("verify lead payment", zap.String("lead_response_id", id), zap.String("payment_id", res.PaymentID), zap.Error(err))
		if ok {
			l.resolve(id)
		}
		l.ui.Toast(ToastError, backend.Message(err))
		return
	}
	if !ok {
		return
	}

	if sock != nil {
		if err := sock.Emit(eventLeadAccepted, dto.LeadEvent{LeadResponseID: id}); err != nil {
			l.logger.Warn("emit lead_accepted", zap.String("lead_response_id", id), zap.Error(err))
		}
	}
	l.resolve(id)
	l.logger.Info("lead resolved", zap.String("lead_response_id", id), zap.String("payment_id", res.PaymentID))
	l.ui.Toast(ToastSuccess, orMessage(resp.Message, "Lead accepted"))
	l.ui.Navigate(RouteVendorLeads)
}

func (l *Listener) onPaymentFailed(id, description string) {
	l.logger.Warn("payment failed", zap.String("lead_response_id", id), zap.String("description", description))
	l.ui.Toast(ToastError, orMessage(description, "Payment failed"))
}

func (l *Listener) onCheckoutDismissed(id string) {
	l.mu.Lock()
	if l.inflight != id || l.state != PaymentInFlight {
		l.mu.Unlock()
		return
	}
	l.inflight = ""
	l.state = LeadPending
	var offer models.LeadOffer
	show := l.current != nil
	if show {
		offer = *l.current
	}
	l.mu.Unlock()

	l.logger.Info("checkout dismissed", zap.String("lead_response_id", id))
	if show {
		l.ui.ShowLead(offer)
	}
}

func (l *Listener) signOut(ctx context.Context) {
	if err := l.sessions.Clear(ctx); err != nil {
		l.logger.Error("clear session", zap.Error(err))
	}
	l.ui.Navigate(RouteLogin)
}
