package leads

import (
	"context"
	"encoding/json"
	"slices"
	"sync"

	"github.com/hongminglow/vendorhub-be/internal/checkout"
	"github.com/hongminglow/vendorhub-be/internal/models"
	"github.com/hongminglow/vendorhub-be/internal/models/dto"
)

type emitted struct {
	Event string
	Args  []any
}

// mockSocket records emits and lets tests deliver server events.
type mockSocket struct {
	mu        sync.Mutex
	token     string
	handlers  map[string][]func(json.RawMessage)
	emits     []emitted
	connected int
	closed    int
}

func (s *mockSocket) On(event string, fn func(json.RawMessage)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[event] = append(s.handlers[event], fn)
}

func (s *mockSocket) Emit(event string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emits = append(s.emits, emitted{Event: event, Args: args})
	return nil
}

func (s *mockSocket) Connect() {
	s.mu.Lock()
	s.connected++
	s.mu.Unlock()
	s.deliver(eventConnect, nil)
}

func (s *mockSocket) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	s.handlers = map[string][]func(json.RawMessage){}
}

func (s *mockSocket) deliver(event string, data json.RawMessage) {
	s.mu.Lock()
	hs := slices.Clone(s.handlers[event])
	s.mu.Unlock()
	for _, h := range hs {
		h(data)
	}
}

func (s *mockSocket) Emits() []emitted {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]emitted(nil), s.emits...)
}

type mockDialer struct {
	mu      sync.Mutex
	sockets []*mockSocket
}

func (d *mockDialer) Dial(token string) (Socket, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := &mockSocket{token: token, handlers: map[string][]func(json.RawMessage){}}
	d.sockets = append(d.sockets, s)
	return s, nil
}

func (d *mockDialer) Sockets() []*mockSocket {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*mockSocket(nil), d.sockets...)
}

// mockPayments is a Payments whose behavior tests set through the Fn fields.
type mockPayments struct {
	CreateLeadOrderFn   func(ctx context.Context, token, leadResponseID string) (dto.LeadOrder, error)
	VerifyLeadPaymentFn func(ctx context.Context, token string, req dto.VerifyPaymentRequest) (dto.VerifyPaymentResponse, error)

	CreateLeadOrderCalls   []string
	VerifyLeadPaymentCalls []dto.VerifyPaymentRequest
}

func (m *mockPayments) CreateLeadOrder(ctx context.Context, token, leadResponseID string) (dto.LeadOrder, error) {
	m.CreateLeadOrderCalls = append(m.CreateLeadOrderCalls, leadResponseID)
	if m.CreateLeadOrderFn != nil {
		return m.CreateLeadOrderFn(ctx, token, leadResponseID)
	}
	return dto.LeadOrder{}, nil
}

func (m *mockPayments) VerifyLeadPayment(ctx context.Context, token string, req dto.VerifyPaymentRequest) (dto.VerifyPaymentResponse, error) {
	m.VerifyLeadPaymentCalls = append(m.VerifyLeadPaymentCalls, req)
	if m.VerifyLeadPaymentFn != nil {
		return m.VerifyLeadPaymentFn(ctx, token, req)
	}
	return dto.VerifyPaymentResponse{}, nil
}

// mockCheckout keeps the callbacks of the last opened order so tests can play the widget.
type mockCheckout struct {
	OpenFn func(ctx context.Context, order dto.LeadOrder, prefill checkout.Prefill) error

	Orders    []dto.LeadOrder
	Prefills  []checkout.Prefill
	callbacks checkout.Callbacks
}

func (m *mockCheckout) Open(ctx context.Context, order dto.LeadOrder, prefill checkout.Prefill, cb checkout.Callbacks) error {
	m.Orders = append(m.Orders, order)
	m.Prefills = append(m.Prefills, prefill)
	if m.OpenFn != nil {
		if err := m.OpenFn(ctx, order, prefill); err != nil {
			return err
		}
	}
	m.callbacks = cb
	return nil
}

type toast struct {
	Kind    ToastKind
	Message string
}

type recordingUI struct {
	mu     sync.Mutex
	shown  []models.LeadOffer
	hidden int
	toasts []toast
	navs   []string
}

func (u *recordingUI) ShowLead(offer models.LeadOffer) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.shown = append(u.shown, offer)
}

func (u *recordingUI) HideLead() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.hidden++
}

func (u *recordingUI) Toast(kind ToastKind, message string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.toasts = append(u.toasts, toast{Kind: kind, Message: message})
}

func (u *recordingUI) Navigate(route string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.navs = append(u.navs, route)
}

func (u *recordingUI) Navigations() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.navs...)
}

func (u *recordingUI) Toasts() []toast {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]toast(nil), u.toasts...)
}
