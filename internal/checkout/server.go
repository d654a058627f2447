package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hongminglow/vendorhub-be/internal/http/respond"
	"github.com/hongminglow/vendorhub-be/internal/models/dto"
)

// ErrBusy means another order is still open in the widget.
var ErrBusy = errors.New("another checkout is in progress")

// Options configures a Server.
type Options struct {
	// Addr is the loopback address to listen on; port 0 picks a free one.
	Addr string
	// MerchantName is shown in the widget header.
	MerchantName string
	// Expiry dismisses an order nobody completed.
	Expiry time.Duration
	// OnOpen receives the page URL of each opened order, e.g. to print it or launch a browser.
	OnOpen func(url string)
	Logger *zap.Logger
}

type pending struct {
	id      string
	order   dto.LeadOrder
	prefill Prefill
	cb      Callbacks
	timer   *time.Timer
}

// Server serves one checkout page at a time and relays its callbacks.
type Server struct {
	opts   Options
	logger *zap.Logger

	mu      sync.Mutex
	current *pending
	ln      net.Listener
	srv     *http.Server
	baseURL string
}

func NewServer(opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = "127.0.0.1:0"
	}
	if opts.MerchantName == "" {
		opts.MerchantName = "VendorHub"
	}
	if opts.Expiry <= 0 {
		opts.Expiry = 15 * time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Server{opts: opts, logger: opts.Logger}
}

// Routes returns the page and callback handlers.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Route("/checkout/{sessionId}", func(r chi.Router) {
		r.Get("/", s.handlePage)
		r.Post("/success", s.handleSuccess)
		r.Post("/failure", s.handleFailure)
		r.Post("/dismiss", s.handleDismiss)
	})
	return r
}

// Start listens on the loopback address. Open calls it when needed.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startLocked()
}

func (s *Server) startLocked() error {
	if s.ln != nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.opts.Addr, err)
	}
	s.ln = ln
	s.baseURL = "http://" + ln.Addr().String()
	s.srv = &http.Server{Handler: s.Routes(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("checkout server stopped", zap.Error(err))
		}
	}()
	s.logger.Debug("checkout server listening", zap.String("addr", s.baseURL))
	return nil
}

// Open registers order and hands its page URL to OnOpen. Callbacks fire as the widget reports back.
func (s *Server) Open(_ context.Context, order dto.LeadOrder, prefill Prefill, cb Callbacks) error {
	if order.OrderID == "" || order.RazorpayKeyID == "" {
		return errors.New("order is missing its id or provider key")
	}
	s.mu.Lock()
	if s.current != nil {
		s.mu.Unlock()
		return ErrBusy
	}
	if err := s.startLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	p := &pending{id: uuid.NewString(), order: order, prefill: prefill, cb: cb}
	p.timer = time.AfterFunc(s.opts.Expiry, func() { s.expire(p.id) })
	s.current = p
	url := s.baseURL + "/checkout/" + p.id + "/"
	s.mu.Unlock()

	s.logger.Info("checkout ready", zap.String("order_id", order.OrderID), zap.String("url", url))
	if s.opts.OnOpen != nil {
		s.opts.OnOpen(url)
	}
	return nil
}

// Close stops the server. An open order is dismissed.
func (s *Server) Close(ctx context.Context) error {
	s.mu.Lock()
	p := s.takeLocked("")
	srv := s.srv
	s.srv, s.ln = nil, nil
	s.mu.Unlock()

	if p != nil && p.cb.OnDismiss != nil {
		p.cb.OnDismiss()
	}
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// lookup returns the open order when id names it.
func (s *Server) lookup(id string) (*pending, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.id != id {
		return nil, false
	}
	return s.current, true
}

// takeLocked removes the open order so its terminal callback runs once. An empty id takes any order.
func (s *Server) takeLocked(id string) *pending {
	p := s.current
	if p == nil || (id != "" && p.id != id) {
		return nil
	}
	s.current = nil
	p.timer.Stop()
	return p
}

func (s *Server) take(id string) *pending {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.takeLocked(id)
}

func (s *Server) expire(id string) {
	p := s.take(id)
	if p == nil {
		return
	}
	s.logger.Warn("checkout expired", zap.String("order_id", p.order.OrderID))
	if p.cb.OnDismiss != nil {
		p.cb.OnDismiss()
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	p, ok := s.lookup(chi.URLParam(r, "sessionId"))
	if !ok {
		http.Error(w, "this checkout is no longer open", http.StatusGone)
		return
	}
	o := p.order
	data := pageData{
		Keyword:  o.LeadDetails.Keyword,
		Location: o.LeadDetails.Location,
		Display:  DisplayAmount(o.Amount, o.Currency),
		Options: map[string]any{
			"key":         o.RazorpayKeyID,
			"amount":      o.Amount,
			"currency":    o.Currency,
			"order_id":    o.OrderID,
			"name":        s.opts.MerchantName,
			"description": "Lead: " + o.LeadDetails.Keyword,
			"prefill":     p.prefill,
		},
		CallbackBase: "/checkout/" + p.id,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error("render checkout page", zap.Error(err))
	}
}

func (s *Server) handleSuccess(w http.ResponseWriter, r *http.Request) {
	var res Result
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&res); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid payment response")
		return
	}
	id := chi.URLParam(r, "sessionId")
	if p, ok := s.lookup(id); ok && res.OrderID != p.order.OrderID {
		respond.Error(w, http.StatusBadRequest, "payment is for a different order")
		return
	}
	if res.PaymentID == "" || res.Signature == "" {
		respond.Error(w, http.StatusBadRequest, "invalid payment response")
		return
	}
	p := s.take(id)
	if p == nil {
		respond.Error(w, http.StatusGone, "this checkout is no longer open")
		return
	}
	s.logger.Info("checkout captured", zap.String("order_id", res.OrderID), zap.String("payment_id", res.PaymentID))
	if p.cb.OnSuccess != nil {
		p.cb.OnSuccess(res)
	}
	respond.JSON(w, http.StatusOK, "Payment received. You can close this window.", nil)
}

func (s *Server) handleFailure(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Description string `json:"description"`
	}
	_ = json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&body)
	p, ok := s.lookup(chi.URLParam(r, "sessionId"))
	if !ok {
		respond.Error(w, http.StatusGone, "this checkout is no longer open")
		return
	}
	if p.cb.OnFailure != nil {
		p.cb.OnFailure(body.Description)
	}
	respond.JSON(w, http.StatusOK, "Payment failed. You can try again.", nil)
}

func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	p := s.take(chi.URLParam(r, "sessionId"))
	if p == nil {
		respond.Error(w, http.StatusGone, "this checkout is no longer open")
		return
	}
	if p.cb.OnDismiss != nil {
		p.cb.OnDismiss()
	}
	respond.JSON(w, http.StatusOK, "Checkout closed.", nil)
}
