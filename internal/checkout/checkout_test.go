package checkout

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/hongminglow/vendorhub-be/internal/models/dto"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func order() dto.LeadOrder {
	return dto.LeadOrder{
		OrderID:       "order_o1",
		Amount:        4900,
		Currency:      "INR",
		RazorpayKeyID: "rzp_test_k1",
		LeadDetails:   dto.LeadDetails{Keyword: "plumber", Location: "Pune"},
	}
}

type outcome struct {
	success  []Result
	failures []string
	dismiss  int
}

func (o *outcome) callbacks() Callbacks {
	return Callbacks{
		OnSuccess: func(r Result) { o.success = append(o.success, r) },
		OnFailure: func(d string) { o.failures = append(o.failures, d) },
		OnDismiss: func() { o.dismiss++ },
	}
}

// openOrder registers an order without listening; the routes are driven through httptest.
func openOrder(t *testing.T, s *Server, out *outcome) string {
	t.Helper()
	var pageURL string
	s.opts.OnOpen = func(url string) { pageURL = url }
	require.NoError(t, s.Open(context.Background(), order(), Prefill{Name: "Ravi", Email: "ravi@example.com"}, out.callbacks()))
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	require.NotEmpty(t, pageURL)
	return strings.TrimPrefix(pageURL, s.baseURL)
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	return rec
}

func TestDisplayAmount(t *testing.T) {
	assert.Equal(t, "INR 49.00", DisplayAmount(4900, "INR"))
	assert.Equal(t, "INR 1.00", DisplayAmount(100, "inr"))
	assert.Equal(t, "JPY 500", DisplayAmount(500, "JPY"))
	assert.Equal(t, "KWD 1.250", DisplayAmount(1250, "KWD"))
	assert.True(t, MajorAmount(12345, "INR").Equal(MajorAmount(12345, "USD")))
}

func TestPageRendersOrder(t *testing.T) {
	s := NewServer(Options{Logger: zaptest.NewLogger(t)})
	out := &outcome{}
	path := openOrder(t, s, out)

	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	page := string(body)
	assert.Contains(t, page, "checkout.razorpay.com/v1/checkout.js")
	assert.Contains(t, page, `"order_id":"order_o1"`)
	assert.Contains(t, page, `"key":"rzp_test_k1"`)
	assert.Contains(t, page, `"amount":4900`)
	assert.Contains(t, page, "INR 49.00")
	assert.Contains(t, page, `"email":"ravi@example.com"`)

	rec = httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/checkout/someone-else/", nil))
	assert.Equal(t, http.StatusGone, rec.Code)
}

func TestSuccessRunsOnce(t *testing.T) {
	s := NewServer(Options{Logger: zaptest.NewLogger(t)})
	out := &outcome{}
	base := strings.TrimSuffix(openOrder(t, s, out), "/")
	h := s.Routes()

	rec := post(t, h, base+"/failure", `{"description":"Card declined"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = post(t, h, base+"/success", `{"razorpay_order_id":"order_other","razorpay_payment_id":"pay_1","razorpay_signature":"sig"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	payload := `{"razorpay_order_id":"order_o1","razorpay_payment_id":"pay_1","razorpay_signature":"sig"}`
	rec = post(t, h, base+"/success", payload)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = post(t, h, base+"/success", payload)
	assert.Equal(t, http.StatusGone, rec.Code)
	rec = post(t, h, base+"/dismiss", `{}`)
	assert.Equal(t, http.StatusGone, rec.Code)

	assert.Equal(t, []string{"Card declined"}, out.failures)
	assert.Equal(t, []Result{{OrderID: "order_o1", PaymentID: "pay_1", Signature: "sig"}}, out.success)
	assert.Zero(t, out.dismiss)
}

func TestDismissRunsOnceAndFreesServer(t *testing.T) {
	s := NewServer(Options{Logger: zaptest.NewLogger(t)})
	out := &outcome{}
	base := strings.TrimSuffix(openOrder(t, s, out), "/")

	assert.ErrorIs(t, s.Open(context.Background(), order(), Prefill{}, Callbacks{}), ErrBusy)

	h := s.Routes()
	assert.Equal(t, http.StatusOK, post(t, h, base+"/dismiss", `{}`).Code)
	assert.Equal(t, http.StatusGone, post(t, h, base+"/dismiss", `{}`).Code)
	assert.Equal(t, 1, out.dismiss)

	require.NoError(t, s.Open(context.Background(), order(), Prefill{}, Callbacks{}))
}

func TestExpiryDismisses(t *testing.T) {
	s := NewServer(Options{Expiry: 20 * time.Millisecond, Logger: zaptest.NewLogger(t)})
	dismissed := make(chan struct{})
	require.NoError(t, s.Open(context.Background(), order(), Prefill{}, Callbacks{OnDismiss: func() { close(dismissed) }}))
	defer func() { _ = s.Close(context.Background()) }()

	select {
	case <-dismissed:
	case <-time.After(2 * time.Second):
		t.Fatal("checkout did not expire")
	}
}

func TestServesOverLoopback(t *testing.T) {
	s := NewServer(Options{Logger: zaptest.NewLogger(t)})
	out := &outcome{}
	path := openOrder(t, s, out)

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get(s.baseURL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	assert.True(t, strings.HasPrefix(s.baseURL, "http://127.0.0.1:"))
}

func TestOpenRejectsIncompleteOrder(t *testing.T) {
	s := NewServer(Options{})
	assert.Error(t, s.Open(context.Background(), dto.LeadOrder{OrderID: "o1"}, Prefill{}, Callbacks{}))
}
