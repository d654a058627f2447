package agent

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/hongminglow/vendorhub-be/internal/checkout"
	"github.com/hongminglow/vendorhub-be/internal/leads"
	"github.com/hongminglow/vendorhub-be/internal/models"
)

// Terminal renders the listener's prompts and toasts and queues navigation requests for Run.
type Terminal struct {
	mu     sync.Mutex
	out    io.Writer
	theme  Theme
	routes chan string
}

var _ leads.UI = (*Terminal)(nil)

func NewTerminal(out io.Writer, theme Theme) *Terminal {
	return &Terminal{out: out, theme: theme, routes: make(chan string, 4)}
}

func (t *Terminal) println(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, s)
}

func (t *Terminal) ShowLead(offer models.LeadOffer) {
	l := offer.Lead
	rows := []string{t.theme.Title.Render("New lead: " + l.Keyword)}
	add := func(label, value string) {
		if value != "" {
			rows = append(rows, t.theme.Label.Render(label+":")+" "+value)
		}
	}
	add("Category", l.Category)
	add("Location", l.Location)
	add("Customer", l.CustomerName)
	add("Details", l.Description)
	rows = append(rows, "", t.theme.Keys.Render("[a] accept   [r] reject   [d] dismiss"))
	t.println(t.theme.LeadBox.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
}

func (t *Terminal) HideLead() {
	t.println(t.theme.Muted.Render("lead prompt closed"))
}

func (t *Terminal) Toast(kind leads.ToastKind, message string) {
	style := t.theme.Info
	switch kind {
	case leads.ToastSuccess:
		style = t.theme.Success
	case leads.ToastError:
		style = t.theme.Error
	}
	t.println(style.Render(message))
}

// Navigate never blocks; a full queue drops the oldest route.
func (t *Terminal) Navigate(route string) {
	for {
		select {
		case t.routes <- route:
			return
		default:
		}
		select {
		case <-t.routes:
		default:
		}
	}
}

func (t *Terminal) Routes() <-chan string {
	return t.routes
}

// CheckoutReady tells the vendor where to pay.
func (t *Terminal) CheckoutReady(url string) {
	t.println(t.theme.Info.Render("Complete the payment in your browser: ") + url)
}

// LeadList renders the vendor's leads.
func (t *Terminal) LeadList(offers []models.LeadOffer) {
	if len(offers) == 0 {
		t.println(t.theme.Muted.Render("No leads yet."))
		return
	}
	var b strings.Builder
	b.WriteString(t.theme.Title.Render("Your leads"))
	for _, o := range offers {
		b.WriteString("\n")
		status := o.LeadResponse.Status
		if status == models.LeadResponseAccepted {
			status = t.theme.Success.Render(status)
		}
		fmt.Fprintf(&b, "  %-24s %-16s %s", o.Lead.Keyword, o.Lead.Location, status)
	}
	t.println(b.String())
}

// Order prints an order summary before checkout opens.
func (t *Terminal) Order(keyword string, amount int64, currency string) {
	t.println(t.theme.Label.Render("Accepting "+keyword+":") + " " + checkout.DisplayAmount(amount, currency))
}
