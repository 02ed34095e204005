package ticketwatch

import (
	"context"
	"fmt"
	"railwatch/lib/mailer"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/PuerkitoBio/goquery"
)

type seatRow struct {
	class     string
	fare      string
	available string
}

// tripHtml renders a trip wrapper the way the booking site does, a seat
// with an empty `available` is rendered without its `.all-seats` element.
func tripHtml(name string, seats ...seatRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="single-trip-wrapper"><h2>%s</h2>`, name)
	b.WriteString(`<div class="journey-start"><span class="journey-date">05 Jun, 13:30 pm</span><span class="journey-location">Dhaka</span></div>`)
	b.WriteString(`<div class="journey-duration">05h 10m</div>`)
	b.WriteString(`<div class="journey-end"><span class="journey-date">05 Jun, 18:40 pm</span><span class="journey-location">Rajshahi</span></div>`)
	for _, seat := range seats {
		fmt.Fprintf(&b, `<div class="single-seat-class"><span class="seat-class-name">%s</span><span class="seat-class-fare">%s</span>`, seat.class, seat.fare)
		if seat.available != "" {
			fmt.Fprintf(&b, `<span class="all-seats">%s</span>`, seat.available)
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func page(trips ...string) string {
	return "<html><body>" + strings.Join(trips, "") + "</body></html>"
}

type fakeFetcher struct {
	html  string
	err   error
	calls *int64
	urls  chan string
}

func newFakeFetcher(html string, err error) fakeFetcher {
	var calls int64
	return fakeFetcher{html: html, err: err, calls: &calls, urls: make(chan string, 64)}
}

func (f fakeFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	atomic.AddInt64(f.calls, 1)
	select {
	case f.urls <- url:
	default:
	}
	if f.err != nil {
		return nil, f.err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(f.html))
}

func (f fakeFetcher) Calls() int64 {
	return atomic.LoadInt64(f.calls)
}

type fakeMailer struct {
	mutex *sync.Mutex
	sent  *[]mailer.Message
	err   error
}

func newFakeMailer(err error) fakeMailer {
	return fakeMailer{mutex: &sync.Mutex{}, sent: &[]mailer.Message{}, err: err}
}

func (m fakeMailer) Send(ctx context.Context, msg mailer.Message) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	*m.sent = append(*m.sent, msg)
	return m.err
}

func (m fakeMailer) Sent() []mailer.Message {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return append([]mailer.Message(nil), *m.sent...)
}
