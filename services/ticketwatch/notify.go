package ticketwatch

import (
	"fmt"
	"railwatch/lib/scrapers/railway"
	"railwatch/lib/timezone"
	"strconv"
	"strings"
)

var ErrInvalidTicketCount = fmt.Errorf("available ticket count is not an integer")

// Target is the train and seat class a receiver wants to hear about.
type Target struct {
	// matched against the start of the train name, ex. "BANALATA" matches
	// "BANALATA EXPRESS (791)"
	TrainPrefix string `json:"train_prefix"`
	SeatClass   string `json:"seat_class"`
	Receiver    string `json:"receiver"`
}

// ShouldNotify decides whether a scraped seat class warrants an alert and
// returns the available ticket count when it does. The count is only parsed
// once the train and seat class match, an unparsable count is reported as
// ErrInvalidTicketCount.
func ShouldNotify(target Target, trainName string, seat railway.SeatClass) (int, bool, error) {
	if !strings.HasPrefix(trainName, target.TrainPrefix) {
		return 0, false, nil
	}
	if strings.ToUpper(seat.Class) != strings.ToUpper(target.SeatClass) {
		return 0, false, nil
	}

	count, err := strconv.Atoi(seat.AvailableTickets)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %q", ErrInvalidTicketCount, seat.AvailableTickets)
	}
	return count, count > 0, nil
}

// AlertMessage is the subject and body of an availability email, ex.
// "BANALATA SNIGDHA Ticket Available!" / "4 tickets of Jun 5, 2025, are available!"
func AlertMessage(target Target, journeyDate string, count int) (subject, body string) {
	subject = fmt.Sprintf(
		"%s %s Ticket Available!",
		strings.ToUpper(target.TrainPrefix),
		strings.ToUpper(target.SeatClass),
	)
	body = fmt.Sprintf(
		"%d tickets of %s, are available!",
		count,
		timezone.HumanJourneyDate(journeyDate),
	)
	return subject, body
}
