package railway

import (
	"fmt"
	"net/url"
	"strings"
)

const BaseUrl = "https://eticket.railway.gov.bd"

type SearchQuery struct {
	FromCity  string `json:"from_city"`
	ToCity    string `json:"to_city"`
	SeatClass string `json:"seat_class"`
	// journey date in the DD-Mon-YYYY form the booking site expects
	Date string `json:"date"`
}

var DefaultSearchQuery = SearchQuery{
	FromCity:  "Dhaka",
	ToCity:    "Rajshahi",
	SeatClass: "SNIGDHA",
	Date:      "05-Jun-2025",
}

// WithDefaults fills every empty field from `defaults`.
func (q SearchQuery) WithDefaults(defaults SearchQuery) SearchQuery {
	if q.FromCity == "" {
		q.FromCity = defaults.FromCity
	}
	if q.ToCity == "" {
		q.ToCity = defaults.ToCity
	}
	if q.SeatClass == "" {
		q.SeatClass = defaults.SeatClass
	}
	if q.Date == "" {
		q.Date = defaults.Date
	}
	return q
}

// URL builds the train search url, `base` defaults to BaseUrl.
func (q SearchQuery) URL(base string) string {
	if base == "" {
		base = BaseUrl
	}
	// parameter order matches the links produced by the site itself
	params := [][2]string{
		{"fromcity", q.FromCity},
		{"tocity", q.ToCity},
		{"doj", q.Date},
		{"class", q.SeatClass},
	}
	encoded := make([]string, len(params))
	for i, p := range params {
		encoded[i] = p[0] + "=" + url.QueryEscape(p[1])
	}
	return fmt.Sprintf(
		"%s/booking/train/search?%s",
		strings.TrimSuffix(base, "/"),
		strings.Join(encoded, "&"),
	)
}
