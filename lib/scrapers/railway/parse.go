package railway

import (
	"context"
	"fmt"
	"railwatch/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var ErrMissingElement = fmt.Errorf("required element is missing from the search results")
var ErrNoTrips = fmt.Errorf("search results contain no trips")

// Visitor is called with every seat class the moment it has been extracted,
// before the rest of the page is parsed.
type Visitor func(trainName string, seat SeatClass)

func requiredText(sel *goquery.Selection, selector string) (string, error) {
	text, ok := htmlutil.Text(sel.Find(selector))
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingElement, selector)
	}
	return text, nil
}

func requiredElement(sel *goquery.Selection, selector string) (*goquery.Selection, error) {
	found := sel.Find(selector).First()
	if found.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingElement, selector)
	}
	return found, nil
}

func parseEndpoint(trip *goquery.Selection, selector string) (location, at string, err error) {
	endpoint, err := requiredElement(trip, selector)
	if err != nil {
		return "", "", err
	}
	at, err = requiredText(endpoint, ".journey-date")
	if err != nil {
		return "", "", err
	}
	location, err = requiredText(endpoint, ".journey-location")
	if err != nil {
		return "", "", err
	}
	return location, at, nil
}

func parseTrip(trip *goquery.Selection, visit Visitor) (TrainInfo, error) {
	name, err := requiredText(trip, "h2")
	if err != nil {
		return TrainInfo{}, err
	}
	from, startTime, err := parseEndpoint(trip, ".journey-start")
	if err != nil {
		return TrainInfo{}, err
	}
	to, endTime, err := parseEndpoint(trip, ".journey-end")
	if err != nil {
		return TrainInfo{}, err
	}
	duration, err := requiredText(trip, ".journey-duration")
	if err != nil {
		return TrainInfo{}, err
	}

	info := TrainInfo{
		TrainName: name,
		From:      from,
		To:        to,
		StartTime: startTime,
		EndTime:   endTime,
		Duration:  duration,
		Classes:   []SeatClass{},
	}

	seats := trip.Find(".single-seat-class")
	for i := range seats.Nodes {
		seat := seats.Eq(i)

		class, err := requiredText(seat, ".seat-class-name")
		if err != nil {
			return TrainInfo{}, err
		}
		fare, err := requiredText(seat, ".seat-class-fare")
		if err != nil {
			return TrainInfo{}, err
		}
		available, err := requiredText(seat, ".all-seats")
		if err != nil {
			return TrainInfo{}, err
		}

		seatClass := SeatClass{
			Class:            class,
			Fare:             fare,
			AvailableTickets: available,
		}
		if visit != nil {
			visit(name, seatClass)
		}
		info.Classes = append(info.Classes, seatClass)
	}

	return info, nil
}

// ParseTrips extracts every trip wrapper on a search results page in
// document order. When a trip is malformed, the trips completed before it
// are returned together with the error.
func ParseTrips(ctx context.Context, doc *goquery.Document, visit Visitor) ([]TrainInfo, error) {
	_, span := tracer.Start(ctx, "ParseTrips")
	defer span.End()

	trips := []TrainInfo{}

	wrappers := doc.Find(".single-trip-wrapper")
	if wrappers.Length() == 0 {
		span.SetStatus(codes.Error, ErrNoTrips.Error())
		return trips, ErrNoTrips
	}
	span.SetAttributes(attribute.Int("wrappers", wrappers.Length()))

	for i := range wrappers.Nodes {
		trip, err := parseTrip(wrappers.Eq(i), visit)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to parse trip")
			return trips, fmt.Errorf("trip %d: %w", i+1, err)
		}
		trips = append(trips, trip)
	}

	return trips, nil
}
