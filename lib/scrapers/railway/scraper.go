package railway

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Scraper struct {
	fetcher Fetcher
	baseUrl string
}

// NewScraper creates a scraper against `baseUrl`, an empty base url means
// the live booking site.
func NewScraper(fetcher Fetcher, baseUrl string) Scraper {
	return Scraper{fetcher: fetcher, baseUrl: baseUrl}
}

func (s Scraper) URL(query SearchQuery) string {
	return query.URL(s.baseUrl)
}

// Scrape fetches and parses the results of `query`. The returned slice is
// never nil, on error it holds whatever trips were parsed before the failure.
func (s Scraper) Scrape(ctx context.Context, query SearchQuery, visit Visitor) ([]TrainInfo, error) {
	ctx, span := tracer.Start(ctx, "Scrape")
	defer span.End()

	url := s.URL(query)
	span.SetAttributes(
		attribute.String("url", url),
		attribute.String("from_city", query.FromCity),
		attribute.String("to_city", query.ToCity),
		attribute.String("seat_class", query.SeatClass),
		attribute.String("date", query.Date),
	)

	doc, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch search results")
		return []TrainInfo{}, fmt.Errorf("fetch search results: %w", err)
	}

	trips, err := ParseTrips(ctx, doc, visit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse search results")
		return trips, fmt.Errorf("parse search results: %w", err)
	}

	slog.DebugContext(ctx, "scraped search results", "url", url, "trips", len(trips))
	return trips, nil
}
