package ticketwatch

import (
	"context"
	"database/sql"
	"log/slog"
	"railwatch/lib/mailer"
	"railwatch/lib/scrapers/railway"
	"railwatch/lib/timezone"
	"railwatch/services/ticketwatch/db"
	"time"

	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

type Options struct {
	Scraper railway.Scraper
	Mailer  mailer.Sender
	// alert log, may be nil
	DB *sql.DB

	// used for every field a request leaves empty
	DefaultQuery  railway.SearchQuery
	DefaultTarget Target

	// how long successful results are reused, zero or negative disables
	// caching so every check scrapes and alerts
	CacheTTL time.Duration
}

type Service struct {
	scraper railway.Scraper
	mailer  mailer.Sender
	qry     *db.Queries
	cache   resultCache

	defaultQuery  railway.SearchQuery
	defaultTarget Target
}

func NewService(opts Options) Service {
	s := Service{
		scraper:       opts.Scraper,
		mailer:        opts.Mailer,
		defaultQuery:  opts.DefaultQuery.WithDefaults(railway.DefaultSearchQuery),
		defaultTarget: opts.DefaultTarget,
	}
	if s.defaultTarget.TrainPrefix == "" {
		s.defaultTarget.TrainPrefix = "BANALATA"
	}
	if opts.DB != nil {
		s.qry = db.New(opts.DB)
	}

	if opts.CacheTTL > 0 {
		s.cache = newResultCache(opts.CacheTTL)
	}
	return s
}

type Request struct {
	Query       railway.SearchQuery
	TrainPrefix string
	Receiver    string
	// skips the result cache, the fresh result still replaces the cached one
	NoCache bool
}

func (s Service) resolve(req Request) (railway.SearchQuery, Target) {
	query := req.Query.WithDefaults(s.defaultQuery)
	target := Target{
		TrainPrefix: req.TrainPrefix,
		SeatClass:   query.SeatClass,
		Receiver:    req.Receiver,
	}
	if target.TrainPrefix == "" {
		target.TrainPrefix = s.defaultTarget.TrainPrefix
	}
	if target.Receiver == "" {
		target.Receiver = s.defaultTarget.Receiver
	}
	return query, target
}

// CheckTickets scrapes the search results for a request and emails the
// receiver for every matching seat class with tickets left. Failures are
// logged, never returned: the result holds whatever trips were parsed and
// is never nil.
func (s Service) CheckTickets(ctx context.Context, req Request) []railway.TrainInfo {
	ctx, span := tracer.Start(ctx, "CheckTickets")
	defer span.End()

	query, target := s.resolve(req)
	cacheKey := s.cache.key(s.scraper.URL(query), target)
	span.SetAttributes(
		attribute.String("train_prefix", target.TrainPrefix),
		attribute.String("seat_class", target.SeatClass),
		attribute.String("date", query.Date),
		attribute.Bool("nocache", req.NoCache),
	)

	if !req.NoCache {
		cached, hit := s.cache.get(cacheKey)
		if hit {
			cacheHitCounter.Add(ctx, 1)
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return cached
		}
	}

	runId, err := random.String(8)
	if err != nil {
		slog.WarnContext(ctx, "generate run id", "err", err)
	}
	span.SetAttributes(attribute.String("run_id", runId))

	visit := func(trainName string, seat railway.SeatClass) {
		count, notify, err := ShouldNotify(target, trainName, seat)
		if err != nil {
			slog.WarnContext(
				ctx, "skipping seat class",
				"train", trainName,
				"seat_class", seat.Class,
				"err", err,
			)
			return
		}
		if notify {
			s.alert(ctx, runId, target, query.Date, trainName, seat, count)
		}
	}

	trips, err := s.scraper.Scrape(ctx, query, visit)
	if err != nil {
		scrapeCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "error")))
		span.RecordError(err)
		span.SetStatus(codes.Error, "scrape failed")
		slog.ErrorContext(
			ctx, "scrape train search",
			"run", runId,
			"url", s.scraper.URL(query),
			"trips", len(trips),
			"err", err,
		)
		return trips
	}
	scrapeCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "ok")))

	closest, similarity, found := closestSeatClass(trips, target.SeatClass)
	if !found && closest != "" {
		slog.WarnContext(
			ctx, "seat class does not appear in search results",
			"seat_class", target.SeatClass,
			"closest", closest,
			"similarity", similarity,
		)
	}

	slog.InfoContext(ctx, "checked tickets", "run", runId, "trips", len(trips))
	s.cache.add(cacheKey, trips)
	return trips
}

func (s Service) alert(
	ctx context.Context,
	runId string,
	target Target,
	journeyDate string,
	trainName string,
	seat railway.SeatClass,
	count int,
) {
	ctx, span := tracer.Start(ctx, "alert")
	defer span.End()
	span.SetAttributes(
		attribute.String("train", trainName),
		attribute.String("seat_class", seat.Class),
		attribute.Int("available", count),
	)

	subject, body := AlertMessage(target, journeyDate, count)
	sendErr := s.mailer.Send(ctx, mailer.Message{
		To:      []string{target.Receiver},
		Subject: subject,
		Text:    body,
	})

	errMessage := ""
	if sendErr != nil {
		errMessage = sendErr.Error()
		alertCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "error")))
		span.RecordError(sendErr)
		span.SetStatus(codes.Error, "failed to send alert")
		slog.ErrorContext(ctx, "send alert", "train", trainName, "receiver", target.Receiver, "err", sendErr)
	} else {
		alertCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "ok")))
		slog.InfoContext(ctx, "alert sent", "train", trainName, "available", count, "receiver", target.Receiver)
	}

	if s.qry == nil {
		return
	}
	_, err := s.qry.CreateAlert(ctx, db.CreateAlertParams{
		RunID:       runId,
		TrainName:   trainName,
		SeatClass:   seat.Class,
		Available:   int64(count),
		Receiver:    target.Receiver,
		JourneyDate: journeyDate,
		CreatedAt:   timezone.Now().Unix(),
		SendError:   errMessage,
	})
	if err != nil {
		span.RecordError(err)
		slog.ErrorContext(ctx, "record alert", "err", err)
	}
}

// Alerts lists the most recent alert attempts, newest first.
func (s Service) Alerts(ctx context.Context, limit int) ([]db.Alert, error) {
	ctx, span := tracer.Start(ctx, "Alerts")
	defer span.End()

	if s.qry == nil {
		return []db.Alert{}, nil
	}
	alerts, err := s.qry.ListAlerts(ctx, int64(limit))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if alerts == nil {
		alerts = []db.Alert{}
	}
	return alerts, nil
}
