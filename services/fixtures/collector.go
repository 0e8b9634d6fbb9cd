package fixtures

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gaafix-backend/lib/daterange"
	"gaafix-backend/lib/scrapers/listing"
	"gaafix-backend/lib/scrapers/sportlomo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/fixtures")

type CollectorOptions struct {
	Primary  *sportlomo.Client
	Fallback *listing.Client
	// days per upstream request window, defaults to 7
	BatchDays int
	// pause between batches, defaults to 500ms
	RequestDelay time.Duration
}

// Collector runs the whole pipeline: split the requested window into
// batches, try the ajax endpoint for each, fall back to scraping the
// public listing page when the endpoint is down, normalize whatever
// came back.
type Collector struct {
	primary   *sportlomo.Client
	fallback  *listing.Client
	batchDays int
	delay     time.Duration
}

func NewCollector(options CollectorOptions) *Collector {
	if options.BatchDays <= 0 {
		options.BatchDays = 7
	}
	if options.RequestDelay <= 0 {
		options.RequestDelay = 500 * time.Millisecond
	}
	return &Collector{
		primary:   options.Primary,
		fallback:  options.Fallback,
		batchDays: options.BatchDays,
		delay:     options.RequestDelay,
	}
}

// FetchFixtures collects one sport over [from, to]. An unknown sport or
// an invalid range fails the call outright, upstream trouble does not,
// it is recorded on the returned result instead.
func (c *Collector) FetchFixtures(ctx context.Context, sport Sport, from, to time.Time) (SportResult, error) {
	ctx, span := tracer.Start(ctx, "FetchFixtures")
	defer span.End()

	span.SetAttributes(attribute.String("sport", string(sport)))

	code, err := sport.codes()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return SportResult{}, err
	}

	batches, err := daterange.Split(from, to, c.batchDays)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return SportResult{}, err
	}

	result := SportResult{Sport: sport, Success: true}
	var failures []string

	for i, batch := range batches {
		fixtures, err := c.collectBatch(ctx, sport, code, batch)
		if err != nil {
			slog.ErrorContext(ctx, "batch failed on both sources",
				"sport", sport, "range", batch.String(), "err", err)
			failures = append(failures, fmt.Sprintf("%s: %s", batch, err))
			result.Success = false
		}
		result.Fixtures = append(result.Fixtures, fixtures...)

		if i < len(batches)-1 {
			time.Sleep(c.delay)
		}
	}

	result.Error = strings.Join(failures, "; ")
	span.SetAttributes(attribute.Int("fixtures", len(result.Fixtures)))
	return result, nil
}

// collectBatch tries the ajax endpoint first and only scrapes the
// listing page when the endpoint failed for the entire batch.
func (c *Collector) collectBatch(ctx context.Context, sport Sport, code sportCode, batch daterange.Range) ([]Fixture, error) {
	ctx, span := tracer.Start(ctx, "collectBatch")
	defer span.End()

	span.SetAttributes(attribute.String("range", batch.String()))

	matches, primaryErr := c.primary.FetchRange(ctx, code.userId, code.codeId, batch)
	if primaryErr == nil {
		var fixtures []Fixture
		for _, m := range matches {
			if f, ok := FromMatch(sport, m); ok {
				fixtures = append(fixtures, f)
			}
		}
		return fixtures, nil
	}

	slog.WarnContext(ctx, "ajax endpoint down, falling back to listing scrape",
		"sport", sport, "range", batch.String(), "err", primaryErr)
	span.RecordError(primaryErr)

	candidates, fallbackErr := c.fallback.FetchRange(ctx, batch)
	if fallbackErr != nil {
		span.RecordError(fallbackErr)
		span.SetStatus(codes.Error, fallbackErr.Error())
		return nil, fmt.Errorf("primary: %s, fallback: %w", primaryErr, fallbackErr)
	}

	var fixtures []Fixture
	for _, cand := range candidates {
		if f, ok := FromCandidate(sport, cand); ok {
			fixtures = append(fixtures, f)
		}
	}
	return fixtures, nil
}

// FetchAllSports collects every sport in the given list, or all of them
// when the list is empty. The run itself succeeding is independent of
// any one sport failing, inspect BySport for those.
func (c *Collector) FetchAllSports(ctx context.Context, from, to time.Time, sports []Sport) CollectionResult {
	ctx, span := tracer.Start(ctx, "FetchAllSports")
	defer span.End()

	if len(sports) == 0 {
		sports = AllSports()
	}

	result := CollectionResult{
		Success: true,
		Sports:  sports,
		BySport: make(map[Sport]SportResult, len(sports)),
		DateRange: fmt.Sprintf("%s to %s",
			from.Format(time.DateOnly), to.Format(time.DateOnly)),
	}

	for _, sport := range sports {
		sportResult, err := c.FetchFixtures(ctx, sport, from, to)
		if err != nil {
			sportResult = SportResult{Sport: sport, Error: err.Error()}
		}
		result.BySport[sport] = sportResult
		result.Fixtures = append(result.Fixtures, sportResult.Fixtures...)

		slog.InfoContext(ctx, "collected sport",
			"sport", sport, "success", sportResult.Success,
			"fixtures", len(sportResult.Fixtures))
	}

	result.TotalFixtures = len(result.Fixtures)
	span.SetAttributes(attribute.Int("total_fixtures", result.TotalFixtures))
	return result
}

// FetchDateRange collects the default sport over an arbitrary window
// with a caller-chosen batch size, zero meaning the collector's own.
func (c *Collector) FetchDateRange(ctx context.Context, from, to time.Time, batchDays int) ([]Fixture, error) {
	if batchDays <= 0 {
		batchDays = c.batchDays
	}
	sub := &Collector{
		primary:   c.primary,
		fallback:  c.fallback,
		batchDays: batchDays,
		delay:     c.delay,
	}
	result, err := sub.FetchFixtures(ctx, MaleFootball, from, to)
	if err != nil {
		return nil, err
	}
	return result.Fixtures, nil
}

// FetchTwoWeeks collects the fourteen days starting at start, the
// window the upstream site surfaces on its own fixtures page.
func (c *Collector) FetchTwoWeeks(ctx context.Context, start time.Time, sports []Sport) CollectionResult {
	return c.FetchAllSports(ctx, start, start.AddDate(0, 0, 13), sports)
}
