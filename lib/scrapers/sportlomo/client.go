package sportlomo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"time"

	"gaafix-backend/lib/daterange"
	"gaafix-backend/lib/restyutil"
	"gaafix-backend/lib/scraper"
	"gaafix-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/sportlomo")

const ajaxPath = "/wp-admin/admin-ajax.php"

// Client talks to the SportLoMo wordpress AJAX endpoint. The endpoint
// only answers reliably for single-day windows, so every fetch walks a
// range one day at a time.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
	// discovered opportunistically from the landing page, empty is fine
	Nonce string
	// pause after every request, the upstream blocks aggressive clients
	Delay time.Duration
}

type ClientOptions struct {
	BaseUrl string
	Delay   time.Duration
	// directory raw exchanges get mirrored to, empty disables capture
	CaptureDir string
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetHeader("x-requested-with", "XMLHttpRequest")
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/sportlomo/http")
	if opts.CaptureDir != "" {
		restyutil.InstrumentClient(client, restyutil.NewFilesystemOutput(opts.CaptureDir))
	}

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
		Delay:   opts.Delay,
	}, nil
}

var nonceRegexes = []*regexp.Regexp{
	regexp.MustCompile(`wpAjaxNonce["']?\s*:\s*["']([^"']+)["']`),
	regexp.MustCompile(`nonce["']?\s*:\s*["']([^"']+)["']`),
	regexp.MustCompile(`_wpnonce["']?\s*:\s*["']([^"']+)["']`),
}

// DiscoverNonce scans a public page for a wordpress ajax nonce and
// remembers it for subsequent requests. Not finding one is normal, the
// fixtures action mostly works without it.
func (c *Client) DiscoverNonce(ctx context.Context, pagePath string) {
	ctx, span := tracer.Start(ctx, "client:DiscoverNonce")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(pagePath)
	if err != nil || res.IsError() {
		slog.DebugContext(ctx, "nonce discovery failed, continuing without one", "err", err)
		return
	}

	body := res.String()
	for _, re := range nonceRegexes {
		groups := re.FindStringSubmatch(body)
		if len(groups) >= 2 {
			c.Nonce = groups[1]
			span.SetAttributes(attribute.Bool("nonce_found", true))
			return
		}
	}
}

// FetchDay requests fixtures for a single sport identifier pair and a
// single calendar date.
func (c *Client) FetchDay(ctx context.Context, userId, codeId string, date time.Time) ([]Match, error) {
	ctx, span := tracer.Start(ctx, "client:FetchDay")
	defer span.End()

	dateStr := date.Format(time.DateOnly)
	span.SetAttributes(
		attribute.String("date", dateStr),
		attribute.String("user_id", userId),
		attribute.String("code_id", codeId),
	)

	form := map[string]string{
		"action":     "get_fixtures",
		"fdate":      dateStr,
		"tdate":      dateStr,
		"user_id":    userId,
		"code_id":    codeId,
		"age_id":     "",
		"spage_id":   "1",
		"is_fixture": "1",
	}
	if c.Nonce != "" {
		form["_wpnonce"] = c.Nonce
	}

	res, err := c.Http.R().
		SetContext(ctx).
		SetFormData(form).
		Post(ajaxPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fixtures request failed")
		return nil, fmt.Errorf("%w: %s", scraper.ErrUnreachable, err)
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "fixtures request rejected")
		return nil, fmt.Errorf("%w: status %d", scraper.ErrUnreachable, res.StatusCode())
	}

	fragment := extractFragment(res.Body())
	if strings.Contains(fragment, "not_found") {
		// explicit empty day, not an error
		return nil, nil
	}

	matches, err := ParseFragment(fragment)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fragment did not parse")
		return nil, fmt.Errorf("%w: %s", scraper.ErrUnparseable, err)
	}

	for i := range matches {
		matches[i].ScrapedDate = dateStr
	}
	return matches, nil
}

// FetchRange walks [r.Start, r.End] a day at a time. A failed day is
// logged and contributes zero matches, the remaining days still run.
// Only every single day failing counts as the adapter failing, that is
// the signal for callers to fall back to the listing scrape.
func (c *Client) FetchRange(ctx context.Context, userId, codeId string, r daterange.Range) ([]Match, error) {
	ctx, span := tracer.Start(ctx, "client:FetchRange")
	defer span.End()

	span.SetAttributes(attribute.String("range", r.String()))

	var all []Match
	var lastErr error
	failedDays := 0

	days := r.Days()
	for _, day := range days {
		matches, err := c.FetchDay(ctx, userId, codeId, day)
		if err != nil {
			slog.ErrorContext(ctx, "skipping day after failed fetch",
				"date", day.Format(time.DateOnly), "err", err)
			failedDays++
			lastErr = err
		}
		all = append(all, matches...)

		if c.Delay > 0 {
			time.Sleep(c.Delay)
		}
	}

	if failedDays == len(days) && lastErr != nil {
		span.SetStatus(codes.Error, "every day in range failed")
		return nil, fmt.Errorf("all %d days failed, last error: %w", failedDays, lastErr)
	}

	span.SetAttributes(attribute.Int("matches", len(all)))
	return all, nil
}

// the endpoint answers with json {"html": "<fragment>"} on good days
// and a bare html fragment on others
func extractFragment(body []byte) string {
	var payload struct {
		Html string `json:"html"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Html != "" {
		return payload.Html
	}
	return string(body)
}
