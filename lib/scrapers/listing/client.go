package listing

import (
	"bytes"
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"time"

	"gaafix-backend/lib/daterange"
	"gaafix-backend/lib/restyutil"
	"gaafix-backend/lib/scraper"
	"gaafix-backend/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/listing")

// Client scrapes the public fixtures listing page. It exists for the
// days the AJAX endpoint is down or refusing us: the listing markup is
// unknown and changes, so extraction goes through the strategy
// cascade instead of fixed selectors.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
	// page to scrape, relative to BaseUrl
	FixturesPath string
}

type ClientOptions struct {
	BaseUrl string
	// defaults to /fixtures/
	FixturesPath string
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
	client.SetHeader("user-agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/listing/http")
	if opts.CaptureDir != "" {
		restyutil.InstrumentClient(client, restyutil.NewFilesystemOutput(opts.CaptureDir))
	}

	fixturesPath := opts.FixturesPath
	if fixturesPath == "" {
		fixturesPath = "/fixtures/"
	}

	return &Client{
		BaseUrl:      baseUrl,
		Http:         client,
		FixturesPath: fixturesPath,
	}, nil
}

// FetchRange scrapes the listing page and extracts every fixture
// falling inside the window (plus any whose date refuses to parse).
func (c *Client) FetchRange(ctx context.Context, r daterange.Range) ([]Candidate, error) {
	ctx, span := tracer.Start(ctx, "client:FetchRange")
	defer span.End()

	span.SetAttributes(attribute.String("range", r.String()))

	res, err := c.Http.R().
		SetContext(ctx).
		Get(c.FixturesPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "listing page request failed")
		return nil, fmt.Errorf("%w: %s", scraper.ErrUnreachable, err)
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "listing page request rejected")
		return nil, fmt.Errorf("%w: status %d", scraper.ErrUnreachable, res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "listing page did not parse as html")
		return nil, fmt.Errorf("%w: %s", scraper.ErrUnparseable, err)
	}

	candidates, err := Extract(ctx, doc, r)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction cascade exhausted")
		return nil, err
	}

	span.SetAttributes(attribute.Int("fixtures", len(candidates)))
	return candidates, nil
}
