package railway

import (
	"bytes"
	"context"
	"fmt"
	"railwatch/lib/restyutil"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

// HttpFetcher downloads the search page without running any javascript, it
// is only useful for pages that are already rendered server side.
type HttpFetcher struct {
	client *resty.Client
}

func NewHttpFetcher() HttpFetcher {
	client := resty.New()
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetTimeout(time.Second * 30)

	// 2 requests max per second
	rateLimiter := rate.NewLimiter(2, 2)
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	restyutil.InstrumentClient(client, tracer, restyInstrumentOutput)

	return HttpFetcher{client: client}
}

func (f HttpFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "HttpFetcher:Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	res, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return nil, err
	}
	if res.IsError() {
		err := fmt.Errorf("fetch %s: unexpected status %s", url, res.Status())
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}
	return doc, nil
}
