package jobboard

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/bridgeskills/bridgeskills/internal/logger"
)

const (
	DefaultBrowserTimeout = 60 * time.Second

	browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Renderer returns the HTML of a page after its scripts ran.
type Renderer interface {
	Render(ctx context.Context, pageURL string) (string, error)
}

// Chrome renders pages in a headless Chrome started per call.
type Chrome struct {
	Timeout time.Duration
}

func (c Chrome) Render(ctx context.Context, pageURL string) (string, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultBrowserTimeout
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.WindowSize(1920, 1080),
			chromedp.UserAgent(browserUserAgent),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", pageURL, err)
	}
	return html, nil
}

// selectors locate the parts of a job card on a board's result page.
type selectors struct {
	card     string
	title    string
	company  string
	location string
	link     string
}

// Board is a job board scraped through a Renderer.
type Board struct {
	name     string
	baseURL  string
	params   func(query, location string) url.Values
	sel      selectors
	renderer Renderer
	logger   *zap.Logger
	now      func() time.Time
}

func locationOrDefault(location string) string {
	if location = strings.TrimSpace(location); location != "" {
		return location
	}
	return defaultLocation
}

// NewLinkedIn builds the LinkedIn source limited to postings of the last week.
func NewLinkedIn(r Renderer, log *zap.Logger) *Board {
	return newBoard(SourceLinkedIn, "https://www.linkedin.com/jobs/search", r, log,
		func(query, location string) url.Values {
			return url.Values{
				"keywords": {query},
				"location": {locationOrDefault(location)},
				"f_TPR":    {"r604800"},
				"sortBy":   {"R"},
			}
		},
		selectors{
			card:     ".job-card-container",
			title:    ".job-card-list__title",
			company:  ".job-card-container__company-name",
			location: ".job-card-container__metadata-item",
			link:     "a.job-card-list__title",
		},
	)
}

// NewIndeed builds the Indeed source limited to postings of the last week.
func NewIndeed(r Renderer, log *zap.Logger) *Board {
	return newBoard(SourceIndeed, "https://www.indeed.com/jobs", r, log,
		func(query, location string) url.Values {
			return url.Values{
				"q":       {query},
				"l":       {locationOrDefault(location)},
				"fromage": {"7"},
				"sort":    {"date"},
			}
		},
		selectors{
			card:     ".job_seen_beacon",
			title:    ".jobTitle",
			company:  ".companyName",
			location: ".companyLocation",
			link:     "a.jcs-JobTitle",
		},
	)
}

func newBoard(name, baseURL string, r Renderer, log *zap.Logger, params func(string, string) url.Values, sel selectors) *Board {
	if r == nil {
		r = Chrome{}
	}
	return &Board{
		name:     name,
		baseURL:  baseURL,
		params:   params,
		sel:      sel,
		renderer: r,
		logger:   logger.ForSource(log, name),
		now:      time.Now,
	}
}

func (b *Board) Name() string { return b.name }

// SearchURL is the result page address for query.
func (b *Board) SearchURL(query, location string) string {
	return b.baseURL + "?" + b.params(query, location).Encode()
}

func (b *Board) Search(ctx context.Context, query, location string) ([]Job, error) {
	pageURL := b.SearchURL(query, location)
	html, err := b.renderer.Render(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	jobs, err := b.Parse(html, pageURL)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("scraped job board",
		zap.String("query", query),
		zap.Int("jobs", len(jobs)),
	)
	return jobs, nil
}

// Parse extracts the job cards of a rendered result page. Cards without a
// title, company or link are skipped; relative links resolve against base.
func (b *Board) Parse(html, base string) ([]Job, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse %s page: %w", b.name, err)
	}
	baseURL, _ := url.Parse(base)

	now := b.now()
	var jobs []Job
	doc.Find(b.sel.card).Each(func(i int, card *goquery.Selection) {
		title := strings.TrimSpace(card.Find(b.sel.title).First().Text())
		company := strings.TrimSpace(card.Find(b.sel.company).First().Text())
		href, ok := card.Find(b.sel.link).First().Attr("href")
		if title == "" || company == "" || !ok {
			return
		}
		if baseURL != nil {
			if ref, err := url.Parse(href); err == nil {
				href = baseURL.ResolveReference(ref).String()
			}
		}

		location := strings.TrimSpace(card.Find(b.sel.location).First().Text())
		if location == "" {
			location = unknownLocation
		}

		jobs = append(jobs, Job{
			ID:         fmt.Sprintf("%s-%d-%d", strings.ToLower(b.name), now.UnixMilli(), i),
			Title:      title,
			Company:    company,
			Location:   location,
			URL:        href,
			Source:     b.name,
			PostedDate: now,
			Skills:     []string{},
		})
	})
	return jobs, nil
}
