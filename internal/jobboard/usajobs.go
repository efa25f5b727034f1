package jobboard

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bridgeskills/bridgeskills/internal/logger"
)

const (
	usaJobsURL      = "https://data.usajobs.gov/api/search"
	usaJobsHost     = "data.usajobs.gov"
	usaJobsPerPage  = "25"
	contentType     = "application/json"
	contentEncoding = "gzip"
)

var ErrMissingCredentials = errors.New("usajobs api key and email are required")

// USAJobs queries the federal job search API.
type USAJobs struct {
	apiKey     string
	email      string
	logger     *zap.Logger
	HTTPClient *http.Client
	APIURL     string
}

func NewUSAJobs(log *zap.Logger, apiKey, email string) (*USAJobs, error) {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(email) == "" {
		return nil, ErrMissingCredentials
	}
	return &USAJobs{
		apiKey: apiKey,
		email:  email,
		logger: logger.ForSource(log, SourceUSAJobs),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		APIURL: usaJobsURL,
	}, nil
}

func (c *USAJobs) Name() string { return SourceUSAJobs }

type usaJobsResponse struct {
	SearchResult struct {
		SearchResultCount int `json:"SearchResultCount"`
		Items             []struct {
			Descriptor usaJobsDescriptor `json:"MatchedObjectDescriptor"`
		} `json:"SearchResultItems"`
	} `json:"SearchResult"`
}

type usaJobsDescriptor struct {
	PositionID              string `json:"PositionID"`
	PositionTitle           string `json:"PositionTitle"`
	PositionURI             string `json:"PositionURI"`
	OrganizationName        string `json:"OrganizationName"`
	PositionLocationDisplay string `json:"PositionLocationDisplay"`
	PublicationStartDate    string `json:"PublicationStartDate"`
	PositionRemuneration    []struct {
		MinimumRange     string `json:"MinimumRange"`
		MaximumRange     string `json:"MaximumRange"`
		RateIntervalCode string `json:"RateIntervalCode"`
	} `json:"PositionRemuneration"`
	UserArea struct {
		Details struct {
			JobSummary string `json:"JobSummary"`
		} `json:"Details"`
	} `json:"UserArea"`
}

func (c *USAJobs) Search(ctx context.Context, query, location string) ([]Job, error) {
	q := url.Values{}
	q.Set("Keyword", query)
	q.Set("ResultsPerPage", usaJobsPerPage)
	if location = strings.TrimSpace(location); location != "" {
		q.Set("LocationName", location)
	}

	var response usaJobsResponse
	if err := c.getJSON(ctx, c.APIURL, q, &response); err != nil {
		return nil, fmt.Errorf("usajobs search %q: %w", query, err)
	}

	c.logger.Debug("got response from USAJobs",
		zap.String("query", query),
		zap.Int("found", response.SearchResult.SearchResultCount),
		zap.Int("items", len(response.SearchResult.Items)),
	)

	jobs := make([]Job, 0, len(response.SearchResult.Items))
	for _, item := range response.SearchResult.Items {
		jobs = append(jobs, item.Descriptor.toJob())
	}
	return jobs, nil
}

func (d usaJobsDescriptor) toJob() Job {
	job := Job{
		ID:          d.PositionID,
		Title:       strings.TrimSpace(d.PositionTitle),
		Company:     strings.TrimSpace(d.OrganizationName),
		Location:    d.PositionLocationDisplay,
		Description: d.UserArea.Details.JobSummary,
		URL:         d.PositionURI,
		Source:      SourceUSAJobs,
		Skills:      SkillPhrases(d.UserArea.Details.JobSummary),
	}
	if job.Location == "" {
		job.Location = unknownLocation
	}
	if len(d.PositionRemuneration) > 0 {
		r := d.PositionRemuneration[0]
		job.Salary = fmt.Sprintf("%s - %s %s", r.MinimumRange, r.MaximumRange, r.RateIntervalCode)
	}
	if posted, err := time.Parse(time.RFC3339, d.PublicationStartDate); err == nil {
		job.PostedDate = posted
	} else if posted, err := time.Parse("2006-01-02T15:04:05.0000", d.PublicationStartDate); err == nil {
		job.PostedDate = posted
	}
	return job
}

var (
	sentenceSplit = regexp.MustCompile(`[.!?]+`)
	skillLeads    = []string{"experience with", "knowledge of", "proficiency in", "skills in", "ability to"}
)

// SkillPhrases pulls the phrases following "experience with", "knowledge
// of" and similar leads out of a job summary.
func SkillPhrases(summary string) []string {
	out := []string{}
	seen := map[string]struct{}{}
	for _, sentence := range sentenceSplit.Split(summary, -1) {
		lower := strings.ToLower(sentence)
		for _, lead := range skillLeads {
			idx := strings.Index(lower, lead)
			if idx == -1 {
				continue
			}
			phrase := strings.TrimSpace(sentence[idx+len(lead):])
			if phrase == "" {
				continue
			}
			if _, ok := seen[phrase]; ok {
				continue
			}
			seen[phrase] = struct{}{}
			out = append(out, phrase)
		}
	}
	return out
}

func (c *USAJobs) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("Authorization-Key", c.apiKey)
	req.Header.Set("User-Agent", c.email)
	req.Header.Set("Accept-Encoding", contentEncoding)
	req.Host = usaJobsHost
	return req
}

func (c *USAJobs) getJSON(ctx context.Context, endpoint string, q url.Values, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	req = c.setHeaders(req)
	req.Header.Set("Content-Type", contentType)
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	if target == nil {
		return nil
	}
	return json.Unmarshal(data, target)
}
