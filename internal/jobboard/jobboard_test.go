package jobboard

import (
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bridgeskills/bridgeskills/internal/cache"
	"github.com/bridgeskills/bridgeskills/internal/profile"
)

func TestQueries(t *testing.T) {
	role := Role{
		Title:          "Cybersecurity Analyst",
		Keywords:       []string{"SOC", "SIEM", "ignored"},
		RequiredSkills: []string{"Incident Response", "Splunk", "Python", "Go"},
		Industries:     []string{"Defense", "", "defense"},
	}

	got := Queries(role)
	want := []string{
		"Cybersecurity Analyst",
		"Cybersecurity Analyst SOC SIEM",
		"Incident Response Cybersecurity Analyst",
		"Splunk Cybersecurity Analyst",
		"Python Cybersecurity Analyst",
		"Defense Cybersecurity Analyst",
	}
	assert.Equal(t, want, got)
	assert.Nil(t, Queries(Role{Title: "  "}))
}

func TestRelevance(t *testing.T) {
	role := Role{
		Title:          "Security Analyst",
		Keywords:       []string{"clearance"},
		Industries:     []string{"Defense"},
		RequiredSkills: []string{"Splunk", "Python"},
	}
	job := Job{
		Title:       "Senior Security Analyst",
		Company:     "Defense Systems Inc",
		Description: "Active clearance and Splunk required",
	}
	// title 5, keyword 2, industry 2, one skill 1
	assert.Equal(t, 10, Relevance(job, role))
	assert.Equal(t, 0, Relevance(Job{Title: "Baker"}, role))
}

func TestDedupe(t *testing.T) {
	jobs := []Job{
		{ID: "1", Title: "Analyst", Company: "Acme"},
		{ID: "2", Title: "analyst ", Company: "ACME"},
		{ID: "3", Title: "Analyst", Company: "Other"},
	}
	out := Dedupe(jobs)
	require.Len(t, out, 2)
	assert.Equal(t, "1", out[0].ID)
	assert.Equal(t, "3", out[1].ID)
}

func TestSkillPhrases(t *testing.T) {
	got := SkillPhrases("Candidates need experience with network defense. Knowledge of Linux! Must have the ability to lead")
	assert.Equal(t, []string{"network defense", "Linux", "lead"}, got)
	assert.Empty(t, SkillPhrases("Nothing relevant here."))
}

const usaJobsBody = `{"SearchResult":{"SearchResultCount":1,"SearchResultItems":[{"MatchedObjectDescriptor":{
  "PositionID":"CYB-1","PositionTitle":"IT Specialist (INFOSEC)","PositionURI":"https://www.usajobs.gov/job/1",
  "OrganizationName":"Department of the Air Force","PositionLocationDisplay":"San Antonio, Texas",
  "PublicationStartDate":"2024-05-01T00:00:00Z",
  "PositionRemuneration":[{"MinimumRange":"86962","MaximumRange":"113047","RateIntervalCode":"PA"}],
  "UserArea":{"Details":{"JobSummary":"Protect networks. Requires knowledge of intrusion detection."}}}}]}}`

func TestUSAJobsSearch(t *testing.T) {
	var gotQuery, gotKey, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("Authorization-Key")
		gotAgent = r.Header.Get("User-Agent")

		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = gz.Write([]byte(usaJobsBody))
		_ = gz.Close()
	}))
	defer srv.Close()

	client, err := NewUSAJobs(zap.NewNop(), "secret", "vet@example.com")
	require.NoError(t, err)
	client.APIURL = srv.URL

	jobs, err := client.Search(context.Background(), "cyber analyst", "Texas")
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	assert.Contains(t, gotQuery, "Keyword=cyber+analyst")
	assert.Contains(t, gotQuery, "LocationName=Texas")
	assert.Contains(t, gotQuery, "ResultsPerPage=25")
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "vet@example.com", gotAgent)

	job := jobs[0]
	assert.Equal(t, "CYB-1", job.ID)
	assert.Equal(t, "Department of the Air Force", job.Company)
	assert.Equal(t, "86962 - 113047 PA", job.Salary)
	assert.Equal(t, SourceUSAJobs, job.Source)
	assert.Equal(t, []string{"intrusion detection"}, job.Skills)
	assert.Equal(t, 2024, job.PostedDate.Year())
}

func TestUSAJobsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, err := NewUSAJobs(nil, "k", "e")
	require.NoError(t, err)
	client.APIURL = srv.URL

	_, err = client.Search(context.Background(), "x", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad status")
}

func TestNewUSAJobsRequiresCredentials(t *testing.T) {
	_, err := NewUSAJobs(nil, "", "e")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

type fakeRenderer struct {
	html string
	err  error
	urls []string
}

func (f *fakeRenderer) Render(_ context.Context, pageURL string) (string, error) {
	f.urls = append(f.urls, pageURL)
	return f.html, f.err
}

const indeedPage = `<html><body>
<div class="job_seen_beacon">
  <h2 class="jobTitle"><a class="jcs-JobTitle" href="/viewjob?jk=1">Cybersecurity Analyst</a></h2>
  <span class="companyName">Acme Defense</span>
  <div class="companyLocation">Arlington, VA</div>
</div>
<div class="job_seen_beacon">
  <h2 class="jobTitle"><a class="jcs-JobTitle" href="/viewjob?jk=2">SOC Analyst</a></h2>
  <span class="companyName">Blue Team LLC</span>
</div>
<div class="job_seen_beacon">
  <h2 class="jobTitle">Missing link</h2>
  <span class="companyName">Nowhere</span>
</div>
</body></html>`

func TestIndeedSearch(t *testing.T) {
	renderer := &fakeRenderer{html: indeedPage}
	board := NewIndeed(renderer, zap.NewNop())

	jobs, err := board.Search(context.Background(), "cyber analyst", "")
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	require.Len(t, renderer.urls, 1)
	assert.True(t, strings.HasPrefix(renderer.urls[0], "https://www.indeed.com/jobs?"))
	assert.Contains(t, renderer.urls[0], "l=United+States")
	assert.Contains(t, renderer.urls[0], "q=cyber+analyst")

	assert.Equal(t, "Cybersecurity Analyst", jobs[0].Title)
	assert.Equal(t, "Acme Defense", jobs[0].Company)
	assert.Equal(t, "Arlington, VA", jobs[0].Location)
	assert.Equal(t, "https://www.indeed.com/viewjob?jk=1", jobs[0].URL)
	assert.Equal(t, unknownLocation, jobs[1].Location)
	assert.NotEqual(t, jobs[0].ID, jobs[1].ID)
}

func TestLinkedInSearchURL(t *testing.T) {
	board := NewLinkedIn(&fakeRenderer{}, nil)
	u := board.SearchURL("project manager", "Denver")
	assert.Contains(t, u, "keywords=project+manager")
	assert.Contains(t, u, "location=Denver")
	assert.Contains(t, u, "f_TPR=r604800")
}

type fakeSource struct {
	name string
	jobs []Job
	err  error

	mu    sync.Mutex
	calls int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Search(_ context.Context, _, _ string) ([]Job, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.jobs, f.err
}

func TestServiceSearch(t *testing.T) {
	good := &fakeSource{name: "good", jobs: []Job{
		{Title: "Office Manager", Company: "A"},
		{Title: "Cybersecurity Analyst", Company: "B", Description: "Defense cybersecurity"},
	}}
	broken := &fakeSource{name: "broken", err: errors.New("selector changed")}

	svc := NewService(zap.NewNop(), nil, nil, Options{}, good, broken)
	req := Request{Role: Role{Title: "Cybersecurity Analyst", Industries: []string{"Defense"}}}

	res, err := svc.Search(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 2, res.Total)
	assert.Equal(t, "Cybersecurity Analyst", res.Jobs[0].Title)
	assert.Equal(t, 7, res.Jobs[0].Relevance)
	assert.Nil(t, res.Jobs[0].MatchScore)
	assert.Equal(t, []string{"good", "broken"}, res.Sources)

	// two queries per source: title and industry + title
	assert.Equal(t, 2, good.calls)

	_, err = svc.Search(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, good.calls, "second search should be served from cache")
}

func TestServiceSearchScoresProfile(t *testing.T) {
	src := &fakeSource{name: "src", jobs: []Job{{Title: "Cybersecurity Analyst", Company: "B", Description: "cybersecurity"}}}
	svc := NewService(zap.NewNop(), nil, nil, Options{}, src)

	data := profile.ExtractedData{
		MilitaryInfo: profile.MilitaryInfo{Branch: "Army", MOS: "17C"},
		Skills:       []string{"Cybersecurity"},
	}
	res, err := svc.Search(context.Background(), Request{Role: Role{Title: "Cybersecurity Analyst"}, Profile: &data})
	require.NoError(t, err)
	require.Len(t, res.Jobs, 1)
	require.NotNil(t, res.Jobs[0].MatchScore)
	// skill 1, no experience 0.4, role 1
	assert.Equal(t, 82, *res.Jobs[0].MatchScore)

	cached, ok := svc.Cache().Get(context.Background(), cache.Key("Cybersecurity Analyst", ""))
	require.True(t, ok)
	assert.Nil(t, cached[0].MatchScore, "cached postings must stay profile independent")
}

func TestServiceSearchAllSourcesFail(t *testing.T) {
	broken := &fakeSource{name: "broken", err: errors.New("down")}
	svc := NewService(zap.NewNop(), nil, nil, Options{}, broken)

	res, err := svc.Search(context.Background(), Request{Role: Role{Title: "Analyst"}})
	require.NoError(t, err)
	assert.Empty(t, res.Jobs)
	assert.NotNil(t, res.Jobs)
	assert.Equal(t, 0, svc.Cache().Len())
}

func TestServiceSearchLimit(t *testing.T) {
	var jobs []Job
	for i := 0; i < 15; i++ {
		jobs = append(jobs, Job{Title: "Analyst", Company: string(rune('A' + i))})
	}
	svc := NewService(zap.NewNop(), cache.New[[]Job](time.Minute), nil, Options{}, &fakeSource{name: "s", jobs: jobs})

	res, err := svc.Search(context.Background(), Request{Role: Role{Title: "Analyst"}})
	require.NoError(t, err)
	assert.Len(t, res.Jobs, DefaultLimit)
}
