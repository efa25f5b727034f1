package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bridgeskills/bridgeskills/internal/jobboard"
	"github.com/bridgeskills/bridgeskills/internal/profile"
	"github.com/bridgeskills/bridgeskills/internal/recommend"
	"github.com/bridgeskills/bridgeskills/internal/savedmatch"
	"github.com/bridgeskills/bridgeskills/internal/storage"
)

const testSecret = "test-secret"

type fakeRecommender struct {
	resp  recommend.Response
	err   error
	panic bool
	demo  bool
}

func (f *fakeRecommender) Recommend(_ context.Context, _ profile.ExtractedData) (recommend.Response, error) {
	if f.panic {
		panic("boom")
	}
	return f.resp, f.err
}

func (f *fakeRecommender) Demo(ctx context.Context, data profile.ExtractedData) (recommend.Response, error) {
	f.demo = true
	return f.Recommend(ctx, data)
}

type fakeJobs struct {
	got jobboard.Request
}

func (f *fakeJobs) Search(_ context.Context, req jobboard.Request) (jobboard.Result, error) {
	f.got = req
	return jobboard.Result{Jobs: []jobboard.Job{{Title: "Analyst"}}, Total: 1, Sources: []string{"fake"}}, nil
}

type fakeExtractor struct {
	err error
}

func (f fakeExtractor) Extract(_ context.Context, _ string) (profile.ExtractedData, error) {
	if f.err != nil {
		return profile.ExtractedData{}, f.err
	}
	return profile.ExtractedData{Skills: []string{"Leadership"}}, nil
}

func newTestServer(deps Deps) *Server {
	if deps.Recommender == nil {
		deps.Recommender = &fakeRecommender{}
	}
	return New(zap.NewNop(), Config{JWTSecret: testSecret}, deps)
}

func do(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func token(t *testing.T, secret, subject string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: subject, ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl))}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestHealthAndRequestID(t *testing.T) {
	s := newTestServer(Deps{})

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc")
	rec = do(t, s, req)
	assert.Equal(t, "abc", rec.Header().Get(requestIDHeader))
}

func TestVocabulary(t *testing.T) {
	rec := do(t, newTestServer(Deps{}), httptest.NewRequest(http.MethodGet, "/api/vocabulary", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Branches []string `json:"branches"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Branches, "Space Force")
}

func TestCareerMapping(t *testing.T) {
	fake := &fakeRecommender{resp: recommend.Response{
		Recommendations: []recommend.JobRecommendation{{ID: "job-1", Title: "Cybersecurity Analyst", MatchScore: 82}},
		MarketInsights:  recommend.EmptyInsights(),
		Timestamp:       time.Now(),
	}}
	s := newTestServer(Deps{Recommender: fake})

	rec := do(t, s, jsonRequest(t, http.MethodPost, "/api/career-mapping", profile.ExtractedData{Skills: []string{"Cybersecurity"}}))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp recommend.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Recommendations, 1)
	assert.Equal(t, 82, resp.Recommendations[0].MatchScore)
	assert.False(t, fake.demo)

	rec = do(t, s, jsonRequest(t, http.MethodPost, "/api/demo/job-mapping", profile.ExtractedData{}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, fake.demo)
}

func TestCareerMappingValidationError(t *testing.T) {
	fake := &fakeRecommender{err: &profile.ValidationError{Fields: []profile.FieldError{{Field: "skills", Message: "select at least one skill"}}}}
	rec := do(t, newTestServer(Deps{Recommender: fake}), jsonRequest(t, http.MethodPost, "/api/career-mapping", profile.ExtractedData{}))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	assertEnvelopeKeys(t, rec)

	var body recommend.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "skills", body.Fields[0].Field)
	assert.NotEmpty(t, body.Error)
	assert.Empty(t, body.Recommendations)
	assert.Equal(t, "Data not available", body.MarketInsights.IndustryGrowth)
}

func TestCareerMappingBadJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/career-mapping", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := do(t, newTestServer(Deps{}), req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assertEnvelopeKeys(t, rec)
}

func assertEnvelopeKeys(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	for _, key := range []string{"recommendations", "marketInsights", "timestamp", "error"} {
		assert.Contains(t, raw, key)
	}
	assert.JSONEq(t, "[]", string(raw["recommendations"]))
}

func assertFailureEnvelope(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp recommend.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
	assert.NotNil(t, resp.Recommendations)
	assert.Empty(t, resp.Recommendations)
	assert.Equal(t, "Data not available", resp.MarketInsights.IndustryGrowth)
}

func TestCareerMappingInternalError(t *testing.T) {
	fake := &fakeRecommender{err: errors.New("prompt leaked: secret")}
	rec := do(t, newTestServer(Deps{Recommender: fake}), jsonRequest(t, http.MethodPost, "/api/career-mapping", profile.ExtractedData{}))
	assertFailureEnvelope(t, rec)
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestCareerMappingPanicRecovered(t *testing.T) {
	fake := &fakeRecommender{panic: true}
	rec := do(t, newTestServer(Deps{Recommender: fake}), jsonRequest(t, http.MethodPost, "/api/career-mapping", profile.ExtractedData{}))
	assertFailureEnvelope(t, rec)
}

func multipartRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(resumeField, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/resume/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadResume(t *testing.T) {
	docs := storage.NewMemoryStore()
	s := newTestServer(Deps{Documents: docs})

	rec := do(t, s, multipartRequest(t, "resume.txt", []byte("Army 35F Intelligence Analyst")))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp uploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Army 35F Intelligence Analyst", resp.Data.Text)
	assert.Equal(t, "text/plain", resp.Data.Metadata.MIME)
	require.NotEmpty(t, resp.Data.Metadata.FilePath)

	stored, err := docs.Get(context.Background(), resp.Data.Metadata.FilePath)
	require.NoError(t, err)
	assert.Equal(t, "Army 35F Intelligence Analyst", string(stored))
}

func TestUploadResumeRejects(t *testing.T) {
	s := newTestServer(Deps{})

	rec := do(t, s, multipartRequest(t, "photo.png", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, multipartRequest(t, "empty.txt", []byte("   ")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/resume/upload", bytes.NewBufferString("nothing"))
	rec = do(t, s, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProcessResume(t *testing.T) {
	docs := storage.NewMemoryStore()
	text := "Served in the Army as 35F. Skilled in leadership and data analysis."
	require.NoError(t, docs.Put(context.Background(), "resumes/a.txt", []byte(text), "text/plain"))

	s := newTestServer(Deps{Documents: docs, Extractor: fakeExtractor{err: errors.New("oracle down")}})
	rec := do(t, s, jsonRequest(t, http.MethodPost, "/api/process-resume", processRequest{FilePath: "resumes/a.txt"}))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp processResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, text, resp.Data.ResumeText)
	assert.Equal(t, "Army", resp.Data.MilitaryInfo.Branch)
	assert.Contains(t, resp.Data.Skills, "Leadership")

	s = newTestServer(Deps{Documents: docs, Extractor: fakeExtractor{}})
	rec = do(t, s, jsonRequest(t, http.MethodPost, "/api/process-resume", processRequest{FilePath: "resumes/a.txt"}))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Leadership"}, resp.Data.Skills)

	rec = do(t, s, jsonRequest(t, http.MethodPost, "/api/process-resume", processRequest{FilePath: "resumes/missing.txt"}))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, newTestServer(Deps{}), jsonRequest(t, http.MethodPost, "/api/process-resume", processRequest{FilePath: "x"}))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSearchJobs(t *testing.T) {
	jobs := &fakeJobs{}
	s := newTestServer(Deps{Jobs: jobs})

	rec := do(t, s, jsonRequest(t, http.MethodPost, "/api/jobs/search", map[string]any{"role": map[string]any{"title": ""}}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, jsonRequest(t, http.MethodPost, "/api/jobs/search", map[string]any{
		"role":     map[string]any{"title": "Cybersecurity Analyst"},
		"location": "Remote",
	}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Remote", jobs.got.Location)

	var res jobboard.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 1, res.Total)
}

func TestSavedMatches(t *testing.T) {
	store := savedmatch.NewMemoryStore(nil)
	s := newTestServer(Deps{Saved: store})

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/api/saved-matches", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	bearer := "Bearer " + token(t, testSecret, "user-1", time.Hour)

	req := jsonRequest(t, http.MethodPost, "/api/saved-matches", recommend.JobRecommendation{Title: "Project Manager"})
	req.Header.Set("Authorization", bearer)
	rec = do(t, s, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var saved savedmatch.SavedMatch
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.Equal(t, "user-1", saved.UserID)

	req = httptest.NewRequest(http.MethodGet, "/api/saved-matches", nil)
	req.Header.Set("Authorization", bearer)
	rec = do(t, s, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Matches []savedmatch.SavedMatch `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Matches, 1)

	other := httptest.NewRequest(http.MethodDelete, "/api/saved-matches/"+saved.ID, nil)
	other.Header.Set("Authorization", "Bearer "+token(t, testSecret, "user-2", time.Hour))
	assert.Equal(t, http.StatusNotFound, do(t, s, other).Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/saved-matches/"+saved.ID, nil)
	req.Header.Set("Authorization", bearer)
	assert.Equal(t, http.StatusNoContent, do(t, s, req).Code)
}

func TestSavedMatchesRejectsBadTokens(t *testing.T) {
	s := newTestServer(Deps{Saved: savedmatch.NewMemoryStore(nil)})

	for name, tok := range map[string]string{
		"expired":      token(t, testSecret, "user-1", -time.Minute),
		"wrong secret": token(t, "other", "user-1", time.Hour),
		"no subject":   token(t, testSecret, "", time.Hour),
		"garbage":      "not-a-jwt",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/saved-matches", nil)
			req.Header.Set("Authorization", "Bearer "+tok)
			assert.Equal(t, http.StatusUnauthorized, do(t, s, req).Code)
		})
	}
}
