package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bridgeskills/bridgeskills/internal/ai"
	"github.com/bridgeskills/bridgeskills/internal/cache"
	"github.com/bridgeskills/bridgeskills/internal/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubGenerator struct {
	respond func(prompt string) (string, error)
	prompts []string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.respond(prompt)
}

func (s *stubGenerator) Model() string {
	return "stub-model"
}

func fixed(response string, err error) *stubGenerator {
	return &stubGenerator{respond: func(string) (string, error) { return response, err }}
}

const twoRecommendations = "```json\n" + `{"recommendations": [
  {"title": "Cybersecurity Analyst", "matchPercentages": {"skillMatch": 90, "experienceMatch": "80", "mosMatch": 95, "technicalMatch": 70, "overallMatch": "88%"},
   "reasonForMatch": "Cyber operations background", "requiredSkills": ["SIEM", "Incident Response"], "suggestedIndustries": ["Defense"]},
  {"title": "Project Manager", "matchPercentages": {"overallMatch": 72}}
]}` + "\n```"

func TestRecommendManualEntry(t *testing.T) {
	stub := fixed(twoRecommendations, nil)
	rec := NewRecommender(stub, zap.NewNop(), Options{})

	data := profile.ExtractedData{
		MilitaryInfo: profile.MilitaryInfo{Branch: "Army", MOS: "17C"},
		Skills:       []string{"Cybersecurity", "Leadership"},
	}
	out := rec.Recommend(context.Background(), data)

	if out.Unavailable || out.Parse != ai.ParseStructured {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if len(out.Recommendations) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(out.Recommendations))
	}

	first := out.Recommendations[0]
	if first.MatchPercentages.OverallMatch != 88 || first.MatchPercentages.ExperienceMatch != 80 {
		t.Fatalf("expected string percentages to be coerced, got %+v", first.MatchPercentages)
	}
	if len(first.RequiredSkills) != 2 || first.SuggestedIndustries[0] != "Defense" {
		t.Fatalf("unexpected lists %+v", first)
	}
	if out.Recommendations[1].RequiredSkills == nil {
		t.Fatalf("missing lists should decode as empty, not nil")
	}

	prompt := stub.prompts[0]
	if !strings.Contains(prompt, "Military Info: Not specified - Army - 17C") {
		t.Fatalf("expected military info line in prompt, got: %s", prompt)
	}
	if !strings.Contains(prompt, "Skills: Cybersecurity, Leadership") {
		t.Fatalf("expected skills in prompt")
	}
	if !strings.Contains(prompt, "Experience:\nNone provided") {
		t.Fatalf("expected empty experience placeholder")
	}
	if !strings.Contains(prompt, "Provide up to 5 recommendations") {
		t.Fatalf("expected default limit in prompt")
	}
}

func TestRecommendShortResumeUsesResumeTemplate(t *testing.T) {
	stub := fixed(`[{"title": "Operations Manager"}]`, nil)
	rec := NewRecommender(stub, zap.NewNop(), Options{Limit: 3})

	data := profile.ExtractedData{
		Skills:     []string{"Leadership"},
		ResumeText: "Company commander, 120 soldiers",
	}
	out := rec.Recommend(context.Background(), data)

	if len(out.Recommendations) != 1 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	prompt := stub.prompts[0]
	if !strings.Contains(prompt, "Resume Text:\nCompany commander, 120 soldiers") {
		t.Fatalf("expected resume text in prompt, got: %s", prompt)
	}
	if strings.Contains(prompt, "Skills: Leadership") {
		t.Fatalf("structured fields must be ignored when resume text is present")
	}
}

func TestRecommendTransportErrorIsUnavailable(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	rec := NewRecommender(fixed("", errors.New("503 service unavailable")), zap.New(core), Options{})

	out := rec.Recommend(context.Background(), profile.ExtractedData{Skills: []string{"Leadership"}})

	if !out.Unavailable || !errors.Is(out.Err, ai.ErrUnavailable) {
		t.Fatalf("expected unavailable outcome, got %+v", out)
	}
	if logs.Len() != 1 {
		t.Fatalf("expected a warning, got %d entries", logs.Len())
	}
	fields := logs.All()[0].ContextMap()
	if fields["ai_provider"] != "gemini" || fields["ai_model"] != "stub-model" {
		t.Fatalf("expected provider fields on oracle logs, got %v", fields)
	}
}

func TestRecommendUnparsableIsAvailableAndEmpty(t *testing.T) {
	rec := NewRecommender(fixed("I am unable to help with that request.", nil), zap.NewNop(), Options{})

	out := rec.Recommend(context.Background(), profile.ExtractedData{Skills: []string{"Leadership"}})

	if out.Unavailable {
		t.Fatalf("an unparsable answer is not an unavailable oracle")
	}
	if out.Parse != ai.ParseFailed || len(out.Recommendations) != 0 {
		t.Fatalf("unexpected outcome %+v", out)
	}
}

func TestRecommendLongResumeIsExtractedInChunks(t *testing.T) {
	resume := strings.Repeat("Served as 17C in the Army. ", 40)
	calls := 0
	stub := &stubGenerator{respond: func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "part 1 of"):
			calls++
			return `{"militaryInfo": {"branch": "Army", "mos": "17C"}, "skills": ["Cybersecurity"]}`, nil
		case strings.Contains(prompt, "part 2 of"):
			calls++
			return "", errors.New("quota exceeded")
		case strings.Contains(prompt, "Resume Part:"):
			calls++
			return `{"skills": ["Leadership", "cybersecurity"], "technicalSkills": [{"name": "Splunk", "proficiency": "Advanced", "yearsOfExperience": "3"}]}`, nil
		default:
			return `[{"title": "SOC Analyst"}]`, nil
		}
	}}

	rec := NewRecommender(stub, zap.NewNop(), Options{ChunkSize: 300, ChunkDelay: -1})
	out := rec.Recommend(context.Background(), profile.ExtractedData{ResumeText: resume})

	if out.Unavailable || len(out.Recommendations) != 1 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if calls < 3 {
		t.Fatalf("expected every chunk to be processed, got %d calls", calls)
	}

	final := stub.prompts[len(stub.prompts)-1]
	if !strings.Contains(final, "Military Info: Not specified - Army - 17C") {
		t.Fatalf("expected merged military info in final prompt, got: %s", final)
	}
	if !strings.Contains(final, "Skills: Cybersecurity, Leadership") {
		t.Fatalf("expected merged skills in final prompt, got: %s", final)
	}
	if !strings.Contains(final, "Splunk (Advanced, 3 years)") {
		t.Fatalf("expected weakly typed technical skill in final prompt")
	}
}

func TestRecommendAllChunksFailed(t *testing.T) {
	stub := fixed("", errors.New("quota exceeded"))
	rec := NewRecommender(stub, zap.NewNop(), Options{ChunkSize: 50, ChunkDelay: -1})

	out := rec.Recommend(context.Background(), profile.ExtractedData{ResumeText: strings.Repeat("word ", 40)})

	if !out.Unavailable || !errors.Is(out.Err, ai.ErrAllChunksFailed) {
		t.Fatalf("expected unavailable outcome caused by chunk failures, got %+v", out)
	}
}

func chunkedResumeStub() *stubGenerator {
	return &stubGenerator{respond: func(prompt string) (string, error) {
		if strings.Contains(prompt, "Resume Part:") {
			return `{"militaryInfo": {"branch": "Army", "mos": "17C"}, "skills": ["Cybersecurity"]}`, nil
		}
		return `[{"title": "SOC Analyst"}]`, nil
	}}
}

func countExtractPrompts(prompts []string) int {
	n := 0
	for _, p := range prompts {
		if strings.Contains(p, "Resume Part:") {
			n++
		}
	}
	return n
}

func TestRecommendLongResumeIgnoresFormFields(t *testing.T) {
	stub := chunkedResumeStub()
	rec := NewRecommender(stub, zap.NewNop(), Options{ChunkSize: 300, ChunkDelay: -1})

	data := profile.ExtractedData{
		MilitaryInfo: profile.MilitaryInfo{Branch: "Navy", MOS: "IT"},
		Skills:       []string{"Basket Weaving"},
		ResumeText:   strings.Repeat("Served as 17C in the Army. ", 40),
	}
	out := rec.Recommend(context.Background(), data)
	if out.Unavailable {
		t.Fatalf("unexpected outcome %+v", out)
	}

	final := stub.prompts[len(stub.prompts)-1]
	if !strings.Contains(final, "Military Info: Not specified - Army - 17C") {
		t.Fatalf("expected military info from the resume, got: %s", final)
	}
	if !strings.Contains(final, "Skills: Cybersecurity") {
		t.Fatalf("expected skills from the resume, got: %s", final)
	}
	for _, leaked := range []string{"Navy", "Basket Weaving"} {
		if strings.Contains(final, leaked) {
			t.Fatalf("form field %q leaked into the prompt: %s", leaked, final)
		}
	}
}

func TestExtractionIsRememberedAcrossRecommend(t *testing.T) {
	stub := chunkedResumeStub()
	opts := Options{
		ChunkSize:   300,
		ChunkDelay:  -1,
		Extractions: cache.New[profile.ExtractedData](time.Hour),
	}
	extractor := NewExtractor(stub, zap.NewNop(), opts)
	rec := NewRecommender(stub, zap.NewNop(), opts)

	resume := strings.Repeat("Served as 17C in the Army. ", 40)
	extracted, err := extractor.Extract(context.Background(), resume)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if extracted.MilitaryInfo.MOS != "17C" {
		t.Fatalf("unexpected extraction %+v", extracted)
	}
	chunks := countExtractPrompts(stub.prompts)
	if chunks == 0 {
		t.Fatalf("expected chunk prompts")
	}

	out := rec.Recommend(context.Background(), profile.ExtractedData{ResumeText: resume})
	if out.Unavailable || len(out.Recommendations) != 1 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if got := countExtractPrompts(stub.prompts); got != chunks {
		t.Fatalf("resume was extracted again: %d chunk prompts, want %d", got, chunks)
	}
}

func TestExtractorDefaultsToChunkDelay(t *testing.T) {
	e := NewExtractor(fixed("", nil), nil, Options{})
	if e.delay != DefaultChunkDelay {
		t.Fatalf("delay = %v, want %v", e.delay, DefaultChunkDelay)
	}
	if e := NewExtractor(fixed("", nil), nil, Options{ChunkDelay: -1}); e.delay != 0 {
		t.Fatalf("negative delay should disable pacing, got %v", e.delay)
	}
}
