// Package market attaches synthetic salary ranges to job titles. Figures are
// derived from fixed title tiers and multipliers, never fetched.
package market

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bridgeskills/bridgeskills/internal/cache"
)

const (
	DefaultTTL = 24 * time.Hour
	Currency   = "USD"

	anyLocation = "any"
)

type SalaryRange struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Median   int    `json:"median"`
	Currency string `json:"currency"`
}

type ExperienceRanges struct {
	Entry  SalaryRange `json:"entry"`
	Mid    SalaryRange `json:"mid"`
	Senior SalaryRange `json:"senior"`
}

type SalaryInsights struct {
	Range        SalaryRange            `json:"range"`
	ByExperience ExperienceRanges       `json:"byExperience"`
	ByLocation   map[string]SalaryRange `json:"byLocation"`
	ByIndustry   map[string]SalaryRange `json:"byIndustry"`
}

// Summary is the human readable range, e.g. "$70,000 - $120,000".
func (s SalaryInsights) Summary() string {
	return fmt.Sprintf("$%s - $%s", groupThousands(s.Range.Min), groupThousands(s.Range.Max))
}

type tier struct {
	keywords []string
	base     SalaryRange
}

// tiers are evaluated in order; the last one has no keywords and always matches.
var tiers = []tier{
	{keywords: []string{"senior", "lead", "manager"}, base: SalaryRange{Min: 120000, Max: 200000, Median: 160000, Currency: Currency}},
	{keywords: []string{"engineer", "developer"}, base: SalaryRange{Min: 90000, Max: 160000, Median: 125000, Currency: Currency}},
	{keywords: []string{"analyst", "specialist"}, base: SalaryRange{Min: 70000, Max: 120000, Median: 95000, Currency: Currency}},
	{base: SalaryRange{Min: 60000, Max: 100000, Median: 80000, Currency: Currency}},
}

type multiplier struct {
	name             string
	min, max, median float64
}

var locations = []multiplier{
	{name: "San Francisco", min: 1.4, max: 1.4, median: 1.4},
	{name: "New York", min: 1.3, max: 1.3, median: 1.3},
	{name: "Remote", min: 0.9, max: 0.9, median: 0.9},
}

var industries = []multiplier{
	{name: "Technology", min: 1.1, max: 1.2, median: 1.15},
	{name: "Finance", min: 1.2, max: 1.3, median: 1.25},
	{name: "Defense", min: 1.05, max: 1.15, median: 1.1},
}

// BaseRange classifies a title into its salary tier.
func BaseRange(title string) SalaryRange {
	t := strings.ToLower(title)
	for _, tr := range tiers {
		if len(tr.keywords) == 0 {
			return tr.base
		}
		for _, kw := range tr.keywords {
			if strings.Contains(t, kw) {
				return tr.base
			}
		}
	}
	return tiers[len(tiers)-1].base
}

// Insights computes the full salary breakdown for a title.
func Insights(title string) SalaryInsights {
	base := BaseRange(title)

	out := SalaryInsights{
		Range: base,
		ByExperience: ExperienceRanges{
			Entry:  scaled(base, base.Min, 0.7, base.Min, 1.2, base.Min, 0.95),
			Mid:    scaled(base, base.Median, 0.8, base.Median, 1.2, base.Median, 1),
			Senior: scaled(base, base.Max, 0.8, base.Max, 1.3, base.Max, 1.1),
		},
		ByLocation: make(map[string]SalaryRange, len(locations)),
		ByIndustry: make(map[string]SalaryRange, len(industries)),
	}
	for _, m := range locations {
		out.ByLocation[m.name] = m.apply(base)
	}
	for _, m := range industries {
		out.ByIndustry[m.name] = m.apply(base)
	}
	return out
}

func (m multiplier) apply(base SalaryRange) SalaryRange {
	return scaled(base, base.Min, m.min, base.Max, m.max, base.Median, m.median)
}

func scaled(base SalaryRange, lo int, loF float64, hi int, hiF float64, mid int, midF float64) SalaryRange {
	return SalaryRange{
		Min:      round(float64(lo) * loF),
		Max:      round(float64(hi) * hiF),
		Median:   round(float64(mid) * midF),
		Currency: base.Currency,
	}
}

func round(v float64) int {
	return int(math.Round(v))
}

func groupThousands(n int) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// Service serves salary insights through a (title, location) keyed cache.
type Service struct {
	cache *cache.TTL[SalaryInsights]
}

func NewService(c *cache.TTL[SalaryInsights]) *Service {
	if c == nil {
		c = cache.New[SalaryInsights](DefaultTTL)
	}
	return &Service{cache: c}
}

// Salary returns insights for title. An empty location is cached as "any".
func (s *Service) Salary(ctx context.Context, title, location string) SalaryInsights {
	if strings.TrimSpace(location) == "" {
		location = anyLocation
	}
	key := cache.Key(title, location)
	if v, ok := s.cache.Get(ctx, key); ok {
		return v
	}
	v := Insights(title)
	s.cache.Set(ctx, key, v)
	return v
}

// Cache exposes the underlying cache so callers can start its sweeper.
func (s *Service) Cache() *cache.TTL[SalaryInsights] {
	return s.cache
}
