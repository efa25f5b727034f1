package scoring

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/bridgeskills/bridgeskills/internal/profile"
)

const hoursPerYear = 24 * 365

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01",
	"01/02/2006",
	"01/2006",
	"Jan 2006",
	"January 2006",
	"2006",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// TotalYears sums the elapsed time of every entry with a parseable start date.
// Entries without an end date run until now; negative spans count as zero.
func TotalYears(experience []profile.Experience, now time.Time) float64 {
	total := 0.0
	for _, e := range experience {
		start, ok := parseDate(e.StartDate)
		if !ok {
			continue
		}
		end := now
		if e.EndDate != "" && !strings.EqualFold(strings.TrimSpace(e.EndDate), "present") {
			parsed, ok := parseDate(e.EndDate)
			if !ok {
				continue
			}
			end = parsed
		}
		if years := end.Sub(start).Hours() / hoursPerYear; years > 0 {
			total += years
		}
	}
	return total
}

// ExperienceMatch maps total years of experience onto fixed tiers.
func ExperienceMatch(experience []profile.Experience, now time.Time) float64 {
	return experienceTier(TotalYears(experience, now))
}

func experienceTier(years float64) float64 {
	switch {
	case years >= 5:
		return 1
	case years >= 3:
		return 0.8
	case years >= 1:
		return 0.6
	default:
		return 0.4
	}
}

var durationYears = regexp.MustCompile(`(?i)(\d+)\s*years?`)

// YearsFromDuration reads a leading year count from free text such as
// "3 years". Unparsable strings count as zero.
func YearsFromDuration(duration string) int {
	m := durationYears.FindStringSubmatch(duration)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// DurationExperienceMatch scores free-text durations with the same tiers as
// ExperienceMatch.
func DurationExperienceMatch(durations []string) float64 {
	total := 0
	for _, d := range durations {
		total += YearsFromDuration(d)
	}
	return experienceTier(float64(total))
}
