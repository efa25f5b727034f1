// Package extraction turns form input or resume documents into the canonical
// profile.ExtractedData record.
package extraction

import (
	"regexp"
	"strings"

	"github.com/bridgeskills/bridgeskills/internal/profile"
	"github.com/bridgeskills/bridgeskills/internal/vocabulary"
)

// skillKeywords maps resume words onto vocabulary skills.
var skillKeywords = []struct {
	pattern *regexp.Regexp
	skill   string
}{
	{regexp.MustCompile(`(?i)\bleadership\b`), "Leadership"},
	{regexp.MustCompile(`(?i)\bmanagement\b`), "Project Management"},
	{regexp.MustCompile(`(?i)\bcyber\s?security\b`), "Cybersecurity"},
	{regexp.MustCompile(`(?i)\bintelligence\b`), "Intelligence Analysis"},
	{regexp.MustCompile(`(?i)\banalysis\b`), "Data Analysis"},
	{regexp.MustCompile(`(?i)\boperations\b`), "Operations Management"},
	{regexp.MustCompile(`(?i)\bsecurity\b`), "Information Security"},
	{regexp.MustCompile(`(?i)\bcommunication\b`), "Communication"},
	{regexp.MustCompile(`(?i)\b(strategy|planning)\b`), "Strategic Planning"},
}

var rankWords = []struct {
	pattern *regexp.Regexp
	grade   string
}{
	{regexp.MustCompile(`(?i)\bcorporal\b`), "E-4"},
	{regexp.MustCompile(`(?i)\bsergeant\b`), "E-5"},
	{regexp.MustCompile(`(?i)\blieutenant\b`), "O-1"},
	{regexp.MustCompile(`(?i)\bcaptain\b`), "O-3"},
	{regexp.MustCompile(`(?i)\bmajor\b`), "O-4"},
	{regexp.MustCompile(`(?i)\bcolonel\b`), "O-6"},
}

var (
	gradePattern      = regexp.MustCompile(`\b([EO])-?([1-9])\b`)
	mosPattern        = regexp.MustCompile(`\b\d{2}[A-Z]\b`)
	experiencePattern = regexp.MustCompile(`(?im)^(.*?(?:specialist|officer|manager|lead|chief|director|coordinator).{0,50}?)$`)
	educationPattern  = regexp.MustCompile(`(?i)(bachelor|master|phd|doctorate|associate|certificate|certification|degree)s?(?:'s)?(?:\s+of\s+(?:science|arts))?\s+(?:of|in)\s+([^.\n]+)`)
)

type branchPattern struct {
	pattern *regexp.Regexp
	branch  string
}

var branchPatterns = func() []branchPattern {
	names := append([]string{}, vocabulary.Branches...)
	names = append(names, "Marines")

	out := make([]branchPattern, 0, len(names))
	for _, n := range names {
		canonical, _ := vocabulary.CanonicalBranch(n)
		out = append(out, branchPattern{
			pattern: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(n) + `\b`),
			branch:  canonical,
		})
	}
	return out
}()

// FromText derives a best-effort record from free resume text with keyword
// heuristics. The text itself is kept as ResumeText.
func FromText(text string) profile.ExtractedData {
	data := profile.ExtractedData{
		MilitaryInfo: militaryInfo(text),
		Skills:       skills(text),
		Experience:   experience(text),
		Education:    education(text),
		ResumeText:   text,
	}
	return profile.Normalize(data)
}

func skills(text string) []string {
	var out []string
	for _, s := range vocabulary.MilitarySkills {
		if strings.Contains(strings.ToLower(text), strings.ToLower(s)) {
			out = append(out, s)
		}
	}
	for _, kw := range skillKeywords {
		if kw.pattern.MatchString(text) {
			out = append(out, kw.skill)
		}
	}
	return out
}

func militaryInfo(text string) profile.MilitaryInfo {
	var mi profile.MilitaryInfo

	for _, b := range branchPatterns {
		if b.pattern.MatchString(text) {
			mi.Branch = b.branch
			break
		}
	}

	if m := gradePattern.FindStringSubmatch(text); m != nil {
		mi.Rank = m[1] + "-" + m[2]
	} else {
		for _, r := range rankWords {
			if r.pattern.MatchString(text) {
				mi.Rank = r.grade
				break
			}
		}
	}

	mi.MOS = findCode(text, mi.Branch)

	for _, st := range vocabulary.ServiceTypes {
		if strings.Contains(strings.ToLower(text), strings.ToLower(st)) {
			mi.ServiceType = st
			break
		}
	}

	return mi
}

// findCode prefers a known code that fits the branch, then any code shaped
// like an Army MOS.
func findCode(text, branch string) string {
	for _, c := range vocabulary.Codes {
		if branch != "" && c.Branch != branch {
			continue
		}
		pattern := `\b` + regexp.QuoteMeta(c.Code) + `\b`
		if matched, _ := regexp.MatchString(pattern, text); matched {
			return c.Code
		}
	}
	return mosPattern.FindString(text)
}

func experience(text string) []profile.Experience {
	var out []profile.Experience
	seen := map[string]struct{}{}
	for _, m := range experiencePattern.FindAllStringSubmatch(text, -1) {
		title := strings.TrimSpace(m[1])
		if title == "" || len(title) > 120 {
			continue
		}
		if _, ok := seen[strings.ToLower(title)]; ok {
			continue
		}
		seen[strings.ToLower(title)] = struct{}{}
		out = append(out, profile.Experience{Title: title})
	}
	return out
}

func education(text string) []profile.Education {
	var out []profile.Education
	for _, m := range educationPattern.FindAllStringSubmatch(text, -1) {
		out = append(out, profile.Education{
			Type:  degreeType(m[1]),
			Field: strings.TrimSpace(m[2]),
		})
	}
	return out
}

func degreeType(word string) string {
	switch strings.ToLower(word) {
	case "bachelor":
		return "Bachelor"
	case "master":
		return "Master"
	case "phd", "doctorate":
		return "Doctorate"
	case "associate":
		return "Associate"
	case "certificate", "certification":
		return "Certification"
	default:
		return "Other"
	}
}
