package profile

import (
	"strings"

	"github.com/bridgeskills/bridgeskills/internal/vocabulary"
)

// Normalize returns a cleaned copy of d: fields are trimmed, skills are
// deduplicated with vocabulary spelling, and military fields that do not exist
// in the reference tables are cleared rather than rejected.
func Normalize(d ExtractedData) ExtractedData {
	out := d.Clone()

	mi := &out.MilitaryInfo
	mi.ServiceType = strings.TrimSpace(mi.ServiceType)
	if mi.ServiceType != "" && !vocabulary.IsServiceType(mi.ServiceType) {
		mi.ServiceType = ""
	}

	mi.Rank = strings.ToUpper(strings.TrimSpace(mi.Rank))
	if mi.Rank != "" && !vocabulary.IsRank(mi.Rank) {
		mi.Rank = ""
	}

	if branch, ok := vocabulary.CanonicalBranch(mi.Branch); ok {
		mi.Branch = branch
	} else {
		mi.Branch = ""
	}

	mi.MOS = strings.TrimSpace(mi.MOS)
	if mi.MOS != "" {
		if code, ok := vocabulary.LookupCode(mi.MOS); ok && vocabulary.ValidCode(mi.MOS, mi.Branch) {
			mi.MOS = code.Code
		} else {
			mi.MOS = ""
		}
	}

	out.Skills = dedupeSkills(out.Skills)

	experience := out.Experience[:0]
	for _, e := range out.Experience {
		e.Title = strings.TrimSpace(e.Title)
		e.Organization = strings.TrimSpace(e.Organization)
		e.StartDate = strings.TrimSpace(e.StartDate)
		e.EndDate = strings.TrimSpace(e.EndDate)
		if e.Title == "" && e.Organization == "" && e.Description == "" {
			continue
		}
		experience = append(experience, e)
	}
	out.Experience = experience

	technical := out.TechnicalSkills[:0]
	for _, s := range out.TechnicalSkills {
		s.Name = strings.TrimSpace(s.Name)
		if s.Name == "" {
			continue
		}
		if s.YearsOfExperience < 0 {
			s.YearsOfExperience = 0
		}
		technical = append(technical, s)
	}
	out.TechnicalSkills = technical

	return out
}

func dedupeSkills(skills []string) []string {
	if len(skills) == 0 {
		return skills
	}

	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if canonical, ok := vocabulary.CanonicalSkill(s); ok {
			s = canonical
		}
		key := strings.ToLower(s)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
