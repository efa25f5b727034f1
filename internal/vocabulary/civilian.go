package vocabulary

import "strings"

// CivilianEquivalent is the set of civilian roles, skills and industries that
// stand in for a military background.
type CivilianEquivalent struct {
	Roles      []string `json:"roles"`
	Skills     []string `json:"skills"`
	Industries []string `json:"industries"`
	Keywords   []string `json:"keywords"`
}

var civilianByCategory = map[Category]CivilianEquivalent{
	CategoryCyber: {
		Roles:      []string{"Cybersecurity Analyst", "Security Engineer", "Penetration Tester", "SOC Analyst", "Network Security Engineer"},
		Industries: []string{"Cybersecurity", "Defense", "Technology", "Finance"},
		Keywords:   []string{"cyber", "security", "network", "incident response", "threat"},
	},
	CategoryIntelligence: {
		Roles:      []string{"Intelligence Analyst", "Threat Intelligence Analyst", "Data Analyst", "Risk Analyst"},
		Industries: []string{"Defense", "Government", "Consulting", "Finance"},
		Keywords:   []string{"intelligence", "analysis", "threat", "reporting"},
	},
	CategoryTechnical: {
		Roles:      []string{"Systems Administrator", "IT Specialist", "Network Administrator", "Cloud Engineer"},
		Industries: []string{"Technology", "Telecommunications", "Healthcare"},
		Keywords:   []string{"systems", "network", "infrastructure", "administration"},
	},
}

var generalCivilian = CivilianEquivalent{
	Roles:      []string{"Project Manager", "Operations Manager", "Program Manager"},
	Industries: []string{"Business Operations", "Consulting", "Government"},
	Keywords:   []string{"leadership", "operations", "management"},
}

// CivilianEquivalentFor derives the civilian analogue of a background. Roles,
// industries and keywords come from the code's category; skills are the
// candidate's own skills, deduplicated case-insensitively.
func CivilianEquivalentFor(mos string, skills []string) CivilianEquivalent {
	base := generalCivilian
	if code, ok := LookupCode(mos); ok {
		if eq, ok := civilianByCategory[code.Category]; ok {
			base = eq
		}
	}

	out := CivilianEquivalent{
		Roles:      append([]string(nil), base.Roles...),
		Industries: append([]string(nil), base.Industries...),
		Keywords:   append([]string(nil), base.Keywords...),
	}

	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out.Skills = append(out.Skills, s)
	}

	return out
}
