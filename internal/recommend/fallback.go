package recommend

import "github.com/bridgeskills/bridgeskills/internal/ai"

// Fallback is the static set served when the oracle is unavailable. Its
// scores are placeholders; the Match Scorer replaces them.
func Fallback() []ai.RawRecommendation {
	return []ai.RawRecommendation{
		{
			Title:                     "Project Manager",
			ReasonForMatch:            "Military leadership and operations management experience translates directly to planning, coordinating and delivering projects.",
			RequiredSkills:            []string{"Leadership", "Project Management", "Strategic Planning", "Risk Management", "Communication"},
			SuggestedIndustries:       []string{"Business Operations", "Consulting", "Government"},
			RecommendedCertifications: []string{"PMP", "CAPM"},
			CareerProgression:         "Project Manager -> Senior Project Manager -> Program Manager -> Director of Operations",
		},
		{
			Title:                     "Technical Program Manager",
			ReasonForMatch:            "Coordinating technical teams and mission systems maps to running cross-functional technology programs.",
			RequiredSkills:            []string{"Project Management", "System Administration", "Team Building", "Strategic Planning"},
			SuggestedIndustries:       []string{"Technology", "Defense", "Telecommunications"},
			RecommendedCertifications: []string{"PMP", "ITIL Foundation"},
			CareerProgression:         "Technical Program Manager -> Senior Technical Program Manager -> Director of Engineering Programs",
		},
		{
			Title:                     "Cybersecurity Analyst",
			ReasonForMatch:            "Security clearance and experience protecting networks and information support monitoring and incident response work.",
			RequiredSkills:            []string{"Cybersecurity", "Network Security", "Information Security", "Risk Management"},
			SuggestedIndustries:       []string{"Cybersecurity", "Defense", "Finance"},
			RecommendedCertifications: []string{"CompTIA Security+", "CISSP"},
			CareerProgression:         "Cybersecurity Analyst -> Senior Security Analyst -> Security Engineer -> Security Manager",
		},
	}
}
