package vocabulary

import "strings"

// Category groups occupational codes by their civilian career family.
type Category string

const (
	CategoryCyber        Category = "Cyber"
	CategoryIntelligence Category = "Intelligence"
	CategoryTechnical    Category = "Technical"
)

// Code is an occupational classification (MOS, AFSC, rating) tied to a branch.
type Code struct {
	Code     string   `json:"code"`
	Title    string   `json:"title"`
	Branch   string   `json:"branch"`
	Category Category `json:"category"`
}

// Codes lists the supported cyber, intelligence and technical specialties.
var Codes = []Code{
	{Code: "17S_AF", Title: "Cyber Warfare Operations Officer", Branch: BranchAirForce, Category: CategoryCyber},
	{Code: "1B4", Title: "Cyber Warfare Operations", Branch: BranchAirForce, Category: CategoryCyber},
	{Code: "3D0", Title: "Cyberspace Operations", Branch: BranchAirForce, Category: CategoryCyber},
	{Code: "14N", Title: "Intelligence Officer", Branch: BranchAirForce, Category: CategoryIntelligence},
	{Code: "1N0", Title: "All Source Intelligence Analyst", Branch: BranchAirForce, Category: CategoryIntelligence},
	{Code: "1N4", Title: "Fusion Analyst", Branch: BranchAirForce, Category: CategoryIntelligence},

	{Code: "17A", Title: "Cyber Operations Officer", Branch: BranchArmy, Category: CategoryCyber},
	{Code: "17C", Title: "Cyber Operations Specialist", Branch: BranchArmy, Category: CategoryCyber},
	{Code: "25B", Title: "Information Technology Specialist", Branch: BranchArmy, Category: CategoryTechnical},
	{Code: "35F", Title: "Intelligence Analyst", Branch: BranchArmy, Category: CategoryIntelligence},
	{Code: "35D", Title: "All Source Intelligence Officer", Branch: BranchArmy, Category: CategoryIntelligence},
	{Code: "35N", Title: "Signals Intelligence Analyst", Branch: BranchArmy, Category: CategoryIntelligence},
	{Code: "255A", Title: "Information Services Technician", Branch: BranchArmy, Category: CategoryTechnical},

	{Code: "1810", Title: "Cryptologic Warfare Officer", Branch: BranchNavy, Category: CategoryCyber},
	{Code: "CTN", Title: "Cryptologic Technician Networks", Branch: BranchNavy, Category: CategoryCyber},
	{Code: "IT", Title: "Information Systems Technician", Branch: BranchNavy, Category: CategoryTechnical},
	{Code: "IS", Title: "Intelligence Specialist", Branch: BranchNavy, Category: CategoryIntelligence},
	{Code: "1830", Title: "Intelligence Officer", Branch: BranchNavy, Category: CategoryIntelligence},

	{Code: "0650", Title: "Cyberspace Operations Officer", Branch: BranchMarineCorps, Category: CategoryCyber},
	{Code: "0651", Title: "Cyber Network Operator", Branch: BranchMarineCorps, Category: CategoryCyber},
	{Code: "0211", Title: "Counterintelligence/Human Intelligence Specialist", Branch: BranchMarineCorps, Category: CategoryIntelligence},
	{Code: "0231", Title: "Intelligence Specialist", Branch: BranchMarineCorps, Category: CategoryIntelligence},
	{Code: "0202", Title: "Intelligence Officer", Branch: BranchMarineCorps, Category: CategoryIntelligence},
	{Code: "0671", Title: "Data Systems Administrator", Branch: BranchMarineCorps, Category: CategoryTechnical},
	{Code: "0689", Title: "Cybersecurity Technician", Branch: BranchMarineCorps, Category: CategoryCyber},

	{Code: "17S_SF", Title: "Cyber Warfare Operations Officer", Branch: BranchSpaceForce, Category: CategoryCyber},
	{Code: "5C0", Title: "Cyber Operations Specialist", Branch: BranchSpaceForce, Category: CategoryCyber},
	{Code: "5I0", Title: "Intelligence Officer", Branch: BranchSpaceForce, Category: CategoryIntelligence},
}

// LookupCode finds a code case-insensitively.
func LookupCode(code string) (Code, bool) {
	needle := strings.TrimSpace(code)
	for _, c := range Codes {
		if strings.EqualFold(c.Code, needle) {
			return c, true
		}
	}
	return Code{}, false
}

// CodesForBranch returns the codes of a branch, accepting loose spellings. It
// returns nil for an unknown branch.
func CodesForBranch(branch string) []Code {
	canonical, ok := CanonicalBranch(branch)
	if !ok {
		return nil
	}
	var out []Code
	for _, c := range Codes {
		if c.Branch == canonical {
			out = append(out, c)
		}
	}
	return out
}

// ValidCode reports whether code exists for branch. An empty branch accepts any
// known code.
func ValidCode(code, branch string) bool {
	c, ok := LookupCode(code)
	if !ok {
		return false
	}
	if strings.TrimSpace(branch) == "" {
		return true
	}
	canonical, ok := CanonicalBranch(branch)
	return ok && canonical == c.Branch
}
