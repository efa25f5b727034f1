// Package vocabulary holds the static military reference data shared by the
// extraction, scoring and recommendation packages.
package vocabulary

import (
	"strings"
)

const (
	BranchAirForce    = "Air Force"
	BranchArmy        = "Army"
	BranchNavy        = "Navy"
	BranchMarineCorps = "Marine Corps"
	BranchCoastGuard  = "Coast Guard"
	BranchSpaceForce  = "Space Force"
)

// Branches lists the canonical service branch names.
var Branches = []string{
	BranchAirForce,
	BranchArmy,
	BranchNavy,
	BranchMarineCorps,
	BranchCoastGuard,
	BranchSpaceForce,
}

var ServiceTypes = []string{
	"Active Duty",
	"Reserve",
	"National Guard",
	"Veteran",
}

// Ranks lists the supported pay grades, enlisted first.
var Ranks = []string{
	// Enlisted
	"E-1", "E-2", "E-3", "E-4", "E-5", "E-6", "E-7", "E-8", "E-9",
	// Officers
	"O-1", "O-2", "O-3", "O-4", "O-5", "O-6",
}

var rankDescriptions = map[string]string{
	"E-1": "Private/Airman Basic/Seaman Recruit",
	"E-2": "Private/Airman/Seaman Apprentice",
	"E-3": "Private First Class/Airman First Class/Seaman",
	"E-4": "Corporal-Specialist/Senior Airman/Petty Officer 3rd Class",
	"E-5": "Sergeant/Staff Sergeant/Petty Officer 2nd Class",
	"E-6": "Staff Sergeant/Technical Sergeant/Petty Officer 1st Class",
	"E-7": "Sergeant First Class/Master Sergeant/Chief Petty Officer",
	"E-8": "Master Sergeant-First Sergeant/Senior Master Sergeant/Senior Chief Petty Officer",
	"E-9": "Sergeant Major/Chief Master Sergeant/Master Chief Petty Officer",
	"O-1": "Second Lieutenant/Ensign",
	"O-2": "First Lieutenant/Lieutenant Junior Grade",
	"O-3": "Captain/Lieutenant",
	"O-4": "Major/Lieutenant Commander",
	"O-5": "Lieutenant Colonel/Commander",
	"O-6": "Colonel/Captain",
}

var MilitarySkills = []string{
	"Leadership",
	"Project Management",
	"Team Building",
	"Strategic Planning",
	"Risk Management",
	"Cybersecurity",
	"Network Security",
	"Intelligence Analysis",
	"Data Analysis",
	"System Administration",
	"Information Security",
	"Operations Management",
	"Training & Development",
	"Problem Solving",
	"Communication",
	"Technical Writing",
}

var TechnicalSkills = []string{
	"Python",
	"Go",
	"Java",
	"JavaScript",
	"SQL",
	"Linux",
	"Windows Server",
	"Active Directory",
	"Cisco IOS",
	"AWS",
	"Azure",
	"Splunk",
	"Wireshark",
	"Metasploit",
	"Nessus",
	"PowerShell",
	"Bash",
	"Kubernetes",
}

var Certifications = []string{
	"CompTIA Security+",
	"CompTIA Network+",
	"CompTIA A+",
	"CISSP",
	"CISM",
	"CEH",
	"OSCP",
	"PMP",
	"ITIL Foundation",
	"CCNA",
	"AWS Certified Solutions Architect",
	"GIAC GSEC",
}

var Proficiencies = []string{"Beginner", "Intermediate", "Advanced", "Expert"}

var DegreeTypes = []string{
	"High School",
	"Associate",
	"Bachelor",
	"Master",
	"Doctorate",
	"Certification",
	"Other",
}

// RankDescription returns the cross-branch title for a pay grade, or an empty
// string for unknown grades.
func RankDescription(rank string) string {
	return rankDescriptions[strings.ToUpper(strings.TrimSpace(rank))]
}

func IsRank(rank string) bool {
	_, ok := rankDescriptions[strings.ToUpper(strings.TrimSpace(rank))]
	return ok
}

// CanonicalBranch maps loose spellings ("air force", "Marines") to the
// canonical branch name.
func CanonicalBranch(branch string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(branch))
	if needle == "marines" {
		return BranchMarineCorps, true
	}
	for _, b := range Branches {
		if strings.ToLower(b) == needle {
			return b, true
		}
	}
	return "", false
}

// CanonicalSkill returns the vocabulary spelling of a military skill.
func CanonicalSkill(skill string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(skill))
	for _, s := range MilitarySkills {
		if strings.ToLower(s) == needle {
			return s, true
		}
	}
	return "", false
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if strings.EqualFold(candidate, strings.TrimSpace(v)) {
			return true
		}
	}
	return false
}

func IsServiceType(v string) bool { return contains(ServiceTypes, v) }

func IsDegreeType(v string) bool { return contains(DegreeTypes, v) }

func IsProficiency(v string) bool { return contains(Proficiencies, v) }
