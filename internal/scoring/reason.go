package scoring

import (
	"strings"

	"github.com/bridgeskills/bridgeskills/internal/vocabulary"
)

// Reason explains a match in one sentence from the overlap between the job
// description and the civilian equivalent.
func Reason(job JobText, civilian vocabulary.CivilianEquivalent) string {
	description := strings.ToLower(job.Description)

	var matched []string
	for _, skill := range civilian.Skills {
		if skill != "" && strings.Contains(description, strings.ToLower(skill)) {
			matched = append(matched, skill)
		}
	}

	var reasons []string
	if len(matched) > 0 {
		if len(matched) > 2 {
			matched = matched[:2]
		}
		reasons = append(reasons, "matches your civilian equivalent skills in "+strings.Join(matched, ", "))
	}
	for _, industry := range civilian.Industries {
		if industry != "" && strings.Contains(description, strings.ToLower(industry)) {
			reasons = append(reasons, "aligns with your target industries")
			break
		}
	}

	if len(reasons) == 0 {
		return "This role matches your civilian career profile"
	}
	return "This role " + strings.Join(reasons, " and ")
}
