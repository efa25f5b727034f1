package extraction

import (
	"strings"

	"github.com/bridgeskills/bridgeskills/internal/profile"
)

// FromForm cleans structured form input: strings are trimmed, skills
// deduplicated, unknown military codes cleared and empty entries dropped.
func FromForm(in profile.ExtractedData) profile.ExtractedData {
	out := profile.Normalize(in)

	certs := out.Certifications[:0]
	for _, c := range out.Certifications {
		c.Name = strings.TrimSpace(c.Name)
		c.Issuer = strings.TrimSpace(c.Issuer)
		if c.Name == "" {
			continue
		}
		certs = append(certs, c)
	}
	out.Certifications = certs

	education := out.Education[:0]
	for _, e := range out.Education {
		e.Type = strings.TrimSpace(e.Type)
		e.Field = strings.TrimSpace(e.Field)
		e.Institution = strings.TrimSpace(e.Institution)
		if e.Type == "" && e.Field == "" && e.Institution == "" {
			continue
		}
		education = append(education, e)
	}
	out.Education = education

	out.ResumeText = strings.TrimSpace(out.ResumeText)
	return out
}
