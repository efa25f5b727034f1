package gemini

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/bridgeskills/bridgeskills/internal/profile"
)

var (
	//go:embed prompts/system.md
	systemInstruction string
	//go:embed prompts/focus.md
	focusTemplate string
	//go:embed prompts/resume.md
	resumeTemplate string
	//go:embed prompts/manual.md
	manualTemplate string
	//go:embed prompts/extract.md
	extractTemplate string
)

const (
	notSpecified = "Not specified"
	noneProvided = "None provided"
)

// SystemInstruction is the persona sent with every recommendation request.
func SystemInstruction() string {
	return strings.TrimSpace(systemInstruction)
}

func focus(limit int) string {
	return strings.ReplaceAll(focusTemplate, "{{LIMIT}}", strconv.Itoa(limit))
}

// buildResumePrompt uses the raw resume as the only candidate input.
func buildResumePrompt(resumeText string, limit int) string {
	prompt := strings.ReplaceAll(resumeTemplate, "{{RESUME_TEXT}}", strings.TrimSpace(resumeText))
	return strings.ReplaceAll(prompt, "{{FOCUS}}", focus(limit))
}

func buildManualPrompt(data profile.ExtractedData, limit int) string {
	mi := data.MilitaryInfo
	r := strings.NewReplacer(
		"{{RANK}}", orDefault(mi.Rank, notSpecified),
		"{{BRANCH}}", orDefault(mi.Branch, notSpecified),
		"{{MOS}}", orDefault(mi.MOS, notSpecified),
		"{{SKILLS}}", orDefault(strings.Join(data.Skills, ", "), noneProvided),
		"{{EXPERIENCE}}", orDefault(experienceLines(data.Experience), noneProvided),
		"{{EDUCATION}}", orDefault(educationLines(data.Education), noneProvided),
		"{{TECHNICAL_SKILLS}}", orDefault(technicalSkills(data.TechnicalSkills), noneProvided),
		"{{CERTIFICATIONS}}", orDefault(certifications(data.Certifications), noneProvided),
		"{{FOCUS}}", focus(limit),
	)
	return r.Replace(manualTemplate)
}

func buildExtractPrompt(chunk string, part, total int) string {
	r := strings.NewReplacer(
		"{{PART}}", strconv.Itoa(part),
		"{{TOTAL}}", strconv.Itoa(total),
		"{{RESUME_TEXT}}", strings.TrimSpace(chunk),
	)
	return r.Replace(extractTemplate)
}

func experienceLines(exp []profile.Experience) string {
	lines := make([]string, 0, len(exp))
	for _, e := range exp {
		end := orDefault(e.EndDate, "Present")
		lines = append(lines, fmt.Sprintf("%s at %s (%s to %s): %s", e.Title, e.Organization, e.StartDate, end, e.Description))
	}
	return strings.Join(lines, "\n")
}

func educationLines(edu []profile.Education) string {
	lines := make([]string, 0, len(edu))
	for _, e := range edu {
		lines = append(lines, fmt.Sprintf("%s in %s from %s (%s)", e.Type, e.Field, e.Institution, e.GraduationDate))
	}
	return strings.Join(lines, "\n")
}

func technicalSkills(skills []profile.TechnicalSkill) string {
	parts := make([]string, 0, len(skills))
	for _, s := range skills {
		parts = append(parts, fmt.Sprintf("%s (%s, %s years)", s.Name, s.Proficiency, strconv.FormatFloat(s.YearsOfExperience, 'f', -1, 64)))
	}
	return strings.Join(parts, ", ")
}

func certifications(certs []profile.Certification) string {
	parts := make([]string, 0, len(certs))
	for _, c := range certs {
		status := "Inactive"
		if c.IsActive {
			status = "Active"
		}
		parts = append(parts, fmt.Sprintf("%s from %s (%s)", c.Name, c.Issuer, status))
	}
	return strings.Join(parts, ", ")
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
