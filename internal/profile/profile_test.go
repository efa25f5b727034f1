package profile

import (
	"errors"
	"testing"
)

func validManual() ExtractedData {
	return ExtractedData{
		MilitaryInfo: MilitaryInfo{Branch: "Army", Rank: "E-5", MOS: "35F"},
		Skills:       []string{"Intelligence Analysis"},
		TechnicalSkills: []TechnicalSkill{
			{Name: "Python", Proficiency: "Advanced", YearsOfExperience: 3},
		},
		Education: []Education{{Type: "Bachelor", Field: "History"}},
	}
}

func TestValidateAcceptsManualEntry(t *testing.T) {
	if err := Validate(validManual()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRequiresBranchAndSkills(t *testing.T) {
	data := ExtractedData{}

	err := Validate(data)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if len(verr.Fields) != 2 {
		t.Fatalf("expected 2 field errors, got %+v", verr.Fields)
	}
	if verr.Fields[0].Message != "please select your branch of service" {
		t.Fatalf("unexpected message: %q", verr.Fields[0].Message)
	}
	if verr.Fields[1].Message != "please select at least one skill" {
		t.Fatalf("unexpected message: %q", verr.Fields[1].Message)
	}
}

func TestValidateSkipsManualRulesForResume(t *testing.T) {
	if err := Validate(ExtractedData{ResumeText: "Sergeant, US Army"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsClosedVocabularyViolations(t *testing.T) {
	data := validManual()
	data.TechnicalSkills[0].Proficiency = "Guru"
	data.TechnicalSkills[0].YearsOfExperience = -1
	data.Education[0].Type = "Bootcamp"

	err := Validate(data)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Fields) != 3 {
		t.Fatalf("expected 3 field errors, got %+v", verr.Fields)
	}
}

func TestNormalizeClearsInvalidMOS(t *testing.T) {
	data := validManual()
	data.MilitaryInfo.Branch = "navy"

	got := Normalize(data)
	if got.MilitaryInfo.Branch != "Navy" {
		t.Fatalf("expected canonical branch, got %q", got.MilitaryInfo.Branch)
	}
	if got.MilitaryInfo.MOS != "" {
		t.Fatalf("expected army MOS to be cleared for navy, got %q", got.MilitaryInfo.MOS)
	}
	if data.MilitaryInfo.MOS != "35F" {
		t.Fatalf("input was mutated")
	}
}

func TestNormalizeDedupesSkills(t *testing.T) {
	data := ExtractedData{Skills: []string{"cybersecurity", "Cybersecurity ", "", "Drone Piloting"}}

	got := Normalize(data)
	if len(got.Skills) != 2 || got.Skills[0] != "Cybersecurity" || got.Skills[1] != "Drone Piloting" {
		t.Fatalf("unexpected skills: %v", got.Skills)
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	data := ExtractedData{
		Skills:     []string{"Leadership"},
		Experience: []Experience{{Title: "Squad Leader", Skills: []string{"Leadership"}}},
	}

	clone := data.Clone()
	clone.Skills[0] = "changed"
	clone.Experience[0].Skills[0] = "changed"

	if data.Skills[0] != "Leadership" || data.Experience[0].Skills[0] != "Leadership" {
		t.Fatalf("clone aliases the original")
	}
}
