package vocabulary

import "testing"

func TestLookupCode(t *testing.T) {
	code, ok := LookupCode(" 17s_af ")
	if !ok {
		t.Fatalf("expected code to be found")
	}
	if code.Title != "Cyber Warfare Operations Officer" || code.Branch != BranchAirForce {
		t.Fatalf("unexpected code: %+v", code)
	}

	if _, ok := LookupCode("99Z"); ok {
		t.Fatalf("did not expect unknown code to be found")
	}
}

func TestValidCode(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		branch string
		expect bool
	}{
		{name: "matching branch", code: "35F", branch: "Army", expect: true},
		{name: "loose branch spelling", code: "0689", branch: "marines", expect: true},
		{name: "wrong branch", code: "35F", branch: "Navy", expect: false},
		{name: "no branch", code: "CTN", branch: "", expect: true},
		{name: "unknown code", code: "XYZ", branch: "Army", expect: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidCode(tt.code, tt.branch); got != tt.expect {
				t.Fatalf("ValidCode(%q, %q) = %v, want %v", tt.code, tt.branch, got, tt.expect)
			}
		})
	}
}

func TestCodesForBranch(t *testing.T) {
	codes := CodesForBranch("Space Force")
	if len(codes) != 3 {
		t.Fatalf("expected 3 space force codes, got %d", len(codes))
	}
	for _, c := range codes {
		if c.Branch != BranchSpaceForce {
			t.Fatalf("unexpected branch %q", c.Branch)
		}
	}

	if CodesForBranch("Starfleet") != nil {
		t.Fatalf("expected nil for unknown branch")
	}
}

func TestRankDescription(t *testing.T) {
	if got := RankDescription("o-3"); got != "Captain/Lieutenant" {
		t.Fatalf("unexpected description: %q", got)
	}
	if RankDescription("W-2") != "" {
		t.Fatalf("expected empty description for unknown rank")
	}
}

func TestCivilianEquivalentFor(t *testing.T) {
	eq := CivilianEquivalentFor("17C", []string{"Cybersecurity", " cybersecurity ", "", "Leadership"})

	if len(eq.Skills) != 2 || eq.Skills[0] != "Cybersecurity" || eq.Skills[1] != "Leadership" {
		t.Fatalf("unexpected skills: %v", eq.Skills)
	}
	if eq.Roles[0] != "Cybersecurity Analyst" {
		t.Fatalf("expected cyber roles, got %v", eq.Roles)
	}

	general := CivilianEquivalentFor("", nil)
	if len(general.Skills) != 0 {
		t.Fatalf("expected no skills, got %v", general.Skills)
	}
	if general.Roles[0] != "Project Manager" {
		t.Fatalf("expected general roles, got %v", general.Roles)
	}

	// mutating the result must not leak into the shared tables
	eq.Roles[0] = "changed"
	if CivilianEquivalentFor("17C", nil).Roles[0] != "Cybersecurity Analyst" {
		t.Fatalf("civilian table was mutated")
	}
}

func TestAllReturnsCopies(t *testing.T) {
	c := All()
	if len(c.Ranks) != len(Ranks) || c.Ranks[0].Grade != "E-1" || c.Ranks[0].Description == "" {
		t.Fatalf("unexpected ranks: %v", c.Ranks[:1])
	}
	c.Branches[0] = "changed"
	if Branches[0] != BranchAirForce {
		t.Fatalf("catalog aliases the branch table")
	}
}
