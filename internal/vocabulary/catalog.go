package vocabulary

// Catalog is the reference data served to clients building the military
// background form.
type Catalog struct {
	Branches        []string `json:"branches"`
	ServiceTypes    []string `json:"serviceTypes"`
	Ranks           []Rank   `json:"ranks"`
	Codes           []Code   `json:"codes"`
	MilitarySkills  []string `json:"militarySkills"`
	TechnicalSkills []string `json:"technicalSkills"`
	Certifications  []string `json:"certifications"`
	Proficiencies   []string `json:"proficiencies"`
	DegreeTypes     []string `json:"degreeTypes"`
}

type Rank struct {
	Grade       string `json:"grade"`
	Description string `json:"description"`
}

// All returns a copy of every reference table.
func All() Catalog {
	ranks := make([]Rank, 0, len(Ranks))
	for _, r := range Ranks {
		ranks = append(ranks, Rank{Grade: r, Description: RankDescription(r)})
	}
	return Catalog{
		Branches:        clone(Branches),
		ServiceTypes:    clone(ServiceTypes),
		Ranks:           ranks,
		Codes:           append([]Code(nil), Codes...),
		MilitarySkills:  clone(MilitarySkills),
		TechnicalSkills: clone(TechnicalSkills),
		Certifications:  clone(Certifications),
		Proficiencies:   clone(Proficiencies),
		DegreeTypes:     clone(DegreeTypes),
	}
}

func clone(values []string) []string {
	return append([]string(nil), values...)
}
