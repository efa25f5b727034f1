// Package profile defines the canonical candidate record produced by the
// extraction adapter and consumed by the recommendation pipeline.
package profile

type MilitaryInfo struct {
	ServiceType string `json:"serviceType,omitempty" mapstructure:"serviceType" validate:"omitempty,servicetype"`
	Rank        string `json:"rank,omitempty" mapstructure:"rank" validate:"omitempty,rank"`
	Branch      string `json:"branch,omitempty" mapstructure:"branch" validate:"omitempty,branch"`
	MOS         string `json:"mos,omitempty" mapstructure:"mos"`
}

func (m MilitaryInfo) IsZero() bool {
	return m.ServiceType == "" && m.Rank == "" && m.Branch == "" && m.MOS == ""
}

type TechnicalSkill struct {
	Name              string  `json:"name" mapstructure:"name" validate:"required"`
	Proficiency       string  `json:"proficiency" mapstructure:"proficiency" validate:"required,proficiency"`
	YearsOfExperience float64 `json:"yearsOfExperience" mapstructure:"yearsOfExperience" validate:"gte=0"`
}

type Certification struct {
	Name           string `json:"name" mapstructure:"name" validate:"required"`
	Issuer         string `json:"issuer" mapstructure:"issuer"`
	DateObtained   string `json:"dateObtained" mapstructure:"dateObtained"`
	ExpirationDate string `json:"expirationDate,omitempty" mapstructure:"expirationDate"`
	IsActive       bool   `json:"isActive" mapstructure:"isActive"`
}

// Experience is one position. An empty EndDate means the position is current.
type Experience struct {
	Title        string   `json:"title" mapstructure:"title"`
	Organization string   `json:"organization" mapstructure:"organization"`
	StartDate    string   `json:"startDate" mapstructure:"startDate"`
	EndDate      string   `json:"endDate,omitempty" mapstructure:"endDate"`
	Description  string   `json:"description" mapstructure:"description"`
	Skills       []string `json:"skills" mapstructure:"skills"`
}

type Education struct {
	Type           string `json:"type" mapstructure:"type" validate:"required,degree"`
	Field          string `json:"field" mapstructure:"field"`
	Institution    string `json:"institution" mapstructure:"institution"`
	GraduationDate string `json:"graduationDate" mapstructure:"graduationDate"`
}

// ExtractedData is the canonical background of a candidate. When ResumeText is
// set it is the only input used to build the recommendation prompt.
type ExtractedData struct {
	MilitaryInfo    MilitaryInfo     `json:"militaryInfo" mapstructure:"militaryInfo"`
	Skills          []string         `json:"skills" mapstructure:"skills"`
	TechnicalSkills []TechnicalSkill `json:"technicalSkills" mapstructure:"technicalSkills" validate:"dive"`
	Certifications  []Certification  `json:"certifications" mapstructure:"certifications" validate:"dive"`
	Experience      []Experience     `json:"experience" mapstructure:"experience"`
	Education       []Education      `json:"education" mapstructure:"education" validate:"dive"`
	ResumeText      string           `json:"resumeText,omitempty" mapstructure:"resumeText"`
}

// Clone returns a deep copy so downstream stages never alias caller-owned slices.
func (d ExtractedData) Clone() ExtractedData {
	out := d
	out.Skills = append([]string(nil), d.Skills...)
	out.TechnicalSkills = append([]TechnicalSkill(nil), d.TechnicalSkills...)
	out.Certifications = append([]Certification(nil), d.Certifications...)
	out.Education = append([]Education(nil), d.Education...)
	out.Experience = make([]Experience, len(d.Experience))
	for i, e := range d.Experience {
		e.Skills = append([]string(nil), e.Skills...)
		out.Experience[i] = e
	}
	if d.Experience == nil {
		out.Experience = nil
	}
	return out
}

// HasResume reports whether the record came from a document upload.
func (d ExtractedData) HasResume() bool {
	return len(d.ResumeText) > 0
}
