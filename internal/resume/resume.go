// Package resume is the structured résumé data model consumed by the scorers.
// Documents arrive as JSON or YAML and are defaulted on decode so that no
// field is ever missing.
package resume

import (
	"strings"

	"github.com/spigell/cv-scorer/internal/normalize"
)

// DefaultText replaces identity and free-text fields that were not supplied.
const DefaultText = "Unknown"

type Document struct {
	Name                   string          `json:"name"`
	Location               string          `json:"location"`
	Social                 []string        `json:"social"`
	Email                  string          `json:"email"`
	LinkedIn               string          `json:"linkedin,omitempty"`
	Phone                  string          `json:"phone"`
	Intro                  string          `json:"intro"`
	Education              []Education     `json:"education"`
	ProfessionalExperience []Experience    `json:"professional_experience"`
	Projects               []Project       `json:"projects"`
	Awards                 []Award         `json:"awards"`
	Certifications         []Certification `json:"certifications"`
	Skills                 []Skill         `json:"skills"`
}

type Education struct {
	School    string `json:"school"`
	ClassYear string `json:"class_year"`
	Major     string `json:"major"`
	Minor     string `json:"minor,omitempty"`
	// GPA keeps the value as supplied; GPAOnFourScale interprets it.
	GPA string `json:"gpa,omitempty"`
	// GPAScale is "4", "10" or empty to infer from the value.
	GPAScale string `json:"gpa_scale,omitempty"`
}

// GPAOnFourScale returns the GPA converted to the 4-point scale, or false when
// it is missing, unparsable or outside its scale.
func (e Education) GPAOnFourScale() (float64, bool) {
	return normalize.GPAOnFourScale(e.GPA, e.GPAScale)
}

type Experience struct {
	Company     string `json:"company"`
	Location    string `json:"location"`
	Position    string `json:"position"`
	Seniority   string `json:"seniority"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

type Project struct {
	Name        string `json:"name"`
	Link        string `json:"link,omitempty"`
	Tech        string `json:"tech,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description"`
}

type Award struct {
	Contest     string `json:"contest"`
	Prize       string `json:"prize"`
	Description string `json:"description"`
	Role        string `json:"role,omitempty"`
	Link        string `json:"link,omitempty"`
	Time        string `json:"time"`
}

type Certification struct {
	Name string `json:"name"`
	Link string `json:"link,omitempty"`
	Org  string `json:"org,omitempty"`
}

type Skill struct {
	Name string   `json:"name"`
	List []string `json:"list"`
}

// Known reports whether s carries information, i.e. is neither blank nor the
// DefaultText placeholder.
func Known(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && !strings.EqualFold(s, DefaultText)
}

// ApplyDefaults fills required text with DefaultText, replaces nil lists with
// empty ones and trims every string. Optional fields stay empty.
func (d *Document) ApplyDefaults() {
	d.Name = orDefault(d.Name)
	d.Location = orDefault(d.Location)
	d.Email = orDefault(d.Email)
	d.Phone = orDefault(d.Phone)
	d.Intro = orDefault(d.Intro)
	d.LinkedIn = strings.TrimSpace(d.LinkedIn)
	d.Social = trimAll(d.Social)

	if d.Education == nil {
		d.Education = []Education{}
	}
	for i := range d.Education {
		e := &d.Education[i]
		e.School = orDefault(e.School)
		e.ClassYear = orDefault(e.ClassYear)
		e.Major = orDefault(e.Major)
		e.Minor = strings.TrimSpace(e.Minor)
		e.GPA = strings.TrimSpace(e.GPA)
		e.GPAScale = strings.TrimSpace(e.GPAScale)
	}

	if d.ProfessionalExperience == nil {
		d.ProfessionalExperience = []Experience{}
	}
	for i := range d.ProfessionalExperience {
		e := &d.ProfessionalExperience[i]
		e.Company = orDefault(e.Company)
		e.Location = orDefault(e.Location)
		e.Position = orDefault(e.Position)
		e.Seniority = orDefault(e.Seniority)
		e.Duration = orDefault(e.Duration)
		e.Description = orDefault(e.Description)
	}

	if d.Projects == nil {
		d.Projects = []Project{}
	}
	for i := range d.Projects {
		p := &d.Projects[i]
		p.Name = orDefault(p.Name)
		p.Link = strings.TrimSpace(p.Link)
		p.Tech = strings.TrimSpace(p.Tech)
		p.Duration = strings.TrimSpace(p.Duration)
		p.Description = orDefault(p.Description)
	}

	if d.Awards == nil {
		d.Awards = []Award{}
	}
	for i := range d.Awards {
		a := &d.Awards[i]
		a.Contest = orDefault(a.Contest)
		a.Prize = orDefault(a.Prize)
		a.Description = orDefault(a.Description)
		a.Role = strings.TrimSpace(a.Role)
		a.Link = strings.TrimSpace(a.Link)
		a.Time = orDefault(a.Time)
	}

	if d.Certifications == nil {
		d.Certifications = []Certification{}
	}
	for i := range d.Certifications {
		c := &d.Certifications[i]
		c.Name = orDefault(c.Name)
		c.Link = strings.TrimSpace(c.Link)
		c.Org = strings.TrimSpace(c.Org)
	}

	if d.Skills == nil {
		d.Skills = []Skill{}
	}
	for i := range d.Skills {
		s := &d.Skills[i]
		s.Name = orDefault(s.Name)
		s.List = trimAll(s.List)
	}
}

func orDefault(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultText
	}
	return s
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
