// Package rules holds the scoring rule set: category weights, the sub-field
// allotments inside each category and the verdict thresholds. A RuleSet is
// loaded and validated once, then shared read-only.
package rules

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// ErrInvalidRules marks a rule set that must not be used for scoring.
var ErrInvalidRules = errors.New("invalid scoring rules")

var validate = validator.New()

const (
	// ConfigKey is the viper key holding rule overrides.
	ConfigKey   = "scoring"
	weightTotal = 100.0
	epsilon     = 1e-9
)

// Category names one scored section of a résumé.
type Category string

const (
	Education      Category = "education"
	Experience     Category = "experience"
	Projects       Category = "projects"
	Awards         Category = "awards"
	Certifications Category = "certifications"
)

// Categories lists every category in report order.
func Categories() []Category {
	return []Category{Education, Experience, Projects, Awards, Certifications}
}

type Weights struct {
	Education      float64 `mapstructure:"education" json:"education" validate:"gte=0,lte=100"`
	Experience     float64 `mapstructure:"experience" json:"experience" validate:"gte=0,lte=100"`
	Projects       float64 `mapstructure:"projects" json:"projects" validate:"gte=0,lte=100"`
	Awards         float64 `mapstructure:"awards" json:"awards" validate:"gte=0,lte=100"`
	Certifications float64 `mapstructure:"certifications" json:"certifications" validate:"gte=0,lte=100"`
}

// Of returns the weight of c, or false for an unknown category.
func (w Weights) Of(c Category) (float64, bool) {
	switch c {
	case Education:
		return w.Education, true
	case Experience:
		return w.Experience, true
	case Projects:
		return w.Projects, true
	case Awards:
		return w.Awards, true
	case Certifications:
		return w.Certifications, true
	}
	return 0, false
}

func (w Weights) sum() float64 {
	return w.Education + w.Experience + w.Projects + w.Awards + w.Certifications
}

type Thresholds struct {
	Pass     float64 `mapstructure:"pass" json:"pass" validate:"gte=0,lte=100,gtefield=Consider"`
	Consider float64 `mapstructure:"consider" json:"consider" validate:"gte=0,lte=100"`
}

type EducationRules struct {
	School           float64            `mapstructure:"school" json:"school" validate:"gte=0"`
	ClassYear        float64            `mapstructure:"class-year" json:"class_year" validate:"gte=0"`
	Major            float64            `mapstructure:"major" json:"major" validate:"gte=0"`
	Minor            float64            `mapstructure:"minor" json:"minor" validate:"gte=0"`
	GPA              float64            `mapstructure:"gpa" json:"gpa" validate:"gte=0"`
	ClassYearPoints  map[string]float64 `mapstructure:"class-year-points" json:"class_year_points" validate:"dive,gte=0"`
	ClassYearDefault float64            `mapstructure:"class-year-default" json:"class_year_default" validate:"gte=0"`
}

func (r EducationRules) sum() float64 {
	return r.School + r.ClassYear + r.Major + r.Minor + r.GPA
}

type ExperienceRules struct {
	Company     float64 `mapstructure:"company" json:"company" validate:"gte=0"`
	Location    float64 `mapstructure:"location" json:"location" validate:"gte=0"`
	Position    float64 `mapstructure:"position" json:"position" validate:"gte=0"`
	Seniority   float64 `mapstructure:"seniority" json:"seniority" validate:"gte=0"`
	Duration    float64 `mapstructure:"duration" json:"duration" validate:"gte=0"`
	Description float64 `mapstructure:"description" json:"description" validate:"gte=0"`
	// DurationThreshold is the minimum tenure in months that earns Duration.
	DurationThreshold int `mapstructure:"duration-threshold" json:"duration_threshold" validate:"gte=0"`
}

func (r ExperienceRules) sum() float64 {
	return r.Company + r.Location + r.Position + r.Seniority + r.Duration + r.Description
}

type ProjectRules struct {
	Name        float64 `mapstructure:"name" json:"name" validate:"gte=0"`
	Link        float64 `mapstructure:"link" json:"link" validate:"gte=0"`
	Tech        float64 `mapstructure:"tech" json:"tech" validate:"gte=0"`
	Duration    float64 `mapstructure:"duration" json:"duration" validate:"gte=0"`
	Description float64 `mapstructure:"description" json:"description" validate:"gte=0"`
}

func (r ProjectRules) sum() float64 {
	return r.Name + r.Link + r.Tech + r.Duration + r.Description
}

type AwardRules struct {
	Contest     float64 `mapstructure:"contest" json:"contest" validate:"gte=0"`
	Prize       float64 `mapstructure:"prize" json:"prize" validate:"gte=0"`
	Description float64 `mapstructure:"description" json:"description" validate:"gte=0"`
	Role        float64 `mapstructure:"role" json:"role" validate:"gte=0"`
	Link        float64 `mapstructure:"link" json:"link" validate:"gte=0"`
	Time        float64 `mapstructure:"time" json:"time" validate:"gte=0"`
}

func (r AwardRules) sum() float64 {
	return r.Contest + r.Prize + r.Description + r.Role + r.Link + r.Time
}

type CertificationRules struct {
	Name float64 `mapstructure:"name" json:"name" validate:"gte=0"`
	Link float64 `mapstructure:"link" json:"link" validate:"gte=0"`
	Org  float64 `mapstructure:"org" json:"org" validate:"gte=0"`
}

func (r CertificationRules) sum() float64 {
	return r.Name + r.Link + r.Org
}

// RuleSet is the complete scoring configuration.
type RuleSet struct {
	Weights        Weights            `mapstructure:"weights" json:"weights"`
	Thresholds     Thresholds         `mapstructure:"thresholds" json:"thresholds"`
	Education      EducationRules     `mapstructure:"education" json:"education"`
	Experience     ExperienceRules    `mapstructure:"experience" json:"experience"`
	Projects       ProjectRules       `mapstructure:"projects" json:"projects"`
	Awards         AwardRules         `mapstructure:"awards" json:"awards"`
	Certifications CertificationRules `mapstructure:"certifications" json:"certifications"`
}

// Default returns the built-in rule set.
func Default() *RuleSet {
	return &RuleSet{
		Weights: Weights{
			Education:      15,
			Experience:     25,
			Projects:       20,
			Awards:         15,
			Certifications: 5,
		},
		Thresholds: Thresholds{Pass: 70, Consider: 50},
		Education: EducationRules{
			School:    30,
			ClassYear: 30,
			Major:     30,
			Minor:     0,
			GPA:       10,
			ClassYearPoints: map[string]float64{
				"senior":    30,
				"junior":    20,
				"sophomore": 10,
			},
			ClassYearDefault: 10,
		},
		Experience: ExperienceRules{
			Company:           25,
			Location:          5,
			Position:          25,
			Seniority:         5,
			Duration:          5,
			Description:       25,
			DurationThreshold: 6,
		},
		Projects: ProjectRules{
			Name:        10,
			Link:        20,
			Tech:        25,
			Duration:    5,
			Description: 40,
		},
		Awards: AwardRules{
			Contest:     30,
			Prize:       25,
			Description: 25,
			Role:        10,
			Link:        5,
			Time:        5,
		},
		Certifications: CertificationRules{
			Name: 50,
			Link: 10,
			Org:  40,
		},
	}
}

// Load overlays the "scoring" section of v onto Default and validates the
// result. A nil v yields the defaults.
func Load(v *viper.Viper) (*RuleSet, error) {
	rs := Default()
	if v == nil || !v.IsSet(ConfigKey) {
		return rs, rs.Validate()
	}

	if err := v.UnmarshalKey(ConfigKey, rs); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrInvalidRules, ConfigKey, err)
	}

	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return rs, nil
}

// Validate checks field ranges, that the category weights are positive in
// total and do not exceed 100, and that no category hands out more than 100
// points. The default weights total 80; the rest of the scale is unallocated.
func (rs *RuleSet) Validate() error {
	if rs == nil {
		return fmt.Errorf("%w: rule set is nil", ErrInvalidRules)
	}

	if err := validate.Struct(rs); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}

	if sum := rs.Weights.sum(); sum <= 0 || sum > weightTotal+epsilon {
		return fmt.Errorf("%w: category weights sum to %g, want (0, %g]", ErrInvalidRules, sum, weightTotal)
	}

	allotments := map[Category]float64{
		Education:      rs.Education.sum(),
		Experience:     rs.Experience.sum(),
		Projects:       rs.Projects.sum(),
		Awards:         rs.Awards.sum(),
		Certifications: rs.Certifications.sum(),
	}
	for _, c := range Categories() {
		if allotments[c] > weightTotal+epsilon {
			return fmt.Errorf("%w: %s allotments sum to %g, above %g", ErrInvalidRules, c, allotments[c], weightTotal)
		}
	}

	return nil
}

// ClassYearScore returns the points for a class-year label, matched without
// regard to case and capped at the class-year allotment.
func (r EducationRules) ClassYearScore(label string) float64 {
	points, ok := r.ClassYearPoints[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		points = r.ClassYearDefault
	}
	return math.Min(points, r.ClassYear)
}
