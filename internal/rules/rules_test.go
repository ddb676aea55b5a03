package rules

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	rs := Default()
	require.NoError(t, rs.Validate())

	assert.Equal(t, 15.0, rs.Weights.Education)
	assert.Equal(t, 25.0, rs.Weights.Experience)
	assert.Equal(t, 20.0, rs.Weights.Projects)
	assert.Equal(t, 15.0, rs.Weights.Awards)
	assert.Equal(t, 5.0, rs.Weights.Certifications)
	assert.Equal(t, 70.0, rs.Thresholds.Pass)
	assert.Equal(t, 50.0, rs.Thresholds.Consider)
}

func TestWeightsOf(t *testing.T) {
	rs := Default()
	for _, c := range Categories() {
		w, ok := rs.Weights.Of(c)
		require.True(t, ok, c)
		assert.Positive(t, w)
	}

	_, ok := rs.Weights.Of(Category("hobbies"))
	assert.False(t, ok)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RuleSet)
	}{
		{name: "weights above 100", mutate: func(rs *RuleSet) { rs.Weights.Education = 40 }},
		{name: "all weights zero", mutate: func(rs *RuleSet) { rs.Weights = Weights{} }},
		{name: "negative weight", mutate: func(rs *RuleSet) {
			rs.Weights.Education = -5
			rs.Weights.Experience = 45
		}},
		{name: "consider above pass", mutate: func(rs *RuleSet) { rs.Thresholds.Consider = 80 }},
		{name: "threshold above 100", mutate: func(rs *RuleSet) { rs.Thresholds.Pass = 120 }},
		{name: "education over-allotted", mutate: func(rs *RuleSet) { rs.Education.Minor = 10 }},
		{name: "negative class-year points", mutate: func(rs *RuleSet) { rs.Education.ClassYearPoints["senior"] = -1 }},
		{name: "negative duration threshold", mutate: func(rs *RuleSet) { rs.Experience.DurationThreshold = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := Default()
			tt.mutate(rs)
			require.ErrorIs(t, rs.Validate(), ErrInvalidRules)
		})
	}

	var nilRules *RuleSet
	require.ErrorIs(t, nilRules.Validate(), ErrInvalidRules)
}

func TestLoadWithoutOverrides(t *testing.T) {
	rs, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), rs)

	rs, err = Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, Default(), rs)
}

func TestLoadOverlaysConfig(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
scoring:
  weights:
    education: 20
    experience: 20
  thresholds:
    pass: 75
  education:
    class-year-points:
      freshman: 5
  experience:
    duration-threshold: 12
`)))

	rs, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 20.0, rs.Weights.Education)
	assert.Equal(t, 20.0, rs.Weights.Experience)
	assert.Equal(t, 20.0, rs.Weights.Projects)
	assert.Equal(t, 75.0, rs.Thresholds.Pass)
	assert.Equal(t, 50.0, rs.Thresholds.Consider)
	assert.Equal(t, 12, rs.Experience.DurationThreshold)
	assert.Equal(t, 5.0, rs.Education.ClassYearPoints["freshman"])
	assert.Equal(t, 30.0, rs.Education.ClassYearPoints["senior"])
}

func TestLoadRejectsInvalidOverlay(t *testing.T) {
	v := viper.New()
	v.Set("scoring.weights.education", 50)

	_, err := Load(v)
	require.ErrorIs(t, err, ErrInvalidRules)
}

func TestClassYearScore(t *testing.T) {
	r := Default().Education

	assert.Equal(t, 30.0, r.ClassYearScore("Senior"))
	assert.Equal(t, 20.0, r.ClassYearScore(" junior "))
	assert.Equal(t, 10.0, r.ClassYearScore("Sophomore"))
	assert.Equal(t, 10.0, r.ClassYearScore("Freshman"))

	r.ClassYearPoints["senior"] = 45
	assert.Equal(t, 30.0, r.ClassYearScore("Senior"))
}
