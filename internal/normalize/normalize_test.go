package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGPA(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		{name: "plain number", input: "3.5", want: 3.5, wantOK: true},
		{name: "padded number", input: "  8.7 ", want: 8.7, wantOK: true},
		{name: "grade tokens", input: "Grade 9: 9.9, Grade 10: 9.7", want: 9.8, wantOK: true},
		{name: "grade tokens without colon", input: "grade10 8.0; grade11 9.0", want: 8.5, wantOK: true},
		{name: "comma list", input: "3.2, 3.6", want: 3.4, wantOK: true},
		{name: "semicolon list with noise", input: "3.0; n/a; 4.0", want: 3.5, wantOK: true},
		{name: "first number in text", input: "GPA 3.8/4.0", want: 3.8, wantOK: true},
		{name: "not a number", input: "not a number", wantOK: false},
		{name: "empty", input: "", wantOK: false},
		{name: "nan is rejected", input: "NaN", wantOK: false},
		{name: "infinity is rejected", input: "inf", wantOK: false},
		{name: "overflow is rejected", input: "1e400", wantOK: false},
		{name: "hex float is not a literal", input: "0x1p1", want: 0, wantOK: true},
		{name: "exponent literal", input: "3.5e0", want: 3.5, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := GPA(tt.input)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestConvertScale(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3.2, ConvertScale(8.0, ScaleTen))
	assert.Equal(t, 3.48, ConvertScale(8.7, ScaleTen))
	assert.Equal(t, 3.5, ConvertScale(3.5, ScaleFour))
	assert.Equal(t, 3.5, ConvertScale(3.5, ""))
}

func TestGPAOnFourScale(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		declared string
		want     float64
		wantOK   bool
	}{
		{name: "four scale inferred", input: "3.5", want: 3.5, wantOK: true},
		{name: "ten scale inferred", input: "8.0", want: 3.2, wantOK: true},
		{name: "ten scale declared", input: "3.0", declared: ScaleTen, want: 1.2, wantOK: true},
		{name: "four scale declared out of range", input: "8.0", declared: ScaleFour, wantOK: false},
		{name: "ten scale declared out of range", input: "11", declared: ScaleTen, wantOK: false},
		{name: "beyond any scale", input: "85", wantOK: false},
		{name: "garbage", input: "excellent", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := GPAOnFourScale(tt.input, tt.declared)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDurationMonths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  int
	}{
		{input: "2018-01 to 2020-12", want: 35},
		{input: "Jan 2020 - Dec 2021", want: 12},
		{input: "2019 - 2019", want: 0},
		{input: "2021-06 - 2020-01", want: 0},
		{input: "2021-03 - present", want: DefaultDurationMonths},
		{input: "no dates here", want: DefaultDurationMonths},
		{input: "2018-13 to 2020-01", want: DefaultDurationMonths},
		{input: "Managed 1200 users, 2019 - 2021", want: 24},
		{input: "Shipped 3000 builds 2019-03 to 2019-09", want: 6},
		{input: "Team of 1200 since 2019", want: DefaultDurationMonths},
		{input: "", want: DefaultDurationMonths},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DurationMonths(tt.input))
		})
	}
}

func TestText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "dai hoc bach khoa ha noi", Text("Đại học  Bách Khoa Hà Nội"))
	assert.Equal(t, "fpt software", Text(" FPT Software "))
	assert.Equal(t, "", Text(""))
}

func TestUniversityName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "HUST", UniversityName("Đại học Bách Khoa Hà Nội"))
	assert.Equal(t, "HUST", UniversityName("bach khoa ha noi"))
	assert.Equal(t, "HUST", UniversityName("hust"))
	assert.Equal(t, "RMIT", UniversityName("RMIT University Vietnam"))
	assert.Equal(t, "unknown college", UniversityName("Unknown College"))
}
