package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSalary(t *testing.T) {
	tests := []struct {
		in    string
		want  float64
		valid bool
	}{
		{"85000", 85000, true},
		{"$85,000", 85000, true},
		{"85k - 100k", 85000, true},
		{"PKR 1.5K per month", 1500, true},
		{"12.", 12, true},
		{"1.2.3", 1.2, true},
		{"negotiable", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSalary(tt.in)
			assert.Equal(t, tt.valid, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestJobListing_SalaryValue(t *testing.T) {
	l := JobListing{}
	_, ok := l.SalaryValue()
	assert.False(t, ok)

	s := "40k"
	l.Salary = &s
	v, ok := l.SalaryValue()
	assert.True(t, ok)
	assert.Equal(t, 40000.0, v)
}

func TestJobListingInput_ApplyDefaults(t *testing.T) {
	in := JobListingInput{JobType: JobTypePartTime}
	in.ApplyDefaults()

	assert.Equal(t, ExperienceEntry, in.ExperienceLevel)
	assert.Equal(t, JobTypePartTime, in.JobType)
	assert.Equal(t, LocationOnsite, in.JobLocationType)
	assert.Equal(t, JobStatusOpen, in.JobStatus)
}

func TestUser_Roles(t *testing.T) {
	var nilUser *User
	assert.False(t, nilUser.IsEmployer())
	assert.False(t, nilUser.IsCandidate())

	assert.True(t, (&User{Role: RoleEmployer}).IsEmployer())
	assert.True(t, (&User{Role: RoleCandidate}).IsCandidate())
}
