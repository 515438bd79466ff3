package patient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestAge(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		dob  *time.Time
		want int
	}{
		{date(1990, 6, 15), 34},
		{date(1990, 6, 16), 33},
		{date(1990, 7, 1), 33},
		{date(1990, 1, 1), 34},
		{date(2024, 6, 15), 0},
		{date(2000, 2, 29), 24},
	}
	for _, tc := range cases {
		got := Age(tc.dob, now)
		require.NotNil(t, got)
		assert.Equal(t, tc.want, *got, tc.dob.Format("2006-01-02"))
	}

	assert.Nil(t, Age(nil, now))
}

func TestValidateDemographics(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, ValidateDemographics("", "", nil, now))
	assert.NoError(t, ValidateDemographics("female", "AB-", date(1980, 1, 1), now))

	assert.True(t, httperr.IsBusiness(ValidateDemographics("f", "", nil, now), "invalid_gender"))
	assert.True(t, httperr.IsBusiness(ValidateDemographics("", "C+", nil, now), "invalid_blood_group"))
	assert.True(t, httperr.IsBusiness(ValidateDemographics("", "", date(2030, 1, 1), now), "invalid_date"))
}
