package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestValidateCoordinates(t *testing.T) {
	cases := []struct {
		in    string
		valid bool
	}{
		{"55.7558,37.6173", true},
		{" 55.7558 , 37.6173 ", true},
		{"", true},
		{"   ", true},
		{"-90,-180", true},
		{"90,180", true},
		{"200,37.6", false},
		{"55.7,181", false},
		{"55.7", false},
		{"1,2,3", false},
		{"abc,37.6", false},
		{"NaN,NaN", false},
		{"55.7,NaN", false},
		{"Inf,37.6", false},
		{"-Inf,+Inf", false},
	}
	for _, tc := range cases {
		err := ValidateCoordinates(tc.in)
		if tc.valid {
			assert.NoError(t, err, tc.in)
		} else {
			assert.Error(t, err, tc.in)
			assert.ErrorIs(t, err, ErrValidation, tc.in)
		}
	}
}

func TestValidateCoordinatesLatitudeMessage(t *testing.T) {
	err := ValidateCoordinates("200,37.6")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Широта")
}

func TestValidateDate(t *testing.T) {
	assert.NoError(t, ValidateDate(""))
	assert.NoError(t, ValidateDate("2024-06-15"))
	assert.Error(t, ValidateDate("2024-6-15"))
	assert.Error(t, ValidateDate("2024-02-30"))
	assert.Error(t, ValidateDate("15.06.2024"))
}

func TestValidateDateRange(t *testing.T) {
	assert.NoError(t, ValidateDateRange("2024-06-01", "2024-06-15"))
	assert.NoError(t, ValidateDateRange("2024-06-15", "2024-06-15"))
	assert.NoError(t, ValidateDateRange("2024-06-15", ""))
	assert.Error(t, ValidateDateRange("2024-06-15", "2024-06-01"))
}

func TestValidateRequiredAndLength(t *testing.T) {
	assert.Error(t, ValidateRequired("  ", "Название"))
	assert.NoError(t, ValidateRequired("Музей", "Название"))

	assert.NoError(t, ValidateLength("абв", 1, 3, "Поле"))
	assert.Error(t, ValidateLength("абвг", 1, 3, "Поле"))
	assert.Error(t, ValidateLength(" ", 1, 3, "Поле"))
}

func TestValidatePlace(t *testing.T) {
	assert.NoError(t, ValidatePlace("Красная площадь", nil, strPtr("55.7539,37.6208")))
	assert.NoError(t, ValidatePlace(strings.Repeat("я", 200), strPtr(""), nil))

	err := ValidatePlace("", nil, nil)
	require.Error(t, err)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Details, "name")

	assert.Error(t, ValidatePlace(strings.Repeat("я", 201), nil, nil))
	assert.Error(t, ValidatePlace("Место", strPtr(strings.Repeat("x", 2001)), nil))
	assert.Error(t, ValidatePlace("Место", nil, strPtr("200,37.6")))
	assert.Error(t, ValidatePlace("Место", nil, strPtr("NaN,NaN")))
}

func TestValidateTrip(t *testing.T) {
	assert.NoError(t, ValidateTrip("Лето", nil, strPtr("2024-06-01"), strPtr("2024-06-15")))

	err := ValidateTrip("Лето", nil, strPtr("2024-06-15"), strPtr("2024-06-01"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	assert.Error(t, ValidateTrip(" ", nil, nil, nil))
	assert.Error(t, ValidateTrip("Лето", nil, strPtr("2024/06/01"), nil))
}

func TestValidateVisitDateAndOrder(t *testing.T) {
	assert.NoError(t, ValidateVisitDate("2024-06-15"))
	assert.NoError(t, ValidateVisitDate("2024-06-15T10:00:00.000Z"))
	assert.Error(t, ValidateVisitDate("вчера"))

	assert.NoError(t, ValidateOrder(1))
	assert.Error(t, ValidateOrder(0))
	assert.Error(t, ValidateOrder(-3))
}
