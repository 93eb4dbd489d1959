package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageWindow(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		last     int
		siblings int
		want     []int
	}{
		{"single page", 1, 1, 1, []int{1}},
		{"no pages", 1, 0, 1, nil},
		{"short range", 2, 3, 1, []int{1, 2, 3}},
		{"first page", 1, 10, 1, []int{1, 2, Ellipsis, 10}},
		{"middle", 5, 10, 1, []int{1, Ellipsis, 4, 5, 6, Ellipsis, 10}},
		{"last page", 10, 10, 1, []int{1, Ellipsis, 9, 10}},
		{"current past last", 12, 10, 0, []int{1, Ellipsis, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PageWindow(tt.current, tt.last, tt.siblings))
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "₦1,234,567.50", FormatAmount(1234567.5, "₦"))
	assert.Equal(t, "0.00", FormatAmount(0, ""))
	assert.Equal(t, "-100.50", FormatAmount(-100.5, ""))
	assert.Equal(t, "999.99", FormatAmount(999.99, ""))
}

type signup struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

func TestValidateStruct(t *testing.T) {
	require.NoError(t, ValidateStruct(signup{Email: "a@b.co", Password: "longenough"}))

	err := ValidateStruct(signup{Email: "nope"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "must be a valid email address", verr.Fields["Email"])
	assert.Equal(t, "is required", verr.Fields["Password"])
	assert.Equal(t, "validation failed: Email must be a valid email address; Password is required", err.Error())
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "****", MaskToken("short"))
	assert.Equal(t, "abcd…wxyz", MaskToken("abcdefghijklmnopqrstuvwxyz"))
}
