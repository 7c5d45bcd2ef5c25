package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"regular", "Ada", true},
		{"padded", "  Ada  ", true},
		{"empty", "", false},
		{"whitespace", "   ", false},
		{"placeholder", "Stranger", false},
		{"placeholder padded", " Stranger ", false},
		{"placeholder lowercase", "stranger", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidName)
			}
		})
	}
}

func TestValidateAge(t *testing.T) {
	tests := []struct {
		input string
		want  int
		valid bool
	}{
		{"1", 1, true},
		{"42", 42, true},
		{" 100 ", 100, true},
		{"0", 0, false},
		{"101", 0, false},
		{"-5", 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{"25.5", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ValidateAge(tt.input)
			if !tt.valid {
				require.ErrorIs(t, err, ErrInvalidAge)
				assert.Equal(t, "Please enter a valid age", err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAgeTooHigh(t *testing.T) {
	assert.False(t, AgeTooHigh(""))
	assert.False(t, AgeTooHigh("10"))
	assert.False(t, AgeTooHigh("100"))
	assert.True(t, AgeTooHigh("101"))
	assert.False(t, AgeTooHigh("0"), "too low is only reported on submit")
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"a@b.co", "ada.lovelace@example.com", " x@y.z "}
	invalid := []string{"", "plain", "a@b", "@b.co", "a b@c.de", "a@b c.de"}

	for _, e := range valid {
		assert.NoError(t, ValidateEmail(e), e)
	}
	for _, e := range invalid {
		err := ValidateEmail(e)
		assert.ErrorIs(t, err, ErrInvalidEmail, e)
	}

	var verr *ValidationError
	require.ErrorAs(t, ValidateEmail("nope"), &verr)
	assert.Equal(t, "email", verr.Field)
	assert.Equal(t, "Please enter a valid email", verr.Message)
}

func TestUser_WithDefaults(t *testing.T) {
	got := User{}.WithDefaults()
	assert.Equal(t, User{Name: "Stranger", Age: "1", Email: "stranger@gmail.com"}, got)

	kept := User{Name: " Ada ", Age: "36", Email: "ada@example.com"}.WithDefaults()
	assert.Equal(t, User{Name: "Ada", Age: "36", Email: "ada@example.com"}, kept)
}

func TestUser_Complete(t *testing.T) {
	assert.True(t, User{Age: "30", Email: "a@b.co"}.Complete())
	assert.False(t, User{Age: "300", Email: "a@b.co"}.Complete())
	assert.False(t, User{Age: "30", Email: "nope"}.Complete())
	assert.True(t, User{}.WithDefaults().Complete())
}
