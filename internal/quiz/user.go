// Package quiz holds the quiz domain: the user's intake details, the
// question set, collected answers and the scored result.
package quiz

import (
	"regexp"
	"strconv"
	"strings"
)

// Defaults applied when the user skips the intake form.
const (
	DefaultName  = "Stranger"
	DefaultAge   = "1"
	DefaultEmail = "stranger@gmail.com"
)

// Age bounds, inclusive.
const (
	MinAge = 1
	MaxAge = 100
)

// ValidationError is an intake field failure. Its message is shown to the
// user as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Intake validation failures.
var (
	ErrInvalidName  = &ValidationError{Field: "name", Message: "Please tell us your name"}
	ErrInvalidAge   = &ValidationError{Field: "age", Message: "Please enter a valid age"}
	ErrInvalidEmail = &ValidationError{Field: "email", Message: "Please enter a valid email"}
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// User is what the intake form collects. Age is kept as typed so a partially
// entered value survives navigation.
type User struct {
	Name  string
	Age   string
	Email string
}

// ValidateName rejects blank names and the placeholder name.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || name == DefaultName {
		return ErrInvalidName
	}
	return nil
}

// ValidateAge parses age and checks it lies in [MinAge, MaxAge].
func ValidateAge(age string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(age))
	if err != nil || n < MinAge || n > MaxAge {
		return 0, ErrInvalidAge
	}
	return n, nil
}

// AgeTooHigh reports whether a value being typed already exceeds MaxAge,
// so the field can flag it before the user submits.
func AgeTooHigh(age string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(age))
	return err == nil && n > MaxAge
}

// ValidateEmail applies a loose local@domain.tld check.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return ErrInvalidEmail
	}
	return nil
}

// DisplayName returns the trimmed name or DefaultName when blank.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	return DefaultName
}

// Complete reports whether age and email pass validation. The name is
// allowed to stay as the placeholder.
func (u User) Complete() bool {
	if _, err := ValidateAge(u.Age); err != nil {
		return false
	}
	return ValidateEmail(u.Email) == nil
}

// WithDefaults fills every blank field with its default.
func (u User) WithDefaults() User {
	out := User{
		Name:  u.DisplayName(),
		Age:   strings.TrimSpace(u.Age),
		Email: strings.TrimSpace(u.Email),
	}
	if out.Age == "" {
		out.Age = DefaultAge
	}
	if out.Email == "" {
		out.Email = DefaultEmail
	}
	return out
}
