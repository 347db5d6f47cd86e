package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("jdoe@illinois.edu"))
	assert.NoError(t, ValidateEmail("first.last+tag@example.org"))

	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("no-at-sign"))
	assert.Error(t, ValidateEmail("two@@example.com"))
	assert.Error(t, ValidateEmail("user@nodot"))
	assert.Error(t, ValidateEmail("bad space@example.com"))
}

func TestValidateInstitutionalEmail(t *testing.T) {
	assert.NoError(t, ValidateInstitutionalEmail("jdoe@illinois.edu", "illinois.edu"))
	assert.NoError(t, ValidateInstitutionalEmail("JDoe@Illinois.EDU", "illinois.edu"))

	err := ValidateInstitutionalEmail("jdoe@gmail.com", "illinois.edu")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "illinois.edu")

	// Lookalike domains must not pass the suffix check.
	assert.Error(t, ValidateInstitutionalEmail("jdoe@notillinois.edu.evil.com", "illinois.edu"))
}

func TestValidateItemTitle(t *testing.T) {
	assert.NoError(t, ValidateItemTitle("Blue backpack"))
	assert.Error(t, ValidateItemTitle(""))
	assert.Error(t, ValidateItemTitle("ab"))
}

func TestValidateClaimDescription(t *testing.T) {
	assert.NoError(t, ValidateClaimDescription("I lost this exact bag last Tuesday"))
	assert.Error(t, ValidateClaimDescription("short"))
	assert.Error(t, ValidateClaimDescription("   "))
}

func TestValidatePrice(t *testing.T) {
	assert.NoError(t, ValidatePrice(nil))

	ok := 25.0
	assert.NoError(t, ValidatePrice(&ok))

	negative := -1.0
	assert.Error(t, ValidatePrice(&negative))

	huge := 1_000_000.0
	assert.Error(t, ValidatePrice(&huge))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Password1"))

	assert.Error(t, ValidatePassword("short1A"))
	assert.Error(t, ValidatePassword("alllowercase1"))
	assert.Error(t, ValidatePassword("ALLUPPERCASE1"))
	assert.Error(t, ValidatePassword("NoDigitsHere"))
}
