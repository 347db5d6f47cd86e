package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validation limits.
const (
	MinTitleLength        = 3
	MaxTitleLength        = 200
	MinDescriptionLength  = 10
	MaxDescriptionLength  = 5000
	MinNameLength         = 2
	MaxNameLength         = 100
	MaxCategoryLength     = 50
	MaxLocationLength     = 200
	MinClaimDetailsLength = 10
	MaxClaimDetailsLength = 2000
	MaxReviewNotesLength  = 1000
	MaxPhoneLength        = 30
	MinPrice              = 0.0
	MaxPrice              = 100000.0
)

// ValidateLength checks the rune length of a string field.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s must be at least %d characters", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s must be at most %d characters", fieldName, max)
	}
	return nil
}

// ValidateNonEmpty checks that a string is not blank.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

var (
	localPartRegex = regexp.MustCompile(`^[a-z0-9._+-]+$`)
	domainRegex    = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
)

// ValidateEmail checks the general shape of an email address.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("invalid email format")
	}

	localPart, domainPart := parts[0], parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("email local part must be between 1 and 64 characters")
	}
	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("email domain must be between 1 and 255 characters")
	}
	if !localPartRegex.MatchString(localPart) {
		return fmt.Errorf("email local part contains invalid characters")
	}
	if !domainRegex.MatchString(domainPart) {
		return fmt.Errorf("email domain has an invalid format")
	}

	return nil
}

// ValidateInstitutionalEmail checks the email shape and that it belongs to
// the allowed campus domain. Registration is refused before any record is
// created when this fails.
func ValidateInstitutionalEmail(email, allowedDomain string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}

	normalized := strings.ToLower(strings.TrimSpace(email))
	if !strings.HasSuffix(normalized, "@"+strings.ToLower(allowedDomain)) {
		return fmt.Errorf("only @%s email addresses are allowed", allowedDomain)
	}

	return nil
}

// ValidateName checks a person's display name.
func ValidateName(name string) error {
	if err := ValidateNonEmpty("name", name); err != nil {
		return err
	}
	return ValidateLength("name", strings.TrimSpace(name), MinNameLength, MaxNameLength)
}

// ValidateItemTitle checks an item report title.
func ValidateItemTitle(title string) error {
	if err := ValidateNonEmpty("title", title); err != nil {
		return err
	}
	return ValidateLength("title", strings.TrimSpace(title), MinTitleLength, MaxTitleLength)
}

// ValidateItemDescription checks an item report description.
func ValidateItemDescription(description string) error {
	if err := ValidateNonEmpty("description", description); err != nil {
		return err
	}
	return ValidateLength("description", strings.TrimSpace(description), MinDescriptionLength, MaxDescriptionLength)
}

// ValidateCategory checks an item category.
func ValidateCategory(category string) error {
	if err := ValidateNonEmpty("category", category); err != nil {
		return err
	}
	return ValidateLength("category", strings.TrimSpace(category), 1, MaxCategoryLength)
}

// ValidateItemLocation checks a reported location.
func ValidateItemLocation(location string) error {
	if err := ValidateNonEmpty("location", location); err != nil {
		return err
	}
	return ValidateLength("location", strings.TrimSpace(location), 1, MaxLocationLength)
}

// ValidatePhone checks an optional phone number.
func ValidatePhone(phone string) error {
	return ValidateLength("phone", phone, 0, MaxPhoneLength)
}

// ValidateClaimDescription checks the free-text part of a claim.
func ValidateClaimDescription(description string) error {
	if err := ValidateNonEmpty("description", description); err != nil {
		return err
	}
	return ValidateLength("description", strings.TrimSpace(description), MinClaimDetailsLength, MaxClaimDetailsLength)
}

// ValidateVerificationDetails checks the proof-of-ownership details of a claim.
func ValidateVerificationDetails(details string) error {
	if err := ValidateNonEmpty("verification details", details); err != nil {
		return err
	}
	return ValidateLength("verification details", strings.TrimSpace(details), MinClaimDetailsLength, MaxClaimDetailsLength)
}

// ValidateReviewNotes checks optional moderation notes.
func ValidateReviewNotes(notes string) error {
	return ValidateLength("review notes", notes, 0, MaxReviewNotesLength)
}

// ValidatePickupLocation checks a marketplace pickup location.
func ValidatePickupLocation(location string) error {
	if err := ValidateNonEmpty("pickup location", location); err != nil {
		return err
	}
	return ValidateLength("pickup location", strings.TrimSpace(location), 1, MaxLocationLength)
}

// ValidatePrice checks an optional listing price.
func ValidatePrice(price *float64) error {
	if price == nil {
		return nil
	}
	if *price < MinPrice {
		return fmt.Errorf("price cannot be negative")
	}
	if *price > MaxPrice {
		return fmt.Errorf("price cannot exceed %.0f", MaxPrice)
	}
	return nil
}
