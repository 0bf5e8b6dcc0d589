// Package validation checks user supplied fields before they reach storage.
package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"corkboard/internal/models"
)

const (
	MinPasswordLength = 8
	// MaxPasswordBytes is the most bcrypt will hash.
	MaxPasswordBytes  = 72
	MaxEmailLength    = 254
	MaxFullNameLength = 30
)

// ValidateBoardName trims name and checks it is 1-30 characters.
func ValidateBoardName(name string) (string, error) {
	return boundedText("board name", name, models.MaxBoardNameLength)
}

// ValidatePostTitle trims title and checks it is 1-30 characters.
func ValidatePostTitle(title string) (string, error) {
	return boundedText("post title", title, models.MaxPostTitleLength)
}

// ValidatePostContent rejects blank content. Length is not limited.
func ValidatePostContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("post content cannot be empty")
	}
	return nil
}

// ValidateFullName allows empty names; the caller substitutes a default.
func ValidateFullName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > MaxFullNameLength {
		return "", fmt.Errorf("full name must be at most %d characters", MaxFullNameLength)
	}
	return name, nil
}

func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > MaxEmailLength {
		return fmt.Errorf("email must be at most %d characters", MaxEmailLength)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("email address is invalid")
	}
	domain := email[strings.LastIndex(email, "@")+1:]
	if !strings.Contains(domain, ".") || strings.HasSuffix(domain, ".") {
		return fmt.Errorf("email address is invalid")
	}
	return nil
}

// ValidatePassword counts the minimum in characters and the maximum in bytes.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("password must be at most %d bytes", MaxPasswordBytes)
	}
	return nil
}

func boundedText(field, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%s cannot be empty", field)
	}
	if utf8.RuneCountInString(value) > max {
		return "", fmt.Errorf("%s must be at most %d characters", field, max)
	}
	return value, nil
}
