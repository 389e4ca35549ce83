package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for form fields. Field constraints are checked here,
// before any request reaches a service.
const (
	maxTitleLen    = 100
	minBodyLen     = 10
	minNameLen     = 2
	minPasswordLen = 6
)

// validatePost checks post form inputs and returns the first error found,
// or "" when the input is valid.
func validatePost(title, body string) string {
	if strings.TrimSpace(title) == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title must be less than 100 characters."
	}
	if utf8.RuneCountInString(body) < minBodyLen {
		return "Content must be at least 10 characters long."
	}
	return ""
}

// validateRegistration checks registration form inputs.
func validateRegistration(email, password, firstName, lastName string) string {
	if msg := validateEmail(email); msg != "" {
		return msg
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return "Password must be at least 6 characters."
	}
	if msg := validateName(firstName, "First name"); msg != "" {
		return msg
	}
	return validateName(lastName, "Last name")
}

func validateEmail(email string) string {
	if email == "" {
		return "Email is required."
	}
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 || !strings.Contains(email[at+1:], ".") {
		return "Email address is not valid."
	}
	return ""
}

func validateName(name, label string) string {
	if strings.TrimSpace(name) == "" {
		return label + " is required."
	}
	if utf8.RuneCountInString(name) < minNameLen {
		return label + " must be at least 2 characters."
	}
	return ""
}
