package users

import (
	"fmt"
	"strings"
)

// ValidateIdentifier checks the login identifier, which is either a username or an email address.
func ValidateIdentifier(identifier string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return fmt.Errorf("username or email is required")
	}
	if strings.Contains(identifier, "@") {
		return ValidateEmail(identifier)
	}
	return nil
}

// ValidateEmail does the same basic format check the sign-up form does. The server has the final say.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	at := strings.LastIndex(email, "@")
	if at < 1 || !strings.Contains(email[at+1:], ".") {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateRegistration checks the fields needed to create an account before a round trip is made.
func ValidateRegistration(username, email, password string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("username is required")
	}
	if strings.ContainsAny(username, " \t\r\n") {
		return fmt.Errorf("username must not contain whitespace")
	}
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}
