package cli

import (
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"unicode"

	"github.com/ibrathesheriff/stackrail/internal/client/models"
)

const (
	minPasswordLen = 8
	otpLen         = 6
)

func validateRequired(s string) error {
	if s == "" {
		return errors.New("a value is required")
	}
	return nil
}

func validateName(s string) error {
	if s == "" {
		return errors.New("a name is required")
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && r != '-' && r != '\'' && r != ' ' {
			return fmt.Errorf("%q is not a valid name", s)
		}
	}
	return nil
}

func validateUsername(s string) error {
	if s == "" {
		return errors.New("a username is required")
	}
	for _, r := range s {
		if r > unicode.MaxASCII || (!unicode.IsLetter(r) && !unicode.IsDigit(r)) {
			return errors.New("username may only contain letters and digits")
		}
	}
	return nil
}

func validateEmail(s string) error {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return fmt.Errorf("%q is not a valid email address", s)
	}
	return nil
}

func validatePassword(pw []byte) error {
	if len(pw) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	return nil
}

func validateOTP(s string) error {
	if len(s) != otpLen {
		return fmt.Errorf("the code has %d digits", otpLen)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return fmt.Errorf("the code has %d digits", otpLen)
		}
	}
	return nil
}

func validateRating(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < models.MinRating || n > models.MaxRating {
		return fmt.Errorf("enter a number from %d to %d", models.MinRating, models.MaxRating)
	}
	return nil
}

func validateStatus(s string) error {
	_, err := models.ParseStatus(s)
	return err
}
