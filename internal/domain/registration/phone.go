package registration

import (
	"fmt"
	"regexp"
	"strings"
)

// PhoneLength is the number of digits in an Indian mobile number
const PhoneLength = 10

const (
	msgPhoneRequired   = "Phone number is required"
	msgPhoneLeadDigit  = "Indian numbers must start with 6, 7, 8, or 9"
	msgPhoneDigitsOnly = "Phone number can only contain digits"
	msgPhoneTooShort   = "Enter at least 4 digits to validate"
	msgPhoneMoreDigits = "Enter %d more digits"
	msgPhoneFormat     = "Invalid Indian phone number format"
	msgPhoneTooLong    = "Phone number cannot exceed 10 digits"
)

// minPhoneDigitsForCountdown is the length at which the remaining-digit
// countdown replaces the generic hint
const minPhoneDigitsForCountdown = 4

var indianMobile = regexp.MustCompile(`^[6-9]\d{9}$`)

// SanitizePhone strips everything but digits and truncates to ten digits.
// Input should pass through it before Check is called on phone.
func SanitizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == PhoneLength {
				break
			}
		}
	}
	return b.String()
}

func validLeadDigit(r rune) bool {
	return r >= '6' && r <= '9'
}

func allDigits(s []rune) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// checkPhone narrows its message as digits are typed. A number with a good
// leading digit stays partial until all ten digits are present.
func checkPhone(value string) Verdict {
	if strings.TrimSpace(value) == "" {
		return Verdict{Status: StatusEmpty, Message: msgPhoneRequired}
	}

	digits := []rune(value)
	n := len(digits)
	leadOK := validLeadDigit(digits[0])

	switch {
	case n < PhoneLength:
		status := StatusInvalid
		if leadOK {
			status = StatusPartial
		}
		switch {
		case !leadOK:
			return Verdict{Status: status, Message: msgPhoneLeadDigit}
		case !allDigits(digits):
			return Verdict{Status: status, Message: msgPhoneDigitsOnly}
		case n < minPhoneDigitsForCountdown:
			return Verdict{Status: status, Message: msgPhoneTooShort}
		default:
			return Verdict{Status: status, Message: fmt.Sprintf(msgPhoneMoreDigits, PhoneLength-n)}
		}
	case n == PhoneLength:
		if indianMobile.MatchString(value) {
			return valid()
		}
		return invalid(msgPhoneFormat)
	default:
		return invalid(msgPhoneTooLong)
	}
}
