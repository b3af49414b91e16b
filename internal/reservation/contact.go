package reservation

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// NormalizeContact accepts a phone number, formatted as E.164, or an email
// address. Local numbers are read in the given region.
func NormalizeContact(raw, region string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidContact
	}

	if strings.Contains(raw, "@") {
		addr, err := mail.ParseAddress(raw)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidContact, raw)
		}
		return strings.ToLower(addr.Address), nil
	}

	num, err := phonenumbers.Parse(raw, region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("%w: %q", ErrInvalidContact, raw)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
