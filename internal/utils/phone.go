package utils

import (
	"fmt"
	"strings"

	"github.com/ttacon/libphonenumber"
)

// NormalizePhone validates phone for the given region and returns it in E.164 form.
// An empty region disables validation and returns the trimmed input.
func NormalizePhone(phone, region string) (string, error) {
	phone = strings.TrimSpace(phone)
	if region == "" {
		return phone, nil
	}

	p, err := libphonenumber.Parse(phone, region)
	if err != nil {
		return "", fmt.Errorf("invalid phone number %q: %w", phone, err)
	}
	if !libphonenumber.IsValidNumber(p) {
		return "", fmt.Errorf("phone number %q is not valid for region %s", phone, region)
	}

	return libphonenumber.Format(p, libphonenumber.E164), nil
}
