package checkout

import (
	"regexp"
	"strings"

	"storefront/internal/types"
)

var (
	mobilePattern  = regexp.MustCompile(`^\d{10}$`)
	pincodePattern = regexp.MustCompile(`^\d{6}$`)
)

// FieldErrors maps address field names to validation messages.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return "invalid address: " + strings.Join(parts, "; ")
}

// ValidateAddress checks the required delivery-address fields client-side.
// No network call is made on failure.
func ValidateAddress(a types.Address) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(a.FullName) == "" {
		errs["fullName"] = "Full name is required"
	}
	if !mobilePattern.MatchString(a.Mobile) {
		errs["mobile"] = "Enter valid 10-digit mobile number"
	}
	if !pincodePattern.MatchString(a.Pincode) {
		errs["pincode"] = "Enter valid 6-digit pincode"
	}
	if strings.TrimSpace(a.Flat) == "" {
		errs["flat"] = "Flat/House No. is required"
	}
	if strings.TrimSpace(a.Area) == "" {
		errs["area"] = "Area/Street is required"
	}
	if strings.TrimSpace(a.City) == "" {
		errs["city"] = "City is required"
	}
	if strings.TrimSpace(a.State) == "" {
		errs["state"] = "State is required"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
