package checkout

import (
	"testing"

	"storefront/internal/types"
)

func validAddress() types.Address {
	return types.Address{
		FullName: "Asha Rao",
		Mobile:   "9876543210",
		Pincode:  "560001",
		Flat:     "12B, Lakeview Apartments",
		Area:     "MG Road",
		City:     "Bengaluru",
		State:    "Karnataka",
		Type:     "Home",
	}
}

func TestValidAddressPasses(t *testing.T) {
	if errs := ValidateAddress(validAddress()); errs != nil {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestAddressValidation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*types.Address)
		wantKey  string
	}{
		{"missing name", func(a *types.Address) { a.FullName = "  " }, "fullName"},
		{"short phone", func(a *types.Address) { a.Mobile = "12345" }, "mobile"},
		{"phone with letters", func(a *types.Address) { a.Mobile = "98765abc10" }, "mobile"},
		{"short pincode", func(a *types.Address) { a.Pincode = "5600" }, "pincode"},
		{"missing flat", func(a *types.Address) { a.Flat = "" }, "flat"},
		{"missing area", func(a *types.Address) { a.Area = "" }, "area"},
		{"missing city", func(a *types.Address) { a.City = "" }, "city"},
		{"missing state", func(a *types.Address) { a.State = "" }, "state"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validAddress()
			tt.mutate(&a)

			errs := ValidateAddress(a)
			if errs == nil {
				t.Fatal("expected validation errors")
			}
			if _, ok := errs[tt.wantKey]; !ok {
				t.Errorf("expected error for %q, got %v", tt.wantKey, errs)
			}
		})
	}
}

func TestLandmarkIsOptional(t *testing.T) {
	a := validAddress()
	a.Landmark = ""
	if errs := ValidateAddress(a); errs != nil {
		t.Fatalf("landmark should be optional, got %v", errs)
	}
}
