package main

import (
	"testing"
)

func TestParseCardFlags(t *testing.T) {
	coCard = "4242 4242 4242 4242"
	coExpiry = "12/30"
	coCVC = "123"
	coName = "Jane Doe"
	defer func() { coCard, coExpiry, coCVC, coName = "", "", "", "" }()

	card, err := parseCardFlags()
	if err != nil {
		t.Fatalf("parseCardFlags: %v", err)
	}
	if card.Number != "4242424242424242" {
		t.Errorf("expected spaces stripped, got %q", card.Number)
	}
	if card.ExpMonth != 12 || card.ExpYear != 2030 {
		t.Errorf("expected 12/2030, got %d/%d", card.ExpMonth, card.ExpYear)
	}
}

func TestParseCardFlagsRejectsBadExpiry(t *testing.T) {
	tests := []string{"", "1230", "13-30", "aa/bb"}
	for _, expiry := range tests {
		coExpiry = expiry
		if _, err := parseCardFlags(); err == nil {
			t.Errorf("expected error for expiry %q", expiry)
		}
	}
	coExpiry = ""
}

func TestFlagForField(t *testing.T) {
	tests := map[string]string{
		"fullName": "name",
		"mobile":   "mobile",
		"pincode":  "pincode",
		"city":     "city",
		"unknown":  "unknown",
	}
	for field, want := range tests {
		if got := flagForField(field); got != want {
			t.Errorf("flagForField(%q) = %q, want %q", field, got, want)
		}
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	want := []string{"login", "logout", "signup", "status", "products", "product",
		"search", "recommend", "cart", "checkout", "orders", "admin", "twin"}

	registered := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("expected subcommand %q registered", name)
		}
	}
}
