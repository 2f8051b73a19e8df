package utils

import "testing"

func TestValidatePhoneNumber(t *testing.T) {
	// Local-format Sri Lankan mobile numbers must parse under the default region.
	if err := ValidatePhoneNumber("0771234567", CountryCode); err != nil {
		t.Fatalf("ValidatePhoneNumber(0771234567): %v", err)
	}
	if err := ValidatePhoneNumber("+94771234567", CountryCode); err != nil {
		t.Fatalf("ValidatePhoneNumber(+94771234567): %v", err)
	}
	if err := ValidatePhoneNumber("123", CountryCode); err == nil {
		t.Fatal("ValidatePhoneNumber(123): expected error")
	}
}

func TestIsValidEmail(t *testing.T) {
	if !IsValidEmail("rep@distributor.lk") {
		t.Fatal("rep@distributor.lk rejected")
	}
	if IsValidEmail("not-an-email") {
		t.Fatal("not-an-email accepted")
	}
}
