package validators

import "testing"

func TestValidateName(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid simple", "John Smith", true},
		{"valid with punctuation", "Mary-Jane O'Brien", true},
		{"too short", "A", false},
		{"empty", "", false},
		{"digits only", "12345", false},
		{"too many digits", "John123456", false},
		{"invalid character", "John@Smith", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ok, msg := ValidateName(c.input)
			if ok != c.want {
				t.Fatalf("ValidateName(%q) = %v (%q), want %v", c.input, ok, msg, c.want)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid", "user@example.com", true},
		{"valid subdomain", "first.last@mail.example.co", true},
		{"empty", "", false},
		{"no at", "userexample.com", false},
		{"double at", "user@@example.com", false},
		{"leading dot local", ".user@example.com", false},
		{"double dot local", "us..er@example.com", false},
		{"no tld dot", "user@examplecom", false},
		{"domain leading dash", "user@-example.com", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ok, msg := ValidateEmail(c.input)
			if ok != c.want {
				t.Fatalf("ValidateEmail(%q) = %v (%q), want %v", c.input, ok, msg, c.want)
			}
		})
	}
}

func TestValidatePhone(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid US dashes", "123-456-7890", true},
		{"valid US parens", "(123) 456-7890", true},
		{"valid plain digits", "1234567890", true},
		{"valid intl", "+12 123456789", true},
		{"too short", "12345", false},
		{"empty", "", false},
		{"letters", "abcdefghij", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ok, msg := ValidatePhone(c.input)
			if ok != c.want {
				t.Fatalf("ValidatePhone(%q) = %v (%q), want %v", c.input, ok, msg, c.want)
			}
		})
	}
}
