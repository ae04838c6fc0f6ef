package contact

import "testing"

func TestExtractEmails(t *testing.T) {
	text := "Reach our sales team at sales@example.com or support@example.co.uk for help."
	emails := ExtractEmails(text)
	if len(emails) != 2 {
		t.Fatalf("expected 2 emails, got %v", emails)
	}
}

func TestExtractPhones(t *testing.T) {
	text := "Call us at (123) 456-7890 during business hours."
	phones := ExtractPhones(text)
	if len(phones) != 1 {
		t.Fatalf("expected 1 phone, got %v", phones)
	}
}

func TestIsContactQuery(t *testing.T) {
	if !IsContactQuery("What is your phone number?") {
		t.Fatal("expected phone-number question to be a contact query")
	}
	if IsContactQuery("What products do you sell?") {
		t.Fatal("did not expect product question to be a contact query")
	}
}

func TestFormatResponseNoContact(t *testing.T) {
	got := FormatResponse(Info{}, "what is your email")
	want := "I couldn't find any email addresses in the available content. Try asking for general contact information or check for a contact page."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFormatResponsePrefersAskedChannel(t *testing.T) {
	info := Info{HasContact: true, Emails: []string{"a@b.com"}, Phones: []string{"123-456-7890"}}
	got := FormatResponse(info, "what's your phone number")
	if got == "" || !contains(got, "123-456-7890") || contains(got, "a@b.com") {
		t.Fatalf("expected phone-only response, got %q", got)
	}
}

func TestFormatResponseAskedChannelNotFoundDoesNotLeakOtherChannel(t *testing.T) {
	info := Info{HasContact: true, Phones: []string{"123-456-7890"}}
	got := FormatResponse(info, "what's your email address")
	want := "I couldn't find any email addresses in the available content. Try asking for general contact information or check for a contact page."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
