package crawler

import "testing"

func TestIsBoilerplateTextFlagsNavigation(t *testing.T) {
	if !IsBoilerplateText("Home About Contact") {
		t.Error("expected nav breadcrumb text to be flagged boilerplate")
	}
	if IsBoilerplateText("Our team has shipped three major product releases this year.") {
		t.Error("did not expect real sentence to be flagged boilerplate")
	}
}

func TestIsBoilerplateTextFlagsRepetition(t *testing.T) {
	if !IsBoilerplateText("test test test test test") {
		t.Error("expected highly repetitive text to be flagged boilerplate")
	}
}

func TestHasGoodWordVariety(t *testing.T) {
	if HasGoodWordVariety([]string{"a", "a", "a"}) {
		t.Error("expected too-short word list to fail variety check")
	}
	if HasGoodWordVariety([]string{"the", "the", "the", "the", "the", "the"}) {
		t.Error("expected low-variety word list to fail")
	}
	if !HasGoodWordVariety([]string{"our", "shipping", "policy", "covers", "international", "orders"}) {
		t.Error("expected high-variety word list to pass")
	}
}
