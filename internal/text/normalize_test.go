package text

import (
	"reflect"
	"testing"
)

func TestNormalize_Basic(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Confidential Information", "confidential information"},
		{"  Governing   Law.  ", "governing law"},
		{"“Smart quotes” and ‘apostrophes’", "smart quotes and apostrophes"},
		{"Résumé café", "resume cafe"},
		{"§ 5.2 Termination", "section 5 2 termination"},
		{"non-disclosure/confidentiality", "non disclosure confidentiality"},
		{"...!!!", ""},
	}

	for _, c := range cases {
		got := Normalize(c.in)
		if got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	in := "Recipient SHALL return or destroy all Confidential Information §3"
	first := Normalize(in)
	for i := 0; i < 5; i++ {
		if got := Normalize(in); got != first {
			t.Fatalf("Normalize not deterministic: %q vs %q", got, first)
		}
	}
}

func TestTokenize_DropsStopwordsAndShortTokens(t *testing.T) {
	got := Tokenize("The recipient shall return all of the IP to the owner")
	want := []string{"recipient", "shall", "return", "all", "ip", "owner"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestTokenize_KeepsNumericAndWhitelist(t *testing.T) {
	got := Tokenize("GDPR article 28 applies to IP in the EU")
	for _, required := range []string{"gdpr", "28", "ip", "eu"} {
		found := false
		for _, tok := range got {
			if tok == required {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Tokenize missing %q in %v", required, got)
		}
	}
}

func TestTokenize_EmptyInput(t *testing.T) {
	if got := Tokenize(""); len(got) != 0 {
		t.Errorf("Tokenize(\"\") = %v, want empty", got)
	}
	if got := Tokenize("   \t\n "); len(got) != 0 {
		t.Errorf("Tokenize(whitespace) = %v, want empty", got)
	}
}
