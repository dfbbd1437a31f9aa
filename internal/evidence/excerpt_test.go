package evidence

import (
	"strings"
	"testing"

	"github.com/clausebind/clausebind/internal/lexicon"
	"github.com/clausebind/clausebind/internal/model"
	"github.com/clausebind/clausebind/internal/text"
)

func testBuilder() *Builder {
	return NewBuilder(lexicon.Default(), model.DefaultThresholds())
}

// longClause is deliberately longer than the excerpt budget, with distinct
// topical regions so anchors land in different places.
var longClause = strings.Join([]string{
	"1. Confidentiality. The Receiving Party agrees to hold all Confidential Information in strict confidence and to use it solely for the Purpose.",
	"The Receiving Party shall restrict disclosure of Confidential Information to its employees and advisors who have a need to know.",
	"2. Return of Materials. Upon written request of the Disclosing Party, the Receiving Party shall promptly return or destroy all documents and materials containing Confidential Information, including all copies thereof.",
	"3. Term. The obligations of this Agreement shall survive termination for a period of five (5) years from the date of disclosure.",
	"4. Remedies. The Receiving Party acknowledges that unauthorized disclosure may cause irreparable harm and that the Disclosing Party shall be entitled to seek injunctive relief in addition to all other remedies available at law or in equity.",
}, " ")

func TestBuild_ShortClauseReturnedWhole(t *testing.T) {
	b := testBuilder()
	short := "This Agreement is governed by the laws of Sweden."
	if got := b.Build(short, "governing law"); got != short {
		t.Errorf("Build(short) = %q, want clause verbatim", got)
	}
}

func TestBuild_RespectsBudgetAndIsVerbatim(t *testing.T) {
	b := testBuilder()
	th := model.DefaultThresholds()

	got := b.Build(longClause, "return or destruction of materials")
	if got == "" {
		t.Fatal("Build returned empty excerpt")
	}
	if len([]rune(got)) > th.ExcerptMaxChars {
		t.Errorf("excerpt length %d exceeds budget %d", len([]rune(got)), th.ExcerptMaxChars)
	}
	if !strings.Contains(longClause, got) {
		t.Error("excerpt is not literally present in the clause text")
	}
	if !strings.Contains(strings.ToLower(got), "return") {
		t.Errorf("excerpt not centered on anchor topic: %q", got)
	}
}

func TestBuild_AnchorSelectsRegion(t *testing.T) {
	b := testBuilder()

	remedies := b.Build(longClause, "remedies and injunctive relief")
	if !strings.Contains(strings.ToLower(remedies), "injunctive") {
		t.Errorf("remedies anchor missed its region: %q", remedies)
	}

	survival := b.Build(longClause, "survival of obligations")
	if !strings.Contains(strings.ToLower(survival), "survive") {
		t.Errorf("survival anchor missed its region: %q", survival)
	}
}

func TestBuild_FallsBackToLeadingSlice(t *testing.T) {
	b := testBuilder()
	got := b.Build(longClause, "zebra xylophone quixotic")
	if got == "" {
		t.Fatal("Build returned empty excerpt on fallback")
	}
	if !strings.HasPrefix(longClause, got[:20]) {
		t.Errorf("fallback excerpt should come from the head of the clause, got %q", got)
	}
}

func TestBuildUnique_DistinctExcerptsForSameClause(t *testing.T) {
	b := testBuilder()
	th := model.DefaultThresholds()

	first := b.BuildUnique(longClause, "confidentiality obligations", nil)
	second := b.BuildUnique(longClause, "confidentiality obligations", []string{first})

	if first == "" || second == "" {
		t.Fatal("expected two non-empty excerpts")
	}
	if overlap := text.OverlapRatio(first, second); overlap > th.ExcerptOverlapMax {
		t.Errorf("excerpt overlap %.2f exceeds %.2f:\n first: %q\n second: %q",
			overlap, th.ExcerptOverlapMax, first, second)
	}
	for _, e := range []string{first, second} {
		if !strings.Contains(longClause, e) {
			t.Errorf("excerpt not literally present: %q", e)
		}
	}
}

func TestBuildUnique_LastResortReturnsSomething(t *testing.T) {
	b := testBuilder()
	// Exclude the entire clause: every window collides, the builder must
	// still return a usable excerpt rather than nothing.
	got := b.BuildUnique(longClause, "confidential information", []string{longClause})
	if got == "" {
		t.Error("expected last-resort excerpt, got empty string")
	}
}

func TestBuild_Deterministic(t *testing.T) {
	b := testBuilder()
	first := b.Build(longClause, "remedies for breach")
	for i := 0; i < 5; i++ {
		if got := b.Build(longClause, "remedies for breach"); got != first {
			t.Fatalf("Build not deterministic: %q vs %q", got, first)
		}
	}
}
