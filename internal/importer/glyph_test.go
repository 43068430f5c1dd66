package importer

import (
	"strings"
	"testing"
)

func testResolver() *GlyphResolver {
	return NewGlyphResolver(
		map[string]string{"Love": "❤️", "career": "💼"},
		[]string{"✨", "🎲", "🎯"},
	)
}

func TestResolveExplicitGlyphWins(t *testing.T) {
	g := testResolver()

	got := g.Resolve("  🚀  ", []string{"love"}, "rocket-quiz")
	if got != "🚀" {
		t.Fatalf("Resolve() = %q, want explicit glyph %q", got, "🚀")
	}
}

func TestResolveExplicitGlyphTruncatedToSixteenRunes(t *testing.T) {
	g := testResolver()

	long := strings.Repeat("🎉", 20)
	got := g.Resolve(long, nil, "party")
	if runes := []rune(got); len(runes) != 16 {
		t.Fatalf("Resolve() returned %d runes, want 16", len(runes))
	}
	if !strings.HasPrefix(long, got) {
		t.Fatalf("Resolve() = %q is not a prefix of the input", got)
	}
}

func TestResolveTagMatchIsCaseInsensitive(t *testing.T) {
	g := testResolver()

	if got := g.Resolve("", []string{"LOVE"}, "some-quiz"); got != "❤️" {
		t.Fatalf("Resolve() = %q, want tag glyph %q", got, "❤️")
	}
	if got := g.Resolve("", []string{" Career "}, "some-quiz"); got != "💼" {
		t.Fatalf("Resolve() = %q, want tag glyph %q", got, "💼")
	}
}

func TestResolveFirstMatchingTagWins(t *testing.T) {
	g := testResolver()

	got := g.Resolve("", []string{"unknown", "career", "love"}, "some-quiz")
	if got != "💼" {
		t.Fatalf("Resolve() = %q, want first matching tag glyph %q", got, "💼")
	}
}

func TestResolveFallbackIsDeterministic(t *testing.T) {
	g := testResolver()

	first := g.Resolve("", []string{"no-match"}, "stable-slug")
	second := g.Resolve("", []string{"no-match"}, "stable-slug")
	if first != second {
		t.Fatalf("Resolve() not deterministic: %q then %q", first, second)
	}

	found := false
	for _, f := range []string{"✨", "🎲", "🎯"} {
		if first == f {
			found = true
		}
	}
	if !found {
		t.Fatalf("Resolve() = %q, not a member of the fallback list", first)
	}
}

func TestResolveEmptyFallbackList(t *testing.T) {
	g := NewGlyphResolver(nil, nil)

	if got := g.Resolve("", nil, "anything"); got != "" {
		t.Fatalf("Resolve() = %q, want empty string", got)
	}
}
