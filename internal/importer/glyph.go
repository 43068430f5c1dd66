package importer

import (
	"hash/fnv"
	"strings"
)

// maxGlyphRunes bounds the decorative glyph, measured in runes so multi-byte
// emoji are never cut mid-character.
const maxGlyphRunes = 16

// GlyphResolver assigns a decorative glyph to a quiz. Both lookup tables are
// injected so tests can substitute deterministic fixtures.
type GlyphResolver struct {
	tagGlyphs map[string]string
	fallback  []string
}

// NewGlyphResolver builds a resolver from a tag→glyph table and a fallback
// list. Tag keys are matched case-insensitively.
func NewGlyphResolver(tagGlyphs map[string]string, fallback []string) *GlyphResolver {
	normalized := make(map[string]string, len(tagGlyphs))
	for tag, glyph := range tagGlyphs {
		normalized[strings.ToLower(strings.TrimSpace(tag))] = glyph
	}
	return &GlyphResolver{tagGlyphs: normalized, fallback: fallback}
}

// DefaultGlyphResolver returns the production tag table and fallback list.
func DefaultGlyphResolver() *GlyphResolver {
	return NewGlyphResolver(
		map[string]string{
			"love":        "❤️",
			"friendship":  "🤝",
			"personality": "🧠",
			"career":      "💼",
			"money":       "💰",
			"fortune":     "🔮",
			"zodiac":      "🌙",
			"iq":          "🧩",
			"health":      "🌿",
			"travel":      "✈️",
			"food":        "🍜",
			"game":        "🎮",
		},
		[]string{"✨", "🎲", "🎯", "🌟", "🍀", "🔥", "🌈", "🎪"},
	)
}

// Resolve picks the glyph for a quiz:
//  1. a non-empty explicit glyph wins, truncated to 16 runes;
//  2. otherwise the first tag that matches the tag table wins;
//  3. otherwise a hash of the slug indexes the fallback list.
//
// Hashing the slug (never randomness, never the mutable title) keeps repeated
// imports of the same quiz visibly idempotent to the author.
func (g *GlyphResolver) Resolve(explicit string, tags []string, slug string) string {
	if trimmed := strings.TrimSpace(explicit); trimmed != "" {
		return truncateRunes(trimmed, maxGlyphRunes)
	}

	for _, tag := range tags {
		if glyph, ok := g.tagGlyphs[strings.ToLower(strings.TrimSpace(tag))]; ok {
			return glyph
		}
	}

	if len(g.fallback) == 0 {
		return ""
	}
	h := fnv.New32a()
	h.Write([]byte(slug))
	return g.fallback[int(h.Sum32())%len(g.fallback)]
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
