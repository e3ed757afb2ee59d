package utils

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxTitleDistanceRatio is the share of the longer title that may differ before two titles stop matching
const maxTitleDistanceRatio = 0.3

var (
	titleFolder = cases.Fold()
	stripMarks  = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// NormalizeTitle lowercases a title, strips diacritics and punctuation,
// drops a leading article and collapses whitespace.
func NormalizeTitle(title string) string {
	stripped, _, err := transform.String(stripMarks, title)
	if err != nil {
		stripped = title
	}
	folded := titleFolder.String(stripped)

	words := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) > 1 {
		switch words[0] {
		case "the", "a", "an":
			words = words[1:]
		}
	}
	return strings.Join(words, " ")
}

// TitlesMatch reports whether two titles plausibly name the same work.
// An empty title never rules out a match.
func TitlesMatch(a, b string) bool {
	na, nb := NormalizeTitle(a), NormalizeTitle(b)
	if na == "" || nb == "" || na == nb {
		return true
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}

	longest := len([]rune(na))
	if n := len([]rune(nb)); n > longest {
		longest = n
	}
	distance := levenshtein.ComputeDistance(na, nb)
	return float64(distance) <= maxTitleDistanceRatio*float64(longest)
}

// HumanSize formats a byte count the way torrent listings display it
func HumanSize(bytes int64) string {
	if bytes <= 0 {
		return ""
	}
	return humanize.Bytes(uint64(bytes))
}

// ReleaseTitle cuts a release name down to its title part: everything before the
// year or the SxxEyy marker, with dots and underscores read as spaces.
// "The.Matrix.1999.1080p.BluRay" becomes "The Matrix".
func ReleaseTitle(name string) string {
	words := strings.Fields(strings.NewReplacer(".", " ", "_", " ").Replace(name))

	for i := 1; i < len(words); i++ {
		trimmed := strings.Trim(words[i], "()[]")
		if len(trimmed) == 4 && ExtractYear(trimmed) > 0 {
			return strings.Join(words[:i], " ")
		}
		if _, _, ok := ParseSeasonEpisode(words[i]); ok {
			return strings.Join(words[:i], " ")
		}
	}

	return strings.Join(words, " ")
}
