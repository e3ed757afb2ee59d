package utils

import (
	"bufio"
	"os"
	"strings"
	"unicode"
)

// DefaultBlacklistTerms are release tags of theatre recordings that never make it into the catalog
var DefaultBlacklistTerms = []string{"CAM", "HDCAM", "TS", "HDTS", "TELESYNC", "TELECINE", "SCREENER"}

// Blacklist holds release terms used to filter scraped torrents.
// Terms match whole words of a release title, case-insensitively.
type Blacklist struct {
	terms [][]string
}

// NewBlacklist builds a blacklist from terms; blank terms are ignored
func NewBlacklist(terms []string) *Blacklist {
	b := &Blacklist{}
	for _, term := range terms {
		if tokens := tokenize(term); len(tokens) > 0 {
			b.terms = append(b.terms, tokens)
		}
	}
	return b
}

// LoadBlacklist loads blacklist terms from a file, one per line, "#" starts a comment.
// A missing file yields the default terms.
func LoadBlacklist(path string) (*Blacklist, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return NewBlacklist(DefaultBlacklistTerms), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var terms []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		term := strings.TrimSpace(scanner.Text())
		if term != "" && !strings.HasPrefix(term, "#") {
			terms = append(terms, term)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return NewBlacklist(terms), nil
}

// IsBlacklisted checks if a release title contains any blacklist term
// Returns (isBlacklisted, matchedTerm)
func (b *Blacklist) IsBlacklisted(title string) (bool, string) {
	if b == nil {
		return false, ""
	}

	words := tokenize(title)
	for _, term := range b.terms {
		if containsSequence(words, term) {
			return true, strings.Join(term, " ")
		}
	}

	return false, ""
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func containsSequence(words, seq []string) bool {
	for i := 0; i+len(seq) <= len(words); i++ {
		match := true
		for j := range seq {
			if words[i+j] != seq[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
