package models

import (
	"fmt"
	"strconv"
	"strings"
)

// IdentityKey derives the catalog key for an entry: the IMDb id when known,
// then "tmdb-<id>", then "trakt-<id>". The order is fixed so that the same
// identifiers always produce the same key.
func IdentityKey(ids ExternalIDs) (string, error) {
	switch {
	case ids.IMDB != "":
		return ids.IMDB, nil
	case ids.TMDB > 0:
		return "tmdb-" + strconv.Itoa(ids.TMDB), nil
	case ids.Trakt > 0:
		return "trakt-" + strconv.Itoa(ids.Trakt), nil
	}
	return "", ErrIdentityUnresolvable
}

// HasUsableIDs reports whether an upstream item can be resolved at all.
// Movies need an IMDb or TMDB id; shows may also be known by TVDB id.
func HasUsableIDs(contentType ContentType, ids ExternalIDs) bool {
	if ids.IMDB != "" || ids.TMDB > 0 {
		return true
	}
	return contentType == ContentTypeShow && ids.TVDB > 0
}

// NormalizeIMDBID turns "133093", "tt133093" or "TT0133093" into "tt0133093".
// Empty or zero ids return "".
func NormalizeIMDBID(id string) string {
	id = strings.TrimSpace(strings.ToLower(id))
	id = strings.TrimPrefix(id, "tt")
	n, err := strconv.Atoi(id)
	if err != nil || n <= 0 {
		return ""
	}
	return fmt.Sprintf("tt%07d", n)
}
