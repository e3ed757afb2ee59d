package controllers

import "github.com/amaumene/catalogr/internal/models"

// ResolveTorrent decides whether candidate should take the (language, quality) slot held by existing.
// The better-seeded release wins; on a seed tie only the same URL replaces (to refresh its counts).
func ResolveTorrent(existing, candidate *models.TorrentSlot) bool {
	switch {
	case candidate == nil:
		return false
	case existing == nil:
		return true
	case candidate.Seed != existing.Seed:
		return candidate.Seed > existing.Seed
	default:
		return candidate.URL == existing.URL
	}
}

// MergeTorrents combines two torrent maps slot by slot. Neither input is modified.
// Two nil maps merge to nil.
func MergeTorrents(existing, candidate models.Torrents) models.Torrents {
	merged, _ := mergeTorrents(existing, candidate)
	return merged
}

// mergeTorrents is MergeTorrents that also counts the candidate slots that changed the result
func mergeTorrents(existing, candidate models.Torrents) (models.Torrents, int) {
	if existing == nil && candidate == nil {
		return nil, 0
	}

	merged := make(models.Torrents, len(existing))
	for lang, qualities := range existing {
		for quality, slot := range qualities {
			merged.Set(lang, quality, slot)
		}
	}

	changed := 0
	for lang, qualities := range candidate {
		for quality, slot := range qualities {
			if offerTorrent(merged, lang, quality, slot) {
				changed++
			}
		}
	}

	return merged, changed
}

// offerTorrent stores slot in t when it wins against the slot already held for the pair.
// It reports whether the stored slot changed.
func offerTorrent(t models.Torrents, language, quality string, slot models.TorrentSlot) bool {
	current, held := t.Get(language, quality)
	var existing *models.TorrentSlot
	if held {
		existing = &current
	}
	if !ResolveTorrent(existing, &slot) {
		return false
	}
	t.Set(language, quality, slot)
	return !held || current != slot
}

// mergeEpisodes merges the candidate episode list into the stored one by (season, episode).
// Stored-only episodes are kept, watched flags are sticky and the result is sorted.
func mergeEpisodes(existing, candidate []models.Episode) []models.Episode {
	index := make(map[models.EpisodeKey]int, len(existing)+len(candidate))
	merged := make([]models.Episode, 0, len(existing)+len(candidate))

	for _, ep := range existing {
		index[ep.Key()] = len(merged)
		merged = append(merged, ep)
	}

	for _, ep := range candidate {
		i, ok := index[ep.Key()]
		if !ok {
			index[ep.Key()] = len(merged)
			merged = append(merged, ep)
			continue
		}

		stored := merged[i]
		ep.Torrents = MergeTorrents(stored.Torrents, ep.Torrents)
		ep.Watched = ep.Watched || stored.Watched
		merged[i] = ep
	}

	models.SortEpisodes(merged)
	return merged
}
