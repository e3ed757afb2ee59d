package models

// TorrentSlot is the single release kept for one (language, quality) pair
type TorrentSlot struct {
	URL      string `json:"url"`      // magnet link or .torrent URL
	Seed     int    `json:"seed"`
	Peer     int    `json:"peer"`
	Size     int64  `json:"size"`     // bytes
	FileSize string `json:"filesize"` // human readable
	Provider string `json:"provider"`
}

// Torrents maps language -> quality -> slot
type Torrents map[string]map[string]TorrentSlot

// Get returns the slot for a (language, quality) pair
func (t Torrents) Get(language, quality string) (TorrentSlot, bool) {
	qualities, ok := t[language]
	if !ok {
		return TorrentSlot{}, false
	}
	slot, ok := qualities[quality]
	return slot, ok
}

// Set stores slot under (language, quality), replacing any previous slot
func (t Torrents) Set(language, quality string, slot TorrentSlot) {
	if t[language] == nil {
		t[language] = make(map[string]TorrentSlot)
	}
	t[language][quality] = slot
}

// Len returns the number of slots
func (t Torrents) Len() int {
	n := 0
	for _, qualities := range t {
		n += len(qualities)
	}
	return n
}

// RawTorrent is one release as listed by a torrent index, before resolution
type RawTorrent struct {
	IMDBID   string // normalised to the "tt" form
	Title    string // show or movie title as the index reports it
	Year     int
	Season   int // shows only
	Episode  int // shows only
	Language string
	Quality  string
	Seed     int
	Peer     int
	Size     int64
	FileSize string
	URL      string
	Provider string
}

// Slot converts the raw release into a torrent slot
func (r RawTorrent) Slot() TorrentSlot {
	return TorrentSlot{
		URL:      r.URL,
		Seed:     r.Seed,
		Peer:     r.Peer,
		Size:     r.Size,
		FileSize: r.FileSize,
		Provider: r.Provider,
	}
}
