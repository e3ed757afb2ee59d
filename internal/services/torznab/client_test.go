package torznab

import (
	"context"
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amaumene/catalogr/internal/config"
	"github.com/amaumene/catalogr/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom" xmlns:torznab="http://torznab.com/schemas/2015/feed">
  <channel>
    <title>Test Indexer</title>
    <item>
      <title>The.Matrix.1999.1080p.BluRay.x264</title>
      <guid>https://example.com/details/1</guid>
      <enclosure url="https://example.com/download/1.torrent" length="8589934592" type="application/x-bittorrent"/>
      <torznab:attr name="seeders" value="120"/>
      <torznab:attr name="peers" value="140"/>
      <torznab:attr name="imdbid" value="0133093"/>
      <torznab:attr name="magneturl" value="magnet:?xt=urn:btih:ABC"/>
    </item>
    <item>
      <title>Test Show S01E01 720p WEB-DL</title>
      <guid>https://example.com/details/2</guid>
      <torznab:attr name="size" value="2147483648"/>
      <torznab:attr name="seeders" value="15"/>
      <torznab:attr name="season" value="1"/>
      <torznab:attr name="episode" value="1"/>
      <torznab:attr name="infohash" value="def456"/>
    </item>
    <item>
      <title>Other Show S03E07 1080p WEB-DL</title>
      <enclosure url="https://example.com/download/3.torrent" length="1073741824" type="application/x-bittorrent"/>
    </item>
    <item>
      <title>No Link 2020 720p</title>
    </item>
  </channel>
</rss>`

func newTestClient(t *testing.T, contentType string, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger, _ := test.NewNullLogger()
	client, err := NewClient(&config.Config{
		TorznabURL:  server.URL,
		TorznabKey:  "secret",
		TorznabType: contentType,
	}, resty.New().SetTimeout(5*time.Second), logger)
	require.NoError(t, err)
	return client
}

func TestXMLParsing(t *testing.T) {
	var response Response
	require.NoError(t, xml.Unmarshal([]byte(feedXML), &response))

	assert.Equal(t, "Test Indexer", response.Channel.Title)
	require.Len(t, response.Channel.Items, 4)

	movie := response.Channel.Items[0]
	assert.Equal(t, "0133093", GetAttributeValue(movie, "imdbid"))
	assert.Equal(t, int64(8589934592), movie.Enclosure.Length)
	assert.Nil(t, GetAttributeInt(movie, "season"))

	episode := response.Channel.Items[1]
	require.NotNil(t, GetAttributeInt(episode, "season"))
	assert.Equal(t, 1, *GetAttributeInt(episode, "season"))
	assert.Equal(t, int64(2147483648), GetAttributeInt64(episode, "size"))
	assert.Equal(t, int64(0), GetAttributeInt64(episode, "missing"))
}

func TestNewClient_RequiresURL(t *testing.T) {
	logger, _ := test.NewNullLogger()
	_, err := NewClient(&config.Config{}, resty.New(), logger)
	assert.Error(t, err)
}

func TestListPage_Movies(t *testing.T) {
	client := newTestClient(t, "movie", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api", r.URL.Path)
		assert.Equal(t, "movie", r.URL.Query().Get("t"))
		assert.Equal(t, "2000", r.URL.Query().Get("cat"))
		assert.Equal(t, "100", r.URL.Query().Get("offset"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		assert.Equal(t, "secret", r.URL.Query().Get("apikey"))
		w.Write([]byte(feedXML))
	})

	assert.Equal(t, "torznab", client.Name())
	assert.Equal(t, models.ContentTypeMovie, client.ContentType())

	releases, err := client.ListPage(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, releases, 3)

	matrix := releases[0]
	assert.Equal(t, "tt0133093", matrix.IMDBID)
	assert.Equal(t, "The Matrix", matrix.Title)
	assert.Equal(t, 1999, matrix.Year)
	assert.Equal(t, models.Quality1080p, matrix.Quality)
	assert.Equal(t, 120, matrix.Seed)
	assert.Equal(t, 140, matrix.Peer)
	assert.Equal(t, int64(8589934592), matrix.Size)
	assert.Equal(t, "magnet:?xt=urn:btih:ABC", matrix.URL)
	assert.Equal(t, models.LanguageEnglish, matrix.Language)
	assert.Equal(t, models.ProviderTorznab, matrix.Provider)
	assert.Zero(t, matrix.Season)
}

func TestListPage_Shows(t *testing.T) {
	client := newTestClient(t, "show", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tvsearch", r.URL.Query().Get("t"))
		assert.Equal(t, "0", r.URL.Query().Get("offset"))
		w.Write([]byte(feedXML))
	})

	releases, err := client.ListPage(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, releases, 3)

	first := releases[1]
	assert.Equal(t, "Test Show", first.Title)
	assert.Equal(t, 1, first.Season)
	assert.Equal(t, 1, first.Episode)
	assert.Equal(t, "magnet:?xt=urn:btih:DEF456", first.URL)
	assert.Equal(t, models.Quality720p, first.Quality)

	// season and episode taken from the release name when the attributes are missing
	second := releases[2]
	assert.Equal(t, "Other Show", second.Title)
	assert.Equal(t, 3, second.Season)
	assert.Equal(t, 7, second.Episode)
	assert.Equal(t, "https://example.com/download/3.torrent", second.URL)
	assert.Equal(t, int64(1073741824), second.Size)
}

func TestListPage_Error(t *testing.T) {
	client := newTestClient(t, "movie", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.ListPage(context.Background(), 1)
	assert.Error(t, err)
}
