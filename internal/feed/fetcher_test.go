package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/datallboy/gocast/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const podcastRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Ward</title>
    <item>
      <title>Ward 1.3</title>
      <guid>c</guid>
      <enclosure url="https://cdn.example.com/ward/1-3.mp3?src=rss" length="300" type="audio/mpeg"/>
    </item>
    <item>
      <title>Ward 1.2</title>
      <guid>b</guid>
      <enclosure url="https://cdn.example.com/ward/1-2.mp3" length="200" type="audio/mpeg"/>
    </item>
    <item>
      <title>Ward 1.1</title>
      <guid>a</guid>
      <enclosure url="https://cdn.example.com/ward/1-1.mp3" length="100" type="audio/mpeg"/>
    </item>
  </channel>
</rss>`

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "gocast-test", r.Header.Get("User-Agent"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_ParsesItemsInFeedOrder(t *testing.T) {
	srv := serve(t, http.StatusOK, podcastRSS)

	items, err := NewFetcher(srv.Client(), "gocast-test", nil).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "Ward 1.3", items[0].Title)
	assert.Equal(t, "Ward 1.1", items[2].Title)

	u, err := items[0].DownloadURL()
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/ward/1-3.mp3?src=rss", u)
	assert.Equal(t, int64(300), items[0].Enclosures[0].Length)
	assert.Equal(t, "audio/mpeg", items[0].Enclosures[0].Type)
}

func TestFetch_NonOKStatusIsFetchError(t *testing.T) {
	srv := serve(t, http.StatusNotFound, "missing")

	_, err := NewFetcher(srv.Client(), "gocast-test", nil).Fetch(context.Background(), srv.URL)

	var fe *domain.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusNotFound, fe.StatusCode)
	assert.True(t, domain.IsFatal(err))
}

func TestFetch_GarbageBodyIsParseError(t *testing.T) {
	srv := serve(t, http.StatusOK, "this is not a feed")

	_, err := NewFetcher(srv.Client(), "gocast-test", nil).Fetch(context.Background(), srv.URL)

	var pe *domain.ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestFetch_TransportErrorIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewFetcher(nil, "", nil).Fetch(context.Background(), url)

	var fe *domain.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Error(t, fe.Err)
}

func TestLoadItems_RoundTripsManifest(t *testing.T) {
	manifest := `[
	  {"title": "A", "enclosures": ["https://host/a.mp3"]},
	  {"title": "B", "enclosures": [{"url": "https://host/b.m4a"}]}
	]`

	items, err := LoadItems(strings.NewReader(manifest))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "https://host/a.mp3", items[0].Enclosures[0].URL)
	assert.Equal(t, "https://host/b.m4a", items[1].Enclosures[0].URL)

	var sb strings.Builder
	require.NoError(t, WriteItems(&sb, items))

	again, err := LoadItems(strings.NewReader(sb.String()))
	require.NoError(t, err)
	assert.Equal(t, items, again)
}

func TestLoadItems_InvalidJSON(t *testing.T) {
	_, err := LoadItems(strings.NewReader("{"))

	var pe *domain.ParseError
	assert.True(t, errors.As(err, &pe))
}
