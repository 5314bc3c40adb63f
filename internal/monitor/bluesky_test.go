package monitor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlueskySearcher_Search(t *testing.T) {
	t.Run("parses posts", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/app.bsky.feed.searchPosts", r.URL.Path)
			assert.Equal(t, "etl", r.URL.Query().Get("q"))
			assert.Equal(t, "2", r.URL.Query().Get("limit"))

			w.Write([]byte(`{
				"posts": [
					{"uri": "at://did:plc:a/app.bsky.feed.post/1", "cid": "c1",
					 "author": {"handle": "alice.bsky.social"}, "record": {"text": "need etl"}, "repostCount": 0},
					{"uri": "at://did:plc:b/app.bsky.feed.post/2", "cid": "c2",
					 "author": {"handle": "bob.bsky.social"}, "record": {"text": "etl is hard"}, "repostCount": 4}
				]
			}`))
		}))
		defer server.Close()

		s := NewBlueskySearcher(BlueskyConfig{BaseURL: server.URL})
		posts, err := s.Search(context.Background(), "etl", 2)
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, "at://did:plc:a/app.bsky.feed.post/1", posts[0].ID)
		assert.Equal(t, "need etl", posts[0].Text)
		assert.Equal(t, "alice.bsky.social", posts[0].Author)
		assert.Equal(t, 4, posts[1].RetweetCount)
	})

	t.Run("stops without cursor", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.Write([]byte(`{"posts": [{"uri": "at://x/app.bsky.feed.post/1", "record": {"text": "a"}}]}`))
		}))
		defer server.Close()

		s := NewBlueskySearcher(BlueskyConfig{BaseURL: server.URL})
		posts, err := s.Search(context.Background(), "q", 50)
		require.NoError(t, err)
		assert.Len(t, posts, 1)
		assert.Equal(t, 1, calls)
	})

	t.Run("error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		s := NewBlueskySearcher(BlueskyConfig{BaseURL: server.URL})
		_, err := s.Search(context.Background(), "q", 5)
		assert.Error(t, err)
	})
}

func TestBlueskySearcher_Name(t *testing.T) {
	assert.Equal(t, "bluesky", NewBlueskySearcher(BlueskyConfig{}).Name())
}
