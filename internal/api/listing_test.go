package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowse(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/browse", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"chapters": []map[string]any{
				{"tag": "0001", "name": "Introduction", "ref": "1", "type": "chapter", "html": nil},
				{"tag": "0002", "name": "Conventions", "ref": "2", "type": "chapter"},
			},
		})
	})

	chapters, err := client.Browse(context.Background())
	require.NoError(t, err)
	require.Len(t, chapters, 2)
	assert.Equal(t, "Introduction", chapters[0].Name)
	assert.Equal(t, "2", chapters[1].Ref)
}

func TestSearchSendsQuery(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/search", r.URL.Path)
		assert.Equal(t, "Eilenberg swindle", r.URL.Query().Get("q"))
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{{"tag": "05BQ", "ref": "10.1.2", "type": "lemma"}},
		})
	})

	results, err := client.Search(context.Background(), "Eilenberg swindle")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "05BQ", results[0].Tag)
}

func TestIndex(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/", r.URL.Path)
		w.Write([]byte(`{"tags":[{"tag":"0001"}]}`))
	})

	tags, err := client.Index(context.Background())
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}

func TestListingDecodeError(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chapters":"nope"}`))
	})

	_, err := client.Browse(context.Background())
	assert.ErrorContains(t, err, "decode response")
}
