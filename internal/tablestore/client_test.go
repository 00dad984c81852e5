package tablestore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(server.URL, "test-key", "base-1")
	client.httpClient = server.Client()
	return client
}

func TestListFollowsPagination(t *testing.T) {
	var requests int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "/v0/base-1/players", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("offset") == "" {
			fmt.Fprintln(w, `{"records":[{"id":"rec1","fields":{"name":"A"}},{"id":"rec2","fields":{"name":"B"}}],"offset":"page2"}`)
		} else {
			assert.Equal(t, "page2", r.URL.Query().Get("offset"))
			fmt.Fprintln(w, `{"records":[{"id":"rec3","fields":{"name":"C"}}]}`)
		}
	})

	records, err := client.List(context.Background(), "players", ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, requests, "should have followed the pagination offset")
	require.Len(t, records, 3)
	assert.Equal(t, "rec3", records[2].ID)
	assert.Equal(t, "C", records[2].Fields.Str("name"))
}

func TestListSendsFilterAndSort(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "{telegram_id}=42", r.URL.Query().Get("filterByFormula"))
		assert.Equal(t, "rating", r.URL.Query().Get("sort[0][field]"))
		assert.Equal(t, "desc", r.URL.Query().Get("sort[0][direction]"))
		fmt.Fprintln(w, `{"records":[]}`)
	})

	_, err := client.List(context.Background(), "players", ListOptions{
		Filter: Eq("telegram_id", 42),
		Sort:   []SortField{{Field: "rating", Desc: true}},
	})
	require.NoError(t, err)
}

func TestListMaxRows(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"records":[{"id":"rec1"},{"id":"rec2"},{"id":"rec3"}],"offset":"more"}`)
	})

	records, err := client.List(context.Background(), "matches", ListOptions{MaxRows: 2})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestGet(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v0/base-1/players/rec9", r.URL.Path)
		fmt.Fprintln(w, `{"id":"rec9","fields":{"rating":1016}}`)
	})

	record, err := client.Get(context.Background(), "players", "rec9")
	require.NoError(t, err)
	assert.Equal(t, "rec9", record.ID)
	assert.Equal(t, 1016, record.Fields.Int("rating", 0))
}

func TestGetNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	_, err := client.Get(context.Background(), "players", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetNonOKStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.Get(context.Background(), "players", "rec1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestCreate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var payload recordsEnvelope
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Len(t, payload.Records, 1)
		assert.Equal(t, "Ivan", payload.Records[0].Fields.Str("name"))

		fmt.Fprintln(w, `{"records":[{"id":"recNew","fields":{"name":"Ivan"}}]}`)
	})

	records, err := client.Create(context.Background(), "players", []Fields{{"name": "Ivan"}})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "recNew", records[0].ID)
}

func TestUpdate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)

		var payload updateEnvelope
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Len(t, payload.Records, 2)
		assert.Equal(t, "recA", payload.Records[0].ID)

		fmt.Fprintln(w, `{"records":[{"id":"recA","fields":{"rating":1016}},{"id":"recB","fields":{"rating":984}}]}`)
	})

	updates := []RecordUpdate{
		{ID: "recA", Fields: Fields{"rating": 1016}},
		{ID: "recB", Fields: Fields{"rating": 984}},
	}
	records, err := client.Update(context.Background(), "players", updates)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 984, records[1].Fields.Int("rating", 0))
}

func TestSchemaCachesAndResolvesSynonyms(t *testing.T) {
	var schemaRequests int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		schemaRequests++
		assert.Equal(t, "/v0/meta/bases/base-1/tables", r.URL.Path)
		fmt.Fprintln(w, `{"tables":[
			{"id":"tbl1","name":"players","fields":[
				{"id":"fld1","name":"TG ID"},
				{"id":"fld2","name":"Display Name"},
				{"id":"fld3","name":"elo"},
				{"id":"fld4","name":"wins"}
			]},
			{"id":"tbl2","name":"pairs","fields":[{"id":"fld5","name":"Player 1"}]}
		]}`)
	})

	fm, err := client.Schema(context.Background(), "players")
	require.NoError(t, err)
	assert.Equal(t, "TG ID", fm.P("telegram_id"))
	assert.Equal(t, "Display Name", fm.P("name"))
	assert.Equal(t, "elo", fm.P("rating"))
	assert.Equal(t, "wins", fm.P("wins"))
	// Unmapped logical fields fall back to their own name.
	assert.Equal(t, "username", fm.P("username"))

	// Second lookup, other table: served from cache.
	pairs, err := client.Schema(context.Background(), "pairs")
	require.NoError(t, err)
	assert.Equal(t, "Player 1", pairs.P("player1"))
	assert.Equal(t, 1, schemaRequests)
}

func TestSchemaUnknownTable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"tables":[]}`)
	})

	_, err := client.Schema(context.Background(), "ghosts")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghosts")
}
