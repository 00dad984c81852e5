package league_test

import (
	"context"
	"testing"

	"github.com/Fandor1in/padel-miniapp/internal/config"
	"github.com/Fandor1in/padel-miniapp/internal/league"
	"github.com/Fandor1in/padel-miniapp/internal/tablestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTables = config.TableNames{
	Players:   "players",
	Pairs:     "pairs",
	Matches:   "matches",
	SetScores: "set_scores",
}

func TestGetPlayerMapsRecord(t *testing.T) {
	client := tablestore.NewMock()
	client.GetFunc = func(ctx context.Context, table, id string) (tablestore.Record, error) {
		assert.Equal(t, "players", table)
		assert.Equal(t, "recP1", id)
		return tablestore.Record{ID: "recP1", Fields: tablestore.Fields{
			"telegram_id":  float64(42),
			"name":         "Anna K",
			"username":     "annak",
			"rating":       float64(1016),
			"games_played": float64(3),
			"wins":         "2",
			"losses":       float64(1),
		}}, nil
	}

	store := league.New(client, testTables)
	player, err := store.GetPlayer(context.Background(), "recP1")
	require.NoError(t, err)
	require.NotNil(t, player)
	assert.Equal(t, int64(42), player.TelegramID)
	assert.Equal(t, "Anna K", player.Name)
	assert.Equal(t, 1016, player.Rating)
	assert.Equal(t, 2, player.Wins, "numeric strings are coerced")
	assert.Equal(t, 3, player.GamesPlayed)
}

func TestGetPlayerMissing(t *testing.T) {
	client := tablestore.NewMock()
	client.GetFunc = func(ctx context.Context, table, id string) (tablestore.Record, error) {
		return tablestore.Record{}, tablestore.ErrNotFound
	}

	store := league.New(client, testTables)
	player, err := store.GetPlayer(context.Background(), "recMissing")
	require.NoError(t, err)
	assert.Nil(t, player, "missing records map to nil, not an error")
}

func TestGetPlayerByTelegramIDFilters(t *testing.T) {
	client := tablestore.NewMock()
	client.ListFunc = func(ctx context.Context, table string, opts tablestore.ListOptions) ([]tablestore.Record, error) {
		assert.Equal(t, "{telegram_id}=42", opts.Filter)
		return []tablestore.Record{{ID: "recP1", Fields: tablestore.Fields{"telegram_id": float64(42)}}}, nil
	}

	store := league.New(client, testTables)
	player, err := store.GetPlayerByTelegramID(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, player)
	assert.Equal(t, "recP1", player.ID)
}

func TestFindPairQueriesBothOrderings(t *testing.T) {
	client := tablestore.NewMock()
	client.ListFunc = func(ctx context.Context, table string, opts tablestore.ListOptions) ([]tablestore.Record, error) {
		assert.Equal(t, "pairs", table)
		assert.Equal(t,
			"OR(AND({player1}='recA',{player2}='recB'),AND({player1}='recB',{player2}='recA'))",
			opts.Filter)
		return []tablestore.Record{{ID: "recPair1", Fields: tablestore.Fields{
			"player1": []any{"recB"},
			"player2": []any{"recA"},
			"rating":  float64(1000),
		}}}, nil
	}

	store := league.New(client, testTables)
	pair, err := store.FindPair(context.Background(), "recA", "recB")
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.Equal(t, "recPair1", pair.ID)
	assert.True(t, pair.Has("recA"))
	assert.True(t, pair.Has("recB"))
}

func TestCreateMatchWritesReferences(t *testing.T) {
	client := tablestore.NewMock()
	client.CreateFunc = func(ctx context.Context, table string, fields []tablestore.Fields) ([]tablestore.Record, error) {
		require.Len(t, fields, 1)
		assert.Equal(t, []string{"recPair1"}, fields[0]["pair1"])
		assert.Equal(t, []string{"recPair2"}, fields[0]["pair2"])
		assert.Equal(t, []string{"recP1"}, fields[0]["initiated_by"])
		assert.Equal(t, "PENDING_CONFIRMATION", fields[0]["status"])
		assert.Equal(t, "6-4 4-6 7-5", fields[0]["score"])
		return []tablestore.Record{{ID: "recMatch1", Fields: fields[0]}}, nil
	}

	store := league.New(client, testTables)
	match, err := store.CreateMatch(context.Background(), &league.Match{
		Status:      league.StatusPendingConfirmation,
		Pair1:       "recPair1",
		Pair2:       "recPair2",
		InitiatedBy: "recP1",
		Score:       "6-4 4-6 7-5",
	})
	require.NoError(t, err)
	assert.Equal(t, "recMatch1", match.ID)
	assert.Equal(t, "recPair1", match.Pair1)
}

func TestUpdateMatchPartialFields(t *testing.T) {
	client := tablestore.NewMock()
	client.UpdateFunc = func(ctx context.Context, table string, updates []tablestore.RecordUpdate) ([]tablestore.Record, error) {
		require.Len(t, updates, 1)
		assert.Equal(t, "recMatch1", updates[0].ID)
		assert.Equal(t, "CONFIRMED", updates[0].Fields["status"])
		assert.NotContains(t, updates[0].Fields, "dispute_reason")
		return nil, nil
	}

	store := league.New(client, testTables)
	status := league.StatusConfirmed
	err := store.UpdateMatch(context.Background(), "recMatch1", league.MatchUpdate{Status: &status})
	require.NoError(t, err)
	require.Len(t, client.UpdateCalls, 1)
}

func TestUpdateMatchNoFieldsIsNoop(t *testing.T) {
	client := tablestore.NewMock()
	store := league.New(client, testTables)

	err := store.UpdateMatch(context.Background(), "recMatch1", league.MatchUpdate{})
	require.NoError(t, err)
	assert.Empty(t, client.UpdateCalls)
}

func TestListSetScoresFiltersAndSorts(t *testing.T) {
	client := tablestore.NewMock()
	client.ListFunc = func(ctx context.Context, table string, opts tablestore.ListOptions) ([]tablestore.Record, error) {
		assert.Equal(t, "set_scores", table)
		assert.Equal(t, "{match}='recMatch1'", opts.Filter)
		require.Len(t, opts.Sort, 1)
		assert.Equal(t, "set_no", opts.Sort[0].Field)
		return []tablestore.Record{
			{ID: "recSet1", Fields: tablestore.Fields{"match": []any{"recMatch1"}, "set_no": float64(1), "p1": float64(6), "p2": float64(4), "winner_pair": []any{"recPair1"}}},
		}, nil
	}

	store := league.New(client, testTables)
	sets, err := store.ListSetScores(context.Background(), "recMatch1")
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, 1, sets[0].SetNo)
	assert.Equal(t, 6, sets[0].P1)
	assert.Equal(t, "recPair1", sets[0].WinnerPair)
}

func TestSchemaMappingIsApplied(t *testing.T) {
	// When the physical table uses variant column names, reads and writes
	// should go through the resolved mapping.
	client := tablestore.NewMock()
	client.SchemaFunc = func(ctx context.Context, table string) (*tablestore.FieldMap, error) {
		return tablestore.NewFieldMap(table, map[string]string{
			"telegram_id": "TG ID",
			"rating":      "elo",
		}), nil
	}
	client.ListFunc = func(ctx context.Context, table string, opts tablestore.ListOptions) ([]tablestore.Record, error) {
		assert.Equal(t, "{TG ID}=42", opts.Filter)
		return []tablestore.Record{{ID: "recP1", Fields: tablestore.Fields{"TG ID": float64(42), "elo": float64(1100)}}}, nil
	}

	store := league.New(client, testTables)
	player, err := store.GetPlayerByTelegramID(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, player)
	assert.Equal(t, int64(42), player.TelegramID)
	assert.Equal(t, 1100, player.Rating)
}
