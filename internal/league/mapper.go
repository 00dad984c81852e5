package league

import (
	"github.com/Fandor1in/padel-miniapp/internal/tablestore"
)

// Mapping between domain structs and the loosely-typed records of the store.
// All reads go through the tablestore coercion helpers; all field names go
// through the table's FieldMap so column naming variants are tolerated.

func playerFromRecord(rec tablestore.Record, fm *tablestore.FieldMap) *Player {
	return &Player{
		ID:          rec.ID,
		TelegramID:  rec.Fields.Int64(fm.P("telegram_id"), 0),
		Name:        rec.Fields.Str(fm.P("name")),
		Username:    rec.Fields.Str(fm.P("username")),
		Rating:      rec.Fields.Int(fm.P("rating"), 0),
		GamesPlayed: rec.Fields.Int(fm.P("games_played"), 0),
		Wins:        rec.Fields.Int(fm.P("wins"), 0),
		Losses:      rec.Fields.Int(fm.P("losses"), 0),
	}
}

func playerToFields(p *Player, fm *tablestore.FieldMap) tablestore.Fields {
	return tablestore.Fields{
		fm.P("telegram_id"):  p.TelegramID,
		fm.P("name"):         p.Name,
		fm.P("username"):     p.Username,
		fm.P("rating"):       p.Rating,
		fm.P("games_played"): p.GamesPlayed,
		fm.P("wins"):         p.Wins,
		fm.P("losses"):       p.Losses,
	}
}

func pairFromRecord(rec tablestore.Record, fm *tablestore.FieldMap) *Pair {
	return &Pair{
		ID:          rec.ID,
		Player1:     firstRef(rec.Fields, fm.P("player1")),
		Player2:     firstRef(rec.Fields, fm.P("player2")),
		Rating:      rec.Fields.Int(fm.P("rating"), 0),
		GamesPlayed: rec.Fields.Int(fm.P("games_played"), 0),
		Wins:        rec.Fields.Int(fm.P("wins"), 0),
		Losses:      rec.Fields.Int(fm.P("losses"), 0),
	}
}

func pairToFields(p *Pair, fm *tablestore.FieldMap) tablestore.Fields {
	return tablestore.Fields{
		fm.P("player1"):      []string{p.Player1},
		fm.P("player2"):      []string{p.Player2},
		fm.P("rating"):       p.Rating,
		fm.P("games_played"): p.GamesPlayed,
		fm.P("wins"):         p.Wins,
		fm.P("losses"):       p.Losses,
	}
}

func matchFromRecord(rec tablestore.Record, fm *tablestore.FieldMap) *Match {
	return &Match{
		ID:            rec.ID,
		Date:          rec.Fields.Str(fm.P("date")),
		Time:          rec.Fields.Str(fm.P("time")),
		Status:        MatchStatus(rec.Fields.Str(fm.P("status"))),
		Pair1:         firstRef(rec.Fields, fm.P("pair1")),
		Pair2:         firstRef(rec.Fields, fm.P("pair2")),
		InitiatedBy:   firstRef(rec.Fields, fm.P("initiated_by")),
		ConfirmedBy:   rec.Fields.StrSlice(fm.P("confirmed_by")),
		Score:         rec.Fields.Str(fm.P("score")),
		DisputeReason: rec.Fields.Str(fm.P("dispute_reason")),
	}
}

func matchToFields(m *Match, fm *tablestore.FieldMap) tablestore.Fields {
	fields := tablestore.Fields{
		fm.P("date"):         m.Date,
		fm.P("time"):         m.Time,
		fm.P("status"):       string(m.Status),
		fm.P("pair1"):        []string{m.Pair1},
		fm.P("pair2"):        []string{m.Pair2},
		fm.P("initiated_by"): []string{m.InitiatedBy},
		fm.P("score"):        m.Score,
	}
	if len(m.ConfirmedBy) > 0 {
		fields[fm.P("confirmed_by")] = m.ConfirmedBy
	}
	return fields
}

func setScoreFromRecord(rec tablestore.Record, fm *tablestore.FieldMap) SetScore {
	return SetScore{
		ID:         rec.ID,
		MatchID:    firstRef(rec.Fields, fm.P("match")),
		SetNo:      rec.Fields.Int(fm.P("set_no"), 0),
		P1:         rec.Fields.Int(fm.P("p1"), -1),
		P2:         rec.Fields.Int(fm.P("p2"), -1),
		WinnerPair: firstRef(rec.Fields, fm.P("winner_pair")),
	}
}

func setScoreToFields(s SetScore, fm *tablestore.FieldMap) tablestore.Fields {
	return tablestore.Fields{
		fm.P("match"):       []string{s.MatchID},
		fm.P("set_no"):      s.SetNo,
		fm.P("p1"):          s.P1,
		fm.P("p2"):          s.P2,
		fm.P("winner_pair"): []string{s.WinnerPair},
	}
}

func recordUpdateToFields(u RecordUpdate, fm *tablestore.FieldMap) tablestore.Fields {
	return tablestore.Fields{
		fm.P("rating"):       u.Rating,
		fm.P("games_played"): u.GamesPlayed,
		fm.P("wins"):         u.Wins,
		fm.P("losses"):       u.Losses,
	}
}

// firstRef reads a single-reference field; link columns come back as lists.
func firstRef(f tablestore.Fields, key string) string {
	refs := f.StrSlice(key)
	if len(refs) == 0 {
		return ""
	}
	return refs[0]
}
