package tablestore

import (
	"strings"

	"github.com/charmbracelet/log"
)

// fieldSynonyms lists the known naming variants for ambiguous columns. The
// store's tables were created by hand at different times, so the same logical
// field can appear under different names across deployments.
var fieldSynonyms = map[string][]string{
	"telegram_id":    {"tg_id", "external_user_id", "telegram_user_id", "user_id"},
	"name":           {"display_name", "full_name"},
	"username":       {"tg_username", "handle"},
	"rating":         {"elo", "elo_rating", "points"},
	"games_played":   {"games", "matches_played"},
	"wins":           {"matches_won", "won"},
	"losses":         {"matches_lost", "lost"},
	"player1":        {"player_1", "first_player"},
	"player2":        {"player_2", "second_player"},
	"pair1":          {"pair_1", "my_pair"},
	"pair2":          {"pair_2", "opponent_pair"},
	"initiated_by":   {"reporter", "created_by_player"},
	"confirmed_by":   {"confirmations", "confirmed_players"},
	"dispute_reason": {"reason", "rejection_reason"},
	"set_no":         {"set_number", "set"},
	"winner_pair":    {"winner", "set_winner"},
	"match":          {"match_id", "parent_match"},
}

// FieldMap resolves logical field names to the physical column names of one
// table.
type FieldMap struct {
	table    string
	physical map[string]string
}

// NewFieldMap builds a FieldMap from an explicit logical-to-physical mapping,
// bypassing schema discovery. Used for configured overrides and in tests.
func NewFieldMap(table string, physical map[string]string) *FieldMap {
	return &FieldMap{table: table, physical: physical}
}

// P returns the physical name for a logical field. Unmapped fields fall back
// to the logical name itself, which is the common case for tables that follow
// the canonical naming.
func (m *FieldMap) P(logical string) string {
	if m == nil {
		return logical
	}
	if name, ok := m.physical[logical]; ok {
		return name
	}
	return logical
}

// buildFieldMap matches a table's actual columns against the logical schema.
func buildFieldMap(table string, fields []fieldMeta) *FieldMap {
	byNorm := make(map[string]string, len(fields))
	for _, f := range fields {
		byNorm[normalizeFieldName(f.Name)] = f.Name
	}

	physical := make(map[string]string)
	for logical, alts := range fieldSynonyms {
		candidates := append([]string{logical}, alts...)
		for _, candidate := range candidates {
			if name, ok := byNorm[normalizeFieldName(candidate)]; ok {
				physical[logical] = name
				break
			}
		}
		if _, ok := physical[logical]; !ok {
			log.Debug("No physical column matched logical field", "table", table, "field", logical)
		}
	}
	return &FieldMap{table: table, physical: physical}
}

// normalizeFieldName lowercases and strips separators so that "Telegram ID",
// "telegram_id" and "telegram-id" all compare equal.
func normalizeFieldName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r == ' ' || r == '_' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
