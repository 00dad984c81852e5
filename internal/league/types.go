package league

// MatchStatus is the confirmation workflow state of a match.
type MatchStatus string

const (
	StatusPendingConfirmation MatchStatus = "PENDING_CONFIRMATION"
	StatusConfirmed           MatchStatus = "CONFIRMED"
	StatusRejected            MatchStatus = "REJECTED"
	StatusDisputed            MatchStatus = "DISPUTED"
)

// Terminal reports whether no further transitions are allowed from s.
func (s MatchStatus) Terminal() bool {
	return s == StatusConfirmed || s == StatusRejected || s == StatusDisputed
}

// Player is an identity-linked profile with its rating record.
type Player struct {
	ID          string `json:"id"`
	TelegramID  int64  `json:"telegram_id"`
	Name        string `json:"name"`
	Username    string `json:"username"`
	Rating      int    `json:"rating"`
	GamesPlayed int    `json:"games_played"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
}

// Pair is an unordered set of two distinct players with its own rating record.
type Pair struct {
	ID          string `json:"id"`
	Player1     string `json:"player1"`
	Player2     string `json:"player2"`
	Rating      int    `json:"rating"`
	GamesPlayed int    `json:"games_played"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
}

// Has reports whether playerID is one of the pair's members.
func (p Pair) Has(playerID string) bool {
	return p.Player1 == playerID || p.Player2 == playerID
}

// Members returns the pair's player ids.
func (p Pair) Members() []string {
	return []string{p.Player1, p.Player2}
}

// Match is one reported fixture between two pairs.
type Match struct {
	ID            string      `json:"id"`
	Date          string      `json:"date"`
	Time          string      `json:"time"`
	Status        MatchStatus `json:"status"`
	Pair1         string      `json:"pair1"`
	Pair2         string      `json:"pair2"`
	InitiatedBy   string      `json:"initiated_by"`
	ConfirmedBy   []string    `json:"confirmed_by"`
	Score         string      `json:"score"`
	DisputeReason string      `json:"dispute_reason,omitempty"`
}

// SetScore is one set's result, owned by its match and immutable once created.
type SetScore struct {
	ID         string `json:"id"`
	MatchID    string `json:"match"`
	SetNo      int    `json:"set_no"`
	P1         int    `json:"p1"`
	P2         int    `json:"p2"`
	WinnerPair string `json:"winner_pair"`
}

// RecordUpdate carries new rating-record values for a player or pair.
type RecordUpdate struct {
	Rating      int
	GamesPlayed int
	Wins        int
	Losses      int
}

// MatchUpdate carries the mutable match fields; nil pointers are left as is.
type MatchUpdate struct {
	Status        *MatchStatus
	ConfirmedBy   []string
	DisputeReason *string
}
