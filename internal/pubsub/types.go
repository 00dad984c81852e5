package pubsub

// Topics for lifecycle events.
const (
	TopicMatchReported  = "match-reported"
	TopicMatchConfirmed = "match-confirmed"
	TopicMatchRejected  = "match-rejected"
	TopicMatchDisputed  = "match-disputed"
)

// MatchEvent is the payload published for every lifecycle transition.
type MatchEvent struct {
	MatchID     string   `msgpack:"match_id"`
	Status      string   `msgpack:"status"`
	Pair1       string   `msgpack:"pair1"`
	Pair2       string   `msgpack:"pair2"`
	ActorID     string   `msgpack:"actor_id"`
	Score       string   `msgpack:"score"`
	ConfirmedBy []string `msgpack:"confirmed_by,omitempty"`
}
