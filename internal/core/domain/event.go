package domain

// Event action names, matching the wire-level attribute vocabulary.
const (
	ActionInstantiate      = "instantiate"
	ActionDeposit          = "deposit"
	ActionAuthorizeSpender = "authorize_spender"
	ActionRevokeSpender    = "revoke_spender"
	ActionSpendFrom        = "spend_from"
)

// Attribute is a single key-value pair of an event. Attribute order is part
// of the event, so events carry a slice rather than a map.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Event describes one accepted mutating request for external indexing.
// Events are emitted after commit, fire-and-forget.
type Event struct {
	Action     string      `json:"action"`
	Attributes []Attribute `json:"attributes"`
}

// NewEvent builds an event from alternating key/value strings.
func NewEvent(action string, kv ...string) Event {
	attrs := make([]Attribute, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		attrs = append(attrs, Attribute{Key: kv[i], Value: kv[i+1]})
	}
	return Event{Action: action, Attributes: attrs}
}
