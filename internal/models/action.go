package models

import (
	"encoding/json"
	"time"
)

// ProtocolVersion identifies the client action allow-list below.
// Changing ClientActionTypes requires bumping it.
const ProtocolVersion = 1

// ActionType names an application-defined intent
type ActionType string

const (
	// Actions a client may originate
	ActionRollDice   ActionType = "roll_dice"
	ActionEndTurn    ActionType = "end_turn"
	ActionDraftPick  ActionType = "draft_pick"
	ActionSkipDraft  ActionType = "skip_draft"
	ActionUseItem    ActionType = "use_item"
	ActionCastVote   ActionType = "cast_vote"
	ActionTradeOffer ActionType = "trade_offer"

	// Host-only actions
	ActionStartRound        ActionType = "start_round"
	ActionAdvanceDifficulty ActionType = "advance_difficulty"
	ActionResolveEvent      ActionType = "resolve_event"
	ActionAddLatePlayer     ActionType = "add_late_player"
)

// ClientActionTypes is the fixed set of action types a client may ever submit.
// Everything else is host-only.
var ClientActionTypes = map[ActionType]struct{}{
	ActionRollDice:   {},
	ActionEndTurn:    {},
	ActionDraftPick:  {},
	ActionSkipDraft:  {},
	ActionUseItem:    {},
	ActionCastVote:   {},
	ActionTradeOffer: {},
}

// IsClientAction reports whether t is on the client allow-list
func IsClientAction(t ActionType) bool {
	_, ok := ClientActionTypes[t]
	return ok
}

// Action is an opaque application intent. The sync core only looks at
// Type and TargetSlot.
type Action struct {
	// Type selects the reducer branch
	Type ActionType `json:"type"`

	// TargetSlot is the slot the action acts on behalf of, if any
	TargetSlot *int `json:"target_slot,omitempty"`

	// Payload is interpreted by the reducer only
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Targets returns a copy of a with TargetSlot set to slot
func (a Action) Targets(slot int) *Action {
	a.TargetSlot = &slot
	return &a
}

// ClientAction is one entry of a session's pending action queue
type ClientAction struct {
	// ID is assigned by the queue and used for acknowledgement
	ID string `json:"id"`

	// PlayerID is the declared submitter
	PlayerID string `json:"player_id"`

	// Action is the submitted intent
	Action *Action `json:"action"`

	// SubmittedAt is the backend arrival time
	SubmittedAt time.Time `json:"submitted_at"`
}
