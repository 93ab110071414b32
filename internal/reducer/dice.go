package reducer

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/KirkDiggler/partysync/internal/dice"
	"github.com/KirkDiggler/partysync/internal/models"
)

// Dice game phases. PhaseLobby is in the default pre-game set, so a session
// holding a lobby snapshot is not treated as a resumed game.
const (
	PhaseLobby     = "lobby"
	PhaseRolling   = "rolling"
	PhaseRoundOver = "round_over"
	PhaseFinished  = "finished"
)

const defaultSides = 6

// DiceState is the snapshot of the sample dice game. Scores are keyed by the
// slot number as a string.
type DiceState struct {
	Phase    string         `json:"phase"`
	Round    int            `json:"round"`
	Rounds   int            `json:"rounds,omitempty"`
	Turn     int            `json:"turn"`
	Rolled   bool           `json:"rolled"`
	Seats    []int          `json:"seats"`
	Scores   map[string]int `json:"scores"`
	LastRoll *DiceRoll      `json:"last_roll,omitempty"`
}

// DiceRoll records the most recent roll
type DiceRoll struct {
	Slot  int `json:"slot"`
	Value int `json:"value"`
}

// LatePlayerPayload is the payload of add_late_player
type LatePlayerPayload struct {
	Slot int `json:"slot"`
}

// DiceConfig holds configuration for the dice reducer
type DiceConfig struct {
	// Roller produces the roll values
	Roller dice.Roller

	// Sides of the die, defaults to 6
	Sides int

	// Rounds to play before the game finishes; zero plays until the
	// session is completed
	Rounds int
}

// Dice is a turn-based dice game. Seats take turns in join order; on its
// turn a seat rolls once and then ends its turn.
type Dice struct {
	roller dice.Roller
	sides  int
	rounds int
}

// NewDice creates a new dice reducer
func NewDice(cfg *DiceConfig) (*Dice, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Roller == nil {
		return nil, ErrNilRoller
	}

	sides := cfg.Sides
	if sides <= 0 {
		sides = defaultSides
	}

	return &Dice{
		roller: cfg.Roller,
		sides:  sides,
		rounds: cfg.Rounds,
	}, nil
}

// Initial seats every roster player in slot order
func (d *Dice) Initial(session *models.Session) (json.RawMessage, error) {
	state := &DiceState{
		Phase:  PhaseLobby,
		Rounds: d.rounds,
		Seats:  []int{},
		Scores: map[string]int{},
	}

	if session != nil {
		for _, player := range session.Players {
			state.Seats = append(state.Seats, player.Slot)
		}
		sort.Ints(state.Seats)
		for _, slot := range state.Seats {
			state.Scores[slotKey(slot)] = 0
		}
	}

	return json.Marshal(state)
}

// Apply implements Reducer
func (d *Dice) Apply(raw json.RawMessage, action *models.Action) (json.RawMessage, error) {
	if action == nil {
		return raw, nil
	}

	state, err := decodeDiceState(raw)
	if err != nil {
		return nil, err
	}

	var changed bool
	switch action.Type {
	case models.ActionStartRound:
		changed = d.startRound(state)
	case models.ActionRollDice:
		changed = d.roll(state, action.TargetSlot)
	case models.ActionEndTurn:
		changed = d.endTurn(state, action.TargetSlot)
	case models.ActionAddLatePlayer:
		var payload LatePlayerPayload
		if err := json.Unmarshal(action.Payload, &payload); err != nil {
			return raw, nil
		}
		changed = state.seat(payload.Slot)
	}

	if !changed {
		return raw, nil
	}

	return json.Marshal(state)
}

// LateJoin implements LateJoiner. A returning player keeps the score of
// the slot.
func (d *Dice) LateJoin(raw json.RawMessage, player *models.SessionPlayer) (json.RawMessage, error) {
	if player == nil {
		return raw, nil
	}

	state, err := decodeDiceState(raw)
	if err != nil {
		return nil, err
	}

	if !state.seat(player.Slot) {
		return raw, nil
	}

	return json.Marshal(state)
}

func (d *Dice) startRound(state *DiceState) bool {
	if state.Phase != PhaseLobby && state.Phase != PhaseRoundOver {
		return false
	}

	if len(state.Seats) == 0 {
		return false
	}

	state.Phase = PhaseRolling
	state.Round++
	state.Turn = state.Seats[0]
	state.Rolled = false
	return true
}

func (d *Dice) roll(state *DiceState, slot *int) bool {
	if state.Phase != PhaseRolling || slot == nil || *slot != state.Turn || state.Rolled {
		return false
	}

	value := d.roller.Roll(d.sides)
	state.Scores[slotKey(*slot)] += value
	state.LastRoll = &DiceRoll{Slot: *slot, Value: value}
	state.Rolled = true
	return true
}

func (d *Dice) endTurn(state *DiceState, slot *int) bool {
	if state.Phase != PhaseRolling || slot == nil || *slot != state.Turn || !state.Rolled {
		return false
	}

	state.Rolled = false

	next := -1
	for i, seat := range state.Seats {
		if seat == state.Turn && i+1 < len(state.Seats) {
			next = state.Seats[i+1]
			break
		}
	}

	if next >= 0 {
		state.Turn = next
		return true
	}

	// Last seat ended the round
	if state.Rounds > 0 && state.Round >= state.Rounds {
		state.Phase = PhaseFinished
	} else {
		state.Phase = PhaseRoundOver
	}
	return true
}

// seat adds slot at the end of the turn order
func (s *DiceState) seat(slot int) bool {
	if slot < 0 {
		return false
	}

	for _, seat := range s.Seats {
		if seat == slot {
			return false
		}
	}

	s.Seats = append(s.Seats, slot)
	if _, ok := s.Scores[slotKey(slot)]; !ok {
		s.Scores[slotKey(slot)] = 0
	}
	return true
}

// Winner returns the seat with the highest score, lowest slot on ties
func (s *DiceState) Winner() (int, bool) {
	if len(s.Seats) == 0 {
		return 0, false
	}

	best, bestScore := -1, -1
	for _, seat := range s.Seats {
		score := s.Scores[slotKey(seat)]
		if score > bestScore || (score == bestScore && seat < best) {
			best, bestScore = seat, score
		}
	}
	return best, true
}

// DecodeDiceState parses a published dice snapshot
func DecodeDiceState(raw json.RawMessage) (*DiceState, error) {
	return decodeDiceState(raw)
}

func decodeDiceState(raw json.RawMessage) (*DiceState, error) {
	state := &DiceState{}
	if err := json.Unmarshal(raw, state); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if state.Scores == nil {
		state.Scores = map[string]int{}
	}

	return state, nil
}

func slotKey(slot int) string {
	return strconv.Itoa(slot)
}
