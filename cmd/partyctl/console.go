package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/KirkDiggler/partysync/internal/models"
	"github.com/KirkDiggler/partysync/internal/reducer"
	"github.com/KirkDiggler/partysync/internal/services/dispatch"
	"github.com/KirkDiggler/partysync/internal/services/participant"
)

// console turns typed commands into participant calls
type console struct {
	participant *participant.Participant
	out         io.Writer
}

// run executes one command line and reports whether to quit
func (c *console) run(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	p := c.participant
	var err error

	switch fields[0] {
	case "start":
		err = p.StartGame(ctx)
	case "roll":
		err = c.dispatch(ctx, models.Action{Type: models.ActionRollDice}.Targets(p.Slot()))
	case "end":
		err = c.dispatch(ctx, models.Action{Type: models.ActionEndTurn}.Targets(p.Slot()))
	case "next":
		err = c.dispatch(ctx, &models.Action{Type: models.ActionStartRound})
	case "ready":
		err = p.SetReady(ctx, true)
	case "kick":
		if len(fields) < 2 {
			err = errors.New("usage: kick <player>")
			break
		}
		err = p.Kick(ctx, fields[1])
	case "state":
		fmt.Fprintln(c.out, describeState(p.State()))
	case "leave":
		err = p.Leave(ctx)
		if err == nil {
			return true
		}
	case "quit":
		return true
	default:
		err = fmt.Errorf("unknown command %q", fields[0])
	}

	if err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
	}
	return false
}

func (c *console) dispatch(ctx context.Context, action *models.Action) error {
	out, err := c.participant.Dispatch(ctx, action)
	if err != nil {
		return err
	}

	c.report(out)
	return nil
}

// report tells the player when the local allow-list or slot check refused
// an action
func (c *console) report(out *dispatch.DispatchOutput) {
	if out.Dropped {
		fmt.Fprintln(c.out, "action not allowed")
	}
}

// describeState renders a dice snapshot on one line
func describeState(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "no state yet"
	}

	state, err := reducer.DecodeDiceState(raw)
	if err != nil {
		return string(raw)
	}

	slots := make([]string, 0, len(state.Scores))
	for slot := range state.Scores {
		slots = append(slots, slot)
	}
	sort.Strings(slots)

	scores := make([]string, 0, len(slots))
	for _, slot := range slots {
		scores = append(scores, fmt.Sprintf("%s=%d", slot, state.Scores[slot]))
	}

	line := fmt.Sprintf("[%s] round %d, slot %d to play, scores %s", state.Phase, state.Round, state.Turn, strings.Join(scores, " "))
	if state.LastRoll != nil {
		line += fmt.Sprintf(", last roll %d by slot %d", state.LastRoll.Value, state.LastRoll.Slot)
	}

	if state.Phase == reducer.PhaseFinished {
		if winner, ok := state.Winner(); ok {
			line += fmt.Sprintf(", slot %d wins", winner)
		}
	}
	return line
}
