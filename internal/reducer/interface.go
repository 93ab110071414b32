package reducer

//go:generate mockgen -package=mocks -destination=mocks/mock_reducer.go github.com/KirkDiggler/partysync/internal/reducer Reducer,LateJoiner

import (
	"encoding/json"

	"github.com/KirkDiggler/partysync/internal/models"
)

// Reducer is the host's deterministic state transition. Only the host (or a
// single player) ever calls it.
type Reducer interface {
	// Initial builds the first state published when the game starts
	Initial(session *models.Session) (json.RawMessage, error)

	// Apply returns the state after action. Actions the game does not
	// accept in the current state return state unchanged.
	Apply(state json.RawMessage, action *models.Action) (json.RawMessage, error)
}

// LateJoiner is implemented by reducers that seat players who join after
// the game has started
type LateJoiner interface {
	LateJoin(state json.RawMessage, player *models.SessionPlayer) (json.RawMessage, error)
}
