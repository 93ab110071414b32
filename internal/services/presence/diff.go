package presence

import (
	"sort"

	"github.com/KirkDiggler/partysync/internal/models"
)

// DiffRoster classifies what changed between two snapshots of a session as
// seen by selfID. A record's disappearance is the only kick/leave signal:
// my own record vanishing means I was kicked, the whole session vanishing
// means the host closed it. A nil prev yields no events.
func DiffRoster(selfID string, prev, next *models.Session) []*RosterEvent {
	if prev == nil {
		return nil
	}

	if next == nil {
		return []*RosterEvent{{Type: RosterEventHostClosed}}
	}

	if me, ok := prev.Players[selfID]; ok {
		if _, still := next.Players[selfID]; !still {
			return []*RosterEvent{{Type: RosterEventKicked, Player: me}}
		}
	}

	var events []*RosterEvent

	if prev.Status != next.Status {
		events = append(events, &RosterEvent{
			Type:   RosterEventStatusChanged,
			Status: next.Status,
		})
	}

	for _, id := range rosterIDs(prev, next) {
		before, wasThere := prev.Players[id]
		after, isThere := next.Players[id]

		switch {
		case !wasThere && isThere:
			events = append(events, &RosterEvent{Type: RosterEventJoined, Player: after})
		case wasThere && !isThere:
			events = append(events, &RosterEvent{Type: RosterEventLeft, Player: before})
		case id == selfID:
			// My own connection flag is not news to me
		case before.Connected && !after.Connected:
			events = append(events, &RosterEvent{Type: RosterEventDropped, Player: after})
		case !before.Connected && after.Connected:
			events = append(events, &RosterEvent{Type: RosterEventReconnected, Player: after})
		}
	}

	return events
}

// rosterIDs returns every player ID of either snapshot in a stable order
func rosterIDs(prev, next *models.Session) []string {
	seen := make(map[string]struct{}, len(prev.Players)+len(next.Players))
	ids := make([]string, 0, len(seen))
	for _, session := range []*models.Session{prev, next} {
		for id := range session.Players {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
