package dispatch

import (
	"bytes"
	"context"
	"fmt"

	"github.com/KirkDiggler/partysync/internal/models"
	"github.com/KirkDiggler/partysync/internal/reducer"
	"github.com/KirkDiggler/partysync/internal/services/channel"
	"github.com/KirkDiggler/partysync/internal/services/relay"
)

// dispatcher implements the Dispatcher interface
type dispatcher struct {
	seat  SeatFunc
	local relay.Applier
	relay relay.Service
}

// New creates a new dispatcher
func New(cfg *Config) (*dispatcher, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Seat == nil {
		return nil, ErrNilSeat
	}

	if cfg.Local == nil {
		return nil, ErrNilApplier
	}

	if cfg.Relay == nil {
		return nil, ErrNilRelay
	}

	return &dispatcher{
		seat:  cfg.Seat,
		local: cfg.Local,
		relay: cfg.Relay,
	}, nil
}

// Dispatch applies the action here for hosts and single players and
// queues it for the host otherwise
func (d *dispatcher) Dispatch(ctx context.Context, input *DispatchInput) (*DispatchOutput, error) {
	if input == nil || input.Action == nil {
		return nil, ErrInvalidAction
	}

	seat := d.seat()

	switch seat.Role {
	case RoleHost, RoleSingle:
		if err := d.local.ApplyAction(ctx, input.Action); err != nil {
			return nil, err
		}
		return &DispatchOutput{Local: true}, nil

	case RoleClient:
		out, err := d.relay.SubmitAction(ctx, &relay.SubmitActionInput{
			SessionID: seat.SessionID,
			PlayerID:  seat.PlayerID,
			Slot:      seat.Slot,
			Action:    input.Action,
		})
		if err != nil {
			return nil, err
		}
		return &DispatchOutput{
			Dropped: out.Dropped,
			Entry:   out.Entry,
		}, nil

	default:
		return nil, ErrUnknownRole
	}
}

// localApplier runs the reducer against the local store. It is the
// fallback applier of the relay on the host.
type localApplier struct {
	seat    SeatFunc
	reducer reducer.Reducer
	store   StateStore
	channel channel.Service
}

// NewLocalApplier creates the host-side applier
func NewLocalApplier(cfg *LocalApplierConfig) (*localApplier, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Seat == nil {
		return nil, ErrNilSeat
	}

	if cfg.Reducer == nil {
		return nil, ErrNilReducer
	}

	if cfg.Store == nil {
		return nil, ErrNilStore
	}

	if cfg.Channel == nil {
		return nil, ErrNilChannel
	}

	return &localApplier{
		seat:    cfg.Seat,
		reducer: cfg.Reducer,
		store:   cfg.Store,
		channel: cfg.Channel,
	}, nil
}

// ApplyAction implements relay.Applier. An action the reducer ignores is
// not published.
func (a *localApplier) ApplyAction(ctx context.Context, action *models.Action) error {
	current := a.store.State()

	next, err := a.reducer.Apply(current, action)
	if err != nil {
		return fmt.Errorf("failed to apply %s: %w", action.Type, err)
	}

	if bytes.Equal(current, next) {
		return nil
	}

	a.store.SetState(next)

	seat := a.seat()
	if seat.Role != RoleHost {
		return nil
	}

	_, err = a.channel.PublishState(ctx, &channel.PublishStateInput{
		SessionID:   seat.SessionID,
		PublisherID: seat.PlayerID,
		State:       next,
	})
	if err != nil {
		return fmt.Errorf("failed to publish state: %w", err)
	}

	return nil
}
