package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirkDiggler/partysync/internal/common/clock"
	"github.com/KirkDiggler/partysync/internal/common/identity"
	"github.com/KirkDiggler/partysync/internal/common/uuid"
	"github.com/KirkDiggler/partysync/internal/config"
	"github.com/KirkDiggler/partysync/internal/dice"
	"github.com/KirkDiggler/partysync/internal/models"
	"github.com/KirkDiggler/partysync/internal/reducer"
	actionRepo "github.com/KirkDiggler/partysync/internal/repositories/action"
	presenceRepo "github.com/KirkDiggler/partysync/internal/repositories/presence"
	sessionRepo "github.com/KirkDiggler/partysync/internal/repositories/session"
	"github.com/KirkDiggler/partysync/internal/services/channel"
	"github.com/KirkDiggler/partysync/internal/services/directory"
	"github.com/KirkDiggler/partysync/internal/services/dispatch"
	"github.com/KirkDiggler/partysync/internal/services/participant"
	"github.com/KirkDiggler/partysync/internal/services/presence"
	"github.com/KirkDiggler/partysync/internal/services/relay"
	"github.com/redis/go-redis/v9"
)

func main() {
	mode := flag.String("mode", "host", "host, join or solo")
	sessionID := flag.String("session", "", "session to join")
	slot := flag.Int("slot", directory.AnySlot, "slot to request when joining")
	maxPlayers := flag.Int("players", 4, "session capacity when hosting")
	rounds := flag.Int("rounds", 3, "rounds to play, zero for no limit")
	seed := flag.Int64("seed", 0, "dice seed, zero for a random one")
	name := flag.String("name", "Player", "display name for a new identity")
	flag.Parse()

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	realClock := &clock.DefaultClock{}
	uuidGenerator := uuid.New()

	identityProvider, err := identity.New(&identity.Config{
		Store:         identity.NewFileStore(cfg.IdentityFile),
		UUIDGenerator: uuidGenerator,
		Clock:         realClock,
		DefaultName:   *name,
	})
	if err != nil {
		log.Fatalf("Failed to create identity provider: %v", err)
	}

	diceReducer, err := reducer.NewDice(&reducer.DiceConfig{
		Roller: dice.New(&dice.Config{Seed: *seed}),
		Rounds: *rounds,
	})
	if err != nil {
		log.Fatalf("Failed to create dice reducer: %v", err)
	}

	pcfg := &participant.Config{
		Reducer:           diceReducer,
		Identity:          identityProvider,
		UUIDGenerator:     uuidGenerator,
		KeepaliveInterval: cfg.KeepaliveInterval,
	}

	// Solo play never touches Redis, so only networked modes ping it
	if *mode != "solo" {
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		pingCancel()
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
	}

	if err := wireBackend(redisClient, cfg, pcfg); err != nil {
		log.Fatalf("Failed to wire backend services: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer cancel()

	// The participant outlives the signal so shutdown can still close or
	// disconnect it
	sessionCtx := context.Background()

	var p *participant.Participant
	switch *mode {
	case "host":
		p, err = participant.NewHost(sessionCtx, pcfg, &participant.HostInput{
			Config: &models.SessionConfig{MaxPlayers: *maxPlayers, Mode: "dice", Seed: *seed},
		})
	case "join":
		p, err = participant.NewClient(sessionCtx, pcfg, &participant.JoinInput{
			SessionID: *sessionID,
			Slot:      *slot,
		})
	case "solo":
		p, err = participant.NewSingle(sessionCtx, pcfg)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	fmt.Printf("Session %s as %s (slot %d, %s)\n", p.SessionID(), p.PlayerID(), p.Slot(), p.Role())
	fmt.Println("Commands: start, roll, end, next, ready, kick <player>, state, leave, quit")

	go printNotifications(p)

	cli := &console{participant: p, out: os.Stdout}
	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			shutdown(p)
			return
		case <-p.Done():
			fmt.Println("Session ended")
			return
		case line, ok := <-lines:
			if !ok {
				shutdown(p)
				return
			}
			if quit := cli.run(ctx, line); quit {
				shutdown(p)
				return
			}
		}
	}
}

// wireBackend fills in the Redis-backed services of the participant
func wireBackend(redisClient *redis.Client, cfg *config.Config, pcfg *participant.Config) error {
	sessions, err := sessionRepo.NewRedis(&sessionRepo.Config{RedisClient: redisClient})
	if err != nil {
		return err
	}

	actions, err := actionRepo.NewRedis(&actionRepo.Config{RedisClient: redisClient})
	if err != nil {
		return err
	}

	leases, err := presenceRepo.NewRedis(&presenceRepo.Config{RedisClient: redisClient})
	if err != nil {
		return err
	}

	realClock := &clock.DefaultClock{}

	pcfg.Presence, err = presence.New(&presence.Config{
		LeaseTTL:     cfg.LeaseTTL,
		PresenceRepo: leases,
		SessionRepo:  sessions,
		Clock:        realClock,
	})
	if err != nil {
		return err
	}

	pcfg.Directory, err = directory.New(&directory.Config{
		PreGamePhases: cfg.PreGamePhases,
		SessionRepo:   sessions,
		Presence:      pcfg.Presence,
		Clock:         realClock,
		UUIDGenerator: pcfg.UUIDGenerator,
	})
	if err != nil {
		return err
	}

	pcfg.Channel, err = channel.New(&channel.Config{
		SessionRepo: sessions,
		Clock:       realClock,
	})
	if err != nil {
		return err
	}

	pcfg.Relay, err = relay.New(&relay.Config{
		ActionRepo:  actions,
		SessionRepo: sessions,
	})
	return err
}

func printNotifications(p *participant.Participant) {
	for n := range p.Notifications() {
		switch n.Type {
		case participant.NotificationRoster:
			if n.Event.Player != nil {
				fmt.Printf("* %s: %s (slot %d)\n", n.Event.Type, n.Event.Player.Name, n.Event.Player.Slot)
			} else {
				fmt.Printf("* %s %s\n", n.Event.Type, n.Event.Status)
			}
		case participant.NotificationState:
			fmt.Println(describeState(n.State))
		case participant.NotificationConnection:
			fmt.Printf("* connection %s\n", n.Status)
		case participant.NotificationEnded:
			fmt.Println("* ended")
		}
	}
}

// shutdown leaves politely: hosts close the session, clients disconnect so
// they can resume later
func shutdown(p *participant.Participant) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var err error
	switch p.Role() {
	case dispatch.RoleHost:
		err = p.Close(ctx)
	case dispatch.RoleClient:
		err = p.Disconnect(ctx)
	}
	if err != nil && !errors.Is(err, participant.ErrEnded) {
		log.Printf("Failed to shut down cleanly: %v", err)
	}
}
