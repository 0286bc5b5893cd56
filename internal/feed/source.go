package feed

import (
	"context"
	"encoding/json"
	"log"

	"github.com/codechella/console-backend/internal/gateway"
	"github.com/codechella/console-backend/utils"
)

// GatewaySource feeds the synchronizer from the remote backend's
// all-events endpoint + push topic. Token may be empty: the console
// itself reads the public listing.
type GatewaySource struct {
	Client *gateway.Client
	Token  string
}

func (s *GatewaySource) InitialEvents(ctx context.Context) ([]gateway.Evento, error) {
	return s.Client.GetAllEvents(ctx, s.Token)
}

func (s *GatewaySource) Subscribe(ctx context.Context, sink func(gateway.Evento)) *gateway.Subscription {
	return s.Client.SubscribeEvents(ctx, sink)
}

// RedisBroadcast republishes each merged record so browser SSE handlers
// on any console instance can fan it out.
func RedisBroadcast(ev gateway.Evento) {
	if utils.RedisClient == nil {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := utils.RedisClient.Publish(utils.Ctx, utils.EventsChannel, string(payload)).Err(); err != nil {
		log.Printf("⚠️ Feed broadcast failed: %v", err)
	}
}
