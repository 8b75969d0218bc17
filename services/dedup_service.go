package services

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// dedupTTL keeps a delivered message id around long past Twilio's retry
// window before the key expires.
const dedupTTL = 24 * time.Hour

// DedupService suppresses duplicate webhook deliveries by transport
// message id. Twilio retries a webhook it considers failed, re-posting the
// same MessageSid; replaying it through the inbound flow would double-log
// the exchange. With no Redis configured every delivery counts as first —
// the response upsert itself stays idempotent either way.
type DedupService struct {
	Client *redis.Client
}

// NewDedupService connects to Redis at addr, or returns a disabled
// instance when addr is empty.
func NewDedupService(addr string) *DedupService {
	if addr == "" {
		log.Println("⚠️ REDIS_URL not set, webhook deduplication disabled")
		return &DedupService{}
	}
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})
	log.Println("🔧 Redis initialized with address:", addr)
	return &DedupService{Client: client}
}

// FirstDelivery reports whether this message id has not been seen before.
// Errors fail open: a Redis outage must not drop player responses.
func (d *DedupService) FirstDelivery(ctx context.Context, messageSid string) bool {
	if d.Client == nil || messageSid == "" {
		return true
	}
	ok, err := d.Client.SetNX(ctx, "webhook:sid:"+messageSid, "1", dedupTTL).Result()
	if err != nil {
		log.Printf("⚠️ Redis dedup check failed for %s: %v", messageSid, err)
		return true
	}
	return ok
}
