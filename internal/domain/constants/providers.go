package constants

// Pub/Sub providers selectable through pubsub.provider.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Idempotency store providers selectable through idempotency.provider.
const (
	IdempotencyProviderMemory = "memory"
	IdempotencyProviderRedis  = "redis"
)

// HTTP headers shared between middleware and clients.
const (
	HeaderIdempotencyKey      = "Idempotency-Key"
	HeaderIdempotentReplayed  = "Idempotent-Replayed"
	AuditEventSubscriptionTag = "projects/local/subscriptions/audit-sub"
)

// Deployment environments reported by env.env.
const (
	EnvLocal   = "local"
	EnvDevelop = "develop"
)
