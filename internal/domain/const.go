package domain

const (
	// Scarcity caps for the regular distribution cascade
	MAX_EPIC = 20
	MAX_RARE = 50

	// MAX_SUBJECT_NAME_LEN is the maximum subject name length in bytes
	MAX_SUBJECT_NAME_LEN = 50

	// Asset pool metadata limits
	MAX_POOL_TITLE_LEN  = 32
	MAX_POOL_SYMBOL_LEN = 10
	MAX_POOL_URI_LEN    = 200

	// Seed namespaces for derived addresses
	SEED_OWNERSHIP       = "ownership"
	SEED_SUBJECT_COUNTER = "subject_counter"
	SEED_MINT_AUTHORITY  = "mint_authority"

	// KV_ASSET_POOL_PREFIX prefixes pool registry keys in the key value store
	KV_ASSET_POOL_PREFIX = "asset_pool:"
)
