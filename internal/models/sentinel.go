package models

// Reserved identity values used by the bootstrap sentinel documents. One
// sentinel row is upserted into every mirrored collection before a full sync
// so the discovery API can enumerate collection kinds before any real data
// exists. Clients filter sentinels out of listings by these values.
const (
	SentinelID       int64 = -1
	SentinelLogin          = "initialization"
	SentinelSHA            = "initialization"
	SentinelRepoName       = "initialization/repo"
	SentinelURL            = "https://github.com"
)
