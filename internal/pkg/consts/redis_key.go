package consts

const (
	PostDirtyKey    = "post:dirty"
	TokenBlacklist  = "token:blacklist:"
	NotifyDedupKey  = "notify:dedup:"
	RecountLock     = "lock:post:recount"
	RecountFullLock = "lock:post:recount:full"
)
