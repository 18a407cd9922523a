package nscache

// Hooks are lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on hot paths.
type Hooks interface {
	// An entry aged past the TTL and was removed.
	// source ∈ {"get", "sweep"}
	EntryExpired(storageKey, source string)

	// A bad entry was deleted on read.
	// reason ∈ {"corrupt", "value_decode"}
	SelfHeal(storageKey, reason string)

	// A sweep pass finished: scanned tracked keys, removed expired ones.
	SweepDone(namespace string, scanned, removed int)

	// A backend call failed. op ∈ {"get", "set", "del"}.
	BackendError(op, storageKey string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) EntryExpired(string, string)        {}
func (NopHooks) SelfHeal(string, string)            {}
func (NopHooks) SweepDone(string, int, int)         {}
func (NopHooks) BackendError(string, string, error) {}
