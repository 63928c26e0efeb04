package driven

// ConfigStore is a flat key/value view of the settings file. Keys use dots
// for nesting ("worker.stop_grace"). Typed getters return the zero value
// when a key is missing or holds another type.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool

	// GetStringMap collects the string values under prefix keyed by the
	// rest of the key, so "access.users.alice" is "alice" under
	// "access.users".
	GetStringMap(prefix string) map[string]string

	// Set stores value under key and persists it if the store is backed
	// by a file.
	Set(key string, value any) error

	// Path names where values are persisted, or ":memory:".
	Path() string
}
