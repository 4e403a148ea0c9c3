package config

// StringOption returns the named option as a string, or fallback when the
// option is absent or not a string.
func (t *Target) StringOption(key, fallback string) string {
	if v, ok := t.Options[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return fallback
}

// IntOption returns the named option as an int, or fallback when the option
// is absent or not an int.
func (t *Target) IntOption(key string, fallback int) int {
	if v, ok := t.Options[key]; ok {
		if n, ok := v.(int); ok {
			return n
		}
	}
	return fallback
}

// Selector returns the table.column form of the target, as used by the
// --only and --exclude flags.
func (t *Target) Selector() string {
	return t.Table + "." + t.Name
}
