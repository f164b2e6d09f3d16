package recipe

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Options is an immutable set of recipe options as they come from
// configuration. Typed accessors parse on demand and fall back to defaults.
type Options struct {
	values map[string]string
}

// NewOptions copies values into an Options.
func NewOptions(values map[string]string) Options {
	o := Options{values: make(map[string]string, len(values))}
	for k, v := range values {
		o.values[k] = v
	}
	return o
}

// Has reports whether name was set.
func (o Options) Has(name string) bool {
	_, ok := o.values[name]
	return ok
}

// Keys returns the option names in sorted order.
func (o Options) Keys() []string {
	keys := make([]string, 0, len(o.values))
	for k := range o.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String returns the raw value of name, or def.
func (o Options) String(name, def string) string {
	if v, ok := o.values[name]; ok {
		return v
	}
	return def
}

// Bool parses name as a boolean.
func (o Options) Bool(name string, def bool) (bool, error) {
	v, ok := o.values[name]
	if !ok {
		return def, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def, fmt.Errorf("option %s: %w", name, err)
	}
	return b, nil
}

// Int parses name as an integer.
func (o Options) Int(name string, def int) (int, error) {
	v, ok := o.values[name]
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def, fmt.Errorf("option %s: %w", name, err)
	}
	return n, nil
}

// Strings splits a comma-separated value, dropping blanks.
func (o Options) Strings(name string) []string {
	var out []string
	for _, s := range strings.Split(o.values[name], ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Fingerprint renders the options canonically, for cache keys.
func (o Options) Fingerprint() string {
	var b strings.Builder
	for i, k := range o.Keys() {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(o.values[k])
	}
	return b.String()
}

// ParseOptions reads "key=value" pairs such as the ones given on the command
// line.
func ParseOptions(pairs []string) (Options, error) {
	values := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return Options{}, fmt.Errorf("invalid option %q, expected key=value", p)
		}
		values[strings.TrimSpace(k)] = v
	}
	return NewOptions(values), nil
}
