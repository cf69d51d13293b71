// Package params holds the key/value parameter set handed to element
// constructors, together with the allowed-key stack the factory uses to warn
// about undocumented parameters.
package params

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// KeySet is a set of documented parameter names.
type KeySet map[string]struct{}

// Params is a string-valued parameter set.
type Params struct {
	mu      sync.Mutex
	data    map[string]string
	allowed []KeySet
	verify  bool
	warned  map[string]struct{}
	logger  *slog.Logger
}

// New returns a Params holding a copy of kv. Verification of undocumented
// keys is enabled.
func New(kv map[string]string) *Params {
	data := make(map[string]string, len(kv))
	maps.Copy(data, kv)
	return &Params{data: data, verify: true, warned: make(map[string]struct{})}
}

// WithLogger sets the logger used for undocumented-key warnings.
func (p *Params) WithLogger(l *slog.Logger) *Params {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logger = l
	return p
}

func (p *Params) log() *slog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return slog.Default()
}

// EnableVerify toggles undocumented-key warnings.
func (p *Params) EnableVerify(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.verify = on
}

// Insert sets key to value. An existing key is kept unless overwrite is set.
// It reports whether the value was stored.
func (p *Params) Insert(key, value string, overwrite bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.data[key]; ok && !overwrite {
		return false
	}
	p.data[key] = value
	return true
}

func (p *Params) Contains(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.verifyLocked(key)
	_, ok := p.data[key]
	return ok
}

// Keys returns the sorted keys.
func (p *Params) Keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Sorted(maps.Keys(p.data))
}

// Len returns the number of stored keys.
func (p *Params) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.data)
}

// Lookup returns the raw value of key.
func (p *Params) Lookup(key string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.verifyLocked(key)
	v, ok := p.data[key]
	return v, ok
}

// PushAllowedKeys makes keys the documented set for subsequent reads.
func (p *Params) PushAllowedKeys(keys KeySet) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.allowed = append(p.allowed, keys)
}

// PopAllowedKeys restores the previously pushed set.
func (p *Params) PopAllowedKeys() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.allowed) > 0 {
		p.allowed = p.allowed[:len(p.allowed)-1]
	}
}

// AllowedDepth returns the height of the allowed-key stack.
func (p *Params) AllowedDepth() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.allowed)
}

func (p *Params) verifyLocked(key string) {
	if !p.verify || len(p.allowed) == 0 {
		return
	}
	if _, ok := p.allowed[len(p.allowed)-1][key]; ok {
		return
	}
	if _, ok := p.warned[key]; ok {
		return
	}
	p.warned[key] = struct{}{}
	p.log().Warn("Parameter is undocumented.", "name", key)
}

// Find reads key and converts it to T. The default is returned when key is
// absent. Conversion follows cty rules, so "10" reads as an int and "true"
// as a bool.
func Find[T any](p *Params, key string, def T) (T, error) {
	raw, ok := p.Lookup(key)
	if !ok {
		return def, nil
	}
	ty, err := gocty.ImpliedType(def)
	if err != nil {
		return def, fmt.Errorf("parameter %q: %w", key, err)
	}
	val, err := convert.Convert(cty.StringVal(raw), ty)
	if err != nil {
		return def, fmt.Errorf("parameter %q: cannot read %q as %s: %w", key, raw, ty.FriendlyName(), err)
	}
	var out T
	if err := gocty.FromCtyValue(val, &out); err != nil {
		return def, fmt.Errorf("parameter %q: %w", key, err)
	}
	return out, nil
}
