package engine

import (
	"errors"

	"github.com/golobby/cast"
)

// ErrKwargMissing is returned by the Kwargs typed accessors when the
// requested key is absent.
var ErrKwargMissing = errors.New("engine: kwarg not present")

// Kwargs is a handler-side convenience view over a payload's keyword
// argument map, adding typed accessors on top of the raw map[string]any
// that both Handler and TopicHandler receive. It exists because kwargs
// arrive untyped (they cross the same put/publish boundary the source
// engine's duck-typed **kwargs does) and handlers usually want a
// concrete type rather than an any.
type Kwargs map[string]any

// Int coerces the value at key to an int using golobby/cast, which is
// lenient about numeric kinds and numeric strings the way a handler
// written against a duck-typed payload would expect.
func (k Kwargs) Int(key string) (int, error) {
	v, ok := k[key]
	if !ok {
		return 0, ErrKwargMissing
	}
	return cast.ToInt(v)
}

// Float64 coerces the value at key to a float64.
func (k Kwargs) Float64(key string) (float64, error) {
	v, ok := k[key]
	if !ok {
		return 0, ErrKwargMissing
	}
	return cast.ToFloat64(v)
}

// String coerces the value at key to a string.
func (k Kwargs) String(key string) (string, error) {
	v, ok := k[key]
	if !ok {
		return "", ErrKwargMissing
	}
	return cast.ToString(v)
}

// Bool coerces the value at key to a bool.
func (k Kwargs) Bool(key string) (bool, error) {
	v, ok := k[key]
	if !ok {
		return false, ErrKwargMissing
	}
	return cast.ToBool(v)
}
