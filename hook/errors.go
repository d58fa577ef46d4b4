package hook

import "errors"

// ErrHandlerNil is returned by AddHandler/AddTopicHandler when fn is nil.
var ErrHandlerNil = errors.New("hook: handler cannot be nil")
