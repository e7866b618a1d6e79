package cast

import (
	"github.com/funvibe/funcast/internal/dispatch"
	log "github.com/sirupsen/logrus"
)

type options struct {
	logger   log.FieldLogger
	policies map[Kind]Policy
}

// Option configures an Engine at construction time.
type Option func(*options)

// WithLogger replaces the standard logger.
func WithLogger(logger log.FieldLogger) Option {
	return func(o *options) { o.logger = logger }
}

// WithPolicy replaces the default policy for one kind.
func WithPolicy(k Kind, p Policy) Option {
	return func(o *options) { o.policies[k] = p }
}

// WithStrictBool disables the truthy default: a type with no Bool
// declaration fails with NoCoercion instead of coercing to true.
func WithStrictBool() Option {
	return func(o *options) { o.policies[Bool] = dispatch.NoCoercionPolicy(Bool) }
}
