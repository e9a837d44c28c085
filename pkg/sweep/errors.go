package sweep

import (
	"fmt"

	"github.com/pkg/errors"
)

// ConfigurationError reports an invalid sweep definition. It is always fatal
// and is returned before any build or run.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid sweep configuration: %s", e.Reason)
}

func newConfigurationError(format string, args ...interface{}) error {
	return errors.WithStack(&ConfigurationError{Reason: fmt.Sprintf(format, args...)})
}

// IsConfigurationError checks whether the cause of err is a ConfigurationError.
func IsConfigurationError(err error) bool {
	_, ok := errors.Cause(err).(*ConfigurationError)
	return ok
}
