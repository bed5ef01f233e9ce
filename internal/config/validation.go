package config

import (
	"fmt"
	"strconv"
	"time"
)

// ValidateTimeout validates timeout duration
func ValidateTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s timeout must be positive", name)
	}
	if timeout > 30*time.Minute {
		return fmt.Errorf("%s timeout too large (max 30 minutes)", name)
	}
	return nil
}

// ValidateWriteTimeout rejects an HTTP write timeout that would cut a
// response off before the pipeline's own stage deadlines expire.
func ValidateWriteTimeout(write, budget time.Duration) error {
	if write < budget {
		return fmt.Errorf("write timeout %s is shorter than the pipeline budget %s (download + convert + recognize)", write, budget)
	}
	return nil
}

// ValidatePort validates port number
func ValidatePort(port string, name string) error {
	if port == "" {
		return fmt.Errorf("%s port is required", name)
	}

	n, err := strconv.Atoi(port)
	if err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("%s port invalid", name)
	}

	return nil
}

// ValidateRequired validates that a string setting is present
func ValidateRequired(value string, name string) error {
	if value == "" {
		return fmt.Errorf("%s is required", name)
	}
	return nil
}

// ValidateLanguage validates a whisper language code ("ja", "en", "auto", ...)
func ValidateLanguage(language string) error {
	if language == "" {
		return fmt.Errorf("language is required")
	}
	if language != "auto" && (len(language) < 2 || len(language) > 3) {
		return fmt.Errorf("language %q is not a whisper language code", language)
	}
	return nil
}
