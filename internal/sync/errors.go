package sync

import "fmt"

// ConfigError means the merchant's distributor connection is missing or
// disabled. Fatal to a run; raised before any network call.
type ConfigError struct {
	MerchantID string
	Reason     string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("distributor config for merchant %s: %s", e.MerchantID, e.Reason)
}
