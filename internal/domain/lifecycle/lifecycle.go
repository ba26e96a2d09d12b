// Package lifecycle holds process lifecycle constants shared by fx hooks.
package lifecycle

import "time"

// DefaultTimeout bounds every start and stop hook.
const DefaultTimeout = 10 * time.Second
