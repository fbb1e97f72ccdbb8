// Package coreext imports every optional builtin extension.
package coreext

import (
	// importing for side effects
	_ "github.com/zephyrtronium/knight/coreext/negate"
	_ "github.com/zephyrtronium/knight/coreext/value"
)
