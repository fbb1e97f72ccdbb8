//go:build !nounsafe
// +build !nounsafe

package internal

import "unsafe"

// UniqueID returns the string's address.
func (s *String) UniqueID() uintptr {
	return uintptr(unsafe.Pointer(s))
}

// UniqueID returns the expression's address.
func (e *Expr) UniqueID() uintptr {
	return uintptr(unsafe.Pointer(e))
}
