package utils

import (
	"context"
	"log"
	"runtime/debug"
	"strings"
)

// GoSafe runs fn in a new goroutine and recovers from panics so a single
// bad task cannot take down the process.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("recovered from panic: %v\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}

// ShouldContinue reports whether the context is still alive.
func ShouldContinue(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	default:
		return true
	}
}

// CleanToValidUTF8 strips invalid UTF-8 sequences from s.
func CleanToValidUTF8(s string) string {
	return strings.ToValidUTF8(s, "")
}
