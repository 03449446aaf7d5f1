package turtle

import "fmt"

// ScopeMisuseError reports an operation that violates the scoping rules:
// using an exited scope, using a scope while a child is open, unbalanced
// exits, or a lateral move during an active sweep recording.
type ScopeMisuseError struct {
	Op     string
	Reason string
}

func (e *ScopeMisuseError) Error() string {
	return fmt.Sprintf("scope misuse in %s: %s", e.Op, e.Reason)
}
