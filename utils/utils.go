package utils

import "strings"

// AddToLogMessage appends one line to a request's accumulated log, which the
// handler flushes in a single print when it returns.
func AddToLogMessage(b *strings.Builder, msg string) {
	b.WriteString(msg)
	b.WriteString(";\n")
}
