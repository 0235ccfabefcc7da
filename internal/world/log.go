package world

import "fmt"

// messageCap bounds the log; older lines fall off the front.
const messageCap = 64

// MessageLog keeps the most recent game messages for the HUD.
type MessageLog struct {
	lines []string
}

// Add appends one line, evicting the oldest past capacity.
func (l *MessageLog) Add(line string) {
	l.lines = append(l.lines, line)
	if len(l.lines) > messageCap {
		l.lines = l.lines[len(l.lines)-messageCap:]
	}
}

// Addf appends a formatted line.
func (l *MessageLog) Addf(format string, args ...any) {
	l.Add(fmt.Sprintf(format, args...))
}

// Tail returns the most recent n lines, oldest first.
func (l *MessageLog) Tail(n int) []string {
	if n > len(l.lines) {
		n = len(l.lines)
	}
	return l.lines[len(l.lines)-n:]
}

// Len returns the number of retained lines.
func (l *MessageLog) Len() int {
	return len(l.lines)
}
