// Package appender delivers scraped hook output entries to external log
// storage.
package appender

import "github.com/allegro/lifecycle-executor/servicelog"

// Appender delivers hook output log entries to their destination.
type Appender interface {
	Append(entries <-chan servicelog.Entry)
}
