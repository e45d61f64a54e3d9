package options

// ChangeLogEvent describes a successful option mutation for logging.
type ChangeLogEvent struct {
	Section string
	Name    string
	Value   any
	Changed bool
}

// ChangeLogger records option mutations.
type ChangeLogger interface {
	LogChange(ChangeLogEvent)
}

// ChangeLoggerFunc adapts a function to ChangeLogger.
type ChangeLoggerFunc func(ChangeLogEvent)

// LogChange implements ChangeLogger.
func (f ChangeLoggerFunc) LogChange(event ChangeLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopChangeLogger struct{}

func (noopChangeLogger) LogChange(ChangeLogEvent) {}
