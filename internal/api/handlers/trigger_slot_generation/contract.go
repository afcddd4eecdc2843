package trigger_slot_generation

type Scheduler interface {
	Enqueue() (string, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
