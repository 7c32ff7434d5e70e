package exitcode

const (
	Success       = 0
	UsageError    = 1
	ConfigError   = 2
	MappingError  = 3
	InputError    = 4
	PartialResult = 6
)
