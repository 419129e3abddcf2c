package model

// The exporter's failure modes fall into four terminal categories. None of
// them is retried; each aborts the run with a non-zero exit.

// ConfigError indicates a bad or missing traffic configuration entry.
type ConfigError struct {
	Msg string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return "config: " + e.Msg + ": " + e.Err.Error()
	}
	return "config: " + e.Msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// ConnectivityError indicates that a session to the PCE could not be
// established or validated.
type ConnectivityError struct {
	Msg string
	Err error
}

func (e *ConnectivityError) Error() string {
	if e.Err != nil {
		return "connectivity: " + e.Msg + ": " + e.Err.Error()
	}
	return "connectivity: " + e.Msg
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// QueryError indicates that the PCE rejected a traffic query or returned a
// malformed response.
type QueryError struct {
	Msg string
	Err error
}

func (e *QueryError) Error() string {
	if e.Err != nil {
		return "query: " + e.Msg + ": " + e.Err.Error()
	}
	return "query: " + e.Msg
}

func (e *QueryError) Unwrap() error { return e.Err }

// IOError indicates that an export destination could not be written.
type IOError struct {
	Msg string
	Err error
}

func (e *IOError) Error() string {
	if e.Err != nil {
		return "io: " + e.Msg + ": " + e.Err.Error()
	}
	return "io: " + e.Msg
}

func (e *IOError) Unwrap() error { return e.Err }
