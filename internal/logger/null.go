package logger

// NullLogger discards everything. It is the default until the embedding
// application opts into output.
type NullLogger struct{}

var _ Logger = (*NullLogger)(nil)

func (*NullLogger) Successf(format string, args ...interface{}) {}
func (*NullLogger) Debugf(format string, args ...interface{})  {}
func (*NullLogger) Error(err error)                            {}
func (*NullLogger) SQL(query string, args ...interface{})      {}
