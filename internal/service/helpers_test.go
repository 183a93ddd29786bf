package service

// nopLogger satisfies logger.ILogger for tests.
type nopLogger struct{}

func (*nopLogger) Debug(string, string, map[string]interface{}) {}
func (*nopLogger) Info(string, string, map[string]interface{})  {}
func (*nopLogger) Warn(string, string, map[string]interface{})  {}
func (*nopLogger) Error(string, string, map[string]interface{}) {}
func (*nopLogger) Sync() error                                  { return nil }
