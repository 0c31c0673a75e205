package config

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, userToken, cookie, workspace string) *Slack {
	return &Slack{
		botToken:  botToken,
		userToken: userToken,
		cookie:    cookie,
		workspace: workspace,
	}
}

// NewRefreshForTest creates a Refresh config for testing purposes
func NewRefreshForTest(credentialsPath, intervalDays, enabled string) *Refresh {
	return &Refresh{
		credentialsPath: credentialsPath,
		intervalDays:    intervalDays,
		enabled:         enabled,
	}
}

// NewTransportForTest creates a Transport config for testing purposes
func NewTransportForTest(mode, addr string) *Transport {
	return &Transport{
		mode: mode,
		addr: addr,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}

// NewMemoryForTest creates a Memory config for testing purposes
func NewMemoryForTest(dir string) *Memory {
	return &Memory{dir: dir}
}
