package config

// NewGeminiForTest creates a Gemini config for testing purposes
func NewGeminiForTest(apiKey, projectID, location, model string) *Gemini {
	return &Gemini{
		apiKey:    apiKey,
		projectID: projectID,
		location:  location,
		model:     model,
	}
}

// NewSessionForTest creates a Session config for testing purposes
func NewSessionForTest(secret, noAuthn string) *Session {
	return &Session{
		secret:  secret,
		noAuthn: noAuthn,
	}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, projectID, appID string) *Repository {
	return &Repository{
		backend:   backend,
		projectID: projectID,
		appID:     appID,
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
