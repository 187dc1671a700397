package domain

type Settings struct {
	JournalDir string
	LogLevel   string
	Thresholds Thresholds
}

func DefaultSettings() Settings {
	return Settings{
		LogLevel:   "info",
		Thresholds: DefaultThresholds(),
	}
}
