package config

const (
	defaultDataDir        = "~/.local/share/greenroom/data"
	defaultLogDir         = "~/.local/share/greenroom/logs"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultNotifyTimeout  = 10
	defaultEditorOffset   = 7
	defaultStandardOffset = 9
)

// DefaultDeadlineOffsets returns the per-role day offsets before air date.
// Keys are canonical role keys as produced by the roles package.
func DefaultDeadlineOffsets() map[string]int {
	return map[string]int{
		"editor":         defaultEditorOffset,
		"creative":       defaultStandardOffset,
		"production":     defaultStandardOffset,
		"music_arranger": defaultStandardOffset,
		"sound_engineer": defaultStandardOffset,
		"art_set_design": defaultStandardOffset,
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			TaskCreated:    true,
			HelpRequested:  true,
			Reminders:      true,
			Errors:         true,
		},
		Deadlines: Deadlines{
			Offsets: DefaultDeadlineOffsets(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
