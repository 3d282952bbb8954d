package model

type CalculationMessage struct {
	ID      int    `json:"id"`
	Level   string `json:"level"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	LevelCritical = "CRITICAL"
	LevelWarning  = "WARNING"
)

// Warning codes. Warnings never block an operation.
const (
	WarnNoProgress         = "NO_PROGRESS"
	WarnNegativeNet        = "NEGATIVE_NET"
	WarnCumulBelowPrevious = "CUMUL_BELOW_PREVIOUS"
	WarnPercentClamped     = "PERCENT_CLAMPED"
	WarnNegativeAdvances   = "NEGATIVE_ADVANCES"
)

// HasCritical reports whether any message blocks the operation.
func HasCritical(msgs []CalculationMessage) bool {
	for _, m := range msgs {
		if m.Level == LevelCritical {
			return true
		}
	}
	return false
}

// FirstCritical returns the first blocking message, if any.
func FirstCritical(msgs []CalculationMessage) (CalculationMessage, bool) {
	for _, m := range msgs {
		if m.Level == LevelCritical {
			return m, true
		}
	}
	return CalculationMessage{}, false
}

func Critical(code, message string) CalculationMessage {
	return CalculationMessage{Level: LevelCritical, Code: code, Message: message}
}

func Warning(code, message string) CalculationMessage {
	return CalculationMessage{Level: LevelWarning, Code: code, Message: message}
}
