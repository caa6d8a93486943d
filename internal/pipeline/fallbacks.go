package pipeline

import "github.com/caresafe-ai/caresafe/internal/safety"

// Fallback messages shown when a response cannot be made safe. Always calm,
// always pointing at the user's own provider or documents, never repeating
// any of the blocked content.
type Fallbacks struct {
	Alarm        string
	Prescriptive string
	Diagnostic   string
	Generic      string
}

// DefaultFallbacks returns the stock messages. Config may override any of
// them; an empty override keeps the default.
func DefaultFallbacks() Fallbacks {
	return Fallbacks{
		Alarm:        "I can't summarize that part of your information in a helpful way. Your healthcare provider is the right person to walk through it with you, and your documents have the full details.",
		Prescriptive: "Questions about medications or treatment changes are best discussed with your healthcare provider, who knows your full history. Your documents list what has been prescribed so far.",
		Diagnostic:   "I'm not able to interpret findings for you, but your documents contain what your care team has recorded, and your healthcare provider can explain what it means.",
		Generic:      "I wasn't able to prepare a good answer for that. Your documents may have what you're looking for, or your healthcare provider can help at your next visit.",
	}
}

func (f Fallbacks) merge(o Fallbacks) Fallbacks {
	if o.Alarm != "" {
		f.Alarm = o.Alarm
	}
	if o.Prescriptive != "" {
		f.Prescriptive = o.Prescriptive
	}
	if o.Diagnostic != "" {
		f.Diagnostic = o.Diagnostic
	}
	if o.Generic != "" {
		f.Generic = o.Generic
	}
	return f
}

// Select picks the message for the highest-priority violation category:
// alarm > prescriptive > diagnostic > generic.
func (f Fallbacks) Select(violations []safety.Violation) string {
	var hasAlarm, hasPrescriptive, hasDiagnostic bool
	for _, v := range violations {
		switch v.Category {
		case safety.CategoryAlarm:
			hasAlarm = true
		case safety.CategoryPrescriptive:
			hasPrescriptive = true
		case safety.CategoryDiagnostic:
			hasDiagnostic = true
		}
	}
	switch {
	case hasAlarm:
		return f.Alarm
	case hasPrescriptive:
		return f.Prescriptive
	case hasDiagnostic:
		return f.Diagnostic
	default:
		return f.Generic
	}
}
