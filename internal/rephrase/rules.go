package rephrase

import "github.com/caresafe-ai/caresafe/internal/safety"

type ruleDef struct {
	Name     string
	Pattern  string
	Template string
}

// Rewrite rules per category. Each rule turns a violating span into a
// document-attributed or provider-oriented phrasing. Boundary violations
// have no rules on purpose: the only remediation there is regeneration.
func ruleDefs() map[safety.Category][]ruleDef {
	return map[safety.Category][]ruleDef{
		safety.CategoryDiagnostic: {
			{Name: "diagnosed_with", Pattern: `\byou (?:are|were|have been|'ve been) diagnosed with (?:a |an )?([\w\-]+(?: [\w\-]+){0,2})`, Template: `your documents mention a diagnosis of ${1}`},
			{Name: "suffer_from", Pattern: `\byou (?:suffer|are suffering) from (?:a |an )?([\w\-]+(?: [\w\-]+){0,2})`, Template: `your documents mention ${1}`},
			{Name: "speculative", Pattern: `\b(?:it (?:is|sounds|seems) likely (?:that )?you have|you (?:likely|probably|almost certainly) have|this (?:indicates|means|suggests) (?:that )?you have) ((?:[\w\-]+ ?){1,3})`, Template: `your documents may mention ${1}`},
		},
		safety.CategoryPrescriptive: {
			{Name: "instruction", Pattern: `\byou (?:should|must|need to|have to|ought to) ((?:take|stop|start|begin|increase|decrease|switch|continue|not take)(?: taking)?(?: [\w\-]+){0,4})`, Template: `you might want to discuss with your doctor whether to ${1}`},
			{Name: "recommendation", Pattern: `\bi (?:recommend|suggest|advise) ((?:[\w\-]+ ?){0,5})`, Template: `you could ask your healthcare provider about ${1}`},
			{Name: "dosage", Pattern: `\btake (\d+ ?(?:mg|mcg|ml|units?|tablets?|pills?))\b`, Template: `your documents list a dosage of ${1}`},
		},
		safety.CategoryAlarm: {
			{Name: "call_emergency", Pattern: `\bcall (?:911|999|112|emergency services)\b(?: now| immediately| right away)?`, Template: `reach out to your healthcare provider`},
			{Name: "go_to_er", Pattern: `\bgo to the (?:er|emergency room)\b(?: right)?(?: now| immediately| away)?`, Template: `consider visiting your healthcare provider`},
			{Name: "seek_immediate", Pattern: `\bseek (?:immediate|urgent|emergency) (?:medical )?(?:care|attention|help)\b`, Template: `consider contacting your healthcare provider`},
			{Name: "dangerously", Pattern: `\bdangerously\b`, Template: `notably`},
			{Name: "dangerous", Pattern: `\bdangerous\b`, Template: `notable`},
			{Name: "life_threatening", Pattern: `\blife[ \-]threatening\b`, Template: `significant`},
			{Name: "immediately", Pattern: `\bimmediately\b`, Template: `soon`},
			{Name: "urgently", Pattern: `\burgently\b`, Template: `promptly`},
			{Name: "urgent", Pattern: `\burgent\b`, Template: `important`},
			{Name: "emergency", Pattern: `\bemergency\b`, Template: `important`},
			{Name: "critical_level", Pattern: `\bcritical(?:ly)? (?:high|low)\b`, Template: `outside the typical range`},
			{Name: "alarmingly", Pattern: `\balarmingly\b`, Template: `notably`},
			{Name: "alarming", Pattern: `\balarming\b`, Template: `notable`},
		},
		safety.CategoryUngroundedClaim: {
			{Name: "you_diagnosed", Pattern: `\byou (?:are|were|have been) (?:diagnosed|labell?ed) (?:with|as) ((?:[\w\-]+ ?){1,4})`, Template: `your documents mention a diagnosis of ${1}`},
			{Name: "you_suffer", Pattern: `\byou (?:suffer|are suffering) from ((?:[\w\-]+ ?){1,4})`, Template: `your documents mention ${1}`},
			{Name: "you_have", Pattern: `\byou have (?:a |an )?([\w\-]+(?: [\w\-]+){0,3})`, Template: `your documents mention ${1}`},
			{Name: "metric_level", Pattern: `\byour ([\w ]{2,24}?)(?: levels?)? (?:is|are|was|were|looks?|seems?|remains?) (?:very |quite |slightly |too )?(high|low|elevated|reduced|abnormal|irregular|concerning|out of range)\b`, Template: `your documents include a reading for your ${1} described as ${2}`},
			{Name: "your_condition", Pattern: `\byour (condition|diagnosis|illness|disease) (is|has|will|means)\b`, Template: `your records indicate your ${1} ${2}`},
		},
	}
}
