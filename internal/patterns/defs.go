package patterns

// Built-in pattern definitions. These are the process-wide defaults; site
// overlays can add to them but never remove or loosen them.

func diagnosticDefs() []Def {
	return []Def{
		{Name: "diagnosed_with", Pattern: `\byou (?:are|were|have been|'ve been) diagnosed with (?:a |an )?[\w\-]+(?: [\w\-]+){0,2}`, Description: "direct statement that the user has been diagnosed"},
		{Name: "suffer_from", Pattern: `\byou (?:suffer|are suffering) from (?:a |an )?[\w\-]+(?: [\w\-]+){0,2}`, Description: "direct statement that the user suffers from a condition"},
		{Name: "likely_have", Pattern: `\bit (?:is|sounds|seems) likely (?:that )?you have\b(?: [\w\-]+){1,3}`, Description: "speculative diagnosis of the user"},
		{Name: "you_likely_have", Pattern: `\byou (?:likely|probably|almost certainly) have\b(?: [\w\-]+){1,3}`, Description: "speculative diagnosis of the user"},
		{Name: "this_indicates", Pattern: `\bthis (?:indicates|means|suggests) (?:that )?you have\b(?: [\w\-]+){1,3}`, Description: "inferred diagnosis from findings"},
	}
}

func prescriptiveDefs() []Def {
	return []Def{
		{Name: "should_take", Pattern: `\byou should (?:take|stop|start|begin|increase|decrease|switch|continue)(?: taking)?\b(?: [\w\-]+){0,4}`, Description: "direct medication or treatment instruction"},
		{Name: "need_to_take", Pattern: `\byou (?:need|have|ought) to (?:take|stop|start|begin|increase|decrease)(?: taking)?\b(?: [\w\-]+){0,4}`, Description: "direct medication or treatment instruction"},
		{Name: "must_take", Pattern: `\byou must (?:take|stop|start|begin|not take)\b(?: [\w\-]+){0,4}`, Description: "imperative medication instruction"},
		{Name: "i_recommend", Pattern: `\bi (?:recommend|suggest|advise)\b(?: [\w\-]+){0,5}`, Description: "first-person clinical recommendation"},
		{Name: "dosage", Pattern: `\btake \d+ ?(?:mg|mcg|ml|units?|tablets?|pills?)\b`, Description: "explicit dosage instruction"},
	}
}

func alarmDefs() []Def {
	return []Def{
		{Name: "call_emergency", Pattern: `\bcall (?:911|999|112|emergency services)\b(?: now| immediately| right away)?`, Description: "emergency-call directive"},
		{Name: "go_to_er", Pattern: `\bgo to the (?:er|emergency room)\b(?: right)?(?: now| immediately| away)?`, Description: "emergency-room directive"},
		{Name: "seek_immediate", Pattern: `\bseek (?:immediate|urgent|emergency) (?:medical )?(?:care|attention|help)\b`, Description: "urgent-care directive"},
		{Name: "emergency", Pattern: `\bemergency\b`, Description: "emergency wording"},
		{Name: "dangerous", Pattern: `\bdangerous(?:ly)?\b`, Description: "alarming severity wording"},
		{Name: "life_threatening", Pattern: `\blife[ \-]threatening\b`, Description: "alarming severity wording"},
		{Name: "immediately", Pattern: `\bimmediately\b`, Description: "urgency wording"},
		{Name: "urgent", Pattern: `\burgent(?:ly)?\b`, Description: "urgency wording"},
		{Name: "critical_level", Pattern: `\bcritical(?:ly)? (?:high|low)\b`, Description: "alarming reading wording"},
		{Name: "alarming", Pattern: `\balarming(?:ly)?\b`, Description: "alarming wording"},
	}
}

func ungroundedDefs() []Def {
	return []Def{
		{Name: "you_have", Pattern: `\byou have (?:a |an )?[\w\-]+(?: [\w\-]+){0,3}`, Description: "health fact asserted about the user"},
		{Name: "metric_level", Pattern: `\byour [\w ]{2,24}(?: levels?)? (?:is|are|was|were|looks?|seems?|remains?) (?:very |quite |slightly |too )?(?:high|low|elevated|reduced|abnormal|irregular|concerning|out of range)\b`, Description: "reading or measurement asserted about the user"},
		{Name: "you_diagnosed", Pattern: `\byou (?:are|were|have been) (?:diagnosed|labell?ed) (?:with|as)\b(?: [\w\-]+){0,4}`, Description: "diagnosis asserted about the user"},
		{Name: "you_suffer", Pattern: `\byou (?:suffer|are suffering) from\b(?: [\w\-]+){0,4}`, Description: "condition asserted about the user"},
		{Name: "your_condition", Pattern: `\byour (?:condition|diagnosis|illness|disease) (?:is|has|will|means)\b`, Description: "statement about the user's condition"},
	}
}

func groundedDefs() []Def {
	return []Def{
		{Name: "document_attribution", Pattern: `\byour (?:documents?|records?|reports?|results?|chart|file|notes?) (?:shows?|indicates?|mentions?|notes?|says?|states?|lists?|includes?|records?)\b`, Description: "claim attributed to the user's documents"},
		{Name: "professional_attribution", Pattern: `\b(?:dr|doctor|prof|nurse)\.? \w+ (?:noted|diagnosed|wrote|recorded|observed|prescribed|recommended|documented|mentioned)\b`, Description: "claim attributed to a named professional"},
		{Name: "according_to", Pattern: `\baccording to (?:your|the) (?:documents?|records?|reports?|results?|doctor|care team|visit summary)\b`, Description: "claim attributed to a source"},
		{Name: "citation_marker", Pattern: `\[(?:doc |source |ref )?\d+\]`, Description: "inline citation marker"},
		{Name: "date_of_record", Pattern: `\b(?:on|dated|as of|recorded) \d{4}-\d{2}-\d{2}\b`, Description: "claim tied to a dated record"},
	}
}

func injectionDefs() []Def {
	return []Def{
		{Name: "ignore_previous", Pattern: `ignore (?:all )?(?:previous|prior|above|earlier) (?:instructions?|prompts?|rules?|messages?)`, Description: "instruction-override attempt"},
		{Name: "forget_instructions", Pattern: `forget (?:all |everything )?(?:your |previous |prior )*(?:instructions?|rules?|training)`, Description: "instruction-override attempt"},
		{Name: "disregard_safety", Pattern: `(?:disregard|bypass|override|disable) (?:your |all |the )?(?:safety|guidelines?|filters?|guardrails?|restrictions?)`, Description: "safety-override attempt"},
		{Name: "role_override", Pattern: `you are (?:now|no longer) (?:a|an|the)? ?\w+`, Description: "role-override attempt"},
		{Name: "pretend_role", Pattern: `pretend (?:to be|you are|you're)\b`, Description: "role-override attempt"},
		{Name: "fake_system_tag", Pattern: `<\/?(?:system|assistant|im_start|im_end)>|\[\/?(?:system|assistant)\]`, Description: "fake transcript tag"},
		{Name: "inline_role_label", Pattern: `(?:^|\n)\s*(?:system|assistant)\s*:`, Description: "fake transcript role label"},
		{Name: "jailbreak", Pattern: `\b(?:jailbreak|do anything now|dan mode|developer mode|no restrictions|without (?:any )?filters)\b`, Description: "jailbreak phrasing"},
	}
}
