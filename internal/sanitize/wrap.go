package sanitize

// WrapForPrompt delimits the sanitized text with a fixed tag so the
// generator can tell user content apart from its own instructions.
func WrapForPrompt(in SanitizedInput) string {
	return "<user_query>\n" + in.Text + "\n</user_query>"
}
