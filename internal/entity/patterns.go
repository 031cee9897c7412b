package entity

import "regexp"

// Go's RE2 engine has no lookbehind, so a file path candidate can't simply
// exclude a preceding "://". Instead, URLs are extracted first and any
// later path/extension match that overlaps a URL's span is dropped,
// standing in for the negative lookbehind RE2 can't express.

var (
	urlRe = regexp.MustCompile(`https?://[^\s<>"'` + "`" + `\])]+`)

	// A path candidate is an optional leading segment (so bare relative
	// paths like "internal/rollout/parser.go" match in full) followed by
	// one or more "/segment" groups — the "directory separator" half of
	// the spec's file_path rule. No leading word-boundary anchor: one is
	// unsatisfiable right before an absolute path ("space" then "/" are
	// both non-word, so \b never fires there), and the character class
	// itself already stops the match at whitespace.
	pathSepRe = regexp.MustCompile(`[\w.\-]*(?:/[\w.\-]+)+`)

	// The "file extension" half: a bare filename with no separator still
	// counts, per spec §4.3 ("a file path must contain a directory
	// separator OR a file extension") — broader than the original, which
	// required a separator unconditionally.
	pathExtRe = regexp.MustCompile(`\b[A-Za-z0-9_\-]{2,}\.(?:go|py|js|jsx|ts|tsx|rs|rb|java|kt|c|h|cc|cpp|hpp|toml|yaml|yml|json|md|txt|sh|bash|zsh|sql|css|scss|html|xml|conf|cfg|ini|lock|mod|sum|proto|gradle|dockerfile)\b`)

	portRe = regexp.MustCompile(`(?:[Pp]ort|PORT)[= ]+(\d{2,5})|:(\d{2,5})(?:[/\s,\)]|$)`)

	httpStatusRe = regexp.MustCompile(`\b((?:1|2|3|4|5)\d{2})\b\s+(?:Unauthorized|Forbidden|Not Found|Internal Server Error|Bad Request|OK|Created|Accepted|No Content|Bad Gateway|Service Unavailable|Gateway Timeout|error|Error|ERROR)`)

	// Exceptions: CamelCase ending in Error, Exception, Warning, or Fault.
	exceptionRe = regexp.MustCompile(`\b([A-Z][a-zA-Z]*(?:Error|Exception|Warning|Fault))\b`)

	// Generic error/panic/fatal message lines, distinct from the CamelCase
	// exception-name pattern above: "error: connection refused",
	// "panic: nil pointer", "fatal - disk full".
	errorMsgRe = regexp.MustCompile(`(?i)\b(?:error|panic|fatal)\s*[:\-]\s*([^\n]{2,80})`)

	funcRe = regexp.MustCompile(`\b([a-z_][a-z0-9_]*(?:\.[a-z_][a-z0-9_]*)*)\s*\(`)

	classRe = regexp.MustCompile(`\b([A-Z][a-z]+(?:[A-Z][a-z]+)+)\b`)

	packageRe = regexp.MustCompile(`(?:pip install|pip3 install|npm install|yarn add|pacman -S|yay -S|cargo install|gem install|go install)\s+([a-zA-Z][a-zA-Z0-9_\-]{1,})`)

	commandRe = regexp.MustCompile(`(?m)(?:^|\$\s+)((?:git|docker|npm|pip|python|node|cargo|make|curl|wget|ssh|scp|rsync|kubectl|uv|systemctl|go|cmake)\s+[a-z][a-z0-9_\- ]{2,40})`)

	// SCREAMING_SNAKE_CASE of at least two underscore-separated tokens,
	// per spec §4.3's env_var rule.
	envVarRe = regexp.MustCompile(`\b([A-Z][A-Z0-9]*(?:_[A-Z0-9]+)+)\b`)
)

var skipFuncs = map[string]bool{
	"print": true, "len": true, "str": true, "int": true, "list": true,
	"dict": true, "set": true, "type": true, "range": true, "open": true,
	"super": true, "self": true, "init": true, "main": true, "test": true,
	"run": true, "get": true, "put": true, "post": true,
}

var skipEnvVars = map[string]bool{
	"TRUE": true, "FALSE": true, "NULL": true, "NONE": true,
}
