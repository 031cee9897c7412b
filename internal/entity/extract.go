package entity

import (
	"strconv"
	"strings"
)

// Extractor pulls a Set of entities out of turn text. It holds no state
// beyond the package-level compiled patterns, so a single instance is
// safe to share and reuse across every turn in a pass (spec §5: "The
// EntityExtractor's compiled regex set is built-once and shared
// read-only").
type Extractor struct{}

// New returns an Extractor.
func New() *Extractor { return &Extractor{} }

// Extract implements spec §4.3: produce a per-turn-unique Set of typed
// entities from text, applying trimming, de-noising, the 2-character
// minimum, and the case-folding rule (every type but file_path is
// case-insensitive).
func (x *Extractor) Extract(text string) Set {
	out := Set{}
	add := func(t Type, raw string) {
		if s, ok := normalize(t, raw); ok {
			out[Entity{Type: t, Surface: s}] = true
		}
	}

	urlSpans := urlRe.FindAllStringIndex(text, -1)
	for _, span := range urlSpans {
		add(URL, text[span[0]:span[1]])
	}

	for _, span := range pathSepRe.FindAllStringIndex(text, -1) {
		if overlapsAny(span, urlSpans) {
			continue
		}
		add(FilePath, text[span[0]:span[1]])
	}
	for _, span := range pathExtRe.FindAllStringIndex(text, -1) {
		if overlapsAny(span, urlSpans) {
			continue
		}
		add(FilePath, text[span[0]:span[1]])
	}

	for _, m := range portRe.FindAllStringSubmatch(text, -1) {
		port := m[1]
		if port == "" {
			port = m[2]
		}
		if port == "" {
			continue
		}
		n, err := strconv.Atoi(port)
		if err != nil {
			continue
		}
		if (n >= 80 && n <= 99) || (n >= 1024 && n <= 65535) {
			add(Port, port)
		}
	}

	for _, m := range httpStatusRe.FindAllStringSubmatch(text, -1) {
		add(HTTPStatus, m[1])
	}

	for _, m := range exceptionRe.FindAllStringSubmatch(text, -1) {
		add(Exception, m[1])
	}

	for _, m := range errorMsgRe.FindAllStringSubmatch(text, -1) {
		add(ErrorMsg, m[1])
	}

	for _, m := range funcRe.FindAllStringSubmatch(text, -1) {
		name := m[1]
		if skipFuncs[name] || len(name) < 4 {
			continue
		}
		add(Function, name)
	}

	for _, m := range classRe.FindAllStringSubmatch(text, -1) {
		add(ClassName, m[1])
	}

	for _, m := range packageRe.FindAllStringSubmatch(text, -1) {
		add(Package, m[1])
	}

	for _, m := range commandRe.FindAllStringSubmatch(text, -1) {
		add(Command, strings.TrimSpace(m[1]))
	}

	for _, m := range envVarRe.FindAllStringSubmatch(text, -1) {
		if skipEnvVars[m[1]] {
			continue
		}
		add(EnvVar, m[1])
	}

	return out
}

func normalize(t Type, raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimRight(s, ".,;:)")
	s = strings.TrimSpace(s)
	if t != FilePath {
		s = strings.ToLower(s)
	}
	if len(s) < 2 {
		return "", false
	}
	return s, true
}

func overlapsAny(span []int, spans [][]int) bool {
	for _, s := range spans {
		if span[0] < s[1] && s[0] < span[1] {
			return true
		}
	}
	return false
}
