package user_file

import (
	"path"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	maxBaseNameLen = 100
	maxExtLen      = 16
)

var (
	windowsReserved = map[string]struct{}{
		"con": {}, "prn": {}, "aux": {}, "nul": {},
		"com1": {}, "com2": {}, "com3": {}, "com4": {}, "com5": {}, "com6": {}, "com7": {}, "com8": {}, "com9": {},
		"lpt1": {}, "lpt2": {}, "lpt3": {}, "lpt4": {}, "lpt5": {}, "lpt6": {}, "lpt7": {}, "lpt8": {}, "lpt9": {},
	}

	// StoredNameRe is the only shape NewStoredName produces.
	StoredNameRe = regexp.MustCompile(`^[0-9a-f]{32}_[a-z0-9_-]{1,100}(\.[a-z0-9]{1,16})?$`)
)

// NewStoredName: "<32 hex>_<sanitized original>", e.g. "3f2a..9c_quarterly-report.pdf".
// The random prefix guarantees uniqueness, the suffix keeps it readable.
func NewStoredName(original string) string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "") + "_" + sanitizeFileName(original)
}

func IsStoredName(s string) bool { return StoredNameRe.MatchString(s) }

// sanitizeFileName folds the name to lower-case ASCII: [a-z0-9-] for the base
// and [a-z0-9] for the extension.
func sanitizeFileName(original string) string {
	s := strings.TrimSpace(original)
	s = strings.ReplaceAll(s, "\\", "/")
	s = path.Base(s)

	if s == "." || s == ".." || s == "/" || s == "" {
		return "file"
	}

	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	s, _, _ = transform.String(t, s)

	rawExt := path.Ext(s)
	base := strings.TrimSuffix(s, rawExt)
	ext := sanitizeExt(rawExt)

	var b strings.Builder
	b.Grow(len(base))
	prevDash := false
	for _, r := range base {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z':
			b.WriteRune(r)
			prevDash = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(unicode.ToLower(r))
			prevDash = false
		case r == '-' || r == '_' || r == '.' || unicode.IsSpace(r):
			if !prevDash {
				b.WriteRune('-')
				prevDash = true
			}
		default:
		}
	}
	base = strings.Trim(b.String(), "-")

	if base == "" {
		base = "file"
	}
	if _, bad := windowsReserved[base]; bad {
		base = "_" + base
	}

	for utf8.RuneCountInString(base) > maxBaseNameLen {
		_, size := utf8.DecodeLastRuneInString(base)
		base = base[:len(base)-size]
	}

	return base + ext
}

func sanitizeExt(ext string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimPrefix(ext, ".")) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" {
		return ""
	}
	if len(out) > maxExtLen {
		out = out[:maxExtLen]
	}
	return "." + out
}

func isMn(r rune) bool { return unicode.Is(unicode.Mn, r) }
