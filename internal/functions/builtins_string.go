package functions

import (
	"regexp"
	"strings"

	"github.com/rdfquad/rdfquad/pkg/rdf"
)

func init() {
	for name, k := range stringBuiltins {
		builtins[name] = k
	}
}

var stringBuiltins = map[string]kernel{
	"STRLEN":       evalStrLen,
	"SUBSTR":       evalSubStr,
	"UCASE":        evalUCase,
	"LCASE":        evalLCase,
	"CONCAT":       evalConcat,
	"CONTAINS":     evalContains,
	"STRSTARTS":    evalStrStarts,
	"STRENDS":      evalStrEnds,
	"STRBEFORE":    evalStrBefore,
	"STRAFTER":     evalStrAfter,
	"REPLACE":      evalReplace,
	"REGEX":        evalRegex,
	"ENCODE_FOR_URI": evalEncodeForURI,
}

func evalStrLen(args []Expr, binding Binding) (rdf.Term, error) {
	term, err := arg1(args, binding, "STRLEN")
	if err != nil {
		return nil, err
	}
	s, err := extractString(term)
	if err != nil {
		return nil, err
	}
	return rdf.NewIntegerLiteral(int64(len([]rune(s)))), nil
}

// evalSubStr implements 1-based SUBSTR(str, start[, length]) per
// XPath fn:substring, whose clamping semantics the teacher's
// evaluateSubStr also follows.
func evalSubStr(args []Expr, binding Binding) (rdf.Term, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, errf("SUBSTR requires 2 or 3 arguments")
	}
	term, err := evalArg(args, 0, binding)
	if err != nil {
		return nil, err
	}
	s, err := extractString(term)
	if err != nil {
		return nil, err
	}
	runes := []rune(s)

	start, _, err := extractNumeric(args, 1, binding)
	if err != nil {
		return nil, err
	}
	startIdx := int(start) - 1
	if startIdx < 0 {
		startIdx = 0
	}
	if startIdx >= len(runes) {
		return rdf.NewLiteral(""), nil
	}

	if len(args) == 3 {
		length, _, err := extractNumeric(args, 2, binding)
		if err != nil {
			return nil, err
		}
		end := int(start) - 1 + int(length)
		if end > len(runes) {
			end = len(runes)
		}
		if end < startIdx {
			end = startIdx
		}
		return rdf.NewLiteral(string(runes[startIdx:end])), nil
	}
	return rdf.NewLiteral(string(runes[startIdx:])), nil
}

func evalUCase(args []Expr, binding Binding) (rdf.Term, error) {
	s, err := arg1String(args, binding, "UCASE")
	if err != nil {
		return nil, err
	}
	return rdf.NewLiteral(strings.ToUpper(s)), nil
}

func evalLCase(args []Expr, binding Binding) (rdf.Term, error) {
	s, err := arg1String(args, binding, "LCASE")
	if err != nil {
		return nil, err
	}
	return rdf.NewLiteral(strings.ToLower(s)), nil
}

func evalConcat(args []Expr, binding Binding) (rdf.Term, error) {
	var sb strings.Builder
	for _, a := range args {
		term, err := Eval(a, binding)
		if err != nil {
			return nil, err
		}
		s, err := extractString(term)
		if err != nil {
			return nil, err
		}
		sb.WriteString(s)
	}
	return rdf.NewLiteral(sb.String()), nil
}

func evalContains(args []Expr, binding Binding) (rdf.Term, error) {
	a, b, err := pairStrings(args, binding, "CONTAINS")
	if err != nil {
		return nil, err
	}
	return rdf.NewBooleanLiteral(strings.Contains(a, b)), nil
}

func evalStrStarts(args []Expr, binding Binding) (rdf.Term, error) {
	a, b, err := pairStrings(args, binding, "STRSTARTS")
	if err != nil {
		return nil, err
	}
	return rdf.NewBooleanLiteral(strings.HasPrefix(a, b)), nil
}

func evalStrEnds(args []Expr, binding Binding) (rdf.Term, error) {
	a, b, err := pairStrings(args, binding, "STRENDS")
	if err != nil {
		return nil, err
	}
	return rdf.NewBooleanLiteral(strings.HasSuffix(a, b)), nil
}

func evalStrBefore(args []Expr, binding Binding) (rdf.Term, error) {
	a, b, err := pairStrings(args, binding, "STRBEFORE")
	if err != nil {
		return nil, err
	}
	idx := strings.Index(a, b)
	if idx < 0 {
		return rdf.NewLiteral(""), nil
	}
	return rdf.NewLiteral(a[:idx]), nil
}

func evalStrAfter(args []Expr, binding Binding) (rdf.Term, error) {
	a, b, err := pairStrings(args, binding, "STRAFTER")
	if err != nil {
		return nil, err
	}
	idx := strings.Index(a, b)
	if idx < 0 {
		return rdf.NewLiteral(""), nil
	}
	return rdf.NewLiteral(a[idx+len(b):]), nil
}

func evalReplace(args []Expr, binding Binding) (rdf.Term, error) {
	if len(args) < 3 || len(args) > 4 {
		return nil, errf("REPLACE requires 3 or 4 arguments")
	}
	subjTerm, err := evalArg(args, 0, binding)
	if err != nil {
		return nil, err
	}
	subj, err := extractString(subjTerm)
	if err != nil {
		return nil, err
	}
	patternTerm, err := evalArg(args, 1, binding)
	if err != nil {
		return nil, err
	}
	pattern, err := extractString(patternTerm)
	if err != nil {
		return nil, err
	}
	replTerm, err := evalArg(args, 2, binding)
	if err != nil {
		return nil, err
	}
	repl, err := extractString(replTerm)
	if err != nil {
		return nil, err
	}

	flags := ""
	if len(args) == 4 {
		flagsTerm, err := evalArg(args, 3, binding)
		if err != nil {
			return nil, err
		}
		flags, err = extractString(flagsTerm)
		if err != nil {
			return nil, err
		}
	}

	re, err := compileRegex(pattern, flags)
	if err != nil {
		return nil, err
	}
	return rdf.NewLiteral(re.ReplaceAllString(subj, translateBackrefs(repl))), nil
}

func evalRegex(args []Expr, binding Binding) (rdf.Term, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, errf("REGEX requires 2 or 3 arguments")
	}
	subjTerm, err := evalArg(args, 0, binding)
	if err != nil {
		return nil, err
	}
	subj, err := extractString(subjTerm)
	if err != nil {
		return nil, err
	}
	patternTerm, err := evalArg(args, 1, binding)
	if err != nil {
		return nil, err
	}
	pattern, err := extractString(patternTerm)
	if err != nil {
		return nil, err
	}
	flags := ""
	if len(args) == 3 {
		flagsTerm, err := evalArg(args, 2, binding)
		if err != nil {
			return nil, err
		}
		flags, err = extractString(flagsTerm)
		if err != nil {
			return nil, err
		}
	}
	re, err := compileRegex(pattern, flags)
	if err != nil {
		return nil, err
	}
	return rdf.NewBooleanLiteral(re.MatchString(subj)), nil
}

// compileRegex translates SPARQL/XPath regex flags ("i" case-insensitive,
// "s" dotall, "m" multiline) into Go RE2 inline flag syntax, since Go's
// regexp package has no separate flags API. The "x" flag is accepted but
// has no effect: whitespace in the pattern is matched literally. Any
// other flag character is ignored.
func compileRegex(pattern, flags string) (*regexp.Regexp, error) {
	var inline strings.Builder
	for _, f := range flags {
		switch f {
		case 'i', 's', 'm':
			inline.WriteRune(f)
		case 'x':
			// Go RE2 has no "extended" mode and the pattern is passed on
			// unchanged, so this flag is a no-op.
		}
	}
	if inline.Len() > 0 {
		pattern = "(?" + inline.String() + ")" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errf("REGEX: invalid pattern: %v", err)
	}
	return re, nil
}

// translateBackrefs rewrites XPath-style "$1" backreferences into Go's
// "${1}" ReplaceAllString syntax.
func translateBackrefs(repl string) string {
	var sb strings.Builder
	for i := 0; i < len(repl); i++ {
		if repl[i] == '$' && i+1 < len(repl) && repl[i+1] >= '0' && repl[i+1] <= '9' {
			j := i + 1
			for j < len(repl) && repl[j] >= '0' && repl[j] <= '9' {
				j++
			}
			sb.WriteString("${" + repl[i+1:j] + "}")
			i = j - 1
			continue
		}
		sb.WriteByte(repl[i])
	}
	return sb.String()
}

// evalEncodeForURI implements percent-encoding per RFC 3986 unreserved
// characters, matching XPath fn:encode-for-uri.
func evalEncodeForURI(args []Expr, binding Binding) (rdf.Term, error) {
	s, err := arg1String(args, binding, "ENCODE_FOR_URI")
	if err != nil {
		return nil, err
	}
	const hex = "0123456789ABCDEF"
	var sb strings.Builder
	for _, b := range []byte(s) {
		if isUnreserved(b) {
			sb.WriteByte(b)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(hex[b>>4])
		sb.WriteByte(hex[b&0xf])
	}
	return rdf.NewLiteral(sb.String()), nil
}

func isUnreserved(b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z', b >= 'a' && b <= 'z', b >= '0' && b <= '9':
		return true
	case b == '-' || b == '_' || b == '.' || b == '~':
		return true
	default:
		return false
	}
}

func arg1String(args []Expr, binding Binding, name string) (string, error) {
	term, err := arg1(args, binding, name)
	if err != nil {
		return "", err
	}
	return extractString(term)
}

func pairStrings(args []Expr, binding Binding, name string) (string, string, error) {
	if len(args) != 2 {
		return "", "", argErr(name, 2, len(args))
	}
	a, err := evalArg(args, 0, binding)
	if err != nil {
		return "", "", err
	}
	b, err := evalArg(args, 1, binding)
	if err != nil {
		return "", "", err
	}
	sa, err := extractString(a)
	if err != nil {
		return "", "", err
	}
	sb, err := extractString(b)
	if err != nil {
		return "", "", err
	}
	return sa, sb, nil
}
