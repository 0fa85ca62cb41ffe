package completion

import (
	"sort"
	"strings"
)

// keywordList holds the reserved words of the expression language.
const keywordList = "AddHandler|AddressOf|Alias|And|AndAlso|As|Boolean|ByRef|Byte|ByVal|Call|Case|Catch|CBool|CByte|" +
	"CChar|CDate|CDbl|CDec|Char|CInt|Class|CLng|CObj|Const|Continue|CSByte|CShort|CSng|CStr|CType|CUInt|" +
	"CULng|CUShort|Date|Decimal|Declare|Default|Delegate|Dim|DirectCast|Do|Double|Each|Else|ElseIf|End|" +
	"EndIf|Enum|Erase|Error|Event|Exit|False|Finally|For|Friend|Function|Get|GetType|GetXMLNamespace|" +
	"Global|GoSub|GoTo|Handles|If|Implements|Imports|In|Inherits|Integer|Interface|Is|IsNot|Let|Lib|Like|" +
	"Long|Loop|Me|Mod|Module|MustInherit|MustOverride|MyBase|MyClass|Namespace|Narrowing|New|Next|Not|" +
	"Nothing|NotInheritable|NotOverridable|Object|Of|On|Operator|Option|Optional|Or|OrElse|Out|Overloads|" +
	"Overridable|Overrides|ParamArray|Partial|Private|Property|Protected|Public|RaiseEvent|ReadOnly|ReDim|" +
	"REM|RemoveHandler|Resume|Return|SByte|Select|Set|Shadows|Shared|Short|Single|Static|Step|Stop|String|" +
	"Structure|Sub|SyncLock|Then|Throw|To|True|Try|TryCast|TypeOf|UInteger|ULong|UShort|Using|Variant|" +
	"Wend|While|Widening|With|WithEvents|WriteOnly|Xor|#Const|#Else|#ElseIf|#End|#If"

// KeywordSet answers case-insensitive keyword lookups.
type KeywordSet struct {
	byLower map[string]string
	sorted  []string
}

// Keywords is the expression language's keyword set.
var Keywords = NewKeywordSet(strings.Split(keywordList, "|"))

// NewKeywordSet builds a set from words, keeping the first spelling of each.
func NewKeywordSet(words []string) *KeywordSet {
	k := &KeywordSet{byLower: make(map[string]string, len(words))}
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		lw := strings.ToLower(w)
		if _, ok := k.byLower[lw]; ok {
			continue
		}
		k.byLower[lw] = w
		k.sorted = append(k.sorted, w)
	}
	sort.Strings(k.sorted)
	return k
}

// Contains reports whether word is a keyword, ignoring case.
func (k *KeywordSet) Contains(word string) bool {
	_, ok := k.byLower[strings.ToLower(word)]
	return ok
}

// Canonical returns the keyword's canonical spelling.
func (k *KeywordSet) Canonical(word string) (string, bool) {
	w, ok := k.byLower[strings.ToLower(word)]
	return w, ok
}

// All returns every keyword in ordinal order.
func (k *KeywordSet) All() []string {
	return append([]string(nil), k.sorted...)
}

// WithPrefix returns the keywords starting with prefix, ignoring case.
func (k *KeywordSet) WithPrefix(prefix string) []string {
	lp := strings.ToLower(prefix)
	var out []string
	for _, w := range k.sorted {
		if strings.HasPrefix(strings.ToLower(w), lp) {
			out = append(out, w)
		}
	}
	return out
}

// Spans splits text into keyword and non-keyword runs for highlighting.
// Words are maximal runs of letters, digits, "_" and a leading "#".
func (k *KeywordSet) Spans(text string) []Span {
	var spans []Span
	start := 0
	flush := func(end int, kw bool) {
		if end > start {
			spans = append(spans, Span{Text: text[start:end], Keyword: kw})
		}
		start = end
	}
	i := 0
	for i < len(text) {
		if !isWordByte(text[i]) && text[i] != '#' {
			i++
			continue
		}
		j := i + 1
		for j < len(text) && isWordByte(text[j]) {
			j++
		}
		if k.Contains(text[i:j]) {
			flush(i, false)
			flush(j, true)
		}
		i = j
	}
	flush(len(text), false)
	return spans
}

// Span is a run of text that is or is not a keyword.
type Span struct {
	Text    string
	Keyword bool
}

func isWordByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80
}
