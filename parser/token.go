package parser

// TokenType represents the type of token scanned from the input.
type TokenType uint8

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL
	NEWLINE // end of a logical line
	INDENT  // increase in indentation depth
	DEDENT  // decrease in indentation depth

	// Literals
	NAME   // identifiers
	NUMBER // 42, 0x2a, 3.14, 42E+84
	STRING // "...", '...', b"...", f"...", triple-quoted

	// Keywords
	IF
	ELIF
	ELSE
	WHILE
	FOR
	IN
	DEF
	CLASS
	RETURN
	PASS
	BREAK
	CONTINUE
	LAMBDA
	AND
	OR
	NOT
	IS
	DEL
	GLOBAL
	NONLOCAL
	RAISE
	ASSERT
	IMPORT
	FROM
	AS
	TRY
	EXCEPT
	FINALLY
	TRUE
	FALSE
	NONE

	// Operators and delimiters
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]
	LBRACE    // {
	RBRACE    // }
	COMMA     // ,
	COLON     // :
	SEMI      // ;
	DOT       // .
	ASSIGN    // =
	AUGASSIGN // += -= *= /= //= %= **= @= &= |= ^= <<= >>=
	PLUS      // +
	MINUS     // -
	STAR      // *
	DOUBLESTAR // **
	SLASH      // /
	DOUBLESLASH // //
	PERCENT    // %
	ATSIGN     // @
	AMPER      // &
	VBAR       // |
	CARET      // ^
	TILDE      // ~
	LSHIFT     // <<
	RSHIFT     // >>
	LT         // <
	GT         // >
	LE         // <=
	GE         // >=
	EQ         // ==
	NE         // !=
)

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",
	NEWLINE: "NEWLINE",
	INDENT:  "INDENT",
	DEDENT:  "DEDENT",

	NAME:   "NAME",
	NUMBER: "NUMBER",
	STRING: "STRING",

	IF:       "if",
	ELIF:     "elif",
	ELSE:     "else",
	WHILE:    "while",
	FOR:      "for",
	IN:       "in",
	DEF:      "def",
	CLASS:    "class",
	RETURN:   "return",
	PASS:     "pass",
	BREAK:    "break",
	CONTINUE: "continue",
	LAMBDA:   "lambda",
	AND:      "and",
	OR:       "or",
	NOT:      "not",
	IS:       "is",
	DEL:      "del",
	GLOBAL:   "global",
	NONLOCAL: "nonlocal",
	RAISE:    "raise",
	ASSERT:   "assert",
	IMPORT:   "import",
	FROM:     "from",
	AS:       "as",
	TRY:      "try",
	EXCEPT:   "except",
	FINALLY:  "finally",
	TRUE:     "True",
	FALSE:    "False",
	NONE:     "None",

	LPAREN:      "(",
	RPAREN:      ")",
	LBRACKET:    "[",
	RBRACKET:    "]",
	LBRACE:      "{",
	RBRACE:      "}",
	COMMA:       ",",
	COLON:       ":",
	SEMI:        ";",
	DOT:         ".",
	ASSIGN:      "=",
	AUGASSIGN:   "augmented assignment",
	PLUS:        "+",
	MINUS:       "-",
	STAR:        "*",
	DOUBLESTAR:  "**",
	SLASH:       "/",
	DOUBLESLASH: "//",
	PERCENT:     "%",
	ATSIGN:      "@",
	AMPER:       "&",
	VBAR:        "|",
	CARET:       "^",
	TILDE:       "~",
	LSHIFT:      "<<",
	RSHIFT:      ">>",
	LT:          "<",
	GT:          ">",
	LE:          "<=",
	GE:          ">=",
	EQ:          "==",
	NE:          "!=",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token represents a lexical token with zero-copy semantics.
// Instead of storing the token text as a string (which would allocate),
// we store byte offsets into the original source buffer.
type Token struct {
	Type   TokenType
	Start  int // Byte offset into source buffer
	End    int // End offset (exclusive)
	Line   int // Line number (1-indexed)
	Column int // Column number (1-indexed)
}

// String materializes the token text from the source buffer.
func (t Token) String(source []byte) string {
	if t.Start < 0 || t.End > len(source) || t.Start >= t.End {
		return ""
	}
	return string(source[t.Start:t.End])
}

// Bytes returns the token text as a zero-copy slice of the source buffer.
func (t Token) Bytes(source []byte) []byte {
	if t.Start < 0 || t.End > len(source) || t.Start >= t.End {
		return nil
	}
	return source[t.Start:t.End]
}

var keywords = map[string]TokenType{
	"if":       IF,
	"elif":     ELIF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"in":       IN,
	"def":      DEF,
	"class":    CLASS,
	"return":   RETURN,
	"pass":     PASS,
	"break":    BREAK,
	"continue": CONTINUE,
	"lambda":   LAMBDA,
	"and":      AND,
	"or":       OR,
	"not":      NOT,
	"is":       IS,
	"del":      DEL,
	"global":   GLOBAL,
	"nonlocal": NONLOCAL,
	"raise":    RAISE,
	"assert":   ASSERT,
	"import":   IMPORT,
	"from":     FROM,
	"as":       AS,
	"try":      TRY,
	"except":   EXCEPT,
	"finally":  FINALLY,
	"True":     TRUE,
	"False":    FALSE,
	"None":     NONE,
}
