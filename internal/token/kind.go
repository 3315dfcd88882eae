package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident       // foo, $x, _y
	PrivateName // #x
	Number      // 1, 0x1f, 1n, .5e3
	String      // "x" or 'x'
	Regex       // /ab+c/gi
	// NoSubstTemplate is a template literal without substitutions: `abc`.
	NoSubstTemplate
	TemplateHead   // `abc${
	TemplateMiddle // }abc${
	TemplateTail   // }abc`
	// MarkupText is the raw text between markup tags.
	MarkupText

	keywordBeg
	KwBreak
	KwCase
	KwCatch
	KwClass
	KwConst
	KwContinue
	KwDebugger
	KwDefault
	KwDelete
	KwDo
	KwElse
	KwExport
	KwExtends
	KwFalse
	KwFinally
	KwFor
	KwFunction
	KwIf
	KwImport
	KwIn
	KwInstanceof
	KwNew
	KwNull
	KwReturn
	KwSuper
	KwSwitch
	KwThis
	KwThrow
	KwTrue
	KwTry
	KwTypeof
	KwVar
	KwVoid
	KwWhile
	KwWith
	keywordEnd

	punctBeg
	LBrace       // {
	RBrace       // }
	LParen       // (
	RParen       // )
	LBracket     // [
	RBracket     // ]
	Dot          // .
	Ellipsis     // ...
	Semicolon    // ;
	Comma        // ,
	Lt           // <
	Gt           // >
	LtEq         // <=
	GtEq         // >=
	EqEq         // ==
	BangEq       // !=
	EqEqEq       // ===
	BangEqEq     // !==
	Plus         // +
	Minus        // -
	Star         // *
	Slash        // /
	Percent      // %
	StarStar     // **
	PlusPlus     // ++
	MinusMinus   // --
	Shl          // <<
	Shr          // >>
	UShr         // >>>
	Amp          // &
	Pipe         // |
	Caret        // ^
	Bang         // !
	Tilde        // ~
	AndAnd       // &&
	OrOr         // ||
	QuestionQ    // ??
	Question     // ?
	QuestionDot  // ?.
	Colon        // :
	Assign       // =
	PlusAssign   // +=
	MinusAssign  // -=
	StarAssign   // *=
	SlashAssign  // /=
	PctAssign    // %=
	PowAssign    // **=
	ShlAssign    // <<=
	ShrAssign    // >>=
	UShrAssign   // >>>=
	AmpAssign    // &=
	PipeAssign   // |=
	CaretAssign  // ^=
	AndAssign    // &&=
	OrAssign     // ||=
	NullishAssig // ??=
	Arrow        // =>
	At           // @
	punctEnd
)

var kindNames = [...]string{
	Invalid:         "Invalid",
	EOF:             "EOF",
	Ident:           "Ident",
	PrivateName:     "PrivateName",
	Number:          "Number",
	String:          "String",
	Regex:           "Regex",
	NoSubstTemplate: "Template",
	TemplateHead:    "TemplateHead",
	TemplateMiddle:  "TemplateMiddle",
	TemplateTail:    "TemplateTail",
	MarkupText:      "MarkupText",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	if k > keywordBeg && k < keywordEnd {
		return keywordText[k]
	}
	if k > punctBeg && k < punctEnd {
		return punctText[k]
	}
	return "Kind(?)"
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool { return k > keywordBeg && k < keywordEnd }

// IsPunct reports whether k is a punctuator or operator.
func (k Kind) IsPunct() bool { return k > punctBeg && k < punctEnd }

// IsAssign reports whether k is '=' or a compound assignment operator.
func (k Kind) IsAssign() bool {
	switch k {
	case Assign, PlusAssign, MinusAssign, StarAssign, SlashAssign, PctAssign, PowAssign,
		ShlAssign, ShrAssign, UShrAssign, AmpAssign, PipeAssign, CaretAssign,
		AndAssign, OrAssign, NullishAssig:
		return true
	}
	return false
}
