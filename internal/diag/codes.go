package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0
	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexUnterminatedTemplate     Code = 1005
	LexUnterminatedRegex        Code = 1006

	// Парсерные
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynUnclosedParen     Code = 2002
	SynUnclosedBrace     Code = 2003
	SynUnclosedBracket   Code = 2004
	SynExpectSemicolon   Code = 2005
	SynExpectExpression  Code = 2006
	SynExpectIdentifier  Code = 2007
	SynExpectType        Code = 2008
	SynForBadHeader      Code = 2009
	SynBadAssignTarget   Code = 2010
	SynMarkupMismatch    Code = 2011
	SynModifierNotHere   Code = 2012
	SynImportMalformed   Code = 2013
	SynExportMalformed   Code = 2014
	SynTooManyErrors     Code = 2015
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Invalid numeric literal",
	LexUnterminatedTemplate:     "Unterminated template literal",
	LexUnterminatedRegex:        "Unterminated regular expression",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynUnclosedParen:            "Unclosed parenthesis",
	SynUnclosedBrace:            "Unclosed brace",
	SynUnclosedBracket:          "Unclosed bracket",
	SynExpectSemicolon:          "Expected semicolon",
	SynExpectExpression:         "Expected expression",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectType:               "Expected type",
	SynForBadHeader:             "Malformed loop header",
	SynBadAssignTarget:          "Invalid assignment target",
	SynMarkupMismatch:           "Mismatched markup closing tag",
	SynModifierNotHere:          "Modifier not allowed here",
	SynImportMalformed:          "Malformed import",
	SynExportMalformed:          "Malformed export",
	SynTooManyErrors:            "Too many errors",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
