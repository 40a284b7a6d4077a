package lexer

// Token is the kind of the last lexeme the scanner produced. The span of the
// lexeme is read from the scanner at emission time; tokens carry no payload.
type Token uint8

const (
	// TokenContinue is internal to the trampoline and never returned by Scan.
	TokenContinue Token = iota
	TokenEOS
	TokenParseError
	TokenWhitespace
	TokenNewline

	TokenFrontmatter

	TokenDelimiterOpen
	TokenDelimiterClose
	TokenTrimDashLeft
	TokenTrimDashRight

	TokenLiquidTagName
	TokenLiquidEndTagName
	TokenEmbeddedBody

	TokenObjectName
	TokenObjectProperty
	TokenObjectPropertyString
	TokenObjectPropertyNumber
	TokenObjectBracketOpen
	TokenObjectBracketClose

	TokenString
	TokenInteger
	TokenFloat
	TokenBoolean
	TokenKeyword
	TokenRange

	TokenControlOperator
	TokenListSeparator

	TokenFilter
	TokenFilterIdentifier
	TokenFilterOperator
	TokenFilterArgument
	TokenFilterParameter
	TokenFilterSeparator

	TokenIterationIteree
	TokenIterationOperator
	TokenParameter
	TokenParameterOperator

	TokenVariableName
	TokenAssignOperator

	TokenImport
	TokenImportKeyword

	TokenHTMLStartTagName
	TokenHTMLEndTagName
	TokenHTMLAttributeName
	TokenHTMLAttributeOperator
	TokenHTMLAttributeValue
	TokenHTMLTagClose
	TokenHTMLVoidTagClose

	tokenCount
)

var tokenNames = [tokenCount]string{
	TokenContinue:              "Continue",
	TokenEOS:                   "EOS",
	TokenParseError:            "ParseError",
	TokenWhitespace:            "Whitespace",
	TokenNewline:               "Newline",
	TokenFrontmatter:           "Frontmatter",
	TokenDelimiterOpen:         "DelimiterOpen",
	TokenDelimiterClose:        "DelimiterClose",
	TokenTrimDashLeft:          "TrimDashLeft",
	TokenTrimDashRight:         "TrimDashRight",
	TokenLiquidTagName:         "LiquidTagName",
	TokenLiquidEndTagName:      "LiquidEndTagName",
	TokenEmbeddedBody:          "EmbeddedBody",
	TokenObjectName:            "ObjectName",
	TokenObjectProperty:        "ObjectProperty",
	TokenObjectPropertyString:  "ObjectPropertyString",
	TokenObjectPropertyNumber:  "ObjectPropertyNumber",
	TokenObjectBracketOpen:     "ObjectBracketOpen",
	TokenObjectBracketClose:    "ObjectBracketClose",
	TokenString:                "String",
	TokenInteger:               "Integer",
	TokenFloat:                 "Float",
	TokenBoolean:               "Boolean",
	TokenKeyword:               "Keyword",
	TokenRange:                 "Range",
	TokenControlOperator:       "ControlOperator",
	TokenListSeparator:         "ListSeparator",
	TokenFilter:                "Filter",
	TokenFilterIdentifier:      "FilterIdentifier",
	TokenFilterOperator:        "FilterOperator",
	TokenFilterArgument:        "FilterArgument",
	TokenFilterParameter:       "FilterParameter",
	TokenFilterSeparator:       "FilterSeparator",
	TokenIterationIteree:       "IterationIteree",
	TokenIterationOperator:     "IterationOperator",
	TokenParameter:             "Parameter",
	TokenParameterOperator:     "ParameterOperator",
	TokenVariableName:          "VariableName",
	TokenAssignOperator:        "AssignOperator",
	TokenImport:                "Import",
	TokenImportKeyword:         "ImportKeyword",
	TokenHTMLStartTagName:      "HTMLStartTagName",
	TokenHTMLEndTagName:        "HTMLEndTagName",
	TokenHTMLAttributeName:     "HTMLAttributeName",
	TokenHTMLAttributeOperator: "HTMLAttributeOperator",
	TokenHTMLAttributeValue:    "HTMLAttributeValue",
	TokenHTMLTagClose:          "HTMLTagClose",
	TokenHTMLVoidTagClose:      "HTMLVoidTagClose",
}

func (t Token) String() string {
	if t < tokenCount {
		return tokenNames[t]
	}
	return "Token(?)"
}

// Tokens lists every token a scanner can return.
func Tokens() []Token {
	out := make([]Token, 0, tokenCount-1)
	for t := TokenEOS; t < tokenCount; t++ {
		out = append(out, t)
	}
	return out
}
