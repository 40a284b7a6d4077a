package lexer

// State is a node of the scanner's state machine.
//
//	             ┌─────────────┐  "{%"/"{{"   ┌──────────────┐ name  ┌───────────────┐
//	   ┌───────▶ │   CharSeq   │ ───────────▶ │ TagBasic/    │ ────▶ │ argument      │
//	   │         └─────────────┘              │ TagObject    │       │ grammar states│
//	   │            │ "<name"                 └──────────────┘       └──────┬────────┘
//	   │            ▼                                                       │
//	   │      ┌─────────────┐  "{{"/"{%" (resume here afterwards)           ▼
//	   │      │ HTMLAttr... │ ──────────────────────────────▶ ...    ┌─────────────┐
//	   │      └─────────────┘                                        │  TagClose   │
//	   │                                                             └──────┬──────┘
//	   └─────────────────────────────── resume ◀────────────────────────────┘
//
// Dead ends report a ParseError and resynchronise through GotoTagEnd, which
// consumes up to the tag's close delimiter but never past a new open delimiter.
type State uint8

const (
	StateCharSeq State = iota
	StateEOS

	StateTagOpen
	StateTagBasic
	StateTagObject
	StateTagNone
	StateTagClose
	StateGotoTagEnd
	StateMissingClose
	StateLiquidBody

	StateObject
	StateObjectDotNotation
	StateObjectBracketNotation
	StateObjectBracketNotationEnd

	StateControlCondition
	StateControlOperator
	StateValue
	StateListValue
	StateListSeparator

	StateFilter
	StateFilterIdentifier
	StateFilterOperator
	StateFilterArgument
	StateFilterParameterValue
	StateFilterSeparator

	StateIterationIteree
	StateIterationOperator
	StateIterationArray
	StateTagParameters
	StateParameterOperator
	StateParameterValue

	StateVariableName
	StateAssignOperator
	StateAssignValue

	StateImportPath
	StateImportAlias
	StateImportValue

	StateHTMLAttributeName
	StateHTMLAttributeOperator
	StateHTMLAttributeValue
	StateHTMLAttributeValueQuoted
	StateHTMLEndTagClose
	StateHTMLBody

	stateCount
)

var stateNames = [stateCount]string{
	StateCharSeq:                  "CharSeq",
	StateEOS:                      "EOS",
	StateTagOpen:                  "TagOpen",
	StateTagBasic:                 "TagBasic",
	StateTagObject:                "TagObject",
	StateTagNone:                  "TagNone",
	StateTagClose:                 "TagClose",
	StateGotoTagEnd:               "GotoTagEnd",
	StateMissingClose:             "MissingClose",
	StateLiquidBody:               "LiquidBody",
	StateObject:                   "Object",
	StateObjectDotNotation:        "ObjectDotNotation",
	StateObjectBracketNotation:    "ObjectBracketNotation",
	StateObjectBracketNotationEnd: "ObjectBracketNotationEnd",
	StateControlCondition:         "ControlCondition",
	StateControlOperator:          "ControlOperator",
	StateValue:                    "Value",
	StateListValue:                "ListValue",
	StateListSeparator:            "ListSeparator",
	StateFilter:                   "Filter",
	StateFilterIdentifier:         "FilterIdentifier",
	StateFilterOperator:           "FilterOperator",
	StateFilterArgument:           "FilterArgument",
	StateFilterParameterValue:     "FilterParameterValue",
	StateFilterSeparator:          "FilterSeparator",
	StateIterationIteree:          "IterationIteree",
	StateIterationOperator:        "IterationOperator",
	StateIterationArray:           "IterationArray",
	StateTagParameters:            "TagParameters",
	StateParameterOperator:        "ParameterOperator",
	StateParameterValue:           "ParameterValue",
	StateVariableName:             "VariableName",
	StateAssignOperator:           "AssignOperator",
	StateAssignValue:              "AssignValue",
	StateImportPath:               "ImportPath",
	StateImportAlias:              "ImportAlias",
	StateImportValue:              "ImportValue",
	StateHTMLAttributeName:        "HTMLAttributeName",
	StateHTMLAttributeOperator:    "HTMLAttributeOperator",
	StateHTMLAttributeValue:       "HTMLAttributeValue",
	StateHTMLAttributeValueQuoted: "HTMLAttributeValueQuoted",
	StateHTMLEndTagClose:          "HTMLEndTagClose",
	StateHTMLBody:                 "HTMLBody",
}

func (s State) String() string {
	if s < stateCount {
		return stateNames[s]
	}
	return "State(?)"
}

// States lists every state, for exhaustive testing of the transition table.
func States() []State {
	out := make([]State, 0, stateCount)
	for s := State(0); s < stateCount; s++ {
		out = append(out, s)
	}
	return out
}
