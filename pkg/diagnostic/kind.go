package diagnostic

import (
	"gitlab.com/tozd/go/errors"
)

// Kind is the closed taxonomy of problems the parser can report.
type Kind uint8

const (
	KindUnknown Kind = iota

	// missing: a required element is absent
	MissingCloseDelimiter
	MissingTagName
	MissingProperty
	MissingBracketNotation
	MissingFilter
	MissingColon
	MissingFilterArgument
	MissingFilterSeparator
	MissingCondition
	MissingOperator
	MissingIterationIteree
	MissingIterationOperator
	MissingIterationArray
	MissingVariable
	MissingAssignment
	MissingImportPath
	MissingParameterValue
	MissingQuotation
	MissingHTMLTagClose
	MissingHTMLAttributeValue

	// invalid: present but malformed or misplaced
	InvalidTagName
	InvalidCharacter
	InvalidOperator
	InvalidPlacement
	InvalidProperty
	InvalidFilter
	InvalidSyntactic
	InvalidNesting
	InvalidArgument
	InvalidParameter
	InvalidRange
	InvalidHTMLAttribute
	UnknownTag

	// reject: structurally valid but disallowed by the dictionary
	RejectString
	RejectInteger
	RejectFloat
	RejectBoolean
	RejectReference
	RejectFilterArguments
	RejectArguments
	RejectParameters

	// warn: advisory
	WarnWhitespace
	WarnUnknownProperty
	WarnDeprecatedTag
	WarnDeprecatedFilter

	// hierarchy: synthesized after the token loop
	HierarchyUnclosed

	// internal: lexer or parser inconsistencies, never shown to users
	InternalUndefinedTransition
	InternalUnhandledToken

	kindCount
)

type Family uint8

const (
	FamilyUnknown Family = iota
	FamilyMissing
	FamilyInvalid
	FamilyReject
	FamilyWarn
	FamilyHierarchy
	FamilyInternal
)

func (f Family) String() string {
	switch f {
	case FamilyMissing:
		return "missing"
	case FamilyInvalid:
		return "invalid"
	case FamilyReject:
		return "reject"
	case FamilyWarn:
		return "warn"
	case FamilyHierarchy:
		return "hierarchy"
	case FamilyInternal:
		return "internal"
	}
	return "unknown"
}

type kindInfo struct {
	name     string
	family   Family
	severity Severity
	message  string
}

var kinds = [kindCount]kindInfo{
	KindUnknown: {"Unknown", FamilyUnknown, SeverityError, "Unknown problem"},

	MissingCloseDelimiter:     {"MissingCloseDelimiter", FamilyMissing, SeverityError, "Missing close delimiter"},
	MissingTagName:            {"MissingTagName", FamilyMissing, SeverityError, "Missing tag name"},
	MissingProperty:           {"MissingProperty", FamilyMissing, SeverityError, "Missing property after dot notation"},
	MissingBracketNotation:    {"MissingBracketNotation", FamilyMissing, SeverityError, "Missing closing bracket"},
	MissingFilter:             {"MissingFilter", FamilyMissing, SeverityError, "Missing filter after pipe"},
	MissingColon:              {"MissingColon", FamilyMissing, SeverityError, "Missing colon before filter arguments"},
	MissingFilterArgument:     {"MissingFilterArgument", FamilyMissing, SeverityError, "Missing filter argument"},
	MissingFilterSeparator:    {"MissingFilterSeparator", FamilyMissing, SeverityError, "Missing comma between filter arguments"},
	MissingCondition:          {"MissingCondition", FamilyMissing, SeverityError, "Missing condition"},
	MissingOperator:           {"MissingOperator", FamilyMissing, SeverityError, "Missing operator between values"},
	MissingIterationIteree:    {"MissingIterationIteree", FamilyMissing, SeverityError, "Missing iteration variable"},
	MissingIterationOperator:  {"MissingIterationOperator", FamilyMissing, SeverityError, "Missing 'in' operator"},
	MissingIterationArray:     {"MissingIterationArray", FamilyMissing, SeverityError, "Missing iteration array or range"},
	MissingVariable:           {"MissingVariable", FamilyMissing, SeverityError, "Missing variable name"},
	MissingAssignment:         {"MissingAssignment", FamilyMissing, SeverityError, "Missing assignment"},
	MissingImportPath:         {"MissingImportPath", FamilyMissing, SeverityError, "Missing quoted template name"},
	MissingParameterValue:     {"MissingParameterValue", FamilyMissing, SeverityError, "Missing parameter value"},
	MissingQuotation:          {"MissingQuotation", FamilyMissing, SeverityError, "Missing closing quotation"},
	MissingHTMLTagClose:       {"MissingHTMLTagClose", FamilyMissing, SeverityError, "Missing '>' for HTML tag"},
	MissingHTMLAttributeValue: {"MissingHTMLAttributeValue", FamilyMissing, SeverityError, "Missing attribute value"},

	InvalidTagName:       {"InvalidTagName", FamilyInvalid, SeverityError, "Invalid tag name"},
	InvalidCharacter:     {"InvalidCharacter", FamilyInvalid, SeverityError, "Invalid character"},
	InvalidOperator:      {"InvalidOperator", FamilyInvalid, SeverityError, "Invalid operator"},
	InvalidPlacement:     {"InvalidPlacement", FamilyInvalid, SeverityError, "Invalid tag placement"},
	InvalidProperty:      {"InvalidProperty", FamilyInvalid, SeverityError, "Invalid property"},
	InvalidFilter:        {"InvalidFilter", FamilyInvalid, SeverityError, "Unknown filter"},
	InvalidSyntactic:     {"InvalidSyntactic", FamilyInvalid, SeverityError, "End tag has no matching start tag"},
	InvalidNesting:       {"InvalidNesting", FamilyInvalid, SeverityError, "End tag closes a tag that is not the innermost open tag"},
	InvalidArgument:      {"InvalidArgument", FamilyInvalid, SeverityError, "Invalid argument"},
	InvalidParameter:     {"InvalidParameter", FamilyInvalid, SeverityError, "Unknown parameter"},
	InvalidRange:         {"InvalidRange", FamilyInvalid, SeverityError, "Invalid range expression"},
	InvalidHTMLAttribute: {"InvalidHTMLAttribute", FamilyInvalid, SeverityError, "Invalid HTML attribute"},
	UnknownTag:           {"UnknownTag", FamilyInvalid, SeverityError, "Unknown tag"},

	RejectString:          {"RejectString", FamilyReject, SeverityError, "String value is not accepted here"},
	RejectInteger:         {"RejectInteger", FamilyReject, SeverityError, "Integer value is not accepted here"},
	RejectFloat:           {"RejectFloat", FamilyReject, SeverityError, "Float value is not accepted here"},
	RejectBoolean:         {"RejectBoolean", FamilyReject, SeverityError, "Boolean value is not accepted here"},
	RejectReference:       {"RejectReference", FamilyReject, SeverityError, "Variable reference is not accepted here"},
	RejectFilterArguments: {"RejectFilterArguments", FamilyReject, SeverityError, "Filter does not accept arguments"},
	RejectArguments:       {"RejectArguments", FamilyReject, SeverityError, "Tag does not accept arguments"},
	RejectParameters:      {"RejectParameters", FamilyReject, SeverityError, "Tag does not accept parameters"},

	WarnWhitespace:       {"WarnWhitespace", FamilyWarn, SeverityHint, "Extraneous whitespace"},
	WarnUnknownProperty:  {"WarnUnknownProperty", FamilyWarn, SeverityWarning, "Unknown property"},
	WarnDeprecatedTag:    {"WarnDeprecatedTag", FamilyWarn, SeverityWarning, "Tag is deprecated"},
	WarnDeprecatedFilter: {"WarnDeprecatedFilter", FamilyWarn, SeverityWarning, "Filter is deprecated"},

	HierarchyUnclosed: {"HierarchyUnclosed", FamilyHierarchy, SeverityError, "Tag is never closed"},

	InternalUndefinedTransition: {"InternalUndefinedTransition", FamilyInternal, SeverityError, "Scanner state has no transition for the input"},
	InternalUnhandledToken:      {"InternalUnhandledToken", FamilyInternal, SeverityError, "Parser has no handler for the token"},
}

func (k Kind) info() kindInfo {
	if k >= kindCount {
		return kinds[KindUnknown]
	}
	return kinds[k]
}

func (k Kind) String() string     { return k.info().name }
func (k Kind) Family() Family     { return k.info().family }
func (k Kind) Severity() Severity { return k.info().severity }
func (k Kind) Message() string    { return k.info().message }

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	got, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = got
	return nil
}

func ParseKind(name string) (Kind, error) {
	for i := range kinds {
		if kinds[i].name == name {
			return Kind(i), nil
		}
	}
	return KindUnknown, errors.Errorf("unknown diagnostic kind %q", name)
}

// Kinds lists every kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := Kind(1); k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}
