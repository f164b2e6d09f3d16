package syntax

// Kind is the grammar node type of a Node. Named kinds follow the Java grammar's
// node names; anonymous tokens use their literal text (e.g. "{", "else", "|").
type Kind string

const (
	KindProgram            Kind = "program"
	KindPackageDeclaration Kind = "package_declaration"
	KindImportDeclaration  Kind = "import_declaration"

	KindClassDeclaration      Kind = "class_declaration"
	KindInterfaceDeclaration  Kind = "interface_declaration"
	KindEnumDeclaration       Kind = "enum_declaration"
	KindRecordDeclaration     Kind = "record_declaration"
	KindAnnotationDeclaration Kind = "annotation_type_declaration"
	KindClassBody             Kind = "class_body"
	KindInterfaceBody         Kind = "interface_body"
	KindEnumBody              Kind = "enum_body"
	KindEnumBodyDeclarations  Kind = "enum_body_declarations"
	KindSuperclass            Kind = "superclass"
	KindSuperInterfaces       Kind = "super_interfaces"
	KindExtendsInterfaces     Kind = "extends_interfaces"
	KindTypeList              Kind = "type_list"
	KindFieldDeclaration      Kind = "field_declaration"
	KindConstantDeclaration   Kind = "constant_declaration"
	KindMethodDeclaration     Kind = "method_declaration"
	KindConstructorDecl       Kind = "constructor_declaration"
	KindConstructorBody       Kind = "constructor_body"
	KindStaticInitializer     Kind = "static_initializer"
	KindFormalParameters      Kind = "formal_parameters"
	KindFormalParameter       Kind = "formal_parameter"
	KindSpreadParameter       Kind = "spread_parameter"
	KindInferredParameters    Kind = "inferred_parameters"
	KindModifiers             Kind = "modifiers"
	KindVariableDeclarator    Kind = "variable_declarator"
	KindDimensions            Kind = "dimensions"

	KindBlock                  Kind = "block"
	KindLocalVariableDecl      Kind = "local_variable_declaration"
	KindExpressionStatement    Kind = "expression_statement"
	KindIfStatement            Kind = "if_statement"
	KindWhileStatement         Kind = "while_statement"
	KindDoStatement            Kind = "do_statement"
	KindForStatement           Kind = "for_statement"
	KindEnhancedForStatement   Kind = "enhanced_for_statement"
	KindReturnStatement        Kind = "return_statement"
	KindThrowStatement         Kind = "throw_statement"
	KindBreakStatement         Kind = "break_statement"
	KindContinueStatement      Kind = "continue_statement"
	KindYieldStatement         Kind = "yield_statement"
	KindLabeledStatement       Kind = "labeled_statement"
	KindSynchronizedStatement  Kind = "synchronized_statement"
	KindAssertStatement        Kind = "assert_statement"
	KindSwitchExpression       Kind = "switch_expression"
	KindSwitchBlock            Kind = "switch_block"
	KindSwitchBlockGroup       Kind = "switch_block_statement_group"
	KindSwitchRule             Kind = "switch_rule"
	KindTryStatement           Kind = "try_statement"
	KindTryWithResources       Kind = "try_with_resources_statement"
	KindResourceSpecification  Kind = "resource_specification"
	KindResource               Kind = "resource"
	KindCatchClause            Kind = "catch_clause"
	KindCatchFormalParameter   Kind = "catch_formal_parameter"
	KindCatchType              Kind = "catch_type"
	KindFinallyClause          Kind = "finally_clause"
	KindExplicitConstructorInv Kind = "explicit_constructor_invocation"

	KindAssignmentExpression Kind = "assignment_expression"
	KindBinaryExpression     Kind = "binary_expression"
	KindUnaryExpression      Kind = "unary_expression"
	KindUpdateExpression     Kind = "update_expression"
	KindTernaryExpression    Kind = "ternary_expression"
	KindInstanceofExpression Kind = "instanceof_expression"
	KindLambdaExpression     Kind = "lambda_expression"
	KindCastExpression       Kind = "cast_expression"
	KindParenthesized        Kind = "parenthesized_expression"
	KindMethodInvocation     Kind = "method_invocation"
	KindMethodReference      Kind = "method_reference"
	KindArgumentList         Kind = "argument_list"
	KindObjectCreation       Kind = "object_creation_expression"
	KindArrayCreation        Kind = "array_creation_expression"
	KindArrayInitializer     Kind = "array_initializer"
	KindArrayAccess          Kind = "array_access"
	KindFieldAccess          Kind = "field_access"
	KindClassLiteral         Kind = "class_literal"
	KindThis                 Kind = "this"
	KindSuper                Kind = "super"

	KindIdentifier        Kind = "identifier"
	KindTypeIdentifier    Kind = "type_identifier"
	KindScopedIdentifier  Kind = "scoped_identifier"
	KindScopedTypeIdent   Kind = "scoped_type_identifier"
	KindGenericType       Kind = "generic_type"
	KindTypeArguments     Kind = "type_arguments"
	KindArrayType         Kind = "array_type"
	KindIntegralType      Kind = "integral_type"
	KindFloatingPointType Kind = "floating_point_type"
	KindBooleanType       Kind = "boolean_type"
	KindVoidType          Kind = "void_type"
	KindAnnotation        Kind = "annotation"
	KindMarkerAnnotation  Kind = "marker_annotation"
	KindAsterisk          Kind = "asterisk"

	KindDecimalInteger Kind = "decimal_integer_literal"
	KindHexInteger     Kind = "hex_integer_literal"
	KindOctalInteger   Kind = "octal_integer_literal"
	KindBinaryInteger  Kind = "binary_integer_literal"
	KindDecimalFloat   Kind = "decimal_floating_point_literal"
	KindHexFloat       Kind = "hex_floating_point_literal"
	KindTrue           Kind = "true"
	KindFalse          Kind = "false"
	KindCharacter      Kind = "character_literal"
	KindString         Kind = "string_literal"
	KindTextBlock      Kind = "text_block"
	KindNull           Kind = "null_literal"
	KindStringFragment Kind = "string_fragment"
	KindEscapeSequence Kind = "escape_sequence"
	KindLineComment    Kind = "line_comment"
	KindBlockComment   Kind = "block_comment"
	KindComment        Kind = "comment"
	KindError          Kind = "ERROR"
	KindEmptyStatement Kind = ";"
)

// Category groups kinds into the coarse variants recipes dispatch on.
type Category uint8

const (
	CategoryOther Category = iota
	CategoryDeclaration
	CategoryStatement
	CategoryExpression
	CategoryLiteral
	CategoryIdentifier
	CategoryType
	CategoryToken
	CategoryTrivia
	CategoryError
)

var categoryNames = [...]string{
	CategoryOther:       "other",
	CategoryDeclaration: "declaration",
	CategoryStatement:   "statement",
	CategoryExpression:  "expression",
	CategoryLiteral:     "literal",
	CategoryIdentifier:  "identifier",
	CategoryType:        "type",
	CategoryToken:       "token",
	CategoryTrivia:      "trivia",
	CategoryError:       "error",
}

func (c Category) String() string { return categoryNames[c] }

var categories = map[Kind]Category{
	KindPackageDeclaration:    CategoryDeclaration,
	KindImportDeclaration:     CategoryDeclaration,
	KindClassDeclaration:      CategoryDeclaration,
	KindInterfaceDeclaration:  CategoryDeclaration,
	KindEnumDeclaration:       CategoryDeclaration,
	KindRecordDeclaration:     CategoryDeclaration,
	KindAnnotationDeclaration: CategoryDeclaration,
	KindFieldDeclaration:      CategoryDeclaration,
	KindConstantDeclaration:   CategoryDeclaration,
	KindMethodDeclaration:     CategoryDeclaration,
	KindConstructorDecl:       CategoryDeclaration,
	KindStaticInitializer:     CategoryDeclaration,
	KindFormalParameter:       CategoryDeclaration,
	KindSpreadParameter:       CategoryDeclaration,
	KindVariableDeclarator:    CategoryDeclaration,
	KindCatchFormalParameter:  CategoryDeclaration,

	KindBlock:                 CategoryStatement,
	KindLocalVariableDecl:     CategoryStatement,
	KindExpressionStatement:   CategoryStatement,
	KindIfStatement:           CategoryStatement,
	KindWhileStatement:        CategoryStatement,
	KindDoStatement:           CategoryStatement,
	KindForStatement:          CategoryStatement,
	KindEnhancedForStatement:  CategoryStatement,
	KindReturnStatement:       CategoryStatement,
	KindThrowStatement:        CategoryStatement,
	KindBreakStatement:        CategoryStatement,
	KindContinueStatement:     CategoryStatement,
	KindYieldStatement:        CategoryStatement,
	KindLabeledStatement:      CategoryStatement,
	KindSynchronizedStatement: CategoryStatement,
	KindAssertStatement:       CategoryStatement,
	KindTryStatement:          CategoryStatement,
	KindTryWithResources:      CategoryStatement,
	KindSwitchBlockGroup:      CategoryStatement,
	KindCatchClause:           CategoryStatement,
	KindFinallyClause:         CategoryStatement,

	KindAssignmentExpression: CategoryExpression,
	KindBinaryExpression:     CategoryExpression,
	KindUnaryExpression:      CategoryExpression,
	KindUpdateExpression:     CategoryExpression,
	KindTernaryExpression:    CategoryExpression,
	KindInstanceofExpression: CategoryExpression,
	KindLambdaExpression:     CategoryExpression,
	KindCastExpression:       CategoryExpression,
	KindParenthesized:        CategoryExpression,
	KindMethodInvocation:     CategoryExpression,
	KindMethodReference:      CategoryExpression,
	KindObjectCreation:       CategoryExpression,
	KindArrayCreation:        CategoryExpression,
	KindArrayAccess:          CategoryExpression,
	KindFieldAccess:          CategoryExpression,
	KindClassLiteral:         CategoryExpression,
	KindSwitchExpression:     CategoryExpression,
	KindThis:                 CategoryExpression,
	KindSuper:                CategoryExpression,

	KindDecimalInteger: CategoryLiteral,
	KindHexInteger:     CategoryLiteral,
	KindOctalInteger:   CategoryLiteral,
	KindBinaryInteger:  CategoryLiteral,
	KindDecimalFloat:   CategoryLiteral,
	KindHexFloat:       CategoryLiteral,
	KindTrue:           CategoryLiteral,
	KindFalse:          CategoryLiteral,
	KindCharacter:      CategoryLiteral,
	KindString:         CategoryLiteral,
	KindTextBlock:      CategoryLiteral,
	KindNull:           CategoryLiteral,

	KindIdentifier:       CategoryIdentifier,
	KindScopedIdentifier: CategoryIdentifier,

	KindTypeIdentifier:    CategoryType,
	KindScopedTypeIdent:   CategoryType,
	KindGenericType:       CategoryType,
	KindArrayType:         CategoryType,
	KindIntegralType:      CategoryType,
	KindFloatingPointType: CategoryType,
	KindBooleanType:       CategoryType,
	KindVoidType:          CategoryType,

	KindLineComment:  CategoryTrivia,
	KindBlockComment: CategoryTrivia,
	KindComment:      CategoryTrivia,

	KindError: CategoryError,
}

// CategoryOf reports the coarse category of kind k. Unlisted anonymous tokens,
// including a bare ';' empty statement, map to CategoryToken.
func CategoryOf(k Kind, named bool) Category {
	if c, ok := categories[k]; ok {
		return c
	}
	if !named {
		return CategoryToken
	}
	return CategoryOther
}

// IsComment reports whether k is a comment kind.
func IsComment(k Kind) bool {
	return k == KindLineComment || k == KindBlockComment || k == KindComment
}

// IsLiteral reports whether k is a literal kind.
func IsLiteral(k Kind) bool {
	return categories[k] == CategoryLiteral
}

// IsTypeDeclaration reports whether k declares a class-like type.
func IsTypeDeclaration(k Kind) bool {
	switch k {
	case KindClassDeclaration, KindInterfaceDeclaration, KindEnumDeclaration,
		KindRecordDeclaration, KindAnnotationDeclaration:
		return true
	}
	return false
}

// IsSequence reports whether nodes of kind k hold an ordered list of statements or
// members, where a child may be removed or expanded into several siblings.
func IsSequence(k Kind) bool {
	switch k {
	case KindProgram, KindBlock, KindConstructorBody, KindClassBody, KindInterfaceBody,
		KindEnumBodyDeclarations, KindSwitchBlockGroup:
		return true
	}
	return false
}
