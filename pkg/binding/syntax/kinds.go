package syntax

// NodeKind tree-sitter-java 节点类型
type NodeKind string

const (
	KindProgram                 NodeKind = "program"
	KindPackageDeclaration      NodeKind = "package_declaration"
	KindImportDeclaration       NodeKind = "import_declaration"
	KindClassDeclaration        NodeKind = "class_declaration"
	KindInterfaceDeclaration    NodeKind = "interface_declaration"
	KindEnumDeclaration         NodeKind = "enum_declaration"
	KindRecordDeclaration       NodeKind = "record_declaration"
	KindClassBody               NodeKind = "class_body"
	KindEnumBodyDeclarations    NodeKind = "enum_body_declarations"
	KindSuperclass              NodeKind = "superclass"
	KindFieldDeclaration        NodeKind = "field_declaration"
	KindMethodDeclaration       NodeKind = "method_declaration"
	KindConstructorDeclaration  NodeKind = "constructor_declaration"
	KindConstructorBody         NodeKind = "constructor_body"
	KindFormalParameters        NodeKind = "formal_parameters"
	KindFormalParameter         NodeKind = "formal_parameter"
	KindSpreadParameter         NodeKind = "spread_parameter"
	KindCatchFormalParameter    NodeKind = "catch_formal_parameter"
	KindResource                NodeKind = "resource"
	KindBlock                   NodeKind = "block"
	KindSwitchBlockGroup        NodeKind = "switch_block_statement_group"
	KindLocalVariableDecl       NodeKind = "local_variable_declaration"
	KindVariableDeclarator      NodeKind = "variable_declarator"
	KindExpressionStatement     NodeKind = "expression_statement"
	KindAssignmentExpression    NodeKind = "assignment_expression"
	KindMethodInvocation        NodeKind = "method_invocation"
	KindArgumentList            NodeKind = "argument_list"
	KindFieldAccess             NodeKind = "field_access"
	KindIdentifier              NodeKind = "identifier"
	KindThis                    NodeKind = "this"
	KindTypeIdentifier          NodeKind = "type_identifier"
	KindScopedTypeIdentifier    NodeKind = "scoped_type_identifier"
	KindScopedIdentifier        NodeKind = "scoped_identifier"
	KindGenericType             NodeKind = "generic_type"
	KindModifiers               NodeKind = "modifiers"
	KindMarkerAnnotation        NodeKind = "marker_annotation"
	KindAnnotation              NodeKind = "annotation"
	KindLambdaExpression        NodeKind = "lambda_expression"
	KindInferredParameters      NodeKind = "inferred_parameters"
	KindObjectCreation          NodeKind = "object_creation_expression"
	KindEnhancedForStatement    NodeKind = "enhanced_for_statement"
	KindForStatement            NodeKind = "for_statement"
	KindAsterisk                NodeKind = "asterisk"
	KindLineComment             NodeKind = "line_comment"
	KindBlockComment            NodeKind = "block_comment"
	KindStaticInitializer       NodeKind = "static_initializer"
	KindParenthesizedExpression NodeKind = "parenthesized_expression"
)

// 语句类节点，插入新语句时以其为锚点
var statementKinds = map[NodeKind]struct{}{
	KindLocalVariableDecl:          {},
	KindExpressionStatement:        {},
	"if_statement":                 {},
	"while_statement":              {},
	"do_statement":                 {},
	"return_statement":             {},
	"throw_statement":              {},
	"try_statement":                {},
	"try_with_resources_statement": {},
	"switch_expression":            {},
	"synchronized_statement":       {},
	"labeled_statement":            {},
	"yield_statement":              {},
	"break_statement":              {},
	"continue_statement":           {},
	"assert_statement":             {},
	KindForStatement:               {},
	KindEnhancedForStatement:       {},
	KindBlock:                      {},
}

// 类声明类节点
var typeDeclarationKinds = map[NodeKind]struct{}{
	KindClassDeclaration:     {},
	KindInterfaceDeclaration: {},
	KindEnumDeclaration:      {},
	KindRecordDeclaration:    {},
}

func IsStatement(kind string) bool {
	_, ok := statementKinds[NodeKind(kind)]
	return ok
}

func IsTypeDeclaration(kind string) bool {
	_, ok := typeDeclarationKinds[NodeKind(kind)]
	return ok
}

func IsComment(kind string) bool {
	return kind == string(KindLineComment) || kind == string(KindBlockComment)
}
