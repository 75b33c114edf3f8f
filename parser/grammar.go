package parser

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// The structs below form the concrete parse tree. Each one corresponds to a
// single grammar rule; the builder turns them into ast nodes.

var toyLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*`},
	{Name: "String", Pattern: `"[^"\n]*"`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Operator", Pattern: `==|!=|>=|<=|[-+*/<>!=]`},
	{Name: "Punct", Pattern: `[(){},;]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

func buildOptions() []participle.Option {
	return []participle.Option{
		participle.Lexer(toyLexer),
		participle.Elide("Whitespace", "Comment"),
		participle.UseLookahead(4),
	}
}

var (
	programParser    = participle.MustBuild[programRule](buildOptions()...)
	expressionParser = participle.MustBuild[expressionRule](buildOptions()...)
)

type programRule struct {
	Pos   lexer.Position
	Funcs []*funcDefRule `@@*`
}

type funcDefRule struct {
	Pos    lexer.Position
	Name   string          `"fn" @Ident`
	Params *defArgListRule `"(" @@? ")"`
	Body   *blockRule      `@@`
}

type defArgListRule struct {
	Names []string `@Ident ("," @Ident)*`
}

type blockRule struct {
	Pos        lexer.Position
	Statements []*statementRule `"{" @@* "}"`
}

type statementRule struct {
	Pos    lexer.Position
	For    *forLoopRule     `  @@ ";"?`
	While  *whileLoopRule   `| @@ ";"?`
	If     *ifStatementRule `| @@ ";"?`
	Return *funcReturnRule  `| @@ ";"`
	Simple *simpleRule      `| @@ ";"`
}

// simpleRule covers the statements allowed in a for-loop header.
type simpleRule struct {
	Pos  lexer.Position
	Decl *varDeclRule  `  @@`
	Call *funcCallRule `| @@`
	Set  *varSetRule   `| @@`
}

type varDeclRule struct {
	Pos   lexer.Position
	Name  string          `"let" @Ident`
	Value *expressionRule `("=" @@)?`
}

type varSetRule struct {
	Pos   lexer.Position
	Name  string          `@Ident "="`
	Value *expressionRule `@@`
}

type funcCallRule struct {
	Pos  lexer.Position
	Name string       `@Ident "("`
	Args *argListRule `@@? ")"`
}

type argListRule struct {
	Args []*expressionRule `@@ ("," @@)*`
}

type funcReturnRule struct {
	Pos   lexer.Position
	Value *expressionRule `"return" @@`
}

type forLoopRule struct {
	Pos    lexer.Position
	Params *forParamsRule `"for" "(" @@ ")"`
	Body   *blockRule     `@@`
}

type forParamsRule struct {
	Init      *simpleRule     `@@ ";"`
	Condition *expressionRule `@@ ";"`
	Update    *simpleRule     `@@ ";"?`
}

type whileLoopRule struct {
	Pos       lexer.Position
	Condition *expressionRule `"while" "(" @@ ")"`
	Body      *blockRule      `@@`
}

type ifStatementRule struct {
	Pos       lexer.Position
	Condition *expressionRule `"if" "(" @@ ")"`
	Body      *blockRule      `@@`
}

// expressionRule is a flat operand/operator chain; the builder folds it.
type expressionRule struct {
	Pos  lexer.Position
	Head *operandRule      `@@`
	Tail []*binaryTailRule `@@*`
}

type binaryTailRule struct {
	Pos     lexer.Position
	Op      string       `@("==" | "!=" | ">=" | "<=" | "+" | "-" | "*" | "/" | ">" | "<")`
	Operand *operandRule `@@`
}

type operandRule struct {
	Unary *unaryRule `  @@`
	Term  *termRule  `| @@`
}

type unaryRule struct {
	Pos  lexer.Position
	Op   string    `@("-" | "!")`
	Term *termRule `@@`
}

type termRule struct {
	Pos     lexer.Position
	Number  *string         `  @Int`
	String  *string         `| @String`
	Boolean *string         `| @("true" | "false")`
	Call    *funcCallRule   `| @@`
	Ident   *string         `| @Ident`
	Sub     *expressionRule `| "(" @@ ")"`
}
