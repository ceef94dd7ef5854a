/*
Package compiler runs the front end stages over a source file.

	Program Text ->
		lex ->
	Tokens ->
		parse ->
	Abstract Syntax Tree (ast) ->
		analyze ->
	Checked AST + Diagnostics

Each stage keeps going after the first error so that one run reports
as much as it can. Analysis is skipped if the text did not parse.
*/
package compiler
