/*
Package knight implements an interpreter for Knight, a small expression
language in which an entire program is a single prefix expression.

Knight has no statements. Assignment, loops, conditionals, and calls are all
functions returning values, written before their arguments with no
parentheses:

	; = n 10
	; = sum 0
	; WHILE n
		; = sum + sum n
		: = n - n 1
	OUTPUT + "sum: " sum

Every function is named by a single character. Functions named by an
uppercase letter may be written with any further uppercase letters and
underscores, so WHILE, W, and WHILE_LOOP are the same function. Brackets,
parentheses, and colons are whitespace and may be used to group visually.
Comments begin with # and run to the end of the line.

Values

There are four kinds of literal values: null (NULL), booleans (TRUE and
FALSE), 64-bit integers, and strings delimited by single or double quotes
with no escape sequences. Identifiers of lowercase letters, digits, and
underscores name global variables. BLOCK returns its argument unevaluated,
and CALL evaluates such a block later:

	; = square BLOCK * x x
	; = x 12
	OUTPUT CALL square

Most functions convert their arguments to the kind they need. The kind of a
binary operator's first argument decides the operation: + concatenates when
its first argument is a string and adds otherwise, and similarly * repeats or
multiplies. The ? function alone compares without conversion.

Embedding

Use NewVM to create an interpreter, then Evaluate or EvaluateString to run
programs against its variables. Options supply the line reader used by
PROMPT, the writer used by OUTPUT and DUMP, and the runner used by the `
function. Extensions add functions to every new VM through the coreext
packages; VM.Define adds them to one VM.
*/
package knight

import "github.com/zephyrtronium/knight/internal"

// Version is the interpreter version.
const Version = internal.Version
