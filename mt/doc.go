// Package mt implements the mt scripting language, a pipe-oriented language
// in which every statement is a function call:
//   - Statements are separated by `@` (pipe the result into the next
//     statement) or `;` (start the next statement without input).
//   - Each statement is `head arg1 ... argN`; a callable head is dispatched
//     with the piped value inserted at its pipe slot.
//   - `(...)` evaluates immediately, `{...}` is a deferred block, `<<...>>` is
//     a string literal, and `[a b:c]` before a group limits what it captures.
//   - `$name` reads a variable, `=$name` and `var name` declare one.
//   - Operators such as `+`, `>=`, `?` and `?=` are shorthands for named
//     functions (add, greaterEqual, if, while).
//
// Comments use `//` and `/* */`. Blank lines split a script into thread
// programs that run concurrently and report results independently.
package mt
