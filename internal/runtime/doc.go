// SPDX-License-Identifier: MPL-2.0

// Package runtime resolves fence languages to interpreters and runs code blocks.
//
// A Registry maps a language to a Definition (command plus ExecutionMode). It is
// built once from layered sources, later layers winning, and never changes
// afterwards. The Engine runs the blocks of one section strictly in order and
// records an Outcome per block in a Report:
//
//   - stdin: the body is piped to the interpreter
//   - file: the body is written to a temporary file whose path is the last argument
//   - arg: the body is passed as the last argument
//
// Task arguments reach every interpreter as MX_ARGS and MX_ARG_<i>.
package runtime
