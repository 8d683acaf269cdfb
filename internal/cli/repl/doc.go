// Package repl provides the interactive mode of emberkv-cli.
//
// Each input line is split into arguments with redis-cli quoting rules
// and handed to an ExecFunc, which sends the command and prints the
// reply. History is kept in memory and persisted to a file between
// sessions.
package repl
