// Package backend routes commands that reference Windows executables to a
// backend able to run them: directly on Windows, through the MetaQuotes Wine
// prefix, or inside a Parallels virtual machine via prlctl.
//
// [Select] makes the routing decision from plain inputs; [Dispatcher] probes
// the machine, builds the [Invocation] and hands it to a [Runner].
package backend
