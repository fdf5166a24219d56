// Package cli provides the StackRail command-line client.
//
// It wires configuration, the local state store, the backend client and
// the application services, and exposes one handler per subcommand behind
// a cobra command tree. Typical flow: resolve the current project pointer,
// authenticate the saved session, call the backend, render the result.
//
// Key features:
//   - join / verify / login / logout
//   - project create, list, switch and show
//   - rail items, scored stack tasks, pop and push
//
// The tree is built with NewRootCommand and run with Execute.
package cli
