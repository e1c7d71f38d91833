// Package cli provides the MiniDrive command-line client.
//
// It wires configuration, the local session store and the API services,
// and either runs a single command given on the command line or an
// interactive REPL.
//
// Commands:
//   - signup / login / logout / whoami
//   - upload <path>
//   - list
//   - download <name> [dest]
//   - delete <name>
//   - share <name> [ttl_seconds]
//   - ping
//
// Names containing spaces can be quoted: download "my report.pdf".
package cli
