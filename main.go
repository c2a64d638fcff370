package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/live-labs/credvault/cmd"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "store":
		runStore(os.Args[2:])
	case "get":
		runGet(os.Args[2:])
	case "rm":
		runRm(os.Args[2:])
	case "list", "ls":
		runList(os.Args[2:])
	case "audit":
		runAudit(os.Args[2:])
	case "verify":
		runVerify(os.Args[2:])
	case "keyring":
		runKeyring(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runStore(args []string) {
	fs := flag.NewFlagSet("store", flag.ExitOnError)
	value := fs.String("value", "", "Credential value (prompted when omitted)")
	kind := fs.String("kind", "", "Validation kind: api-key, token, url, email, generic")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: credvault store [-value v] [-kind k] <name>\n")
		os.Exit(1)
	}

	cmd.Store(fs.Arg(0), *value, *kind)
}

func runGet(args []string) {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	validate := fs.Bool("validate", false, "Validate the value against its kind's format rules")
	acquire := fs.Bool("acquire", false, "Prompt for the credential when it is not stored")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: credvault get [-validate] [-acquire] <name>\n")
		os.Exit(1)
	}

	cmd.Get(fs.Arg(0), *validate, *acquire)
}

func runRm(args []string) {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	force := fs.Bool("force", false, "Delete without confirmation")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Remove(fs.Args(), *force)
}

func runList(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.List()
}

func runAudit(args []string) {
	fs := flag.NewFlagSet("audit", flag.ExitOnError)
	limit := fs.Int("n", 50, "Number of entries to show (0 for all)")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Audit(*limit)
}

func runVerify(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Verify()
}

func runKeyring(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: credvault keyring <save|rm|status>\n")
		os.Exit(1)
	}

	switch args[0] {
	case "save":
		cmd.KeyringSave()
	case "rm", "delete":
		cmd.KeyringDelete()
	case "status":
		cmd.KeyringStatus()
	default:
		fmt.Fprintf(os.Stderr, "Unknown keyring subcommand: %s\n", args[0])
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`credvault - encrypted credential storage

Usage: credvault <command> [options]

Commands:
  store <name>     Store a credential (value prompted when not given)
  get <name>       Retrieve a credential value
  rm <name>...     Delete credentials
  list             List credential metadata (never values)
  audit            Show the audit trail
  verify           Check record integrity
  keyring          Manage the passphrase in the OS keyring
  help             Show this help

Environment:
  CREDVAULT_STORAGE_METHOD   in-memory-keychain | encrypted-file |
                             plaintext-env-file | bolt (default encrypted-file)
  CREDVAULT_STORAGE_PATH     record location (default ~/.credvault/credentials.json)
  CREDVAULT_SECURITY_LEVEL   advisory security label
  CREDVAULT_PASSPHRASE       vault passphrase (prompted when unset)`)
}
