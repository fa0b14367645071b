package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
)

const usage = `Usage: pushclip <command> [flags]

Commands:
  run       watch the clipboard and sync with other devices (default)
  login     sign in and register this device
  logout    unregister this device and sign out
  devices   list devices known to this account
  ping      ask every other device to announce itself
  list      show recent clips
  labels    manage labels: labels [add|rename|rm] <name> [new name]
  backup    upload the local store to the cloud bucket
  restore   replace the local store from the newest backup
  sync      merge the newest backup into the local store and re-upload
  prune     delete old non-favorite clips

Flags:
  -c path   JSON config file
  -r url    push relay address
  -d path   local database file
  -n name   device nickname
  -i secs   clipboard poll interval
`

// Command extracts the subcommand from argv: the first argument when it is
// not a flag, "run" otherwise. Flags are handled separately by the config
// loaders.
func Command(args []string) string {
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		return args[1]
	}
	return "run"
}

// CommandArgs returns the non-flag words following the subcommand. A word
// directly after a flag is taken as that flag's value and skipped, the same
// reading flagx applies.
func CommandArgs(args []string) []string {
	if len(args) < 2 || strings.HasPrefix(args[1], "-") {
		return nil
	}
	var out []string
	for i := 2; i < len(args); i++ {
		if strings.HasPrefix(args[i], "-") {
			if !strings.Contains(args[i], "=") && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
			}
			continue
		}
		out = append(out, args[i])
	}
	return out
}

// Dispatch runs one command to completion.
func (a *App) Dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "run":
		return a.RunAgent(ctx)
	case "login":
		return a.Login(ctx)
	case "logout":
		return a.Logout(ctx)
	case "devices":
		return a.Devices(ctx)
	case "ping":
		return a.Ping(ctx)
	case "list":
		return a.List(ctx)
	case "labels":
		return a.Labels(ctx, args)
	case "backup":
		return a.Backup(ctx)
	case "restore":
		return a.Restore(ctx)
	case "sync":
		return a.Sync(ctx)
	case "prune":
		return a.Prune(ctx)
	case "help":
		fmt.Fprint(os.Stdout, usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command: %s", cmd)
	}
}
