package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/prequel-dev/proio/cmd/proio/internal/ops"
)

func main() {

	var (
		errS string
		kctx = kong.Parse(&ops.CLI)
	)

	switch kctx.Command() {
	case "ls <files>":
		if err := ops.RunList(); err != nil {
			errS = fmt.Sprintf("fail ls: %v", err)
		}
	case "cat", "cat <file>":
		if err := ops.RunCat(); err != nil {
			errS = fmt.Sprintf("fail cat: %v", err)
		}
	case "verify", "verify <file>":
		if err := ops.RunVerify(); err != nil {
			errS = fmt.Sprintf("fail verify: %v", err)
		}
	default:
		errS = fmt.Sprintf("unknown command '%s'", kctx.Command())
	}

	if errS != "" {
		fmt.Fprintf(os.Stderr, "proio: %s\n", errS)
		os.Exit(1)
	}
}
