// Command sortrecords sorts a YAML or JSON list of records by one or more
// field paths and prints the result.
//
//	sortrecords people.yaml --key age:desc:number --key name:natural
//	cat people.json | sortrecords --key meta.created:time --output json
package main

import (
	"context"
	"os"

	"github.com/amp-labs/amp-sortby/shutdown"
)

func main() {
	ctx := shutdown.SetupHandler(context.Background())

	if err := execute(ctx, newRootCommand()); err != nil {
		os.Exit(1)
	}
}
