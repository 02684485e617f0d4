// Command leadmagnet serves the lead magnet API and renders magnets from
// form files on the command line.
//
//	leadmagnet serve --config leadmagnet.yaml
//	leadmagnet render -t checklist -f checklist.yaml -o out/
//	leadmagnet validate -t quiz -f quiz.json
//	leadmagnet autofill -t pdf-guide -f guide.yaml > drafted.yaml
//	leadmagnet types
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "leadmagnet: %v\n", err)
		os.Exit(1)
	}
}
