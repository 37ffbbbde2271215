// Command ecnspider probes a list of domains over IPv4 and IPv6, toggling
// the kernel's TCP ECN setting between alternate half-cycles to detect
// middleboxes and servers that mishandle the option.
package main

import "github.com/ecnspider/ecnspider/internal/cli"

func main() {
	cli.Execute()
}
