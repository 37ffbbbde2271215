package ui

import "fmt"

// PrintRunHeader renders a header describing a single crawl invocation.
func PrintRunHeader(input, output, retryOutput, logfile string, workers int, timeout string, queueSize int) {
	fmt.Println()
	fmt.Printf("%s%sStarting ECN-Spider crawl%s\n", colorBold, colorCyan, colorReset)
	fmt.Printf(" Input    : %s\n", input)
	fmt.Printf(" Output   : %s\n", output)
	fmt.Printf(" Retry    : %s\n", retryOutput)
	fmt.Printf(" Log      : %s\n", logfile)
	fmt.Printf(" %s[workers:%s %s%d%s]  %s[timeout:%s %s%s%s]  %s[queue:%s %s%d%s]\n",
		colorDim, colorReset, colorCyan, workers, colorReset,
		colorDim, colorReset, colorCyan, timeout, colorReset,
		colorDim, colorReset, colorCyan, queueSize, colorReset,
	)
	fmt.Println()
}
