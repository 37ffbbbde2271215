package ui

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// WizardConfig is a minimal configuration struct produced by the
// interactive wizard. It is intentionally decoupled from the config
// package to avoid import cycles; the CLI layer adapts it into
// config.Config.
type WizardConfig struct {
	InputPath  string
	RetryPath  string
	OutputPath string
	LogPath    string
	Workers    int
	Timeout    time.Duration
	Verbosity  string
	SaveHeaders bool
	NoIPv6      bool
	FastFail    bool
}

// RunInteractiveWizard collects configuration from the user for
// `ecnspider wizard`.
func RunInteractiveWizard() (*WizardConfig, error) {
	reader := bufio.NewReader(os.Stdin)

	printWizardHeader()

	promptWithDefault := func(label, def string, required bool) (string, error) {
		if required {
			fmt.Printf("%s%s%s %s(required)%s: ", colorBold, label, colorReset, colorDim, colorReset)
		} else {
			fmt.Printf("%s%s%s %s[default: %s]%s: ", colorBold, label, colorReset, colorDim, def, colorReset)
		}
		text, err := reader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			text = def
		}
		return text, nil
	}

	promptYesNo := func(label string, def bool) (bool, error) {
		defStr := "y/N"
		if def {
			defStr = "Y/n"
		}
		text, err := promptWithDefault(fmt.Sprintf("%s (%s)", label, defStr), "", false)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(text) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			return def, nil
		}
	}

	input, err := promptWithDefault("Input CSV (rank, domain, ipv4, ipv6)", "", true)
	if err != nil {
		return nil, err
	}
	if input == "" {
		return nil, fmt.Errorf("input path is required")
	}

	retryOut, err := promptWithDefault("Retry output CSV", "retry.csv", false)
	if err != nil {
		return nil, err
	}

	output, err := promptWithDefault("Result output CSV", "output.csv", false)
	if err != nil {
		return nil, err
	}

	logPath, err := promptWithDefault("Log file", "ecnspider.log", false)
	if err != nil {
		return nil, err
	}

	workersStr, err := promptWithDefault("Workers", "5", false)
	if err != nil {
		return nil, err
	}
	workers, _ := strconv.Atoi(workersStr)
	if workers <= 0 {
		workers = 5
	}

	timeoutStr, err := promptWithDefault("Per-probe timeout (seconds)", "10", false)
	if err != nil {
		return nil, err
	}
	timeoutSecs, _ := strconv.Atoi(timeoutStr)
	if timeoutSecs <= 0 {
		timeoutSecs = 10
	}

	verbosity, err := promptWithDefault("Verbosity (CRITICAL, ERROR, WARNING, INFO, DEBUG)", "INFO", false)
	if err != nil {
		return nil, err
	}
	verbosity = strings.ToUpper(verbosity)

	saveHeaders, err := promptYesNo("Save response headers", false)
	if err != nil {
		return nil, err
	}
	noIPv6, err := promptYesNo("Disable IPv6 probing", false)
	if err != nil {
		return nil, err
	}
	fastFail, err := promptYesNo("Enable fast-fail", false)
	if err != nil {
		return nil, err
	}

	cfg := &WizardConfig{
		InputPath:   input,
		RetryPath:   retryOut,
		OutputPath:  output,
		LogPath:     logPath,
		Workers:     workers,
		Timeout:     time.Duration(timeoutSecs) * time.Second,
		Verbosity:   verbosity,
		SaveHeaders: saveHeaders,
		NoIPv6:      noIPv6,
		FastFail:    fastFail,
	}

	return cfg, nil
}

// printWizardHeader renders a simple, responsive ASCII header for the
// wizard.
func printWizardHeader() {
	width := 80
	if w := os.Getenv("COLUMNS"); w != "" {
		if v, err := strconv.Atoi(w); err == nil && v > 20 {
			width = v
		}
	}
	if width > 64 {
		width = 64
	}
	inner := width - 2
	hLine := strings.Repeat("─", inner)

	pad := func(n int) int {
		if n < 0 {
			return 0
		}
		return n
	}
	line1Len := 1 + 27 // " " + "ecnspider interactive setup"
	line2Len := 1 + 45 // " " + "Answer the following to configure your crawl."
	fmt.Println()
	fmt.Printf("┌%s┐\n", hLine)
	fmt.Printf("│ %secnspider interactive setup%s%s│\n", colorBold, colorReset, strings.Repeat(" ", pad(inner-line1Len)))
	fmt.Printf("├%s┤\n", hLine)
	fmt.Printf("│ %sAnswer the following to configure your crawl.%s%s│\n", colorDim, colorReset, strings.Repeat(" ", pad(inner-line2Len)))
	fmt.Printf("└%s┘\n", hLine)
	fmt.Println()
}
