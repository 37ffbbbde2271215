package ecnctl

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/ecnspider/ecnspider/internal/model"
)

const sysctlKey = "net.ipv4.tcp_ecn"

// SysctlController shells out to sudo -n /sbin/sysctl to read and write the
// kernel's ECN setting, exactly as the original tool did. -n fails fast
// instead of prompting for a password if the crawler wasn't pre-authorized.
type SysctlController struct {
	SudoPath   string
	SysctlPath string
}

// NewSysctlController returns a controller using the standard sudo/sysctl
// paths.
func NewSysctlController() *SysctlController {
	return &SysctlController{SudoPath: "sudo", SysctlPath: "/sbin/sysctl"}
}

// Get reads the current kernel ECN mode.
func (c *SysctlController) Get() (model.ECNMode, error) {
	out, err := exec.Command(c.SudoPath, "-n", c.SysctlPath, "-n", sysctlKey).Output()
	if err != nil {
		return 0, fmt.Errorf("ecnctl: reading %s: %w", sysctlKey, err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return 0, fmt.Errorf("ecnctl: parsing sysctl output %q: %w", out, err)
	}
	mode, ok := model.ECNModeFromSysctl(n)
	if !ok {
		return 0, fmt.Errorf("ecnctl: unexpected sysctl value %d for %s", n, sysctlKey)
	}
	return mode, nil
}

// Set writes mode to the kernel.
func (c *SysctlController) Set(mode model.ECNMode) error {
	setting := fmt.Sprintf("%s=%d", sysctlKey, mode.Sysctl())
	if err := exec.Command(c.SudoPath, "-n", c.SysctlPath, "-w", setting).Run(); err != nil {
		return fmt.Errorf("ecnctl: setting %s: %w", setting, err)
	}
	return nil
}
