package readme

import (
	"regexp"
	"strings"
)

var (
	podfilePattern  = regexp.MustCompile(`pod\s+['"][^'"\n]+['"][^\n]*`)
	carthagePattern = regexp.MustCompile(`github\s+"[\w.-]+/[\w.-]+"[^\n]*`)
	spmPattern      = regexp.MustCompile(`https://github\.com/[\w.-]+/[\w.-]+`)
)

// ExtractInstallationInstructions probes text for the first Podfile line,
// Cartfile line and GitHub repository URL. The probes are independent; a
// field is set only when its probe matches.
func ExtractInstallationInstructions(text string) InstallationInstructions {
	var inst InstallationInstructions
	if m := podfilePattern.FindString(text); m != "" {
		inst.Podfile = strings.TrimSpace(m)
	}
	if m := carthagePattern.FindString(text); m != "" {
		inst.Carthage = strings.TrimSpace(m)
	}
	if m := spmPattern.FindString(text); m != "" {
		inst.SPM = strings.TrimRight(m, ".")
	}
	return inst
}
