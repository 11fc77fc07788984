package speech

import (
	"os/exec"
	"runtime"
)

// DarwinBinary is the macOS speech synthesizer.
const DarwinBinary = "/usr/bin/say"

// linuxCandidates are tried in order on other platforms.
var linuxCandidates = []string{"espeak-ng", "espeak"}

// DefaultBinary returns the speech executable for the running platform.
func DefaultBinary() string {
	if runtime.GOOS == "darwin" {
		return DarwinBinary
	}
	for _, name := range linuxCandidates {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return linuxCandidates[len(linuxCandidates)-1]
}
