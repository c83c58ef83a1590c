package config

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// solcReleases maps each minor line to its first and last published patch
var solcReleases = map[string][2]int{
	"v0.4": {11, 26},
	"v0.5": {0, 17},
	"v0.6": {0, 12},
	"v0.7": {0, 6},
	"v0.8": {0, 28},
}

// evmVersions lists the targets solc accepts for --evm-version
var evmVersions = []string{
	"homestead",
	"tangerineWhistle",
	"spuriousDragon",
	"byzantium",
	"constantinople",
	"petersburg",
	"istanbul",
	"berlin",
	"london",
	"paris",
	"shanghai",
	"cancun",
	"prague",
}

// IsKnownSolcVersion reports whether version is a published solc release
func IsKnownSolcVersion(version string) bool {
	v := "v" + strings.TrimPrefix(version, "v")
	if !semver.IsValid(v) || semver.Prerelease(v) != "" || semver.Build(v) != "" {
		return false
	}
	// Reject shorthand like "0.8" which semver accepts as "v0.8.0"
	if strings.Count(version, ".") != 2 {
		return false
	}
	bounds, ok := solcReleases[semver.MajorMinor(v)]
	if !ok {
		return false
	}
	var patch int
	if _, err := fmt.Sscanf(v[len(semver.MajorMinor(v))+1:], "%d", &patch); err != nil {
		return false
	}
	return patch >= bounds[0] && patch <= bounds[1]
}

// IsKnownEVMVersion reports whether evm is a valid target. Empty means the compiler default.
func IsKnownEVMVersion(evm string) bool {
	if evm == "" {
		return true
	}
	for _, v := range evmVersions {
		if v == evm {
			return true
		}
	}
	return false
}

// CompareSolcVersions orders two release strings like semver.Compare
func CompareSolcVersions(a, b string) int {
	return semver.Compare("v"+strings.TrimPrefix(a, "v"), "v"+strings.TrimPrefix(b, "v"))
}
