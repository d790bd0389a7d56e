package releases

import (
	"fmt"
	"strings"

	"github.com/roemer/releasegate/pkg/common"
)

const SignatureExtension = ".sig"

// Maps an asset filename suffix to the platforms the asset is built for.
type PlatformMapping struct {
	Suffix  string
	Targets []string
}

type PlatformTable []*PlatformMapping

// The table for the bundles created by the tauri bundler.
func DefaultPlatformTable() PlatformTable {
	return PlatformTable{
		{Suffix: "amd64.AppImage.tar.gz", Targets: []string{common.PLATFORM_LINUX_X86_64}},
		{Suffix: "app.tar.gz", Targets: []string{common.PLATFORM_DARWIN_X86_64, common.PLATFORM_DARWIN_AARCH64}},
		{Suffix: "x64_en-US.msi.zip", Targets: []string{common.PLATFORM_WINDOWS_X86_64}},
	}
}

func (t PlatformTable) Validate() error {
	seen := map[string]bool{}
	for _, mapping := range t {
		if mapping == nil || strings.TrimSpace(mapping.Suffix) == "" {
			return fmt.Errorf("platform mapping without suffix")
		}
		if len(mapping.Targets) == 0 {
			return fmt.Errorf("platform mapping for suffix '%s' has no targets", mapping.Suffix)
		}
		if seen[mapping.Suffix] {
			return fmt.Errorf("duplicate platform mapping for suffix '%s'", mapping.Suffix)
		}
		seen[mapping.Suffix] = true
	}
	return nil
}

type assetKind int

const (
	assetKindBundle assetKind = iota
	assetKindSignature
)

// Classifies the asset by its name and returns the matching mappings.
// An asset can match more than one mapping.
func (t PlatformTable) classify(assetName string) []assetMatch {
	matches := []assetMatch{}
	for _, mapping := range t {
		if strings.HasSuffix(assetName, mapping.Suffix) {
			matches = append(matches, assetMatch{kind: assetKindBundle, mapping: mapping})
		} else if strings.HasSuffix(assetName, mapping.Suffix+SignatureExtension) {
			matches = append(matches, assetMatch{kind: assetKindSignature, mapping: mapping})
		}
	}
	return matches
}

type assetMatch struct {
	kind    assetKind
	mapping *PlatformMapping
}
