package common

type ProviderType string

const (
	PROVIDER_TYPE_GITEA  ProviderType = "gitea"
	PROVIDER_TYPE_GITHUB ProviderType = "github"
	PROVIDER_TYPE_GITLAB ProviderType = "gitlab"
)

var ProviderTypes = []ProviderType{PROVIDER_TYPE_GITEA, PROVIDER_TYPE_GITHUB, PROVIDER_TYPE_GITLAB}

type CompareMode string

const (
	// Compares each version component as a string. Kept for compatibility with existing clients.
	COMPARE_MODE_LEXICOGRAPHIC CompareMode = "lexicographic"
	// Compares each version component as a number.
	COMPARE_MODE_NUMERIC CompareMode = "numeric"
)

const (
	PLATFORM_LINUX_X86_64   = "linux-x86_64"
	PLATFORM_DARWIN_X86_64  = "darwin-x86_64"
	PLATFORM_DARWIN_AARCH64 = "darwin-aarch64"
	PLATFORM_WINDOWS_X86_64 = "windows-x86_64"
)

// The sentence the release pipeline appends to every release body.
const NotesBoilerplate = "See the assets to download this version and install."
