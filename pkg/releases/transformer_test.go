package releases

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/roemer/releasegate/pkg/common"
	"github.com/roemer/releasegate/pkg/logging"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A fetcher that answers from a map and records the requested urls.
type fakeTextFetcher struct {
	mu        sync.Mutex
	responses map[string]string
	requested []string
}

func (f *fakeTextFetcher) Fetch(ctx context.Context, url string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requested = append(f.requested, url)
	return f.responses[url]
}

func newTestTransformer() *Transformer {
	return NewTransformer(logging.NewDiscardLogger(), nil)
}

func loadRawRelease(t *testing.T, path string) common.RawRelease {
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	raw := common.RawRelease{}
	require.NoError(t, json.Unmarshal(content, &raw))
	return raw
}

func TestNormalizeFullRelease(t *testing.T) {
	assert := assert.New(t)

	raw := loadRawRelease(t, "testdata/latest_release.json")
	fetcher := &fakeTextFetcher{responses: map[string]string{
		"https://downloads.example.com/google-keep-desktop_1.18.2_amd64.AppImage.tar.gz.sig": "linux-sig",
		"https://downloads.example.com/Google.Keep.app.tar.gz.sig":                           "darwin-sig",
		"https://downloads.example.com/Google.Keep_1.18.2_x64_en-US.msi.zip.sig":             "windows-sig",
	}}

	release := newTestTransformer().Normalize(context.Background(), raw, fetcher.Fetch)
	require.NotNil(t, release)

	assert.Equal("v1.18.2", release.Version)
	assert.Equal("Fixed tray icon.", release.Notes)
	assert.Equal("2023-05-07T18:31:04Z", release.PubDate)
	assert.ElementsMatch([]string{
		common.PLATFORM_LINUX_X86_64,
		common.PLATFORM_DARWIN_X86_64,
		common.PLATFORM_DARWIN_AARCH64,
		common.PLATFORM_WINDOWS_X86_64,
	}, lo.Keys(release.Platforms))

	assert.Equal(&common.PlatformArtifact{
		URL:       lo.ToPtr("https://downloads.example.com/google-keep-desktop_1.18.2_amd64.AppImage.tar.gz"),
		Signature: lo.ToPtr("linux-sig"),
	}, release.Platforms[common.PLATFORM_LINUX_X86_64])
	assert.Equal(release.Platforms[common.PLATFORM_DARWIN_X86_64], release.Platforms[common.PLATFORM_DARWIN_AARCH64])
	assert.Equal("darwin-sig", *release.Platforms[common.PLATFORM_DARWIN_AARCH64].Signature)
	assert.Equal("windows-sig", *release.Platforms[common.PLATFORM_WINDOWS_X86_64].Signature)

	// Only the three signatures were downloaded
	assert.Len(fetcher.requested, 3)
}

func TestNormalizeWindowsAsset(t *testing.T) {
	assert := assert.New(t)

	raw := common.RawRelease{
		"tag_name":     "v1.0.0",
		"body":         "",
		"published_at": "2024-01-01T00:00:00Z",
		"assets": []any{
			map[string]any{"name": "App-1.0.0-x64_en-US.msi.zip", "browser_download_url": "U"},
			map[string]any{"name": "App-1.0.0-x64_en-US.msi.zip.sig", "browser_download_url": "https://example.com/sig"},
		},
	}
	fetcher := &fakeTextFetcher{responses: map[string]string{"https://example.com/sig": "S"}}

	release := newTestTransformer().Normalize(context.Background(), raw, fetcher.Fetch)
	require.NotNil(t, release)
	assert.Equal(map[string]*common.PlatformArtifact{
		common.PLATFORM_WINDOWS_X86_64: {URL: lo.ToPtr("U"), Signature: lo.ToPtr("S")},
	}, release.Platforms)
}

func TestNormalizeNoMatchingAssets(t *testing.T) {
	assert := assert.New(t)

	raw := common.RawRelease{
		"tag_name":     "v1.0.0",
		"body":         "Notes",
		"published_at": "2024-01-01T00:00:00Z",
		"assets": []any{
			map[string]any{"name": "source.zip", "browser_download_url": "https://example.com/source.zip"},
		},
	}
	release := newTestTransformer().Normalize(context.Background(), raw, (&fakeTextFetcher{}).Fetch)
	require.NotNil(t, release)
	assert.NotNil(release.Platforms)
	assert.Empty(release.Platforms)

	// Without an assets list
	delete(raw, "assets")
	release = newTestTransformer().Normalize(context.Background(), raw, (&fakeTextFetcher{}).Fetch)
	require.NotNil(t, release)
	assert.NotNil(release.Platforms)
	assert.Empty(release.Platforms)
}

func TestNormalizeMissingRequiredFields(t *testing.T) {
	assert := assert.New(t)

	for _, field := range []string{"tag_name", "body", "published_at"} {
		raw := common.RawRelease{
			"tag_name":     "v1.0.0",
			"body":         "Notes",
			"published_at": "2024-01-01T00:00:00Z",
			"assets":       []any{},
		}
		delete(raw, field)
		assert.Nil(newTestTransformer().Normalize(context.Background(), raw, (&fakeTextFetcher{}).Fetch), field)

		// Present but not a string
		raw[field] = 42.0
		assert.Nil(newTestTransformer().Normalize(context.Background(), raw, (&fakeTextFetcher{}).Fetch), field)
	}
	assert.Nil(newTestTransformer().Normalize(context.Background(), common.RawRelease{}, (&fakeTextFetcher{}).Fetch))
}

func TestNormalizeSkipsMalformedAssets(t *testing.T) {
	assert := assert.New(t)

	raw := common.RawRelease{
		"tag_name":     "v1.0.0",
		"body":         "Notes",
		"published_at": "2024-01-01T00:00:00Z",
		"assets": []any{
			"not-an-object",
			map[string]any{"name": "broken.app.tar.gz"},
			map[string]any{"browser_download_url": "https://example.com/missing-name"},
			map[string]any{"name": 5, "browser_download_url": "https://example.com/numeric-name"},
			map[string]any{"name": "linux_amd64.AppImage.tar.gz", "browser_download_url": "https://example.com/linux"},
		},
	}
	release := newTestTransformer().Normalize(context.Background(), raw, (&fakeTextFetcher{}).Fetch)
	require.NotNil(t, release)
	assert.Equal(map[string]*common.PlatformArtifact{
		common.PLATFORM_LINUX_X86_64: {URL: lo.ToPtr("https://example.com/linux")},
	}, release.Platforms)
}

func TestNormalizeFailedSignatureIsEmpty(t *testing.T) {
	assert := assert.New(t)

	raw := common.RawRelease{
		"tag_name":     "v1.0.0",
		"body":         "Notes",
		"published_at": "2024-01-01T00:00:00Z",
		"assets": []any{
			map[string]any{"name": "x.app.tar.gz.sig", "browser_download_url": "https://example.com/unreachable"},
		},
	}
	release := newTestTransformer().Normalize(context.Background(), raw, (&fakeTextFetcher{}).Fetch)
	require.NotNil(t, release)
	for _, platform := range []string{common.PLATFORM_DARWIN_X86_64, common.PLATFORM_DARWIN_AARCH64} {
		artifact := release.Platforms[platform]
		require.NotNil(t, artifact)
		assert.Nil(artifact.URL)
		assert.Equal(lo.ToPtr(""), artifact.Signature)
	}
}

func TestNormalizeIsDeterministic(t *testing.T) {
	assert := assert.New(t)

	raw := common.RawRelease{
		"tag_name":     "v2.0.0",
		"body":         "Notes",
		"published_at": "2024-01-01T00:00:00Z",
		"assets": []any{
			map[string]any{"name": "first_x64_en-US.msi.zip", "browser_download_url": "https://example.com/first"},
			map[string]any{"name": "second_x64_en-US.msi.zip", "browser_download_url": "https://example.com/second"},
			map[string]any{"name": "first_x64_en-US.msi.zip.sig", "browser_download_url": "https://example.com/first.sig"},
			map[string]any{"name": "second_x64_en-US.msi.zip.sig", "browser_download_url": "https://example.com/second.sig"},
		},
	}
	fetcher := &fakeTextFetcher{responses: map[string]string{
		"https://example.com/first.sig":  "first",
		"https://example.com/second.sig": "second",
	}}
	for range 20 {
		release := newTestTransformer().WithSignatureConcurrency(4).Normalize(context.Background(), raw, fetcher.Fetch)
		require.NotNil(t, release)
		// The last asset in the list wins
		assert.Equal("https://example.com/second", *release.Platforms[common.PLATFORM_WINDOWS_X86_64].URL)
		assert.Equal("second", *release.Platforms[common.PLATFORM_WINDOWS_X86_64].Signature)
	}
}

func TestNormalizeCustomTable(t *testing.T) {
	assert := assert.New(t)

	table := PlatformTable{{Suffix: "_arm64.deb", Targets: []string{"linux-aarch64"}}}
	assert.NoError(table.Validate())
	transformer := NewTransformer(logging.NewDiscardLogger(), table)

	raw := common.RawRelease{
		"tag_name":     "v1.0.0",
		"body":         "Notes",
		"published_at": "2024-01-01T00:00:00Z",
		"assets": []any{
			map[string]any{"name": "app_1.0.0_arm64.deb", "browser_download_url": "https://example.com/deb"},
			map[string]any{"name": "app_1.0.0_x64_en-US.msi.zip", "browser_download_url": "https://example.com/msi"},
		},
	}
	release := transformer.Normalize(context.Background(), raw, (&fakeTextFetcher{}).Fetch)
	require.NotNil(t, release)
	assert.Equal([]string{"linux-aarch64"}, lo.Keys(release.Platforms))
}

func TestCleanNotes(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("Fixed bugs.", CleanNotes("Fixed bugs.\nSee the assets to download this version and install.\n\n"))
	assert.Equal("Fixed bugs.", CleanNotes("Fixed bugs.\r\nSee the assets to download this version and install."))
	assert.Equal("Fixed bugs.", CleanNotes("Fixed bugs. \r\n \n"))
	assert.Equal("", CleanNotes("See the assets to download this version and install."))
	assert.Equal("Keep\n\nthis", CleanNotes("Keep\n\nthis"))
	// Only a trailing boilerplate is removed
	text := "See the assets to download this version and install.\nMore text"
	assert.Equal(text, CleanNotes(text))
	assert.False(strings.HasSuffix(CleanNotes("a\n"), "\n"))
}

func TestPlatformTableValidate(t *testing.T) {
	assert := assert.New(t)

	assert.NoError(DefaultPlatformTable().Validate())
	assert.Error(PlatformTable{{Suffix: "", Targets: []string{"x"}}}.Validate())
	assert.Error(PlatformTable{{Suffix: ".deb"}}.Validate())
	assert.Error(PlatformTable{
		{Suffix: ".deb", Targets: []string{"a"}},
		{Suffix: ".deb", Targets: []string{"b"}},
	}.Validate())
	assert.Error(PlatformTable{nil}.Validate())
}
