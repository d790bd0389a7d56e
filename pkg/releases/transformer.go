// Package releases converts the raw release of an upstream into the normalized release served to clients.
package releases

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/roemer/releasegate/pkg/common"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const DefaultSignatureConcurrency = 4

const notesTrimChars = "\r\n "

type Transformer struct {
	logger               *slog.Logger
	table                PlatformTable
	signatureConcurrency int
}

func NewTransformer(logger *slog.Logger, table PlatformTable) *Transformer {
	if table == nil {
		table = DefaultPlatformTable()
	}
	return &Transformer{
		logger:               logger.With(slog.String("component", "transformer")),
		table:                table,
		signatureConcurrency: DefaultSignatureConcurrency,
	}
}

// Sets how many signatures are fetched in parallel. Values below 1 fetch one at a time.
func (t *Transformer) WithSignatureConcurrency(concurrency int) *Transformer {
	t.signatureConcurrency = max(concurrency, 1)
	return t
}

// Normalizes the raw release. Returns nil if the version, body or publication date is missing.
// Malformed assets are skipped, failed signature downloads result in an empty signature.
func (t *Transformer) Normalize(ctx context.Context, raw common.RawRelease, fetchText common.TextFetcher) *common.NormalizedRelease {
	version, versionOk := raw["tag_name"].(string)
	body, bodyOk := raw["body"].(string)
	publishedAt, publishedAtOk := raw["published_at"].(string)
	if !versionOk || !bodyOk || !publishedAtOk {
		t.logger.Debug(fmt.Sprintf("Release misses required fields (tag_name: %t, body: %t, published_at: %t)", versionOk, bodyOk, publishedAtOk))
		return nil
	}

	release := &common.NormalizedRelease{
		Version:   version,
		Notes:     CleanNotes(body),
		PubDate:   publishedAt,
		Platforms: map[string]*common.PlatformArtifact{},
	}

	rawAssets, ok := raw["assets"].([]any)
	if !ok {
		t.logger.Debug(fmt.Sprintf("Release '%s' has no assets list", version))
		return release
	}

	// Resolve the assets, signatures are downloaded in parallel
	resolved := make([]*resolvedAsset, len(rawAssets))
	var group errgroup.Group
	group.SetLimit(t.signatureConcurrency)
	for i, rawAsset := range rawAssets {
		name, downloadUrl, ok := parseAsset(rawAsset)
		if !ok {
			t.logger.Debug(fmt.Sprintf("Skipping malformed asset at index %d", i))
			continue
		}
		matches := t.table.classify(name)
		if len(matches) == 0 {
			continue
		}
		asset := &resolvedAsset{name: name, url: downloadUrl, matches: matches}
		resolved[i] = asset
		if lo.SomeBy(matches, func(m assetMatch) bool { return m.kind == assetKindSignature }) {
			group.Go(func() error {
				asset.signature = fetchText(ctx, downloadUrl)
				if asset.signature == "" {
					t.logger.Debug(fmt.Sprintf("Signature '%s' could not be fetched", name))
				}
				return nil
			})
		}
	}
	// Failed fetches end up as empty signatures, so there is no error to handle
	group.Wait()

	// Assemble in asset order so the result does not depend on download timing
	for _, asset := range resolved {
		if asset == nil {
			continue
		}
		for _, match := range asset.matches {
			for _, target := range match.mapping.Targets {
				artifact, exists := release.Platforms[target]
				if !exists {
					artifact = &common.PlatformArtifact{}
					release.Platforms[target] = artifact
				}
				switch match.kind {
				case assetKindBundle:
					artifact.URL = lo.ToPtr(asset.url)
				case assetKindSignature:
					artifact.Signature = lo.ToPtr(asset.signature)
				}
			}
		}
	}
	t.logger.Debug(fmt.Sprintf("Normalized release '%s' with platforms: %s", version, strings.Join(sortedKeys(release.Platforms), ", ")))
	return release
}

// Removes the boilerplate sentence and trailing line breaks and spaces from the release notes.
func CleanNotes(body string) string {
	notes := strings.TrimRight(body, notesTrimChars)
	notes = strings.TrimSuffix(notes, common.NotesBoilerplate)
	return strings.TrimRight(notes, notesTrimChars)
}

type resolvedAsset struct {
	name      string
	url       string
	signature string
	matches   []assetMatch
}

func parseAsset(rawAsset any) (string, string, bool) {
	asset, ok := rawAsset.(map[string]any)
	if !ok {
		return "", "", false
	}
	name, ok := asset["name"].(string)
	if !ok {
		return "", "", false
	}
	downloadUrl, ok := asset["browser_download_url"].(string)
	if !ok {
		return "", "", false
	}
	return name, downloadUrl, true
}

func sortedKeys(platforms map[string]*common.PlatformArtifact) []string {
	keys := lo.Keys(platforms)
	slices.Sort(keys)
	return keys
}
