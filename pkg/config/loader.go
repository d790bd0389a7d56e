package config

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/adhocore/jsonc"
	"github.com/goccy/go-yaml"
	"github.com/roemer/releasegate/pkg/common"
	"github.com/roemer/releasegate/pkg/presets"
)

const DefaultConfig = "preset:defaults"

// Loads the given configuration with all the configurations it extends.
// Environment overrides and defaults are not applied yet.
func Load(ctx context.Context, configPath string) (*ReleaseGateConfig, error) {
	if configPath == "" {
		configPath = DefaultConfig
	}
	if !strings.Contains(configPath, ":") {
		configPath = fmt.Sprintf("local:%s", configPath)
	}
	configInfo, err := newConfigInfo(configPath)
	if err != nil {
		return nil, err
	}
	return loadConfig(ctx, nil, configInfo)
}

////////////////////////////////////////////////////////////
// Internal
////////////////////////////////////////////////////////////

const (
	infoTypePreset string = "preset"
	infoTypeLocal  string = "local"
	infoTypeWeb    string = "web"
)

var httpSchemeRegex = regexp.MustCompile(`^https?://.+`)

// Holds information about the type and location of a config
type configInfo struct {
	Type     string
	Location string
}

func newConfigInfo(info string) (*configInfo, error) {
	if info == "" {
		return nil, fmt.Errorf("empty config info")
	}

	var configType, configLoc string

	if httpSchemeRegex.MatchString(info) {
		// The info is an url, so use web
		configType = infoTypeWeb
		configLoc = info
	} else {
		parts := strings.SplitN(info, ":", 2)
		if len(parts) == 1 {
			configType = infoTypePreset
			configLoc = parts[0]
		} else {
			configType = parts[0]
			configLoc = parts[1]
		}
	}
	return &configInfo{
		Type:     configType,
		Location: configLoc,
	}, nil
}

func loadConfig(ctx context.Context, parentInfo, newInfo *configInfo) (*ReleaseGateConfig, error) {
	var newConfig *ReleaseGateConfig
	var err error
	switch newInfo.Type {
	case infoTypePreset:
		newConfig, err = loadConfigFromEmbeddedFile(newInfo.Location)
	case infoTypeLocal:
		newConfig, err = loadConfigFromFile(parentInfo, newInfo)
	case infoTypeWeb:
		newConfig, err = loadConfigFromWeb(ctx, newInfo.Location)
	default:
		return nil, fmt.Errorf("unknown config type '%s'", newInfo.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("failed reading config '%s:%s': %w", newInfo.Type, newInfo.Location, err)
	}

	// The presets are merged first so the config itself has the last word
	mergedConfig := &ReleaseGateConfig{}
	for _, presetLookupInfo := range newConfig.Extends {
		presetInfo, err := newConfigInfo(presetLookupInfo)
		if err != nil {
			return nil, err
		}
		extendsConfig, err := loadConfig(ctx, newInfo, presetInfo)
		if err != nil {
			return nil, err
		}
		mergedConfig.MergeWith(extendsConfig)
	}
	mergedConfig.MergeWith(newConfig)
	return mergedConfig, nil
}

func loadConfigFromFile(parentInfo, newInfo *configInfo) (*ReleaseGateConfig, error) {
	// Build a list of paths that should be searched
	searchPaths := []string{}
	if filepath.IsAbs(newInfo.Location) {
		searchPaths = append(searchPaths, newInfo.Location)
	} else {
		// Current folder
		searchPaths = append(searchPaths, newInfo.Location)

		// Folder of the parent config
		if parentInfo != nil && parentInfo.Type == infoTypeLocal && parentInfo.Location != "" {
			searchPaths = append(searchPaths, filepath.Clean(filepath.Join(filepath.Dir(parentInfo.Location), newInfo.Location)))
		}

		// Current executable directory
		if executablePath, err := os.Executable(); err == nil {
			searchPaths = append(searchPaths, filepath.Clean(filepath.Join(filepath.Dir(executablePath), newInfo.Location)))
		}
	}

	hasExt := filepath.Ext(newInfo.Location) != ""
	finalValidConfigPath := ""
	for _, searchPath := range searchPaths {
		if hasExt {
			if exists, err := common.FileExists(searchPath); err != nil {
				return nil, err
			} else if exists {
				finalValidConfigPath = searchPath
				break
			}
		} else {
			// No extension, try the valid extensions
			foundPath, err := common.SearchConfigFile(os.DirFS(filepath.Dir(searchPath)), filepath.Base(searchPath))
			if err != nil {
				return nil, err
			}
			if foundPath != "" {
				finalValidConfigPath = filepath.Join(filepath.Dir(searchPath), foundPath)
				break
			}
		}
	}
	if finalValidConfigPath == "" {
		return nil, fmt.Errorf("file not found for '%s'", newInfo.Location)
	}

	content, err := os.ReadFile(finalValidConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed reading file '%s': %w", finalValidConfigPath, err)
	}
	config, err := decodeConfig(content, filepath.Ext(finalValidConfigPath))
	if err != nil {
		return nil, fmt.Errorf("failed parsing file '%s': %w", finalValidConfigPath, err)
	}
	return config, nil
}

func loadConfigFromEmbeddedFile(configPath string) (*ReleaseGateConfig, error) {
	// The presets are all in a subfolder
	configPath = path.Join("configs", configPath)

	if path.Ext(configPath) == "" {
		foundPath, err := common.SearchConfigFile(presets.Presets, configPath)
		if err != nil {
			return nil, err
		}
		if foundPath == "" {
			return nil, fmt.Errorf("could not find a config for file '%s'", configPath)
		}
		configPath = foundPath
	}

	configFile, err := presets.Presets.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed opening embedded file '%s': %w", configPath, err)
	}
	defer configFile.Close()
	content, err := io.ReadAll(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed reading embedded file '%s': %w", configPath, err)
	}
	config, err := decodeConfig(content, path.Ext(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed parsing embedded file '%s': %w", configPath, err)
	}
	return config, nil
}

func loadConfigFromWeb(ctx context.Context, urlString string) (*ReleaseGateConfig, error) {
	parsedUrl, err := url.Parse(urlString)
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: 30 * time.Second}
	content, err := common.HttpUtil.DownloadToMemory(ctx, client, urlString, "releasegate")
	if err != nil {
		return nil, fmt.Errorf("failed downloading config from '%s': %w", urlString, err)
	}
	config, err := decodeConfig(content, path.Ext(parsedUrl.Path))
	if err != nil {
		return nil, fmt.Errorf("failed parsing config from '%s': %w", urlString, err)
	}
	return config, nil
}

// Decodes the content according to the extension. Json files may contain comments and trailing commas.
func decodeConfig(content []byte, ext string) (*ReleaseGateConfig, error) {
	config := &ReleaseGateConfig{}
	switch ext {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.New().Strip(content), config); err != nil {
			return nil, err
		}
	default:
		if err := yaml.Unmarshal(content, config); err != nil {
			return nil, err
		}
	}
	// Projects are merged by id, so it must be known before merging
	config.defaultProjectIds()
	return config, nil
}
