package types

import (
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"text2phenotype.com/morph/logger"
)

const (
	// features
	StopWordsFeature = "stop_words"
	AllTokensFeature = "all_tokens"
)

var knownFeatures = []string{StopWordsFeature, AllTokensFeature}

type Configuration struct {
	Name       string   `json:"name"`
	FilePath   string   `json:"file_path"`
	Language   string   `yaml:"language" json:"language"`
	DefaultTag string   `yaml:"default_tag" json:"default_tag"`
	Features   []string `yaml:"features" json:"features"`
}

func (cfg Configuration) CheckFeature(featureName string) bool {
	for _, feat := range cfg.Features {
		if feat == featureName {
			return true
		}
	}

	return false
}

func (cfg Configuration) Validate() error {
	if len(cfg.Language) == 0 {
		return errors.New("language is required")
	}
	for _, feat := range cfg.Features {
		known := false
		for _, k := range knownFeatures {
			known = known || feat == k
		}
		if !known {
			return fmt.Errorf("unknown feature %q", feat)
		}
	}
	return nil
}

// Languages returns the distinct language codes used by configurations.
func Languages(cfgs []Configuration) []string {
	seen := make(map[string]bool)
	var codes []string
	for _, cfg := range cfgs {
		if !seen[cfg.Language] {
			seen[cfg.Language] = true
			codes = append(codes, cfg.Language)
		}
	}
	sort.Strings(codes)
	return codes
}

// LoadConfigurations reads every *.yaml file of dirPath. Invalid files are logged and skipped.
func LoadConfigurations(dirPath string) ([]Configuration, error) {
	morphLogger := logger.NewLogger("LoadConfigurations")

	files, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	configChan := make(chan Configuration, len(files))
	for _, f := range files {
		// Skip dirs and non-yaml files
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".yaml") {
			continue
		}

		wg.Add(1)
		go func(file os.DirEntry) {
			defer wg.Done()
			cfg := Configuration{
				Name:     strings.TrimSuffix(file.Name(), ".yaml"),
				FilePath: path.Join(dirPath, file.Name()),
			}
			cfgLogger := morphLogger.With().Str("config_name", cfg.Name).Logger()
			buf, err := os.ReadFile(cfg.FilePath)
			if err != nil {
				cfgLogger.Err(err).Msg("Failed to read configuration")
				return
			}
			if err := yaml.Unmarshal(buf, &cfg); err != nil {
				cfgLogger.Err(err).Msg("Failed to parse configuration")
				return
			}
			if err := cfg.Validate(); err != nil {
				cfgLogger.Err(err).Msg("Invalid configuration")
				return
			}

			configChan <- cfg
		}(f)
	}

	go func() {
		wg.Wait()
		close(configChan)
	}()

	configs := make([]Configuration, 0, len(configChan))
	for cfg := range configChan {
		configs = append(configs, cfg)
	}
	sort.Slice(configs, func(i, j int) bool {
		return configs[i].Name < configs[j].Name
	})
	return configs, nil
}
