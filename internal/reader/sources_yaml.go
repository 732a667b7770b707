package reader

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// SourcesFile is the seed-file shape for registering feed sources.
type SourcesFile struct {
	Sources []SourceEntry `yaml:"sources"`
}

type SourceEntry struct {
	Name    string `yaml:"name"`
	FeedURL string `yaml:"feedUrl"`
}

type YAMLSourcesLoader struct {
	reader io.Reader
}

func NewYAMLSourcesLoader(reader io.Reader) *YAMLSourcesLoader {
	return &YAMLSourcesLoader{
		reader: reader,
	}
}

func (sl *YAMLSourcesLoader) Load(validate bool) (*SourcesFile, error) {
	decoder := yaml.NewDecoder(sl.reader)
	var file SourcesFile
	if err := decoder.Decode(&file); err != nil {
		return nil, err
	}
	if validate {
		if err := file.Validate(); err != nil {
			return nil, err
		}
	}
	return &file, nil
}

func (f *SourcesFile) Validate() error {
	if len(f.Sources) == 0 {
		return fmt.Errorf("sources file contains no sources")
	}
	seen := make(map[string]bool, len(f.Sources))
	for i, s := range f.Sources {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("source %d: name is required", i)
		}
		if strings.TrimSpace(s.FeedURL) == "" {
			return fmt.Errorf("source %q: feedUrl is required", s.Name)
		}
		if seen[s.FeedURL] {
			return fmt.Errorf("source %q: duplicate feedUrl %q", s.Name, s.FeedURL)
		}
		seen[s.FeedURL] = true
	}
	return nil
}
