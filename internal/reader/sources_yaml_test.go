package reader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYAMLSourcesLoader_Load(t *testing.T) {
	reader := strings.NewReader(`
sources:
  - name: "Daily Wire"
    feedUrl: "https://dailywire.example.com/rss"
  - name: "Tech Pulse"
    feedUrl: "https://techpulse.example.com/feed.xml"
`)
	loader := NewYAMLSourcesLoader(reader)

	file, err := loader.Load(true)

	require.NoError(t, err)
	require.NotNil(t, file)
	assert.Len(t, file.Sources, 2)
	assert.Equal(t, "Daily Wire", file.Sources[0].Name)
	assert.Equal(t, "https://techpulse.example.com/feed.xml", file.Sources[1].FeedURL)
}

func TestYAMLSourcesLoader_Load_RejectsDuplicateFeedURL(t *testing.T) {
	reader := strings.NewReader(`
sources:
  - name: "A"
    feedUrl: "https://a.example.com/rss"
  - name: "B"
    feedUrl: "https://a.example.com/rss"
`)
	loader := NewYAMLSourcesLoader(reader)

	_, err := loader.Load(true)

	assert.Error(t, err)
}

func TestYAMLSourcesLoader_Load_RejectsMissingName(t *testing.T) {
	reader := strings.NewReader(`
sources:
  - feedUrl: "https://a.example.com/rss"
`)
	loader := NewYAMLSourcesLoader(reader)

	_, err := loader.Load(true)

	assert.Error(t, err)
}
