package homepage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/linkbot/internal/store"
)

func TestMapperMapServices(t *testing.T) {
	config := ServicesConfig{
		{
			"Dev Tools": []map[string]ServiceProps{
				{
					"Traefik": {Href: "https://traefik.domain.ext", Description: "Cloud Native Application Proxy"},
				},
				{
					"Gitea": {Href: ""},
				},
				{
					"Grafana": {Href: " https://grafana.domain.ext "},
				},
			},
		},
	}

	inputs, err := NewMapper("u1").MapServices(config)
	require.NoError(t, err)

	assert.Equal(t, []store.AddResourceInput{
		{URL: "https://traefik.domain.ext", Description: "Traefik - Cloud Native Application Proxy", UserID: "u1", Category: "dev-tools"},
		{URL: "https://grafana.domain.ext", Description: "Grafana", UserID: "u1", Category: "dev-tools"},
	}, inputs)
}

func TestMapperMapServicesEmptyConfig(t *testing.T) {
	_, err := NewMapper("").MapServices(ServicesConfig{})
	assert.Error(t, err, "empty config should return an error")
}

func TestMapperMapBookmarks(t *testing.T) {
	config := BookmarksConfig{
		{
			"Social": []map[string][]BookmarkEntry{
				{"Reddit": {{Abbr: "RE", Href: "https://reddit.com/"}}},
				{"Empty": {}},
			},
		},
	}

	inputs, err := NewMapper("homepage").MapBookmarks(config)
	require.NoError(t, err)
	require.Len(t, inputs, 1)
	assert.Equal(t, "https://reddit.com/", inputs[0].URL)
	assert.Equal(t, "Reddit", inputs[0].Description)
	assert.Equal(t, "social", inputs[0].Category)
}

func TestCategoryFromGroup(t *testing.T) {
	tests := map[string]string{
		"Infrastructure":  "infrastructure",
		"Dev Tools":       "dev-tools",
		"  Media   Apps ": "media-apps",
	}
	for in, want := range tests {
		assert.Equal(t, want, CategoryFromGroup(in), in)
	}
}
