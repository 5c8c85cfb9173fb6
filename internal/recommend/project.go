// Package recommend scores a static project catalog against free-text queries and
// explains each pick.
package recommend

import (
	"encoding/json"
	"strings"
)

// Project is a portfolio catalog entry. Title is the identity key.
type Project struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	GithubURL   string   `json:"githubUrl,omitempty"`
	LiveURL     string   `json:"liveUrl,omitempty"`
	Image       string   `json:"image,omitempty"`
}

// HasLiveDemo reports whether the project links to a deployed demo.
func (p Project) HasLiveDemo() bool {
	return strings.TrimSpace(p.LiveURL) != ""
}

// projectJSON accepts both catalog shapes the site has used over time:
// tags/github/demo and technologies/githubUrl/liveUrl.
type projectJSON struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Image        string   `json:"image"`
	Tags         []string `json:"tags"`
	Github       string   `json:"github"`
	Demo         string   `json:"demo"`
	Technologies []string `json:"technologies"`
	GithubURL    string   `json:"githubUrl"`
	LiveURL      string   `json:"liveUrl"`
}

// UnmarshalJSON decodes either catalog shape into a Project.
func (p *Project) UnmarshalJSON(data []byte) error {
	var raw projectJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = Project{
		Title:       raw.Title,
		Description: raw.Description,
		Image:       raw.Image,
		Tags:        raw.Technologies,
		GithubURL:   raw.GithubURL,
		LiveURL:     raw.LiveURL,
	}
	if len(p.Tags) == 0 {
		p.Tags = raw.Tags
	}
	if p.GithubURL == "" {
		p.GithubURL = raw.Github
	}
	if p.LiveURL == "" {
		p.LiveURL = raw.Demo
	}
	return nil
}

// lowerTags returns the project's tags lowercased, in display order.
func (p Project) lowerTags() []string {
	tags := make([]string, len(p.Tags))
	for i, t := range p.Tags {
		tags[i] = strings.ToLower(t)
	}
	return tags
}
