// Package modrinth implements the Modrinth v2 API client.
package modrinth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/modsmith/modsmith/pkg/httputil"
	"github.com/modsmith/modsmith/pkg/mod"
	"github.com/modsmith/modsmith/pkg/providers"
)

const defaultBaseURL = "https://api.modrinth.com/v2"

// Client provides access to the Modrinth API.
// It handles HTTP requests with caching and automatic retries.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*providers.Client
	baseURL string
}

// NewClient creates a Modrinth client with the given response cache.
// The userAgent identifies this application per Modrinth API policy.
func NewClient(cache *httputil.Cache, userAgent string) *Client {
	return &Client{
		Client: providers.NewClient(cache.Namespace("modrinth:"), map[string]string{
			"User-Agent": userAgent,
		}),
		baseURL: defaultBaseURL,
	}
}

// Project fetches pack metadata for a project id or slug.
func (c *Client) Project(ctx context.Context, projectID string) (mod.Pack, error) {
	var pack mod.Pack
	err := c.Cached(ctx, "project:"+projectID, false, &pack, func() error {
		return c.fetchProject(ctx, projectID, &pack)
	})
	return pack, err
}

func (c *Client) fetchProject(ctx context.Context, projectID string, pack *mod.Pack) error {
	var data apiProject
	if err := c.Get(ctx, fmt.Sprintf("%s/project/%s", c.baseURL, url.PathEscape(projectID)), &data); err != nil {
		if errors.Is(err, providers.ErrNotFound) {
			return fmt.Errorf("%w: modrinth project %s", err, projectID)
		}
		return err
	}
	*pack = data.toPack()
	return nil
}

// Versions lists a project's versions, newest first. gameVersion and loader
// narrow the listing server-side; pass "" to skip a filter.
func (c *Client) Versions(ctx context.Context, projectID, gameVersion, loader string) ([]mod.Version, error) {
	key := fmt.Sprintf("versions:%s:%s:%s", projectID, gameVersion, loader)
	var versions []mod.Version
	err := c.Cached(ctx, key, false, &versions, func() error {
		return c.fetchVersions(ctx, projectID, gameVersion, loader, &versions)
	})
	return versions, err
}

func (c *Client) fetchVersions(ctx context.Context, projectID, gameVersion, loader string, out *[]mod.Version) error {
	q := url.Values{}
	if gameVersion != "" {
		q.Set("game_versions", fmt.Sprintf("[%q]", gameVersion))
	}
	if loader != "" {
		q.Set("loaders", fmt.Sprintf("[%q]", loader))
	}
	u := fmt.Sprintf("%s/project/%s/version", c.baseURL, url.PathEscape(projectID))
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var data []apiVersion
	if err := c.Get(ctx, u, &data); err != nil {
		if errors.Is(err, providers.ErrNotFound) {
			return fmt.Errorf("%w: modrinth project %s", err, projectID)
		}
		return err
	}

	versions := make([]mod.Version, 0, len(data))
	for _, v := range data {
		versions = append(versions, v.toVersion())
	}
	*out = versions
	return nil
}

// Search queries Modrinth for packs of the given kind, relevance-ordered.
func (c *Client) Search(ctx context.Context, kind mod.Kind, query string) ([]mod.Pack, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("facets", fmt.Sprintf(`[["project_type:%s"]]`, facetType(kind)))
	q.Set("limit", "25")

	var data apiSearchResponse
	if err := c.Get(ctx, c.baseURL+"/search?"+q.Encode(), &data); err != nil {
		return nil, err
	}

	packs := make([]mod.Pack, 0, len(data.Hits))
	for _, h := range data.Hits {
		packs = append(packs, h.toPack(kind))
	}
	return packs, nil
}

// facetType maps a resource kind to the Modrinth project_type facet.
// Texture packs are a legacy split; Modrinth files them under resourcepack.
func facetType(kind mod.Kind) string {
	switch kind {
	case mod.KindShaderPack:
		return "shader"
	case mod.KindResourcePack, mod.KindTexturePack:
		return "resourcepack"
	default:
		return "mod"
	}
}

func parseDependencyType(s string) mod.DependencyType {
	switch s {
	case "optional":
		return mod.DepOptional
	case "incompatible":
		return mod.DepIncompatible
	case "embedded":
		return mod.DepEmbedded
	default:
		return mod.DepRequired
	}
}

type apiProject struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ProjectType string `json:"project_type"`
	Downloads   int    `json:"downloads"`
	IconURL     string `json:"icon_url"`
}

func (p apiProject) toPack() mod.Pack {
	kind := mod.KindMod
	switch p.ProjectType {
	case "resourcepack":
		kind = mod.KindResourcePack
	case "shader":
		kind = mod.KindShaderPack
	}
	return mod.Pack{
		ID:          p.ID,
		Slug:        p.Slug,
		Name:        p.Title,
		Provider:    providers.Modrinth,
		Kind:        kind,
		Description: p.Description,
		Downloads:   p.Downloads,
		IconURL:     p.IconURL,
	}
}

type apiVersion struct {
	ID            string          `json:"id"`
	ProjectID     string          `json:"project_id"`
	Name          string          `json:"name"`
	VersionNumber string          `json:"version_number"`
	GameVersions  []string        `json:"game_versions"`
	Loaders       []string        `json:"loaders"`
	DatePublished time.Time       `json:"date_published"`
	Dependencies  []apiDependency `json:"dependencies"`
	Files         []apiFile       `json:"files"`
}

func (v apiVersion) toVersion() mod.Version {
	out := mod.Version{
		ID:           v.ID,
		Name:         v.Name,
		Number:       v.VersionNumber,
		GameVersions: v.GameVersions,
		Loaders:      v.Loaders,
	}
	for _, f := range v.Files {
		if f.Primary || out.DownloadURL == "" {
			out.FileName = f.Filename
			out.DownloadURL = f.URL
		}
		if f.Primary {
			break
		}
	}
	for _, d := range v.Dependencies {
		if d.ProjectID == "" && d.VersionID == "" {
			continue
		}
		out.Dependencies = append(out.Dependencies, mod.Dependency{
			ProjectID: d.ProjectID,
			VersionID: d.VersionID,
			Type:      parseDependencyType(d.DependencyType),
		})
	}
	return out
}

type apiDependency struct {
	VersionID      string `json:"version_id"`
	ProjectID      string `json:"project_id"`
	FileName       string `json:"file_name"`
	DependencyType string `json:"dependency_type"`
}

type apiFile struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Primary  bool   `json:"primary"`
}

type apiSearchResponse struct {
	Hits []apiSearchHit `json:"hits"`
}

type apiSearchHit struct {
	ProjectID   string `json:"project_id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Author      string `json:"author"`
	Downloads   int    `json:"downloads"`
	IconURL     string `json:"icon_url"`
}

func (h apiSearchHit) toPack(kind mod.Kind) mod.Pack {
	pack := mod.Pack{
		ID:          h.ProjectID,
		Slug:        h.Slug,
		Name:        h.Title,
		Provider:    providers.Modrinth,
		Kind:        kind,
		Description: h.Description,
		Downloads:   h.Downloads,
		IconURL:     h.IconURL,
	}
	if h.Author != "" {
		pack.Authors = []string{h.Author}
	}
	return pack
}
