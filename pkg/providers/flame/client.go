// Package flame implements the CurseForge core API client.
package flame

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/modsmith/modsmith/pkg/httputil"
	"github.com/modsmith/modsmith/pkg/mod"
	"github.com/modsmith/modsmith/pkg/providers"
)

const (
	defaultBaseURL = "https://api.curseforge.com/v1"

	// gameID is the CurseForge game id for Minecraft.
	gameID = 432
)

// Class ids for the browsable resource categories.
const (
	classMods          = 6
	classResourcePacks = 12
)

// File relation types, per the CurseForge API schema.
const (
	relationEmbedded     = 1
	relationOptional     = 2
	relationRequired     = 3
	relationIncompatible = 5
)

// Client provides access to the CurseForge API.
// It handles HTTP requests with caching and automatic retries.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*providers.Client
	baseURL string
}

// NewClient creates a CurseForge client with the given response cache.
// apiKey is the x-api-key credential; requests fail without one.
func NewClient(cache *httputil.Cache, apiKey string) *Client {
	return &Client{
		Client: providers.NewClient(cache.Namespace("flame:"), map[string]string{
			"x-api-key": apiKey,
			"Accept":    "application/json",
		}),
		baseURL: defaultBaseURL,
	}
}

// Project fetches pack metadata for a numeric mod id.
func (c *Client) Project(ctx context.Context, projectID string) (mod.Pack, error) {
	var pack mod.Pack
	err := c.Cached(ctx, "project:"+projectID, false, &pack, func() error {
		return c.fetchProject(ctx, projectID, &pack)
	})
	return pack, err
}

func (c *Client) fetchProject(ctx context.Context, projectID string, pack *mod.Pack) error {
	var data struct {
		Data apiMod `json:"data"`
	}
	if err := c.Get(ctx, fmt.Sprintf("%s/mods/%s", c.baseURL, url.PathEscape(projectID)), &data); err != nil {
		if errors.Is(err, providers.ErrNotFound) {
			return fmt.Errorf("%w: curseforge mod %s", err, projectID)
		}
		return err
	}
	*pack = data.Data.toPack()
	return nil
}

// Versions lists a project's files, newest first. gameVersion and loader
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
		q.Set("gameVersion", gameVersion)
	}
	if lt := loaderType(loader); lt != 0 {
		q.Set("modLoaderType", strconv.Itoa(lt))
	}
	u := fmt.Sprintf("%s/mods/%s/files", c.baseURL, url.PathEscape(projectID))
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var data struct {
		Data []apiFile `json:"data"`
	}
	if err := c.Get(ctx, u, &data); err != nil {
		if errors.Is(err, providers.ErrNotFound) {
			return fmt.Errorf("%w: curseforge mod %s", err, projectID)
		}
		return err
	}

	versions := make([]mod.Version, 0, len(data.Data))
	for _, f := range data.Data {
		versions = append(versions, f.toVersion())
	}
	*out = versions
	return nil
}

// Search queries CurseForge for packs of the given kind.
func (c *Client) Search(ctx context.Context, kind mod.Kind, query string) ([]mod.Pack, error) {
	q := url.Values{}
	q.Set("gameId", strconv.Itoa(gameID))
	q.Set("classId", strconv.Itoa(classID(kind)))
	q.Set("searchFilter", query)
	q.Set("pageSize", "25")

	var data struct {
		Data []apiMod `json:"data"`
	}
	if err := c.Get(ctx, c.baseURL+"/mods/search?"+q.Encode(), &data); err != nil {
		return nil, err
	}

	packs := make([]mod.Pack, 0, len(data.Data))
	for _, m := range data.Data {
		pack := m.toPack()
		pack.Kind = kind
		packs = append(packs, pack)
	}
	return packs, nil
}

// classID maps a resource kind to the CurseForge class id. Texture packs
// share the resource pack class; shader packs are not served here.
func classID(kind mod.Kind) int {
	switch kind {
	case mod.KindResourcePack, mod.KindTexturePack:
		return classResourcePacks
	default:
		return classMods
	}
}

// loaderType maps a loader name to the CurseForge modLoaderType enum.
// Unknown loaders return 0, which the API treats as "any".
func loaderType(loader string) int {
	switch strings.ToLower(loader) {
	case "forge":
		return 1
	case "fabric":
		return 4
	case "quilt":
		return 5
	case "neoforge":
		return 6
	default:
		return 0
	}
}

type apiMod struct {
	ID            int         `json:"id"`
	Slug          string      `json:"slug"`
	Name          string      `json:"name"`
	Summary       string      `json:"summary"`
	DownloadCount float64     `json:"downloadCount"`
	ClassID       int         `json:"classId"`
	Logo          apiLogo     `json:"logo"`
	Authors       []apiAuthor `json:"authors"`
}

type apiLogo struct {
	ThumbnailURL string `json:"thumbnailUrl"`
	URL          string `json:"url"`
}

type apiAuthor struct {
	Name string `json:"name"`
}

func (m apiMod) toPack() mod.Pack {
	kind := mod.KindMod
	if m.ClassID == classResourcePacks {
		kind = mod.KindResourcePack
	}
	pack := mod.Pack{
		ID:          strconv.Itoa(m.ID),
		Slug:        m.Slug,
		Name:        m.Name,
		Provider:    providers.Flame,
		Kind:        kind,
		Description: m.Summary,
		Downloads:   int(m.DownloadCount),
		IconURL:     m.Logo.ThumbnailURL,
	}
	for _, a := range m.Authors {
		pack.Authors = append(pack.Authors, a.Name)
	}
	return pack
}

type apiFile struct {
	ID           int             `json:"id"`
	DisplayName  string          `json:"displayName"`
	FileName     string          `json:"fileName"`
	DownloadURL  string          `json:"downloadUrl"`
	GameVersions []string        `json:"gameVersions"`
	Dependencies []apiDependency `json:"dependencies"`
}

type apiDependency struct {
	ModID        int `json:"modId"`
	RelationType int `json:"relationType"`
}

// toVersion converts an API file. The gameVersions array mixes game
// versions and loader names; splitGameVersions untangles them.
func (f apiFile) toVersion() mod.Version {
	games, loaders := splitGameVersions(f.GameVersions)
	out := mod.Version{
		ID:           strconv.Itoa(f.ID),
		Name:         f.DisplayName,
		FileName:     f.FileName,
		DownloadURL:  f.DownloadURL,
		GameVersions: games,
		Loaders:      loaders,
	}
	for _, d := range f.Dependencies {
		if d.ModID == 0 {
			continue
		}
		out.Dependencies = append(out.Dependencies, mod.Dependency{
			ProjectID: strconv.Itoa(d.ModID),
			Type:      relationType(d.RelationType),
		})
	}
	return out
}

func relationType(r int) mod.DependencyType {
	switch r {
	case relationEmbedded:
		return mod.DepEmbedded
	case relationOptional:
		return mod.DepOptional
	case relationIncompatible:
		return mod.DepIncompatible
	default:
		return mod.DepRequired
	}
}

var knownLoaders = map[string]bool{
	"forge":    true,
	"fabric":   true,
	"quilt":    true,
	"neoforge": true,
	"cauldron": true,
}

func splitGameVersions(mixed []string) (games, loaders []string) {
	for _, v := range mixed {
		if knownLoaders[strings.ToLower(v)] {
			loaders = append(loaders, strings.ToLower(v))
		} else {
			games = append(games, v)
		}
	}
	return games, loaders
}
