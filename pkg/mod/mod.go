// Package mod defines the descriptors shared by every part of modsmith:
// downloadable packs, their versions, and the download tasks built from them.
//
// A Pack identifies a downloadable add-on (mod, resource pack, texture pack,
// or shader pack) on a content provider. A Version is one downloadable
// artifact of a pack. A DownloadTask bundles a chosen (Pack, Version) pair
// with the folder it will be installed into.
package mod

import (
	"fmt"
	"strings"
)

// Kind is the category of downloadable resource.
type Kind string

// Supported resource kinds.
const (
	KindMod          Kind = "mod"
	KindResourcePack Kind = "resourcepack"
	KindTexturePack  Kind = "texturepack"
	KindShaderPack   Kind = "shaderpack"
)

// Kinds lists all supported resource kinds.
var Kinds = []Kind{KindMod, KindResourcePack, KindTexturePack, KindShaderPack}

// ParseKind converts a user-supplied string to a Kind.
// It accepts a few common aliases ("mods", "shaders", ...).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mod", "mods":
		return KindMod, nil
	case "resourcepack", "resourcepacks", "resource-pack", "resource-packs":
		return KindResourcePack, nil
	case "texturepack", "texturepacks", "texture-pack", "texture-packs":
		return KindTexturePack, nil
	case "shaderpack", "shaderpacks", "shader", "shaders":
		return KindShaderPack, nil
	}
	return "", fmt.Errorf("unknown resource kind %q (available: mod, resourcepack, texturepack, shaderpack)", s)
}

// SupportsDependencies reports whether resources of this kind declare
// dependency metadata. Only mods do; packs of the other kinds are
// self-contained artifacts.
func (k Kind) SupportsDependencies() bool { return k == KindMod }

// Provider identifies the content provider a pack was fetched from.
// Display names and capabilities live in an injected providers table,
// not on this type.
type Provider string

// DependencyType describes how strongly a version depends on another project.
type DependencyType string

// Dependency types as declared by provider version metadata.
const (
	DepRequired     DependencyType = "required"
	DepOptional     DependencyType = "optional"
	DepIncompatible DependencyType = "incompatible"
	DepEmbedded     DependencyType = "embedded"
)

// Dependency is one declared dependency of a Version.
type Dependency struct {
	ProjectID  string         `json:"project_id"`
	VersionID  string         `json:"version_id,omitempty"` // pinned version, if any
	Constraint string         `json:"constraint,omitempty"` // semver range, if declared
	Type       DependencyType `json:"type"`
}

// Pack is the provider-agnostic identity of a downloadable package.
// Packs are immutable once fetched from a provider.
type Pack struct {
	ID          string   `json:"id"`   // provider-stable project id
	Slug        string   `json:"slug"` // URL-friendly identifier
	Name        string   `json:"name"` // display name, dedup key for selection
	Provider    Provider `json:"provider"`
	Kind        Kind     `json:"kind"`
	Description string   `json:"description,omitempty"`
	Authors     []string `json:"authors,omitempty"`
	Downloads   int      `json:"downloads,omitempty"`
	IconURL     string   `json:"icon_url,omitempty"`
}

// Version is one selectable artifact of a Pack.
//
// RequiredBy holds the ids of packs whose dependency closure pulled this
// version in; it is empty for versions the user picked directly. Selected is
// a mutable flag used to keep provider-page state in sync with the selection
// registry and has no meaning outside an active session.
type Version struct {
	ID           string       `json:"id"`
	Name         string       `json:"name,omitempty"`   // human version label, e.g. "1.4.2+fabric"
	Number       string       `json:"number,omitempty"` // raw version number for constraint matching
	FileName     string       `json:"file_name"`
	DownloadURL  string       `json:"download_url"`
	GameVersions []string     `json:"game_versions,omitempty"`
	Loaders      []string     `json:"loaders,omitempty"`
	Dependencies []Dependency `json:"dependencies,omitempty"`
	RequiredBy   []string     `json:"required_by,omitempty"`
	Selected     bool         `json:"-"`
}

// CompatibleWith reports whether the version supports the given game version
// and loader. Empty arguments match everything, as do versions that do not
// declare the corresponding list.
func (v *Version) CompatibleWith(gameVersion, loader string) bool {
	return matches(v.GameVersions, gameVersion) && matches(v.Loaders, loader)
}

func matches(declared []string, want string) bool {
	if want == "" || len(declared) == 0 {
		return true
	}
	for _, d := range declared {
		if strings.EqualFold(d, want) {
			return true
		}
	}
	return false
}
