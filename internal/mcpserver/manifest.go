package mcpserver

import (
	"bytes"
	"encoding/json"
	"strings"
)

const (
	manifestSchema = "https://static.modelcontextprotocol.io/schemas/2025-10-17/server.schema.json"
	serverName     = "io.github.panbanda/modeldeps"
	modulePath     = "github.com/panbanda/modeldeps"
)

// Manifest is the registry entry (server.json) describing how to launch the
// modeldeps MCP server.
type Manifest struct {
	Schema      string      `json:"$schema"`
	Name        string      `json:"name"`
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description"`
	Version     string      `json:"version"`
	Repository  *Repository `json:"repository,omitempty"`
	Packages    []Package   `json:"packages,omitempty"`
}

type Repository struct {
	URL    string `json:"url"`
	Source string `json:"source"`
}

// Package is one way of installing and starting the server.
type Package struct {
	RegistryType         string        `json:"registryType"`
	Identifier           string        `json:"identifier"`
	Version              string        `json:"version,omitempty"`
	PackageArguments     []Argument    `json:"packageArguments,omitempty"`
	EnvironmentVariables []EnvVariable `json:"environmentVariables,omitempty"`
	Transport            Transport     `json:"transport"`
}

// Argument is a command-line argument passed to the binary.
type Argument struct {
	Type        string `json:"type"`
	Name        string `json:"name,omitempty"`
	Value       string `json:"value,omitempty"`
	Description string `json:"description,omitempty"`
	IsRequired  bool   `json:"isRequired,omitempty"`
}

// EnvVariable is an environment variable the server reads.
type EnvVariable struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsRequired  bool   `json:"isRequired,omitempty"`
}

type Transport struct {
	Type string `json:"type"`
}

// NewManifest describes the stdio server for the given release. A leading
// "v" is dropped from version; an empty version becomes 0.0.0.
func NewManifest(version string) *Manifest {
	version = strings.TrimPrefix(version, "v")
	if version == "" || version == "dev" {
		version = "0.0.0"
	}

	return &Manifest{
		Schema:      manifestSchema,
		Name:        serverName,
		Title:       "modeldeps",
		Description: "Finds struct types in a Go model file that no other model struct refers to",
		Version:     version,
		Repository: &Repository{
			URL:    "https://" + modulePath,
			Source: "github",
		},
		Packages: []Package{{
			RegistryType: "go",
			Identifier:   modulePath + "/cmd/modeldeps",
			Version:      version,
			PackageArguments: []Argument{
				{Type: "positional", Value: "mcp"},
			},
			EnvironmentVariables: []EnvVariable{{
				Name:        "MODELDEPS_CONFIG",
				Description: "Configuration file applied to every tool call instead of the one found in the project root",
			}},
			Transport: Transport{Type: "stdio"},
		}},
	}
}

// JSON encodes the manifest with two-space indentation and unescaped HTML
// characters.
func (m *Manifest) JSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateManifest returns the encoded manifest for version.
func GenerateManifest(version string) ([]byte, error) {
	return NewManifest(version).JSON()
}
