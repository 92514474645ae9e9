// Package scaffold creates new connector projects from the embedded templates.
package scaffold

import (
	"embed"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

//go:embed templates/basic/*.tmpl
var templates embed.FS

const (
	templateRoot = "templates/basic"
	schemaFile   = "tool.schema.json"
)

var ErrExists = errors.New("destination already exists")

var nonIdent = regexp.MustCompile(`[^a-z0-9_]+`)

type Compliance struct {
	PIIHandling  bool   `json:"pii_handling"`
	AuditLog     bool   `json:"audit_log"`
	FedRAMPLevel string `json:"fedramp_level"`
}

type ToolSchema struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
	Compliance  Compliance     `json:"compliance"`
}

type templateData struct {
	Name    string
	Package string
	Action  string
}

// NewToolSchema describes the generated connector's single action.
func NewToolSchema(name string) ToolSchema {
	return ToolSchema{
		Name:        name + "_action",
		Description: "Generated FedMCP connector",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"example": map[string]any{
					"type":        "string",
					"description": "Example string input",
				},
			},
			"required": []string{"example"},
		},
		Compliance: Compliance{
			PIIHandling:  true,
			AuditLog:     true,
			FedRAMPLevel: "high",
		},
	}
}

// Create scaffolds a connector project at dst and returns its absolute path.
// It refuses to touch an existing path.
func Create(dst string) (string, error) {
	abs, err := filepath.Abs(dst)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve %s", dst)
	}

	if _, err := os.Stat(abs); err == nil {
		return "", errors.Wrapf(ErrExists, "directory '%s'", abs)
	} else if !os.IsNotExist(err) {
		return "", errors.Wrapf(err, "failed to stat %s", abs)
	}

	name := filepath.Base(abs)
	data := templateData{
		Name:    name,
		Package: packageName(name),
		Action:  name + "_action",
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", errors.Wrapf(err, "failed to create %s", abs)
	}

	err = fs.WalkDir(templates, templateRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		return render(path, filepath.Join(abs, strings.TrimSuffix(filepath.Base(path), ".tmpl")), data)
	})
	if err != nil {
		return "", err
	}

	schema, err := json.MarshalIndent(NewToolSchema(name), "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to encode tool schema")
	}
	if err := os.WriteFile(filepath.Join(abs, schemaFile), schema, 0o644); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", schemaFile)
	}

	log.Debug().Str("path", abs).Msg("Connector scaffold created")

	return abs, nil
}

func render(src string, dst string, data templateData) error {
	tmpl, err := template.ParseFS(templates, src)
	if err != nil {
		return errors.Wrapf(err, "failed to parse template %s", src)
	}

	f, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", dst)
	}
	defer f.Close()

	if err := tmpl.Execute(f, data); err != nil {
		return errors.Wrapf(err, "failed to render %s", dst)
	}
	return nil
}

// packageName turns a directory name into a valid Go package name.
func packageName(name string) string {
	p := nonIdent.ReplaceAllString(strings.ToLower(name), "_")
	p = strings.Trim(p, "_")
	if p == "" || (p[0] >= '0' && p[0] <= '9') {
		p = "connector" + p
	}
	return p
}
