package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed settings.schema.json
var settingsSchemaJSON []byte

const settingsSchemaURL = "settings.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func settingsSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(settingsSchemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("parse settings schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(settingsSchemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add settings schema: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(settingsSchemaURL)
	})
	return compiledSchema, schemaErr
}

// schemaDocument is the JSON view of Settings the schema validates.
// Durations are expressed in seconds.
type schemaDocument struct {
	Registry struct {
		Owner    string `json:"owner"`
		Repo     string `json:"repo"`
		PageSize int    `json:"page_size"`
		BaseURL  string `json:"base_url,omitempty"`
	} `json:"registry"`
	Install struct {
		Root    string `json:"root"`
		Variant string `json:"variant"`
	} `json:"install"`
	Network struct {
		APITimeout      float64 `json:"api_timeout"`
		DownloadTimeout float64 `json:"download_timeout"`
		UserAgent       string  `json:"user_agent"`
		MaxArchiveMB    int     `json:"max_archive_mb"`
	} `json:"network"`
}

func newSchemaDocument(s *Settings) schemaDocument {
	var doc schemaDocument
	doc.Registry.Owner = s.Registry.Owner
	doc.Registry.Repo = s.Registry.Repo
	doc.Registry.PageSize = s.Registry.PageSize
	doc.Registry.BaseURL = s.Registry.BaseURL
	doc.Install.Root = s.Install.Root
	doc.Install.Variant = s.Install.Variant
	doc.Network.APITimeout = s.Network.APITimeout.Seconds()
	doc.Network.DownloadTimeout = s.Network.DownloadTimeout.Seconds()
	doc.Network.UserAgent = s.Network.UserAgent
	doc.Network.MaxArchiveMB = s.Network.MaxArchiveMB
	return doc
}

// ValidateSchema checks s against the embedded settings schema.
func ValidateSchema(s *Settings) error {
	sch, err := settingsSchema()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(newSchemaDocument(s))
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("decode settings: %w", err)
	}

	if err := sch.Validate(inst); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			leaf := deepestCause(verr)
			return &ValidationError{
				Field:   strings.Join(leaf.InstanceLocation, "."),
				Message: leaf.ErrorKind.LocalizedString(message.NewPrinter(language.English)),
			}
		}
		return &ValidationError{Message: err.Error()}
	}
	return nil
}

func deepestCause(err *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(err.Causes) > 0 {
		err = err.Causes[0]
	}
	return err
}
