// Schema Generator
//
// Emits JSON Schema files for the public API types so consumers can
// validate requests and responses against the Go source of truth.
//
// Usage:
//
//	go run cmd/schema-gen/main.go [-out DIR]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"github.com/catalogiq/catalog-service/internal/database"
	"github.com/catalogiq/catalog-service/internal/handlers"
	"github.com/catalogiq/catalog-service/internal/types"
)

var schemaGroups = map[string][]any{
	"parse": {
		handlers.ParseResponse{},
		handlers.HealthResponse{},
		types.ParseResult{},
		types.FileResult{},
		types.RowError{},
		types.Warning{},
	},
	"runs": {
		handlers.ListRunsRequest{},
		handlers.ListRunsResponse{},
		handlers.RunDetailResponse{},
		database.ParseRun{},
		database.ParseFileRecord{},
	},
}

func main() {
	outDir := flag.String("out", "./shared/schemas", "output directory for schema files")
	flag.Parse()

	if err := run(*outDir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for name, schemaTypes := range schemaGroups {
		path := filepath.Join(outDir, name+".json")
		doc := buildSchema(name, schemaTypes)

		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal %s schema: %w", name, err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Printf("Generated %s\n", path)
	}
	return nil
}

// buildSchema reflects every type in the group into one document with
// a shared $defs section.
func buildSchema(name string, schemaTypes []any) map[string]any {
	reflector := &jsonschema.Reflector{}
	defs := make(map[string]any)

	for _, t := range schemaTypes {
		schema := reflector.Reflect(t)
		for defName, def := range schema.Definitions {
			defs[defName] = def
		}
	}

	return map[string]any{
		"$schema":     "https://json-schema.org/draft/2020-12/schema",
		"$id":         fmt.Sprintf("https://catalogiq.io/schemas/%s.json", name),
		"title":       fmt.Sprintf("catalog-service %s API types", name),
		"description": "JSON Schema generated from the service's Go structs",
		"$defs":       defs,
	}
}
