package contracts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"path"
	"strings"

	"marketplace-service/schemas"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var compiledSchemas = make(map[string]*jsonschema.Schema)

func init() {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	// Добавляем все схемы как ресурсы, чтобы они могли ссылаться друг на
	// друга через `$ref`
	for _, dir := range []string{"events", "requests"} {
		err := fs.WalkDir(schemas.SchemasFS, dir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(p, ".json") {
				file, err := schemas.SchemasFS.Open(p)
				if err != nil {
					return err
				}
				defer file.Close()
				if err := compiler.AddResource(p, file); err != nil {
					log.Fatalf("failed to add schema resource %s: %v", p, err)
				}
			}
			return nil
		})
		if err != nil {
			log.Fatalf("error walking and adding schema resources: %v", err)
		}

		// Снова обходим для компиляции и регистрации
		err = fs.WalkDir(schemas.SchemasFS, dir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(p, ".json") {
				schema, err := compiler.Compile(p)
				if err != nil {
					log.Printf("WARNING: could not compile schema %s: %v. Skipping.", p, err)
					return nil
				}
				compiledSchemas[generateKeyFromPath(p)] = schema
			}
			return nil
		})
		if err != nil {
			log.Fatalf("error walking and compiling schemas: %v", err)
		}
	}
}

// generateKeyFromPath строит ключ реестра из пути схемы:
// "events/review_created.json" -> "ReviewCreated"
func generateKeyFromPath(p string) string {
	name := strings.TrimSuffix(path.Base(p), ".json")
	titler := cases.Title(language.English)

	parts := strings.Split(name, "_")
	for i, part := range parts {
		parts[i] = titler.String(part)
	}
	return strings.Join(parts, "")
}

// Validate проверяет JSON-документ по зарегистрированной схеме.
func Validate(schemaKey string, payload []byte) error {
	schema, ok := compiledSchemas[schemaKey]
	if !ok {
		return fmt.Errorf("unknown contract schema %q", schemaKey)
	}

	var doc interface{}
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()
	if err := decoder.Decode(&doc); err != nil {
		return fmt.Errorf("payload is not valid JSON: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("payload does not match schema %q: %w", schemaKey, err)
	}
	return nil
}
