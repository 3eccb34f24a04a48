package classifier

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/okian/emochain/internal/domain/model"
)

const schemaURL = "models.schema.json"

//go:embed models.schema.json
var modelsSchema string

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// Document is the on-disk model description. JSON is accepted as YAML.
type Document struct {
	Version string          `koanf:"version"`
	Models  []ModelDocument `koanf:"models"`
}

// ModelDocument describes one ProfileModel.
type ModelDocument struct {
	Name     string            `koanf:"name"`
	Kind     string            `koanf:"kind"`
	Profiles []ProfileDocument `koanf:"profiles"`
}

// ProfileDocument describes one category profile.
type ProfileDocument struct {
	Category string    `koanf:"category"`
	Mean     []float64 `koanf:"mean"`
	Std      []float64 `koanf:"std"`
}

// LoadModels reads, validates and builds the classifiers described by the
// document at path, preserving document order.
func LoadModels(ctx context.Context, path string) ([]Classifier, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrLoadModels, path, err)
	}
	if err := validateDocument(k.Raw()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadModels, path, err)
	}
	var doc Document
	if err := k.UnmarshalWithConf("", &doc, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrLoadModels, path, err)
	}
	return Build(doc)
}

// Build converts a decoded document into classifiers.
func Build(doc Document) ([]Classifier, error) {
	if len(doc.Models) == 0 {
		return nil, fmt.Errorf("%w: no models", ErrInvalidModel)
	}
	out := make([]Classifier, 0, len(doc.Models))
	for _, md := range doc.Models {
		profiles := make([]Profile, 0, len(md.Profiles))
		for _, pd := range md.Profiles {
			id, ok := model.CategoryID(model.Category(pd.Category))
			if !ok {
				return nil, fmt.Errorf("%w: %s: unknown category %q", ErrInvalidModel, md.Name, pd.Category)
			}
			if len(pd.Mean) != model.FeatureVectorLen || len(pd.Std) != model.FeatureVectorLen {
				return nil, fmt.Errorf("%w: %s: %s needs %d means and stds", ErrInvalidModel, md.Name, pd.Category, model.FeatureVectorLen)
			}
			p := Profile{CategoryID: id}
			copy(p.Mean[:], pd.Mean)
			copy(p.Std[:], pd.Std)
			profiles = append(profiles, p)
		}
		m, err := NewProfileModel(md.Name, Kind(md.Kind), profiles)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func validateDocument(raw map[string]any) error {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, strings.NewReader(modelsSchema)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
	})
	if schemaErr != nil {
		return fmt.Errorf("compile schema: %w", schemaErr)
	}

	// Round-trip through JSON so numbers reach the validator as float64.
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return err
	}
	return compiledSchema.Validate(instance)
}
