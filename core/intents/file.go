package intents

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/koscakluka/ema-assist/core/locales"
	"gopkg.in/yaml.v3"
)

// CatalogFile is the on-disk YAML shape of a [Catalog].
type CatalogFile struct {
	Channel       Channel `yaml:"channel" json:"channel" jsonschema:"enum=chat,enum=voice"`
	DefaultLocale string  `yaml:"default_locale,omitempty" json:"default_locale,omitempty" jsonschema:"enum=primary,enum=secondary"`

	Rules []RuleFile `yaml:"rules" json:"rules" jsonschema:"minItems=1"`

	MeaningfulKeywords []string      `yaml:"meaningful_keywords,omitempty" json:"meaningful_keywords,omitempty"`
	MinInputLength     int           `yaml:"min_input_length,omitempty" json:"min_input_length,omitempty" jsonschema:"minimum=0"`
	NotUnderstood      LocalizedText `yaml:"not_understood,omitempty" json:"not_understood,omitempty"`
	GenericResponses   LocalizedList `yaml:"generic_responses,omitempty" json:"generic_responses,omitempty"`

	Fallback LocalizedText `yaml:"fallback,omitempty" json:"fallback,omitempty"`
}

// RuleFile is one rule of a [CatalogFile]. Rules keep their file order.
type RuleFile struct {
	Name      string        `yaml:"name" json:"name" jsonschema:"minLength=1"`
	Keywords  [][]string    `yaml:"keywords" json:"keywords" jsonschema:"minItems=1,description=Every group must contribute at least one keyword"`
	Templates LocalizedText `yaml:"templates" json:"templates"`
}

type LocalizedText struct {
	Primary   string `yaml:"primary,omitempty" json:"primary,omitempty"`
	Secondary string `yaml:"secondary,omitempty" json:"secondary,omitempty"`
}

type LocalizedList struct {
	Primary   []string `yaml:"primary,omitempty" json:"primary,omitempty"`
	Secondary []string `yaml:"secondary,omitempty" json:"secondary,omitempty"`
}

// LoadCatalog reads and validates a YAML catalog file.
func LoadCatalog(path string) (Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	catalog, err := DecodeCatalog(f)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to load catalog %s: %w", path, err)
	}
	return catalog, nil
}

// DecodeCatalog decodes and validates a YAML catalog. Unknown fields are
// rejected.
func DecodeCatalog(r io.Reader) (Catalog, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var file CatalogFile
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return Catalog{}, fmt.Errorf("%w: empty document", ErrInvalidCatalog)
		}
		return Catalog{}, fmt.Errorf("failed to decode catalog: %w", err)
	}

	catalog, err := file.Catalog()
	if err != nil {
		return Catalog{}, err
	}
	if err := catalog.Validate(); err != nil {
		return Catalog{}, err
	}
	return catalog, nil
}

// Catalog converts the file representation.
func (f CatalogFile) Catalog() (Catalog, error) {
	defaultLocale := locales.Primary
	if f.DefaultLocale != "" {
		l, ok := locales.Parse(f.DefaultLocale)
		if !ok {
			return Catalog{}, fmt.Errorf("%w: unknown default locale %q", ErrInvalidCatalog, f.DefaultLocale)
		}
		defaultLocale = l
	}

	catalog := Catalog{
		Channel:            f.Channel,
		DefaultLocale:      defaultLocale,
		MeaningfulKeywords: f.MeaningfulKeywords,
		MinInputLength:     f.MinInputLength,
		NotUnderstood:      f.NotUnderstood.templates(),
		GenericResponses:   f.GenericResponses.lists(),
		Fallback:           f.Fallback.templates(),
	}
	for _, rule := range f.Rules {
		catalog.Rules = append(catalog.Rules, Rule{
			Name:          rule.Name,
			KeywordGroups: rule.Keywords,
			Templates:     rule.Templates.templates(),
		})
	}
	return catalog, nil
}

// EncodeCatalog writes catalog in the YAML file format.
func EncodeCatalog(w io.Writer, catalog Catalog) error {
	file := CatalogFile{
		Channel:            catalog.Channel,
		DefaultLocale:      catalog.DefaultLocale.String(),
		MeaningfulKeywords: catalog.MeaningfulKeywords,
		MinInputLength:     catalog.MinInputLength,
		NotUnderstood:      localizedText(catalog.NotUnderstood),
		GenericResponses: LocalizedList{
			Primary:   catalog.GenericResponses[locales.Primary],
			Secondary: catalog.GenericResponses[locales.Secondary],
		},
		Fallback: localizedText(catalog.Fallback),
	}
	for _, rule := range catalog.Rules {
		file.Rules = append(file.Rules, RuleFile{
			Name:      rule.Name,
			Keywords:  rule.KeywordGroups,
			Templates: localizedText(rule.Templates),
		})
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(file); err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	return encoder.Close()
}

// CatalogSchema returns the JSON schema of the catalog file format.
func CatalogSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{DoNotReference: true}
	schema := reflector.Reflect(&CatalogFile{})

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(schema); err != nil {
		return nil, fmt.Errorf("failed to marshal catalog schema: %w", err)
	}
	return buf.Bytes(), nil
}

func (t LocalizedText) templates() map[locales.Locale]string {
	templates := map[locales.Locale]string{}
	if t.Primary != "" {
		templates[locales.Primary] = t.Primary
	}
	if t.Secondary != "" {
		templates[locales.Secondary] = t.Secondary
	}
	return templates
}

func (l LocalizedList) lists() map[locales.Locale][]string {
	lists := map[locales.Locale][]string{}
	if len(l.Primary) > 0 {
		lists[locales.Primary] = l.Primary
	}
	if len(l.Secondary) > 0 {
		lists[locales.Secondary] = l.Secondary
	}
	return lists
}

func localizedText(templates map[locales.Locale]string) LocalizedText {
	return LocalizedText{Primary: templates[locales.Primary], Secondary: templates[locales.Secondary]}
}
