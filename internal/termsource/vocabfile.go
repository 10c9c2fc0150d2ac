package termsource

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

type vocabularyFile struct {
	Vocabularies map[string]map[string]string `toml:"vocabularies"`
}

// LoadStaticResolver reads a TOML vocabulary file into a StaticResolver for
// offline validation runs. The file maps terms to accessions per vocabulary:
//
//	[vocabularies.MO]
//	adult = "MO:123"
//	juvenile = "MO:456"
func LoadStaticResolver(path string) (*StaticResolver, error) {
	var file vocabularyFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("load vocabulary file: %w", err)
	}
	r := NewStaticResolver()
	for vocabulary, terms := range file.Vocabularies {
		for term, accession := range terms {
			r.AddTerm(vocabulary, term, accession)
		}
	}
	return r, nil
}
