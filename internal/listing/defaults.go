package listing

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadDefaults reads per-page default queries from YAML keyed by page name:
//
//	doctors:
//	  pageSize: 20
//	  sortBy: fullName
//	  sortDir: asc
func LoadDefaults(r io.Reader) (map[string]Query, error) {
	out := map[string]Query{}
	if err := yaml.NewDecoder(r).Decode(&out); err != nil {
		if err == io.EOF {
			return out, nil
		}
		return nil, fmt.Errorf("listing: decode defaults: %w", err)
	}
	return out, nil
}

// LoadDefaultsFile reads LoadDefaults input from path. An empty path yields no
// overrides.
func LoadDefaultsFile(path string) (map[string]Query, error) {
	if path == "" {
		return map[string]Query{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("listing: open defaults: %w", err)
	}
	defer func() { _ = f.Close() }()
	return LoadDefaults(f)
}
