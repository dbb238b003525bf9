package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// LoadScenarios reads every .yaml/.yml file under directory. A file can hold
// several scenarios as separate YAML documents. Relative feed sources and
// outputs are resolved against the file's own directory.
func LoadScenarios(directory string) ([]*Scenario, error) {
	var scenarios []*Scenario
	identifiers := map[string]string{}

	err := filepath.Walk(directory,
		func(path string, fileInfo os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if fileInfo.IsDir() {
				return nil
			}

			extension := filepath.Ext(path)
			if extension != ".yaml" && extension != ".yml" {
				return nil
			}

			log.Debug().Str("path", path).Msg("Loading scenario file")

			scenarioYaml, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			decoder := yaml.NewDecoder(bytes.NewReader(scenarioYaml))

			for {
				var scenario Scenario
				err := decoder.Decode(&scenario)
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return fmt.Errorf("failed to parse %s: %w", path, err)
				}

				scenario.resolvePaths(filepath.Dir(path))

				if err := scenario.Validate(); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				if existing, exists := identifiers[scenario.Identifier]; exists {
					return fmt.Errorf("duplicate scenario %q in %s and %s", scenario.Identifier, existing, path)
				}
				identifiers[scenario.Identifier] = path

				scenarios = append(scenarios, &scenario)
			}

			return nil
		})
	if err != nil {
		return nil, err
	}

	return scenarios, nil
}

func (s *Scenario) resolvePaths(baseDirectory string) {
	if s.Feed.Source != "" && !filepath.IsAbs(s.Feed.Source) {
		s.Feed.Source = filepath.Join(baseDirectory, s.Feed.Source)
	}

	if s.Output != "" && !filepath.IsAbs(s.Output) {
		s.Output = filepath.Join(baseDirectory, s.Output)
	}
}
