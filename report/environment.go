package report

// environment.go contains the pre-render environment document.

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"sort"

	"github.com/perfgo/reportkeeper/model"
)

// EnvironmentFileName is read by the renderer from the results directory.
const EnvironmentFileName = "environment.xml"

// EmitEnvironment writes params to resultsDir/environment.xml, replacing any
// existing file. Parameters are sorted by key so the output is deterministic.
func EmitEnvironment(params map[string]string, resultsDir string) error {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := model.Environment{Parameters: make([]model.Parameter, 0, len(keys))}
	for _, k := range keys {
		env.Parameters = append(env.Parameters, model.Parameter{Key: k, Value: params[k]})
	}

	path := filepath.Join(resultsDir, EnvironmentFileName)
	data, err := xml.MarshalIndent(env, "", "  ")
	if err != nil {
		return ioError("emit environment", path, err)
	}
	data = append([]byte(xml.Header), data...)
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return ioError("emit environment", path, err)
	}
	return nil
}
