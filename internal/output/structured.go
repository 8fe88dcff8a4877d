package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strconv"

	"gopkg.in/yaml.v3"
)

// JSONFormatter emits the report as indented JSON
type JSONFormatter struct{}

func (JSONFormatter) Name() string { return "json" }

func (JSONFormatter) Format(report *Report) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// YAMLFormatter emits the report as YAML
type YAMLFormatter struct{}

func (YAMLFormatter) Name() string { return "yaml" }

func (YAMLFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CSVFormatter writes one row per metric or input error
type CSVFormatter struct{}

func (CSVFormatter) Name() string { return "csv" }

func (CSVFormatter) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Run", "Calculator", "Kind", "Key", "Value", "Display"}); err != nil {
		return nil, err
	}
	for _, e := range report.Entries {
		for _, ve := range e.Errors {
			if err := w.Write([]string{e.Name, e.Calculator, "error", ve.Field, "", ve.Message}); err != nil {
				return nil, err
			}
		}
		if e.Result == nil {
			continue
		}
		for _, m := range e.Result.Metrics {
			row := []string{e.Name, e.Calculator, "metric", m.Key, strconv.FormatFloat(m.Value, 'f', -1, 64), m.Formatted()}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
