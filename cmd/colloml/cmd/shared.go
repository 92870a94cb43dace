package cmd

import (
	"fmt"
	"os"

	"colloml/internal/diag"
	"colloml/internal/driver"
	"colloml/internal/eval"
	"colloml/internal/hostenv"
)

func loadSchema() (*hostenv.Schema, error) {
	if schemaPath == "" {
		return hostenv.NewSchema(), nil
	}
	raw, err := os.ReadFile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("reading schema %s: %w", schemaPath, err)
	}
	cfg, err := hostenv.LoadConfig(raw)
	if err != nil {
		return nil, err
	}
	return cfg.Schema()
}

func checkFile(path string) (*driver.Program, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	schema, err := loadSchema()
	if err != nil {
		return nil, err
	}
	prog, diags := driver.CheckModule(string(source), schema, eval.DefaultOptions())
	if len(diags) > 0 {
		reporter := diag.NewReporter(path, string(source))
		fmt.Fprint(os.Stderr, reporter.FormatAll(diags))
	}
	if prog == nil {
		return nil, fmt.Errorf("%s failed to check", path)
	}
	return prog, nil
}
