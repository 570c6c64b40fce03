package version

import "fmt"

// SchemaVersionError indicates a config file this build cannot read.
type SchemaVersionError struct {
	FilePath    string
	Found       string // "missing" or the schema string found
	Expected    string
	MinRequired string // minimum lanes version, when the file is newer
}

func (e *SchemaVersionError) Error() string {
	if e.MinRequired != "" {
		return fmt.Sprintf(
			"config schema %s requires lanes >= %s (file: %s, supports up to: %s)",
			e.Found, e.MinRequired, e.FilePath, e.Expected,
		)
	}
	if e.Found == "missing" {
		return fmt.Sprintf(
			"config has no config_schema (file: %s). Add config_schema = %q.",
			e.FilePath, e.Expected,
		)
	}
	return fmt.Sprintf(
		"config has invalid schema version: found %s, expected %s (file: %s)",
		e.Found, e.Expected, e.FilePath,
	)
}

// MissingConfigSchema creates an error for a config file without config_schema.
func MissingConfigSchema(path string) error {
	return &SchemaVersionError{
		FilePath: path,
		Found:    "missing",
		Expected: CurrentConfigSchema(),
	}
}

// InvalidConfigSchema creates an error for a config with an unsupported schema.
func InvalidConfigSchema(path, found string) error {
	e := &SchemaVersionError{
		FilePath: path,
		Found:    found,
		Expected: CurrentConfigSchema(),
	}
	if v, err := ParseConfigVersion(found); err == nil && v > CurrentConfigVersion {
		if minLanes, ok := MinLanesVersion[found]; ok {
			e.MinRequired = minLanes
		} else {
			e.MinRequired = "a newer version"
		}
	}
	return e
}
