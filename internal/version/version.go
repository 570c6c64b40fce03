package version

import (
	"fmt"
	"strconv"
	"strings"
)

// CurrentConfigVersion is the config file schema this build reads and writes.
//
// CHECKLIST when bumping:
//  1. Update the constant below
//  2. Add entry to MinLanesVersion (tested by TestMinLanesVersionCompleteness)
//  3. Teach config.Load to upgrade the previous version in place
const CurrentConfigVersion = 1

// ConfigSchemaPrefix prefixes the config_schema value.
const ConfigSchemaPrefix = "config/"

// MinLanesVersion maps schema identifiers to the minimum lanes release that
// understands them, for upgrade hints when a newer file is found.
var MinLanesVersion = map[string]string{
	"config/1": "0.1.0",
}

// FormatConfigSchema creates a schema string from a version number.
// Example: FormatConfigSchema(1) returns "config/1"
func FormatConfigSchema(v int) string {
	return fmt.Sprintf("%s%d", ConfigSchemaPrefix, v)
}

// ParseConfigVersion extracts the version number from a schema string.
func ParseConfigVersion(schema string) (int, error) {
	if !strings.HasPrefix(schema, ConfigSchemaPrefix) {
		return 0, fmt.Errorf("invalid config schema format: %q (expected %sN)", schema, ConfigSchemaPrefix)
	}
	versionStr := strings.TrimPrefix(schema, ConfigSchemaPrefix)
	v, err := strconv.Atoi(versionStr)
	if err != nil {
		return 0, fmt.Errorf("invalid config schema version: %q", versionStr)
	}
	if v < 1 {
		return 0, fmt.Errorf("invalid config schema version: %d (must be >= 1)", v)
	}
	return v, nil
}

// CurrentConfigSchema returns the current schema string.
func CurrentConfigSchema() string {
	return FormatConfigSchema(CurrentConfigVersion)
}
