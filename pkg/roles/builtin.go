package roles

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"clambake/pkg/protocol"
)

//go:embed roles.yaml
var builtinYAML []byte

// builtinRole is the YAML shape of one built-in role definition.
type builtinRole struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	SystemPrompt string   `yaml:"system_prompt"`
	Capabilities []string `yaml:"capabilities"`
}

// BuiltinRoles parses the embedded role definitions seeded by "role seed".
func BuiltinRoles() ([]protocol.Role, error) {
	var parsed []builtinRole
	if err := yaml.Unmarshal(builtinYAML, &parsed); err != nil {
		return nil, fmt.Errorf("parse builtin roles: %w", err)
	}

	roles := make([]protocol.Role, 0, len(parsed))
	for _, b := range parsed {
		roles = append(roles, protocol.Role{
			Name:         b.Name,
			Description:  b.Description,
			SystemPrompt: b.SystemPrompt,
			Capabilities: b.Capabilities,
		})
	}
	return roles, nil
}
