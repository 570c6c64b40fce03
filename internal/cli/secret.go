package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/amterp/lanes/internal/credential"
	lnerr "github.com/amterp/lanes/internal/errors"
	"github.com/amterp/lanes/internal/prompt"
	"github.com/amterp/lanes/internal/store"
	"github.com/amterp/ra"
)

var secretNames = []string{store.SecretRedisPassword, store.SecretAzureConnection}

func registerSecret(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("secret")
	cmd.SetDescription("Manage storage credentials in the OS keyring")

	// secret set
	setCmd := ra.NewCmd("set")
	setCmd.SetDescription("Store a secret")

	ctx.SecretSetName, _ = ra.NewString("name").
		SetUsage("Secret name").
		SetEnumConstraint(secretNames).
		Register(setCmd)

	ctx.SecretSetValue, _ = ra.NewString("value").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Secret value (prompted for if omitted)").
		Register(setCmd)

	ctx.SecretSetUsed, _ = cmd.RegisterCmd(setCmd)

	// secret rm
	rmCmd := ra.NewCmd("rm")
	rmCmd.SetDescription("Delete a stored secret")

	ctx.SecretRmName, _ = ra.NewString("name").
		SetUsage("Secret name").
		SetEnumConstraint(secretNames).
		Register(rmCmd)

	ctx.SecretRmUsed, _ = cmd.RegisterCmd(rmCmd)

	ctx.SecretUsed, _ = parent.RegisterCmd(cmd)
}

// Secret commands skip NewApp: opening storage may be the very thing the
// missing secret prevents.
func runSecretSet(name, value string, interactive bool) {
	if err := validateSecretName(name); err != nil {
		Fatal(err)
	}

	if value == "" {
		if !interactive {
			Fatal(lnerr.InvalidField("value", "pass --value in non-interactive mode"))
		}
		prompted, err := prompt.NewHuhPrompter().Input(fmt.Sprintf("Value for %s", name), "")
		if err != nil {
			Fatal(err)
		}
		value = strings.TrimSpace(prompted)
	}
	if value == "" {
		Fatal(lnerr.InvalidField("value", "secret value cannot be empty"))
	}

	if err := credential.New().Set(name, value); err != nil {
		Fatal(err)
	}
	PrintSuccess("Stored %s in the keyring", name)
	PrintInfo("%s overrides it when set", credential.EnvName(name))
}

func runSecretRm(name string) {
	if err := validateSecretName(name); err != nil {
		Fatal(err)
	}
	if err := credential.New().Delete(name); err != nil {
		Fatal(err)
	}
	PrintSuccess("Deleted %s from the keyring", name)
}

func validateSecretName(name string) error {
	if !slices.Contains(secretNames, name) {
		return lnerr.InvalidField("name", fmt.Sprintf("unknown secret %q (known: %s)", name, strings.Join(secretNames, ", ")))
	}
	return nil
}
