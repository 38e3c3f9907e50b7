// Package cli holds the catalog-manager commands: the API server and a small
// client for the same API.
package cli

import (
	"os"
	"path/filepath"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rogerio-castellano/catalog-manager/internal/config"
)

const (
	configFlag = "config"
	apiURLFlag = "api-url"
)

// flagMap is a set of flags owned by one command. Every NewRootCommand call
// builds fresh maps, so the cobraflags instances never outlive their command tree.
type flagMap = map[string]cobraflags.Flag

// newCommonFlags returns --config and --api-url, registered once on the root as
// persistent flags so they can be given after any subcommand name.
func newCommonFlags() flagMap {
	return flagMap{
		configFlag: &cobraflags.StringFlag{
			Name:       configFlag,
			Value:      "",
			Usage:      "Optional config file (yaml, json or toml)",
			Persistent: true,
		},
		apiURLFlag: &cobraflags.StringFlag{
			Name:       apiURLFlag,
			Value:      "",
			Usage:      "Base URL of the API, overrides API_URL",
			Persistent: true,
		},
	}
}

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "catalog-manager",
		Short:         "Product catalog API server and client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	common := newCommonFlags()
	cobraflags.RegisterMap(root, common)

	root.AddCommand(newServeCommand(common))
	root.AddCommand(newLoginCommand(common))
	root.AddCommand(newRegisterCommand(common))
	root.AddCommand(newLogoutCommand(common))
	root.AddCommand(newProductsCommand(common))
	root.AddCommand(newCategoriesCommand(common))
	return root
}

// loadConfig resolves settings the same way for every command.
func loadConfig(common flagMap) (config.Config, *viper.Viper, error) {
	v := config.New()
	v.SetDefault("token_file", defaultTokenFile())

	cfg, err := config.Load(v, common[configFlag].GetString())
	if err != nil {
		return config.Config{}, nil, err
	}
	if u := common[apiURLFlag].GetString(); u != "" {
		cfg.APIURL = u
	}
	return cfg, v, nil
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".catalog-manager-token"
	}
	return filepath.Join(home, ".catalog-manager", "token")
}
