package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	devConfig "github.com/xrendezvous/ConnectiveApp/dev/config"
	"github.com/xrendezvous/ConnectiveApp/server"
	"github.com/xrendezvous/ConnectiveApp/shared"
	"github.com/xrendezvous/ConnectiveApp/utils"
)

var (
	serverConfigFile string
	envKeyReplacer   = strings.NewReplacer(".", "_")
)

func init() {
	rootCmd.AddCommand(createServerCmd())
}

func createServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start a connective server",
		Long: `The connective server exposes the address book JSON API and sends
the daily birthday reminders of users who turned them on`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadServerConfig(serverConfigFile, isDevEnv)
			if err != nil {
				return err
			}

			server.Start(*config, isDevEnv)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverConfigFile, "sconfig", "", "config file for the server (required unless --dev is set)")

	return cmd
}

// loadServerConfig reads the server config from configFile, or from
// dev/config/server.yml in dev mode. Env vars override values in the file
// e.g. TWILIO_AUTHTOKEN for twilio.authToken.
func loadServerConfig(configFile string, devMode bool) (*shared.ServerConfig, error) {
	var err error
	if devMode && configFile == "" {
		configFile, err = devConfigFilePath()
		if err != nil {
			return nil, err
		}
	}

	if configFile == "" {
		return nil, formattedError("--sconfig is required when not in dev mode")
	}

	config := viper.New()
	config.SetConfigFile(configFile)
	config.SetEnvKeyReplacer(envKeyReplacer)
	config.AutomaticEnv() // read in environment variables that match

	err = config.ReadInConfig()
	if err != nil {
		return nil, formattedError("error reading server config file: %v", err)
	}

	serverConfig := shared.ServerConfig{}
	err = config.Unmarshal(&serverConfig)
	if err != nil {
		return nil, formattedError("invalid server config: %v", err)
	}

	err = validator.New().Struct(serverConfig)
	if err != nil {
		return nil, formattedError("invalid server config %v: %v", config.ConfigFileUsed(), err)
	}

	return &serverConfig, nil
}

// devConfigFilePath returns dev/config/server.yml, creating it with the
// default dev config if it doesn't exist yet
func devConfigFilePath() (string, error) {
	rootDir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	configDir := filepath.Join(rootDir, "dev", "config")
	err = utils.CreateDirIfNotExist(configDir)
	if err != nil {
		return "", err
	}

	configFilePath := filepath.Join(configDir, "server.yml")
	exists, err := utils.FileExist(configFilePath)
	if err != nil {
		return "", err
	}

	if !exists {
		err = os.WriteFile(configFilePath, []byte(devConfig.SERVER_YML), 0600)
		if err != nil {
			return "", err
		}
	}

	return configFilePath, nil
}
