package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/a1exx55/server-backend-sub000/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sample configuration file",
	Long: `Initialize a sample configuration file for the upload service.

By default the file is created at $XDG_CONFIG_HOME/uploadsvc/config.yaml.
Use --config to specify a custom path.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	configFile := GetConfigFile()

	var (
		configPath string
		err        error
	)

	if configFile != "" {
		err = config.InitConfigToPath(configFile, initForce)
		configPath = configFile
	} else {
		configPath, err = config.InitConfig(initForce)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	fmt.Printf("Configuration file created at: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit the configuration file to point at your TLS certificate and database")
	fmt.Println("  2. Start the server with: uploadsvc start")
	fmt.Printf("  3. Or specify a custom config: uploadsvc start --config %s\n", configPath)
	fmt.Println("\nSecurity note:")
	fmt.Println("  A random JWT secret has been generated for development use.")
	fmt.Println("  For production, generate your own and set it via environment variable:")
	fmt.Println("    export SERVER_JWT_SECRET=$(openssl rand -hex 32)")

	return nil
}
