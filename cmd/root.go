package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"porch/config"
)

var cfgFile string
var appConfig config.Config

var rootCmd = &cobra.Command{
	Use:   "porch",
	Short: "porch serves and checks a file-backed personal site",
	Long: `porch is the engine behind a personal website/blog: Markdown
content with YAML front matter, rendered live through a fixed layout,
with an Atom feed and document-hygiene checks.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

func initializeConfig(_ *cobra.Command) error {
	v := viper.New()

	v.SetDefault("siteTitle", "My Porch")
	v.SetDefault("siteDescription", "")
	v.SetDefault("author", "")
	v.SetDefault("baseURL", "http://localhost:8080")
	v.SetDefault("footer", "")
	v.SetDefault("contentDir", "content")
	v.SetDefault("templatesDir", "templates")
	v.SetDefault("staticDir", "assets")
	v.SetDefault("address", "")
	v.SetDefault("environment", "pro")
	v.SetDefault("dbDriver", "sqlite")
	v.SetDefault("dbURL", "")
	v.SetDefault("authorUser", "author")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("PORCH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		if cfgFile != "" {
			return fmt.Errorf("config file %s not found: %w", cfgFile, err)
		}
	}

	if err := v.Unmarshal(&appConfig); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	return nil
}
