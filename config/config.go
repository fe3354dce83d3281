package config

// Config carries everything the commands need: site identity, content
// locations, and server settings. Values come from viper (config.yaml,
// PORCH_* environment variables, defaults).
type Config struct {
	SiteTitle       string `mapstructure:"siteTitle"`
	SiteDescription string `mapstructure:"siteDescription"`
	Author          string `mapstructure:"author"`
	BaseURL         string `mapstructure:"baseURL"`
	Footer          string `mapstructure:"footer"`

	ContentDir   string `mapstructure:"contentDir"`
	TemplatesDir string `mapstructure:"templatesDir"`
	StaticDir    string `mapstructure:"staticDir"`

	Address       string `mapstructure:"address"`
	Environment   string `mapstructure:"environment"`
	WhitelistHost string `mapstructure:"whitelistHost"`

	DBDriver string `mapstructure:"dbDriver"`
	DBURL    string `mapstructure:"dbURL"`

	// Secrets are env-only on purpose; never put them in config.yaml.
	JWTSecret      string `mapstructure:"jwtSecret"`
	AuthorUser     string `mapstructure:"authorUser"`
	AuthorPassword string `mapstructure:"authorPassword"`
}
