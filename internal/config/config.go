package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const dateLayout = "2006-01-02"

// Catalog backends
const (
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
)

// Config holds all application configuration
type Config struct {
	// Trakt
	TraktClientID string `validate:"required"`
	TraktURL      string `validate:"required,url"`

	// Image providers (a provider without a key is left out of the chain)
	TMDBAPIKey   string
	OMDBAPIKey   string
	FanartAPIKey string

	// Torrent indexes
	YTSURL      string `validate:"omitempty,url"`
	EZTVURL     string `validate:"omitempty,url"`
	TorznabURL  string `validate:"omitempty,url"`
	TorznabKey  string
	TorznabType string `validate:"oneof=movie show"`

	// Catalog
	CatalogBackend string `validate:"oneof=bolt sqlite"`

	// HTTP
	HTTPTimeout time.Duration `validate:"gt=0"`

	// Sync
	SyncConcurrency    int           `validate:"min=1"` // per-item parallelism for Trakt runs (1 = serial)
	ScraperConcurrency int           `validate:"min=1"` // per-item parallelism for scraper runs
	UpdatesPageLimit   int           `validate:"min=1,max=1000"`
	MetadataDelay      time.Duration `validate:"gte=0"` // after every Trakt page, item and season fetch
	ScraperDelay       time.Duration `validate:"gte=0"` // after every scraper page and item
	RetryDelay         time.Duration `validate:"gte=0"`
	PageRetries        int           `validate:"gte=0"`
	MaxSeasons         int           `validate:"min=1"`
	MaxFailedPages     int           `validate:"min=1"`
	MaxPages           int           `validate:"gte=0"` // 0 = until upstream runs dry
	MinYear            int
	MovieStartDate     time.Time
	ShowStartDate      time.Time
	ImageCacheTTL      time.Duration `validate:"gte=0"`

	// Server
	ServerPort string `validate:"required"`

	// Paths
	BlacklistFile string // $CONFIG_DIR/blacklist.txt
	DatabaseFile  string // $CONFIG_DIR/catalogr.db or catalogr.sqlite

	// Logging
	LogLevel  string
	LogFormat string `validate:"oneof=text json"`
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Setup viper FIRST to load .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	setDefaults()

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "catalogr")
	} else {
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	movieStart, err := time.Parse(dateLayout, viper.GetString("MOVIE_START_DATE"))
	if err != nil {
		return nil, fmt.Errorf("invalid MOVIE_START_DATE: %w", err)
	}
	showStart, err := time.Parse(dateLayout, viper.GetString("SHOW_START_DATE"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHOW_START_DATE: %w", err)
	}

	backend := viper.GetString("CATALOG_BACKEND")
	dbFile := "catalogr.db"
	if backend == BackendSQLite {
		dbFile = "catalogr.sqlite"
	}

	config := &Config{
		// Trakt
		TraktClientID: viper.GetString("TRAKT_CLIENT_ID"),
		TraktURL:      viper.GetString("TRAKT_URL"),

		// Image providers
		TMDBAPIKey:   viper.GetString("TMDB_API_KEY"),
		OMDBAPIKey:   viper.GetString("OMDB_API_KEY"),
		FanartAPIKey: viper.GetString("FANART_API_KEY"),

		// Torrent indexes
		YTSURL:      viper.GetString("YTS_URL"),
		EZTVURL:     viper.GetString("EZTV_URL"),
		TorznabURL:  viper.GetString("TORZNAB_URL"),
		TorznabKey:  viper.GetString("TORZNAB_KEY"),
		TorznabType: viper.GetString("TORZNAB_TYPE"),

		CatalogBackend: backend,
		HTTPTimeout:    viper.GetDuration("HTTP_TIMEOUT"),

		// Sync
		SyncConcurrency:    viper.GetInt("SYNC_CONCURRENCY"),
		ScraperConcurrency: viper.GetInt("SCRAPER_CONCURRENCY"),
		UpdatesPageLimit:   viper.GetInt("UPDATES_PAGE_LIMIT"),
		MetadataDelay:      viper.GetDuration("METADATA_DELAY"),
		ScraperDelay:       viper.GetDuration("SCRAPER_DELAY"),
		RetryDelay:         viper.GetDuration("RETRY_DELAY"),
		PageRetries:        viper.GetInt("PAGE_RETRIES"),
		MaxSeasons:         viper.GetInt("MAX_SEASONS"),
		MaxFailedPages:     viper.GetInt("MAX_FAILED_PAGES"),
		MaxPages:           viper.GetInt("MAX_PAGES"),
		MinYear:            viper.GetInt("MIN_YEAR"),
		MovieStartDate:     movieStart,
		ShowStartDate:      showStart,
		ImageCacheTTL:      viper.GetDuration("IMAGE_CACHE_TTL"),

		// Server
		ServerPort: viper.GetString("SERVER_PORT"),

		// Paths
		BlacklistFile: filepath.Join(configDir, "blacklist.txt"),
		DatabaseFile:  filepath.Join(configDir, dbFile),

		// Logging
		LogLevel:  viper.GetString("LOG_LEVEL"),
		LogFormat: viper.GetString("LOG_FORMAT"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration against its struct constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("TRAKT_URL", "https://api.trakt.tv")
	viper.SetDefault("YTS_URL", "https://yts.mx/api/v2")
	viper.SetDefault("EZTV_URL", "https://eztvx.to/api")
	viper.SetDefault("TORZNAB_TYPE", "movie")
	viper.SetDefault("CATALOG_BACKEND", BackendBolt)
	viper.SetDefault("HTTP_TIMEOUT", "30s")

	viper.SetDefault("SYNC_CONCURRENCY", 1)
	viper.SetDefault("SCRAPER_CONCURRENCY", 4)
	viper.SetDefault("UPDATES_PAGE_LIMIT", 100)
	viper.SetDefault("METADATA_DELAY", "500ms")
	viper.SetDefault("SCRAPER_DELAY", "1500ms")
	viper.SetDefault("RETRY_DELAY", "1s")
	viper.SetDefault("PAGE_RETRIES", 1)
	viper.SetDefault("MAX_SEASONS", 500)
	viper.SetDefault("MAX_FAILED_PAGES", 3)
	viper.SetDefault("MAX_PAGES", 0)
	viper.SetDefault("MIN_YEAR", 1995)
	viper.SetDefault("MOVIE_START_DATE", "2014-09-17")
	viper.SetDefault("SHOW_START_DATE", "2014-09-24")
	viper.SetDefault("IMAGE_CACHE_TTL", "24h")

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
}
