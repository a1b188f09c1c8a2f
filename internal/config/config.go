package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Store backends
	StoreSQLite    = "sqlite"
	StoreFirestore = "firestore"

	// Archive backends
	ArchiveLocal = "local"
	ArchiveGCS   = "gcs"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the request tracker MCP server
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Document configuration
	InboxDirectory string
	DataDirectory  string

	// Storage configuration
	StoreBackend     string // "sqlite" or "firestore"
	FirestoreProject string
	ArchiveBackend   string // "local" or "gcs"
	ArchiveBucket    string

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum PDF file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:           ModeStdio, // Default to stdio mode for MCP compatibility
		Host:           DefaultHost,
		Port:           DefaultPort,
		InboxDirectory: currentDir,
		DataDirectory:  filepath.Join(currentDir, "data"),
		StoreBackend:   StoreSQLite,
		ArchiveBackend: ArchiveLocal,
		Version:        "1.0.0",
		ServerName:     "mcp-request-tracker",
		LogLevel:       DefaultLogLevel,
		MaxFileSize:    DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	if cfg.InboxDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.InboxDirectory); err == nil {
			cfg.InboxDirectory = expandedPath
		}
	}
	if cfg.DataDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.DataDirectory); err == nil {
			cfg.DataDirectory = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix("REQTRACK")
	viper.AutomaticEnv()

	// Define flags with Viper
	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("inbox", cfg.InboxDirectory)
	viper.SetDefault("data", cfg.DataDirectory)
	viper.SetDefault("store", cfg.StoreBackend)
	viper.SetDefault("project", cfg.FirestoreProject)
	viper.SetDefault("archive", cfg.ArchiveBackend)
	viper.SetDefault("bucket", cfg.ArchiveBucket)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("inbox", cfg.InboxDirectory, "Directory watched for incoming request PDFs")
	pflag.String("data", cfg.DataDirectory, "Directory for the local database and archive")
	pflag.String("store", cfg.StoreBackend, "Record store backend: 'sqlite' or 'firestore'")
	pflag.String("project", cfg.FirestoreProject, "Google Cloud project id (firestore store only)")
	pflag.String("archive", cfg.ArchiveBackend, "Document archive backend: 'local' or 'gcs'")
	pflag.String("bucket", cfg.ArchiveBucket, "Cloud Storage bucket name (gcs archive only)")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("host", pflag.Lookup("host"))
	_ = viper.BindPFlag("port", pflag.Lookup("port"))
	_ = viper.BindPFlag("inbox", pflag.Lookup("inbox"))
	_ = viper.BindPFlag("data", pflag.Lookup("data"))
	_ = viper.BindPFlag("store", pflag.Lookup("store"))
	_ = viper.BindPFlag("project", pflag.Lookup("project"))
	_ = viper.BindPFlag("archive", pflag.Lookup("archive"))
	_ = viper.BindPFlag("bucket", pflag.Lookup("bucket"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nMCP Request Tracker - A Model Context Protocol server for access-request documents\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                         "+
			"# stdio mode, current directory inbox (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --inbox=/path/to/inbox                  "+
			"# stdio mode with custom inbox\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --store=firestore --project=my-proj     # Firestore record store\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --archive=gcs --bucket=my-bucket        # Cloud Storage archive\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  REQTRACK_MODE        Server mode\n")
		fmt.Fprintf(os.Stderr, "  REQTRACK_HOST        Server host\n")
		fmt.Fprintf(os.Stderr, "  REQTRACK_PORT        Server port\n")
		fmt.Fprintf(os.Stderr, "  REQTRACK_INBOX       Inbox directory\n")
		fmt.Fprintf(os.Stderr, "  REQTRACK_DATA        Data directory\n")
		fmt.Fprintf(os.Stderr, "  REQTRACK_STORE       Record store backend\n")
		fmt.Fprintf(os.Stderr, "  REQTRACK_PROJECT     Google Cloud project id\n")
		fmt.Fprintf(os.Stderr, "  REQTRACK_ARCHIVE     Archive backend\n")
		fmt.Fprintf(os.Stderr, "  REQTRACK_BUCKET      Cloud Storage bucket\n")
		fmt.Fprintf(os.Stderr, "  REQTRACK_LOGLEVEL    Log level\n")
		fmt.Fprintf(os.Stderr, "  REQTRACK_MAXFILESIZE Maximum file size\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.InboxDirectory = viper.GetString("inbox")
	cfg.DataDirectory = viper.GetString("data")
	cfg.StoreBackend = viper.GetString("store")
	cfg.FirestoreProject = viper.GetString("project")
	cfg.ArchiveBackend = viper.GetString("archive")
	cfg.ArchiveBucket = viper.GetString("bucket")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Validate port range (only for server mode)
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	// Validate inbox directory
	if c.InboxDirectory == "" {
		return errors.New("inbox directory cannot be empty")
	}

	// Check if inbox directory exists, create if it doesn't
	if _, err := os.Stat(c.InboxDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.InboxDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create inbox directory %s: %w", c.InboxDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access inbox directory %s: %w", c.InboxDirectory, err)
	}

	// Validate store backend
	switch c.StoreBackend {
	case StoreSQLite:
		if c.DataDirectory == "" {
			return errors.New("data directory cannot be empty with the sqlite store")
		}
	case StoreFirestore:
		if c.FirestoreProject == "" {
			return errors.New("firestore store requires a Google Cloud project id")
		}
	default:
		return fmt.Errorf("invalid store backend: %s (must be 'sqlite' or 'firestore')", c.StoreBackend)
	}

	// Validate archive backend
	switch c.ArchiveBackend {
	case ArchiveLocal:
		if c.DataDirectory == "" {
			return errors.New("data directory cannot be empty with the local archive")
		}
	case ArchiveGCS:
		if c.ArchiveBucket == "" {
			return errors.New("gcs archive requires a bucket name")
		}
	default:
		return fmt.Errorf("invalid archive backend: %s (must be 'local' or 'gcs')", c.ArchiveBackend)
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Mode: %s, Host: %s, Port: %d, InboxDirectory: %s, DataDirectory: %s, "+
			"StoreBackend: %s, ArchiveBackend: %s, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.InboxDirectory, c.DataDirectory,
		c.StoreBackend, c.ArchiveBackend, c.LogLevel, c.MaxFileSize)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
