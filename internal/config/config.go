package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigPathEnv names the optional YAML configuration file.
	ConfigPathEnv = "SPOOLER_CONFIG_PATH"

	defaultDatabasePath = "spooler.db"
	defaultLogLevel     = "INFO"
	dotEnvFile          = ".env"
)

// Config holds runtime configuration for the fixture tooling.
type Config struct {
	Server      ServerConfig     `yaml:"server"`
	Fixtures    FixturesConfig   `yaml:"fixtures"`
	Attachments AttachmentsLimit `yaml:"attachments"`
}

type ServerConfig struct {
	DatabasePath string `yaml:"databasePath"`
	LogLevel     string `yaml:"logLevel"`
}

// FixturesConfig controls generated data. A zero RandomSeed asks for a fresh seed per run.
type FixturesConfig struct {
	RandomSeed          uint64 `yaml:"randomSeed"`
	Emails              int    `yaml:"emails"`
	AttachmentsPerEmail int    `yaml:"attachmentsPerEmail"`
	RecipientsPerEmail  int    `yaml:"recipientsPerEmail"`
	ContentIDDomain     string `yaml:"contentIdDomain"`
}

type AttachmentsLimit struct {
	MaxCount          int `yaml:"maxCount"`
	MaxSizeBytes      int `yaml:"maxSizeBytes"`
	MaxTotalSizeBytes int `yaml:"maxTotalSizeBytes"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			DatabasePath: defaultDatabasePath,
			LogLevel:     defaultLogLevel,
		},
		Fixtures: FixturesConfig{
			Emails:              5,
			AttachmentsPerEmail: 2,
			RecipientsPerEmail:  2,
		},
		Attachments: AttachmentsLimit{
			MaxCount:          10,
			MaxSizeBytes:      5 * 1024 * 1024,
			MaxTotalSizeBytes: 25 * 1024 * 1024,
		},
	}
}

// LoadConfig layers defaults, an optional .env file, the YAML file named by
// SPOOLER_CONFIG_PATH (with ${VAR} expansion) and finally environment overrides.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", dotEnvFile, err)
	}

	configuration := Default()
	if configPath := strings.TrimSpace(os.Getenv(ConfigPathEnv)); configPath != "" {
		if err := loadYAML(configPath, &configuration); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnvironment(&configuration); err != nil {
		return Config{}, err
	}
	if err := configuration.Validate(); err != nil {
		return Config{}, err
	}
	return configuration, nil
}

func loadYAML(configPath string, configuration *Config) error {
	contents, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("read config %s: %w", configPath, err)
	}
	expanded := os.ExpandEnv(string(contents))
	if err := yaml.Unmarshal([]byte(expanded), configuration); err != nil {
		return fmt.Errorf("parse config %s: %w", configPath, err)
	}
	return nil
}

// applyEnvironment reads all overrides concurrently and aggregates parse failures.
func applyEnvironment(configuration *Config) error {
	var waitGroup sync.WaitGroup

	taskFunctions := []func() error{
		overrideEnvString("DATABASE_PATH", &configuration.Server.DatabasePath),
		overrideEnvString("LOG_LEVEL", &configuration.Server.LogLevel),
		overrideEnvUint64("RANDOM_SEED", &configuration.Fixtures.RandomSeed),
		overrideEnvInt("SEED_EMAILS", &configuration.Fixtures.Emails),
		overrideEnvInt("SEED_ATTACHMENTS_PER_EMAIL", &configuration.Fixtures.AttachmentsPerEmail),
		overrideEnvInt("SEED_RECIPIENTS_PER_EMAIL", &configuration.Fixtures.RecipientsPerEmail),
		overrideEnvString("CONTENT_ID_DOMAIN", &configuration.Fixtures.ContentIDDomain),
		overrideEnvInt("MAX_ATTACHMENTS", &configuration.Attachments.MaxCount),
		overrideEnvInt("MAX_ATTACHMENT_SIZE_BYTES", &configuration.Attachments.MaxSizeBytes),
		overrideEnvInt("MAX_TOTAL_ATTACHMENT_SIZE_BYTES", &configuration.Attachments.MaxTotalSizeBytes),
	}

	errorChannel := make(chan error, len(taskFunctions))
	for _, taskFunction := range taskFunctions {
		waitGroup.Add(1)
		go func(task func() error) {
			defer waitGroup.Done()
			if taskError := task(); taskError != nil {
				errorChannel <- taskError
			}
		}(taskFunction)
	}

	waitGroup.Wait()
	close(errorChannel)

	var errorMessages []string
	for errorValue := range errorChannel {
		errorMessages = append(errorMessages, errorValue.Error())
	}
	if len(errorMessages) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errorMessages, ", "))
	}
	return nil
}

// Validate reports every invalid field at once.
func (configuration Config) Validate() error {
	var problems []string
	if strings.TrimSpace(configuration.Server.DatabasePath) == "" {
		problems = append(problems, "server.databasePath is required")
	}
	if configuration.Fixtures.Emails < 0 {
		problems = append(problems, "fixtures.emails must not be negative")
	}
	if configuration.Fixtures.AttachmentsPerEmail < 0 {
		problems = append(problems, "fixtures.attachmentsPerEmail must not be negative")
	}
	if configuration.Fixtures.RecipientsPerEmail < 0 {
		problems = append(problems, "fixtures.recipientsPerEmail must not be negative")
	}
	if configuration.Attachments.MaxCount < 0 || configuration.Attachments.MaxSizeBytes < 0 || configuration.Attachments.MaxTotalSizeBytes < 0 {
		problems = append(problems, "attachments limits must not be negative")
	}
	if len(problems) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(problems, ", "))
	}
	return nil
}

func overrideEnvString(environmentKey string, destination *string) func() error {
	return func() error {
		environmentValue := strings.TrimSpace(os.Getenv(environmentKey))
		if environmentValue != "" {
			*destination = environmentValue
		}
		return nil
	}
}

func overrideEnvInt(environmentKey string, destination *int) func() error {
	const invalidIntFormat = "invalid integer for %s: %v"
	return func() error {
		environmentValue := strings.TrimSpace(os.Getenv(environmentKey))
		if environmentValue == "" {
			return nil
		}
		parsedInteger, conversionError := strconv.Atoi(environmentValue)
		if conversionError != nil {
			return fmt.Errorf(invalidIntFormat, environmentKey, conversionError)
		}
		*destination = parsedInteger
		return nil
	}
}

func overrideEnvUint64(environmentKey string, destination *uint64) func() error {
	const invalidUintFormat = "invalid unsigned integer for %s: %v"
	return func() error {
		environmentValue := strings.TrimSpace(os.Getenv(environmentKey))
		if environmentValue == "" {
			return nil
		}
		parsedInteger, conversionError := strconv.ParseUint(environmentValue, 10, 64)
		if conversionError != nil {
			return fmt.Errorf(invalidUintFormat, environmentKey, conversionError)
		}
		*destination = parsedInteger
		return nil
	}
}
