package config

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/Sudarshan-cuk/advanced-image-steganography/logger"
)

const (
	// EnvPrefix prefixes every environment variable read by the config,
	// e.g. STEGANO_SECRET or STEGANO_EXPERIMENT_TRIALS.
	EnvPrefix = "STEGANO"

	// DefaultMessage is the payload hidden by the noise experiment.
	DefaultMessage = "Test message for noise analysis"
)

const (
	defaultLogLevel  = "info"
	defaultTrials    = 1
	defaultOutputDir = "."
)

// DefaultSigmas are the noise levels swept by the experiment unless
// configured otherwise.
var DefaultSigmas = []float64{0.0, 0.005, 0.01, 0.02, 0.05}

var validate = validator.New()

// ExperimentConfig controls the noise-resilience sweep.
type ExperimentConfig struct {
	Sigmas    []float64 `validate:"min=1,dive,gte=0"`
	Trials    int       `validate:"gte=1"`
	Seed      int64     // 0 picks a time-based seed
	Message   string    `validate:"required"`
	OutputDir string    `validate:"required"`
}

// Config contains all settings for the command line tools.
type Config struct {
	LogLevel   uint32
	Secret     string
	Experiment ExperimentConfig
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("secret", "")
	v.SetDefault("experiment.sigmas", DefaultSigmas)
	v.SetDefault("experiment.trials", defaultTrials)
	v.SetDefault("experiment.seed", 0)
	v.SetDefault("experiment.message", DefaultMessage)
	v.SetDefault("experiment.output.dir", defaultOutputDir)
	return v
}

// NewDefaultConfig creates a new Config with default settings.
func NewDefaultConfig() *Config {
	level, _ := logger.GetLogLevel(defaultLogLevel)
	return &Config{
		LogLevel: level,
		Experiment: ExperimentConfig{
			Sigmas:    append([]float64(nil), DefaultSigmas...),
			Trials:    defaultTrials,
			Message:   DefaultMessage,
			OutputDir: defaultOutputDir,
		},
	}
}

// NewConfig builds a Config from defaults, a .env file in the working
// directory if there is one, STEGANO_* environment variables and, when
// configFile is not empty, the given file.
func NewConfig(configFile string) (*Config, error) {
	// A missing .env file is fine.
	_ = godotenv.Load()

	v := newViper()
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "config: unable to read %s", configFile)
		}
	}

	level, err := logger.GetLogLevel(v.GetString("log.level"))
	if err != nil {
		return nil, errors.Wrap(err, "config")
	}
	sigmas, err := parseSigmas(v.Get("experiment.sigmas"))
	if err != nil {
		return nil, err
	}

	config := &Config{
		LogLevel: level,
		Secret:   v.GetString("secret"),
		Experiment: ExperimentConfig{
			Sigmas:    sigmas,
			Trials:    v.GetInt("experiment.trials"),
			Seed:      v.GetInt64("experiment.seed"),
			Message:   v.GetString("experiment.message"),
			OutputDir: v.GetString("experiment.output.dir"),
		},
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the experiment settings.
func (c *Config) Validate() error {
	return errors.Wrap(validate.Struct(c.Experiment), "config: invalid experiment settings")
}

// parseSigmas accepts a list from a config file or a comma-separated string
// from the environment.
func parseSigmas(value interface{}) ([]float64, error) {
	switch v := value.(type) {
	case []float64:
		return append([]float64(nil), v...), nil
	case string:
		var sigmas []float64
		for _, field := range strings.Split(v, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			sigma, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "config: invalid sigma %q", field)
			}
			sigmas = append(sigmas, sigma)
		}
		return sigmas, nil
	case []interface{}:
		sigmas := make([]float64, 0, len(v))
		for _, item := range v {
			sigma, err := cast.ToFloat64E(item)
			if err != nil {
				return nil, errors.Wrapf(err, "config: invalid sigma %v", item)
			}
			sigmas = append(sigmas, sigma)
		}
		return sigmas, nil
	default:
		return nil, errors.Errorf("config: unsupported sigma list %T", value)
	}
}
