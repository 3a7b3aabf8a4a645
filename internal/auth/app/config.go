package app

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the service configuration, read from the environment at startup.
// Durations accept Go duration strings ("15m", "8h").
type Config struct {
	Env       string `env:"ENV" env-default:"dev"`
	LogLevel  string `env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `env:"LOG_FORMAT" env-default:"json"`
	Port      int    `env:"PORT" env-default:"8080"`

	// DatabaseFile is the path to the SQLite database.
	DatabaseFile string `env:"MEDLOCK_DATABASE_FILE" env-default:"medlock.db"`

	// PepperFile holds the secret mixed into every password hash. It lives
	// outside the database so a dumped database alone is not crackable.
	PepperFile string `env:"MEDLOCK_PEPPER_FILE" env-default:"pepper"`

	// TOTPIssuer is the account label authenticator apps display.
	TOTPIssuer string `env:"MEDLOCK_TOTP_ISSUER" env-default:"MedLock"`

	// BootstrapToken gates one-time first-admin provisioning. Empty
	// disables the bootstrap endpoint entirely.
	BootstrapToken string `env:"MEDLOCK_BOOTSTRAP_TOKEN"`

	// CORSOrigins lists the web origins allowed to call the API,
	// comma separated.
	CORSOrigins []string `env:"MEDLOCK_CORS_ORIGINS" env-default:"http://localhost:3000"`

	// SessionTTL, ChallengeTTL, LockoutDuration and MaxFailedAttempts
	// override the built-in policy values. Zero keeps the default.
	SessionTTL        time.Duration `env:"MEDLOCK_SESSION_TTL"`
	ChallengeTTL      time.Duration `env:"MEDLOCK_CHALLENGE_TTL"`
	LockoutDuration   time.Duration `env:"MEDLOCK_LOCKOUT_DURATION"`
	MaxFailedAttempts int           `env:"MEDLOCK_MAX_FAILED_ATTEMPTS"`

	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" env-default:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" env-default:"10m"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read configuration: %w", err)
	}
	return cfg, nil
}
