package shared

const (
	SQLITE_DRIVER   = "sqlite"
	POSTGRES_DRIVER = "postgres"
)

type ServerConfig struct {
	Connective ConnectiveConfig `mapstructure:"connective" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Twilio     TwilioConfig     `mapstructure:"twilio"`
	Google     GoogleConfig     `mapstructure:"google"`
	Widget     WidgetConfig     `mapstructure:"widget"`
}

type ConnectiveConfig struct {
	PrivateKeyPem string         `mapstructure:"privateKeyPem" validate:"required"`
	TimeZone      string         `mapstructure:"timeZone" validate:"required"`
	Listener      ListenerConfig `mapstructure:"listener" validate:"required"`
}

type ListenerConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
}

type DatabaseConfig struct {
	Driver   string         `mapstructure:"driver" validate:"required,oneof=sqlite postgres"`
	Sqlite   SqliteConfig   `mapstructure:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type SqliteConfig struct {
	PassPhrase string `mapstructure:"passPhrase"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig is optional, an empty Addr disables widget caching
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"min=0"`
}

type TwilioConfig struct {
	AccountSid          string `mapstructure:"accountSid"`
	AuthToken           string `mapstructure:"authToken"`
	MessagingServiceSid string `mapstructure:"messagingServiceSid"`
}

type GoogleConfig struct {
	ApplicationCredentials string         `mapstructure:"applicationCredentials"`
	Storage                StorageConfig  `mapstructure:"storage"`
	Calendar               CalendarConfig `mapstructure:"calendar"`
}

type StorageConfig struct {
	Bucket                    string      `mapstructure:"bucket" validate:"required_with=EnableSqliteBackupAndSync"`
	Prefix                    string      `mapstructure:"prefix" validate:"required_with=EnableSqliteBackupAndSync"`
	SqliteBackupSchedule      string      `mapstructure:"sqliteBackupSchedule" validate:"required_with=EnableSqliteBackupAndSync"`
	EnableSqliteBackupAndSync interface{} `mapstructure:"enableSqliteBackupAndSync"`
}

type CalendarConfig struct {
	CalendarID string `mapstructure:"calendarId"`
	Enabled    bool   `mapstructure:"enabled"`
}

type WidgetConfig struct {
	WeatherAPIKey     string `mapstructure:"weatherApiKey"`
	GeolocationAPIKey string `mapstructure:"geolocationApiKey"`
	DefaultCity       string `mapstructure:"defaultCity"`
}

// BackupEnabled reports whether periodic sqlite backups to google storage are on.
// The flag is read as interface{} since viper leaves env overrides as strings.
func (cfg StorageConfig) BackupEnabled() bool {
	switch v := cfg.EnableSqliteBackupAndSync.(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}
