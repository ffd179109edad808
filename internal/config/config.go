package config

import (
	"github.com/ilyakaznacheev/cleanenv"
	"log"
	"os"
	"time"
)

const defaultConfigPath = "./config/local.yaml"

type Config struct {
	Env            string `yaml:"env" env:"ENV" env-default:"prod"`
	ErrorLog       string `yaml:"error_log" env:"ERROR_LOG" env-default:"errors.log"`
	HTTPServer     `yaml:"http_server"`
	DBUser         string `yaml:"db_user" env:"DB_USER" env-required:"true"`
	DBPassword     string `yaml:"db_password" env:"DB_PASSWORD"`
	DBHost         string `yaml:"db_host" env:"DB_HOST" env-default:"localhost"`
	DBPort         int    `yaml:"db_port" env:"DB_PORT" env-default:"3306"`
	DBName         string `yaml:"db_name" env:"DB_NAME" env-required:"true"`
	DBMaxOpenConns int    `yaml:"db_max_open_conns" env-default:"10"`
	ParseTime      bool   `yaml:"parse_time" env-default:"true"`

	Calendar Calendar `yaml:"calendar"`
	Report   Report   `yaml:"report"`
	Domain   Domain   `yaml:"domain"`
}

type HTTPServer struct {
	Address        string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:4001"`
	Timeout        time.Duration `yaml:"timeout"  env-default:"10s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"  env-default:"60s"`
	AllowedOrigins []string      `yaml:"allowed_origins" env-default:"http://localhost:5173"`
}

// Calendar часовой пояс площадки. Смещение фиксированное.
type Calendar struct {
	TimezoneName   string        `yaml:"timezone_name" env-default:"Asia/Jakarta"`
	TimezoneOffset time.Duration `yaml:"timezone_offset" env-default:"7h"`
}

type Report struct {
	MaxRangeDays  int           `yaml:"max_range_days" env-default:"366"`
	CacheTTL      time.Duration `yaml:"cache_ttl" env-default:"0s"`
	DecimalPlaces int32         `yaml:"decimal_places" env-default:"3"`
	QueryTimeout  time.Duration `yaml:"query_timeout" env-default:"8s"`
}

// Domain справочники производства. Пустые секции заполняются значениями по умолчанию.
type Domain struct {
	Kinds        map[string]Kind    `yaml:"kinds"`
	DailyMinutes string             `yaml:"daily_minutes"`
	OTRatio      string             `yaml:"ot_ratio"`
	Variants     map[string]Variant `yaml:"variants"`
}

// Kind вид записей выработки (пошив, ОТК, упаковка, раскрой)
type Kind struct {
	Table         string            `yaml:"table"`
	Categories    []string          `yaml:"categories"`
	Subcategories []string          `yaml:"subcategories"`
	Fields        []string          `yaml:"fields"`
	Auxiliary     []string          `yaml:"auxiliary"`
	Weights       map[string]string `yaml:"weights"`
}

// Variant вариант формул эффективности/загрузки
type Variant struct {
	Table      string            `yaml:"table"`
	Targets    map[string]string `yaml:"targets"`
	ActualKind string            `yaml:"actual_kind"`
}

func MustConfig() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	var cfg Config

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
