// Load envs from .env
// Load YAML config
// Override with env vars
// Provide default values, prompt for what is still missing

package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"go-easyapply-automation/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

type LoggerConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	LogFile    string `yaml:"log_file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

type ListingConfig struct {
	FromAgeDays         int    `yaml:"from_age_days"`
	MinSalary           int    `yaml:"min_salary"`
	MaxSalary           int    `yaml:"max_salary"`
	ApplicationType     int    `yaml:"application_type"`
	IncludeNoSalaryJobs bool   `yaml:"include_no_salary_jobs"`
	LocName             string `yaml:"loc_name"`
	MaxPages            int    `yaml:"max_pages"`
}

type FilterConfig struct {
	Include   string   `yaml:"include"`
	Stopwords []string `yaml:"stopwords"`
}

type FetchConfig struct {
	UserAgent    string        `yaml:"user_agent"`
	RatePerSec   float64       `yaml:"rate_per_sec"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
	CachePath    string        `yaml:"cache_path"`
	RequestLimit time.Duration `yaml:"request_timeout"`
}

type Config struct {
	BaseURL  string `yaml:"url"`
	Headless bool   `yaml:"headless"`
	//Search criteria
	PositionTitle string `yaml:"position_title"`
	Location      string `yaml:"location"`

	Applicant models.Applicant `yaml:"applicant"`
	Listing   ListingConfig    `yaml:"listing"`
	Filter    FilterConfig     `yaml:"filter"`
	Fetch     FetchConfig      `yaml:"fetch"`
	Logger    LoggerConfig     `yaml:"logger"`

	//Timeouts
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`
	FieldTimeout      time.Duration `yaml:"field_timeout"`

	//Paths
	SessionPath string `yaml:"session_path"`
	ExportDir   string `yaml:"export_dir"`
	CachePath   string `yaml:"cache_path"`

	//Optional integrations
	DatabaseURL    string `yaml:"database_url"`
	TelegramToken  string `yaml:"telegram_token"`
	TelegramChatID int64  `yaml:"telegram_chat_id"`
}

// Prompter asks the operator for a value that is neither in the file nor in the environment.
type Prompter interface {
	Prompt(label string) (string, error)
}

// StdinPrompter reads answers line by line.
type StdinPrompter struct {
	In  io.Reader
	Out io.Writer

	scanner *bufio.Scanner
}

func (p *StdinPrompter) Prompt(label string) (string, error) {
	if p.scanner == nil {
		p.scanner = bufio.NewScanner(p.In)
	}
	fmt.Fprintf(p.Out, "%s: ", label)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

// Load reads .env, the YAML file at path, then the environment. A missing YAML file is not an
// error. prompter may be nil, in which case missing search terms are an error.
func Load(path string, prompter Prompter) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	if err := promptMissing(cfg, prompter); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	str("URL", &cfg.BaseURL)
	str("POSITION_TITLE", &cfg.PositionTitle)
	str("LOCATION", &cfg.Location)
	str("FIRST_NAME", &cfg.Applicant.FirstName)
	str("LAST_NAME", &cfg.Applicant.LastName)
	str("EMAIL", &cfg.Applicant.Email)
	str("PHONE", &cfg.Applicant.Phone)
	str("ZIP_CODE", &cfg.Applicant.ZipCode)
	str("COUNTRY", &cfg.Applicant.Country)
	str("ORG", &cfg.Applicant.Org)
	str("RESUME", &cfg.Applicant.ResumePath)
	str("LINKEDIN", &cfg.Applicant.Links.LinkedIn)
	str("WEBSITE", &cfg.Applicant.Links.Website)
	str("GITHUB", &cfg.Applicant.Links.GitHub)
	str("TWITTER", &cfg.Applicant.Links.Twitter)
	str("GRAD_MONTH", &cfg.Applicant.Education.GradMonth)
	str("GRAD_YEAR", &cfg.Applicant.Education.GradYear)
	str("UNIVERSITY", &cfg.Applicant.Education.University)
	str("SESSION_PATH", &cfg.SessionPath)
	str("EXPORT_DIR", &cfg.ExportDir)
	str("DATABASE_URL", &cfg.DatabaseURL)
	str("TELEGRAM_BOT_TOKEN", &cfg.TelegramToken)
	str("LOG_LEVEL", &cfg.Logger.Level)
	str("LOG_FILE", &cfg.Logger.LogFile)

	if v := os.Getenv("HEADLESS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid HEADLESS: %w", err)
		}
		cfg.Headless = b
	}

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.TelegramChatID = id
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.glassdoor.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Applicant.Location == "" {
		cfg.Applicant.Location = cfg.Location
	}

	if cfg.Listing.FromAgeDays == 0 {
		cfg.Listing.FromAgeDays = 14
	}
	if cfg.Listing.MinSalary == 0 {
		cfg.Listing.MinSalary = 100000
	}
	if cfg.Listing.MaxSalary == 0 {
		cfg.Listing.MaxSalary = 320000
	}
	if cfg.Listing.ApplicationType == 0 {
		cfg.Listing.ApplicationType = 1
	}
	if cfg.Listing.LocName == "" {
		cfg.Listing.LocName = "Remote"
	}
	if cfg.Listing.MaxPages == 0 {
		cfg.Listing.MaxPages = 30
	}

	if cfg.Filter.Include == "" {
		cfg.Filter.Include = models.DefaultIncludeKeyword
	}
	if len(cfg.Filter.Stopwords) == 0 {
		cfg.Filter.Stopwords = models.DefaultStopwords()
	}

	if cfg.Fetch.RatePerSec == 0 {
		cfg.Fetch.RatePerSec = 1
	}
	if cfg.Fetch.CacheTTL == 0 {
		cfg.Fetch.CacheTTL = 24 * time.Hour
	}
	if cfg.Fetch.RequestLimit == 0 {
		cfg.Fetch.RequestLimit = 30 * time.Second
	}

	if cfg.NavigationTimeout == 0 {
		cfg.NavigationTimeout = 10 * time.Second
	}
	if cfg.FieldTimeout == 0 {
		cfg.FieldTimeout = 100 * time.Millisecond
	}

	if cfg.SessionPath == "" {
		cfg.SessionPath = "playwright/.auth/state.json"
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "exports"
	}
	if cfg.CachePath == "" {
		cfg.CachePath = ".cache"
	}
	if cfg.Fetch.CachePath == "" {
		cfg.Fetch.CachePath = cfg.CachePath + "/responses.db"
	}

	if cfg.Logger.Level == "" {
		cfg.Logger.Level = "info"
	}
	if cfg.Logger.Format == "" {
		cfg.Logger.Format = "console"
	}
	if cfg.Logger.MaxSize == 0 {
		cfg.Logger.MaxSize = 10
	}
	if cfg.Logger.MaxBackups == 0 {
		cfg.Logger.MaxBackups = 3
	}
	if cfg.Logger.MaxAge == 0 {
		cfg.Logger.MaxAge = 28
	}
}

func promptMissing(cfg *Config, prompter Prompter) error {
	missing := []struct {
		label string
		dst   *string
	}{
		{"Enter position title", &cfg.PositionTitle},
		{"Enter location", &cfg.Location},
	}
	for _, m := range missing {
		if *m.dst != "" {
			continue
		}
		if prompter == nil {
			return fmt.Errorf("config: %q is not set and no prompt is available", m.label)
		}
		v, err := prompter.Prompt(m.label)
		if err != nil {
			return fmt.Errorf("prompt %q: %w", m.label, err)
		}
		*m.dst = v
	}
	if cfg.Applicant.Location == "" {
		cfg.Applicant.Location = cfg.Location
	}
	return nil
}

// TelegramEnabled reports whether both bot credentials are configured.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}
