package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string
	DBUrl           string
	TokenSecret     string
	TokenTTL        time.Duration
	Debug           bool
	PublicDir       string
	PrivateDir      string
	UniversitiesCSV string
}

// environment holds the values read from STUDY_* variables. They become the
// flag defaults, so an explicit flag always wins.
type environment struct {
	Host            string `env:"STUDY_HOST" envDefault:"0.0.0.0"`
	Port            uint   `env:"STUDY_PORT" envDefault:"80"`
	DBUrl           string `env:"STUDY_DB_URL" envDefault:"study.sqlite"`
	TokenSecret     string `env:"STUDY_TOKEN_SECRET"`
	TokenTTL        uint   `env:"STUDY_TOKEN_TTL" envDefault:"120"`
	Debug           bool   `env:"STUDY_DEBUG"`
	PublicDir       string `env:"STUDY_PUBLIC_DIR" envDefault:"public"`
	PrivateDir      string `env:"STUDY_PRIVATE_DIR" envDefault:"private"`
	UniversitiesCSV string `env:"STUDY_UNIVERSITIES_CSV"`
}

// LoadDotEnv loads variables from the given files into the process environment,
// without overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	for _, file := range files {
		err := godotenv.Load(file)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

func ParseFlags(args []string) (cfg Config, err error) {
	var e environment
	if err = env.Parse(&e); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("study-abroad", flag.ContinueOnError)
	var host string
	fs.StringVar(&host, "host", e.Host, "listen host name")
	var port uint
	fs.UintVar(&port, "port", e.Port, "listen port number")
	fs.StringVar(&cfg.DBUrl, "db-url", e.DBUrl, "path to SQLite3 DB file")
	fs.StringVar(&cfg.TokenSecret, "token-secret", e.TokenSecret, "secret key for token encryption and decryption")
	var ttl uint
	fs.UintVar(&ttl, "token-ttl", e.TokenTTL, "token TTL in seconds")
	fs.BoolVar(&cfg.Debug, "debug", e.Debug, "log at DEBUG level")
	fs.StringVar(&cfg.PublicDir, "public-dir", e.PublicDir, "directory of public static pages")
	fs.StringVar(&cfg.PrivateDir, "private-dir", e.PrivateDir, "directory of pages served to logged in users")
	fs.StringVar(&cfg.UniversitiesCSV, "universities", e.UniversitiesCSV, "CSV file of universities to load at startup")
	if err = fs.Parse(args); err != nil {
		return
	}

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))
	cfg.TokenTTL = time.Duration(ttl) * time.Second

	if cfg.TokenSecret == "" {
		err = errors.New("missing parameter -token-secret")
	}

	return
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}
