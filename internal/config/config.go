package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	InputDir    string
	OutputDir   string
	Header      bool
	Efficiency  float64
	UDC         float64
	XLSX        bool
	JournalPath string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		InputDir:    getEnv("SOLARCONV_INPUT", "input/"),
		OutputDir:   getEnv("SOLARCONV_OUTPUT", "output/"),
		Header:      getEnvBool("SOLARCONV_HEADER", true),
		Efficiency:  getEnvFloat("SOLARCONV_EFFICIENCY", 98),
		UDC:         getEnvFloat("SOLARCONV_UDC", 230),
		XLSX:        getEnvBool("SOLARCONV_XLSX", false),
		JournalPath: getEnv("SOLARCONV_JOURNAL", ""),
	}

	return cfg, nil
}

// BindFlags registers the run options on fs, using the loaded values as defaults.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.InputDir, "input", c.InputDir, "folder with the minXXYYZZ.json, days_hist_all or Kaco CSV files")
	fs.StringVar(&c.OutputDir, "output", c.OutputDir, "folder to write the results to")
	fs.Var((*valueBool)(&c.Header), "header", "write a header line (true/false)")
	fs.Float64Var(&c.Efficiency, "efficiency", c.Efficiency, "PAC / PDC efficiency in percent")
	fs.Float64Var(&c.UDC, "udc", c.UDC, "UDC value in V")
	fs.BoolVar(&c.XLSX, "xlsx", c.XLSX, "also write result.xlsx for tabular modes")
	fs.StringVar(&c.JournalPath, "journal", c.JournalPath, "sqlite file to record runs in (empty disables)")
}

// ParseFlags binds the run options to fs and parses args. At most positional
// arguments may follow the options; anything beyond is an error, since flag
// parsing stops at the first of them and would drop the options after it.
func (c *Config) ParseFlags(fs *flag.FlagSet, args []string, positional int) ([]string, error) {
	c.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > positional {
		return nil, fmt.Errorf("unexpected argument %q", fs.Arg(positional))
	}
	return fs.Args(), nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.InputDir) == "" {
		return errors.New("input folder is required")
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return errors.New("output folder is required")
	}
	if c.Efficiency <= 0 {
		return errors.New("efficiency must be greater than 0")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	if parsed, ok := parseBool(getEnv(key, "")); ok {
		return parsed
	}
	return fallback
}

func parseBool(value string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}

// valueBool is a boolean flag that takes its value as a separate argument
// ("--header false") as well as inline ("--header=false").
type valueBool bool

func (b *valueBool) String() string {
	if b == nil {
		return "false"
	}
	return strconv.FormatBool(bool(*b))
}

func (b *valueBool) Set(value string) error {
	parsed, ok := parseBool(value)
	if !ok {
		return fmt.Errorf("invalid boolean %q", value)
	}
	*b = valueBool(parsed)
	return nil
}
