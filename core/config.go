package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host            string
		Address         string
		DebugHost       string
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}

	DatabaseConfig struct {
		// Driver is the database/sql driver name: "postgres" (lib/pq) or "pgx".
		Driver        string
		Host          string
		Port          int
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	LifecycleConfig struct {
		CertificateValidityYears     int
		CodeMaxAttempts              int
		EnrollmentNumberAttempts     int
		EvaluationRequiresAttendance bool
	}

	Config struct {
		Env          string
		AppName      string
		Build        string
		Debug        bool
		TestMode     bool
		WorkDir      string
		Locale       string
		Location     *time.Location
		RollbarToken string

		SendgridApiKey   string
		defaultFromEmail string

		Server    ServerConfig
		Database  DatabaseConfig
		Lifecycle LifecycleConfig
	}
)

func (db DatabaseConfig) Address() string {
	return net.JoinHostPort(db.Host, strconv.Itoa(db.Port))
}

func (conf *Config) DefaultFromEmail() mail.Address {
	addr, err := mail.ParseAddress(conf.defaultFromEmail)
	if err != nil {
		return mail.Address{Name: conf.AppName, Address: "noreply@localhost"}
	}
	return *addr
}

func setDefaults(v *viper.Viper) {
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Actios")
	v.SetDefault("build", "develop")
	v.SetDefault("defaultFromEmail", "Actios <noreply@localhost>")
	v.SetDefault("locale", "en")
	v.SetDefault("timezone", "UTC")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")

	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverAddress", ":8000")
	v.SetDefault("serverDebugHost", ":4000")
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("serverDisableReqLogs", false)

	v.SetDefault("dbDriver", "postgres")
	v.SetDefault("dbHost", "localhost")
	v.SetDefault("dbPort", 5432)
	v.SetDefault("dbName", "actios")
	v.SetDefault("dbUser", "actios")
	v.SetDefault("dbPassword", "actios")
	v.SetDefault("dbAdminUser", "postgres")
	v.SetDefault("dbAdminPassword", "postgres")
	v.SetDefault("dbDisableTLS", true)

	v.SetDefault("certificateValidityYears", 5)
	v.SetDefault("codeMaxAttempts", 10)
	v.SetDefault("enrollmentNumberAttempts", 5)
	v.SetDefault("evaluationRequiresAttendance", true)
}

// NewConfig loads the configuration of the environment named by $ENV:
// DEV (local; default), TEST, QA or PROD.
// Values are read from `<ENV>_<KEY>` variables, optionally loaded from config/.env.<env>.
func NewConfig() *Config {
	v := viper.New()
	setDefaults(v)

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
		v.SetDefault("serverDisableReqLogs", true)
	}
	v.SetEnvPrefix(env)

	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	loc, err := time.LoadLocation(v.GetString("timezone"))
	if err != nil {
		log.Fatalf("config.LoadLocation(%s): %v", v.GetString("timezone"), err)
	}

	return &Config{
		Env:              env,
		AppName:          v.GetString("appName"),
		Build:            v.GetString("build"),
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		WorkDir:          wd,
		Locale:           v.GetString("locale"),
		Location:         loc,
		RollbarToken:     v.GetString("rollbarToken"),
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		defaultFromEmail: v.GetString("defaultFromEmail"),
		Server: ServerConfig{
			Host:            v.GetString("serverHost"),
			Address:         v.GetString("serverAddress"),
			DebugHost:       v.GetString("serverDebugHost"),
			ShutdownTimeout: v.GetDuration("serverShutdownTimeout"),
			DisableReqLogs:  v.GetBool("serverDisableReqLogs"),
		},
		Database: DatabaseConfig{
			Driver:        v.GetString("dbDriver"),
			Host:          v.GetString("dbHost"),
			Port:          v.GetInt("dbPort"),
			Name:          v.GetString("dbName"),
			User:          v.GetString("dbUser"),
			Password:      v.GetString("dbPassword"),
			AdminUser:     v.GetString("dbAdminUser"),
			AdminPassword: v.GetString("dbAdminPassword"),
			DisableTLS:    v.GetBool("dbDisableTLS"),
		},
		Lifecycle: LifecycleConfig{
			CertificateValidityYears:     v.GetInt("certificateValidityYears"),
			CodeMaxAttempts:              v.GetInt("codeMaxAttempts"),
			EnrollmentNumberAttempts:     v.GetInt("enrollmentNumberAttempts"),
			EvaluationRequiresAttendance: v.GetBool("evaluationRequiresAttendance"),
		},
	}
}

// NewTestConfig returns the defaults used by tests; it never reads the environment.
func NewTestConfig() *Config {
	v := viper.New()
	setDefaults(v)
	return &Config{
		Env:              "TEST",
		AppName:          v.GetString("appName"),
		Build:            "test",
		TestMode:         true,
		Locale:           v.GetString("locale"),
		Location:         time.UTC,
		defaultFromEmail: v.GetString("defaultFromEmail"),
		Server: ServerConfig{
			DisableReqLogs:  true,
			ShutdownTimeout: v.GetDuration("serverShutdownTimeout"),
		},
		Lifecycle: LifecycleConfig{
			CertificateValidityYears:     v.GetInt("certificateValidityYears"),
			CodeMaxAttempts:              v.GetInt("codeMaxAttempts"),
			EnrollmentNumberAttempts:     v.GetInt("enrollmentNumberAttempts"),
			EvaluationRequiresAttendance: v.GetBool("evaluationRequiresAttendance"),
		},
	}
}
