package core

import (
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends
const (
	StoreMemory    = "memory"
	StorePostgres  = "postgres"
	StoreMongo     = "mongo"
	StoreFirestore = "firestore"

	FilesDisk   = "disk"
	FilesMemory = "memory"
	FilesRedis  = "redis"
	FilesNats   = "nats"
)

type (
	Config struct {
		Env          string
		Build        string
		AppName      string
		Debug        bool
		TestMode     bool
		SecretKey    string
		RollbarToken string
		RoomName     string

		// UserStore and NoteStore are one of the Store* backends.
		UserStore string
		NoteStore string

		Server    ServerConfig
		Database  DatabaseConfig
		Mongo     MongoConfig
		Firestore FirestoreConfig
		Files     FilesConfig
	}

	ServerConfig struct {
		Host                      string
		Address                   string
		DebugHost                 string
		DisableReqLogs            bool
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
		ShutdownTimeout           time.Duration
		MaxUploadSize             string
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	MongoConfig struct {
		URI      string
		Database string
	}

	FirestoreConfig struct {
		ProjectID       string
		CredentialsFile string
	}

	FilesConfig struct {
		Backend       string
		Dir           string
		RedisAddr     string
		RedisPassword string
		RedisDB       int
		NatsURL       string
		NatsBucket    string
	}
)

func (db DatabaseConfig) Address() string {
	return net.JoinHostPort(db.Host, db.Port)
}

// NewConfig reads the configuration for the current ENV from the environment and config/.env.<env>.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("build", "dev")
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Cram-Jam")
	v.SetDefault("secretKey", "k2s!w8e)qn$+31=dz&uopx9(h!r)#*c7(#yg4h^$cegm5tmv")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("roomName", "general")
	v.SetDefault("userStore", StoreMemory)
	v.SetDefault("noteStore", StoreMemory)

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.disableReqLogs", false)
	v.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("server.jwtRefreshExpirationDelta", 4*time.Hour)
	v.SetDefault("server.shutdownTimeout", 10*time.Second)
	v.SetDefault("server.maxUploadSize", "32M")

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "cramjam")
	v.SetDefault("database.user", "cramjam")
	v.SetDefault("database.password", "cramjam")
	v.SetDefault("database.adminUser", "")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", true)

	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "cramjam")

	v.SetDefault("firestore.projectID", "")
	v.SetDefault("firestore.credentialsFile", "serviceAccountKey.json")

	v.SetDefault("files.backend", FilesDisk)
	v.SetDefault("files.dir", "shared_files")
	v.SetDefault("files.redisAddr", "localhost:6379")
	v.SetDefault("files.redisPassword", "")
	v.SetDefault("files.redisDB", 0)
	v.SetDefault("files.natsURL", "nats://localhost:4222")
	v.SetDefault("files.natsBucket", "shared_files")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
		v.SetDefault("files.backend", FilesMemory)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:          env,
		Build:        v.GetString("build"),
		AppName:      v.GetString("appName"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		SecretKey:    v.GetString("secretKey"),
		RollbarToken: v.GetString("rollbarToken"),
		RoomName:     v.GetString("roomName"),
		UserStore:    strings.ToLower(v.GetString("userStore")),
		NoteStore:    strings.ToLower(v.GetString("noteStore")),
		Server: ServerConfig{
			Host:                      v.GetString("server.host"),
			Address:                   v.GetString("server.address"),
			DebugHost:                 v.GetString("server.debugHost"),
			DisableReqLogs:            v.GetBool("server.disableReqLogs"),
			JWTExpirationDelta:        v.GetDuration("server.jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("server.jwtRefreshExpirationDelta"),
			ShutdownTimeout:           v.GetDuration("server.shutdownTimeout"),
			MaxUploadSize:             v.GetString("server.maxUploadSize"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetString("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
		},
		Mongo: MongoConfig{
			URI:      v.GetString("mongo.uri"),
			Database: v.GetString("mongo.database"),
		},
		Firestore: FirestoreConfig{
			ProjectID:       v.GetString("firestore.projectID"),
			CredentialsFile: v.GetString("firestore.credentialsFile"),
		},
		Files: FilesConfig{
			Backend:       strings.ToLower(v.GetString("files.backend")),
			Dir:           v.GetString("files.dir"),
			RedisAddr:     v.GetString("files.redisAddr"),
			RedisPassword: v.GetString("files.redisPassword"),
			RedisDB:       v.GetInt("files.redisDB"),
			NatsURL:       v.GetString("files.natsURL"),
			NatsBucket:    v.GetString("files.natsBucket"),
		},
	}
}
