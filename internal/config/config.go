package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StoreMongo  = "mongo"
	StoreMySQL  = "mysql"
	StoreSQLite = "sqlite"

	FileStoreLocal = "local"
	FileStoreMinio = "minio"

	PolicyPermitAll = "permit_all"
	PolicyWorkflow  = "workflow"
)

type Config struct {
	AppPort  string
	LogLevel string

	StoreDriver string

	MongoURL string
	MongoDB  string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	SQLitePath string

	FileStore      string
	UploadDir      string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	// empty RedisAddr disables the idempotency middleware
	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	StatusPolicy     string
	MaxUploadMB      int
	CORSAllowOrigins []string
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getbool(k string, d bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Load reads the environment, after merging in a .env file from the working
// directory when one exists. Variables already set win over the file.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppPort:  getenv("APP_PORT", "8001"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		StoreDriver: strings.ToLower(getenv("STORE_DRIVER", StoreMongo)),

		MongoURL: getenv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:  getenv("MONGO_DB", "kamikaya_db"),

		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "kamikaya"),
		MySQLUser: getenv("MYSQL_USER", "kamikaya"),
		MySQLPass: getenv("MYSQL_PASS", "kamikaya"),

		SQLitePath: getenv("SQLITE_PATH", "kamikaya.db"),

		FileStore:      strings.ToLower(getenv("FILE_STORE", FileStoreLocal)),
		UploadDir:      getenv("UPLOAD_DIR", "uploads"),
		MinioEndpoint:  getenv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getenv("MINIO_BUCKET", "kamikaya-documents"),
		MinioUseSSL:    getbool("MINIO_USE_SSL", false),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		RedisDB:   getint("REDIS_DB", 0),

		IdempTTLSecs: getint("IDEMPOTENCY_TTL_SECONDS", 300),

		StatusPolicy:     strings.ToLower(getenv("STATUS_POLICY", PolicyPermitAll)),
		MaxUploadMB:      getint("MAX_UPLOAD_MB", 10),
		CORSAllowOrigins: splitList(getenv("CORS_ALLOW_ORIGINS", "*")),
	}
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.StoreDriver {
	case StoreMongo:
		if c.MongoURL == "" || c.MongoDB == "" {
			return errors.New("missing Mongo config (MONGO_URL/MONGO_DB)")
		}
	case StoreMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case StoreSQLite:
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q (want mongo, mysql or sqlite)", c.StoreDriver)
	}
	switch c.FileStore {
	case FileStoreLocal:
		if c.UploadDir == "" {
			return errors.New("missing UPLOAD_DIR")
		}
	case FileStoreMinio:
		if c.MinioEndpoint == "" || c.MinioBucket == "" {
			return errors.New("missing MinIO config (MINIO_ENDPOINT/MINIO_BUCKET)")
		}
	default:
		return fmt.Errorf("invalid FILE_STORE %q (want local or minio)", c.FileStore)
	}
	switch c.StatusPolicy {
	case PolicyPermitAll, PolicyWorkflow:
	default:
		return fmt.Errorf("invalid STATUS_POLICY %q (want permit_all or workflow)", c.StatusPolicy)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("invalid MAX_UPLOAD_MB %d", c.MaxUploadMB)
	}
	if c.IdempTTLSecs <= 0 {
		return fmt.Errorf("invalid IDEMPOTENCY_TTL_SECONDS %d", c.IdempTTLSecs)
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

// BodyLimit renders MaxUploadMB in echo's BodyLimit notation.
func (c *Config) BodyLimit() string { return strconv.Itoa(c.MaxUploadMB) + "M" }
