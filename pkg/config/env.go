package config

// EnvPrefix is handed to envconfig; every field carries its full variable
// name so the prefix only matters for unnamed fields.
const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv              = "STOREFRONT_APP_ENV"
	EnvPort                = "STOREFRONT_APP_PORT"
	EnvDBDSN               = "STOREFRONT_DB_DSN"
	EnvDBHost              = "STOREFRONT_DB_HOST"
	EnvDBUser              = "STOREFRONT_DB_USER"
	EnvDBName              = "STOREFRONT_DB_NAME"
	EnvRedisURL            = "STOREFRONT_REDIS_URL"
	EnvJWTSecret           = "STOREFRONT_JWT_SECRET"
	EnvJWTIssuer           = "STOREFRONT_JWT_ISSUER"
	EnvUseSQLite           = "STOREFRONT_USE_SQLITE"
	EnvSQLitePath          = "STOREFRONT_SQLITE_PATH"
	EnvCheckoutMaxAttempts = "STOREFRONT_CHECKOUT_MAX_ORDER_NUMBER_ATTEMPTS"
	EnvCheckoutLowStock    = "STOREFRONT_CHECKOUT_LOW_STOCK_THRESHOLD"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
