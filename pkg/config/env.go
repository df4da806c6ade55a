package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "SHOPCIRCLE"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvDBDSN  = "SHOPCIRCLE_DB_DSN"
	EnvDBHost = "SHOPCIRCLE_DB_HOST"
	EnvDBUser = "SHOPCIRCLE_DB_USER"
	EnvDBName = "SHOPCIRCLE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
