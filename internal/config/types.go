package config

// Config holds all configuration for the application.
type Config struct {
	DBName       string
	Port         string
	AdminPasskey string
	Turso        TursoConfig
}

// TursoConfig points at an optional remote primary. When PrimaryURL is
// empty the database is a local file.
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
