package cmd

// Config carries everything the service needs from the environment: the HTTP
// port, the commerce platform coordinates and credentials, and the optional
// redis cache and postgres audit database. RedisAddr and AuditDSN may be
// empty; the service runs without either.
type Config struct {
	HTTPPort string

	CtpAPIURL       string
	CtpAuthURL      string
	CtpProjectKey   string
	CtpClientID     string
	CtpClientSecret string
	CtpScopes       string
	StoreKey        string

	RedisAddr string
	AuditDSN  string
}
