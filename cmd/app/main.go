package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"pizzatools/cmd"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	app, err := cmd.NewCompositionRoot(configs, logger)
	if err != nil {
		log.Fatalf("Error building application: %v", err)
	}

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:        goDotEnvVariable("HTTP_PORT"),
		CtpAPIURL:       goDotEnvVariable("CTP_API_URL"),
		CtpAuthURL:      goDotEnvVariable("CTP_AUTH_URL"),
		CtpProjectKey:   goDotEnvVariable("CTP_PROJECT_KEY"),
		CtpClientID:     goDotEnvVariable("CTP_CLIENT_ID"),
		CtpClientSecret: goDotEnvVariable("CTP_CLIENT_SECRET"),
		CtpScopes:       goDotEnvVariable("CTP_SCOPES"),
		StoreKey:        goDotEnvVariable("STORE_KEY"),
		RedisAddr:       goDotEnvVariable("REDIS_ADDR"),
		AuditDSN:        goDotEnvVariable("AUDIT_DSN"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	app.CreateHTTPServer().RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
