package cmd

import (
	"log/slog"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	httpadapter "pizzatools/internal/adapters/in/http"
	"pizzatools/internal/adapters/out/commercetools"
	"pizzatools/internal/adapters/out/postgres/auditrepo"
	redisadapter "pizzatools/internal/adapters/out/redis"
	"pizzatools/internal/core/application/usecases/commands"
	"pizzatools/internal/core/application/usecases/queries"
	"pizzatools/internal/core/ports"
	"pizzatools/internal/jobs"
)

// CompositionRoot wires the store adapters to the command and query handlers.
// The commerce platform client is always present; the redis catalog cache and
// the postgres audit log are attached only when configured.
type CompositionRoot struct {
	orders  ports.OrderStore
	drivers ports.DriverStore
	states  ports.StateStore
	audit   ports.AuditLog
	logger  *slog.Logger
}

func NewCompositionRoot(configs Config, logger *slog.Logger) (CompositionRoot, error) {
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	tokens := commercetools.NewTokenSource(
		httpClient,
		configs.CtpAuthURL,
		configs.CtpClientID,
		configs.CtpClientSecret,
		configs.CtpScopes,
	)
	client := commercetools.NewClient(httpClient, tokens, commercetools.Config{
		APIURL:     configs.CtpAPIURL,
		ProjectKey: configs.CtpProjectKey,
		StoreKey:   configs.StoreKey,
	})

	var states ports.StateStore = commercetools.NewStateAdapter(client, logger)
	if configs.RedisAddr != "" {
		redisClient := goredis.NewClient(&goredis.Options{Addr: configs.RedisAddr})
		states = redisadapter.NewStateCache(states, redisClient, redisadapter.DefaultCatalogTTL, logger)
	}

	var audit ports.AuditLog = ports.NoopAuditLog{}
	if configs.AuditDSN != "" {
		db, err := gorm.Open(postgres.Open(configs.AuditDSN), &gorm.Config{})
		if err != nil {
			return CompositionRoot{}, err
		}
		if err := auditrepo.Migrate(db); err != nil {
			return CompositionRoot{}, err
		}
		audit = auditrepo.NewGormAuditLog(db, logger)
	}

	return CompositionRoot{
		orders:  commercetools.NewOrderAdapter(client),
		drivers: commercetools.NewDriverAdapter(client),
		states:  states,
		audit:   audit,
		logger:  logger,
	}, nil
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	return commands.NewTransitionOrderCommandHandler(c.orders, c.states)
}

func (c *CompositionRoot) CreateDispatchOrdersCommandHandler() commands.DispatchOrdersCommandHandler {
	return commands.NewDispatchOrdersCommandHandler(c.orders, c.drivers, c.states, c.audit)
}

func (c *CompositionRoot) CreateReturnDriverCommandHandler() commands.ReturnDriverCommandHandler {
	return commands.NewReturnDriverCommandHandler(c.orders, c.drivers, c.states, c.audit)
}

func (c *CompositionRoot) CreateGetBoardOrdersQueryHandler() queries.GetBoardOrdersQueryHandler {
	return queries.NewGetBoardOrdersQueryHandler(c.orders, c.states)
}

func (c *CompositionRoot) CreateGetDriversQueryHandler() queries.GetDriversQueryHandler {
	return queries.NewGetDriversQueryHandler(c.drivers, c.orders, c.states)
}

func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(
		c.CreateTransitionOrderCommandHandler(),
		c.CreateDispatchOrdersCommandHandler(),
		c.CreateReturnDriverCommandHandler(),
		c.CreateGetBoardOrdersQueryHandler(),
		c.CreateGetDriversQueryHandler(),
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateGetBoardOrdersQueryHandler(), c.logger)
}
