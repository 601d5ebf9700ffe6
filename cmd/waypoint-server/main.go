package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	httpAdapter "github.com/waypointhq/waypoint-go/internal/adapters/http"
	"github.com/waypointhq/waypoint-go/internal/adapters/metrics"
	"github.com/waypointhq/waypoint-go/internal/adapters/notify"
	"github.com/waypointhq/waypoint-go/internal/adapters/osrm"
	"github.com/waypointhq/waypoint-go/internal/adapters/persistence"
	"github.com/waypointhq/waypoint-go/internal/application/common"
	executionCommands "github.com/waypointhq/waypoint-go/internal/application/execution/commands"
	executionQueries "github.com/waypointhq/waypoint-go/internal/application/execution/queries"
	executionServices "github.com/waypointhq/waypoint-go/internal/application/execution/services"
	historyQueries "github.com/waypointhq/waypoint-go/internal/application/history/queries"
	historyServices "github.com/waypointhq/waypoint-go/internal/application/history/services"
	planningCommands "github.com/waypointhq/waypoint-go/internal/application/planning/commands"
	planningServices "github.com/waypointhq/waypoint-go/internal/application/planning/services"
	"github.com/waypointhq/waypoint-go/internal/domain/assignment"
	"github.com/waypointhq/waypoint-go/internal/domain/planning"
	"github.com/waypointhq/waypoint-go/internal/domain/shared"
	"github.com/waypointhq/waypoint-go/internal/infrastructure/config"
	"github.com/waypointhq/waypoint-go/internal/infrastructure/database"
	"github.com/waypointhq/waypoint-go/internal/infrastructure/logging"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "waypoint-server",
		Short: "Waypoint - last-mile route planning and execution engine",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newMigrateCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.MustLoadConfig(configPath)
			log := logging.NewLogger(&cfg.Logging)

			db, err := database.NewConnection(&cfg.Database)
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}
			if err := database.AutoMigrate(db); err != nil {
				return fmt.Errorf("migrating database: %w", err)
			}

			server := buildServer(cfg, db, log)

			errCh := make(chan error, 1)
			go func() { errCh <- server.Run() }()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				log.WithField("signal", sig.String()).Info("shutting down")
				ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
				defer cancel()
				return server.Shutdown(ctx)
			}
		},
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run schema migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.MustLoadConfig(configPath)
			db, err := database.NewConnection(&cfg.Database)
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}
			return database.AutoMigrate(db)
		},
	}
}

// buildServer wires repositories, services and handlers into the REST server
func buildServer(cfg *config.Config, db *gorm.DB, log *logrus.Logger) *httpAdapter.Server {
	clock := shared.NewRealClock()

	// Adapters
	parcels := persistence.NewGormParcelRepository(db)
	trucks := persistence.NewGormTruckRepository(db)
	offices := persistence.NewGormOfficeRepository(db)
	drivers := persistence.NewGormDriverRepository(db)
	routes := persistence.NewGormRouteRepository(db)
	histories := persistence.NewGormHistoryRepository(db)
	officeDeliveries := persistence.NewGormOfficeDeliveryRepository(db)
	tx := persistence.NewGormTransactor(db)

	planner := osrm.NewClient(
		cfg.Routing.BaseURL,
		cfg.Routing.Profile,
		cfg.Routing.Timeout,
		cfg.Routing.RateLimit.Requests,
		cfg.Routing.RateLimit.Burst,
		log,
	)
	notifier := notify.NewSMTPNotifier(cfg.Notify, log)

	// Services
	depot := assignment.DepotSnapshot(cfg.Depot.Address, cfg.Depot.Latitude, cfg.Depot.Longitude)
	assembler := planningServices.NewPlanAssembler(planner, depot, clock, log)
	transitioner := executionServices.NewParcelTransitioner(parcels, routes, tx, log)
	materializer := historyServices.NewMaterializer(parcels, histories, clock, log)
	supervisor := executionServices.NewJourneySupervisor(parcels, trucks, routes, materializer, tx, log)
	dispatcher := executionServices.NewOfficeDispatcher(
		offices, parcels, routes, officeDeliveries, transitioner, tx, planner, notifier, clock, log,
	)
	clusterer := planning.NewKMeansClusterer(cfg.Planning.ClusterSeed)
	allocator := planning.NewTruckAllocator()

	// Mediator
	m := common.NewMediator()
	var httpMetrics *metrics.HTTPCollector
	if cfg.Metrics.Enabled {
		httpMetrics = metrics.NewHTTPCollector()
		m.Use(metrics.MediatorMiddleware(metrics.NewCommandMetricsCollector()))
	}

	mustRegister := func(err error) {
		if err != nil {
			log.WithError(err).Fatal("mediator registration failed")
		}
	}
	mustRegister(common.RegisterHandler[*planningCommands.PlanRoutesCommand](m,
		planningCommands.NewPlanRoutesHandler(parcels, drivers, trucks, clusterer, allocator, assembler, supervisor, tx, clock, log)))
	mustRegister(common.RegisterHandler[*planningCommands.AssignRouteCommand](m,
		planningCommands.NewAssignRouteHandler(supervisor, clock, log)))
	mustRegister(common.RegisterHandler[*executionCommands.MarkDeliveredCommand](m,
		executionCommands.NewMarkDeliveredHandler(transitioner, notifier, log)))
	mustRegister(common.RegisterHandler[*executionCommands.MarkUndeliveredCommand](m,
		executionCommands.NewMarkUndeliveredHandler(transitioner, dispatcher, log)))
	mustRegister(common.RegisterHandler[*executionCommands.FinishJourneyCommand](m,
		executionCommands.NewFinishJourneyHandler(supervisor)))
	mustRegister(common.RegisterHandler[*executionCommands.RecalculateRouteCommand](m,
		executionCommands.NewRecalculateRouteHandler(routes, planner, log)))
	mustRegister(common.RegisterHandler[*executionCommands.ReturnRouteCommand](m,
		executionCommands.NewReturnRouteHandler(supervisor, planner, log)))
	mustRegister(common.RegisterHandler[*executionCommands.RecordOfficeDeliveryCommand](m,
		executionCommands.NewRecordOfficeDeliveryHandler(dispatcher)))
	mustRegister(common.RegisterHandler[*executionCommands.DropRoutesCommand](m,
		executionCommands.NewDropRoutesHandler(routes, parcels, trucks, tx, log)))
	mustRegister(common.RegisterHandler[*executionQueries.DriverStatusQuery](m,
		executionQueries.NewDriverStatusHandler(routes, clock)))
	mustRegister(common.RegisterHandler[*executionQueries.DriverRouteQuery](m,
		executionQueries.NewDriverRouteHandler(routes)))
	mustRegister(common.RegisterHandler[*executionQueries.ActiveRoutesQuery](m,
		executionQueries.NewActiveRoutesHandler(routes, clock)))
	mustRegister(common.RegisterHandler[*executionQueries.SuggestOfficeRouteQuery](m,
		executionQueries.NewSuggestOfficeRouteHandler(dispatcher)))
	mustRegister(common.RegisterHandler[*executionQueries.OptimizeOfficeRouteQuery](m,
		executionQueries.NewOptimizeOfficeRouteHandler(dispatcher)))
	mustRegister(common.RegisterHandler[*historyQueries.RecentHistoryQuery](m,
		historyQueries.NewRecentHistoryHandler(histories, parcels, clock)))
	mustRegister(common.RegisterHandler[*historyQueries.HistoryDetailQuery](m,
		historyQueries.NewHistoryDetailHandler(histories)))
	mustRegister(common.RegisterHandler[*historyQueries.StatisticsQuery](m,
		historyQueries.NewStatisticsHandler(parcels, drivers, trucks, routes, clock)))

	return httpAdapter.NewServer(cfg.Server, cfg.Metrics, m, httpMetrics, log)
}
