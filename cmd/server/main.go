package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arima15/Employee-management/internal/config"
	"github.com/arima15/Employee-management/internal/db"
	"github.com/arima15/Employee-management/internal/httpapi"
	"github.com/arima15/Employee-management/internal/models"
	"github.com/arima15/Employee-management/internal/repository"
	"github.com/arima15/Employee-management/internal/service"
)

var (
	flagConfigDir string
	flagPort      string
	flagDataDir   string
	flagDriver    string
)

var rootCmd = &cobra.Command{
	Use:          "employee-server",
	Short:        "HTTP backend for managing employees, departments and projects",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&flagConfigDir, "config-dir", "", "directory containing config.yaml (default: working directory)")
	rootCmd.Flags().StringVar(&flagPort, "port", "", "listen port (overrides config)")
	rootCmd.Flags().StringVar(&flagDataDir, "data-dir", "", "data directory for the file backend (overrides config)")
	rootCmd.Flags().StringVar(&flagDriver, "driver", "", "storage driver: file or postgres (overrides config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func healthcheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfigDir)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if flagPort != "" {
		cfg.Port = flagPort
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagDriver != "" {
		cfg.StorageDriver = flagDriver
	}

	var zapLogger *zap.Logger
	if cfg.Development {
		zapLogger, err = zap.NewDevelopment()
	} else {
		zapLogger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("logger error: %w", err)
	}
	defer func() { _ = zapLogger.Sync() }()
	logger := zapLogger.Sugar()

	employeeRepo, departmentRepo, projectRepo, err := buildRepositories(cfg, logger)
	if err != nil {
		return err
	}

	employeeService := service.NewEmployeeService(employeeRepo, departmentRepo, projectRepo, cfg.SearchCaseSensitive, logger)
	departmentService := service.NewDepartmentService(departmentRepo, employeeRepo, logger)
	projectService := service.NewProjectService(projectRepo, employeeRepo, logger)
	handler := httpapi.NewHandler(employeeService, departmentService, projectService, logger)

	mux := http.NewServeMux()
	mux.Handle("/employees", handler)
	mux.Handle("/employees/", handler)
	mux.Handle("/departments", handler)
	mux.Handle("/departments/", handler)
	mux.Handle("/projects", handler)
	mux.Handle("/projects/", handler)
	mux.HandleFunc("/healthcheck", healthcheck)
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpapi.Metrics(httpapi.RequestLogging(logger, mux)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("starting server", "port", cfg.Port, "driver", cfg.StorageDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func buildRepositories(cfg config.Config, logger *zap.SugaredLogger) (
	service.EmployeeRepository,
	service.DepartmentRepository,
	service.ProjectRepository,
	error,
) {
	switch cfg.StorageDriver {
	case config.DriverFile:
		employees := repository.NewFileStore[models.Employee](filepath.Join(cfg.DataDir, "employees.json"), logger)
		departments := repository.NewFileStore[models.Department](filepath.Join(cfg.DataDir, "departments.json"), logger)
		projects := repository.NewFileStore[models.Project](filepath.Join(cfg.DataDir, "projects.json"), logger)
		return employees, departments, projects, nil

	case config.DriverPostgres:
		database, err := db.Connect(cfg)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("database connection error: %w", err)
		}
		employees := repository.NewGormStore[models.Employee](database)
		departments := repository.NewGormStore[models.Department](database)
		projects := repository.NewGormStore[models.Project](database)
		return employees, departments, projects, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
