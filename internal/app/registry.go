package app

import (
	"database/sql"
	"go-timetrack/internal/absence"
	"go-timetrack/internal/employee"
	"go-timetrack/internal/holiday"
	"go-timetrack/internal/messaging/kafka"
	"go-timetrack/internal/overtime"
	"go-timetrack/internal/timeentry"
	"go-timetrack/internal/vacation"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	timeEntryRepo := timeentry.NewRepository(gormDB)
	overtimeRepo := overtime.NewRepository(gormDB)
	vacationRepo := vacation.NewRepository(gormDB)
	absenceRepo := absence.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Holiday Provider ---
	holidayURL := os.Getenv("HOLIDAY_SERVICE_URL")
	if holidayURL == "" {
		holidayURL = "http://localhost:8090"
	}
	holidays := holiday.NewCachedProvider(
		holiday.NewHTTPProvider(holidayURL),
		rdb,
		24*time.Hour,
	)

	// --- Services ---
	unpaidReducesTarget := os.Getenv("UNPAID_REDUCES_TARGET") != "false"
	overtimeService := overtime.NewService(
		db, overtimeRepo, employeeRepo, timeEntryRepo, absenceRepo,
		holidays, unpaidReducesTarget,
	)
	vacationService := vacation.NewService(db, vacationRepo, employeeRepo, absenceRepo)
	employeeService := employee.NewService(db, employeeRepo, overtimeService, vacationService)
	timeEntryService := timeentry.NewService(db, timeEntryRepo, overtimeService)
	absenceService := absence.NewService(
		db, absenceRepo, employeeRepo,
		overtime.NewLedger(overtimeRepo),
		holidays, outboxRepo, overtimeService,
	)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	timeEntryHandler := timeentry.NewHandler(timeEntryService)
	overtimeHandler := overtime.NewHandler(overtimeService)
	vacationHandler := vacation.NewHandler(vacationService)
	absenceHandler := absence.NewHandler(absenceService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		employee.RegisterRoutes(api, employeeHandler)
		timeentry.RegisterRoutes(api, timeEntryHandler)
		overtime.RegisterRoutes(api, overtimeHandler)
		vacation.RegisterRoutes(api, vacationHandler)
		absence.RegisterRoutes(api, absenceHandler)
	}

	return nil
}
