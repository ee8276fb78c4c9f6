// PestGuard - pest control scheduling service
// Optimized for shared hosting with limited resources
package main

import (
	"context"
	"os"
	"runtime"
	"time"

	"pestguard/internal/config"
	"pestguard/internal/domain"
	"pestguard/internal/domain/notifications"
	"pestguard/internal/repository/sqlite"
	"pestguard/internal/scheduling"
	"pestguard/internal/server"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Limit CPU usage for shared hosting
	runtime.GOMAXPROCS(1)

	cfg, err := config.Load("config.json")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := newLogger(cfg.Debug)
	logger.Info().Str("business", cfg.Business.Name).Bool("debug", cfg.Debug).Msg("starting")

	db, err := sqlite.New(cfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}
	logger.Info().Str("path", cfg.GetDatabasePath()).Msg("database initialized")

	kv := sqlite.NewStorageRepo(db)
	dispatch := notifications.NewLogDispatcher(logger)

	ctx := context.Background()
	appointments := scheduling.NewAppointmentStore(kv, dispatch, logger)
	appointments.Load(ctx)
	requests := scheduling.NewRequestStore(kv, dispatch, logger)
	requests.Load(ctx)
	converter := scheduling.NewConverter(appointments, requests, dispatch)

	// Sample data for local dashboard development
	if os.Getenv("SEED_DATA") == "true" && len(appointments.All()) == 0 {
		seedSampleData(ctx, logger, appointments, requests)
	}

	srv := server.New(cfg, logger, appointments, requests, converter)

	logger.Info().Str("addr", cfg.Address()).Msg("server listening")
	if err := srv.Run(); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}

// newLogger returns a console logger in debug mode, JSON otherwise
func newLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if debug {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func seedSampleData(ctx context.Context, logger zerolog.Logger, appointments *scheduling.AppointmentStore, requests *scheduling.RequestStore) {
	logger.Info().Msg("creating sample data")

	today := time.Now().Truncate(24 * time.Hour)

	sampleAppointments := []domain.Appointment{
		{
			ClientName:    "Maria Santos",
			ClientEmail:   "maria@example.com",
			ClientPhone:   "555-0101",
			ServiceType:   "General Pest Inspection",
			Date:          today,
			Time:          "09:00",
			Duration:      120,
			Status:        domain.AppointmentStatusConfirmed,
			Address:       "42 Oak Street",
			EstimatedCost: 150,
		},
		{
			ClientName:    "James Wheeler",
			ClientEmail:   "jwheeler@example.com",
			ClientPhone:   "555-0102",
			ServiceType:   "Termite Treatment",
			Date:          today.AddDate(0, 0, 1),
			Time:          "14:00",
			Duration:      180,
			Status:        domain.AppointmentStatusScheduled,
			Address:       "7 Birch Lane",
			EstimatedCost: 450,
		},
		{
			ClientName:    "Priya Nair",
			ClientEmail:   "priya@example.com",
			ClientPhone:   "555-0103",
			ServiceType:   "Rodent Control",
			Date:          today.AddDate(0, 0, 3),
			Time:          "11:00",
			Duration:      120,
			Status:        domain.AppointmentStatusScheduled,
			Address:       "19 Cedar Court",
			EstimatedCost: 275,
		},
	}
	for _, a := range sampleAppointments {
		appointments.Add(ctx, a)
	}

	sampleRequests := []domain.AppointmentRequest{
		{
			ClientName:    "Tom Herrera",
			ClientEmail:   "tom@example.com",
			ClientPhone:   "555-0201",
			ServiceType:   "Ant Treatment",
			PreferredDate: today.AddDate(0, 0, 2),
			PreferredTime: "10:00",
			Address:       "88 Maple Drive",
			Urgency:       domain.UrgencyStandard,
		},
		{
			ClientName:          "Alice Kim",
			ClientEmail:         "akim@example.com",
			ClientPhone:         "555-0202",
			ServiceType:         "Wasp Nest Removal",
			PreferredDate:       today.AddDate(0, 0, 1),
			PreferredTime:       "08:00",
			Address:             "3 Pine Hill Road",
			Urgency:             domain.UrgencyUrgent,
			SpecialInstructions: "nest above the back door",
		},
	}
	for _, r := range sampleRequests {
		requests.Add(ctx, r)
	}

	logger.Info().Msg("sample data created")
}
