package appstate

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nursedesk/nursedesk/internal/domain/patientdir"
	"github.com/nursedesk/nursedesk/internal/domain/schedule"
	"github.com/nursedesk/nursedesk/internal/domain/session"
	"github.com/nursedesk/nursedesk/internal/platform/dataservice"
)

// notificationTTL is how long a notice stays visible.
const notificationTTL = 5 * time.Second

// App wires the domain services over one data-service client and keeps
// their held views in step with the session: sign-in primes them, sign-out
// and token expiry reset them.
type App struct {
	Sessions *session.Service
	Schedule *schedule.Service
	Patients *patientdir.Service
	Notices  *NotificationCenter

	log         zerolog.Logger
	unsubscribe func()
}

func New(client dataservice.Client, logger zerolog.Logger) *App {
	notices := NewNotificationCenter(notificationTTL)
	app := &App{
		Sessions: session.NewService(client, session.NewNurseRepository(client), logger),
		Schedule: schedule.NewService(
			schedule.NewAppointmentRepository(client),
			schedule.NewRecordRepository(client),
			logger,
		),
		Patients: patientdir.NewService(patientdir.NewPatientRepository(client), notices, logger),
		Notices:  notices,
		log:      logger,
	}
	app.unsubscribe = client.OnSessionChange(app.onSessionChange)
	return app
}

// Close detaches the app from session events.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}

func (a *App) onSessionChange(sess *dataservice.Session) {
	if sess == nil {
		a.Sessions.Reset()
		a.Schedule.Reset()
		a.Patients.Reset()
		a.Notices.Clear()
		a.log.Info().Msg("session ended, views reset")
		return
	}
	a.primeViews(sess.UserID)
}

// primeViews eagerly loads every dashboard view after sign-in. Each load is
// independent; one failing only costs its own section.
func (a *App) primeViews(nurseID uuid.UUID) {
	ctx := context.Background()
	if _, err := a.Schedule.RefreshUpcoming(ctx, nurseID); err != nil {
		a.log.Warn().Err(err).Msg("initial upcoming load failed")
	}
	if _, err := a.Schedule.RefreshPast(ctx, nurseID); err != nil {
		a.log.Warn().Err(err).Msg("initial past load failed")
	}
	if _, err := a.Schedule.RefreshCounters(ctx, nurseID); err != nil {
		a.log.Warn().Err(err).Msg("initial counters load failed")
	}
	if _, err := a.Patients.RefreshAll(ctx); err != nil {
		a.log.Warn().Err(err).Msg("initial patient directory load failed")
	}
}
