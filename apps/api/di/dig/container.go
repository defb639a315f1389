package dig_container

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/actios/apps/api/echo"
	"github.com/trezcool/actios/core"
	"github.com/trezcool/actios/core/attendance"
	"github.com/trezcool/actios/core/catalog"
	"github.com/trezcool/actios/core/certificate"
	"github.com/trezcool/actios/core/enrollment"
	"github.com/trezcool/actios/core/evaluation"
	"github.com/trezcool/actios/core/notification"
	emailsvc "github.com/trezcool/actios/services/email"
	i18nsvc "github.com/trezcool/actios/services/i18n"
	logsvc "github.com/trezcool/actios/services/logger"
	"github.com/trezcool/actios/storage/database"
	boiledrepos "github.com/trezcool/actios/storage/database/sqlboiler"
	sqlxrepos "github.com/trezcool/actios/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

type serverParams struct {
	dig.In

	Conf       *core.Config
	Logger     core.Logger
	Validate   *validator.Validate
	Translator ut.Translator

	EnrollmentSvc  *enrollment.Service
	AttendanceSvc  *attendance.Service
	EvaluationSvc  *evaluation.Service
	CertificateSvc *certificate.Service
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDB(conf *core.Config, loggerParam DBLoggerParam) (*sql.DB, core.DB) {
	setUp := func() (*sql.DB, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(db); err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db, db
}

func newCatalogStore(db core.DB) catalog.Store {
	return boiledrepos.NewCatalogStore(db)
}

func newEnrollmentRepo(db *sqlx.DB) enrollment.Repository {
	return sqlxrepos.NewEnrollmentRepository(db)
}

type participationRepos struct {
	dig.Out

	Repo   attendance.Repository
	Lookup evaluation.AttendanceLookup
}

func newParticipationRepos(db *sqlx.DB) participationRepos {
	repo := sqlxrepos.NewParticipationRepository(db)
	return participationRepos{Repo: repo, Lookup: repo}
}

func newEvaluationRepo(db *sqlx.DB) evaluation.Repository {
	return sqlxrepos.NewEvaluationRepository(db)
}

func newCertificateRepo(db *sqlx.DB) certificate.Repository {
	return sqlxrepos.NewCertificateRepository(db)
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newMessageTranslator(conf *core.Config, logger core.Logger) (notification.Translator, error) {
	return i18nsvc.NewTranslator(conf, logger)
}

type notifiers struct {
	dig.Out

	Enrollment  enrollment.Notifier
	Certificate certificate.Notifier
}

func newNotifiers(mailSvc core.EmailService, tr notification.Translator, conf *core.Config) notifiers {
	n := notification.NewNotifier(mailSvc, tr, conf)
	return notifiers{Enrollment: n, Certificate: n}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	return validate
}

func newServer(p serverParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:           p.Conf,
		Logger:         p.Logger,
		Validate:       p.Validate,
		Translator:     p.Translator,
		EnrollmentSvc:  p.EnrollmentSvc,
		AttendanceSvc:  p.AttendanceSvc,
		EvaluationSvc:  p.EvaluationSvc,
		CertificateSvc: p.CertificateSvc,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newDB))
	must(c.Provide(database.NewSqlx))
	provideApp(c)

	return c
}

// provideApp registers everything built on top of the config and the database.
func provideApp(c *dig.Container) {
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))

	// repositories
	must(c.Provide(newCatalogStore))
	must(c.Provide(newEnrollmentRepo))
	must(c.Provide(newParticipationRepos))
	must(c.Provide(newEvaluationRepo))
	must(c.Provide(newCertificateRepo))

	// services
	must(c.Provide(newEmailService))
	must(c.Provide(newMessageTranslator))
	must(c.Provide(newNotifiers))
	must(c.Provide(newTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(enrollment.NewService))
	must(c.Provide(attendance.NewService))
	must(c.Provide(evaluation.NewService))
	must(c.Provide(certificate.NewService))
	must(c.Provide(newServer))
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
