package main

import (
	"log"
	"os"

	echoapi "github.com/alyusr/institute/apps/api/echo"
	"github.com/alyusr/institute/core"
	"github.com/alyusr/institute/core/admission"
	"github.com/alyusr/institute/core/course"
	"github.com/alyusr/institute/core/form"
	"github.com/alyusr/institute/core/notification"
	"github.com/alyusr/institute/core/review"
	"github.com/alyusr/institute/core/session"
	"github.com/alyusr/institute/core/student"
	"github.com/alyusr/institute/core/user"
	emailsvc "github.com/alyusr/institute/services/email"
	logsvc "github.com/alyusr/institute/services/logger"
	inmemdb "github.com/alyusr/institute/storage/database/inmem"
	"github.com/alyusr/institute/storage/database/postgres"
	"github.com/alyusr/institute/storage/database/redisdb"
)

type repositories struct {
	user         user.Repository
	form         form.Repository
	review       review.Repository
	course       course.Repository
	student      student.Repository
	notification notification.Repository
}

func main() {
	conf := core.LoadConfig()

	std := log.New(os.Stdout, conf.AppName+" : ", log.LstdFlags|log.Lshortfile)

	var logger core.Logger
	if conf.Debug || conf.RollbarToken == "" {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}

	repos, err := openRepositories(conf)
	errAndDie(err)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	validate, translator := core.NewValidator()
	user.RegisterValidators(validate, translator)

	usrSvc := user.NewService(repos.user, mailSvc, conf)
	reviewSvc := review.NewService(repos.review)
	formSvc := form.NewService(repos.form, reviewSvc, mailSvc, conf)
	pipeline := form.NewPipeline(formSvc, validate, translator, conf)
	admissionSvc := admission.NewService(repos.form)
	courseSvc := course.NewService(repos.course)
	studentSvc := student.NewService(repos.student)
	notifSvc := notification.NewService(repos.notification)

	creds := session.Chain{
		session.NewStaticProvider(session.DefaultStaticAccounts),
		session.NewStoreProvider(repos.user),
	}

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Address:         conf.Server.Address(),
			Conf:            conf,
			Logger:          logger,
			Validate:        validate,
			Translator:      translator,
			Creds:           creds,
			UserSvc:         usrSvc,
			Pipeline:        pipeline,
			FormSvc:         formSvc,
			AdmissionSvc:    admissionSvc,
			ReviewSvc:       reviewSvc,
			CourseSvc:       courseSvc,
			StudentSvc:      studentSvc,
			NotificationSvc: notifSvc,
		},
	)
	app.Start()
}

// openRepositories selects the storage engine from the configuration.
// The postgres engine covers users and courses; the remaining collections
// stay on the in-memory store.
func openRepositories(conf *core.Config) (*repositories, error) {
	mem, err := inmemdb.Open()
	if err != nil {
		return nil, err
	}

	repos := &repositories{
		user:         inmemdb.NewUserRepository(mem),
		form:         inmemdb.NewFormRepository(mem),
		review:       inmemdb.NewReviewRepository(mem),
		course:       inmemdb.NewCourseRepository(mem),
		student:      inmemdb.NewStudentRepository(mem),
		notification: inmemdb.NewNotificationRepository(mem),
	}

	switch conf.Database.Engine {
	case "memory":
	case "redis":
		client, err := redisdb.Open(conf)
		if err != nil {
			return nil, err
		}
		repos.user = redisdb.NewUserRepository(client)
		repos.form = redisdb.NewFormRepository(client)
		repos.review = redisdb.NewReviewRepository(client)
		repos.course = redisdb.NewCourseRepository(client)
		repos.student = redisdb.NewStudentRepository(client)
		repos.notification = redisdb.NewNotificationRepository(client)
	case "postgres":
		db, err := postgres.Open(conf)
		if err != nil {
			return nil, err
		}
		if err = postgres.Ping(db); err != nil {
			return nil, err
		}
		if err = postgres.CreateSchema(db); err != nil {
			return nil, err
		}
		repos.user = postgres.NewUserRepository(db)
		repos.course = postgres.NewCourseRepository(db)
	default:
		log.Printf("unknown database engine %q, using memory", conf.Database.Engine)
	}
	return repos, nil
}

func errAndDie(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
