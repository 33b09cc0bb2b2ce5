package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/dig"

	"github.com/Nolexnol/CourseRegistration-System/core"
	"github.com/Nolexnol/CourseRegistration-System/core/audit"
	"github.com/Nolexnol/CourseRegistration-System/core/course"
	"github.com/Nolexnol/CourseRegistration-System/core/enrollment"
	"github.com/Nolexnol/CourseRegistration-System/core/student"
	logsvc "github.com/Nolexnol/CourseRegistration-System/services/logger"
	"github.com/Nolexnol/CourseRegistration-System/storage/csvdb"
)

const logFileName = "registrar.log"

// options are the global command line flags.
type options struct {
	dataDir string
	verbose bool
	tui     bool // logs go to a file in the data directory
}

// app holds what the commands need.
type app struct {
	conf        *core.Config
	logger      core.Logger
	store       core.Store
	dataFiles   []string
	students    *student.Service
	courses     *course.Service
	enrollments *enrollment.Service
	history     *audit.Service
	closeFunc   func()
}

func (a *app) close() {
	if a.closeFunc != nil {
		a.closeFunc()
	}
}

type appFactory func(ctx context.Context, opts options) (*app, error)

func newConfig(opts options) (*core.Config, error) {
	conf, err := core.NewConfig()
	if err != nil {
		return nil, err
	}
	if opts.dataDir != "" {
		conf.DataDir = opts.dataDir
	}
	if opts.verbose {
		conf.Log.Level = "debug"
	}
	return conf, nil
}

func newLogger(conf *core.Config, opts options) (*logsvc.Logger, error) {
	lo := logsvc.Options{Verbose: opts.verbose}
	if opts.tui && conf.Log.File == "" {
		// the terminal belongs to the UI
		if err := os.MkdirAll(conf.DataDir, 0o755); err != nil {
			return nil, errors.Wrap(err, "creating data directory")
		}
		lo.File = conf.DataFile(logFileName)
	}
	return logsvc.New(conf, lo)
}

func newDB(conf *core.Config, logger core.Logger) (*csvdb.DB, error) {
	dbOpts, err := csvdb.OptionsFromConfig(conf, logger)
	if err != nil {
		return nil, err
	}
	return csvdb.Open(conf.DataDir, dbOpts)
}

// newContainer returns the dependency injection container of the CSV backed application.
func newContainer(opts options) (*dig.Container, error) {
	c := dig.New()
	providers := []interface{}{
		func() options { return opts },
		newConfig,
		newLogger,
		func(l *logsvc.Logger) core.Logger { return l },
		newDB,
		func(db *csvdb.DB) core.Store { return db },
		csvdb.NewStudentRepository,
		csvdb.NewCourseRepository,
		csvdb.NewEnrollmentRepository,
		csvdb.NewAuditRepository,
		audit.NewService,
		func(svc *audit.Service) audit.Recorder { return svc },
		student.NewService,
		course.NewService,
		enrollment.RulesFromConfig,
		func(svc *student.Service) enrollment.StudentFinder { return svc },
		func(svc *course.Service) enrollment.CourseFinder { return svc },
		enrollment.NewService,
	}
	for _, p := range providers {
		if err := c.Provide(p); err != nil {
			return nil, errors.Wrap(err, "failed to provide dependency")
		}
	}
	return c, nil
}

// newApp builds the application on the CSV data directory and seeds the catalog when it is empty.
func newApp(ctx context.Context, opts options) (*app, error) {
	c, err := newContainer(opts)
	if err != nil {
		return nil, err
	}

	a := new(app)
	err = c.Invoke(func(
		conf *core.Config,
		logger *logsvc.Logger,
		db *csvdb.DB,
		students *student.Service,
		courses *course.Service,
		enrollments *enrollment.Service,
		history *audit.Service,
	) {
		*a = app{
			conf:        conf,
			logger:      logger,
			store:       db,
			dataFiles:   db.Files(),
			students:    students,
			courses:     courses,
			enrollments: enrollments,
			history:     history,
			closeFunc: func() {
				if err := db.Close(); err != nil {
					logger.Error("closing data store", err)
				}
				_ = logger.Sync()
			},
		}
	})
	if err != nil {
		return nil, dig.RootCause(err)
	}

	a.logger.Debug(fmt.Sprintf("application initializing : version %q", a.conf.Build),
		map[string]interface{}{"env": a.conf.Env, "data_dir": a.conf.DataDir})

	if a.conf.SeedCatalog {
		n, err := a.courses.SeedDefaults(ctx)
		if err != nil {
			a.close()
			return nil, err
		}
		if n > 0 {
			a.history.Record(ctx, audit.ActionCatalogSeeded, "", "", fmt.Sprintf("%d courses", n))
		}
	}
	return a, nil
}
