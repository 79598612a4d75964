package main

import (
	"log"
	"os"

	"github.com/alyusr/institute/core"
	"github.com/alyusr/institute/core/review"
	"github.com/alyusr/institute/core/session"
	"github.com/alyusr/institute/core/user"
	inmemdb "github.com/alyusr/institute/storage/database/inmem"
	"github.com/alyusr/institute/storage/database/postgres"
	"github.com/alyusr/institute/storage/database/redisdb"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.LoadConfig()

	usrRepo, reviewRepo, err := openRepositories(conf)
	errAndDie(err)

	creds := session.Chain{
		session.NewStaticProvider(session.DefaultStaticAccounts),
		session.NewStoreProvider(usrRepo),
	}
	sessions := session.NewManager(creds, session.NewFileStore(conf.SessionFile, conf.SecretKey))
	sessions.Restore()

	// start CLI
	cli := commandLine{
		usrRepo:   usrRepo,
		reviewSvc: review.NewService(reviewRepo),
		sessions:  sessions,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func openRepositories(conf *core.Config) (user.Repository, review.Repository, error) {
	switch conf.Database.Engine {
	case "redis":
		client, err := redisdb.Open(conf)
		if err != nil {
			return nil, nil, err
		}
		return redisdb.NewUserRepository(client), redisdb.NewReviewRepository(client), nil
	case "postgres":
		db, err := postgres.Open(conf)
		if err != nil {
			return nil, nil, err
		}
		if err = postgres.Ping(db); err != nil {
			return nil, nil, err
		}
		// reviews stay on the in-memory store under this engine
		mem, err := inmemdb.Open()
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewUserRepository(db), inmemdb.NewReviewRepository(mem), nil
	default:
		mem, err := inmemdb.Open()
		if err != nil {
			return nil, nil, err
		}
		return inmemdb.NewUserRepository(mem), inmemdb.NewReviewRepository(mem), nil
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
