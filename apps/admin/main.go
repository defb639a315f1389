package main

import (
	"fmt"
	"log"
	"os"

	"github.com/trezcool/actios/core"
	"github.com/trezcool/actios/core/certificate"
	logsvc "github.com/trezcool/actios/services/logger"
	"github.com/trezcool/actios/storage/database"
	boiledrepos "github.com/trezcool/actios/storage/database/sqlboiler"
	sqlxrepos "github.com/trezcool/actios/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}
	if err = db.Ping(); err != nil {
		logger.Fatal(fmt.Sprintf("pinging database: %v", err), err)
	}

	// start CLI
	cli := commandLine{
		db: db,
		certSvc: certificate.NewService(
			sqlxrepos.NewCertificateRepository(database.NewSqlx(db, conf)),
			boiledrepos.NewCatalogStore(db),
			nil, /* notifier */
			conf,
		),
		out: os.Stdout,
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %v", err), err)
		}
		os.Exit(1)
	}
}
