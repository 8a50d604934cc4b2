package database

import (
	"log"
	"os"

	"gorm.io/gorm/logger"
)

// newORMLogger routes gorm output through the standard logger with a [DB]: prefix
func newORMLogger(dbconfig *DBConfig) logger.Interface {
	return logger.New(
		log.New(os.Stdout, "[DB]: ", log.LstdFlags),
		logger.Config{
			SlowThreshold:             dbconfig.SlowThreshold,
			LogLevel:                  dbconfig.LogLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
