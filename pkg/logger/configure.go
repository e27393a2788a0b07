package logger

import (
	"os"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

func Configure(level zerolog.Level) {
	zerolog.TimeFieldFormat = time.DateTime
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	file := &lumberjack.Logger{
		Filename:   "logs/eatinator.log",
		MaxSize:    10,
		MaxBackups: 5,
		MaxAge:     14,
		Compress:   true,
	}
	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.DateTime,
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(console, file)).
		With().
		Timestamp().
		Logger().
		Level(level)
}
