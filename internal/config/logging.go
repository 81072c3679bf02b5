package config

import (
	"io"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogging points the standard logger and gin's request log at stdout and,
// when LOG_FILE is set, at a size-rotated file as well.
func SetupLogging(cfg *Config) io.Closer {
	if cfg.LogFile == "" {
		return io.NopCloser(nil)
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
	}
	out := io.MultiWriter(os.Stdout, rotator)

	log.SetOutput(out)
	gin.DefaultWriter = out
	gin.DefaultErrorWriter = out
	return rotator
}
