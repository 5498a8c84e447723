package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger printf-логгер поверх zerolog
// Сохраняет привычный интерфейс Info/Warn/Error(format, v...), но пишет структурированный JSON
type Logger struct {
	zl     zerolog.Logger
	closer io.Closer
}

// New создает логгер
// Если file пустой - пишем в stdout, иначе дописываем в файл
// Неизвестный level трактуется как info
func New(file string, level string) (*Logger, error) {
	output := io.Writer(os.Stdout)
	var closer io.Closer

	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		output = f
		closer = f
	}

	l := NewWithWriter(output, level)
	l.closer = closer
	return l, nil
}

// NewWithWriter создает логгер с произвольным writer (используется в тестах)
func NewWithWriter(w io.Writer, level string) *Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	zl := zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("service", "shareit").
		Logger()

	return &Logger{zl: zl}
}

// Nop логгер, который ничего не пишет
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func (l *Logger) Debug(format string, v ...interface{}) {
	l.zl.Debug().Msgf(format, v...)
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.zl.Info().Msgf(format, v...)
}

func (l *Logger) Warn(format string, v ...interface{}) {
	l.zl.Warn().Msgf(format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.zl.Error().Msgf(format, v...)
}

// Fatal пишет сообщение и завершает процесс
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.zl.Fatal().Msgf(format, v...)
}

// Close закрывает файл лога, если он был открыт
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
