package logger

import (
	"context"
	"os"

	"github.com/Gunvolt24/wb_tickets/internal/ports"
	"github.com/Gunvolt24/wb_tickets/pkg/ctxmeta"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Проверка, что ZapLogger удовлетворяет интерфейсу ports.Logger.
var _ ports.Logger = (*ZapLogger)(nil)

type ZapLogger struct {
	base  *zap.Logger
	sugar *zap.SugaredLogger
}

// Options — параметры логгера.
type Options struct {
	IsProd bool   // JSON и уровень info; иначе консоль и debug
	File   string // путь к файлу с ротацией; пусто — только stdout
}

// NewZapLogger — логгер в stdout и (опционально) в файл с ротацией через lumberjack.
// Возвращает функцию сброса буферов.
func NewZapLogger(opts Options) (*ZapLogger, func() error, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	level := zap.InfoLevel
	if !opts.IsProd {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		level = zap.DebugLevel
	}
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	encoder := zapcore.NewJSONEncoder(encoderConfig)
	if !opts.IsProd {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	cores := []zapcore.Core{zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level)}

	var rotator *lumberjack.Logger
	if opts.File != "" {
		rotator = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // MB
			MaxBackups: 7,
			MaxAge:     28, // дней
			Compress:   true,
		}
		// в файл всегда JSON
		fileEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		cores = append(cores, zapcore.NewCore(fileEncoder, zapcore.AddSync(rotator), level))
	}

	loggerWrap := newZapLogger(zapcore.NewTee(cores...))

	cleanup := func() error {
		_ = loggerWrap.base.Sync()
		if rotator != nil {
			return rotator.Close()
		}
		return nil
	}
	return loggerWrap, cleanup, nil
}

func newZapLogger(core zapcore.Core) *ZapLogger {
	logger := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	return &ZapLogger{base: logger, sugar: logger.Sugar()}
}

// withContext — поля request_id, account_id и trace_id из контекста.
func (z *ZapLogger) withContext(ctx context.Context) *zap.SugaredLogger {
	if ctx == nil {
		return z.sugar
	}
	fields := make([]any, 0, 6)
	if id, ok := ctxmeta.RequestIDFromContext(ctx); ok {
		fields = append(fields, "request_id", id)
	}
	if id, ok := ctxmeta.AccountIDFromContext(ctx); ok {
		fields = append(fields, "account_id", id)
	}
	if id, ok := ctxmeta.TraceIDFromContext(ctx); ok {
		fields = append(fields, "trace_id", id)
	}
	if len(fields) == 0 {
		return z.sugar
	}
	return z.sugar.With(fields...)
}

func (z *ZapLogger) Debugf(ctx context.Context, format string, args ...any) {
	z.withContext(ctx).Debugf(format, args...)
}
func (z *ZapLogger) Infof(ctx context.Context, format string, args ...any) {
	z.withContext(ctx).Infof(format, args...)
}
func (z *ZapLogger) Warnf(ctx context.Context, format string, args ...any) {
	z.withContext(ctx).Warnf(format, args...)
}
func (z *ZapLogger) Errorf(ctx context.Context, format string, args ...any) {
	z.withContext(ctx).Errorf(format, args...)
}
