package ports

import "context"

// Logger — минимальный контракт логгера для внешних слоёв.
// Контекст нужен реализации, чтобы дописать request_id/trace_id.
type Logger interface {
	Debugf(ctx context.Context, format string, args ...any) // Debugf — отладочные сообщения (расчёты без побочных эффектов).
	Infof(ctx context.Context, format string, args ...any)  // Infof — информационные сообщения.
	Warnf(ctx context.Context, format string, args ...any)  // Warnf — отказы и предупреждения.
	Errorf(ctx context.Context, format string, args ...any) // Errorf — сбои внешних сервисов.
}
