package errors

import (
	stderrors "errors"
	"log/slog"
	"sort"
)

// LogAttrs returns the attributes to log err with: the message, and for an
// AppError its type and context keys in sorted order.
func LogAttrs(err error) []slog.Attr {
	if err == nil {
		return nil
	}
	attrs := []slog.Attr{slog.String("error", err.Error())}

	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return attrs
	}
	attrs = append(attrs, slog.String("error_type", string(appErr.Type)))

	keys := make([]string, 0, len(appErr.Context))
	for k := range appErr.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, appErr.Context[k]))
	}
	return attrs
}
