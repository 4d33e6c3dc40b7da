package wml

import "go.uber.org/zap"

var logger = zap.NewNop().Sugar()

//SetLogger routes the package logs to l. A nil logger silences them.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l.Sugar()
}
